package report

import (
	"math"
	"testing"

	"github.com/peterldowns/testy/assert"
)

func TestAnalyzeVolatility(t *testing.T) {
	returns := []float64{
		math.NaN(),    // no lookback.
		0.004,         // below the event threshold.
		-0.004,        // below the event threshold.
		0.0055,        // pump, first bucket.
		-0.0055,       // dump, first bucket.
		0.0095,        // pump, fifth bucket.
		0.012, -0.012, // pump and dump, sixth bucket.
		0.05, // pump, overflow bucket.
	}

	counts := AnalyzeVolatility(returns)
	assert.Equal(t, len(counts), 8)

	assert.Equal(t, counts[0].Label, "0.5% - 0.6%")
	assert.Equal(t, counts[0].Pumps, 1)
	assert.Equal(t, counts[0].Dumps, 1)

	assert.Equal(t, counts[4].Pumps, 1)
	assert.Equal(t, counts[4].Dumps, 0)

	assert.Equal(t, counts[5].Pumps, 1)
	assert.Equal(t, counts[5].Dumps, 1)

	assert.Equal(t, counts[7].Label, "> 2.0%")
	assert.Equal(t, counts[7].Pumps, 1)

	pumps, dumps := totals(counts)
	assert.Equal(t, pumps, 4)
	assert.Equal(t, dumps, 2)
}

func TestAnalyzeVolatilityBucketEdges(t *testing.T) {
	// Ensure a move exactly on a bucket boundary lands in the upper
	// bucket.
	counts := AnalyzeVolatility([]float64{0.006})
	assert.Equal(t, counts[0].Pumps, 0)
	assert.Equal(t, counts[1].Pumps, 1)

	// Ensure the threshold itself is an event.
	counts = AnalyzeVolatility([]float64{0.005})
	assert.Equal(t, counts[0].Pumps, 1)
}

func TestAnalyzeVolatilityNoEvents(t *testing.T) {
	// Ensure quiet series yield no counts at all.
	assert.Equal(t, len(AnalyzeVolatility([]float64{0.001, -0.002, math.NaN()})), 0)
	assert.Equal(t, len(AnalyzeVolatility(nil)), 0)
}
