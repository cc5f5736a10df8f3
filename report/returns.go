package report

import (
	"math"

	"github.com/Nils-Coding/orderflow-dashboard/shared"
)

// RollingReturns computes the fractional change of each candle's close
// against the close n buckets earlier. Entries without a full lookback are
// NaN.
func RollingReturns(candles []shared.Candlestick, n int) []float64 {
	returns := make([]float64, len(candles))

	for idx := range candles {
		if idx < n || candles[idx-n].Close == 0 {
			returns[idx] = math.NaN()
			continue
		}

		returns[idx] = candles[idx].Close/candles[idx-n].Close - 1
	}

	return returns
}
