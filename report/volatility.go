package report

import "math"

const (
	// minimumMove is the smallest fractional move considered a
	// volatility event.
	minimumMove = 0.005
)

// bucket represents a volatility magnitude bucket.
type bucket struct {
	min   float64
	max   float64
	label string
}

// buckets are the volatility magnitude buckets events are counted into.
var buckets = []bucket{
	{0.005, 0.006, "0.5% - 0.6%"},
	{0.006, 0.007, "0.6% - 0.7%"},
	{0.007, 0.008, "0.7% - 0.8%"},
	{0.008, 0.009, "0.8% - 0.9%"},
	{0.009, 0.010, "0.9% - 1.0%"},
	{0.010, 0.015, "1.0% - 1.5%"},
	{0.015, 0.020, "1.5% - 2.0%"},
	{0.020, math.Inf(1), "> 2.0%"},
}

// BucketCount represents the pump and dump event counts for one
// volatility bucket.
type BucketCount struct {
	Label string
	Pumps int
	Dumps int
}

// AnalyzeVolatility buckets the rolling returns with a magnitude of at
// least half a percent into pump and dump counts. A nil result means no
// events were found.
func AnalyzeVolatility(returns []float64) []BucketCount {
	counts := make([]BucketCount, len(buckets))
	for idx := range buckets {
		counts[idx].Label = buckets[idx].label
	}

	events := 0
	for _, ret := range returns {
		if math.IsNaN(ret) || math.Abs(ret) < minimumMove {
			continue
		}

		for idx := range buckets {
			if math.Abs(ret) >= buckets[idx].min && math.Abs(ret) < buckets[idx].max {
				if ret > 0 {
					counts[idx].Pumps++
				} else {
					counts[idx].Dumps++
				}
				events++
				break
			}
		}
	}

	if events == 0 {
		return nil
	}

	return counts
}

// totals sums the pump and dump counts across all buckets.
func totals(counts []BucketCount) (pumps int, dumps int) {
	for idx := range counts {
		pumps += counts[idx].Pumps
		dumps += counts[idx].Dumps
	}

	return pumps, dumps
}
