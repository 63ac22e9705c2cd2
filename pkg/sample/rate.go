package sample

// EstimateRate derives the effective sampling rate in Hz from arrival
// timestamps. It takes the arithmetic mean of consecutive deltas,
// excluding any delta <= 0, since clocks are not guaranteed monotonic across
// samples and duplicate timestamps must not poison the estimate. Returns
// 0 when fewer than 2 valid deltas exist.
//
// This is a display/diagnostic figure, not a real-time clock source; a
// simple mean tolerates ordinary jitter well enough for that purpose.
func EstimateRate(timestamps []float64) float64 {
	var sum float64
	var valid int
	for i := 1; i < len(timestamps); i++ {
		d := timestamps[i] - timestamps[i-1]
		if d <= 0 {
			continue
		}
		sum += d
		valid++
	}
	if valid < 2 {
		return 0
	}
	mean := sum / float64(valid)
	return 1 / mean
}

// EstimateRateSamples is EstimateRate over a sample sequence.
func EstimateRateSamples(samples []Sample) float64 {
	return EstimateRate(Timestamps(samples))
}
