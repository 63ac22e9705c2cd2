// Package sample defines the timestamped sample type produced by the byte
// decoder, the bounded ring buffer shared between the acquisition producer
// and the analysis consumer, the recording session, and the timestamp-based
// sampling-rate estimator.
package sample

// Sample is one decoded integer from the byte stream, tagged with the
// monotonic wall-clock time of consumption in seconds. Samples are
// immutable once produced.
//
// Value is the raw decoded integer and is the system of record; any
// physical-unit scaling is a presentation-only transform applied by the
// analysis layer.
type Sample struct {
	Timestamp float64
	Value     int64
}

// Values extracts the raw integer values as float64 for numeric analysis.
// A non-unit scale converts raw counts to physical units for display.
func Values(samples []Sample, scale float64) []float64 {
	if scale == 0 {
		scale = 1
	}
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = float64(s.Value) / scale
	}
	return out
}

// Timestamps extracts the timestamp sequence in arrival order.
func Timestamps(samples []Sample) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = s.Timestamp
	}
	return out
}
