package spectral

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// PowerDB returns the spectrum power converted to decibels.
func (s *Spectrum) PowerDB() []float64 {
	out := make([]float64, len(s.Power))
	for i, p := range s.Power {
		out[i] = toDB(p)
	}
	return out
}

// SNREstimate returns a rough signal-to-noise figure in dB: the ratio of
// the strongest PSD bin to the mean PSD across all bins.
func (s *Spectrum) SNREstimate() float64 {
	if len(s.Power) == 0 {
		return 0
	}
	peak := 0.0
	for _, p := range s.Power {
		if p > peak {
			peak = p
		}
	}
	noise := stat.Mean(s.Power, nil)
	if noise <= 0 || peak <= 0 {
		return 0
	}
	return 10 * math.Log10(peak/noise)
}

// SignalStats summarizes a time-domain sample sequence for diagnostics.
type SignalStats struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
}

// ComputeSignalStats returns basic statistics over raw values.
func ComputeSignalStats(values []float64) SignalStats {
	if len(values) == 0 {
		return SignalStats{}
	}
	s := SignalStats{
		Count: len(values),
		Min:   values[0],
		Max:   values[0],
		Mean:  stat.Mean(values, nil),
	}
	for _, v := range values {
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
	}
	if len(values) > 1 {
		s.StdDev = stat.StdDev(values, nil)
	}
	return s
}
