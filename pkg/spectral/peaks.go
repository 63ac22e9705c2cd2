package spectral

import "sort"

// Peak extraction defaults.
const (
	DefaultThresholdRatio = 0.1
	DefaultPeakCount      = 10
)

// Peak is one local maximum of a magnitude or power spectrum.
type Peak struct {
	Bin       int     `json:"bin"`
	Frequency float64 `json:"frequency"` // Hz
	Magnitude float64 `json:"magnitude"`
}

// FindPeaks returns the interior local maxima of spectrum that exceed
// thresholdRatio times the global maximum, sorted descending by
// magnitude. The first and last bins cannot have two neighbors and are
// never peaks. A flat or monotonic spectrum yields an empty list, a
// valid outcome, not an error.
//
// The threshold is a fraction of the per-call global maximum, so the
// absolute cutoff tracks signal scale automatically.
func FindPeaks(spectrum, freqs []float64, thresholdRatio float64) []Peak {
	if len(spectrum) < 3 {
		return nil
	}
	if thresholdRatio <= 0 {
		thresholdRatio = DefaultThresholdRatio
	}

	max := spectrum[0]
	for _, m := range spectrum[1:] {
		if m > max {
			max = m
		}
	}
	threshold := thresholdRatio * max

	var peaks []Peak
	for i := 1; i < len(spectrum)-1; i++ {
		m := spectrum[i]
		if m > spectrum[i-1] && m > spectrum[i+1] && m > threshold {
			p := Peak{Bin: i, Magnitude: m}
			if i < len(freqs) {
				p.Frequency = freqs[i]
			}
			peaks = append(peaks, p)
		}
	}

	sort.Slice(peaks, func(i, j int) bool {
		return peaks[i].Magnitude > peaks[j].Magnitude
	})
	return peaks
}

// FindSpectrumPeaks runs FindPeaks over an analysis result.
func FindSpectrumPeaks(s *Spectrum, thresholdRatio float64) []Peak {
	return FindPeaks(s.Power, s.Frequencies, thresholdRatio)
}

// TopPeaks bounds a peak list to the n strongest entries. n <= 0 uses
// the default reporting count.
func TopPeaks(peaks []Peak, n int) []Peak {
	if n <= 0 {
		n = DefaultPeakCount
	}
	if len(peaks) <= n {
		return peaks
	}
	return peaks[:n]
}
