package spectral

import (
	"errors"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/stat"

	"github.com/uartscope/uartscope/pkg/logging"
	"github.com/uartscope/uartscope/pkg/sample"
)

// ErrInsufficientData signals that the snapshot holds fewer samples than
// one analysis window. It is a normal transient state while the buffer
// fills, not a failure; the consumer tick bails out and retries later.
var ErrInsufficientData = errors.New("insufficient data for analysis window")

// epsilon added before the log10 conversion to avoid -Inf at zero power.
const dbEpsilon = 1e-10

// SpectrogramFrame is a rolling time-frequency representation. It is
// regenerated in full on every analysis call; stale frames are discarded
// wholesale, never patched.
type SpectrogramFrame struct {
	Frequencies []float64   `json:"frequencies"` // Hz, ascending
	Times       []float64   `json:"times"`       // seconds, ascending (segment centers)
	Power       [][]float64 `json:"power"`       // dB/Hz, indexed [frequency][time]

	SampleRate     int     `json:"sample_rate"`
	WindowLength   int     `json:"window_length"`
	HopSize        int     `json:"hop_size"`
	FreqResolution float64 `json:"freq_resolution"` // Hz per bin
}

// Spectrum is a single-spectrum analysis result: Welch-style mean of the
// per-segment power spectral densities, in linear power.
type Spectrum struct {
	Frequencies []float64 `json:"frequencies"` // Hz, ascending
	Power       []float64 `json:"power"`       // linear PSD

	SampleRate     int     `json:"sample_rate"`
	FreqResolution float64 `json:"freq_resolution"`
}

// Analyzer runs windowed-FFT analysis over sample snapshots.
type Analyzer struct {
	logger logging.Logger
}

// NewAnalyzer creates a spectral analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		logger: logging.WithFields(logging.Fields{
			"component": "spectral_analyzer",
		}),
	}
}

// Spectrogram computes the time-frequency representation of values:
// DC removal, Hann-windowed overlapping segments, magnitude-squared FFT
// scaled to power spectral density, decibel conversion, and frequency
// clipping to cfg.MaxFrequency when it lies within (0, Nyquist].
func (a *Analyzer) Spectrogram(values []float64, cfg Config) (*SpectrogramFrame, error) {
	segments, freqs, hop, err := a.segmentPSD(values, cfg)
	if err != nil {
		return nil, err
	}

	nFreq := len(freqs)
	nTime := len(segments)

	times := make([]float64, nTime)
	for t := range times {
		times[t] = (float64(t*hop) + float64(cfg.WindowLength)/2) / float64(cfg.SampleRate)
	}

	// Transpose to [frequency][time] and convert to dB.
	power := make([][]float64, nFreq)
	for f := 0; f < nFreq; f++ {
		power[f] = make([]float64, nTime)
		for t := 0; t < nTime; t++ {
			power[f][t] = toDB(segments[t][f])
		}
	}

	frame := &SpectrogramFrame{
		Frequencies:    freqs,
		Times:          times,
		Power:          power,
		SampleRate:     cfg.SampleRate,
		WindowLength:   cfg.WindowLength,
		HopSize:        hop,
		FreqResolution: float64(cfg.SampleRate) / float64(cfg.WindowLength),
	}

	a.logger.Debug("spectrogram computed", logging.Fields{
		"time_frames": nTime,
		"freq_bins":   nFreq,
		"hop_size":    hop,
	})

	return frame, nil
}

// PowerSpectrum computes a single spectrum: the mean of the per-segment
// power spectral densities (linear power, not dB).
func (a *Analyzer) PowerSpectrum(values []float64, cfg Config) (*Spectrum, error) {
	segments, freqs, _, err := a.segmentPSD(values, cfg)
	if err != nil {
		return nil, err
	}

	power := make([]float64, len(freqs))
	for _, seg := range segments {
		for i, p := range seg {
			power[i] += p
		}
	}
	for i := range power {
		power[i] /= float64(len(segments))
	}

	return &Spectrum{
		Frequencies:    freqs,
		Power:          power,
		SampleRate:     cfg.SampleRate,
		FreqResolution: float64(cfg.SampleRate) / float64(cfg.WindowLength),
	}, nil
}

// AnalyzeSamples is PowerSpectrum over a sample snapshot, applying the
// configured presentation scale.
func (a *Analyzer) AnalyzeSamples(samples []sample.Sample, cfg Config) (*Spectrum, error) {
	return a.PowerSpectrum(sample.Values(samples, cfg.unitScale()), cfg)
}

// SpectrogramSamples is Spectrogram over a sample snapshot.
func (a *Analyzer) SpectrogramSamples(samples []sample.Sample, cfg Config) (*SpectrogramFrame, error) {
	return a.Spectrogram(sample.Values(samples, cfg.unitScale()), cfg)
}

// segmentPSD runs the shared pipeline: DC removal, segmentation, Hann
// windowing, one-sided density-scaled PSD per segment, frequency clipping.
// Returns per-segment PSDs indexed [time][frequency].
func (a *Analyzer) segmentPSD(values []float64, cfg Config) (segments [][]float64, freqs []float64, hop int, err error) {
	if len(values) < cfg.WindowLength {
		return nil, nil, 0, ErrInsufficientData
	}

	// DC removal: subtract the arithmetic mean over the whole snapshot.
	mean := stat.Mean(values, nil)
	detrended := make([]float64, len(values))
	for i, v := range values {
		detrended[i] = v - mean
	}

	hop = cfg.hop()
	coeffs, windowEnergy := hannWindow(cfg.WindowLength)
	nSegments := (len(detrended)-cfg.WindowLength)/hop + 1

	// One-sided spectrum: only non-negative frequencies exist for a
	// real-valued signal; nothing above Nyquist is ever produced.
	nBins := cfg.WindowLength/2 + 1
	densityScale := 1 / (float64(cfg.SampleRate) * windowEnergy)

	full := make([]float64, nBins)
	for k := range full {
		full[k] = float64(k) * float64(cfg.SampleRate) / float64(cfg.WindowLength)
	}

	keep := nBins
	if limit, ok := cfg.clipLimit(); ok {
		keep = 0
		for _, f := range full {
			if f > limit {
				break
			}
			keep++
		}
	}
	freqs = full[:keep]

	windowed := make([]float64, cfg.WindowLength)
	segments = make([][]float64, 0, nSegments)
	for s := 0; s < nSegments; s++ {
		start := s * hop
		for i := 0; i < cfg.WindowLength; i++ {
			windowed[i] = detrended[start+i] * coeffs[i]
		}

		spectrum := fft.FFTReal(windowed)

		psd := make([]float64, keep)
		for k := 0; k < keep; k++ {
			mag := cmplx.Abs(spectrum[k])
			p := mag * mag * densityScale
			// Fold negative-frequency energy into interior bins.
			if k != 0 && k != cfg.WindowLength/2 {
				p *= 2
			}
			psd[k] = p
		}
		segments = append(segments, psd)
	}

	return segments, freqs, hop, nil
}

// toDB converts linear power to decibels with a floor at the epsilon.
func toDB(power float64) float64 {
	return 10 * math.Log10(power+dbEpsilon)
}
