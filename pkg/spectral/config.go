// Package spectral provides the windowed-FFT analysis engine: power
// spectra and rolling spectrograms over snapshots of the sample buffer,
// with frequency-domain clipping and peak extraction.
package spectral

import "fmt"

// Analysis parameter ranges, enforced at configuration time.
const (
	MinSampleRate   = 100
	MaxSampleRate   = 100000
	MinWindowLength = 64
	MaxWindowLength = 2048
	MinMaxFrequency = 10
	MaxMaxFrequency = 20000
)

// Config is an immutable analysis configuration value passed into each
// call, so one process can run multiple independent analysis sessions.
type Config struct {
	// SampleRate is the sampling rate in Hz used to scale the frequency axis.
	SampleRate int `mapstructure:"sample_rate"`
	// WindowLength is the FFT window length in samples.
	WindowLength int `mapstructure:"window_length"`
	// Overlap is the per-segment overlap in samples; 0 means WindowLength/2.
	Overlap int `mapstructure:"overlap"`
	// MaxFrequency clips the frequency axis when within (0, Nyquist];
	// out-of-range values disable clipping rather than erroring.
	MaxFrequency float64 `mapstructure:"max_frequency"`
	// UnitScale divides raw sample values before analysis; presentation
	// only, defaults to 1. Raw integers remain the system of record.
	UnitScale float64 `mapstructure:"unit_scale"`
}

// Validate rejects out-of-range analysis parameters. Transient data
// conditions are never validation concerns; this covers configuration only.
func (c Config) Validate() error {
	if c.SampleRate < MinSampleRate || c.SampleRate > MaxSampleRate {
		return fmt.Errorf("sample rate %d Hz outside [%d, %d]",
			c.SampleRate, MinSampleRate, MaxSampleRate)
	}
	if c.WindowLength < MinWindowLength || c.WindowLength > MaxWindowLength {
		return fmt.Errorf("window length %d outside [%d, %d]",
			c.WindowLength, MinWindowLength, MaxWindowLength)
	}
	if c.Overlap < 0 || c.Overlap >= c.WindowLength {
		return fmt.Errorf("overlap %d must be in [0, window length)", c.Overlap)
	}
	if c.MaxFrequency != 0 &&
		(c.MaxFrequency < MinMaxFrequency || c.MaxFrequency > MaxMaxFrequency) {
		return fmt.Errorf("max frequency %.1f Hz outside [%d, %d]",
			c.MaxFrequency, MinMaxFrequency, MaxMaxFrequency)
	}
	return nil
}

// hop returns the segment step, defaulting overlap to half a window.
func (c Config) hop() int {
	overlap := c.Overlap
	if overlap == 0 {
		overlap = c.WindowLength / 2
	}
	return c.WindowLength - overlap
}

// unitScale returns the effective presentation scale.
func (c Config) unitScale() float64 {
	if c.UnitScale == 0 {
		return 1
	}
	return c.UnitScale
}

// Nyquist returns half the sampling rate, the highest representable
// frequency.
func (c Config) Nyquist() float64 {
	return float64(c.SampleRate) / 2
}

// clipLimit returns the frequency cutoff, or ok=false when MaxFrequency
// is outside (0, Nyquist] and the optional constraint is disabled.
func (c Config) clipLimit() (float64, bool) {
	if c.MaxFrequency > 0 && c.MaxFrequency <= c.Nyquist() {
		return c.MaxFrequency, true
	}
	return 0, false
}
