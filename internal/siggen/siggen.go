// Package siggen produces a synthetic test signal for exercising the
// analysis pipeline without hardware: a few sinusoid components, Gaussian
// noise, and short exponentially-decaying transients, quantized to 80% of
// int16 full scale.
package siggen

import (
	"math"
	"math/rand"

	"github.com/uartscope/uartscope/pkg/sample"
)

// Component is one sinusoid of the composite signal.
type Component struct {
	Frequency float64 // Hz
	Amplitude float64 // relative, before normalization
}

// Config describes the generated signal.
type Config struct {
	SampleRate int     // Hz
	Duration   float64 // seconds
	Components []Component
	// NoiseAmplitude is the standard deviation of the added Gaussian
	// noise, relative to the component amplitudes.
	NoiseAmplitude float64
	// TransientTimes are offsets in seconds where a short decaying burst
	// is injected.
	TransientTimes []float64
	// Seed makes the noise reproducible; 0 uses a fixed default.
	Seed int64
	// StartTime is the timestamp of the first sample in seconds.
	StartTime float64
}

// Transient shaping: 100 ms bursts with a 50 ms decay constant.
const (
	transientDuration = 0.1
	transientDecay    = 0.05
	transientAmp      = 0.5
)

// fullScaleHeadroom leaves margin below int16 full scale.
const fullScaleHeadroom = 0.8

// DefaultConfig mirrors the reference test tone: an A note with two
// harmonics, a low-frequency component, light noise, and four transients.
func DefaultConfig() Config {
	return Config{
		SampleRate: 8000,
		Duration:   10,
		Components: []Component{
			{Frequency: 440, Amplitude: 0.3},
			{Frequency: 880, Amplitude: 0.2},
			{Frequency: 1320, Amplitude: 0.15},
			{Frequency: 200, Amplitude: 0.1},
		},
		NoiseAmplitude: 0.05,
		TransientTimes: []float64{2.0, 4.5, 7.0, 9.0},
		Seed:           1,
	}
}

// Generate renders the configured signal as timestamped samples with
// int16-range integer values, synthetically clocked at the exact rate.
func Generate(cfg Config) []sample.Sample {
	n := int(float64(cfg.SampleRate) * cfg.Duration)
	if n <= 0 {
		return nil
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = 1
	}
	rng := rand.New(rand.NewSource(seed))

	signal := make([]float64, n)
	for i := range signal {
		t := float64(i) / float64(cfg.SampleRate)
		for _, c := range cfg.Components {
			signal[i] += c.Amplitude * math.Sin(2*math.Pi*c.Frequency*t)
		}
		if cfg.NoiseAmplitude > 0 {
			signal[i] += cfg.NoiseAmplitude * rng.NormFloat64()
		}
	}

	for _, at := range cfg.TransientTimes {
		start := int(at * float64(cfg.SampleRate))
		if start < 0 || start >= n {
			continue
		}
		end := start + int(transientDuration*float64(cfg.SampleRate))
		if end > n {
			end = n
		}
		for i := start; i < end; i++ {
			elapsed := float64(i-start) / float64(cfg.SampleRate)
			signal[i] += transientAmp * math.Exp(-elapsed/transientDecay)
		}
	}

	peak := 0.0
	for _, v := range signal {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	scale := 1.0
	if peak > 0 {
		scale = fullScaleHeadroom * math.MaxInt16 / peak
	}

	samples := make([]sample.Sample, n)
	for i, v := range signal {
		samples[i] = sample.Sample{
			Timestamp: cfg.StartTime + float64(i)/float64(cfg.SampleRate),
			Value:     int64(math.Round(v * scale)),
		}
	}
	return samples
}
