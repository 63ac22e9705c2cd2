package configs

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/uartscope/uartscope/pkg/acquire"
	"github.com/uartscope/uartscope/pkg/decode"
	"github.com/uartscope/uartscope/pkg/spectral"
)

// Config represents the application configuration
type Config struct {
	// Application settings
	Verbose      bool   `mapstructure:"verbose" yaml:"verbose"`
	LogLevel     string `mapstructure:"log_level" yaml:"log_level"`
	OutputFormat string `mapstructure:"output_format" yaml:"output_format"`
	DataDir      string `mapstructure:"data_dir" yaml:"data_dir"`

	// Serial link configuration
	Serial SerialConfig `mapstructure:"serial" yaml:"serial"`

	// Sample decoding configuration
	Decode DecodeConfig `mapstructure:"decode" yaml:"decode"`

	// Acquisition buffer configuration
	Buffer BufferConfig `mapstructure:"buffer" yaml:"buffer"`

	// Spectral analysis configuration
	Analysis AnalysisConfig `mapstructure:"analysis" yaml:"analysis"`

	// Live monitor configuration
	Monitor MonitorConfig `mapstructure:"monitor" yaml:"monitor"`

	// Output configuration
	Output OutputConfig `mapstructure:"output" yaml:"output"`
}

// SerialConfig contains serial port settings
type SerialConfig struct {
	Port        string        `mapstructure:"port" yaml:"port"`
	BaudRate    int           `mapstructure:"baud_rate" yaml:"baud_rate"`
	DataBits    int           `mapstructure:"data_bits" yaml:"data_bits"`
	Parity      string        `mapstructure:"parity" yaml:"parity"`
	StopBits    int           `mapstructure:"stop_bits" yaml:"stop_bits"`
	ReadTimeout time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
}

// DecodeConfig contains sample frame decoding settings
type DecodeConfig struct {
	Width     int    `mapstructure:"width" yaml:"width"`
	Signed    bool   `mapstructure:"signed" yaml:"signed"`
	ByteOrder string `mapstructure:"byte_order" yaml:"byte_order"`
}

// BufferConfig contains acquisition buffer settings
type BufferConfig struct {
	Capacity int `mapstructure:"capacity" yaml:"capacity"`
}

// AnalysisConfig contains spectral analysis settings
type AnalysisConfig struct {
	SampleRate     int     `mapstructure:"sample_rate" yaml:"sample_rate"`
	WindowLength   int     `mapstructure:"window_length" yaml:"window_length"`
	Overlap        int     `mapstructure:"overlap" yaml:"overlap"`
	MaxFrequency   float64 `mapstructure:"max_frequency" yaml:"max_frequency"`
	UnitScale      float64 `mapstructure:"unit_scale" yaml:"unit_scale"`
	ThresholdRatio float64 `mapstructure:"threshold_ratio" yaml:"threshold_ratio"`
	PeakCount      int     `mapstructure:"peak_count" yaml:"peak_count"`
}

// MonitorConfig contains live monitor settings
type MonitorConfig struct {
	Interval    time.Duration `mapstructure:"interval" yaml:"interval"`
	Spectrogram bool          `mapstructure:"spectrogram" yaml:"spectrogram"`
}

// OutputConfig contains output formatting settings
type OutputConfig struct {
	Precision  int  `mapstructure:"precision" yaml:"precision"`
	Timestamps bool `mapstructure:"timestamps" yaml:"timestamps"`
}

// LoadConfig loads configuration from viper
func LoadConfig() (*Config, error) {
	config := &Config{}

	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode configuration: %w", err)
	}

	return config, nil
}

// ValidateConfig validates the configuration
func ValidateConfig(config *Config) error {
	if config.Serial.BaudRate <= 0 {
		return fmt.Errorf("serial baud rate must be positive")
	}

	if err := config.Decode.Decoder().Validate(); err != nil {
		return err
	}

	if config.Buffer.Capacity <= 0 {
		return fmt.Errorf("buffer capacity must be positive")
	}

	if err := config.Analysis.Spectral().Validate(); err != nil {
		return err
	}

	if config.Analysis.ThresholdRatio < 0 || config.Analysis.ThresholdRatio > 1 {
		return fmt.Errorf("peak threshold ratio must be between 0 and 1")
	}

	if config.Monitor.Interval <= 0 {
		return fmt.Errorf("monitor interval must be positive")
	}

	return nil
}

// Decoder converts the decode section into a frame decoder configuration.
func (c DecodeConfig) Decoder() decode.Config {
	return decode.Config{
		Width:     c.Width,
		Signed:    c.Signed,
		ByteOrder: decode.ByteOrder(c.ByteOrder),
	}
}

// Spectral converts the analysis section into an analyzer configuration.
func (c AnalysisConfig) Spectral() spectral.Config {
	return spectral.Config{
		SampleRate:   c.SampleRate,
		WindowLength: c.WindowLength,
		Overlap:      c.Overlap,
		MaxFrequency: c.MaxFrequency,
		UnitScale:    c.UnitScale,
	}
}

// Acquire converts the buffer, monitor, and analysis sections into
// acquisition pipeline options.
func (c *Config) Acquire() acquire.Options {
	return acquire.Options{
		BufferCapacity:  c.Buffer.Capacity,
		Interval:        c.Monitor.Interval,
		ThresholdRatio:  c.Analysis.ThresholdRatio,
		PeakCount:       c.Analysis.PeakCount,
		WithSpectrogram: c.Monitor.Spectrogram,
	}
}
