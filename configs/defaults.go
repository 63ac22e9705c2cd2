package configs

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/uartscope/uartscope/pkg/acquire"
	"github.com/uartscope/uartscope/pkg/spectral"
)

// Default returns the built-in configuration: int16 little-endian frames
// at 10 kHz, a 256-point window with half overlap, and a 150 ms refresh.
func Default() *Config {
	return &Config{
		Verbose:      false,
		LogLevel:     "info",
		OutputFormat: "text",
		Serial: SerialConfig{
			Port:        "/dev/ttyUSB0",
			BaudRate:    115200,
			DataBits:    8,
			Parity:      "none",
			StopBits:    1,
			ReadTimeout: 500 * time.Millisecond,
		},
		Decode: DecodeConfig{
			Width:     2,
			Signed:    true,
			ByteOrder: "little",
		},
		Buffer: BufferConfig{
			Capacity: 1000,
		},
		Analysis: AnalysisConfig{
			SampleRate:     10000,
			WindowLength:   256,
			Overlap:        128,
			MaxFrequency:   0,
			UnitScale:      1,
			ThresholdRatio: spectral.DefaultThresholdRatio,
			PeakCount:      spectral.DefaultPeakCount,
		},
		Monitor: MonitorConfig{
			Interval:    acquire.DefaultInterval,
			Spectrogram: false,
		},
		Output: OutputConfig{
			Precision:  3,
			Timestamps: true,
		},
	}
}

// SetDefaults registers default configuration values on the viper instance
func SetDefaults(v *viper.Viper) {
	def := Default()

	// Application defaults
	v.SetDefault("verbose", def.Verbose)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("output_format", def.OutputFormat)

	// Serial defaults
	v.SetDefault("serial.port", def.Serial.Port)
	v.SetDefault("serial.baud_rate", def.Serial.BaudRate)
	v.SetDefault("serial.data_bits", def.Serial.DataBits)
	v.SetDefault("serial.parity", def.Serial.Parity)
	v.SetDefault("serial.stop_bits", def.Serial.StopBits)
	v.SetDefault("serial.read_timeout", def.Serial.ReadTimeout)

	// Decode defaults
	v.SetDefault("decode.width", def.Decode.Width)
	v.SetDefault("decode.signed", def.Decode.Signed)
	v.SetDefault("decode.byte_order", def.Decode.ByteOrder)

	// Buffer defaults
	v.SetDefault("buffer.capacity", def.Buffer.Capacity)

	// Analysis defaults
	v.SetDefault("analysis.sample_rate", def.Analysis.SampleRate)
	v.SetDefault("analysis.window_length", def.Analysis.WindowLength)
	v.SetDefault("analysis.overlap", def.Analysis.Overlap)
	v.SetDefault("analysis.max_frequency", def.Analysis.MaxFrequency)
	v.SetDefault("analysis.unit_scale", def.Analysis.UnitScale)
	v.SetDefault("analysis.threshold_ratio", def.Analysis.ThresholdRatio)
	v.SetDefault("analysis.peak_count", def.Analysis.PeakCount)

	// Monitor defaults
	v.SetDefault("monitor.interval", def.Monitor.Interval)
	v.SetDefault("monitor.spectrogram", def.Monitor.Spectrogram)

	// Output defaults
	v.SetDefault("output.precision", def.Output.Precision)
	v.SetDefault("output.timestamps", def.Output.Timestamps)
}

// WriteDefault writes the default configuration as YAML to path, creating
// parent directories as needed. It refuses to overwrite an existing file.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("unable to create config directory: %w", err)
		}
	}

	data, err := yaml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("unable to encode default configuration: %w", err)
	}

	return os.WriteFile(path, data, 0o644)
}
