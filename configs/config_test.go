package configs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigValidates(t *testing.T) {
	require.NoError(t, ValidateConfig(Default()))
}

func TestLoadConfigFromDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg := &Config{}
	require.NoError(t, v.Unmarshal(cfg))

	assert.Equal(t, Default(), cfg)
}

func TestValidateConfigRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero baud rate", func(c *Config) { c.Serial.BaudRate = 0 }},
		{"bad frame width", func(c *Config) { c.Decode.Width = 3 }},
		{"bad byte order", func(c *Config) { c.Decode.ByteOrder = "middle" }},
		{"zero buffer capacity", func(c *Config) { c.Buffer.Capacity = 0 }},
		{"sample rate too low", func(c *Config) { c.Analysis.SampleRate = 10 }},
		{"overlap at window length", func(c *Config) { c.Analysis.Overlap = 256 }},
		{"threshold ratio above one", func(c *Config) { c.Analysis.ThresholdRatio = 1.5 }},
		{"zero monitor interval", func(c *Config) { c.Monitor.Interval = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, ValidateConfig(cfg))
		})
	}
}

func TestWriteDefaultRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "uartscope.yaml")
	require.NoError(t, WriteDefault(path))

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg := &Config{}
	require.NoError(t, v.Unmarshal(cfg))
	assert.Equal(t, Default(), cfg)
	assert.NoError(t, ValidateConfig(cfg))
}

func TestWriteDefaultRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "uartscope.yaml")
	require.NoError(t, os.WriteFile(path, []byte("verbose: true\n"), 0o644))
	assert.Error(t, WriteDefault(path))
}
