package app

import (
	"bytes"
	"context"
	"encoding/binary"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uartscope/uartscope/configs"
	"github.com/uartscope/uartscope/internal/export"
	"github.com/uartscope/uartscope/internal/siggen"
	"github.com/uartscope/uartscope/pkg/sample"
)

func primeConfig(t *testing.T) {
	t.Helper()
	viper.Reset()
	configs.SetDefaults(viper.GetViper())
	t.Cleanup(viper.Reset)
}

// toneBytes renders a sinusoid as little-endian int16 frames.
func toneBytes(freq float64, sampleRate, n int) []byte {
	out := make([]byte, 0, 2*n)
	for i := 0; i < n; i++ {
		v := int16(12000 * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate)))
		out = binary.LittleEndian.AppendUint16(out, uint16(v))
	}
	return out
}

func testCapture(t *testing.T, sampleRate int) string {
	t.Helper()
	cfg := siggen.DefaultConfig()
	cfg.SampleRate = sampleRate
	cfg.Duration = 1
	cfg.TransientTimes = nil
	samples := siggen.Generate(cfg)

	path := filepath.Join(t.TempDir(), "capture.csv")
	require.NoError(t, export.WriteCSVFile(path, samples))
	return path
}

func TestMonitorAppRecordsToCSV(t *testing.T) {
	primeConfig(t)

	csvPath := filepath.Join(t.TempDir(), "recording.csv")
	out := &bytes.Buffer{}
	ctx := &Context{
		Record:  true,
		CSVFile: csvPath,
		Out:     out,
	}

	app, err := NewMonitorApp(ctx)
	require.NoError(t, err)

	data := toneBytes(440, 10000, 4096)
	app.openPort = func(*configs.Config) (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	}

	require.NoError(t, app.Run(context.Background()))

	recorded, err := export.ReadCSVFile(csvPath)
	require.NoError(t, err)
	assert.Len(t, recorded, 4096, "every decoded sample should reach the recording")

	assert.Contains(t, out.String(), "samples=", "final analysis pass should render")
}

func TestMonitorAppPortFailure(t *testing.T) {
	primeConfig(t)

	ctx := &Context{Out: io.Discard}
	app, err := NewMonitorApp(ctx)
	require.NoError(t, err)

	app.openPort = func(*configs.Config) (io.ReadCloser, error) {
		return nil, os.ErrNotExist
	}

	err = app.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open serial port")
}

func TestAnalyzeAppReport(t *testing.T) {
	primeConfig(t)

	path := testCapture(t, 8000)
	ctx := &Context{Out: io.Discard, Spectrogram: true}
	app, err := NewAnalyzeApp(ctx)
	require.NoError(t, err)

	report, err := app.Analyze(path)
	require.NoError(t, err)

	assert.Equal(t, 8000, report.SampleCount)
	assert.InDelta(t, 8000.0, report.Rate, 1.0)
	assert.InDelta(t, 1.0, report.Duration, 0.01)
	assert.Greater(t, report.SNR, 10.0)
	assert.Positive(t, report.FrameTimes)
	assert.Positive(t, report.FrameBins)
	require.NotEmpty(t, report.Peaks)

	binWidth := 8000.0 / 256.0
	assert.InDelta(t, 440.0, report.Peaks[0].Frequency, binWidth,
		"strongest component should dominate the peak list")
}

func TestAnalyzeAppRendersText(t *testing.T) {
	primeConfig(t)

	path := testCapture(t, 8000)
	out := &bytes.Buffer{}
	ctx := &Context{Out: out}
	app, err := NewAnalyzeApp(ctx)
	require.NoError(t, err)

	require.NoError(t, app.Run(path))
	text := out.String()
	assert.Contains(t, text, "Estimated rate:")
	assert.Contains(t, text, "SNR estimate:")
	assert.Contains(t, text, "Peaks:")
}

func TestAnalyzeAppEmptyCapture(t *testing.T) {
	primeConfig(t)

	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, os.WriteFile(path, []byte("timestamp,value\n"), 0o644))

	ctx := &Context{Out: io.Discard}
	app, err := NewAnalyzeApp(ctx)
	require.NoError(t, err)

	err = app.Run(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no samples")
}

func TestConvertAppWritesPCMAndSidecar(t *testing.T) {
	primeConfig(t)

	input := testCapture(t, 10000)
	output := filepath.Join(t.TempDir(), "out.pcm")

	ctx := &Context{Out: io.Discard, PCMFormat: "int16", Normalize: true, RemoveDC: true}
	app, err := NewConvertApp(ctx)
	require.NoError(t, err)

	require.NoError(t, app.Run(input, output))

	pcm, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, 2*10000, len(pcm), "int16 output should hold two bytes per sample")

	sidecar, err := os.ReadFile(export.SidecarPath(output))
	require.NoError(t, err)
	assert.Contains(t, string(sidecar), "format: int16, little endian")
	assert.Contains(t, string(sidecar), "samples: 10000")
}

func TestConvertAppDerivesOutputPath(t *testing.T) {
	primeConfig(t)

	input := testCapture(t, 10000)
	ctx := &Context{Out: io.Discard}
	app, err := NewConvertApp(ctx)
	require.NoError(t, err)

	require.NoError(t, app.Run(input, ""))

	derived := strings.TrimSuffix(input, ".csv") + ".pcm"
	_, err = os.Stat(derived)
	assert.NoError(t, err)
	_, err = os.Stat(export.SidecarPath(derived))
	assert.NoError(t, err)
}

func TestGenerateAppWritesCapture(t *testing.T) {
	primeConfig(t)

	output := filepath.Join(t.TempDir(), "synthetic.csv")
	ctx := &Context{Out: io.Discard}
	app, err := NewGenerateApp(ctx)
	require.NoError(t, err)

	require.NoError(t, app.Run(output, 0))

	samples, err := export.ReadCSVFile(output)
	require.NoError(t, err)
	require.NotEmpty(t, samples)

	rate := sample.EstimateRateSamples(samples)
	assert.InDelta(t, 10000.0, rate, 1.0, "capture should carry the configured rate")
}
