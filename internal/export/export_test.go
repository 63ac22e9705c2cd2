package export

import (
	"bytes"
	"encoding/binary"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uartscope/uartscope/pkg/sample"
)

func TestCSVRoundTrip(t *testing.T) {
	in := []sample.Sample{
		{Timestamp: 1700000000.123456789, Value: -32768},
		{Timestamp: 1700000000.133456789, Value: 0},
		{Timestamp: 1700000000.143456789, Value: 32767},
		{Timestamp: 1700000000.153456789, Value: 1234567890},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, in))

	out, err := ReadCSV(&buf)
	require.NoError(t, err)
	require.Len(t, out, len(in))
	for i := range in {
		assert.Equal(t, in[i].Timestamp, out[i].Timestamp, "timestamp %d", i)
		assert.Equal(t, in[i].Value, out[i].Value, "value %d", i)
	}
}

func TestCSVHeaderWritten(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []sample.Sample{{Timestamp: 1, Value: 2}}))
	assert.True(t, strings.HasPrefix(buf.String(), "timestamp,value\n"))
}

func TestReadCSVHeaderless(t *testing.T) {
	out, err := ReadCSV(strings.NewReader("0.5,10\n0.6,-20\n"))
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, int64(-20), out[1].Value)
}

func TestReadCSVBadRow(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("timestamp,value\n0.5,notanint\n"))
	assert.Error(t, err)
}

func TestCSVFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capture.csv")
	in := []sample.Sample{{Timestamp: 0.001, Value: 42}, {Timestamp: 0.002, Value: -7}}

	require.NoError(t, WriteCSVFile(path, in))
	out, err := ReadCSVFile(path)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestWritePCMInt16LittleEndian(t *testing.T) {
	samples := []sample.Sample{{Value: 0x1234}, {Value: -2}}

	var buf bytes.Buffer
	result, err := WritePCM(&buf, samples, PCMOptions{Format: PCMInt16}, nil)
	require.NoError(t, err)

	assert.Equal(t, 0, result.Clipped)
	assert.Equal(t, 4, result.ByteSize)
	assert.Equal(t, []byte{0x34, 0x12, 0xFE, 0xFF}, buf.Bytes())
	assert.Equal(t, int64(-2), result.MinValue)
	assert.Equal(t, int64(0x1234), result.MaxValue)
}

func TestWritePCMClipsOutOfRange(t *testing.T) {
	// Out-of-range values are clipped, never wrapped.
	samples := []sample.Sample{{Value: 100000}, {Value: -100000}, {Value: 5}}

	var buf bytes.Buffer
	result, err := WritePCM(&buf, samples, PCMOptions{Format: PCMInt16}, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Clipped)
	got0 := int16(binary.LittleEndian.Uint16(buf.Bytes()[0:2]))
	got1 := int16(binary.LittleEndian.Uint16(buf.Bytes()[2:4]))
	assert.Equal(t, int16(32767), got0)
	assert.Equal(t, int16(-32768), got1)
}

func TestWritePCMUint16(t *testing.T) {
	samples := []sample.Sample{{Value: -5}, {Value: 70000}, {Value: 65535}}

	var buf bytes.Buffer
	result, err := WritePCM(&buf, samples, PCMOptions{Format: PCMUint16}, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Clipped)
	assert.Equal(t, uint16(0), binary.LittleEndian.Uint16(buf.Bytes()[0:2]))
	assert.Equal(t, uint16(65535), binary.LittleEndian.Uint16(buf.Bytes()[2:4]))
}

func TestWritePCMRemoveDCAndNormalize(t *testing.T) {
	// Constant offset plus a small swing: DC removal centers it, then
	// normalization stretches the swing to full scale.
	samples := []sample.Sample{{Value: 1000}, {Value: 1100}, {Value: 900}}

	var buf bytes.Buffer
	result, err := WritePCM(&buf, samples,
		PCMOptions{Format: PCMInt16, RemoveDC: true, Normalize: true}, nil)
	require.NoError(t, err)

	assert.Equal(t, 0, result.Clipped)
	assert.Equal(t, int64(0), result.MinValue+result.MaxValue) // symmetric
	assert.Equal(t, int64(32767), result.MaxValue)
}

func TestWritePCMUnsupportedFormat(t *testing.T) {
	var buf bytes.Buffer
	_, err := WritePCM(&buf, nil, PCMOptions{Format: "float32"}, nil)
	assert.Error(t, err)
}

func TestSidecar(t *testing.T) {
	var buf bytes.Buffer
	info := SidecarInfo{
		Source:     "capture.csv",
		Output:     "capture.pcm",
		Format:     PCMInt16,
		SampleRate: 8000,
		Count:      16000,
		ByteSize:   32000,
		MinValue:   -1200,
		MaxValue:   1187,
		WrittenAt:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, WriteSidecar(&buf, info))

	out := buf.String()
	assert.Contains(t, out, "sample rate: 8000.00 Hz")
	assert.Contains(t, out, "samples: 16000")
	assert.Contains(t, out, "duration: 2.000 s")
	assert.Contains(t, out, "value range: -1200 to 1187")
	assert.Contains(t, out, "file size: 32000 bytes")
}

func TestSidecarPath(t *testing.T) {
	assert.Equal(t, "out_info.txt", SidecarPath("out.pcm"))
	assert.Equal(t, "noext_info.txt", SidecarPath("noext"))
}
