package decode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDecoder(cfg Config) *Decoder {
	d := NewDecoder(cfg)
	t := 0.0
	d.now = func() float64 {
		t += 0.001
		return t
	}
	return d
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"int16 little", Config{Width: 2, Signed: true, ByteOrder: LittleEndian}, false},
		{"uint32 big", Config{Width: 4, Signed: false, ByteOrder: BigEndian}, false},
		{"width 3", Config{Width: 3, ByteOrder: LittleEndian}, true},
		{"width 0", Config{ByteOrder: LittleEndian}, true},
		{"bad byte order", Config{Width: 2, ByteOrder: "middle"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDecodeFormats(t *testing.T) {
	tests := []struct {
		name  string
		cfg   Config
		bytes []byte
		want  int64
	}{
		{"int16 little positive", Config{Width: 2, Signed: true, ByteOrder: LittleEndian},
			[]byte{0x34, 0x12}, 0x1234},
		{"int16 little negative", Config{Width: 2, Signed: true, ByteOrder: LittleEndian},
			[]byte{0xFF, 0xFF}, -1},
		{"int16 big negative", Config{Width: 2, Signed: true, ByteOrder: BigEndian},
			[]byte{0x80, 0x00}, -32768},
		{"uint16 little max", Config{Width: 2, Signed: false, ByteOrder: LittleEndian},
			[]byte{0xFF, 0xFF}, 65535},
		{"int32 little negative", Config{Width: 4, Signed: true, ByteOrder: LittleEndian},
			[]byte{0xFF, 0xFF, 0xFF, 0xFF}, -1},
		{"int32 big positive", Config{Width: 4, Signed: true, ByteOrder: BigEndian},
			[]byte{0x00, 0x01, 0x02, 0x03}, 0x00010203},
		{"uint32 little max", Config{Width: 4, Signed: false, ByteOrder: LittleEndian},
			[]byte{0xFF, 0xFF, 0xFF, 0xFF}, 4294967295},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, tt.cfg.Validate())
			d := newTestDecoder(tt.cfg)
			acc := NewAccumulator()
			acc.Feed(tt.bytes)

			s, err := d.Decode(acc)
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.Value)
			assert.Greater(t, s.Timestamp, 0.0)
			assert.Equal(t, 0, acc.Available())
		})
	}
}

func TestDecodeIncompleteFrameIsNoop(t *testing.T) {
	d := newTestDecoder(Config{Width: 4, Signed: true, ByteOrder: LittleEndian})
	acc := NewAccumulator()
	acc.Feed([]byte{0x01, 0x02, 0x03})

	_, err := d.Decode(acc)
	assert.ErrorIs(t, err, ErrIncompleteFrame)
	// Nothing consumed: the partial frame waits for the rest.
	assert.Equal(t, 3, acc.Available())

	// Feeding the missing byte completes the frame on retry.
	acc.Feed([]byte{0x04})
	s, err := d.Decode(acc)
	require.NoError(t, err)
	assert.Equal(t, int64(0x04030201), s.Value)
}

func TestDecodeAllDrainsCompleteFrames(t *testing.T) {
	d := newTestDecoder(Config{Width: 2, Signed: true, ByteOrder: LittleEndian})
	acc := NewAccumulator()
	// Three complete frames plus one stray byte.
	acc.Feed([]byte{0x01, 0x00, 0x02, 0x00, 0x03, 0x00, 0xAA})

	got := d.DecodeAll(acc)
	require.Len(t, got, 3)
	for i, s := range got {
		assert.Equal(t, int64(i+1), s.Value)
	}
	assert.Equal(t, 1, acc.Available())

	// Timestamps are monotonic in decode order.
	assert.Less(t, got[0].Timestamp, got[1].Timestamp)
	assert.Less(t, got[1].Timestamp, got[2].Timestamp)
}

func TestDecodeAcrossFeeds(t *testing.T) {
	d := newTestDecoder(Config{Width: 2, Signed: false, ByteOrder: BigEndian})
	acc := NewAccumulator()

	acc.Feed([]byte{0x12})
	assert.Empty(t, d.DecodeAll(acc))

	acc.Feed([]byte{0x34, 0x56})
	got := d.DecodeAll(acc)
	require.Len(t, got, 1)
	assert.Equal(t, int64(0x1234), got[0].Value)
	assert.Equal(t, 1, acc.Available())
}
