// Package decode turns a raw byte stream into timestamped integer samples
// given a declared frame width, signedness and endianness. The format is
// fixed by configuration, never auto-detected; the caller is responsible
// for matching it to the sending device.
package decode

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/uartscope/uartscope/pkg/sample"
)

// ByteOrder selects the wire endianness of each frame.
type ByteOrder string

const (
	LittleEndian ByteOrder = "little"
	BigEndian    ByteOrder = "big"
)

// Config declares the wire format of one sample frame.
type Config struct {
	Width     int       `mapstructure:"width"`      // bytes per sample: 2 or 4
	Signed    bool      `mapstructure:"signed"`     // two's complement when true
	ByteOrder ByteOrder `mapstructure:"byte_order"` // little or big
}

// Validate rejects out-of-range configuration before any decoding starts.
func (c Config) Validate() error {
	if c.Width != 2 && c.Width != 4 {
		return NewDecodeError(ErrCodeInvalidWidth,
			fmt.Sprintf("frame width must be 2 or 4 bytes, got %d", c.Width), nil)
	}
	if c.ByteOrder != LittleEndian && c.ByteOrder != BigEndian {
		return NewDecodeError(ErrCodeInvalidByteOrder,
			fmt.Sprintf("byte order must be %q or %q, got %q", LittleEndian, BigEndian, c.ByteOrder), nil)
	}
	return nil
}

func (c Config) byteOrder() binary.ByteOrder {
	if c.ByteOrder == BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// Decoder converts complete frames from an Accumulator into samples.
type Decoder struct {
	cfg Config
	now func() float64
}

// NewDecoder creates a decoder for the given wire format. The config must
// have been validated.
func NewDecoder(cfg Config) *Decoder {
	return &Decoder{
		cfg: cfg,
		now: func() float64 {
			return float64(time.Now().UnixNano()) / float64(time.Second)
		},
	}
}

// Decode consumes exactly one frame and returns the decoded sample tagged
// with the time of consumption. When fewer than Width bytes are buffered
// it consumes nothing and returns ErrIncompleteFrame; the caller retries
// on the next poll cycle rather than blocking.
func (d *Decoder) Decode(acc *Accumulator) (sample.Sample, error) {
	frame, ok := acc.take(d.cfg.Width)
	if !ok {
		return sample.Sample{}, ErrIncompleteFrame
	}

	order := d.cfg.byteOrder()
	var value int64
	switch d.cfg.Width {
	case 2:
		raw := order.Uint16(frame)
		if d.cfg.Signed {
			value = int64(int16(raw))
		} else {
			value = int64(raw)
		}
	case 4:
		raw := order.Uint32(frame)
		if d.cfg.Signed {
			value = int64(int32(raw))
		} else {
			value = int64(raw)
		}
	}

	return sample.Sample{Timestamp: d.now(), Value: value}, nil
}

// DecodeAll drains every complete frame currently buffered. The partial
// tail frame, if any, stays in the accumulator.
func (d *Decoder) DecodeAll(acc *Accumulator) []sample.Sample {
	var out []sample.Sample
	for {
		s, err := d.Decode(acc)
		if err != nil {
			return out
		}
		out = append(out, s)
	}
}

// FrameWidth returns the configured frame width in bytes.
func (d *Decoder) FrameWidth() int {
	return d.cfg.Width
}
