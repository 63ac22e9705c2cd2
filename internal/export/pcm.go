package export

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"gonum.org/v1/gonum/stat"

	"github.com/uartscope/uartscope/pkg/logging"
	"github.com/uartscope/uartscope/pkg/sample"
)

// PCMFormat is the fixed-width integer layout of the raw output.
type PCMFormat string

const (
	PCMInt16  PCMFormat = "int16"
	PCMUint16 PCMFormat = "uint16"
)

func (f PCMFormat) rangeLimits() (lo, hi int64, err error) {
	switch f {
	case PCMInt16:
		return math.MinInt16, math.MaxInt16, nil
	case PCMUint16:
		return 0, math.MaxUint16, nil
	default:
		return 0, 0, fmt.Errorf("unsupported PCM format %q", f)
	}
}

// PCMOptions selects the output format and the optional pre-processing
// transforms applied before quantization.
type PCMOptions struct {
	Format PCMFormat
	// RemoveDC subtracts the arithmetic mean before quantization.
	RemoveDC bool
	// Normalize scales the peak amplitude to full scale of the format.
	Normalize bool
}

// PCMResult describes what was written, for the sidecar and the caller.
type PCMResult struct {
	Format   PCMFormat
	Count    int
	Clipped  int
	ByteSize int
	MinValue int64
	MaxValue int64
}

// WritePCM writes samples as raw little-endian fixed-width integers with
// no header. Values outside the target range are clipped to range with a
// recorded warning, never silently wrapped.
func WritePCM(w io.Writer, samples []sample.Sample, opts PCMOptions, logger logging.Logger) (*PCMResult, error) {
	lo, hi, err := opts.Format.rangeLimits()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.WithFields(logging.Fields{"component": "pcm_export"})
	}

	values := make([]float64, len(samples))
	for i, s := range samples {
		values[i] = float64(s.Value)
	}

	if opts.RemoveDC && len(values) > 0 {
		mean := stat.Mean(values, nil)
		for i := range values {
			values[i] -= mean
		}
	}
	if opts.Normalize && len(values) > 0 {
		peak := 0.0
		for _, v := range values {
			if a := math.Abs(v); a > peak {
				peak = a
			}
		}
		if peak > 0 {
			full := float64(hi)
			if opts.Format == PCMInt16 {
				full = math.MaxInt16
			}
			for i := range values {
				values[i] = values[i] / peak * full
			}
		}
	}

	result := &PCMResult{Format: opts.Format, Count: len(samples)}
	buf := make([]byte, 2)
	for i, v := range values {
		q := int64(math.Round(v))
		if q < lo {
			q = lo
			result.Clipped++
		} else if q > hi {
			q = hi
			result.Clipped++
		}
		if i == 0 {
			result.MinValue, result.MaxValue = q, q
		}
		if q < result.MinValue {
			result.MinValue = q
		}
		if q > result.MaxValue {
			result.MaxValue = q
		}

		binary.LittleEndian.PutUint16(buf, uint16(q))
		if _, err := w.Write(buf); err != nil {
			return nil, fmt.Errorf("writing PCM data: %w", err)
		}
		result.ByteSize += 2
	}

	if result.Clipped > 0 {
		logger.Warn("values outside PCM range were clipped", logging.Fields{
			"format":  string(opts.Format),
			"clipped": result.Clipped,
			"total":   result.Count,
		})
	}
	return result, nil
}

// WritePCMFile writes samples to path and returns the write summary.
func WritePCMFile(path string, samples []sample.Sample, opts PCMOptions, logger logging.Logger) (*PCMResult, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", path, err)
	}
	result, err := WritePCM(f, samples, opts, logger)
	if err != nil {
		f.Close()
		return nil, err
	}
	return result, f.Close()
}
