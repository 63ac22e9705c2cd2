// Package acquire wires the byte decoder, bounded sample buffer, rate
// estimator, spectral engine and peak extractor into a two-goroutine
// pipeline: a producer that owns the serial byte source and a consumer
// that analyzes buffer snapshots on a fixed low-frequency tick.
//
// The two sides share no mutable cursor: the buffer's atomic push and
// copy-out snapshot are the only synchronization discipline. No operation
// blocks indefinitely: decoding retries on the next chunk rather than
// waiting, and an analysis pass bails out early while the buffer fills.
package acquire

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/uartscope/uartscope/pkg/decode"
	"github.com/uartscope/uartscope/pkg/logging"
	"github.com/uartscope/uartscope/pkg/sample"
	"github.com/uartscope/uartscope/pkg/spectral"
)

// DefaultInterval is the analysis tick period. The consumer runs at a
// deliberately low frequency compared to the link rate.
const DefaultInterval = 150 * time.Millisecond

const readChunkSize = 4096

// Options tunes the pipeline around the validated decoder and analysis
// configurations.
type Options struct {
	// BufferCapacity bounds the sample ring buffer.
	BufferCapacity int
	// Interval is the consumer tick period; 0 means DefaultInterval.
	Interval time.Duration
	// ThresholdRatio is the peak threshold fraction; 0 means the default.
	ThresholdRatio float64
	// PeakCount bounds the reported peak list; 0 means the default.
	PeakCount int
	// WithSpectrogram additionally computes the full time-frequency frame
	// on every tick.
	WithSpectrogram bool
}

// Result is one completed analysis pass over a buffer snapshot.
type Result struct {
	At          time.Time
	SampleCount int
	Rate        float64 // estimated sampling rate, Hz
	Spectrum    *spectral.Spectrum
	Frame       *spectral.SpectrogramFrame // nil unless WithSpectrogram
	Peaks       []spectral.Peak
}

// Stats counts pipeline activity since start.
type Stats struct {
	BytesReceived  uint64
	SamplesDecoded uint64
	SamplesEvicted uint64
}

// Pipeline owns the producer/consumer pair around one byte source.
type Pipeline struct {
	source   io.Reader
	decoder  *decode.Decoder
	buffer   *sample.Buffer
	session  *sample.Session
	analyzer *spectral.Analyzer

	analysisCfg spectral.Config
	opts        Options
	onResult    func(*Result)
	logger      logging.Logger

	bytesReceived  atomic.Uint64
	samplesDecoded atomic.Uint64

	mu   sync.Mutex
	last *Result
}

// New creates a pipeline reading frames from source. Both configurations
// must already be validated. onResult, when non-nil, is invoked from the
// consumer goroutine after every completed pass.
func New(source io.Reader, decoderCfg decode.Config, analysisCfg spectral.Config, opts Options, onResult func(*Result)) *Pipeline {
	if opts.BufferCapacity <= 0 {
		opts.BufferCapacity = 4 * analysisCfg.WindowLength
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	return &Pipeline{
		source:      source,
		decoder:     decode.NewDecoder(decoderCfg),
		buffer:      sample.NewBuffer(opts.BufferCapacity),
		session:     sample.NewSession(),
		analyzer:    spectral.NewAnalyzer(),
		analysisCfg: analysisCfg,
		opts:        opts,
		onResult:    onResult,
		logger: logging.WithFields(logging.Fields{
			"component": "acquire_pipeline",
		}),
	}
}

// Session returns the recording session tapped by the producer.
func (p *Pipeline) Session() *sample.Session {
	return p.session
}

// Buffer returns the bounded sample buffer.
func (p *Pipeline) Buffer() *sample.Buffer {
	return p.buffer
}

// LastResult returns the most recent completed analysis pass, or nil.
func (p *Pipeline) LastResult() *Result {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}

// Stats returns activity counters.
func (p *Pipeline) Stats() Stats {
	return Stats{
		BytesReceived:  p.bytesReceived.Load(),
		SamplesDecoded: p.samplesDecoded.Load(),
		SamplesEvicted: p.buffer.Evicted(),
	}
}

// Run drives both goroutines until the context is canceled, the source
// is exhausted (io.EOF, a clean stop), or a read error occurs. Read
// errors stop acquisition and are returned; in-memory buffer state stays
// intact. The source should return from Read periodically (a port read
// timeout) so cancellation is observed promptly.
func (p *Pipeline) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return p.produce(ctx) })
	g.Go(func() error { return p.consume(ctx) })

	err := g.Wait()
	if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
		// Clean stop: source exhausted or caller canceled.
		return nil
	}
	return err
}

// produce reads raw chunks, drains complete frames, and pushes samples
// into the ring buffer and, when recording, the session.
func (p *Pipeline) produce(ctx context.Context) error {
	chunk := make([]byte, readChunkSize)
	acc := decode.NewAccumulator()

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		n, err := p.source.Read(chunk)
		if n > 0 {
			p.bytesReceived.Add(uint64(n))
			acc.Feed(chunk[:n])
			for _, s := range p.decoder.DecodeAll(acc) {
				p.buffer.Push(s)
				p.session.Append(s)
				p.samplesDecoded.Add(1)
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				p.logger.Debug("byte source exhausted", logging.Fields{
					"bytes_received": p.bytesReceived.Load(),
				})
				return io.EOF
			}
			return fmt.Errorf("reading byte source: %w", err)
		}
	}
}

// consume runs one full analysis pass per tick, or bails out early while
// the buffer holds fewer samples than one analysis window.
func (p *Pipeline) consume(ctx context.Context) error {
	ticker := time.NewTicker(p.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			// One final pass over whatever arrived before the stop.
			p.analyzeOnce()
			return ctx.Err()
		case <-ticker.C:
			p.analyzeOnce()
		}
	}
}

func (p *Pipeline) analyzeOnce() {
	snapshot := p.buffer.Snapshot(0)

	spectrum, err := p.analyzer.AnalyzeSamples(snapshot, p.analysisCfg)
	if errors.Is(err, spectral.ErrInsufficientData) {
		// Normal while the buffer fills; retried on the next tick.
		return
	}
	if err != nil {
		p.logger.Error("analysis pass failed", logging.Fields{"error": err.Error()})
		return
	}

	result := &Result{
		At:          time.Now(),
		SampleCount: len(snapshot),
		Rate:        sample.EstimateRateSamples(snapshot),
		Spectrum:    spectrum,
		Peaks: spectral.TopPeaks(
			spectral.FindSpectrumPeaks(spectrum, p.opts.ThresholdRatio),
			p.opts.PeakCount),
	}

	if p.opts.WithSpectrogram {
		frame, err := p.analyzer.SpectrogramSamples(snapshot, p.analysisCfg)
		if err == nil {
			result.Frame = frame
		}
	}

	p.mu.Lock()
	p.last = result
	p.mu.Unlock()

	if p.onResult != nil {
		p.onResult(result)
	}
}
