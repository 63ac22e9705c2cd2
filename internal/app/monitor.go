package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.bug.st/serial"

	"github.com/uartscope/uartscope/configs"
	"github.com/uartscope/uartscope/internal/export"
	"github.com/uartscope/uartscope/pkg/acquire"
	"github.com/uartscope/uartscope/pkg/logging"
)

// MonitorApp handles the live acquisition application lifecycle: it owns
// the serial port, the acquisition pipeline, and the optional recording
// session flushed to CSV on exit.
type MonitorApp struct {
	ctx      *Context
	config   *configs.Config
	logger   logging.Logger
	renderer *Renderer

	// openPort is swapped out in tests.
	openPort func(*configs.Config) (io.ReadCloser, error)
}

// NewMonitorApp creates a new monitor application
func NewMonitorApp(ctx *Context) (*MonitorApp, error) {
	if err := ctx.initialize(); err != nil {
		return nil, err
	}

	ctx.Logger.Debug("monitor initialized", logging.Fields{
		"port":          ctx.Config.Serial.Port,
		"baud_rate":     ctx.Config.Serial.BaudRate,
		"frame_width":   ctx.Config.Decode.Width,
		"window_length": ctx.Config.Analysis.WindowLength,
		"record":        ctx.Record,
	})

	return &MonitorApp{
		ctx:      ctx,
		config:   ctx.Config,
		logger:   ctx.Logger,
		renderer: NewRenderer(ctx.Config.Output),
		openPort: openSerialPort,
	}, nil
}

// Run acquires from the serial link until the context is canceled or the
// configured duration elapses, then flushes any recorded samples.
func (app *MonitorApp) Run(ctx context.Context) error {
	port, err := app.openPort(app.config)
	if err != nil {
		return fmt.Errorf("failed to open serial port %s: %w", app.config.Serial.Port, err)
	}
	defer port.Close()

	pipeline := acquire.New(
		port,
		app.config.Decode.Decoder(),
		app.config.Analysis.Spectral(),
		app.config.Acquire(),
		app.onResult,
	)

	if app.ctx.Record {
		pipeline.Session().Start()
	}

	if app.ctx.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, app.ctx.Duration)
		defer cancel()
	}

	runErr := pipeline.Run(ctx)

	stats := pipeline.Stats()
	app.logger.Info("acquisition stopped", logging.Fields{
		"bytes_received":  stats.BytesReceived,
		"samples_decoded": stats.SamplesDecoded,
		"samples_evicted": stats.SamplesEvicted,
	})

	if app.ctx.Record {
		pipeline.Session().Stop()
		if err := app.flushRecording(pipeline); err != nil {
			return err
		}
	}

	return runErr
}

// flushRecording writes the captured session to the configured CSV file.
func (app *MonitorApp) flushRecording(pipeline *acquire.Pipeline) error {
	captured := pipeline.Session().Captured()
	if len(captured) == 0 {
		app.logger.Warn("recording session captured no samples")
		return nil
	}

	path := app.ctx.CSVFile
	if path == "" {
		path = fmt.Sprintf("uartscope_%s.csv", time.Now().Format("20060102_150405"))
	}

	if err := export.WriteCSVFile(path, captured); err != nil {
		return fmt.Errorf("failed to write recording: %w", err)
	}

	app.logger.Info("recording written", logging.Fields{
		"path":    path,
		"samples": len(captured),
	})
	return nil
}

// onResult renders one completed analysis pass.
func (app *MonitorApp) onResult(result *acquire.Result) {
	if err := app.renderer.RenderResult(app.ctx.stdout(), result, app.config.OutputFormat); err != nil {
		app.logger.Error("failed to render result", logging.Fields{"error": err.Error()})
	}
}

// openSerialPort opens and configures the port named in the serial section.
func openSerialPort(config *configs.Config) (io.ReadCloser, error) {
	parity, err := parseParity(config.Serial.Parity)
	if err != nil {
		return nil, err
	}
	stopBits, err := parseStopBits(config.Serial.StopBits)
	if err != nil {
		return nil, err
	}

	mode := &serial.Mode{
		BaudRate: config.Serial.BaudRate,
		DataBits: config.Serial.DataBits,
		Parity:   parity,
		StopBits: stopBits,
	}

	port, err := serial.Open(config.Serial.Port, mode)
	if err != nil {
		return nil, err
	}

	// A bounded read timeout keeps the producer loop responsive to
	// cancellation even on an idle link.
	timeout := config.Serial.ReadTimeout
	if timeout <= 0 {
		timeout = 500 * time.Millisecond
	}
	if err := port.SetReadTimeout(timeout); err != nil {
		port.Close()
		return nil, err
	}

	return port, nil
}

func parseParity(name string) (serial.Parity, error) {
	switch name {
	case "", "none":
		return serial.NoParity, nil
	case "even":
		return serial.EvenParity, nil
	case "odd":
		return serial.OddParity, nil
	default:
		return serial.NoParity, fmt.Errorf("unsupported parity: %s", name)
	}
}

func parseStopBits(n int) (serial.StopBits, error) {
	switch n {
	case 0, 1:
		return serial.OneStopBit, nil
	case 2:
		return serial.TwoStopBits, nil
	default:
		return serial.OneStopBit, fmt.Errorf("unsupported stop bits: %d", n)
	}
}
