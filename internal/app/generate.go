package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/uartscope/uartscope/configs"
	"github.com/uartscope/uartscope/internal/export"
	"github.com/uartscope/uartscope/internal/siggen"
	"github.com/uartscope/uartscope/pkg/logging"
)

// GenerateApp renders a synthetic test capture for exercising the offline
// tools without hardware.
type GenerateApp struct {
	ctx    *Context
	config *configs.Config
	logger logging.Logger
}

// NewGenerateApp creates a new signal generator application
func NewGenerateApp(ctx *Context) (*GenerateApp, error) {
	if err := ctx.initialize(); err != nil {
		return nil, err
	}
	return &GenerateApp{
		ctx:    ctx,
		config: ctx.Config,
		logger: ctx.Logger,
	}, nil
}

// Run writes the synthetic signal to output. A .csv output produces a
// timestamped capture; anything else produces raw PCM plus its sidecar.
func (app *GenerateApp) Run(output string, duration time.Duration) error {
	cfg := siggen.DefaultConfig()
	cfg.SampleRate = app.config.Analysis.SampleRate
	if duration > 0 {
		cfg.Duration = duration.Seconds()
	}

	samples := siggen.Generate(cfg)
	if len(samples) == 0 {
		return fmt.Errorf("generated no samples for duration %s", duration)
	}

	app.logger.Debug("synthetic signal generated", logging.Fields{
		"sample_rate": cfg.SampleRate,
		"duration":    cfg.Duration,
		"samples":     len(samples),
	})

	if strings.HasSuffix(output, ".csv") {
		if err := export.WriteCSVFile(output, samples); err != nil {
			return fmt.Errorf("failed to write capture: %w", err)
		}
		app.logger.Info("capture written", logging.Fields{
			"path":    output,
			"samples": len(samples),
		})
		return nil
	}

	result, err := export.WritePCMFile(output, samples, export.PCMOptions{Format: export.PCMInt16}, app.logger)
	if err != nil {
		return fmt.Errorf("failed to write PCM: %w", err)
	}

	info := export.SidecarInfo{
		Source:     "synthetic",
		Output:     output,
		Format:     result.Format,
		SampleRate: float64(cfg.SampleRate),
		Count:      result.Count,
		ByteSize:   result.ByteSize,
		MinValue:   result.MinValue,
		MaxValue:   result.MaxValue,
		WrittenAt:  time.Now(),
	}
	if err := export.WriteSidecarFile(export.SidecarPath(output), info); err != nil {
		return err
	}

	app.logger.Info("PCM written", logging.Fields{
		"path":    output,
		"samples": result.Count,
	})
	return nil
}
