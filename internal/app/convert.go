package app

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/uartscope/uartscope/configs"
	"github.com/uartscope/uartscope/internal/export"
	"github.com/uartscope/uartscope/pkg/logging"
	"github.com/uartscope/uartscope/pkg/sample"
)

// rateDivergenceWarn is the fractional gap between the estimated and the
// configured rate above which the conversion warns that playback tools
// fed the configured rate will run off-speed.
const rateDivergenceWarn = 0.10

// ConvertApp handles CSV to raw PCM conversion.
type ConvertApp struct {
	ctx    *Context
	config *configs.Config
	logger logging.Logger
}

// NewConvertApp creates a new conversion application
func NewConvertApp(ctx *Context) (*ConvertApp, error) {
	if err := ctx.initialize(); err != nil {
		return nil, err
	}
	return &ConvertApp{
		ctx:    ctx,
		config: ctx.Config,
		logger: ctx.Logger,
	}, nil
}

// Run converts the capture at input into a raw PCM file plus its sidecar.
// An empty output derives the PCM path from the input name.
func (app *ConvertApp) Run(input, output string) error {
	samples, err := export.ReadCSVFile(input)
	if err != nil {
		return fmt.Errorf("failed to read capture: %w", err)
	}
	if len(samples) == 0 {
		return fmt.Errorf("capture %s holds no samples", input)
	}

	if output == "" {
		output = strings.TrimSuffix(input, ".csv") + ".pcm"
	}

	rate := sample.EstimateRateSamples(samples)
	app.checkRateDivergence(rate)

	opts := export.PCMOptions{
		Format:    export.PCMFormat(app.ctx.PCMFormat),
		RemoveDC:  app.ctx.RemoveDC,
		Normalize: app.ctx.Normalize,
	}
	if opts.Format == "" {
		opts.Format = export.PCMInt16
	}

	result, err := export.WritePCMFile(output, samples, opts, app.logger)
	if err != nil {
		return fmt.Errorf("failed to write PCM: %w", err)
	}

	info := export.SidecarInfo{
		Source:     input,
		Output:     output,
		Format:     result.Format,
		SampleRate: rate,
		Count:      result.Count,
		ByteSize:   result.ByteSize,
		MinValue:   result.MinValue,
		MaxValue:   result.MaxValue,
		WrittenAt:  time.Now(),
	}
	if err := export.WriteSidecarFile(export.SidecarPath(output), info); err != nil {
		return err
	}

	app.logger.Info("conversion complete", logging.Fields{
		"input":          input,
		"output":         output,
		"format":         string(result.Format),
		"samples":        result.Count,
		"clipped":        result.Clipped,
		"estimated_rate": rate,
	})
	return nil
}

// checkRateDivergence warns when the capture's own timing disagrees with
// the configured sample rate by more than the threshold.
func (app *ConvertApp) checkRateDivergence(estimated float64) {
	configured := float64(app.config.Analysis.SampleRate)
	if estimated <= 0 || configured <= 0 {
		return
	}
	divergence := math.Abs(estimated-configured) / configured
	if divergence > rateDivergenceWarn {
		app.logger.Warn("estimated rate diverges from configured rate", logging.Fields{
			"estimated_hz":  estimated,
			"configured_hz": configured,
			"divergence":    divergence,
		})
	}
}
