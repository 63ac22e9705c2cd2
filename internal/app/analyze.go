package app

import (
	"fmt"

	"github.com/uartscope/uartscope/configs"
	"github.com/uartscope/uartscope/internal/export"
	"github.com/uartscope/uartscope/pkg/logging"
	"github.com/uartscope/uartscope/pkg/sample"
	"github.com/uartscope/uartscope/pkg/spectral"
)

// AnalyzeApp handles offline analysis of a recorded CSV capture.
type AnalyzeApp struct {
	ctx      *Context
	config   *configs.Config
	logger   logging.Logger
	renderer *Renderer
}

// NewAnalyzeApp creates a new offline analysis application
func NewAnalyzeApp(ctx *Context) (*AnalyzeApp, error) {
	if err := ctx.initialize(); err != nil {
		return nil, err
	}
	return &AnalyzeApp{
		ctx:      ctx,
		config:   ctx.Config,
		logger:   ctx.Logger,
		renderer: NewRenderer(ctx.Config.Output),
	}, nil
}

// Run analyzes the capture at path and renders the report.
func (app *AnalyzeApp) Run(path string) error {
	report, err := app.Analyze(path)
	if err != nil {
		return err
	}
	return app.renderer.RenderReport(app.ctx.stdout(), report, app.config.OutputFormat)
}

// Analyze reads a CSV capture and computes the full report: estimated
// rate, signal statistics, averaged spectrum, peak list, and optionally
// the spectrogram dimensions.
func (app *AnalyzeApp) Analyze(path string) (*AnalysisReport, error) {
	samples, err := export.ReadCSVFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read capture: %w", err)
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("capture %s holds no samples", path)
	}

	rate := sample.EstimateRateSamples(samples)
	analysisCfg := app.analysisConfig(rate)

	app.logger.Debug("analyzing capture", logging.Fields{
		"path":           path,
		"samples":        len(samples),
		"estimated_rate": rate,
		"analysis_rate":  analysisCfg.SampleRate,
	})

	report := &AnalysisReport{
		Source:      path,
		SampleCount: len(samples),
		Duration:    samples[len(samples)-1].Timestamp - samples[0].Timestamp,
		Rate:        rate,
		Stats:       spectral.ComputeSignalStats(sample.Values(samples, analysisCfg.UnitScale)),
	}

	analyzer := spectral.NewAnalyzer()
	spectrum, err := analyzer.AnalyzeSamples(samples, analysisCfg)
	if err != nil {
		return nil, fmt.Errorf("spectral analysis failed: %w", err)
	}
	report.SNR = spectrum.SNREstimate()
	report.Peaks = spectral.TopPeaks(
		spectral.FindSpectrumPeaks(spectrum, app.config.Analysis.ThresholdRatio),
		app.config.Analysis.PeakCount)

	if app.ctx.Spectrogram {
		frame, err := analyzer.SpectrogramSamples(samples, analysisCfg)
		if err != nil {
			return nil, fmt.Errorf("spectrogram failed: %w", err)
		}
		report.FrameTimes = len(frame.Times)
		report.FrameBins = len(frame.Frequencies)
	}

	return report, nil
}

// analysisConfig prefers the rate estimated from the capture's own
// timestamps over the configured one, falling back when the estimate is
// missing or outside the analyzable range.
func (app *AnalyzeApp) analysisConfig(estimatedRate float64) spectral.Config {
	cfg := app.config.Analysis.Spectral()
	rounded := int(estimatedRate + 0.5)
	if rounded >= spectral.MinSampleRate && rounded <= spectral.MaxSampleRate {
		cfg.SampleRate = rounded
	}
	return cfg
}
