package app

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/uartscope/uartscope/configs"
	"github.com/uartscope/uartscope/pkg/acquire"
	"github.com/uartscope/uartscope/pkg/spectral"
)

// AnalysisReport is the offline analysis result rendered by the analyze
// command.
type AnalysisReport struct {
	Source      string               `json:"source"`
	SampleCount int                  `json:"sample_count"`
	Duration    float64              `json:"duration_seconds"`
	Rate        float64              `json:"estimated_rate_hz"`
	SNR         float64              `json:"snr_db"`
	Stats       spectral.SignalStats `json:"stats"`
	Peaks       []spectral.Peak      `json:"peaks"`

	// Spectrogram dimensions, present when a frame was computed.
	FrameTimes int `json:"frame_times,omitempty"`
	FrameBins  int `json:"frame_bins,omitempty"`
}

// Renderer formats analysis results for the terminal or machine parsing.
type Renderer struct {
	precision  int
	timestamps bool
}

// NewRenderer creates a renderer honoring the output section.
func NewRenderer(cfg configs.OutputConfig) *Renderer {
	precision := cfg.Precision
	if precision <= 0 {
		precision = 3
	}
	return &Renderer{precision: precision, timestamps: cfg.Timestamps}
}

// RenderResult writes one live analysis pass in the given format.
func (r *Renderer) RenderResult(w io.Writer, result *acquire.Result, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		return enc.Encode(result)
	case "", "text":
		return r.renderResultText(w, result)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func (r *Renderer) renderResultText(w io.Writer, result *acquire.Result) error {
	if r.timestamps {
		if _, err := fmt.Fprintf(w, "[%s] ", result.At.Format(time.TimeOnly)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "samples=%d rate=%.*f Hz snr=%.*f dB peaks=%s\n",
		result.SampleCount,
		r.precision, result.Rate,
		r.precision, result.Spectrum.SNREstimate(),
		r.formatPeaks(result.Peaks))
	return err
}

// RenderReport writes an offline analysis report in the given format.
func (r *Renderer) RenderReport(w io.Writer, report *AnalysisReport, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case "", "text":
		return r.renderReportText(w, report)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func (r *Renderer) renderReportText(w io.Writer, report *AnalysisReport) error {
	p := r.precision

	fmt.Fprintf(w, "Source:          %s\n", report.Source)
	fmt.Fprintf(w, "Samples:         %d (%.*f s)\n", report.SampleCount, p, report.Duration)
	fmt.Fprintf(w, "Estimated rate:  %.*f Hz\n", p, report.Rate)
	fmt.Fprintf(w, "Value range:     [%.*f, %.*f] mean=%.*f stddev=%.*f\n",
		p, report.Stats.Min, p, report.Stats.Max, p, report.Stats.Mean, p, report.Stats.StdDev)
	fmt.Fprintf(w, "SNR estimate:    %.*f dB\n", p, report.SNR)
	if report.FrameTimes > 0 {
		fmt.Fprintf(w, "Spectrogram:     %d segments x %d bins\n", report.FrameTimes, report.FrameBins)
	}

	if len(report.Peaks) == 0 {
		_, err := fmt.Fprintln(w, "Peaks:           none above threshold")
		return err
	}

	fmt.Fprintln(w, "Peaks:")
	for i, peak := range report.Peaks {
		if _, err := fmt.Fprintf(w, "  %2d. %10.*f Hz  %.6g\n", i+1, p, peak.Frequency, peak.Magnitude); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) formatPeaks(peaks []spectral.Peak) string {
	if len(peaks) == 0 {
		return "none"
	}
	out := ""
	for i, p := range peaks {
		if i > 0 {
			out += ","
		}
		out += fmt.Sprintf("%.*f", r.precision, p.Frequency)
	}
	return out + " Hz"
}
