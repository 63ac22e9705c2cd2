package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/uartscope/uartscope/internal/app"
)

var (
	// Analyze command flags
	analyzeSpectrogram bool
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [flags] capture.csv",
	Short: "Analyze a recorded CSV capture offline",
	Long: `Read a timestamped CSV capture and report the estimated sampling rate,
signal statistics, spectral peaks, and a signal-to-noise estimate.

The sampling rate is estimated from the capture's own timestamps and
used for the frequency axis, so captures recorded at a rate other than
the configured one still analyze correctly.

Examples:
  # Analyze a recording
  uartscope analyze capture.csv

  # Include spectrogram dimensions and emit JSON
  uartscope analyze --spectrogram -o json capture.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().BoolVarP(&analyzeSpectrogram, "spectrogram", "s", false,
		"additionally compute the full spectrogram")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	appCtx := &app.Context{
		ConfigFile:   configFile,
		OutputFormat: viper.GetString("output_format"),
		Verbose:      viper.GetBool("verbose"),
		Spectrogram:  analyzeSpectrogram,
	}

	analyze, err := app.NewAnalyzeApp(appCtx)
	if err != nil {
		return err
	}

	return analyze.Run(args[0])
}
