package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/uartscope/uartscope/internal/app"
)

var (
	// Generate command flags
	generateDuration time.Duration
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate [flags] output",
	Short: "Generate a synthetic test signal",
	Long: `Render a synthetic multi-tone test signal with noise and transient
bursts, for exercising the analysis and conversion tools without
hardware attached.

A .csv output produces a timestamped capture accepted by analyze and
convert; any other extension produces raw int16 PCM plus its sidecar.

Examples:
  # A ten second test capture at the configured rate
  uartscope generate test.csv

  # Two seconds of raw PCM
  uartscope generate --duration 2s test.pcm`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().DurationVarP(&generateDuration, "duration", "d", 0,
		"signal length (0 uses the built-in default)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	appCtx := &app.Context{
		ConfigFile:   configFile,
		OutputFormat: viper.GetString("output_format"),
		Verbose:      viper.GetBool("verbose"),
	}

	generate, err := app.NewGenerateApp(appCtx)
	if err != nil {
		return err
	}

	return generate.Run(args[0], generateDuration)
}
