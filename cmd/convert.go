package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/uartscope/uartscope/internal/app"
)

var (
	// Convert command flags
	convertOutput    string
	convertFormat    string
	convertNormalize bool
	convertRemoveDC  bool
)

// convertCmd represents the convert command
var convertCmd = &cobra.Command{
	Use:   "convert [flags] capture.csv",
	Short: "Convert a CSV capture to raw PCM",
	Long: `Convert a timestamped CSV capture into a headerless little-endian PCM
file for audio tooling, plus a sidecar text file describing the format,
sample count, and the rate estimated from the capture's timestamps.

Values outside the target range are clipped to range with a warning. A
warning is also emitted when the estimated rate diverges from the
configured one by more than 10%, since playback at the configured rate
would then run off-speed.

Examples:
  # Convert with the output path derived from the input
  uartscope convert capture.csv

  # Normalize to full scale after removing the DC offset
  uartscope convert --remove-dc --normalize capture.csv

  # Unsigned output at an explicit path
  uartscope convert --format uint16 --out samples.pcm capture.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringVar(&convertOutput, "out", "",
		"PCM output path (default derives from the input name)")
	convertCmd.Flags().StringVarP(&convertFormat, "format", "f", "int16",
		"PCM sample format (int16, uint16)")
	convertCmd.Flags().BoolVarP(&convertNormalize, "normalize", "n", false,
		"scale the peak amplitude to full scale")
	convertCmd.Flags().BoolVar(&convertRemoveDC, "remove-dc", false,
		"subtract the mean before quantization")
}

func runConvert(cmd *cobra.Command, args []string) error {
	appCtx := &app.Context{
		ConfigFile:   configFile,
		OutputFormat: viper.GetString("output_format"),
		Verbose:      viper.GetBool("verbose"),
		PCMFormat:    convertFormat,
		Normalize:    convertNormalize,
		RemoveDC:     convertRemoveDC,
	}

	convert, err := app.NewConvertApp(appCtx)
	if err != nil {
		return err
	}

	return convert.Run(args[0], convertOutput)
}
