package cmd

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/uartscope/uartscope/internal/app"
)

var (
	// Monitor command flags
	monitorPort     string
	monitorRecord   bool
	monitorDuration time.Duration
	monitorCSV      string
)

// monitorCmd represents the monitor command
var monitorCmd = &cobra.Command{
	Use:   "monitor [flags]",
	Short: "Acquire and analyze samples from a serial link",
	Long: `Open the configured serial port and analyze the incoming sample stream
live: every analysis tick estimates the sampling rate from timestamps and
extracts spectral peaks from a Hann-windowed averaged spectrum.

With --record, every decoded sample is additionally captured to a
recording session and flushed to a CSV file on exit.

Examples:
  # Monitor the default port until interrupted
  uartscope monitor

  # Monitor a specific port for 30 seconds
  uartscope monitor --port /dev/ttyACM0 --duration 30s

  # Record a capture for later offline analysis
  uartscope monitor --record --csv capture.csv`,
	Args: cobra.NoArgs,
	RunE: runMonitor,
}

func init() {
	rootCmd.AddCommand(monitorCmd)

	monitorCmd.Flags().StringVarP(&monitorPort, "port", "p", "",
		"serial port device (overrides configuration)")
	monitorCmd.Flags().BoolVarP(&monitorRecord, "record", "r", false,
		"record decoded samples to a CSV capture")
	monitorCmd.Flags().DurationVarP(&monitorDuration, "duration", "d", 0,
		"stop after this long (0 runs until interrupted)")
	monitorCmd.Flags().StringVar(&monitorCSV, "csv", "",
		"recording output path (default is a timestamped name)")
}

func runMonitor(cmd *cobra.Command, args []string) error {
	appCtx := &app.Context{
		ConfigFile:   configFile,
		OutputFormat: viper.GetString("output_format"),
		Verbose:      viper.GetBool("verbose"),
		Port:         monitorPort,
		Record:       monitorRecord,
		Duration:     monitorDuration,
		CSVFile:      monitorCSV,
	}

	monitor, err := app.NewMonitorApp(appCtx)
	if err != nil {
		return err
	}

	// Stop cleanly on Ctrl-C; a second signal kills outright.
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return monitor.Run(ctx)
}
