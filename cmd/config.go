package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/uartscope/uartscope/configs"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

// configInitCmd writes the default configuration file
var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the default configuration file",
	Long: `Write the built-in default configuration as YAML. Without a path the
file is created at $HOME/.config/uartscope/uartscope.yaml. Existing
files are never overwritten.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigInit,
}

// configShowCmd prints the effective configuration
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE:  runConfigShow,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	var path string
	if len(args) == 1 {
		path = args[0]
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("unable to find home directory: %w", err)
		}
		path = filepath.Join(home, ".config", "uartscope", "uartscope.yaml")
	}

	if err := configs.WriteDefault(path); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote default configuration to %s\n", path)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	config, err := configs.LoadConfig()
	if err != nil {
		return err
	}
	if err := configs.ValidateConfig(config); err != nil {
		return fmt.Errorf("effective configuration is invalid: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "serial:   port=%s baud=%d data=%d parity=%s stop=%d\n",
		config.Serial.Port, config.Serial.BaudRate, config.Serial.DataBits,
		config.Serial.Parity, config.Serial.StopBits)
	fmt.Fprintf(out, "decode:   width=%d signed=%t byte_order=%s\n",
		config.Decode.Width, config.Decode.Signed, config.Decode.ByteOrder)
	fmt.Fprintf(out, "buffer:   capacity=%d\n", config.Buffer.Capacity)
	fmt.Fprintf(out, "analysis: rate=%d window=%d overlap=%d max_freq=%g\n",
		config.Analysis.SampleRate, config.Analysis.WindowLength,
		config.Analysis.Overlap, config.Analysis.MaxFrequency)
	fmt.Fprintf(out, "monitor:  interval=%s spectrogram=%t\n",
		config.Monitor.Interval, config.Monitor.Spectrogram)
	return nil
}
