package app

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/uartscope/uartscope/configs"
	"github.com/uartscope/uartscope/pkg/logging"
)

// Context holds the application context and configuration
type Context struct {
	// CLI arguments
	ConfigFile   string
	OutputFile   string
	OutputFormat string
	Verbose      bool

	// Monitor arguments
	Port     string
	Record   bool
	Duration time.Duration
	CSVFile  string

	// Analyze arguments
	Spectrogram bool

	// Convert arguments
	PCMFormat string
	Normalize bool
	RemoveDC  bool

	// Runtime context
	Logger logging.Logger
	Config *configs.Config

	// Out receives rendered results; nil means os.Stdout.
	Out io.Writer
}

func (ctx *Context) stdout() io.Writer {
	if ctx.Out != nil {
		return ctx.Out
	}
	return os.Stdout
}

// initialize loads configuration and sets up logging for the context.
func (ctx *Context) initialize() error {
	config, err := configs.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if ctx.Port != "" {
		config.Serial.Port = ctx.Port
	}
	if ctx.OutputFormat != "" {
		config.OutputFormat = ctx.OutputFormat
	}
	if ctx.Verbose {
		config.Verbose = true
		config.LogLevel = "debug"
	}

	if err := configs.ValidateConfig(config); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx.Config = config
	ctx.Logger = setupLogging(config)
	return nil
}

// setupLogging configures logging based on the loaded configuration
func setupLogging(config *configs.Config) logging.Logger {
	logger := logging.NewLogger(config.LogLevel)
	logging.SetDefault(logger)
	return logger
}
