//go:build !tinygo

package cmd

import (
	"fmt"
	"os"

	"boardscan-go/x/logx"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	verbose    bool
	logLevel   string
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "i2cscan",
	Short: "I2C peripheral discovery and classification",
	Long: `Sweep an I2C bus, identify the peripherals that answer and report them
the way the firmware's discovery service sees them.

Examples:
  i2cscan scan --bus 1                          # Sweep /dev/i2c-1
  i2cscan scan --simulate board.yaml -f json    # Sweep a simulated bus
  i2cscan scan --config scan.yaml --bringup     # Sweep, then initialise drivers
  i2cscan boards                                # List built-in board setups`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging with caller info")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML configuration file")
}

// newLogger honours --verbose, then --log-level, then the config file.
func newLogger(fileLevel string, fileDev bool) (*zap.SugaredLogger, error) {
	level := logx.ParseLevel(fileLevel)
	if logLevel != "" {
		level = logx.ParseLevel(logLevel)
	}
	if verbose {
		level = logx.LevelDebug
	}
	return logx.NewZap(level, verbose || fileDev)
}
