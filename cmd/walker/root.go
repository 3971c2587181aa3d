// walker visits the files of a directory one at a time, at a fixed interval.
//
// Usage:
//
//	walker run [--config walker.yaml] [--dir DIR] [--every 30s] [--pattern '*.md'] [--progress]
//	walker history --db history.db [--limit 20]
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	config    string
	logFormat string
}

var rootCmd = &cobra.Command{
	Use:   "walker",
	Short: "Walk through the files of a directory at a fixed interval",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	SilenceUsage: true,
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVar(&rootFlags.config, "config", "", "YAML config file")
	f.StringVar(&rootFlags.logFormat, "log-format", "", "Log format: console or json (overrides config)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.Version = version
}

// newLogger builds a development logger for "console" and a production one for "json".
func newLogger(format string) (*zap.Logger, error) {
	switch format {
	case "", "console":
		return zap.NewDevelopment()
	case "json":
		return zap.NewProduction()
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
