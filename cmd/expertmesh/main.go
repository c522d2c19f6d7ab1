// Command expertmesh answers queries against a configured pool of experts.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/hupe1980/expertmesh/logging"
)

var rootFlags struct {
	config    string
	logLevel  string
	logFormat string
}

var rootCmd = &cobra.Command{
	Use:   "expertmesh",
	Short: "Coordinate a pool of specialized experts to answer queries",
	Long: `expertmesh routes a natural-language query to a pool of specialized
experts, executes them according to a delegation strategy (single, parallel,
sequential or intelligent) and merges their answers into one attributable
result.

The pool is defined in a YAML config file; see 'expertmesh experts' to
inspect a pool definition.`,
	SilenceUsage: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&rootFlags.config, "config", "expertmesh.yaml", "Path to pool config file (YAML)")
	pf.StringVar(&rootFlags.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	pf.StringVar(&rootFlags.logFormat, "log-format", "text", "Log format (text, json)")
}

func newLogger() logging.Logger {
	return logging.New(logging.ParseLevel(rootFlags.logLevel), rootFlags.logFormat, os.Stderr)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
