package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hupe1980/expertmesh/config"
)

var expertsCmd = &cobra.Command{
	Use:   "experts",
	Short: "List the experts defined in the pool config",
	RunE:  runExperts,
}

func init() {
	rootCmd.AddCommand(expertsCmd)
}

func runExperts(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(rootFlags.config)
	if err != nil {
		return err
	}

	strategy := cfg.Strategy
	if strategy == "" {
		strategy = "parallel"
	}
	fmt.Printf("strategy: %s  max experts: %d\n\n", strategy, cfg.MaxExperts)

	for _, e := range cfg.Experts {
		fmt.Printf("%s (%s)\n", e.Name, e.Domain)
		fmt.Printf("  keywords:   %s\n", strings.Join(e.Keywords, ", "))
		fmt.Printf("  confidence: %.2f\n", e.Confidence)
		if len(e.Tools) > 0 {
			fmt.Printf("  tools:      %s\n", strings.Join(e.Tools, ", "))
		}
		provider := e.Provider
		if provider == "" {
			provider = "mock"
		}
		fmt.Printf("  oracle:     %s", provider)
		if e.Model != "" {
			fmt.Printf(" (%s)", e.Model)
		}
		fmt.Println()
		fmt.Println()
	}
	return nil
}
