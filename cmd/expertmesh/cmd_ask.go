package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hupe1980/expertmesh/config"
	"github.com/hupe1980/expertmesh/core"
)

var askFlags struct {
	strategy   string
	maxExperts int
	verbose    bool
}

var askCmd = &cobra.Command{
	Use:   "ask [query...]",
	Short: "Ask the expert pool a question",
	Long: `Ask routes the query to the configured expert pool and prints the
merged answer.

Usage:
  expertmesh ask "What is the weather and what is 15 + 27?"
  expertmesh ask --strategy=single "Calculate 9 * 9"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	f := askCmd.Flags()
	f.StringVar(&askFlags.strategy, "strategy", "", "Override the configured delegation strategy")
	f.IntVar(&askFlags.maxExperts, "max-experts", 0, "Override the configured participation cap")
	f.BoolVarP(&askFlags.verbose, "verbose", "v", false, "Print per-expert contributions and token usage")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(rootFlags.config)
	if err != nil {
		return err
	}
	if askFlags.strategy != "" {
		if _, err := core.ParseStrategy(askFlags.strategy); err != nil {
			return err
		}
		cfg.Strategy = askFlags.strategy
	}
	if askFlags.maxExperts > 0 {
		cfg.MaxExperts = askFlags.maxExperts
	}

	l, err := config.Build(cfg, newLogger())
	if err != nil {
		return err
	}

	query := strings.Join(args, " ")
	final, err := l.Answer(cmd.Context(), query, nil)
	if err != nil {
		return err
	}

	fmt.Println(final.Content)

	if askFlags.verbose {
		fmt.Printf("\n--\nconfidence: %.2f  synthesized: %v  experts: %d\n",
			final.Confidence, final.Synthesized, len(final.ExpertAnswers))
		for _, a := range final.ExpertAnswers {
			fmt.Printf("  %s (%s) confidence=%.2f tools=%d\n",
				a.ExpertName, a.Domain, a.Confidence, len(a.ToolResults))
		}
		if final.TokenUsage != nil {
			fmt.Printf("tokens: in=%d out=%d\n", final.TokenUsage.InputTokens, final.TokenUsage.OutputTokens)
		}
	}
	return nil
}
