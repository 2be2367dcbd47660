package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/utakatalp/season-simulator/internal/league"
	"github.com/utakatalp/season-simulator/internal/report"
)

var matchSeed int64

var matchCmd = &cobra.Command{
	Use:   "match <home> <away>",
	Short: "Play a single match between two teams",
	Args:  cobra.ExactArgs(2),
	RunE:  runMatch,
}

func init() {
	matchCmd.Flags().Int64Var(&matchSeed, "seed", 0, "seed (config seed when 0)")
}

func runMatch(cmd *cobra.Command, args []string) error {
	reg, err := cfg.Registry()
	if err != nil {
		return err
	}
	teams, err := reg.Lookup([]league.TeamID{league.TeamID(args[0]), league.TeamID(args[1])})
	if err != nil {
		return err
	}
	eng, err := league.NewEngine(cfg.Engine)
	if err != nil {
		return err
	}
	seed := cfg.Seed
	if matchSeed != 0 {
		seed = matchSeed
	}
	res, err := eng.Simulate(teams[0], teams[1], league.NewSource(seed))
	if err != nil {
		return err
	}
	report.PrintMatch(os.Stdout, res, reg)
	return nil
}
