package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/utakatalp/season-simulator/internal/league"
	"github.com/utakatalp/season-simulator/internal/report"
)

var (
	leagueSeed    int64
	leagueResults bool
	oddsRuns      int
)

var leagueCmd = &cobra.Command{
	Use:   "league <name>",
	Short: "Play one domestic league in isolation",
	Args:  cobra.ExactArgs(1),
	RunE:  runLeague,
}

var oddsCmd = &cobra.Command{
	Use:   "odds <league>",
	Short: "Estimate title chances by replaying a league",
	Args:  cobra.ExactArgs(1),
	RunE:  runOdds,
}

func init() {
	leagueCmd.Flags().Int64Var(&leagueSeed, "seed", 0, "seed (config seed when 0)")
	leagueCmd.Flags().BoolVar(&leagueResults, "results", false, "print every result")
	oddsCmd.Flags().Int64Var(&leagueSeed, "seed", 0, "seed (config seed when 0)")
	oddsCmd.Flags().IntVar(&oddsRuns, "runs", 100, "number of simulated seasons")
}

type leagueRun struct {
	reg   *league.Registry
	teams []*league.Team
	eng   *league.Engine
	rng   league.Source
}

// leagueSetup resolves the named league and the engine and stream to play it
// with.
func leagueSetup(name string) (*leagueRun, error) {
	reg, err := cfg.Registry()
	if err != nil {
		return nil, err
	}
	teams, ok := reg.League(name)
	if !ok {
		return nil, fmt.Errorf("unknown league %q (have %v)", name, reg.Leagues())
	}
	eng, err := league.NewEngine(cfg.Engine)
	if err != nil {
		return nil, err
	}
	seed := cfg.Seed
	if leagueSeed != 0 {
		seed = leagueSeed
	}
	return &leagueRun{reg: reg, teams: teams, eng: eng, rng: league.NewSource(seed)}, nil
}

func runLeague(cmd *cobra.Command, args []string) error {
	run, err := leagueSetup(args[0])
	if err != nil {
		return err
	}
	table, err := league.BuildTable(args[0], run.teams, run.eng, run.rng)
	if err != nil {
		return err
	}
	if leagueResults {
		report.PrintResults(os.Stdout, table.Results, run.reg)
	}
	report.PrintTable(os.Stdout, table, run.reg)
	return nil
}

func runOdds(cmd *cobra.Command, args []string) error {
	run, err := leagueSetup(args[0])
	if err != nil {
		return err
	}
	preds, err := league.TitleOdds(args[0], run.teams, run.eng, oddsRuns, run.rng)
	if err != nil {
		return err
	}
	report.PrintOdds(os.Stdout, preds, run.reg)
	return nil
}
