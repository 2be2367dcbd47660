package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/utakatalp/season-simulator/internal/awards"
	"github.com/utakatalp/season-simulator/internal/league"
	"github.com/utakatalp/season-simulator/internal/logger"
	"github.com/utakatalp/season-simulator/internal/rating"
	"github.com/utakatalp/season-simulator/internal/report"
	"github.com/utakatalp/season-simulator/internal/season"
)

var (
	seasonSeed       int64
	seasonCount      int
	seasonSequential bool
	seasonRatings    bool
	seasonTop        int
)

var seasonCmd = &cobra.Command{
	Use:   "season",
	Short: "Simulate one or more full seasons",
	Long:  "Play every league, allocate continental places and run the competitions. With --seasons above one, ratings can be carried from one season to the next.",
	Args:  cobra.NoArgs,
	RunE:  runSeason,
}

func init() {
	seasonCmd.Flags().Int64Var(&seasonSeed, "seed", 0, "root seed (config seed when 0)")
	seasonCmd.Flags().IntVar(&seasonCount, "seasons", 1, "number of consecutive seasons")
	seasonCmd.Flags().BoolVar(&seasonSequential, "sequential", false, "play leagues one after another")
	seasonCmd.Flags().BoolVar(&seasonRatings, "apply-ratings", false, "adjust abilities after each season")
	seasonCmd.Flags().IntVar(&seasonTop, "top", 10, "rows in the scorer, assist and Ballon d'Or tables")
	addArchiveFlags(seasonCmd)
}

func runSeason(cmd *cobra.Command, args []string) error {
	if seasonCount <= 0 {
		return fmt.Errorf("--seasons must be positive, got %d", seasonCount)
	}
	reg, err := cfg.Registry()
	if err != nil {
		return err
	}
	archive, err := openArchive()
	if err != nil {
		return err
	}
	if archive != nil {
		defer archive.Close()
	}

	sc := cfg.Season()
	if seasonSeed != 0 {
		sc.Seed = seasonSeed
	}
	if seasonSequential {
		sc.Parallel = false
	}
	root := sc.Seed

	logger.Debug("season setup", "seed", root, "seasons", seasonCount, "parallel", sc.Parallel, "ratings", seasonRatings)

	out := os.Stdout
	for i := 0; i < seasonCount; i++ {
		sc.Seed = root + int64(i)
		sn, err := season.New(reg, sc, logger.Logger)
		if err != nil {
			return err
		}
		res, err := sn.Run()
		if err != nil {
			return fmt.Errorf("season %d: %w", i+1, err)
		}

		if seasonCount > 1 {
			fmt.Fprintf(out, "\n=== Season %d (seed %d) ===\n", i+1, sc.Seed)
		}
		report.PrintSeason(out, res, reg)
		report.PrintLeaders(out, "GOALS", awards.TopScorers(reg, seasonTop), reg)
		report.PrintLeaders(out, "ASSISTS", awards.TopAssisters(reg, seasonTop), reg)
		report.PrintBallonDor(out, awards.BallonDor(reg, res.Honours, seasonTop), reg)

		if archive != nil {
			if err := archive.SaveSeason(res, reg); err != nil {
				return fmt.Errorf("archive season: %w", err)
			}
			logger.Info("season archived", "season", res.ID, "driver", dbDriver)
		}

		if seasonRatings {
			rng := league.NewSource(sc.RatingSeed())
			adj := rating.Apply(res, reg, rng)
			report.PrintAdjustments(out, adj, reg)
		}
	}
	return nil
}
