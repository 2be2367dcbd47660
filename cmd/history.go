package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/utakatalp/season-simulator/internal/league"
	"github.com/utakatalp/season-simulator/internal/report"
	"github.com/utakatalp/season-simulator/internal/store"
)

var (
	historyDelete string
	historySeason string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List archived seasons and all-time title counts",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&historyDelete, "delete", "", "remove the archived season with this id")
	historyCmd.Flags().StringVar(&historySeason, "season", "", "print honours and final tables of the archived season with this id")
	addArchiveFlags(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	if dbDSN == "" {
		return errors.New("--db-dsn is required")
	}
	archive, err := openArchive()
	if err != nil {
		return err
	}
	defer archive.Close()

	if historyDelete != "" {
		if err := archive.DeleteSeason(historyDelete); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Deleted season %s\n", historyDelete)
	}

	if historySeason != "" {
		return printArchivedSeason(archive, historySeason)
	}

	seasons, err := archive.ListSeasons()
	if err != nil {
		return err
	}
	if len(seasons) == 0 {
		fmt.Fprintln(os.Stdout, "No seasons archived yet. Run 'seasonsim season --db-dsn ...' to add one.")
		return nil
	}
	counts, err := archive.TitleCounts()
	if err != nil {
		return err
	}
	reg, err := cfg.Registry()
	if err != nil {
		return err
	}
	report.PrintHistory(os.Stdout, seasons)
	report.PrintTitleCounts(os.Stdout, counts, reg)
	return nil
}

func printArchivedSeason(archive *store.Store, id string) error {
	honours, err := archive.Honours(id)
	if err != nil {
		return err
	}
	if len(honours) == 0 {
		return fmt.Errorf("season %s is not archived", id)
	}
	reg, err := cfg.Registry()
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Season %s\n", id)
	report.PrintHonours(os.Stdout, honours, reg)
	for _, name := range reg.Leagues() {
		rows, err := archive.Standings(id, name)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			continue
		}
		report.PrintTable(os.Stdout, &league.Table{Name: name, Rows: rows}, reg)
	}
	return nil
}
