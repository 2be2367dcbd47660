package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/utakatalp/season-simulator/internal/config"
	"github.com/utakatalp/season-simulator/internal/logger"
	"github.com/utakatalp/season-simulator/internal/store"
)

var (
	configPath string
	logLevel   string
	dbDriver   string
	dbDSN      string

	// cfg is loaded before any subcommand runs.
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "seasonsim",
	Short: "Football season simulator",
	Long:  "Simulate domestic leagues, continental qualification and knockout competitions from a YAML configuration.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger.Init(logLevel)
		var err error
		if configPath == "" {
			cfg, err = config.Default()
		} else {
			cfg, err = config.Load(configPath)
		}
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		return nil
	},
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML configuration (embedded default when empty)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error (LOG_LEVEL when empty)")

	rootCmd.AddCommand(seasonCmd)
	rootCmd.AddCommand(matchCmd)
	rootCmd.AddCommand(leagueCmd)
	rootCmd.AddCommand(oddsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(historyCmd)
}

// addArchiveFlags registers the database flags on commands that archive or
// read seasons.
func addArchiveFlags(c *cobra.Command) {
	c.Flags().StringVar(&dbDriver, "db-driver", store.DriverSQLite, "archive driver: sqlite or postgres")
	c.Flags().StringVar(&dbDSN, "db-dsn", "", "archive data source name; archiving is off when empty")
}

// openArchive returns nil when no DSN was given.
func openArchive() (*store.Store, error) {
	if dbDSN == "" {
		return nil, nil
	}
	s, err := store.Open(dbDriver, dbDSN)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	if err := s.Migrate(); err != nil {
		s.Close()
		return nil, fmt.Errorf("migrate archive: %w", err)
	}
	return s, nil
}
