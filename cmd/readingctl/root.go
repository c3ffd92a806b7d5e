package main

import (
	"context"
	"database/sql"
	"time"

	"github.com/spf13/cobra"

	"github.com/edmedpublic-hub/Reading-Platform/internal/config"
	"github.com/edmedpublic-hub/Reading-Platform/internal/db"
	"github.com/edmedpublic-hub/Reading-Platform/internal/logger"
)

var (
	cfg      = config.FromEnv()
	verbose  bool
	dbDriver string
	dbDSN    string

	log = logger.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "readingctl",
	Short: "Administer the reading platform and score transcripts offline",
	Long: `readingctl scores read-aloud transcripts against expected text, seeds the
lesson catalog from YAML, runs database migrations and manages local users.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := cfg.LogLevel
		if verbose {
			level = "debug"
		}
		l, err := logger.New(logger.Options{Mode: cfg.LogMode, Level: level, Redact: cfg.LogRedaction, Salt: cfg.LogHashSalt})
		if err != nil {
			return err
		}
		log = l
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	rootCmd.PersistentFlags().StringVar(&dbDriver, "db-driver", cfg.DBDriver, "database driver: sqlite or postgres")
	rootCmd.PersistentFlags().StringVar(&dbDSN, "db-dsn", cfg.DBDSN, "database DSN (default depends on driver)")
}

// openDB opens and migrates the database named by the persistent flags.
func openDB(ctx context.Context) (*sql.DB, error) {
	driver, err := db.ParseDriver(dbDriver)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return db.Open(ctx, driver, dbDSN)
}
