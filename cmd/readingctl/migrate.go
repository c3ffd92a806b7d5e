package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or upgrade the database schema",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// opening runs the migrations
		dbh, err := openDB(cmd.Context())
		if err != nil {
			return err
		}
		defer dbh.Close()
		log.Info("schema up to date", "driver", dbDriver)
		fmt.Fprintln(cmd.OutOrStdout(), "ok")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
