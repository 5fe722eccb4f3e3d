/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/flashfolio/apiserver/config"
	"github.com/flashfolio/apiserver/internal/db"
	"github.com/flashfolio/apiserver/internal/store"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// resetCmd wipes every row from the database. Dependents go first so
// the foreign keys never block a delete.
var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all rows from every table",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()
		ctx := cmd.Context()

		conn, err := db.Open(ctx, cfg)
		if err != nil {
			return fmt.Errorf("open database failed: %w", err)
		}
		defer conn.Close()

		logrus.Warn("Resetting the database.")

		scores := store.NewScoreRepository(conn)
		cards := store.NewCardRepository(conn)
		folders := store.NewFolderRepository(conn)
		users := store.NewUserRepository(conn)

		if err := scores.DeleteAll(ctx); err != nil {
			return fmt.Errorf("delete scores failed: %w", err)
		}
		if err := cards.DeleteAll(ctx); err != nil {
			return fmt.Errorf("delete cards failed: %w", err)
		}
		if err := folders.DeleteAll(ctx); err != nil {
			return fmt.Errorf("delete folders failed: %w", err)
		}
		if err := users.DeleteAll(ctx); err != nil {
			return fmt.Errorf("delete users failed: %w", err)
		}

		logrus.Warn("Database reset complete.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resetCmd)
}
