/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/flashfolio/apiserver/config"
	"github.com/flashfolio/apiserver/internal/db"
	"github.com/flashfolio/apiserver/internal/store"
	"github.com/flashfolio/apiserver/types"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

// seedCmd loads a small development fixture set: three users, five
// folders (two of them public) and a handful of cards with scores.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert development fixture data",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()
		ctx := cmd.Context()

		conn, err := db.Open(ctx, cfg)
		if err != nil {
			return fmt.Errorf("open database failed: %w", err)
		}
		defer conn.Close()

		users := store.NewUserRepository(conn)
		folders := store.NewFolderRepository(conn)
		cards := store.NewCardRepository(conn)
		scores := store.NewScoreRepository(conn)

		logrus.Info("Seeding users.")
		userFixtures := []struct {
			name     string
			email    string
			password string
		}{
			{"John Doe", "user@example.com", "user1234"},
			{"Rosalind Myers", "rosalindmyers@example.com", "12345678910"},
			{"So Mi", "somi@example.com", "12345678911"},
		}
		seedUsers := make([]types.User, 0, len(userFixtures))
		for _, f := range userFixtures {
			hash, err := bcrypt.GenerateFromPassword([]byte(f.password), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("hash password failed: %w", err)
			}
			seedUsers = append(seedUsers, types.User{
				Name:           f.name,
				Email:          f.email,
				HashedPassword: string(hash),
			})
		}
		userIDs, err := users.Create(ctx, seedUsers)
		if err != nil {
			return fmt.Errorf("seed users failed: %w", err)
		}

		logrus.Info("Seeding folders.")
		folderIDs, err := folders.Create(ctx, []types.Folder{
			{Name: "Math", Public: false, UserID: userIDs[0]},
			{Name: "Spanish", Public: false, UserID: userIDs[0]},
			{Name: "Russian", Public: false, UserID: userIDs[0]},
			{Name: "French", Public: true, UserID: userIDs[1]},
			{Name: "physics", Public: true, UserID: userIDs[2]},
		})
		if err != nil {
			return fmt.Errorf("seed folders failed: %w", err)
		}

		logrus.Info("Seeding cards.")
		cardIDs, err := cards.Create(ctx, []types.Card{
			{Front: "1+1", Back: "2", FolderID: folderIDs[0]},
			{Front: "1+2", Back: "3", FolderID: folderIDs[0]},
			{Front: "2+2", Back: "4", FolderID: folderIDs[0]},

			{Front: "a dog", Back: "un perro", FolderID: folderIDs[1]},
			{Front: "a cat", Back: "un gato", FolderID: folderIDs[1]},
			{Front: "a parrot", Back: "un loro", FolderID: folderIDs[1]},

			{Front: "a car", Back: "автомобиль", FolderID: folderIDs[2]},
			{Front: "a bicycle", Back: "велосипед", FolderID: folderIDs[2]},
			{Front: "a truck", Back: "грузовик", FolderID: folderIDs[2]},

			{Front: "Le soleil", Back: "The sun", FolderID: folderIDs[3]},
			{Front: "La Lune", Back: "the moon", FolderID: folderIDs[3]},
			{Front: "Les étoiles", Back: "the stars", FolderID: folderIDs[3]},

			{Front: "g", Back: "9.81m/s^2", FolderID: folderIDs[4]},
			{Front: "c", Back: "2.9979*10^8 m/s", FolderID: folderIDs[4]},
			{Front: "e", Back: "1.60*10^-19 C", FolderID: folderIDs[4]},
		})
		if err != nil {
			return fmt.Errorf("seed cards failed: %w", err)
		}

		logrus.Info("Seeding scores.")
		scoreValues := []int{1, 1, 2, 3, 4, 5, 6, 7, 8, 8, 8, 8, 8, 8, 8}
		seedScores := make([]types.Score, 0, len(cardIDs))
		for i, cardID := range cardIDs {
			owner := userIDs[0]
			if i >= 9 {
				owner = userIDs[1]
			}
			if i >= 12 {
				owner = userIDs[2]
			}
			seedScores = append(seedScores, types.Score{
				UserID: owner,
				CardID: cardID,
				Score:  scoreValues[i],
			})
		}
		if err := scores.Create(ctx, seedScores); err != nil {
			return fmt.Errorf("seed scores failed: %w", err)
		}

		logrus.Info("Seeding complete.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
