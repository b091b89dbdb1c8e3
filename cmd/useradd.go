/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"os"

	"github.com/nordicmaskin/kma/config"
	"github.com/nordicmaskin/kma/internal/server"
	"github.com/nordicmaskin/kma/internal/services"
	"github.com/nordicmaskin/kma/internal/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var useraddOpts struct {
	name     string
	email    string
	password string
}

var useraddCmd = &cobra.Command{
	Use:   "useradd",
	Short: "Create an operator account",
	Long: `Creates an active operator account. The password is taken from
--password or, when omitted, from KMA_PASSWORD.

	kma useradd --name "Anna Jensen" --email anna@example.com
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		password := useraddOpts.password
		if password == "" {
			password = os.Getenv("KMA_PASSWORD")
		}
		if password == "" {
			return errors.New("a password is required (--password or KMA_PASSWORD)")
		}

		cfg := config.LoadConfig()
		tables, err := server.OpenTables(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer tables.Close()

		users := services.NewUserService(store.NewUserRepository(tables.Store))
		user, err := users.CreateUser(cmd.Context(), useraddOpts.name, password, useraddOpts.email)
		if err != nil {
			return err
		}
		logger.Info("user created", zap.String("user", user.FullName), zap.String("email", user.Email))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(useraddCmd)
	useraddCmd.Flags().StringVar(&useraddOpts.name, "name", "", "full name used to log in")
	useraddCmd.Flags().StringVar(&useraddOpts.email, "email", "", "email address")
	useraddCmd.Flags().StringVar(&useraddOpts.password, "password", "", "password")
	_ = useraddCmd.MarkFlagRequired("name")
}
