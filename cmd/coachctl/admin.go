package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yungbote/careercoach-backend/internal/app"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			log, cfg, err := bootstrap()
			if err != nil {
				return err
			}
			defer log.Sync()
			store, err := app.OpenStore(log, cfg)
			if err != nil {
				return err
			}
			defer store.Close()
			fmt.Printf("schema up to date (%s)\n", store.Driver())
			return nil
		},
	}
}

func newGrantAdminCommand() *cobra.Command {
	var username string
	cmd := &cobra.Command{
		Use:   "grant-admin",
		Short: "Give an existing user the admin role",
		RunE: func(cmd *cobra.Command, args []string) error {
			log, cfg, err := bootstrap()
			if err != nil {
				return err
			}
			defer log.Sync()
			op, err := app.NewOperator(log, cfg)
			if err != nil {
				return err
			}
			defer op.Close()
			u, err := op.Users.GrantAdmin(cmd.Context(), username)
			if err != nil {
				return err
			}
			fmt.Printf("%s is now an admin; existing tokens keep their old role until the next login\n", u.Username)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "username to promote")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}
