package main

import (
	"github.com/spf13/cobra"

	"github.com/yungbote/careercoach-backend/internal/modules/coaching/prompts"
)

func newRolesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "roles",
		Short: "List the supported target roles",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printJSON(prompts.DefaultCatalog().Roles())
		},
	}
}
