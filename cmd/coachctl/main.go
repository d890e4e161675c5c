package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yungbote/careercoach-backend/internal/app"
	"github.com/yungbote/careercoach-backend/internal/platform/logger"
)

const version = "1.0.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "coachctl",
		Short: "Operator tooling for the career coach backend",
		Long: `coachctl runs maintenance tasks directly against the configured database.
It reads the same environment (and .env file) as the API server.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newMigrateCommand())
	rootCmd.AddCommand(newGrantAdminCommand())
	rootCmd.AddCommand(newRolesCommand())
	rootCmd.AddCommand(newBulkAnalyzeCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func bootstrap() (*logger.Logger, app.Config, error) {
	if os.Getenv("LOG_MODE") == "" {
		_ = os.Setenv("LOG_MODE", "test")
	}
	return app.Bootstrap()
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
