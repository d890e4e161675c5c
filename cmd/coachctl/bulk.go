package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yungbote/careercoach-backend/internal/app"
	"github.com/yungbote/careercoach-backend/internal/platform/ctxutil"
	"github.com/yungbote/careercoach-backend/internal/services"
)

var bulkExtensions = map[string]bool{".pdf": true, ".docx": true, ".txt": true, ".md": true}

func newBulkAnalyzeCommand() *cobra.Command {
	var (
		role     string
		dir      string
		operator string
	)
	cmd := &cobra.Command{
		Use:   "bulk-analyze",
		Short: "Score every résumé file in a directory against a target role",
		Long: `bulk-analyze reads .pdf, .docx, .txt and .md files from --dir, runs the
analysis for each one and prints the run report as JSON. The run is recorded
under the admin named by --admin.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := loadResumeDir(dir)
			if err != nil {
				return err
			}
			log, cfg, err := bootstrap()
			if err != nil {
				return err
			}
			defer log.Sync()

			a, err := app.New(cmd.Context(), log, cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			admin, err := a.Repos.User.GetByUsername(cmd.Context(), nil, operator)
			if err != nil {
				return fmt.Errorf("look up %q: %w", operator, err)
			}
			if !admin.IsAdmin() {
				return fmt.Errorf("%s is not an admin (use grant-admin first)", admin.Username)
			}
			ctx := ctxutil.WithRequestData(cmd.Context(), &ctxutil.RequestData{
				UserID:   admin.ID,
				Username: admin.Username,
				Role:     admin.Role,
			})

			report, err := a.Services.Bulk.RunForFiles(ctx, role, files)
			if err != nil {
				return err
			}
			return printJSON(report)
		},
	}
	cmd.Flags().StringVarP(&role, "role", "r", "", "target role to score against")
	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "directory of résumé files")
	cmd.Flags().StringVar(&operator, "admin", "admin", "admin username that owns the run")
	_ = cmd.MarkFlagRequired("role")
	return cmd
}

// loadResumeDir reads the supported files directly inside dir, sorted by name.
func loadResumeDir(dir string) ([]services.Upload, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !bulkExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	if len(names) == 0 {
		return nil, fmt.Errorf("no .pdf, .docx, .txt or .md files in %s", dir)
	}
	out := make([]services.Upload, 0, len(names))
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		out = append(out, services.Upload{Filename: name, Data: data})
	}
	return out, nil
}
