package commands

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/turnify/pkg/clients/sheetsclient"
	"github.com/jakechorley/turnify/pkg/core/services"
)

// ExportPlanningCmd creates the exportPlanning command
func ExportPlanningCmd(app *AppContext) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "exportPlanning",
		Short: "Export the latest planning as JSON",
		Long: `Write the latest planning as a versioned JSON document. Without --out the file is
named planning_<start>.json in the current directory; use --out - for stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			envelope, err := services.ExportPlanning(app.Ctx, app.Database, app.Logger)
			if err != nil {
				return err
			}

			if out == "-" {
				return services.WriteExport(os.Stdout, envelope)
			}

			path := out
			if path == "" {
				path = services.ExportFileName(envelope)
			}
			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}

			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("failed to create export file: %w", err)
			}
			if err := services.WriteExport(f, envelope); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("failed to close export file: %w", err)
			}

			app.Logger.Info("Planning exported", zap.String("planning_id", envelope.ID), zap.String("path", path))
			fmt.Printf("\n✓ Planning exported to %s\n\n", path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file ('-' for stdout)")

	return cmd
}

// ClearPlanningCmd creates the clearPlanning command
func ClearPlanningCmd(app *AppContext) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clearPlanning",
		Short: "Delete every stored planning",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes && !confirm(cmd, "Delete every stored planning?") {
				fmt.Println("Aborted")
				return nil
			}

			if err := services.ClearPlanning(app.Ctx, app.Database, app.Logger); err != nil {
				return err
			}

			fmt.Printf("\n✓ Plannings cleared\n\n")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")

	return cmd
}

// PublishPlanningCmd creates the publishPlanning command
func PublishPlanningCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "publishPlanning",
		Short: "Publish the latest planning to the configured Google Sheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Cfg.Sheets.SpreadsheetID == "" {
				return fmt.Errorf("sheets.spreadsheetID is not configured")
			}

			app.Logger.Debug("Initializing sheets client")
			client, err := sheetsclient.NewClient(app.Ctx, app.Cfg.Sheets.CredentialsFile)
			if err != nil {
				return fmt.Errorf("failed to create sheets client: %w", err)
			}

			published, err := services.PublishPlanning(app.Ctx, app.Database, client, app.Cfg, app.Logger)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Planning published to tab %q (%d weeks)\n\n", published.TabTitle, len(published.Weeks))
			return nil
		},
	}
}

// confirm asks a yes/no question on the command's input
func confirm(cmd *cobra.Command, question string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N]: ", question)
	answer, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
