package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/turnify/pkg/core/model"
	"github.com/jakechorley/turnify/pkg/core/services"
)

// ImportRosterCmd creates the importRoster command
func ImportRosterCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "importRoster <file>",
		Short: "Replace the stored roster with a YAML or JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Logger.Debug("importRoster command", zap.String("file", args[0]))

			roster, err := services.ImportRoster(app.Ctx, app.Database, app.Logger, args[0])
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Roster imported from %s\n\n", args[0])
			printRosterSummary(roster)
			return nil
		},
	}
}

// SeedRosterCmd creates the seedRoster command
func SeedRosterCmd(app *AppContext) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "seedRoster",
		Short: "Replace the roster with demo data and delete stored plannings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes && !confirm(cmd, "Replace the roster and delete every stored planning?") {
				fmt.Println("Aborted")
				return nil
			}

			roster, err := services.SeedRoster(app.Ctx, app.Database, app.Logger)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Demo roster seeded\n\n")
			printRosterSummary(roster)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")

	return cmd
}

// MetricsCmd creates the metrics command
func MetricsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "metrics",
		Short: "Show roster and latest planning counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			metrics, err := services.GetMetrics(app.Ctx, app.Database, app.Logger)
			if err != nil {
				return err
			}

			fmt.Println()
			fmt.Printf("Employees:   %d\n", metrics.Employees)
			fmt.Printf("Roles:       %d\n", metrics.Roles)
			fmt.Printf("Shifts:      %d\n", metrics.Shifts)
			if !metrics.HasPlanning {
				fmt.Printf("Planning:    none\n\n")
				return nil
			}
			fmt.Printf("Planning:    %s (from %s)\n", metrics.LatestPlanningID, metrics.LatestStartDate)
			fmt.Printf("Assignments: %d\n", metrics.Assignments)
			fmt.Printf("Uncovered:   %d\n\n", metrics.Uncovered)
			return nil
		},
	}
}

func printRosterSummary(roster *model.Roster) {
	fmt.Printf("Employees: %d\n", len(roster.Employees))
	fmt.Printf("Roles:     %d\n", len(roster.Roles))
	fmt.Printf("Shifts:    %d\n\n", len(roster.Shifts))
}
