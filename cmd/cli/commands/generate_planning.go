package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/turnify/pkg/core/services"
)

// GeneratePlanningCmd creates the generatePlanning command
func GeneratePlanningCmd(app *AppContext) *cobra.Command {
	var params services.GeneratePlanningParams

	cmd := &cobra.Command{
		Use:   "generatePlanning",
		Short: "Generate and store a planning for the stored roster",
		Long: `Generate a planning starting at --start (default: next Monday) for --days days
(default: planning.horizonDays from the config). The planning is stored even when
some slots stay uncovered.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Logger.Debug("generatePlanning command",
				zap.String("start", params.StartDate),
				zap.Int("days", params.HorizonDays))

			result, err := services.GeneratePlanning(app.Ctx, app.Database, app.Cfg, app.Logger, params)
			if err != nil {
				return err
			}

			record := result.Record
			outcome := result.Outcome

			green := color.New(color.FgGreen).SprintFunc()
			yellow := color.New(color.FgYellow).SprintFunc()
			red := color.New(color.FgRed).SprintFunc()

			if outcome.Success {
				fmt.Printf("\n%s Planning generated successfully!\n\n", green("✓"))
			} else {
				fmt.Printf("\n%s Planning generated with gaps\n\n", yellow("!"))
			}

			fmt.Printf("Planning ID: %s\n", record.ID)
			fmt.Printf("Start Date:  %s\n", record.StartDate)
			fmt.Printf("Days:        %d\n", record.HorizonDays)
			fmt.Printf("Assigned:    %d\n", len(record.AssignmentRows())-outcome.Uncovered)
			if outcome.Uncovered > 0 {
				fmt.Printf("Uncovered:   %s\n", yellow(outcome.Uncovered))
			} else {
				fmt.Printf("Uncovered:   %d\n", outcome.Uncovered)
			}

			shortfalls := 0
			for _, date := range record.Planning.SortedDates() {
				for _, coverage := range record.Planning[date].RoleCoverage {
					if coverage.MinimumMet {
						continue
					}
					if shortfalls == 0 {
						fmt.Printf("\nCoverage below minimum:\n")
					}
					shortfalls++
					fmt.Printf("  %s  %-12s %-20s %d/%d\n",
						date, coverage.ShiftName, coverage.RoleName, coverage.Assigned, coverage.MinCoverage)
				}
			}

			if len(outcome.ValidationErrors) > 0 {
				fmt.Printf("\n%s\n", red("Constraint violations:"))
				for _, v := range outcome.ValidationErrors {
					fmt.Printf("  %s  [%s] %s\n", v.Date, v.Rule, v.Description)
				}
			}

			fmt.Println("\nRun 'viewPlanning' to see the weekly matrix.")
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().StringVar(&params.StartDate, "start", "", "First day of the planning (YYYY-MM-DD)")
	cmd.Flags().IntVar(&params.HorizonDays, "days", 0, "Number of days to plan")

	return cmd
}
