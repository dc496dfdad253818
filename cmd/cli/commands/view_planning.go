package commands

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jakechorley/turnify/pkg/core/planner"
	"github.com/jakechorley/turnify/pkg/core/services"
	"github.com/jakechorley/turnify/pkg/utils"
)

const (
	rowHeader   = "Employee (worked/expected h)"
	emptyCell   = "-"
	columnSpace = 2
)

// ViewPlanningCmd creates the viewPlanning command
func ViewPlanningCmd(app *AppContext) *cobra.Command {
	var week int

	cmd := &cobra.Command{
		Use:   "viewPlanning",
		Short: "Show the latest planning as a weekly matrix",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			record, weeks, err := services.PlanningMatrix(app.Ctx, app.Database, app.Cfg, app.Logger)
			if err != nil {
				return err
			}

			if week > len(weeks) {
				return fmt.Errorf("planning has %d weeks, got --week %d", len(weeks), week)
			}

			fmt.Printf("\nPlanning %s (generated %s)\n", record.ID, record.GeneratedAt.Local().Format("2006-01-02 15:04"))
			if record.Uncovered > 0 {
				fmt.Printf("%s\n", color.YellowString("%d uncovered slots", record.Uncovered))
			}

			for i, w := range weeks {
				if week > 0 && i != week-1 {
					continue
				}
				fmt.Println()
				renderWeek(os.Stdout, w)
			}
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().IntVar(&week, "week", 0, "Only show this week (1-based)")

	return cmd
}

// renderWeek prints one week as a table: a row per employee, a column per date.
// Tags are painted with the role colour and a readable text colour.
func renderWeek(w io.Writer, week services.WeekMatrix) {
	bold := color.New(color.Bold).SprintFunc()
	dim := color.New(color.FgHiBlack).SprintFunc()

	columns := make([]string, len(week.Dates))
	for i, date := range week.Dates {
		columns[i] = columnTitle(date)
	}

	labelWidth := utf8.RuneCountInString(rowHeader)
	for _, row := range week.Rows {
		labelWidth = max(labelWidth, utf8.RuneCountInString(row.Title()))
	}

	widths := make([]int, len(columns))
	for i, column := range columns {
		widths[i] = utf8.RuneCountInString(column)
		for _, row := range week.Rows {
			widths[i] = max(widths[i], cellWidth(row.Cells[i]))
		}
	}

	fmt.Fprintln(w, bold(week.Title()))

	fmt.Fprint(w, bold(pad(rowHeader, labelWidth+columnSpace)))
	for i, column := range columns {
		fmt.Fprint(w, bold(pad(column, widths[i]+columnSpace)))
	}
	fmt.Fprintln(w)

	total := labelWidth + columnSpace
	for _, width := range widths {
		total += width + columnSpace
	}
	fmt.Fprintln(w, strings.Repeat("-", total))

	for _, row := range week.Rows {
		label := pad(row.Title(), labelWidth+columnSpace)
		if row.Uncovered {
			label = color.RedString("%s", label)
		}
		fmt.Fprint(w, label)

		for i, tags := range row.Cells {
			if len(tags) == 0 {
				fmt.Fprint(w, dim(pad(emptyCell, widths[i]+columnSpace)))
				continue
			}
			for _, tag := range tags {
				fmt.Fprint(w, paintTag(tag))
			}
			fmt.Fprint(w, strings.Repeat(" ", widths[i]+columnSpace-cellWidth(tags)))
		}
		fmt.Fprintln(w)
	}
}

// columnTitle turns "2025-01-06" into "Mon 06/01"
func columnTitle(date string) string {
	d, err := time.Parse(planner.DateLayout, date)
	if err != nil {
		return date
	}
	return d.Format("Mon 02/01")
}

// tagText is the visible text of a tag including its padding
func tagText(tag services.MatrixTag) string {
	return " " + tag.Text + " "
}

func cellWidth(tags []services.MatrixTag) int {
	if len(tags) == 0 {
		return utf8.RuneCountInString(emptyCell)
	}
	width := 0
	for _, tag := range tags {
		width += utf8.RuneCountInString(tagText(tag))
	}
	return width
}

func paintTag(tag services.MatrixTag) string {
	c := color.New()
	if bg, ok := utils.ParseHexColor(tag.Background); ok {
		c.AddBgRGB(int(bg.R), int(bg.G), int(bg.B))
	}
	if fg, ok := utils.ParseHexColor(tag.Foreground); ok {
		c.AddRGB(int(fg.R), int(fg.G), int(fg.B))
	}
	return c.Sprint(tagText(tag))
}

func pad(s string, width int) string {
	if n := utf8.RuneCountInString(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}
