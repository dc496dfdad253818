package services

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/jakechorley/turnify/internal/config"
	"github.com/jakechorley/turnify/pkg/core/model"
	"github.com/jakechorley/turnify/pkg/core/planner"
	"github.com/jakechorley/turnify/pkg/db"
	"github.com/jakechorley/turnify/pkg/utils"
)

const (
	daysPerWeek = 7

	// defaultMatrixColor is the tag background for roles without a colour
	defaultMatrixColor = "#000000"
)

// MatrixStore defines the database operations needed to render the planning matrix
type MatrixStore interface {
	GetRoster(ctx context.Context) (*model.Roster, error)
	GetLatestPlanning(ctx context.Context) (*db.PlanningRecord, error)
}

// MatrixTag is one assignment as shown inside a matrix cell
type MatrixTag struct {
	Text       string `json:"text"`
	Background string `json:"background"`
	Foreground string `json:"foreground"`
}

// MatrixRow is an employee (or an uncovered role) across the days of a week
type MatrixRow struct {
	Key           string  `json:"key"`
	Label         string  `json:"label"`
	Uncovered     bool    `json:"uncovered"`
	WorkedMinutes int     `json:"workedMinutes"`
	ExpectedHours float64 `json:"expectedHours"`

	// Cells are aligned with WeekMatrix.Dates
	Cells [][]MatrixTag `json:"cells"`
}

// Title is the row label followed by the worked/expected hours
func (r MatrixRow) Title() string {
	return r.Label + HoursLabel(r.WorkedMinutes, r.ExpectedHours)
}

// WeekMatrix is one week of the planning laid out as rows × dates
type WeekMatrix struct {
	Index    int         `json:"index"`
	Dates    []string    `json:"dates"`
	Weekdays []string    `json:"weekdays"`
	Rows     []MatrixRow `json:"rows"`
}

// Title describes the week, e.g. "Week 1 · 2025-01-06 → 2025-01-12"
func (w WeekMatrix) Title() string {
	if len(w.Dates) == 0 {
		return fmt.Sprintf("Week %d", w.Index+1)
	}
	return fmt.Sprintf("Week %d · %s → %s", w.Index+1, w.Dates[0], w.Dates[len(w.Dates)-1])
}

// MatrixEmployee is the roster information a matrix needs about an employee
type MatrixEmployee struct {
	ID          string
	Name        string
	WeeklyHours float64
}

// PlanningMatrix loads the latest planning and lays it out week by week
func PlanningMatrix(ctx context.Context, store MatrixStore, cfg *config.Config, logger *zap.Logger) (*db.PlanningRecord, []WeekMatrix, error) {
	record, err := store.GetLatestPlanning(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch latest planning: %w", err)
	}

	roster, err := store.GetRoster(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch roster: %w", err)
	}

	plan, err := planner.Normalize(*roster, cfg.PlannerDefaults())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to prepare roster: %w", err)
	}

	employees := make([]MatrixEmployee, 0, len(plan.Employees))
	for _, e := range plan.Employees {
		employees = append(employees, MatrixEmployee{ID: e.ID, Name: e.Name, WeeklyHours: e.WeeklyHours})
	}

	weeks := BuildWeekMatrices(record.Planning, employees)
	logger.Debug("Built planning matrix", zap.String("planning_id", record.ID), zap.Int("weeks", len(weeks)))
	return record, weeks, nil
}

// BuildWeekMatrices splits the planning into consecutive blocks of seven dates.
// Every employee gets a row in every week; roles left uncovered get an extra
// "Uncovered (<role>)" row. Rows are ordered by label.
func BuildWeekMatrices(planning planner.Planning, employees []MatrixEmployee) []WeekMatrix {
	dates := planning.SortedDates()
	var weeks []WeekMatrix

	for start := 0; start < len(dates); start += daysPerWeek {
		weekDates := dates[start:min(start+daysPerWeek, len(dates))]
		weeks = append(weeks, buildWeek(len(weeks), weekDates, planning, employees))
	}
	return weeks
}

func buildWeek(index int, dates []string, planning planner.Planning, employees []MatrixEmployee) WeekMatrix {
	week := WeekMatrix{Index: index, Dates: slices.Clone(dates)}

	rows := make(map[string]*MatrixRow)
	newRow := func(key, label string, expected float64, uncovered bool) *MatrixRow {
		row := &MatrixRow{
			Key:           key,
			Label:         label,
			Uncovered:     uncovered,
			ExpectedHours: expected,
			Cells:         make([][]MatrixTag, len(dates)),
		}
		rows[key] = row
		return row
	}

	for _, e := range employees {
		newRow(e.ID, e.Name, e.WeeklyHours, false)
	}

	for col, date := range dates {
		day := planning[date]
		if day == nil {
			week.Weekdays = append(week.Weekdays, "")
			continue
		}
		week.Weekdays = append(week.Weekdays, day.Weekday)

		for _, a := range day.Assignments {
			key := a.EmployeeID
			if a.IsUncovered() {
				key = "uncovered:" + a.RoleID
			}

			row, ok := rows[key]
			if !ok {
				if a.IsUncovered() {
					row = newRow(key, fmt.Sprintf("Uncovered (%s)", a.RoleName), 0, true)
				} else {
					// Assigned employee no longer in the roster
					row = newRow(key, a.EmployeeName, 0, false)
				}
			}

			row.Cells[col] = append(row.Cells[col], newMatrixTag(a))
			if !a.IsUncovered() {
				row.WorkedMinutes += a.NetMinutes
			}
		}
	}

	for _, row := range rows {
		week.Rows = append(week.Rows, *row)
	}
	slices.SortFunc(week.Rows, func(a, b MatrixRow) int {
		if c := strings.Compare(a.Label, b.Label); c != 0 {
			return c
		}
		return strings.Compare(a.Key, b.Key)
	})
	return week
}

func newMatrixTag(a planner.Assignment) MatrixTag {
	background := a.Color
	if background == "" {
		background = defaultMatrixColor
	}
	return MatrixTag{
		Text:       fmt.Sprintf("%s · %s (%s-%s)", a.ShiftName, a.RoleName, a.Start, a.End),
		Background: background,
		Foreground: utils.ReadableTextColor(background),
	}
}

// HoursLabel formats " (worked/expected h)" with worked hours to one decimal.
// Rows with nothing worked and nothing expected get no label.
func HoursLabel(workedMinutes int, expectedHours float64) string {
	if workedMinutes == 0 && expectedHours == 0 {
		return ""
	}
	worked := strings.TrimSuffix(strconv.FormatFloat(float64(workedMinutes)/60, 'f', 1, 64), ".0")
	return fmt.Sprintf(" (%s/%sh)", worked, strconv.FormatFloat(expectedHours, 'f', -1, 64))
}
