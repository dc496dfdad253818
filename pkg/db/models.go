package db

import (
	"time"

	"github.com/jakechorley/turnify/pkg/core/planner"
)

// PlanningFormatVersion is written into every stored and exported planning
const PlanningFormatVersion = 2

// PlanningRecord is a generated planning as persisted by a store
type PlanningRecord struct {
	ID            string           `json:"id"`
	StartDate     string           `json:"startDate"`
	HorizonDays   int              `json:"horizonDays"`
	FormatVersion int              `json:"version"`
	GeneratedAt   time.Time        `json:"generatedAt"`
	Uncovered     int              `json:"uncovered"`
	Planning      planner.Planning `json:"planning"`
}

// AssignmentRow is one assignment flattened for tabular storage
type AssignmentRow struct {
	PlanningID   string
	Date         string
	EmployeeID   string
	EmployeeName string
	ShiftID      string
	RoleID       string
	StartAt      time.Time
	EndAt        time.Time
	NetMinutes   int
	Warning      bool
}

// AssignmentRows flattens the planning into rows in date order
func (r *PlanningRecord) AssignmentRows() []AssignmentRow {
	var rows []AssignmentRow
	for _, date := range r.Planning.SortedDates() {
		for _, a := range r.Planning[date].Assignments {
			rows = append(rows, AssignmentRow{
				PlanningID:   r.ID,
				Date:         date,
				EmployeeID:   a.EmployeeID,
				EmployeeName: a.EmployeeName,
				ShiftID:      a.ShiftID,
				RoleID:       a.RoleID,
				StartAt:      a.StartAt,
				EndAt:        a.EndAt,
				NetMinutes:   a.NetMinutes,
				Warning:      a.Warning,
			})
		}
	}
	return rows
}
