package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jakechorley/turnify/pkg/core/model"
)

// 2025-01-06 is a Monday
const testStartDate = "2025-01-06"

func mustNormalize(t *testing.T, roster model.Roster) *Plan {
	t.Helper()
	plan, err := Normalize(roster, DefaultDefaults())
	require.NoError(t, err)
	return plan
}

func mustGenerate(t *testing.T, roster model.Roster, opts Options) *Outcome {
	t.Helper()
	if opts.StartDate == "" {
		opts.StartDate = testStartDate
	}
	outcome, err := Generate(mustNormalize(t, roster), opts)
	require.NoError(t, err)
	return outcome
}

func newTestPlanner(plan *Plan, opts Options) *planner {
	if opts.ImportanceOrder == "" {
		opts.ImportanceOrder = ImportanceHigherFirst
	}
	return &planner{
		plan:        plan,
		opts:        opts,
		idx:         buildIndex(plan),
		assignments: make(map[string][]Assignment),
	}
}

func testDay(t *testing.T, date string) day {
	t.Helper()
	parsed, err := time.Parse(DateLayout, date)
	require.NoError(t, err)
	return day{date: parsed, key: date, weekday: parsed.Weekday()}
}

func at(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02 15:04", value)
	require.NoError(t, err)
	return parsed
}

func employee(id string, roles ...string) model.Employee {
	return model.Employee{ID: id, Name: "Employee " + id, Roles: roles}
}

func role(id string, minCoverage int) model.Role {
	return model.Role{ID: id, Name: "Role " + id, MinCoverage: model.Int(minCoverage)}
}

func shift(id, start, end string, roles ...string) model.Shift {
	return model.Shift{ID: id, Name: "Shift " + id, Start: start, End: end, Roles: roles}
}

// realAssignments returns the staffed assignments of a day for one employee
func realAssignments(dayPlan *DayPlan, employeeID string) []Assignment {
	var result []Assignment
	for _, a := range dayPlan.Assignments {
		if a.EmployeeID == employeeID {
			result = append(result, a)
		}
	}
	return result
}

func countUncovered(dayPlan *DayPlan) int {
	count := 0
	for _, a := range dayPlan.Assignments {
		if a.IsUncovered() {
			count++
		}
	}
	return count
}
