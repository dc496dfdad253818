package planner

import (
	"slices"
	"time"
)

// Plan is the normalized, fully populated input of a planning run
type Plan struct {
	Employees   []*Employee
	Roles       []*Role
	Shifts      []*Shift
	Constraints Constraints
}

// Employee is a normalized employee with every cap resolved
type Employee struct {
	ID   string
	Name string

	// Roles the employee is enabled for, in roster order
	Roles []string

	// WeeklyHours is the weekly target, never exceeded
	WeeklyHours float64

	// DailyHours is the effective daily cap after override precedence
	DailyHours float64

	// MinRestHours is the minimum gap between two assignments
	MinRestHours float64

	Importance int

	// Unavailability windows keyed by weekday
	Unavailability map[time.Weekday][]Window

	// position in the roster, used as the final tie-break
	order int
}

// HasRole returns true if the employee is enabled for the role
func (e *Employee) HasRole(roleID string) bool {
	return slices.Contains(e.Roles, roleID)
}

// WorkDays is the number of days the employee may be scheduled per week,
// derived from the weekly target and the daily cap
func (e *Employee) WorkDays(daysInWeek int) int {
	if e.DailyHours <= 0 {
		return 0
	}
	return min(int(e.WeeklyHours/e.DailyHours), daysInWeek)
}

// Window is a half-open interval [From, To) in minutes since midnight.
// To may exceed 24h when the window wraps past midnight.
type Window struct {
	From int
	To   int
}

// Overlaps reports whether two half-open windows intersect
func (w Window) Overlaps(other Window) bool {
	return !(w.To <= other.From || w.From >= other.To)
}

// Role is a normalized role
type Role struct {
	ID          string
	Name        string
	Color       string
	Level       int
	MinCoverage int
	MaxCoverage int

	order int
}

// Shift is a normalized shift
type Shift struct {
	ID    string
	Name  string
	Start Clock
	End   Clock

	// Roles the shift can be staffed with
	Roles []string

	// RawMinutes is the shift length before break deduction
	RawMinutes int

	order int
}

// Window returns the shift's time window on its start day
func (s *Shift) Window() Window {
	return Window{From: int(s.Start), To: int(s.Start) + s.RawMinutes}
}

// Constraints holds the resolved global labour rules
type Constraints struct {
	MinRestHours      float64
	DefaultDailyHours float64
	BreakAfterHours   float64
	BreakMinutes      int
}

// UncoveredName is the employee name carried by placeholder assignments
const UncoveredName = "uncovered"

// Assignment is one staffed (or unstaffed) slot in a day's planning
type Assignment struct {
	EmployeeID   string    `json:"employeeId"`
	EmployeeName string    `json:"employeeName"`
	ShiftID      string    `json:"shiftId"`
	ShiftName    string    `json:"shiftName"`
	RoleID       string    `json:"roleId"`
	RoleName     string    `json:"roleName"`
	Color        string    `json:"color,omitempty"`
	Start        string    `json:"start"`
	End          string    `json:"end"`
	StartAt      time.Time `json:"startAt"`
	EndAt        time.Time `json:"endAt"`
	NetMinutes   int       `json:"netMinutes"`
	Warning      bool      `json:"warning"`
}

// IsUncovered returns true for placeholder assignments marking unmet coverage
func (a Assignment) IsUncovered() bool {
	return a.EmployeeID == ""
}

// RoleCoverage summarises the staffing of one role on one shift for a day
type RoleCoverage struct {
	ShiftID     string `json:"shiftId"`
	ShiftName   string `json:"shiftName"`
	RoleID      string `json:"roleId"`
	RoleName    string `json:"roleName"`
	Level       int    `json:"level"`
	MinCoverage int    `json:"minCoverage"`
	MaxCoverage int    `json:"maxCoverage"`
	Assigned    int    `json:"assigned"`
	Uncovered   int    `json:"uncovered"`
	MinimumMet  bool   `json:"minimumMet"`
}

// EmployeeCapacity summarises an employee's load against their targets for a day
type EmployeeCapacity struct {
	EmployeeID        string   `json:"employeeId"`
	Name              string   `json:"name"`
	Roles             []string `json:"roles"`
	Importance        int      `json:"importance"`
	WeeklyHours       float64  `json:"weeklyHours"`
	DailyHours        float64  `json:"dailyHours"`
	WorkDays          int      `json:"workDays"`
	RemainingWorkDays int      `json:"remainingWorkDays"`
	DayMinutes        int      `json:"dayMinutes"`
	WeekMinutes       int      `json:"weekMinutes"`
}

// DayPlan is the planning of a single date
type DayPlan struct {
	Date             string             `json:"date"`
	Weekday          string             `json:"weekday"`
	Assignments      []Assignment       `json:"assignments"`
	RoleCoverage     []RoleCoverage     `json:"roleCoverage"`
	EmployeeCapacity []EmployeeCapacity `json:"employeeCapacity"`
}

// Planning maps ISO dates to their day plans
type Planning map[string]*DayPlan

// SortedDates returns the planning's dates in chronological order
func (p Planning) SortedDates() []string {
	dates := make([]string, 0, len(p))
	for date := range p {
		dates = append(dates, date)
	}
	slices.Sort(dates)
	return dates
}

// UncoveredCount returns the number of placeholder assignments across the planning
func (p Planning) UncoveredCount() int {
	count := 0
	for _, day := range p {
		for _, a := range day.Assignments {
			if a.IsUncovered() {
				count++
			}
		}
	}
	return count
}
