package planner

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

const (
	// DefaultHorizonDays is the planning length used when none is given
	DefaultHorizonDays = 7

	daysPerWeek = 7
)

var (
	// ErrMissingStartDate is returned when no start date is given
	ErrMissingStartDate = errors.New("start date is required")

	// ErrInvalidStartDate is returned when the start date is not an ISO date
	ErrInvalidStartDate = errors.New("invalid start date")
)

// ImportanceOrder selects how the importance rank breaks ties between candidates
type ImportanceOrder string

const (
	// ImportanceHigherFirst prefers employees with a larger importance value
	ImportanceHigherFirst ImportanceOrder = "desc"

	// ImportanceLowerFirst prefers employees with a smaller importance value
	ImportanceLowerFirst ImportanceOrder = "asc"
)

// Closure closes shifts on the dates it applies to. Closed shifts get no
// assignments and no uncovered placeholders.
type Closure struct {
	// AppliesTo reports whether the closure is active on an ISO date
	AppliesTo func(date string) bool

	// ShiftIDs to close; empty closes every shift
	ShiftIDs []string
}

// Options configure a planning run
type Options struct {
	// StartDate is the first planned day (YYYY-MM-DD)
	StartDate string

	// HorizonDays is the number of days to plan; split into 7-day weeks
	HorizonDays int

	// ImportanceOrder is the final candidate tie-break (defaults to ImportanceHigherFirst)
	ImportanceOrder ImportanceOrder

	// ExtendToTarget lets the completion pass add under-utilized employees
	// to slots below their maximum coverage
	ExtendToTarget bool

	Closures []Closure
}

// Outcome is the result of a planning run
type Outcome struct {
	// Planning keyed by ISO date
	Planning Planning

	// Dates in chronological order
	Dates []string

	// Trace holds every eligibility decision made during the run
	Trace []Decision

	// ValidationErrors lists invariant violations found in the final planning
	ValidationErrors []ValidationError

	// Uncovered is the number of placeholder assignments left
	Uncovered int

	// Success is true when every minimum coverage was met without violations
	Success bool
}

// day is one planned date
type day struct {
	date    time.Time
	key     string
	weekday time.Weekday
}

// planner runs one planning generation
type planner struct {
	plan  *Plan
	opts  Options
	idx   *index
	trace []Decision

	// assignments per date, in output order
	assignments map[string][]Assignment
}

// Generate builds the planning for the configured horizon.
// It is a pure function of the plan and options.
func Generate(plan *Plan, opts Options) (*Outcome, error) {
	if opts.StartDate == "" {
		return nil, ErrMissingStartDate
	}
	start, err := time.Parse(DateLayout, opts.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidStartDate, opts.StartDate, err)
	}
	if plan == nil || len(plan.Employees) == 0 || len(plan.Roles) == 0 || len(plan.Shifts) == 0 {
		return nil, ErrEmptyRoster
	}
	if opts.HorizonDays <= 0 {
		opts.HorizonDays = DefaultHorizonDays
	}
	if opts.ImportanceOrder == "" {
		opts.ImportanceOrder = ImportanceHigherFirst
	}

	p := &planner{
		plan:        plan,
		opts:        opts,
		idx:         buildIndex(plan),
		assignments: make(map[string][]Assignment),
	}

	days := make([]day, 0, opts.HorizonDays)
	for _, date := range DateRange(start, opts.HorizonDays) {
		days = append(days, day{date: date, key: date.Format(DateLayout), weekday: date.Weekday()})
	}

	planning := make(Planning, len(days))
	var state *State
	for weekStart := 0; weekStart < len(days); weekStart += daysPerWeek {
		week := days[weekStart:min(weekStart+daysPerWeek, len(days))]

		state = NewState(plan.Employees, len(week), state)

		for _, d := range week {
			p.runDailyPass(d, state)
		}

		p.runCompletionPass(week, state)

		for _, d := range week {
			p.sortDay(d.key)
			planning[d.key] = p.buildDayPlan(d, len(week), state)
		}
	}

	outcome := &Outcome{
		Planning: planning,
		Dates:    planning.SortedDates(),
		Trace:    p.trace,
	}
	outcome.ValidationErrors = ValidatePlanning(plan, planning, opts.Closures)
	outcome.Uncovered = planning.UncoveredCount()
	outcome.Success = outcome.Uncovered == 0 && len(outcome.ValidationErrors) == 0

	return outcome, nil
}

// isClosed returns true if a closure removes the shift on the date
func (p *planner) isClosed(date string, shift *Shift) bool {
	return isClosed(p.opts.Closures, date, shift.ID)
}

func isClosed(closures []Closure, date, shiftID string) bool {
	for _, closure := range closures {
		if closure.AppliesTo == nil || !closure.AppliesTo(date) {
			continue
		}
		if len(closure.ShiftIDs) == 0 || slices.Contains(closure.ShiftIDs, shiftID) {
			return true
		}
	}
	return false
}

// evaluate runs the evaluator and records the decision in the trace
func (p *planner) evaluate(phase Phase, employee *Employee, slot Slot, state *State) bool {
	decision := Evaluate(employee, slot, state)
	decision.Phase = phase
	p.trace = append(p.trace, decision)
	return decision.Eligible()
}

// accept records an assignment for the employee
func (p *planner) accept(employee *Employee, slot Slot, state *State) Assignment {
	state.RecordAssignment(employee.ID, slot.Date, slot.Start, slot.End, slot.NetMinutes)
	state.ConsumeWorkDay(employee.ID)
	return newAssignment(employee, slot)
}

// realCount returns the number of staffed assignments for a shift and role on a date
func (p *planner) realCount(date, shiftID, roleID string) int {
	count := 0
	for _, a := range p.assignments[date] {
		if !a.IsUncovered() && a.ShiftID == shiftID && a.RoleID == roleID {
			count++
		}
	}
	return count
}

// sortDay orders a day's assignments by shift start, then staffing order of
// roles, with staffed entries ahead of placeholders
func (p *planner) sortDay(date string) {
	slices.SortStableFunc(p.assignments[date], func(a, b Assignment) int {
		if diff := p.idx.shiftPosition[a.ShiftID] - p.idx.shiftPosition[b.ShiftID]; diff != 0 {
			return diff
		}
		if diff := p.idx.rolePosition[a.ShiftID][a.RoleID] - p.idx.rolePosition[b.ShiftID][b.RoleID]; diff != 0 {
			return diff
		}
		switch {
		case a.Warning == b.Warning:
			return 0
		case b.Warning:
			return -1
		default:
			return 1
		}
	})
}

func newAssignment(employee *Employee, slot Slot) Assignment {
	return Assignment{
		EmployeeID:   employee.ID,
		EmployeeName: employee.Name,
		ShiftID:      slot.Shift.ID,
		ShiftName:    slot.Shift.Name,
		RoleID:       slot.Role.ID,
		RoleName:     slot.Role.Name,
		Color:        slot.Role.Color,
		Start:        slot.Shift.Start.String(),
		End:          slot.Shift.End.String(),
		StartAt:      slot.Start,
		EndAt:        slot.End,
		NetMinutes:   slot.NetMinutes,
	}
}

func newPlaceholder(slot Slot) Assignment {
	return Assignment{
		EmployeeName: UncoveredName,
		ShiftID:      slot.Shift.ID,
		ShiftName:    slot.Shift.Name,
		RoleID:       slot.Role.ID,
		RoleName:     slot.Role.Name,
		Color:        slot.Role.Color,
		Start:        slot.Shift.Start.String(),
		End:          slot.Shift.End.String(),
		StartAt:      slot.Start,
		EndAt:        slot.End,
		NetMinutes:   slot.NetMinutes,
		Warning:      true,
	}
}
