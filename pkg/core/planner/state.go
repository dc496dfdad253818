package planner

import "time"

// interval is an accepted assignment's time span
type interval struct {
	start time.Time
	end   time.Time
}

// State tracks running totals for one planning week.
// It is owned by a single planning run and never shared.
type State struct {
	// dailyMinutes[date][employeeID] is the net minutes assigned on a date
	dailyMinutes map[string]map[string]int

	// weeklyMinutes[employeeID] is the net minutes assigned this week
	weeklyMinutes map[string]int

	// lastAssignmentEnd[employeeID] is the end of the latest accepted assignment
	lastAssignmentEnd map[string]time.Time

	// remainingWorkDays[employeeID] is how many more days the employee may work this week
	remainingWorkDays map[string]int

	// intervals[employeeID] holds every accepted assignment, used for rest checks.
	// Carried over between weeks so rest is respected across the boundary.
	intervals map[string][]interval
}

// NewState creates the state for a new week. Minutes and work-day budgets start
// fresh; assignment history from the previous week (if any) is kept for rest checks.
func NewState(employees []*Employee, daysInWeek int, previous *State) *State {
	state := &State{
		dailyMinutes:      make(map[string]map[string]int),
		weeklyMinutes:     make(map[string]int),
		lastAssignmentEnd: make(map[string]time.Time),
		remainingWorkDays: make(map[string]int, len(employees)),
		intervals:         make(map[string][]interval),
	}

	for _, employee := range employees {
		state.remainingWorkDays[employee.ID] = employee.WorkDays(daysInWeek)
	}

	if previous != nil {
		for employeeID, spans := range previous.intervals {
			state.intervals[employeeID] = append([]interval(nil), spans...)
		}
	}

	return state
}

// RecordAssignment adds an accepted assignment to the running totals
func (s *State) RecordAssignment(employeeID, date string, start, end time.Time, netMinutes int) {
	if s.dailyMinutes[date] == nil {
		s.dailyMinutes[date] = make(map[string]int)
	}
	s.dailyMinutes[date][employeeID] += netMinutes
	s.weeklyMinutes[employeeID] += netMinutes

	if last, ok := s.lastAssignmentEnd[employeeID]; !ok || end.After(last) {
		s.lastAssignmentEnd[employeeID] = end
	}

	s.intervals[employeeID] = append(s.intervals[employeeID], interval{start: start, end: end})
}

// ConsumeWorkDay decrements the employee's remaining work-day budget, never below zero
func (s *State) ConsumeWorkDay(employeeID string) {
	if s.remainingWorkDays[employeeID] > 0 {
		s.remainingWorkDays[employeeID]--
	}
}

// DailyMinutes returns the net minutes assigned to the employee on the date
func (s *State) DailyMinutes(date, employeeID string) int {
	return s.dailyMinutes[date][employeeID]
}

// WeeklyMinutes returns the net minutes assigned to the employee this week
func (s *State) WeeklyMinutes(employeeID string) int {
	return s.weeklyMinutes[employeeID]
}

// LastAssignmentEnd returns the end of the employee's latest assignment
func (s *State) LastAssignmentEnd(employeeID string) (time.Time, bool) {
	end, ok := s.lastAssignmentEnd[employeeID]
	return end, ok
}

// RemainingWorkDays returns the employee's remaining work-day budget
func (s *State) RemainingWorkDays(employeeID string) int {
	return s.remainingWorkDays[employeeID]
}

// IsAssignedOn returns true if the employee already works on the date
func (s *State) IsAssignedOn(date, employeeID string) bool {
	_, ok := s.dailyMinutes[date][employeeID]
	return ok
}

// restGap returns the smallest gap between the candidate span and any accepted
// assignment of the employee. ok is false when the employee has no history.
// An overlapping assignment yields a negative gap.
func (s *State) restGap(employeeID string, start, end time.Time) (gap time.Duration, ok bool) {
	for _, span := range s.intervals[employeeID] {
		var current time.Duration
		switch {
		case !span.end.After(start):
			current = start.Sub(span.end)
		case !end.After(span.start):
			current = span.start.Sub(end)
		default:
			overlapStart, overlapEnd := span.start, span.end
			if start.After(overlapStart) {
				overlapStart = start
			}
			if end.Before(overlapEnd) {
				overlapEnd = end
			}
			current = -overlapEnd.Sub(overlapStart)
		}
		if !ok || current < gap {
			gap = current
			ok = true
		}
	}
	return gap, ok
}
