package planner

import (
	"fmt"
	"time"
)

// Reason explains the outcome of an eligibility check
type Reason string

const (
	ReasonOK                Reason = "OK"
	ReasonNotQualified      Reason = "NOT_QUALIFIED"
	ReasonDailyCapExceeded  Reason = "DAILY_CAP_EXCEEDED"
	ReasonWeeklyCapExceeded Reason = "WEEKLY_CAP_EXCEEDED"
	ReasonRestViolation     Reason = "REST_VIOLATION"
	ReasonUnavailable       Reason = "UNAVAILABLE"
)

// Phase identifies which pass produced a decision
type Phase string

const (
	PhaseDaily     Phase = "daily"
	PhaseBackfill  Phase = "backfill"
	PhaseExtension Phase = "extension"
)

// Slot is a concrete (date, shift, role) position to be staffed
type Slot struct {
	Date       string
	Weekday    time.Weekday
	Shift      *Shift
	Role       *Role
	Start      time.Time
	End        time.Time
	NetMinutes int
}

// NewSlot anchors a shift on a date. Overnight shifts end on the following day.
func NewSlot(day time.Time, shift *Shift, role *Role, constraints Constraints) Slot {
	start := day.Add(time.Duration(shift.Start) * time.Minute)
	return Slot{
		Date:       day.Format(DateLayout),
		Weekday:    day.Weekday(),
		Shift:      shift,
		Role:       role,
		Start:      start,
		End:        start.Add(time.Duration(shift.RawMinutes) * time.Minute),
		NetMinutes: NetMinutes(shift.RawMinutes, constraints),
	}
}

// Decision records one eligibility check, so every rejection can be traced
type Decision struct {
	Phase      Phase  `json:"phase"`
	Date       string `json:"date"`
	ShiftID    string `json:"shiftId"`
	RoleID     string `json:"roleId"`
	EmployeeID string `json:"employeeId"`
	Reason     Reason `json:"reason"`
	Detail     string `json:"detail,omitempty"`
}

// Eligible returns true if every check passed
func (d Decision) Eligible() bool {
	return d.Reason == ReasonOK
}

// Evaluate decides whether the employee can take the slot given the current state.
// Checks run in a fixed order and stop at the first failure.
func Evaluate(employee *Employee, slot Slot, state *State) Decision {
	decision := Decision{
		Date:       slot.Date,
		ShiftID:    slot.Shift.ID,
		RoleID:     slot.Role.ID,
		EmployeeID: employee.ID,
		Reason:     ReasonOK,
	}

	if !employee.HasRole(slot.Role.ID) {
		decision.Reason = ReasonNotQualified
		decision.Detail = fmt.Sprintf("role %s not enabled", slot.Role.ID)
		return decision
	}

	projectedDay := state.DailyMinutes(slot.Date, employee.ID) + slot.NetMinutes
	if float64(projectedDay) > employee.DailyHours*60 {
		decision.Reason = ReasonDailyCapExceeded
		decision.Detail = fmt.Sprintf("%.1fh > %.1fh", float64(projectedDay)/60, employee.DailyHours)
		return decision
	}

	projectedWeek := state.WeeklyMinutes(employee.ID) + slot.NetMinutes
	if float64(projectedWeek) > employee.WeeklyHours*60 {
		decision.Reason = ReasonWeeklyCapExceeded
		decision.Detail = fmt.Sprintf("%.1fh > %.1fh", float64(projectedWeek)/60, employee.WeeklyHours)
		return decision
	}

	minRest := time.Duration(employee.MinRestHours * float64(time.Hour))
	if gap, ok := state.restGap(employee.ID, slot.Start, slot.End); ok && gap < minRest {
		decision.Reason = ReasonRestViolation
		decision.Detail = fmt.Sprintf("%.1fh < %.1fh", gap.Hours(), employee.MinRestHours)
		return decision
	}

	if window, ok := employee.unavailableDuring(slot.Weekday, slot.Shift.Window()); ok {
		decision.Reason = ReasonUnavailable
		decision.Detail = fmt.Sprintf("%s %s-%s", slot.Weekday, Clock(window.From%minutesPerDay), Clock(window.To%minutesPerDay))
		return decision
	}

	return decision
}

// unavailableDuring returns the first unavailability window that overlaps the
// shift window on the given weekday. Windows of the neighbouring weekdays are
// shifted by a day so overnight shifts and overnight absences are both covered.
func (e *Employee) unavailableDuring(weekday time.Weekday, shift Window) (Window, bool) {
	for offset := -1; offset <= 1; offset++ {
		day := time.Weekday((int(weekday) + offset + 7) % 7)
		for _, window := range e.Unavailability[day] {
			shifted := Window{From: window.From + offset*minutesPerDay, To: window.To + offset*minutesPerDay}
			if shifted.Overlaps(shift) {
				return window, true
			}
		}
	}
	return Window{}, false
}
