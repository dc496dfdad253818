package planner

import "strings"

// buildDayPlan assembles a day's output with its coverage and capacity matrices
func (p *planner) buildDayPlan(d day, daysInWeek int, state *State) *DayPlan {
	assignments := p.assignments[d.key]
	if assignments == nil {
		assignments = []Assignment{}
	}

	dayPlan := &DayPlan{
		Date:             d.key,
		Weekday:          strings.ToLower(d.weekday.String()),
		Assignments:      assignments,
		RoleCoverage:     []RoleCoverage{},
		EmployeeCapacity: make([]EmployeeCapacity, 0, len(p.plan.Employees)),
	}

	for _, shift := range p.idx.shifts {
		if p.isClosed(d.key, shift) {
			continue
		}
		for _, role := range p.idx.compatible[shift.ID] {
			coverage := RoleCoverage{
				ShiftID:     shift.ID,
				ShiftName:   shift.Name,
				RoleID:      role.ID,
				RoleName:    role.Name,
				Level:       role.Level,
				MinCoverage: role.MinCoverage,
				MaxCoverage: role.MaxCoverage,
			}
			for _, a := range assignments {
				if a.ShiftID != shift.ID || a.RoleID != role.ID {
					continue
				}
				if a.IsUncovered() {
					coverage.Uncovered++
				} else {
					coverage.Assigned++
				}
			}
			coverage.MinimumMet = coverage.Assigned >= coverage.MinCoverage
			dayPlan.RoleCoverage = append(dayPlan.RoleCoverage, coverage)
		}
	}

	for _, employee := range p.plan.Employees {
		dayPlan.EmployeeCapacity = append(dayPlan.EmployeeCapacity, EmployeeCapacity{
			EmployeeID:        employee.ID,
			Name:              employee.Name,
			Roles:             employee.Roles,
			Importance:        employee.Importance,
			WeeklyHours:       employee.WeeklyHours,
			DailyHours:        employee.DailyHours,
			WorkDays:          employee.WorkDays(daysInWeek),
			RemainingWorkDays: state.RemainingWorkDays(employee.ID),
			DayMinutes:        state.DailyMinutes(d.key, employee.ID),
			WeekMinutes:       state.WeeklyMinutes(employee.ID),
		})
	}

	return dayPlan
}
