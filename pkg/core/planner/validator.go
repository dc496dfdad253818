package planner

import (
	"fmt"
	"maps"
	"slices"
	"time"
)

// Rule names reported by ValidatePlanning
const (
	RuleQualification = "Qualification"
	RuleDailyCap      = "DailyCap"
	RuleWeeklyCap     = "WeeklyCap"
	RuleRest          = "Rest"
	RuleAvailability  = "Availability"
	RuleCoverage      = "Coverage"
	RuleDoubleBooking = "DoubleBooking"
)

// ValidationError describes an invariant violated by a planning
type ValidationError struct {
	Date        string `json:"date"`
	EmployeeID  string `json:"employeeId,omitempty"`
	ShiftID     string `json:"shiftId,omitempty"`
	RoleID      string `json:"roleId,omitempty"`
	Rule        string `json:"rule"`
	Description string `json:"description"`
}

// ValidatePlanning re-checks a finished planning against the labour and
// coverage invariants. An empty result means the planning is consistent.
func ValidatePlanning(plan *Plan, planning Planning, closures []Closure) []ValidationError {
	errs := []ValidationError{}
	idx := buildIndex(plan)

	employees := make(map[string]*Employee, len(plan.Employees))
	for _, employee := range plan.Employees {
		employees[employee.ID] = employee
	}

	dates := planning.SortedDates()
	byEmployee := make(map[string][]Assignment)

	for i, date := range dates {
		dayPlan := planning[date]
		weekday := time.Weekday(0)
		if parsed, err := time.Parse(DateLayout, date); err == nil {
			weekday = parsed.Weekday()
		}

		dayMinutes := make(map[string]int)
		for _, a := range dayPlan.Assignments {
			if a.IsUncovered() {
				continue
			}
			employee, ok := employees[a.EmployeeID]
			if !ok {
				errs = append(errs, ValidationError{
					Date: date, EmployeeID: a.EmployeeID, ShiftID: a.ShiftID, RoleID: a.RoleID,
					Rule: RuleQualification, Description: "unknown employee",
				})
				continue
			}

			if !employee.HasRole(a.RoleID) {
				errs = append(errs, ValidationError{
					Date: date, EmployeeID: a.EmployeeID, ShiftID: a.ShiftID, RoleID: a.RoleID,
					Rule: RuleQualification, Description: fmt.Sprintf("%s is not enabled for role %s", employee.Name, a.RoleID),
				})
			}

			if _, seen := dayMinutes[a.EmployeeID]; seen {
				errs = append(errs, ValidationError{
					Date: date, EmployeeID: a.EmployeeID, ShiftID: a.ShiftID, RoleID: a.RoleID,
					Rule: RuleDoubleBooking, Description: fmt.Sprintf("%s is assigned more than once", employee.Name),
				})
			}
			dayMinutes[a.EmployeeID] += a.NetMinutes

			if shift := idx.shifts[idx.shiftPosition[a.ShiftID]]; shift.ID == a.ShiftID {
				if _, unavailable := employee.unavailableDuring(weekday, shift.Window()); unavailable {
					errs = append(errs, ValidationError{
						Date: date, EmployeeID: a.EmployeeID, ShiftID: a.ShiftID, RoleID: a.RoleID,
						Rule: RuleAvailability, Description: fmt.Sprintf("%s is unavailable during %s", employee.Name, shift.Name),
					})
				}
			}

			byEmployee[a.EmployeeID] = append(byEmployee[a.EmployeeID], a)
		}

		for _, employeeID := range slices.Sorted(maps.Keys(dayMinutes)) {
			minutes := dayMinutes[employeeID]
			employee := employees[employeeID]
			if float64(minutes) > employee.DailyHours*60 {
				errs = append(errs, ValidationError{
					Date: date, EmployeeID: employeeID, Rule: RuleDailyCap,
					Description: fmt.Sprintf("%s works %.1fh, cap is %.1fh", employee.Name, float64(minutes)/60, employee.DailyHours),
				})
			}
		}

		errs = append(errs, validateCoverage(idx, dayPlan, date, closures)...)

		// Weekly totals are checked at the end of each 7-day block
		if (i+1)%daysPerWeek == 0 || i == len(dates)-1 {
			weekStart := i - i%daysPerWeek
			errs = append(errs, validateWeek(employees, planning, dates[weekStart:i+1])...)
		}
	}

	for _, employee := range plan.Employees {
		errs = append(errs, validateRest(employee, byEmployee[employee.ID])...)
	}

	return errs
}

func validateCoverage(idx *index, dayPlan *DayPlan, date string, closures []Closure) []ValidationError {
	var errs []ValidationError
	for _, shift := range idx.shifts {
		if isClosed(closures, date, shift.ID) {
			continue
		}
		for _, role := range idx.compatible[shift.ID] {
			staffed, uncovered := 0, 0
			for _, a := range dayPlan.Assignments {
				if a.ShiftID != shift.ID || a.RoleID != role.ID {
					continue
				}
				if a.IsUncovered() {
					uncovered++
				} else {
					staffed++
				}
			}
			if staffed+uncovered < role.MinCoverage {
				errs = append(errs, ValidationError{
					Date: date, ShiftID: shift.ID, RoleID: role.ID, Rule: RuleCoverage,
					Description: fmt.Sprintf("%d of %d required slots reported", staffed+uncovered, role.MinCoverage),
				})
			}
			if staffed > role.MaxCoverage {
				errs = append(errs, ValidationError{
					Date: date, ShiftID: shift.ID, RoleID: role.ID, Rule: RuleCoverage,
					Description: fmt.Sprintf("%d staffed exceeds maximum %d", staffed, role.MaxCoverage),
				})
			}
		}
	}
	return errs
}

func validateWeek(employees map[string]*Employee, planning Planning, dates []string) []ValidationError {
	var errs []ValidationError
	weekMinutes := make(map[string]int)
	for _, date := range dates {
		for _, a := range planning[date].Assignments {
			if !a.IsUncovered() {
				weekMinutes[a.EmployeeID] += a.NetMinutes
			}
		}
	}

	ids := make([]string, 0, len(weekMinutes))
	for id := range weekMinutes {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	for _, id := range ids {
		employee, ok := employees[id]
		if !ok {
			continue
		}
		if float64(weekMinutes[id]) > employee.WeeklyHours*60 {
			errs = append(errs, ValidationError{
				Date: dates[0], EmployeeID: id, Rule: RuleWeeklyCap,
				Description: fmt.Sprintf("%s works %.1fh in the week, target is %.1fh", employee.Name, float64(weekMinutes[id])/60, employee.WeeklyHours),
			})
		}
	}
	return errs
}

func validateRest(employee *Employee, assignments []Assignment) []ValidationError {
	var errs []ValidationError
	sorted := slices.Clone(assignments)
	slices.SortStableFunc(sorted, func(a, b Assignment) int {
		return a.StartAt.Compare(b.StartAt)
	})

	minRest := time.Duration(employee.MinRestHours * float64(time.Hour))
	for i := 1; i < len(sorted); i++ {
		gap := sorted[i].StartAt.Sub(sorted[i-1].EndAt)
		if gap < minRest {
			errs = append(errs, ValidationError{
				Date: sorted[i].StartAt.Format(DateLayout), EmployeeID: employee.ID, ShiftID: sorted[i].ShiftID, RoleID: sorted[i].RoleID,
				Rule: RuleRest, Description: fmt.Sprintf("%s rests %.1fh, minimum is %.1fh", employee.Name, gap.Hours(), employee.MinRestHours),
			})
		}
	}
	return errs
}
