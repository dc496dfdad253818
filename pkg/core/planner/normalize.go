package planner

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jakechorley/turnify/pkg/core/model"
)

// ErrEmptyRoster is returned when employees, roles or shifts are missing
var ErrEmptyRoster = errors.New("roles, shifts and employees are required for planning")

// Defaults are the fallback values used when the roster leaves a field unset
type Defaults struct {
	WeeklyHours     float64
	DailyHours      float64
	MinRestHours    float64
	BreakAfterHours float64
	BreakMinutes    int
	Importance      int
}

// DefaultDefaults returns the built-in fallbacks
func DefaultDefaults() Defaults {
	return Defaults{
		WeeklyHours:     40,
		DailyHours:      8,
		MinRestHours:    11,
		BreakAfterHours: 6,
		BreakMinutes:    30,
		Importance:      5,
	}
}

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		_, err := ParseClock(fl.Field().String())
		return err == nil
	})
	validate.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
		_, err := ParseWeekday(fl.Field().String())
		return err == nil
	})
}

// ValidateRoster runs struct validation and cross-reference checks on a raw roster
func ValidateRoster(roster *model.Roster) error {
	if err := validate.Struct(roster); err != nil {
		return fmt.Errorf("roster validation failed: %w", err)
	}

	roleIDs := make(map[string]bool, len(roster.Roles))
	for _, role := range roster.Roles {
		if roleIDs[role.ID] {
			return fmt.Errorf("duplicate role id %q", role.ID)
		}
		roleIDs[role.ID] = true

		if role.MinCoverage != nil && role.MaxCoverage != nil && *role.MaxCoverage < *role.MinCoverage {
			return fmt.Errorf("role %q: maxCoverage %d is below minCoverage %d", role.ID, *role.MaxCoverage, *role.MinCoverage)
		}
	}

	shiftIDs := make(map[string]bool, len(roster.Shifts))
	for _, shift := range roster.Shifts {
		if shiftIDs[shift.ID] {
			return fmt.Errorf("duplicate shift id %q", shift.ID)
		}
		shiftIDs[shift.ID] = true

		for _, roleID := range shift.Roles {
			if !roleIDs[roleID] {
				return fmt.Errorf("shift %q references unknown role %q", shift.ID, roleID)
			}
		}
	}

	employeeIDs := make(map[string]bool, len(roster.Employees))
	for _, employee := range roster.Employees {
		if employeeIDs[employee.ID] {
			return fmt.Errorf("duplicate employee id %q", employee.ID)
		}
		employeeIDs[employee.ID] = true

		for _, roleID := range employee.Roles {
			if !roleIDs[roleID] {
				return fmt.Errorf("employee %q references unknown role %q", employee.ID, roleID)
			}
		}
	}

	for _, employeeID := range slices.Sorted(maps.Keys(roster.Constraints.PerEmployee)) {
		if !employeeIDs[employeeID] {
			return fmt.Errorf("constraint override references unknown employee %q", employeeID)
		}
	}

	return nil
}

// Normalize validates the roster and applies every default once, producing a
// plan the algorithm can consume without further fallbacks
func Normalize(roster model.Roster, defaults Defaults) (*Plan, error) {
	if len(roster.Employees) == 0 || len(roster.Roles) == 0 || len(roster.Shifts) == 0 {
		return nil, ErrEmptyRoster
	}

	if err := ValidateRoster(&roster); err != nil {
		return nil, err
	}

	constraints := Constraints{
		MinRestHours:      valueOr(roster.Constraints.MinRestHours, defaults.MinRestHours),
		DefaultDailyHours: valueOr(roster.Constraints.DefaultDailyHours, defaults.DailyHours),
		BreakAfterHours:   valueOr(roster.Constraints.BreakAfterHours, defaults.BreakAfterHours),
		BreakMinutes:      valueOr(roster.Constraints.BreakMinutes, defaults.BreakMinutes),
	}

	plan := &Plan{Constraints: constraints}

	for i, r := range roster.Roles {
		minCoverage := valueOr(r.MinCoverage, 1)
		plan.Roles = append(plan.Roles, &Role{
			ID:          r.ID,
			Name:        r.Name,
			Color:       r.Color,
			Level:       valueOr(r.Level, 1),
			MinCoverage: minCoverage,
			MaxCoverage: max(valueOr(r.MaxCoverage, minCoverage), minCoverage),
			order:       i,
		})
	}

	for i, s := range roster.Shifts {
		start, err := ParseClock(s.Start)
		if err != nil {
			return nil, fmt.Errorf("shift %q: %w", s.ID, err)
		}
		end, err := ParseClock(s.End)
		if err != nil {
			return nil, fmt.Errorf("shift %q: %w", s.ID, err)
		}
		plan.Shifts = append(plan.Shifts, &Shift{
			ID:         s.ID,
			Name:       s.Name,
			Start:      start,
			End:        end,
			Roles:      append([]string(nil), s.Roles...),
			RawMinutes: MinutesBetween(start, end),
			order:      i,
		})
	}

	for i, e := range roster.Employees {
		override := roster.Constraints.PerEmployee[e.ID]

		// Precedence: employee record -> per-employee override -> global default
		dailyHours := valueOr(e.DailyHours, valueOr(override.DailyHours, constraints.DefaultDailyHours))
		weeklyHours := valueOr(e.WeeklyHours, valueOr(override.WeeklyHours, defaults.WeeklyHours))
		minRest := valueOr(override.MinRestHours, constraints.MinRestHours)

		unavailability, err := buildUnavailability(e.Unavailability)
		if err != nil {
			return nil, fmt.Errorf("employee %q: %w", e.ID, err)
		}

		plan.Employees = append(plan.Employees, &Employee{
			ID:             e.ID,
			Name:           e.Name,
			Roles:          append([]string(nil), e.Roles...),
			WeeklyHours:    weeklyHours,
			DailyHours:     dailyHours,
			MinRestHours:   minRest,
			Importance:     valueOr(e.Importance, defaults.Importance),
			Unavailability: unavailability,
			order:          i,
		})
	}

	return plan, nil
}

// buildUnavailability indexes unavailability windows by weekday
func buildUnavailability(periods []model.Unavailability) (map[time.Weekday][]Window, error) {
	byDay := make(map[time.Weekday][]Window)
	for _, period := range periods {
		day, err := ParseWeekday(period.Day)
		if err != nil {
			return nil, err
		}
		from, err := ParseClock(period.From)
		if err != nil {
			return nil, err
		}
		to, err := ParseClock(period.To)
		if err != nil {
			return nil, err
		}
		byDay[day] = append(byDay[day], Window{From: int(from), To: int(from) + MinutesBetween(from, to)})
	}
	return byDay, nil
}

func valueOr[T any](value *T, fallback T) T {
	if value == nil {
		return fallback
	}
	return *value
}
