package model

// Roster is the complete input maintained by the roster managers:
// employees, roles, shifts and the constraint records.
type Roster struct {
	Employees   []Employee  `yaml:"employees" json:"employees" validate:"dive"`
	Roles       []Role      `yaml:"roles" json:"roles" validate:"dive"`
	Shifts      []Shift     `yaml:"shifts" json:"shifts" validate:"dive"`
	Constraints Constraints `yaml:"constraints" json:"constraints"`
}

// Employee represents a member of staff as stored by the roster manager.
// Numeric fields are optional; missing values are filled in during normalization.
type Employee struct {
	ID             string           `yaml:"id" json:"id" validate:"required"`
	Name           string           `yaml:"name" json:"name" validate:"required"`
	Roles          []string         `yaml:"roles" json:"roles"`
	WeeklyHours    *float64         `yaml:"weeklyHours,omitempty" json:"weeklyHours,omitempty" validate:"omitempty,gt=0"`
	DailyHours     *float64         `yaml:"dailyHours,omitempty" json:"dailyHours,omitempty" validate:"omitempty,gt=0,lte=24"`
	Importance     *int             `yaml:"importance,omitempty" json:"importance,omitempty"`
	Unavailability []Unavailability `yaml:"unavailability,omitempty" json:"unavailability,omitempty" validate:"dive"`
}

// Unavailability is a recurring weekly window during which an employee cannot work.
// Day is a weekday name ("monday"), From and To are "HH:MM" clock times.
type Unavailability struct {
	Day  string `yaml:"day" json:"day" validate:"required,weekday"`
	From string `yaml:"from" json:"from" validate:"required,clock"`
	To   string `yaml:"to" json:"to" validate:"required,clock"`
}

// Role is a job function that shifts are staffed with
type Role struct {
	ID          string `yaml:"id" json:"id" validate:"required"`
	Name        string `yaml:"name" json:"name" validate:"required"`
	Color       string `yaml:"color,omitempty" json:"color,omitempty"`
	Level       *int   `yaml:"level,omitempty" json:"level,omitempty"`
	MinCoverage *int   `yaml:"minCoverage,omitempty" json:"minCoverage,omitempty" validate:"omitempty,min=1"`
	MaxCoverage *int   `yaml:"maxCoverage,omitempty" json:"maxCoverage,omitempty" validate:"omitempty,min=1"`
}

// Shift is a daily time window. End <= Start means the shift runs past midnight.
type Shift struct {
	ID    string   `yaml:"id" json:"id" validate:"required"`
	Name  string   `yaml:"name" json:"name" validate:"required"`
	Start string   `yaml:"start" json:"start" validate:"required,clock"`
	End   string   `yaml:"end" json:"end" validate:"required,clock"`
	Roles []string `yaml:"roles" json:"roles"`
}

// Constraints holds the global labour rules and the per-employee overrides
type Constraints struct {
	MinRestHours      *float64                    `yaml:"minRestHours,omitempty" json:"minRestHours,omitempty" validate:"omitempty,min=0"`
	DefaultDailyHours *float64                    `yaml:"defaultDailyHours,omitempty" json:"defaultDailyHours,omitempty" validate:"omitempty,gt=0,lte=24"`
	BreakAfterHours   *float64                    `yaml:"breakAfterHours,omitempty" json:"breakAfterHours,omitempty" validate:"omitempty,min=0"`
	BreakMinutes      *int                        `yaml:"breakMinutes,omitempty" json:"breakMinutes,omitempty" validate:"omitempty,min=0"`
	PerEmployee       map[string]EmployeeOverride `yaml:"perEmployee,omitempty" json:"perEmployee,omitempty" validate:"dive"`
}

// EmployeeOverride replaces global constraint values for a single employee
type EmployeeOverride struct {
	DailyHours   *float64 `yaml:"dailyHours,omitempty" json:"dailyHours,omitempty" validate:"omitempty,gt=0,lte=24"`
	WeeklyHours  *float64 `yaml:"weeklyHours,omitempty" json:"weeklyHours,omitempty" validate:"omitempty,gt=0"`
	MinRestHours *float64 `yaml:"minRestHours,omitempty" json:"minRestHours,omitempty" validate:"omitempty,min=0"`
}

// Float returns a pointer to v, for building rosters in code
func Float(v float64) *float64 {
	return &v
}

// Int returns a pointer to v, for building rosters in code
func Int(v int) *int {
	return &v
}
