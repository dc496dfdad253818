package planner

import (
	"cmp"
	"slices"
)

// index holds lookups built once per planning run
type index struct {
	// shifts ordered by start time
	shifts []*Shift

	roles map[string]*Role

	// qualified[roleID] lists employees enabled for the role, in roster order
	qualified map[string][]*Employee

	// compatible[shiftID] lists the shift's roles, scarcest first
	compatible map[string][]*Role

	// rolePosition[shiftID][roleID] is the role's position in compatible[shiftID]
	rolePosition map[string]map[string]int

	// shiftPosition[shiftID] is the shift's position in shifts
	shiftPosition map[string]int
}

func buildIndex(plan *Plan) *index {
	idx := &index{
		roles:         make(map[string]*Role, len(plan.Roles)),
		qualified:     make(map[string][]*Employee, len(plan.Roles)),
		compatible:    make(map[string][]*Role, len(plan.Shifts)),
		rolePosition:  make(map[string]map[string]int, len(plan.Shifts)),
		shiftPosition: make(map[string]int, len(plan.Shifts)),
	}

	for _, role := range plan.Roles {
		idx.roles[role.ID] = role
	}

	for _, employee := range plan.Employees {
		for _, roleID := range employee.Roles {
			idx.qualified[roleID] = append(idx.qualified[roleID], employee)
		}
	}

	idx.shifts = slices.Clone(plan.Shifts)
	slices.SortStableFunc(idx.shifts, func(a, b *Shift) int {
		return cmp.Or(cmp.Compare(a.Start, b.Start), cmp.Compare(a.order, b.order))
	})

	for position, shift := range idx.shifts {
		idx.shiftPosition[shift.ID] = position

		// Preserve role order when a shift lists a role twice
		roles := make([]*Role, 0, len(shift.Roles))
		seen := make(map[string]bool, len(shift.Roles))
		for _, roleID := range shift.Roles {
			role, ok := idx.roles[roleID]
			if !ok || seen[roleID] {
				continue
			}
			seen[roleID] = true
			roles = append(roles, role)
		}

		// Roles with fewer qualified employees are staffed first
		slices.SortStableFunc(roles, func(a, b *Role) int {
			return cmp.Or(
				cmp.Compare(len(idx.qualified[a.ID]), len(idx.qualified[b.ID])),
				cmp.Compare(a.order, b.order),
			)
		})

		idx.compatible[shift.ID] = roles
		idx.rolePosition[shift.ID] = make(map[string]int, len(roles))
		for rolePos, role := range roles {
			idx.rolePosition[shift.ID][role.ID] = rolePos
		}
	}

	return idx
}
