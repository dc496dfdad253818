package planner

import (
	"cmp"
	"slices"
)

// runCompletionPass sweeps a finished week. It first backfills uncovered
// placeholders, then (if enabled) extends under-utilized employees toward
// their weekly target. Accepted assignments are never revoked.
func (p *planner) runCompletionPass(week []day, state *State) {
	for _, d := range week {
		p.backfillDay(d, state)
	}

	if !p.opts.ExtendToTarget {
		return
	}
	for _, d := range week {
		p.extendDay(d, state)
	}
}

// backfillDay replaces placeholders with the least-loaded eligible employee
func (p *planner) backfillDay(d day, state *State) {
	assignments := p.assignments[d.key]
	for i, placeholder := range assignments {
		if !placeholder.IsUncovered() {
			continue
		}

		shift := p.shiftByID(placeholder.ShiftID)
		role := p.idx.roles[placeholder.RoleID]
		if p.realCount(d.key, shift.ID, role.ID) >= role.MaxCoverage {
			continue
		}

		slot := NewSlot(d.date, shift, role, p.plan.Constraints)

		var best *Employee
		for _, employee := range p.idx.qualified[role.ID] {
			if state.IsAssignedOn(d.key, employee.ID) {
				continue
			}
			if float64(state.WeeklyMinutes(employee.ID)) >= employee.WeeklyHours*60 {
				continue
			}
			if !p.evaluate(PhaseBackfill, employee, slot, state) {
				continue
			}
			if best == nil || state.WeeklyMinutes(employee.ID) < state.WeeklyMinutes(best.ID) {
				best = employee
			}
		}

		if best == nil {
			continue
		}
		assignments[i] = p.accept(best, slot, state)
	}
}

// extendDay adds employees still below their weekly target to slots that
// have room under their maximum coverage
func (p *planner) extendDay(d day, state *State) {
	employees := slices.Clone(p.plan.Employees)
	slices.SortStableFunc(employees, func(a, b *Employee) int {
		return cmp.Or(
			cmp.Compare(state.WeeklyMinutes(a.ID), state.WeeklyMinutes(b.ID)),
			p.compareImportance(a, b),
			cmp.Compare(a.order, b.order),
		)
	})

	for _, employee := range employees {
		if state.RemainingWorkDays(employee.ID) <= 0 || state.IsAssignedOn(d.key, employee.ID) {
			continue
		}
		if float64(state.WeeklyMinutes(employee.ID)) >= employee.WeeklyHours*60 {
			continue
		}
		p.extendEmployee(d, employee, state)
	}
}

// extendEmployee places the employee in the first open slot they are eligible for
func (p *planner) extendEmployee(d day, employee *Employee, state *State) {
	for _, shift := range p.idx.shifts {
		if p.isClosed(d.key, shift) {
			continue
		}
		for _, role := range p.idx.compatible[shift.ID] {
			if !employee.HasRole(role.ID) {
				continue
			}
			if p.realCount(d.key, shift.ID, role.ID) >= role.MaxCoverage {
				continue
			}
			slot := NewSlot(d.date, shift, role, p.plan.Constraints)
			if !p.evaluate(PhaseExtension, employee, slot, state) {
				continue
			}
			p.assignments[d.key] = append(p.assignments[d.key], p.accept(employee, slot, state))
			return
		}
	}
}

func (p *planner) shiftByID(shiftID string) *Shift {
	return p.idx.shifts[p.idx.shiftPosition[shiftID]]
}
