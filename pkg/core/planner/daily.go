package planner

import (
	"cmp"
	"slices"
)

// runDailyPass fills the minimum coverage of every shift and role on a day.
// Missing coverage is recorded as uncovered placeholders, never dropped.
func (p *planner) runDailyPass(d day, state *State) {
	for _, shift := range p.idx.shifts {
		if p.isClosed(d.key, shift) {
			continue
		}

		for _, role := range p.idx.compatible[shift.ID] {
			slot := NewSlot(d.date, shift, role, p.plan.Constraints)

			accepted := p.realCount(d.key, shift.ID, role.ID)
			for _, employee := range p.dailyCandidates(d.key, role.ID, state) {
				if accepted >= role.MinCoverage {
					break
				}
				if !p.evaluate(PhaseDaily, employee, slot, state) {
					continue
				}
				p.assignments[d.key] = append(p.assignments[d.key], p.accept(employee, slot, state))
				accepted++
			}

			for ; accepted < role.MinCoverage; accepted++ {
				p.assignments[d.key] = append(p.assignments[d.key], newPlaceholder(slot))
			}
		}
	}
}

// dailyCandidates returns the employees who may be considered for a role on a
// date, in preference order:
//  1. fewest remaining work days
//  2. fewest minutes already worked this week
//  3. importance, per the configured order
//  4. roster order
func (p *planner) dailyCandidates(date, roleID string, state *State) []*Employee {
	candidates := make([]*Employee, 0, len(p.idx.qualified[roleID]))
	for _, employee := range p.idx.qualified[roleID] {
		if state.RemainingWorkDays(employee.ID) <= 0 {
			continue
		}
		if state.IsAssignedOn(date, employee.ID) {
			continue
		}
		candidates = append(candidates, employee)
	}

	slices.SortStableFunc(candidates, func(a, b *Employee) int {
		return cmp.Or(
			cmp.Compare(state.RemainingWorkDays(a.ID), state.RemainingWorkDays(b.ID)),
			cmp.Compare(state.WeeklyMinutes(a.ID), state.WeeklyMinutes(b.ID)),
			p.compareImportance(a, b),
			cmp.Compare(a.order, b.order),
		)
	})

	return candidates
}

// compareImportance orders two employees by importance according to the options
func (p *planner) compareImportance(a, b *Employee) int {
	if p.opts.ImportanceOrder == ImportanceLowerFirst {
		return cmp.Compare(a.Importance, b.Importance)
	}
	return cmp.Compare(b.Importance, a.Importance)
}
