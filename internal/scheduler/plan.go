package scheduler

import (
	"sort"

	"github.com/Hidendra/nzbget-capped-download-queue/internal/data"
)

// Plan is the outcome of one scheduling decision over a pool snapshot: how
// much capacity is already committed and which held items fit in what is
// left.
type Plan struct {
	// Capacity is the configured budget in bytes.
	Capacity int64
	// Reserved is the total size of every non-paused item. It only shrinks
	// through completions; the scheduler never re-pauses an admitted item.
	Reserved int64
	// Budget is the capacity still available for admissions, floored at zero.
	Budget int64
	// Candidates is the number of held items considered this pass.
	Candidates int
	// Admit lists the items to resume, in admission order.
	Admit data.Items
	// Overcommitted is set when Reserved already exceeds Capacity, e.g.
	// after the budget was lowered at runtime. Nothing is admitted until it
	// self-corrects through completions.
	Overcommitted bool
}

// BuildPlan reconciles a pool snapshot against the capacity budget.
//
// Held items are considered in (priority descending, queue position
// ascending) order and admitted greedy first-fit: a candidate too large for
// the remaining budget is skipped, not queued behind, so a big download
// cannot starve smaller ones that already fit. Skipped items are simply
// re-evaluated on the next pass with whatever size and priority the host
// reports then.
func BuildPlan(items data.Items, capacity int64) Plan {
	var candidates data.Items
	plan := Plan{Capacity: capacity}
	for _, it := range items {
		if it.Status.Held() {
			candidates = append(candidates, it)
		} else {
			plan.Reserved += it.SizeBytes
		}
	}
	plan.Candidates = len(candidates)
	plan.Overcommitted = plan.Reserved > capacity

	budget := capacity - plan.Reserved
	if budget <= 0 {
		return plan
	}
	plan.Budget = budget

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Priority != candidates[j].Priority {
			return candidates[i].Priority > candidates[j].Priority
		}
		return candidates[i].QueuePos < candidates[j].QueuePos
	})

	remaining := budget
	for _, c := range candidates {
		// Cost the candidate at what is still to be transferred; for an item
		// that never started this equals its full size. A size the host has
		// not resolved yet reads as zero and is corrected on a later pass.
		if c.LeftBytes <= remaining {
			plan.Admit = append(plan.Admit, c)
			remaining -= c.LeftBytes
		}
	}
	return plan
}

// AdmittedBytes is the budget consumed by this plan's admissions.
func (p Plan) AdmittedBytes() int64 {
	var total int64
	for _, it := range p.Admit {
		total += it.LeftBytes
	}
	return total
}
