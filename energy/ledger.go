package energy

import (
	"math"
	"time"

	"spoonful/task"
)

// Report summarizes the current accounting day.
type Report struct {
	// Used is the sum of energy costs over counted tasks.
	Used int

	// Remaining is the budget minus Used, clamped at zero.
	Remaining int

	// Percent is the share of the budget still available, rounded.
	// Deliberately NOT clamped: overspending the budget drives it
	// negative, and the dashboard shows that.
	Percent int
}

// Counts reports whether a task charges against the accounting day that
// started at boundary: every active task does, and a completed task does
// until a reset boundary passes its completion.
func Counts(t task.Task, boundary time.Time) bool {
	switch t.Status {
	case task.StatusActive:
		return true
	case task.StatusCompleted:
		return t.CompletedAt != nil && t.CompletedAt.After(boundary)
	default:
		return false
	}
}

// Used sums the energy cost of every task that counts toward the accounting
// day that started at boundary.
func Used(tasks []task.Task, boundary time.Time) int {
	total := 0
	for _, t := range tasks {
		if Counts(t, boundary) {
			total += t.EnergyCost
		}
	}
	return total
}

// Compute derives the day's report from the task set, the daily budget, and
// the reset boundary.
func Compute(tasks []task.Task, budget int, boundary time.Time) Report {
	used := Used(tasks, boundary)
	remaining := budget - used
	if remaining < 0 {
		remaining = 0
	}

	percent := 0
	if budget > 0 {
		percent = int(math.Round(100 * float64(budget-used) / float64(budget)))
	}

	return Report{Used: used, Remaining: remaining, Percent: percent}
}
