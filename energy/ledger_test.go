package energy

import (
	"testing"
	"time"

	"spoonful/task"
)

var testBoundary = time.Date(2024, 1, 2, 4, 0, 0, 0, time.UTC)

func completedTask(cost int, completedAt time.Time) task.Task {
	return task.Task{
		Title:       "done",
		EnergyCost:  cost,
		Status:      task.StatusCompleted,
		CompletedAt: &completedAt,
	}
}

func TestCounts(t *testing.T) {
	afterBoundary := testBoundary.Add(time.Hour)
	beforeBoundary := testBoundary.Add(-time.Hour)

	tests := []struct {
		name     string
		task     task.Task
		expected bool
	}{
		{"active counts", task.Task{Status: task.StatusActive}, true},
		{"backlog does not count", task.Task{Status: task.StatusBacklog}, false},
		{"completed after boundary counts", completedTask(10, afterBoundary), true},
		{"completed before boundary does not count", completedTask(10, beforeBoundary), false},
		{"completed at boundary does not count", completedTask(10, testBoundary), false},
		{"completed without timestamp does not count", task.Task{Status: task.StatusCompleted}, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := Counts(test.task, testBoundary); got != test.expected {
				t.Errorf("expected %v, got %v", test.expected, got)
			}
		})
	}
}

func TestUsed(t *testing.T) {
	tasks := []task.Task{
		{Status: task.StatusActive, EnergyCost: 30},
		{Status: task.StatusBacklog, EnergyCost: 50},
		completedTask(20, testBoundary.Add(time.Hour)),
		completedTask(40, testBoundary.Add(-time.Hour)),
	}

	if got := Used(tasks, testBoundary); got != 50 {
		t.Errorf("expected used 50, got %d", got)
	}
}

func TestCompute(t *testing.T) {
	tasks := []task.Task{
		{Status: task.StatusActive, EnergyCost: 30},
		completedTask(20, testBoundary.Add(time.Hour)),
	}

	report := Compute(tasks, 100, testBoundary)
	if report.Used != 50 {
		t.Errorf("expected used 50, got %d", report.Used)
	}
	if report.Remaining != 50 {
		t.Errorf("expected remaining 50, got %d", report.Remaining)
	}
	if report.Percent != 50 {
		t.Errorf("expected percent 50, got %d", report.Percent)
	}
}

// Remaining clamps at zero when the budget is overspent, but Percent keeps
// going negative so the overspend stays visible.
func TestCompute_Overspent(t *testing.T) {
	tasks := []task.Task{
		{Status: task.StatusActive, EnergyCost: 100},
		{Status: task.StatusActive, EnergyCost: 50},
	}

	report := Compute(tasks, 100, testBoundary)
	if report.Used != 150 {
		t.Errorf("expected used 150, got %d", report.Used)
	}
	if report.Remaining != 0 {
		t.Errorf("expected remaining clamped to 0, got %d", report.Remaining)
	}
	if report.Percent != -50 {
		t.Errorf("expected percent -50, got %d", report.Percent)
	}
}

func TestCompute_EmptyTaskSet(t *testing.T) {
	report := Compute(nil, 100, testBoundary)
	if report.Used != 0 || report.Remaining != 100 || report.Percent != 100 {
		t.Errorf("expected untouched budget, got %+v", report)
	}
}

func TestCompute_ZeroBudget(t *testing.T) {
	tasks := []task.Task{{Status: task.StatusActive, EnergyCost: 10}}
	report := Compute(tasks, 0, testBoundary)
	if report.Remaining != 0 {
		t.Errorf("expected remaining 0, got %d", report.Remaining)
	}
	if report.Percent != 0 {
		t.Errorf("expected percent 0 for zero budget, got %d", report.Percent)
	}
}

func TestCompute_PercentRounds(t *testing.T) {
	tasks := []task.Task{{Status: task.StatusActive, EnergyCost: 10}}

	// 20/30 remaining is 66.67%, which rounds to 67.
	report := Compute(tasks, 30, testBoundary)
	if report.Percent != 67 {
		t.Errorf("expected percent 67, got %d", report.Percent)
	}
}

// A task completed yesterday at 03:30 falls before the 04:00 boundary of a
// day inspected at 05:00, so it no longer charges against the budget.
func TestCompute_CompletionExpiresAcrossReset(t *testing.T) {
	now := time.Date(2024, 1, 2, 5, 0, 0, 0, time.UTC)
	boundary, err := ResetBoundary("04:00", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	completedAt := time.Date(2024, 1, 1, 3, 30, 0, 0, time.UTC)
	tasks := []task.Task{completedTask(40, completedAt)}

	report := Compute(tasks, 100, boundary)
	if report.Used != 0 {
		t.Errorf("expected used 0, got %d", report.Used)
	}
	if report.Remaining != 100 {
		t.Errorf("expected remaining 100, got %d", report.Remaining)
	}
}
