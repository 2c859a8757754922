package task

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestValidateTitle(t *testing.T) {
	if err := ValidateTitle("Buy milk"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateTitle(""); !errors.Is(err, ErrEmptyTitle) {
		t.Errorf("expected ErrEmptyTitle, got %v", err)
	}
	if err := ValidateTitle(strings.Repeat("x", MaxTitleLength)); err != nil {
		t.Errorf("title at the limit should be valid, got %v", err)
	}
	if err := ValidateTitle(strings.Repeat("x", MaxTitleLength+1)); !errors.Is(err, ErrTitleTooLong) {
		t.Errorf("expected ErrTitleTooLong, got %v", err)
	}
}

func TestValidateEnergyCost(t *testing.T) {
	for _, cost := range []int{MinEnergyCost, 50, MaxEnergyCost} {
		if err := ValidateEnergyCost(cost); err != nil {
			t.Errorf("cost %d should be valid, got %v", cost, err)
		}
	}
	for _, cost := range []int{0, MinEnergyCost - 1, MaxEnergyCost + 1, -5} {
		if err := ValidateEnergyCost(cost); !errors.Is(err, ErrInvalidEnergyCost) {
			t.Errorf("cost %d: expected ErrInvalidEnergyCost, got %v", cost, err)
		}
	}
}

func TestValidateStatus(t *testing.T) {
	for _, status := range ValidStatuses() {
		if err := ValidateStatus(status); err != nil {
			t.Errorf("status %q should be valid, got %v", status, err)
		}
	}
	if err := ValidateStatus(Status("paused")); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestValidateResetTime(t *testing.T) {
	for _, value := range []string{"00:00", "04:00", "23:59"} {
		if err := ValidateResetTime(value); err != nil {
			t.Errorf("%q should be valid, got %v", value, err)
		}
	}
	for _, value := range []string{"", "24:00", "12:60", "4", "04:00:00", "ab:cd"} {
		if err := ValidateResetTime(value); !errors.Is(err, ErrInvalidResetTime) {
			t.Errorf("%q: expected ErrInvalidResetTime, got %v", value, err)
		}
	}
}

func TestValidateTask_CompletionConsistency(t *testing.T) {
	now := time.Now()

	valid := Task{Title: "ok", EnergyCost: 10, Status: StatusCompleted, CompletedAt: &now}
	if err := ValidateTask(&valid); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	missing := Task{Title: "ok", EnergyCost: 10, Status: StatusCompleted}
	if err := ValidateTask(&missing); !errors.Is(err, ErrCompletedTaskMissingCompletedAt) {
		t.Errorf("expected ErrCompletedTaskMissingCompletedAt, got %v", err)
	}

	stray := Task{Title: "ok", EnergyCost: 10, Status: StatusBacklog, CompletedAt: &now}
	if err := ValidateTask(&stray); !errors.Is(err, ErrNotCompletedTaskHasCompletedAt) {
		t.Errorf("expected ErrNotCompletedTaskHasCompletedAt, got %v", err)
	}
}

func TestParseStatusFilter(t *testing.T) {
	tests := []struct {
		input    string
		expected StatusFilter
	}{
		{"backlog", FilterBacklog},
		{"active", FilterActive},
		{"completed", FilterCompleted},
		{"all", FilterAll},
		{"", FilterAll},
		{"nonsense", FilterAll},
		{"ACTIVE", FilterAll},
	}

	for _, test := range tests {
		if got := ParseStatusFilter(test.input); got != test.expected {
			t.Errorf("ParseStatusFilter(%q): expected %q, got %q", test.input, test.expected, got)
		}
	}
}

func TestStatusFilterStatus(t *testing.T) {
	if status, ok := FilterActive.Status(); !ok || status != StatusActive {
		t.Errorf("FilterActive: expected (active, true), got (%q, %v)", status, ok)
	}
	if _, ok := FilterAll.Status(); ok {
		t.Error("FilterAll should not restrict to a status")
	}
}
