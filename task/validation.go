package task

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"spoonful/internal/validation"
)

var (
	// ErrEmptyTitle is returned when a task title is empty.
	ErrEmptyTitle = errors.New("title cannot be empty")

	// ErrTitleTooLong is returned when a task title exceeds MaxTitleLength.
	ErrTitleTooLong = errors.New("title exceeds maximum length")

	// ErrInvalidEnergyCost is returned when energy cost is outside [5, 100].
	ErrInvalidEnergyCost = errors.New("energy cost must be between 5 and 100")

	// ErrInvalidStatus is returned when an invalid status is provided.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrTaskNotFound is returned when a task with the given ID doesn't exist.
	ErrTaskNotFound = errors.New("task not found")

	// ErrInvalidDailyBudget is returned when the daily budget is not a positive integer.
	ErrInvalidDailyBudget = errors.New("daily budget must be a positive integer")

	// ErrInvalidResetTime is returned when the reset time is not "HH:MM".
	ErrInvalidResetTime = errors.New(`reset time must be "HH:MM" (24-hour)`)

	// ErrCompletedTaskMissingCompletedAt is returned when a completed task has no completed_at timestamp.
	ErrCompletedTaskMissingCompletedAt = errors.New("completed task must have completed_at timestamp")

	// ErrNotCompletedTaskHasCompletedAt is returned when a non-completed task has a completed_at timestamp.
	ErrNotCompletedTaskHasCompletedAt = errors.New("non-completed task cannot have completed_at timestamp")
)

// ValidateTitle checks if the title is valid.
func ValidateTitle(title string) error {
	if title == "" {
		return ErrEmptyTitle
	}
	if len(title) > MaxTitleLength {
		return fmt.Errorf("%w: %d > %d", ErrTitleTooLong, len(title), MaxTitleLength)
	}
	return nil
}

// ValidateEnergyCost checks if the energy cost is valid.
func ValidateEnergyCost(cost int) error {
	if cost < MinEnergyCost || cost > MaxEnergyCost {
		return fmt.Errorf("%w: got %d", ErrInvalidEnergyCost, cost)
	}
	return nil
}

// ValidateStatus checks if the status is a known value.
func ValidateStatus(status Status) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: %q (valid: %s)", ErrInvalidStatus, status,
			validation.FormatValidValues(ValidStatuses()))
	}
	return nil
}

// ValidateDailyBudget checks if the daily budget is valid.
func ValidateDailyBudget(budget int) error {
	if budget <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidDailyBudget, budget)
	}
	return nil
}

// ValidateResetTime checks that the value parses as "HH:MM" with a 24-hour
// clock. This runs at settings-upsert time; readers assume stored values
// already passed it.
func ValidateResetTime(value string) error {
	parts := strings.Split(value, ":")
	if len(parts) != 2 {
		return fmt.Errorf("%w: got %q", ErrInvalidResetTime, value)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return fmt.Errorf("%w: got %q", ErrInvalidResetTime, value)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return fmt.Errorf("%w: got %q", ErrInvalidResetTime, value)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return fmt.Errorf("%w: got %q", ErrInvalidResetTime, value)
	}
	return nil
}

// ValidateTask checks if a task struct is valid.
func ValidateTask(t *Task) error {
	if err := ValidateTitle(t.Title); err != nil {
		return err
	}
	if err := ValidateEnergyCost(t.EnergyCost); err != nil {
		return err
	}
	if err := ValidateStatus(t.Status); err != nil {
		return err
	}

	// Check completed_at consistency
	if t.Status == StatusCompleted {
		if t.CompletedAt == nil {
			return ErrCompletedTaskMissingCompletedAt
		}
	} else if t.CompletedAt != nil {
		return ErrNotCompletedTaskHasCompletedAt
	}

	return nil
}
