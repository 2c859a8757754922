package task

import "time"

// Task represents a single unit of work.
type Task struct {
	// ID is a unique identifier (UUID string, assigned at creation).
	ID string `json:"id"`

	// Title is the short summary of the task (max 100 chars).
	Title string `json:"title"`

	// EnergyCost is the energy price of doing the task (5-100).
	EnergyCost int `json:"energy_cost"`

	// Category is a free-form label. Defaults to "Personal".
	Category string `json:"category"`

	// Deadline is an optional due date (nil when unset).
	Deadline *time.Time `json:"deadline,omitempty"`

	// Description provides additional context about the task.
	Description string `json:"description"`

	// Status is the current state of the task.
	Status Status `json:"status"`

	// CreatedAt is when the task was created. Never modified afterwards.
	CreatedAt time.Time `json:"created_at"`

	// CompletedAt is when the task completed (nil unless Status is completed).
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// applyStatus transitions the task to the given status at the given instant,
// maintaining the completed_at invariant: set on entering completed, cleared
// on leaving it. Same-state transitions always succeed and change nothing.
func (t *Task) applyStatus(status Status, now time.Time) {
	if status == t.Status {
		return
	}
	t.Status = status
	if status == StatusCompleted {
		at := now
		t.CompletedAt = &at
	} else {
		t.CompletedAt = nil
	}
}
