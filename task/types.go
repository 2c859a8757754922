// Package task implements the energy-budget task tracker domain model.
//
// Tasks move between three statuses (Backlog, Active, Completed) and each
// carries an integer energy cost that the energy package charges against the
// daily budget. Persistence is a SQLite store holding tasks plus a small
// key-value settings table.
//
// The public API mirrors the CLI and web surfaces:
//   - Create, Update, SetStatus, Delete for task lifecycle
//   - Get, List, ActiveAndCompleted for querying
//   - LoadSettings, SaveSettings for the daily budget and reset time
package task

// Status represents the state of a task.
type Status string

const (
	// StatusBacklog indicates the task has not been started.
	StatusBacklog Status = "backlog"

	// StatusActive indicates the task is currently being worked on.
	StatusActive Status = "active"

	// StatusCompleted indicates the task is finished.
	StatusCompleted Status = "completed"
)

// ValidStatuses returns all valid status values.
func ValidStatuses() []Status {
	return []Status{StatusBacklog, StatusActive, StatusCompleted}
}

// IsValid returns true if the status is a known valid value.
func (s Status) IsValid() bool {
	for _, valid := range ValidStatuses() {
		if s == valid {
			return true
		}
	}
	return false
}

// StatusFilter selects which statuses a list query returns. It extends
// Status with an "all" sentinel meaning no status restriction.
type StatusFilter string

const (
	// FilterAll matches every status.
	FilterAll StatusFilter = "all"

	// FilterBacklog matches backlog tasks.
	FilterBacklog StatusFilter = StatusFilter(StatusBacklog)

	// FilterActive matches active tasks.
	FilterActive StatusFilter = StatusFilter(StatusActive)

	// FilterCompleted matches completed tasks.
	FilterCompleted StatusFilter = StatusFilter(StatusCompleted)
)

// ParseStatusFilter maps user input to a filter. Unrecognized values map to
// FilterAll rather than failing; list views are deliberately lenient.
func ParseStatusFilter(value string) StatusFilter {
	switch StatusFilter(value) {
	case FilterBacklog, FilterActive, FilterCompleted:
		return StatusFilter(value)
	default:
		return FilterAll
	}
}

// Status returns the underlying status and whether the filter restricts to
// one. FilterAll reports false.
func (f StatusFilter) Status() (Status, bool) {
	switch f {
	case FilterBacklog, FilterActive, FilterCompleted:
		return Status(f), true
	default:
		return "", false
	}
}

const (
	// MaxTitleLength is the maximum allowed length for a task title.
	MaxTitleLength = 100

	// MinEnergyCost is the lowest allowed energy cost for a task.
	MinEnergyCost = 5

	// MaxEnergyCost is the highest allowed energy cost for a task.
	MaxEnergyCost = 100

	// DefaultCategory is applied when a task is created without one.
	DefaultCategory = "Personal"
)
