package energy

import (
	"strings"

	"spoonful/task"
)

// Card is the slice of task state the dashboard renders onto each card.
// The browser script reads the same fields back out of data attributes.
type Card struct {
	Title       string
	Description string
	Category    string
	EnergyCost  int
	Status      task.Status
}

// CardFor extracts the rendered card state from a task.
func CardFor(t task.Task) Card {
	return Card{
		Title:       t.Title,
		Description: t.Description,
		Category:    t.Category,
		EnergyCost:  t.EnergyCost,
		Status:      t.Status,
	}
}

// ComputeVisibility decides whether a rendered card stays visible. It is the
// authoritative statement of the rule the dashboard script mirrors:
//
//   - tired mode hides a card only when it is backlog AND its cost exceeds
//     the remaining energy; active and completed cards always survive it
//   - a non-empty search independently requires a case-insensitive substring
//     match on title, description, or category
//
// The two filters intersect: a card is shown only if it passes both. The
// remaining value is whatever the ledger computed at render time; this
// function never recomputes it.
func ComputeVisibility(card Card, remaining int, tiredMode bool, search string) bool {
	if tiredMode && card.Status == task.StatusBacklog && card.EnergyCost > remaining {
		return false
	}

	if search != "" {
		query := strings.ToLower(search)
		haystack := strings.ToLower(card.Title + " " + card.Description + " " + card.Category)
		if !strings.Contains(haystack, query) {
			return false
		}
	}

	return true
}
