package main

import (
	"fmt"
	"strconv"
	"time"

	"spoonful/internal/ui"
	"spoonful/task"
)

// printTaskTable prints tasks in a table format.
func printTaskTable(tasks []task.Task, now time.Time) {
	if len(tasks) == 0 {
		fmt.Println("No tasks found.")
		return
	}
	fmt.Print(formatTaskTable(tasks, now))
}

func formatTaskTable(tasks []task.Task, now time.Time) string {
	builder := ui.NewTableBuilder([]string{"ID", "COST", "STATUS", "CATEGORY", "AGE", "TITLE"}, len(tasks))

	for _, t := range tasks {
		builder.AddRow([]string{
			shortID(t.ID),
			strconv.Itoa(t.EnergyCost),
			string(t.Status),
			t.Category,
			formatAge(t.CreatedAt, now),
			ui.TruncateTableCell(t.Title),
		})
	}

	return builder.String()
}

// shortID abbreviates a UUID for display; the full ID still resolves.
func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

func formatAge(createdAt time.Time, now time.Time) string {
	age := now.Sub(createdAt)
	switch {
	case age < time.Minute:
		return "now"
	case age < time.Hour:
		return fmt.Sprintf("%dm", int(age.Minutes()))
	case age < 24*time.Hour:
		return fmt.Sprintf("%dh", int(age.Hours()))
	default:
		return fmt.Sprintf("%dd", int(age.Hours()/24))
	}
}
