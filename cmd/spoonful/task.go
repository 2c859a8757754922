package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"spoonful/internal/markdown"
	"spoonful/task"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks",
}

var (
	addCost        int
	addCategory    string
	addDescription string
	addDeadline    string
)

var taskAddCmd = &cobra.Command{
	Use:   "add TITLE",
	Short: "Add a task to the backlog",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		deadline, err := parseDeadlineFlag(addDeadline)
		if err != nil {
			return err
		}

		created, err := store.Create(args[0], task.CreateOptions{
			EnergyCost:  addCost,
			Category:    addCategory,
			Description: addDescription,
			Deadline:    deadline,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Added %s (%d energy): %s\n", shortID(created.ID), created.EnergyCost, created.Title)
		return nil
	},
}

var (
	listStatus string
	listSearch string
)

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		tasks, err := store.List(task.Filter{
			Status: task.ParseStatusFilter(listStatus),
			Search: listSearch,
		})
		if err != nil {
			return err
		}

		printTaskTable(tasks, time.Now())
		return nil
	},
}

var taskShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show a task's details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		id, err := resolveTaskID(store, args[0])
		if err != nil {
			return err
		}
		t, err := store.Get(id)
		if err != nil {
			return err
		}

		fmt.Printf("ID:        %s\n", t.ID)
		fmt.Printf("Title:     %s\n", t.Title)
		fmt.Printf("Energy:    %d\n", t.EnergyCost)
		fmt.Printf("Category:  %s\n", t.Category)
		fmt.Printf("Status:    %s\n", t.Status)
		fmt.Printf("Created:   %s\n", t.CreatedAt.Local().Format("2006-01-02 15:04"))
		if t.Deadline != nil {
			fmt.Printf("Deadline:  %s\n", t.Deadline.Local().Format("2006-01-02 15:04"))
		}
		if t.CompletedAt != nil {
			fmt.Printf("Completed: %s\n", t.CompletedAt.Local().Format("2006-01-02 15:04"))
		}
		if t.Description != "" {
			fmt.Println()
			fmt.Println(markdown.Render(descriptionWidth(), t.Description))
		}
		return nil
	},
}

func newStatusCommand(use, short string, status task.Status) *cobra.Command {
	return &cobra.Command{
		Use:   use + " ID...",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			for _, arg := range args {
				id, err := resolveTaskID(store, arg)
				if err != nil {
					return err
				}
				updated, err := store.SetStatus(id, status)
				if err != nil {
					return err
				}
				if updated == nil {
					continue
				}
				fmt.Printf("%s: %s\n", updated.Status, updated.Title)
			}
			return nil
		},
	}
}

var taskRmCmd = &cobra.Command{
	Use:   "rm ID",
	Short: "Delete a task permanently",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		id, err := resolveTaskID(store, args[0])
		if err != nil {
			return err
		}
		if err := store.Delete(id); err != nil {
			return err
		}
		fmt.Printf("Deleted %s\n", shortID(id))
		return nil
	},
}

// Deadline flags accept a date or a date with time.
var deadlineFlagLayouts = []string{"2006-01-02 15:04", "2006-01-02"}

func parseDeadlineFlag(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	for _, layout := range deadlineFlagLayouts {
		if parsed, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return &parsed, nil
		}
	}
	return nil, fmt.Errorf("invalid deadline %q: expected \"YYYY-MM-DD\" or \"YYYY-MM-DD HH:MM\"", value)
}

func descriptionWidth() int {
	if term.IsTerminal(int(os.Stdout.Fd())) {
		if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
			return width
		}
	}
	return 80
}

func init() {
	addTaskFlagAliases(taskAddCmd)
	taskAddCmd.Flags().IntVar(&addCost, "cost", task.MinEnergyCost, "energy cost (5-100)")
	taskAddCmd.Flags().StringVar(&addCategory, "category", "", "category label")
	taskAddCmd.Flags().StringVar(&addDescription, "description", "", "longer description (markdown)")
	taskAddCmd.Flags().StringVar(&addDeadline, "deadline", "", `deadline ("YYYY-MM-DD" or "YYYY-MM-DD HH:MM")`)

	taskListCmd.Flags().StringVar(&listStatus, "status", "", "filter by status (backlog, active, completed)")
	taskListCmd.Flags().StringVar(&listSearch, "search", "", "filter by title substring")

	taskCmd.AddCommand(taskAddCmd)
	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskShowCmd)
	taskCmd.AddCommand(newStatusCommand("start", "Mark tasks active", task.StatusActive))
	taskCmd.AddCommand(newStatusCommand("done", "Mark tasks completed", task.StatusCompleted))
	taskCmd.AddCommand(newStatusCommand("backlog", "Move tasks back to the backlog", task.StatusBacklog))
	taskCmd.AddCommand(taskRmCmd)
	rootCmd.AddCommand(taskCmd)
}
