package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"spoonful/energy"
)

var (
	remainingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	overspentStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show today's energy budget",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		settings, err := store.LoadSettings()
		if err != nil {
			return err
		}
		tasks, err := store.ActiveAndCompleted()
		if err != nil {
			return err
		}

		now := time.Now()
		boundary, err := energy.ResetBoundary(settings.ResetTime, now)
		if err != nil {
			return err
		}
		report := energy.Compute(tasks, settings.DailyBudget, boundary)

		remaining := fmt.Sprintf("%d", report.Remaining)
		if term.IsTerminal(int(os.Stdout.Fd())) {
			style := remainingStyle
			if report.Percent < 0 {
				style = overspentStyle
			}
			remaining = style.Render(remaining)
		}

		fmt.Printf("Energy: %s of %d remaining (%d used, %d%%)\n",
			remaining, settings.DailyBudget, report.Used, report.Percent)
		fmt.Printf("Day started at %s\n", boundary.Local().Format("2006-01-02 15:04"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
