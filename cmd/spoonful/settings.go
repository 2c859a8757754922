package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"spoonful/task"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage the daily budget and reset time",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
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

		fmt.Printf("Daily budget: %d\n", settings.DailyBudget)
		fmt.Printf("Reset time:   %s\n", settings.ResetTime)
		return nil
	},
}

var (
	setBudget int
	setReset  string
)

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update settings",
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
		if cmd.Flags().Changed("budget") {
			settings.DailyBudget = setBudget
		}
		if cmd.Flags().Changed("reset") {
			settings.ResetTime = setReset
		}

		if err := store.SaveSettings(settings); err != nil {
			return err
		}

		fmt.Printf("Daily budget: %d\n", settings.DailyBudget)
		fmt.Printf("Reset time:   %s\n", settings.ResetTime)
		return nil
	},
}

func init() {
	settingsSetCmd.Flags().IntVar(&setBudget, "budget", task.DefaultDailyBudget, "daily energy budget (> 0)")
	settingsSetCmd.Flags().StringVar(&setReset, "reset", task.DefaultResetTime, `daily reset time ("HH:MM")`)

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}
