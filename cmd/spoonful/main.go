// Package main implements the spoonful CLI tool.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"spoonful/internal/config"
	"spoonful/task"
)

var verbose bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "spoonful",
	Short:         "Spoonful - an energy-budget task tracker",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// newLogger builds the process logger. Debug level when --verbose is set.
func newLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}

// loadConfig reads spoonful.toml from the working directory and the global
// config location.
func loadConfig() (*config.Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}
	return config.Load(cwd)
}

// openStore opens the task store at the configured path.
func openStore() (*task.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return task.Open(cfg.Store.Path)
}

// resolveTaskID matches a full ID or unique ID prefix against stored tasks.
func resolveTaskID(store *task.Store, input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("task ID is required")
	}

	tasks, err := store.List(task.Filter{})
	if err != nil {
		return "", err
	}

	var matches []string
	for _, t := range tasks {
		if t.ID == input {
			return t.ID, nil
		}
		if strings.HasPrefix(t.ID, input) {
			matches = append(matches, t.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %s", task.ErrTaskNotFound, input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("ambiguous task ID prefix %q (%d matches)", input, len(matches))
	}
}
