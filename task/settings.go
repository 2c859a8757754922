package task

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
)

// Setting keys. The settings table holds at most one row per key.
const (
	SettingDailyBudget = "DailyBudget"
	SettingResetTime   = "ResetTime"
)

// Defaults applied when a setting has never been saved.
const (
	DefaultDailyBudget = 100
	DefaultResetTime   = "04:00"
)

// Settings holds the validated tracker configuration.
type Settings struct {
	// DailyBudget is the total energy available per accounting day (> 0).
	DailyBudget int

	// ResetTime is the start of the accounting day, "HH:MM" 24-hour form.
	ResetTime string
}

// DefaultSettings returns the settings used before anything is saved.
func DefaultSettings() Settings {
	return Settings{DailyBudget: DefaultDailyBudget, ResetTime: DefaultResetTime}
}

// Validate checks both settings values.
func (s Settings) Validate() error {
	if err := ValidateDailyBudget(s.DailyBudget); err != nil {
		return err
	}
	return ValidateResetTime(s.ResetTime)
}

// LoadSettings reads the stored settings, applying defaults for missing keys.
// Stored values were validated when saved; a value that no longer parses is
// reported as an error rather than silently replaced.
func (s *Store) LoadSettings() (Settings, error) {
	settings := DefaultSettings()

	if value, ok, err := s.getSetting(SettingDailyBudget); err != nil {
		return Settings{}, err
	} else if ok {
		budget, err := strconv.Atoi(value)
		if err != nil {
			return Settings{}, fmt.Errorf("stored daily budget %q: %w", value, ErrInvalidDailyBudget)
		}
		settings.DailyBudget = budget
	}

	if value, ok, err := s.getSetting(SettingResetTime); err != nil {
		return Settings{}, err
	} else if ok {
		settings.ResetTime = value
	}

	return settings, nil
}

// SaveSettings validates and upserts both settings. Rows are created lazily
// on first save; there is no delete operation.
func (s *Store) SaveSettings(settings Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	if err := s.upsertSetting(SettingDailyBudget, strconv.Itoa(settings.DailyBudget)); err != nil {
		return err
	}
	return s.upsertSetting(SettingResetTime, settings.ResetTime)
}

func (s *Store) getSetting(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("query setting %s: %w", key, err)
	}
	return value, true, nil
}

func (s *Store) upsertSetting(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value)
	if err != nil {
		return fmt.Errorf("upsert setting %s: %w", key, err)
	}
	return nil
}
