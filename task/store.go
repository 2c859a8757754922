package task

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Store provides SQLite-backed persistence for tasks and settings.
//
// Every operation is an independent atomic unit against the database; the
// store does not implement cross-request locking or conflict detection, so
// concurrent edits to the same task are last-write-wins.
type Store struct {
	db     *sql.DB
	dbPath string
}

// Open initializes the SQLite database at the given path, creating the file
// and schema if they don't exist.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	store := &Store{db: db, dbPath: path}
	if err := store.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

// initialize creates the required tables.
func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS tasks (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		energy_cost INTEGER NOT NULL,
		category TEXT NOT NULL,
		deadline TEXT,
		description TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		created_at TEXT NOT NULL,
		completed_at TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status);
	CREATE INDEX IF NOT EXISTS idx_tasks_created_at ON tasks(created_at);

	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("initialize schema: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateOptions configures a new task.
type CreateOptions struct {
	// EnergyCost is the energy price of the task (5-100). Required.
	EnergyCost int

	// Category is a free-form label. Defaults to DefaultCategory.
	Category string

	// Deadline is an optional due date.
	Deadline *time.Time

	// Description provides additional context.
	Description string
}

// Create creates a new task with the given title. New tasks start in backlog.
func (s *Store) Create(title string, opts CreateOptions) (*Task, error) {
	if err := ValidateTitle(title); err != nil {
		return nil, err
	}
	if err := ValidateEnergyCost(opts.EnergyCost); err != nil {
		return nil, err
	}

	category := strings.TrimSpace(opts.Category)
	if category == "" {
		category = DefaultCategory
	}

	t := Task{
		ID:          uuid.NewString(),
		Title:       title,
		EnergyCost:  opts.EnergyCost,
		Category:    category,
		Deadline:    opts.Deadline,
		Description: opts.Description,
		Status:      StatusBacklog,
		CreatedAt:   time.Now(),
	}

	_, err := s.db.Exec(`
		INSERT INTO tasks (id, title, energy_cost, category, deadline, description, status, created_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Title, t.EnergyCost, t.Category, encodeOptionalTime(t.Deadline),
		t.Description, string(t.Status), encodeTime(t.CreatedAt), encodeOptionalTime(t.CompletedAt))
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}

	return &t, nil
}

// Get returns the task with the given ID, or ErrTaskNotFound.
func (s *Store) Get(id string) (*Task, error) {
	row := s.db.QueryRow(taskSelect+" WHERE id = ?", id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("query task: %w", err)
	}
	return t, nil
}

// UpdateOptions configures fields to update on a task.
// Nil pointers mean "don't update this field". Status and completed_at are
// never touched by Update; use SetStatus for transitions.
type UpdateOptions struct {
	Title         *string
	EnergyCost    *int
	Category      *string
	Deadline      *time.Time
	ClearDeadline bool
	Description   *string
}

// Update edits the task with the given ID and returns the updated task.
// Returns ErrTaskNotFound if no such task exists.
func (s *Store) Update(id string, opts UpdateOptions) (*Task, error) {
	if opts.Title != nil {
		if err := ValidateTitle(*opts.Title); err != nil {
			return nil, err
		}
	}
	if opts.EnergyCost != nil {
		if err := ValidateEnergyCost(*opts.EnergyCost); err != nil {
			return nil, err
		}
	}

	t, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if opts.Title != nil {
		t.Title = *opts.Title
	}
	if opts.EnergyCost != nil {
		t.EnergyCost = *opts.EnergyCost
	}
	if opts.Category != nil {
		category := strings.TrimSpace(*opts.Category)
		if category == "" {
			category = DefaultCategory
		}
		t.Category = category
	}
	if opts.ClearDeadline {
		t.Deadline = nil
	} else if opts.Deadline != nil {
		t.Deadline = opts.Deadline
	}
	if opts.Description != nil {
		t.Description = *opts.Description
	}

	if err := ValidateTask(t); err != nil {
		return nil, fmt.Errorf("validate task %s: %w", t.ID, err)
	}

	if err := s.save(t); err != nil {
		return nil, err
	}
	return t, nil
}

// SetStatus transitions the task with the given ID to the given status.
// Entering completed stamps completed_at; leaving it clears the stamp.
// A missing ID is a benign no-op: SetStatus returns (nil, nil).
func (s *Store) SetStatus(id string, status Status) (*Task, error) {
	if err := ValidateStatus(status); err != nil {
		return nil, err
	}

	t, err := s.Get(id)
	if errors.Is(err, ErrTaskNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	t.applyStatus(status, time.Now())

	if err := s.save(t); err != nil {
		return nil, err
	}
	return t, nil
}

// Delete removes the task with the given ID. Deleting a missing task is a
// no-op; there are no tombstones.
func (s *Store) Delete(id string) error {
	if _, err := s.db.Exec(`DELETE FROM tasks WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// Filter configures which tasks List returns.
type Filter struct {
	// Status restricts to a single status. FilterAll (or zero value "")
	// applies no restriction.
	Status StatusFilter

	// Search restricts to tasks whose title contains this substring,
	// case-insensitively. Empty means no restriction.
	Search string
}

// List returns tasks matching the filter, most recently created first.
// Creation-time ties keep insertion order.
func (s *Store) List(filter Filter) ([]Task, error) {
	query := taskSelect
	var args []any

	if status, ok := filter.Status.Status(); ok {
		query += " WHERE status = ?"
		args = append(args, string(status))
	}
	query += " ORDER BY created_at DESC, rowid ASC"

	tasks, err := s.queryTasks(query, args...)
	if err != nil {
		return nil, err
	}
	if filter.Search == "" {
		return tasks, nil
	}

	// SQLite's lower() only folds ASCII, so the case-insensitive title
	// match happens here instead of in SQL.
	needle := strings.ToLower(filter.Search)
	matched := tasks[:0]
	for _, t := range tasks {
		if strings.Contains(strings.ToLower(t.Title), needle) {
			matched = append(matched, t)
		}
	}
	return matched, nil
}

// ActiveAndCompleted returns every task whose status is active or completed.
// This is the input set for the energy ledger.
func (s *Store) ActiveAndCompleted() ([]Task, error) {
	return s.queryTasks(taskSelect+" WHERE status IN (?, ?) ORDER BY created_at DESC, rowid ASC",
		string(StatusActive), string(StatusCompleted))
}

const taskSelect = `SELECT id, title, energy_cost, category, deadline, description, status, created_at, completed_at FROM tasks`

func (s *Store) queryTasks(query string, args ...any) ([]Task, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return tasks, nil
}

func (s *Store) save(t *Task) error {
	_, err := s.db.Exec(`
		UPDATE tasks
		SET title = ?, energy_cost = ?, category = ?, deadline = ?, description = ?, status = ?, completed_at = ?
		WHERE id = ?`,
		t.Title, t.EnergyCost, t.Category, encodeOptionalTime(t.Deadline),
		t.Description, string(t.Status), encodeOptionalTime(t.CompletedAt), t.ID)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*Task, error) {
	var t Task
	var deadline, completedAt sql.NullString
	var status, createdAt string
	err := row.Scan(&t.ID, &t.Title, &t.EnergyCost, &t.Category, &deadline,
		&t.Description, &status, &createdAt, &completedAt)
	if err != nil {
		return nil, err
	}

	t.Status = Status(status)
	t.CreatedAt, err = decodeTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("decode created_at: %w", err)
	}
	t.Deadline, err = decodeOptionalTime(deadline)
	if err != nil {
		return nil, fmt.Errorf("decode deadline: %w", err)
	}
	t.CompletedAt, err = decodeOptionalTime(completedAt)
	if err != nil {
		return nil, fmt.Errorf("decode completed_at: %w", err)
	}
	return &t, nil
}

// Timestamps are stored as RFC 3339 text with a fixed-width nine-digit
// fraction so that lexical order matches chronological order for the
// created_at index. RFC3339Nano would drop trailing fractional zeros, and
// ".1Z" sorts after ".12Z".
const encodeTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func encodeTime(value time.Time) string {
	return value.UTC().Format(encodeTimeLayout)
}

func encodeOptionalTime(value *time.Time) any {
	if value == nil {
		return nil
	}
	return encodeTime(*value)
}

func decodeTime(value string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, value)
}

func decodeOptionalTime(value sql.NullString) (*time.Time, error) {
	if !value.Valid {
		return nil, nil
	}
	parsed, err := decodeTime(value.String)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
