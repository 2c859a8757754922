// Package web serves the spoonful dashboard.
//
// Pages are server-rendered; each render embeds the remaining-energy value
// as a data attribute on the task list container, and a small script in the
// page mirrors the visibility rule (tired mode + live search) without
// recomputing the ledger client-side.
package web

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"spoonful/energy"
	internalstrings "spoonful/internal/strings"
	"spoonful/task"
)

// Options configures the dashboard handler.
type Options struct {
	Store  *task.Store
	Logger *zap.Logger
}

// Handler serves the dashboard pages.
type Handler struct {
	store     *task.Store
	logger    *zap.Logger
	mux       *http.ServeMux
	templates *templateWrapper
	now       func() time.Time

	mu            sync.Mutex
	taskDraft     *taskFormDraft
	settingsDraft *settingsFormDraft
}

// NewHandler creates a new dashboard handler.
func NewHandler(opts Options) *Handler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	handler := &Handler{
		store:     opts.Store,
		logger:    logger,
		templates: newTemplateWrapper(),
		now:       time.Now,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/", handler.handleDashboard)
	mux.HandleFunc("/tasks/partial", handler.handleTasksPartial)
	mux.HandleFunc("/tasks/create", handler.handleTasksCreate)
	mux.HandleFunc("/tasks/edit", handler.handleTasksEdit)
	mux.HandleFunc("/tasks/update", handler.handleTasksUpdate)
	mux.HandleFunc("/tasks/status", handler.handleTasksStatus)
	mux.HandleFunc("/tasks/delete", handler.handleTasksDelete)
	mux.HandleFunc("/settings/update", handler.handleSettingsUpdate)
	handler.mux = mux
	return handler
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

type pageData struct {
	ActiveFilter  string
	Search        string
	Tasks         []task.Task
	Report        energy.Report
	Settings      task.Settings
	EditTask      *task.Task
	Create        bool
	TaskForm      taskFormValues
	TaskError     string
	SettingsError string
}

type taskFormValues struct {
	Title       string
	EnergyCost  string
	Category    string
	Deadline    string
	Description string
}

type taskFormDraft struct {
	mode      string
	id        string
	err       string
	values    taskFormValues
	hasValues bool
}

type settingsFormDraft struct {
	err string
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}
	h.renderDashboard(w, r, nil, false)
}

func (h *Handler) handleTasksEdit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}
	id := trimmedQueryValue(r, "id")
	edit, err := h.store.Get(id)
	if errors.Is(err, task.ErrTaskNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		h.renderStoreFailure(w, "load task", err)
		return
	}
	h.renderDashboard(w, r, edit, false)
}

// renderDashboard builds and renders the full page. When edit is non-nil the
// task form edits that task instead of creating a new one.
func (h *Handler) renderDashboard(w http.ResponseWriter, r *http.Request, edit *task.Task, create bool) {
	filter := task.ParseStatusFilter(trimmedQueryValue(r, "status"))
	search := trimmedQueryValue(r, "q")

	settings, tasks, report, err := h.loadView(filter, search)
	if err != nil {
		h.renderStoreFailure(w, "load dashboard", err)
		return
	}

	formValues := defaultTaskFormValues()
	if edit != nil {
		formValues = taskFormValuesFromTask(*edit)
	}

	taskError := ""
	settingsError := ""
	editID := ""
	if edit != nil {
		editID = edit.ID
	}
	if draft := h.consumeTaskDraft(editID); draft != nil {
		taskError = draft.err
		if draft.hasValues {
			formValues = draft.values
		}
		if draft.mode == "create" {
			create = true
			edit = nil
		}
	}
	if draft := h.consumeSettingsDraft(); draft != nil {
		settingsError = draft.err
	}

	data := pageData{
		ActiveFilter:  string(filter),
		Search:        search,
		Tasks:         tasks,
		Report:        report,
		Settings:      settings,
		EditTask:      edit,
		Create:        create,
		TaskForm:      formValues,
		TaskError:     taskError,
		SettingsError: settingsError,
	}
	h.templates.RenderPage(w, data)
}

// handleTasksPartial re-renders just the task list fragment for AJAX
// refreshes. The fragment carries a fresh data-remaining-energy attribute so
// the client mirror never reuses a stale value.
func (h *Handler) handleTasksPartial(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}
	filter := task.ParseStatusFilter(trimmedQueryValue(r, "status"))
	search := trimmedQueryValue(r, "q")

	_, tasks, report, err := h.loadView(filter, search)
	if err != nil {
		h.renderStoreFailure(w, "load task list", err)
		return
	}

	h.templates.RenderTaskList(w, pageData{
		ActiveFilter: string(filter),
		Search:       search,
		Tasks:        tasks,
		Report:       report,
	})
}

// loadView fetches everything a list render needs: settings, the filtered
// task list, and the energy report. The ledger always runs on the full
// active+completed set regardless of the view filter.
func (h *Handler) loadView(filter task.StatusFilter, search string) (task.Settings, []task.Task, energy.Report, error) {
	settings, err := h.store.LoadSettings()
	if err != nil {
		return task.Settings{}, nil, energy.Report{}, err
	}

	tasks, err := h.store.List(task.Filter{Status: filter, Search: search})
	if err != nil {
		return task.Settings{}, nil, energy.Report{}, err
	}

	counted, err := h.store.ActiveAndCompleted()
	if err != nil {
		return task.Settings{}, nil, energy.Report{}, err
	}

	boundary, err := energy.ResetBoundary(settings.ResetTime, h.now())
	if err != nil {
		// Stored reset times are validated at save; reaching this means
		// the settings row was corrupted outside the application.
		return task.Settings{}, nil, energy.Report{}, fmt.Errorf("resolve reset boundary: %w", err)
	}

	report := energy.Compute(counted, settings.DailyBudget, boundary)
	return settings, tasks, report, nil
}

func (h *Handler) handleTasksCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.setTaskDraft(taskFormDraft{mode: "create", err: "invalid form input"})
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	values := taskFormValuesFromRequest(r)
	opts, err := values.createOptions()
	if err != nil {
		h.setTaskDraft(taskFormDraft{mode: "create", err: err.Error(), values: values, hasValues: true})
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	created, err := h.store.Create(values.Title, opts)
	if err != nil {
		h.setTaskDraft(taskFormDraft{mode: "create", err: publicError(err), values: values, hasValues: true})
		if !isValidationError(err) {
			h.logger.Error("task create failed", zap.Error(err))
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.logger.Info("task created", zap.String("id", created.ID), zap.Int("energy_cost", created.EnergyCost))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) handleTasksUpdate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return
	}
	id := trimmedQueryValue(r, "id")
	if err := r.ParseForm(); err != nil {
		h.setTaskDraft(taskFormDraft{mode: "update", id: id, err: "invalid form input"})
		http.Redirect(w, r, editRedirectPath(id), http.StatusSeeOther)
		return
	}
	values := taskFormValuesFromRequest(r)
	if id == "" {
		h.setTaskDraft(taskFormDraft{mode: "update", err: "task id is required", values: values, hasValues: true})
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	opts, err := values.updateOptions()
	if err != nil {
		h.setTaskDraft(taskFormDraft{mode: "update", id: id, err: err.Error(), values: values, hasValues: true})
		http.Redirect(w, r, editRedirectPath(id), http.StatusSeeOther)
		return
	}

	if _, err := h.store.Update(id, opts); err != nil {
		if errors.Is(err, task.ErrTaskNotFound) {
			http.NotFound(w, r)
			return
		}
		h.setTaskDraft(taskFormDraft{mode: "update", id: id, err: publicError(err), values: values, hasValues: true})
		if !isValidationError(err) {
			h.logger.Error("task update failed", zap.String("id", id), zap.Error(err))
		}
		http.Redirect(w, r, editRedirectPath(id), http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) handleTasksStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	id := trimmedFormValue(r, "id")
	status := task.Status(internalstrings.NormalizeLowerTrimSpace(r.FormValue("status")))

	// A missing id is a benign no-op; an unknown status is a validation
	// failure surfaced on the form.
	updated, err := h.store.SetStatus(id, status)
	if err != nil {
		if errors.Is(err, task.ErrInvalidStatus) {
			h.setTaskDraft(taskFormDraft{mode: "create", err: publicError(err)})
		} else {
			h.logger.Error("status change failed", zap.String("id", id), zap.Error(err))
			h.setTaskDraft(taskFormDraft{mode: "create", err: "something went wrong; the change was not saved"})
		}
		http.Redirect(w, r, listRedirectPath(r), http.StatusSeeOther)
		return
	}
	if updated != nil {
		h.logger.Info("task status changed", zap.String("id", updated.ID), zap.String("status", string(updated.Status)))
	}
	http.Redirect(w, r, listRedirectPath(r), http.StatusSeeOther)
}

func (h *Handler) handleTasksDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	id := trimmedFormValue(r, "id")
	if err := h.store.Delete(id); err != nil {
		h.logger.Error("task delete failed", zap.String("id", id), zap.Error(err))
		h.setTaskDraft(taskFormDraft{mode: "create", err: "something went wrong; the task was not deleted"})
	}
	http.Redirect(w, r, listRedirectPath(r), http.StatusSeeOther)
}

func (h *Handler) handleSettingsUpdate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.setSettingsDraft(settingsFormDraft{err: "invalid form input"})
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	budget, err := strconv.Atoi(trimmedFormValue(r, "daily_budget"))
	if err != nil {
		h.setSettingsDraft(settingsFormDraft{err: "daily budget must be a number"})
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	settings := task.Settings{
		DailyBudget: budget,
		ResetTime:   trimmedFormValue(r, "reset_time"),
	}

	if err := h.store.SaveSettings(settings); err != nil {
		if isValidationError(err) {
			h.setSettingsDraft(settingsFormDraft{err: err.Error()})
		} else {
			h.logger.Error("settings update failed", zap.Error(err))
			h.setSettingsDraft(settingsFormDraft{err: "something went wrong; settings were not saved"})
		}
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// renderStoreFailure reports a persistence failure without leaking internal
// error detail to the page.
func (h *Handler) renderStoreFailure(w http.ResponseWriter, operation string, err error) {
	h.logger.Error("store failure", zap.String("operation", operation), zap.Error(err))
	http.Error(w, "something went wrong", http.StatusInternalServerError)
}

// publicError returns validation messages verbatim and hides everything else.
func publicError(err error) string {
	if isValidationError(err) {
		return err.Error()
	}
	return "something went wrong; the change was not saved"
}

func isValidationError(err error) bool {
	for _, candidate := range []error{
		task.ErrEmptyTitle,
		task.ErrTitleTooLong,
		task.ErrInvalidEnergyCost,
		task.ErrInvalidStatus,
		task.ErrInvalidDailyBudget,
		task.ErrInvalidResetTime,
	} {
		if errors.Is(err, candidate) {
			return true
		}
	}
	return false
}

func (h *Handler) consumeTaskDraft(editID string) *taskFormDraft {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.taskDraft == nil {
		return nil
	}
	draft := h.taskDraft
	match := draft.mode == "create"
	if draft.mode == "update" && (draft.id == "" || draft.id == editID) {
		match = true
	}
	if !match {
		return nil
	}
	h.taskDraft = nil
	return draft
}

func (h *Handler) setTaskDraft(draft taskFormDraft) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.taskDraft = &draft
}

func (h *Handler) consumeSettingsDraft() *settingsFormDraft {
	h.mu.Lock()
	defer h.mu.Unlock()
	draft := h.settingsDraft
	h.settingsDraft = nil
	return draft
}

func (h *Handler) setSettingsDraft(draft settingsFormDraft) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.settingsDraft = &draft
}

func defaultTaskFormValues() taskFormValues {
	return taskFormValues{
		EnergyCost: strconv.Itoa(task.MinEnergyCost),
		Category:   task.DefaultCategory,
	}
}

func taskFormValuesFromTask(t task.Task) taskFormValues {
	deadline := ""
	if t.Deadline != nil {
		deadline = t.Deadline.Format(deadlineLayout)
	}
	return taskFormValues{
		Title:       t.Title,
		EnergyCost:  strconv.Itoa(t.EnergyCost),
		Category:    t.Category,
		Deadline:    deadline,
		Description: t.Description,
	}
}

// Titles and categories collapse internal whitespace runs; a title pasted
// with stray tabs or doubled spaces stores cleanly.
func taskFormValuesFromRequest(r *http.Request) taskFormValues {
	return taskFormValues{
		Title:       internalstrings.NormalizeWhitespace(r.FormValue("title")),
		EnergyCost:  trimmedFormValue(r, "energy_cost"),
		Category:    internalstrings.NormalizeWhitespace(r.FormValue("category")),
		Deadline:    trimmedFormValue(r, "deadline"),
		Description: r.FormValue("description"),
	}
}

// deadlineLayout matches the datetime-local form input.
const deadlineLayout = "2006-01-02T15:04"

func (values taskFormValues) createOptions() (task.CreateOptions, error) {
	if err := task.ValidateTitle(values.Title); err != nil {
		return task.CreateOptions{}, err
	}
	cost, err := parseEnergyCost(values.EnergyCost)
	if err != nil {
		return task.CreateOptions{}, err
	}
	deadline, err := parseDeadline(values.Deadline)
	if err != nil {
		return task.CreateOptions{}, err
	}
	return task.CreateOptions{
		EnergyCost:  cost,
		Category:    values.Category,
		Deadline:    deadline,
		Description: values.Description,
	}, nil
}

func (values taskFormValues) updateOptions() (task.UpdateOptions, error) {
	if err := task.ValidateTitle(values.Title); err != nil {
		return task.UpdateOptions{}, err
	}
	cost, err := parseEnergyCost(values.EnergyCost)
	if err != nil {
		return task.UpdateOptions{}, err
	}
	deadline, err := parseDeadline(values.Deadline)
	if err != nil {
		return task.UpdateOptions{}, err
	}

	title := values.Title
	category := values.Category
	description := values.Description
	opts := task.UpdateOptions{
		Title:       &title,
		EnergyCost:  &cost,
		Category:    &category,
		Description: &description,
	}
	if deadline != nil {
		opts.Deadline = deadline
	} else {
		opts.ClearDeadline = true
	}
	return opts, nil
}

func parseEnergyCost(value string) (int, error) {
	cost, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("energy cost must be a number")
	}
	if err := task.ValidateEnergyCost(cost); err != nil {
		return 0, err
	}
	return cost, nil
}

func parseDeadline(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := time.ParseInLocation(deadlineLayout, value, time.Local)
	if err != nil {
		return nil, fmt.Errorf("deadline must be a valid date and time")
	}
	return &parsed, nil
}

// listRedirectPath preserves the active filter and search across PRG.
func listRedirectPath(r *http.Request) string {
	values := url.Values{}
	if status := trimmedFormValue(r, "filter"); status != "" {
		values.Set("status", status)
	}
	if search := trimmedFormValue(r, "q"); search != "" {
		values.Set("q", search)
	}
	if len(values) == 0 {
		return "/"
	}
	return "/?" + values.Encode()
}

func editRedirectPath(id string) string {
	if internalstrings.IsBlank(id) {
		return "/"
	}
	return "/tasks/edit?id=" + url.QueryEscape(id)
}

func trimmedQueryValue(r *http.Request, key string) string {
	return internalstrings.TrimSpace(r.URL.Query().Get(key))
}

func trimmedFormValue(r *http.Request, key string) string {
	return internalstrings.TrimSpace(r.FormValue(key))
}

func writeMethodNotAllowed(w http.ResponseWriter, allow string) {
	w.Header().Set("Allow", allow)
	http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
}
