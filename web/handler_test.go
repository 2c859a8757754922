package web

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"spoonful/task"
)

func newTestHandler(t *testing.T) (*Handler, *task.Store) {
	t.Helper()
	store, err := task.Open(filepath.Join(t.TempDir(), "spoonful.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return NewHandler(Options{Store: store}), store
}

func get(t *testing.T, handler *Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, target, nil))
	return recorder
}

func postForm(t *testing.T, handler *Handler, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	request := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

func expectRedirect(t *testing.T, recorder *httptest.ResponseRecorder, location string) {
	t.Helper()
	if recorder.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d: %s", recorder.Code, recorder.Body.String())
	}
	if got := recorder.Header().Get("Location"); got != location {
		t.Errorf("expected redirect to %q, got %q", location, got)
	}
}

func TestDashboard(t *testing.T) {
	handler, _ := newTestHandler(t)

	recorder := get(t, handler, "/")
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}

	body := recorder.Body.String()
	if !strings.Contains(body, `data-remaining-energy="100"`) {
		t.Error("expected full default budget in data-remaining-energy")
	}
	if !strings.Contains(body, "(0 used, 100% remaining)") {
		t.Error("expected energy summary in page")
	}
}

func TestDashboard_UnknownPath(t *testing.T) {
	handler, _ := newTestHandler(t)
	if recorder := get(t, handler, "/nope"); recorder.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", recorder.Code)
	}
}

func TestDashboard_MethodNotAllowed(t *testing.T) {
	handler, _ := newTestHandler(t)
	recorder := postForm(t, handler, "/", url.Values{})
	if recorder.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", recorder.Code)
	}
	if got := recorder.Header().Get("Allow"); got != http.MethodGet {
		t.Errorf("expected Allow: GET, got %q", got)
	}
}

func TestTasksCreate(t *testing.T) {
	handler, store := newTestHandler(t)

	recorder := postForm(t, handler, "/tasks/create", url.Values{
		"title":       {"Buy milk"},
		"energy_cost": {"10"},
		"category":    {"Errands"},
	})
	expectRedirect(t, recorder, "/")

	tasks, err := store.List(task.Filter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}
	if tasks[0].Title != "Buy milk" || tasks[0].EnergyCost != 10 || tasks[0].Category != "Errands" {
		t.Errorf("unexpected task: %+v", tasks[0])
	}

	body := get(t, handler, "/").Body.String()
	if !strings.Contains(body, "Buy milk") {
		t.Error("expected created task on dashboard")
	}
}

func TestTasksCreate_NormalizesWhitespace(t *testing.T) {
	handler, store := newTestHandler(t)

	recorder := postForm(t, handler, "/tasks/create", url.Values{
		"title":       {"  Buy \t  milk  "},
		"energy_cost": {"10"},
		"category":    {" Weekly   errands "},
	})
	expectRedirect(t, recorder, "/")

	tasks, err := store.List(task.Filter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}
	if tasks[0].Title != "Buy milk" {
		t.Errorf("expected whitespace-collapsed title, got %q", tasks[0].Title)
	}
	if tasks[0].Category != "Weekly errands" {
		t.Errorf("expected whitespace-collapsed category, got %q", tasks[0].Category)
	}
}

func TestTasksCreate_ValidationError(t *testing.T) {
	handler, store := newTestHandler(t)

	recorder := postForm(t, handler, "/tasks/create", url.Values{
		"title":       {"Buy milk"},
		"energy_cost": {"3"},
	})
	expectRedirect(t, recorder, "/")

	tasks, err := store.List(task.Filter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tasks) != 0 {
		t.Fatalf("expected no task created, got %d", len(tasks))
	}

	// The follow-up GET carries the error and the submitted values.
	body := get(t, handler, "/").Body.String()
	if !strings.Contains(body, "energy cost must be between 5 and 100") {
		t.Error("expected validation error on page")
	}
	if !strings.Contains(body, "Buy milk") {
		t.Error("expected submitted title to be preserved")
	}

	// The draft is consumed by the render; a second GET is clean.
	body = get(t, handler, "/").Body.String()
	if strings.Contains(body, "energy cost must be between 5 and 100") {
		t.Error("expected error to clear after one render")
	}
}

func TestTasksEdit(t *testing.T) {
	handler, store := newTestHandler(t)
	created, err := store.Create("Buy milk", task.CreateOptions{EnergyCost: 10})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	recorder := get(t, handler, "/tasks/edit?id="+created.ID)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	if !strings.Contains(recorder.Body.String(), "Buy milk") {
		t.Error("expected edit form to carry the task title")
	}
}

func TestTasksEdit_NotFound(t *testing.T) {
	handler, _ := newTestHandler(t)
	if recorder := get(t, handler, "/tasks/edit?id=missing"); recorder.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", recorder.Code)
	}
}

func TestTasksUpdate(t *testing.T) {
	handler, store := newTestHandler(t)
	created, err := store.Create("Buy milk", task.CreateOptions{EnergyCost: 10})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	recorder := postForm(t, handler, "/tasks/update?id="+created.ID, url.Values{
		"title":       {"Buy oat milk"},
		"energy_cost": {"15"},
		"category":    {"Errands"},
	})
	expectRedirect(t, recorder, "/")

	got, err := store.Get(created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "Buy oat milk" || got.EnergyCost != 15 {
		t.Errorf("update not applied: %+v", got)
	}
}

func TestTasksUpdate_NotFound(t *testing.T) {
	handler, _ := newTestHandler(t)
	recorder := postForm(t, handler, "/tasks/update?id=missing", url.Values{
		"title":       {"x"},
		"energy_cost": {"10"},
	})
	if recorder.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", recorder.Code)
	}
}

func TestTasksStatus(t *testing.T) {
	handler, store := newTestHandler(t)
	created, err := store.Create("Buy milk", task.CreateOptions{EnergyCost: 30})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	recorder := postForm(t, handler, "/tasks/status", url.Values{
		"id":     {created.ID},
		"status": {"completed"},
	})
	expectRedirect(t, recorder, "/")

	got, err := store.Get(created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != task.StatusCompleted {
		t.Errorf("expected completed, got %s", got.Status)
	}

	// The fresh completion charges the budget.
	body := get(t, handler, "/").Body.String()
	if !strings.Contains(body, `data-remaining-energy="70"`) {
		t.Error("expected remaining energy 70 after completing a 30-cost task")
	}
}

func TestTasksStatus_MissingIDIsNoOp(t *testing.T) {
	handler, _ := newTestHandler(t)
	recorder := postForm(t, handler, "/tasks/status", url.Values{
		"id":     {"missing"},
		"status": {"active"},
	})
	expectRedirect(t, recorder, "/")
}

func TestTasksStatus_PreservesFilterAndSearch(t *testing.T) {
	handler, store := newTestHandler(t)
	created, err := store.Create("Buy milk", task.CreateOptions{EnergyCost: 10})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	recorder := postForm(t, handler, "/tasks/status", url.Values{
		"id":     {created.ID},
		"status": {"active"},
		"filter": {"active"},
		"q":      {"milk"},
	})
	expectRedirect(t, recorder, "/?q=milk&status=active")
}

func TestTasksDelete(t *testing.T) {
	handler, store := newTestHandler(t)
	created, err := store.Create("Buy milk", task.CreateOptions{EnergyCost: 10})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	recorder := postForm(t, handler, "/tasks/delete", url.Values{"id": {created.ID}})
	expectRedirect(t, recorder, "/")

	if _, err := store.Get(created.ID); !errors.Is(err, task.ErrTaskNotFound) {
		t.Errorf("expected task deleted, got %v", err)
	}
}

func TestTasksPartial(t *testing.T) {
	handler, store := newTestHandler(t)
	if _, err := store.Create("Buy milk", task.CreateOptions{EnergyCost: 10}); err != nil {
		t.Fatalf("create: %v", err)
	}

	recorder := get(t, handler, "/tasks/partial")
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}

	body := recorder.Body.String()
	if strings.Contains(body, "<html") {
		t.Error("expected a fragment, got a full page")
	}
	if !strings.Contains(body, `data-remaining-energy="100"`) {
		t.Error("expected fragment to carry remaining energy")
	}
	if !strings.Contains(body, "Buy milk") {
		t.Error("expected fragment to list tasks")
	}
}

func TestTasksPartial_StatusFilter(t *testing.T) {
	handler, store := newTestHandler(t)
	milk, err := store.Create("Buy milk", task.CreateOptions{EnergyCost: 10})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := store.Create("Write report", task.CreateOptions{EnergyCost: 40}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := store.SetStatus(milk.ID, task.StatusActive); err != nil {
		t.Fatalf("set status: %v", err)
	}

	body := get(t, handler, "/tasks/partial?status=active").Body.String()
	if !strings.Contains(body, "Buy milk") {
		t.Error("expected active task in filtered fragment")
	}
	if strings.Contains(body, "Write report") {
		t.Error("expected backlog task excluded from active filter")
	}
}

// The fragment's card forms carry the search text in their hidden q inputs,
// so a status or delete POST from a refreshed list keeps the search in its
// redirect.
func TestTasksPartial_CarriesSearchInForms(t *testing.T) {
	handler, store := newTestHandler(t)
	if _, err := store.Create("Buy milk", task.CreateOptions{EnergyCost: 10}); err != nil {
		t.Fatalf("create: %v", err)
	}

	body := get(t, handler, "/tasks/partial?q=milk").Body.String()
	if !strings.Contains(body, `name="q" value="milk"`) {
		t.Error("expected hidden q inputs to carry the search text")
	}
}

func TestSettingsUpdate(t *testing.T) {
	handler, store := newTestHandler(t)

	recorder := postForm(t, handler, "/settings/update", url.Values{
		"daily_budget": {"80"},
		"reset_time":   {"06:30"},
	})
	expectRedirect(t, recorder, "/")

	settings, err := store.LoadSettings()
	if err != nil {
		t.Fatalf("load settings: %v", err)
	}
	if settings.DailyBudget != 80 || settings.ResetTime != "06:30" {
		t.Errorf("settings not saved: %+v", settings)
	}
}

func TestSettingsUpdate_ValidationError(t *testing.T) {
	handler, store := newTestHandler(t)

	recorder := postForm(t, handler, "/settings/update", url.Values{
		"daily_budget": {"0"},
		"reset_time":   {"04:00"},
	})
	expectRedirect(t, recorder, "/")

	settings, err := store.LoadSettings()
	if err != nil {
		t.Fatalf("load settings: %v", err)
	}
	if settings.DailyBudget != task.DefaultDailyBudget {
		t.Errorf("expected defaults to survive invalid save, got %+v", settings)
	}

	body := get(t, handler, "/").Body.String()
	if !strings.Contains(body, "daily budget must be a positive integer") {
		t.Error("expected settings error on page")
	}
}

// The dashboard escapes task content; a title with markup renders inert.
func TestDashboard_EscapesTaskContent(t *testing.T) {
	handler, store := newTestHandler(t)
	if _, err := store.Create("<script>alert(1)</script>", task.CreateOptions{EnergyCost: 10}); err != nil {
		t.Fatalf("create: %v", err)
	}

	body := get(t, handler, "/").Body.String()
	if strings.Contains(body, "<script>alert(1)</script>") {
		t.Error("expected task title to be HTML-escaped")
	}
}
