package web

import (
	"html/template"
	"net/http"
	"time"

	"spoonful/task"
)

type templateWrapper struct {
	tmpl *template.Template
}

func newTemplateWrapper() *templateWrapper {
	return &templateWrapper{tmpl: newTemplates()}
}

func (tw *templateWrapper) RenderPage(w http.ResponseWriter, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = tw.tmpl.ExecuteTemplate(w, "page", data)
}

func (tw *templateWrapper) RenderTaskList(w http.ResponseWriter, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = tw.tmpl.ExecuteTemplate(w, "tasklist", data)
}

func newTemplates() *template.Template {
	funcs := template.FuncMap{
		"formatTime":         formatTime,
		"formatOptionalTime": formatOptionalTime,
		"statusLabel":        statusLabel,
	}
	tmpl := template.New("page").Funcs(funcs)
	template.Must(tmpl.Parse(pageTemplate))
	template.Must(tmpl.New("tasklist").Parse(taskListTemplate))
	return tmpl
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return "-"
	}
	return value.Local().Format("2006-01-02 15:04")
}

func formatOptionalTime(value *time.Time) string {
	if value == nil {
		return "-"
	}
	return formatTime(*value)
}

func statusLabel(status task.Status) string {
	switch status {
	case task.StatusBacklog:
		return "Backlog"
	case task.StatusActive:
		return "Active"
	case task.StatusCompleted:
		return "Completed"
	default:
		return string(status)
	}
}

const taskListTemplate = `<section id="task-list" data-remaining-energy="{{.Report.Remaining}}">
  <div class="energy-summary">
    <span class="energy-remaining">{{.Report.Remaining}}</span> energy left
    <span class="energy-detail">({{.Report.Used}} used, {{.Report.Percent}}% remaining)</span>
  </div>
  {{if .Tasks}}
  <ul class="cards">
    {{range .Tasks}}
    <li class="card" data-energy-cost="{{.EnergyCost}}" data-status="{{.Status}}" data-search="{{.Title}} {{.Description}} {{.Category}}">
      <div class="card-head">
        <span class="card-title">{{.Title}}</span>
        <span class="card-cost">{{.EnergyCost}}⚡</span>
      </div>
      <div class="card-meta">
        <span class="badge badge-{{.Status}}">{{statusLabel .Status}}</span>
        <span class="category">{{.Category}}</span>
        <span class="times">created {{formatTime .CreatedAt}}{{if .CompletedAt}} · completed {{formatOptionalTime .CompletedAt}}{{end}}{{if .Deadline}} · due {{formatOptionalTime .Deadline}}{{end}}</span>
      </div>
      {{if .Description}}<p class="card-description">{{.Description}}</p>{{end}}
      <div class="card-actions">
        {{if ne .Status "active"}}
        <form method="post" action="/tasks/status">
          <input type="hidden" name="id" value="{{.ID}}">
          <input type="hidden" name="status" value="active">
          <input type="hidden" name="filter" value="{{$.ActiveFilter}}">
          <input type="hidden" name="q" value="{{$.Search}}">
          <button type="submit">Start</button>
        </form>
        {{end}}
        {{if ne .Status "completed"}}
        <form method="post" action="/tasks/status">
          <input type="hidden" name="id" value="{{.ID}}">
          <input type="hidden" name="status" value="completed">
          <input type="hidden" name="filter" value="{{$.ActiveFilter}}">
          <input type="hidden" name="q" value="{{$.Search}}">
          <button type="submit">Complete</button>
        </form>
        {{end}}
        {{if ne .Status "backlog"}}
        <form method="post" action="/tasks/status">
          <input type="hidden" name="id" value="{{.ID}}">
          <input type="hidden" name="status" value="backlog">
          <input type="hidden" name="filter" value="{{$.ActiveFilter}}">
          <input type="hidden" name="q" value="{{$.Search}}">
          <button type="submit">Backlog</button>
        </form>
        {{end}}
        <a class="button-link" href="/tasks/edit?id={{.ID}}">Edit</a>
        <form method="post" action="/tasks/delete">
          <input type="hidden" name="id" value="{{.ID}}">
          <input type="hidden" name="filter" value="{{$.ActiveFilter}}">
          <input type="hidden" name="q" value="{{$.Search}}">
          <button type="submit" class="danger">Delete</button>
        </form>
      </div>
    </li>
    {{end}}
  </ul>
  {{else}}
  <p class="empty">No tasks found.</p>
  {{end}}
</section>`

const pageTemplate = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>Spoonful</title>
  <style>
    :root {
      color-scheme: light;
    }
    body {
      margin: 0;
      font-family: "Charter", "Georgia", serif;
      color: #2b2520;
      background: radial-gradient(circle at top left, #f4efe3 0%, #fcfaf6 55%, #f6f2e8 100%);
    }
    header {
      padding: 16px 24px;
      border-bottom: 1px solid #d7cdbd;
      background: rgba(255, 255, 255, 0.72);
    }
    header h1 {
      margin: 0 0 8px 0;
      font-size: 20px;
      letter-spacing: 0.02em;
    }
    .tabs {
      display: flex;
      gap: 12px;
      align-items: center;
    }
    .tab {
      padding: 8px 14px;
      border-radius: 999px;
      text-decoration: none;
      color: #5b5148;
      border: 1px solid transparent;
    }
    .tab.active {
      color: #1d1712;
      border-color: #d1c6b6;
      background: #f5efe4;
      font-weight: 600;
    }
    .toolbar {
      display: flex;
      gap: 12px;
      align-items: center;
      margin-top: 10px;
    }
    .toolbar input[type="search"] {
      flex: 1;
      max-width: 340px;
      padding: 6px 10px;
      border: 1px solid #cbbfae;
      border-radius: 8px;
      font: inherit;
    }
    #tired-toggle.on {
      background: #e8dcc4;
      font-weight: 600;
    }
    main {
      display: flex;
      gap: 18px;
      padding: 18px 24px 28px;
      align-items: flex-start;
    }
    .pane {
      background: #ffffff;
      border: 1px solid #d7cdbd;
      border-radius: 14px;
      box-shadow: 0 8px 24px rgba(60, 45, 30, 0.08);
    }
    .list-pane {
      flex: 1;
      padding: 16px;
    }
    .side-pane {
      width: 320px;
      padding: 16px 18px 20px;
    }
    .energy-summary {
      font-size: 18px;
      margin-bottom: 12px;
    }
    .energy-remaining {
      font-size: 26px;
      font-weight: 700;
    }
    .energy-detail {
      color: #5b5148;
      font-size: 14px;
    }
    .cards {
      list-style: none;
      margin: 0;
      padding: 0;
      display: flex;
      flex-direction: column;
      gap: 10px;
    }
    .card {
      border: 1px solid #e1d8c8;
      border-radius: 10px;
      padding: 10px 14px;
    }
    .card.hidden {
      display: none;
    }
    .card-head {
      display: flex;
      justify-content: space-between;
      gap: 12px;
    }
    .card-title {
      font-weight: 600;
    }
    .card-meta {
      display: flex;
      gap: 10px;
      align-items: baseline;
      font-size: 13px;
      color: #5b5148;
      margin-top: 4px;
    }
    .card-description {
      margin: 8px 0 0;
      font-size: 14px;
    }
    .badge {
      padding: 2px 8px;
      border-radius: 999px;
      font-size: 12px;
      border: 1px solid #d1c6b6;
    }
    .badge-active { background: #e7f0dd; }
    .badge-completed { background: #e3e3e3; }
    .badge-backlog { background: #f7f2e8; }
    .card-actions {
      display: flex;
      gap: 8px;
      margin-top: 10px;
      align-items: center;
    }
    .card-actions form { margin: 0; }
    button, .button-link {
      display: inline-block;
      padding: 5px 11px;
      border-radius: 8px;
      border: 1px solid #cbbfae;
      background: #f7f2e8;
      text-decoration: none;
      color: #2b2520;
      font-size: 13px;
      font-family: inherit;
      cursor: pointer;
    }
    button.danger {
      border-color: #caa5a0;
      background: #f6e9e7;
    }
    .field {
      display: flex;
      flex-direction: column;
      gap: 4px;
      margin-bottom: 10px;
    }
    .field label {
      font-size: 13px;
      color: #5b5148;
    }
    .field input, .field textarea {
      padding: 6px 10px;
      border: 1px solid #cbbfae;
      border-radius: 8px;
      font: inherit;
    }
    .form-error {
      color: #8c3b31;
      font-size: 13px;
      margin: 0 0 10px;
    }
    .side-pane h2 {
      margin: 0 0 10px;
      font-size: 16px;
    }
    .side-pane section + section {
      margin-top: 22px;
      padding-top: 16px;
      border-top: 1px solid #e1d8c8;
    }
    .empty {
      color: #5b5148;
    }
  </style>
</head>
<body>
  <header>
    <h1>Spoonful</h1>
    <nav class="tabs">
      <a class="tab{{if eq .ActiveFilter "all"}} active{{end}}" href="/" data-status="all">All</a>
      <a class="tab{{if eq .ActiveFilter "backlog"}} active{{end}}" href="/?status=backlog" data-status="backlog">Backlog</a>
      <a class="tab{{if eq .ActiveFilter "active"}} active{{end}}" href="/?status=active" data-status="active">Active</a>
      <a class="tab{{if eq .ActiveFilter "completed"}} active{{end}}" href="/?status=completed" data-status="completed">Completed</a>
    </nav>
    <div class="toolbar">
      <input id="search" type="search" placeholder="Search tasks" value="{{.Search}}" autocomplete="off">
      <button id="tired-toggle" type="button" title="Hide tasks that cost more energy than you have left">Tired mode</button>
    </div>
  </header>
  <main>
    <div class="pane list-pane">
      {{template "tasklist" .}}
    </div>
    <div class="pane side-pane">
      <section>
        <h2>{{if .EditTask}}Edit task{{else}}New task{{end}}</h2>
        {{if .TaskError}}<p class="form-error">{{.TaskError}}</p>{{end}}
        <form method="post" action="{{if .EditTask}}/tasks/update?id={{.EditTask.ID}}{{else}}/tasks/create{{end}}">
          <div class="field">
            <label for="title">Title</label>
            <input id="title" name="title" value="{{.TaskForm.Title}}" maxlength="100" required>
          </div>
          <div class="field">
            <label for="energy_cost">Energy cost (5&ndash;100)</label>
            <input id="energy_cost" name="energy_cost" type="number" min="5" max="100" value="{{.TaskForm.EnergyCost}}" required>
          </div>
          <div class="field">
            <label for="category">Category</label>
            <input id="category" name="category" value="{{.TaskForm.Category}}">
          </div>
          <div class="field">
            <label for="deadline">Deadline</label>
            <input id="deadline" name="deadline" type="datetime-local" value="{{.TaskForm.Deadline}}">
          </div>
          <div class="field">
            <label for="description">Description</label>
            <textarea id="description" name="description" rows="3">{{.TaskForm.Description}}</textarea>
          </div>
          <button type="submit">{{if .EditTask}}Save{{else}}Add task{{end}}</button>
          {{if .EditTask}}<a class="button-link" href="/">Cancel</a>{{end}}
        </form>
      </section>
      <section>
        <h2>Settings</h2>
        {{if .SettingsError}}<p class="form-error">{{.SettingsError}}</p>{{end}}
        <form method="post" action="/settings/update">
          <div class="field">
            <label for="daily_budget">Daily energy budget</label>
            <input id="daily_budget" name="daily_budget" type="number" min="1" value="{{.Settings.DailyBudget}}" required>
          </div>
          <div class="field">
            <label for="reset_time">Daily reset time (HH:MM)</label>
            <input id="reset_time" name="reset_time" value="{{.Settings.ResetTime}}" pattern="\d{2}:\d{2}" required>
          </div>
          <button type="submit">Save settings</button>
        </form>
      </section>
    </div>
  </main>
  <script>
  (function () {
    var tiredMode = false;
    var activeFilter = {{.ActiveFilter}};
    var searchInput = document.getElementById('search');
    var tiredToggle = document.getElementById('tired-toggle');

    // Mirrors the server-side visibility rule. The remaining-energy value is
    // read from the list container on every pass so a partial refresh is
    // always honored; it is never recomputed here.
    function applyVisibility() {
      var list = document.getElementById('task-list');
      if (!list) return;
      var remaining = parseInt(list.getAttribute('data-remaining-energy'), 10);
      if (isNaN(remaining)) remaining = 0;
      var query = (searchInput ? searchInput.value : '').trim().toLowerCase();
      var cards = list.querySelectorAll('.card');
      for (var i = 0; i < cards.length; i++) {
        var card = cards[i];
        var cost = parseInt(card.getAttribute('data-energy-cost'), 10) || 0;
        var status = card.getAttribute('data-status');
        var haystack = (card.getAttribute('data-search') || '').toLowerCase();
        var visible = true;
        if (tiredMode && status === 'backlog' && cost > remaining) {
          visible = false;
        }
        if (query !== '' && haystack.indexOf(query) === -1) {
          visible = false;
        }
        card.classList.toggle('hidden', !visible);
      }
    }

    // Replaces the list fragment from the server, then re-applies the
    // client-side filters against the freshly rendered attributes. The live
    // search text rides along so the hidden q inputs in the re-rendered card
    // forms keep it for the next POST's redirect.
    function refreshList(status) {
      var params = new URLSearchParams();
      if (status && status !== 'all') params.set('status', status);
      var query = (searchInput ? searchInput.value : '').trim();
      if (query !== '') params.set('q', query);
      fetch('/tasks/partial?' + params.toString())
        .then(function (resp) { return resp.text(); })
        .then(function (html) {
          var list = document.getElementById('task-list');
          if (!list) return;
          list.outerHTML = html;
          applyVisibility();
        });
    }

    var tabs = document.querySelectorAll('.tab');
    for (var i = 0; i < tabs.length; i++) {
      tabs[i].addEventListener('click', function (event) {
        event.preventDefault();
        activeFilter = this.getAttribute('data-status');
        for (var j = 0; j < tabs.length; j++) {
          tabs[j].classList.toggle('active', tabs[j] === this);
        }
        history.replaceState(null, '', this.getAttribute('href'));
        refreshList(activeFilter);
      });
    }

    if (tiredToggle) {
      tiredToggle.addEventListener('click', function () {
        tiredMode = !tiredMode;
        tiredToggle.classList.toggle('on', tiredMode);
        applyVisibility();
      });
    }

    if (searchInput) {
      searchInput.addEventListener('input', applyVisibility);
    }

    applyVisibility();
  })();
  </script>
</body>
</html>`
