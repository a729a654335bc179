package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/fastygo/todowa/domain"
	"github.com/fastygo/todowa/internal/notify"
	"github.com/fastygo/todowa/pkg/clock"
	"github.com/fastygo/todowa/pkg/httpcontext"
	"github.com/fastygo/todowa/repository/memory"
	taskUC "github.com/fastygo/todowa/usecase/task"
	timerUC "github.com/fastygo/todowa/usecase/timer"
)

type envelope struct {
	Status string          `json:"status"`
	Code   string          `json:"code"`
	Data   json.RawMessage `json:"data"`
	Error  string          `json:"error"`
	Meta   json.RawMessage `json:"meta"`
}

type fixture struct {
	engine   *taskUC.Engine
	clock    *clock.Fake
	tasks    *TaskHandler
	progress *ProgressHandler
	settings *SettingsHandler
	snapshot *SnapshotHandler
	timer    *TimerHandler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	c := clock.NewFake(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))
	var seq int
	engine := taskUC.New(memory.NewTaskStore(), memory.NewSnapshotRepository(), &notify.Recorder{}, nil,
		taskUC.WithClock(c),
		taskUC.WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("t%d", seq)
		}))
	adapter := httpcontext.NewAdapter(time.Second)
	timer := timerUC.New(25, memory.NewTimerRepository(), nil, c, nil)
	return &fixture{
		engine:   engine,
		clock:    c,
		tasks:    NewTaskHandler(engine, adapter, nil),
		progress: NewProgressHandler(engine, adapter, nil),
		settings: NewSettingsHandler(engine, adapter, nil),
		snapshot: NewSnapshotHandler(engine, adapter, nil),
		timer:    NewTimerHandler(timer, timerUC.NewRotator(nil), adapter, nil),
	}
}

func call(h fasthttp.RequestHandler, method, uri, body, id string) *fasthttp.RequestCtx {
	var rc fasthttp.RequestCtx
	rc.Request.Header.SetMethod(method)
	rc.Request.SetRequestURI(uri)
	if body != "" {
		rc.Request.SetBodyString(body)
	}
	if id != "" {
		rc.SetUserValue("id", id)
	}
	h(&rc)
	return &rc
}

func decode(t *testing.T, rc *fasthttp.RequestCtx) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rc.Response.Body(), &env))
	return env
}

func TestCreateAndGetTask(t *testing.T) {
	fx := newFixture(t)

	rc := call(fx.tasks.CreateTask, http.MethodPost, "/api/v1/tasks",
		`{"title":"Water plants","category":"health","priority":"High","dueDate":"2026-03-10"}`, "")
	require.Equal(t, http.StatusCreated, rc.Response.StatusCode())

	var created domain.Task
	require.NoError(t, json.Unmarshal(decode(t, rc).Data, &created))
	assert.Equal(t, "t1", created.ID)
	assert.Equal(t, domain.CategoryHealth, created.Category)
	assert.Equal(t, domain.PriorityHigh, created.Priority)

	rc = call(fx.tasks.GetTask, http.MethodGet, "/api/v1/tasks/t1", "", "t1")
	assert.Equal(t, http.StatusOK, rc.Response.StatusCode())

	rc = call(fx.tasks.GetTask, http.MethodGet, "/api/v1/tasks/nope", "", "nope")
	assert.Equal(t, http.StatusNotFound, rc.Response.StatusCode())
	assert.Equal(t, "NOT_FOUND", decode(t, rc).Code)
}

func TestCreateTaskRejectsBadInput(t *testing.T) {
	fx := newFixture(t)

	cases := map[string]string{
		"empty title":   `{"title":"  "}`,
		"bad date":      `{"title":"x","dueDate":"10/03/2026"}`,
		"bad category":  `{"title":"x","category":"garden"}`,
		"unknown field": `{"title":"x","colour":"red"}`,
		"not json":      `title=x`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rc := call(fx.tasks.CreateTask, http.MethodPost, "/api/v1/tasks", body, "")
			assert.Equal(t, http.StatusBadRequest, rc.Response.StatusCode())
			assert.Equal(t, "INVALID", decode(t, rc).Code)
		})
	}
	assert.Empty(t, fx.engine.List(taskUC.Query{}))
}

func TestListTasksAppliesQuery(t *testing.T) {
	fx := newFixture(t)
	for _, body := range []string{
		`{"title":"Buy milk","category":"shopping","priority":"Low"}`,
		`{"title":"Pay rent","category":"work","priority":"High"}`,
		`{"title":"Buy stamps","category":"shopping","priority":"High"}`,
	} {
		require.Equal(t, http.StatusCreated, call(fx.tasks.CreateTask, http.MethodPost, "/api/v1/tasks", body, "").Response.StatusCode())
	}

	rc := call(fx.tasks.GetTasks, http.MethodGet, "/api/v1/tasks?search=buy&sort=priority", "", "")
	require.Equal(t, http.StatusOK, rc.Response.StatusCode())
	env := decode(t, rc)

	var tasks []domain.Task
	require.NoError(t, json.Unmarshal(env.Data, &tasks))
	require.Len(t, tasks, 2)
	assert.Equal(t, "Buy stamps", tasks[0].Title)
	assert.JSONEq(t, `{"count":2,"sort":"priority"}`, string(env.Meta))

	rc = call(fx.tasks.GetTasks, http.MethodGet, "/api/v1/tasks?sort=colour", "", "")
	assert.Equal(t, http.StatusBadRequest, rc.Response.StatusCode())
	rc = call(fx.tasks.GetTasks, http.MethodGet, "/api/v1/tasks?category=garden", "", "")
	assert.Equal(t, http.StatusBadRequest, rc.Response.StatusCode())
}

func TestCompleteUncompleteAndDelete(t *testing.T) {
	fx := newFixture(t)
	call(fx.tasks.CreateTask, http.MethodPost, "/api/v1/tasks", `{"title":"Stretch"}`, "")

	rc := call(fx.tasks.CompleteTask, http.MethodPost, "/api/v1/tasks/t1/complete", "", "t1")
	require.Equal(t, http.StatusOK, rc.Response.StatusCode())
	assert.Equal(t, 2, fx.engine.Progress().Experience)

	rc = call(fx.tasks.CompleteTask, http.MethodPost, "/api/v1/tasks/t1/complete", "", "t1")
	assert.Equal(t, http.StatusOK, rc.Response.StatusCode())
	assert.Equal(t, 2, fx.engine.Progress().Experience)

	rc = call(fx.tasks.UncompleteTask, http.MethodPost, "/api/v1/tasks/t1/uncomplete", "", "t1")
	require.Equal(t, http.StatusOK, rc.Response.StatusCode())
	assert.Equal(t, 2, fx.engine.Progress().Experience)
	assert.Zero(t, fx.engine.Progress().TotalCompleted)

	rc = call(fx.tasks.DeleteTask, http.MethodDelete, "/api/v1/tasks/t1", "", "t1")
	assert.Equal(t, http.StatusNoContent, rc.Response.StatusCode())
	rc = call(fx.tasks.DeleteTask, http.MethodDelete, "/api/v1/tasks/t1", "", "t1")
	assert.Equal(t, http.StatusNotFound, rc.Response.StatusCode())
}

func TestTodayListsDueTasks(t *testing.T) {
	fx := newFixture(t)
	call(fx.tasks.CreateTask, http.MethodPost, "/api/v1/tasks", `{"title":"Now","dueDate":"2026-03-10"}`, "")
	call(fx.tasks.CreateTask, http.MethodPost, "/api/v1/tasks", `{"title":"Later","dueDate":"2026-03-11"}`, "")

	env := decode(t, call(fx.tasks.GetToday, http.MethodGet, "/api/v1/today", "", ""))
	var tasks []domain.Task
	require.NoError(t, json.Unmarshal(env.Data, &tasks))
	require.Len(t, tasks, 1)
	assert.Equal(t, "Now", tasks[0].Title)
}

func TestProgressAndExperience(t *testing.T) {
	fx := newFixture(t)

	rc := call(fx.progress.AddExperience, http.MethodPost, "/api/v1/progress/experience", `{"amount":60}`, "")
	require.Equal(t, http.StatusOK, rc.Response.StatusCode())

	var view struct {
		Progress domain.Progress `json:"progress"`
		Stats    taskUC.Stats    `json:"stats"`
		Unsaved  bool            `json:"unsaved"`
	}
	env := decode(t, call(fx.progress.GetProgress, http.MethodGet, "/api/v1/progress", "", ""))
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, 60, view.Progress.Experience)
	assert.Equal(t, 1, view.Progress.Level)
	assert.False(t, view.Unsaved)

	rc = call(fx.progress.AddExperience, http.MethodPost, "/api/v1/progress/experience", `{"amount":-5}`, "")
	assert.Equal(t, http.StatusBadRequest, rc.Response.StatusCode())
}

func TestSettingsEndpoints(t *testing.T) {
	fx := newFixture(t)

	rc := call(fx.settings.UpdateSettings, http.MethodPut, "/api/v1/settings", `{"theme":"neon","highContrast":true}`, "")
	require.Equal(t, http.StatusOK, rc.Response.StatusCode())
	assert.Equal(t, domain.ThemeNeon, fx.engine.Settings().Theme)
	assert.True(t, fx.engine.Settings().HighContrast)

	rc = call(fx.settings.UpdateSettings, http.MethodPut, "/api/v1/settings", `{"theme":"plaid"}`, "")
	assert.Equal(t, http.StatusBadRequest, rc.Response.StatusCode())

	rc = call(fx.settings.CycleTheme, http.MethodPost, "/api/v1/settings/theme", "", "")
	require.Equal(t, http.StatusOK, rc.Response.StatusCode())
	assert.Equal(t, domain.ThemeSakura, fx.engine.Settings().Theme)
}

func TestSnapshotExportImportReset(t *testing.T) {
	fx := newFixture(t)
	call(fx.tasks.CreateTask, http.MethodPost, "/api/v1/tasks", `{"title":"Keep me"}`, "")

	rc := call(fx.snapshot.Export, http.MethodGet, "/api/v1/snapshot?download=1", "", "")
	require.Equal(t, http.StatusOK, rc.Response.StatusCode())
	assert.Contains(t, string(rc.Response.Header.Peek("Content-Disposition")), "todowa-2026-03-10.json")
	exported := decode(t, rc).Data

	rc = call(fx.snapshot.Reset, http.MethodDelete, "/api/v1/snapshot", "", "")
	require.Equal(t, http.StatusNoContent, rc.Response.StatusCode())
	assert.Empty(t, fx.engine.List(taskUC.Query{}))

	rc = call(fx.snapshot.Import, http.MethodPost, "/api/v1/snapshot", string(exported), "")
	require.Equal(t, http.StatusOK, rc.Response.StatusCode())
	tasks := fx.engine.List(taskUC.Query{})
	require.Len(t, tasks, 1)
	assert.Equal(t, "Keep me", tasks[0].Title)

	rc = call(fx.snapshot.Import, http.MethodPost, "/api/v1/snapshot", `{"tasks":[{"id":"x"}]}`, "")
	assert.Equal(t, http.StatusBadRequest, rc.Response.StatusCode())
	assert.Len(t, fx.engine.List(taskUC.Query{}), 1)
}

func TestTimerEndpoints(t *testing.T) {
	fx := newFixture(t)

	var view struct {
		Running   bool   `json:"running"`
		Paused    bool   `json:"paused"`
		Remaining int    `json:"remaining"`
		Display   string `json:"display"`
	}
	env := decode(t, call(fx.timer.GetTimer, http.MethodGet, "/api/v1/timer", "", ""))
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, "25:00", view.Display)

	env = decode(t, call(fx.timer.Start, http.MethodPost, "/api/v1/timer/start", "", ""))
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.True(t, view.Running)

	env = decode(t, call(fx.timer.Pause, http.MethodPost, "/api/v1/timer/pause", "", ""))
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.True(t, view.Paused)

	env = decode(t, call(fx.timer.SetPreset, http.MethodPut, "/api/v1/timer/preset", `{"minutes":5}`, ""))
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, 300, view.Remaining)
	assert.Equal(t, "05:00", view.Display)

	rc := call(fx.timer.SetPreset, http.MethodPut, "/api/v1/timer/preset", `{"minutes":0}`, "")
	assert.Equal(t, http.StatusBadRequest, rc.Response.StatusCode())

	rc = call(fx.timer.GetQuote, http.MethodGet, "/api/v1/quote", "", "")
	assert.Equal(t, http.StatusOK, rc.Response.StatusCode())
	assert.Contains(t, string(rc.Response.Body()), timerUC.DefaultQuotes[0])
}

func TestMapError(t *testing.T) {
	status, code := mapError(domain.ErrTaskNotFound)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", code)

	status, _ = mapError(domain.Unavailable("save", fmt.Errorf("down")))
	assert.Equal(t, http.StatusServiceUnavailable, status)

	status, code = mapError(fmt.Errorf("boom"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "INTERNAL", code)
}

type downGateway struct{}

func (downGateway) Load(context.Context) (*domain.Snapshot, error) { return nil, domain.ErrSnapshotNotFound }
func (downGateway) Save(context.Context, domain.Snapshot) error     { return errors.New("disk full") }
func (downGateway) Clear(context.Context) error                     { return nil }

func TestHealthReportsUnsavedState(t *testing.T) {
	adapter := httpcontext.NewAdapter(time.Second)

	healthy := taskUC.New(memory.NewTaskStore(), memory.NewSnapshotRepository(), nil, nil)
	rc := call(NewHealthHandler(nil, healthy, "memory", adapter, nil).Check, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rc.Response.StatusCode())

	broken := taskUC.New(memory.NewTaskStore(), downGateway{}, nil, nil)
	_, err := broken.Create(context.Background(), domain.TaskFields{Title: "lost"})
	require.NoError(t, err)

	rc = call(NewHealthHandler(nil, broken, "memory", adapter, nil).Check, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, rc.Response.StatusCode())
	env := decode(t, rc)
	assert.Equal(t, "DEGRADED", env.Code)
	assert.Contains(t, string(env.Meta), `"unsaved":true`)
}
