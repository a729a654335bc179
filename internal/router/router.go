package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/fastygo/todowa/api/handler"
	"github.com/fastygo/todowa/internal/middleware"
)

type Handlers struct {
	Task     *apiHandler.TaskHandler
	Progress *apiHandler.ProgressHandler
	Settings *apiHandler.SettingsHandler
	Snapshot *apiHandler.SnapshotHandler
	Timer    *apiHandler.TimerHandler
	Health   *apiHandler.HealthHandler
}

// New registers every route. authMiddleware guards the /api/v1 tree; accessLog
// wraps the whole router and may be nil.
func New(handlers Handlers, authMiddleware, accessLog middleware.Middleware) fasthttp.RequestHandler {
	r := router.New()
	protect := func(h fasthttp.RequestHandler) fasthttp.RequestHandler {
		if authMiddleware == nil {
			return h
		}
		return authMiddleware(h)
	}

	r.GET("/health", handlers.Health.Check)

	r.GET("/api/v1/tasks", protect(handlers.Task.GetTasks))
	r.POST("/api/v1/tasks", protect(handlers.Task.CreateTask))
	r.GET("/api/v1/tasks/{id}", protect(handlers.Task.GetTask))
	r.PUT("/api/v1/tasks/{id}", protect(handlers.Task.UpdateTask))
	r.DELETE("/api/v1/tasks/{id}", protect(handlers.Task.DeleteTask))
	r.POST("/api/v1/tasks/{id}/complete", protect(handlers.Task.CompleteTask))
	r.POST("/api/v1/tasks/{id}/uncomplete", protect(handlers.Task.UncompleteTask))
	r.GET("/api/v1/today", protect(handlers.Task.GetToday))

	r.GET("/api/v1/progress", protect(handlers.Progress.GetProgress))
	r.POST("/api/v1/progress/experience", protect(handlers.Progress.AddExperience))

	r.GET("/api/v1/settings", protect(handlers.Settings.GetSettings))
	r.PUT("/api/v1/settings", protect(handlers.Settings.UpdateSettings))
	r.POST("/api/v1/settings/theme", protect(handlers.Settings.CycleTheme))

	r.GET("/api/v1/snapshot", protect(handlers.Snapshot.Export))
	r.POST("/api/v1/snapshot", protect(handlers.Snapshot.Import))
	r.DELETE("/api/v1/snapshot", protect(handlers.Snapshot.Reset))

	r.GET("/api/v1/timer", protect(handlers.Timer.GetTimer))
	r.POST("/api/v1/timer/start", protect(handlers.Timer.Start))
	r.POST("/api/v1/timer/pause", protect(handlers.Timer.Pause))
	r.POST("/api/v1/timer/reset", protect(handlers.Timer.Reset))
	r.PUT("/api/v1/timer/preset", protect(handlers.Timer.SetPreset))
	r.GET("/api/v1/quote", protect(handlers.Timer.GetQuote))

	if accessLog == nil {
		return r.Handler
	}
	return accessLog(r.Handler)
}
