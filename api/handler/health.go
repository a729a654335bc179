package handler

import (
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/todowa/api/transport"
	"github.com/fastygo/todowa/internal/infrastructure/monitor"
	"github.com/fastygo/todowa/pkg/httpcontext"
	taskUC "github.com/fastygo/todowa/usecase/task"
)

type HealthHandler struct {
	baseHandler
	monitor *monitor.Monitor
	engine  *taskUC.Engine
	driver  string
}

func NewHealthHandler(mon *monitor.Monitor, engine *taskUC.Engine, driver string, adapter *httpcontext.Adapter, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		monitor:     mon,
		engine:      engine,
		driver:      driver,
	}
}

// @Summary Health check
// @Tags health
// @Router /health [get]
func (h *HealthHandler) Check(ctx *fasthttp.RequestCtx) {
	var status monitor.Status
	if h.monitor != nil {
		status = h.monitor.GetStatus()
	}
	unsaved := h.engine != nil && h.engine.Dirty()
	payload := map[string]interface{}{
		"timestamp": time.Now().UTC(),
		"storage": map[string]interface{}{
			"driver":  h.driver,
			"unsaved": unsaved,
		},
		"services": map[string]interface{}{
			"postgres": status.Postgres,
			"redis":    status.Redis,
			"outbox": map[string]interface{}{
				"status": status.Outbox,
				"size":   status.OutboxSize,
			},
		},
	}

	if status.Healthy() && !unsaved {
		h.respondSuccess(ctx, http.StatusOK, payload)
		return
	}
	h.respondJSON(ctx, http.StatusServiceUnavailable, transport.NewError("DEGRADED", "dependencies unhealthy", payload))
}
