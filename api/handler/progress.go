package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/todowa/api/transport"
	"github.com/fastygo/todowa/domain"
	"github.com/fastygo/todowa/pkg/httpcontext"
	taskUC "github.com/fastygo/todowa/usecase/task"
)

type ProgressHandler struct {
	baseHandler
	engine *taskUC.Engine
}

func NewProgressHandler(engine *taskUC.Engine, adapter *httpcontext.Adapter, logger *zap.Logger) *ProgressHandler {
	return &ProgressHandler{
		baseHandler: newBaseHandler(adapter, logger),
		engine:      engine,
	}
}

type progressView struct {
	Progress domain.Progress    `json:"progress"`
	Stats    taskUC.Stats       `json:"stats"`
	Levels   []domain.LevelTier `json:"levels"`
	Dirty    bool               `json:"unsaved"`
}

// @Summary Progress and dashboard stats
// @Tags progress
// @Router /api/v1/progress [get]
func (h *ProgressHandler) GetProgress(ctx *fasthttp.RequestCtx) {
	h.respondSuccess(ctx, http.StatusOK, progressView{
		Progress: h.engine.Progress(),
		Stats:    h.engine.Stats(),
		Levels:   h.engine.Levels().Tiers(),
		Dirty:    h.engine.Dirty(),
	})
}

// @Summary Grant experience
// @Tags progress
// @Router /api/v1/progress/experience [post]
func (h *ProgressHandler) AddExperience(ctx *fasthttp.RequestCtx) {
	var req transport.ExperienceRequest
	if !h.decodeBody(ctx, &req) {
		return
	}
	if req.Reason == "" {
		req.Reason = "manual"
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.engine.AddExperience(stdCtx, req.Amount, req.Reason); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, h.engine.Progress())
}
