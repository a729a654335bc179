package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/todowa/domain"
	"github.com/fastygo/todowa/pkg/httpcontext"
	taskUC "github.com/fastygo/todowa/usecase/task"
)

type SettingsHandler struct {
	baseHandler
	engine *taskUC.Engine
}

func NewSettingsHandler(engine *taskUC.Engine, adapter *httpcontext.Adapter, logger *zap.Logger) *SettingsHandler {
	return &SettingsHandler{
		baseHandler: newBaseHandler(adapter, logger),
		engine:      engine,
	}
}

// @Summary Get settings
// @Tags settings
// @Router /api/v1/settings [get]
func (h *SettingsHandler) GetSettings(ctx *fasthttp.RequestCtx) {
	h.respondSuccess(ctx, http.StatusOK, h.engine.Settings())
}

// @Summary Update settings
// @Tags settings
// @Router /api/v1/settings [put]
func (h *SettingsHandler) UpdateSettings(ctx *fasthttp.RequestCtx) {
	var patch domain.SettingsPatch
	if !h.decodeBody(ctx, &patch) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	settings, err := h.engine.UpdateSettings(stdCtx, patch)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, settings)
}

// @Summary Switch to the next theme
// @Tags settings
// @Router /api/v1/settings/theme [post]
func (h *SettingsHandler) CycleTheme(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	h.respondSuccess(ctx, http.StatusOK, h.engine.CycleTheme(stdCtx))
}
