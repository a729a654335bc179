package handler

import (
	"fmt"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/todowa/domain"
	"github.com/fastygo/todowa/pkg/httpcontext"
	taskUC "github.com/fastygo/todowa/usecase/task"
)

type SnapshotHandler struct {
	baseHandler
	engine *taskUC.Engine
}

func NewSnapshotHandler(engine *taskUC.Engine, adapter *httpcontext.Adapter, logger *zap.Logger) *SnapshotHandler {
	return &SnapshotHandler{
		baseHandler: newBaseHandler(adapter, logger),
		engine:      engine,
	}
}

// @Summary Export the full state
// @Tags snapshot
// @Router /api/v1/snapshot [get]
func (h *SnapshotHandler) Export(ctx *fasthttp.RequestCtx) {
	snapshot := h.engine.Export()
	if snapshot.Tasks == nil {
		snapshot.Tasks = []domain.Task{}
	}
	if ctx.QueryArgs().Has("download") {
		name := fmt.Sprintf("todowa-%s.json", snapshot.ExportedAt.Format(domain.DateLayout))
		ctx.Response.Header.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	}
	h.respondSuccess(ctx, http.StatusOK, snapshot)
}

// @Summary Import a snapshot document
// @Tags snapshot
// @Router /api/v1/snapshot [post]
func (h *SnapshotHandler) Import(ctx *fasthttp.RequestCtx) {
	doc, err := domain.DecodeImportBytes(ctx.PostBody())
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.engine.Import(stdCtx, doc); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, h.engine.Stats())
}

// @Summary Wipe all data
// @Tags snapshot
// @Router /api/v1/snapshot [delete]
func (h *SnapshotHandler) Reset(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.engine.Reset(stdCtx); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}
