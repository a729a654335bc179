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

type TaskHandler struct {
	baseHandler
	engine *taskUC.Engine
}

func NewTaskHandler(engine *taskUC.Engine, adapter *httpcontext.Adapter, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		baseHandler: newBaseHandler(adapter, logger),
		engine:      engine,
	}
}

// @Summary List tasks
// @Tags tasks
// @Router /api/v1/tasks [get]
func (h *TaskHandler) GetTasks(ctx *fasthttp.RequestCtx) {
	args := ctx.QueryArgs()

	sort, err := taskUC.ParseSortKey(string(args.Peek("sort")))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	status, err := taskUC.ParseStatus(string(args.Peek("status")))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	var category domain.Category
	if raw := string(args.Peek("category")); raw != "" {
		if category, err = domain.ParseCategory(raw); err != nil {
			h.respondError(ctx, err)
			return
		}
	}

	tasks := h.engine.List(taskUC.Query{
		Search:   string(args.Peek("search")),
		Category: category,
		Status:   status,
		Sort:     sort,
	})
	h.respondList(ctx, tasks, transport.ListMeta{Count: len(tasks), Sort: string(sort)})
}

// @Summary Tasks due today
// @Tags tasks
// @Router /api/v1/today [get]
func (h *TaskHandler) GetToday(ctx *fasthttp.RequestCtx) {
	tasks := h.engine.DueToday()
	if tasks == nil {
		tasks = []domain.Task{}
	}
	h.respondList(ctx, tasks, transport.ListMeta{Count: len(tasks)})
}

// @Summary Get task
// @Tags tasks
// @Router /api/v1/tasks/{id} [get]
func (h *TaskHandler) GetTask(ctx *fasthttp.RequestCtx) {
	task, err := h.engine.Get(pathID(ctx))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, task)
}

// @Summary Create task
// @Tags tasks
// @Router /api/v1/tasks [post]
func (h *TaskHandler) CreateTask(ctx *fasthttp.RequestCtx) {
	fields, ok := h.parseFields(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.engine.Create(stdCtx, fields)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Update task
// @Tags tasks
// @Router /api/v1/tasks/{id} [put]
func (h *TaskHandler) UpdateTask(ctx *fasthttp.RequestCtx) {
	fields, ok := h.parseFields(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.engine.Edit(stdCtx, pathID(ctx), fields)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary Complete task
// @Tags tasks
// @Router /api/v1/tasks/{id}/complete [post]
func (h *TaskHandler) CompleteTask(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.engine.Complete(stdCtx, pathID(ctx))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, task)
}

// @Summary Reopen task
// @Tags tasks
// @Router /api/v1/tasks/{id}/uncomplete [post]
func (h *TaskHandler) UncompleteTask(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.engine.Uncomplete(stdCtx, pathID(ctx))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, task)
}

// @Summary Delete task
// @Tags tasks
// @Router /api/v1/tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(ctx *fasthttp.RequestCtx) {
	id := pathID(ctx)
	if id == "" {
		h.respondInvalid(ctx, "missing task id")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.engine.Delete(stdCtx, id); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}

func (h *TaskHandler) parseFields(ctx *fasthttp.RequestCtx) (domain.TaskFields, bool) {
	var req transport.TaskRequest
	if !h.decodeBody(ctx, &req) {
		return domain.TaskFields{}, false
	}
	fields, err := req.Fields()
	if err != nil {
		h.respondError(ctx, err)
		return domain.TaskFields{}, false
	}
	return fields, true
}
