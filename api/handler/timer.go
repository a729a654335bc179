package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/todowa/api/transport"
	"github.com/fastygo/todowa/domain"
	"github.com/fastygo/todowa/pkg/httpcontext"
	timerUC "github.com/fastygo/todowa/usecase/timer"
)

type TimerHandler struct {
	baseHandler
	timer  *timerUC.Timer
	quotes *timerUC.Rotator
}

func NewTimerHandler(timer *timerUC.Timer, quotes *timerUC.Rotator, adapter *httpcontext.Adapter, logger *zap.Logger) *TimerHandler {
	return &TimerHandler{
		baseHandler: newBaseHandler(adapter, logger),
		timer:       timer,
		quotes:      quotes,
	}
}

type timerView struct {
	domain.TimerState
	Display  string  `json:"display"`
	Progress float64 `json:"progress"`
}

func newTimerView(s domain.TimerState) timerView {
	return timerView{TimerState: s, Display: timerUC.Format(s.Remaining), Progress: s.Elapsed()}
}

// @Summary Timer state
// @Tags timer
// @Router /api/v1/timer [get]
func (h *TimerHandler) GetTimer(ctx *fasthttp.RequestCtx) {
	h.respondSuccess(ctx, http.StatusOK, newTimerView(h.timer.State()))
}

// @Summary Start the timer
// @Tags timer
// @Router /api/v1/timer/start [post]
func (h *TimerHandler) Start(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()
	h.respondSuccess(ctx, http.StatusOK, newTimerView(h.timer.Start(stdCtx)))
}

// @Summary Pause or resume the timer
// @Tags timer
// @Router /api/v1/timer/pause [post]
func (h *TimerHandler) Pause(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()
	h.respondSuccess(ctx, http.StatusOK, newTimerView(h.timer.Pause(stdCtx)))
}

// @Summary Reset the timer
// @Tags timer
// @Router /api/v1/timer/reset [post]
func (h *TimerHandler) Reset(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()
	h.respondSuccess(ctx, http.StatusOK, newTimerView(h.timer.Reset(stdCtx)))
}

// @Summary Change the block length
// @Tags timer
// @Router /api/v1/timer/preset [put]
func (h *TimerHandler) SetPreset(ctx *fasthttp.RequestCtx) {
	var req transport.PresetRequest
	if !h.decodeBody(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	state, err := h.timer.SetPreset(stdCtx, req.Minutes)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, newTimerView(state))
}

// @Summary Current motivational quote
// @Tags timer
// @Router /api/v1/quote [get]
func (h *TimerHandler) GetQuote(ctx *fasthttp.RequestCtx) {
	h.respondSuccess(ctx, http.StatusOK, map[string]interface{}{
		"quote": h.quotes.Current(),
		"index": h.quotes.Index(),
	})
}
