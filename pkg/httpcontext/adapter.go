package httpcontext

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	appLogger "github.com/fastygo/todowa/pkg/logger"
)

// Key represents a context value key exported for reuse.
type Key string

const (
	KeyRemoteAddr Key = "remote_addr"
	KeyUserAgent  Key = "user_agent"
	KeySubject    Key = "subject"
)

// UserValueSubject is where the auth middleware leaves the token subject on the RequestCtx.
const UserValueSubject = "auth_subject"

// Adapter converts fasthttp.RequestCtx into a stdlib context with deadlines and metadata.
type Adapter struct {
	timeout time.Duration
}

// NewAdapter constructs a new Adapter using the provided timeout.
func NewAdapter(timeout time.Duration) *Adapter {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Adapter{
		timeout: timeout,
	}
}

// Attach creates a context with timeout derived from the adapter and enriches it with request metadata.
func (a *Adapter) Attach(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	stdCtx, cancel := context.WithTimeout(context.Background(), a.timeout)

	reqID := RequestID(ctx)
	stdCtx = appLogger.ContextWithRequestID(stdCtx, reqID)

	if remoteAddr := ctx.RemoteAddr(); remoteAddr != nil {
		stdCtx = context.WithValue(stdCtx, KeyRemoteAddr, remoteAddr.String())
	}
	if ua := string(ctx.Request.Header.UserAgent()); ua != "" {
		stdCtx = context.WithValue(stdCtx, KeyUserAgent, ua)
	}
	if subject, ok := ctx.UserValue(UserValueSubject).(string); ok && subject != "" {
		stdCtx = context.WithValue(stdCtx, KeySubject, subject)
	}

	return stdCtx, cancel
}

// RequestID returns the id of the request, echoing or minting X-Request-ID once per request.
func RequestID(ctx *fasthttp.RequestCtx) string {
	if ctx == nil {
		return uuid.NewString()
	}
	if existing := string(ctx.Response.Header.Peek("X-Request-ID")); existing != "" {
		return existing
	}
	reqID := strings.TrimSpace(string(ctx.Request.Header.Peek("X-Request-ID")))
	if reqID == "" {
		reqID = uuid.NewString()
	}
	ctx.Response.Header.Set("X-Request-ID", reqID)
	return reqID
}

// Subject returns the authenticated subject attached by Attach, if any.
func Subject(ctx context.Context) string {
	subject, _ := ctx.Value(KeySubject).(string)
	return subject
}
