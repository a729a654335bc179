package httpcontext

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/valyala/fasthttp"

	appLogger "github.com/fastygo/todowa/pkg/logger"
)

func TestAttachEchoesRequestID(t *testing.T) {
	var rc fasthttp.RequestCtx
	rc.Request.Header.Set("X-Request-ID", "abc")
	rc.SetUserValue(UserValueSubject, "alice")

	ctx, cancel := NewAdapter(time.Second).Attach(&rc)
	defer cancel()

	assert.Equal(t, "abc", appLogger.RequestID(ctx))
	assert.Equal(t, "abc", string(rc.Response.Header.Peek("X-Request-ID")))
	assert.Equal(t, "alice", Subject(ctx))
	_, hasDeadline := ctx.Deadline()
	assert.True(t, hasDeadline)
}

func TestRequestIDIsMintedOnce(t *testing.T) {
	var rc fasthttp.RequestCtx
	first := RequestID(&rc)
	assert.NotEmpty(t, first)
	assert.Equal(t, first, RequestID(&rc))
}
