package middleware

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/fastygo/todowa/pkg/httpcontext"
)

const secret = "s3cret"

func sign(t *testing.T, claims jwt.MapClaims, key string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	require.NoError(t, err)
	return token
}

func run(mw Middleware, authorization string) (*fasthttp.RequestCtx, bool) {
	var rc fasthttp.RequestCtx
	if authorization != "" {
		rc.Request.Header.Set("Authorization", authorization)
	}
	called := false
	mw(func(ctx *fasthttp.RequestCtx) {
		called = true
		ctx.SetStatusCode(fasthttp.StatusOK)
	})(&rc)
	return &rc, called
}

func TestJWTAuthDisabledWithoutSecret(t *testing.T) {
	_, called := run(JWTAuth("", "", nil), "")
	assert.True(t, called)
}

func TestJWTAuthRejectsMissingAndBadTokens(t *testing.T) {
	mw := JWTAuth(secret, "todowa", nil)

	rc, called := run(mw, "")
	assert.False(t, called)
	assert.Equal(t, fasthttp.StatusUnauthorized, rc.Response.StatusCode())
	assert.Contains(t, string(rc.Response.Body()), "UNAUTHORIZED")

	forged := sign(t, jwt.MapClaims{"sub": "alice", "iss": "todowa"}, "other")
	_, called = run(mw, "Bearer "+forged)
	assert.False(t, called)

	expired := sign(t, jwt.MapClaims{"sub": "alice", "iss": "todowa", "exp": time.Now().Add(-time.Hour).Unix()}, secret)
	_, called = run(mw, "Bearer "+expired)
	assert.False(t, called)

	wrongIssuer := sign(t, jwt.MapClaims{"sub": "alice", "iss": "someone"}, secret)
	_, called = run(mw, "Bearer "+wrongIssuer)
	assert.False(t, called)
}

func TestJWTAuthAcceptsValidToken(t *testing.T) {
	token := sign(t, jwt.MapClaims{"sub": "alice", "iss": "todowa", "exp": time.Now().Add(time.Hour).Unix()}, secret)

	rc, called := run(JWTAuth(secret, "todowa", nil), "Bearer "+token)

	assert.True(t, called)
	assert.Equal(t, "alice", rc.UserValue(httpcontext.UserValueSubject))
}

func TestAccessLogPassesThrough(t *testing.T) {
	rc, called := run(AccessLog(nil), "")
	assert.True(t, called)
	assert.NotEmpty(t, rc.Response.Header.Peek("X-Request-ID"))
}
