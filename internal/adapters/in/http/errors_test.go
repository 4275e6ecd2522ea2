package http

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispatch/internal/pkg/errs"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"value required", errs.NewValueIsRequiredError("order_id"), http.StatusBadRequest},
		{"unauthorized", errs.NewUnauthorizedError("bad token"), http.StatusUnauthorized},
		{"forbidden", errs.NewForbiddenError("not yours"), http.StatusForbidden},
		{"not found", errs.NewObjectNotFoundError("order", nil), http.StatusNotFound},
		{"conflict", errs.NewConflictError("already claimed"), http.StatusConflict},
		{"precondition failed", errs.NewPreconditionFailedError("wrong state"), http.StatusPreconditionFailed},
		{"timeout", errs.NewTimeoutError("query", context.DeadlineExceeded), http.StatusGatewayTimeout},
		{"context deadline", context.DeadlineExceeded, http.StatusGatewayTimeout},
		{"wrapped context deadline", fmt.Errorf("load order: %w", context.DeadlineExceeded), http.StatusGatewayTimeout},
		{"unclassified", fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, statusFor(tc.err))
		})
	}
}

func TestWriteError_HidesInternalMessage(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	ctx := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	require.NoError(t, writeError(ctx, fmt.Errorf("dsn contains password")))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal error")
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestTimeoutMiddleware_SetsRequestDeadline(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	ctx := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	var deadline time.Time
	var ok bool
	handler := TimeoutMiddleware(time.Second)(func(ctx echo.Context) error {
		deadline, ok = ctx.Request().Context().Deadline()
		return nil
	})

	require.NoError(t, handler(ctx))
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Second), deadline, 100*time.Millisecond)
}

func TestTimeoutMiddleware_ExpiredContextMapsToGatewayTimeout(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	ctx := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	handler := TimeoutMiddleware(time.Nanosecond)(func(ctx echo.Context) error {
		<-ctx.Request().Context().Done()
		return writeError(ctx, fmt.Errorf("load order: %w", ctx.Request().Context().Err()))
	})

	require.NoError(t, handler(ctx))
	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
}
