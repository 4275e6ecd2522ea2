package http

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/identity"
	"dispatch/internal/pkg/metrics"
)

// principalKey is the echo context key the bearer middleware stores the
// authenticated principal under.
const principalKey = "principal"

// TimeoutMiddleware bounds every request with a deadline so a stalled
// database or artifact store surfaces as a gateway timeout instead of a
// hung connection.
func TimeoutMiddleware(timeout time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			reqCtx, cancel := context.WithTimeout(ctx.Request().Context(), timeout)
			defer cancel()

			ctx.SetRequest(ctx.Request().WithContext(reqCtx))
			return next(ctx)
		}
	}
}

// MetricsMiddleware records request counts and latencies per route.
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			start := time.Now()
			err := next(ctx)

			route := ctx.Path()
			method := ctx.Request().Method
			status := ctx.Response().Status

			metrics.HTTPRequestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())

			return err
		}
	}
}

// requireScope authenticates the bearer token for the given scope and stores
// the principal on the context. Tokens are opaque: verification scans the
// unexpired token holders for the scope, so a token issued for one scope
// never opens the other.
func (s *Server) requireScope(scope identity.TokenScope) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			secret, ok := bearerSecret(ctx.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return ctx.JSON(http.StatusUnauthorized, errorResponse{
					Code:    http.StatusUnauthorized,
					Message: "missing bearer token",
				})
			}

			query, err := queries.NewVerifyTokenQuery(scope, secret)
			if err != nil {
				return writeError(ctx, err)
			}

			principal, err := s.verifyTokenHandler.Handle(ctx.Request().Context(), query)
			if err != nil {
				return writeError(ctx, err)
			}

			ctx.Set(principalKey, principal)
			return next(ctx)
		}
	}
}

// principal returns the authenticated principal stored by requireScope.
func principal(ctx echo.Context) queries.VerifyTokenQueryResponse {
	p, _ := ctx.Get(principalKey).(queries.VerifyTokenQueryResponse)
	return p
}

func bearerSecret(header string) (string, bool) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}

	secret := strings.TrimSpace(header[len(prefix):])
	return secret, secret != ""
}
