package rest

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/ubadesk/internal/common"
	"github.com/dmitrijs2005/ubadesk/internal/logging"
	"github.com/dmitrijs2005/ubadesk/internal/server/models"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"
)

type ctxKey struct{}

// UserFromContext returns the user attached by AuthMiddleware.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(ctxKey{}).(*models.User)
	return u, ok && u != nil
}

func withUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
// The scheme is matched case-insensitively.
func bearerToken(r *http.Request) string {
	h := strings.TrimSpace(r.Header.Get(common.AuthorizationHeaderName))
	if len(h) < len(common.BearerPrefix) || !strings.EqualFold(h[:len(common.BearerPrefix)], common.BearerPrefix) {
		return ""
	}
	return strings.TrimSpace(h[len(common.BearerPrefix):])
}

// AuthMiddleware resolves the bearer token to a user and stores it in the
// request context. Failures are answered with 401 and a message naming the
// cause.
func AuthMiddleware(service UserService, logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "rest.AuthMiddleware"
			log := logger.With("op", op, "request_id", middleware.GetReqID(r.Context()))

			token := bearerToken(r)
			if token == "" {
				renderError(w, r, http.StatusUnauthorized, msgTokenMissing)
				return
			}

			user, err := service.Authenticate(r.Context(), token)
			switch {
			case err == nil:
			case errors.Is(err, common.ErrTokenExpired):
				renderError(w, r, http.StatusUnauthorized, msgTokenExpired)
				return
			case errors.Is(err, common.ErrInvalidToken):
				renderError(w, r, http.StatusUnauthorized, msgTokenInvalid)
				return
			case errors.Is(err, common.ErrorNotFound):
				renderError(w, r, http.StatusUnauthorized, msgUserNotFound)
				return
			default:
				log.Error(r.Context(), "token validation failed", "error", err)
				renderError(w, r, http.StatusInternalServerError, msgInternal)
				return
			}

			next.ServeHTTP(w, r.WithContext(withUser(r.Context(), user)))
		})
	}
}

// RateLimitMiddleware answers 429 once the token bucket is empty. The
// bucket is shared by every request passing through the returned middleware.
func RateLimitMiddleware(rps float64, burst int, logger logging.Logger) func(http.Handler) http.Handler {
	limiter := rate.NewLimiter(rate.Limit(rps), burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				logger.Warn(r.Context(), "too many requests",
					"request_id", middleware.GetReqID(r.Context()), "path", r.URL.Path)
				renderError(w, r, http.StatusTooManyRequests, msgTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequestLogger logs one line per request at info level.
func RequestLogger(logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			logger.Info(r.Context(), "request completed",
				"request_id", middleware.GetReqID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
			)
		})
	}
}
