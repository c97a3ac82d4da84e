package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"runpool/internal/metrics"
	"runpool/internal/models"
	"runpool/internal/security"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	UserContextKey ContextKey = "user"
)

// Middleware holds dependencies for middleware functions
type Middleware struct {
	verifier      *security.TokenVerifier
	limiter       *security.RateLimiter
	triggerSecret string
	logger        *zap.Logger
}

// NewMiddleware creates a new middleware instance. limiter may be nil to
// disable rate limiting.
func NewMiddleware(verifier *security.TokenVerifier, limiter *security.RateLimiter, triggerSecret string, logger *zap.Logger) *Middleware {
	return &Middleware{
		verifier:      verifier,
		limiter:       limiter,
		triggerSecret: triggerSecret,
		logger:        logger,
	}
}

// RequireUser is middleware that requires a valid bearer token
func (m *Middleware) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || raw == "" {
			respondWithError(w, m.logger, http.StatusUnauthorized, ErrUnauthorized, "", nil)
			return
		}

		claims, err := m.verifier.Verify(strings.TrimSpace(raw))
		if err != nil {
			respondWithError(w, m.logger, http.StatusUnauthorized, ErrUnauthorized, "token rejected", err)
			return
		}

		user := &models.User{ID: claims.Subject, Name: claims.Name, Email: claims.Email}
		ctx := context.WithValue(r.Context(), UserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireTriggerSecret guards scheduled endpoints with a shared secret.
// When no secret is configured requests pass through.
func (m *Middleware) RequireTriggerSecret(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.triggerSecret != "" && !security.SecretMatches(security.TriggerSecretFromRequest(r), m.triggerSecret) {
			respondWithError(w, m.logger, http.StatusUnauthorized, ErrUnauthorized, "", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RateLimit rejects bursts per user, or per client IP for anonymous requests
func (m *Middleware) RateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.limiter == nil {
			next.ServeHTTP(w, r)
			return
		}

		key := security.GetClientIP(r)
		if user := GetUserFromContext(r.Context()); user != nil {
			key = "user:" + user.ID
		}
		if !m.limiter.Allow(key) {
			respondWithError(w, m.logger, http.StatusTooManyRequests, ErrTooManyRequests, "", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Logging middleware logs HTTP requests and records request metrics
func Logging(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			route := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			elapsed := time.Since(start)

			metrics.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
			metrics.HTTPDuration.WithLabelValues(r.Method, route).Observe(elapsed.Seconds())

			logger.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", status),
				zap.Duration("duration", elapsed),
				zap.String("request_id", middleware.GetReqID(r.Context())))
		})
	}
}

// GetUserFromContext retrieves the user from the request context
func GetUserFromContext(ctx context.Context) *models.User {
	user, ok := ctx.Value(UserContextKey).(*models.User)
	if !ok {
		return nil
	}
	return user
}
