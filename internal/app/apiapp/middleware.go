package apiapp

import (
	"net/http"
	"strings"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Segsoto/EstafadoresCR/internal/pkg/anonymize"
	"github.com/Segsoto/EstafadoresCR/internal/services/adminauth"
	ratesvc "github.com/Segsoto/EstafadoresCR/internal/services/rate"
	httperrors "github.com/Segsoto/EstafadoresCR/internal/transport/http/errors"
)

func ApplyMiddlewares(r chiRouter, log *zap.Logger) {
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))
	r.Use(requestLogger(log))
}

// AdminAuthMiddleware guards moderator endpoints with the bearer token
// issued by the admin login.
func AdminAuthMiddleware(auth *adminauth.Service, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if auth == nil || !auth.IsConfigured() {
				httperrors.Write(w, http.StatusInternalServerError, httperrors.APIError{
					Code:    "ADMIN_AUTH_UNAVAILABLE",
					Message: "admin auth is unavailable",
				})
				return
			}

			token, ok := extractBearerToken(r.Header.Get("Authorization"))
			if !ok {
				httperrors.Write(w, http.StatusUnauthorized, httperrors.APIError{
					Code:    "UNAUTHORIZED",
					Message: "authentication required",
				})
				return
			}

			if _, err := auth.ValidateAccessToken(r.Context(), token); err != nil {
				if log != nil {
					log.Debug("admin auth validation failed", zap.Error(err))
				}
				httperrors.Write(w, http.StatusUnauthorized, httperrors.APIError{
					Code:    "UNAUTHORIZED",
					Message: "invalid access token",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitMiddleware applies the general per-client request budget.
// Limiter trouble fails open: a broken redis must not take the public
// API down with it.
func RateLimitMiddleware(limiter *ratesvc.Limiter, log *zap.Logger) func(http.Handler) http.Handler {
	return rateLimitWith(limiter, log, func(limiter *ratesvc.Limiter, r *http.Request) (int64, bool, error) {
		return limiter.AllowRequest(r.Context(), anonymize.IPHash(r.RemoteAddr))
	})
}

// ReportRateLimitMiddleware applies the tighter submission budget.
func ReportRateLimitMiddleware(limiter *ratesvc.Limiter, log *zap.Logger) func(http.Handler) http.Handler {
	return rateLimitWith(limiter, log, func(limiter *ratesvc.Limiter, r *http.Request) (int64, bool, error) {
		return limiter.AllowReport(r.Context(), anonymize.IPHash(r.RemoteAddr))
	})
}

func rateLimitWith(limiter *ratesvc.Limiter, log *zap.Logger, allow func(*ratesvc.Limiter, *http.Request) (int64, bool, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil {
				next.ServeHTTP(w, r)
				return
			}

			retryAfter, allowed, err := allow(limiter, r)
			if err != nil {
				if log != nil {
					log.Warn("rate limiter unavailable, allowing request", zap.Error(err))
				}
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				httperrors.Write(w, http.StatusTooManyRequests, httperrors.RateLimitError{
					Code:          "RATE_LIMITED",
					Message:       "too many requests, try again later",
					RetryAfterSec: retryAfter,
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func extractBearerToken(value string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(value), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return parts[1], true
}

func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			if log != nil {
				log.Info("http_request",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Duration("duration", time.Since(start)),
				)
			}
		})
	}
}

type chiRouter interface {
	Use(middlewares ...func(http.Handler) http.Handler)
}
