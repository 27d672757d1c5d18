package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/triage-ai/palisade/services/tool_audit/internal/auth"
)

// contextKey is an unexported type for context keys to avoid collisions.
type contextKey int

const requestIDCtxKey contextKey = iota

const requestIDHeader = "X-Request-Id"

func requestIDFrom(ctx context.Context) string {
	v, _ := ctx.Value(requestIDCtxKey).(string)
	return v
}

// --- Request id ---

// requestID tags each request with a fresh uuid, echoed in X-Request-Id.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.New().String()
		w.Header().Set(requestIDHeader, id)
		ctx := context.WithValue(r.Context(), requestIDCtxKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// --- Auth middleware ---

// authMiddleware validates Bearer tak_ tokens and injects the authenticated
// project into the request context.
func (d *Dependencies) authMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := auth.ExtractBearerToken(r)
		if err != nil {
			writeError(w, r, http.StatusUnauthorized, "Missing or invalid Authorization header")
			return
		}

		project, err := d.Auth.Authenticate(r.Context(), token)
		if err != nil {
			d.Logger.Warn("auth failed",
				zap.String("request_id", requestIDFrom(r.Context())),
				zap.Error(err),
			)
			if errors.Is(err, auth.ErrAuthUnavailable) {
				writeError(w, r, http.StatusServiceUnavailable, "Authentication temporarily unavailable")
				return
			}
			writeError(w, r, http.StatusUnauthorized, "Invalid API key")
			return
		}

		next(w, r.WithContext(auth.WithProject(r.Context(), project)))
	}
}

// --- JSON helpers ---

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, r *http.Request, status int, detail string) {
	writeJSON(w, status, ErrorResp{Detail: detail, RequestID: requestIDFrom(r.Context())})
}

// --- Request logging ---

func requestLogging(next http.Handler, logger *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		logger.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", sw.status),
			zap.String("request_id", requestIDFrom(r.Context())),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
