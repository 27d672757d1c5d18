package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// NewRouter builds the HTTP mux with all routes wired up.
func NewRouter(deps *Dependencies) http.Handler {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	mux := http.NewServeMux()

	// Analysis endpoints (auth required via Bearer tak_ token)
	mux.HandleFunc("POST /v1/analyse", deps.authMiddleware(deps.handleAnalyse))
	mux.HandleFunc("POST /v1/analyse/registered", deps.authMiddleware(deps.handleAnalyseRegistered))

	mux.HandleFunc("GET /v1/rules", deps.handleRules)
	mux.Handle("GET /metrics", promhttp.Handler())

	// Health check
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return requestID(requestLogging(mux, deps.Logger))
}
