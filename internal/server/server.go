// Package server exposes the analyser over HTTP.
package server

import (
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/triage-ai/palisade/services/tool_audit/internal/analyser"
	"github.com/triage-ai/palisade/services/tool_audit/internal/auth"
	"github.com/triage-ai/palisade/services/tool_audit/internal/provider"
)

// maxBodyBytes caps an analyse request body.
const maxBodyBytes = 8 << 20

// Registry resolves the registered tools of a project.
type Registry interface {
	ForProject(projectID string) provider.ToolProvider
}

// Dependencies holds shared state injected into all HTTP handlers.
type Dependencies struct {
	Analyser *analyser.Analyser
	Auth     auth.Authenticator
	Registry Registry // nil when no registry database is configured
	Logger   *zap.Logger
}

// ErrorResp is the body of every non-2xx response.
type ErrorResp struct {
	Detail    string `json:"detail"`
	RequestID string `json:"request_id,omitempty"`
}

// RuleInfo describes one registered rule.
type RuleInfo struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

func (d *Dependencies) handleAnalyse(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, r, http.StatusBadRequest, "could not read request body")
		return
	}

	tools, err := provider.ParseToolList(body, false)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	res := d.Analyser.AnalyseTools(tools)
	writeJSON(w, http.StatusOK, res)
}

func (d *Dependencies) handleAnalyseRegistered(w http.ResponseWriter, r *http.Request) {
	if d.Registry == nil {
		writeError(w, r, http.StatusServiceUnavailable, "tool registry is not configured")
		return
	}
	project, ok := auth.ProjectFrom(r.Context())
	if !ok || project.Degraded {
		writeError(w, r, http.StatusServiceUnavailable, "project could not be verified")
		return
	}

	res, err := d.Analyser.Analyse(r.Context(), d.Registry.ForProject(project.ProjectID))
	if err != nil {
		d.Logger.Warn("registered analysis failed",
			zap.String("project_id", project.ProjectID),
			zap.String("request_id", requestIDFrom(r.Context())),
			zap.Error(err),
		)
		writeError(w, r, http.StatusBadGateway, "could not load registered tools")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (d *Dependencies) handleRules(w http.ResponseWriter, _ *http.Request) {
	rules := d.Analyser.Rules()
	out := make([]RuleInfo, 0, len(rules))
	for _, rule := range rules {
		out = append(out, RuleInfo{Code: rule.Code(), Name: rule.Name()})
	}
	writeJSON(w, http.StatusOK, map[string]any{"rules": out})
}
