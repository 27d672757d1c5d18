// Package provider fetches raw tool lists from the places tools are advertised:
// static slices, files on disk, live MCP servers and the project registry in Postgres.
package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/triage-ai/palisade/services/tool_audit/internal/contract"
)

var (
	// ErrProvider wraps every failure to obtain a tool list. It is fatal to a run.
	ErrProvider = errors.New("provider error")
	// ErrMalformedResponse marks a tool list whose top-level shape is unusable.
	ErrMalformedResponse = errors.New("malformed tool list")
)

// ToolProvider supplies the raw tool list for one analysis run.
type ToolProvider interface {
	// Name identifies the provider in logs and error messages.
	Name() string
	ListTools(ctx context.Context) ([]contract.RawTool, error)
}

// wrap tags err with ErrProvider and the provider name.
func wrap(name string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrProvider) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", ErrProvider, name, err)
}

// StaticProvider returns a fixed tool list.
type StaticProvider struct {
	name  string
	tools []contract.RawTool
}

// NewStaticProvider creates a StaticProvider. An empty name defaults to "static".
func NewStaticProvider(name string, tools []contract.RawTool) *StaticProvider {
	if name == "" {
		name = "static"
	}
	return &StaticProvider{name: name, tools: tools}
}

func (p *StaticProvider) Name() string { return p.name }

// ListTools returns a copy of the configured tools.
func (p *StaticProvider) ListTools(ctx context.Context) ([]contract.RawTool, error) {
	if err := ctx.Err(); err != nil {
		return nil, wrap(p.name, err)
	}
	out := make([]contract.RawTool, len(p.tools))
	copy(out, p.tools)
	return out, nil
}
