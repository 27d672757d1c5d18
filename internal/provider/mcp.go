package provider

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/triage-ai/palisade/services/tool_audit/internal/contract"
)

const (
	stdioPrefix = "stdio://"
	ssePrefix   = "sse://"

	clientName    = "tool-audit"
	clientVersion = "1.0.0"
)

// MCPProvider lists the tools advertised by a live MCP server. The session is opened
// for one ListTools call and closed before returning.
type MCPProvider struct {
	spec      string
	logger    *zap.Logger
	transport func(ctx context.Context) (mcpsdk.Transport, error)
}

// NewMCPProvider creates a provider for a server spec:
//
//	stdio://<command args> or a bare command   subprocess over stdio
//	http(s)://host/path or http+stream://...   streamable HTTP
//	sse://host/path or http+sse://...          server-sent events
func NewMCPProvider(spec string, logger *zap.Logger) *MCPProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &MCPProvider{spec: strings.TrimSpace(spec), logger: logger}
	p.transport = func(ctx context.Context) (mcpsdk.Transport, error) {
		return ResolveTransport(ctx, p.spec)
	}
	return p
}

// newMCPProviderWithTransport creates a provider over a prepared transport (for testing).
func newMCPProviderWithTransport(spec string, t mcpsdk.Transport) *MCPProvider {
	return &MCPProvider{
		spec:   spec,
		logger: zap.NewNop(),
		transport: func(context.Context) (mcpsdk.Transport, error) {
			return t, nil
		},
	}
}

func (p *MCPProvider) Name() string { return "mcp:" + p.spec }

func (p *MCPProvider) ListTools(ctx context.Context) ([]contract.RawTool, error) {
	transport, err := p.transport(ctx)
	if err != nil {
		return nil, wrap(p.Name(), err)
	}

	client := mcpsdk.NewClient(&mcpsdk.Implementation{Name: clientName, Version: clientVersion}, &mcpsdk.ClientOptions{})
	session, err := client.Connect(ctx, transport, nil)
	if err != nil {
		return nil, wrap(p.Name(), fmt.Errorf("connect: %w", err))
	}
	defer func() {
		if cerr := session.Close(); cerr != nil {
			p.logger.Debug("mcp session close failed", zap.String("provider", p.Name()), zap.Error(cerr))
		}
	}()

	if res := session.InitializeResult(); res != nil && res.ServerInfo != nil {
		p.logger.Debug("mcp session initialized",
			zap.String("server", res.ServerInfo.Name),
			zap.String("server_version", res.ServerInfo.Version),
		)
	}

	var tools []contract.RawTool
	for tool, err := range session.Tools(ctx, nil) {
		if err != nil {
			return nil, wrap(p.Name(), fmt.Errorf("list tools: %w", err))
		}
		if tool == nil {
			tools = append(tools, contract.RawTool{})
			continue
		}
		tools = append(tools, contract.RawTool{
			Name:         tool.Name,
			Description:  tool.Description,
			InputSchema:  tool.InputSchema,
			OutputSchema: tool.OutputSchema,
		})
	}
	return tools, nil
}

// ResolveTransport maps a server spec to an MCP client transport.
func ResolveTransport(ctx context.Context, spec string) (mcpsdk.Transport, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, errors.New("mcp server spec is empty")
	}

	lowered := strings.ToLower(spec)
	switch {
	case strings.HasPrefix(lowered, stdioPrefix):
		return commandTransport(ctx, spec[len(stdioPrefix):])
	case strings.HasPrefix(lowered, ssePrefix):
		endpoint, err := httpEndpoint(spec[len(ssePrefix):], true)
		if err != nil {
			return nil, fmt.Errorf("invalid SSE endpoint: %w", err)
		}
		return &mcpsdk.SSEClientTransport{Endpoint: endpoint}, nil
	}

	if u, err := url.Parse(spec); err == nil && u.Scheme != "" {
		scheme := strings.ToLower(u.Scheme)
		base, hint, hinted := strings.Cut(scheme, "+")
		if base == "http" || base == "https" {
			u.Scheme = base
			endpoint, err := httpEndpoint(u.String(), false)
			if err != nil {
				return nil, fmt.Errorf("invalid endpoint: %w", err)
			}
			if !hinted {
				return &mcpsdk.StreamableClientTransport{Endpoint: endpoint}, nil
			}
			switch hint {
			case "sse":
				return &mcpsdk.SSEClientTransport{Endpoint: endpoint}, nil
			case "stream", "streamable", "http", "json":
				return &mcpsdk.StreamableClientTransport{Endpoint: endpoint}, nil
			default:
				return nil, fmt.Errorf("unsupported HTTP transport hint %q", hint)
			}
		}
	}

	return commandTransport(ctx, spec)
}

func commandTransport(ctx context.Context, cmdline string) (mcpsdk.Transport, error) {
	parts := strings.Fields(cmdline)
	if len(parts) == 0 {
		return nil, errors.New("mcp stdio command is empty")
	}
	cmd := exec.CommandContext(ctx, parts[0], parts[1:]...) // #nosec G204
	return &mcpsdk.CommandTransport{Command: cmd}, nil
}

func httpEndpoint(raw string, guessScheme bool) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.New("endpoint is empty")
	}
	if guessScheme && !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", errors.New("missing host")
	}
	u.Scheme = scheme
	return u.String(), nil
}
