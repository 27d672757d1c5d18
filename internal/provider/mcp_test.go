package provider

import (
	"context"
	"errors"
	"testing"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/triage-ai/palisade/services/tool_audit/internal/contract"
)

func TestResolveTransport(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		spec     string
		wantKind string
		endpoint string
	}{
		{"stdio://node server.js --port 1", "command", ""},
		{"python -m tools_server", "command", ""},
		{"https://tools.example.com/mcp", "streamable", "https://tools.example.com/mcp"},
		{"http+stream://localhost:8080/mcp", "streamable", "http://localhost:8080/mcp"},
		{"https+sse://tools.example.com/sse", "sse", "https://tools.example.com/sse"},
		{"sse://tools.example.com/sse", "sse", "https://tools.example.com/sse"},
		{"sse://http://localhost:9000/events", "sse", "http://localhost:9000/events"},
	}
	for _, tc := range cases {
		t.Run(tc.spec, func(t *testing.T) {
			tr, err := ResolveTransport(ctx, tc.spec)
			if err != nil {
				t.Fatal(err)
			}
			switch v := tr.(type) {
			case *mcpsdk.CommandTransport:
				if tc.wantKind != "command" {
					t.Fatalf("got command transport, want %s", tc.wantKind)
				}
				if v.Command == nil || len(v.Command.Args) == 0 {
					t.Fatal("expected command args")
				}
			case *mcpsdk.StreamableClientTransport:
				if tc.wantKind != "streamable" || v.Endpoint != tc.endpoint {
					t.Fatalf("got streamable %q, want %s %q", v.Endpoint, tc.wantKind, tc.endpoint)
				}
			case *mcpsdk.SSEClientTransport:
				if tc.wantKind != "sse" || v.Endpoint != tc.endpoint {
					t.Fatalf("got sse %q, want %s %q", v.Endpoint, tc.wantKind, tc.endpoint)
				}
			default:
				t.Fatalf("unexpected transport %T", tr)
			}
		})
	}
}

func TestResolveTransport_Errors(t *testing.T) {
	for _, spec := range []string{"", "   ", "stdio://", "http+carrier-pigeon://x/y", "sse://ftp://host/path"} {
		if _, err := ResolveTransport(context.Background(), spec); err == nil {
			t.Fatalf("expected error for %q", spec)
		}
	}
}

func newToolServer(t *testing.T) *mcpsdk.Server {
	t.Helper()
	server := mcpsdk.NewServer(&mcpsdk.Implementation{Name: "tools", Version: "test"}, nil)
	server.AddTool(&mcpsdk.Tool{
		Name:        "get_user",
		Description: "Get a user by id",
		InputSchema: map[string]any{
			"type":     "object",
			"required": []string{"user_id"},
			"properties": map[string]any{
				"user_id": map[string]any{"type": "string"},
			},
		},
		OutputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"email": map[string]any{"type": "string"},
			},
		},
	}, func(context.Context, *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
		return &mcpsdk.CallToolResult{}, nil
	})
	server.AddTool(&mcpsdk.Tool{
		Name:        "delete_user",
		Description: "Delete a user",
		InputSchema: map[string]any{"type": "object"},
	}, func(context.Context, *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
		return &mcpsdk.CallToolResult{}, nil
	})
	return server
}

func TestMCPProvider_ListsAdvertisedTools(t *testing.T) {
	clientTransport, serverTransport := mcpsdk.NewInMemoryTransports()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	serverSession, err := newToolServer(t).Connect(ctx, serverTransport, nil)
	if err != nil {
		t.Fatalf("server connect failed: %v", err)
	}
	defer serverSession.Close()

	p := newMCPProviderWithTransport("in-memory", clientTransport)
	tools, err := p.ListTools(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(tools) != 2 {
		t.Fatalf("expected 2 tools, got %d", len(tools))
	}

	byName := map[string]contract.RawTool{}
	for _, tool := range tools {
		byName[tool.Name] = tool
	}
	get, ok := byName["get_user"]
	if !ok {
		t.Fatal("expected get_user")
	}
	if get.Description != "Get a user by id" || get.InputSchema == nil || get.OutputSchema == nil {
		t.Fatalf("unexpected get_user %+v", get)
	}

	specs, issues := contract.NewNormalizer(nil).Normalize(tools)
	if len(issues) != 0 {
		t.Fatalf("expected clean normalization, got %+v", issues)
	}
	if len(specs) != 2 {
		t.Fatalf("expected 2 specs, got %d", len(specs))
	}
}

func TestMCPProvider_ConnectFailureWrapsErrProvider(t *testing.T) {
	p := &MCPProvider{
		spec:   "broken",
		logger: nil,
		transport: func(context.Context) (mcpsdk.Transport, error) {
			return nil, errors.New("no such server")
		},
	}
	_, err := p.ListTools(context.Background())
	if !errors.Is(err, ErrProvider) {
		t.Fatalf("expected ErrProvider, got %v", err)
	}
}
