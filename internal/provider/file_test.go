package provider

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFileProvider_BareArrayJSON(t *testing.T) {
	path := writeTemp(t, "tools.json", `[
		{"name":"get_user","description":"Get a user","inputSchema":{"type":"object","properties":{"user_id":{"type":"string"}}}},
		{"name":"delete_user","input_schema":{"type":"object"},"output_schema":{"type":"object"}}
	]`)

	tools, err := NewFileProvider(path).ListTools(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(tools) != 2 {
		t.Fatalf("expected 2 tools, got %d", len(tools))
	}
	if tools[0].Name != "get_user" || tools[0].Description != "Get a user" {
		t.Fatalf("unexpected first tool %+v", tools[0])
	}
	schema, ok := tools[0].InputSchema.(map[string]any)
	if !ok || schema["type"] != "object" {
		t.Fatalf("expected decoded input schema, got %#v", tools[0].InputSchema)
	}
	if tools[1].InputSchema == nil || tools[1].OutputSchema == nil {
		t.Fatal("expected snake_case schema keys to be accepted")
	}
}

func TestFileProvider_ToolsListResult(t *testing.T) {
	for name, body := range map[string]string{
		"tools":  `{"tools":[{"name":"a"},{"name":"b"}]}`,
		"result": `{"jsonrpc":"2.0","id":1,"result":{"tools":[{"name":"a"},{"name":"b"}]}}`,
	} {
		t.Run(name, func(t *testing.T) {
			tools, err := NewFileProvider(writeTemp(t, "tools.json", body)).ListTools(context.Background())
			if err != nil {
				t.Fatal(err)
			}
			if len(tools) != 2 || tools[1].Name != "b" {
				t.Fatalf("unexpected tools %+v", tools)
			}
		})
	}
}

func TestFileProvider_YAML(t *testing.T) {
	path := writeTemp(t, "tools.yaml", `
tools:
  - name: search_docs
    description: Search documentation
    inputSchema:
      type: object
      required: [query]
      properties:
        query:
          type: string
          description: Free text query
`)
	tools, err := NewFileProvider(path).ListTools(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(tools) != 1 || tools[0].Name != "search_docs" {
		t.Fatalf("unexpected tools %+v", tools)
	}
	schema, ok := tools[0].InputSchema.(map[string]any)
	if !ok {
		t.Fatalf("expected map schema, got %T", tools[0].InputSchema)
	}
	if _, ok := schema["properties"].(map[string]any)["query"]; !ok {
		t.Fatal("expected query property")
	}
}

func TestFileProvider_NonObjectElementBecomesNamelessTool(t *testing.T) {
	tools, err := ParseToolList([]byte(`[{"name":"ok"}, 42, "text"]`), false)
	if err != nil {
		t.Fatal(err)
	}
	if len(tools) != 3 {
		t.Fatalf("expected 3 tools, got %d", len(tools))
	}
	if tools[1].Name != "" || tools[2].Name != "" {
		t.Fatal("expected non-object elements to have empty names")
	}
}

func TestFileProvider_Malformed(t *testing.T) {
	cases := map[string]string{
		"not json":      `{"tools":`,
		"scalar":        `42`,
		"no tools key":  `{"items":[]}`,
		"tools not arr": `{"tools":{"name":"a"}}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewFileProvider(writeTemp(t, "tools.json", body)).ListTools(context.Background())
			if !errors.Is(err, ErrProvider) {
				t.Fatalf("expected ErrProvider, got %v", err)
			}
			if !errors.Is(err, ErrMalformedResponse) {
				t.Fatalf("expected ErrMalformedResponse, got %v", err)
			}
		})
	}
}

func TestFileProvider_MissingFile(t *testing.T) {
	_, err := NewFileProvider(filepath.Join(t.TempDir(), "absent.json")).ListTools(context.Background())
	if !errors.Is(err, ErrProvider) {
		t.Fatalf("expected ErrProvider, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist cause, got %v", err)
	}
}
