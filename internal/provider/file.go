package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/triage-ai/palisade/services/tool_audit/internal/contract"
)

// FileProvider reads a tool list from a JSON or YAML file. The file holds either a
// bare array of tools or an MCP tools/list result ({"tools": [...]}, optionally under "result").
type FileProvider struct {
	path string
}

// NewFileProvider creates a FileProvider for path.
func NewFileProvider(path string) *FileProvider {
	return &FileProvider{path: path}
}

func (p *FileProvider) Name() string { return "file:" + p.path }

func (p *FileProvider) ListTools(ctx context.Context) ([]contract.RawTool, error) {
	if err := ctx.Err(); err != nil {
		return nil, wrap(p.Name(), err)
	}
	data, err := os.ReadFile(p.path)
	if err != nil {
		return nil, wrap(p.Name(), err)
	}
	tools, err := ParseToolList(data, isYAMLPath(p.path))
	if err != nil {
		return nil, wrap(p.Name(), err)
	}
	return tools, nil
}

func isYAMLPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// ParseToolList decodes a tool list document. Elements that are not objects become
// nameless tools so the normalizer reports them instead of the whole list failing.
func ParseToolList(data []byte, asYAML bool) ([]contract.RawTool, error) {
	var doc any
	if asYAML {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
		}
	} else {
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
		}
	}

	items, ok := toolArray(doc)
	if !ok {
		return nil, fmt.Errorf("%w: expected an array of tools or an object with a \"tools\" array", ErrMalformedResponse)
	}

	tools := make([]contract.RawTool, 0, len(items))
	for _, item := range items {
		tools = append(tools, rawToolFrom(item))
	}
	return tools, nil
}

func toolArray(doc any) ([]any, bool) {
	switch v := doc.(type) {
	case []any:
		return v, true
	case map[string]any:
		if list, ok := v["tools"].([]any); ok {
			return list, true
		}
		if result, ok := v["result"].(map[string]any); ok {
			list, ok := result["tools"].([]any)
			return list, ok
		}
	}
	return nil, false
}

func rawToolFrom(item any) contract.RawTool {
	m, ok := item.(map[string]any)
	if !ok {
		return contract.RawTool{}
	}
	name, _ := m["name"].(string)
	desc, _ := m["description"].(string)
	return contract.RawTool{
		Name:         name,
		Description:  desc,
		InputSchema:  firstPresent(m, "inputSchema", "input_schema"),
		OutputSchema: firstPresent(m, "outputSchema", "output_schema"),
	}
}

func firstPresent(m map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			return v
		}
	}
	return nil
}
