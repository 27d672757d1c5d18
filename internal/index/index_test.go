package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/triage-ai/palisade/services/tool_audit/internal/contract"
)

func normalize(t *testing.T, raw ...contract.RawTool) []*contract.ToolSpec {
	t.Helper()
	tools, issues := contract.NewNormalizer(nil).Normalize(raw)
	require.Empty(t, issues)
	return tools
}

func TestBuild_Empty(t *testing.T) {
	idx := Build(nil)
	assert.Empty(t, idx.Tools)
	assert.Empty(t, idx.Inputs)
	assert.Empty(t, idx.Outputs)
	assert.Empty(t, idx.Keywords)
}

func TestBuild_KeepsDuplicateFieldNames(t *testing.T) {
	location := map[string]any{
		"type":       "object",
		"properties": map[string]any{"Location": map[string]any{"type": "string"}},
	}
	tools := normalize(t,
		contract.RawTool{Name: "Get_Weather", Description: "Weather for a location", InputSchema: location},
		contract.RawTool{Name: "get_time", Description: "Local time for a location", InputSchema: location, OutputSchema: location},
	)
	idx := Build(tools)

	require.Len(t, idx.Inputs["location"], 2)
	assert.Equal(t, "Get_Weather", idx.Inputs["location"][0].Tool)
	assert.Equal(t, "get_time", idx.Inputs["location"][1].Tool)
	assert.Len(t, idx.Outputs["location"], 1)
	assert.Equal(t, []string{"Get_Weather", "get_time"}, idx.InputTools("LOCATION"))

	tool, ok := idx.Tool("GET_WEATHER")
	require.True(t, ok)
	assert.Equal(t, "Get_Weather", tool.Name)

	assert.Equal(t, []string{"Get_Weather", "get_time"}, idx.ToolsWithToken("location"))
	assert.Equal(t, []string{"get_time"}, idx.ToolsWithToken("time"))
	assert.Empty(t, idx.ToolsWithToken("nothing"))
}
