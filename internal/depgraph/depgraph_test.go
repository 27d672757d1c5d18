package depgraph

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/triage-ai/palisade/services/tool_audit/internal/contract"
	"github.com/triage-ai/palisade/services/tool_audit/internal/index"
)

func schema(fields map[string]string, required ...any) map[string]any {
	props := map[string]any{}
	for name, typ := range fields {
		props[name] = map[string]any{"type": typ}
	}
	s := map[string]any{"type": "object", "properties": props}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

func infer(t *testing.T, raw ...contract.RawTool) []Dependency {
	t.Helper()
	tools, issues := contract.NewNormalizer(nil).Normalize(raw)
	require.Empty(t, issues)
	return Infer(tools, index.Build(tools))
}

func TestInfer_MatchKinds(t *testing.T) {
	deps := infer(t,
		contract.RawTool{
			Name:         "create_user",
			OutputSchema: schema(map[string]string{"id": "string", "accountId": "string"}),
		},
		contract.RawTool{
			Name:        "get_user",
			InputSchema: schema(map[string]string{"user_id": "string", "account_id": "string"}, "user_id"),
		},
		contract.RawTool{
			Name:         "render",
			OutputSchema: schema(map[string]string{"output": "string"}),
		},
		contract.RawTool{
			Name:        "summarize",
			InputSchema: schema(map[string]string{"input": "string"}, "input"),
		},
	)

	require.Len(t, deps, 3)
	assert.Equal(t, Dependency{"create_user", "accountId", "get_user", "account_id", 0.9, MatchNormalized}, deps[0])
	assert.Equal(t, Dependency{"create_user", "id", "get_user", "user_id", 0.8, MatchEntityID}, deps[1])
	assert.Equal(t, Dependency{"render", "output", "summarize", "input", 0.75, MatchPayload}, deps[2])
}

func TestInfer_TypeCompatibility(t *testing.T) {
	deps := infer(t,
		contract.RawTool{
			Name:         "a",
			OutputSchema: schema(map[string]string{"count": "integer", "label": "string", "score": "number", "ref": "string"}),
		},
		contract.RawTool{
			Name:        "b",
			InputSchema: schema(map[string]string{"count": "number", "label": "number", "score": "number", "ref": "boolean"}),
		},
	)
	require.Len(t, deps, 2)
	assert.Equal(t, "count", deps[0].ToField)
	assert.InDelta(t, 0.85, deps[0].Confidence, 1e-9)
	assert.Equal(t, "score", deps[1].ToField)
	assert.InDelta(t, 1.0, deps[1].Confidence, 1e-9)
	assert.Equal(t, MatchExact, deps[1].Match)
}

func TestInfer_NoSelfEdgesAndDedup(t *testing.T) {
	deps := infer(t,
		contract.RawTool{
			Name:         "echo",
			InputSchema:  schema(map[string]string{"text": "string"}),
			OutputSchema: schema(map[string]string{"text": "string"}),
		},
		contract.RawTool{
			Name:         "source",
			OutputSchema: schema(map[string]string{"user_id": "string", "userId": "string"}),
		},
		contract.RawTool{
			Name:        "sink",
			InputSchema: schema(map[string]string{"userId": "string"}),
		},
	)
	require.Len(t, deps, 1)
	assert.Equal(t, "source", deps[0].FromTool)
	assert.Equal(t, "userId", deps[0].FromField)
	assert.Equal(t, 1.0, deps[0].Confidence)
}

func TestInfer_UndeclaredTypeIsCompatible(t *testing.T) {
	deps := infer(t,
		contract.RawTool{Name: "a", OutputSchema: map[string]any{"properties": map[string]any{"token": map[string]any{}}}},
		contract.RawTool{Name: "b", InputSchema: schema(map[string]string{"token": "string"})},
	)
	require.Len(t, deps, 1)
	assert.InDelta(t, 0.85, deps[0].Confidence, 1e-9)
}

func TestInfer_Deterministic(t *testing.T) {
	raw := []contract.RawTool{
		{Name: "x", OutputSchema: schema(map[string]string{"data": "string", "id": "string"})},
		{Name: "y", InputSchema: schema(map[string]string{"data": "string", "x_id": "string"}), OutputSchema: schema(map[string]string{"result": "string"})},
		{Name: "z", InputSchema: schema(map[string]string{"content": "string", "data": "string"})},
	}
	first := infer(t, raw...)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, infer(t, raw...))
	}
}

func TestEntityOf(t *testing.T) {
	assert.Equal(t, "user", EntityOf("create_user"))
	assert.Equal(t, "user", EntityOf("listUsers"))
	assert.Equal(t, "user", EntityOf("get_user_by_id"))
	assert.Equal(t, "category", EntityOf("list_categories"))
	assert.Equal(t, "", EntityOf("get"))
}

func edge(from, to string, conf float64) Dependency {
	return Dependency{FromTool: from, FromField: "out", ToTool: to, ToField: "in", Confidence: conf}
}

func TestGraph_LinearChainHasNoCycle(t *testing.T) {
	g := NewGraph([]Dependency{edge("a", "b", 1), edge("b", "c", 1)}, 0.7)
	assert.Equal(t, 3, g.Len())
	assert.True(t, g.HasEdge("A", "b"))
	assert.False(t, g.HasEdge("b", "a"))
	assert.Empty(t, g.FindCycles())
}

func TestGraph_FindsAndDedupesCycles(t *testing.T) {
	g := NewGraph([]Dependency{
		edge("c", "a", 0.9),
		edge("a", "b", 0.9),
		edge("b", "c", 0.9),
		edge("b", "c", 0.8),
		edge("d", "d", 1),
	}, 0.7)
	cycles := g.FindCycles()
	require.Len(t, cycles, 2)
	assert.Equal(t, []string{"a", "b", "c"}, cycles[0])
	assert.Equal(t, []string{"d"}, cycles[1])
}

func TestGraph_FloorDropsWeakEdges(t *testing.T) {
	g := NewGraph([]Dependency{edge("a", "b", 0.9), edge("b", "a", 0.69)}, 0.7)
	assert.False(t, g.HasCycle())
	g = NewGraph([]Dependency{edge("a", "b", 0.9), edge("b", "a", 0.7)}, 0.7)
	assert.True(t, g.HasCycle())
}

// reachesItself is an independent oracle: a directed graph has a cycle iff
// some node reaches itself in its transitive closure.
func reachesItself(n int, edges [][2]int) bool {
	reach := make([][]bool, n)
	for i := range reach {
		reach[i] = make([]bool, n)
	}
	for _, e := range edges {
		reach[e[0]][e[1]] = true
	}
	for k := 0; k < n; k++ {
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				if reach[i][k] && reach[k][j] {
					reach[i][j] = true
				}
			}
		}
	}
	for i := 0; i < n; i++ {
		if reach[i][i] {
			return true
		}
	}
	return false
}

func TestGraph_CycleDetectionMatchesOracle(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 300; trial++ {
		n := 2 + rng.Intn(6)
		var deps []Dependency
		var strong [][2]int
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				if rng.Float64() > 0.25 {
					continue
				}
				conf := 0.5 + rng.Float64()*0.5
				deps = append(deps, edge(fmt.Sprintf("t%d", i), fmt.Sprintf("t%d", j), conf))
				if conf >= 0.7 {
					strong = append(strong, [2]int{i, j})
				}
			}
		}
		g := NewGraph(deps, 0.7)
		assert.Equal(t, reachesItself(n, strong), g.HasCycle(), "trial %d", trial)
	}
}
