// Package depgraph infers likely data flow between tools (one tool's output
// feeding another tool's input) and detects cycles in that flow.
package depgraph

import (
	"sort"
	"strings"

	"github.com/triage-ai/palisade/services/tool_audit/internal/contract"
	"github.com/triage-ai/palisade/services/tool_audit/internal/index"
)

// MatchKind records how an output name was paired with an input name.
type MatchKind string

const (
	MatchExact      MatchKind = "exact"
	MatchNormalized MatchKind = "normalized"
	MatchEntityID   MatchKind = "entity_id"
	MatchPayload    MatchKind = "payload"
)

var nameScores = map[MatchKind]float64{
	MatchExact:      1.0,
	MatchNormalized: 0.9,
	MatchEntityID:   0.8,
	MatchPayload:    0.75,
}

// Type compatibility multipliers.
const (
	typeScoreSame       = 1.0
	typeScoreCompatible = 0.85
)

// MinConfidence is the lowest confidence an inferred edge may carry.
const MinConfidence = 0.5

var (
	payloadOutputs = []string{"output", "result", "data", "content", "value", "payload"}
	payloadInputs  = []string{"input", "data", "content", "value", "payload"}
)

// verbs that never name an entity in a tool name like "create_user".
var toolVerbs = map[string]bool{
	"get": true, "list": true, "create": true, "update": true, "delete": true,
	"fetch": true, "find": true, "search": true, "add": true, "remove": true,
	"set": true, "new": true, "read": true, "write": true, "retrieve": true,
	"lookup": true, "upsert": true, "patch": true, "put": true, "post": true,
	"register": true, "make": true, "query": true, "describe": true, "by": true, "id": true,
}

// Dependency is an inferred edge from an output of FromTool to an input of
// ToTool.
type Dependency struct {
	FromTool   string    `json:"from_tool"`
	FromField  string    `json:"from_field"`
	ToTool     string    `json:"to_tool"`
	ToField    string    `json:"to_field"`
	Confidence float64   `json:"confidence"`
	Match      MatchKind `json:"match"`
}

type edgeKey struct {
	from, to, field string
}

// Infer pairs every top-level output with type-compatible top-level inputs of
// other tools. Edges sharing (FromTool, ToTool, ToField) collapse to the most
// confident one. The result is sorted and deterministic.
func Infer(tools []*contract.ToolSpec, idx *index.Indexes) []Dependency {
	names := make([]string, 0, len(idx.Inputs))
	for name := range idx.Inputs {
		names = append(names, name)
	}
	sort.Strings(names)
	canonical := make(map[string][]*contract.FieldSpec)
	for _, name := range names {
		for _, f := range idx.Inputs[name] {
			c := contract.CanonicalName(f.Name)
			canonical[c] = append(canonical[c], f)
		}
	}

	best := make(map[edgeKey]Dependency)
	var order []edgeKey
	consider := func(from *contract.ToolSpec, out, in *contract.FieldSpec, kind MatchKind) {
		if strings.EqualFold(in.Tool, from.Name) {
			return
		}
		typeScore, ok := TypeCompatibility(out.Type, in.Type)
		if !ok {
			return
		}
		conf := nameScores[kind] * typeScore
		if conf < MinConfidence {
			return
		}
		key := edgeKey{from.Key(), strings.ToLower(in.Tool), in.Key()}
		prev, seen := best[key]
		if !seen {
			order = append(order, key)
		}
		if !seen || conf > prev.Confidence {
			best[key] = Dependency{
				FromTool:   from.Name,
				FromField:  out.Name,
				ToTool:     in.Tool,
				ToField:    in.Name,
				Confidence: conf,
				Match:      kind,
			}
		}
	}

	for _, from := range tools {
		entity := EntityOf(from.Name)
		for _, out := range from.Outputs {
			for _, in := range idx.Inputs[out.Key()] {
				consider(from, out, in, MatchExact)
			}
			for _, in := range canonical[contract.CanonicalName(out.Name)] {
				if in.Key() != out.Key() {
					consider(from, out, in, MatchNormalized)
				}
			}
			if entity != "" && contract.CanonicalName(out.Name) == "id" {
				for _, in := range canonical[entity+"id"] {
					consider(from, out, in, MatchEntityID)
				}
			}
			if contains(payloadOutputs, out.Key()) {
				for _, name := range payloadInputs {
					for _, in := range idx.Inputs[name] {
						consider(from, out, in, MatchPayload)
					}
				}
			}
		}
	}

	deps := make([]Dependency, 0, len(order))
	for _, k := range order {
		deps = append(deps, best[k])
	}
	SortDependencies(deps)
	return deps
}

// SortDependencies orders edges by source tool, target tool, target field
// and source field.
func SortDependencies(deps []Dependency) {
	sort.SliceStable(deps, func(i, j int) bool {
		a, b := deps[i], deps[j]
		if x, y := strings.ToLower(a.FromTool), strings.ToLower(b.FromTool); x != y {
			return x < y
		}
		if x, y := strings.ToLower(a.ToTool), strings.ToLower(b.ToTool); x != y {
			return x < y
		}
		if x, y := strings.ToLower(a.ToField), strings.ToLower(b.ToField); x != y {
			return x < y
		}
		return strings.ToLower(a.FromField) < strings.ToLower(b.FromField)
	})
}

// TypeCompatibility scores how well an output type fits an input type.
// Disjoint declared types are incompatible.
func TypeCompatibility(out, in contract.FieldType) (float64, bool) {
	a, b := out.NonNull(), in.NonNull()
	if len(a) == 0 || len(b) == 0 {
		return typeScoreCompatible, true
	}
	if a.Equal(b) {
		return typeScoreSame, true
	}
	for _, k := range a {
		if b.Has(k) {
			return typeScoreCompatible, true
		}
	}
	numeric := func(t contract.FieldType) bool {
		return t.Has(contract.KindNumber) || t.Has(contract.KindInteger)
	}
	if numeric(a) && numeric(b) {
		return typeScoreCompatible, true
	}
	return 0, false
}

// EntityOf guesses the entity a tool operates on from its name:
// "create_user" and "list_users" both name "user".
func EntityOf(toolName string) string {
	parts := contract.SplitIdentifier(toolName)
	for i := len(parts) - 1; i >= 0; i-- {
		p := parts[i]
		if toolVerbs[p] {
			continue
		}
		return singular(p)
	}
	return ""
}

func singular(word string) string {
	switch {
	case len(word) > 4 && strings.HasSuffix(word, "ies"):
		return word[:len(word)-3] + "y"
	case len(word) > 3 && strings.HasSuffix(word, "s") && !strings.HasSuffix(word, "ss"):
		return word[:len(word)-1]
	}
	return word
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Inbound groups edges by lower-cased "tool\x00field" of their target.
func Inbound(deps []Dependency) map[string][]Dependency {
	m := make(map[string][]Dependency, len(deps))
	for _, d := range deps {
		k := FieldKey(d.ToTool, d.ToField)
		m[k] = append(m[k], d)
	}
	return m
}

// FieldKey is the case-insensitive key of a tool's field.
func FieldKey(tool, field string) string {
	return strings.ToLower(tool) + "\x00" + strings.ToLower(field)
}
