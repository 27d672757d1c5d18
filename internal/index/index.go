// Package index builds the lookup tables the dependency inferrer and rules
// share for one run.
package index

import (
	"sort"
	"strings"

	"github.com/triage-ai/palisade/services/tool_audit/internal/contract"
)

// Indexes are derived once per run and never mutated.
type Indexes struct {
	// Tools by lower-cased name.
	Tools map[string]*contract.ToolSpec
	// Inputs and Outputs hold every top-level field occurrence across all
	// tools, keyed by lower-cased field name. Shared names keep one entry per
	// tool.
	Inputs  map[string][]*contract.FieldSpec
	Outputs map[string][]*contract.FieldSpec
	// Keywords maps a description token to the tools whose description
	// contains it.
	Keywords map[string]map[string]struct{}
}

// Build indexes tools. It is total: nil or empty input yields empty maps.
func Build(tools []*contract.ToolSpec) *Indexes {
	idx := &Indexes{
		Tools:    make(map[string]*contract.ToolSpec, len(tools)),
		Inputs:   make(map[string][]*contract.FieldSpec),
		Outputs:  make(map[string][]*contract.FieldSpec),
		Keywords: make(map[string]map[string]struct{}),
	}
	for _, t := range tools {
		idx.Tools[t.Key()] = t
		for _, f := range t.Inputs {
			idx.Inputs[f.Key()] = append(idx.Inputs[f.Key()], f)
		}
		for _, f := range t.Outputs {
			idx.Outputs[f.Key()] = append(idx.Outputs[f.Key()], f)
		}
		for tok := range t.DescriptionTokens {
			set, ok := idx.Keywords[tok]
			if !ok {
				set = make(map[string]struct{})
				idx.Keywords[tok] = set
			}
			set[t.Name] = struct{}{}
		}
	}
	return idx
}

// Tool looks a tool up case-insensitively.
func (idx *Indexes) Tool(name string) (*contract.ToolSpec, bool) {
	t, ok := idx.Tools[strings.ToLower(name)]
	return t, ok
}

// ToolsWithToken returns the sorted names of tools whose description
// contains token.
func (idx *Indexes) ToolsWithToken(token string) []string {
	set := idx.Keywords[token]
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// InputTools returns the distinct tool names declaring an input with the
// given name, sorted.
func (idx *Indexes) InputTools(field string) []string {
	seen := make(map[string]struct{})
	for _, f := range idx.Inputs[strings.ToLower(field)] {
		seen[f.Tool] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
