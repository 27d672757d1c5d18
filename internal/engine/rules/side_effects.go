package rules

import (
	"fmt"

	"github.com/triage-ai/palisade/services/tool_audit/internal/contract"
	"github.com/triage-ai/palisade/services/tool_audit/internal/depgraph"
	"github.com/triage-ai/palisade/services/tool_audit/internal/engine"
)

var idWords = map[string]bool{"id": true, "ids": true, "uuid": true, "guid": true}

// HiddenSideEffectsRule (W108) flags mutating tools whose outputs do not let
// the caller identify what was changed.
type HiddenSideEffectsRule struct{}

func NewHiddenSideEffectsRule() *HiddenSideEffectsRule {
	return &HiddenSideEffectsRule{}
}

func (r *HiddenSideEffectsRule) Code() string { return "W108" }

func (r *HiddenSideEffectsRule) Name() string { return "Hidden Side Effects" }

func (r *HiddenSideEffectsRule) Check(rc *engine.RuleContext) ([]engine.Diagnostic, error) {
	var diags []engine.Diagnostic
	for _, t := range rc.Tools {
		verb, ok := mutatingVerb(t.Description)
		if !ok {
			continue
		}
		entity := depgraph.EntityOf(t.Name)
		if hasIdentifiableOutput(t.Outputs, entity) {
			continue
		}
		diags = append(diags, engine.Diagnostic{
			Code:       r.Code(),
			Severity:   engine.SeverityWarning,
			Tool:       t.Name,
			Message:    fmt.Sprintf("description implies a mutation (%q) but no output identifies the affected entity", verb),
			Suggestion: "Return the id of the changed entity or the entity itself.",
			Context: map[string]any{
				"verb":   verb,
				"entity": entity,
			},
		})
	}
	return diags, nil
}

// isIDName reports whether a field name ends in an identifier word (id, user_id, orderUUID).
func isIDName(name string) bool {
	parts := contract.SplitIdentifier(name)
	return len(parts) > 0 && idWords[parts[len(parts)-1]]
}

// hasIdentifiableOutput looks, at any depth, for an id-like field or a
// field echoing the entity.
func hasIdentifiableOutput(outputs []*contract.FieldSpec, entity string) bool {
	for _, fp := range contract.Flatten(outputs) {
		parts := contract.SplitIdentifier(fp.Field.Name)
		if len(parts) == 0 {
			continue
		}
		if isIDName(fp.Field.Name) {
			return true
		}
		if entity != "" {
			for _, p := range parts {
				if p == entity || p == entity+"s" {
					return true
				}
			}
		}
	}
	return false
}
