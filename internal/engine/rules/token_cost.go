package rules

import (
	"fmt"

	"github.com/triage-ai/palisade/services/tool_audit/internal/contract"
	"github.com/triage-ai/palisade/services/tool_audit/internal/engine"
)

// TokenCostRule (W115) estimates how many prompt tokens a tool's contract
// costs and flags tools above engine.TokenCeiling.
type TokenCostRule struct{}

func NewTokenCostRule() *TokenCostRule {
	return &TokenCostRule{}
}

func (r *TokenCostRule) Code() string { return "W115" }

func (r *TokenCostRule) Name() string { return "Token Cost Estimation" }

func (r *TokenCostRule) Check(rc *engine.RuleContext) ([]engine.Diagnostic, error) {
	var diags []engine.Diagnostic
	for _, t := range rc.Tools {
		est := EstimateTokens(t)
		if est <= engine.TokenCeiling {
			continue
		}
		diags = append(diags, engine.Diagnostic{
			Code:       r.Code(),
			Severity:   engine.SeverityWarning,
			Tool:       t.Name,
			Message:    fmt.Sprintf("estimated contract cost of %d tokens exceeds %d", est, engine.TokenCeiling),
			Suggestion: "Shorten descriptions or remove rarely used parameters.",
			Context: map[string]any{
				"estimated_tokens": est,
				"ceiling":          engine.TokenCeiling,
			},
		})
	}
	return diags, nil
}

// EstimateTokens combines description length, field count and field
// description length, over inputs and outputs at every depth.
func EstimateTokens(t *contract.ToolSpec) int {
	fields := append(contract.Flatten(t.Inputs), contract.Flatten(t.Outputs)...)
	descLen := 0
	for _, fp := range fields {
		descLen += len(fp.Field.Description)
	}
	return len(t.Description)/engine.CharsPerToken +
		engine.TokensPerField*len(fields) +
		descLen/engine.CharsPerToken
}
