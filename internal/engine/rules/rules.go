// Package rules holds the built-in contract checks.
package rules

import "github.com/triage-ai/palisade/services/tool_audit/internal/engine"

// Default returns the built-in rules in their fixed run order. Codes are a
// public contract and are never reassigned.
func Default() []engine.Rule {
	return []engine.Rule{
		NewCircularDependencyRule(),
		NewMissingOutputSchemaRule(),
		NewImplicitInputRule(),
		NewAmbiguityRule(),
		NewSensitiveParameterRule(),
		NewMissingToolDescriptionRule(),
		NewMissingParameterDescriptionRule(),
		NewMissingExamplesRule(),
		NewExampleSchemaRule(),
		NewOverloadedResponsibilityRule(),
		NewOptionalAsRequiredRule(),
		NewMultipleEntryPointsRule(),
		NewHiddenSideEffectsRule(),
		NewOutputNotReusableRule(),
		NewTokenCostRule(),
		NewSchemaDriftRule(),
		NewIdempotencyRule(),
	}
}
