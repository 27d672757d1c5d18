package engine

import (
	"testing"
)

func TestAggregate_NoDiagnosticsPass(t *testing.T) {
	agg := Aggregate(nil)
	if agg.Verdict != VerdictPass {
		t.Fatalf("expected pass, got %v", agg.Verdict)
	}
	if agg.Errors == nil || agg.Warnings == nil {
		t.Fatal("expected empty, non-nil partitions")
	}
}

func TestAggregate_WarningsOnly(t *testing.T) {
	agg := Aggregate([]Diagnostic{
		{Code: "W103", Severity: SeverityWarning},
		{Code: "W115", Severity: SeverityWarning},
	})
	if agg.Verdict != VerdictPassWithWarnings {
		t.Fatalf("expected pass-with-warnings, got %v", agg.Verdict)
	}
	if len(agg.Warnings) != 2 || len(agg.Errors) != 0 {
		t.Fatalf("unexpected partition: %d errors, %d warnings", len(agg.Errors), len(agg.Warnings))
	}
}

func TestAggregate_ErrorFails(t *testing.T) {
	agg := Aggregate([]Diagnostic{
		{Code: "W103", Severity: SeverityWarning},
		{Code: "E100", Severity: SeverityError},
	})
	if agg.Verdict != VerdictFail {
		t.Fatalf("expected fail, got %v", agg.Verdict)
	}
	if len(agg.Errors) != 1 || agg.Errors[0].Code != "E100" {
		t.Fatalf("expected E100 in errors, got %+v", agg.Errors)
	}
}

func TestAggregate_UnknownSeverityCountsAsWarning(t *testing.T) {
	agg := Aggregate([]Diagnostic{{Code: "X001", Severity: "notice"}})
	if agg.Verdict != VerdictPassWithWarnings {
		t.Fatalf("expected pass-with-warnings, got %v", agg.Verdict)
	}
}

// Adding any error to a passing or warning result fails it; removing every
// diagnostic passes.
func TestAggregate_Monotonic(t *testing.T) {
	bases := [][]Diagnostic{
		nil,
		{{Code: "W003", Severity: SeverityWarning}},
		{{Code: "W003", Severity: SeverityWarning}, {Code: "W116", Severity: SeverityWarning}},
	}
	for i, base := range bases {
		withErr := append(append([]Diagnostic{}, base...), Diagnostic{Code: "E112", Severity: SeverityError})
		if got := Aggregate(withErr).Verdict; got != VerdictFail {
			t.Fatalf("base %d: expected fail after adding error, got %v", i, got)
		}
		if got := Aggregate(base[:0]).Verdict; got != VerdictPass {
			t.Fatalf("base %d: expected pass with no diagnostics, got %v", i, got)
		}
	}
}
