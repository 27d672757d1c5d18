package rules

import (
	"testing"

	"github.com/triage-ai/palisade/services/tool_audit/internal/contract"
)

func TestOverloadedResponsibility_TooManyVerbs(t *testing.T) {
	rc := newContext(t, contract.RawTool{
		Name:        "manage_users",
		Description: "Creates, updates, deletes and lists users.",
	})
	diags := check(t, NewOverloadedResponsibilityRule(), rc)
	if len(diags) != 1 {
		t.Fatalf("expected 1 W103, got %d", len(diags))
	}
	verbs := diags[0].Context["verbs"].([]string)
	want := []string{"create", "update", "delete", "list"}
	for i := range want {
		if verbs[i] != want[i] {
			t.Fatalf("expected verbs %v, got %v", want, verbs)
		}
	}
}

func TestOverloadedResponsibility_RepeatedVerbCountsOnce(t *testing.T) {
	rc := newContext(t, contract.RawTool{
		Name:        "sync_calendar",
		Description: "Syncs the calendar, then syncing again creates and cancels events.",
	})
	if diags := check(t, NewOverloadedResponsibilityRule(), rc); len(diags) != 0 {
		t.Fatalf("expected 3 distinct verbs to pass, got %+v", diags)
	}
}

func TestVerbBase(t *testing.T) {
	cases := map[string]string{
		"creates":   "create",
		"created":   "create",
		"creating":  "create",
		"searches":  "search",
		"cancelled": "cancel",
		"running":   "run",
		"copies":    "copy",
		"list":      "list",
	}
	for in, want := range cases {
		got, ok := verbBase(in)
		if !ok || got != want {
			t.Fatalf("verbBase(%q) = %q, %v; want %q", in, got, ok, want)
		}
	}
	if _, ok := verbBase("weather"); ok {
		t.Fatal("expected weather not to be a verb")
	}
}
