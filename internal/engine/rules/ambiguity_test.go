package rules

import (
	"testing"

	"github.com/triage-ai/palisade/services/tool_audit/internal/contract"
)

func TestAmbiguity_IdenticalDescriptionsFireForBoth(t *testing.T) {
	rc := newContext(t,
		contract.RawTool{Name: "get_user_info", Description: "Get user information"},
		contract.RawTool{Name: "fetch_user", Description: "Get user information"},
		contract.RawTool{Name: "get_weather", Description: "Current weather for a city"},
	)
	diags := check(t, NewAmbiguityRule(), rc)
	if len(diags) != 2 {
		t.Fatalf("expected 2 E110, got %d", len(diags))
	}
	if diags[0].Tool != "get_user_info" || diags[1].Tool != "fetch_user" {
		t.Fatalf("expected one diagnostic per tool, got %s and %s", diags[0].Tool, diags[1].Tool)
	}
	if diags[0].Context["other_tool"] != "fetch_user" {
		t.Fatalf("unexpected context: %+v", diags[0].Context)
	}
}

func TestAmbiguity_DistinctDescriptionsPass(t *testing.T) {
	rc := newContext(t,
		contract.RawTool{Name: "get_user_info", Description: "Get user information"},
		contract.RawTool{Name: "fetch_user", Description: "Get detailed user profile with preferences"},
	)
	if diags := check(t, NewAmbiguityRule(), rc); len(diags) != 0 {
		t.Fatalf("expected no E110, got %+v", diags)
	}
}

func TestAmbiguity_EmptyDescriptionsIgnored(t *testing.T) {
	rc := newContext(t, contract.RawTool{Name: "a"}, contract.RawTool{Name: "b"})
	if diags := check(t, NewAmbiguityRule(), rc); len(diags) != 0 {
		t.Fatalf("expected no E110 for empty descriptions, got %+v", diags)
	}
}

func TestJaccard(t *testing.T) {
	a := contract.TokenSet("get user information")
	b := contract.TokenSet("get detailed user profile with preferences")
	if got := jaccard(a, b); got < 0.28 || got > 0.29 {
		t.Fatalf("expected 2/7, got %f", got)
	}
	if got := jaccard(a, a); got != 1 {
		t.Fatalf("expected 1, got %f", got)
	}
}
