package rules

import (
	"strings"

	"github.com/triage-ai/palisade/services/tool_audit/internal/contract"
)

// actionVerbs are base forms counted by W103. The mutating subset drives
// W108.
var actionVerbs = map[string]bool{
	"create": true, "update": true, "delete": true, "remove": true, "get": true,
	"fetch": true, "retrieve": true, "list": true, "search": true, "find": true,
	"send": true, "upload": true, "download": true, "read": true, "write": true,
	"modify": true, "edit": true, "add": true, "insert": true, "validate": true,
	"check": true, "convert": true, "transform": true, "generate": true,
	"analyze": true, "analyse": true, "summarize": true, "translate": true,
	"compute": true, "calculate": true, "parse": true, "export": true,
	"import": true, "schedule": true, "cancel": true, "notify": true,
	"sync": true, "deploy": true, "publish": true, "archive": true, "move": true,
	"copy": true, "rename": true, "merge": true, "filter": true, "sort": true,
	"format": true, "execute": true, "run": true, "submit": true,
	"transfer": true, "reset": true, "purge": true, "destroy": true,
	"revoke": true, "assign": true, "approve": true, "reject": true,
	"book": true, "pay": true, "charge": true, "refund": true,
}

var mutatingVerbs = map[string]bool{
	"create": true, "update": true, "delete": true, "remove": true,
	"write": true, "modify": true, "edit": true, "add": true, "insert": true,
	"send": true, "upload": true, "cancel": true, "deploy": true,
	"publish": true, "archive": true, "move": true, "rename": true,
	"submit": true, "transfer": true, "reset": true, "purge": true,
	"destroy": true, "revoke": true, "assign": true, "approve": true,
	"reject": true, "book": true, "pay": true, "charge": true, "refund": true,
}

// returnsDataWords in a description imply the tool hands data back (E100).
var returnsDataWords = map[string]bool{
	"return": true, "returns": true, "retrieve": true, "retrieves": true,
	"fetch": true, "fetches": true, "get": true, "gets": true, "list": true,
	"lists": true, "read": true, "reads": true, "lookup": true, "search": true,
	"searches": true, "query": true, "queries": true, "find": true,
	"finds": true, "output": true, "outputs": true, "provide": true,
	"provides": true, "yield": true, "yields": true,
}

// verbBase maps an inflected token to a known action verb: "creates",
// "created" and "creating" all yield "create".
func verbBase(tok string) (string, bool) {
	if actionVerbs[tok] {
		return tok, true
	}
	candidates := []string{}
	switch {
	case strings.HasSuffix(tok, "ies"):
		candidates = append(candidates, tok[:len(tok)-3]+"y")
	case strings.HasSuffix(tok, "es"):
		candidates = append(candidates, tok[:len(tok)-2], tok[:len(tok)-1])
	case strings.HasSuffix(tok, "s"):
		candidates = append(candidates, tok[:len(tok)-1])
	case strings.HasSuffix(tok, "ied"):
		candidates = append(candidates, tok[:len(tok)-3]+"y")
	case strings.HasSuffix(tok, "ed"):
		stem := tok[:len(tok)-2]
		candidates = append(candidates, stem, stem+"e", undouble(stem))
	case strings.HasSuffix(tok, "ing"):
		stem := tok[:len(tok)-3]
		candidates = append(candidates, stem, stem+"e", undouble(stem))
	}
	for _, c := range candidates {
		if actionVerbs[c] {
			return c, true
		}
	}
	return "", false
}

// undouble strips a doubled final consonant: "cancell" -> "cancel".
func undouble(s string) string {
	if n := len(s); n >= 2 && s[n-1] == s[n-2] {
		return s[:n-1]
	}
	return s
}

// descriptionVerbs returns the distinct action verbs of a tool description,
// in first-seen order.
func descriptionVerbs(description string) []string {
	var verbs []string
	seen := make(map[string]bool)
	for _, tok := range contract.Tokenize(description) {
		if base, ok := verbBase(tok); ok && !seen[base] {
			seen[base] = true
			verbs = append(verbs, base)
		}
	}
	return verbs
}

func mutatingVerb(description string) (string, bool) {
	for _, v := range descriptionVerbs(description) {
		if mutatingVerbs[v] {
			return v, true
		}
	}
	return "", false
}
