package contract

import (
	"strings"
	"unicode"
)

// Tokenize splits free text on non-alphanumeric boundaries and lower-cases
// every token. No stemming is applied.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// TokenSet returns the distinct tokens of text.
func TokenSet(text string) map[string]struct{} {
	tokens := Tokenize(text)
	set := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		set[tok] = struct{}{}
	}
	return set
}

// SplitIdentifier splits an identifier on snake, kebab and camel case
// boundaries: "includeDetails", "include_details" and "include-details" all
// yield ["include", "details"]. Acronyms stay whole ("HTTPServer" yields
// ["http", "server"]).
func SplitIdentifier(name string) []string {
	runes := []rune(name)
	var parts []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			parts = append(parts, strings.ToLower(string(cur)))
			cur = cur[:0]
		}
	}
	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}
		if unicode.IsUpper(r) && len(cur) > 0 {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()
	return parts
}

// CanonicalName folds case and separators so that "userId", "user_id" and
// "USER-ID" compare equal.
func CanonicalName(name string) string {
	return strings.Join(SplitIdentifier(name), "")
}
