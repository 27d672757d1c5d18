package semantic

import (
	"math"
	"sort"
	"strings"

	"github.com/triage-ai/palisade/services/tool_audit/internal/contract"
)

// OutOfVocabularyWeight scales tokens that are not part of any concept
// lexicon. They still dilute the vector, so "max_tokens" is further from
// "access token" than "token" alone.
const OutOfVocabularyWeight = 0.3

// Field names carry more signal than their free-text descriptions.
const fieldNameWeight = 2

var stopWords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true, "of": true,
	"to": true, "for": true, "by": true, "with": true, "in": true, "on": true,
	"at": true, "from": true, "as": true, "is": true, "are": true, "be": true,
	"it": true, "its": true, "this": true, "that": true, "these": true,
	"your": true, "you": true, "our": true, "we": true, "will": true,
}

// LexiconEmbedder is a deterministic bag-of-words vectorizer. Its
// dimensions are the concept vocabulary plus one trailing dimension that
// collapses every out-of-vocabulary token.
type LexiconEmbedder struct {
	vocab map[string]int
	dims  int
}

// NewLexiconEmbedder builds the vocabulary from seed phrases.
func NewLexiconEmbedder(seeds map[Concept][]string) *LexiconEmbedder {
	set := make(map[string]struct{})
	for _, phrases := range seeds {
		for _, p := range phrases {
			for _, tok := range terms(p) {
				set[tok] = struct{}{}
			}
		}
	}
	words := make([]string, 0, len(set))
	for w := range set {
		words = append(words, w)
	}
	sort.Strings(words)

	vocab := make(map[string]int, len(words))
	for i, w := range words {
		vocab[w] = i
	}
	return &LexiconEmbedder{vocab: vocab, dims: len(words) + 1}
}

// Dimensions is the vector length the embedder produces.
func (e *LexiconEmbedder) Dimensions() int { return e.dims }

// EmbedTool embeds a tool's name and description with equal weight.
func (e *LexiconEmbedder) EmbedTool(name, description string) []float32 {
	return e.embed(weighted{name, 1}, weighted{description, 1})
}

// EmbedField embeds an input field, weighting its name over its description.
func (e *LexiconEmbedder) EmbedField(name, description string) []float32 {
	return e.embed(weighted{name, fieldNameWeight}, weighted{description, 1})
}

// EmbedText embeds free text.
func (e *LexiconEmbedder) EmbedText(text string) []float32 {
	return e.embed(weighted{text, 1})
}

type weighted struct {
	text   string
	weight float64
}

// embed returns nil when the text has no usable terms at all.
func (e *LexiconEmbedder) embed(parts ...weighted) []float32 {
	vec := make([]float64, e.dims)
	var oovSq float64
	seen := false
	for _, p := range parts {
		for _, tok := range terms(p.text) {
			seen = true
			if i, ok := e.vocab[tok]; ok {
				vec[i] += p.weight
				continue
			}
			w := p.weight * OutOfVocabularyWeight
			oovSq += w * w
		}
	}
	if !seen {
		return nil
	}
	vec[e.dims-1] = math.Sqrt(oovSq)

	out := make([]float32, e.dims)
	for i, v := range vec {
		out[i] = float32(v)
	}
	return out
}

// terms splits identifiers and prose into comparable word stems.
func terms(text string) []string {
	raw := contract.SplitIdentifier(text)
	out := raw[:0]
	for _, tok := range raw {
		if len(tok) < 2 || stopWords[tok] {
			continue
		}
		out = append(out, stem(tok))
	}
	return out
}

// stem folds simple English plurals.
func stem(tok string) string {
	switch {
	case len(tok) > 4 && strings.HasSuffix(tok, "ies"):
		return tok[:len(tok)-3] + "y"
	case len(tok) > 3 && strings.HasSuffix(tok, "s") && !strings.HasSuffix(tok, "ss") && !strings.HasSuffix(tok, "us"):
		return tok[:len(tok)-1]
	}
	return tok
}
