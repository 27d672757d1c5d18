// Package semantic decides whether a tool or field belongs to a concept such
// as SENSITIVE or MUTATION. Rules see only the Matcher interface.
package semantic

import (
	"sync"
)

// Matcher is the boolean concept test rules depend on.
type Matcher interface {
	IsConceptMatch(embedding []float32, concept Concept, threshold float64) bool
}

// Table holds one reference vector per seed phrase of every concept.
type Table struct {
	embedder *LexiconEmbedder
	refs     map[Concept][][]float32
}

var (
	defaultTable *Table
	initOnce     sync.Once
)

// InitializeConceptEmbeddings returns the process-wide concept table,
// building it on first use. The table is read-only and shared by every
// Analyser.
func InitializeConceptEmbeddings() *Table {
	initOnce.Do(func() {
		defaultTable = New()
	})
	return defaultTable
}

// New builds an isolated concept table.
func New() *Table {
	emb := NewLexiconEmbedder(conceptSeeds)
	refs := make(map[Concept][][]float32, len(conceptSeeds))
	for concept, phrases := range conceptSeeds {
		for _, p := range phrases {
			if v := emb.EmbedText(p); v != nil {
				refs[concept] = append(refs[concept], v)
			}
		}
	}
	return &Table{embedder: emb, refs: refs}
}

// Embedder returns the embedder whose vectors this table can compare.
func (t *Table) Embedder() *LexiconEmbedder { return t.embedder }

// Similarity is the best cosine similarity between embedding and any
// reference vector of concept. Nil embeddings and unknown concepts score 0.
func (t *Table) Similarity(embedding []float32, concept Concept) float64 {
	if len(embedding) == 0 {
		return 0
	}
	best := 0.0
	for _, ref := range t.refs[concept] {
		score, err := CosineSimilarity(embedding, ref)
		if err != nil {
			continue
		}
		if score > best {
			best = score
		}
	}
	return best
}

// IsConceptMatch reports whether embedding is at least threshold-similar to
// concept. A missing embedding never matches.
func (t *Table) IsConceptMatch(embedding []float32, concept Concept, threshold float64) bool {
	if len(embedding) == 0 {
		return false
	}
	if _, ok := t.refs[concept]; !ok {
		return false
	}
	return t.Similarity(embedding, concept) >= threshold
}
