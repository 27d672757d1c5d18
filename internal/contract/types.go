// Package contract holds the canonical, provider-independent view of a tool
// list: raw descriptors as fetched, and the normalized ToolSpec/FieldSpec
// model every later pipeline stage reads.
package contract

import (
	"strings"
)

// RawTool is a tool descriptor as supplied by a tool provider. Schemas are
// loosely typed: decoded JSON, json.RawMessage, []byte or any value that
// marshals to a JSON object.
type RawTool struct {
	Name         string `json:"name" yaml:"name"`
	Description  string `json:"description" yaml:"description"`
	InputSchema  any    `json:"inputSchema,omitempty" yaml:"inputSchema"`
	OutputSchema any    `json:"outputSchema,omitempty" yaml:"outputSchema"`
}

// Kind is a single JSON schema type.
type Kind string

const (
	KindString  Kind = "string"
	KindNumber  Kind = "number"
	KindInteger Kind = "integer"
	KindBoolean Kind = "boolean"
	KindObject  Kind = "object"
	KindArray   Kind = "array"
	KindNull    Kind = "null"
)

var kindOrder = []Kind{KindString, KindNumber, KindInteger, KindBoolean, KindObject, KindArray, KindNull}

// ParseKind maps a schema type name to a Kind.
func ParseKind(s string) (Kind, bool) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range kindOrder {
		if k == known {
			return k, true
		}
	}
	return "", false
}

// FieldType is an ordered set of kinds. More than one kind is a union; an
// empty FieldType means the schema declared no type.
type FieldType []Kind

// NewFieldType returns the canonical (deduplicated, ordered) type for kinds.
func NewFieldType(kinds ...Kind) FieldType {
	seen := make(map[Kind]bool, len(kinds))
	for _, k := range kinds {
		seen[k] = true
	}
	t := make(FieldType, 0, len(seen))
	for _, k := range kindOrder {
		if seen[k] {
			t = append(t, k)
		}
	}
	return t
}

func (t FieldType) Has(k Kind) bool {
	for _, have := range t {
		if have == k {
			return true
		}
	}
	return false
}

// Declared reports whether the schema named at least one kind.
func (t FieldType) Declared() bool { return len(t) > 0 }

func (t FieldType) IsUnion() bool { return len(t) > 1 }

// NonNull drops the null member of a union.
func (t FieldType) NonNull() FieldType {
	out := make(FieldType, 0, len(t))
	for _, k := range t {
		if k != KindNull {
			out = append(out, k)
		}
	}
	return out
}

// Structured reports whether any member is an object or array.
func (t FieldType) Structured() bool {
	return t.Has(KindObject) || t.Has(KindArray)
}

func (t FieldType) Equal(o FieldType) bool {
	if len(t) != len(o) {
		return false
	}
	for i := range t {
		if t[i] != o[i] {
			return false
		}
	}
	return true
}

func (t FieldType) String() string {
	if len(t) == 0 {
		return "any"
	}
	parts := make([]string, len(t))
	for i, k := range t {
		parts[i] = string(k)
	}
	return strings.Join(parts, "|")
}

// FieldSpec is one input or output parameter. For outputs, Required means
// the field is always present in a response.
type FieldSpec struct {
	Tool        string         `json:"tool"`
	Name        string         `json:"name"`
	Type        FieldType      `json:"type"`
	Required    bool           `json:"required"`
	Description string         `json:"description,omitempty"`
	Example     any            `json:"example,omitempty"`
	HasExample  bool           `json:"has_example"`
	Nullable    bool           `json:"nullable,omitempty"`
	Properties  []*FieldSpec   `json:"properties,omitempty"`
	Schema      map[string]any `json:"-"`
}

// Key is the case-insensitive lookup key of the field name.
func (f *FieldSpec) Key() string { return strings.ToLower(f.Name) }

// ToolSpec is one normalized tool. It is not mutated after normalization.
type ToolSpec struct {
	Name                 string               `json:"name"`
	Description          string               `json:"description"`
	Inputs               []*FieldSpec         `json:"inputs"`
	Outputs              []*FieldSpec         `json:"outputs"`
	DescriptionTokens    map[string]struct{}  `json:"-"`
	DescriptionEmbedding []float32            `json:"-"`
	InputEmbeddings      map[string][]float32 `json:"-"`
}

// Key is the case-insensitive lookup key of the tool name.
func (t *ToolSpec) Key() string { return strings.ToLower(t.Name) }

// HasToken reports whether the description contains token (lower-case).
func (t *ToolSpec) HasToken(token string) bool {
	_, ok := t.DescriptionTokens[token]
	return ok
}

// Input returns the top-level input with the given name, compared
// case-insensitively.
func (t *ToolSpec) Input(name string) *FieldSpec {
	for _, f := range t.Inputs {
		if strings.EqualFold(f.Name, name) {
			return f
		}
	}
	return nil
}

// FieldPath pairs a field with its dotted path from the top-level schema.
type FieldPath struct {
	Path  string
	Field *FieldSpec
}

// Flatten walks fields depth first, parents before children.
func Flatten(fields []*FieldSpec) []FieldPath {
	var out []FieldPath
	var walk func(prefix string, fs []*FieldSpec)
	walk = func(prefix string, fs []*FieldSpec) {
		for _, f := range fs {
			path := f.Name
			if prefix != "" {
				path = prefix + "." + f.Name
			}
			out = append(out, FieldPath{Path: path, Field: f})
			walk(path, f.Properties)
		}
	}
	walk("", fields)
	return out
}

// IssueKind classifies a recovered normalization problem.
type IssueKind string

const (
	// IssueToolDropped means the whole tool was left out of the run.
	IssueToolDropped IssueKind = "tool_dropped"
	// IssueFieldSkipped means one property was left out; the tool was kept.
	IssueFieldSkipped IssueKind = "field_skipped"
	// IssueSchemaInvalid is informational: the schema does not compile.
	IssueSchemaInvalid IssueKind = "schema_invalid"
)

// Issue is a partial normalization failure. Issues never abort a run.
type Issue struct {
	Kind    IssueKind `json:"kind"`
	Tool    string    `json:"tool,omitempty"`
	Field   string    `json:"field,omitempty"`
	Message string    `json:"message"`
}
