package contract

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// MaxSchemaDepth bounds how many levels of nested object / array-of-object
// properties are expanded into FieldSpec children.
const MaxSchemaDepth = 6

// scalarResultField names the synthetic output of a tool whose output schema
// is a bare non-object type.
const scalarResultField = "result"

var errNotObject = errors.New("schema is not a JSON object")

// Embedder produces the vectors attached to tools and input fields.
type Embedder interface {
	EmbedTool(name, description string) []float32
	EmbedField(name, description string) []float32
}

// Normalizer converts raw provider descriptors into ToolSpecs.
type Normalizer struct {
	embedder Embedder
}

// NewNormalizer creates a normalizer. A nil embedder leaves every embedding
// unset, so no concept ever matches.
func NewNormalizer(embedder Embedder) *Normalizer {
	return &Normalizer{embedder: embedder}
}

// Normalize converts raw tools in order. Malformed properties are skipped and
// unusable tools are dropped; both are reported as issues and never abort the
// whole list.
func (n *Normalizer) Normalize(raw []RawTool) ([]*ToolSpec, []Issue) {
	tools := make([]*ToolSpec, 0, len(raw))
	var issues []Issue
	seen := make(map[string]bool, len(raw))

	for i, rt := range raw {
		name := strings.TrimSpace(rt.Name)
		if name == "" {
			issues = append(issues, Issue{
				Kind:    IssueToolDropped,
				Message: fmt.Sprintf("tool at position %d has no name", i),
			})
			continue
		}
		key := strings.ToLower(name)
		if seen[key] {
			issues = append(issues, Issue{
				Kind:    IssueToolDropped,
				Tool:    name,
				Message: "duplicate tool name",
			})
			continue
		}

		spec, toolIssues, err := n.normalizeTool(name, rt)
		issues = append(issues, toolIssues...)
		if err != nil {
			issues = append(issues, Issue{
				Kind:    IssueToolDropped,
				Tool:    name,
				Message: err.Error(),
			})
			continue
		}
		seen[key] = true
		tools = append(tools, spec)
	}
	return tools, issues
}

func (n *Normalizer) normalizeTool(name string, rt RawTool) (spec *ToolSpec, issues []Issue, err error) {
	defer func() {
		if r := recover(); r != nil {
			spec, err = nil, fmt.Errorf("normalize tool: %v", r)
		}
	}()

	spec = &ToolSpec{
		Name:              name,
		Description:       strings.TrimSpace(rt.Description),
		Inputs:            []*FieldSpec{},
		Outputs:           []*FieldSpec{},
		DescriptionTokens: TokenSet(rt.Description),
	}
	w := &walker{tool: name, issues: &issues}

	input, present, err := decodeSchema(rt.InputSchema)
	if err != nil {
		return nil, issues, fmt.Errorf("input schema: %w", err)
	}
	if present {
		spec.Inputs = w.fields(input, "", 1)
		if _, cerr := CompileSchema(input); cerr != nil {
			issues = append(issues, Issue{
				Kind:    IssueSchemaInvalid,
				Tool:    name,
				Message: cerr.Error(),
			})
		}
	}

	output, present, err := decodeSchema(rt.OutputSchema)
	switch {
	case err != nil:
		issues = append(issues, Issue{
			Kind:    IssueFieldSkipped,
			Tool:    name,
			Message: fmt.Sprintf("output schema: %v", err),
		})
	case present:
		spec.Outputs = w.outputs(output)
	}

	if n.embedder != nil {
		spec.DescriptionEmbedding = n.embedder.EmbedTool(spec.Name, spec.Description)
		spec.InputEmbeddings = make(map[string][]float32)
		for _, fp := range Flatten(spec.Inputs) {
			spec.InputEmbeddings[fp.Path] = n.embedder.EmbedField(fp.Field.Name, fp.Field.Description)
		}
	}
	return spec, issues, nil
}

type walker struct {
	tool   string
	issues *[]Issue
}

func (w *walker) skip(path, format string, args ...any) {
	*w.issues = append(*w.issues, Issue{
		Kind:    IssueFieldSkipped,
		Tool:    w.tool,
		Field:   path,
		Message: fmt.Sprintf(format, args...),
	})
}

// outputs handles the common object-shaped output schema and the bare
// scalar/array form, which becomes a single "result" field.
func (w *walker) outputs(schema map[string]any) []*FieldSpec {
	typ, _ := resolveType(schema)
	if _, hasProps := schema["properties"]; hasProps || !typ.Declared() || typ.NonNull().Equal(FieldType{KindObject}) {
		return w.fields(schema, "", 1)
	}
	return []*FieldSpec{w.field(scalarResultField, scalarResultField, schema, true, 1)}
}

func (w *walker) fields(schema map[string]any, prefix string, depth int) []*FieldSpec {
	fields := []*FieldSpec{}
	rawProps, ok := schema["properties"]
	if !ok || rawProps == nil {
		return fields
	}
	props, ok := rawProps.(map[string]any)
	if !ok {
		w.skip(prefix, "properties is %T, not an object", rawProps)
		return fields
	}

	required := make(map[string]bool)
	if list, ok := schema["required"].([]any); ok {
		for _, r := range list {
			if s, ok := r.(string); ok {
				required[s] = true
			}
		}
	} else if list, ok := schema["required"].([]string); ok {
		for _, s := range list {
			required[s] = true
		}
	}

	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		path := name
		if prefix != "" {
			path = prefix + "." + name
		}
		ps, ok := props[name].(map[string]any)
		if !ok {
			w.skip(path, "property schema is %T, not an object", props[name])
			continue
		}
		fields = append(fields, w.field(name, path, ps, required[name], depth))
	}
	return fields
}

func (w *walker) field(name, path string, ps map[string]any, required bool, depth int) *FieldSpec {
	typ, nullable := resolveType(ps)
	f := &FieldSpec{
		Tool:     w.tool,
		Name:     name,
		Type:     typ,
		Required: required,
		Nullable: nullable,
		Schema:   ps,
	}
	if desc, ok := ps["description"].(string); ok {
		f.Description = strings.TrimSpace(desc)
	}
	if examples, ok := ps["examples"].([]any); ok && len(examples) > 0 {
		f.Example, f.HasExample = examples[0], true
	} else if ex, ok := ps["example"]; ok {
		f.Example, f.HasExample = ex, true
	}

	if depth >= MaxSchemaDepth {
		return f
	}
	switch {
	case typ.Has(KindObject):
		f.Properties = w.fields(ps, path, depth+1)
	case typ.Has(KindArray):
		if items, ok := ps["items"].(map[string]any); ok {
			if itemType, _ := resolveType(items); itemType.Has(KindObject) {
				f.Properties = w.fields(items, path, depth+1)
			}
		}
	}
	if len(f.Properties) == 0 {
		f.Properties = nil
	}
	return f
}

// resolveType reads "type" (string or array), nullable markers and
// anyOf/oneOf branches. A schema without a type but with properties or items
// is treated as object or array.
func resolveType(ps map[string]any) (FieldType, bool) {
	var kinds []Kind
	nullable := false

	addKind := func(v any) {
		switch t := v.(type) {
		case string:
			if k, ok := ParseKind(t); ok {
				kinds = append(kinds, k)
			}
		case []any:
			for _, item := range t {
				if s, ok := item.(string); ok {
					if k, ok := ParseKind(s); ok {
						kinds = append(kinds, k)
					}
				}
			}
		case []string:
			for _, s := range t {
				if k, ok := ParseKind(s); ok {
					kinds = append(kinds, k)
				}
			}
		}
	}

	typeDeclared := false
	if v, ok := ps["type"]; ok {
		addKind(v)
		typeDeclared = len(kinds) > 0
	}
	for _, key := range []string{"anyOf", "oneOf"} {
		branches, ok := ps[key].([]any)
		if !ok {
			continue
		}
		for _, b := range branches {
			branch, ok := b.(map[string]any)
			if !ok {
				continue
			}
			if t, ok := branch["type"].(string); ok && t == string(KindNull) {
				nullable = true
				continue
			}
			if !typeDeclared {
				addKind(branch["type"])
			}
		}
	}
	if n, ok := ps["nullable"].(bool); ok && n {
		nullable = true
	}

	if len(kinds) == 0 {
		if _, ok := ps["properties"]; ok {
			kinds = append(kinds, KindObject)
		} else if _, ok := ps["items"]; ok {
			kinds = append(kinds, KindArray)
		}
	}
	typ := NewFieldType(kinds...)
	if typ.Has(KindNull) {
		nullable = true
	}
	return typ, nullable
}

// decodeSchema reports whether a schema is present and, if so, returns it as
// a JSON object.
func decodeSchema(v any) (map[string]any, bool, error) {
	switch s := v.(type) {
	case nil:
		return nil, false, nil
	case map[string]any:
		return s, true, nil
	case json.RawMessage:
		return decodeSchemaBytes(s)
	case []byte:
		return decodeSchemaBytes(s)
	case string:
		return decodeSchemaBytes([]byte(s))
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, true, fmt.Errorf("marshal schema: %w", err)
		}
		return decodeSchemaBytes(b)
	}
}

func decodeSchemaBytes(b []byte) (map[string]any, bool, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil, false, nil
	}
	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, true, fmt.Errorf("decode schema: %w", err)
	}
	m, ok := doc.(map[string]any)
	if !ok {
		return nil, true, errNotObject
	}
	return m, true, nil
}
