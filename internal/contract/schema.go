package contract

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// schemaURL names the compiled document. Messages quote it, so it must not
// depend on the host. It is hierarchical so relative refs resolve to sibling
// URLs, which the loader then refuses.
const schemaURL = "tool-audit://contract/schema.json"

// ErrExternalRef is returned for any $ref that leaves the schema document.
var ErrExternalRef = errors.New("external $ref not allowed")

// offlineLoader refuses every external document; tool schemas are analysed
// on their own and never pull files or URLs from the analysing host.
type offlineLoader struct{}

func (offlineLoader) Load(string) (any, error) {
	return nil, ErrExternalRef
}

// CompileSchema compiles a decoded JSON schema document. The document is
// re-encoded and decoded with jsonschema.UnmarshalJSON so values built in Go
// (ints, []string) reach the compiler in their JSON form. Only the bundled
// draft metaschemas resolve; every other external $ref fails to compile.
func CompileSchema(schema map[string]any) (*jsonschema.Schema, error) {
	schemaObj, err := toJSONValue(schema)
	if err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	c.UseLoader(offlineLoader{})
	if err := c.AddResource(schemaURL, schemaObj); err != nil {
		return nil, fmt.Errorf("schema compile error: %w", err)
	}
	sch, err := c.Compile(schemaURL)
	if err != nil {
		var lerr *jsonschema.LoadURLError
		if errors.As(err, &lerr) {
			return nil, fmt.Errorf("schema compile error: %w: %s", ErrExternalRef, lerr.URL)
		}
		return nil, fmt.Errorf("schema compile error: %w", err)
	}
	return sch, nil
}

// ValidateValue checks v against a compiled schema.
func ValidateValue(sch *jsonschema.Schema, v any) error {
	doc, err := toJSONValue(v)
	if err != nil {
		return err
	}
	return sch.Validate(doc)
}

func toJSONValue(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}
	return doc, nil
}
