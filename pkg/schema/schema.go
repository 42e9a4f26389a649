// Package schema inspects the input schema documents returned by the
// Wordware metadata endpoint and decides how tool parameters are shaped.
//
// Some released apps declare their parameters flat; others wrap the whole
// parameter object under a single generic "kwargs" property. The adapter
// detects the wrapper so the client-visible declared parameters are always
// the flat, human-meaningful ones, while calls are re-wrapped to whatever
// the remote app physically expects.
package schema

import (
	"encoding/json"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/wordware-ai/wordware-mcp/pkg/debug"
)

// KwargsKey is the reserved wrapper property name used by kwargs-style apps.
const KwargsKey = "kwargs"

// Analysis is the result of inspecting one input schema document.
// It is immutable once produced.
type Analysis struct {
	// WrapsKwargs reports whether the remote app expects its parameters
	// nested under KwargsKey rather than flat.
	WrapsKwargs bool

	// InnerProperties maps parameter name to its schema. When WrapsKwargs is
	// true these come from the nested kwargs object; otherwise they are the
	// schema's own top-level properties.
	InnerProperties map[string]*jsonschema.Schema

	// Required lists the required parameter names, taken from the same level
	// as InnerProperties.
	Required []string
}

// rawObject is the subset of a JSON Schema object this package inspects.
type rawObject struct {
	Type       string                     `json:"type"`
	Properties map[string]json.RawMessage `json:"properties"`
	Required   []string                   `json:"required"`
}

// Analyze inspects a raw input schema document. It never fails: missing or
// malformed documents degrade to a flat, empty parameter set so a bad schema
// cannot block tool registration. On any detection ambiguity the flat shape
// is chosen, since flat parameters are the common case.
//
// Analyze is a pure function of its input and is therefore idempotent.
func Analyze(raw json.RawMessage) Analysis {
	if len(raw) == 0 {
		return Analysis{InnerProperties: map[string]*jsonschema.Schema{}}
	}

	var top rawObject
	if err := json.Unmarshal(raw, &top); err != nil {
		debug.Log("schema", "unparseable input schema, defaulting to flat",
			"error", err.Error(), "schema", debug.Truncate(string(raw), 200))
		return Analysis{InnerProperties: map[string]*jsonschema.Schema{}}
	}

	// Wrapper detection: exactly one top-level property named "kwargs" whose
	// own schema is an object with a non-empty properties map.
	if len(top.Properties) == 1 {
		if nestedRaw, ok := top.Properties[KwargsKey]; ok {
			var nested rawObject
			if err := json.Unmarshal(nestedRaw, &nested); err != nil {
				debug.Log("schema", "unparseable kwargs property, defaulting to flat",
					"error", err.Error())
				return Analysis{InnerProperties: map[string]*jsonschema.Schema{}}
			}
			if len(nested.Properties) > 0 {
				return Analysis{
					WrapsKwargs:     true,
					InnerProperties: decodeProperties(nested.Properties),
					Required:        nested.Required,
				}
			}
			// A lone kwargs property without inner properties is ambiguous;
			// fall through to the flat interpretation.
			debug.Log("schema", "kwargs property has no inner properties, treating as flat")
		}
	}

	return Analysis{
		InnerProperties: decodeProperties(top.Properties),
		Required:        top.Required,
	}
}

// decodeProperties converts raw schema fragments into jsonschema values.
// Fragments that fail to decode degrade to the permissive empty schema
// instead of failing the analysis.
func decodeProperties(raw map[string]json.RawMessage) map[string]*jsonschema.Schema {
	props := make(map[string]*jsonschema.Schema, len(raw))
	for name, fragment := range raw {
		var s jsonschema.Schema
		if err := json.Unmarshal(fragment, &s); err != nil {
			debug.Log("schema", "unparseable property fragment, using permissive schema",
				"property", name, "error", err.Error())
			props[name] = &jsonschema.Schema{}
			continue
		}
		props[name] = &s
	}
	return props
}

// InputSchema builds the client-visible declared schema: an object schema
// over the flat inner properties, regardless of how the remote app wraps them.
func (a Analysis) InputSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:       "object",
		Properties: a.InnerProperties,
		Required:   a.Required,
	}
}

// ParameterDoc renders the inner properties as indented JSON for embedding
// in the tool description. Returns "{}" when there are no parameters.
func (a Analysis) ParameterDoc() string {
	if len(a.InnerProperties) == 0 {
		return "{}"
	}
	data, err := json.MarshalIndent(a.InnerProperties, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}
