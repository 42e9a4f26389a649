package schema

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestAnalyze_FlatSchema(t *testing.T) {
	raw := json.RawMessage(`{
		"type": "object",
		"properties": {
			"query": {"type": "string"},
			"limit": {"type": "integer"}
		},
		"required": ["query"]
	}`)

	a := Analyze(raw)

	if a.WrapsKwargs {
		t.Error("WrapsKwargs = true, want false for flat schema")
	}
	if len(a.InnerProperties) != 2 {
		t.Errorf("InnerProperties has %d entries, want 2", len(a.InnerProperties))
	}
	if _, ok := a.InnerProperties["query"]; !ok {
		t.Error("missing property \"query\"")
	}
	if !reflect.DeepEqual(a.Required, []string{"query"}) {
		t.Errorf("Required = %v, want [query]", a.Required)
	}
}

func TestAnalyze_KwargsWrapper(t *testing.T) {
	raw := json.RawMessage(`{
		"type": "object",
		"properties": {
			"kwargs": {
				"type": "object",
				"properties": {
					"Full Name": {"type": "string"},
					"Company": {"type": "string"}
				},
				"required": ["Full Name"]
			}
		}
	}`)

	a := Analyze(raw)

	if !a.WrapsKwargs {
		t.Fatal("WrapsKwargs = false, want true")
	}
	if len(a.InnerProperties) != 2 {
		t.Errorf("InnerProperties has %d entries, want 2", len(a.InnerProperties))
	}
	if _, ok := a.InnerProperties["Full Name"]; !ok {
		t.Error("missing inner property \"Full Name\"")
	}
	if !reflect.DeepEqual(a.Required, []string{"Full Name"}) {
		t.Errorf("Required = %v, want [Full Name]", a.Required)
	}
}

func TestAnalyze_KwargsWithoutInnerProperties(t *testing.T) {
	// A lone kwargs property with no inner properties is ambiguous and must
	// fall back to the flat interpretation.
	raw := json.RawMessage(`{"properties": {"kwargs": {"type": "object"}}}`)

	a := Analyze(raw)

	if a.WrapsKwargs {
		t.Error("WrapsKwargs = true, want false for kwargs without inner properties")
	}
	if len(a.InnerProperties) != 1 {
		t.Errorf("InnerProperties has %d entries, want 1 (the kwargs property itself)", len(a.InnerProperties))
	}
}

func TestAnalyze_KwargsAmongOtherProperties(t *testing.T) {
	// kwargs alongside other properties is not the wrapper shape.
	raw := json.RawMessage(`{
		"properties": {
			"kwargs": {"type": "object", "properties": {"x": {"type": "string"}}},
			"other": {"type": "string"}
		}
	}`)

	a := Analyze(raw)

	if a.WrapsKwargs {
		t.Error("WrapsKwargs = true, want false when kwargs is not the sole property")
	}
	if len(a.InnerProperties) != 2 {
		t.Errorf("InnerProperties has %d entries, want 2", len(a.InnerProperties))
	}
}

func TestAnalyze_ToleratesMalformedDocuments(t *testing.T) {
	tests := []struct {
		name string
		raw  json.RawMessage
	}{
		{"empty", nil},
		{"not JSON", json.RawMessage(`{not json`)},
		{"wrong type", json.RawMessage(`"a string"`)},
		{"null", json.RawMessage(`null`)},
		{"no properties", json.RawMessage(`{"type": "object"}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Analyze(tt.raw)
			if a.WrapsKwargs {
				t.Error("WrapsKwargs = true, want false on ambiguity")
			}
			if a.InnerProperties == nil {
				t.Error("InnerProperties is nil, want empty map")
			}
			if len(a.InnerProperties) != 0 {
				t.Errorf("InnerProperties has %d entries, want 0", len(a.InnerProperties))
			}
		})
	}
}

func TestAnalyze_MalformedPropertyFragment(t *testing.T) {
	// One bad fragment must not fail the analysis; it degrades to the
	// permissive schema.
	raw := json.RawMessage(`{
		"properties": {
			"good": {"type": "string"},
			"bad": 42
		}
	}`)

	a := Analyze(raw)

	if len(a.InnerProperties) != 2 {
		t.Fatalf("InnerProperties has %d entries, want 2", len(a.InnerProperties))
	}
	if a.InnerProperties["bad"] == nil {
		t.Error("bad fragment should degrade to permissive schema, not nil")
	}
}

func TestAnalyze_Idempotent(t *testing.T) {
	raw := json.RawMessage(`{
		"properties": {
			"kwargs": {
				"type": "object",
				"properties": {"Full Name": {"type": "string"}}
			}
		}
	}`)

	first := Analyze(raw)
	second := Analyze(raw)

	if first.WrapsKwargs != second.WrapsKwargs {
		t.Error("WrapsKwargs differs between runs")
	}
	if !reflect.DeepEqual(first.InnerProperties, second.InnerProperties) {
		t.Error("InnerProperties differs between runs")
	}
	if !reflect.DeepEqual(first.Required, second.Required) {
		t.Error("Required differs between runs")
	}
}

func TestInputSchema(t *testing.T) {
	a := Analyze(json.RawMessage(`{
		"properties": {"query": {"type": "string"}},
		"required": ["query"]
	}`))

	s := a.InputSchema()

	if s.Type != "object" {
		t.Errorf("Type = %q, want \"object\"", s.Type)
	}
	if len(s.Properties) != 1 {
		t.Errorf("Properties has %d entries, want 1", len(s.Properties))
	}
	if !reflect.DeepEqual(s.Required, []string{"query"}) {
		t.Errorf("Required = %v, want [query]", s.Required)
	}
}

func TestParameterDoc(t *testing.T) {
	a := Analyze(json.RawMessage(`{"properties": {"query": {"type": "string"}}}`))

	doc := a.ParameterDoc()
	var parsed map[string]any
	if err := json.Unmarshal([]byte(doc), &parsed); err != nil {
		t.Fatalf("ParameterDoc is not valid JSON: %v", err)
	}
	if _, ok := parsed["query"]; !ok {
		t.Error("ParameterDoc missing property \"query\"")
	}

	empty := Analyze(nil)
	if empty.ParameterDoc() != "{}" {
		t.Errorf("empty ParameterDoc = %q, want \"{}\"", empty.ParameterDoc())
	}
}
