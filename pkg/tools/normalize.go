package tools

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/wordware-ai/wordware-mcp/pkg/api"
	"github.com/wordware-ai/wordware-mcp/pkg/debug"
	"github.com/wordware-ai/wordware-mcp/pkg/schema"
)

// Normalize reshapes raw invocation arguments into the single payload shape
// the remote execution endpoint expects.
//
// Three client shapes are accepted, because different MCP clients serialize
// nested arguments differently:
//  1. direct parameters: a flat object whose keys are the tool's parameters
//  2. nested-string: {"kwargs": "<JSON object string>"}
//  3. nested-object: {"kwargs": {...}}
//
// The unwrap only fires when "kwargs" is the sole key; a flat tool may
// legitimately declare a parameter named kwargs alongside others. Once the
// inner mapping is obtained, backticks are stripped from keys and string
// values (some clients fence values in markdown), and the mapping is
// re-wrapped if the remote app expects the kwargs wrapper.
func Normalize(args map[string]any, wrapsKwargs bool) (map[string]any, error) {
	inner := args

	if raw, sole := soleKwargsValue(args); sole {
		switch v := raw.(type) {
		case string:
			trimmed := strings.Trim(strings.TrimSpace(v), "`")
			var parsed map[string]any
			if err := json.Unmarshal([]byte(trimmed), &parsed); err != nil {
				return nil, api.NewParameterFormatError(fmt.Sprintf(
					"kwargs is not a JSON object: %s", err.Error()))
			}
			debug.Log("tools", "parsed nested-string kwargs", "params", len(parsed))
			inner = parsed
		case map[string]any:
			inner = v
		default:
			return nil, api.NewParameterFormatError(fmt.Sprintf(
				"kwargs must be an object or a JSON object string, got %T", raw))
		}
	}

	cleaned := make(map[string]any, len(inner))
	for key, value := range inner {
		key = strings.Trim(key, "`")
		if s, ok := value.(string); ok {
			value = strings.Trim(s, "`")
		}
		cleaned[key] = value
	}

	if wrapsKwargs {
		return map[string]any{schema.KwargsKey: cleaned}, nil
	}
	return cleaned, nil
}

// soleKwargsValue returns the reserved key's value when it is the only key
// in the argument object.
func soleKwargsValue(args map[string]any) (any, bool) {
	if len(args) != 1 {
		return nil, false
	}
	v, ok := args[schema.KwargsKey]
	return v, ok
}
