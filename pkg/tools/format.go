package tools

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/wordware-ai/wordware-mcp/pkg/wordware"
)

// completionOutputLabel is the label some flows emit for their final,
// already-formatted answer. When present it is returned alone.
const completionOutputLabel = "completion_output"

// FormatResult renders an aggregated run result as one human-readable text
// block: the completion output alone when the flow emitted one, otherwise a
// section per collected label in first-appearance order.
func FormatResult(toolName string, result *wordware.RunResult) string {
	if completion, ok := result.Values[completionOutputLabel]; ok {
		return formatCompletion(completion)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Results for %s\n\n", toolName)
	for _, label := range result.Labels {
		fmt.Fprintf(&b, "## %s\n\n%s\n\n", label, renderValue(result.Values[label]))
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

// formatCompletion unwraps a completion output: strings pass through, an
// object with a "result" field yields that field, anything else is rendered
// as JSON.
func formatCompletion(completion any) string {
	switch v := completion.(type) {
	case string:
		return v
	case map[string]any:
		if inner, ok := v["result"]; ok {
			return renderValue(inner)
		}
	}
	return renderValue(completion)
}

// renderValue renders a single output value: strings as-is, everything else
// as fenced JSON.
func renderValue(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", value)
	}
	return "```json\n" + string(data) + "\n```"
}
