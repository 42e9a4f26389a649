package tools

import (
	"strings"
	"testing"

	"github.com/wordware-ai/wordware-mcp/pkg/wordware"
)

func TestFormatResult_Sections(t *testing.T) {
	result := &wordware.RunResult{
		Labels: []string{"person", "company"},
		Values: map[string]any{
			"person":  "John Doe",
			"company": "Acme",
		},
	}

	got := FormatResult("research_agent", result)

	if !strings.HasPrefix(got, "# Results for research_agent\n") {
		t.Errorf("output %q should open with the results header", got)
	}
	personIdx := strings.Index(got, "## person")
	companyIdx := strings.Index(got, "## company")
	if personIdx < 0 || companyIdx < 0 {
		t.Fatalf("output %q should contain a section per label", got)
	}
	if personIdx > companyIdx {
		t.Error("sections should follow first-appearance order")
	}
	if !strings.Contains(got, "John Doe") {
		t.Errorf("output %q should contain the value", got)
	}
}

func TestFormatResult_CompletionOutputWins(t *testing.T) {
	result := &wordware.RunResult{
		Labels: []string{"draft", "completion_output"},
		Values: map[string]any{
			"draft":             "working notes",
			"completion_output": "the final answer",
		},
	}

	got := FormatResult("research_agent", result)

	if got != "the final answer" {
		t.Errorf("FormatResult = %q, want the completion output alone", got)
	}
	if strings.Contains(got, "working notes") {
		t.Error("intermediate outputs should be suppressed when completion_output exists")
	}
}

func TestFormatResult_CompletionResultField(t *testing.T) {
	result := &wordware.RunResult{
		Labels: []string{"completion_output"},
		Values: map[string]any{
			"completion_output": map[string]any{"result": "unwrapped"},
		},
	}

	if got := FormatResult("t", result); got != "unwrapped" {
		t.Errorf("FormatResult = %q, want \"unwrapped\"", got)
	}
}

func TestFormatResult_CompletionObjectWithoutResult(t *testing.T) {
	result := &wordware.RunResult{
		Labels: []string{"completion_output"},
		Values: map[string]any{
			"completion_output": map[string]any{"other": "field"},
		},
	}

	got := FormatResult("t", result)
	if !strings.Contains(got, "```json") || !strings.Contains(got, `"other"`) {
		t.Errorf("FormatResult = %q, want fenced JSON of the object", got)
	}
}

func TestFormatResult_NonStringValueFencedAsJSON(t *testing.T) {
	result := &wordware.RunResult{
		Labels: []string{"scores"},
		Values: map[string]any{
			"scores": map[string]any{"accuracy": 0.9},
		},
	}

	got := FormatResult("t", result)
	if !strings.Contains(got, "```json") || !strings.Contains(got, `"accuracy"`) {
		t.Errorf("FormatResult = %q, want fenced JSON value", got)
	}
}
