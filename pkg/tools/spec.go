// Package tools synthesizes MCP tools from remote Wordware app metadata and
// handles their invocation: argument normalization, remote execution, and
// result formatting.
package tools

import (
	"strings"
	"unicode"

	"github.com/wordware-ai/wordware-mcp/pkg/schema"
)

// Spec is the immutable record of one registered tool. It is built once
// during registration, owned by the Registrar's table, and referenced by the
// handler closure bound to it.
type Spec struct {
	ID          string
	Name        string
	Description string

	// Analysis carries the derived schema shape: WrapsKwargs and the flat
	// inner properties the client sees.
	Analysis schema.Analysis
}

// toolNameFromTitle derives an MCP tool name from a display title: keep only
// letters and spaces, lowercase, spaces become underscores. An empty result
// falls back to a name derived from the identifier so every tool gets a
// usable name.
func toolNameFromTitle(title, id string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r):
			return unicode.ToLower(r)
		case unicode.IsSpace(r):
			return '_'
		default:
			return -1
		}
	}, title)

	if cleaned == "" {
		return "wordware_tool_" + idSuffix(id)
	}
	return cleaned
}

// idSuffix returns the last 8 characters of an identifier, or the whole
// identifier if shorter.
func idSuffix(id string) string {
	if len(id) > 8 {
		return id[len(id)-8:]
	}
	return id
}
