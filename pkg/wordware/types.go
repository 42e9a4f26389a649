package wordware

import "encoding/json"

// ToolMetadata describes a released Wordware app as returned by the
// metadata endpoint.
type ToolMetadata struct {
	ID          string
	Title       string
	Description string

	// InputSchema is the raw declared input schema. Kept as a raw document
	// because its shape varies per app; pkg/schema interprets it.
	InputSchema json.RawMessage
}

// metadataEnvelope is the wire shape of the metadata endpoint response:
//
//	{"data": {"id": "...", "attributes": {"title", "description", "inputSchema"}}}
type metadataEnvelope struct {
	Data *struct {
		ID         string `json:"id"`
		Attributes struct {
			Title       string          `json:"title"`
			Description string          `json:"description"`
			InputSchema json.RawMessage `json:"inputSchema"`
		} `json:"attributes"`
	} `json:"data"`
}

// runRequest is the wire shape of the execution endpoint request body.
type runRequest struct {
	Inputs  map[string]any `json:"inputs"`
	Version string         `json:"version"`
}

// Stream event kinds emitted by the run stream. The set of kinds that count
// as output is configuration (see config.WordwareConfig.OutputEvents); these
// constants name the kinds with protocol-level meaning.
const (
	// EventKindError is a remote-declared run failure.
	EventKindError = "error"

	// EventKindDone is the designated terminal frame.
	EventKindDone = "done"

	// EventKindOutputs carries a map of label to value; all other output
	// kinds carry a single labeled value.
	EventKindOutputs = "outputs"
)

// StreamEvent is one decoded frame from the run stream. The zero Err means
// the frame decoded cleanly; a non-nil Err reports a framing failure and is
// always the last event on the channel.
type StreamEvent struct {
	Kind  string
	Value json.RawMessage
	Err   error
}

// streamFrame is the wire shape of a single SSE data frame.
type streamFrame struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

// errorValue is the wire shape of an EventKindError frame body.
type errorValue struct {
	Message string `json:"message"`
}
