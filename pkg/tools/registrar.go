package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wordware-ai/wordware-mcp/pkg/debug"
	"github.com/wordware-ai/wordware-mcp/pkg/observability"
	"github.com/wordware-ai/wordware-mcp/pkg/schema"
	"github.com/wordware-ai/wordware-mcp/pkg/wordware"
)

// Client is the slice of the wordware client the registrar needs. Split into
// an interface so tests can substitute a fake remote API.
type Client interface {
	ToolMetadata(ctx context.Context, id string) (*wordware.ToolMetadata, error)
	RunTool(ctx context.Context, id string, inputs map[string]any) (<-chan wordware.StreamEvent, error)
}

// Config holds the registrar's call-time settings.
type Config struct {
	// OutputEvents lists the stream event kinds aggregated into results.
	OutputEvents []string

	// StreamIdleTimeout bounds the wait for the next stream event.
	StreamIdleTimeout time.Duration
}

// Registrar builds the tool table at startup and registers a synthesized
// tool per configured identifier with the MCP server. The table is populated
// once before any invocation is dispatched and is read-only afterwards, so
// handlers need no locking.
type Registrar struct {
	client      Client
	outputKinds map[string]bool
	idleTimeout time.Duration

	specs map[string]*Spec // by tool identifier
	names map[string]bool  // registered MCP tool names
}

// NewRegistrar creates a Registrar using the given remote client.
func NewRegistrar(client Client, cfg Config) *Registrar {
	kinds := make(map[string]bool, len(cfg.OutputEvents))
	for _, k := range cfg.OutputEvents {
		kinds[k] = true
	}

	idle := cfg.StreamIdleTimeout
	if idle == 0 {
		idle = 120 * time.Second
	}

	return &Registrar{
		client:      client,
		outputKinds: kinds,
		idleTimeout: idle,
		specs:       make(map[string]*Spec),
		names:       make(map[string]bool),
	}
}

// RegisterAll fetches metadata and registers a tool for each identifier, in
// order. A failing identifier is logged and skipped so one bad tool cannot
// abort startup; the error returned is non-nil only when zero tools could be
// registered.
func (r *Registrar) RegisterAll(ctx context.Context, server *mcp.Server, ids []string) error {
	registered := 0
	for _, id := range ids {
		if _, dup := r.specs[id]; dup {
			slog.Warn("duplicate tool id, already registered", "id", id)
			continue
		}

		if err := r.register(ctx, server, id); err != nil {
			slog.Error("failed to register tool, skipping", "id", id, "error", err)
			observability.ToolRegistrationsTotal.WithLabelValues("error").Inc()
			continue
		}
		observability.ToolRegistrationsTotal.WithLabelValues("ok").Inc()
		registered++
	}

	if registered == 0 {
		return fmt.Errorf("no tools registered (%d configured)", len(ids))
	}

	slog.Info("tool registration complete", "registered", registered, "configured", len(ids))
	return nil
}

// Specs returns the registered tool table, keyed by identifier.
func (r *Registrar) Specs() map[string]*Spec {
	return r.specs
}

func (r *Registrar) register(ctx context.Context, server *mcp.Server, id string) error {
	meta, err := r.client.ToolMetadata(ctx, id)
	if err != nil {
		return err
	}

	analysis := schema.Analyze(meta.InputSchema)
	debug.Log("tools", "analyzed input schema", "id", id,
		"wraps_kwargs", analysis.WrapsKwargs, "params", len(analysis.InnerProperties))

	name := toolNameFromTitle(meta.Title, id)
	if r.names[name] {
		// Two remote apps can share a title; fall back to an ID-derived name
		// so the second one still registers.
		fallback := name + "_" + idSuffix(id)
		slog.Warn("tool name conflict, using id-derived name",
			"name", name, "fallback", fallback, "id", id)
		name = fallback
	}

	// The derived parameter schema is rendered into the description so
	// clients that ignore declared schemas still see the parameter set.
	description := fmt.Sprintf(
		"## Input Schema\n\n```json\n%s\n```\n\n## Description\n\n%s",
		analysis.ParameterDoc(), meta.Description)

	spec := &Spec{
		ID:          id,
		Name:        name,
		Description: meta.Description,
		Analysis:    analysis,
	}

	server.AddTool(&mcp.Tool{
		Name:        name,
		Description: description,
		InputSchema: analysis.InputSchema(),
	}, r.handler(spec))

	r.specs[id] = spec
	r.names[name] = true
	slog.Info("registered tool", "name", name, "id", id, "wraps_kwargs", analysis.WrapsKwargs)
	return nil
}

// handler returns the generic tool handler bound to one Spec. Call-time
// failures surface as tool-call errors, never as crashes or protocol errors.
func (r *Registrar) handler(spec *Spec) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()

		// Bound the run to this invocation: when the handler returns early
		// (error frame, timeout, partial result) the cancel releases the
		// stream producer and its HTTP response body.
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		args, err := decodeArgs(req.Params.Arguments)
		if err != nil {
			return r.fail(spec, fmt.Sprintf("invalid arguments: %s", err.Error())), nil
		}
		debug.Log("tools", "invoking tool", "name", spec.Name, "args", len(args))

		payload, err := Normalize(args, spec.Analysis.WrapsKwargs)
		if err != nil {
			return r.fail(spec, err.Error()), nil
		}

		events, err := r.client.RunTool(ctx, spec.ID, payload)
		if err != nil {
			return r.fail(spec, err.Error()), nil
		}

		result, err := wordware.Aggregate(ctx, events, wordware.AggregateOptions{
			OutputKinds: r.outputKinds,
			IdleTimeout: r.idleTimeout,
		})
		if err != nil {
			return r.fail(spec, err.Error()), nil
		}

		observability.ToolInvocationsTotal.WithLabelValues(spec.Name, "ok").Inc()
		observability.ToolDuration.WithLabelValues(spec.Name).Observe(time.Since(start).Seconds())

		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: FormatResult(spec.Name, result)},
			},
		}, nil
	}
}

// fail records a failed invocation and wraps the message as a tool-call error.
func (r *Registrar) fail(spec *Spec, message string) *mcp.CallToolResult {
	observability.ToolInvocationsTotal.WithLabelValues(spec.Name, "error").Inc()
	slog.Error("tool invocation failed", "name", spec.Name, "error", message)
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("Error: %s", message)},
		},
		IsError: true,
	}
}

// decodeArgs converts the runtime-supplied argument value into a generic
// map. The MCP runtime delivers raw JSON for dynamically registered tools;
// in-process callers may pass a map directly.
func decodeArgs(v any) (map[string]any, error) {
	switch a := v.(type) {
	case nil:
		return map[string]any{}, nil
	case map[string]any:
		return a, nil
	case json.RawMessage:
		return unmarshalArgs([]byte(a))
	case []byte:
		return unmarshalArgs(a)
	default:
		data, err := json.Marshal(a)
		if err != nil {
			return nil, err
		}
		return unmarshalArgs(data)
	}
}

func unmarshalArgs(data []byte) (map[string]any, error) {
	if len(data) == 0 {
		return map[string]any{}, nil
	}
	var args map[string]any
	if err := json.Unmarshal(data, &args); err != nil {
		return nil, err
	}
	if args == nil {
		args = map[string]any{}
	}
	return args, nil
}
