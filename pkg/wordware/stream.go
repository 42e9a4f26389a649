package wordware

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/wordware-ai/wordware-mcp/pkg/api"
	"github.com/wordware-ai/wordware-mcp/pkg/debug"
	"github.com/wordware-ai/wordware-mcp/pkg/observability"
)

// ParseStream reads SSE frames from the run stream, decodes each into a
// StreamEvent, and sends them on ch. The channel is NOT closed by this
// function; the caller is responsible for closing it.
//
// Frame format expected:
//
//	data: {"type":"output","value":{"label":"summary","value":"..."}}\n
//	\n
//	data: {"type":"done"}\n
//	\n
//
// Lines without the "data: " prefix (blank lines, ": " comments) are skipped.
// A frame whose JSON body cannot be decoded aborts the stream: the sequence
// is non-restartable, so a framing failure makes everything after it
// untrustworthy. The decode failure is delivered as the final event.
// Context cancellation stops reading and sending immediately, even when the
// consumer has walked away and the channel buffer is full.
func ParseStream(ctx context.Context, body io.Reader, ch chan<- StreamEvent) {
	scanner := bufio.NewScanner(body)
	// Output values can carry whole documents; allow frames up to 1MiB.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}

		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		payload := strings.TrimPrefix(line, "data: ")

		var frame streamFrame
		if err := json.Unmarshal([]byte(payload), &frame); err != nil {
			debug.Log("streaming", "malformed stream frame, aborting",
				"error", err.Error(), "data", debug.Truncate(payload, 200))
			send(ctx, ch, StreamEvent{
				Err: api.NewStreamDecodeError(fmt.Sprintf("malformed stream frame: %s", err.Error())),
			})
			return
		}

		observability.StreamEventsTotal.WithLabelValues(frame.Type).Inc()
		debug.Trace("streaming", "stream frame", "kind", frame.Type,
			"value", debug.Truncate(string(frame.Value), 200))

		// The designated terminal frame ends the sequence.
		if frame.Type == EventKindDone {
			return
		}

		if !send(ctx, ch, StreamEvent{Kind: frame.Type, Value: frame.Value}) {
			return
		}
	}

	// Scanner error (e.g., connection dropped). Plain EOF is a legitimate
	// stream closure and is not reported.
	if err := scanner.Err(); err != nil {
		if ctx.Err() != nil {
			return
		}
		send(ctx, ch, StreamEvent{
			Err: api.NewStreamDecodeError("stream read error: " + err.Error()),
		})
	}
}

// send delivers one event unless the context is cancelled first. A consumer
// that stops receiving must not pin the producer on a full channel buffer.
func send(ctx context.Context, ch chan<- StreamEvent, ev StreamEvent) bool {
	select {
	case ch <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

// RunResult is the ordered aggregation of a run's output values. Labels
// preserves first-appearance order; a later value for an already-seen label
// overwrites the earlier one in Values without reordering.
type RunResult struct {
	Labels []string
	Values map[string]any
}

func (r *RunResult) add(label string, value any) {
	if _, seen := r.Values[label]; !seen {
		r.Labels = append(r.Labels, label)
	}
	r.Values[label] = value
}

// Empty reports whether the run produced no output values.
func (r *RunResult) Empty() bool {
	return len(r.Labels) == 0
}

// AggregateOptions controls how Aggregate classifies and bounds the stream.
type AggregateOptions struct {
	// OutputKinds is the set of event kinds whose values are collected.
	OutputKinds map[string]bool

	// IdleTimeout bounds the wait for the next event. Zero disables the
	// idle window (used by tests); production callers always set it.
	IdleTimeout time.Duration
}

// Aggregate consumes the event channel and collects output values into a
// RunResult.
//
// Failure behavior:
//   - remote error frame: the run itself failed, the call fails with a
//     remote execution error regardless of any values collected so far
//   - framing failure: whatever was aggregated is returned if non-empty,
//     otherwise the decode error propagates
//   - idle window exceeded: timeout error
//   - stream closed with nothing collected: empty result error
func Aggregate(ctx context.Context, events <-chan StreamEvent, opts AggregateOptions) (*RunResult, error) {
	result := &RunResult{Values: make(map[string]any)}

	var idle <-chan time.Time
	var timer *time.Timer
	if opts.IdleTimeout > 0 {
		timer = time.NewTimer(opts.IdleTimeout)
		defer timer.Stop()
		idle = timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()

		case <-idle:
			return nil, api.NewTimeoutError(fmt.Sprintf(
				"no stream event within %s", opts.IdleTimeout))

		case ev, ok := <-events:
			if !ok {
				if result.Empty() {
					return nil, api.NewEmptyResultError("run stream closed without emitting any output")
				}
				return result, nil
			}
			if timer != nil {
				if !timer.Stop() {
					<-timer.C
				}
				timer.Reset(opts.IdleTimeout)
			}

			if ev.Err != nil {
				if api.IsType(ev.Err, api.ErrorTypeStreamDecode) && !result.Empty() {
					debug.Log("streaming", "late decode failure, returning partial result",
						"collected", len(result.Labels))
					return result, nil
				}
				return nil, ev.Err
			}

			if ev.Kind == EventKindError {
				var ev2 errorValue
				message := "remote run reported an error"
				if err := json.Unmarshal(ev.Value, &ev2); err == nil && ev2.Message != "" {
					message = ev2.Message
				}
				return nil, api.NewRemoteExecutionError(message)
			}

			if opts.OutputKinds[ev.Kind] {
				collectOutput(result, ev.Kind, ev.Value)
			}
		}
	}
}

// collectOutput extracts (label, value) pairs from an output frame body,
// dispatching on the frame kind: an "outputs" frame is always a map of label
// to value (even if it happens to contain a "label" entry), while every other
// output kind carries a single labeled value {"label": ..., "value": ...}.
func collectOutput(result *RunResult, kind string, raw json.RawMessage) {
	if kind == EventKindOutputs {
		collectOutputMap(result, raw)
		return
	}

	var labeled struct {
		Label string          `json:"label"`
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(raw, &labeled); err == nil && labeled.Label != "" {
		var value any
		if err := json.Unmarshal(labeled.Value, &value); err != nil {
			value = string(labeled.Value)
		}
		result.add(labeled.Label, value)
		return
	}

	// Some flows emit map-shaped bodies under a singular kind too.
	collectOutputMap(result, raw)
}

// collectOutputMap folds a map-of-labels frame body into the result. Map keys
// are visited in sorted order so first-appearance ordering is deterministic
// within one frame.
func collectOutputMap(result *RunResult, raw json.RawMessage) {
	var values map[string]any
	if err := json.Unmarshal(raw, &values); err != nil {
		debug.Log("streaming", "unrecognized output frame body, skipping",
			"data", debug.Truncate(string(raw), 200))
		return
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		result.add(k, values[k])
	}
}
