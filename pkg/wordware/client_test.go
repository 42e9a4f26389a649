package wordware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/wordware-ai/wordware-mcp/pkg/api"
)

func newTestClient(url string) *Client {
	return NewClient(Config{
		APIURL: url,
		APIKey: "ww-test-key",
	})
}

func TestToolMetadata_Success(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if r.URL.Path != "/api/released-app/tool-1" {
			t.Errorf("path = %q, want /api/released-app/tool-1", r.URL.Path)
		}
		fmt.Fprint(w, `{
			"data": {
				"id": "tool-1",
				"attributes": {
					"title": "Research Agent",
					"description": "Researches people",
					"inputSchema": {"properties": {"query": {"type": "string"}}}
				}
			}
		}`)
	}))
	defer srv.Close()

	meta, err := newTestClient(srv.URL).ToolMetadata(context.Background(), "tool-1")
	if err != nil {
		t.Fatalf("ToolMetadata: %v", err)
	}

	if gotAuth != "Bearer ww-test-key" {
		t.Errorf("Authorization = %q, want bearer key", gotAuth)
	}
	if meta.Title != "Research Agent" {
		t.Errorf("Title = %q, want \"Research Agent\"", meta.Title)
	}
	if meta.Description != "Researches people" {
		t.Errorf("Description = %q", meta.Description)
	}
	if len(meta.InputSchema) == 0 {
		t.Error("InputSchema is empty")
	}
}

func TestToolMetadata_ErrorMapping(t *testing.T) {
	tests := []struct {
		status int
		want   api.ErrorType
	}{
		{http.StatusUnauthorized, api.ErrorTypeAuth},
		{http.StatusForbidden, api.ErrorTypeAuth},
		{http.StatusNotFound, api.ErrorTypeNotFound},
		{http.StatusInternalServerError, api.ErrorTypeTransientNetwork},
		{http.StatusBadGateway, api.ErrorTypeTransientNetwork},
		{http.StatusBadRequest, api.ErrorTypeMalformedResponse},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status_%d", tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, `{"message": "nope"}`)
			}))
			defer srv.Close()

			_, err := newTestClient(srv.URL).ToolMetadata(context.Background(), "tool-1")
			if !api.IsType(err, tt.want) {
				t.Errorf("error = %v, want %s", err, tt.want)
			}
		})
	}
}

func TestToolMetadata_ConnectionFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // closed server refuses connections

	_, err := newTestClient(srv.URL).ToolMetadata(context.Background(), "tool-1")
	if !api.IsType(err, api.ErrorTypeTransientNetwork) {
		t.Errorf("error = %v, want transient_network", err)
	}
}

func TestToolMetadata_MalformedBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not JSON", "definitely not json"},
		{"null data", `{"data": null}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, tt.body)
			}))
			defer srv.Close()

			_, err := newTestClient(srv.URL).ToolMetadata(context.Background(), "tool-1")
			if !api.IsType(err, api.ErrorTypeMalformedResponse) {
				t.Errorf("error = %v, want malformed_response", err)
			}
		})
	}
}

func TestRunTool_Stream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/released-app/tool-1/run" {
			t.Errorf("path = %q, want /api/released-app/tool-1/run", r.URL.Path)
		}

		var req runRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding run request: %v", err)
		}
		if req.Version != "^1.0" {
			t.Errorf("version = %q, want \"^1.0\"", req.Version)
		}
		if req.Inputs["Full Name"] != "John Doe" {
			t.Errorf("inputs = %v, want Full Name present", req.Inputs)
		}

		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"type\":\"output\",\"value\":{\"label\":\"summary\",\"value\":\"done\"}}\n\n")
		fmt.Fprint(w, "data: {\"type\":\"done\"}\n\n")
	}))
	defer srv.Close()

	events, err := newTestClient(srv.URL).RunTool(context.Background(), "tool-1",
		map[string]any{"Full Name": "John Doe"})
	if err != nil {
		t.Fatalf("RunTool: %v", err)
	}

	result, err := Aggregate(context.Background(), events, AggregateOptions{
		OutputKinds: map[string]bool{"output": true},
	})
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if result.Values["summary"] != "done" {
		t.Errorf("Values[summary] = %v, want \"done\"", result.Values["summary"])
	}
}

func TestRunTool_HTTPError(t *testing.T) {
	tests := []struct {
		status int
		want   api.ErrorType
	}{
		{http.StatusUnauthorized, api.ErrorTypeAuth},
		{http.StatusNotFound, api.ErrorTypeNotFound},
		{http.StatusUnprocessableEntity, api.ErrorTypeRemoteExecution},
		{http.StatusInternalServerError, api.ErrorTypeRemoteExecution},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status_%d", tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, `{"error": "run rejected"}`)
			}))
			defer srv.Close()

			_, err := newTestClient(srv.URL).RunTool(context.Background(), "tool-1", nil)
			if !api.IsType(err, tt.want) {
				t.Errorf("error = %v, want %s", err, tt.want)
			}
		})
	}
}

func TestRunTool_Cancellation(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"type\":\"output\",\"value\":{\"label\":\"a\",\"value\":1}}\n\n")
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
		<-release // hold the stream open
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	events, err := newTestClient(srv.URL).RunTool(ctx, "tool-1", nil)
	if err != nil {
		t.Fatalf("RunTool: %v", err)
	}

	// Consume the first event, then cancel mid-stream.
	<-events
	cancel()

	// The producer goroutine must terminate and close the channel.
	for range events {
	}
}
