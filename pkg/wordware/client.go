// Package wordware implements the HTTP client for the Wordware released-app
// API: metadata reads during tool registration and streaming execution runs
// at call time.
package wordware

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/wordware-ai/wordware-mcp/pkg/api"
	"github.com/wordware-ai/wordware-mcp/pkg/debug"
	"github.com/wordware-ai/wordware-mcp/pkg/observability"
)

// Config holds the settings for a Client.
type Config struct {
	// APIURL is the base URL of the Wordware API.
	APIURL string

	// APIKey is the bearer credential. Never logged.
	APIKey string

	// Version is the released-app version selector sent with run requests.
	Version string

	// Timeout bounds metadata requests. Run requests are not bounded by a
	// fixed timeout; their lifetime is governed by the call context.
	Timeout time.Duration
}

// Client performs HTTP requests against the Wordware released-app API.
// It is safe for concurrent use; each run opens its own request and
// stream-read goroutine.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	version    string
}

// NewClient creates a Client for the Wordware API.
func NewClient(cfg Config) *Client {
	baseURL := strings.TrimRight(cfg.APIURL, "/")

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	version := cfg.Version
	if version == "" {
		version = "^1.0"
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		apiKey:  cfg.APIKey,
		version: version,
	}
}

// ToolMetadata performs an authenticated read against the metadata endpoint
// for the given tool identifier.
func (c *Client) ToolMetadata(ctx context.Context, id string) (*ToolMetadata, error) {
	endpoint := c.baseURL + "/api/released-app/" + url.PathEscape(id)
	debug.Log("client", "fetching tool metadata", "id", id, "url", endpoint)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, api.NewTransientNetworkError(fmt.Sprintf("failed to create HTTP request: %s", err.Error()))
	}
	c.setHeaders(httpReq)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, mapMetadataNetworkError(err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return nil, mapMetadataHTTPError(httpResp)
	}

	var envelope metadataEnvelope
	if err := json.NewDecoder(httpResp.Body).Decode(&envelope); err != nil {
		return nil, api.NewMalformedResponseError(fmt.Sprintf("failed to parse metadata response: %s", err.Error()))
	}
	if envelope.Data == nil {
		return nil, api.NewMalformedResponseError("metadata response has no data document")
	}

	meta := &ToolMetadata{
		ID:          id,
		Title:       envelope.Data.Attributes.Title,
		Description: envelope.Data.Attributes.Description,
		InputSchema: envelope.Data.Attributes.InputSchema,
	}
	debug.Log("client", "fetched tool metadata", "id", id, "title", meta.Title)
	return meta, nil
}

// RunTool submits the normalized payload to the execution endpoint and
// returns a channel of decoded stream events. The channel is closed when the
// stream reaches its terminal frame, fails, or the context is cancelled.
//
// The HTTP client timeout is not applied because a run can legitimately last
// longer than any fixed timeout. Lifecycle control relies on the context and
// on the caller's idle window instead.
func (c *Client) RunTool(ctx context.Context, id string, inputs map[string]any) (<-chan StreamEvent, error) {
	body, err := json.Marshal(runRequest{
		Inputs:  inputs,
		Version: c.version,
	})
	if err != nil {
		return nil, api.NewRemoteExecutionError(fmt.Sprintf("failed to marshal run request: %s", err.Error()))
	}

	endpoint := c.baseURL + "/api/released-app/" + url.PathEscape(id) + "/run"
	debug.Log("client", "starting tool run", "id", id, "url", endpoint)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, api.NewRemoteExecutionError(fmt.Sprintf("failed to create HTTP request: %s", err.Error()))
	}
	c.setHeaders(httpReq)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")

	// Use a client without timeout for streaming. The context controls
	// the request lifetime instead.
	streamClient := &http.Client{
		Transport: c.httpClient.Transport,
	}

	httpResp, err := streamClient.Do(httpReq)
	if err != nil {
		return nil, mapRunNetworkError(err)
	}

	// Check for error status codes before starting the stream.
	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		defer httpResp.Body.Close()
		return nil, mapRunHTTPError(httpResp)
	}

	ch := make(chan StreamEvent, 16)
	observability.ActiveStreams.Inc()

	go func() {
		defer observability.ActiveStreams.Dec()
		defer close(ch)
		defer httpResp.Body.Close()
		ParseStream(ctx, httpResp.Body, ch)
	}()

	return ch, nil
}

func (c *Client) setHeaders(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}

// Close releases client resources.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
