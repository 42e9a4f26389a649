package wordware

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/wordware-ai/wordware-mcp/pkg/api"
)

// mapMetadataHTTPError converts a non-2xx metadata response into the
// registration-time error taxonomy.
func mapMetadataHTTPError(resp *http.Response) *api.Error {
	message := extractErrorMessage(resp.Body)

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		if message == "" {
			message = "wordware API rejected the credentials"
		}
		return api.NewAuthError(message)

	case resp.StatusCode == http.StatusNotFound:
		if message == "" {
			message = "tool not found"
		}
		return api.NewNotFoundError(message)

	case resp.StatusCode >= http.StatusInternalServerError:
		if message == "" {
			message = fmt.Sprintf("wordware API server error (HTTP %d)", resp.StatusCode)
		}
		return api.NewTransientNetworkError(message)

	default:
		if message == "" {
			message = fmt.Sprintf("unexpected metadata response (HTTP %d)", resp.StatusCode)
		}
		return api.NewMalformedResponseError(message)
	}
}

// mapRunHTTPError converts a non-2xx execution response into the call-time
// error taxonomy. Credential and identifier problems keep their registration
// types so callers can tell them apart from run failures.
func mapRunHTTPError(resp *http.Response) *api.Error {
	message := extractErrorMessage(resp.Body)

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		if message == "" {
			message = "wordware API rejected the credentials"
		}
		return api.NewAuthError(message)

	case resp.StatusCode == http.StatusNotFound:
		if message == "" {
			message = "tool not found"
		}
		return api.NewNotFoundError(message)

	default:
		if message == "" {
			message = fmt.Sprintf("wordware run failed (HTTP %d)", resp.StatusCode)
		}
		return api.NewRemoteExecutionError(message)
	}
}

// mapMetadataNetworkError converts a network-level failure (connection
// refused, timeout, DNS) during a metadata fetch. These are retryable.
func mapMetadataNetworkError(err error) *api.Error {
	return api.NewTransientNetworkError(fmt.Sprintf("wordware API connection error: %s", err.Error()))
}

// mapRunNetworkError converts a network-level failure during a run request.
func mapRunNetworkError(err error) *api.Error {
	return api.NewRemoteExecutionError(fmt.Sprintf("wordware API connection error: %s", err.Error()))
}

// extractErrorMessage tries to parse an error response body and returns the
// message if found. Both {"error": "..."} and {"message": "..."} shapes occur.
func extractErrorMessage(body io.Reader) string {
	if body == nil {
		return ""
	}

	data, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(data) == 0 {
		return ""
	}

	var errResp struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &errResp); err == nil {
		if errResp.Error != "" {
			return errResp.Error
		}
		if errResp.Message != "" {
			return errResp.Message
		}
	}

	return ""
}
