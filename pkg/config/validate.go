package config

import (
	"errors"
	"fmt"
)

// Validate checks the configuration for required fields and valid values.
// Returns an error with a descriptive field path on failure.
func (c *Config) Validate() error {
	var errs []error

	// server.transport must be a known value.
	switch c.Server.Transport {
	case "stdio", "http":
		// valid
	default:
		errs = append(errs, fmt.Errorf("server.transport must be \"stdio\" or \"http\", got %q", c.Server.Transport))
	}

	// server.port must be positive when the http transport is selected.
	if c.Server.Transport == "http" && c.Server.Port <= 0 {
		errs = append(errs, fmt.Errorf("server.port must be > 0, got %d", c.Server.Port))
	}

	// wordware.api_url is required.
	if c.Wordware.APIURL == "" {
		errs = append(errs, fmt.Errorf("wordware.api_url is required"))
	}

	// At least one recognized output event kind is required, otherwise no
	// tool call could ever produce a result.
	if len(c.Wordware.OutputEvents) == 0 {
		errs = append(errs, fmt.Errorf("wordware.output_events must list at least one event kind"))
	}

	if c.Wordware.StreamIdleTimeout <= 0 {
		errs = append(errs, fmt.Errorf("wordware.stream_idle_timeout must be > 0, got %v", c.Wordware.StreamIdleTimeout))
	}

	return errors.Join(errs...)
}
