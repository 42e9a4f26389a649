// Package config provides unified configuration for the wordware-mcp adapter.
//
// Configuration is loaded with a layered approach:
//  1. Built-in defaults
//  2. YAML config file (discovered or explicitly specified)
//  3. Environment variable overrides (WORDWARE_ prefix, plus legacy CONFIG_PATH)
//  4. File reference resolution (_file suffix fields)
//  5. Tools manifest loading and duplicate-ID pruning
//  6. Validation
package config

import "time"

// Config holds all configuration for the wordware-mcp adapter.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Wordware      WordwareConfig      `yaml:"wordware"`
	Tools         ToolsConfig         `yaml:"tools"`
	Observability ObservabilityConfig `yaml:"observability"`
	Debug         DebugConfig         `yaml:"debug"`
}

// ServerConfig holds MCP transport settings.
type ServerConfig struct {
	Transport string `yaml:"transport"` // "stdio" or "http", default: "stdio"
	Host      string `yaml:"host"`      // default: "127.0.0.1" (http transport)
	Port      int    `yaml:"port"`      // default: 8000 (http transport)
}

// WordwareConfig holds remote Wordware API settings.
type WordwareConfig struct {
	APIURL     string        `yaml:"api_url"`      // default: "https://api.wordware.ai"
	APIKey     string        `yaml:"api_key"`      // required for live use, never logged
	APIKeyFile string        `yaml:"api_key_file"` // _file variant for api_key
	Version    string        `yaml:"version"`      // released-app version selector, default: "^1.0"
	Timeout    time.Duration `yaml:"timeout"`      // metadata request timeout, default: 30s

	// StreamIdleTimeout bounds the wait for the next stream event during a
	// tool run. Exceeding it fails the call with a timeout error.
	StreamIdleTimeout time.Duration `yaml:"stream_idle_timeout"` // default: 120s

	// OutputEvents lists the stream event kinds whose values are aggregated
	// into the tool result. The remote API does not formally specify the set,
	// so it is configuration rather than a hard-coded assumption.
	OutputEvents []string `yaml:"output_events"` // default: ["output", "outputs"]
}

// ToolsConfig describes where tool identifiers come from.
type ToolsConfig struct {
	// File is the path to a JSON manifest: {"tools": [{"id": "..."}]}.
	// Default: "./tools_config.json". Overridable via WORDWARE_TOOLS_CONFIG
	// or the legacy CONFIG_PATH environment variable.
	File string `yaml:"file"`

	// Entries lists tool identifiers inline. Merged ahead of the manifest
	// file; duplicates are pruned, first occurrence wins.
	Entries []ToolEntry `yaml:"entries"`
}

// ToolEntry names a single remote tool by its opaque identifier.
type ToolEntry struct {
	ID string `yaml:"id" json:"id"`
}

// ObservabilityConfig holds monitoring and instrumentation settings.
type ObservabilityConfig struct {
	Metrics MetricsConfig `yaml:"metrics"`
}

// MetricsConfig holds Prometheus metrics endpoint settings (http transport only).
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"` // default: true
	Path    string `yaml:"path"`    // default: "/metrics"
}

// DebugConfig holds debug logging settings.
type DebugConfig struct {
	Categories string `yaml:"categories"` // comma-separated, see pkg/debug
	Level      string `yaml:"level"`      // ERROR, WARN, INFO, DEBUG, TRACE
}

// Defaults returns a Config with all default values filled in.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Transport: "stdio",
			Host:      "127.0.0.1",
			Port:      8000,
		},
		Wordware: WordwareConfig{
			APIURL:            "https://api.wordware.ai",
			Version:           "^1.0",
			Timeout:           30 * time.Second,
			StreamIdleTimeout: 120 * time.Second,
			OutputEvents:      []string{"output", "outputs"},
		},
		Tools: ToolsConfig{
			File: "tools_config.json",
		},
		Observability: ObservabilityConfig{
			Metrics: MetricsConfig{
				Enabled: true,
				Path:    "/metrics",
			},
		},
	}
}
