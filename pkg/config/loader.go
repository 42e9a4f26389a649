package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wordware-ai/wordware-mcp/pkg/debug"
)

// Load loads configuration from a layered set of sources.
//
// The loading order is:
//  1. Built-in defaults
//  2. YAML config file (explicit path, WORDWARE_CONFIG env, ./config.yaml,
//     /etc/wordware-mcp/config.yaml)
//  3. Environment variable overrides
//  4. File reference resolution (_file suffix)
//  5. Tools manifest loading and duplicate pruning
//  6. Validation
func Load(configPath string) (*Config, error) {
	// Start with defaults.
	cfg := Defaults()

	// Discover and load YAML config file.
	filePath := discoverConfigFile(configPath)
	if filePath != "" {
		if err := loadYAMLFile(filePath, &cfg); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", filePath, err)
		}
		debug.Log("config", "loaded config file", "path", filePath)
	}

	// Apply environment variable overrides.
	applyEnvOverrides(&cfg)

	// Resolve _file references.
	if err := resolveFileReferences(&cfg); err != nil {
		return nil, fmt.Errorf("resolving file references: %w", err)
	}

	// Load the tools manifest and prune duplicate IDs.
	if err := loadTools(&cfg); err != nil {
		return nil, fmt.Errorf("loading tools manifest: %w", err)
	}

	// Validate.
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return &cfg, nil
}

// discoverConfigFile finds the config file path using the discovery order:
// 1. Explicit configPath argument
// 2. WORDWARE_CONFIG environment variable
// 3. ./config.yaml in the current directory
// 4. /etc/wordware-mcp/config.yaml
//
// Returns empty string if no config file is found.
func discoverConfigFile(configPath string) string {
	if configPath != "" {
		return configPath
	}

	if envPath := os.Getenv("WORDWARE_CONFIG"); envPath != "" {
		return envPath
	}

	candidates := []string{
		"config.yaml",
		"/etc/wordware-mcp/config.yaml",
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// loadYAMLFile reads and parses a YAML file into the Config struct.
// Fields not present in the YAML retain their current (default) values.
func loadYAMLFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// applyEnvOverrides maps environment variables to config fields.
// CONFIG_PATH is honored for the tools manifest path for compatibility with
// earlier deployments of the adapter.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("WORDWARE_API_URL"); v != "" {
		cfg.Wordware.APIURL = v
	}
	if v := os.Getenv("WORDWARE_API_KEY"); v != "" {
		cfg.Wordware.APIKey = v
	}
	if v := os.Getenv("WORDWARE_TRANSPORT"); v != "" {
		cfg.Server.Transport = v
	}
	if v := os.Getenv("WORDWARE_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("WORDWARE_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("WORDWARE_TOOLS_CONFIG"); v != "" {
		cfg.Tools.File = v
	} else if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfg.Tools.File = v
	}
}

// toolsManifest is the on-disk shape of the tools manifest file.
type toolsManifest struct {
	Tools []ToolEntry `json:"tools"`
}

// loadTools merges inline entries with the manifest file and prunes duplicate
// IDs (first occurrence wins) so each identifier registers at most once.
//
// A missing manifest file is not an error when inline entries are present;
// validation catches the case where no tools are configured at all.
func loadTools(cfg *Config) error {
	entries := append([]ToolEntry(nil), cfg.Tools.Entries...)

	if cfg.Tools.File != "" {
		data, err := os.ReadFile(cfg.Tools.File)
		switch {
		case err == nil:
			var manifest toolsManifest
			if err := json.Unmarshal(data, &manifest); err != nil {
				return fmt.Errorf("parsing %s: %w", cfg.Tools.File, err)
			}
			entries = append(entries, manifest.Tools...)
		case os.IsNotExist(err):
			// Not fatal here: startup fails later only if no tool ends up
			// registered at all.
			debug.Log("config", "tools manifest not found", "path", cfg.Tools.File)
		default:
			return fmt.Errorf("reading %s: %w", cfg.Tools.File, err)
		}
	}

	seen := make(map[string]bool, len(entries))
	deduped := entries[:0]
	for _, e := range entries {
		id := strings.TrimSpace(e.ID)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		deduped = append(deduped, ToolEntry{ID: id})
	}

	cfg.Tools.Entries = deduped
	return nil
}

// resolveFileReferences reads _file fields and populates the corresponding
// value fields. The value field wins when both are set.
func resolveFileReferences(cfg *Config) error {
	// wordware.api_key_file -> wordware.api_key
	if cfg.Wordware.APIKeyFile != "" && cfg.Wordware.APIKey == "" {
		val, err := readSecretFile(cfg.Wordware.APIKeyFile)
		if err != nil {
			return fmt.Errorf("wordware.api_key_file: %w", err)
		}
		cfg.Wordware.APIKey = val
	}
	return nil
}

// readSecretFile reads a file and returns its content with surrounding whitespace trimmed.
func readSecretFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
