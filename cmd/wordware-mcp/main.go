// Command wordware-mcp runs the Wordware MCP adapter: it fetches the
// configured Wordware released apps, registers each as an MCP tool, and
// serves them over stdio or streamable HTTP.
//
// Configuration via environment variables:
//
//	WORDWARE_API_KEY      - Wordware API key (required for live use)
//	WORDWARE_API_URL      - API base URL (default: https://api.wordware.ai)
//	WORDWARE_TOOLS_CONFIG - tools manifest path (default: ./tools_config.json)
//	CONFIG_PATH           - legacy alias for WORDWARE_TOOLS_CONFIG
//	WORDWARE_CONFIG       - YAML config file path
//	WORDWARE_DEBUG        - debug categories (see pkg/debug)
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/wordware-ai/wordware-mcp/pkg/config"
	"github.com/wordware-ai/wordware-mcp/pkg/debug"
	"github.com/wordware-ai/wordware-mcp/pkg/tools"
	"github.com/wordware-ai/wordware-mcp/pkg/transport"
	"github.com/wordware-ai/wordware-mcp/pkg/wordware"
)

const version = "0.2.0"

var (
	flagTransport string
	flagHost      string
	flagPort      int
	flagConfig    string
	flagDebug     bool
)

var rootCmd = &cobra.Command{
	Use:          "wordware-mcp",
	Short:        "MCP server exposing Wordware released apps as tools",
	Version:      version,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVarP(&flagTransport, "transport", "t", "", "Transport: stdio or http")
	rootCmd.Flags().StringVar(&flagHost, "host", "", "Host to bind (http transport)")
	rootCmd.Flags().IntVarP(&flagPort, "port", "p", 0, "Port to bind (http transport)")
	rootCmd.Flags().StringVarP(&flagConfig, "config", "c", "", "Config file path")
	rootCmd.Flags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Flags override file and environment settings.
	if flagTransport != "" {
		cfg.Server.Transport = flagTransport
	}
	if flagHost != "" {
		cfg.Server.Host = flagHost
	}
	if flagPort != 0 {
		cfg.Server.Port = flagPort
	}
	if flagDebug && cfg.Debug.Level == "" {
		cfg.Debug.Level = "DEBUG"
	}
	debug.Init(cfg.Debug.Categories, cfg.Debug.Level)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	if len(cfg.Tools.Entries) == 0 {
		return fmt.Errorf("no tools configured (manifest: %s)", cfg.Tools.File)
	}

	client := wordware.NewClient(wordware.Config{
		APIURL:  cfg.Wordware.APIURL,
		APIKey:  cfg.Wordware.APIKey,
		Version: cfg.Wordware.Version,
		Timeout: cfg.Wordware.Timeout,
	})
	defer client.Close()

	server := mcp.NewServer(
		&mcp.Implementation{Name: "wordware-tools", Version: version},
		nil,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The tool table is built completely before the transport starts, so
	// invocations only ever see the finished, read-only table.
	registrar := tools.NewRegistrar(client, tools.Config{
		OutputEvents:      cfg.Wordware.OutputEvents,
		StreamIdleTimeout: cfg.Wordware.StreamIdleTimeout,
	})
	ids := make([]string, 0, len(cfg.Tools.Entries))
	for _, e := range cfg.Tools.Entries {
		ids = append(ids, e.ID)
	}
	if err := registrar.RegisterAll(ctx, server, ids); err != nil {
		return fmt.Errorf("registering tools: %w", err)
	}

	switch cfg.Server.Transport {
	case "http":
		err = transport.RunHTTP(ctx, server, cfg.Server, cfg.Observability.Metrics)
	default:
		err = transport.RunStdio(ctx, server)
	}
	if err != nil && ctx.Err() == nil {
		slog.Error("server failed", "error", err)
		return err
	}
	return nil
}
