// gemini-mcp: an MCP server that exposes the Google Gemini CLI as tools
// for AI assistants (Claude Code, Cursor, and any other MCP client).
//
// Usage:
//
//	gemini-mcp              # Start the MCP server (stdio transport)
//	gemini-mcp doctor       # Check Gemini CLI installation and auth
//	gemini-mcp list-tools   # List the available MCP tools
//	gemini-mcp history      # Show recent tool invocations
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/DiversioTeam/gemini-cli-mcp/internal/config"
	"github.com/DiversioTeam/gemini-cli-mcp/internal/logging"
	mcpserver "github.com/DiversioTeam/gemini-cli-mcp/internal/server"
	"github.com/mark3labs/mcp-go/server"
)

var (
	flagDebug  bool
	flagConfig string
)

func main() {
	root := &cobra.Command{
		Use:     "gemini-mcp",
		Short:   "MCP server for the Google Gemini CLI",
		Version: mcpserver.Version,
		// Running with no subcommand starts the server.
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging")
	root.PersistentFlags().StringVar(&flagConfig, "config", "", "path to a local config file")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server (stdio transport)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}

	root.AddCommand(serve, newDoctorCmd(), newListToolsCmd(), newHistoryCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	if flagDebug {
		cfg.Debug = true
	}
	return cfg, nil
}

func runServe() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logging.Setup(cfg.Debug)

	s, cleanup, err := mcpserver.New(cfg)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	defer cleanup()

	// Graceful shutdown on interrupt. The stdio server also stops on
	// its own when the client closes stdin.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "shutting down")
		cleanup()
		os.Exit(0)
	}()

	return server.ServeStdio(s)
}
