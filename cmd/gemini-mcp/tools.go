package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/DiversioTeam/gemini-cli-mcp/internal/history"
	"github.com/DiversioTeam/gemini-cli-mcp/internal/tools"
)

// newListToolsCmd prints the four MCP tools and their descriptions.
// The registry is built without a gemini client — definitions are
// static, so no CLI lookup is needed just to list them.
func newListToolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list-tools",
		Short: "List all available MCP tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			bold.Println("Available Gemini MCP Tools")
			fmt.Println()

			registry := tools.NewRegistry(nil)
			for _, def := range registry.Definitions() {
				cyan.Println(def.Name)
				fmt.Printf("  %s\n\n", def.Description)
			}
			return nil
		},
	}
}

// newHistoryCmd prints recent tool invocations from the history store.
func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent tool invocations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.HistoryDB == "" {
				yellow.Println("History is disabled (history_db is empty).")
				return nil
			}

			store, err := history.Open(cfg.HistoryDB)
			if err != nil {
				return fmt.Errorf("opening history: %w", err)
			}
			defer func() { _ = store.Close() }()

			entries, err := store.Recent(limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Println("No invocations recorded yet.")
				return nil
			}

			for _, e := range entries {
				printEntry(e)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum entries to show")
	return cmd
}

func printEntry(e history.Entry) {
	status := green
	if e.Status != history.StatusOK {
		status = red
	}

	when := e.CreatedAt
	if t, err := time.Parse(time.RFC3339, e.CreatedAt); err == nil {
		when = t.Local().Format("2006-01-02 15:04:05")
	}

	fmt.Printf("%s  %-20s %-14s %6dms", when, e.Tool, status.Sprint(e.Status), e.DurationMS)
	if e.Model != "" {
		fmt.Printf("  model=%s", e.Model)
	}
	fmt.Println()
	if e.Error != "" {
		fmt.Printf("    %s\n", firstLine(e.Error))
	}
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}
