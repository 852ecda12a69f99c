package cmd

import (
	"fmt"
	"log"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/rickcrawford/wpmarkdown/internal/config"
	mcpserver "github.com/rickcrawford/wpmarkdown/internal/mcp"
	"github.com/rickcrawford/wpmarkdown/internal/stats"
	"github.com/rickcrawford/wpmarkdown/internal/translator"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start an MCP server exposing the convert_html tool",
	Long: `Start an MCP server on stdio that provides the convert_html tool, which
turns the HTML body of a WordPress post into Markdown.`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("tiktoken-encoding", "", "report token counts using this TikToken encoding")
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if v, _ := cmd.Flags().GetString("tiktoken-encoding"); v != "" {
		cfg.Stats.TiktokenEncoding = v
	}

	counter, err := stats.NewCounter(cfg.Stats.TiktokenEncoding)
	if err != nil {
		return fmt.Errorf("initializing token counter: %w", err)
	}

	mcpServer := mcpserver.New(mcpserver.Deps{
		Translator: translator.New(),
		Stats:      counter,
	})

	// stdout carries the protocol; logs go to stderr.
	log.Println("starting MCP server on stdio")
	return server.ServeStdio(mcpServer)
}
