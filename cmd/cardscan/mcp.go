package main

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/card-scanner/internal/mcp"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the contact tools over MCP on stdio",
	Args:  cobra.NoArgs,
	RunE:  runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer a.Close()

	s := mcp.NewServer(mcp.ServerConfig{
		Extractor: a.Extractor,
		Contacts:  a.Contacts,
		Processor: a.Processor,
		Exporter:  a.Exporter,
		Version:   version,
		Logger:    logger,
	})
	logger.Info("mcp.serve.stdio", "version", version)
	return server.ServeStdio(s)
}
