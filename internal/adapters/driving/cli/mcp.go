package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/safety-analyzer/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can search,
classify and read stored safety reports.

Tools:     search_similar, classify_report, list_reports
Resources: report://index, report://{id}

By default the server communicates over stdio using JSON-RPC. Use --port to
start an HTTP server instead, e.g. for the MCP Inspector.

Examples:
  # Stdio mode (default, for desktop assistants)
  safety mcp serve

  # HTTP mode
  safety mcp serve --port 8090

Assistant configuration:
  {
    "mcpServers": {
      "safety": {
        "command": "/path/to/safety",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	ports := &mcp.Ports{
		Similarity:     similarityService,
		Reports:        reportService,
		Classification: classificationService,
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
