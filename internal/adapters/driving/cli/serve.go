package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/safety-analyzer/internal/adapters/driving/mcp"
	"github.com/custodia-labs/safety-analyzer/internal/adapters/driving/web"
)

var (
	serveAddr    string
	serveOrigins []string
	serveMCPPort int
	serveMaxBody int64
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the web API used by browser front ends.

Routes:
  GET  /healthcheck
  POST /api/analyze               multipart: file, method, language
  POST /api/classify              {"text"}
  POST /api/apply-classification  {"text", "occurrence", "severity", "probability"}
  POST /api/similar               {"text", "limit", "rerank"}
  GET  /api/reports
  GET  /api/reports/:id
  POST /api/export                {"text", "format", "source"}

Use --mcp-port to serve the MCP tools over HTTP alongside the API.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
	serveCmd.Flags().StringSliceVar(&serveOrigins, "cors-origin", nil, "allowed CORS origin (repeatable, default any)")
	serveCmd.Flags().IntVar(&serveMCPPort, "mcp-port", 0, "also serve MCP over HTTP on this port")
	serveCmd.Flags().Int64Var(&serveMaxBody, "max-body", 0, "maximum request body in bytes (default from settings)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	maxBody := serveMaxBody
	if maxBody <= 0 && settingsService != nil {
		if s, err := settingsService.Get(); err == nil {
			maxBody = s.Analysis.MaxFileBytes
		}
	}

	server, err := web.NewServer(&web.Ports{
		Analysis:       analysisService,
		Reports:        reportService,
		Similarity:     similarityService,
		Classification: classificationService,
		Export:         exportService,
	}, web.Config{
		Addr:         serveAddr,
		MaxBodyBytes: maxBody,
		AllowOrigins: serveOrigins,
	})
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(cmd.Context())

	cmd.Printf("API listening on %s\n", server.Addr())
	g.Go(func() error {
		return server.Run(ctx)
	})

	if serveMCPPort > 0 {
		mcpServer, err := mcp.NewServer(&mcp.Ports{
			Similarity:     similarityService,
			Reports:        reportService,
			Classification: classificationService,
		})
		if err != nil {
			return err
		}
		addr := fmt.Sprintf(":%d", serveMCPPort)
		cmd.Printf("MCP server listening on http://localhost%s\n", addr)
		g.Go(func() error {
			return mcpServer.RunHTTP(ctx, addr)
		})
	}

	return g.Wait()
}
