package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/topictrend/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Expose topic consolidation to AI assistants over the Model Context Protocol.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can consolidate,
map and deduplicate topics and read stored analysis runs.

Tools: consolidate_topics, map_topics, find_duplicates
Resources: topictrend://runs, topictrend://runs/{runId}

The server speaks JSON-RPC over stdio unless --port is given, in which case
it serves streamable HTTP on that port (useful with the MCP Inspector).

Register it with an assistant by running:
  topictrend mcp serve`,
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
		Analysis:   analysisService,
		Duplicates: duplicateService,
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return fmt.Errorf("starting MCP server: %w", err)
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
