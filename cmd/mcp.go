package cmd

import (
	"github.com/farolescolar/farol/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Farol MCP server",
	Long: `Launch an MCP server over stdio that lets AI agents query matrices, rankings,
attention lists and series through standard tools.

Flags given here become the defaults of every tool call.`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, storeManager)
	},
}
