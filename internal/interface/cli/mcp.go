package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/neilberkman/habitrider/cmd/habitrider/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "serve-mcp",
	Short: "Start MCP server for assistant integration",
	Long: `Start an MCP (Model Context Protocol) server over stdio so an
assistant can list and search habits, mark them done and read stats.

Configure in your client's MCP config:
  {
    "mcpServers": {
      "habitrider": {
        "command": "habitrider",
        "args": ["serve-mcp"]
      }
    }
  }
`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	if err := mcp.StartServer(dbPath); err != nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}
	return nil
}
