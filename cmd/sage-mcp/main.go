// Command sage-mcp serves the Sage chat tool as an MCP server.
package main

import (
	"os"

	agentmcp "github.com/wagiedev/agent-mcp-go"
)

func main() {
	os.Exit(agentmcp.Main(agentmcp.Deployable{
		Name:         "sage-mcp",
		Version:      agentmcp.Version,
		DefaultPort:  8013,
		Families:     []agentmcp.Family{agentmcp.FamilySage},
		Instructions: "Chat with Sage. Pass the returned chat_id back to continue a conversation.",
	}))
}
