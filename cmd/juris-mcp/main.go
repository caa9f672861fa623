// Command juris-mcp serves the Juris patent search tools as an MCP server.
package main

import (
	"os"

	agentmcp "github.com/wagiedev/agent-mcp-go"
)

func main() {
	os.Exit(agentmcp.Main(agentmcp.Deployable{
		Name:         "juris-mcp",
		Version:      agentmcp.Version,
		DefaultPort:  8011,
		Families:     []agentmcp.Family{agentmcp.FamilyJuris},
		Instructions: "Finds patents similar to an invention description. Use patent_search_local to search only the local corpus.",
	}))
}
