// Command lexi-mcp serves the Lexi legal research tools as an MCP server.
package main

import (
	"os"

	agentmcp "github.com/wagiedev/agent-mcp-go"
)

func main() {
	os.Exit(agentmcp.Main(agentmcp.Deployable{
		Name:         "lexi-mcp",
		Version:      agentmcp.Version,
		DefaultPort:  8010,
		Families:     []agentmcp.Family{agentmcp.FamilyLexi},
		Instructions: "Answers legal questions from a local legal corpus and the web. Use legal_search for raw passages.",
	}))
}
