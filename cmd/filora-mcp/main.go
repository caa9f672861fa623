// Command filora-mcp serves the Filora browser automation tools as an MCP server.
package main

import (
	"os"

	agentmcp "github.com/wagiedev/agent-mcp-go"
)

func main() {
	os.Exit(agentmcp.Main(agentmcp.Deployable{
		Name:         "filora-mcp",
		Version:      agentmcp.Version,
		DefaultPort:  8012,
		Families:     []agentmcp.Family{agentmcp.FamilyFilora},
		Instructions: "Automates a web browser: fill forms, click elements, extract data or run a natural language browsing task.",
	}))
}
