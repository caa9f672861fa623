// Command agent-mcp serves the tools of every agent backend from one MCP server.
package main

import (
	"os"

	agentmcp "github.com/wagiedev/agent-mcp-go"
)

func main() {
	os.Exit(agentmcp.Main(agentmcp.Deployable{
		Name:        "agent-mcp",
		Version:     agentmcp.Version,
		DefaultPort: 8015,
		Families:    agentmcp.AllFamilies(),
		Instructions: "Legal research (legal_*), patent search (patent_*), browser automation (browser_*), " +
			"general chat (sage_chat) and email triage (donna_workflow) tools.",
	}))
}
