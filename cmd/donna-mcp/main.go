// Command donna-mcp serves the Donna email workflow tool as an MCP server.
package main

import (
	"os"

	agentmcp "github.com/wagiedev/agent-mcp-go"
)

func main() {
	os.Exit(agentmcp.Main(agentmcp.Deployable{
		Name:         "donna-mcp",
		Version:      agentmcp.Version,
		DefaultPort:  8014,
		Families:     []agentmcp.Family{agentmcp.FamilyDonna},
		Instructions: "Triage a client email into a case with expert questions, an expert email draft and a memo.",
	}))
}
