// Package agentmcp serves agent backend tools over the Model Context Protocol.
//
// Each binary under cmd/ is a Deployable: a name, a default port and the
// tool families it exposes. Main loads configuration from flags and the
// environment, builds the tool registry and serves it either to a single
// client over standard input/output (--stdio) or to many concurrent clients
// over HTTP.
//
// # Basic Usage
//
//	func main() {
//	    os.Exit(agentmcp.Main(agentmcp.Deployable{
//	        Name:        "lexi-mcp",
//	        Version:     agentmcp.Version,
//	        DefaultPort: 8010,
//	        Families:    []agentmcp.Family{agentmcp.FamilyLexi},
//	    }))
//	}
//
// # HTTP Endpoints
//
// In HTTP mode the server exposes:
//
//   - POST/GET/DELETE /mcp: streamable HTTP, one session per client,
//     identified by the Mcp-Session-Id header
//   - GET/POST /sse: the older HTTP+SSE transport
//   - GET /health: liveness probe
//
// # Custom Tools
//
// Tools are typed: the input schema is inferred from the argument struct and
// arguments are validated before the handler runs.
//
//	type greetArgs struct {
//	    Name string `json:"name" jsonschema:"who to greet"`
//	}
//
//	greet := agentmcp.NewTool("greet", "Greet someone",
//	    func(_ context.Context, in greetArgs) (string, error) {
//	        return "Hello, " + in.Name, nil
//	    },
//	)
//
//	reg, err := agentmcp.NewRegistry(greet)
//
// Tool failures never become protocol errors: unknown tools, invalid
// arguments and handler errors are returned as results with IsError set.
package agentmcp
