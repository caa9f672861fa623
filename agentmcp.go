package agentmcp

import (
	"context"
	"io"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wagiedev/agent-mcp-go/internal/app"
	"github.com/wagiedev/agent-mcp-go/internal/config"
	"github.com/wagiedev/agent-mcp-go/internal/registry"
)

// Re-export types for the public API.
type (
	// Deployable describes one server binary.
	Deployable = app.Deployable

	// Family names a backend whose tools a server exposes.
	Family = config.Family

	// Tool is a named, schema-described operation together with its handler.
	Tool = registry.Tool

	// ToolOption configures a Tool during construction.
	ToolOption = registry.Option

	// Registry is an ordered, immutable set of tools.
	Registry = registry.Registry

	// CallToolResult is the result of a tool call.
	CallToolResult = mcp.CallToolResult

	// McpToolAnnotations describes optional hints about tool behavior.
	McpToolAnnotations = mcp.ToolAnnotations
)

// Tool families.
const (
	FamilyLexi   = config.FamilyLexi
	FamilyJuris  = config.FamilyJuris
	FamilyFilora = config.FamilyFilora
	FamilySage   = config.FamilySage
	FamilyDonna  = config.FamilyDonna
)

// AllFamilies returns every tool family in listing order.
func AllFamilies() []Family {
	return append([]Family(nil), config.AllFamilies...)
}

// Main runs d with the process arguments and environment until SIGINT or
// SIGTERM and returns the process exit code.
func Main(d Deployable) int {
	return app.Main(d)
}

// NewTool creates a Tool whose arguments decode into In. See registry
// semantics in the package documentation.
func NewTool[In any](
	name, description string,
	handler func(ctx context.Context, in In) (string, error),
	opts ...ToolOption,
) Tool {
	return registry.NewTool(name, description, handler, opts...)
}

// WithAnnotations sets MCP tool annotations.
func WithAnnotations(annotations *McpToolAnnotations) ToolOption {
	return registry.WithAnnotations(annotations)
}

// NewRegistry creates a registry of tools in the given order. It fails on
// duplicate names and incomplete tools.
func NewRegistry(tools ...Tool) (*Registry, error) {
	return registry.New(tools...)
}

// TextResult creates a successful CallToolResult with text content.
func TextResult(text string) *CallToolResult {
	return registry.TextResult(text)
}

// ErrorResult creates a CallToolResult with IsError set.
func ErrorResult(message string) *CallToolResult {
	return registry.ErrorResult(message)
}

// Run is Main with explicit arguments, environment and output streams. It
// returns when ctx is done or the transport ends.
func Run(
	ctx context.Context,
	d Deployable,
	args []string,
	getenv func(string) string,
	stdout, stderr io.Writer,
) int {
	return app.Run(ctx, d, args, getenv, stdout, stderr)
}
