package registry

import (
	"context"
	"encoding/json"
	goerrors "errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wagiedev/agent-mcp-go/internal/errors"
)

// emptyErrorText replaces blank error messages so error results always carry text.
const emptyErrorText = "Error: tool failed without a message"

// Registry is an immutable catalog of tools. It is safe for concurrent use.
type Registry struct {
	tools []Tool
	index map[string]int
}

// New builds a Registry from tools, preserving their order.
// It fails on an empty name, a missing handler or schema, or a duplicate name.
func New(tools ...Tool) (*Registry, error) {
	r := &Registry{
		tools: make([]Tool, 0, len(tools)),
		index: make(map[string]int, len(tools)),
	}

	for _, t := range tools {
		if strings.TrimSpace(t.Name) == "" {
			return nil, fmt.Errorf("%w: empty name", errors.ErrInvalidTool)
		}

		if t.Invoke == nil || t.InputSchema == nil {
			return nil, fmt.Errorf("%w: tool %q has no handler or schema", errors.ErrInvalidTool, t.Name)
		}

		if _, exists := r.index[t.Name]; exists {
			return nil, fmt.Errorf("%w: %q", errors.ErrDuplicateTool, t.Name)
		}

		r.index[t.Name] = len(r.tools)
		r.tools = append(r.tools, t)
	}

	return r, nil
}

// Compose concatenates per-family tool sets into one Registry.
func Compose(sets ...[]Tool) (*Registry, error) {
	var all []Tool
	for _, set := range sets {
		all = append(all, set...)
	}

	return New(all...)
}

// MustNew is like New but panics on error. Use it for statically known tool sets.
func MustNew(tools ...Tool) *Registry {
	r, err := New(tools...)
	if err != nil {
		panic(err)
	}

	return r
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	return len(r.tools)
}

// Lookup returns the tool registered under name.
func (r *Registry) Lookup(name string) (Tool, bool) {
	i, ok := r.index[name]
	if !ok {
		return Tool{}, false
	}

	return r.tools[i], true
}

// Tools returns the registered tools in insertion order.
func (r *Registry) Tools() []Tool {
	out := make([]Tool, len(r.tools))
	copy(out, r.tools)

	return out
}

// List returns MCP descriptors for all tools in insertion order.
func (r *Registry) List() []*mcp.Tool {
	out := make([]*mcp.Tool, 0, len(r.tools))
	for _, t := range r.tools {
		out = append(out, t.Descriptor())
	}

	return out
}

// Invoke runs the named tool. It never returns an error and never panics:
// unknown tools, invalid arguments, handler errors and handler panics are all
// reported as results with IsError set.
func (r *Registry) Invoke(ctx context.Context, name string, args json.RawMessage) (result *mcp.CallToolResult) {
	t, ok := r.Lookup(name)
	if !ok {
		return ErrorResult("Unknown tool: " + name)
	}

	defer func() {
		if p := recover(); p != nil {
			result = ErrorResult(fmt.Sprintf("Error: %v", p))
		}
	}()

	text, err := t.Invoke(ctx, args)
	if err != nil {
		var verr *errors.ValidationError
		if goerrors.As(err, &verr) {
			return ErrorResult(verr.Error())
		}

		if err.Error() == "" {
			return ErrorResult("")
		}

		return ErrorResult("Error: " + err.Error())
	}

	return TextResult(text)
}

// Handler adapts the registry to the low-level MCP tool handler signature.
// The returned error is always nil; failures travel in the result.
func (r *Registry) Handler() mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, args := callParams(req)

		return r.Invoke(ctx, name, args), nil
	}
}

func callParams(req *mcp.CallToolRequest) (string, json.RawMessage) {
	if req == nil || req.Params == nil {
		return "", nil
	}

	return req.Params.Name, req.Params.Arguments
}

// TextResult creates a CallToolResult with text content.
func TextResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

// ErrorResult creates a CallToolResult indicating an error.
func ErrorResult(message string) *mcp.CallToolResult {
	if strings.TrimSpace(message) == "" {
		message = emptyErrorText
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: message},
		},
		IsError: true,
	}
}
