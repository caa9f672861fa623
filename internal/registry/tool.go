package registry

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wagiedev/agent-mcp-go/internal/errors"
)

// InvokeFunc runs a tool against raw JSON arguments and returns its text output.
// Argument problems are reported as *errors.ValidationError.
type InvokeFunc func(ctx context.Context, args json.RawMessage) (string, error)

// Validator is implemented by argument types with checks the JSON schema
// cannot express, such as non-blank strings or value ranges.
type Validator interface {
	Validate() error
}

// Tool is a named, schema-described operation together with its handler.
type Tool struct {
	Name        string
	Description string
	InputSchema *jsonschema.Schema
	Annotations *mcp.ToolAnnotations
	Invoke      InvokeFunc
}

// Option configures a Tool during construction.
type Option func(*Tool)

// WithAnnotations sets MCP tool annotations (hints about tool behavior).
func WithAnnotations(annotations *mcp.ToolAnnotations) Option {
	return func(t *Tool) {
		t.Annotations = annotations
	}
}

// WithSchema replaces the inferred input schema.
func WithSchema(schema *jsonschema.Schema) Option {
	return func(t *Tool) {
		t.InputSchema = schema
	}
}

// NewTool creates a Tool whose arguments decode into In.
//
// The input schema is inferred from In with jsonschema.For. Fields without
// omitempty are required. Before the handler runs, arguments are validated
// against the schema, decoded into In, and checked with In.Validate when In
// implements Validator.
//
// Example:
//
//	type echoArgs struct {
//	    Text string `json:"text" jsonschema:"text to echo back"`
//	}
//
//	echo := registry.NewTool("echo", "Echo the input",
//	    func(_ context.Context, in echoArgs) (string, error) {
//	        return in.Text, nil
//	    },
//	)
func NewTool[In any](
	name, description string,
	handler func(ctx context.Context, in In) (string, error),
	opts ...Option,
) Tool {
	schema, err := jsonschema.For[In](nil)
	if err != nil {
		panic(fmt.Sprintf("registry: infer schema for tool %q: %v", name, err))
	}

	// Callers (LLMs in particular) routinely send extra fields; accept them.
	schema.AdditionalProperties = nil

	t := Tool{
		Name:        name,
		Description: description,
		InputSchema: schema,
	}

	for _, opt := range opts {
		opt(&t)
	}

	resolved, err := t.InputSchema.Resolve(nil)
	if err != nil {
		panic(fmt.Sprintf("registry: resolve schema for tool %q: %v", name, err))
	}

	t.Invoke = func(ctx context.Context, raw json.RawMessage) (string, error) {
		in, err := decodeArguments[In](name, resolved, raw)
		if err != nil {
			return "", err
		}

		return handler(ctx, in)
	}

	return t
}

// decodeArguments validates raw against the tool schema and decodes it into In.
func decodeArguments[In any](tool string, resolved *jsonschema.Resolved, raw json.RawMessage) (In, error) {
	var in In

	if len(raw) == 0 || string(raw) == "null" {
		raw = json.RawMessage("{}")
	}

	var instance any
	if err := json.Unmarshal(raw, &instance); err != nil {
		return in, &errors.ValidationError{Tool: tool, Err: fmt.Errorf("arguments are not valid JSON: %w", err)}
	}

	if err := resolved.Validate(instance); err != nil {
		return in, &errors.ValidationError{Tool: tool, Err: err}
	}

	if err := json.Unmarshal(raw, &in); err != nil {
		return in, &errors.ValidationError{Tool: tool, Err: err}
	}

	if v, ok := any(&in).(Validator); ok {
		if err := v.Validate(); err != nil {
			return in, &errors.ValidationError{Tool: tool, Err: err}
		}
	}

	return in, nil
}

// Descriptor returns the MCP tool definition for t.
func (t Tool) Descriptor() *mcp.Tool {
	return &mcp.Tool{
		Name:        t.Name,
		Description: t.Description,
		InputSchema: t.InputSchema,
		Annotations: t.Annotations,
	}
}
