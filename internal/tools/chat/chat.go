// Package chat exposes the Sage conversational backend as an MCP tool.
package chat

import (
	"context"
	"fmt"

	"github.com/wagiedev/agent-mcp-go/internal/backend"
	"github.com/wagiedev/agent-mcp-go/internal/registry"
	"github.com/wagiedev/agent-mcp-go/internal/tools/toolkit"
)

const maxTemperature = 2.0

// Args are the arguments of sage_chat.
type Args struct {
	Prompt       string   `json:"prompt" jsonschema:"the message to send"`
	UseWebSearch *bool    `json:"use_web_search,omitempty" jsonschema:"allow the assistant to search the web (default false)"`
	ModelName    string   `json:"model_name,omitempty" jsonschema:"model to answer with; the backend default is used when empty"`
	Temperature  *float64 `json:"temperature,omitempty" jsonschema:"sampling temperature between 0 and 2 (default 0)"`
	ChatID       string   `json:"chat_id,omitempty" jsonschema:"continue an existing conversation"`
	Title        string   `json:"title,omitempty" jsonschema:"title for a new conversation"`
}

// Validate implements registry.Validator.
func (a *Args) Validate() error {
	if err := toolkit.NotBlank("prompt", a.Prompt); err != nil {
		return err
	}

	if a.Temperature != nil && (*a.Temperature < 0 || *a.Temperature > maxTemperature) {
		return fmt.Errorf("temperature must be between 0 and %g, got %g", maxTemperature, *a.Temperature)
	}

	return nil
}

type request struct {
	Prompt       string   `json:"prompt"`
	UseWebSearch bool     `json:"use_web_search"`
	ModelName    string   `json:"model_name,omitempty"`
	Temperature  *float64 `json:"temperature,omitempty"`
	Stream       bool     `json:"stream"`
	ChatID       string   `json:"chat_id,omitempty"`
	Title        string   `json:"title,omitempty"`
}

type response struct {
	Text      *string `json:"text"`
	ChatID    string  `json:"chat_id"`
	ToolCalls []any   `json:"tool_calls"`
}

// Tools returns the Sage chat tool backed by client.
func Tools(client *backend.Client) []registry.Tool {
	return []registry.Tool{
		registry.NewTool("sage_chat",
			"Chat with Sage, a general legal assistant that keeps conversation history. "+
				"Pass the returned chat id as chat_id to continue the conversation.",
			func(ctx context.Context, in Args) (string, error) {
				return send(ctx, client, in)
			},
			registry.WithAnnotations(toolkit.Action("Sage chat")),
		),
	}
}

func send(ctx context.Context, client *backend.Client, in Args) (string, error) {
	req := request{
		Prompt:       in.Prompt,
		UseWebSearch: toolkit.Or(in.UseWebSearch, false),
		ModelName:    in.ModelName,
		Temperature:  in.Temperature,
		ChatID:       in.ChatID,
		Title:        in.Title,
	}

	var resp response
	if err := client.PostJSON(ctx, "/sage/chat", req, &resp); err != nil {
		return "", err
	}

	var b toolkit.Builder

	if resp.Text == nil || *resp.Text == "" {
		b.Linef("(Sage returned no text)")
	} else {
		b.Linef("%s", *resp.Text)
	}

	if n := len(resp.ToolCalls); n > 0 {
		b.Heading(fmt.Sprintf("Tool calls made: %d", n))
	}

	if resp.ChatID != "" {
		b.Heading("chat_id: " + resp.ChatID)
	}

	return b.Text(), nil
}
