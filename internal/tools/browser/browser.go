// Package browser exposes the Filora browser automation backend as MCP tools.
package browser

import (
	"context"

	"github.com/wagiedev/agent-mcp-go/internal/backend"
	"github.com/wagiedev/agent-mcp-go/internal/registry"
	"github.com/wagiedev/agent-mcp-go/internal/tools/toolkit"
)

type actionRequest struct {
	URL          string         `json:"url"`
	ActionType   string         `json:"action_type"`
	Data         map[string]any `json:"data"`
	Instructions string         `json:"instructions,omitempty"`
	Timeout      int            `json:"timeout"`
}

type fillFormRequest struct {
	URL      string      `json:"url"`
	FormData []FormField `json:"form_data"`
	Submit   bool        `json:"submit"`
}

type queryRequest struct {
	Query   string         `json:"query"`
	URL     string         `json:"url,omitempty"`
	Context map[string]any `json:"context"`
	Timeout int            `json:"timeout"`
}

// Tools returns the browser automation tools backed by client.
func Tools(client *backend.Client) []registry.Tool {
	return []registry.Tool{
		registry.NewTool("browser_action",
			"Run a browser automation action (fill_form, click, extract, navigate or custom) against a web page.",
			func(ctx context.Context, in ActionArgs) (string, error) {
				if in.Data == nil {
					in.Data = map[string]any{}
				}

				return run(ctx, client, "/action", actionRequest{
					URL:          in.URL,
					ActionType:   in.ActionType,
					Data:         in.Data,
					Instructions: in.Instructions,
					Timeout:      toolkit.Or(in.Timeout, defaultTimeout),
				})
			},
			registry.WithAnnotations(toolkit.Action("Browser action")),
		),
		registry.NewTool("browser_fill_form",
			"Fill out a form on a web page and optionally submit it.",
			func(ctx context.Context, in FillFormArgs) (string, error) {
				for i := range in.FormData {
					if in.FormData[i].FieldType == "" {
						in.FormData[i].FieldType = "text"
					}
				}

				return run(ctx, client, "/fill-form", fillFormRequest{
					URL:      in.URL,
					FormData: in.FormData,
					Submit:   toolkit.Or(in.Submit, true),
				})
			},
			registry.WithAnnotations(toolkit.Action("Fill form")),
		),
		registry.NewTool("browser_click",
			"Click an element on a web page, identified by CSS selector.",
			func(ctx context.Context, in ClickArgs) (string, error) {
				return run(ctx, client, "/click-element", in)
			},
			registry.WithAnnotations(toolkit.Action("Click element")),
		),
		registry.NewTool("browser_extract",
			"Extract named values from a web page using CSS selectors.",
			func(ctx context.Context, in ExtractArgs) (string, error) {
				return run(ctx, client, "/extract-data", in)
			},
			registry.WithAnnotations(toolkit.ReadOnly("Extract data")),
		),
		registry.NewTool("browser_query",
			"Carry out a natural language browsing task, such as finding information on a site.",
			func(ctx context.Context, in QueryArgs) (string, error) {
				if in.Context == nil {
					in.Context = map[string]any{}
				}

				return run(ctx, client, "/query", queryRequest{
					Query:   in.Query,
					URL:     in.URL,
					Context: in.Context,
					Timeout: toolkit.Or(in.Timeout, defaultTimeout),
				})
			},
			registry.WithAnnotations(toolkit.Action("Browser query")),
		),
	}
}

func run(ctx context.Context, client *backend.Client, path string, body any) (string, error) {
	var resp taskResponse
	if err := client.PostJSON(ctx, path, body, &resp); err != nil {
		return "", err
	}

	return resp.format()
}
