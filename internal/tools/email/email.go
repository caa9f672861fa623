// Package email exposes the Donna email triage workflow as an MCP tool.
//
// The backend streams the workflow as server-sent events; the tool collects
// them and returns one report once the stream ends.
package email

import (
	"context"
	"fmt"

	"github.com/wagiedev/agent-mcp-go/internal/backend"
	"github.com/wagiedev/agent-mcp-go/internal/registry"
	"github.com/wagiedev/agent-mcp-go/internal/tools/toolkit"
)

// Args are the arguments of donna_workflow.
type Args struct {
	Message   string `json:"message" jsonschema:"body of the client email to triage"`
	Title     string `json:"title" jsonschema:"subject line of the client email"`
	SendEmail *bool  `json:"send_email,omitempty" jsonschema:"send the drafted email to the selected expert (default false)"`
}

// Validate implements registry.Validator.
func (a *Args) Validate() error {
	if err := toolkit.NotBlank("message", a.Message); err != nil {
		return err
	}

	return toolkit.NotBlank("title", a.Title)
}

type request struct {
	Message   string `json:"message"`
	Title     string `json:"title"`
	SendEmail bool   `json:"send_email"`
}

// Tools returns the Donna workflow tool backed by client.
func Tools(client *backend.Client) []registry.Tool {
	return []registry.Tool{
		registry.NewTool("donna_workflow",
			"Triage a client email: Donna titles the case, drafts questions, picks a specialist, "+
				"drafts (and optionally sends) the expert email and writes an internal memo.",
			func(ctx context.Context, in Args) (string, error) {
				return run(ctx, client, in)
			},
			registry.WithAnnotations(toolkit.Action("Donna email workflow")),
		),
	}
}

func run(ctx context.Context, client *backend.Client, in Args) (string, error) {
	req := request{
		Message:   in.Message,
		Title:     in.Title,
		SendEmail: toolkit.Or(in.SendEmail, false),
	}

	var wf workflow
	if err := client.PostStream(ctx, "/donna/workflow", req, wf.handle); err != nil {
		return "", err
	}

	if !wf.done {
		if n := len(wf.failures); n > 0 {
			f := wf.failures[n-1]

			return "", fmt.Errorf("workflow failed at stage %s: %s", f.Stage, f.Error)
		}

		return "", fmt.Errorf("workflow ended before completing (last status: %s)", wf.lastStatus())
	}

	return wf.report(), nil
}
