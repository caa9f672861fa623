// Package legal exposes the Lexi legal research backend as MCP tools.
package legal

import (
	"context"
	"net/url"
	"strconv"

	"github.com/wagiedev/agent-mcp-go/internal/backend"
	"github.com/wagiedev/agent-mcp-go/internal/registry"
	"github.com/wagiedev/agent-mcp-go/internal/tools/toolkit"
)

const (
	maxResults     = 20
	excerptLength  = 400
	defaultResults = 5
)

// ChatArgs are the arguments of legal_chat.
type ChatArgs struct {
	Question        string `json:"question" jsonschema:"the legal question to answer"`
	UseWebSearch    *bool  `json:"use_web_search,omitempty" jsonschema:"include web sources (default true)"`
	UseLocalDocs    *bool  `json:"use_local_docs,omitempty" jsonschema:"include the local legal document corpus (default true)"`
	MaxLocalResults *int   `json:"max_local_results,omitempty" jsonschema:"maximum local passages to consider (default 5)"`
	MaxWebResults   *int   `json:"max_web_results,omitempty" jsonschema:"maximum web results to consider (default 3)"`
}

// Validate implements registry.Validator.
func (a *ChatArgs) Validate() error {
	if err := toolkit.NotBlank("question", a.Question); err != nil {
		return err
	}

	if err := toolkit.InRange("max_local_results", a.MaxLocalResults, 1, maxResults); err != nil {
		return err
	}

	return toolkit.InRange("max_web_results", a.MaxWebResults, 1, maxResults)
}

// SearchArgs are the arguments of legal_search.
type SearchArgs struct {
	Query      string `json:"query" jsonschema:"text to search the local legal corpus for"`
	MaxResults *int   `json:"max_results,omitempty" jsonschema:"maximum passages to return (default 5)"`
}

// Validate implements registry.Validator.
func (a *SearchArgs) Validate() error {
	if err := toolkit.NotBlank("query", a.Query); err != nil {
		return err
	}

	return toolkit.InRange("max_results", a.MaxResults, 1, maxResults)
}

// StatusArgs are the (empty) arguments of legal_status.
type StatusArgs struct{}

// ReloadArgs are the (empty) arguments of legal_reload.
type ReloadArgs struct{}

type reloadResponse struct {
	Message string `json:"message"`
}

type chatRequest struct {
	Question        string `json:"question"`
	UseWebSearch    bool   `json:"use_web_search"`
	UseLocalDocs    bool   `json:"use_local_docs"`
	MaxLocalResults int    `json:"max_local_results"`
	MaxWebResults   int    `json:"max_web_results"`
}

type source struct {
	Type           string   `json:"type"`
	Title          string   `json:"title"`
	Source         string   `json:"source"`
	Content        string   `json:"content"`
	RelevanceScore *float64 `json:"relevance_score"`
	Summary        string   `json:"summary"`
}

type chatResponse struct {
	Answer           string   `json:"answer"`
	Sources          []source `json:"sources"`
	LocalContextUsed []any    `json:"local_context_used"`
	WebContextUsed   []any    `json:"web_context_used"`
	Reasoning        string   `json:"reasoning"`
}

type passage struct {
	Text         string  `json:"text"`
	Similarity   float64 `json:"similarity"`
	DocumentName string  `json:"document_name"`
	ChunkID      any     `json:"chunk_id"`
}

type searchResponse struct {
	Query   string    `json:"query"`
	Results []passage `json:"results"`
}

type statusResponse struct {
	RetrieverLoaded     bool     `json:"legal_retriever_loaded"`
	TotalChunks         int      `json:"total_chunks"`
	Documents           []string `json:"documents"`
	AnthropicConfigured bool     `json:"anthropic_configured"`
	ExaConfigured       bool     `json:"exa_configured"`
}

// Tools returns the legal tools backed by client.
func Tools(client *backend.Client) []registry.Tool {
	return []registry.Tool{
		registry.NewTool("legal_chat",
			"Answer a legal question using the local legal document corpus and web research. "+
				"Returns the answer followed by the sources it relied on.",
			func(ctx context.Context, in ChatArgs) (string, error) {
				return chat(ctx, client, in)
			},
			registry.WithAnnotations(toolkit.ReadOnly("Legal research chat")),
		),
		registry.NewTool("legal_search",
			"Search the local legal document corpus and return the most similar passages.",
			func(ctx context.Context, in SearchArgs) (string, error) {
				return search(ctx, client, in)
			},
			registry.WithAnnotations(toolkit.ReadOnly("Legal corpus search")),
		),
		registry.NewTool("legal_status",
			"Report whether the legal knowledge base is loaded and which documents it holds.",
			func(ctx context.Context, _ StatusArgs) (string, error) {
				return status(ctx, client)
			},
			registry.WithAnnotations(toolkit.ReadOnly("Legal backend status")),
		),
		registry.NewTool("legal_reload",
			"Reload the local legal document corpus from disk so newly added documents become searchable.",
			func(ctx context.Context, _ ReloadArgs) (string, error) {
				return reload(ctx, client)
			},
			registry.WithAnnotations(toolkit.Action("Reload legal knowledge base")),
		),
	}
}

func chat(ctx context.Context, client *backend.Client, in ChatArgs) (string, error) {
	req := chatRequest{
		Question:        in.Question,
		UseWebSearch:    toolkit.Or(in.UseWebSearch, true),
		UseLocalDocs:    toolkit.Or(in.UseLocalDocs, true),
		MaxLocalResults: toolkit.Or(in.MaxLocalResults, 5),
		MaxWebResults:   toolkit.Or(in.MaxWebResults, 3),
	}

	var resp chatResponse
	if err := client.PostJSON(ctx, "/legal/chat", req, &resp); err != nil {
		return "", err
	}

	return formatChat(resp), nil
}

func formatChat(resp chatResponse) string {
	var b toolkit.Builder

	b.Linef("%s", resp.Answer)

	if len(resp.Sources) > 0 {
		b.Heading("Sources:")

		for i, s := range resp.Sources {
			title := s.Title
			if title == "" {
				title = s.Source
			}

			line := strconv.Itoa(i+1) + ". " + title
			if s.Type != "" {
				line += " [" + s.Type + "]"
			}

			if s.RelevanceScore != nil {
				line += " (relevance " + strconv.FormatFloat(*s.RelevanceScore, 'f', 2, 64) + ")"
			}

			b.Linef("%s", line)

			if s.Source != "" && s.Source != title {
				b.Linef("   %s", s.Source)
			}
		}
	}

	if resp.Reasoning != "" {
		b.Heading(resp.Reasoning)
	}

	return b.Text()
}

func search(ctx context.Context, client *backend.Client, in SearchArgs) (string, error) {
	query := url.Values{}
	query.Set("query", in.Query)
	query.Set("max_results", strconv.Itoa(toolkit.Or(in.MaxResults, defaultResults)))

	var resp searchResponse
	if err := client.GetJSON(ctx, "/legal/search", query, &resp); err != nil {
		return "", err
	}

	return formatPassages(in.Query, resp.Results), nil
}

func formatPassages(query string, results []passage) string {
	if len(results) == 0 {
		return "No legal passages found for " + strconv.Quote(query) + "."
	}

	var b toolkit.Builder

	b.Linef("Found %d passages for %q:", len(results), query)

	for i, p := range results {
		b.Heading("[" + strconv.Itoa(i+1) + "] " + p.DocumentName +
			" (similarity " + strconv.FormatFloat(p.Similarity, 'f', 3, 64) + ")")
		b.Linef("%s", toolkit.Truncate(p.Text, excerptLength))
	}

	return b.Text()
}

func status(ctx context.Context, client *backend.Client) (string, error) {
	var resp statusResponse
	if err := client.GetJSON(ctx, "/legal/status", nil, &resp); err != nil {
		return "", err
	}

	var b toolkit.Builder

	b.Linef("Knowledge base loaded: %t", resp.RetrieverLoaded)
	b.Linef("Indexed chunks: %d", resp.TotalChunks)
	b.Linef("Anthropic configured: %t", resp.AnthropicConfigured)
	b.Linef("Web search configured: %t", resp.ExaConfigured)

	if len(resp.Documents) > 0 {
		b.Heading("Documents:")

		for _, d := range resp.Documents {
			b.Linef("- %s", d)
		}
	}

	return b.Text(), nil
}

func reload(ctx context.Context, client *backend.Client) (string, error) {
	var resp reloadResponse
	if err := client.PostJSON(ctx, "/legal/reload", struct{}{}, &resp); err != nil {
		return "", err
	}

	if resp.Message == "" {
		return "Legal knowledge base reloaded.", nil
	}

	return resp.Message, nil
}
