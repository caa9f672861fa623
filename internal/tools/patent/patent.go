// Package patent exposes the Juris patent similarity backend as MCP tools.
package patent

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
	defaultResults = 5
	excerptLength  = 300
)

// SearchArgs are the arguments of patent_search.
type SearchArgs struct {
	Description     string `json:"description" jsonschema:"description of the invention to find similar patents for"`
	Title           string `json:"title,omitempty" jsonschema:"optional title of the invention"`
	Inventor        string `json:"inventor,omitempty" jsonschema:"optional inventor name"`
	UseWebSearch    *bool  `json:"use_web_search,omitempty" jsonschema:"include patent databases on the web (default true)"`
	UseLocalCorpus  *bool  `json:"use_local_corpus,omitempty" jsonschema:"include the local patent corpus (default true)"`
	MaxLocalResults *int   `json:"max_local_results,omitempty" jsonschema:"maximum local corpus results (default 5)"`
	MaxWebResults   *int   `json:"max_web_results,omitempty" jsonschema:"maximum web results (default 5)"`
}

// Validate implements registry.Validator.
func (a *SearchArgs) Validate() error {
	if err := toolkit.NotBlank("description", a.Description); err != nil {
		return err
	}

	if err := toolkit.InRange("max_local_results", a.MaxLocalResults, 1, maxResults); err != nil {
		return err
	}

	return toolkit.InRange("max_web_results", a.MaxWebResults, 1, maxResults)
}

// LocalSearchArgs are the arguments of patent_search_local.
type LocalSearchArgs struct {
	Query      string `json:"query" jsonschema:"text to search the local patent corpus for"`
	MaxResults *int   `json:"max_results,omitempty" jsonschema:"maximum passages to return (default 5)"`
}

// Validate implements registry.Validator.
func (a *LocalSearchArgs) Validate() error {
	if err := toolkit.NotBlank("query", a.Query); err != nil {
		return err
	}

	return toolkit.InRange("max_results", a.MaxResults, 1, maxResults)
}

// StatusArgs are the (empty) arguments of patent_status.
type StatusArgs struct{}

// ReloadArgs are the (empty) arguments of patent_reload.
type ReloadArgs struct{}

type reloadResponse struct {
	Message string `json:"message"`
}

type searchRequest struct {
	Description     string `json:"description"`
	Title           string `json:"title,omitempty"`
	Inventor        string `json:"inventor,omitempty"`
	UseWebSearch    bool   `json:"use_web_search"`
	UseLocalCorpus  bool   `json:"use_local_corpus"`
	MaxLocalResults int    `json:"max_local_results"`
	MaxWebResults   int    `json:"max_web_results"`
}

type result struct {
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Source          string   `json:"source"`
	SimilarityScore *float64 `json:"similarity_score"`
	PatentNumber    string   `json:"patent_number"`
	FilingDate      string   `json:"filing_date"`
	Inventor        string   `json:"inventor"`
	Assignee        string   `json:"assignee"`
	ResultType      string   `json:"result_type"`
}

type searchResponse struct {
	QueryDescription  string   `json:"query_description"`
	SimilarPatents    []result `json:"similar_patents"`
	LocalResultsCount int      `json:"local_results_count"`
	WebResultsCount   int      `json:"web_results_count"`
	TotalResults      int      `json:"total_results"`
	SearchSummary     string   `json:"search_summary"`
}

type chunk struct {
	Text         string  `json:"text"`
	Similarity   float64 `json:"similarity"`
	DocumentName string  `json:"document_name"`
}

type localResponse struct {
	Query   string  `json:"query"`
	Results []chunk `json:"results"`
}

type statusResponse struct {
	CorpusLoaded       bool            `json:"patent_corpus_loaded"`
	CorpusChunks       int             `json:"corpus_chunks"`
	WebSearchAvailable bool            `json:"web_search_available"`
	APIKeysConfigured  map[string]bool `json:"api_keys_configured"`
}

// Tools returns the patent tools backed by client.
func Tools(client *backend.Client) []registry.Tool {
	return []registry.Tool{
		registry.NewTool("patent_search",
			"Find patents similar to an invention description, searching the local patent corpus "+
				"and web patent databases. Results are ranked by similarity.",
			func(ctx context.Context, in SearchArgs) (string, error) {
				return search(ctx, client, in)
			},
			registry.WithAnnotations(toolkit.ReadOnly("Patent similarity search")),
		),
		registry.NewTool("patent_search_local",
			"Search only the local patent corpus and return the most similar passages.",
			func(ctx context.Context, in LocalSearchArgs) (string, error) {
				return searchLocal(ctx, client, in)
			},
			registry.WithAnnotations(toolkit.ReadOnly("Local patent search")),
		),
		registry.NewTool("patent_status",
			"Report whether the patent corpus is loaded and web search is available.",
			func(ctx context.Context, _ StatusArgs) (string, error) {
				return status(ctx, client)
			},
			registry.WithAnnotations(toolkit.ReadOnly("Patent backend status")),
		),
		registry.NewTool("patent_reload",
			"Reload the local patent corpus from disk so newly added patents become searchable.",
			func(ctx context.Context, _ ReloadArgs) (string, error) {
				return reload(ctx, client)
			},
			registry.WithAnnotations(toolkit.Action("Reload patent corpus")),
		),
	}
}

func search(ctx context.Context, client *backend.Client, in SearchArgs) (string, error) {
	req := searchRequest{
		Description:     in.Description,
		Title:           in.Title,
		Inventor:        in.Inventor,
		UseWebSearch:    toolkit.Or(in.UseWebSearch, true),
		UseLocalCorpus:  toolkit.Or(in.UseLocalCorpus, true),
		MaxLocalResults: toolkit.Or(in.MaxLocalResults, defaultResults),
		MaxWebResults:   toolkit.Or(in.MaxWebResults, defaultResults),
	}

	var resp searchResponse
	if err := client.PostJSON(ctx, "/patent/search", req, &resp); err != nil {
		return "", err
	}

	return formatSearch(resp), nil
}

func formatSearch(resp searchResponse) string {
	var b toolkit.Builder

	summary := resp.SearchSummary
	if summary == "" {
		summary = "Found " + strconv.Itoa(resp.TotalResults) + " similar patents"
	}

	b.Linef("%s", summary)

	for i, p := range resp.SimilarPatents {
		heading := strconv.Itoa(i+1) + ". " + p.Title
		if p.SimilarityScore != nil {
			heading += " (similarity " + strconv.FormatFloat(*p.SimilarityScore, 'f', 3, 64) + ")"
		}

		b.Heading(heading)
		b.Field("Patent number", p.PatentNumber)
		b.Field("Filed", p.FilingDate)
		b.Field("Inventor", p.Inventor)
		b.Field("Assignee", p.Assignee)
		b.Field("Found in", resultType(p.ResultType))
		b.Field("Source", p.Source)
		b.Linef("%s", toolkit.Truncate(p.Description, excerptLength))
	}

	return b.Text()
}

func resultType(t string) string {
	switch t {
	case "local_corpus":
		return "local corpus"
	case "web_search":
		return "web search"
	default:
		return t
	}
}

func searchLocal(ctx context.Context, client *backend.Client, in LocalSearchArgs) (string, error) {
	query := url.Values{}
	query.Set("query", in.Query)
	query.Set("max_results", strconv.Itoa(toolkit.Or(in.MaxResults, defaultResults)))

	var resp localResponse
	if err := client.GetJSON(ctx, "/patent/search-local", query, &resp); err != nil {
		return "", err
	}

	if len(resp.Results) == 0 {
		return "No patents in the local corpus match " + strconv.Quote(in.Query) + ".", nil
	}

	var b toolkit.Builder

	b.Linef("Found %d local passages for %q:", len(resp.Results), in.Query)

	for i, c := range resp.Results {
		b.Heading("[" + strconv.Itoa(i+1) + "] " + c.DocumentName +
			" (similarity " + strconv.FormatFloat(c.Similarity, 'f', 3, 64) + ")")
		b.Linef("%s", toolkit.Truncate(c.Text, excerptLength))
	}

	return b.Text(), nil
}

func status(ctx context.Context, client *backend.Client) (string, error) {
	var resp statusResponse
	if err := client.GetJSON(ctx, "/patent/status", nil, &resp); err != nil {
		return "", err
	}

	var b toolkit.Builder

	b.Linef("Patent corpus loaded: %t", resp.CorpusLoaded)
	b.Linef("Corpus chunks: %d", resp.CorpusChunks)
	b.Linef("Web search available: %t", resp.WebSearchAvailable)

	for _, key := range []string{"openai", "exa"} {
		if configured, ok := resp.APIKeysConfigured[key]; ok {
			b.Linef("%s key configured: %t", key, configured)
		}
	}

	return b.Text(), nil
}

func reload(ctx context.Context, client *backend.Client) (string, error) {
	var resp reloadResponse
	if err := client.PostJSON(ctx, "/patent/reload", struct{}{}, &resp); err != nil {
		return "", err
	}

	if resp.Message == "" {
		return "Patent corpus reloaded.", nil
	}

	return resp.Message, nil
}
