package app

import (
	"fmt"

	"github.com/wagiedev/agent-mcp-go/internal/backend"
	"github.com/wagiedev/agent-mcp-go/internal/config"
	"github.com/wagiedev/agent-mcp-go/internal/registry"
	"github.com/wagiedev/agent-mcp-go/internal/tools/browser"
	"github.com/wagiedev/agent-mcp-go/internal/tools/chat"
	"github.com/wagiedev/agent-mcp-go/internal/tools/email"
	"github.com/wagiedev/agent-mcp-go/internal/tools/legal"
	"github.com/wagiedev/agent-mcp-go/internal/tools/patent"
)

var toolsets = map[config.Family]func(*backend.Client) []registry.Tool{
	config.FamilyLexi:   legal.Tools,
	config.FamilyJuris:  patent.Tools,
	config.FamilyFilora: browser.Tools,
	config.FamilySage:   chat.Tools,
	config.FamilyDonna:  email.Tools,
}

// BuildRegistry composes the tools of families, each bound to a backend
// client for the family's configured base URL, followed by extra.
func BuildRegistry(cfg *config.Config, families []config.Family, extra ...registry.Tool) (*registry.Registry, error) {
	sets := make([][]registry.Tool, 0, len(families)+1)

	for _, f := range families {
		tools, ok := toolsets[f]
		if !ok {
			return nil, fmt.Errorf("no tools for family %q", f)
		}

		sets = append(sets, tools(backend.New(string(f), cfg.Backends[f], cfg.BackendTimeout)))
	}

	return registry.Compose(append(sets, extra)...)
}
