// Package app wires configuration, the tool registry and a transport into a
// runnable MCP server process.
package app

import (
	"context"
	goerrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wagiedev/agent-mcp-go/internal/config"
	"github.com/wagiedev/agent-mcp-go/internal/errors"
	"github.com/wagiedev/agent-mcp-go/internal/protocol"
	"github.com/wagiedev/agent-mcp-go/internal/registry"
	"github.com/wagiedev/agent-mcp-go/internal/transport/network"
	"github.com/wagiedev/agent-mcp-go/internal/transport/stdio"
)

// Deployable describes one server binary.
type Deployable struct {
	// Name is the binary and MCP implementation name.
	Name string
	// Version is reported during initialization.
	Version string
	// DefaultPort is used when neither --port nor PORT is set.
	DefaultPort int
	// Families selects the tool families served, in listing order.
	Families []config.Family
	// Instructions are sent to clients in the initialize result.
	Instructions string
	// Tools are served after the family tools.
	Tools []registry.Tool
	// Logger replaces the default text logger on stderr. LogLevel does not apply to it.
	Logger *slog.Logger
}

func (d Deployable) defaults() config.Defaults {
	return config.Defaults{Service: d.Name, Port: d.DefaultPort, Families: d.Families}
}

// Main runs d with the process arguments and environment until SIGINT or
// SIGTERM, and returns the exit code.
func Main(d Deployable) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return Run(ctx, d, os.Args[1:], os.Getenv, os.Stdout, os.Stderr)
}

// Run loads configuration, builds the registry and serves on the selected
// transport until ctx is done or the transport ends. It returns 0 on a clean
// shutdown or after --help, and 1 when configuration is invalid (before any
// socket is bound) or the transport fails.
//
// stdout is used only for --help; in stdio mode the protocol owns the
// process's standard output and all logs go to stderr.
func Run(
	ctx context.Context,
	d Deployable,
	args []string,
	getenv func(string) string,
	stdout, stderr io.Writer,
) (code int) {
	cfg, err := config.Load(d.defaults(), args, getenv)
	if goerrors.Is(err, errors.ErrHelp) {
		config.PrintUsage(stdout, d.defaults())

		return 0
	}

	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", d.Name, err)

		return 1
	}

	log := d.Logger
	if log == nil {
		log = newLogger(stderr, cfg.LogLevel)
	}

	log = log.With("service", d.Name)

	defer func() {
		if p := recover(); p != nil {
			log.Error("Fatal error", "panic", p, "stack", string(debug.Stack()))

			code = 1
		}
	}()

	reg, err := BuildRegistry(cfg, d.Families, d.Tools...)
	if err != nil {
		log.Error("Invalid tool registry", "error", err)

		return 1
	}

	newServer := func() *protocol.Server {
		return protocol.NewServer(reg, protocol.Options{
			Name:         d.Name,
			Version:      d.Version,
			Instructions: d.Instructions,
			Logger:       log,
		})
	}

	if cfg.Stdio {
		err = stdio.Run(ctx, log, newServer(), &mcp.StdioTransport{})
	} else {
		err = serveHTTP(ctx, log, cfg, newServer)
	}

	if err != nil {
		log.Error("Server stopped", "error", err)

		return 1
	}

	log.Info("Server stopped")

	return 0
}

func serveHTTP(ctx context.Context, log *slog.Logger, cfg *config.Config, newServer network.ServerFactory) error {
	h := network.NewHandler(newServer, network.Options{
		Service:     cfg.Service,
		IdleTimeout: cfg.SessionIdleTimeout,
		Logger:      log,
	})

	ln, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.Addr(), err)
	}

	base := "http://" + cfg.Addr()
	log.Info("MCP server listening",
		"url", base+"/mcp",
		"health", base+"/health",
		"production", cfg.Production,
		"session_idle_timeout", cfg.SessionIdleTimeout,
	)

	if !cfg.Production {
		log.Info("Add this server to an MCP client configuration:\n" + network.ClientConfigSnippet(cfg.Service, base))
	}

	return h.Serve(ctx, ln)
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
