// Package stdio serves one MCP client over the process's standard streams.
//
// Exactly one protocol server is bound for the lifetime of the process.
// Newline-delimited JSON-RPC framing is done by the MCP SDK; this package
// only owns the lifecycle. Standard output carries protocol frames, so all
// logging must go to standard error.
package stdio

import (
	"context"
	goerrors "errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wagiedev/agent-mcp-go/internal/errors"
	"github.com/wagiedev/agent-mcp-go/internal/protocol"
)

// Run serves server on transport until the input stream ends or ctx is
// cancelled; both are a normal shutdown and return nil. Any other failure
// of the channel is returned wrapping errors.ErrTransportClosed.
//
// In production, transport is &mcp.StdioTransport{}.
func Run(ctx context.Context, log *slog.Logger, server *protocol.Server, transport mcp.Transport) error {
	log = log.With("component", "stdio")
	log.Info("Serving MCP over stdio", "tools", server.Registry().Len())

	err := server.Run(ctx, transport)

	switch {
	case err == nil, isEOF(err):
		log.Info("Input stream closed")

		return nil
	case ctx.Err() != nil:
		log.Info("Stdio transport stopped", "reason", context.Cause(ctx))

		return nil
	default:
		log.Error("Stdio transport failed", "error", err)

		return fmt.Errorf("%w: %w", errors.ErrTransportClosed, err)
	}
}

func isEOF(err error) bool {
	return goerrors.Is(err, io.EOF) || goerrors.Is(err, io.ErrUnexpectedEOF)
}
