// tgs-mcp exposes the tgs parser daemon as an MCP stdio server, so agent
// tooling can validate .tgs schemas through a warm session.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tgsparser "github.com/tgs-lang/parser-sdk-go"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Stdout carries the MCP protocol; logs must go to stderr.
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	session := tgsparser.NewSession(
		tgsparser.WithLogger(log),
		tgsparser.WithDaemonPath(os.Getenv("TGS_DAEMON_PATH")),
	)
	defer session.Dispose()

	if err := run(ctx, session); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
