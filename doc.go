// Package tgsparser provides a Go SDK for the tgs schema parser daemon.
//
// The SDK owns a long-running `tgs parse --json --daemon` process and talks
// to it over newline-delimited JSON: one request line in, one result record
// out, strictly in order. Callers never manage the process themselves.
//
// # Basic Usage
//
// For a single validation, use the Check function:
//
//	ctx := context.Background()
//	result, err := tgsparser.Check(ctx, "order.tgs", content)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, d := range result.Diagnostics {
//	    fmt.Printf("%s:%d: %s\n", result.File, d.Line+1, d.Message)
//	}
//
// # Sessions
//
// When validating repeatedly (an editor, a watch loop), keep a Session so the
// daemon is spawned once and reused:
//
//	session := tgsparser.NewSession(
//	    tgsparser.WithLogger(slog.Default()),
//	)
//	defer session.Dispose()
//
//	result, err := session.Submit(ctx, "order.tgs", content)
//
// The session starts lazily on the first Submit and restarts transparently if
// the daemon dies: pending work fails with ProcessExitError and the next
// Submit spawns a fresh process.
//
// Editor-style callers that only ever care about the latest buffer contents
// can opt into WithSinglePending, where a newer submission supersedes an
// older one instead of queueing behind it; the superseded caller receives
// ErrSuperseded.
//
// # Error Handling
//
// The SDK provides typed errors for different failure scenarios:
//
//	result, err := session.Submit(ctx, path, content)
//	if err != nil {
//	    if nfErr, ok := errors.AsType[*tgsparser.DaemonNotFoundError](err); ok {
//	        log.Fatalf("tgs not installed, searched: %v", nfErr.SearchedPaths)
//	    }
//	    if exitErr, ok := errors.AsType[*tgsparser.ProcessExitError](err); ok {
//	        log.Fatalf("daemon died with exit code %d: %s", exitErr.ExitCode, exitErr.Stderr)
//	    }
//	    log.Fatal(err)
//	}
//
// # Requirements
//
// The tgs executable must be installed and available in PATH, or its location
// given explicitly with WithDaemonPath.
package tgsparser
