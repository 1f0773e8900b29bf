package tgsparser

import (
	"context"
	"fmt"
)

// Check validates a single document in a throwaway session.
//
// This is the one-shot convenience: it spawns the daemon, submits the
// content, and disposes the session before returning. For repeated
// validations use NewSession, which keeps the daemon warm.
//
// Example usage:
//
//	result, err := tgsparser.Check(ctx, "order.tgs", content,
//	    tgsparser.WithLogger(slog.Default()),
//	)
func Check(ctx context.Context, filePath, content string, opts ...Option) (*Result, error) {
	options := applyOptions(opts)

	log := options.Logger
	if log == nil {
		log = NopLogger()
	}

	session := newSessionImpl(options)

	defer func() {
		if closeErr := session.Dispose(); closeErr != nil {
			log.Warn("failed to dispose session", "error", closeErr)
		}
	}()

	result, err := session.Submit(ctx, filePath, content)
	if err != nil {
		return nil, fmt.Errorf("check %s: %w", filePath, err)
	}

	return result, nil
}

// CheckFile validates a file from disk in a throwaway session.
// The daemon reads the file itself; the SDK never opens it.
func CheckFile(ctx context.Context, filePath string, opts ...Option) (*Result, error) {
	options := applyOptions(opts)

	log := options.Logger
	if log == nil {
		log = NopLogger()
	}

	session := newSessionImpl(options)

	defer func() {
		if closeErr := session.Dispose(); closeErr != nil {
			log.Warn("failed to dispose session", "error", closeErr)
		}
	}()

	result, err := session.SubmitFile(ctx, filePath)
	if err != nil {
		return nil, fmt.Errorf("check %s: %w", filePath, err)
	}

	return result, nil
}
