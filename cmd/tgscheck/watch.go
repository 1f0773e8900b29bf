package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"

	tgsparser "github.com/tgs-lang/parser-sdk-go"
)

// runWatch validates the files once, then re-validates each file whenever it
// changes, until the context is cancelled.
func runWatch(
	ctx context.Context,
	session tgsparser.Session,
	paths []string,
	debounce time.Duration,
	out io.Writer,
) error {
	// Initial pass; validation failures are reported but keep the watch alive.
	for _, path := range paths {
		result, err := checkOne(ctx, session, path)
		if err != nil {
			return err
		}

		printResult(out, path, result)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch parent directories: editors replace files on save, and watching
	// the path directly loses the watch after the first rename.
	watched := make(map[string]string, len(paths))
	dirs := make(map[string]struct{})

	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", path, err)
		}

		watched[abs] = path
		dirs[filepath.Dir(abs)] = struct{}{}
	}

	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	fmt.Fprintf(out, "watching %d files\n", len(paths))

	changed := make(chan string, 16)

	group, ctx := errgroup.WithContext(ctx)

	// Event loop: collect and debounce filesystem events. Editors fire
	// several events per save; only the trailing edge triggers a check.
	group.Go(func() error {
		pending := make(map[string]struct{})

		timer := time.NewTimer(debounce)
		if !timer.Stop() {
			<-timer.C
		}
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return ctx.Err()

			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}

				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}

				abs, err := filepath.Abs(event.Name)
				if err != nil {
					continue
				}

				if _, ok := watched[abs]; !ok {
					continue
				}

				pending[abs] = struct{}{}

				timer.Reset(debounce)

			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}

				return fmt.Errorf("watcher: %w", err)

			case <-timer.C:
				for abs := range pending {
					select {
					case changed <- watched[abs]:
					case <-ctx.Done():
						return ctx.Err()
					}
				}

				clear(pending)
			}
		}
	})

	// Check loop: re-validate changed files in arrival order.
	group.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()

			case path := <-changed:
				result, err := checkOne(ctx, session, path)
				if err != nil {
					return err
				}

				printResult(out, path, result)
			}
		}
	})

	return group.Wait()
}
