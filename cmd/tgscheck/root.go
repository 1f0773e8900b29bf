package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	tgsparser "github.com/tgs-lang/parser-sdk-go"
)

func newRootCommand() *cobra.Command {
	var (
		configFlag     string
		daemonPathFlag string
		watchFlag      bool
		verboseFlag    bool
		singleFlag     bool
	)

	rootCmd := &cobra.Command{
		Use:           "tgscheck [files...]",
		Short:         "Validate .tgs schema files with the tgs parser daemon",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configFlag)
			if err != nil {
				return err
			}

			if daemonPathFlag != "" {
				cfg.Daemon.Path = daemonPathFlag
			}

			log := tgsparser.NopLogger()
			if verboseFlag {
				log = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
					Level: slog.LevelDebug,
				}))
			}

			session := newSession(cfg, log, singleFlag)
			defer session.Dispose()

			if watchFlag {
				return runWatch(cmd.Context(), session, args, cfg.debounce(), cmd.OutOrStdout())
			}

			return runCheck(cmd.Context(), session, args, cmd.OutOrStdout())
		},
	}

	rootCmd.Flags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.Flags().StringVar(&daemonPathFlag, "daemon-path", "", "Explicit path to the tgs binary")
	rootCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Re-validate files whenever they change")
	rootCmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable debug logging")
	rootCmd.Flags().BoolVar(&singleFlag, "single-pending", false,
		"Keep only the newest pending validation per burst of changes")

	return rootCmd
}

// newSession builds the SDK session from config and flags.
func newSession(cfg *Config, log *slog.Logger, singlePending bool) tgsparser.Session {
	opts := []tgsparser.Option{
		tgsparser.WithLogger(log),
		tgsparser.WithStderr(func(line string) {
			log.Debug("daemon stderr", "line", line)
		}),
	}

	if cfg.Daemon.Path != "" {
		opts = append(opts, tgsparser.WithDaemonPath(cfg.Daemon.Path))
	}

	if timeout := cfg.startupTimeout(); timeout > 0 {
		opts = append(opts, tgsparser.WithStartupTimeout(timeout))
	}

	if cfg.Daemon.SkipVersionCheck {
		opts = append(opts, tgsparser.WithSkipVersionCheck())
	}

	if singlePending {
		opts = append(opts, tgsparser.WithSinglePending())
	}

	return tgsparser.NewSession(opts...)
}

// runCheck validates each file once and prints a report.
// Returns an error when any file fails validation, so the process exits
// non-zero for scripting.
func runCheck(ctx context.Context, session tgsparser.Session, paths []string, out io.Writer) error {
	failed := 0

	for _, path := range paths {
		result, err := checkOne(ctx, session, path)
		if err != nil {
			return err
		}

		printResult(out, path, result)

		if !result.Success {
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed validation", failed, len(paths))
	}

	return nil
}

// checkOne reads one file and submits its content for validation.
func checkOne(ctx context.Context, session tgsparser.Session, path string) (*tgsparser.Result, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	result, err := session.Submit(ctx, path, string(content))
	if err != nil {
		return nil, fmt.Errorf("validate %s: %w", path, err)
	}

	return result, nil
}

// printResult writes one file's outcome, with a diagnostics table on failure.
func printResult(out io.Writer, path string, result *tgsparser.Result) {
	if result.Success {
		fmt.Fprintf(out, "%s: ok (%d schemas, %d enums, %d imports)\n",
			path, result.Schemas, result.Enums, result.Imports)

		return
	}

	fmt.Fprintf(out, "%s: %d errors\n", path, len(result.Diagnostics))
	fmt.Fprintln(out, renderDiagnostics(path, result.Diagnostics))
}
