package daemon

import (
	"context"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/tgs-lang/parser-sdk-go/internal/errors"
)

const (
	// MinimumVersion is the oldest daemon known to speak the --daemon protocol.
	MinimumVersion = "0.3.0"

	// VersionCheckTimeout is the timeout for the version check command.
	VersionCheckTimeout = 2 * time.Second
)

// Config holds configuration for daemon discovery.
type Config struct {
	// DaemonPath is an explicit executable path that skips PATH search.
	// If empty, discovery searches PATH and common locations.
	DaemonPath string

	// SkipVersionCheck skips version validation during discovery.
	// Can also be controlled via the TGS_SDK_SKIP_VERSION_CHECK env var.
	SkipVersionCheck bool

	// Logger is an optional logger for discovery operations.
	// If nil, a default no-op logger is used.
	Logger *slog.Logger
}

// Discoverer locates and validates the tgs executable.
type Discoverer interface {
	// Discover locates the tgs executable and validates its version.
	// Returns the path to the executable or a DaemonNotFoundError.
	Discover(ctx context.Context) (string, error)
}

// discoverer implements the Discoverer interface.
type discoverer struct {
	cfg *Config
	log *slog.Logger
}

// Compile-time verification that discoverer implements Discoverer.
var _ Discoverer = (*discoverer)(nil)

// NewDiscoverer creates a new daemon discoverer with the given configuration.
func NewDiscoverer(cfg *Config) Discoverer {
	if cfg == nil {
		cfg = &Config{}
	}

	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError + 1}))
	}

	return &discoverer{
		cfg: cfg,
		log: log,
	}
}

// Discover locates the tgs executable and validates its version.
func (d *discoverer) Discover(ctx context.Context) (string, error) {
	d.log.Debug("Discovering tgs executable")

	path, err := d.findExecutable()
	if err != nil {
		d.log.Error("Failed to find tgs executable", "error", err)

		return "", err
	}

	d.log.Debug("Found tgs executable", "daemon_path", path)

	d.checkVersion(ctx, path)

	return path, nil
}

// findExecutable locates the tgs binary.
func (d *discoverer) findExecutable() (string, error) {
	// If explicit path provided, use it and only it
	if d.cfg.DaemonPath != "" {
		d.log.Debug("Using explicit daemon path", "daemon_path", d.cfg.DaemonPath)

		if _, err := os.Stat(d.cfg.DaemonPath); err == nil {
			return d.cfg.DaemonPath, nil
		}

		d.log.Debug("Explicit daemon path not found", "daemon_path", d.cfg.DaemonPath)

		return "", &errors.DaemonNotFoundError{SearchedPaths: []string{d.cfg.DaemonPath}}
	}

	searchedPaths := make([]string, 0, 4)

	d.log.Debug("Searching for executable in PATH", "name", ExecutableName)

	if path, err := exec.LookPath(ExecutableName); err == nil {
		d.log.Debug("Found executable in PATH", "path", path)

		return path, nil
	}

	searchedPaths = append(searchedPaths, "$PATH")

	commonPaths := []string{
		"/usr/local/bin/" + ExecutableName,
		"/usr/bin/" + ExecutableName,
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		commonPaths = append(commonPaths,
			filepath.Join(homeDir, ".local/bin", ExecutableName),
			filepath.Join(homeDir, ".cargo/bin", ExecutableName),
		)
	}

	for _, path := range commonPaths {
		searchedPaths = append(searchedPaths, path)
		d.log.Debug("Checking common path", "path", path)

		if _, err := os.Stat(path); err == nil {
			d.log.Debug("Found executable at common path", "path", path)

			return path, nil
		}
	}

	d.log.Warn("tgs executable not found in any searched paths", "searched_paths", searchedPaths)

	return "", &errors.DaemonNotFoundError{SearchedPaths: searchedPaths}
}

// checkVersion checks if the daemon version meets minimum requirements.
// Logs a warning if version is below minimum. Errors are silently ignored.
func (d *discoverer) checkVersion(ctx context.Context, path string) {
	if d.cfg.SkipVersionCheck {
		d.log.Debug("Skipping daemon version check (configured)")

		return
	}

	if os.Getenv("TGS_SDK_SKIP_VERSION_CHECK") != "" {
		d.log.Debug("Skipping daemon version check (TGS_SDK_SKIP_VERSION_CHECK set)")

		return
	}

	ctx, cancel := context.WithTimeout(ctx, VersionCheckTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, path, "--version")

	output, err := cmd.Output()
	if err != nil {
		d.log.Debug("Daemon version check failed", "error", err)

		return
	}

	versionStr := strings.TrimSpace(string(output))
	re := regexp.MustCompile(`([0-9]+\.[0-9]+\.[0-9]+)`)

	match := re.FindStringSubmatch(versionStr)
	if match == nil {
		d.log.Debug("Could not parse daemon version", "output", versionStr)

		return
	}

	version := match[1]
	if compareVersions(version, MinimumVersion) < 0 {
		d.log.Warn("tgs version may not support daemon mode",
			"version", version,
			"minimum_required", MinimumVersion,
		)
	} else {
		d.log.Debug("Daemon version check passed", "version", version, "minimum", MinimumVersion)
	}
}

// compareVersions compares two semantic versions.
// Returns -1 if a < b, 0 if a == b, 1 if a > b.
func compareVersions(a, b string) int {
	aParts := strings.Split(a, ".")
	bParts := strings.Split(b, ".")

	for i := range 3 {
		aNum := 0
		bNum := 0

		if i < len(aParts) {
			aNum, _ = strconv.Atoi(aParts[i])
		}

		if i < len(bParts) {
			bNum, _ = strconv.Atoi(bParts[i])
		}

		if aNum < bNum {
			return -1
		}

		if aNum > bNum {
			return 1
		}
	}

	return 0
}
