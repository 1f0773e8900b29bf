// Package daemon locates the tgs executable and builds its invocation.
//
// Discovery searches an explicit path, then PATH, then common installation
// directories. A miss is reported as DaemonNotFoundError so callers can tell
// "install the tool" apart from every other start failure.
package daemon
