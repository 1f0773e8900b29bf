// Package subprocess provides the subprocess transport for the tgs daemon.
//
// This package implements the Transport interface by spawning the tgs
// executable in daemon mode and communicating via stdin/stdout pipes. It
// handles process lifecycle, raw stdout chunk delivery, stderr capture, and
// exit reporting.
package subprocess
