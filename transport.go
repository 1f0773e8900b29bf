package tgsparser

import "github.com/tgs-lang/parser-sdk-go/internal/config"

// Transport abstracts the connection to the daemon process.
//
// The default implementation spawns the tgs binary as a subprocess. Custom
// implementations can be injected with WithTransport, mainly for testing.
type Transport = config.Transport
