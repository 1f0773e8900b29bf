package daemon

import (
	"fmt"
	"os"

	"github.com/tgs-lang/parser-sdk-go/internal/config"
)

// ExecutableName is the daemon binary searched for when no explicit path is
// configured.
const ExecutableName = "tgs"

// BuildArgs constructs the daemon invocation arguments.
// The worker is always started in line-oriented JSON daemon mode.
func BuildArgs() []string {
	return []string{"parse", "--json", "--daemon"}
}

// BuildEnvironment merges the current process environment with any extra
// variables from the options.
func BuildEnvironment(options *config.Options) []string {
	env := os.Environ()

	if options == nil {
		return env
	}

	for key, value := range options.Env {
		env = append(env, fmt.Sprintf("%s=%s", key, value))
	}

	return env
}
