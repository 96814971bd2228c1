// Package execenv runs child processes with resolved secrets injected into
// their environment, without persisting anything to disk.
package execenv

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"

	seerrors "github.com/secretenv/secretenv/internal/errors"
	"github.com/secretenv/secretenv/internal/logging"
)

// Executor runs commands with ephemeral environment variables
type Executor struct {
	logger *logging.Logger
}

// New creates a new executor
func New(logger *logging.Logger) *Executor {
	return &Executor{logger: logger}
}

// Options configures command execution
type Options struct {
	Command      []string          // Command and arguments to run
	Vars         map[string]string // Resolved variables to inject
	KeepExisting bool              // Existing process env wins over resolved values
	PrintVars    bool              // Print injected variable names with masked values
	WorkingDir   string            // Working directory for the command
}

// Run executes the command and returns its exit code. A non-zero exit from
// the child is not an error here; the caller decides how to propagate it.
func (e *Executor) Run(ctx context.Context, options Options) (int, error) {
	if len(options.Command) == 0 {
		return 0, seerrors.UserError{
			Message:    "No command specified",
			Suggestion: "Provide a command after -- (e.g., secretenv exec -- npm start)",
		}
	}

	cmdName := options.Command[0]
	if _, err := exec.LookPath(cmdName); err != nil {
		return 0, seerrors.WrapCommandNotFound(cmdName, err)
	}

	if options.PrintVars {
		e.printVars(options.Vars)
	}

	cmd := exec.CommandContext(ctx, cmdName, options.Command[1:]...)
	cmd.Env = buildEnviron(options.Vars, options.KeepExisting)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	if options.WorkingDir != "" {
		cmd.Dir = options.WorkingDir
	}

	e.logger.Debug("executing: %s", strings.Join(options.Command, " "))
	e.logger.Debug("injecting %d environment variables", len(options.Vars))

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return 0, seerrors.CommandError{
			Command:    strings.Join(options.Command, " "),
			Message:    err.Error(),
			Suggestion: "Check the command output above for details",
		}
	}

	return 0, nil
}

// buildEnviron merges the current process environment with the resolved
// variables. Resolved values win unless keepExisting is set.
func buildEnviron(vars map[string]string, keepExisting bool) []string {
	envMap := make(map[string]string)
	for _, entry := range os.Environ() {
		if key, value, ok := strings.Cut(entry, "="); ok {
			envMap[key] = value
		}
	}

	for key, value := range vars {
		if keepExisting {
			if _, exists := envMap[key]; exists {
				continue
			}
		}
		envMap[key] = value
	}

	result := make([]string, 0, len(envMap))
	for key, value := range envMap {
		result = append(result, fmt.Sprintf("%s=%s", key, value))
	}
	sort.Strings(result)
	return result
}

func (e *Executor) printVars(vars map[string]string) {
	if len(vars) == 0 {
		fmt.Println("No variables resolved")
		return
	}

	fmt.Printf("Injecting %d environment variables:\n", len(vars))
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Printf("  %s=%s\n", key, logging.Mask(vars[key]))
	}
	fmt.Println()
}
