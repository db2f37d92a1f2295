package tool

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// RunShellArgs describes a shell command execution.
type RunShellArgs struct {
	// Command is the full shell command string, run via "sh -c".
	Command string `json:"command"`
	// Cwd is the working directory. If relative, it is resolved within
	// the workspace. Defaults to the workspace root.
	Cwd string `json:"cwd,omitempty"`
	// TimeoutSeconds is the maximum time to allow the command to run.
	// Defaults to 60 seconds, clamped to 10 minutes.
	TimeoutSeconds int `json:"timeout_seconds,omitempty"`
}

// ShellResult captures stdout, stderr and exit code.
type ShellResult struct {
	Command    string `json:"command"`
	Stdout     string `json:"stdout"`
	Stderr     string `json:"stderr"`
	ExitCode   int    `json:"exitCode"`
	DurationMs int    `json:"durationMs"`
}

// RegisterRunShell registers the run_shell tool.
func RegisterRunShell(registry *Registry, workspacePath string) error {
	return registry.Register(Definition{
		Name:        "run_shell",
		Description: "Execute a shell command in the workspace. Returns stdout, stderr, and exit code.",
		Safe:        false,
		Handler: func(ctx context.Context, raw json.RawMessage) (interface{}, error) {
			var args RunShellArgs
			if err := json.Unmarshal(raw, &args); err != nil {
				return nil, fmt.Errorf("failed to parse arguments: %w", err)
			}
			return runShell(ctx, workspacePath, args)
		},
	})
}

func runShell(ctx context.Context, workspacePath string, args RunShellArgs) (*ShellResult, error) {
	if strings.TrimSpace(args.Command) == "" {
		return nil, errors.New("command is required")
	}

	// Resolve CWD and ensure it's inside the workspace
	absCwd := workspacePath
	if args.Cwd != "" {
		var err error
		absCwd, err = validatePath(workspacePath, args.Cwd)
		if err != nil {
			return nil, fmt.Errorf("invalid cwd: %w", err)
		}
	}

	timeout := time.Duration(normalizeTimeout(args.TimeoutSeconds)) * time.Second
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "sh", "-c", args.Command)
	cmd.Dir = absCwd

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	start := time.Now()
	runErr := cmd.Run()
	duration := time.Since(start)

	exitCode := 0
	if runErr != nil {
		if ee, ok := runErr.(*exec.ExitError); ok {
			exitCode = ee.ExitCode()
		} else {
			// Non-exit errors (e.g. context deadline)
			exitCode = -1
		}
	}

	return &ShellResult{
		Command:    args.Command,
		Stdout:     stdoutBuf.String(),
		Stderr:     stderrBuf.String(),
		ExitCode:   exitCode,
		DurationMs: int(duration / time.Millisecond),
	}, nil
}

// normalizeTimeout returns the default when unset and clamps excessive
// values.
func normalizeTimeout(seconds int) int {
	if seconds <= 0 {
		return 60
	}
	if seconds > 600 {
		return 600
	}
	return seconds
}
