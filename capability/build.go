package capability

import (
	"bytes"
	"context"
	"os/exec"
	"time"
)

// BuildRunner is the Build implementation: it shells out to the
// workspace's build tool. With no target the module default is built;
// with a target the target is handed to the build command verbatim.
type BuildRunner struct {
	workspacePath string
	timeout       time.Duration
}

var _ Build = (*BuildRunner)(nil)

// NewBuildRunner creates a build runner rooted at the workspace.
func NewBuildRunner(workspacePath string, timeout time.Duration) *BuildRunner {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &BuildRunner{workspacePath: workspacePath, timeout: timeout}
}

// ExecuteBuild runs the build and captures its output. A non-zero exit
// code is reported in the result, not as an error; errors are reserved
// for failures to run the build at all.
func (b *BuildRunner) ExecuteBuild(ctx context.Context, target string) (BuildResult, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	name := "make"
	args := []string{}
	if target != "" {
		args = append(args, target)
	}

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = b.workspacePath

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	exitCode := 0
	if runErr != nil {
		if ee, ok := runErr.(*exec.ExitError); ok {
			exitCode = ee.ExitCode()
		} else {
			return BuildResult{}, runErr
		}
	}

	display := name
	if target != "" {
		display += " " + target
	}
	return BuildResult{
		Target:   target,
		Command:  display,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode,
	}, nil
}

// ShowBuildOutput has no panel to reveal in the terminal host.
func (b *BuildRunner) ShowBuildOutput(ctx context.Context) error {
	return unimplemented("build output panel")
}
