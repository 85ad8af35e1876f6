package execshell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
)

const environmentAssignmentTemplateConstant = "%s=%s"

// OSCommandRunner runs the vcs and GitHub CLI binaries through os/exec. A
// non-zero exit is reported through the result, not the error, so callers
// can distinguish tool failures from launch failures.
type OSCommandRunner struct{}

// NewOSCommandRunner constructs a runner backed by os/exec.
func NewOSCommandRunner() *OSCommandRunner {
	return &OSCommandRunner{}
}

// Run launches the command and captures its output streams.
func (runner *OSCommandRunner) Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	preparedCommand := exec.CommandContext(executionContext, string(command.Name), command.Details.Arguments...)
	preparedCommand.Dir = command.Details.WorkingDirectory
	preparedCommand.Env = mergedEnvironment(command.Details.EnvironmentVariables)

	var standardOutputBuffer bytes.Buffer
	var standardErrorBuffer bytes.Buffer
	preparedCommand.Stdout = &standardOutputBuffer
	preparedCommand.Stderr = &standardErrorBuffer
	if len(command.Details.StandardInput) > 0 {
		preparedCommand.Stdin = bytes.NewReader(command.Details.StandardInput)
	}

	runError := preparedCommand.Run()
	if runError != nil {
		exitError := &exec.ExitError{}
		if !errors.As(runError, &exitError) {
			return ExecutionResult{}, runError
		}
		return ExecutionResult{
			StandardOutput: standardOutputBuffer.String(),
			StandardError:  standardErrorBuffer.String(),
			ExitCode:       exitError.ExitCode(),
		}, nil
	}

	return ExecutionResult{
		StandardOutput: standardOutputBuffer.String(),
		StandardError:  standardErrorBuffer.String(),
	}, nil
}

// mergedEnvironment extends the process environment with per-command
// overrides; a nil result keeps os/exec's inherited default.
func mergedEnvironment(environmentVariables map[string]string) []string {
	if len(environmentVariables) == 0 {
		return nil
	}
	combinedEnvironment := append([]string{}, os.Environ()...)
	for environmentKey, environmentValue := range environmentVariables {
		combinedEnvironment = append(combinedEnvironment, fmt.Sprintf(environmentAssignmentTemplateConstant, environmentKey, environmentValue))
	}
	return combinedEnvironment
}
