package execshell_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/distrokit/internal/execshell"
)

const (
	testExecutionSuccessCaseNameConstant         = "success"
	testExecutionFailureCaseNameConstant         = "failure_exit_code"
	testExecutionRunnerErrorCaseNameConstant     = "runner_error"
	testLoggerInitializationCaseNameConstant     = "logger_validation"
	testRunnerInitializationCaseNameConstant     = "runner_validation"
	testSuccessfulInitializationCaseNameConstant = "successful_initialization"
	testCommandArgumentConstant                  = "--version"
	testStandardErrorOutputConstant              = "failure"
)

type recordingCommandRunner struct {
	executionResult  execshell.ExecutionResult
	executionError   error
	recordedCommands []execshell.ShellCommand
}

func (runner *recordingCommandRunner) Run(executionContext context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error) {
	runner.recordedCommands = append(runner.recordedCommands, command)
	return runner.executionResult, runner.executionError
}

func TestShellExecutorInitializationValidation(testInstance *testing.T) {
	testCases := []struct {
		name          string
		logger        *zap.Logger
		runner        execshell.CommandRunner
		expectError   error
		expectSuccess bool
	}{
		{
			name:        testLoggerInitializationCaseNameConstant,
			logger:      nil,
			runner:      &recordingCommandRunner{},
			expectError: execshell.ErrLoggerNotConfigured,
		},
		{
			name:        testRunnerInitializationCaseNameConstant,
			logger:      zap.NewNop(),
			runner:      nil,
			expectError: execshell.ErrCommandRunnerNotConfigured,
		},
		{
			name:          testSuccessfulInitializationCaseNameConstant,
			logger:        zap.NewNop(),
			runner:        &recordingCommandRunner{},
			expectSuccess: true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor, creationError := execshell.NewShellExecutor(testCase.logger, testCase.runner)
			if testCase.expectSuccess {
				require.NoError(testInstance, creationError)
				require.NotNil(testInstance, executor)
			} else {
				require.Error(testInstance, creationError)
				require.ErrorIs(testInstance, creationError, testCase.expectError)
			}
		})
	}
}

func TestShellExecutorExecuteBehavior(testInstance *testing.T) {
	testCases := []struct {
		name             string
		runnerResult     execshell.ExecutionResult
		runnerError      error
		expectErrorType  any
		expectedLogCount int
	}{
		{
			name: testExecutionSuccessCaseNameConstant,
			runnerResult: execshell.ExecutionResult{
				StandardOutput: "ok",
				ExitCode:       0,
			},
			expectedLogCount: 2,
		},
		{
			name: testExecutionFailureCaseNameConstant,
			runnerResult: execshell.ExecutionResult{
				StandardError: testStandardErrorOutputConstant,
				ExitCode:      1,
			},
			expectErrorType:  execshell.CommandFailedError{},
			expectedLogCount: 2,
		},
		{
			name:             testExecutionRunnerErrorCaseNameConstant,
			runnerError:      errors.New("runner failure"),
			expectErrorType:  execshell.CommandExecutionError{},
			expectedLogCount: 2,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			observerCore, observedLogs := observer.New(zap.DebugLevel)
			logger := zap.New(observerCore)
			commandRunner := &recordingCommandRunner{
				executionResult: testCase.runnerResult,
				executionError:  testCase.runnerError,
			}

			executor, creationError := execshell.NewShellExecutor(logger, commandRunner)
			require.NoError(testInstance, creationError)

			executionResult, executionError := executor.ExecuteGit(context.Background(), execshell.CommandDetails{
				Arguments: []string{testCommandArgumentConstant},
			})

			if testCase.expectErrorType == nil {
				require.NoError(testInstance, executionError)
				require.Equal(testInstance, testCase.runnerResult, executionResult)
			} else {
				require.Error(testInstance, executionError)
				switch testCase.expectErrorType.(type) {
				case execshell.CommandFailedError:
					failedError := execshell.CommandFailedError{}
					require.ErrorAs(testInstance, executionError, &failedError)
				case execshell.CommandExecutionError:
					runFailure := execshell.CommandExecutionError{}
					require.ErrorAs(testInstance, executionError, &runFailure)
				}
			}

			require.Len(testInstance, commandRunner.recordedCommands, 1)
			require.Equal(testInstance, execshell.CommandGit, commandRunner.recordedCommands[0].Name)
			require.Len(testInstance, observedLogs.All(), testCase.expectedLogCount)
		})
	}
}

func TestShellExecutorToolWrappers(testInstance *testing.T) {
	testCases := []struct {
		name            string
		execute         func(executor *execshell.ShellExecutor) error
		expectedCommand execshell.CommandName
	}{
		{
			name: "git_wrapper",
			execute: func(executor *execshell.ShellExecutor) error {
				_, executionError := executor.ExecuteGit(context.Background(), execshell.CommandDetails{})
				return executionError
			},
			expectedCommand: execshell.CommandGit,
		},
		{
			name: "mercurial_wrapper",
			execute: func(executor *execshell.ShellExecutor) error {
				_, executionError := executor.ExecuteMercurial(context.Background(), execshell.CommandDetails{})
				return executionError
			},
			expectedCommand: execshell.CommandMercurial,
		},
		{
			name: "subversion_wrapper",
			execute: func(executor *execshell.ShellExecutor) error {
				_, executionError := executor.ExecuteSubversion(context.Background(), execshell.CommandDetails{})
				return executionError
			},
			expectedCommand: execshell.CommandSubversion,
		},
		{
			name: "github_cli_wrapper",
			execute: func(executor *execshell.ShellExecutor) error {
				_, executionError := executor.ExecuteGitHubCLI(context.Background(), execshell.CommandDetails{})
				return executionError
			},
			expectedCommand: execshell.CommandGitHubCLI,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			commandRunner := &recordingCommandRunner{}
			executor, creationError := execshell.NewShellExecutor(zap.NewNop(), commandRunner)
			require.NoError(testInstance, creationError)

			require.NoError(testInstance, testCase.execute(executor))
			require.Len(testInstance, commandRunner.recordedCommands, 1)
			require.Equal(testInstance, testCase.expectedCommand, commandRunner.recordedCommands[0].Name)
		})
	}
}
