package ui_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/distrokit/internal/execshell"
	"github.com/temirov/distrokit/internal/ui"
)

const (
	testRemoteURLArgumentConstant      = "https://example.com/repo.git"
	testWorkingDirectoryValueConstant  = "/tmp/workdir"
	testStandardErrorContentConstant   = "fatal: repository not found"
	testExecutionFailureReasonConstant = "executable missing"
)

func TestCommandEventFormatterMessages(testInstance *testing.T) {
	formatter := ui.CommandEventFormatter{}
	command := execshell.ShellCommand{
		Name: execshell.CommandGit,
		Details: execshell.CommandDetails{
			Arguments:        []string{"ls-remote", testRemoteURLArgumentConstant},
			WorkingDirectory: testWorkingDirectoryValueConstant,
		},
	}

	testCases := []struct {
		name            string
		buildMessage    func() string
		expectedMessage string
	}{
		{
			name: "started",
			buildMessage: func() string {
				return formatter.BuildStartedMessage(command)
			},
			expectedMessage: "Running git ls-remote " + testRemoteURLArgumentConstant + " (in " + testWorkingDirectoryValueConstant + ")",
		},
		{
			name: "success",
			buildMessage: func() string {
				return formatter.BuildSuccessMessage(command)
			},
			expectedMessage: "Completed git ls-remote " + testRemoteURLArgumentConstant + " (in " + testWorkingDirectoryValueConstant + ")",
		},
		{
			name: "failure_with_standard_error",
			buildMessage: func() string {
				return formatter.BuildFailureMessage(command, execshell.ExecutionResult{ExitCode: 128, StandardError: testStandardErrorContentConstant})
			},
			expectedMessage: "git ls-remote " + testRemoteURLArgumentConstant + " (in " + testWorkingDirectoryValueConstant + ") failed with exit code 128: " + testStandardErrorContentConstant,
		},
		{
			name: "execution_failure",
			buildMessage: func() string {
				return formatter.BuildExecutionFailureMessage(command, errors.New(testExecutionFailureReasonConstant))
			},
			expectedMessage: "git ls-remote " + testRemoteURLArgumentConstant + " (in " + testWorkingDirectoryValueConstant + ") failed: " + testExecutionFailureReasonConstant,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expectedMessage, testCase.buildMessage())
		})
	}
}

func TestConsoleCommandEventLoggerLevels(testInstance *testing.T) {
	observerCore, observedLogs := observer.New(zap.DebugLevel)
	eventLogger := ui.NewConsoleCommandEventLogger(zap.New(observerCore))
	command := execshell.ShellCommand{Name: execshell.CommandSubversion}

	eventLogger.CommandStarted(command)
	eventLogger.CommandCompleted(command, execshell.ExecutionResult{ExitCode: 0})
	eventLogger.CommandCompleted(command, execshell.ExecutionResult{ExitCode: 1})
	eventLogger.CommandExecutionFailed(command, errors.New(testExecutionFailureReasonConstant))

	loggedEntries := observedLogs.All()
	require.Len(testInstance, loggedEntries, 4)
	require.Equal(testInstance, zap.InfoLevel, loggedEntries[0].Level)
	require.Equal(testInstance, zap.InfoLevel, loggedEntries[1].Level)
	require.Equal(testInstance, zap.WarnLevel, loggedEntries[2].Level)
	require.Equal(testInstance, zap.ErrorLevel, loggedEntries[3].Level)
}
