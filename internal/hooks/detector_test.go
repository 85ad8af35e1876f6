package hooks_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/distrokit/internal/execshell"
	"github.com/temirov/distrokit/internal/hooks"
)

const (
	auditedOwnerNameConstant          = "osrf"
	auditedRepositoryNameConstant     = "tooling"
	auditedRepositoryFullNameConstant = "osrf/tooling"
	repositoryMetadataTemplate        = `{"full_name": "osrf/tooling", "permissions": {"push": %t, "admin": %t}}`
	configuredHooksPayloadConstant    = `[{"config": {"url": "http://build.ros.org/ghprbhook/"}}, {"config": {"url": "https://other.example.com/"}}]`
	unrelatedHooksPayloadConstant     = `[{"config": {"url": "https://other.example.com/"}}]`
	paginatedHooksPayloadConstant     = `[{"config": {"url": "https://other.example.com/"}}]` + "\n" +
		`[{"config": {"url": "http://build.ros.org/ghprbhook/"}}]`
	hooksEndpointFragmentConstant = "/hooks"
)

type scriptedGitHubRunner struct {
	pushAccess       bool
	adminAccess      bool
	hooksPayload     string
	hooksUnavailable bool
	repositoryAbsent bool
}

func (runner *scriptedGitHubRunner) Run(executionContext context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error) {
	joinedArguments := strings.Join(command.Details.Arguments, " ")
	if strings.Contains(joinedArguments, hooksEndpointFragmentConstant) {
		if runner.hooksUnavailable {
			return execshell.ExecutionResult{ExitCode: 1}, nil
		}
		return execshell.ExecutionResult{StandardOutput: runner.hooksPayload}, nil
	}
	if runner.repositoryAbsent {
		return execshell.ExecutionResult{ExitCode: 1}, nil
	}
	return execshell.ExecutionResult{StandardOutput: fmt.Sprintf(repositoryMetadataTemplate, runner.pushAccess, runner.adminAccess)}, nil
}

func newTestDetector(testInstance *testing.T, commandRunner execshell.CommandRunner) *hooks.Detector {
	testInstance.Helper()
	executor, executorError := execshell.NewShellExecutor(zap.NewNop(), commandRunner)
	require.NoError(testInstance, executorError)
	return hooks.NewDetector(hooks.NewClient(executor), "")
}

func TestDetectorCheckRepository(testInstance *testing.T) {
	testCases := []struct {
		name                 string
		commandRunner        scriptedGitHubRunner
		strictMode           bool
		expectedPassed       bool
		expectedWarningCount int
	}{
		{
			name:           "push_access_with_hook_passes",
			commandRunner:  scriptedGitHubRunner{pushAccess: true, hooksPayload: configuredHooksPayloadConstant},
			expectedPassed: true,
		},
		{
			name:           "admin_access_without_hook_passes",
			commandRunner:  scriptedGitHubRunner{adminAccess: true, hooksPayload: unrelatedHooksPayloadConstant},
			expectedPassed: true,
		},
		{
			name:                 "push_access_without_hook_warns_and_passes",
			commandRunner:        scriptedGitHubRunner{pushAccess: true, hooksPayload: unrelatedHooksPayloadConstant},
			expectedPassed:       true,
			expectedWarningCount: 1,
		},
		{
			name:                 "push_access_without_hook_fails_in_strict_mode",
			commandRunner:        scriptedGitHubRunner{pushAccess: true, hooksPayload: unrelatedHooksPayloadConstant},
			strictMode:           true,
			expectedPassed:       false,
			expectedWarningCount: 1,
		},
		{
			name:           "no_access_fails",
			commandRunner:  scriptedGitHubRunner{hooksPayload: unrelatedHooksPayloadConstant},
			expectedPassed: false,
		},
		{
			name:           "hook_on_later_page_passes",
			commandRunner:  scriptedGitHubRunner{pushAccess: true, hooksPayload: paginatedHooksPayloadConstant},
			expectedPassed: true,
		},
		{
			name:                 "unlistable_hooks_count_as_missing",
			commandRunner:        scriptedGitHubRunner{pushAccess: true, hooksUnavailable: true},
			expectedPassed:       true,
			expectedWarningCount: 2,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtestInstance *testing.T) {
			detector := newTestDetector(subtestInstance, &testCase.commandRunner)

			auditResult, auditError := detector.CheckRepository(context.Background(), auditedOwnerNameConstant, auditedRepositoryNameConstant, testCase.strictMode)
			require.NoError(subtestInstance, auditError)
			require.Equal(subtestInstance, auditedRepositoryFullNameConstant, auditResult.RepositoryFullName)
			require.Equal(subtestInstance, testCase.expectedPassed, auditResult.Passed)
			require.Len(subtestInstance, auditResult.Warnings, testCase.expectedWarningCount)
		})
	}
}

func TestClientListWebhooksFlattensPaginatedPages(testInstance *testing.T) {
	executor, executorError := execshell.NewShellExecutor(zap.NewNop(), &scriptedGitHubRunner{hooksPayload: paginatedHooksPayloadConstant})
	require.NoError(testInstance, executorError)
	client := hooks.NewClient(executor)

	repositoryWebhooks, listError := client.ListWebhooks(context.Background(), auditedOwnerNameConstant, auditedRepositoryNameConstant)
	require.NoError(testInstance, listError)
	require.Len(testInstance, repositoryWebhooks, 2)
	require.Equal(testInstance, hooks.DefaultCallbackURLConstant, repositoryWebhooks[1].Configuration.URL)
}

func TestDetectorCheckRepositoryReportsMissingRepository(testInstance *testing.T) {
	detector := newTestDetector(testInstance, &scriptedGitHubRunner{repositoryAbsent: true})

	_, auditError := detector.CheckRepository(context.Background(), auditedOwnerNameConstant, auditedRepositoryNameConstant, false)
	require.Error(testInstance, auditError)
	require.ErrorIs(testInstance, auditError, hooks.ErrRepositoryNotFound)
	require.Contains(testInstance, auditError.Error(), "no repository found at")
}
