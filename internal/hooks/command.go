package hooks

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/distrokit/internal/execshell"
	"github.com/temirov/distrokit/internal/ui"
)

const (
	hooksCommandUseConstant              = "hooks <owner> <repository>"
	hooksCommandShortDescriptionConstant = "Audit a GitHub repository for pull-request build hook access"
	hooksCommandLongDescriptionConstant  = "hooks checks whether pull-request builds can be set up on a repository: push access combined with the configured callback webhook, or admin access. Push access without a detectable webhook passes with a warning unless --strict is set."
	hooksArgumentCountConstant           = 2
	argumentIndexOwnerConstant           = 0
	argumentIndexRepositoryConstant      = 1
	callbackURLFlagNameConstant          = "callback-url"
	callbackURLFlagDescriptionConstant   = "Webhook callback url to look for"
	strictFlagNameConstant               = "strict"
	strictFlagDescriptionConstant        = "Fail when push access exists but the hook cannot be verified"
	auditPassedTemplateConstant          = "Passed hook access check for repository [ %s ]\n"
	auditFailedErrorTemplateConstant     = "not enough permissions to set up pull request builds for repository [ %s ]"
	warningsHeadingConstant              = "Warnings detected:"
	warningLineTemplateConstant          = "%s\n"
	callbackURLConfigurationKeySuffix    = ".callback_url"
)

// DefaultConfigurationValues lists the configuration defaults of the
// hooks command under the supplied key prefix.
func DefaultConfigurationValues(configurationKeyPrefix string) map[string]any {
	return map[string]any{
		configurationKeyPrefix + callbackURLConfigurationKeySuffix: DefaultCallbackURLConstant,
	}
}

// Configuration captures the configurable defaults of the hooks command.
type Configuration struct {
	CallbackURL string `mapstructure:"callback_url"`
}

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies the hooks configuration.
type ConfigurationProvider func() Configuration

// CommandBuilder assembles the hooks command.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider ConfigurationProvider
	CommandRunner         execshell.CommandRunner
}

// Build constructs the hooks command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	hooksCommand := &cobra.Command{
		Use:   hooksCommandUseConstant,
		Short: hooksCommandShortDescriptionConstant,
		Long:  hooksCommandLongDescriptionConstant,
		Args:  cobra.ExactArgs(hooksArgumentCountConstant),
		RunE:  builder.runHooks,
	}
	hooksCommand.Flags().String(callbackURLFlagNameConstant, "", callbackURLFlagDescriptionConstant)
	hooksCommand.Flags().Bool(strictFlagNameConstant, false, strictFlagDescriptionConstant)
	return hooksCommand, nil
}

func (builder *CommandBuilder) runHooks(command *cobra.Command, arguments []string) error {
	commandLogger := builder.resolveLogger()

	callbackURL := builder.resolveConfiguration().CallbackURL
	if flagValue, flagError := command.Flags().GetString(callbackURLFlagNameConstant); flagError == nil && flagValue != "" {
		callbackURL = flagValue
	}
	strictMode, _ := command.Flags().GetBool(strictFlagNameConstant)

	executor, executorError := execshell.NewShellExecutor(commandLogger, builder.resolveCommandRunner(), ui.NewConsoleCommandEventLogger(commandLogger))
	if executorError != nil {
		return executorError
	}

	detector := NewDetector(NewClient(executor), callbackURL)
	auditResult, auditError := detector.CheckRepository(
		command.Context(),
		arguments[argumentIndexOwnerConstant],
		arguments[argumentIndexRepositoryConstant],
		strictMode,
	)
	if auditError != nil {
		return auditError
	}

	if len(auditResult.Warnings) > 0 {
		fmt.Fprintln(command.ErrOrStderr(), warningsHeadingConstant)
		for _, warningMessage := range auditResult.Warnings {
			fmt.Fprintf(command.ErrOrStderr(), warningLineTemplateConstant, warningMessage)
		}
	}

	if !auditResult.Passed {
		return fmt.Errorf(auditFailedErrorTemplateConstant, auditResult.RepositoryFullName)
	}
	fmt.Fprintf(command.OutOrStdout(), auditPassedTemplateConstant, auditResult.RepositoryFullName)
	return nil
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	providedLogger := builder.LoggerProvider()
	if providedLogger == nil {
		return zap.NewNop()
	}
	return providedLogger
}

func (builder *CommandBuilder) resolveConfiguration() Configuration {
	if builder.ConfigurationProvider == nil {
		return Configuration{}
	}
	return builder.ConfigurationProvider()
}

func (builder *CommandBuilder) resolveCommandRunner() execshell.CommandRunner {
	if builder.CommandRunner == nil {
		return execshell.NewOSCommandRunner()
	}
	return builder.CommandRunner
}

