package verify

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/distrokit/internal/execshell"
	"github.com/temirov/distrokit/internal/ui"
	pathutils "github.com/temirov/distrokit/internal/utils/path"
)

const (
	verifyCommandUseConstant              = "verify <section> <distribution>"
	verifyCommandShortDescriptionConstant = "Verify that the referenced vcs repositories and versions exist"
	verifyCommandLongDescriptionConstant  = "verify loads the registry index, resolves the named distribution, and probes every doc or source repository through the matching vcs tool. Failures are reported per repository without stopping the sweep."
	verifyArgumentCountConstant           = 2
	argumentIndexSectionConstant          = 0
	argumentIndexDistributionConstant     = 1
	indexURLFlagNameConstant              = "index-url"
	indexURLFlagDescriptionConstant       = "Location of the registry index file (path or URL)"
	checkPackagesFlagNameConstant         = "check-packages"
	checkPackagesFlagDescription          = "Clone each repository and require at least one package manifest"
	sweepFailureSummaryTemplateConstant   = "%d of %d repositories failed verification"
	failureLineTemplateConstant           = "%s\n"
	missingIndexLocationErrorConstant     = "no index location configured; pass --index-url or set it in the configuration file"
	defaultIndexURLConstant               = "https://raw.githubusercontent.com/ros/rosdistro/master/index.yaml"
	indexURLConfigurationKeySuffix        = ".index_url"
)

// DefaultConfigurationValues lists the configuration defaults of the
// verify command under the supplied key prefix.
func DefaultConfigurationValues(configurationKeyPrefix string) map[string]any {
	return map[string]any{
		configurationKeyPrefix + indexURLConfigurationKeySuffix: defaultIndexURLConstant,
	}
}

// Configuration captures the configurable defaults of the verify command.
type Configuration struct {
	IndexURL string `mapstructure:"index_url"`
}

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies the verify configuration.
type ConfigurationProvider func() Configuration

// CommandBuilder assembles the verify command.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider ConfigurationProvider
	Fetcher               *DocumentFetcher
	CommandRunner         execshell.CommandRunner
}

// Build constructs the verify command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	verifyCommand := &cobra.Command{
		Use:   verifyCommandUseConstant,
		Short: verifyCommandShortDescriptionConstant,
		Long:  verifyCommandLongDescriptionConstant,
		Args:  cobra.ExactArgs(verifyArgumentCountConstant),
		RunE:  builder.runVerify,
	}
	verifyCommand.Flags().String(indexURLFlagNameConstant, "", indexURLFlagDescriptionConstant)
	verifyCommand.Flags().Bool(checkPackagesFlagNameConstant, false, checkPackagesFlagDescription)
	return verifyCommand, nil
}

func (builder *CommandBuilder) runVerify(command *cobra.Command, arguments []string) error {
	commandLogger := builder.resolveLogger()

	indexLocation := builder.resolveConfiguration().IndexURL
	if flagValue, flagError := command.Flags().GetString(indexURLFlagNameConstant); flagError == nil && flagValue != "" {
		indexLocation = flagValue
	}
	if indexLocation == "" {
		return errors.New(missingIndexLocationErrorConstant)
	}
	indexLocation = pathutils.NewHomeExpander().Expand(indexLocation)
	checkPackages, _ := command.Flags().GetBool(checkPackagesFlagNameConstant)

	executor, executorError := execshell.NewShellExecutor(commandLogger, builder.resolveCommandRunner(), ui.NewConsoleCommandEventLogger(commandLogger))
	if executorError != nil {
		return executorError
	}

	fetcher := builder.Fetcher
	if fetcher == nil {
		fetcher = NewDocumentFetcher(nil)
	}

	sweeper := NewSweeper(fetcher, NewRepositoryVerifier(executor), command.OutOrStdout(), commandLogger)
	sweepReport, sweepError := sweeper.Run(command.Context(), Options{
		IndexLocation:    indexLocation,
		DistributionName: arguments[argumentIndexDistributionConstant],
		Section:          arguments[argumentIndexSectionConstant],
		CheckPackages:    checkPackages,
	})
	if sweepError != nil {
		return sweepError
	}

	fmt.Fprintln(command.OutOrStdout())
	for _, failureMessage := range sweepReport.Failures {
		fmt.Fprintf(command.ErrOrStderr(), failureLineTemplateConstant, failureMessage)
	}
	if len(sweepReport.Failures) > 0 {
		commandLogger.Warn(
			repositoryFailureLogMessageConstant,
			zap.Int("failure_count", len(sweepReport.Failures)),
			zap.Int("repository_count", sweepReport.RepositoryCount),
		)
		fmt.Fprintf(command.ErrOrStderr(), failureLineTemplateConstant, fmt.Sprintf(sweepFailureSummaryTemplateConstant, len(sweepReport.Failures), sweepReport.RepositoryCount))
	}
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
