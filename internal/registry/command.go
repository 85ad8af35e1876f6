package registry

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	sortCommandUseConstant                 = "sort <file>"
	sortCommandShortDescriptionConstant    = "Sort every sequence in a registry YAML file in place"
	sortArgumentCountConstant              = 1
	addCommandUseConstant                  = "add"
	addCommandShortDescriptionConstant     = "Insert a repository entry into a registry YAML file"
	addSourceCommandUseConstant            = "source <file> <name> <vcs-type> <url> [version]"
	addSourceShortDescriptionConstant      = "Insert a source repository entry"
	addSourceMinimumArgumentCountConstant  = 4
	addSourceMaximumArgumentCountConstant  = 5
	addReleaseCommandUseConstant           = "release <file> <name> <url> <version>"
	addReleaseShortDescriptionConstant     = "Insert a release repository entry"
	addReleaseArgumentCountConstant        = 4
	sortedFileLogMessageConstant           = "registry file sorted"
	repositoryInsertedLogMessageConstant   = "repository entry inserted"
	logFieldRegistryFilePathConstant       = "registry_file_path"
	logFieldRepositoryNameConstant         = "repository_name"
	argumentIndexRegistryFilePathConstant  = 0
	argumentIndexRepositoryNameConstant    = 1
	argumentIndexSourceVcsTypeConstant     = 2
	argumentIndexSourceURLConstant         = 3
	argumentIndexSourceVersionConstant     = 4
	argumentIndexReleaseURLConstant        = 2
	argumentIndexReleaseVersionConstant    = 3
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// SortCommandBuilder assembles the sort command.
type SortCommandBuilder struct {
	LoggerProvider LoggerProvider
}

// Build constructs the sort command.
func (builder *SortCommandBuilder) Build() (*cobra.Command, error) {
	sortCommand := &cobra.Command{
		Use:   sortCommandUseConstant,
		Short: sortCommandShortDescriptionConstant,
		Args:  cobra.ExactArgs(sortArgumentCountConstant),
		RunE:  builder.runSort,
	}
	return sortCommand, nil
}

func (builder *SortCommandBuilder) runSort(command *cobra.Command, arguments []string) error {
	registryFilePath := arguments[argumentIndexRegistryFilePathConstant]
	if sortError := Sort(registryFilePath); sortError != nil {
		return sortError
	}
	resolveLogger(builder.LoggerProvider).Info(
		sortedFileLogMessageConstant,
		zap.String(logFieldRegistryFilePathConstant, registryFilePath),
	)
	return nil
}

// AddCommandBuilder assembles the add command and its source and release
// subcommands.
type AddCommandBuilder struct {
	LoggerProvider LoggerProvider
}

// Build constructs the add command tree.
func (builder *AddCommandBuilder) Build() (*cobra.Command, error) {
	addCommand := &cobra.Command{
		Use:   addCommandUseConstant,
		Short: addCommandShortDescriptionConstant,
	}
	addCommand.AddCommand(builder.buildSourceCommand())
	addCommand.AddCommand(builder.buildReleaseCommand())
	return addCommand, nil
}

func (builder *AddCommandBuilder) buildSourceCommand() *cobra.Command {
	return &cobra.Command{
		Use:   addSourceCommandUseConstant,
		Short: addSourceShortDescriptionConstant,
		Args:  cobra.RangeArgs(addSourceMinimumArgumentCountConstant, addSourceMaximumArgumentCountConstant),
		RunE:  builder.runAddSource,
	}
}

func (builder *AddCommandBuilder) buildReleaseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   addReleaseCommandUseConstant,
		Short: addReleaseShortDescriptionConstant,
		Args:  cobra.ExactArgs(addReleaseArgumentCountConstant),
		RunE:  builder.runAddRelease,
	}
}

func (builder *AddCommandBuilder) runAddSource(command *cobra.Command, arguments []string) error {
	repositoryVersion := ""
	if len(arguments) > argumentIndexSourceVersionConstant {
		repositoryVersion = arguments[argumentIndexSourceVersionConstant]
	}
	insertError := AddSourceRepository(
		arguments[argumentIndexRegistryFilePathConstant],
		arguments[argumentIndexRepositoryNameConstant],
		arguments[argumentIndexSourceVcsTypeConstant],
		arguments[argumentIndexSourceURLConstant],
		repositoryVersion,
	)
	if insertError != nil {
		return insertError
	}
	builder.logInsertion(arguments)
	return nil
}

func (builder *AddCommandBuilder) runAddRelease(command *cobra.Command, arguments []string) error {
	insertError := AddReleaseRepository(
		arguments[argumentIndexRegistryFilePathConstant],
		arguments[argumentIndexRepositoryNameConstant],
		arguments[argumentIndexReleaseURLConstant],
		arguments[argumentIndexReleaseVersionConstant],
	)
	if insertError != nil {
		return insertError
	}
	builder.logInsertion(arguments)
	return nil
}

func (builder *AddCommandBuilder) logInsertion(arguments []string) {
	resolveLogger(builder.LoggerProvider).Info(
		repositoryInsertedLogMessageConstant,
		zap.String(logFieldRegistryFilePathConstant, arguments[argumentIndexRegistryFilePathConstant]),
		zap.String(logFieldRepositoryNameConstant, arguments[argumentIndexRepositoryNameConstant]),
	)
}

func resolveLogger(loggerProvider LoggerProvider) *zap.Logger {
	if loggerProvider == nil {
		return zap.NewNop()
	}
	providedLogger := loggerProvider()
	if providedLogger == nil {
		return zap.NewNop()
	}
	return providedLogger
}
