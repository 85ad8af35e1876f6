package rosinstall

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	convertCommandUseConstant              = "convert <infile> [outfile]"
	convertCommandShortDescriptionConstant = "Convert a registry YAML file into an install list"
	convertCommandLongDescriptionConstant  = "convert turns a registry of named repositories into the install-list format, one entry per repository keyed by vcs type. The output path defaults to the input path with the .rosinstall extension."
	convertMinimumArgumentCountConstant    = 1
	convertMaximumArgumentCountConstant    = 2
	convertedFileLogMessageConstant        = "install list written"
	logFieldRegistryFilePathConstant       = "registry_file_path"
	logFieldInstallFilePathConstant        = "install_file_path"
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the convert command.
type CommandBuilder struct {
	LoggerProvider LoggerProvider
}

// Build constructs the convert command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	convertCommand := &cobra.Command{
		Use:   convertCommandUseConstant,
		Short: convertCommandShortDescriptionConstant,
		Long:  convertCommandLongDescriptionConstant,
		Args:  cobra.RangeArgs(convertMinimumArgumentCountConstant, convertMaximumArgumentCountConstant),
		RunE:  builder.runConvert,
	}
	return convertCommand, nil
}

func (builder *CommandBuilder) runConvert(command *cobra.Command, arguments []string) error {
	registryFilePath := arguments[0]
	installFilePath := DefaultInstallFilePath(registryFilePath)
	if len(arguments) > 1 {
		installFilePath = arguments[1]
	}

	if convertError := Convert(registryFilePath, installFilePath); convertError != nil {
		return convertError
	}

	builder.resolveLogger().Info(
		convertedFileLogMessageConstant,
		zap.String(logFieldRegistryFilePathConstant, registryFilePath),
		zap.String(logFieldInstallFilePathConstant, installFilePath),
	)
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
