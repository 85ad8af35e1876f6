package cleanup

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	cleanCommandUseConstant              = "clean <infile> <outfile>"
	cleanCommandShortDescriptionConstant = "Rewrite a registry YAML file into canonical form"
	cleanCommandLongDescriptionConstant  = "clean reads a registry YAML file and writes a canonical rendition with sorted keys, two-space indentation, and bracketed package lists."
	cleanArgumentCountConstant           = 2
	inputReadErrorTemplateConstant       = "unable to read %s: %w"
	outputWriteErrorTemplateConstant     = "unable to write %s: %w"
	cleanedFileLogMessageConstant        = "canonical rendition written"
	logFieldInputPathConstant            = "input_path"
	logFieldOutputPathConstant           = "output_path"
	outputFilePermissionsConstant        = 0o644
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the clean command.
type CommandBuilder struct {
	LoggerProvider LoggerProvider
}

// Build constructs the clean command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	cleanCommand := &cobra.Command{
		Use:   cleanCommandUseConstant,
		Short: cleanCommandShortDescriptionConstant,
		Long:  cleanCommandLongDescriptionConstant,
		Args:  cobra.ExactArgs(cleanArgumentCountConstant),
		RunE:  builder.runClean,
	}
	return cleanCommand, nil
}

func (builder *CommandBuilder) runClean(command *cobra.Command, arguments []string) error {
	inputPath := arguments[0]
	outputPath := arguments[1]

	inputContents, readError := os.ReadFile(inputPath)
	if readError != nil {
		return fmt.Errorf(inputReadErrorTemplateConstant, inputPath, readError)
	}

	canonicalContents, cleanError := Clean(inputContents)
	if cleanError != nil {
		return cleanError
	}

	if writeError := os.WriteFile(outputPath, []byte(canonicalContents), outputFilePermissionsConstant); writeError != nil {
		return fmt.Errorf(outputWriteErrorTemplateConstant, outputPath, writeError)
	}

	builder.resolveLogger().Info(
		cleanedFileLogMessageConstant,
		zap.String(logFieldInputPathConstant, inputPath),
		zap.String(logFieldOutputPathConstant, outputPath),
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
