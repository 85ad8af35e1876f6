package lint

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	checkCommandUseConstant              = "check <file>..."
	checkCommandShortDescriptionConstant = "Validate registry YAML formatting conventions"
	checkCommandLongDescriptionConstant  = "check verifies trailing whitespace, indentation, bracketed lists, key order, and scalar whitespace rules for each named YAML file."
	checkMinimumArgumentCountConstant    = 1
	fileReadErrorTemplateConstant        = "unable to read %s: %w"
	checkFailureTemplateConstant         = "%d of %d files failed validation"
	checkScanErrorTemplateConstant       = "check aborted on %s: %w"
	checkCompletedLogMessageConstant     = "convention check completed"
	logFieldFilePathConstant             = "file_path"
	logFieldCleanConstant                = "clean"
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the check command.
type CommandBuilder struct {
	LoggerProvider LoggerProvider
}

// Build constructs the check command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	checkCommand := &cobra.Command{
		Use:   checkCommandUseConstant,
		Short: checkCommandShortDescriptionConstant,
		Long:  checkCommandLongDescriptionConstant,
		Args:  cobra.MinimumNArgs(checkMinimumArgumentCountConstant),
		RunE:  builder.runCheck,
	}
	return checkCommand, nil
}

func (builder *CommandBuilder) runCheck(command *cobra.Command, arguments []string) error {
	logger := builder.resolveLogger()
	reporter := NewConsoleReporter(command.OutOrStdout())
	checker := NewChecker(reporter)

	failedFileCount := 0
	for _, filePath := range arguments {
		fileContents, readError := os.ReadFile(filePath)
		if readError != nil {
			return fmt.Errorf(fileReadErrorTemplateConstant, filePath, readError)
		}

		reporter.FileStarted(filePath)
		fileClean, checkError := checker.Check(string(fileContents))
		if checkError != nil {
			return fmt.Errorf(checkScanErrorTemplateConstant, filePath, checkError)
		}
		if !fileClean {
			failedFileCount++
		}

		logger.Debug(
			checkCompletedLogMessageConstant,
			zap.String(logFieldFilePathConstant, filePath),
			zap.Bool(logFieldCleanConstant, fileClean),
		)
	}

	reporter.PrintSummary()
	if failedFileCount > 0 {
		return fmt.Errorf(checkFailureTemplateConstant, failedFileCount, len(arguments))
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
