package utils

import "context"

type commandContextValueKey string

const configurationFilePathValueKeyConstant = commandContextValueKey("configuration_file_path")

// CommandContextAccessor reads and writes the values subcommands share
// through their cobra command context.
type CommandContextAccessor struct{}

// NewCommandContextAccessor constructs a CommandContextAccessor.
func NewCommandContextAccessor() CommandContextAccessor {
	return CommandContextAccessor{}
}

// WithConfigurationFilePath returns a child context carrying the path of the
// configuration file the loader consulted.
func (accessor CommandContextAccessor) WithConfigurationFilePath(parentContext context.Context, configurationFilePath string) context.Context {
	if parentContext == nil {
		parentContext = context.Background()
	}
	return context.WithValue(parentContext, configurationFilePathValueKeyConstant, configurationFilePath)
}

// ConfigurationFilePath reports the configuration file path stored on the
// context, when one was attached.
func (accessor CommandContextAccessor) ConfigurationFilePath(executionContext context.Context) (string, bool) {
	if executionContext == nil {
		return "", false
	}
	storedFilePath, filePathPresent := executionContext.Value(configurationFilePathValueKeyConstant).(string)
	return storedFilePath, filePathPresent
}
