package cli_test

import (
	"strings"
	"testing"

	mapstructure "github.com/go-viper/mapstructure/v2"
	"github.com/stretchr/testify/require"

	"github.com/temirov/distrokit/cmd/cli"
	"github.com/temirov/distrokit/internal/hooks"
	"github.com/temirov/distrokit/internal/verify"
)

const (
	toolsConfigurationKeyConstant       = "tools"
	verifyConfigurationPrefixConstant   = toolsConfigurationKeyConstant + ".verify"
	hooksConfigurationPrefixConstant    = toolsConfigurationKeyConstant + ".hooks"
	configurationKeySeparatorConstant   = "."
	defaultsDecodeFailureMessageLiteral = "default configuration values must decode into the tools configuration"
)

// nestedFromFlat expands dotted default keys into the nested map shape the
// configuration decoder expects.
func nestedFromFlat(flatValues map[string]any) map[string]any {
	nestedValues := map[string]any{}
	for flatKey, flatValue := range flatValues {
		keySegments := strings.Split(flatKey, configurationKeySeparatorConstant)
		currentLevel := nestedValues
		for _, keySegment := range keySegments[:len(keySegments)-1] {
			nextLevel, levelExists := currentLevel[keySegment].(map[string]any)
			if !levelExists {
				nextLevel = map[string]any{}
				currentLevel[keySegment] = nextLevel
			}
			currentLevel = nextLevel
		}
		currentLevel[keySegments[len(keySegments)-1]] = flatValue
	}
	return nestedValues
}

func TestDefaultConfigurationValuesDecodeIntoToolsConfiguration(testInstance *testing.T) {
	flatDefaults := map[string]any{}
	for configurationKey, configurationValue := range verify.DefaultConfigurationValues(verifyConfigurationPrefixConstant) {
		flatDefaults[configurationKey] = configurationValue
	}
	for configurationKey, configurationValue := range hooks.DefaultConfigurationValues(hooksConfigurationPrefixConstant) {
		flatDefaults[configurationKey] = configurationValue
	}

	nestedDefaults := nestedFromFlat(flatDefaults)

	var toolsConfiguration cli.ApplicationToolsConfiguration
	decodeError := mapstructure.Decode(nestedDefaults[toolsConfigurationKeyConstant], &toolsConfiguration)
	require.NoError(testInstance, decodeError, defaultsDecodeFailureMessageLiteral)

	require.NotEmpty(testInstance, toolsConfiguration.Verify.IndexURL)
	require.Equal(testInstance, hooks.DefaultCallbackURLConstant, toolsConfiguration.Hooks.CallbackURL)
}
