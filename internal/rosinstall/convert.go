package rosinstall

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	localNameFieldKeyConstant          = "local-name"
	uriFieldKeyConstant                = "uri"
	versionFieldKeyConstant            = "version"
	urlFieldKeyConstant                = "url"
	typeFieldKeyConstant               = "type"
	repositoriesFieldKeyConstant       = "repositories"
	defaultVcsTypeConstant             = "git"
	installFileExtensionConstant       = ".rosinstall"
	installFilePermissionsConstant     = 0o644
	documentIndentWidthConstant        = 2
	registryReadErrorTemplateConstant  = "unable to read %s: %w"
	registryDecodeErrorTemplate        = "unable to decode %s: %w"
	installFileWriteErrorTemplate      = "unable to write %s: %w"
	installListEncodeErrorTemplate     = "unable to encode install list: %w"
	missingRepositoriesErrorTemplate   = "%s does not contain a repositories mapping"
	malformedRepositoryErrorTemplate   = "repository %q is not a mapping"
	missingRepositoryURLErrorTemplate  = "repository %q does not declare a url"
	malformedVcsTypeErrorTemplateConst = "repository %q declares a non-string vcs type"
)

// Convert reads the registry file, converts its repositories into the
// install-list format, and writes the result to the supplied output path.
func Convert(registryFilePath string, installFilePath string) error {
	fileContents, readError := os.ReadFile(registryFilePath)
	if readError != nil {
		return fmt.Errorf(registryReadErrorTemplateConstant, registryFilePath, readError)
	}
	var documentData map[string]any
	if decodeError := yaml.Unmarshal(fileContents, &documentData); decodeError != nil {
		return fmt.Errorf(registryDecodeErrorTemplate, registryFilePath, decodeError)
	}

	repositoriesMapping, hasRepositories := documentData[repositoriesFieldKeyConstant].(map[string]any)
	if !hasRepositories {
		return fmt.Errorf(missingRepositoriesErrorTemplate, registryFilePath)
	}
	installList, convertError := ConvertData(repositoriesMapping)
	if convertError != nil {
		return convertError
	}

	var encodedList strings.Builder
	listEncoder := yaml.NewEncoder(&encodedList)
	listEncoder.SetIndent(documentIndentWidthConstant)
	if encodeError := listEncoder.Encode(installList); encodeError != nil {
		return fmt.Errorf(installListEncodeErrorTemplate, encodeError)
	}
	if closeError := listEncoder.Close(); closeError != nil {
		return fmt.Errorf(installListEncodeErrorTemplate, closeError)
	}
	if writeError := os.WriteFile(installFilePath, []byte(encodedList.String()), installFilePermissionsConstant); writeError != nil {
		return fmt.Errorf(installFileWriteErrorTemplate, installFilePath, writeError)
	}
	return nil
}

// ConvertData turns a mapping of named repository entries into the
// install-list shape: one single-key mapping per repository, keyed by vcs
// type, sorted by repository name. Entries without a type default to git
// and the version key is carried over only when the entry declares one.
func ConvertData(repositoriesMapping map[string]any) ([]map[string]any, error) {
	repositoryNames := make([]string, 0, len(repositoriesMapping))
	for repositoryName := range repositoriesMapping {
		repositoryNames = append(repositoryNames, repositoryName)
	}
	sort.Strings(repositoryNames)

	installList := make([]map[string]any, 0, len(repositoryNames))
	for _, repositoryName := range repositoryNames {
		repositoryValues, isMapping := repositoriesMapping[repositoryName].(map[string]any)
		if !isMapping {
			return nil, fmt.Errorf(malformedRepositoryErrorTemplate, repositoryName)
		}
		repositoryURL, hasURL := repositoryValues[urlFieldKeyConstant]
		if !hasURL {
			return nil, fmt.Errorf(missingRepositoryURLErrorTemplate, repositoryName)
		}

		installEntry := map[string]any{
			localNameFieldKeyConstant: repositoryName,
			uriFieldKeyConstant:       repositoryURL,
		}
		if repositoryVersion, hasVersion := repositoryValues[versionFieldKeyConstant]; hasVersion {
			installEntry[versionFieldKeyConstant] = repositoryVersion
		}

		vcsType := defaultVcsTypeConstant
		if declaredType, hasType := repositoryValues[typeFieldKeyConstant]; hasType {
			typedVcsType, isString := declaredType.(string)
			if !isString {
				return nil, fmt.Errorf(malformedVcsTypeErrorTemplateConst, repositoryName)
			}
			vcsType = typedVcsType
		}
		installList = append(installList, map[string]any{vcsType: installEntry})
	}
	return installList, nil
}

// DefaultInstallFilePath swaps the registry file extension for the install
// list extension.
func DefaultInstallFilePath(registryFilePath string) string {
	return strings.TrimSuffix(registryFilePath, filepath.Ext(registryFilePath)) + installFileExtensionConstant
}
