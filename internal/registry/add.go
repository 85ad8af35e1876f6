package registry

import (
	"errors"
	"fmt"
)

const (
	typeFieldKeyConstant              = "type"
	urlFieldKeyConstant               = "url"
	repositoriesFieldKeyConstant      = "repositories"
	registryTypeSourceConstant        = "source"
	registryTypeGbpConstant           = "gbp"
	registryTypeDevelConstant         = "devel"
	vcsTypeSubversionConstant         = "svn"
	sourceFileHeaderConstant          = "%YAML 1.1\n# Source repository registry, maintained by distrokit\n---\n"
	duplicateRepositoryErrorTemplate  = "repository with name %q is already in the registry file"
	unsupportedTypeErrorConstant      = "the registry file is neither of type \"source\" nor \"gbp\""
	releaseFileTypeErrorConstant      = "the registry file is not of type \"gbp\""
	missingRepositoriesErrorTemplate  = "%s does not contain a repositories mapping"
	missingVersionErrorConstant       = "all repository types except svn require a version"
	subversionVersionErrorConstant    = "svn repositories must not carry a version; encode it in the url instead"
	missingTypeFieldErrorTemplateText = "%s does not declare a registry type"
)

// AddSourceRepository inserts a source repository entry into the registry
// file at the supplied path. Legacy gbp and devel files take the old entry
// shape and are sorted in place; source files gain a typed entry and are
// rewritten with the document header. An empty version means none.
func AddSourceRepository(registryFilePath string, repositoryName string, vcsType string, repositoryURL string, repositoryVersion string) error {
	documentData, loadError := loadRegistryFile(registryFilePath)
	if loadError != nil {
		return loadError
	}
	registryType, typeError := registryTypeOf(registryFilePath, documentData)
	if typeError != nil {
		return typeError
	}

	switch registryType {
	case registryTypeGbpConstant, registryTypeDevelConstant:
		return addLegacySourceRepository(registryFilePath, documentData, repositoryName, vcsType, repositoryURL, repositoryVersion)
	case registryTypeSourceConstant:
	default:
		return errors.New(unsupportedTypeErrorConstant)
	}

	repositoriesMapping, repositoriesError := repositoriesOf(registryFilePath, documentData)
	if repositoriesError != nil {
		return repositoriesError
	}
	if _, alreadyListed := repositoriesMapping[repositoryName]; alreadyListed {
		return fmt.Errorf(duplicateRepositoryErrorTemplate, repositoryName)
	}

	repositoriesMapping[repositoryName] = map[string]any{
		typeFieldKeyConstant:    vcsType,
		urlFieldKeyConstant:     repositoryURL,
		versionFieldKeyConstant: versionValueOf(repositoryVersion),
	}
	return writeRegistryFile(registryFilePath, documentData, sourceFileHeaderConstant)
}

// addLegacySourceRepository handles the pre-distribution-file entry shape.
// Every vcs type except svn requires a version; svn entries must not carry
// one because the revision lives in the url.
func addLegacySourceRepository(registryFilePath string, documentData map[string]any, repositoryName string, vcsType string, repositoryURL string, repositoryVersion string) error {
	repositoriesMapping, repositoriesError := repositoriesOf(registryFilePath, documentData)
	if repositoriesError != nil {
		return repositoriesError
	}
	if _, alreadyListed := repositoriesMapping[repositoryName]; alreadyListed {
		return fmt.Errorf(duplicateRepositoryErrorTemplate, repositoryName)
	}
	if repositoryVersion == "" && vcsType != vcsTypeSubversionConstant {
		return errors.New(missingVersionErrorConstant)
	}
	if repositoryVersion != "" && vcsType == vcsTypeSubversionConstant {
		return errors.New(subversionVersionErrorConstant)
	}

	repositoriesMapping[repositoryName] = map[string]any{
		typeFieldKeyConstant:    vcsType,
		urlFieldKeyConstant:     repositoryURL,
		versionFieldKeyConstant: versionValueOf(repositoryVersion),
	}
	SortData(documentData)
	return writeRegistryFile(registryFilePath, documentData, "")
}

// AddReleaseRepository inserts a release repository entry into a legacy gbp
// registry file and sorts the document in place.
func AddReleaseRepository(registryFilePath string, repositoryName string, repositoryURL string, repositoryVersion string) error {
	documentData, loadError := loadRegistryFile(registryFilePath)
	if loadError != nil {
		return loadError
	}
	registryType, typeError := registryTypeOf(registryFilePath, documentData)
	if typeError != nil {
		return typeError
	}
	if registryType != registryTypeGbpConstant {
		return errors.New(releaseFileTypeErrorConstant)
	}

	repositoriesMapping, repositoriesError := repositoriesOf(registryFilePath, documentData)
	if repositoriesError != nil {
		return repositoriesError
	}
	if _, alreadyListed := repositoriesMapping[repositoryName]; alreadyListed {
		return fmt.Errorf(duplicateRepositoryErrorTemplate, repositoryName)
	}

	repositoriesMapping[repositoryName] = map[string]any{
		urlFieldKeyConstant:     repositoryURL,
		versionFieldKeyConstant: repositoryVersion,
	}
	SortData(documentData)
	return writeRegistryFile(registryFilePath, documentData, "")
}

func registryTypeOf(registryFilePath string, documentData map[string]any) (string, error) {
	registryType, hasType := documentData[typeFieldKeyConstant].(string)
	if !hasType {
		return "", fmt.Errorf(missingTypeFieldErrorTemplateText, registryFilePath)
	}
	return registryType, nil
}

func repositoriesOf(registryFilePath string, documentData map[string]any) (map[string]any, error) {
	repositoriesMapping, hasRepositories := documentData[repositoriesFieldKeyConstant].(map[string]any)
	if !hasRepositories {
		return nil, fmt.Errorf(missingRepositoriesErrorTemplate, registryFilePath)
	}
	return repositoriesMapping, nil
}

func versionValueOf(repositoryVersion string) any {
	if repositoryVersion == "" {
		return nil
	}
	return repositoryVersion
}
