package verify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	httpSchemePrefixConstant            = "http://"
	httpsSchemePrefixConstant           = "https://"
	documentRequestTimeoutConstant      = 30 * time.Second
	documentRequestErrorTemplate        = "unable to request %s: %w"
	documentStatusErrorTemplateConstant = "unable to fetch %s: status %d"
	documentReadErrorTemplateConstant   = "unable to read %s: %w"
	documentDecodeErrorTemplateConstant = "unable to decode %s: %w"
	indexLocationResolveErrorTemplate   = "unable to resolve %s against %s: %w"
	unknownDistributionErrorTemplate    = "index %s does not list distribution %q"
	unexpectedNodeKindErrorTemplate     = "unexpected yaml node kind %d for distribution file list"
)

// HTTPClient issues HTTP requests.
type HTTPClient interface {
	Do(request *http.Request) (*http.Response, error)
}

// DocumentFetcher retrieves index and distribution documents from HTTP URLs
// or local file paths.
type DocumentFetcher struct {
	httpClient HTTPClient
}

// NewDocumentFetcher constructs a fetcher, defaulting to a timeout-bounded
// HTTP client when none is supplied.
func NewDocumentFetcher(httpClient HTTPClient) *DocumentFetcher {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: documentRequestTimeoutConstant}
	}
	return &DocumentFetcher{httpClient: httpClient}
}

// Fetch returns the document bytes at the supplied location.
func (fetcher *DocumentFetcher) Fetch(requestContext context.Context, documentLocation string) ([]byte, error) {
	if !isRemoteLocation(documentLocation) {
		fileContents, readError := os.ReadFile(documentLocation)
		if readError != nil {
			return nil, fmt.Errorf(documentReadErrorTemplateConstant, documentLocation, readError)
		}
		return fileContents, nil
	}

	documentRequest, requestError := http.NewRequestWithContext(requestContext, http.MethodGet, documentLocation, nil)
	if requestError != nil {
		return nil, fmt.Errorf(documentRequestErrorTemplate, documentLocation, requestError)
	}
	documentResponse, responseError := fetcher.httpClient.Do(documentRequest)
	if responseError != nil {
		return nil, fmt.Errorf(documentRequestErrorTemplate, documentLocation, responseError)
	}
	defer documentResponse.Body.Close()
	if documentResponse.StatusCode != http.StatusOK {
		return nil, fmt.Errorf(documentStatusErrorTemplateConstant, documentLocation, documentResponse.StatusCode)
	}
	documentBytes, bodyError := io.ReadAll(documentResponse.Body)
	if bodyError != nil {
		return nil, fmt.Errorf(documentReadErrorTemplateConstant, documentLocation, bodyError)
	}
	return documentBytes, nil
}

func isRemoteLocation(documentLocation string) bool {
	return strings.HasPrefix(documentLocation, httpSchemePrefixConstant) ||
		strings.HasPrefix(documentLocation, httpsSchemePrefixConstant)
}

// resolveLocation interprets a document reference relative to the location
// of the document that mentioned it.
func resolveLocation(baseLocation string, referencedLocation string) (string, error) {
	if isRemoteLocation(referencedLocation) {
		return referencedLocation, nil
	}
	if isRemoteLocation(baseLocation) {
		baseURL, baseParseError := url.Parse(baseLocation)
		if baseParseError != nil {
			return "", fmt.Errorf(indexLocationResolveErrorTemplate, referencedLocation, baseLocation, baseParseError)
		}
		referencedURL, referenceParseError := url.Parse(referencedLocation)
		if referenceParseError != nil {
			return "", fmt.Errorf(indexLocationResolveErrorTemplate, referencedLocation, baseLocation, referenceParseError)
		}
		return baseURL.ResolveReference(referencedURL).String(), nil
	}
	if filepath.IsAbs(referencedLocation) {
		return referencedLocation, nil
	}
	return filepath.Join(filepath.Dir(baseLocation), referencedLocation), nil
}

// VCSRepository identifies one version-control location inside a
// distribution file section.
type VCSRepository struct {
	Type    string `yaml:"type"`
	URL     string `yaml:"url"`
	Version string `yaml:"version"`
}

// RepositoryEntry groups the per-section repositories of one named
// distribution entry.
type RepositoryEntry struct {
	Doc    *VCSRepository `yaml:"doc"`
	Source *VCSRepository `yaml:"source"`
}

// Distribution is a decoded distribution file.
type Distribution struct {
	Repositories map[string]RepositoryEntry `yaml:"repositories"`
}

// locationList accepts either a single scalar location or a sequence of
// locations, the two shapes index files use for distribution references.
type locationList []string

func (locations *locationList) UnmarshalYAML(documentNode *yaml.Node) error {
	switch documentNode.Kind {
	case yaml.ScalarNode:
		var singleLocation string
		if decodeError := documentNode.Decode(&singleLocation); decodeError != nil {
			return decodeError
		}
		*locations = locationList{singleLocation}
		return nil
	case yaml.SequenceNode:
		var manyLocations []string
		if decodeError := documentNode.Decode(&manyLocations); decodeError != nil {
			return decodeError
		}
		*locations = locationList(manyLocations)
		return nil
	default:
		return fmt.Errorf(unexpectedNodeKindErrorTemplate, documentNode.Kind)
	}
}

type indexDistributionReference struct {
	DistributionFiles locationList `yaml:"distribution"`
}

type indexDocument struct {
	Distributions map[string]indexDistributionReference `yaml:"distributions"`
}

// LoadDistribution resolves the named distribution through the index at
// indexLocation and returns the merged distribution file contents. When a
// distribution lists several files the later ones override earlier entries.
func LoadDistribution(requestContext context.Context, fetcher *DocumentFetcher, indexLocation string, distributionName string) (*Distribution, error) {
	indexBytes, indexFetchError := fetcher.Fetch(requestContext, indexLocation)
	if indexFetchError != nil {
		return nil, indexFetchError
	}
	var decodedIndex indexDocument
	if decodeError := yaml.Unmarshal(indexBytes, &decodedIndex); decodeError != nil {
		return nil, fmt.Errorf(documentDecodeErrorTemplateConstant, indexLocation, decodeError)
	}

	distributionReference, distributionListed := decodedIndex.Distributions[distributionName]
	if !distributionListed || len(distributionReference.DistributionFiles) == 0 {
		return nil, fmt.Errorf(unknownDistributionErrorTemplate, indexLocation, distributionName)
	}

	mergedDistribution := &Distribution{Repositories: map[string]RepositoryEntry{}}
	for _, distributionFileReference := range distributionReference.DistributionFiles {
		distributionFileLocation, resolveError := resolveLocation(indexLocation, distributionFileReference)
		if resolveError != nil {
			return nil, resolveError
		}
		distributionBytes, distributionFetchError := fetcher.Fetch(requestContext, distributionFileLocation)
		if distributionFetchError != nil {
			return nil, distributionFetchError
		}
		var decodedDistribution Distribution
		if decodeError := yaml.Unmarshal(distributionBytes, &decodedDistribution); decodeError != nil {
			return nil, fmt.Errorf(documentDecodeErrorTemplateConstant, distributionFileLocation, decodeError)
		}
		for repositoryName, repositoryEntry := range decodedDistribution.Repositories {
			mergedDistribution.Repositories[repositoryName] = repositoryEntry
		}
	}
	return mergedDistribution, nil
}
