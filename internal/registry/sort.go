package registry

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	registryFileDecodeErrorTemplateConstant = "unable to decode %s: %w"
	registryFileReadErrorTemplateConstant   = "unable to read %s: %w"
	registryFileWriteErrorTemplateConstant  = "unable to write %s: %w"
	registryFileEncodeErrorTemplate         = "unable to encode registry document: %w"
	versionedFileErrorTemplateConstant      = "%s is a versioned distribution file; sorting is only supported for legacy registry files"
	versionFieldKeyConstant                 = "version"
	registryFilePermissionsConstant         = 0o644
	documentIndentWidthConstant             = 2
)

// Sort rewrites the registry file at the supplied path with every sequence
// sorted in place. Versioned distribution files are rejected.
func Sort(registryFilePath string) error {
	documentData, loadError := loadRegistryFile(registryFilePath)
	if loadError != nil {
		return loadError
	}
	if _, isVersioned := documentData[versionFieldKeyConstant]; isVersioned {
		return fmt.Errorf(versionedFileErrorTemplateConstant, registryFilePath)
	}
	SortData(documentData)
	return writeRegistryFile(registryFilePath, documentData, "")
}

// SortData sorts every sequence in the decoded document and recurses into
// the values of every mapping. Sorting is idempotent.
func SortData(documentNode any) {
	switch typedNode := documentNode.(type) {
	case []any:
		sort.SliceStable(typedNode, func(leftIndex int, rightIndex int) bool {
			return compareNodes(typedNode[leftIndex], typedNode[rightIndex]) < 0
		})
	case map[string]any:
		for _, mappingValue := range typedNode {
			SortData(mappingValue)
		}
	}
}

// compareNodes orders two sequence members, numerically when both are
// numbers and by their string forms otherwise.
func compareNodes(leftNode any, rightNode any) int {
	leftNumber, leftIsNumber := asFloat(leftNode)
	rightNumber, rightIsNumber := asFloat(rightNode)
	if leftIsNumber && rightIsNumber {
		switch {
		case leftNumber < rightNumber:
			return -1
		case leftNumber > rightNumber:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(fmt.Sprint(leftNode), fmt.Sprint(rightNode))
}

func asFloat(scalarNode any) (float64, bool) {
	switch typedScalar := scalarNode.(type) {
	case int:
		return float64(typedScalar), true
	case int64:
		return float64(typedScalar), true
	case float64:
		return typedScalar, true
	default:
		return 0, false
	}
}

func loadRegistryFile(registryFilePath string) (map[string]any, error) {
	fileContents, readError := os.ReadFile(registryFilePath)
	if readError != nil {
		return nil, fmt.Errorf(registryFileReadErrorTemplateConstant, registryFilePath, readError)
	}
	var documentData map[string]any
	if decodeError := yaml.Unmarshal(fileContents, &documentData); decodeError != nil {
		return nil, fmt.Errorf(registryFileDecodeErrorTemplateConstant, registryFilePath, decodeError)
	}
	return documentData, nil
}

func writeRegistryFile(registryFilePath string, documentData map[string]any, documentHeader string) error {
	var encodedDocument strings.Builder
	encodedDocument.WriteString(documentHeader)
	documentEncoder := yaml.NewEncoder(&encodedDocument)
	documentEncoder.SetIndent(documentIndentWidthConstant)
	if encodeError := documentEncoder.Encode(documentData); encodeError != nil {
		return fmt.Errorf(registryFileEncodeErrorTemplate, encodeError)
	}
	if closeError := documentEncoder.Close(); closeError != nil {
		return fmt.Errorf(registryFileEncodeErrorTemplate, closeError)
	}
	if writeError := os.WriteFile(registryFilePath, []byte(encodedDocument.String()), registryFilePermissionsConstant); writeError != nil {
		return fmt.Errorf(registryFileWriteErrorTemplateConstant, registryFilePath, writeError)
	}
	return nil
}
