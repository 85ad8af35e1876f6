package registry_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/distrokit/internal/registry"
)

const (
	unsortedLegacyDocumentConstant = "type: gbp\n" +
		"repositories:\n" +
		"  alpha:\n" +
		"    packages: [zeta, beta, gamma]\n" +
		"    url: https://example.com/alpha.git\n"
	versionedDocumentConstant     = "type: distribution\nversion: 2\nrepositories: {}\n"
	versionedErrorFragmentLiteral = "versioned distribution file"
)

func TestSortData(testInstance *testing.T) {
	testCases := []struct {
		name         string
		documentNode any
		expectedNode any
	}{
		{
			name:         "sorts_string_sequence",
			documentNode: []any{"zeta", "beta", "gamma"},
			expectedNode: []any{"beta", "gamma", "zeta"},
		},
		{
			name:         "sorts_numeric_sequence_numerically",
			documentNode: []any{10, 9, 2},
			expectedNode: []any{2, 9, 10},
		},
		{
			name: "recurses_into_mapping_values",
			documentNode: map[string]any{
				"packages": []any{"b", "a"},
				"nested":   map[string]any{"deps": []any{"z", "y"}},
			},
			expectedNode: map[string]any{
				"packages": []any{"a", "b"},
				"nested":   map[string]any{"deps": []any{"y", "z"}},
			},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtestInstance *testing.T) {
			registry.SortData(testCase.documentNode)
			require.Equal(subtestInstance, testCase.expectedNode, testCase.documentNode)
		})
	}
}

func TestSortDataIsIdempotent(testInstance *testing.T) {
	documentNode := map[string]any{"packages": []any{"c", "a", "b"}}
	registry.SortData(documentNode)
	firstPass := documentNode["packages"]
	registry.SortData(documentNode)
	require.Equal(testInstance, firstPass, documentNode["packages"])
}

func TestSortRewritesFileWithSortedSequences(testInstance *testing.T) {
	registryFilePath := writeRegistryFixture(testInstance, unsortedLegacyDocumentConstant)

	require.NoError(testInstance, registry.Sort(registryFilePath))

	documentData := decodeRegistryFixture(testInstance, registryFilePath)
	repositoryValues := repositoryEntry(testInstance, documentData, "alpha")
	require.Equal(testInstance, []any{"beta", "gamma", "zeta"}, repositoryValues["packages"])
}

func TestSortRejectsVersionedDistributionFiles(testInstance *testing.T) {
	registryFilePath := writeRegistryFixture(testInstance, versionedDocumentConstant)

	sortError := registry.Sort(registryFilePath)
	require.Error(testInstance, sortError)
	require.Contains(testInstance, sortError.Error(), versionedErrorFragmentLiteral)

	originalContents, readError := os.ReadFile(registryFilePath)
	require.NoError(testInstance, readError)
	require.Equal(testInstance, versionedDocumentConstant, string(originalContents))
}
