package cleanup_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/distrokit/internal/cleanup"
)

const (
	unsortedDocumentConstant = "zlib:\n" +
		"  ubuntu: [zlib1g-dev]\n" +
		"pkg:\n" +
		"  debian: libfoo-dev libbar-dev\n"
	unsortedDocumentExpectedConstant = "pkg:\n" +
		"  debian: [libfoo-dev, libbar-dev]\n" +
		"zlib:\n" +
		"  ubuntu: [zlib1g-dev]\n"
	tarballDocumentConstant = "tarball:\n" +
		"  '*':\n" +
		"    uri: 'http://example.com/archive.tar.gz'\n" +
		"    md5sum: fcba7329480achecksum\n"
	tarballDocumentExpectedConstant = "tarball:\n" +
		"  '*':\n" +
		"    md5sum: fcba7329480achecksum\n" +
		"    uri: http://example.com/archive.tar.gz\n"
	literalBlockDocumentConstant = "installer:\n" +
		"  script: |\n" +
		"    line one\n" +
		"    line two\n"
	literalBlockDocumentExpectedConstant = "installer:\n" +
		"  script: |\n" +
		"    line one\n" +
		"    line two\n"
	nullValueDocumentConstant         = "pkg:\n  gentoo:\n"
	nullValueDocumentExpectedConstant = "pkg:\n  gentoo:\n"
	quotedTokenDocumentConstant       = "pkg:\n  debian: 'null'\n"
	quotedTokenDocumentExpected       = "pkg:\n  debian: [\"null\"]\n"
	quotedNumericKeyDocumentConstant  = "'14':\n  ubuntu: [libfoo]\n"
	quotedNumericKeyDocumentExpected  = "'14':\n  ubuntu: [libfoo]\n"
	unparsableDocumentConstant        = "pkg: [unclosed\n"
)

func TestClean(testInstance *testing.T) {
	testCases := []struct {
		name             string
		documentContents string
		expectedOutput   string
	}{
		{
			name:             "sorts_keys_and_brackets_tokens",
			documentContents: unsortedDocumentConstant,
			expectedOutput:   unsortedDocumentExpectedConstant,
		},
		{
			name:             "keeps_uri_and_md5sum_scalar",
			documentContents: tarballDocumentConstant,
			expectedOutput:   tarballDocumentExpectedConstant,
		},
		{
			name:             "renders_multiline_string_as_literal_block",
			documentContents: literalBlockDocumentConstant,
			expectedOutput:   literalBlockDocumentExpectedConstant,
		},
		{
			name:             "renders_null_value_as_bare_key",
			documentContents: nullValueDocumentConstant,
			expectedOutput:   nullValueDocumentExpectedConstant,
		},
		{
			name:             "quotes_tokens_that_need_quoting",
			documentContents: quotedTokenDocumentConstant,
			expectedOutput:   quotedTokenDocumentExpected,
		},
		{
			name:             "quotes_numeric_keys",
			documentContents: quotedNumericKeyDocumentConstant,
			expectedOutput:   quotedNumericKeyDocumentExpected,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtestInstance *testing.T) {
			cleanedOutput, cleanError := cleanup.Clean([]byte(testCase.documentContents))
			require.NoError(subtestInstance, cleanError)
			require.Equal(subtestInstance, testCase.expectedOutput, cleanedOutput)
		})
	}
}

func TestCleanIsIdempotent(testInstance *testing.T) {
	firstPass, firstError := cleanup.Clean([]byte(unsortedDocumentConstant))
	require.NoError(testInstance, firstError)
	secondPass, secondError := cleanup.Clean([]byte(firstPass))
	require.NoError(testInstance, secondError)
	require.Equal(testInstance, firstPass, secondPass)
}

func TestCleanRejectsUnparsableDocument(testInstance *testing.T) {
	_, cleanError := cleanup.Clean([]byte(unparsableDocumentConstant))
	require.Error(testInstance, cleanError)
	require.Contains(testInstance, cleanError.Error(), "unable to decode document")
}
