package lint_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/distrokit/internal/lint"
)

func TestScannerSkipsStringBlocks(testInstance *testing.T) {
	documentWithLiteralBlock := "foo:\n" +
		"  uri: |\n" +
		"    literal content with    odd spacing\n" +
		"      and deeper lines\n" +
		"  version: [one]\n"

	reporter := &lint.RecordingReporter{}
	checker := lint.NewChecker(reporter)
	clean, checkError := checker.CorrectIndent(documentWithLiteralBlock)
	require.NoError(testInstance, checkError)
	require.True(testInstance, clean)
	require.Empty(testInstance, reporter.Violations)
}

func TestScannerResumesAfterStringBlock(testInstance *testing.T) {
	documentResumingChecks := "foo:\n" +
		"  uri: |\n" +
		"    literal content\n" +
		"      deeper literal content\n" +
		"   version: [one]\n"

	reporter := &lint.RecordingReporter{}
	checker := lint.NewChecker(reporter)
	clean, checkError := checker.CorrectIndent(documentResumingChecks)
	require.NoError(testInstance, checkError)
	require.False(testInstance, clean)
	require.Equal(testInstance, []string{"invalid indentation level line 5: 3"}, reporter.Violations)
}

func TestScannerIgnoresCommentsAndBlankLines(testInstance *testing.T) {
	documentWithComments := "# heading comment\n" +
		"\n" +
		"bar:\n" +
		"  # nested comment with    spacing quirks\n" +
		"  ubuntu: [libbar-dev]\n" +
		"\n" +
		"foo:\n" +
		"  ubuntu: [libfoo-dev]\n"

	reporter := &lint.RecordingReporter{}
	checker := lint.NewChecker(reporter)

	orderClean, orderError := checker.CheckOrder(documentWithComments)
	require.NoError(testInstance, orderError)
	require.True(testInstance, orderClean)

	indentClean, indentError := checker.CorrectIndent(documentWithComments)
	require.NoError(testInstance, indentError)
	require.True(testInstance, indentClean)
}

func TestScannerTracksMappingKeyMarkers(testInstance *testing.T) {
	documentWithMappingKeyMarker := "foo:\n" +
		"  ? [complex, key]\n" +
		"  : [value]\n"

	reporter := &lint.RecordingReporter{}
	checker := lint.NewChecker(reporter)
	orderClean, orderError := checker.CheckOrder(documentWithMappingKeyMarker)
	require.NoError(testInstance, orderError)
	require.True(testInstance, orderClean)
}
