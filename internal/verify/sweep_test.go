package verify_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/distrokit/internal/execshell"
	"github.com/temirov/distrokit/internal/verify"
)

const (
	indexFileNameConstant        = "index.yaml"
	distributionFileNameConstant = "groovy.yaml"
	indexDocumentConstant        = "type: index\n" +
		"version: 2\n" +
		"distributions:\n" +
		"  groovy:\n" +
		"    distribution: [groovy.yaml]\n"
	distributionDocumentConstant = "repositories:\n" +
		"  broken:\n" +
		"    doc:\n" +
		"      type: git\n" +
		"      url: https://bad.example.com/broken.git\n" +
		"      version: main\n" +
		"  legacy:\n" +
		"    doc:\n" +
		"      type: cvs\n" +
		"      url: https://example.com/legacy\n" +
		"  release_only:\n" +
		"    release:\n" +
		"      url: https://example.com/release.git\n" +
		"  working:\n" +
		"    doc:\n" +
		"      type: git\n" +
		"      url: https://example.com/working.git\n" +
		"      version: main\n"
	unreachableURLFragmentConstant = "bad.example.com"
)

func writeIndexFixture(testInstance *testing.T) string {
	testInstance.Helper()
	fixtureDirectory := testInstance.TempDir()
	indexFilePath := filepath.Join(fixtureDirectory, indexFileNameConstant)
	require.NoError(testInstance, os.WriteFile(indexFilePath, []byte(indexDocumentConstant), 0o644))
	distributionFilePath := filepath.Join(fixtureDirectory, distributionFileNameConstant)
	require.NoError(testInstance, os.WriteFile(distributionFilePath, []byte(distributionDocumentConstant), 0o644))
	return indexFilePath
}

func TestSweeperRunReportsPerRepositoryFailures(testInstance *testing.T) {
	indexFilePath := writeIndexFixture(testInstance)
	commandRunner := &scriptedCommandRunner{
		failingArgumentFragments: []string{unreachableURLFragmentConstant},
		standardOutput:           listRemoteOutputConstant,
	}
	executor, executorError := execshell.NewShellExecutor(zap.NewNop(), commandRunner)
	require.NoError(testInstance, executorError)

	var progressOutput strings.Builder
	sweeper := verify.NewSweeper(verify.NewDocumentFetcher(nil), verify.NewRepositoryVerifier(executor), &progressOutput, zap.NewNop())

	sweepReport, sweepError := sweeper.Run(context.Background(), verify.Options{
		IndexLocation:    indexFilePath,
		DistributionName: "groovy",
		Section:          verify.SectionDoc,
	})
	require.NoError(testInstance, sweepError)

	require.Equal(testInstance, 3, sweepReport.RepositoryCount)
	require.Len(testInstance, sweepReport.Failures, 2)
	require.Contains(testInstance, sweepReport.Failures[0], "could not fetch repository 'broken'")
	require.Contains(testInstance, sweepReport.Failures[1], "unknown type 'cvs' for repository 'legacy'")
	require.Equal(testInstance, "....", progressOutput.String())
}

func TestSweeperRunRejectsUnknownSection(testInstance *testing.T) {
	sweeper := verify.NewSweeper(verify.NewDocumentFetcher(nil), nil, nil, nil)

	_, sweepError := sweeper.Run(context.Background(), verify.Options{
		IndexLocation:    "index.yaml",
		DistributionName: "groovy",
		Section:          "release",
	})
	require.Error(testInstance, sweepError)
	require.Contains(testInstance, sweepError.Error(), "unknown section")
}

func TestSweeperRunFailsWhenDistributionMissing(testInstance *testing.T) {
	indexFilePath := writeIndexFixture(testInstance)
	sweeper := verify.NewSweeper(verify.NewDocumentFetcher(nil), nil, nil, nil)

	_, sweepError := sweeper.Run(context.Background(), verify.Options{
		IndexLocation:    indexFilePath,
		DistributionName: "hydro",
		Section:          verify.SectionSource,
	})
	require.Error(testInstance, sweepError)
	require.Contains(testInstance, sweepError.Error(), "could not load distribution")
}
