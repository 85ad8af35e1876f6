package verify

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"go.uber.org/zap"

	"github.com/temirov/distrokit/internal/execshell"
)

const (
	SectionDoc    = "doc"
	SectionSource = "source"

	progressMarkConstant                 = "."
	distributionLoadErrorTemplate        = "could not load distribution %q: %w"
	unknownSectionErrorTemplateConstant  = "unknown section %q; expected %q or %q"
	fetchFailureTemplateConstant         = "could not fetch repository '%s': %s (%s) [%v]"
	unknownTypeFailureTemplateConstant   = "unknown type '%s' for repository '%s'"
	cloneFailureTemplateConstant         = "could not clone repository '%s': %s (%s) [%v]"
	missingPackagesFailureTemplate       = "repository '%s' (%s [%s]) does not contain any packages"
	fetchWorkspaceErrorTemplateConstant  = "unable to create workspace for repository '%s': %v"
	repositoryFailureLogMessageConstant  = "repository verification failed"
	logFieldRepositoryNameConstant       = "repository_name"
	logFieldFailureMessageConstant       = "failure_message"
	temporaryWorkspacePatternConstant    = "distrokit-verify-"
	packageManifestWalkErrorTemplateText = "unable to inspect repository '%s' clone: %v"
)

// Options selects which repositories a sweep verifies.
type Options struct {
	IndexLocation    string
	DistributionName string
	Section          string
	CheckPackages    bool
}

// Report lists the failures of one verification sweep.
type Report struct {
	RepositoryCount int
	Failures        []string
}

// Sweeper walks every repository of a distribution section and probes its
// vcs remote. Individual failures are collected in the report; only an
// unresolvable distribution aborts the sweep.
type Sweeper struct {
	fetcher        *DocumentFetcher
	verifier       *RepositoryVerifier
	progressWriter io.Writer
	logger         *zap.Logger
}

// NewSweeper constructs a sweeper over the supplied collaborators.
func NewSweeper(fetcher *DocumentFetcher, verifier *RepositoryVerifier, progressWriter io.Writer, logger *zap.Logger) *Sweeper {
	if progressWriter == nil {
		progressWriter = io.Discard
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sweeper{fetcher: fetcher, verifier: verifier, progressWriter: progressWriter, logger: logger}
}

// Run verifies every repository of the requested section.
func (sweeper *Sweeper) Run(executionContext context.Context, options Options) (*Report, error) {
	if options.Section != SectionDoc && options.Section != SectionSource {
		return nil, fmt.Errorf(unknownSectionErrorTemplateConstant, options.Section, SectionDoc, SectionSource)
	}

	distribution, loadError := LoadDistribution(executionContext, sweeper.fetcher, options.IndexLocation, options.DistributionName)
	if loadError != nil {
		return nil, fmt.Errorf(distributionLoadErrorTemplate, options.DistributionName, loadError)
	}

	repositoryNames := make([]string, 0, len(distribution.Repositories))
	for repositoryName := range distribution.Repositories {
		repositoryNames = append(repositoryNames, repositoryName)
	}
	sort.Strings(repositoryNames)

	sweepReport := &Report{}
	for _, repositoryName := range repositoryNames {
		fmt.Fprint(sweeper.progressWriter, progressMarkConstant)

		repository := sectionRepository(distribution.Repositories[repositoryName], options.Section)
		if repository == nil {
			continue
		}
		sweepReport.RepositoryCount++

		if failureMessage := sweeper.verifyRepository(executionContext, repositoryName, *repository, options.CheckPackages); failureMessage != "" {
			sweepReport.Failures = append(sweepReport.Failures, failureMessage)
			sweeper.logger.Warn(
				repositoryFailureLogMessageConstant,
				zap.String(logFieldRepositoryNameConstant, repositoryName),
				zap.String(logFieldFailureMessageConstant, failureMessage),
			)
		}
	}
	return sweepReport, nil
}

func sectionRepository(repositoryEntry RepositoryEntry, sectionName string) *VCSRepository {
	if sectionName == SectionDoc {
		return repositoryEntry.Doc
	}
	return repositoryEntry.Source
}

func (sweeper *Sweeper) verifyRepository(executionContext context.Context, repositoryName string, repository VCSRepository, checkPackages bool) string {
	var probeError error
	switch repository.Type {
	case string(execshell.CommandGit):
		probeError = sweeper.verifier.CheckGitRepository(executionContext, repository.URL, repository.Version)
	case string(execshell.CommandMercurial):
		probeError = sweeper.verifier.CheckMercurialRepository(executionContext, repository.URL, repository.Version)
	case string(execshell.CommandSubversion):
		probeError = sweeper.verifier.CheckSubversionRepository(executionContext, repository.URL, repository.Version)
	default:
		return fmt.Sprintf(unknownTypeFailureTemplateConstant, repository.Type, repositoryName)
	}
	if probeError != nil {
		return fmt.Sprintf(fetchFailureTemplateConstant, repositoryName, repository.URL, repository.Version, probeError)
	}

	if !checkPackages {
		return ""
	}
	return sweeper.checkRepositoryPackages(executionContext, repositoryName, repository)
}

// checkRepositoryPackages clones the repository into a scratch directory
// and requires at least one package manifest below it.
func (sweeper *Sweeper) checkRepositoryPackages(executionContext context.Context, repositoryName string, repository VCSRepository) string {
	workspaceDirectory, workspaceError := os.MkdirTemp("", temporaryWorkspacePatternConstant)
	if workspaceError != nil {
		return fmt.Sprintf(fetchWorkspaceErrorTemplateConstant, repositoryName, workspaceError)
	}
	defer os.RemoveAll(workspaceDirectory)

	if fetchError := sweeper.verifier.FetchRepository(executionContext, repository, workspaceDirectory); fetchError != nil {
		return fmt.Sprintf(cloneFailureTemplateConstant, repositoryName, repository.URL, repository.Version, fetchError)
	}

	manifestFound, walkError := containsPackageManifest(workspaceDirectory)
	if walkError != nil {
		return fmt.Sprintf(packageManifestWalkErrorTemplateText, repositoryName, walkError)
	}
	if !manifestFound {
		return fmt.Sprintf(missingPackagesFailureTemplate, repositoryName, repository.URL, repository.Version)
	}
	return ""
}
