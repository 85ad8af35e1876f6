package verify

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/temirov/distrokit/internal/execshell"
)

const (
	gitListRemoteSubcommandConstant     = "ls-remote"
	gitCloneSubcommandConstant          = "clone"
	mercurialIdentifySubcommandConstant = "identify"
	mercurialCloneSubcommandConstant    = "clone"
	subversionInfoSubcommandConstant    = "info"
	subversionCheckoutSubcommand        = "checkout"
	subversionNonInteractiveFlag        = "--non-interactive"
	subversionTrustServerCertFlag       = "--trust-server-cert"
	revisionFlagConstant                = "-r"
	branchFlagConstant                  = "-b"
	quietFlagConstant                   = "-q"
	referenceSuffixTemplateConstant     = "/%s"
	packageManifestFileNameConstant     = "package.xml"
)

var (
	// ErrRepositoryUnreachable marks a remote that the vcs tool could not
	// identify at all.
	ErrRepositoryUnreachable = errors.New("repository url is not reachable")
	// ErrVersionNotFound marks a reachable remote that lacks the requested
	// branch, tag, or revision.
	ErrVersionNotFound = errors.New("version not found")
)

// RepositoryVerifier probes vcs remotes through the shell executor.
type RepositoryVerifier struct {
	executor *execshell.ShellExecutor
}

// NewRepositoryVerifier constructs a verifier on top of the executor.
func NewRepositoryVerifier(executor *execshell.ShellExecutor) *RepositoryVerifier {
	return &RepositoryVerifier{executor: executor}
}

// CheckGitRepository lists the remote references and, when a version is
// set, requires one of them to end in /<version>.
func (verifier *RepositoryVerifier) CheckGitRepository(executionContext context.Context, repositoryURL string, repositoryVersion string) error {
	listResult, listError := verifier.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments: []string{gitListRemoteSubcommandConstant, repositoryURL},
	})
	if listError != nil {
		return ErrRepositoryUnreachable
	}
	if repositoryVersion == "" {
		return nil
	}
	referenceSuffix := fmt.Sprintf(referenceSuffixTemplateConstant, repositoryVersion)
	for _, referenceLine := range strings.Split(listResult.StandardOutput, "\n") {
		if strings.HasSuffix(strings.TrimRight(referenceLine, "\r"), referenceSuffix) {
			return nil
		}
	}
	return ErrVersionNotFound
}

// CheckMercurialRepository identifies the remote, retrying without the
// version on failure to distinguish a bad url from a missing version.
func (verifier *RepositoryVerifier) CheckMercurialRepository(executionContext context.Context, repositoryURL string, repositoryVersion string) error {
	identifyArguments := []string{mercurialIdentifySubcommandConstant, repositoryURL}
	if repositoryVersion != "" {
		identifyArguments = append(identifyArguments, revisionFlagConstant, repositoryVersion)
	}
	_, identifyError := verifier.executor.ExecuteMercurial(executionContext, execshell.CommandDetails{
		Arguments: identifyArguments,
	})
	if identifyError == nil {
		return nil
	}
	if repositoryVersion == "" {
		return ErrRepositoryUnreachable
	}
	_, retryError := verifier.executor.ExecuteMercurial(executionContext, execshell.CommandDetails{
		Arguments: []string{mercurialIdentifySubcommandConstant, repositoryURL},
	})
	if retryError != nil {
		return ErrRepositoryUnreachable
	}
	return ErrVersionNotFound
}

// CheckSubversionRepository queries the remote, optionally at a revision.
func (verifier *RepositoryVerifier) CheckSubversionRepository(executionContext context.Context, repositoryURL string, repositoryVersion string) error {
	infoArguments := []string{subversionNonInteractiveFlag, subversionTrustServerCertFlag, subversionInfoSubcommandConstant, repositoryURL}
	if repositoryVersion != "" {
		infoArguments = append(infoArguments, revisionFlagConstant, repositoryVersion)
	}
	_, infoError := verifier.executor.ExecuteSubversion(executionContext, execshell.CommandDetails{
		Arguments: infoArguments,
	})
	if infoError != nil {
		return ErrRepositoryUnreachable
	}
	return nil
}

// FetchRepository clones or checks out the repository into the supplied
// working directory.
func (verifier *RepositoryVerifier) FetchRepository(executionContext context.Context, repository VCSRepository, workingDirectory string) error {
	switch repository.Type {
	case string(execshell.CommandGit):
		cloneArguments := []string{gitCloneSubcommandConstant, repository.URL, quietFlagConstant}
		if repository.Version != "" {
			cloneArguments = append(cloneArguments, branchFlagConstant, repository.Version)
		}
		_, cloneError := verifier.executor.ExecuteGit(executionContext, execshell.CommandDetails{
			Arguments:        cloneArguments,
			WorkingDirectory: workingDirectory,
		})
		if cloneError != nil {
			return ErrRepositoryUnreachable
		}
		return nil
	case string(execshell.CommandMercurial):
		cloneArguments := []string{mercurialCloneSubcommandConstant, repository.URL, quietFlagConstant}
		if repository.Version != "" {
			cloneArguments = append(cloneArguments, branchFlagConstant, repository.Version)
		}
		_, cloneError := verifier.executor.ExecuteMercurial(executionContext, execshell.CommandDetails{
			Arguments:        cloneArguments,
			WorkingDirectory: workingDirectory,
		})
		if cloneError != nil {
			return ErrRepositoryUnreachable
		}
		return nil
	default:
		checkoutArguments := []string{subversionNonInteractiveFlag, subversionTrustServerCertFlag, subversionCheckoutSubcommand, repository.URL, quietFlagConstant}
		if repository.Version != "" {
			checkoutArguments = append(checkoutArguments, revisionFlagConstant, repository.Version)
		}
		_, checkoutError := verifier.executor.ExecuteSubversion(executionContext, execshell.CommandDetails{
			Arguments:        checkoutArguments,
			WorkingDirectory: workingDirectory,
		})
		if checkoutError != nil {
			return ErrRepositoryUnreachable
		}
		return nil
	}
}

// containsPackageManifest reports whether any package manifest exists below
// the supplied directory.
func containsPackageManifest(rootDirectory string) (bool, error) {
	manifestFound := false
	walkError := filepath.WalkDir(rootDirectory, func(entryPath string, directoryEntry fs.DirEntry, entryError error) error {
		if entryError != nil {
			return entryError
		}
		if !directoryEntry.IsDir() && directoryEntry.Name() == packageManifestFileNameConstant {
			manifestFound = true
			return fs.SkipAll
		}
		return nil
	})
	if walkError != nil {
		return false, walkError
	}
	return manifestFound, nil
}
