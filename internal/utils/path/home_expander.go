package pathutils

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const tildePrefixConstant = "~"

// HomeDirectoryProvider resolves the current user's home directory.
type HomeDirectoryProvider func() (string, error)

// HomeExpander rewrites a leading tilde in user-supplied locations, such as
// a local index path, to the user's home directory. The home lookup runs
// once and is reused across calls.
type HomeExpander struct {
	homeDirectoryProvider HomeDirectoryProvider
	homeDirectory         string
	homeDirectoryError    error
	lookupGuard           sync.Once
}

// NewHomeExpander constructs a HomeExpander using the operating system
// lookup.
func NewHomeExpander() *HomeExpander {
	return NewHomeExpanderWithProvider(os.UserHomeDir)
}

// NewHomeExpanderWithProvider constructs a HomeExpander with a custom home
// directory provider.
func NewHomeExpanderWithProvider(provider HomeDirectoryProvider) *HomeExpander {
	if provider == nil {
		provider = os.UserHomeDir
	}
	return &HomeExpander{homeDirectoryProvider: provider}
}

// Expand resolves a leading tilde to the home directory. Paths without the
// prefix, and any path when the home lookup fails, pass through unchanged.
func (expander *HomeExpander) Expand(candidatePath string) string {
	if expander == nil || !strings.HasPrefix(candidatePath, tildePrefixConstant) {
		return candidatePath
	}

	homeDirectory := expander.resolveHomeDirectory()
	if len(homeDirectory) == 0 {
		return candidatePath
	}

	if candidatePath == tildePrefixConstant {
		return homeDirectory
	}
	for _, separator := range []string{"/", string(os.PathSeparator)} {
		tildeWithSeparator := tildePrefixConstant + separator
		if strings.HasPrefix(candidatePath, tildeWithSeparator) {
			return filepath.Join(homeDirectory, strings.TrimPrefix(candidatePath, tildeWithSeparator))
		}
	}
	return candidatePath
}

func (expander *HomeExpander) resolveHomeDirectory() string {
	expander.lookupGuard.Do(func() {
		expander.homeDirectory, expander.homeDirectoryError = expander.homeDirectoryProvider()
	})
	if expander.homeDirectoryError != nil {
		return ""
	}
	return expander.homeDirectory
}
