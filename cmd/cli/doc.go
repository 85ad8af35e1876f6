// Package cli assembles the distrokit command hierarchy, loading shared
// configuration and logging before dispatching to the tool commands.
package cli
