// Package verify resolves a distribution through the registry index and
// probes every referenced vcs repository for existence of the configured
// url and version.
package verify
