// Package hooks audits GitHub repositories for pull-request build
// readiness: the viewer's push or admin access and the presence of the
// build callback webhook, queried through the GitHub CLI.
package hooks
