package hooks

import (
	"context"
	"fmt"
)

// DefaultCallbackURLConstant is the pull-request build callback the audit
// looks for when no other url is configured.
const DefaultCallbackURLConstant = "http://build.ros.org/ghprbhook/"

const (
	hookListFailureWarningTemplate  = "unable to check repository [ %s ] for hooks: %v"
	unverifiedHookWarningTemplate   = "push access detected but unable to verify hook configuration for repository [ %s ]; make sure the callback hook is set up"
	repositoryNotFoundTemplateConst = "no repository found at %s/%s: %w"
)

// Result reports one repository audit: whether the repository passes and
// the warnings accumulated along the way.
type Result struct {
	RepositoryFullName string
	Passed             bool
	Warnings           []string
}

// Detector audits repositories for pull-request build hook readiness.
type Detector struct {
	client      *Client
	callbackURL string
}

// NewDetector constructs a detector looking for the supplied callback url,
// falling back to the default when empty.
func NewDetector(client *Client, callbackURL string) *Detector {
	if callbackURL == "" {
		callbackURL = DefaultCallbackURLConstant
	}
	return &Detector{client: client, callbackURL: callbackURL}
}

// CheckRepository verifies that pull-request builds can be set up on the
// repository: push access combined with a detectable callback hook, or
// admin access, passes. Push access without a detectable hook passes with
// a warning unless strict mode is on.
func (detector *Detector) CheckRepository(executionContext context.Context, ownerName string, repositoryName string, strictMode bool) (Result, error) {
	repositoryMetadata, metadataError := detector.client.FetchRepositoryMetadata(executionContext, ownerName, repositoryName)
	if metadataError != nil {
		return Result{}, fmt.Errorf(repositoryNotFoundTemplateConst, ownerName, repositoryName, metadataError)
	}

	auditResult := Result{RepositoryFullName: repositoryMetadata.FullName}

	hookDetected := false
	repositoryWebhooks, webhooksError := detector.client.ListWebhooks(executionContext, ownerName, repositoryName)
	if webhooksError != nil {
		auditResult.Warnings = append(auditResult.Warnings, fmt.Sprintf(hookListFailureWarningTemplate, repositoryMetadata.FullName, webhooksError))
	} else {
		for _, repositoryWebhook := range repositoryWebhooks {
			if repositoryWebhook.Configuration.URL == detector.callbackURL {
				hookDetected = true
				break
			}
		}
	}

	pushAccess := repositoryMetadata.Permissions.Push
	adminAccess := repositoryMetadata.Permissions.Admin

	if (pushAccess && hookDetected) || adminAccess {
		auditResult.Passed = true
		return auditResult, nil
	}
	if pushAccess && !hookDetected {
		auditResult.Warnings = append(auditResult.Warnings, fmt.Sprintf(unverifiedHookWarningTemplate, repositoryMetadata.FullName))
		auditResult.Passed = !strictMode
		return auditResult, nil
	}
	return auditResult, nil
}
