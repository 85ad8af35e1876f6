package hooks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/distrokit/internal/execshell"
)

const (
	githubAPISubcommandConstant            = "api"
	githubPaginateFlagConstant             = "--paginate"
	repositoryEndpointTemplateConstant     = "repos/%s/%s"
	repositoryHooksEndpointTemplate        = "repos/%s/%s/hooks"
	repositoryMetadataDecodeErrorTemplate  = "unable to decode repository metadata for %s/%s: %w"
	repositoryWebhooksDecodeErrorTemplate  = "unable to decode webhooks for %s/%s: %w"
	repositoryWebhooksListErrorTemplateFmt = "unable to list webhooks for %s/%s: %w"
)

// ErrRepositoryNotFound marks a repository the API could not resolve.
var ErrRepositoryNotFound = errors.New("repository not found")

// RepositoryPermissions reflects the viewer's access on a repository.
type RepositoryPermissions struct {
	Push  bool `json:"push"`
	Admin bool `json:"admin"`
}

// RepositoryMetadata is the subset of the repository endpoint the audit
// needs.
type RepositoryMetadata struct {
	FullName    string                `json:"full_name"`
	Permissions RepositoryPermissions `json:"permissions"`
}

// WebhookConfiguration carries the delivery settings of one webhook.
type WebhookConfiguration struct {
	URL string `json:"url"`
}

// Webhook is one configured repository webhook.
type Webhook struct {
	Configuration WebhookConfiguration `json:"config"`
}

// Client fetches repository metadata and webhooks through the GitHub CLI.
type Client struct {
	executor *execshell.ShellExecutor
}

// NewClient constructs a client on top of the shell executor.
func NewClient(executor *execshell.ShellExecutor) *Client {
	return &Client{executor: executor}
}

// FetchRepositoryMetadata returns the repository's name and the viewer's
// permissions on it.
func (client *Client) FetchRepositoryMetadata(executionContext context.Context, ownerName string, repositoryName string) (*RepositoryMetadata, error) {
	metadataResult, metadataError := client.executor.ExecuteGitHubCLI(executionContext, execshell.CommandDetails{
		Arguments: []string{githubAPISubcommandConstant, fmt.Sprintf(repositoryEndpointTemplateConstant, ownerName, repositoryName)},
	})
	if metadataError != nil {
		return nil, ErrRepositoryNotFound
	}

	var repositoryMetadata RepositoryMetadata
	if decodeError := json.Unmarshal([]byte(metadataResult.StandardOutput), &repositoryMetadata); decodeError != nil {
		return nil, fmt.Errorf(repositoryMetadataDecodeErrorTemplate, ownerName, repositoryName, decodeError)
	}
	return &repositoryMetadata, nil
}

// ListWebhooks returns every webhook configured on the repository. The
// paginated endpoint emits one JSON array per page back to back, so the
// pages are decoded in sequence and flattened.
func (client *Client) ListWebhooks(executionContext context.Context, ownerName string, repositoryName string) ([]Webhook, error) {
	webhooksResult, webhooksError := client.executor.ExecuteGitHubCLI(executionContext, execshell.CommandDetails{
		Arguments: []string{githubAPISubcommandConstant, githubPaginateFlagConstant, fmt.Sprintf(repositoryHooksEndpointTemplate, ownerName, repositoryName)},
	})
	if webhooksError != nil {
		return nil, fmt.Errorf(repositoryWebhooksListErrorTemplateFmt, ownerName, repositoryName, webhooksError)
	}

	var repositoryWebhooks []Webhook
	pageDecoder := json.NewDecoder(strings.NewReader(webhooksResult.StandardOutput))
	for pageDecoder.More() {
		var pageWebhooks []Webhook
		if decodeError := pageDecoder.Decode(&pageWebhooks); decodeError != nil {
			return nil, fmt.Errorf(repositoryWebhooksDecodeErrorTemplate, ownerName, repositoryName, decodeError)
		}
		repositoryWebhooks = append(repositoryWebhooks, pageWebhooks...)
	}
	return repositoryWebhooks, nil
}
