package github

import (
	"context"
	"net/http"

	"github.com/google/go-github/v33/github"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"
)

// InstallationClient bundles the GitHub API clients that act on behalf of a
// single installation of the App.
type InstallationClient struct {
	// InstallationID is the ID of the installation the clients act on behalf
	// of.
	InstallationID int64
	// Checks is a client for the Checks API.
	Checks CheckRunsClient
	// Repositories is a client for the Repositories API.
	Repositories RepositoriesClient
}

// ClientFactory is an interface for components that can produce an
// InstallationClient for a given installation of the App.
type ClientFactory interface {
	NewInstallationClient(
		ctx context.Context,
		installationID int64,
	) (*InstallationClient, error)
}

// ClientFactoryConfig encapsulates configuration for a ClientFactory.
type ClientFactoryConfig struct {
	// BaseURL optionally specifies the base URL of a GitHub Enterprise API. When
	// empty, the public GitHub API is used.
	BaseURL string
	// TokenCacheEnabled specifies whether installation tokens should be reused
	// across events until they approach expiry.
	TokenCacheEnabled bool
}

type installationTokenSource interface {
	InstallationToken(
		ctx context.Context,
		installationID int64,
	) (InstallationToken, error)
}

type clientFactory struct {
	baseURL       string
	tokenProvider installationTokenSource
}

// NewClientFactory returns a ClientFactory for the given App. This function
// abstracts the onerous process of authenticating as an installation. It uses
// the App's ID and ASCII-armored private key to create a JWT that is used to
// authenticate to the GitHub Apps API. Using that API, an installation token is
// obtained for each requested installation. That token is ultimately used by
// the returned clients to authenticate as the installation.
//
// See the following for further details:
// https://docs.github.com/en/developers/apps/authenticating-with-github-apps
func NewClientFactory(
	app App,
	config ClientFactoryConfig,
) (ClientFactory, error) {
	authenticator, err := NewAppAuthenticator(app)
	if err != nil {
		return nil, err
	}
	appClient, err := newClient(
		oauth2.NewClient(context.Background(), authenticator),
		config.BaseURL,
	)
	if err != nil {
		return nil, errors.Wrap(err, "error creating github app client")
	}
	return &clientFactory{
		baseURL: config.BaseURL,
		tokenProvider: NewInstallationTokenProvider(
			appClient.Apps,
			config.TokenCacheEnabled,
		),
	}, nil
}

func (c *clientFactory) NewInstallationClient(
	ctx context.Context,
	installationID int64,
) (*InstallationClient, error) {
	token, err := c.tokenProvider.InstallationToken(ctx, installationID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to negotiate an installation token")
	}
	// ctx only bounds the exchange; the client outlives it
	ghClient, err := newClient(
		oauth2.NewClient(
			context.Background(),
			oauth2.StaticTokenSource(
				&oauth2.Token{
					TokenType:   "token", // This type indicates an installation token
					AccessToken: token.Token,
				},
			),
		),
		c.baseURL,
	)
	if err != nil {
		return nil, errors.Wrapf(
			err,
			"error creating new client for installation %d",
			installationID,
		)
	}
	return &InstallationClient{
		InstallationID: installationID,
		Checks:         &checkRunsClient{client: ghClient},
		Repositories:   ghClient.Repositories,
	}, nil
}

// newClient returns a github.Client that uses the provided http.Client. If a
// base URL is specified, the client targets a GitHub Enterprise API at that
// URL.
func newClient(httpClient *http.Client, baseURL string) (*github.Client, error) {
	if baseURL == "" {
		return github.NewClient(httpClient), nil
	}
	return github.NewEnterpriseClient(baseURL, baseURL, httpClient)
}
