package github

import (
	"context"
	"sync"
	"time"

	"github.com/google/go-github/v33/github"
	"github.com/pkg/errors"
)

// tokenRotationMargin is how long before expiry a cached installation token is
// considered stale. GitHub installation tokens live for one hour.
const tokenRotationMargin = 5 * time.Minute

// InstallationToken is an access token scoped to a single installation of a
// GitHub App.
type InstallationToken struct {
	// Token is the access token itself.
	Token string
	// InstallationID is the ID of the installation the token acts on behalf of.
	InstallationID int64
	// ExpiresAt is the expiry time reported by GitHub.
	ExpiresAt time.Time
}

// AppsClient is the subset of the GitHub Apps API used to exchange an App
// assertion for an installation token.
type AppsClient interface {
	CreateInstallationToken(
		ctx context.Context,
		id int64,
		opts *github.InstallationTokenOptions,
	) (*github.InstallationToken, *github.Response, error)
}

// InstallationTokenProvider exchanges App assertions for installation tokens.
// Unless caching is enabled, every call results in a fresh exchange.
type InstallationTokenProvider struct {
	appsClient   AppsClient
	cacheEnabled bool
	nowFn        func() time.Time

	mu     sync.Mutex
	tokens map[int64]InstallationToken
}

// NewInstallationTokenProvider returns an InstallationTokenProvider that uses
// the provided AppsClient. The AppsClient must already be authenticated as the
// App.
func NewInstallationTokenProvider(
	appsClient AppsClient,
	cacheEnabled bool,
) *InstallationTokenProvider {
	return &InstallationTokenProvider{
		appsClient:   appsClient,
		cacheEnabled: cacheEnabled,
		nowFn:        time.Now,
		tokens:       map[int64]InstallationToken{},
	}
}

// InstallationToken returns an access token for the specified installation.
func (p *InstallationTokenProvider) InstallationToken(
	ctx context.Context,
	installationID int64,
) (InstallationToken, error) {
	if installationID == 0 {
		return InstallationToken{}, errors.New("installation ID is required")
	}
	if p.cacheEnabled {
		if token, ok := p.cachedToken(installationID); ok {
			return token, nil
		}
	}
	ghToken, _, err := p.appsClient.CreateInstallationToken(
		ctx,
		installationID,
		&github.InstallationTokenOptions{},
	)
	if err != nil {
		return InstallationToken{}, errors.Wrapf(
			err,
			"error creating installation token for installation %d",
			installationID,
		)
	}
	if ghToken.GetToken() == "" {
		return InstallationToken{}, errors.Errorf(
			"empty installation token returned for installation %d",
			installationID,
		)
	}
	token := InstallationToken{
		Token:          ghToken.GetToken(),
		InstallationID: installationID,
		ExpiresAt:      ghToken.GetExpiresAt(),
	}
	if p.cacheEnabled {
		p.mu.Lock()
		p.tokens[installationID] = token
		p.mu.Unlock()
	}
	return token, nil
}

func (p *InstallationTokenProvider) cachedToken(
	installationID int64,
) (InstallationToken, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	token, ok := p.tokens[installationID]
	if !ok {
		return InstallationToken{}, false
	}
	if !p.nowFn().Before(token.ExpiresAt.Add(-tokenRotationMargin)) {
		delete(p.tokens, installationID)
		return InstallationToken{}, false
	}
	return token, true
}
