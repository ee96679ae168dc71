package github

import (
	"crypto/rsa"
	"strconv"
	"sync"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"
)

const (
	// appAssertionTTL is the lifetime of a signed App assertion. GitHub rejects
	// JWTs that expire more than ten minutes after they were issued.
	appAssertionTTL = 10 * time.Minute
	// defaultAssertionSafetyMargin is how long before expiry a cached assertion
	// stops being handed out.
	defaultAssertionSafetyMargin = time.Minute
)

// AppAssertion is a signed JSON web token asserting the identity of a GitHub
// App. It is only ever used to obtain installation tokens.
type AppAssertion struct {
	// Token is the signed, compact serialization of the JWT.
	Token string
	// IssuedAt is the time the assertion was issued.
	IssuedAt time.Time
	// ExpiresAt is the time after which GitHub will reject the assertion.
	ExpiresAt time.Time
	// Issuer is the ID of the App, formatted as a string.
	Issuer string
}

// AppAuthenticator mints App assertions for a single GitHub App. Assertions are
// cached until they come within a safety margin of their expiry. An
// AppAuthenticator is safe for concurrent use and also implements the
// oauth2.TokenSource interface so that it can be used to authenticate a GitHub
// API client as the App itself.
type AppAuthenticator struct {
	appID        int64
	key          *rsa.PrivateKey
	safetyMargin time.Duration
	nowFn        func() time.Time

	mu     sync.Mutex
	cached *AppAssertion
}

// NewAppAuthenticator returns an AppAuthenticator for the given App. An error
// is returned if the App's API key cannot be parsed as an RSA private key.
func NewAppAuthenticator(app App) (*AppAuthenticator, error) {
	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(app.APIKey))
	if err != nil {
		return nil, errors.Wrapf(
			err,
			"error parsing private key for github app %d",
			app.AppID,
		)
	}
	return &AppAuthenticator{
		appID:        app.AppID,
		key:          key,
		safetyMargin: defaultAssertionSafetyMargin,
		nowFn:        time.Now,
	}, nil
}

// Assertion returns a signed App assertion that is valid for at least the
// duration of the safety margin. A cached assertion is returned if one is
// available; otherwise a new one is minted.
func (a *AppAuthenticator) Assertion() (AppAssertion, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	now := a.nowFn()
	if a.cached != nil && now.Before(a.cached.ExpiresAt.Add(-a.safetyMargin)) {
		return *a.cached, nil
	}
	assertion, err := a.mint(now)
	if err != nil {
		return AppAssertion{}, err
	}
	a.cached = &assertion
	return assertion, nil
}

// Token implements oauth2.TokenSource.
func (a *AppAuthenticator) Token() (*oauth2.Token, error) {
	assertion, err := a.Assertion()
	if err != nil {
		return nil, err
	}
	return &oauth2.Token{
		AccessToken: assertion.Token,
		TokenType:   "Bearer",
		Expiry:      assertion.ExpiresAt,
	}, nil
}

// mint signs a new App assertion issued at the given time.
func (a *AppAuthenticator) mint(now time.Time) (AppAssertion, error) {
	// JWT timestamps have a resolution of one second. Truncating here keeps the
	// returned AppAssertion in agreement with the signed claims.
	issuedAt := now.Truncate(time.Second)
	assertion := AppAssertion{
		IssuedAt:  issuedAt,
		ExpiresAt: issuedAt.Add(appAssertionTTL),
		Issuer:    strconv.FormatInt(a.appID, 10),
	}
	var err error
	if assertion.Token, err = jwt.NewWithClaims(
		jwt.SigningMethodRS256,
		jwt.StandardClaims{
			IssuedAt:  assertion.IssuedAt.Unix(),
			ExpiresAt: assertion.ExpiresAt.Unix(),
			Issuer:    assertion.Issuer,
		},
	).SignedString(a.key); err != nil {
		return AppAssertion{}, errors.Wrapf(
			err,
			"error signing JSON web token for github app %d",
			a.appID,
		)
	}
	return assertion, nil
}
