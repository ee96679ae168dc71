package webhooks

import (
	"context"
	"log"
	"time"

	ghlib "github.com/brigadecore/brigade-github-checks-aggregator/internal/github" // nolint: lll
	"github.com/pkg/errors"
)

const defaultAPICallTimeout = 10 * time.Second

// ServiceConfig encapsulates configuration options for the webhook-handling
// service.
type ServiceConfig struct {
	// AppID specifies the ID of the GitHub App. Check runs belonging to this App
	// are aggregate check runs; all others are aggregated.
	AppID int64
	// CheckRunName is the name of the aggregate check run. It is also the status
	// check that protected branches require.
	CheckRunName string
	// ProtectedBranch is the branch that is protected in every repository the
	// App is installed on.
	ProtectedBranch string
	// APICallTimeout bounds every individual call to the GitHub API.
	APICallTimeout time.Duration
}

// Service is an interface for components that can handle webhooks (events) from
// GitHub. Implementations of this interface are transport-agnostic.
type Service interface {
	// Handle handles a GitHub webhook (event). Errors are one of
	// *PayloadError, *CredentialExchangeError, or *UpstreamAPIError.
	Handle(ctx context.Context, eventType string, payload []byte) error
}

type service struct {
	clientFactory ghlib.ClientFactory
	config        ServiceConfig
	nowFn         func() time.Time
}

// NewService returns an implementation of the Service interface for handling
// webhooks (events) from GitHub.
func NewService(
	clientFactory ghlib.ClientFactory,
	config ServiceConfig,
) Service {
	if config.APICallTimeout <= 0 {
		config.APICallTimeout = defaultAPICallTimeout
	}
	return &service{
		clientFactory: clientFactory,
		config:        config,
		nowFn:         time.Now,
	}
}

func (s *service) Handle(
	ctx context.Context,
	eventType string,
	payload []byte,
) error {
	event, err := newWebhookEvent(eventType, payload)
	if err != nil {
		return err
	}

	r := routeEvent(event, s.config.AppID)
	log.Printf(
		"received %q event with action %q; route: %s",
		eventType,
		event.Action,
		r,
	)
	if r == routeNone {
		// Nothing to do, so don't bother authenticating
		return nil
	}

	rc, err := s.newRequestContext(ctx, event, r)
	if err != nil {
		return err
	}

	switch r {
	case routeInstallation:
		return s.enableBranchProtection(ctx, rc)
	case routeCreateAggregate:
		return s.createAggregateCheck(ctx, rc)
	case routeMarkInProgress:
		return s.markInProgress(ctx, rc, event.checkRunID())
	case routeReconcile:
		return s.reconcile(ctx, rc)
	default:
		return nil
	}
}

// newRequestContext authenticates as the installation that sent the webhook
// and captures everything subsequent API calls need.
func (s *service) newRequestContext(
	ctx context.Context,
	event WebhookEvent,
	r route,
) (requestContext, error) {
	rc := requestContext{
		event:          event,
		installationID: event.installationID(),
	}
	if rc.installationID == 0 {
		return rc, &PayloadError{
			Err: errors.New("payload does not identify an installation"),
		}
	}
	if r != routeInstallation {
		var err error
		if rc.owner, rc.repo, err = splitFullName(event.repoFullName()); err != nil {
			return rc, &PayloadError{Err: err}
		}
	}
	callCtx, cancel := s.callContext(ctx)
	defer cancel()
	client, err := s.clientFactory.NewInstallationClient(
		callCtx,
		rc.installationID,
	)
	if err != nil {
		return rc, &CredentialExchangeError{Err: err}
	}
	rc.checks = client.Checks
	rc.repositories = client.Repositories
	return rc, nil
}

// callContext derives a context that bounds a single call to the GitHub API.
func (s *service) callContext(
	ctx context.Context,
) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.config.APICallTimeout)
}
