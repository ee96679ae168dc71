package webhooks

import (
	"encoding/json"
	"strings"

	ghlib "github.com/brigadecore/brigade-github-checks-aggregator/internal/github" // nolint: lll
	"github.com/google/go-github/v33/github"
	"github.com/pkg/errors"
)

// EventType enumerates the kinds of webhook the aggregator understands.
type EventType string

const (
	// EventTypeInstallation represents an installation webhook.
	EventTypeInstallation EventType = "installation"
	// EventTypeCheckSuite represents a check_suite webhook.
	EventTypeCheckSuite EventType = "check_suite"
	// EventTypeCheckRun represents a check_run webhook.
	EventTypeCheckRun EventType = "check_run"
	// EventTypeUnsupported represents any other webhook.
	EventTypeUnsupported EventType = ""
)

func parseEventType(eventType string) EventType {
	switch EventType(eventType) {
	case EventTypeInstallation, EventTypeCheckSuite, EventTypeCheckRun:
		return EventType(eventType)
	}
	return EventTypeUnsupported
}

// WebhookEvent is a single webhook delivery.
type WebhookEvent struct {
	// Type is the type of the event, taken from the X-GitHub-Event header.
	Type EventType
	// Action is the action field of the payload, if any.
	Action string
	// RawBody is the payload exactly as it was received.
	RawBody []byte
	// Payload is the parsed payload. It is one of *github.InstallationEvent,
	// *github.CheckSuiteEvent, or *github.CheckRunEvent, or nil for unsupported
	// event types.
	Payload interface{}
}

// newWebhookEvent parses the payload of a webhook delivery. Payloads of
// unsupported event types are only checked for well-formedness.
func newWebhookEvent(eventType string, payload []byte) (WebhookEvent, error) {
	event := WebhookEvent{
		Type:    parseEventType(eventType),
		RawBody: payload,
	}
	if event.Type == EventTypeUnsupported {
		if !json.Valid(payload) {
			return event, &PayloadError{
				Err: errors.Errorf("payload for %q event is not valid JSON", eventType),
			}
		}
		return event, nil
	}
	parsed, err := github.ParseWebHook(eventType, payload)
	if err != nil {
		return event, &PayloadError{
			Err: errors.Wrap(err, "error unmarshaling payload"),
		}
	}
	event.Payload = parsed
	switch e := parsed.(type) {
	case *github.InstallationEvent:
		event.Action = e.GetAction()
	case *github.CheckSuiteEvent:
		event.Action = e.GetAction()
	case *github.CheckRunEvent:
		event.Action = e.GetAction()
	}
	return event, nil
}

func (w WebhookEvent) installationID() int64 {
	switch e := w.Payload.(type) {
	case *github.InstallationEvent:
		return e.GetInstallation().GetID()
	case *github.CheckSuiteEvent:
		return e.GetInstallation().GetID()
	case *github.CheckRunEvent:
		return e.GetInstallation().GetID()
	}
	return 0
}

// repoFullName returns the full name of the repository a check_suite or
// check_run event pertains to.
func (w WebhookEvent) repoFullName() string {
	switch e := w.Payload.(type) {
	case *github.CheckSuiteEvent:
		return e.GetRepo().GetFullName()
	case *github.CheckRunEvent:
		return e.GetRepo().GetFullName()
	}
	return ""
}

// headSHA returns the commit a check_run or check_suite event pertains to. The
// check run's commit takes precedence when both are present.
func (w WebhookEvent) headSHA() string {
	switch e := w.Payload.(type) {
	case *github.CheckRunEvent:
		if sha := e.GetCheckRun().GetHeadSHA(); sha != "" {
			return sha
		}
		return e.GetCheckRun().GetCheckSuite().GetHeadSHA()
	case *github.CheckSuiteEvent:
		return e.GetCheckSuite().GetHeadSHA()
	}
	return ""
}

func (w WebhookEvent) checkRunID() int64 {
	if e, ok := w.Payload.(*github.CheckRunEvent); ok {
		return e.GetCheckRun().GetID()
	}
	return 0
}

func (w WebhookEvent) checkRunAppID() int64 {
	if e, ok := w.Payload.(*github.CheckRunEvent); ok {
		return e.GetCheckRun().GetApp().GetID()
	}
	return 0
}

// requestContext carries everything needed to act on a single webhook
// delivery. It is built once, after the installation has been authenticated,
// and is passed by value thereafter.
type requestContext struct {
	event          WebhookEvent
	installationID int64
	owner          string
	repo           string
	checks         ghlib.CheckRunsClient
	repositories   ghlib.RepositoriesClient
}

// splitFullName splits a repository full name of the form owner/name.
func splitFullName(fullName string) (string, string, error) {
	parts := strings.SplitN(fullName, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", errors.Errorf("invalid repository name %q", fullName)
	}
	return parts[0], parts[1], nil
}
