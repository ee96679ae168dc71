package webhooks

// route enumerates everything the aggregator may do in response to a webhook.
type route int

const (
	// routeNone means the webhook requires no action.
	routeNone route = iota
	// routeInstallation enables branch protection on every repository of a new
	// installation.
	routeInstallation
	// routeCreateAggregate creates a new aggregate check run.
	routeCreateAggregate
	// routeMarkInProgress moves the aggregate check run named by the webhook
	// into progress.
	routeMarkInProgress
	// routeReconcile recomputes the aggregate check run from all other check
	// runs on the commit.
	routeReconcile
)

func (r route) String() string {
	switch r {
	case routeInstallation:
		return "installation"
	case routeCreateAggregate:
		return "create-aggregate"
	case routeMarkInProgress:
		return "mark-in-progress"
	case routeReconcile:
		return "reconcile"
	default:
		return "none"
	}
}

// routeEvent decides what to do with a webhook. appID is the ID of this App.
// Comparing check_run.app.id against it is what stops the aggregate check run
// from reacting to its own state transitions.
func routeEvent(event WebhookEvent, appID int64) route {
	switch event.Type {
	case EventTypeInstallation:
		if event.Action == "created" {
			return routeInstallation
		}
	case EventTypeCheckSuite:
		switch event.Action {
		case "requested", "rerequested":
			return routeCreateAggregate
		}
	case EventTypeCheckRun:
		if event.checkRunAppID() != appID {
			return routeReconcile
		}
		switch event.Action {
		case "created":
			return routeMarkInProgress
		case "rerequested":
			return routeCreateAggregate
		}
	}
	return routeNone
}
