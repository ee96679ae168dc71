package webhooks

import (
	"testing"

	"github.com/google/go-github/v33/github"
	"github.com/stretchr/testify/require"
)

func TestRouteEvent(t *testing.T) {
	const testAppID int64 = 42
	checkRunEvent := func(action string, appID int64) WebhookEvent {
		return WebhookEvent{
			Type:   EventTypeCheckRun,
			Action: action,
			Payload: &github.CheckRunEvent{
				Action: github.String(action),
				CheckRun: &github.CheckRun{
					App: &github.App{ID: github.Int64(appID)},
				},
			},
		}
	}
	testCases := []struct {
		name     string
		event    WebhookEvent
		expected route
	}{
		{
			name:     "installation created",
			event:    WebhookEvent{Type: EventTypeInstallation, Action: "created"},
			expected: routeInstallation,
		},
		{
			name:     "installation deleted",
			event:    WebhookEvent{Type: EventTypeInstallation, Action: "deleted"},
			expected: routeNone,
		},
		{
			name:     "check suite requested",
			event:    WebhookEvent{Type: EventTypeCheckSuite, Action: "requested"},
			expected: routeCreateAggregate,
		},
		{
			name:     "check suite rerequested",
			event:    WebhookEvent{Type: EventTypeCheckSuite, Action: "rerequested"},
			expected: routeCreateAggregate,
		},
		{
			name:     "check suite completed",
			event:    WebhookEvent{Type: EventTypeCheckSuite, Action: "completed"},
			expected: routeNone,
		},
		{
			name:     "own check run created",
			event:    checkRunEvent("created", testAppID),
			expected: routeMarkInProgress,
		},
		{
			name:     "own check run rerequested",
			event:    checkRunEvent("rerequested", testAppID),
			expected: routeCreateAggregate,
		},
		{
			name:     "own check run completed",
			event:    checkRunEvent("completed", testAppID),
			expected: routeNone,
		},
		{
			name:     "other app's check run created",
			event:    checkRunEvent("created", 86),
			expected: routeReconcile,
		},
		{
			name:     "other app's check run completed",
			event:    checkRunEvent("completed", 86),
			expected: routeReconcile,
		},
		{
			name:     "other app's check run rerequested",
			event:    checkRunEvent("rerequested", 86),
			expected: routeReconcile,
		},
		{
			name:     "unsupported event",
			event:    WebhookEvent{Type: EventTypeUnsupported, Action: "created"},
			expected: routeNone,
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			require.Equal(t, testCase.expected, routeEvent(testCase.event, testAppID))
		})
	}
}

func TestRouteString(t *testing.T) {
	require.Equal(t, "none", routeNone.String())
	require.Equal(t, "installation", routeInstallation.String())
	require.Equal(t, "create-aggregate", routeCreateAggregate.String())
	require.Equal(t, "mark-in-progress", routeMarkInProgress.String())
	require.Equal(t, "reconcile", routeReconcile.String())
}
