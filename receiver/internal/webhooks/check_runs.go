package webhooks

import (
	"context"
	"log"

	ghlib "github.com/brigadecore/brigade-github-checks-aggregator/internal/github" // nolint: lll
	"github.com/google/go-github/v33/github"
	"github.com/pkg/errors"
)

// createAggregateCheck creates a new, queued aggregate check run on the commit
// named by the webhook.
func (s *service) createAggregateCheck(
	ctx context.Context,
	rc requestContext,
) error {
	headSHA := rc.event.headSHA()
	if headSHA == "" {
		return &PayloadError{
			Err: errors.New("payload does not identify a head commit"),
		}
	}
	callCtx, cancel := s.callContext(ctx)
	defer cancel()
	checkRun, _, err := rc.checks.CreateCheckRun(
		callCtx,
		rc.owner,
		rc.repo,
		github.CreateCheckRunOptions{
			Name:    s.config.CheckRunName,
			HeadSHA: headSHA,
		},
	)
	if err != nil {
		return &UpstreamAPIError{
			Err: errors.Wrapf(
				err,
				"error creating check run %q for commit %s in %s/%s",
				s.config.CheckRunName,
				headSHA,
				rc.owner,
				rc.repo,
			),
		}
	}
	log.Printf(
		"created aggregate check run %d for commit %s in %s/%s",
		checkRun.GetID(),
		headSHA,
		rc.owner,
		rc.repo,
	)
	return nil
}

// markInProgress moves the specified check run into progress.
func (s *service) markInProgress(
	ctx context.Context,
	rc requestContext,
	checkRunID int64,
) error {
	status := statusInProgress
	return s.updateAggregateCheck(
		ctx,
		rc,
		checkRunID,
		ghlib.UpdateCheckRunOptions{
			Name:      s.config.CheckRunName,
			Status:    &status,
			StartedAt: &github.Timestamp{Time: s.nowFn().UTC()},
		},
	)
}

// completeCheck moves the specified check run to completed with the given
// conclusion.
func (s *service) completeCheck(
	ctx context.Context,
	rc requestContext,
	checkRunID int64,
	conclusion string,
) error {
	status := statusCompleted
	return s.updateAggregateCheck(
		ctx,
		rc,
		checkRunID,
		ghlib.UpdateCheckRunOptions{
			Name:        s.config.CheckRunName,
			Status:      &status,
			Conclusion:  &conclusion,
			CompletedAt: &github.Timestamp{Time: s.nowFn().UTC()},
		},
	)
}

func (s *service) updateAggregateCheck(
	ctx context.Context,
	rc requestContext,
	checkRunID int64,
	opts ghlib.UpdateCheckRunOptions,
) error {
	if checkRunID == 0 {
		return &PayloadError{Err: errors.New("payload does not identify a check run")}
	}
	callCtx, cancel := s.callContext(ctx)
	defer cancel()
	if _, _, err := rc.checks.UpdateCheckRun(
		callCtx,
		rc.owner,
		rc.repo,
		checkRunID,
		opts,
	); err != nil {
		return &UpstreamAPIError{
			Err: errors.Wrapf(
				err,
				"error updating check run %d in %s/%s",
				checkRunID,
				rc.owner,
				rc.repo,
			),
		}
	}
	return nil
}
