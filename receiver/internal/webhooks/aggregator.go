package webhooks

import (
	"context"
	"log"

	"github.com/google/go-github/v33/github"
	"github.com/pkg/errors"
)

const (
	statusCompleted  = "completed"
	statusInProgress = "in_progress"

	conclusionFailure = "failure"
	conclusionSuccess = "success"

	listCheckRunsPageSize = 100
)

// decision is the state the aggregate check run should be moved to.
// Conclusion is empty unless Status is completed.
type decision struct {
	Status     string
	Conclusion string
}

// decide computes the aggregate check run's next state from the check runs of
// every other app on the same commit. It depends on nothing but its input.
//
// When there are no other check runs, both predicates hold vacuously and the
// aggregate succeeds.
func decide(others []*github.CheckRun) decision {
	allCompleted := true
	allSucceeded := true
	for _, checkRun := range others {
		if checkRun.GetStatus() != statusCompleted {
			allCompleted = false
		}
		if checkRun.GetConclusion() != conclusionSuccess {
			allSucceeded = false
		}
	}
	switch {
	case allCompleted && allSucceeded:
		return decision{Status: statusCompleted, Conclusion: conclusionSuccess}
	case allCompleted:
		return decision{Status: statusCompleted, Conclusion: conclusionFailure}
	default:
		return decision{Status: statusInProgress}
	}
}

// partitionCheckRuns separates the check runs owned by the App with the given
// ID from all others. If the App owns more than one, the ID of the last one
// encountered is returned. An ID of zero means the App owns none.
func partitionCheckRuns(
	checkRuns []*github.CheckRun,
	appID int64,
) ([]*github.CheckRun, int64) {
	others := []*github.CheckRun{}
	var aggregateID int64
	for _, checkRun := range checkRuns {
		if checkRun.GetApp().GetID() == appID {
			aggregateID = checkRun.GetID()
			continue
		}
		others = append(others, checkRun)
	}
	return others, aggregateID
}

// reconcile fetches every check run on the commit named by the webhook and
// moves the aggregate check run to whatever state those check runs dictate.
// Given the same remote state it always makes the same update, so redundant
// deliveries are harmless.
func (s *service) reconcile(ctx context.Context, rc requestContext) error {
	headSHA := rc.event.headSHA()
	if headSHA == "" {
		return &PayloadError{
			Err: errors.New("payload does not identify a head commit"),
		}
	}
	checkRuns, err := s.listCheckRuns(ctx, rc, headSHA)
	if err != nil {
		return err
	}
	others, aggregateID := partitionCheckRuns(checkRuns, s.config.AppID)
	if aggregateID == 0 {
		log.Printf(
			"no aggregate check run found for commit %s in %s/%s; nothing to update",
			headSHA,
			rc.owner,
			rc.repo,
		)
		return nil
	}
	d := decide(others)
	log.Printf(
		"aggregate check run %d for commit %s in %s/%s: %d other check run(s); "+
			"moving to status %q conclusion %q",
		aggregateID,
		headSHA,
		rc.owner,
		rc.repo,
		len(others),
		d.Status,
		d.Conclusion,
	)
	if d.Status == statusCompleted {
		return s.completeCheck(ctx, rc, aggregateID, d.Conclusion)
	}
	return s.markInProgress(ctx, rc, aggregateID)
}

// listCheckRuns returns all check runs attached to the specified commit,
// following pagination to the end.
func (s *service) listCheckRuns(
	ctx context.Context,
	rc requestContext,
	ref string,
) ([]*github.CheckRun, error) {
	checkRuns := []*github.CheckRun{}
	opts := &github.ListCheckRunsOptions{
		ListOptions: github.ListOptions{PerPage: listCheckRunsPageSize},
	}
	for {
		callCtx, cancel := s.callContext(ctx)
		results, res, err := rc.checks.ListCheckRunsForRef(
			callCtx,
			rc.owner,
			rc.repo,
			ref,
			opts,
		)
		cancel()
		if err != nil {
			return nil, &UpstreamAPIError{
				Err: errors.Wrapf(
					err,
					"error listing check runs for commit %s in %s/%s",
					ref,
					rc.owner,
					rc.repo,
				),
			}
		}
		if results != nil {
			checkRuns = append(checkRuns, results.CheckRuns...)
		}
		if res == nil || res.NextPage == 0 {
			return checkRuns, nil
		}
		opts.Page = res.NextPage
	}
}
