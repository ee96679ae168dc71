package github

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/go-github/v33/github"
)

// mediaTypeCheckRunsPreview is required by the check runs API on the version of
// GitHub this client was written against.
const mediaTypeCheckRunsPreview = "application/vnd.github.antiope-preview+json"

// UpdateCheckRunOptions represents the options available when updating a check
// run. Unlike github.UpdateCheckRunOptions, it permits a start time to be
// set, which is needed when moving a queued check run into progress.
type UpdateCheckRunOptions struct {
	Name        string            `json:"name"`
	Status      *string           `json:"status,omitempty"`
	Conclusion  *string           `json:"conclusion,omitempty"`
	StartedAt   *github.Timestamp `json:"started_at,omitempty"`
	CompletedAt *github.Timestamp `json:"completed_at,omitempty"`
}

// CheckRunsClient is the subset of the GitHub Checks API used by the
// aggregator.
type CheckRunsClient interface {
	CreateCheckRun(
		ctx context.Context,
		owner string,
		repo string,
		opts github.CreateCheckRunOptions,
	) (*github.CheckRun, *github.Response, error)
	UpdateCheckRun(
		ctx context.Context,
		owner string,
		repo string,
		checkRunID int64,
		opts UpdateCheckRunOptions,
	) (*github.CheckRun, *github.Response, error)
	ListCheckRunsForRef(
		ctx context.Context,
		owner string,
		repo string,
		ref string,
		opts *github.ListCheckRunsOptions,
	) (*github.ListCheckRunsResults, *github.Response, error)
}

// checkRunsClient implements CheckRunsClient on top of a github.Client.
type checkRunsClient struct {
	client *github.Client
}

func (c *checkRunsClient) CreateCheckRun(
	ctx context.Context,
	owner string,
	repo string,
	opts github.CreateCheckRunOptions,
) (*github.CheckRun, *github.Response, error) {
	return c.client.Checks.CreateCheckRun(ctx, owner, repo, opts)
}

func (c *checkRunsClient) UpdateCheckRun(
	ctx context.Context,
	owner string,
	repo string,
	checkRunID int64,
	opts UpdateCheckRunOptions,
) (*github.CheckRun, *github.Response, error) {
	req, err := c.client.NewRequest(
		http.MethodPatch,
		fmt.Sprintf("repos/%v/%v/check-runs/%v", owner, repo, checkRunID),
		opts,
	)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Accept", mediaTypeCheckRunsPreview)
	checkRun := &github.CheckRun{}
	res, err := c.client.Do(ctx, req, checkRun)
	if err != nil {
		return nil, res, err
	}
	return checkRun, res, nil
}

func (c *checkRunsClient) ListCheckRunsForRef(
	ctx context.Context,
	owner string,
	repo string,
	ref string,
	opts *github.ListCheckRunsOptions,
) (*github.ListCheckRunsResults, *github.Response, error) {
	return c.client.Checks.ListCheckRunsForRef(ctx, owner, repo, ref, opts)
}

// RepositoriesClient is the subset of the GitHub Repositories API used by the
// aggregator.
type RepositoriesClient interface {
	UpdateBranchProtection(
		ctx context.Context,
		owner string,
		repo string,
		branch string,
		preq *github.ProtectionRequest,
	) (*github.Protection, *github.Response, error)
}
