package github

import (
	"context"

	"github.com/google/go-github/v33/github"
)

type MockClientFactory struct {
	NewInstallationClientFn func(
		ctx context.Context,
		installationID int64,
	) (*InstallationClient, error)
}

func (m *MockClientFactory) NewInstallationClient(
	ctx context.Context,
	installationID int64,
) (*InstallationClient, error) {
	return m.NewInstallationClientFn(ctx, installationID)
}

type MockAppsClient struct {
	CreateInstallationTokenFn func(
		ctx context.Context,
		id int64,
		opts *github.InstallationTokenOptions,
	) (*github.InstallationToken, *github.Response, error)
}

func (m *MockAppsClient) CreateInstallationToken(
	ctx context.Context,
	id int64,
	opts *github.InstallationTokenOptions,
) (*github.InstallationToken, *github.Response, error) {
	return m.CreateInstallationTokenFn(ctx, id, opts)
}

type MockCheckRunsClient struct {
	CreateCheckRunFn func(
		ctx context.Context,
		owner string,
		repo string,
		opts github.CreateCheckRunOptions,
	) (*github.CheckRun, *github.Response, error)
	UpdateCheckRunFn func(
		ctx context.Context,
		owner string,
		repo string,
		checkRunID int64,
		opts UpdateCheckRunOptions,
	) (*github.CheckRun, *github.Response, error)
	ListCheckRunsForRefFn func(
		ctx context.Context,
		owner string,
		repo string,
		ref string,
		opts *github.ListCheckRunsOptions,
	) (*github.ListCheckRunsResults, *github.Response, error)
}

func (m *MockCheckRunsClient) CreateCheckRun(
	ctx context.Context,
	owner string,
	repo string,
	opts github.CreateCheckRunOptions,
) (*github.CheckRun, *github.Response, error) {
	return m.CreateCheckRunFn(ctx, owner, repo, opts)
}

func (m *MockCheckRunsClient) UpdateCheckRun(
	ctx context.Context,
	owner string,
	repo string,
	checkRunID int64,
	opts UpdateCheckRunOptions,
) (*github.CheckRun, *github.Response, error) {
	return m.UpdateCheckRunFn(ctx, owner, repo, checkRunID, opts)
}

func (m *MockCheckRunsClient) ListCheckRunsForRef(
	ctx context.Context,
	owner string,
	repo string,
	ref string,
	opts *github.ListCheckRunsOptions,
) (*github.ListCheckRunsResults, *github.Response, error) {
	return m.ListCheckRunsForRefFn(ctx, owner, repo, ref, opts)
}

type MockRepositoriesClient struct {
	UpdateBranchProtectionFn func(
		ctx context.Context,
		owner string,
		repo string,
		branch string,
		preq *github.ProtectionRequest,
	) (*github.Protection, *github.Response, error)
}

func (m *MockRepositoriesClient) UpdateBranchProtection(
	ctx context.Context,
	owner string,
	repo string,
	branch string,
	preq *github.ProtectionRequest,
) (*github.Protection, *github.Response, error) {
	return m.UpdateBranchProtectionFn(ctx, owner, repo, branch, preq)
}
