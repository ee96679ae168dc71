package webhooks

import (
	"context"
	"log"

	"github.com/google/go-github/v33/github"
	"github.com/pkg/errors"
)

// enableBranchProtection requires the aggregate check run to pass before
// anything can be merged into the protected branch of each repository the App
// was just installed on. Repositories are handled in the order the payload
// lists them and the first failure stops the rest.
func (s *service) enableBranchProtection(
	ctx context.Context,
	rc requestContext,
) error {
	e, ok := rc.event.Payload.(*github.InstallationEvent)
	if !ok {
		return &PayloadError{
			Err: errors.Errorf("unexpected payload type %T", rc.event.Payload),
		}
	}
	for _, repo := range e.Repositories {
		owner, name, err := splitFullName(repo.GetFullName())
		if err != nil {
			return &PayloadError{Err: err}
		}
		if err = s.protectBranch(ctx, rc, owner, name); err != nil {
			return err
		}
	}
	return nil
}

func (s *service) protectBranch(
	ctx context.Context,
	rc requestContext,
	owner string,
	repo string,
) error {
	callCtx, cancel := s.callContext(ctx)
	defer cancel()
	if _, _, err := rc.repositories.UpdateBranchProtection(
		callCtx,
		owner,
		repo,
		s.config.ProtectedBranch,
		&github.ProtectionRequest{
			RequiredStatusChecks: &github.RequiredStatusChecks{
				Strict:   true,
				Contexts: []string{s.config.CheckRunName},
			},
			EnforceAdmins: false,
		},
	); err != nil {
		return &UpstreamAPIError{
			Err: errors.Wrapf(
				err,
				"error protecting branch %s of %s/%s",
				s.config.ProtectedBranch,
				owner,
				repo,
			),
		}
	}
	log.Printf(
		"branch %s of %s/%s now requires check %q",
		s.config.ProtectedBranch,
		owner,
		repo,
		s.config.CheckRunName,
	)
	return nil
}
