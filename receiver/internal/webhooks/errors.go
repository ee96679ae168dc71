package webhooks

// PayloadError indicates that a webhook payload could not be understood. No
// authentication or processing is attempted for such a payload.
type PayloadError struct {
	Err error
}

func (p *PayloadError) Error() string {
	return p.Err.Error()
}

func (p *PayloadError) Unwrap() error {
	return p.Err
}

// CredentialExchangeError indicates that the App could not authenticate as the
// installation that sent a webhook. No check run is touched when this occurs.
type CredentialExchangeError struct {
	Err error
}

func (c *CredentialExchangeError) Error() string {
	return c.Err.Error()
}

func (c *CredentialExchangeError) Unwrap() error {
	return c.Err
}

// UpstreamAPIError indicates that a call to the GitHub API failed while
// handling a webhook.
type UpstreamAPIError struct {
	Err error
}

func (u *UpstreamAPIError) Error() string {
	return u.Err.Error()
}

func (u *UpstreamAPIError) Unwrap() error {
	return u.Err
}
