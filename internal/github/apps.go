package github

// App encapsulates the details of the GitHub App whose webhooks are handled by
// the aggregator. An App is loaded once at startup and never modified
// afterwards.
type App struct {
	// AppID specifies the ID of the GitHub App. Check runs whose app ID matches
	// this value are owned by the aggregator.
	AppID int64 `json:"appID"`
	// SharedSecret is the secret mutually agreed upon by the aggregator and the
	// GitHub App. This secret is used to validate the authenticity and
	// integrity of payloads received by the aggregator.
	SharedSecret string `json:"sharedSecret"`
	// APIKey is the ASCII-armored private key for the GitHub App. It is used to
	// sign the short-lived JWTs that are exchanged for installation tokens.
	APIKey string `json:"apiKey"`
}
