package webhooks

import (
	"bytes"
	"io/ioutil"
	"log"
	"net/http"

	libHTTP "github.com/brigadecore/brigade-foundations/http"
	"github.com/google/go-github/v33/github"
	"github.com/pkg/errors"
)

// defaultSignature is used when a request carries no signature header at all.
// It names a valid method but no digest, so it can never verify.
const defaultSignature = "sha1="

const (
	sha1SignatureHeader   = "X-Hub-Signature"
	sha256SignatureHeader = "X-Hub-Signature-256"
)

// SignatureVerificationFilterConfig encapsulates configuration for the
// signature verification based auth filter.
type SignatureVerificationFilterConfig struct {
	// SharedSecret is the secret mutually agreed upon by the aggregator and the
	// GitHub App that sends it webhooks.
	SharedSecret string
}

// signatureVerificationFilter is a component that implements the http.Filter
// interface and can conditionally allow or disallow a request based on the
// ability to verify the signature of the inbound request.
type signatureVerificationFilter struct {
	config SignatureVerificationFilterConfig
}

// NewSignatureVerificationFilter returns a component that implements the
// http.Filter interface and can conditionally allow or disallow a request based
// on the ability to verify the signature of the inbound request.
func NewSignatureVerificationFilter(
	config SignatureVerificationFilterConfig,
) libHTTP.Filter {
	return &signatureVerificationFilter{
		config: config,
	}
}

func (s *signatureVerificationFilter) Decorate(
	handle http.HandlerFunc,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// If there is no request body, fail right away or else we'll be staring
		// down the barrel of a nil pointer dereference.
		if r.Body == nil {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		// If we encounter an error reading the request body, we're just going to
		// roll with it. The empty request body will naturally make the signature
		// verification algorithm fail.
		bodyBytes, _ := ioutil.ReadAll(r.Body) // nolint: errcheck
		r.Body.Close()                         // nolint: errcheck
		// Replace the request body because the original read was destructive!
		r.Body = ioutil.NopCloser(bytes.NewBuffer(bodyBytes))

		if err := VerifySignature(
			bodyBytes,
			signatureHeader(r),
			[]byte(s.config.SharedSecret),
		); err != nil {
			log.Println(err)
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		// If we get this far, everything checks out. Handle the request.
		handle(w, r)
	}
}

// VerifySignature checks that signature, of the form method=hexdigest, is the
// HMAC of body keyed with secret. An empty secret verifies nothing.
func VerifySignature(body []byte, signature string, secret []byte) error {
	if len(secret) == 0 {
		return errors.New("no shared secret is configured")
	}
	if err := github.ValidateSignature(signature, body, secret); err != nil {
		return errors.Wrap(err, "error verifying webhook signature")
	}
	return nil
}

// signatureHeader returns the strongest signature a request carries.
func signatureHeader(r *http.Request) string {
	if sig := r.Header.Get(sha256SignatureHeader); sig != "" {
		return sig
	}
	if sig := r.Header.Get(sha1SignatureHeader); sig != "" {
		return sig
	}
	return defaultSignature
}
