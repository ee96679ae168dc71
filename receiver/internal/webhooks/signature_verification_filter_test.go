package webhooks

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha1" // nolint: gosec
	"crypto/sha256"
	"fmt"
	"hash"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func sign(hashFn func() hash.Hash, secret []byte, body []byte) []byte {
	hasher := hmac.New(hashFn, secret)
	hasher.Write(body) // nolint: errcheck
	return hasher.Sum(nil)
}

func TestNewSignatureVerificationFilter(t *testing.T) {
	testConfig := SignatureVerificationFilterConfig{
		SharedSecret: "foobar",
	}
	filter := // nolint: forcetypeassert
		NewSignatureVerificationFilter(testConfig).(*signatureVerificationFilter)
	require.Equal(t, testConfig, filter.config)
}

func TestVerifySignature(t *testing.T) {
	testSecret := []byte("foobar")
	testBody := []byte(`{"action":"created"}`)
	testCases := []struct {
		name       string
		signature  string
		secret     []byte
		assertions func(error)
	}{
		{
			name:      "sha1 signature computed with shared secret",
			signature: fmt.Sprintf("sha1=%x", sign(sha1.New, testSecret, testBody)),
			secret:    testSecret,
			assertions: func(err error) {
				require.NoError(t, err)
			},
		},
		{
			name: "sha256 signature computed with shared secret",
			signature: fmt.Sprintf(
				"sha256=%x",
				sign(sha256.New, testSecret, testBody),
			),
			secret: testSecret,
			assertions: func(err error) {
				require.NoError(t, err)
			},
		},
		{
			name: "signature computed with a different secret",
			signature: fmt.Sprintf(
				"sha1=%x",
				sign(sha1.New, []byte("bazqux"), testBody),
			),
			secret: testSecret,
			assertions: func(err error) {
				require.Error(t, err)
				require.Contains(t, err.Error(), "error verifying webhook signature")
			},
		},
		{
			name: "signature computed over a different body",
			signature: fmt.Sprintf(
				"sha1=%x",
				sign(sha1.New, testSecret, []byte(`{"action":"deleted"}`)),
			),
			secret: testSecret,
			assertions: func(err error) {
				require.Error(t, err)
			},
		},
		{
			name:      "signature not of the form method=hexdigest",
			signature: "johnhancock",
			secret:    testSecret,
			assertions: func(err error) {
				require.Error(t, err)
			},
		},
		{
			name:      "default signature",
			signature: defaultSignature,
			secret:    testSecret,
			assertions: func(err error) {
				require.Error(t, err)
			},
		},
		{
			name:      "no shared secret",
			signature: fmt.Sprintf("sha1=%x", sign(sha1.New, nil, testBody)),
			assertions: func(err error) {
				require.Error(t, err)
				require.Contains(t, err.Error(), "no shared secret is configured")
			},
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			testCase.assertions(
				VerifySignature(testBody, testCase.signature, testCase.secret),
			)
		})
	}
}

func TestSignatureVerificationFilter(t *testing.T) {
	testSecret := []byte("foobar")
	testFilter := &signatureVerificationFilter{
		config: SignatureVerificationFilterConfig{
			SharedSecret: string(testSecret),
		},
	}
	bodyBytes := []byte("mr body")
	testCases := []struct {
		name       string
		setup      func() *http.Request
		assertions func(
			handlerCalled bool,
			handlerBody []byte,
			rr *httptest.ResponseRecorder,
		)
	}{
		{
			name: "signature header absent",
			setup: func() *http.Request {
				req, err :=
					http.NewRequest(http.MethodPost, "/", bytes.NewBuffer(bodyBytes))
				require.NoError(t, err)
				return req
			},
			assertions: func(
				handlerCalled bool,
				_ []byte,
				rr *httptest.ResponseRecorder,
			) {
				require.Equal(t, http.StatusUnauthorized, rr.Code)
				require.Empty(t, rr.Body.Bytes())
				require.False(t, handlerCalled)
			},
		},
		{
			name: "signature cannot be verified",
			setup: func() *http.Request {
				req, err :=
					http.NewRequest(http.MethodPost, "/", bytes.NewBuffer(bodyBytes))
				require.NoError(t, err)
				// This is just a completely made up signature
				req.Header.Add(sha1SignatureHeader, "johnhancock")
				return req
			},
			assertions: func(
				handlerCalled bool,
				_ []byte,
				rr *httptest.ResponseRecorder,
			) {
				require.Equal(t, http.StatusUnauthorized, rr.Code)
				require.False(t, handlerCalled)
			},
		},
		{
			name: "sha1 signature can be verified",
			setup: func() *http.Request {
				req, err :=
					http.NewRequest(http.MethodPost, "/", bytes.NewBuffer(bodyBytes))
				require.NoError(t, err)
				req.Header.Add(
					sha1SignatureHeader,
					fmt.Sprintf("sha1=%x", sign(sha1.New, testSecret, bodyBytes)),
				)
				return req
			},
			assertions: func(
				handlerCalled bool,
				handlerBody []byte,
				rr *httptest.ResponseRecorder,
			) {
				require.Equal(t, http.StatusOK, rr.Code)
				require.True(t, handlerCalled)
				// The handler must still see the exact bytes that were signed
				require.Equal(t, bodyBytes, handlerBody)
			},
		},
		{
			name: "sha256 signature takes precedence",
			setup: func() *http.Request {
				req, err :=
					http.NewRequest(http.MethodPost, "/", bytes.NewBuffer(bodyBytes))
				require.NoError(t, err)
				req.Header.Add(
					sha256SignatureHeader,
					fmt.Sprintf("sha256=%x", sign(sha256.New, testSecret, bodyBytes)),
				)
				req.Header.Add(sha1SignatureHeader, "johnhancock")
				return req
			},
			assertions: func(
				handlerCalled bool,
				_ []byte,
				rr *httptest.ResponseRecorder,
			) {
				require.Equal(t, http.StatusOK, rr.Code)
				require.True(t, handlerCalled)
			},
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			req := testCase.setup()
			handlerCalled := false
			var handlerBody []byte
			testFilter.Decorate(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
				buf := &bytes.Buffer{}
				_, err := buf.ReadFrom(r.Body)
				require.NoError(t, err)
				handlerBody = buf.Bytes()
				w.WriteHeader(http.StatusOK)
			})(rr, req)
			testCase.assertions(handlerCalled, handlerBody, rr)
		})
	}
}
