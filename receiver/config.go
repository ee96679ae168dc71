package main

// nolint: lll
import (
	"io/ioutil"
	"time"

	"github.com/brigadecore/brigade-foundations/file"
	"github.com/brigadecore/brigade-foundations/http"
	"github.com/brigadecore/brigade-foundations/os"
	"github.com/brigadecore/brigade-github-checks-aggregator/internal/github"
	localOS "github.com/brigadecore/brigade-github-checks-aggregator/internal/os"
	"github.com/brigadecore/brigade-github-checks-aggregator/receiver/internal/webhooks"
	"github.com/pkg/errors"
)

const (
	defaultCheckRunName    = "continuous-integration/tfs-builds"
	defaultProtectedBranch = "master"
	defaultAPICallTimeout  = 10 * time.Second
)

// githubApp populates the GitHub App's credentials from environment variables.
// The private key may be supplied inline, with newlines escaped, or as a path
// to a file.
func githubApp() (github.App, error) {
	app := github.App{}
	var err error
	if app.AppID, err =
		localOS.GetRequiredInt64FromEnvVar("GITHUB_APP_ID"); err != nil {
		return app, err
	}
	if app.SharedSecret, err =
		os.GetRequiredEnvVar("GITHUB_WEBHOOK_SECRET"); err != nil {
		return app, err
	}
	if app.APIKey =
		localOS.GetMultilineEnvVar("GITHUB_PRIVATE_KEY"); app.APIKey != "" {
		return app, nil
	}
	keyPath := os.GetEnvVar("GITHUB_PRIVATE_KEY_PATH", "")
	if keyPath == "" {
		return app, errors.New(
			"one of GITHUB_PRIVATE_KEY or GITHUB_PRIVATE_KEY_PATH must be set",
		)
	}
	var exists bool
	if exists, err = file.Exists(keyPath); err != nil {
		return app, err
	}
	if !exists {
		return app, errors.Errorf("file %s does not exist", keyPath)
	}
	keyBytes, err := ioutil.ReadFile(keyPath)
	if err != nil {
		return app, errors.Wrapf(err, "error reading private key from %s", keyPath)
	}
	app.APIKey = string(keyBytes)
	return app, nil
}

// clientFactoryConfig populates configuration for the GitHub client factory
// from environment variables.
func clientFactoryConfig() (github.ClientFactoryConfig, error) {
	config := github.ClientFactoryConfig{
		BaseURL: os.GetEnvVar("GITHUB_API_BASE_URL", ""),
	}
	var err error
	config.TokenCacheEnabled, err =
		os.GetBoolFromEnvVar("GITHUB_TOKEN_CACHE_ENABLED", false)
	return config, err
}

// webhookServiceConfig populates configuration for the webhook-handling service
// from environment variables. The App ID is the one already loaded with the
// App's credentials.
func webhookServiceConfig(appID int64) (webhooks.ServiceConfig, error) {
	config := webhooks.ServiceConfig{
		AppID:           appID,
		CheckRunName:    os.GetEnvVar("CHECK_RUN_NAME", defaultCheckRunName),
		ProtectedBranch: os.GetEnvVar("PROTECTED_BRANCH", defaultProtectedBranch),
	}
	var err error
	config.APICallTimeout, err =
		os.GetDurationFromEnvVar("API_CALL_TIMEOUT", defaultAPICallTimeout)
	return config, err
}

// signatureVerificationFilterConfig populates configuration for the signature
// verification filter from environment variables.
func signatureVerificationFilterConfig() (
	webhooks.SignatureVerificationFilterConfig,
	error,
) {
	config := webhooks.SignatureVerificationFilterConfig{}
	var err error
	config.SharedSecret, err = os.GetRequiredEnvVar("GITHUB_WEBHOOK_SECRET")
	return config, err
}

// serverConfig populates configuration for the HTTP/S server from environment
// variables.
func serverConfig() (http.ServerConfig, error) {
	config := http.ServerConfig{}
	var err error
	config.Port, err = os.GetIntFromEnvVar("RECEIVER_PORT", 8080)
	if err != nil {
		return config, err
	}
	config.TLSEnabled, err = os.GetBoolFromEnvVar("TLS_ENABLED", false)
	if err != nil {
		return config, err
	}
	if config.TLSEnabled {
		config.TLSCertPath, err = os.GetRequiredEnvVar("TLS_CERT_PATH")
		if err != nil {
			return config, err
		}
		config.TLSKeyPath, err = os.GetRequiredEnvVar("TLS_KEY_PATH")
		if err != nil {
			return config, err
		}
	}
	return config, nil
}
