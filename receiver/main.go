package main

// nolint: lll
import (
	"log"
	"net/http"

	libHTTP "github.com/brigadecore/brigade-foundations/http"
	"github.com/brigadecore/brigade-foundations/signals"
	"github.com/brigadecore/brigade-foundations/version"
	"github.com/brigadecore/brigade-github-checks-aggregator/internal/github"
	"github.com/brigadecore/brigade-github-checks-aggregator/receiver/internal/webhooks"
	"github.com/gorilla/mux"
)

func main() {

	log.Printf(
		"Starting GitHub Checks Aggregator Receiver -- version %s -- commit %s",
		version.Version(),
		version.Commit(),
	)

	app, err := githubApp()
	if err != nil {
		log.Fatal(err)
	}

	var clientFactory github.ClientFactory
	{
		config, err := clientFactoryConfig()
		if err != nil {
			log.Fatal(err)
		}
		if clientFactory, err = github.NewClientFactory(app, config); err != nil {
			log.Fatal(err)
		}
	}

	var webhooksService webhooks.Service
	{
		config, err := webhookServiceConfig(app.AppID)
		if err != nil {
			log.Fatal(err)
		}
		webhooksService = webhooks.NewService(clientFactory, config)
	}

	var signatureVerificationFilter libHTTP.Filter
	{
		config, err := signatureVerificationFilterConfig()
		if err != nil {
			log.Fatal(err)
		}
		signatureVerificationFilter =
			webhooks.NewSignatureVerificationFilter(config)
	}

	var server libHTTP.Server
	{
		handler := webhooks.NewHandler(webhooksService)
		router := mux.NewRouter()
		router.StrictSlash(true)
		router.Handle(
			"/events",
			http.HandlerFunc( // Make a handler from a function
				signatureVerificationFilter.Decorate(handler.ServeHTTP),
			),
		).Methods(http.MethodPost)
		router.HandleFunc("/healthz", libHTTP.Healthz).Methods(http.MethodGet)
		serverConfig, err := serverConfig()
		if err != nil {
			log.Fatal(err)
		}
		server = libHTTP.NewServer(router, &serverConfig)
	}

	log.Println(
		server.ListenAndServe(signals.Context()),
	)
}
