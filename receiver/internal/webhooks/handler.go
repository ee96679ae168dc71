package webhooks

import (
	"io/ioutil"
	"log"
	"net/http"

	"github.com/google/go-github/v33/github"
	"github.com/pkg/errors"
)

var emptyResponse = []byte("{}")

// handler is an implementation of the http.Handler interface that can handle
// webhooks (events) from GitHub by delegating to a transport-agnostic Service
// interface. It assumes the request's signature has already been verified.
type handler struct {
	service Service
}

// NewHandler returns an implementation of the http.Handler interface that can
// handle webhooks (events) from GitHub by delegating to a transport-agnostic
// Service interface.
func NewHandler(service Service) http.Handler {
	return &handler{
		service: service,
	}
}

func (h *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	w.Header().Set("Content-Type", "application/json")

	payload, err := ioutil.ReadAll(r.Body)
	if err != nil {
		log.Println(errors.Wrap(err, "error reading request body"))
		w.WriteHeader(http.StatusBadRequest)
		w.Write(emptyResponse) // nolint: errcheck
		return
	}

	err = h.service.Handle(r.Context(), github.WebHookType(r), payload)
	if err != nil {
		log.Println(err)
	}
	w.WriteHeader(statusCodeFor(err))
	w.Write(emptyResponse) // nolint: errcheck
}

// statusCodeFor maps an error returned by the Service to an HTTP status code.
func statusCodeFor(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var payloadErr *PayloadError
	if errors.As(err, &payloadErr) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
