// Package runid tags every request of a smoke run with a shared
// correlation id, so one run's traffic can be picked out of the
// target service's logs.
package runid

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
)

// Header carries the run id on every request the runner sends.
const Header = "X-Smoke-Run"

// New returns a fresh run id.
func New() string {
	return uuid.NewString()
}

// FromHeader extracts the run id from the headers of an HTTP request
// Example:
// X-Smoke-Run: 26be6041-e9b4-4d18-9fc6-6cfe92e8b13a
func FromHeader(headers http.Header) (string, error) {
	s := headers.Get(Header)
	if s == "" {
		return "", errors.New("no run id")
	}

	if _, err := uuid.Parse(s); err != nil {
		return "", errors.New("malformed run id")
	}

	return s, nil
}
