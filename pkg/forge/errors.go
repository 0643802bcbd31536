package forge

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// APIError is a non-success forge response, kept raw so the caller can show
// exactly what the service said.
type APIError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("forge API %d: %s", e.StatusCode, e.Body)
}

// IsNotFound reports whether err is a 404 forge response
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// IsAlreadyExists reports whether err is the forge's "name already exists"
// validation response for repository creation.
func IsAlreadyExists(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	if apiErr.StatusCode == http.StatusConflict {
		return true
	}
	return apiErr.StatusCode == http.StatusUnprocessableEntity &&
		strings.Contains(apiErr.Body, "already exists")
}

// IsConflict reports whether err is an optimistic-concurrency rejection of a
// sha-guarded content update. Callers may re-read and retry; nothing is
// overwritten silently.
func IsConflict(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.StatusCode {
	case http.StatusConflict:
		return true
	case http.StatusUnprocessableEntity:
		return strings.Contains(apiErr.Body, "does not match")
	}
	return false
}
