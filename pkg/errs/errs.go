// Package errs defines the error kinds shared by the storage, service and HTTP layers.
package errs

import (
	"errors"
	"net/http"
)

var (
	// ErrNotFound referenced user or post does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict duplicate username, identity, like or reaction.
	ErrConflict = errors.New("conflict")
	// ErrForbidden actor is not the owner of the resource.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalid request input failed validation.
	ErrInvalid = errors.New("invalid argument")
)

// Kind returns the sentinel kind wrapped by err, or nil for internal errors.
func Kind(err error) error {
	for _, k := range []error{ErrNotFound, ErrConflict, ErrForbidden, ErrInvalid} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

// IsInternal reports whether err carries no known kind.
func IsInternal(err error) bool {
	return err != nil && Kind(err) == nil
}

// HTTPStatus maps an error to the status code the API answers with.
func HTTPStatus(err error) int {
	switch Kind(err) {
	case ErrNotFound:
		return http.StatusNotFound
	case ErrConflict:
		return http.StatusConflict
	case ErrForbidden:
		return http.StatusForbidden
	case ErrInvalid:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
