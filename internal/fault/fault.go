// Package fault defines the error taxonomy shared by the upload and gallery
// flows. Callers wrap onto one of the three sentinels so HTTP adapters can map
// any error to a response class with errors.Is.
package fault

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrValidation marks malformed or missing caller input. Client fault,
	// never retried internally.
	ErrValidation = errors.New("validation error")
	// ErrConfiguration marks absent storage credentials. Server fault, fatal
	// for the call.
	ErrConfiguration = errors.New("configuration error")
	// ErrStorage marks any failure talking to the storage service other than
	// a confirmed "not found".
	ErrStorage = errors.New("storage unavailable")
)

// Validationf builds a caller-input error.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrValidation)
}

// Configurationf builds a missing-configuration error.
func Configurationf(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrConfiguration)
}

// Storage wraps a storage-service failure, keeping the underlying message
// attached for diagnosis.
func Storage(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, err, ErrStorage)
}

// Message returns the caller-facing text of an error, without the taxonomy
// suffix the constructors append.
func Message(err error) string {
	msg := err.Error()
	for _, sentinel := range []error{ErrValidation, ErrConfiguration, ErrStorage} {
		msg = strings.TrimSuffix(msg, ": "+sentinel.Error())
	}
	return msg
}

// HTTPStatus maps an error to its response status code.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrConfiguration):
		return http.StatusInternalServerError
	default:
		return http.StatusBadGateway
	}
}
