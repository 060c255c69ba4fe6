package apiclient

import (
	"errors"
	"fmt"
)

// ErrSessionExpired means the access token was rejected and could not be
// refreshed. Callers should send the user to the login page.
var ErrSessionExpired = errors.New("session expired")

// GenericMessage is shown when the server gives no usable message
const GenericMessage = "Something went wrong. Please try again."

// APIError is a non-2xx response from the REST backend
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// UserMessage returns the text to show in a toast for err
func UserMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if errors.Is(err, ErrSessionExpired) {
		return "Your session has expired. Please log in again."
	}
	return GenericMessage
}

// IsStatus reports whether err is an APIError with the given status
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}
