package models

import (
	"errors"
	"fmt"
)

const (
	MIN_TEXT_LENGTH = 10

	MSG_SERVICE_FALLBACK   = "An error occurred"
	MSG_TRANSPORT_FALLBACK = "Failed to connect to the server"
)

var ErrUndecodableResponse = errors.New("undecodable prediction response")

// ValidationError means the input was rejected before any request was made.
type ValidationError struct {
	MinLength int
	Length    int
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("text has %d characters, need at least %d", e.Length, e.MinLength)
}

func (e *ValidationError) UserMessage() string {
	return fmt.Sprintf("Please enter at least %d characters", e.MinLength)
}

// ServiceError means the classification service answered, but not with a usable result.
type ServiceError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *ServiceError) Error() string {
	switch {
	case e.Message != "":
		return fmt.Sprintf("prediction service returned status %d: %s", e.StatusCode, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("prediction service returned status %d: %v", e.StatusCode, e.Err)
	default:
		return fmt.Sprintf("prediction service returned status %d", e.StatusCode)
	}
}

func (e *ServiceError) Unwrap() error { return e.Err }

func (e *ServiceError) UserMessage() string {
	if e.Message != "" {
		return e.Message
	}
	return MSG_SERVICE_FALLBACK
}

// TransportError means no response was received at all.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("failed to reach prediction service: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) UserMessage() string { return MSG_TRANSPORT_FALLBACK }

// UserMessage returns the notification text for err. Errors outside the
// taxonomy are reported as connection failures.
func UserMessage(err error) string {
	var verr *ValidationError
	var serr *ServiceError
	var terr *TransportError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &verr):
		return verr.UserMessage()
	case errors.As(err, &serr):
		return serr.UserMessage()
	case errors.As(err, &terr):
		return terr.UserMessage()
	default:
		return MSG_TRANSPORT_FALLBACK
	}
}

// Classify returns err unchanged when it already belongs to the taxonomy and
// wraps it as a TransportError otherwise.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var verr *ValidationError
	var serr *ServiceError
	var terr *TransportError
	if errors.As(err, &verr) || errors.As(err, &serr) || errors.As(err, &terr) {
		return err
	}
	return &TransportError{Err: err}
}
