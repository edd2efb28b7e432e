package api

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Sentinel errors for backend responses with a defined user meaning.
// The session layer converts these into field-level results; everything
// else degrades to a generic notice.
var (
	ErrUnauthorized  = errors.New("unauthorized")
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)

// GeneralError carries a 400-level message from the backend.
type GeneralError struct {
	Message string
}

func (e *GeneralError) Error() string {
	return fmt.Sprintf("bad request: %s", e.Message)
}

// InternalServerError carries a 5xx message from the backend.
type InternalServerError struct {
	Message string
}

func (e *InternalServerError) Error() string {
	return fmt.Sprintf("internal server error: %s", e.Message)
}

type messageBody struct {
	Message string `json:"message"`
}

// errorFromStatus maps a response status to the error taxonomy.
// Any 2xx/3xx status maps to nil.
func errorFromStatus(status int, body []byte) error {
	switch {
	case status == 400:
		var b messageBody
		_ = json.Unmarshal(body, &b)
		return &GeneralError{Message: b.Message}
	case status == 401:
		return ErrUnauthorized
	case status == 404:
		return ErrNotFound
	case status == 409:
		return ErrAlreadyExists
	case status >= 500:
		var b messageBody
		_ = json.Unmarshal(body, &b)
		return &InternalServerError{Message: b.Message}
	case status >= 402:
		return fmt.Errorf("unexpected status %d", status)
	}
	return nil
}
