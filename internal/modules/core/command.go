package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
)

type Unit struct{}

// CommandError carries the status code a rejected request maps to.
// Payload is usually the typed error that caused the rejection.
type CommandError struct {
	Payload    interface{} `json:"payload,omitempty"`
	StatusCode int         `json:"statusCode"`
	Reason     *string     `json:"reason,omitempty"`
}

type CommandErrorOption func(*CommandError)

func WithReason(reason string) CommandErrorOption {
	return func(e *CommandError) {
		e.Reason = &reason
	}
}

func NewCommandError(statusCode int, payload interface{}, opts ...CommandErrorOption) CommandError {
	e := CommandError{
		StatusCode: statusCode,
		Payload:    payload,
	}

	for _, opt := range opts {
		opt(&e)
	}

	return e
}

func BadRequest(err error, opts ...CommandErrorOption) CommandError {
	return NewCommandError(http.StatusBadRequest, err, opts...)
}

func NotFound(err error, opts ...CommandErrorOption) CommandError {
	return NewCommandError(http.StatusNotFound, err, opts...)
}

func Conflict(err error, opts ...CommandErrorOption) CommandError {
	return NewCommandError(http.StatusConflict, err, opts...)
}

func (r CommandError) Error() string {
	reason := ""
	if r.Reason != nil {
		reason = *r.Reason
	}

	if err, ok := r.Payload.(error); ok {
		if reason == "" {
			return fmt.Sprintf("%d: %s", r.StatusCode, err.Error())
		}
		return fmt.Sprintf("%d: %s: %s", r.StatusCode, reason, err.Error())
	}

	return fmt.Sprintf("%d: %s %+v", r.StatusCode, reason, r.Payload)
}

// Unwrap exposes the payload to errors.Is and errors.As when it is an error.
func (r CommandError) Unwrap() error {
	if err, ok := r.Payload.(error); ok {
		return err
	}
	return nil
}

func (r CommandError) MarshalJSON() ([]byte, error) {
	body := struct {
		StatusCode int             `json:"statusCode"`
		Reason     *string         `json:"reason,omitempty"`
		Error      string          `json:"error,omitempty"`
		Payload    json.RawMessage `json:"payload,omitempty"`
	}{
		StatusCode: r.StatusCode,
		Reason:     r.Reason,
	}

	if err, ok := r.Payload.(error); ok {
		body.Error = err.Error()
	}

	if r.Payload != nil {
		payload, err := json.Marshal(r.Payload)
		if err != nil {
			return nil, err
		}
		// Errors without exported fields only carry their message.
		if !bytes.Equal(payload, []byte("{}")) {
			body.Payload = payload
		}
	}

	return json.Marshal(body)
}
