package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies where a call failed.
type Kind string

const (
	// KindRequest: a request interceptor rejected the call before it was sent.
	KindRequest Kind = "request"
	// KindTransport: the request went out but no response came back.
	KindTransport Kind = "transport"
	// KindStatus: the backend answered with a non-2xx status.
	KindStatus Kind = "status"
	// KindBusiness: 2xx transport status but the envelope code is not a success sentinel.
	KindBusiness Kind = "business"
)

const (
	MsgNetworkError   = "Network error"
	MsgNetworkTimeout = "Network connection timeout"
	MsgRequestFailed  = "Request failed"
)

var statusMessages = map[int]string{
	http.StatusBadRequest:          "Invalid request parameters",
	http.StatusUnauthorized:        "Unauthorized, please login again",
	http.StatusForbidden:           "Access denied",
	http.StatusNotFound:            "Request address not found",
	http.StatusInternalServerError: "Internal server error",
}

// Error is the single error type returned by every client call. Error()
// yields only the display message; Kind and Status are kept for callers that
// want to branch on the failure class.
type Error struct {
	Kind    Kind
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// StatusMessage maps an HTTP error status to its display message. Unmapped
// statuses use the body's message field, or "Request failed (<status>)".
func StatusMessage(status int, body []byte) string {
	if msg, ok := statusMessages[status]; ok {
		return msg
	}
	var payload struct {
		Message string `json:"message"`
	}
	if len(body) > 0 && json.Unmarshal(body, &payload) == nil && payload.Message != "" {
		return payload.Message
	}
	return fmt.Sprintf("%s (%d)", MsgRequestFailed, status)
}

// asError converts an interceptor error into *Error. Errors that are not
// already normalized keep their text.
func asError(err error, kind Kind) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return &Error{Kind: kind, Message: err.Error()}
}
