package models

import (
	"encoding/json"
	"errors"
)

// Backend status codes carried in Envelope.Code.
const (
	CodeOK     = 2000
	CodeZero   = 0
	CodeFailed = 5000
)

// Envelope is the uniform wrapper around every backend response.
type Envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// IsSuccessCode reports whether code is one of the success sentinels.
func IsSuccessCode(code int) bool {
	return code == CodeOK || code == CodeZero
}

func (e *Envelope) Succeeded() bool {
	return IsSuccessCode(e.Code)
}

// Decode unmarshals the data payload into v.
func (e *Envelope) Decode(v interface{}) error {
	if len(e.Data) == 0 || string(e.Data) == "null" {
		return errors.New("envelope has no data")
	}
	return json.Unmarshal(e.Data, v)
}

// Text returns the data payload as a string. A JSON string is returned as is;
// an object is searched for field and its string value returned.
func (e *Envelope) Text(field string) (string, error) {
	var s string
	if err := e.Decode(&s); err == nil {
		return s, nil
	}
	var obj map[string]json.RawMessage
	if err := e.Decode(&obj); err != nil {
		return "", err
	}
	raw, ok := obj[field]
	if !ok {
		return "", errors.New("envelope data has no " + field + " field")
	}
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", err
	}
	return s, nil
}
