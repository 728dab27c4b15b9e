package k8s

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// Response is the normalized envelope of one API call.
type Response struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// OK reports whether the status code is in [200,400).
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 400
}

// Err returns an *APIError when the response is not OK.
func (r *Response) Err() error {
	if r.OK() {
		return nil
	}
	return newAPIError(r)
}

// Decode unmarshals the JSON body into v.
func (r *Response) Decode(v any) error {
	if len(r.Body) == 0 {
		return fmt.Errorf("empty response body")
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}

// TransportError means the request never produced a response.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request %s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

type APIError struct {
	StatusCode int
	Reason     metav1.StatusReason
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

func newAPIError(r *Response) *APIError {
	e := &APIError{StatusCode: r.StatusCode}
	if !structured(r.Body) {
		e.Message = fmt.Sprintf("API returned %d", r.StatusCode)
		return e
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, r.Body); err != nil {
		e.Message = fmt.Sprintf("API returned %d", r.StatusCode)
		return e
	}
	e.Message = buf.String()

	var status metav1.Status
	if json.Unmarshal(r.Body, &status) == nil {
		e.Reason = status.Reason
	}
	return e
}

// structured reports whether body is a JSON object or array.
func structured(body []byte) bool {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || (trimmed[0] != '{' && trimmed[0] != '[') {
		return false
	}
	return json.Valid(trimmed)
}

func IsNotFound(err error) bool {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.StatusCode == http.StatusNotFound
	}
	return false
}

func IsConflict(err error) bool {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.StatusCode == http.StatusConflict
	}
	return false
}

func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
