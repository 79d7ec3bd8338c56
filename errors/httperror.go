// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
)

// HTTPError is a structured, self-describing error for client-facing reporting.
// It carries an HTTP status, a [Kind] derived from that status, a message,
// optional details and code, and the error it was built from.
//
// HTTPError is immutable once built: all fields are unexported and only
// readable through accessors, and slice details are copied on the way in and
// on the way out. It can be shared across goroutines and forwarded through
// handler chains without copying.
//
// HTTPError implements [ErrorType], [ErrorDetails] and [ErrorCode], so every
// [Formatter] in this package renders it without extra configuration.
//
// Example:
//
//	err := errors.BadRequest("request body is invalid",
//	    errors.WithDetails(fields),
//	    errors.WithCode("validation_error"),
//	)
//	if he, ok := errors.AsHTTPError(err); ok {
//	    fmt.Println(he.Kind(), he.Status())
//	}
type HTTPError struct {
	status  int
	kind    Kind
	message string
	details any
	code    string
	cause   error
}

// HTTPErrorOption configures an [HTTPError] at construction time.
type HTTPErrorOption func(*HTTPError)

// WithDetails attaches structured details, e.g. field-level violations.
// A slice is copied, so later changes to it do not reach the error.
func WithDetails(details any) HTTPErrorOption {
	return func(e *HTTPError) {
		e.details = copySlice(details)
	}
}

// WithCode sets the machine-readable error code.
func WithCode(code string) HTTPErrorOption {
	return func(e *HTTPError) {
		e.code = code
	}
}

// WithCause records the error the [HTTPError] was built from.
// The cause is reachable through errors.Is/errors.As via Unwrap.
func WithCause(cause error) HTTPErrorOption {
	return func(e *HTTPError) {
		e.cause = cause
	}
}

// NewHTTPError creates an [HTTPError] with the given status and message.
// An empty message falls back to the status text; a status outside the
// 4xx/5xx range is treated as 500.
//
// Example:
//
//	err := errors.NewHTTPError(http.StatusConflict, "email already registered")
func NewHTTPError(status int, message string, opts ...HTTPErrorOption) *HTTPError {
	if status < 400 || status > 599 {
		status = http.StatusInternalServerError
	}
	if message == "" {
		message = http.StatusText(status)
	}

	e := &HTTPError{
		status:  status,
		kind:    KindOf(status),
		message: message,
	}
	for _, opt := range opts {
		opt(e)
	}

	return e
}

// BadRequest creates a 400 [HTTPError].
func BadRequest(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, message, opts...)
}

// UnprocessableEntity creates a 422 [HTTPError].
func UnprocessableEntity(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusUnprocessableEntity, message, opts...)
}

// InternalServerError creates a 500 [HTTPError].
func InternalServerError(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusInternalServerError, message, opts...)
}

// Error returns the message.
func (e *HTTPError) Error() string {
	return e.message
}

// Unwrap returns the cause, or nil.
func (e *HTTPError) Unwrap() error {
	return e.cause
}

// Status returns the HTTP status code.
func (e *HTTPError) Status() int {
	return e.status
}

// HTTPStatus implements [ErrorType].
func (e *HTTPError) HTTPStatus() int {
	return e.status
}

// Kind returns the error category.
func (e *HTTPError) Kind() Kind {
	return e.kind
}

// Message returns the human-readable message.
func (e *HTTPError) Message() string {
	return e.message
}

// Details implements [ErrorDetails]. It returns nil when no details were
// attached. Slice details are returned as a fresh copy; maps or pointers held
// by the elements are shared and must be treated as read-only.
func (e *HTTPError) Details() any {
	return copySlice(e.details)
}

// Code implements [ErrorCode]. Without an explicit code it returns the kind.
func (e *HTTPError) Code() string {
	if e.code == "" {
		return string(e.kind)
	}

	return e.code
}

// MarshalJSON encodes the error as {"status","kind","message","code","details"}.
// The cause is never serialized.
func (e *HTTPError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Status  int    `json:"status"`
		Kind    Kind   `json:"kind"`
		Message string `json:"message"`
		Code    string `json:"code"`
		Details any    `json:"details,omitempty"`
	}{
		Status:  e.status,
		Kind:    e.kind,
		Message: e.message,
		Code:    e.Code(),
		Details: e.details,
	})
}

// IsHTTPError reports whether err is, or wraps, an [*HTTPError].
func IsHTTPError(err error) bool {
	_, ok := AsHTTPError(err)
	return ok
}

// AsHTTPError finds the first [*HTTPError] in err's chain.
//
// Example:
//
//	if he, ok := errors.AsHTTPError(err); ok && he.Kind() == errors.KindBadRequest {
//	    // ...
//	}
func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	if errors.As(err, &he) {
		return he, true
	}

	return nil, false
}

// copySlice returns a shallow copy of v when v is a non-nil slice, and v
// otherwise.
func copySlice(v any) any {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice || rv.IsNil() {
		return v
	}

	out := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
	reflect.Copy(out, rv)

	return out.Interface()
}
