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
	"errors"
	"net/http"
)

// Formatter turns an error into the components of an HTTP error response.
// Implementations do not write to the response themselves, so they work with
// any HTTP stack.
//
// Example:
//
//	formatter := errors.NewRFC9457("https://api.example.com/problems")
//	response := formatter.Format(req, err)
//	w.Header().Set("Content-Type", response.ContentType)
//	w.WriteHeader(response.Status)
//	json.NewEncoder(w).Encode(response.Body)
type Formatter interface {
	// Format converts err into status code, content type and body.
	// req may be used for request-scoped fields such as the RFC 9457 instance.
	Format(req *http.Request, err error) Response
}

// FormatterFunc adapts a plain function to [Formatter].
type FormatterFunc func(req *http.Request, err error) Response

// Format calls f(req, err).
func (f FormatterFunc) Format(req *http.Request, err error) Response {
	return f(req, err)
}

// Response represents a formatted error response.
type Response struct {
	// Status is the HTTP status code.
	Status int

	// ContentType is the Content-Type header value.
	ContentType string

	// Body is the response body (will be marshaled to JSON).
	Body any

	// Headers contains additional headers to set (optional).
	Headers http.Header
}

// ErrorType allows errors to declare their own HTTP status code.
//
// Example:
//
//	func (e NotFoundError) HTTPStatus() int {
//		return http.StatusNotFound
//	}
type ErrorType interface {
	error
	// HTTPStatus returns the HTTP status code for this error.
	HTTPStatus() int
}

// ErrorDetails allows errors to provide additional structured information,
// typically a list of field-level violations.
type ErrorDetails interface {
	error
	// Details returns structured information about the error.
	Details() any
}

// ErrorCode allows errors to provide a machine-readable code.
type ErrorCode interface {
	error
	// Code returns a machine-readable error code.
	Code() string
}

// NewRFC9457 creates a new RFC9457 formatter.
// The baseURL parameter is prepended to problem type slugs to create full URIs.
//
// Example:
//
//	formatter := errors.NewRFC9457("https://api.example.com/problems")
func NewRFC9457(baseURL string) *RFC9457 {
	return &RFC9457{
		BaseURL: baseURL,
	}
}

// NewJSONAPI creates a new JSONAPI formatter.
func NewJSONAPI() *JSONAPI {
	return &JSONAPI{}
}

// NewSimple creates a new Simple formatter.
func NewSimple() *Simple {
	return &Simple{}
}

// WithStatus wraps an error with an explicit HTTP status code.
// The wrapped error implements [ErrorType] and unwraps to err.
// If err is nil, the status text for the given status code is used as the error message.
//
// Example:
//
//	return errors.WithStatus(err, http.StatusNotFound)
func WithStatus(err error, status int) error {
	return &statusError{err: err, status: status}
}

// statusError wraps an error with an explicit status code.
type statusError struct {
	err    error
	status int
}

func (e *statusError) Error() string {
	if e.err == nil {
		return http.StatusText(e.status)
	}
	return e.err.Error()
}

func (e *statusError) Unwrap() error {
	return e.err
}

func (e *statusError) HTTPStatus() int {
	return e.status
}

// resolveStatus picks the status for err: resolver if set, then the first
// [ErrorType] in the chain, then 500.
func resolveStatus(err error, resolver func(error) int) int {
	if resolver != nil {
		return resolver(err)
	}

	var typed ErrorType
	if errors.As(err, &typed) {
		return typed.HTTPStatus()
	}

	return http.StatusInternalServerError
}

// messageOf returns err.Error(), tolerating a nil error.
func messageOf(err error) string {
	if err == nil {
		return http.StatusText(http.StatusInternalServerError)
	}

	return err.Error()
}
