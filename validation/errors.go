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

package validation

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrValidation is a sentinel error for validation failures.
// Use errors.Is(err, ErrValidation) to check if an error is a validation error.
var ErrValidation = errors.New("validation")

// failedMessage is the message of an empty [Error] and the prefix of multi-field ones.
const failedMessage = "validation failed"

// Predefined errors.
var (
	// ErrCannotValidateNilValue is returned when attempting to validate a nil value.
	ErrCannotValidateNilValue = errors.New("cannot validate nil value")

	// ErrEmptySchema is returned when a schema document is empty.
	ErrEmptySchema = errors.New("empty schema document")
)

// FieldError represents a single validation error for a specific field.
// Multiple FieldError values are collected in an [Error].
//
// Example:
//
//	err := FieldError{
//	    Path:    "email",
//	    Code:    "tag.required",
//	    Message: "is required",
//	    Meta:    map[string]any{"tag": "required"},
//	}
type FieldError struct {
	Path    string         `json:"path"`           // Dotted path (e.g., "items.2.price")
	Code    string         `json:"code"`           // Stable code (e.g., "tag.required", "schema.type")
	Message string         `json:"message"`        // Human-readable message
	Meta    map[string]any `json:"meta,omitempty"` // Additional metadata (tag, param, expected, received, ...)
}

// Error returns "path: message", or just the message if path is empty.
func (e FieldError) Error() string {
	if e.Path == "" {
		return e.Message
	}

	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Unwrap returns [ErrValidation] for errors.Is compatibility.
func (e FieldError) Unwrap() error {
	return ErrValidation
}

// Error represents validation errors for one or more fields.
//
// Error deliberately carries no HTTP status: mapping a validation failure to
// a response is the job of the code that converts it.
//
// Example:
//
//	var verr *validation.Error
//	if errors.As(err, &verr) {
//	    for _, fieldErr := range verr.Fields {
//	        fmt.Printf("%s: %s\n", fieldErr.Path, fieldErr.Message)
//	    }
//	}
//
//nolint:recvcheck // Error must use value receiver for error interface compatibility, mutating methods use pointer
type Error struct {
	Fields    []FieldError `json:"errors"`
	Truncated bool         `json:"truncated,omitempty"` // True if errors were cut off by the maxErrors limit
}

// Error returns a formatted error message.
func (v Error) Error() string {
	switch len(v.Fields) {
	case 0:
		return failedMessage
	case 1:
		return v.Fields[0].Error()
	}

	msgs := make([]string, 0, len(v.Fields))
	for _, err := range v.Fields {
		msgs = append(msgs, err.Error())
	}

	suffix := ""
	if v.Truncated {
		suffix = " (truncated)"
	}

	return fmt.Sprintf("%s: %s%s", failedMessage, strings.Join(msgs, "; "), suffix)
}

// Unwrap returns [ErrValidation] for errors.Is compatibility.
func (v Error) Unwrap() error {
	return ErrValidation
}

// Details returns the field errors.
func (v Error) Details() any {
	return v.Fields
}

// Code returns "validation_error".
func (v Error) Code() string {
	return "validation_error"
}

// Add adds a new [FieldError] to the collection.
func (v *Error) Add(path, code, message string, meta map[string]any) {
	v.Fields = append(v.Fields, FieldError{
		Path:    path,
		Code:    code,
		Message: message,
		Meta:    meta,
	})
}

// AddError adds an error to the collection.
// [FieldError] and [Error] values are merged; any other error becomes a
// path-less field error with code "validation_error".
func (v *Error) AddError(err error) {
	if err == nil {
		return
	}

	var fe FieldError
	var ve Error
	var vep *Error
	switch {
	case errors.As(err, &vep) && vep != nil:
		v.merge(*vep)
	case errors.As(err, &ve):
		v.merge(ve)
	case errors.As(err, &fe):
		v.Fields = append(v.Fields, fe)
	default:
		v.Fields = append(v.Fields, FieldError{
			Code:    "validation_error",
			Message: err.Error(),
		})
	}
}

func (v *Error) merge(other Error) {
	v.Fields = append(v.Fields, other.Fields...)
	v.Truncated = v.Truncated || other.Truncated
}

// HasErrors returns true if there are any errors.
func (v Error) HasErrors() bool {
	return len(v.Fields) > 0
}

// HasCode returns true if any error has the given code.
func (v Error) HasCode(code string) bool {
	for _, e := range v.Fields {
		if e.Code == code {
			return true
		}
	}

	return false
}

// Has checks if a specific field path has an error.
func (v Error) Has(path string) bool {
	return v.GetField(path) != nil
}

// GetField returns the first [FieldError] for a given path, or nil if not found.
func (v Error) GetField(path string) *FieldError {
	for i := range v.Fields {
		if v.Fields[i].Path == path {
			f := v.Fields[i]
			return &f
		}
	}

	return nil
}

// Sort sorts errors by path, then by code.
func (v *Error) Sort() {
	sort.SliceStable(v.Fields, func(i, j int) bool {
		if v.Fields[i].Path != v.Fields[j].Path {
			return v.Fields[i].Path < v.Fields[j].Path
		}

		return v.Fields[i].Code < v.Fields[j].Code
	})
}
