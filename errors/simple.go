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

// Simple formats errors as simple JSON objects with Content-Type "application/json".
// Format: {"error": "message", "kind": "...", "code": "...", "details": ...}
type Simple struct {
	// StatusResolver determines HTTP status from error.
	// If nil, uses [ErrorType] or defaults to 500.
	StatusResolver func(err error) int
}

// Format converts an error into a simple JSON response.
func (f *Simple) Format(_ *http.Request, err error) Response {
	body := map[string]any{
		"error": messageOf(err),
	}

	if he, ok := AsHTTPError(err); ok {
		body["kind"] = he.Kind()
	}

	var detailed ErrorDetails
	if errors.As(err, &detailed) {
		if details := detailed.Details(); details != nil {
			body["details"] = details
		}
	}

	var coded ErrorCode
	if errors.As(err, &coded) {
		body["code"] = coded.Code()
	}

	return Response{
		Status:      resolveStatus(err, f.StatusResolver),
		ContentType: "application/json; charset=utf-8",
		Body:        body,
	}
}
