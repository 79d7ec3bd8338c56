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

// Package errors defines the structured error used for client-facing error
// reporting and the formatters that render it as an HTTP response.
//
// [HTTPError] is the normalized representation: an immutable value with an
// HTTP status, a stable [Kind], a message, optional details and code, and the
// error it was built from. Callers tell it apart from plain errors with
// [IsHTTPError] or [AsHTTPError].
//
// Formatters turn any error into a [Response]:
//   - RFC9457: RFC 9457 Problem Details (application/problem+json)
//   - JSONAPI: JSON:API error responses (application/vnd.api+json)
//   - Simple: Simple JSON error responses (application/json)
//
// Errors that are not an [HTTPError] can still control the output by
// implementing the optional [ErrorType], [ErrorDetails] and [ErrorCode]
// interfaces.
//
// # Quick Start
//
//	err := errors.BadRequest("request body is invalid",
//		errors.WithCode("validation_error"),
//		errors.WithDetails(fieldErrors),
//	)
//
//	formatter := errors.NewRFC9457("https://api.example.com/problems")
//	response := formatter.Format(r, err)
//	w.Header().Set("Content-Type", response.ContentType)
//	w.WriteHeader(response.Status)
//	json.NewEncoder(w).Encode(response.Body)
package errors
