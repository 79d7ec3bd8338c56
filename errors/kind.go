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
	"net/http"
	"strconv"
	"strings"
)

// Kind is the stable, machine-readable category of an [HTTPError].
// It is derived from the HTTP status and never changes for a given status,
// so clients can switch on it without parsing messages.
type Kind string

// Kinds for the statuses the structured error helpers produce.
const (
	KindBadRequest          Kind = "bad_request"
	KindUnauthorized        Kind = "unauthorized"
	KindForbidden           Kind = "forbidden"
	KindNotFound            Kind = "not_found"
	KindConflict            Kind = "conflict"
	KindUnprocessableEntity Kind = "unprocessable_entity"
	KindTooManyRequests     Kind = "too_many_requests"
	KindInternalServerError Kind = "internal_server_error"
	KindServiceUnavailable  Kind = "service_unavailable"
)

// KindOf returns the [Kind] for an HTTP status code.
// Statuses without a registered text map to "http_<status>".
//
// Example:
//
//	errors.KindOf(http.StatusBadRequest) // "bad_request"
//	errors.KindOf(599)                   // "http_599"
func KindOf(status int) Kind {
	text := http.StatusText(status)
	if text == "" {
		return Kind("http_" + strconv.Itoa(status))
	}

	var b strings.Builder
	b.Grow(len(text))
	sep := false
	for _, r := range text {
		switch {
		case r >= 'A' && r <= 'Z':
			r += 'a' - 'A'
			fallthrough
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if sep && b.Len() > 0 {
				_ = b.WriteByte('_')
			}
			sep = false
			_, _ = b.WriteRune(r)
		default:
			// Spaces, dashes and apostrophes ("I'm a teapot") collapse to one underscore.
			sep = true
		}
	}

	return Kind(b.String())
}

// String returns the kind as a plain string.
func (k Kind) String() string {
	return string(k)
}
