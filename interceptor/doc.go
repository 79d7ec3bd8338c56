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

// Package interceptor provides an error-handler adapter that normalizes
// validation failures before they reach the rest of an error pipeline.
//
// The handler built by [New] takes whatever error value the pipeline hands
// it, runs it through a [Converter] and forwards the result to the next
// handler. Validation failures come out as structured HTTP errors; every
// other value is forwarded unchanged.
//
// The adapter contains converter failures. A converter that returns an error
// or panics never breaks the pipeline: the fault itself is forwarded instead
// of the converted value. Whatever happens, next is called exactly once per
// invocation, and it is called outside the recovered region, so a panic
// raised by next propagates to the caller rather than being forwarded again.
//
// Handlers hold no state and do not log. They are safe for concurrent use.
//
// # Usage
//
//	handler := interceptor.New()
//	handler(err, req, w, func(v any) {
//		// v is an *errors.HTTPError for validation failures, err otherwise
//	})
//
// With a custom converter:
//
//	handler := interceptor.New(interceptor.WithConverter(
//		transform.New(transform.WithStatus(http.StatusUnprocessableEntity)),
//	))
package interceptor
