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

// Package transform turns validation failures into structured HTTP errors.
//
// A [Transformer] inspects an arbitrary error value. When the value is, or
// wraps, a validation failure it returns an [*errors.HTTPError] whose details
// are the individual field violations; any other value is returned unchanged.
//
// Recognized failures:
//
//   - [validation.Error], [*validation.Error] and [validation.FieldError]
//   - validator.ValidationErrors from go-playground/validator
//   - *jsonschema.ValidationError from santhosh-tekuri/jsonschema
//
// validator.InvalidValidationError reports a programming mistake (validating
// a non-struct) rather than bad input, so it passes through untouched.
//
// # Usage
//
//	out, err := transform.Transform(raw)
//	if err != nil {
//		// raw was a validation failure that could not be converted
//	}
//
// A [Transformer] satisfies the converter contract of the interceptor package:
//
//	handler := interceptor.New(interceptor.WithConverter(
//		transform.New(transform.WithStatus(http.StatusUnprocessableEntity)),
//	))
package transform
