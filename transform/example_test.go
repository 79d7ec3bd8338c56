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

package transform_test

import (
	"errors"
	"fmt"
	"net/http"

	kiterrors "rivaas.dev/errorkit/errors"
	"rivaas.dev/errorkit/transform"
	"rivaas.dev/errorkit/validation"
)

// ExampleTransform shows a validation failure becoming a structured error
// while other errors pass through unchanged.
func ExampleTransform() {
	var verr validation.Error
	verr.Add("b", "schema.type", "got number, want string", nil)

	out, _ := transform.Transform(&verr)
	he := out.(*kiterrors.HTTPError)
	fmt.Println(he.Status(), he.Kind(), he.Message())

	plain := errors.New("Test error")
	out, _ = transform.Transform(plain)
	fmt.Println(out == plain)
	// Output:
	// 400 bad_request b: got number, want string
	// true
}

// ExampleNew shows a transformer reporting validation failures as 422.
func ExampleNew() {
	tr := transform.New(
		transform.WithStatus(http.StatusUnprocessableEntity),
		transform.WithMessage("request body is invalid"),
	)

	out, _ := tr.Convert(validation.FieldError{Path: "email", Code: "tag.required", Message: "is required"})
	he := out.(*kiterrors.HTTPError)
	fmt.Println(he.Status(), he.Code(), he.Message())
	// Output: 422 validation_error request body is invalid
}
