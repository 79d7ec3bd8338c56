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

// Package validation validates request input and reports failures as
// structured, field-level errors.
//
// Two strategies are supported:
//
//  1. Struct tags via go-playground/validator ([Validator.ValidateStruct])
//  2. JSON Schema via santhosh-tekuri/jsonschema ([Validator.ValidateJSON]),
//     with schemas written in JSON or YAML ([ParseSchema])
//
// Both return an [*Error] holding one [FieldError] per violation, with a
// dotted path, a stable code ("tag.required", "schema.type") and a message.
// Raw errors produced by either library elsewhere can be brought into the same
// shape with [FromTagErrors] and [FromSchemaError].
//
// # Getting Started
//
//	type User struct {
//		Email string `json:"email" validate:"required,email"`
//		Age   int    `json:"age" validate:"min=18"`
//	}
//
//	v := validation.MustNew(validation.WithMaxErrors(10))
//	if err := v.ValidateStruct(ctx, &user); err != nil {
//		var verr *validation.Error
//		if errors.As(err, &verr) {
//			for _, fieldErr := range verr.Fields {
//				fmt.Printf("%s: %s\n", fieldErr.Path, fieldErr.Message)
//			}
//		}
//	}
//
// JSON Schema:
//
//	schema := validation.MustParseSchema("user", userSchemaYAML)
//	if err := v.ValidateJSON(ctx, schema, body); err != nil {
//		// err is a *validation.Error
//	}
//
// The package does not map failures to HTTP responses; see the transform
// package for that.
package validation
