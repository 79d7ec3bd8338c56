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
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FromTagErrors converts go-playground/validator errors into an [*Error]
// with stable "tag.<name>" codes. Paths are taken from the error namespace
// without the top-level struct name; slice and map indices become dotted
// segments ("Order.Items[0].Price" -> "Items.0.Price").
//
// It returns nil for an empty errs.
//
// Example:
//
//	if verrs, ok := err.(validator.ValidationErrors); ok {
//	    verr := validation.FromTagErrors(verrs, validation.WithMaxErrors(5))
//	}
func FromTagErrors(errs validator.ValidationErrors, opts ...Option) *Error {
	if len(errs) == 0 {
		return nil
	}

	return fromTagErrors(errs, newConfig(opts...))
}

func fromTagErrors(errs validator.ValidationErrors, cfg *config) *Error {
	var result Error

	for _, e := range errs {
		path := cfg.mapField(namespacePath(e.Namespace()))

		msg := tagMessage(e)
		if cfg.translator != nil {
			msg = e.Translate(cfg.translator)
		}

		result.Add(path, "tag."+e.Tag(), msg, map[string]any{
			"tag":   e.Tag(),
			"param": e.Param(),
			"value": fmt.Sprint(e.Value()),
		})

		if cfg.full(&result) {
			result.Truncated = len(result.Fields) < len(errs)
			break
		}
	}

	result.Sort()

	return &result
}

// namespacePath strips the top-level struct name from a validator namespace
// and turns bracketed indices into dotted segments.
func namespacePath(ns string) string {
	if idx := strings.Index(ns, "."); idx != -1 {
		ns = ns[idx+1:]
	}

	ns = strings.ReplaceAll(ns, "[", ".")
	ns = strings.ReplaceAll(ns, "]", "")

	return ns
}

// tagMessage returns the English message for a tag error.
func tagMessage(e validator.FieldError) string {
	param := e.Param()
	isString := e.Kind() == reflect.String

	switch e.Tag() {
	case "required", "required_if", "required_unless", "required_with", "required_without":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "url", "http_url":
		return "must be a valid URL"
	case "uuid", "uuid4":
		return "must be a valid UUID"
	case "min", "gte":
		if isString {
			return fmt.Sprintf("must be at least %s characters", param)
		}
		return fmt.Sprintf("must be at least %s", param)
	case "max", "lte":
		if isString {
			return fmt.Sprintf("must be at most %s characters", param)
		}
		return fmt.Sprintf("must be at most %s", param)
	case "len":
		if isString {
			return fmt.Sprintf("must be exactly %s characters", param)
		}
		return fmt.Sprintf("must have length %s", param)
	case "gt":
		return fmt.Sprintf("must be greater than %s", param)
	case "lt":
		return fmt.Sprintf("must be less than %s", param)
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", param)
	default:
		return fmt.Sprintf("failed validation (%s)", e.Tag())
	}
}
