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

package transform

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/go-playground/validator/v10"
	"github.com/santhosh-tekuri/jsonschema/v6"

	kiterrors "rivaas.dev/errorkit/errors"
	"rivaas.dev/errorkit/validation"
)

// ErrEmptyValidationError is returned when a value is recognized as a
// validation failure but carries no field errors to report.
var ErrEmptyValidationError = errors.New("transform: validation error has no field errors")

// Default is the [Transformer] used by [Transform] and [IsValidationError].
var Default = New()

// Transformer converts validation failures into [*kiterrors.HTTPError].
// It holds no mutable state and is safe for concurrent use.
type Transformer struct {
	cfg *config
}

// New creates a [Transformer].
func New(opts ...Option) *Transformer {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return &Transformer{cfg: cfg}
}

// Transform converts raw with [Default].
func Transform(raw any) (any, error) {
	return Default.Convert(raw)
}

// IsValidationError reports whether raw is, or wraps, a recognized
// validation failure.
func IsValidationError(raw any) bool {
	err, ok := raw.(error)
	if !ok {
		return false
	}
	_, ok = Default.extract(err)

	return ok
}

// Convert returns an [*kiterrors.HTTPError] for validation failures and raw
// itself for anything else, including nil.
//
// The returned error is non-nil only for a recognized failure that cannot be
// converted; it wraps [ErrEmptyValidationError].
func (t *Transformer) Convert(raw any) (any, error) {
	err, ok := raw.(error)
	if !ok {
		return raw, nil
	}

	verr, ok := t.extract(err)
	if !ok {
		return raw, nil
	}

	if !verr.HasErrors() {
		return nil, fmt.Errorf("%w: %T", ErrEmptyValidationError, raw)
	}

	message := t.cfg.message
	if message == "" {
		message = verr.Error()
	}

	return kiterrors.NewHTTPError(t.cfg.status, message,
		kiterrors.WithDetails(cloneFields(verr.Fields)),
		kiterrors.WithCode(t.cfg.code),
		kiterrors.WithCause(err),
	), nil
}

// extract finds a validation failure in err's chain and normalizes it.
// A nil pointer found in the chain yields an empty result.
func (t *Transformer) extract(err error) (*validation.Error, bool) {
	// Typed nils must not reach errors.As, which would call their
	// value-receiver Unwrap.
	switch v := err.(type) {
	case *validation.Error:
		if v == nil {
			return &validation.Error{}, true
		}
	case *validation.FieldError:
		if v == nil {
			return &validation.Error{}, true
		}
	}

	var ptr *validation.Error
	if errors.As(err, &ptr) {
		if ptr == nil {
			return &validation.Error{}, true
		}
		return ptr, true
	}

	var val validation.Error
	if errors.As(err, &val) {
		return &val, true
	}

	var fieldPtr *validation.FieldError
	if errors.As(err, &fieldPtr) {
		if fieldPtr == nil {
			return &validation.Error{}, true
		}
		return &validation.Error{Fields: []validation.FieldError{*fieldPtr}}, true
	}

	var field validation.FieldError
	if errors.As(err, &field) {
		return &validation.Error{Fields: []validation.FieldError{field}}, true
	}

	var tagErrs validator.ValidationErrors
	if errors.As(err, &tagErrs) {
		if verr := validation.FromTagErrors(tagErrs, t.cfg.validation...); verr != nil {
			return verr, true
		}
		return &validation.Error{}, true
	}

	var schemaErr *jsonschema.ValidationError
	if errors.As(err, &schemaErr) {
		if verr := validation.FromSchemaError(schemaErr, t.cfg.validation...); verr != nil {
			return verr, true
		}
		return &validation.Error{}, true
	}

	return nil, false
}

// cloneFields copies fields and their metadata so the converted error does
// not share memory with the validation error it came from.
func cloneFields(fields []validation.FieldError) []validation.FieldError {
	out := slices.Clone(fields)
	for i := range out {
		out[i].Meta = maps.Clone(out[i].Meta)
	}

	return out
}
