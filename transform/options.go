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
	"net/http"

	ut "github.com/go-playground/universal-translator"

	"rivaas.dev/errorkit/validation"
)

// DefaultCode is the error code carried by converted validation failures.
const DefaultCode = "validation_error"

type config struct {
	status     int
	message    string
	code       string
	validation []validation.Option
}

func defaultConfig() *config {
	return &config{
		status: http.StatusBadRequest,
		code:   DefaultCode,
	}
}

// Option configures a [Transformer].
type Option func(*config)

// WithStatus sets the HTTP status of converted errors.
// Default: 400 Bad Request.
//
// Example:
//
//	transform.New(transform.WithStatus(http.StatusUnprocessableEntity))
func WithStatus(status int) Option {
	return func(c *config) {
		c.status = status
	}
}

// WithMessage replaces the message of converted errors.
// By default the validation error's own message is used.
func WithMessage(message string) Option {
	return func(c *config) {
		c.message = message
	}
}

// WithCode sets the error code of converted errors. Default: [DefaultCode].
func WithCode(code string) Option {
	return func(c *config) {
		c.code = code
	}
}

// WithTranslator makes messages of go-playground/validator field errors come
// from trans. trans must hold translations for the tags in use, e.g. one
// returned by [validation.NewEnglishTranslator] after [validation.New].
func WithTranslator(trans ut.Translator) Option {
	return func(c *config) {
		c.validation = append(c.validation, validation.WithTranslator(trans))
	}
}

// WithFieldNameMapper rewrites field paths of errors converted from raw
// go-playground/validator and jsonschema errors. Paths of [validation.Error]
// values are kept as they are.
func WithFieldNameMapper(mapper func(string) string) Option {
	return func(c *config) {
		c.validation = append(c.validation, validation.WithFieldNameMapper(mapper))
	}
}

// WithMaxErrors caps the number of field errors taken from raw
// go-playground/validator and jsonschema errors.
func WithMaxErrors(maxErrors int) Option {
	return func(c *config) {
		c.validation = append(c.validation, validation.WithMaxErrors(maxErrors))
	}
}
