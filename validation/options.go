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
	"errors"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
)

// defaultMaxCachedSchemas is the default maximum number of compiled schemas to cache.
// Override with [WithMaxCachedSchemas].
const defaultMaxCachedSchemas = 1024

// customTag holds a custom validation tag registration for use with [WithCustomTag].
type customTag struct {
	name string
	fn   validator.Func
}

// config holds validation configuration used by [Validator] and by the
// [FromTagErrors] and [FromSchemaError] converters.
type config struct {
	maxErrors        int
	maxCachedSchemas int
	fieldNameMapper  func(string) string
	translator       ut.Translator
	customTags       []customTag
}

// validate checks the configuration for errors.
func (c *config) validate() error {
	if c.maxErrors < 0 {
		return errors.New("maxErrors must be non-negative")
	}
	if c.maxCachedSchemas < 0 {
		return errors.New("maxCachedSchemas must be non-negative")
	}

	return nil
}

// full reports whether the maxErrors limit has been reached.
func (c *config) full(e *Error) bool {
	return c.maxErrors > 0 && len(e.Fields) >= c.maxErrors
}

// mapField applies the field name mapper, if any.
func (c *config) mapField(path string) string {
	if c.fieldNameMapper == nil || path == "" {
		return path
	}

	return c.fieldNameMapper(path)
}

// Option is a functional option for configuring validation.
// Options can be passed to [New], [MustNew], [FromTagErrors] and [FromSchemaError].
type Option func(*config)

// WithMaxErrors limits the number of field errors returned.
// Set to 0 for unlimited errors (default). When the limit is hit the
// resulting [Error] is marked Truncated.
//
// Example:
//
//	validation.MustNew(validation.WithMaxErrors(10))
func WithMaxErrors(maxErrors int) Option {
	return func(c *config) {
		c.maxErrors = maxErrors
	}
}

// WithFieldNameMapper sets a function to transform field paths in errors.
//
// Example:
//
//	validation.WithFieldNameMapper(func(name string) string {
//	    return strings.ReplaceAll(name, "_", " ")
//	})
func WithFieldNameMapper(mapper func(string) string) Option {
	return func(c *config) {
		c.fieldNameMapper = mapper
	}
}

// WithTranslator makes struct tag errors use translated messages.
// When passed to [New], the English default translations of
// go-playground/validator are registered into trans. When passed to
// [FromTagErrors], trans must already hold translations for the tags used.
//
// Example:
//
//	v := validation.MustNew(validation.WithTranslator(validation.NewEnglishTranslator()))
func WithTranslator(trans ut.Translator) Option {
	return func(c *config) {
		c.translator = trans
	}
}

// WithMaxCachedSchemas sets the maximum number of compiled schemas to cache.
// Set to 0 to use the default (1024).
func WithMaxCachedSchemas(maxCachedSchemas int) Option {
	return func(c *config) {
		c.maxCachedSchemas = maxCachedSchemas
	}
}

// WithCustomTag registers a custom validation tag for use in struct tags.
//
// Example:
//
//	validator := validation.MustNew(
//	    validation.WithCustomTag("phone", func(fl validator.FieldLevel) bool {
//	        return phoneRegex.MatchString(fl.Field().String())
//	    }),
//	)
func WithCustomTag(name string, fn validator.Func) Option {
	return func(c *config) {
		c.customTags = append(c.customTags, customTag{name: name, fn: fn})
	}
}

// NewEnglishTranslator returns an English universal translator.
func NewEnglishTranslator() ut.Translator {
	locale := en.New()
	trans, _ := ut.New(locale, locale).GetTranslator(locale.Locale())

	return trans
}

// newConfig builds a config from options.
func newConfig(opts ...Option) *config {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}
