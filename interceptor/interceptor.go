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

package interceptor

import (
	"fmt"
	"net/http"

	"rivaas.dev/errorkit/transform"
)

// NextFunc forwards an error value to the next handler in the pipeline.
type NextFunc func(err any)

// HandlerFunc is the error-handler signature of the host pipeline. req and w
// are passed through by the pipeline and may be nil.
type HandlerFunc func(err any, req *http.Request, w http.ResponseWriter, next NextFunc)

// Converter turns a raw error value into the value to forward.
// A non-nil error, or a panic, is a conversion fault.
type Converter interface {
	Convert(raw any) (any, error)
}

// ConverterFunc adapts a plain function to [Converter].
type ConverterFunc func(raw any) (any, error)

// Convert calls f(raw).
func (f ConverterFunc) Convert(raw any) (any, error) {
	return f(raw)
}

// identity forwards values unchanged.
var identity = ConverterFunc(func(raw any) (any, error) { return raw, nil })

// PanicError is forwarded when a converter panics with a value that is not
// an error.
type PanicError struct {
	Value any
}

// Error implements error.
func (e *PanicError) Error() string {
	return fmt.Sprintf("interceptor: converter panicked: %v", e.Value)
}

type config struct {
	converter Converter
}

// Option configures a handler built by [New].
type Option func(*config)

// WithConverter replaces the default converter, [transform.Default].
// A nil converter forwards every value unchanged.
func WithConverter(c Converter) Option {
	return func(cfg *config) {
		cfg.converter = c
	}
}

// WithConverterFunc is [WithConverter] for a plain function.
func WithConverterFunc(fn func(raw any) (any, error)) Option {
	return func(cfg *config) {
		if fn == nil {
			cfg.converter = nil
			return
		}
		cfg.converter = ConverterFunc(fn)
	}
}

// New returns an error handler that converts the incoming error and forwards
// the outcome to next exactly once.
//
// Example:
//
//	handler := interceptor.New()
//	handler(err, nil, nil, func(v any) {
//		if he, ok := v.(*errors.HTTPError); ok {
//			log.Println(he.Status(), he.Kind())
//		}
//	})
func New(opts ...Option) HandlerFunc {
	cfg := &config{converter: transform.Default}
	for _, opt := range opts {
		opt(cfg)
	}

	converter := cfg.converter
	if converter == nil {
		converter = identity
	}

	return func(err any, _ *http.Request, _ http.ResponseWriter, next NextFunc) {
		if next == nil {
			return
		}

		next(convert(converter, err))
	}
}

// Intercept runs a handler built with opts against raw, without request or
// response values.
func Intercept(raw any, next NextFunc, opts ...Option) {
	New(opts...)(raw, nil, nil, next)
}

// convert runs the converter and returns the value to forward: the converted
// value, or the fault when the converter failed.
func convert(c Converter, raw any) (out any) {
	defer func() {
		if r := recover(); r != nil {
			if err, ok := r.(error); ok {
				out = err
				return
			}
			out = &PanicError{Value: r}
		}
	}()

	converted, err := c.Convert(raw)
	if err != nil {
		return err
	}

	return converted
}
