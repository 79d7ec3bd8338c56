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

package pipeline

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"rivaas.dev/errorkit/errors"
	"rivaas.dev/errorkit/interceptor"
)

// defaultStackSize caps the stack trace logged for recovered panics.
const defaultStackSize = 4 << 10

var noopLogger = slog.New(slog.DiscardHandler)

type config struct {
	handlers       []interceptor.HandlerFunc
	formatter      errors.Formatter
	logger         *slog.Logger
	registerer     prometheus.Registerer
	tracerProvider trace.TracerProvider
	stackSize      int
}

func defaultConfig() *config {
	return &config{
		formatter:      errors.NewRFC9457(""),
		logger:         noopLogger,
		tracerProvider: noop.NewTracerProvider(),
		stackSize:      defaultStackSize,
	}
}

// Option configures a [Pipeline].
type Option func(*config)

// WithErrorHandler appends error handlers. Handlers run in registration order.
//
// Example:
//
//	pipeline.New(pipeline.WithErrorHandler(interceptor.New(), auditHandler))
func WithErrorHandler(handlers ...interceptor.HandlerFunc) Option {
	return func(c *config) {
		for _, h := range handlers {
			if h != nil {
				c.handlers = append(c.handlers, h)
			}
		}
	}
}

// WithFormatter sets the formatter for error responses.
// Default: RFC 9457 problem details.
func WithFormatter(f errors.Formatter) Option {
	return func(c *config) {
		c.formatter = f
	}
}

// WithLogger sets the logger. By default nothing is logged.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithRegisterer registers the pipeline metrics with reg.
// Without it metrics are collected but not exported.
//
// Example:
//
//	reg := prometheus.NewRegistry()
//	pipeline.New(pipeline.WithRegisterer(reg))
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(c *config) {
		c.registerer = reg
	}
}

// WithTracerProvider sets the provider for request spans.
// Default: a no-op provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *config) {
		c.tracerProvider = tp
	}
}

// WithStackSize sets the maximum number of stack trace bytes logged for a
// recovered panic. Zero disables stack traces. Default: 4KB.
func WithStackSize(size int) Option {
	return func(c *config) {
		c.stackSize = size
	}
}
