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

// Package pipeline is a small net/http host for error handlers.
//
// A [Pipeline] wraps handlers that return errors. When a handler returns an
// error or panics, the value is passed through the registered error handlers
// in order, each one receiving a next function that hands a value to the
// following handler. Whatever comes out of the last handler is rendered with
// an [errors.Formatter] and written as the response.
//
// Error handlers share the signature of [interceptor.HandlerFunc], so the
// validation interceptor plugs in directly:
//
//	p := pipeline.MustNew(
//		pipeline.WithErrorHandler(interceptor.New()),
//		pipeline.WithFormatter(errors.NewRFC9457("https://api.example.com/problems")),
//		pipeline.WithLogger(slog.Default()),
//	)
//
//	mux.Handle("POST /orders", p.Handle(func(w http.ResponseWriter, r *http.Request) error {
//		return v.ValidateJSON(r.Context(), orderSchema, body)
//	}))
//
// # Error handler rules
//
//   - A handler that never calls next owns the response; nothing else is written.
//   - next takes effect once per handler. Later calls are ignored and logged.
//   - next must be called before the handler returns.
//   - A panicking handler has its panic value forwarded to the next handler.
//   - A nil final value means the error was cleared and nothing is written.
//
// # Observability
//
// Every request runs in a span from the configured tracer provider. Panics
// mark the span with exception.escaped, like the router recovery middleware.
// Written error responses are counted in errorkit_pipeline_errors_total by
// status code when a Prometheus registerer is configured.
package pipeline
