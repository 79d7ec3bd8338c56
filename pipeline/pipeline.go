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
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"rivaas.dev/errorkit/interceptor"
)

const instrumentationName = "rivaas.dev/errorkit/pipeline"

// HandlerFunc handles a request and reports failure by returning an error.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// Pipeline runs request handlers and routes their errors through the
// registered error handlers. It is safe for concurrent use.
type Pipeline struct {
	cfg     *config
	tracer  trace.Tracer
	metrics *metrics
}

// New creates a [Pipeline]. It returns an error if the metrics cannot be
// registered with the configured registerer.
func New(opts ...Option) (*Pipeline, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.logger == nil {
		cfg.logger = noopLogger
	}
	if cfg.formatter == nil {
		cfg.formatter = defaultConfig().formatter
	}
	if cfg.tracerProvider == nil {
		cfg.tracerProvider = defaultConfig().tracerProvider
	}

	m, err := newMetrics(cfg.registerer)
	if err != nil {
		return nil, fmt.Errorf("register pipeline metrics: %w", err)
	}

	return &Pipeline{
		cfg:     cfg,
		tracer:  cfg.tracerProvider.Tracer(instrumentationName),
		metrics: m,
	}, nil
}

// MustNew is like [New] but panics on error.
func MustNew(opts ...Option) *Pipeline {
	p, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("pipeline.MustNew: %v", err))
	}

	return p
}

// Handle adapts h to an [http.Handler].
func (p *Pipeline) Handle(h HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := p.tracer.Start(r.Context(), "pipeline.handle",
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.request.method", r.Method),
				attribute.String("url.path", r.URL.Path),
			),
		)
		defer span.End()

		r = r.WithContext(ctx)

		raw, failed := p.run(h, w, r, span)
		if !failed {
			return
		}

		final, forwarded := p.dispatch(ctx, raw, w, r)
		if !forwarded {
			p.cfg.logger.DebugContext(ctx, "error handled by error handler",
				"method", r.Method,
				"path", r.URL.Path,
			)
			return
		}

		if final == nil {
			p.cfg.logger.DebugContext(ctx, "error cleared by error handlers",
				"method", r.Method,
				"path", r.URL.Path,
			)
			return
		}

		p.write(ctx, w, r, span, asError(final))
	})
}

// run calls h and reports its error or recovered panic value.
func (p *Pipeline) run(h HandlerFunc, w http.ResponseWriter, r *http.Request, span trace.Span) (raw any, failed bool) {
	defer func() {
		rec := recover()
		if rec == nil {
			return
		}

		span.SetStatus(codes.Error, "panic recovered")
		span.SetAttributes(
			attribute.Bool("exception.escaped", true),
			attribute.String("exception.type", fmt.Sprintf("%T", rec)),
			attribute.String("exception.message", fmt.Sprintf("%v", rec)),
		)
		if err, ok := rec.(error); ok {
			span.RecordError(err)
		}

		p.metrics.panics.Inc()
		p.cfg.logger.ErrorContext(r.Context(), "panic recovered",
			"panic", rec,
			"method", r.Method,
			"path", r.URL.Path,
			"stack", p.stack(),
		)

		raw, failed = rec, true
	}()

	if err := h(w, r); err != nil {
		return err, true
	}

	return nil, false
}

func (p *Pipeline) stack() string {
	if p.cfg.stackSize <= 0 {
		return ""
	}

	stack := debug.Stack()
	if len(stack) > p.cfg.stackSize {
		stack = stack[:p.cfg.stackSize]
	}

	return string(stack)
}

// dispatch passes raw through the error handlers. forwarded is false when a
// handler kept the error by not calling next.
func (p *Pipeline) dispatch(ctx context.Context, raw any, w http.ResponseWriter, r *http.Request) (final any, forwarded bool) {
	current := raw
	for i, h := range p.cfg.handlers {
		next, ok := p.step(ctx, i, h, current, w, r)
		if !ok {
			return nil, false
		}
		current = next
	}

	return current, true
}

// step runs one error handler. A panic in the handler is forwarded as the
// handler's output.
func (p *Pipeline) step(ctx context.Context, index int, h interceptor.HandlerFunc, raw any, w http.ResponseWriter, r *http.Request) (out any, forwarded bool) {
	called := false
	next := func(v any) {
		if called {
			p.cfg.logger.WarnContext(ctx, "error handler called next more than once; ignoring",
				"handler", index,
			)
			return
		}
		called = true
		out = v
	}

	defer func() {
		if rec := recover(); rec != nil {
			p.cfg.logger.ErrorContext(ctx, "error handler panicked",
				"handler", index,
				"panic", rec,
			)
			out, forwarded = rec, true
		}
	}()

	h(raw, r, w, next)

	return out, called
}

// write formats err and writes it as the response.
func (p *Pipeline) write(ctx context.Context, w http.ResponseWriter, r *http.Request, span trace.Span, err error) {
	response := p.cfg.formatter.Format(r, err)

	p.cfg.logger.ErrorContext(ctx, "handler error",
		"error", err,
		"method", r.Method,
		"path", r.URL.Path,
		"status", response.Status,
	)

	p.metrics.errors.WithLabelValues(strconv.Itoa(response.Status)).Inc()

	span.RecordError(err)
	span.SetAttributes(attribute.Int("http.response.status_code", response.Status))
	if response.Status >= http.StatusInternalServerError {
		span.SetStatus(codes.Error, err.Error())
	}

	header := w.Header()
	for key, values := range response.Headers {
		for _, value := range values {
			header.Add(key, value)
		}
	}
	if response.ContentType != "" {
		header.Set("Content-Type", response.ContentType)
	}
	w.WriteHeader(response.Status)

	if response.Body == nil {
		return
	}
	if encErr := json.NewEncoder(w).Encode(response.Body); encErr != nil {
		p.cfg.logger.ErrorContext(ctx, "failed to write error response", "error", encErr)
	}
}

// ValueError is formatted in place of a final value that is not an error,
// such as a string a handler panicked with.
type ValueError struct {
	Value any
}

// Error returns the value formatted with %v.
func (e *ValueError) Error() string {
	return fmt.Sprintf("%v", e.Value)
}

func asError(v any) error {
	if err, ok := v.(error); ok {
		return err
	}

	return &ValueError{Value: v}
}
