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

// Command errorkit-demo serves a small order API whose validation failures
// are normalized by the interceptor and rendered as RFC 9457 problems.
//
//	go run ./cmd/errorkit-demo -addr :8080
//	curl -s -XPOST localhost:8080/orders -d '{"sku": 12, "quantity": 0}'
//
// Spans are printed to stderr and metrics are served on /metrics.
package main

import (
	"context"
	_ "embed"
	"errors"
	"flag"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	kiterrors "rivaas.dev/errorkit/errors"
	"rivaas.dev/errorkit/interceptor"
	"rivaas.dev/errorkit/pipeline"
	"rivaas.dev/errorkit/transform"
	"rivaas.dev/errorkit/validation"
)

const maxBodyBytes = 1 << 20

//go:embed order.schema.yaml
var orderSchema []byte

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	status := flag.Int("status", http.StatusBadRequest, "status for validation failures")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	if err := run(*addr, *status, logger); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(addr string, status int, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	exporter, err := stdouttrace.New(stdouttrace.WithWriter(os.Stderr), stdouttrace.WithPrettyPrint())
	if err != nil {
		return err
	}
	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			logger.Warn("tracer shutdown failed", "error", err)
		}
	}()

	registry := prometheus.NewRegistry()

	p, err := pipeline.New(
		pipeline.WithErrorHandler(interceptor.New(
			interceptor.WithConverter(transform.New(transform.WithStatus(status))),
		)),
		pipeline.WithFormatter(kiterrors.NewRFC9457("https://errorkit.rivaas.dev/problems")),
		pipeline.WithLogger(logger),
		pipeline.WithRegisterer(registry),
		pipeline.WithTracerProvider(tp),
	)
	if err != nil {
		return err
	}

	schema, err := validation.ParseSchema("order", orderSchema)
	if err != nil {
		return err
	}
	validator := validation.MustNew(validation.WithMaxErrors(20))

	mux := http.NewServeMux()
	mux.Handle("POST /orders", p.Handle(orderHandler(logger, validator, schema)))
	mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

// orderHandler validates the body against schema and echoes it back.
func orderHandler(logger *slog.Logger, validator *validation.Validator, schema validation.Schema) pipeline.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) error {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			return readError(err)
		}
		if err := validator.ValidateJSON(r.Context(), schema, body); err != nil {
			return err
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		if _, err := w.Write(body); err != nil {
			// Headers are sent; the pipeline must not answer again.
			logger.WarnContext(r.Context(), "failed to write response", "error", err)
		}

		return nil
	}
}

// readError maps a request body read failure to a structured error.
func readError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return kiterrors.NewHTTPError(http.StatusRequestEntityTooLarge, "", kiterrors.WithCause(err))
	}

	return kiterrors.BadRequest("failed to read request body", kiterrors.WithCause(err))
}
