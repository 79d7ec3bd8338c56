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

// This file contains integration tests running real validators, the
// interceptor and the formatters together behind the pipeline.

//go:build integration

package pipeline_test

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"

	kiterrors "rivaas.dev/errorkit/errors"
	"rivaas.dev/errorkit/interceptor"
	"rivaas.dev/errorkit/pipeline"
	"rivaas.dev/errorkit/transform"
	"rivaas.dev/errorkit/validation"
)

const orderSchema = `
type: object
properties:
  sku: {type: string, minLength: 3}
  quantity: {type: integer, minimum: 1}
required: [sku, quantity]
`

type signup struct {
	Email string `json:"email" validate:"required,email"`
	Age   int    `json:"age" validate:"gte=18"`
}

func post(handler http.Handler, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body)))

	return w
}

func decode(w *httptest.ResponseRecorder) map[string]any {
	var body map[string]any
	ExpectWithOffset(1, json.Unmarshal(w.Body.Bytes(), &body)).To(Succeed())

	return body
}

var _ = Describe("Pipeline with the validation interceptor", func() {
	var (
		validator *validation.Validator
		schema    validation.Schema
		registry  *prometheus.Registry
	)

	BeforeEach(func() {
		validator = validation.MustNew()
		schema = validation.MustParseSchema("order", []byte(orderSchema))
		registry = prometheus.NewRegistry()
	})

	Context("with JSON Schema validation and RFC 9457 responses", func() {
		var handler http.Handler

		BeforeEach(func() {
			p := pipeline.MustNew(
				pipeline.WithErrorHandler(interceptor.New()),
				pipeline.WithFormatter(kiterrors.NewRFC9457("https://api.example.com/problems")),
				pipeline.WithRegisterer(registry),
			)
			handler = p.Handle(func(w http.ResponseWriter, r *http.Request) error {
				body, err := io.ReadAll(r.Body)
				if err != nil {
					return err
				}
				if err := validator.ValidateJSON(r.Context(), schema, body); err != nil {
					return err
				}
				w.WriteHeader(http.StatusCreated)

				return nil
			})
		})

		It("accepts a valid order", func() {
			w := post(handler, `{"sku": "abc-1", "quantity": 2}`)
			Expect(w.Code).To(Equal(http.StatusCreated))
		})

		It("reports a type mismatch as a bad request", func() {
			w := post(handler, `{"sku": 12, "quantity": 2}`)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(w.Header().Get("Content-Type")).To(HavePrefix("application/problem+json"))

			body := decode(w)
			Expect(body).To(HaveKeyWithValue("type", "https://api.example.com/problems/validation_error"))
			Expect(body).To(HaveKeyWithValue("kind", "bad_request"))
			Expect(body["errors"]).To(ContainElement(And(
				HaveKeyWithValue("path", "sku"),
				HaveKeyWithValue("code", "schema.type"),
			)))

			Expect(errorCount(registry, "400")).To(BeNumerically("==", 1))
		})

		It("reports malformed JSON as a validation failure", func() {
			w := post(handler, `{"sku":`)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(decode(w)["errors"]).To(ContainElement(HaveKeyWithValue("code", "json.syntax")))
		})
	})

	Context("with struct validation and JSON:API responses", func() {
		var handler http.Handler

		BeforeEach(func() {
			p := pipeline.MustNew(
				pipeline.WithErrorHandler(interceptor.New(interceptor.WithConverter(
					transform.New(transform.WithStatus(http.StatusUnprocessableEntity)),
				))),
				pipeline.WithFormatter(kiterrors.NewJSONAPI()),
			)
			handler = p.Handle(func(_ http.ResponseWriter, r *http.Request) error {
				var in signup
				if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
					return kiterrors.BadRequest("malformed body", kiterrors.WithCause(err))
				}

				return validator.ValidateStruct(r.Context(), &in)
			})
		})

		It("renders one JSON:API error per field", func() {
			w := post(handler, `{"email": "nope", "age": 12}`)

			Expect(w.Code).To(Equal(http.StatusUnprocessableEntity))
			Expect(w.Header().Get("Content-Type")).To(HavePrefix("application/vnd.api+json"))

			errs, ok := decode(w)["errors"].([]any)
			Expect(ok).To(BeTrue())
			Expect(errs).To(HaveLen(2))
		})

		It("leaves errors that are already structured alone", func() {
			w := post(handler, `not json`)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Context("when the converter fails", func() {
		It("forwards the fault and still answers", func() {
			p := pipeline.MustNew(pipeline.WithErrorHandler(interceptor.New(
				interceptor.WithConverterFunc(func(any) (any, error) {
					return nil, errors.New("converter unavailable")
				}),
			)), pipeline.WithFormatter(kiterrors.NewSimple()))

			w := post(p.Handle(func(http.ResponseWriter, *http.Request) error {
				return errors.New("Test error")
			}), `{}`)

			Expect(w.Code).To(Equal(http.StatusInternalServerError))
			Expect(decode(w)).To(HaveKeyWithValue("error", "converter unavailable"))
		})
	})
})

// errorCount reads errorkit_pipeline_errors_total for status from reg.
func errorCount(reg *prometheus.Registry, status string) float64 {
	families, err := reg.Gather()
	ExpectWithOffset(1, err).NotTo(HaveOccurred())

	for _, mf := range families {
		if mf.GetName() != "errorkit_pipeline_errors_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == "status" && lp.GetValue() == status {
					return m.GetCounter().GetValue()
				}
			}
		}
	}

	return 0
}
