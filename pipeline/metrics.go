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
	stderrors "errors"

	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	errors *prometheus.CounterVec
	panics prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "errorkit",
			Subsystem: "pipeline",
			Name:      "errors_total",
			Help:      "Error responses written by the pipeline, by HTTP status.",
		}, []string{"status"}),
		panics: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "errorkit",
			Subsystem: "pipeline",
			Name:      "panics_total",
			Help:      "Panics recovered from request handlers.",
		}),
	}

	if reg == nil {
		return m, nil
	}

	var err error
	if m.errors, err = register(reg, m.errors); err != nil {
		return nil, err
	}
	if m.panics, err = register(reg, m.panics); err != nil {
		return nil, err
	}

	return m, nil
}

// register registers c, reusing an identical collector that is already
// registered so several pipelines can share one registry.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if stderrors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}

		return c, err
	}

	return c, nil
}
