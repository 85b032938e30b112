/*
 * Copyright (c) "Neo4j"
 * Neo4j Sweden AB [https://neo4j.com]
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     https://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package metrics holds the prometheus collectors of result streaming.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "neo4j_result"

// Outcomes of a settled result
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Flow control signals
const (
	SignalPause   = "pause"
	SignalResume  = "resume"
	SignalDiscard = "discard"
)

// Buckets of the time to settle histogram, in milliseconds
var settleBuckets = []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000}

// Metrics records result streaming activity. A nil *Metrics records nothing.
type Metrics struct {
	recordsStreamed prometheus.Counter
	resultsSettled  *prometheus.CounterVec
	releases        *prometheus.CounterVec
	flowControl     *prometheus.CounterVec
	settleDuration  prometheus.Histogram
}

// New registers the collectors with registerer, collectors registered earlier with the same
// registerer are reused. A nil registerer disables metrics.
func New(registerer prometheus.Registerer) (*Metrics, error) {
	if registerer == nil {
		return nil, nil
	}
	m := &Metrics{
		recordsStreamed: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "records_streamed_total",
				Help:      "Total number of records delivered to consumers",
			},
		),
		resultsSettled: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "settled_total",
				Help:      "Total number of results settled, by outcome",
			},
			[]string{"outcome"},
		),
		releases: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "connection_releases_total",
				Help:      "Total number of connection releases, by outcome",
			},
			[]string{"outcome"},
		),
		flowControl: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "flow_control_signals_total",
				Help:      "Total number of flow control signals sent into streams",
			},
			[]string{"signal"},
		),
		settleDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "settle_duration_milliseconds",
				Help:      "Time from result creation to settlement in milliseconds",
				Buckets:   settleBuckets,
			},
		),
	}
	var err error
	if m.recordsStreamed, err = register(registerer, m.recordsStreamed); err != nil {
		return nil, err
	}
	if m.resultsSettled, err = register(registerer, m.resultsSettled); err != nil {
		return nil, err
	}
	if m.releases, err = register(registerer, m.releases); err != nil {
		return nil, err
	}
	if m.flowControl, err = register(registerer, m.flowControl); err != nil {
		return nil, err
	}
	if m.settleDuration, err = register(registerer, m.settleDuration); err != nil {
		return nil, err
	}
	return m, nil
}

func register[C prometheus.Collector](registerer prometheus.Registerer, collector C) (C, error) {
	err := registerer.Register(collector)
	if err == nil {
		return collector, nil
	}
	var already prometheus.AlreadyRegisteredError
	if errors.As(err, &already) {
		if existing, ok := already.ExistingCollector.(C); ok {
			return existing, nil
		}
	}
	return collector, err
}

// RecordsStreamed adds the records delivered by the subscription that settled a result.
func (m *Metrics) RecordsStreamed(count int) {
	if m == nil || count <= 0 {
		return
	}
	m.recordsStreamed.Add(float64(count))
}

// Settled records the outcome of a result and the time elapsed since it was created.
func (m *Metrics) Settled(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.resultsSettled.WithLabelValues(outcome).Inc()
	m.settleDuration.Observe(float64(elapsed) / float64(time.Millisecond))
}

func (m *Metrics) Released(err error) {
	if m == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	m.releases.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Signal(signal string) {
	if m == nil {
		return
	}
	m.flowControl.WithLabelValues(signal).Inc()
}
