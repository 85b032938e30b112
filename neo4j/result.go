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

package neo4j

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-resultstream/neo4j/config"
	"github.com/neo4j/neo4j-go-resultstream/neo4j/db"
	"github.com/neo4j/neo4j-go-resultstream/neo4j/internal/async"
	"github.com/neo4j/neo4j-go-resultstream/neo4j/internal/metadata"
	"github.com/neo4j/neo4j-go-resultstream/neo4j/internal/metrics"
	"github.com/neo4j/neo4j-go-resultstream/neo4j/internal/telemetry"
	"github.com/neo4j/neo4j-go-resultstream/neo4j/log"
	"go.opentelemetry.io/otel/trace"
)

// Result is the outcome of a query, streamed from the server. Its records and summary can
// be consumed in three ways: aggregated with Await, pushed to a ResultObserver with
// Subscribe, or pulled one by one with Next.
//
// Whatever the consumption mode, the summary is built once, the connection is released
// once and a failure is reported as the same *ResultError by every mode.
type Result struct {
	id       string
	stream   db.StreamFuture
	query    string
	params   map[string]any
	holder   db.ConnectionHolder
	config   *config.ResultConfig
	callSite CallSite
	metrics  *metrics.Metrics
	span     trace.Span
	created  time.Time

	mu        sync.Mutex
	keys      []string
	hasKeys   bool
	hadRecord bool
	discarded bool
	summary   ResultSummary
	err       *ResultError

	settleOnce sync.Once
	settled    chan struct{}

	aggregateOnce sync.Once
	aggregate     *async.Future[*QueryResult]

	iter iteration
}

// NewResult creates the result of query, streamed by the observer stream resolves to.
// holder lends the connection the query runs on, it may be nil.
func NewResult(stream StreamFuture, query string, params map[string]any, holder ConnectionHolder,
	configurers ...func(*config.ResultConfig)) *Result {
	conf := config.DefaultResultConfig()
	for _, configurer := range configurers {
		configurer(conf)
	}
	conf.Validate()
	if holder == nil {
		holder = emptyConnectionHolder{}
	}
	r := &Result{
		id:       uuid.NewString(),
		stream:   stream,
		query:    query,
		params:   params,
		holder:   holder,
		config:   conf,
		callSite: captureCallSite(),
		created:  time.Now(),
		settled:  make(chan struct{}),
	}
	m, err := metrics.New(conf.MetricsRegisterer)
	if err != nil {
		conf.Log.Warnf(log.Result, r.id, "metrics disabled: %s", err)
	}
	r.metrics = m
	r.span = telemetry.StartResult(conf.TracerProvider, r.id, query, r.callSite.String())
	conf.Log.Debugf(log.Result, r.id, "created at %s", r.callSite)
	return r
}

// Keys returns the keys of the records. It waits for the stream when the keys are not known yet.
func (r *Result) Keys(ctx context.Context) ([]string, error) {
	r.mu.Lock()
	switch {
	case r.hasKeys:
		keys := r.keys
		r.mu.Unlock()
		return keys, nil
	case r.err != nil:
		err := r.err
		r.mu.Unlock()
		return nil, err
	case r.summary != nil:
		r.mu.Unlock()
		return []string{}, nil
	}
	r.mu.Unlock()

	keys := async.NewFuture[[]string]()
	err := r.attach(ctx, ResultObserver{
		OnKeys:      func(k []string) { keys.Resolve(k) },
		OnCompleted: func(ResultSummary) { keys.Resolve(r.cachedKeys()) },
		OnError:     func(err error) { keys.Reject(err) },
	}, nil)
	if err != nil {
		return nil, err
	}
	return keys.Await(ctx)
}

// Summary discards the records not consumed yet and returns the summary.
func (r *Result) Summary(ctx context.Context) (ResultSummary, error) {
	if summary, ok, err := r.terminal(); ok {
		return summary, err
	}
	summary := async.NewFuture[ResultSummary]()
	err := r.attach(ctx, ResultObserver{
		OnCompleted: func(s ResultSummary) { summary.Resolve(s) },
		OnError:     func(err error) { summary.Reject(err) },
	}, r.discard)
	if err != nil {
		return nil, err
	}
	return summary.Await(ctx)
}

// Await waits for the whole result. All calls share the same aggregate, the context only
// bounds how long this call waits for it.
func (r *Result) Await(ctx context.Context) (*QueryResult, error) {
	return r.aggregated().Await(ctx)
}

// Collect waits for the whole result and returns its records.
func (r *Result) Collect(ctx context.Context) ([]*Record, error) {
	aggregate, err := r.Await(ctx)
	if err != nil {
		return nil, err
	}
	return aggregate.Records, nil
}

func (r *Result) aggregated() *async.Future[*QueryResult] {
	r.aggregateOnce.Do(func() {
		r.mu.Lock()
		err := r.err
		r.mu.Unlock()
		if err != nil {
			r.aggregate = async.Rejected[*QueryResult](err)
			return
		}
		r.aggregate = async.NewFuture[*QueryResult]()
		var recordsMu sync.Mutex
		records := make([]*Record, 0, 64)
		observer := ResultObserver{
			OnNext: func(record *Record) {
				recordsMu.Lock()
				records = append(records, record)
				recordsMu.Unlock()
			},
			OnCompleted: func(summary ResultSummary) {
				recordsMu.Lock()
				defer recordsMu.Unlock()
				r.aggregate.Resolve(&QueryResult{Keys: r.cachedKeys(), Records: records, Summary: summary})
			},
			OnError: func(err error) {
				r.aggregate.Reject(err)
			},
		}
		go func() {
			_ = r.attach(context.Background(), observer, nil)
		}()
	})
	return r.aggregate
}

// Subscribe attaches observer to the result once the stream is available, it blocks at most
// until then. A result that already failed reports its error to observer right away.
// When ctx is done before the stream is available, only observer is told so and the result
// is left untouched.
func (r *Result) Subscribe(ctx context.Context, observer ResultObserver) {
	r.mu.Lock()
	err := r.err
	r.mu.Unlock()
	if err != nil {
		r.deliverError(observer, err)
		return
	}
	if err := r.attach(ctx, observer, nil); err != nil {
		r.deliverError(observer, err)
	}
}

// Close closes the underlying stream unless the result already settled.
func (r *Result) Close(ctx context.Context) error {
	if !r.IsOpen() {
		return nil
	}
	stream, err := r.stream.Await(ctx)
	if err != nil {
		return err
	}
	return stream.Close(ctx)
}

// IsOpen is true until the result completed or failed.
func (r *Result) IsOpen() bool {
	select {
	case <-r.settled:
		return false
	default:
		return true
	}
}

// attach waits for the stream and subscribes the decorated observer to it, after running
// beforeSubscribe if any. A rejected stream is reported through the decorated observer.
// The returned error is set when ctx ended the wait, observer is not told.
func (r *Result) attach(ctx context.Context, observer ResultObserver, beforeSubscribe func(db.StreamObserver)) error {
	decorated := r.decorate(observer)
	stream, err := r.stream.Await(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return err
		}
		decorated.OnError(err)
		return nil
	}
	if beforeSubscribe != nil {
		beforeSubscribe(stream)
	}
	stream.Subscribe(decorated)
	return nil
}

// decorate wraps observer so that the first terminal event settles the result and every
// terminal event is replaced by the settled outcome.
func (r *Result) decorate(observer ResultObserver) db.ResultObserver {
	var records int
	onTerminal := func(meta map[string]any, err error) {
		r.settle(meta, err, records)
		summary, _, err := r.terminal()
		if err != nil {
			r.deliverError(observer, err)
			return
		}
		if observer.OnCompleted != nil {
			observer.OnCompleted(summary)
		}
	}
	return db.ResultObserver{
		OnKeys: func(keys []string) {
			r.mu.Lock()
			if !r.hasKeys {
				r.keys, r.hasKeys = keys, true
			}
			r.mu.Unlock()
			if observer.OnKeys != nil {
				observer.OnKeys(keys)
			}
		},
		OnNext: func(record *db.Record) {
			records++
			r.mu.Lock()
			r.hadRecord = true
			r.mu.Unlock()
			if observer.OnNext != nil {
				observer.OnNext(record)
			}
		},
		OnCompleted: func(meta map[string]any) {
			onTerminal(meta, nil)
		},
		OnError: func(err error) {
			onTerminal(nil, err)
		},
	}
}

func (r *Result) deliverError(observer ResultObserver, err error) {
	if observer.OnError != nil {
		observer.OnError(err)
		return
	}
	r.config.Log.Warnf(log.Result, r.id, "unhandled result error: %s", err)
}

// settle caches the outcome of the first terminal event and releases the connection.
// Concurrent terminal events wait for the first one to finish.
func (r *Result) settle(meta map[string]any, failure error, records int) {
	r.settleOnce.Do(func() {
		ctx := context.Background()
		if failure != nil {
			resultErr := wrapResultError(failure, r.callSite)
			r.releaseConnection(ctx)
			r.mu.Lock()
			r.err = resultErr
			r.mu.Unlock()
			r.config.Log.Debugf(log.Result, r.id, "failed: %s", failure)
			r.metrics.Settled(metrics.OutcomeFailure, time.Since(r.created))
			r.metrics.RecordsStreamed(records)
			telemetry.EndFailure(r.span, failure, int64(records))
			close(r.settled)
			return
		}

		protocol := r.protocolVersion(ctx)
		r.mu.Lock()
		observed := db.StreamSummary{HadKey: len(r.keys) > 0, HadRecord: r.hadRecord, Pulled: !r.discarded}
		r.mu.Unlock()
		sum := metadata.NewSummary(meta, protocol, observed)
		summary := newResultSummary(sum, r.query, r.params)
		r.mu.Lock()
		r.summary = summary
		r.mu.Unlock()
		r.metrics.Settled(metrics.OutcomeSuccess, time.Since(r.created))
		r.metrics.RecordsStreamed(records)
		telemetry.EndSuccess(r.span, summary.StatementType().String(), sum.Database, int64(records))
		close(r.settled)
	})
}

// protocolVersion borrows the connection to read its protocol version and releases it.
// The version is nil when no connection could be acquired.
func (r *Result) protocolVersion(ctx context.Context) *db.ProtocolVersion {
	var version *db.ProtocolVersion
	conn, err := r.holder.GetConnection(ctx)
	if err != nil {
		r.config.Log.Debugf(log.Result, r.id, "no connection for the summary: %s", err)
	} else if conn != nil {
		v := conn.Version()
		version = &v
	}
	r.releaseConnection(ctx)
	return version
}

func (r *Result) releaseConnection(ctx context.Context) {
	err := r.holder.ReleaseConnection(ctx)
	r.metrics.Released(err)
	if err != nil {
		r.config.Log.Error(log.Result, r.id, err)
	}
}

// terminal returns the settled outcome, ok is false while the result is open.
func (r *Result) terminal() (summary ResultSummary, ok bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, true, r.err
	}
	if r.summary != nil {
		return r.summary, true, nil
	}
	return nil, false, nil
}

func (r *Result) cachedKeys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.keys == nil {
		return []string{}
	}
	return r.keys
}

// cancel discards the records not received yet without waiting. When the stream is not
// available yet, the discard is sent once it is.
func (r *Result) cancel() {
	now, stop := context.WithCancel(context.Background())
	stop()
	stream, err := r.stream.Await(now)
	if err == nil {
		r.discard(stream)
		return
	}
	if !errors.Is(err, context.Canceled) {
		return
	}
	go func() {
		if stream, err := r.stream.Await(context.Background()); err == nil {
			r.discard(stream)
		}
	}()
}

// discard marks the result as discarded and tells the stream to drop the remaining records.
func (r *Result) discard(stream db.StreamObserver) {
	r.mu.Lock()
	r.discarded = true
	r.mu.Unlock()
	r.config.Log.Debugf(log.Result, r.id, "discarding remaining records")
	r.metrics.Signal(metrics.SignalDiscard)
	stream.Cancel()
}
