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
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/neo4j/neo4j-go-resultstream/neo4j/config"
	"github.com/neo4j/neo4j-go-resultstream/neo4j/db"
	. "github.com/neo4j/neo4j-go-resultstream/neo4j/internal/testutil"
	"github.com/neo4j/neo4j-go-resultstream/neo4j/log"
	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

var testKeys = []string{"n"}

func recordEvents(values ...any) []StreamEvent {
	events := make([]StreamEvent, len(values))
	for i, value := range values {
		events[i] = StreamRecord(testKeys, value)
	}
	return events
}

func script(records []StreamEvent, terminal StreamEvent) []StreamEvent {
	events := append([]StreamEvent{StreamKeys(testKeys...)}, records...)
	return append(events, terminal)
}

func newHolder() *ConnectionHolderFake {
	return &ConnectionHolderFake{Conn: &ConnFake{ProtocolVersion: db.ProtocolVersion{Major: 5, Minor: 4}}}
}

func quiet(c *config.ResultConfig) {
	c.Log = log.ToVoid()
}

func newTestResult(events []StreamEvent, configurers ...func(*config.ResultConfig)) (*Result, *StreamFake, *ConnectionHolderFake) {
	stream := NewStreamFake(events...)
	holder := newHolder()
	result := NewResult(ResolvedStream(stream), "MATCH (n) RETURN n", map[string]any{"x": 1}, holder,
		append([]func(*config.ResultConfig){quiet}, configurers...)...)
	return result, stream, holder
}

// recordingLogger keeps warnings and errors in memory.
type recordingLogger struct {
	mu     sync.Mutex
	warns  []string
	errors []error
}

func (l *recordingLogger) Error(_, _ string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, err)
}

func (l *recordingLogger) Warnf(_, _ string, msg string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, fmt.Sprintf(msg, args...))
}

func (l *recordingLogger) Infof(string, string, string, ...any) {}

func (l *recordingLogger) Debugf(string, string, string, ...any) {}

func TestResultKeys(outer *testing.T) {
	ctx := context.Background()

	outer.Run("returns the keys", func(t *testing.T) {
		result, _, _ := newTestResult(script(recordEvents(1, 2), StreamCompleted(nil)))

		keys, err := result.Keys(ctx)

		AssertNoError(t, err)
		AssertDeepEquals(t, keys, testKeys)
	})

	outer.Run("caches the keys", func(t *testing.T) {
		result, stream, _ := newTestResult(script(recordEvents(1), StreamCompleted(nil)))

		_, _ = result.Keys(ctx)
		keys, err := result.Keys(ctx)

		AssertNoError(t, err)
		AssertDeepEquals(t, keys, testKeys)
		AssertIntEqual(t, stream.Subscribers(), 1)
	})

	outer.Run("returns empty keys for a stream without keys", func(t *testing.T) {
		result, _, _ := newTestResult([]StreamEvent{StreamCompleted(nil)})

		keys, err := result.Keys(ctx)

		AssertNoError(t, err)
		AssertLen(t, keys, 0)
	})

	outer.Run("returns the stream error", func(t *testing.T) {
		boom := &db.Neo4jError{Code: "Neo.ClientError.Statement.SyntaxError", Msg: "boom"}
		result, _, _ := newTestResult([]StreamEvent{StreamFailed(boom)})

		keys, err := result.Keys(ctx)

		AssertNil(t, keys)
		AssertNeo4jError(t, err)
	})

	outer.Run("does not settle when the wait is interrupted", func(t *testing.T) {
		future, resolve, _ := PendingStream()
		result := NewResult(future, "RETURN 1", nil, nil, quiet)
		interrupted, cancel := context.WithCancel(ctx)
		cancel()

		_, err := result.Keys(interrupted)

		AssertErrorIs(t, err, context.Canceled)
		AssertTrue(t, result.IsOpen())
		resolve(NewStreamFake(script(nil, StreamCompleted(nil))...))
		keys, err := result.Keys(ctx)
		AssertNoError(t, err)
		AssertDeepEquals(t, keys, testKeys)
	})
}

func TestResultAwait(outer *testing.T) {
	ctx := context.Background()

	outer.Run("aggregates keys, records and summary", func(t *testing.T) {
		result, _, holder := newTestResult(script(recordEvents(1, 2, 3), StreamCompleted(map[string]any{"type": "r"})))

		aggregate, err := result.Await(ctx)

		AssertNoError(t, err)
		AssertDeepEquals(t, aggregate.Keys, testKeys)
		AssertLen(t, aggregate.Records, 3)
		AssertDeepEquals(t, aggregate.Records[2].Values, []any{3})
		AssertDeepEquals(t, aggregate.Summary.StatementType(), StatementTypeReadOnly)
		AssertIntEqual(t, holder.ReleaseCalls(), 1)
		AssertFalse(t, result.IsOpen())
	})

	outer.Run("shares one aggregate", func(t *testing.T) {
		result, stream, _ := newTestResult(script(recordEvents(1), StreamCompleted(nil)))

		first, err := result.Await(ctx)
		AssertNoError(t, err)
		second, err := result.Await(ctx)
		AssertNoError(t, err)

		AssertTrue(t, first == second)
		AssertIntEqual(t, stream.Subscribers(), 1)
	})

	outer.Run("summary is identical to the aggregated summary", func(t *testing.T) {
		result, _, _ := newTestResult(script(recordEvents(1), StreamCompleted(nil)))

		aggregate, err := result.Await(ctx)
		AssertNoError(t, err)
		summary, err := result.Summary(ctx)
		AssertNoError(t, err)

		AssertTrue(t, aggregate.Summary == summary)
	})

	outer.Run("collects the records", func(t *testing.T) {
		result, _, _ := newTestResult(script(recordEvents("a", "b"), StreamCompleted(nil)))

		records, err := result.Collect(ctx)

		AssertNoError(t, err)
		AssertLen(t, records, 2)
		AssertDeepEquals(t, records[0].AsMap(), map[string]any{"n": "a"})
	})

	outer.Run("does not subscribe once failed", func(t *testing.T) {
		boom := errors.New("boom")
		result, stream, _ := newTestResult([]StreamEvent{StreamFailed(boom)})
		_, summaryErr := result.Summary(ctx)

		_, err := result.Await(ctx)

		AssertSameError(t, err, summaryErr)
		AssertIntEqual(t, stream.Subscribers(), 1)
	})
}

func TestResultFailure(outer *testing.T) {
	ctx := context.Background()

	outer.Run("every mode reports the same error and the connection is released once", func(t *testing.T) {
		boom := &db.Neo4jError{Code: "Neo.TransientError.General.DatabaseUnavailable", Msg: "gone"}
		result, _, holder := newTestResult(script(recordEvents(1), StreamFailed(boom)))

		_, awaitErr := result.Await(ctx)
		_, summaryErr := result.Summary(ctx)
		_, nextErr := result.Next(ctx)
		var observed error
		result.Subscribe(ctx, ResultObserver{OnError: func(err error) { observed = err }})

		var resultErr *ResultError
		AssertTrue(t, errors.As(awaitErr, &resultErr))
		AssertErrorIs(t, awaitErr, boom)
		AssertSameError(t, summaryErr, awaitErr)
		AssertSameError(t, nextErr, awaitErr)
		AssertSameError(t, observed, awaitErr)
		AssertIntEqual(t, holder.ReleaseCalls(), 1)
		AssertTrue(t, IsRetryable(awaitErr))
		AssertFalse(t, result.IsOpen())
	})

	outer.Run("keys known before the failure are still returned", func(t *testing.T) {
		result, _, _ := newTestResult(script(nil, StreamFailed(errors.New("boom"))))
		_, err := result.Await(ctx)
		AssertError(t, err)

		keys, err := result.Keys(ctx)

		AssertNoError(t, err)
		AssertDeepEquals(t, keys, testKeys)
	})

	outer.Run("stream acquisition failure", func(t *testing.T) {
		future, _, reject := PendingStream()
		holder := newHolder()
		result := NewResult(future, "RETURN 1", nil, holder, quiet)
		refused := errors.New("connection refused")
		reject(refused)

		_, err := result.Await(ctx)

		AssertErrorIs(t, err, refused)
		var resultErr *ResultError
		AssertTrue(t, errors.As(err, &resultErr))
		AssertTrue(t, strings.HasSuffix(resultErr.CallSite.File, "result_test.go"))
		AssertIntEqual(t, holder.ReleaseCalls(), 1)
		_, err = result.Keys(ctx)
		AssertSameError(t, err, resultErr)
	})

	outer.Run("releases the connection before the error is observed", func(t *testing.T) {
		holder := newHolder()
		released := false
		holder.ReleaseHook = func() { released = true }
		stream := NewStreamFake(StreamFailed(errors.New("boom")))
		result := NewResult(ResolvedStream(stream), "RETURN 1", nil, holder, quiet)

		var releasedFirst bool
		result.Subscribe(ctx, ResultObserver{OnError: func(error) { releasedFirst = released }})

		AssertTrue(t, releasedFirst)
	})

	outer.Run("logs errors nobody handles", func(t *testing.T) {
		logger := &recordingLogger{}
		result, _, _ := newTestResult([]StreamEvent{StreamFailed(errors.New("boom"))},
			func(c *config.ResultConfig) { c.Log = logger })

		result.Subscribe(ctx, ResultObserver{})

		AssertLen(t, logger.warns, 1)
		AssertStringContain(t, logger.warns[0], "boom")
	})

	outer.Run("logs release failures", func(t *testing.T) {
		logger := &recordingLogger{}
		stream := NewStreamFake(script(nil, StreamCompleted(nil))...)
		holder := newHolder()
		holder.ReleaseErr = errors.New("release failed")
		result := NewResult(ResolvedStream(stream), "RETURN 1", nil, holder,
			func(c *config.ResultConfig) { c.Log = logger })

		_, err := result.Summary(ctx)

		AssertNoError(t, err)
		AssertLen(t, logger.errors, 1)
	})
}

func TestResultSummary(outer *testing.T) {
	ctx := context.Background()

	outer.Run("discards the remaining records", func(t *testing.T) {
		result, stream, holder := newTestResult(script(recordEvents(1, 2, 3), StreamCompleted(map[string]any{"type": "w"})))

		summary, err := result.Summary(ctx)

		AssertNoError(t, err)
		AssertIntEqual(t, stream.CancelCalls(), 1)
		AssertDeepEquals(t, summary.StatementType(), StatementTypeWriteOnly)
		AssertStringEqual(t, summary.Query().Text(), "MATCH (n) RETURN n")
		AssertDeepEquals(t, summary.Query().Parameters(), map[string]any{"x": 1})
		AssertDeepEquals(t, summary.Server().ProtocolVersion(), db.ProtocolVersion{Major: 5, Minor: 4})
		AssertIntEqual(t, holder.GetCalls(), 1)
		AssertIntEqual(t, holder.ReleaseCalls(), 1)
	})

	outer.Run("an interrupted wait does not count as discarding", func(t *testing.T) {
		future, resolve, _ := PendingStream()
		result := NewResult(future, "RETURN 1", nil, newHolder(), quiet)
		interrupted, cancel := context.WithCancel(ctx)
		cancel()

		_, err := result.Summary(interrupted)
		AssertErrorIs(t, err, context.Canceled)

		stream := NewStreamFake(script(nil, StreamCompleted(nil))...)
		resolve(stream)
		aggregate, err := result.Await(ctx)

		AssertNoError(t, err)
		AssertIntEqual(t, stream.CancelCalls(), 0)
		statuses := aggregate.Summary.GqlStatusObjects()
		AssertLen(t, statuses, 1)
		AssertStringEqual(t, statuses[0].GqlStatus(), "02000")
	})

	outer.Run("tolerates a missing connection", func(t *testing.T) {
		stream := NewStreamFake(script(nil, StreamCompleted(nil))...)
		holder := newHolder()
		holder.GetErr = errors.New("no connection")
		result := NewResult(ResolvedStream(stream), "RETURN 1", nil, holder, quiet)

		summary, err := result.Summary(ctx)

		AssertNoError(t, err)
		AssertDeepEquals(t, summary.Server().ProtocolVersion(), db.ProtocolVersion{})
		AssertIntEqual(t, holder.ReleaseCalls(), 1)
	})

	outer.Run("works without connection holder", func(t *testing.T) {
		stream := NewStreamFake(script(recordEvents(1), StreamCompleted(nil))...)
		result := NewResult(ResolvedStream(stream), "RETURN 1", nil, nil, quiet)

		aggregate, err := result.Await(ctx)

		AssertNoError(t, err)
		AssertDeepEquals(t, aggregate.Summary.Server().ProtocolVersion(), db.ProtocolVersion{})
	})

	outer.Run("polyfills statuses from what was streamed", func(t *testing.T) {
		result, _, _ := newTestResult(script(recordEvents(1), StreamCompleted(map[string]any{
			"notifications": []any{
				map[string]any{"code": "Neo.ClientNotification.Statement.CartesianProduct", "severity": "WARNING"},
			},
		})))

		aggregate, err := result.Await(ctx)

		AssertNoError(t, err)
		statuses := aggregate.Summary.GqlStatusObjects()
		AssertLen(t, statuses, 2)
		AssertStringEqual(t, statuses[0].GqlStatus(), "01N42")
		AssertStringEqual(t, statuses[1].GqlStatus(), "00000")
	})
}

func TestResultSubscribe(outer *testing.T) {
	ctx := context.Background()

	outer.Run("delivers keys, records and summary", func(t *testing.T) {
		result, _, holder := newTestResult(script(recordEvents(1, 2), StreamCompleted(map[string]any{"type": "r"})))
		var keys []string
		var records []*Record
		var summary ResultSummary

		result.Subscribe(ctx, ResultObserver{
			OnKeys:      func(k []string) { keys = k },
			OnNext:      func(record *Record) { records = append(records, record) },
			OnCompleted: func(s ResultSummary) { summary = s },
			OnError:     func(err error) { t.Errorf("unexpected error %s", err) },
		})

		AssertDeepEquals(t, keys, testKeys)
		AssertLen(t, records, 2)
		AssertNotNil(t, summary)
		AssertDeepEquals(t, summary.StatementType(), StatementTypeReadOnly)
		AssertIntEqual(t, holder.ReleaseCalls(), 1)
	})

	outer.Run("replays a settled result", func(t *testing.T) {
		result, _, holder := newTestResult(script(recordEvents(1, 2), StreamCompleted(nil)))
		aggregate, err := result.Await(ctx)
		AssertNoError(t, err)
		var records int
		var summary ResultSummary

		result.Subscribe(ctx, ResultObserver{
			OnNext:      func(*Record) { records++ },
			OnCompleted: func(s ResultSummary) { summary = s },
		})

		AssertIntEqual(t, records, 2)
		AssertTrue(t, summary == aggregate.Summary)
		AssertIntEqual(t, holder.ReleaseCalls(), 1)
	})

	outer.Run("reports an interrupted wait to the observer only", func(t *testing.T) {
		future, _, _ := PendingStream()
		result := NewResult(future, "RETURN 1", nil, nil, quiet)
		interrupted, cancel := context.WithCancel(ctx)
		cancel()
		var observed error

		result.Subscribe(interrupted, ResultObserver{OnError: func(err error) { observed = err }})

		AssertErrorIs(t, observed, context.Canceled)
		AssertTrue(t, result.IsOpen())
	})
}

func TestResultIteration(outer *testing.T) {
	ctx := context.Background()

	outer.Run("steps through records then stays done", func(t *testing.T) {
		result, _, _ := newTestResult(script(recordEvents(1, 2, 3), StreamCompleted(nil)))

		for i := 1; i <= 3; i++ {
			step, err := result.Next(ctx)
			AssertNoError(t, err)
			AssertFalse(t, step.Done)
			AssertDeepEquals(t, step.Record.Values, []any{i})
		}
		done, err := result.Next(ctx)
		AssertNoError(t, err)
		AssertTrue(t, done.Done)
		AssertNotNil(t, done.Summary)
		again, err := result.Next(ctx)
		AssertNoError(t, err)
		AssertTrue(t, again.Done)
		AssertTrue(t, again.Summary == done.Summary)
	})

	outer.Run("peek does not consume", func(t *testing.T) {
		result, _, _ := newTestResult(script(recordEvents(1, 2), StreamCompleted(nil)))

		peeked, err := result.Peek(ctx)
		AssertNoError(t, err)
		peekedAgain, err := result.Peek(ctx)
		AssertNoError(t, err)
		next, err := result.Next(ctx)
		AssertNoError(t, err)

		AssertTrue(t, peeked.Record == next.Record)
		AssertTrue(t, peekedAgain.Record == next.Record)
		second, err := result.Next(ctx)
		AssertNoError(t, err)
		AssertDeepEquals(t, second.Record.Values, []any{2})
	})

	outer.Run("peek at the end", func(t *testing.T) {
		result, _, _ := newTestResult(script(nil, StreamCompleted(nil)))

		peeked, err := result.Peek(ctx)
		AssertNoError(t, err)
		next, err := result.Next(ctx)
		AssertNoError(t, err)

		AssertTrue(t, peeked.Done)
		AssertTrue(t, next.Done)
		AssertTrue(t, peeked.Summary == next.Summary)
	})

	outer.Run("return stops iteration and discards once", func(t *testing.T) {
		result, stream, _ := newTestResult(script(recordEvents(1, 2, 3), StreamCompleted(nil)))
		_, err := result.Next(ctx)
		AssertNoError(t, err)

		returned := result.Return(nil)
		AssertTrue(t, returned.Done)
		next, err := result.Next(ctx)
		AssertNoError(t, err)
		AssertTrue(t, next.Done)
		result.Return(nil)

		AssertIntEqual(t, stream.CancelCalls(), 1)
	})

	outer.Run("return does not wait for a pending stream", func(t *testing.T) {
		future, resolve, _ := PendingStream()
		result := NewResult(future, "RETURN 1", nil, nil, quiet)
		stream := NewStreamFake(script(recordEvents(1, 2), StreamCompleted(nil))...)
		nexts := make(chan Step, 1)
		go func() {
			step, _ := result.Next(ctx)
			nexts <- step
		}()
		time.Sleep(10 * time.Millisecond)

		returns := make(chan Step, 1)
		go func() {
			returns <- result.Return(nil)
		}()
		select {
		case returned := <-returns:
			AssertTrue(t, returned.Done)
		case <-time.After(time.Second):
			t.Fatal("Return waited for the stream")
		}

		resolve(stream)
		select {
		case next := <-nexts:
			AssertTrue(t, next.Done)
		case <-time.After(time.Second):
			t.Fatal("Next did not finish once the stream resolved")
		}
		deadline := time.Now().Add(time.Second)
		for stream.CancelCalls() == 0 && time.Now().Before(deadline) {
			time.Sleep(time.Millisecond)
		}
		AssertIntEqual(t, stream.CancelCalls(), 1)
	})

	outer.Run("a stream error is returned by every following call", func(t *testing.T) {
		boom := errors.New("boom")
		result, _, holder := newTestResult(script(recordEvents(1), StreamFailed(boom)))

		step, err := result.Next(ctx)
		AssertNoError(t, err)
		AssertFalse(t, step.Done)
		_, err = result.Next(ctx)
		AssertErrorIs(t, err, boom)
		_, again := result.Next(ctx)
		AssertSameError(t, again, err)
		_, peeked := result.Peek(ctx)
		AssertSameError(t, peeked, err)
		AssertIntEqual(t, holder.ReleaseCalls(), 1)
	})

	outer.Run("pauses and resumes around the watermarks", func(t *testing.T) {
		result, stream, _ := newTestResult(script(recordEvents(1, 2, 3, 4, 5), StreamCompleted(nil)),
			func(c *config.ResultConfig) {
				c.HighRecordWatermark = 3
				c.LowRecordWatermark = 1
			})

		for i := 0; i < 5; i++ {
			step, err := result.Next(ctx)
			AssertNoError(t, err)
			AssertFalse(t, step.Done)
		}
		done, err := result.Next(ctx)
		AssertNoError(t, err)
		AssertTrue(t, done.Done)

		// subscribed paused, paused again over the high watermark
		AssertIntEqual(t, stream.PauseCalls(), 2)
		// first pull, then again at the low watermark
		AssertIntEqual(t, stream.ResumeCalls(), 2)
	})

	outer.Run("interrupted wait consumes nothing", func(t *testing.T) {
		result, stream, _ := newTestResult([]StreamEvent{StreamKeys(testKeys...)})
		interrupted, cancel := context.WithCancel(ctx)
		cancel()

		_, err := result.Next(interrupted)
		AssertErrorIs(t, err, context.Canceled)

		stream.Append(recordEvents(7)...)
		step, err := result.Next(ctx)
		AssertNoError(t, err)
		AssertDeepEquals(t, step.Record.Values, []any{7})
	})

	outer.Run("ranges over all records", func(t *testing.T) {
		result, _, _ := newTestResult(script(recordEvents(1, 2, 3), StreamCompleted(nil)))
		var values []any

		for record, err := range result.All(ctx) {
			AssertNoError(t, err)
			values = append(values, record.Values[0])
		}

		AssertDeepEquals(t, values, []any{1, 2, 3})
	})

	outer.Run("breaking out of the range returns", func(t *testing.T) {
		result, stream, _ := newTestResult(script(recordEvents(1, 2, 3), StreamCompleted(nil)))

		for range result.All(ctx) {
			break
		}

		AssertIntEqual(t, stream.CancelCalls(), 1)
		step, err := result.Next(ctx)
		AssertNoError(t, err)
		AssertTrue(t, step.Done)
	})
}

func TestResultSingle(outer *testing.T) {
	ctx := context.Background()

	outer.Run("returns the only record", func(t *testing.T) {
		result, _, _ := newTestResult(script(recordEvents(42), StreamCompleted(nil)))

		record, err := result.Single(ctx)

		AssertNoError(t, err)
		AssertDeepEquals(t, record.Values, []any{42})
	})

	outer.Run("fails without records", func(t *testing.T) {
		result, _, _ := newTestResult(script(nil, StreamCompleted(nil)))

		record, err := result.Single(ctx)

		AssertNil(t, record)
		AssertSameType(t, err, &UsageError{})
	})

	outer.Run("fails with more records and discards them", func(t *testing.T) {
		result, stream, _ := newTestResult(script(recordEvents(1, 2, 3), StreamCompleted(nil)))

		record, err := result.Single(ctx)

		AssertNil(t, record)
		AssertSameType(t, err, &UsageError{})
		AssertIntEqual(t, stream.CancelCalls(), 1)
	})
}

func TestResultClose(outer *testing.T) {
	ctx := context.Background()

	outer.Run("closes an open stream", func(t *testing.T) {
		stream := NewStreamFake(StreamKeys(testKeys...))
		result := NewResult(ResolvedStream(stream), "RETURN 1", nil, nil, quiet)

		AssertNoError(t, result.Close(ctx))
		AssertIntEqual(t, stream.CloseCalls(), 1)
	})

	outer.Run("does nothing once settled", func(t *testing.T) {
		result, stream, _ := newTestResult(script(nil, StreamCompleted(nil)))
		_, err := result.Summary(ctx)
		AssertNoError(t, err)

		AssertNoError(t, result.Close(ctx))
		AssertIntEqual(t, stream.CloseCalls(), 0)
	})

	outer.Run("reports close failures", func(t *testing.T) {
		stream := NewStreamFake(StreamKeys(testKeys...))
		stream.CloseErr = errors.New("close failed")
		result := NewResult(ResolvedStream(stream), "RETURN 1", nil, nil, quiet)

		AssertSameError(t, result.Close(ctx), stream.CloseErr)
	})
}

func TestResultCancel(outer *testing.T) {
	outer.Run("discards once the stream is available", func(t *testing.T) {
		future, resolve, _ := PendingStream()
		result := NewResult(future, "RETURN 1", nil, nil, quiet)
		stream := NewStreamFake(StreamKeys(testKeys...))

		result.cancel()
		resolve(stream)

		deadline := time.Now().Add(time.Second)
		for stream.CancelCalls() == 0 && time.Now().Before(deadline) {
			time.Sleep(time.Millisecond)
		}
		AssertIntEqual(t, stream.CancelCalls(), 1)
	})
}

func TestResultInstrumentation(outer *testing.T) {
	ctx := context.Background()

	outer.Run("records metrics and a span", func(t *testing.T) {
		registry := prometheus.NewRegistry()
		recorder := tracetest.NewSpanRecorder()
		provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
		result, _, _ := newTestResult(script(recordEvents(1, 2), StreamCompleted(nil)),
			func(c *config.ResultConfig) {
				c.MetricsRegisterer = registry
				c.TracerProvider = provider
			})

		_, err := result.Await(ctx)
		AssertNoError(t, err)

		settled, err := promtestutil.GatherAndCount(registry, "neo4j_result_settled_total")
		AssertNoError(t, err)
		AssertIntEqual(t, settled, 1)
		AssertLen(t, recorder.Ended(), 1)
	})
}
