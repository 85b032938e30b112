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
	"iter"
	"sync"

	"github.com/neo4j/neo4j-go-resultstream/neo4j/db"
	"github.com/neo4j/neo4j-go-resultstream/neo4j/internal/metrics"
	"github.com/neo4j/neo4j-go-resultstream/neo4j/internal/stream"
	"github.com/neo4j/neo4j-go-resultstream/neo4j/log"
)

// iteration is the state of pulling records from a result.
type iteration struct {
	mu       sync.Mutex
	queue    *stream.Queue[ResultSummary]
	stream   db.StreamObserver
	paused   bool
	started  bool
	finished bool
	returned bool
	summary  ResultSummary
	err      error
}

// Next returns the next record, or the summary once all records have been consumed.
// After the end every call returns the same final step, after a failure the same error.
func (r *Result) Next(ctx context.Context) (Step, error) {
	return r.pull(ctx, true)
}

// Peek returns the step Next would return, without consuming it.
func (r *Result) Peek(ctx context.Context) (Step, error) {
	return r.pull(ctx, false)
}

// Return ends iteration early: following steps are all done with summary, and the
// records not received yet are discarded.
func (r *Result) Return(summary ResultSummary) Step {
	it := &r.iter
	it.mu.Lock()
	it.finished = true
	it.summary = summary
	alreadyReturned := it.returned
	it.returned = true
	it.mu.Unlock()
	if !alreadyReturned {
		r.cancel()
	}
	return Step{Done: true, Summary: summary}
}

// All iterates over the remaining records. Breaking out of the loop ends the iteration
// the way Return does. An error is yielded once, as the last element.
func (r *Result) All(ctx context.Context) iter.Seq2[*Record, error] {
	return func(yield func(*Record, error) bool) {
		for {
			step, err := r.Next(ctx)
			if err != nil {
				yield(nil, err)
				return
			}
			if step.Done {
				return
			}
			if !yield(step.Record, nil) {
				r.Return(nil)
				return
			}
		}
	}
}

// Single returns one and only one record from the stream.
// If the result stream contains zero or more than one records, error is returned.
func (r *Result) Single(ctx context.Context) (*Record, error) {
	step, err := r.Next(ctx)
	if err != nil {
		return nil, err
	}
	if step.Done {
		return nil, &UsageError{Message: "Result contains no more records"}
	}
	single := step.Record

	// Probe for more records
	next, err := r.Next(ctx)
	if err != nil {
		return nil, err
	}
	if !next.Done {
		r.Return(nil)
		return nil, &UsageError{Message: "Result contains more than one record"}
	}
	return single, nil
}

func (r *Result) pull(ctx context.Context, consume bool) (Step, error) {
	it := &r.iter
	it.mu.Lock()
	if step, ended, err := it.ended(); ended {
		it.mu.Unlock()
		return step, err
	}
	subscribed := it.queue != nil
	it.mu.Unlock()

	// The stream is awaited without the iteration lock so Return never waits for it.
	if !subscribed {
		if _, err := r.stream.Await(ctx); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
				return Step{}, err
			}
		}
	}

	it.mu.Lock()
	if step, ended, err := it.ended(); ended {
		it.mu.Unlock()
		return step, err
	}
	if it.queue == nil {
		if _, _, err := r.terminal(); err != nil {
			it.err = err
			it.mu.Unlock()
			return Step{}, err
		}
	}
	if err := r.startIteration(ctx); err != nil {
		it.mu.Unlock()
		return Step{}, err
	}
	r.flowControl()
	queue := it.queue
	it.mu.Unlock()

	var item stream.Item[ResultSummary]
	var err error
	if consume {
		item, err = queue.Dequeue(ctx)
	} else {
		item, err = queue.Head(ctx)
	}

	switch {
	case errors.Is(err, stream.ErrConcurrentDequeue):
		return Step{}, &UsageError{Message: "Result is already being iterated"}
	case err != nil && item.Err == nil:
		// the wait was interrupted, nothing was consumed
		return Step{}, err
	}

	it.mu.Lock()
	defer it.mu.Unlock()
	if it.finished {
		return Step{Done: true, Summary: it.summary}, nil
	}
	if err != nil {
		it.err = err
		return Step{}, err
	}
	if item.Done {
		if consume {
			it.finished = true
			it.summary = item.Summary
		}
		return Step{Done: true, Summary: item.Summary}, nil
	}
	return Step{Record: item.Record}, nil
}

// ended returns the step every call returns once iteration failed or finished.
// Must be called with the iteration lock held.
func (it *iteration) ended() (Step, bool, error) {
	if it.err != nil {
		return Step{}, true, it.err
	}
	if it.finished {
		return Step{Done: true, Summary: it.summary}, true, nil
	}
	return Step{}, false, nil
}

// startIteration subscribes the iteration queue, paused, on first use.
// Must be called with the iteration lock held.
func (r *Result) startIteration(ctx context.Context) error {
	it := &r.iter
	if it.queue != nil {
		return nil
	}
	queue := stream.NewQueue[ResultSummary]()
	err := r.attach(ctx, ResultObserver{
		OnNext:      queue.OnNext,
		OnCompleted: queue.OnCompleted,
		OnError:     queue.OnError,
	}, func(s db.StreamObserver) {
		s.Pause()
		it.stream = s
		it.paused = true
	})
	if err != nil {
		return err
	}
	it.queue = queue
	return nil
}

// flowControl pauses the stream when enough records are buffered and resumes it once the
// buffer drained, or on the first pull. Must be called with the iteration lock held.
func (r *Result) flowControl() {
	it := &r.iter
	if it.stream == nil {
		// stream failed before it could be subscribed
		return
	}
	size := it.queue.Size()
	switch {
	case size >= r.config.HighRecordWatermark && !it.paused:
		it.paused = true
		r.config.Log.Debugf(log.Result, r.id, "pausing stream with %d buffered records", size)
		r.metrics.Signal(metrics.SignalPause)
		it.stream.Pause()
	case (size <= r.config.LowRecordWatermark || !it.started) && it.paused:
		it.paused = false
		r.config.Log.Debugf(log.Result, r.id, "resuming stream with %d buffered records", size)
		r.metrics.Signal(metrics.SignalResume)
		it.stream.Resume()
	}
	it.started = true
}
