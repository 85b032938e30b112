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

package stream

import (
	"container/list"
	"context"
	"errors"
	"sync"

	"github.com/neo4j/neo4j-go-resultstream/neo4j/db"
)

var ErrConcurrentDequeue = errors.New("another dequeue is already waiting on this queue")

// Item is one buffered entry: a record, or the terminal summary, or the terminal error.
type Item[S any] struct {
	Record  *db.Record
	Summary S
	Err     error
	Done    bool
}

// Queue buffers the events pushed by a result stream until they are pulled.
// At most one puller may wait at a time, a push either hands its entry over to the
// waiting puller or appends it to the buffer.
type Queue[S any] struct {
	mu     sync.Mutex
	buffer list.List // List[Item[S]]
	waiter chan Item[S]
}

func NewQueue[S any]() *Queue[S] {
	return &Queue[S]{}
}

func (q *Queue[S]) OnNext(record *db.Record) {
	q.push(Item[S]{Record: record})
}

func (q *Queue[S]) OnCompleted(summary S) {
	q.push(Item[S]{Summary: summary, Done: true})
}

func (q *Queue[S]) OnError(err error) {
	q.push(Item[S]{Err: err, Done: true})
}

// Size returns the number of buffered entries, a waiting puller is not counted.
func (q *Queue[S]) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.buffer.Len()
}

// Dequeue removes and returns the next entry, waiting for one if the buffer is empty.
// A terminal error entry is returned as error.
func (q *Queue[S]) Dequeue(ctx context.Context) (Item[S], error) {
	item, err := q.pull(ctx)
	if err != nil {
		return item, err
	}
	return item, item.Err
}

// Head returns the next entry without removing it.
func (q *Queue[S]) Head(ctx context.Context) (Item[S], error) {
	item, err := q.pull(ctx)
	if err != nil {
		return item, err
	}
	q.pushFront(item)
	return item, item.Err
}

func (q *Queue[S]) push(item Item[S]) {
	q.mu.Lock()
	if waiter := q.waiter; waiter != nil {
		q.waiter = nil
		q.mu.Unlock()
		waiter <- item
		return
	}
	q.buffer.PushBack(item)
	q.mu.Unlock()
}

func (q *Queue[S]) pushFront(item Item[S]) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.buffer.PushFront(item)
}

// pull only fails when the context is done or when another pull is waiting.
func (q *Queue[S]) pull(ctx context.Context) (Item[S], error) {
	q.mu.Lock()
	if front := q.buffer.Front(); front != nil {
		item := q.buffer.Remove(front).(Item[S])
		q.mu.Unlock()
		return item, nil
	}
	if q.waiter != nil {
		q.mu.Unlock()
		return Item[S]{}, ErrConcurrentDequeue
	}
	waiter := make(chan Item[S], 1)
	q.waiter = waiter
	q.mu.Unlock()

	select {
	case item := <-waiter:
		return item, nil
	case <-ctx.Done():
		q.mu.Lock()
		if q.waiter == waiter {
			q.waiter = nil
			q.mu.Unlock()
			return Item[S]{}, ctx.Err()
		}
		q.mu.Unlock()
		// A push claimed the waiter, keep its entry for the next pull
		q.pushFront(<-waiter)
		return Item[S]{}, ctx.Err()
	}
}
