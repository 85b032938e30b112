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

package testutil

import (
	"context"
	"sync"

	"github.com/neo4j/neo4j-go-resultstream/neo4j/db"
)

// StreamEvent is one scripted event of a StreamFake.
type StreamEvent struct {
	Keys      []string
	Record    *db.Record
	Completed map[string]any
	Err       error
}

func StreamKeys(keys ...string) StreamEvent {
	return StreamEvent{Keys: keys}
}

func StreamRecord(keys []string, values ...any) StreamEvent {
	return StreamEvent{Record: &db.Record{Keys: keys, Values: values}}
}

func StreamCompleted(metadata map[string]any) StreamEvent {
	if metadata == nil {
		metadata = map[string]any{}
	}
	return StreamEvent{Completed: metadata}
}

func StreamFailed(err error) StreamEvent {
	return StreamEvent{Err: err}
}

// StreamFake is a db.StreamObserver playing a script of events. Events are delivered
// synchronously from Subscribe, Resume, Cancel or Append, whichever call finds the stream
// unpaused. Subscribers joining late are replayed what was delivered so far.
type StreamFake struct {
	mu         sync.Mutex
	script     []StreamEvent
	pos        int
	paused     bool
	pumping    bool
	subscribed bool

	deliverMu   sync.Mutex
	delivered   []StreamEvent
	subscribers []db.ResultObserver

	pauseCalls  int
	resumeCalls int
	cancelCalls int
	closeCalls  int
	CloseErr    error
}

func NewStreamFake(script ...StreamEvent) *StreamFake {
	return &StreamFake{script: script}
}

func (s *StreamFake) Subscribe(observer db.ResultObserver) {
	s.deliverMu.Lock()
	for _, event := range s.delivered {
		deliver(observer, event)
	}
	s.subscribers = append(s.subscribers, observer)
	s.deliverMu.Unlock()

	s.mu.Lock()
	s.subscribed = true
	s.mu.Unlock()
	s.pump()
}

// Append adds events to the script and delivers them unless the stream is paused.
func (s *StreamFake) Append(events ...StreamEvent) {
	s.mu.Lock()
	s.script = append(s.script, events...)
	s.mu.Unlock()
	s.pump()
}

func (s *StreamFake) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pauseCalls++
	s.paused = true
}

func (s *StreamFake) Resume() {
	s.mu.Lock()
	s.resumeCalls++
	s.paused = false
	s.mu.Unlock()
	s.pump()
}

// Cancel drops all scripted records not delivered yet, keys and terminal events are kept.
func (s *StreamFake) Cancel() {
	s.mu.Lock()
	s.cancelCalls++
	remaining := append([]StreamEvent(nil), s.script[:s.pos]...)
	for _, event := range s.script[s.pos:] {
		if event.Record == nil {
			remaining = append(remaining, event)
		}
	}
	s.script = remaining
	s.paused = false
	s.mu.Unlock()
	s.pump()
}

func (s *StreamFake) Close(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeCalls++
	return s.CloseErr
}

func (s *StreamFake) pump() {
	for {
		s.mu.Lock()
		if s.pumping || s.paused || !s.subscribed || s.pos >= len(s.script) {
			s.mu.Unlock()
			return
		}
		s.pumping = true
		event := s.script[s.pos]
		s.pos++
		s.mu.Unlock()

		s.deliverMu.Lock()
		s.delivered = append(s.delivered, event)
		subscribers := append([]db.ResultObserver(nil), s.subscribers...)
		for _, subscriber := range subscribers {
			deliver(subscriber, event)
		}
		s.deliverMu.Unlock()

		s.mu.Lock()
		s.pumping = false
		s.mu.Unlock()
	}
}

func deliver(observer db.ResultObserver, event StreamEvent) {
	switch {
	case event.Keys != nil:
		if observer.OnKeys != nil {
			observer.OnKeys(event.Keys)
		}
	case event.Record != nil:
		if observer.OnNext != nil {
			observer.OnNext(event.Record)
		}
	case event.Completed != nil:
		if observer.OnCompleted != nil {
			observer.OnCompleted(event.Completed)
		}
	case event.Err != nil:
		if observer.OnError != nil {
			observer.OnError(event.Err)
		}
	}
}

func (s *StreamFake) PauseCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pauseCalls
}

func (s *StreamFake) ResumeCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resumeCalls
}

func (s *StreamFake) CancelCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelCalls
}

func (s *StreamFake) CloseCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closeCalls
}

func (s *StreamFake) Subscribers() int {
	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()
	return len(s.subscribers)
}
