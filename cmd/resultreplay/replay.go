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

package main

import (
	"context"
	"sync"

	"github.com/neo4j/neo4j-go-resultstream/neo4j/db"
)

type event struct {
	keys      []string
	record    *db.Record
	completed map[string]any
	err       error
}

func scriptEvents(s *script) []event {
	events := make([]event, 0, len(s.Records)+2)
	keys := s.Keys
	if keys == nil {
		keys = []string{}
	}
	events = append(events, event{keys: keys})
	for _, values := range s.Records {
		events = append(events, event{record: &db.Record{Keys: keys, Values: values}})
	}
	if err := s.streamError(); err != nil {
		return append(events, event{err: err})
	}
	completed := s.Completion
	if completed == nil {
		completed = map[string]any{}
	}
	return append(events, event{completed: completed})
}

// replayStream plays scripted events from its own goroutine, started by the first subscriber.
// Records are held back while paused and dropped once cancelled.
type replayStream struct {
	mu        sync.Mutex
	cond      *sync.Cond
	events    []event
	pos       int
	paused    bool
	cancelled bool
	started   bool

	deliverMu   sync.Mutex
	delivered   []event
	subscribers []db.ResultObserver

	pauses  int
	resumes int
}

func newReplayStream(s *script) *replayStream {
	stream := &replayStream{events: scriptEvents(s)}
	stream.cond = sync.NewCond(&stream.mu)
	return stream
}

func (s *replayStream) Subscribe(observer db.ResultObserver) {
	s.deliverMu.Lock()
	for _, e := range s.delivered {
		deliver(observer, e)
	}
	s.subscribers = append(s.subscribers, observer)
	s.deliverMu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		s.started = true
		go s.run()
	}
}

func (s *replayStream) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pauses++
	s.paused = true
}

func (s *replayStream) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resumes++
	s.paused = false
	s.cond.Broadcast()
}

func (s *replayStream) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelled = true
	s.paused = false
	s.cond.Broadcast()
}

func (s *replayStream) Close(context.Context) error {
	s.Cancel()
	return nil
}

func (s *replayStream) flowControl() (pauses, resumes int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pauses, s.resumes
}

func (s *replayStream) run() {
	for {
		s.mu.Lock()
		for s.paused && s.pos < len(s.events) {
			s.cond.Wait()
		}
		if s.pos >= len(s.events) {
			s.mu.Unlock()
			return
		}
		e := s.events[s.pos]
		s.pos++
		skip := s.cancelled && e.record != nil
		s.mu.Unlock()
		if skip {
			continue
		}

		s.deliverMu.Lock()
		s.delivered = append(s.delivered, e)
		for _, subscriber := range s.subscribers {
			deliver(subscriber, e)
		}
		s.deliverMu.Unlock()
	}
}

func deliver(observer db.ResultObserver, e event) {
	switch {
	case e.keys != nil:
		if observer.OnKeys != nil {
			observer.OnKeys(e.keys)
		}
	case e.record != nil:
		if observer.OnNext != nil {
			observer.OnNext(e.record)
		}
	case e.completed != nil:
		if observer.OnCompleted != nil {
			observer.OnCompleted(e.completed)
		}
	case e.err != nil:
		if observer.OnError != nil {
			observer.OnError(e.err)
		}
	}
}

// scriptHolder lends a connection speaking the scripted protocol version.
type scriptHolder struct {
	version *db.ProtocolVersion

	mu       sync.Mutex
	releases int
}

type scriptConnection struct {
	version db.ProtocolVersion
}

func (c *scriptConnection) Version() db.ProtocolVersion {
	return c.version
}

func (h *scriptHolder) GetConnection(context.Context) (db.Connection, error) {
	if h.version == nil {
		return nil, nil
	}
	return &scriptConnection{version: *h.version}, nil
}

func (h *scriptHolder) ReleaseConnection(context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.releases++
	return nil
}

func (h *scriptHolder) Close(context.Context) error {
	return nil
}

func (h *scriptHolder) releaseCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.releases
}
