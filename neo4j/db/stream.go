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

package db

import (
	"context"
)

// ResultObserver receives the events of one result stream in order: keys first, then
// zero or more records and finally exactly one of OnCompleted or OnError.
// Any callback may be nil.
type ResultObserver struct {
	OnKeys      func(keys []string)
	OnNext      func(record *Record)
	OnCompleted func(metadata map[string]any)
	OnError     func(err error)
}

// StreamObserver is the network side of a single result stream. Every subscriber observes
// the complete event sequence, late subscribers are replayed what has been received so far.
// Pause, Resume and Cancel are flow control signals sent into the stream and never block.
type StreamObserver interface {
	Subscribe(observer ResultObserver)
	Pause()
	Resume()
	// Cancel discards any records not yet received, the stream then completes normally.
	Cancel()
	Close(ctx context.Context) error
}

// StreamFuture resolves to the StreamObserver once the server acknowledged the query, or
// fails if the connection could not be acquired or the query could not be sent.
type StreamFuture interface {
	Await(ctx context.Context) (StreamObserver, error)
}

// Connection is the part of a network connection the result streaming needs.
type Connection interface {
	Version() ProtocolVersion
}

// ConnectionHolder lazily acquires a connection for a unit of work.
// ReleaseConnection and Close are safe to call several times.
type ConnectionHolder interface {
	GetConnection(ctx context.Context) (Connection, error)
	ReleaseConnection(ctx context.Context) error
	Close(ctx context.Context) error
}
