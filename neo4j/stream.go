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

	"github.com/neo4j/neo4j-go-resultstream/neo4j/db"
	"github.com/neo4j/neo4j-go-resultstream/neo4j/internal/async"
)

// PendingStream returns a StreamFuture together with the functions settling it. Session
// code creates the result before the query is acknowledged and settles the future later,
// rejecting it when the connection could not be acquired or the query could not be sent.
// Only the first settlement is effective.
func PendingStream() (future StreamFuture, resolve func(StreamObserver), reject func(error)) {
	pending := async.NewFuture[db.StreamObserver]()
	return pending,
		func(stream StreamObserver) { pending.Resolve(stream) },
		func(err error) { pending.Reject(err) }
}

// ResolvedStream returns a StreamFuture that is already resolved to stream.
func ResolvedStream(stream StreamObserver) StreamFuture {
	return async.Resolved[db.StreamObserver](stream)
}

// emptyConnectionHolder is used by results that are not bound to a connection.
type emptyConnectionHolder struct{}

func (emptyConnectionHolder) GetConnection(context.Context) (db.Connection, error) {
	return nil, nil
}

func (emptyConnectionHolder) ReleaseConnection(context.Context) error {
	return nil
}

func (emptyConnectionHolder) Close(context.Context) error {
	return nil
}
