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
	"github.com/neo4j/neo4j-go-resultstream/neo4j/db"
)

// Aliases to simplify client usage (fewer imports).
type (
	Record          = db.Record
	ProtocolVersion = db.ProtocolVersion
	// StreamObserver is the network side of a result stream, see db.StreamObserver.
	StreamObserver = db.StreamObserver
	// StreamFuture resolves to the StreamObserver of a query, see db.StreamFuture.
	StreamFuture = db.StreamFuture
	// ConnectionHolder lends the connection a result streams from, see db.ConnectionHolder.
	ConnectionHolder = db.ConnectionHolder
)
