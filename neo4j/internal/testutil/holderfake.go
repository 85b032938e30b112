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

type ConnFake struct {
	ProtocolVersion db.ProtocolVersion
}

func (c *ConnFake) Version() db.ProtocolVersion {
	return c.ProtocolVersion
}

type ConnectionHolderFake struct {
	Conn       db.Connection
	GetErr     error
	ReleaseErr error
	// ReleaseHook is invoked on every release before it returns.
	ReleaseHook func()

	mu           sync.Mutex
	getCalls     int
	releaseCalls int
	closeCalls   int
}

func (h *ConnectionHolderFake) GetConnection(context.Context) (db.Connection, error) {
	h.mu.Lock()
	h.getCalls++
	h.mu.Unlock()
	if h.GetErr != nil {
		return nil, h.GetErr
	}
	return h.Conn, nil
}

func (h *ConnectionHolderFake) ReleaseConnection(context.Context) error {
	h.mu.Lock()
	h.releaseCalls++
	h.mu.Unlock()
	if h.ReleaseHook != nil {
		h.ReleaseHook()
	}
	return h.ReleaseErr
}

func (h *ConnectionHolderFake) Close(context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closeCalls++
	return nil
}

func (h *ConnectionHolderFake) GetCalls() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.getCalls
}

func (h *ConnectionHolderFake) ReleaseCalls() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.releaseCalls
}

func (h *ConnectionHolderFake) CloseCalls() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closeCalls
}
