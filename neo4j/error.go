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
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/neo4j/neo4j-go-resultstream/neo4j/db"
)

// Neo4jError is the error reported by the server when a query fails.
type Neo4jError = db.Neo4jError

// UsageError represents errors caused by incorrect usage of the result API.
type UsageError struct {
	Message string
}

func (e *UsageError) Error() string {
	return e.Message
}

// CallSite is the location in client code where a result was created.
type CallSite struct {
	Function string
	File     string
	Line     int
}

func (c CallSite) String() string {
	if c.File == "" {
		return "unknown"
	}
	return fmt.Sprintf("%s:%d (%s)", c.File, c.Line, c.Function)
}

// ResultError is the terminal error of a result, as seen by every consumption mode.
// It wraps the error reported by the stream and records where the result was created
// so failures that surface asynchronously can still be traced back to the query issuer.
type ResultError struct {
	CallSite CallSite
	err      error
}

func (e *ResultError) Error() string {
	return e.err.Error()
}

func (e *ResultError) Unwrap() error {
	return e.err
}

func wrapResultError(err error, site CallSite) *ResultError {
	var resultErr *ResultError
	if errors.As(err, &resultErr) {
		return resultErr
	}
	return &ResultError{CallSite: site, err: err}
}

// IsRetryable determines whether an operation can be retried based on the error it triggered.
func IsRetryable(err error) bool {
	var dbErr *db.Neo4jError
	if errors.As(err, &dbErr) {
		return dbErr.IsRetriableTransient()
	}
	return false
}

var libraryDir = func() string {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		return ""
	}
	return filepath.Dir(file)
}()

// captureCallSite returns the first frame outside this package, test files excepted.
func captureCallSite() CallSite {
	pcs := make([]uintptr, 32)
	n := runtime.Callers(2, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		if !isLibraryFrame(frame.File) {
			return CallSite{Function: frame.Function, File: frame.File, Line: frame.Line}
		}
		if !more {
			return CallSite{}
		}
	}
}

func isLibraryFrame(file string) bool {
	return libraryDir != "" &&
		filepath.Dir(file) == libraryDir &&
		!strings.HasSuffix(file, "_test.go")
}
