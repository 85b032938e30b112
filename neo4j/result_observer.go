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

// ResultObserver receives the events of a result in order: the keys, zero or more records
// and finally exactly one of OnCompleted or OnError. Any callback may be nil, an error
// without OnError is logged as a warning.
type ResultObserver struct {
	OnKeys      func(keys []string)
	OnNext      func(record *Record)
	OnCompleted func(summary ResultSummary)
	OnError     func(err error)
}

// QueryResult is the aggregate of a fully consumed result.
type QueryResult struct {
	Keys    []string
	Records []*Record
	Summary ResultSummary
}

// Step is one step of record iteration: a record, or the summary once Done.
type Step struct {
	Done    bool
	Record  *Record
	Summary ResultSummary
}
