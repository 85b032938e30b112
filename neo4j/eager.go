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
)

// ResultTransformer accumulates the records of a result and turns them, together with the
// keys and summary, into a value of type T.
type ResultTransformer[T any] interface {
	// Accept is called for each record, in order. An error stops the accumulation.
	Accept(*Record) error
	// Complete is called once all records have been accepted.
	Complete(keys []string, summary ResultSummary) (T, error)
}

// EagerResult holds the result and result metadata of the query executed via Eager
type EagerResult struct {
	Keys    []string
	Records []*Record
	Summary ResultSummary
}

// EagerResultTransformer creates a transformer collecting every record into an EagerResult.
func EagerResultTransformer() ResultTransformer[*EagerResult] {
	return &eagerResultTransformer{}
}

type eagerResultTransformer struct {
	records []*Record
}

func (t *eagerResultTransformer) Accept(record *Record) error {
	t.records = append(t.records, record)
	return nil
}

func (t *eagerResultTransformer) Complete(keys []string, summary ResultSummary) (*EagerResult, error) {
	return &EagerResult{
		Keys:    keys,
		Records: t.records,
		Summary: summary,
	}, nil
}

// Transform pulls every record of result through a transformer created by newTransformer.
// When Accept fails, the records not received yet are discarded and the error is returned.
func Transform[T any](ctx context.Context, result *Result, newTransformer func() ResultTransformer[T]) (T, error) {
	var zero T
	transformer := newTransformer()
	for {
		step, err := result.Next(ctx)
		if err != nil {
			return zero, err
		}
		if step.Done {
			keys, err := result.Keys(ctx)
			if err != nil {
				return zero, err
			}
			return transformer.Complete(keys, step.Summary)
		}
		if err := transformer.Accept(step.Record); err != nil {
			result.Return(nil)
			return zero, err
		}
	}
}

// Eager reads the whole result into memory.
func Eager(ctx context.Context, result *Result) (*EagerResult, error) {
	return Transform(ctx, result, EagerResultTransformer)
}
