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

// Package telemetry traces the lifetime of results.
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName = "github.com/neo4j/neo4j-go-resultstream"
	spanName   = "neo4j.result"
)

// Attribute keys of result spans
var (
	AttrResultID  = attribute.Key("neo4j.result.id")
	AttrQuery     = attribute.Key("db.query.text")
	AttrQueryType = attribute.Key("neo4j.query.type")
	AttrDatabase  = attribute.Key("db.namespace")
	AttrRecords   = attribute.Key("neo4j.result.records")
	AttrCallSite  = attribute.Key("code.location")
)

// StartResult starts the span covering a result from creation to settlement.
// A nil provider falls back to the globally registered one.
func StartResult(provider trace.TracerProvider, id, query, callSite string) trace.Span {
	if provider == nil {
		provider = otel.GetTracerProvider()
	}
	_, span := provider.Tracer(tracerName).Start(context.Background(), spanName,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			AttrResultID.String(id),
			AttrQuery.String(query),
			AttrCallSite.String(callSite),
		),
	)
	return span
}

// EndSuccess ends span of a result that completed.
func EndSuccess(span trace.Span, queryType, database string, records int64) {
	span.SetAttributes(
		AttrQueryType.String(queryType),
		AttrDatabase.String(database),
		AttrRecords.Int64(records),
	)
	span.SetStatus(codes.Ok, "")
	span.End()
}

// EndFailure ends span of a result that failed.
func EndFailure(span trace.Span, err error, records int64) {
	span.SetAttributes(AttrRecords.Int64(records))
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.End()
}
