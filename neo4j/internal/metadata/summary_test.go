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

package metadata

import (
	"github.com/neo4j/neo4j-go-resultstream/neo4j/db"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"
)

var _ = Describe("NewSummary", func() {
	protocol := &db.ProtocolVersion{Major: 5, Minor: 7}
	streamed := db.StreamSummary{HadRecord: true, HadKey: true, Pulled: true}

	Context("with empty metadata", func() {
		summary := NewSummary(nil, nil, db.StreamSummary{})

		It("should not fail", func() {
			Expect(summary).NotTo(BeNil())
		})

		It("should have unknown statement type", func() {
			Expect(summary.StmntType).To(Equal(db.StatementTypeUnknown))
		})

		It("should mark timings as unavailable", func() {
			Expect(summary.TFirst).To(BeEquivalentTo(-1))
			Expect(summary.TLast).To(BeEquivalentTo(-1))
		})

		It("should keep the unresolved protocol", func() {
			Expect(summary.Protocol).To(BeNil())
		})

		It("should have no counters nor plans", func() {
			Expect(summary.Counters).To(BeEmpty())
			Expect(summary.Plan).To(BeNil())
			Expect(summary.ProfiledPlan).To(BeNil())
			Expect(summary.ContainsUpdates).To(BeNil())
		})

		It("should polyfill an omitted result status", func() {
			Expect(summary.GqlStatusObjects).To(HaveLen(1))
			Expect(summary.GqlStatusObjects[0].GqlStatus).To(Equal("00001"))
		})
	})

	Context("with malformed metadata", func() {
		meta := map[string]any{
			"type":          42,
			"t_first":       "soon",
			"stats":         "nope",
			"plan":          []any{"x"},
			"notifications": []any{"x", 1},
			"server":        17,
		}

		It("should degrade to defaults", func() {
			summary := NewSummary(meta, protocol, streamed)
			Expect(summary.StmntType).To(Equal(db.StatementTypeUnknown))
			Expect(summary.TFirst).To(BeEquivalentTo(-1))
			Expect(summary.Counters).To(BeEmpty())
			Expect(summary.Plan).To(BeNil())
			Expect(summary.Notifications).To(BeEmpty())
			Expect(summary.Agent).To(BeEmpty())
		})
	})

	DescribeTable("statement type",
		func(queryType string, expected db.StatementType) {
			summary := NewSummary(map[string]any{"type": queryType}, protocol, streamed)
			Expect(summary.StmntType).To(Equal(expected))
		},
		Entry("read", "r", db.StatementTypeRead),
		Entry("read write", "rw", db.StatementTypeReadWrite),
		Entry("write", "w", db.StatementTypeWrite),
		Entry("schema", "s", db.StatementTypeSchemaWrite),
		Entry("unknown", "x", db.StatementTypeUnknown),
	)

	Context("timings", func() {
		It("should read t_first and t_last", func() {
			summary := NewSummary(map[string]any{"t_first": int64(3), "t_last": int32(9)}, protocol, streamed)
			Expect(summary.TFirst).To(BeEquivalentTo(3))
			Expect(summary.TLast).To(BeEquivalentTo(9))
		})

		It("should fall back to the legacy keys", func() {
			summary := NewSummary(map[string]any{"result_available_after": 4, "result_consumed_after": float64(11)}, protocol, streamed)
			Expect(summary.TFirst).To(BeEquivalentTo(4))
			Expect(summary.TLast).To(BeEquivalentTo(11))
		})
	})

	Context("server", func() {
		It("should read an agent string", func() {
			summary := NewSummary(map[string]any{"server": "Neo4j/5.26.0"}, protocol, streamed)
			Expect(summary.Agent).To(Equal("Neo4j/5.26.0"))
			Expect(summary.ServerAddress).To(BeEmpty())
		})

		It("should read address and agent from a map", func() {
			summary := NewSummary(map[string]any{
				"server": map[string]any{"address": "localhost:7687", "agent": "Neo4j/5.26.0"},
				"db":     "movies",
			}, protocol, streamed)
			Expect(summary.ServerAddress).To(Equal("localhost:7687"))
			Expect(summary.Agent).To(Equal("Neo4j/5.26.0"))
			Expect(summary.Database).To(Equal("movies"))
			Expect(summary.Protocol).To(Equal(protocol))
		})
	})

	Context("stats", func() {
		summary := NewSummary(map[string]any{
			"stats": map[string]any{
				db.NodesCreated:          int64(2),
				db.PropertiesSet:         "3",
				db.LabelsAdded:           0,
				db.SystemUpdates:         uint8(1),
				db.ContainsUpdates:       true,
				db.ContainsSystemUpdates: false,
			},
		}, protocol, streamed)

		It("should widen every numeric representation", func() {
			Expect(summary.Counters).To(HaveKeyWithValue(db.NodesCreated, 2))
			Expect(summary.Counters).To(HaveKeyWithValue(db.PropertiesSet, 3))
			Expect(summary.Counters).To(HaveKeyWithValue(db.SystemUpdates, 1))
		})

		It("should skip zero counters", func() {
			Expect(summary.Counters).NotTo(HaveKey(db.LabelsAdded))
		})

		It("should keep the update flags apart", func() {
			Expect(summary.ContainsUpdates).NotTo(BeNil())
			Expect(*summary.ContainsUpdates).To(BeTrue())
			Expect(summary.ContainsSystemUpdates).NotTo(BeNil())
			Expect(*summary.ContainsSystemUpdates).To(BeFalse())
			Expect(summary.Counters).NotTo(HaveKey(db.ContainsUpdates))
		})
	})

	Context("plans", func() {
		It("should build the plan tree", func() {
			summary := NewSummary(map[string]any{
				"plan": map[string]any{
					"operatorType": "ProduceResults",
					"args":         map[string]any{"planner": "COST"},
					"identifiers":  []any{"n"},
					"children": []any{
						map[string]any{"operatorType": "AllNodesScan", "identifiers": []any{"n"}},
					},
				},
			}, protocol, streamed)
			Expect(summary.Plan).NotTo(BeNil())
			Expect(summary.Plan.Operator).To(Equal("ProduceResults"))
			Expect(summary.Plan.Arguments).To(HaveKeyWithValue("planner", "COST"))
			Expect(summary.Plan.Identifiers).To(Equal([]string{"n"}))
			Expect(summary.Plan.Children).To(HaveLen(1))
			Expect(summary.Plan.Children[0].Operator).To(Equal("AllNodesScan"))
			Expect(summary.Plan.Children[0].Children).To(BeEmpty())
		})

		It("should build the profile tree", func() {
			summary := NewSummary(map[string]any{
				"profile": map[string]any{
					"operatorType":      "ProduceResults",
					"dbHits":            int64(12),
					"rows":              3,
					"pageCacheHits":     int64(7),
					"pageCacheMisses":   int64(1),
					"pageCacheHitRatio": 0.875,
					"time":              int64(140),
					"children": []any{
						map[string]any{"operatorType": "Filter", "dbHits": 4},
					},
				},
			}, protocol, streamed)
			profile := summary.ProfiledPlan
			Expect(profile).NotTo(BeNil())
			Expect(profile.DbHits).To(BeEquivalentTo(12))
			Expect(profile.Records).To(BeEquivalentTo(3))
			Expect(profile.PageCacheHits).To(BeEquivalentTo(7))
			Expect(profile.PageCacheMisses).To(BeEquivalentTo(1))
			Expect(profile.PageCacheHitRatio).To(BeNumerically("~", 0.875))
			Expect(profile.Time).To(BeEquivalentTo(140))
			Expect(profile.Children).To(HaveLen(1))
			Expect(profile.Children[0].DbHits).To(BeEquivalentTo(4))
		})
	})

	Context("notifications without statuses", func() {
		summary := NewSummary(map[string]any{
			"notifications": []any{
				map[string]any{
					"code":        "Neo.ClientNotification.Statement.CartesianProduct",
					"title":       "cartesian product",
					"description": "avoid it",
					"severity":    "WARNING",
					"category":    "PERFORMANCE",
					"position":    map[string]any{"offset": 1, "line": 2, "column": 3},
				},
			},
		}, protocol, streamed)

		It("should collect the notification", func() {
			Expect(summary.Notifications).To(HaveLen(1))
			notification := summary.Notifications[0]
			Expect(notification.Code).To(Equal("Neo.ClientNotification.Statement.CartesianProduct"))
			Expect(notification.Severity).To(Equal("WARNING"))
			Expect(notification.Position).To(Equal(&db.InputPosition{Offset: 1, Line: 2, Column: 3}))
		})

		It("should polyfill statuses ordered by precedence", func() {
			statuses := summary.GqlStatusObjects
			Expect(statuses).To(HaveLen(2))
			Expect(statuses[0].GqlStatus).To(Equal("01N42"))
			Expect(statuses[0].IsNotification).To(BeTrue())
			Expect(statuses[0].Code).To(Equal("Neo.ClientNotification.Statement.CartesianProduct"))
			Expect(statuses[1].GqlStatus).To(Equal("00000"))
			Expect(statuses[1].IsNotification).To(BeFalse())
		})
	})

	Context("stream summary", func() {
		DescribeTable("polyfilled stream status",
			func(observed db.StreamSummary, meta map[string]any, expected string) {
				summary := NewSummary(meta, protocol, observed)
				Expect(summary.GqlStatusObjects).To(HaveLen(1))
				Expect(summary.GqlStatusObjects[0].GqlStatus).To(Equal(expected))
			},
			Entry("records streamed", streamed, map[string]any{}, "00000"),
			Entry("no keys", db.StreamSummary{Pulled: true}, map[string]any{}, "00001"),
			Entry("keys without records", db.StreamSummary{HadKey: true, Pulled: true}, map[string]any{}, "02000"),
			Entry("discarded", db.StreamSummary{HadKey: true}, map[string]any{}, "02N42"),
			Entry("overridden by the server", streamed,
				map[string]any{"stream_summary": map[string]any{"have_records_streamed": false, "has_keys": true, "pulled": true}}, "02000"),
		)

		It("should expose the effective stream summary", func() {
			summary := NewSummary(map[string]any{"stream_summary": map[string]any{"pulled": false}}, protocol, streamed)
			Expect(summary.StreamSummary).To(Equal(db.StreamSummary{HadRecord: true, HadKey: true, Pulled: false}))
		})
	})

	Context("statuses sent by the server", func() {
		summary := NewSummary(map[string]any{
			"statuses": []any{
				map[string]any{
					"gql_status":         "00000",
					"status_description": "note: successful completion",
				},
				map[string]any{
					"gql_status":         "01N50",
					"status_description": "warn: label does not exist",
					"neo4j_code":         "Neo.ClientNotification.Statement.UnknownLabelWarning",
					"title":              "unknown label",
					"description":        "the label Persn does not exist",
					"diagnostic_record": map[string]any{
						"_severity":       "WARNING",
						"_classification": "UNRECOGNIZED",
						"_position":       map[string]any{"offset": int64(9), "line": int64(1), "column": int64(10)},
					},
				},
			},
		}, protocol, streamed)

		It("should keep the server order", func() {
			Expect(summary.GqlStatusObjects).To(HaveLen(2))
			Expect(summary.GqlStatusObjects[0].GqlStatus).To(Equal("00000"))
			Expect(summary.GqlStatusObjects[1].GqlStatus).To(Equal("01N50"))
		})

		It("should complete the diagnostic record", func() {
			for _, status := range summary.GqlStatusObjects {
				Expect(status.DiagnosticRecord).To(HaveKeyWithValue("OPERATION", ""))
				Expect(status.DiagnosticRecord).To(HaveKeyWithValue("OPERATION_CODE", "0"))
				Expect(status.DiagnosticRecord).To(HaveKeyWithValue("CURRENT_SCHEMA", "/"))
			}
		})

		It("should map severity, classification and position", func() {
			warning := summary.GqlStatusObjects[1]
			Expect(warning.IsNotification).To(BeTrue())
			Expect(warning.Severity).To(Equal("WARNING"))
			Expect(warning.Classification).To(Equal("UNRECOGNIZED"))
			Expect(warning.Position).To(Equal(&db.InputPosition{Offset: 9, Line: 1, Column: 10}))
		})

		It("should derive notifications from notification statuses", func() {
			Expect(summary.Notifications).To(HaveLen(1))
			Expect(summary.Notifications[0].Code).To(Equal("Neo.ClientNotification.Statement.UnknownLabelWarning"))
			Expect(summary.Notifications[0].Category).To(Equal("UNRECOGNIZED"))
		})

		It("should report unknown values for statuses without a diagnostic record", func() {
			Expect(summary.GqlStatusObjects[0].Severity).To(Equal("UNKNOWN"))
			Expect(summary.GqlStatusObjects[0].IsNotification).To(BeFalse())
		})
	})
})
