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

// Package metadata turns the metadata sent by the server on completion of a result stream
// into a summary. Missing or malformed optional entries degrade to zero values.
package metadata

import (
	"github.com/neo4j/neo4j-go-resultstream/neo4j/db"
	"github.com/neo4j/neo4j-go-resultstream/neo4j/internal/gql"
	"github.com/neo4j/neo4j-go-resultstream/neo4j/internal/notifications"
	pubnotifications "github.com/neo4j/neo4j-go-resultstream/neo4j/notifications"
)

// NewSummary builds the summary of a completed stream. protocol is nil when the protocol
// version could not be resolved. observed holds what the client saw while streaming, it is
// overridden by the stream summary sent along with the metadata, if any.
func NewSummary(meta map[string]any, protocol *db.ProtocolVersion, observed db.StreamSummary) *db.Summary {
	if meta == nil {
		meta = map[string]any{}
	}
	summary := &db.Summary{
		Bookmark:      extractString(meta, "bookmark", ""),
		StmntType:     statementType(extractString(meta, "type", "")),
		Protocol:      protocol,
		TFirst:        extractInt(meta, "t_first", extractInt(meta, "result_available_after", -1)),
		TLast:         extractInt(meta, "t_last", extractInt(meta, "result_consumed_after", -1)),
		Database:      extractString(meta, "db", ""),
		StreamSummary: streamSummary(meta, observed),
	}
	summary.ServerAddress, summary.Agent = server(meta)
	collectCounters(summary, extractMap(meta, "stats"))
	if plan := extractMap(meta, "plan"); plan != nil {
		p := collectPlan(plan)
		summary.Plan = &p
	}
	if profile := extractMap(meta, "profile"); profile != nil {
		p := collectProfile(profile)
		summary.ProfiledPlan = &p
	}

	notificationList, hasNotifications := meta["notifications"].([]any)
	statusList, hasStatuses := meta["statuses"].([]any)
	if hasNotifications {
		summary.Notifications = collectNotifications(notificationList)
	}
	if hasStatuses {
		summary.GqlStatusObjects = collectStatuses(statusList)
		if !hasNotifications {
			for _, status := range summary.GqlStatusObjects {
				if status.IsNotification {
					summary.Notifications = append(summary.Notifications, notifications.ToNotification(status))
				}
			}
		}
	} else {
		summary.GqlStatusObjects = notifications.Polyfill(summary.StreamSummary, summary.Notifications)
	}
	return summary
}

func statementType(queryType string) db.StatementType {
	switch queryType {
	case "r":
		return db.StatementTypeRead
	case "w":
		return db.StatementTypeWrite
	case "rw":
		return db.StatementTypeReadWrite
	case "s":
		return db.StatementTypeSchemaWrite
	}
	return db.StatementTypeUnknown
}

func server(meta map[string]any) (address, agent string) {
	switch server := meta["server"].(type) {
	case string:
		return "", server
	case map[string]any:
		return extractString(server, "address", ""), extractString(server, "agent", "")
	}
	return "", ""
}

func streamSummary(meta map[string]any, observed db.StreamSummary) db.StreamSummary {
	sent := extractMap(meta, "stream_summary")
	if sent == nil {
		return observed
	}
	return db.StreamSummary{
		HadRecord: extractBool(sent, "have_records_streamed", observed.HadRecord),
		HadKey:    extractBool(sent, "has_keys", observed.HadKey),
		Pulled:    extractBool(sent, "pulled", observed.Pulled),
	}
}

func collectCounters(summary *db.Summary, stats map[string]any) {
	if len(stats) == 0 {
		return
	}
	counts := make(map[string]int, len(stats))
	for key := range stats {
		switch key {
		case db.ContainsUpdates:
			flag := extractBool(stats, key, false)
			summary.ContainsUpdates = &flag
		case db.ContainsSystemUpdates:
			flag := extractBool(stats, key, false)
			summary.ContainsSystemUpdates = &flag
		default:
			if count := extractInt(stats, key, 0); count > 0 {
				counts[key] = int(count)
			}
		}
	}
	summary.Counters = counts
}

func collectPlan(plan map[string]any) db.Plan {
	children := extractList(plan, "children")
	result := db.Plan{
		Operator:    extractString(plan, "operatorType", ""),
		Arguments:   extractMap(plan, "args"),
		Identifiers: extractStrings(plan, "identifiers"),
		Children:    make([]db.Plan, 0, len(children)),
	}
	for _, child := range children {
		if childMap, ok := child.(map[string]any); ok {
			result.Children = append(result.Children, collectPlan(childMap))
		}
	}
	return result
}

func collectProfile(profile map[string]any) db.ProfiledPlan {
	children := extractList(profile, "children")
	result := db.ProfiledPlan{
		Operator:          extractString(profile, "operatorType", ""),
		Arguments:         extractMap(profile, "args"),
		Identifiers:       extractStrings(profile, "identifiers"),
		DbHits:            extractInt(profile, "dbHits", 0),
		Records:           extractInt(profile, "rows", 0),
		PageCacheMisses:   extractInt(profile, "pageCacheMisses", 0),
		PageCacheHits:     extractInt(profile, "pageCacheHits", 0),
		PageCacheHitRatio: extractFloat(profile, "pageCacheHitRatio", 0),
		Time:              extractInt(profile, "time", 0),
		Children:          make([]db.ProfiledPlan, 0, len(children)),
	}
	for _, child := range children {
		if childMap, ok := child.(map[string]any); ok {
			result.Children = append(result.Children, collectProfile(childMap))
		}
	}
	return result
}

func collectNotifications(list []any) []db.Notification {
	result := make([]db.Notification, 0, len(list))
	for _, item := range list {
		notification, ok := item.(map[string]any)
		if !ok {
			continue
		}
		result = append(result, db.Notification{
			Code:        extractString(notification, "code", ""),
			Title:       extractString(notification, "title", ""),
			Description: extractString(notification, "description", ""),
			Severity:    extractString(notification, "severity", ""),
			Category:    extractString(notification, "category", ""),
			Position:    collectPosition(extractMap(notification, "position")),
		})
	}
	return result
}

func collectStatuses(list []any) []db.GqlStatusObject {
	result := make([]db.GqlStatusObject, 0, len(list))
	for _, item := range list {
		status, ok := item.(map[string]any)
		if !ok {
			continue
		}
		diagnostic := gql.MergeDiagnosticRecord(extractMap(status, "diagnostic_record"))
		code := extractString(status, "neo4j_code", "")
		result = append(result, db.GqlStatusObject{
			Code:              code,
			Title:             extractString(status, "title", ""),
			Description:       extractString(status, "description", ""),
			GqlStatus:         extractString(status, "gql_status", ""),
			StatusDescription: extractString(status, "status_description", ""),
			Position:          collectPosition(extractMap(diagnostic, "_position")),
			Severity:          string(pubnotifications.ParseSeverity(extractString(diagnostic, "_severity", ""))),
			Classification:    string(pubnotifications.ParseCategory(extractString(diagnostic, "_classification", ""))),
			DiagnosticRecord:  diagnostic,
			IsNotification:    code != "",
		})
	}
	return result
}

func collectPosition(position map[string]any) *db.InputPosition {
	if position == nil {
		return nil
	}
	return &db.InputPosition{
		Offset: int(extractInt(position, "offset", 0)),
		Line:   int(extractInt(position, "line", 0)),
		Column: int(extractInt(position, "column", 0)),
	}
}
