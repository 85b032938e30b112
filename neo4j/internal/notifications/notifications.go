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

package notifications

import (
	"sort"

	"github.com/neo4j/neo4j-go-resultstream/neo4j/db"
	"github.com/neo4j/neo4j-go-resultstream/neo4j/internal/gql"
	"github.com/neo4j/neo4j-go-resultstream/neo4j/notifications"
)

func newStatus(gqlStatus, description string) db.GqlStatusObject {
	return db.GqlStatusObject{
		GqlStatus:         gqlStatus,
		StatusDescription: description,
		Severity:          string(notifications.UnknownSeverity),
		Classification:    string(notifications.UnknownClassification),
		DiagnosticRecord:  gql.NewDefaultDiagnosticRecord(),
	}
}

func newSuccessGqlStatusObject() db.GqlStatusObject {
	return newStatus("00000", "note: successful completion")
}

func newNoDataGqlStatusObject() db.GqlStatusObject {
	return newStatus("02000", "note: no data")
}

func newNoDataUnknownSubconditionGqlStatusObject() db.GqlStatusObject {
	return newStatus("02N42", "note: no data - unknown subcondition")
}

func newOmittedResultGqlStatusObject() db.GqlStatusObject {
	return newStatus("00001", "note: successful completion - omitted result")
}

func newUnknownWarningResultGqlStatusObject() db.GqlStatusObject {
	return newStatus("01N42", "warn: unknown warning")
}

func newUnknownInformationResultGqlStatusObject() db.GqlStatusObject {
	return newStatus("03N42", "info: unknown notification")
}

// ToNotification returns a db.Notification that corresponds to the given db.GqlStatusObject.
func ToNotification(status db.GqlStatusObject) db.Notification {
	return db.Notification{
		Code:        status.Code,
		Title:       status.Title,
		Description: status.Description,
		Position:    status.Position,
		Severity:    status.Severity,
		Category:    status.Classification,
	}
}

// ToGqlStatusObject returns a db.GqlStatusObject that corresponds to the given db.Notification.
func ToGqlStatusObject(notification db.Notification) db.GqlStatusObject {
	var status db.GqlStatusObject
	if notification.Severity == string(notifications.Warning) {
		status = newUnknownWarningResultGqlStatusObject()
	} else {
		status = newUnknownInformationResultGqlStatusObject()
	}

	if notification.Description != "" {
		status.StatusDescription = notification.Description
	}
	if notification.Position != nil {
		status.DiagnosticRecord["_position"] = map[string]any{
			"offset": notification.Position.Offset,
			"line":   notification.Position.Line,
			"column": notification.Position.Column,
		}
	}
	if notification.Severity != "" {
		status.DiagnosticRecord["_severity"] = notification.Severity
	}
	if notification.Category != "" {
		status.DiagnosticRecord["_classification"] = notification.Category
	}

	status.Code = notification.Code
	status.Title = notification.Title
	status.Description = notification.Description
	status.Position = notification.Position
	status.Severity = string(notifications.ParseSeverity(notification.Severity))
	status.Classification = string(notifications.ParseCategory(notification.Category))
	status.IsNotification = true
	return status
}

// ToGqlStatusObjectFromSummary creates the status describing the outcome of the stream itself.
func ToGqlStatusObjectFromSummary(summary db.StreamSummary) db.GqlStatusObject {
	switch {
	case summary.HadRecord:
		return newSuccessGqlStatusObject()
	case !summary.HadKey:
		return newOmittedResultGqlStatusObject()
	case summary.Pulled:
		return newNoDataGqlStatusObject()
	default:
		return newNoDataUnknownSubconditionGqlStatusObject()
	}
}

// Polyfill builds the GQL statuses of a result from a server that only sends notifications.
func Polyfill(summary db.StreamSummary, notifications []db.Notification) []db.GqlStatusObject {
	statuses := make([]db.GqlStatusObject, 0, len(notifications)+1)
	statuses = append(statuses, ToGqlStatusObjectFromSummary(summary))
	for _, notification := range notifications {
		statuses = append(statuses, ToGqlStatusObject(notification))
	}
	SortByPrecedence(statuses)
	return statuses
}

// SortByPrecedence orders statuses as no data, then warnings, then success, then
// informational, then everything else. Statuses of the same class keep their relative order.
func SortByPrecedence(statuses []db.GqlStatusObject) {
	sort.SliceStable(statuses, func(i, j int) bool {
		return weight(statuses[i]) < weight(statuses[j])
	})
}

func weight(status db.GqlStatusObject) int {
	if len(status.GqlStatus) < 2 {
		return 9999
	}
	switch status.GqlStatus[:2] {
	case "02":
		return 0
	case "01":
		return 1
	case "00":
		return 2
	case "03":
		return 3
	}
	return 9999
}
