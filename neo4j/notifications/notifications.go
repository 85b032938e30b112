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

type NotificationCategory string

// NotificationClassification is the GQL name of a NotificationCategory.
type NotificationClassification = NotificationCategory

const (
	Hint         NotificationCategory = "HINT"
	Unrecognized NotificationCategory = "UNRECOGNIZED"
	Unsupported  NotificationCategory = "UNSUPPORTED"
	Performance  NotificationCategory = "PERFORMANCE"
	Deprecation  NotificationCategory = "DEPRECATION"
	Generic      NotificationCategory = "GENERIC"
	Security     NotificationCategory = "SECURITY"
	Topology     NotificationCategory = "TOPOLOGY"
	Schema       NotificationCategory = "SCHEMA"
	Unknown      NotificationCategory = "UNKNOWN"

	UnknownClassification = Unknown
)

type NotificationSeverity string

const (
	Warning         NotificationSeverity = "WARNING"
	Information     NotificationSeverity = "INFORMATION"
	UnknownSeverity NotificationSeverity = "UNKNOWN"
)

// ParseCategory maps a raw classification to a known category, Unknown when not recognized.
func ParseCategory(raw string) NotificationCategory {
	switch category := NotificationCategory(raw); category {
	case Hint, Unrecognized, Unsupported, Performance, Deprecation, Generic, Security, Topology, Schema:
		return category
	}
	return Unknown
}

// ParseSeverity maps a raw severity to a known severity, UnknownSeverity when not recognized.
func ParseSeverity(raw string) NotificationSeverity {
	switch severity := NotificationSeverity(raw); severity {
	case Warning, Information:
		return severity
	}
	return UnknownSeverity
}
