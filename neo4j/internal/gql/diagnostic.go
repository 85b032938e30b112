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

package gql

// NewDefaultDiagnosticRecord returns the diagnostic record every GQL status starts from.
func NewDefaultDiagnosticRecord() map[string]any {
	return map[string]any{
		"OPERATION":      "",
		"OPERATION_CODE": "0",
		"CURRENT_SCHEMA": "/",
	}
}

// MergeDiagnosticRecord returns the default diagnostic record overridden by the entries of
// the given record.
func MergeDiagnosticRecord(record map[string]any) map[string]any {
	merged := NewDefaultDiagnosticRecord()
	for key, value := range record {
		merged[key] = value
	}
	return merged
}
