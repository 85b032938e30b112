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

package db

// StatementType is the query type reported by the server on completion.
// Definitions of these should correspond to public API
type StatementType int

const (
	StatementTypeUnknown     StatementType = 0
	StatementTypeRead        StatementType = 1
	StatementTypeReadWrite   StatementType = 2
	StatementTypeWrite       StatementType = 3
	StatementTypeSchemaWrite StatementType = 4
)

// Counter key names
const (
	NodesCreated          = "nodes-created"
	NodesDeleted          = "nodes-deleted"
	RelationshipsCreated  = "relationships-created"
	RelationshipsDeleted  = "relationships-deleted"
	PropertiesSet         = "properties-set"
	LabelsAdded           = "labels-added"
	LabelsRemoved         = "labels-removed"
	IndexesAdded          = "indexes-added"
	IndexesRemoved        = "indexes-removed"
	ConstraintsAdded      = "constraints-added"
	ConstraintsRemoved    = "constraints-removed"
	SystemUpdates         = "system-updates"
	ContainsUpdates       = "contains-updates"
	ContainsSystemUpdates = "contains-system-updates"
)

// Plan describes the actual plan that the database planner produced and used (or will use) to execute your statement.
// The plan for the statement is a tree of plans - each sub-tree containing zero or more child
// plans. The statement starts with the root plan. Each sub-plan is of a specific operator, which describes what
// that part of the plan does - for instance, perform an index lookup or filter results.
type Plan struct {
	// Operator is the operation this plan is performing.
	Operator string
	// Arguments for the operator.
	// Many operators have arguments defining their specific behavior. This map contains those arguments.
	Arguments map[string]any
	// List of identifiers used by this plan. Identifiers used by this part of the plan.
	// These can be both identifiers introduced by you, or automatically generated.
	Identifiers []string
	// Zero or more child plans. A plan is a tree, where each child is another plan.
	Children []Plan
}

// ProfiledPlan is the same as a regular Plan - except this plan has been executed, meaning it also
// contains detailed information about how much work each step of the plan incurred on the database.
type ProfiledPlan struct {
	Operator    string
	Arguments   map[string]any
	Identifiers []string
	// DbHits contains the number of times this part of the plan touched the underlying data stores.
	DbHits int64
	// Records contains the number of records this part of the plan produced.
	Records           int64
	Children          []ProfiledPlan
	PageCacheMisses   int64
	PageCacheHits     int64
	PageCacheHitRatio float64
	Time              int64
}

// StreamSummary describes what the client observed while the result was streamed.
// It is used to polyfill GQL statuses when the server does not send any.
type StreamSummary struct {
	HadRecord bool
	HadKey    bool
	Pulled    bool
}

type Notification struct {
	Code        string
	Title       string
	Description string
	Position    *InputPosition
	Severity    string
	Category    string
}

// GqlStatusObject represents a GqlStatusObject generated when executing a statement.
// Contrary to failures or errors, GqlStatusObjects do not affect the execution of the statement.
type GqlStatusObject struct {
	// Code, Title and Description mirror the notification fields the status was derived from, if any.
	Code        string
	Title       string
	Description string
	// GqlStatus returns the GQLSTATUS.
	// The following GQLSTATUS codes denote codes that the driver will use for
	// polyfilling (when connected to an old, non-GQL-aware server).
	//   - "01N42" (warning - unknown warning)
	//   - "02N42" (no data - unknown subcondition)
	//   - "03N42" (informational - unknown notification)
	GqlStatus         string
	StatusDescription string
	// Position is only meaningful for notifications.
	Position *InputPosition
	// Classification returns the mapped classification of this status,
	// notifications.UnknownClassification when the value is not known.
	Classification string
	// Severity returns the mapped severity of this status,
	// notifications.UnknownSeverity when the value is not known.
	Severity         string
	DiagnosticRecord map[string]any
	IsNotification   bool
}

// InputPosition contains information about a specific position in a statement
type InputPosition struct {
	// Offset contains the character offset referred to by this position; offset numbers start at 0.
	Offset int
	// Line contains the line number referred to by this position; line numbers start at 1.
	Line int
	// Column contains the column number referred to by this position; column numbers start at 1.
	Column int
}

type ProtocolVersion struct {
	Major int
	Minor int
}

// Summary is the raw, immutable summary of a completed result stream.
type Summary struct {
	Bookmark      string
	StmntType     StatementType
	ServerAddress string
	Agent         string
	// Protocol is nil when the protocol version could not be resolved.
	Protocol              *ProtocolVersion
	Counters              map[string]int
	TFirst                int64
	TLast                 int64
	Plan                  *Plan
	ProfiledPlan          *ProfiledPlan
	Notifications         []Notification
	GqlStatusObjects      []GqlStatusObject
	Database              string
	ContainsSystemUpdates *bool
	ContainsUpdates       *bool
	StreamSummary         StreamSummary
}
