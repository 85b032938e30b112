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
	"time"

	"github.com/neo4j/neo4j-go-resultstream/neo4j/db"
	"github.com/neo4j/neo4j-go-resultstream/neo4j/notifications"
)

// StatementType defines the type of the statement
type StatementType int

const (
	// StatementTypeUnknown identifies an unknown statement type
	StatementTypeUnknown StatementType = StatementType(db.StatementTypeUnknown)
	// StatementTypeReadOnly identifies a read-only statement
	StatementTypeReadOnly StatementType = StatementType(db.StatementTypeRead)
	// StatementTypeReadWrite identifies a read-write statement
	StatementTypeReadWrite StatementType = StatementType(db.StatementTypeReadWrite)
	// StatementTypeWriteOnly identifies a write-only statement
	StatementTypeWriteOnly StatementType = StatementType(db.StatementTypeWrite)
	// StatementTypeSchemaWrite identifies a schema-write statement
	StatementTypeSchemaWrite StatementType = StatementType(db.StatementTypeSchemaWrite)
)

func (t StatementType) String() string {
	switch t {
	case StatementTypeReadOnly:
		return "r"
	case StatementTypeReadWrite:
		return "rw"
	case StatementTypeWriteOnly:
		return "w"
	case StatementTypeSchemaWrite:
		return "s"
	}
	return "unknown"
}

// ResultSummary contains information about the execution of a query.
type ResultSummary interface {
	// Server returns basic information about the server where the query is carried out.
	Server() ServerInfo
	// Query returns the query that has been executed.
	Query() Query
	// StatementType returns type of statement that has been executed.
	StatementType() StatementType
	// Counters returns statistics counts for the statement.
	Counters() Counters
	// Plan returns statement plan for the executed statement if available, otherwise null.
	Plan() Plan
	// Profile returns profiled statement plan for the executed statement if available, otherwise null.
	Profile() ProfiledPlan
	// Notifications returns a slice of notifications produced while executing the statement.
	// The list will be empty if no notifications produced while executing the statement.
	Notifications() []Notification
	// GqlStatusObjects returns the GQL statuses of the query, no data statuses first,
	// then warnings, then successes, then the rest.
	GqlStatusObjects() []GqlStatusObject
	// ResultAvailableAfter returns the time it took for the server to make the result available for consumption.
	// Since 5.0, this returns -1 when this is not available.
	ResultAvailableAfter() time.Duration
	// ResultConsumedAfter returns the time it took the server to consume the result.
	// Since 5.0, this returns -1 when this is not available.
	ResultConsumedAfter() time.Duration
	// Database returns information about the database where the result is obtained from
	// Returns nil for Neo4j versions prior to v4.
	Database() DatabaseInfo
}

// Counters contains statistics about the changes made to the database made as part
// of the statement execution.
type Counters interface {
	// ContainsUpdates is true if any of the regular counters is greater than 0,
	// unless the server reported the flag explicitly.
	ContainsUpdates() bool
	// The number of nodes created.
	NodesCreated() int
	// The number of nodes deleted.
	NodesDeleted() int
	// The number of relationships created.
	RelationshipsCreated() int
	// The number of relationships deleted.
	RelationshipsDeleted() int
	PropertiesSet() int
	// The number of labels added to nodes.
	LabelsAdded() int
	// The number of labels removed from nodes.
	LabelsRemoved() int
	// The number of indexes added to the schema.
	IndexesAdded() int
	// The number of indexes removed from the schema.
	IndexesRemoved() int
	// The number of constraints added to the schema.
	ConstraintsAdded() int
	// The number of constraints removed from the schema.
	ConstraintsRemoved() int
	// The number of system updates
	SystemUpdates() int
	// ContainsSystemUpdates is true if the system database was updated.
	ContainsSystemUpdates() bool
}

type Query interface {
	// Text returns the query's text.
	Text() string
	// Parameters returns the query's parameters.
	Parameters() map[string]any
}

// ServerInfo contains basic information of the server.
type ServerInfo interface {
	// Address returns the address of the server.
	Address() string
	// Agent returns the server agent string by which the remote server identifies itself.
	Agent() string
	// ProtocolVersion returns the version of the bolt protocol in use, the zero version
	// when it could not be determined.
	ProtocolVersion() db.ProtocolVersion
}

// DatabaseInfo contains basic information of the database the query result has been obtained from.
type DatabaseInfo interface {
	Name() string
}

// Plan describes the actual plan that the database planner produced and used (or will use) to execute your query.
// This can be extremely helpful in understanding what a query is doing, and how to optimize it. For more details,
// see the Neo4j Manual. The plan for the query is a tree of plans - each sub-tree containing zero or more child
// plans. The query starts with the root plan. Each sub-plan is of a specific operator, which describes what
// that part of the plan does - for instance, perform an index lookup or filter results.
type Plan interface {
	// Operator returns the operation this plan is performing.
	Operator() string
	// Arguments returns the arguments for the operator.
	// Many operators have arguments defining their specific behavior. This map contains those arguments.
	Arguments() map[string]any
	// Identifiers returns a list of identifiers used by this plan. Identifiers used by this part of the plan.
	// These can be both identifiers introduced by you, or automatically generated.
	Identifiers() []string
	// Children returns zero or more child plans. A plan is a tree, where each child is another plan.
	// The children are where this part of the plan gets its input records - unless this is an operator that
	// introduces new records on its own.
	Children() []Plan
}

// ProfiledPlan is the same as a regular Plan - except this plan has been executed, meaning it also
// contains detailed information about how much work each step of the plan incurred on the database.
type ProfiledPlan interface {
	// Operator returns the operation this plan is performing.
	Operator() string
	// Arguments returns the arguments for the operator used.
	Arguments() map[string]any
	// Identifiers returns a list of identifiers used by this plan.
	Identifiers() []string
	// DbHits returns the number of times this part of the plan touched the underlying data stores/
	DbHits() int64
	// Records returns the number of records this part of the plan produced.
	Records() int64
	// Children returns zero or more child plans.
	Children() []ProfiledPlan
	PageCacheMisses() int64
	PageCacheHits() int64
	PageCacheHitRatio() float64
	Time() int64
}

// Notification represents notifications generated when executing a statement.
// A notification can be visualized in a client pinpointing problems or other information about the statement.
type Notification interface {
	// Code returns a notification code for the discovered issue of this notification.
	Code() string
	// Title returns a short summary of this notification.
	Title() string
	// Description returns a longer description of this notification.
	Description() string
	// Position returns the position in the statement where this notification points to.
	// Not all notifications have a unique position to point to and in that case the position would be set to nil.
	Position() InputPosition
	// RawSeverityLevel returns the mapped security level of this notification.
	// If the severity level is not a known value, RawSeverityLevel returns the raw value.
	RawSeverityLevel() string
	// RawCategory returns the raw category of this notification.
	RawCategory() string
	// SeverityLevel returns the mapped security level of this notification, notifications.UnknownSeverity
	// if the severity level is not a known value.
	SeverityLevel() notifications.NotificationSeverity
	// Category returns the mapped category of this notification, notifications.Unknown if the category is
	// not a known value.
	Category() notifications.NotificationCategory
}

// GqlStatusObject represents a GqlStatusObject generated when executing a statement.
// A GqlStatusObject can be visualized in a client pinpointing problems or other information about the statement.
// Contrary to failures or errors, GqlStatusObjects do not affect the execution of the statement.
type GqlStatusObject interface {
	// GqlStatus returns the GQLSTATUS.
	GqlStatus() string
	// StatusDescription returns the GQLSTATUS description.
	StatusDescription() string
	// Position returns the position in the statement where this status points to, nil for
	// statuses that are not notifications.
	Position() InputPosition
	// Classification returns the mapped classification of this status, notifications.UnknownClassification
	// when not known.
	Classification() notifications.NotificationClassification
	// RawClassification returns the raw classification of this status, empty when not present.
	RawClassification() string
	// Severity returns the mapped severity of this status, notifications.UnknownSeverity when not known.
	Severity() notifications.NotificationSeverity
	// RawSeverity returns the raw severity of this status, empty when not present.
	RawSeverity() string
	// DiagnosticRecord returns further information about the GQLSTATUS for diagnostic purposes.
	DiagnosticRecord() map[string]any
	// IsNotification returns true if this GqlStatusObject is also a notification.
	IsNotification() bool
}

// InputPosition contains information about a specific position in a statement
type InputPosition interface {
	// Offset returns the character offset referred to by this position; offset numbers start at 0.
	Offset() int
	// Line returns the line number referred to by this position; line numbers start at 1.
	Line() int
	// Column returns the column number referred to by this position; column numbers start at 1.
	Column() int
}

type resultSummary struct {
	sum    *db.Summary
	query  string
	params map[string]any
}

func newResultSummary(sum *db.Summary, query string, params map[string]any) *resultSummary {
	return &resultSummary{sum: sum, query: query, params: params}
}

func (s *resultSummary) Server() ServerInfo {
	return s
}

func (s *resultSummary) Address() string {
	return s.sum.ServerAddress
}

func (s *resultSummary) Agent() string {
	return s.sum.Agent
}

func (s *resultSummary) ProtocolVersion() db.ProtocolVersion {
	if s.sum.Protocol == nil {
		return db.ProtocolVersion{}
	}
	return *s.sum.Protocol
}

func (s *resultSummary) Query() Query {
	return s
}

func (s *resultSummary) Text() string {
	return s.query
}

func (s *resultSummary) Parameters() map[string]any {
	return s.params
}

func (s *resultSummary) StatementType() StatementType {
	return StatementType(s.sum.StmntType)
}

func (s *resultSummary) Counters() Counters {
	return &counters{sum: s.sum}
}

func (s *resultSummary) Plan() Plan {
	if s.sum.Plan == nil {
		return nil
	}
	return &plan{plan: s.sum.Plan}
}

func (s *resultSummary) Profile() ProfiledPlan {
	if s.sum.ProfiledPlan == nil {
		return nil
	}
	return &profile{profile: s.sum.ProfiledPlan}
}

func (s *resultSummary) Notifications() []Notification {
	if s.sum.Notifications == nil {
		return nil
	}
	result := make([]Notification, len(s.sum.Notifications))
	for i := range s.sum.Notifications {
		result[i] = &notification{notification: &s.sum.Notifications[i]}
	}
	return result
}

func (s *resultSummary) GqlStatusObjects() []GqlStatusObject {
	result := make([]GqlStatusObject, len(s.sum.GqlStatusObjects))
	for i := range s.sum.GqlStatusObjects {
		result[i] = &gqlStatusObject{status: &s.sum.GqlStatusObjects[i]}
	}
	return result
}

func (s *resultSummary) ResultAvailableAfter() time.Duration {
	if s.sum.TFirst < 0 {
		return -1
	}
	return time.Duration(s.sum.TFirst) * time.Millisecond
}

func (s *resultSummary) ResultConsumedAfter() time.Duration {
	if s.sum.TLast < 0 {
		return -1
	}
	return time.Duration(s.sum.TLast) * time.Millisecond
}

func (s *resultSummary) Database() DatabaseInfo {
	if s.sum.Database == "" {
		return nil
	}
	return &databaseInfo{name: s.sum.Database}
}

type databaseInfo struct {
	name string
}

func (d *databaseInfo) Name() string {
	return d.name
}

type counters struct {
	sum *db.Summary
}

func (c *counters) getCounter(n string) int {
	if c.sum.Counters == nil {
		return 0
	}
	return c.sum.Counters[n]
}

func (c *counters) ContainsUpdates() bool {
	if c.sum.ContainsUpdates != nil {
		return *c.sum.ContainsUpdates
	}
	for key, count := range c.sum.Counters {
		if key != db.SystemUpdates && count > 0 {
			return true
		}
	}
	return false
}

func (c *counters) NodesCreated() int {
	return c.getCounter(db.NodesCreated)
}

func (c *counters) NodesDeleted() int {
	return c.getCounter(db.NodesDeleted)
}

func (c *counters) RelationshipsCreated() int {
	return c.getCounter(db.RelationshipsCreated)
}

func (c *counters) RelationshipsDeleted() int {
	return c.getCounter(db.RelationshipsDeleted)
}

func (c *counters) PropertiesSet() int {
	return c.getCounter(db.PropertiesSet)
}

func (c *counters) LabelsAdded() int {
	return c.getCounter(db.LabelsAdded)
}

func (c *counters) LabelsRemoved() int {
	return c.getCounter(db.LabelsRemoved)
}

func (c *counters) IndexesAdded() int {
	return c.getCounter(db.IndexesAdded)
}

func (c *counters) IndexesRemoved() int {
	return c.getCounter(db.IndexesRemoved)
}

func (c *counters) ConstraintsAdded() int {
	return c.getCounter(db.ConstraintsAdded)
}

func (c *counters) ConstraintsRemoved() int {
	return c.getCounter(db.ConstraintsRemoved)
}

func (c *counters) SystemUpdates() int {
	return c.getCounter(db.SystemUpdates)
}

func (c *counters) ContainsSystemUpdates() bool {
	if c.sum.ContainsSystemUpdates != nil {
		return *c.sum.ContainsSystemUpdates
	}
	return c.SystemUpdates() > 0
}

type plan struct {
	plan *db.Plan
}

func (p *plan) Operator() string {
	return p.plan.Operator
}

func (p *plan) Arguments() map[string]any {
	return p.plan.Arguments
}

func (p *plan) Identifiers() []string {
	return p.plan.Identifiers
}

func (p *plan) Children() []Plan {
	children := make([]Plan, len(p.plan.Children))
	for i := range p.plan.Children {
		children[i] = &plan{plan: &p.plan.Children[i]}
	}
	return children
}

type profile struct {
	profile *db.ProfiledPlan
}

func (p *profile) Operator() string {
	return p.profile.Operator
}

func (p *profile) Arguments() map[string]any {
	return p.profile.Arguments
}

func (p *profile) Identifiers() []string {
	return p.profile.Identifiers
}

func (p *profile) DbHits() int64 {
	return p.profile.DbHits
}

func (p *profile) Records() int64 {
	return p.profile.Records
}

func (p *profile) Children() []ProfiledPlan {
	children := make([]ProfiledPlan, len(p.profile.Children))
	for i := range p.profile.Children {
		children[i] = &profile{profile: &p.profile.Children[i]}
	}
	return children
}

func (p *profile) PageCacheMisses() int64 {
	return p.profile.PageCacheMisses
}

func (p *profile) PageCacheHits() int64 {
	return p.profile.PageCacheHits
}

func (p *profile) PageCacheHitRatio() float64 {
	return p.profile.PageCacheHitRatio
}

func (p *profile) Time() int64 {
	return p.profile.Time
}

type notification struct {
	notification *db.Notification
}

func (n *notification) Code() string {
	return n.notification.Code
}

func (n *notification) Title() string {
	return n.notification.Title
}

func (n *notification) Description() string {
	return n.notification.Description
}

func (n *notification) Position() InputPosition {
	if n.notification.Position == nil {
		return nil
	}
	return &inputPosition{position: n.notification.Position}
}

func (n *notification) RawSeverityLevel() string {
	return n.notification.Severity
}

func (n *notification) RawCategory() string {
	return n.notification.Category
}

func (n *notification) SeverityLevel() notifications.NotificationSeverity {
	return notifications.ParseSeverity(n.notification.Severity)
}

func (n *notification) Category() notifications.NotificationCategory {
	return notifications.ParseCategory(n.notification.Category)
}

type gqlStatusObject struct {
	status *db.GqlStatusObject
}

func (g *gqlStatusObject) GqlStatus() string {
	return g.status.GqlStatus
}

func (g *gqlStatusObject) StatusDescription() string {
	return g.status.StatusDescription
}

func (g *gqlStatusObject) Position() InputPosition {
	if g.status.Position == nil {
		return nil
	}
	return &inputPosition{position: g.status.Position}
}

func (g *gqlStatusObject) Classification() notifications.NotificationClassification {
	return notifications.ParseCategory(g.status.Classification)
}

func (g *gqlStatusObject) RawClassification() string {
	raw, _ := g.status.DiagnosticRecord["_classification"].(string)
	return raw
}

func (g *gqlStatusObject) Severity() notifications.NotificationSeverity {
	return notifications.ParseSeverity(g.status.Severity)
}

func (g *gqlStatusObject) RawSeverity() string {
	raw, _ := g.status.DiagnosticRecord["_severity"].(string)
	return raw
}

func (g *gqlStatusObject) DiagnosticRecord() map[string]any {
	return g.status.DiagnosticRecord
}

func (g *gqlStatusObject) IsNotification() bool {
	return g.status.IsNotification
}

type inputPosition struct {
	position *db.InputPosition
}

func (p *inputPosition) Offset() int {
	return p.position.Offset
}

func (p *inputPosition) Line() int {
	return p.position.Line
}

func (p *inputPosition) Column() int {
	return p.position.Column
}
