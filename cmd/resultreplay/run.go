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

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/neo4j/neo4j-go-resultstream/neo4j"
	"github.com/neo4j/neo4j-go-resultstream/neo4j/config"
	"github.com/neo4j/neo4j-go-resultstream/neo4j/log"
	"github.com/spf13/cobra"
)

func runCmd() *cobra.Command {
	s := defaultSettings()
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Replay a script through one consumption mode",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := s.validate(); err != nil {
				return err
			}
			sc, err := loadScript(s.script)
			if err != nil {
				return err
			}
			out, err := replay(cmd.Context(), sc, s, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(out)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&s.script, "script", s.script, "path of the YAML script to replay")
	flags.StringVar(&s.mode, "mode", s.mode, fmt.Sprintf("consumption mode, one of %v", modes))
	flags.IntVar(&s.highWatermark, "high", s.highWatermark, "high record watermark, 0 disables flow control")
	flags.IntVar(&s.lowWatermark, "low", s.lowWatermark, "low record watermark")
	flags.IntVar(&s.stopAfter, "stop-after", s.stopAfter, "in iterate mode, return early after this many records")
	flags.BoolVar(&s.debug, "debug", s.debug, "log result internals to stderr")
	return cmd
}

type output struct {
	Keys     []string         `json:"keys"`
	Records  []map[string]any `json:"records"`
	Summary  *summaryOutput   `json:"summary,omitempty"`
	Error    *errorOutput     `json:"error,omitempty"`
	Releases int              `json:"releases"`
	Pauses   int              `json:"pauses"`
	Resumes  int              `json:"resumes"`
}

type errorOutput struct {
	Message        string `json:"message"`
	Code           string `json:"code,omitempty"`
	Classification string `json:"classification,omitempty"`
	GqlStatus      string `json:"gqlStatus,omitempty"`
	Retryable      bool   `json:"retryable"`
	CallSite       string `json:"callSite,omitempty"`
}

type summaryOutput struct {
	QueryType            string               `json:"queryType"`
	Database             string               `json:"database,omitempty"`
	Server               serverOutput         `json:"server"`
	Counters             map[string]any       `json:"counters"`
	Statuses             []statusOutput       `json:"statuses"`
	Notifications        []notificationOutput `json:"notifications"`
	ResultAvailableAfter int64                `json:"resultAvailableAfter"`
	ResultConsumedAfter  int64                `json:"resultConsumedAfter"`
}

type serverOutput struct {
	Address  string `json:"address,omitempty"`
	Agent    string `json:"agent,omitempty"`
	Protocol string `json:"protocol,omitempty"`
}

type statusOutput struct {
	GqlStatus      string `json:"gqlStatus"`
	Description    string `json:"description"`
	Classification string `json:"classification,omitempty"`
	Severity       string `json:"severity,omitempty"`
	IsNotification bool   `json:"isNotification"`
}

type notificationOutput struct {
	Code     string `json:"code"`
	Title    string `json:"title"`
	Severity string `json:"severity"`
	Category string `json:"category"`
}

// replay feeds the script to a result and consumes it in the configured mode. Errors of
// the replayed stream end up in the output, only setup errors are returned.
func replay(ctx context.Context, sc *script, s settings, logOut io.Writer) (*output, error) {
	level := log.WARNING
	if s.debug {
		level = log.DEBUG
	}
	logger := log.ToConsole(level)
	logger.Out = logOut

	stream := newReplayStream(sc)
	holder := &scriptHolder{version: sc.protocolVersion()}
	future, resolve, reject := neo4j.PendingStream()
	result := neo4j.NewResult(future, sc.Query, sc.Parameters, holder, func(c *config.ResultConfig) {
		c.HighRecordWatermark = s.highWatermark
		c.LowRecordWatermark = s.lowWatermark
		c.Log = logger
	})
	if sc.AcquisitionFailure != "" {
		reject(errors.New(sc.AcquisitionFailure))
	} else {
		resolve(stream)
	}

	out := &output{Records: []map[string]any{}}
	var summary neo4j.ResultSummary
	var err error
	switch s.mode {
	case modeAwait:
		var res *neo4j.QueryResult
		if res, err = result.Await(ctx); err == nil {
			out.Keys = res.Keys
			out.addRecords(res.Records)
			summary = res.Summary
		}
	case modeSubscribe:
		summary, err = subscribe(ctx, result, out)
	case modeIterate:
		summary, err = iterate(ctx, result, s.stopAfter, out)
	case modeSummary:
		summary, err = result.Summary(ctx)
	case modeEager:
		var res *neo4j.EagerResult
		if res, err = neo4j.Eager(ctx, result); err == nil {
			out.Keys = res.Keys
			out.addRecords(res.Records)
			summary = res.Summary
		}
	default:
		return nil, fmt.Errorf("unknown mode %q", s.mode)
	}
	if err == nil && out.Keys == nil {
		out.Keys, err = result.Keys(ctx)
	}
	if err != nil {
		out.Error = newErrorOutput(err)
	} else {
		out.Summary = newSummaryOutput(summary)
	}
	if err := result.Close(ctx); err != nil {
		logger.Warnf(log.Result, "replay", "close failed: %s", err)
	}
	out.Releases = holder.releaseCount()
	out.Pauses, out.Resumes = stream.flowControl()
	return out, nil
}

func subscribe(ctx context.Context, result *neo4j.Result, out *output) (neo4j.ResultSummary, error) {
	type terminal struct {
		summary neo4j.ResultSummary
		err     error
	}
	done := make(chan terminal, 1)
	result.Subscribe(ctx, neo4j.ResultObserver{
		OnKeys: func(keys []string) {
			out.Keys = keys
		},
		OnNext: func(record *neo4j.Record) {
			out.addRecords([]*neo4j.Record{record})
		},
		OnCompleted: func(summary neo4j.ResultSummary) {
			done <- terminal{summary: summary}
		},
		OnError: func(err error) {
			done <- terminal{err: err}
		},
	})
	select {
	case t := <-done:
		return t.summary, t.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func iterate(ctx context.Context, result *neo4j.Result, stopAfter int, out *output) (neo4j.ResultSummary, error) {
	for {
		if stopAfter > 0 && len(out.Records) >= stopAfter {
			result.Return(nil)
			return result.Summary(ctx)
		}
		step, err := result.Next(ctx)
		if err != nil {
			return nil, err
		}
		if step.Done {
			return step.Summary, nil
		}
		out.addRecords([]*neo4j.Record{step.Record})
	}
}

func (o *output) addRecords(records []*neo4j.Record) {
	for _, record := range records {
		o.Records = append(o.Records, record.AsMap())
	}
}

func newErrorOutput(err error) *errorOutput {
	out := &errorOutput{Message: err.Error(), Retryable: neo4j.IsRetryable(err)}
	var resultErr *neo4j.ResultError
	if errors.As(err, &resultErr) {
		out.CallSite = resultErr.CallSite.String()
	}
	var neo4jErr *neo4j.Neo4jError
	if errors.As(err, &neo4jErr) {
		out.Code = neo4jErr.Code
		out.Classification = neo4jErr.Classification()
		out.GqlStatus = neo4jErr.GqlStatus
	}
	return out
}

func newSummaryOutput(summary neo4j.ResultSummary) *summaryOutput {
	if summary == nil {
		return nil
	}
	out := &summaryOutput{
		QueryType:            summary.StatementType().String(),
		Counters:             countersOutput(summary.Counters()),
		Statuses:             []statusOutput{},
		Notifications:        []notificationOutput{},
		ResultAvailableAfter: summary.ResultAvailableAfter().Milliseconds(),
		ResultConsumedAfter:  summary.ResultConsumedAfter().Milliseconds(),
	}
	if database := summary.Database(); database != nil {
		out.Database = database.Name()
	}
	if server := summary.Server(); server != nil {
		out.Server = serverOutput{Address: server.Address(), Agent: server.Agent()}
		if version := server.ProtocolVersion(); version.Major > 0 {
			out.Server.Protocol = fmt.Sprintf("%d.%d", version.Major, version.Minor)
		}
	}
	for _, status := range summary.GqlStatusObjects() {
		out.Statuses = append(out.Statuses, statusOutput{
			GqlStatus:      status.GqlStatus(),
			Description:    status.StatusDescription(),
			Classification: status.RawClassification(),
			Severity:       status.RawSeverity(),
			IsNotification: status.IsNotification(),
		})
	}
	for _, notification := range summary.Notifications() {
		out.Notifications = append(out.Notifications, notificationOutput{
			Code:     notification.Code(),
			Title:    notification.Title(),
			Severity: notification.RawSeverityLevel(),
			Category: notification.RawCategory(),
		})
	}
	return out
}

func countersOutput(c neo4j.Counters) map[string]any {
	return map[string]any{
		"containsUpdates":       c.ContainsUpdates(),
		"nodesCreated":          c.NodesCreated(),
		"nodesDeleted":          c.NodesDeleted(),
		"relationshipsCreated":  c.RelationshipsCreated(),
		"relationshipsDeleted":  c.RelationshipsDeleted(),
		"propertiesSet":         c.PropertiesSet(),
		"labelsAdded":           c.LabelsAdded(),
		"labelsRemoved":         c.LabelsRemoved(),
		"indexesAdded":          c.IndexesAdded(),
		"indexesRemoved":        c.IndexesRemoved(),
		"constraintsAdded":      c.ConstraintsAdded(),
		"constraintsRemoved":    c.ConstraintsRemoved(),
		"systemUpdates":         c.SystemUpdates(),
		"containsSystemUpdates": c.ContainsSystemUpdates(),
	}
}
