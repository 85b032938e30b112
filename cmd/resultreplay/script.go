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
	"fmt"
	"os"

	"github.com/neo4j/neo4j-go-resultstream/neo4j/db"
	"gopkg.in/yaml.v3"
)

// script is a recorded result stream.
//
//	query: MATCH (p:Person) RETURN p.name AS name
//	parameters: {limit: 10}
//	protocol: {major: 5, minor: 4}
//	keys: [name]
//	records:
//	  - [Alice]
//	  - [Bob]
//	completion: {type: r, db: neo4j, t_first: 2, t_last: 5}
type script struct {
	Query      string         `yaml:"query"`
	Parameters map[string]any `yaml:"parameters"`
	Protocol   *protocol      `yaml:"protocol"`
	Keys       []string       `yaml:"keys"`
	Records    [][]any        `yaml:"records"`
	Completion map[string]any `yaml:"completion"`
	// Failure replaces the completion when set.
	Failure *failure `yaml:"failure"`
	// AcquisitionFailure fails the stream before any event is sent.
	AcquisitionFailure string `yaml:"acquisition_failure"`
}

type protocol struct {
	Major int `yaml:"major"`
	Minor int `yaml:"minor"`
}

type failure struct {
	Code              string `yaml:"code"`
	Message           string `yaml:"message"`
	GqlStatus         string `yaml:"gql_status"`
	StatusDescription string `yaml:"status_description"`
}

func loadScript(path string) (*script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return parseScript(data)
}

func parseScript(data []byte) (*script, error) {
	s := &script{}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	for i, values := range s.Records {
		if len(values) != len(s.Keys) {
			return nil, fmt.Errorf("record %d has %d values for %d keys", i, len(values), len(s.Keys))
		}
	}
	return s, nil
}

func (s *script) protocolVersion() *db.ProtocolVersion {
	if s.Protocol == nil {
		return nil
	}
	return &db.ProtocolVersion{Major: s.Protocol.Major, Minor: s.Protocol.Minor}
}

func (s *script) streamError() error {
	if s.Failure == nil {
		return nil
	}
	return &db.Neo4jError{
		Code:                 s.Failure.Code,
		Msg:                  s.Failure.Message,
		GqlStatus:            s.Failure.GqlStatus,
		GqlStatusDescription: s.Failure.StatusDescription,
	}
}
