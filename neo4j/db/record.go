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

import (
	"fmt"
	"strings"
)

// Record is one row of a result stream. Keys and Values have the same length and the
// value at a given index belongs to the key at the same index.
type Record struct {
	Values []any
	Keys   []string
}

// Get returns the value corresponding to the given key along with a boolean that is true
// if the key was found.
func (r *Record) Get(key string) (any, bool) {
	for i, k := range r.Keys {
		if k == key {
			return r.Values[i], true
		}
	}
	return nil, false
}

// GetByIndex returns the value at the given index.
func (r *Record) GetByIndex(index int) any {
	return r.Values[index]
}

// AsMap returns the record as a map from key to value.
func (r *Record) AsMap() map[string]any {
	result := make(map[string]any, len(r.Keys))
	for i, key := range r.Keys {
		result[key] = r.Values[i]
	}
	return result
}

func (r Record) String() string {
	var builder strings.Builder
	builder.WriteString("{")
	for i, key := range r.Keys {
		if i > 0 {
			builder.WriteString(", ")
		}
		builder.WriteString(fmt.Sprintf("%q: %v", key, r.Values[i]))
	}
	builder.WriteString("}")
	return builder.String()
}
