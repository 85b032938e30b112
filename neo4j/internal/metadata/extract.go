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
	"fmt"
	"math"
	"strconv"
)

// extractInt widens any integer, whole float or numeric string found under key.
func extractInt(dict map[string]any, key string, defaultValue int64) int64 {
	value, ok := dict[key]
	if !ok || value == nil {
		return defaultValue
	}
	switch v := value.(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case int16:
		return int64(v)
	case int8:
		return int64(v)
	case uint64:
		if v > math.MaxInt64 {
			return defaultValue
		}
		return int64(v)
	case uint32:
		return int64(v)
	case uint16:
		return int64(v)
	case uint8:
		return int64(v)
	case uint:
		if uint64(v) > math.MaxInt64 {
			return defaultValue
		}
		return int64(v)
	case float64:
		return wholeFloat(v, defaultValue)
	case float32:
		return wholeFloat(float64(v), defaultValue)
	}
	parsed, err := strconv.ParseInt(fmt.Sprintf("%v", value), 10, 64)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func wholeFloat(v float64, defaultValue int64) int64 {
	if v != math.Trunc(v) || math.IsInf(v, 0) || math.IsNaN(v) {
		return defaultValue
	}
	return int64(v)
}

func extractFloat(dict map[string]any, key string, defaultValue float64) float64 {
	switch v := dict[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case string:
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return defaultValue
		}
		return parsed
	case nil:
		return defaultValue
	}
	return float64(extractInt(dict, key, int64(defaultValue)))
}

func extractString(dict map[string]any, key string, defaultValue string) string {
	value, ok := dict[key]
	if !ok || value == nil {
		return defaultValue
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", value)
}

func extractBool(dict map[string]any, key string, defaultValue bool) bool {
	switch v := dict[key].(type) {
	case bool:
		return v
	case string:
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return defaultValue
		}
		return parsed
	}
	return defaultValue
}

func extractMap(dict map[string]any, key string) map[string]any {
	switch v := dict[key].(type) {
	case map[string]any:
		return v
	case map[any]any:
		converted := make(map[string]any, len(v))
		for k, value := range v {
			converted[fmt.Sprintf("%v", k)] = value
		}
		return converted
	}
	return nil
}

func extractList(dict map[string]any, key string) []any {
	list, _ := dict[key].([]any)
	return list
}

func extractStrings(dict map[string]any, key string) []string {
	switch v := dict[key].(type) {
	case []string:
		return v
	case []any:
		result := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				result = append(result, s)
			}
		}
		return result
	}
	return nil
}
