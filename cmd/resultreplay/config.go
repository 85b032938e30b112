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
	"log"
	"os"
	"strconv"
)

// Consumption modes
const (
	modeAwait     = "await"
	modeSubscribe = "subscribe"
	modeIterate   = "iterate"
	modeSummary   = "summary"
	modeEager     = "eager"
)

var modes = []string{modeAwait, modeSubscribe, modeIterate, modeSummary, modeEager}

type settings struct {
	script        string
	mode          string
	highWatermark int
	lowWatermark  int
	stopAfter     int
	debug         bool
}

func defaultSettings() settings {
	return settings{
		mode:          getEnv("RESULTREPLAY_MODE", modeAwait),
		highWatermark: getEnv("RESULTREPLAY_HIGH_WATERMARK", 0),
		lowWatermark:  getEnv("RESULTREPLAY_LOW_WATERMARK", 0),
	}
}

func (s settings) validate() error {
	if s.script == "" {
		return fmt.Errorf("no script given")
	}
	for _, mode := range modes {
		if s.mode == mode {
			return nil
		}
	}
	return fmt.Errorf("unknown mode %q, expected one of %v", s.mode, modes)
}

// getEnv is a generic function to get an environment variable and convert it to the type T.
// defaultValue is used if the environment variable is not set or if conversion fails.
func getEnv[T any](key string, defaultValue T) T {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}

	var value T
	switch any(value).(type) {
	case string:
		return any(valueStr).(T)
	case int:
		intValue, err := strconv.Atoi(valueStr)
		if err != nil {
			log.Printf("Warning: Failed to convert %s to int, using default value. Error: %v", key, err)
			return defaultValue
		}
		return any(intValue).(T)
	case bool:
		boolValue, err := strconv.ParseBool(valueStr)
		if err != nil {
			log.Printf("Warning: Failed to convert %s to bool, using default value. Error: %v", key, err)
			return defaultValue
		}
		return any(boolValue).(T)
	default:
		log.Printf("Warning: Unsupported type for environment variable conversion.")
		return defaultValue
	}
}
