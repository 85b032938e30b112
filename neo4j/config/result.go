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

package config

import (
	"math"

	"github.com/neo4j/neo4j-go-resultstream/neo4j/log"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
)

// A ResultConfig contains options that can be used to customize how a result
// consumes its record stream.
type ResultConfig struct {
	// HighRecordWatermark is the number of buffered records at which record
	// iteration asks the stream to pause.
	//
	// default: math.MaxInt
	HighRecordWatermark int
	// LowRecordWatermark is the number of buffered records at or below which a
	// paused stream is resumed by record iteration.
	//
	// default: math.MaxInt
	LowRecordWatermark int
	// Logging target the result will send its log outputs
	//
	// Possible to use custom logger (implement log.Logger interface) or
	// use log.ToConsole.
	//
	// default: console logger at log.WARNING level
	Log log.Logger
	// MetricsRegisterer receives the result streaming collectors.
	//
	// default: nil, no metrics are recorded
	MetricsRegisterer prometheus.Registerer
	// TracerProvider is used to create one span per result.
	//
	// default: nil, the globally registered provider is used
	TracerProvider trace.TracerProvider
}

// DefaultResultConfig returns the configuration used when no configurer
// overrides a setting.
func DefaultResultConfig() *ResultConfig {
	return &ResultConfig{
		HighRecordWatermark: math.MaxInt,
		LowRecordWatermark:  math.MaxInt,
		Log:                 log.ToConsole(log.WARNING),
	}
}

// Validate normalizes inconsistent watermark settings.
func (c *ResultConfig) Validate() {
	if c.HighRecordWatermark <= 0 {
		c.HighRecordWatermark = math.MaxInt
	}
	if c.LowRecordWatermark < 0 || c.LowRecordWatermark > c.HighRecordWatermark {
		c.LowRecordWatermark = c.HighRecordWatermark
	}
	if c.Log == nil {
		c.Log = log.ToVoid()
	}
}
