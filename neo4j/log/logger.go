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

package log

// Logger is used throughout the driver for logging purposes.
// Driver client can implement this interface and provide an implementation
// upon result creation.
//
// All logging functions takes a name and id that corresponds to the name of
// the logging component and it's identity, for example "result" and
// "6f1c2a0e-..." to indicate who is logging and what instance.
type Logger interface {
	Error(name string, id string, err error)
	Warnf(name string, id string, msg string, args ...any)
	Infof(name string, id string, msg string, args ...any)
	Debugf(name string, id string, msg string, args ...any)
}

// Level is the type that default logging implementations use for available
// log levels
type Level int

const (
	// OFF is used when no logging should be done
	OFF Level = 0
	// ERROR is the level that error messages are written
	ERROR Level = 1
	// WARNING is the level that warning messages are written
	WARNING Level = 2
	// INFO is the level that info messages are written
	INFO Level = 3
	// DEBUG is the level that debug messages are written
	DEBUG Level = 4
)

// Component names used when logging.
const (
	Result = "result"
	Queue  = "queue"
)

func ToConsole(level Level) *Console {
	return &Console{
		Errors: level >= ERROR,
		Warns:  level >= WARNING,
		Infos:  level >= INFO,
		Debugs: level >= DEBUG,
	}
}

func ToVoid() *Void {
	return &Void{}
}
