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

import (
	"fmt"
	"io"
	"os"
	"time"
)

// Console is a simple logger that logs to stdout/console.
// Turn the different log levels on/off as wished, all are off by default.
//
//	2020-05-03 12:39:45.001  ERROR  [result 6f1c2a0e] Failed to release connection
//	2020-05-03 12:39:45.001   WARN  [result 6f1c2a0e] Unhandled result error
//	2020-05-03 12:39:45.001  DEBUG  [result 6f1c2a0e] Pausing stream, 1000 records buffered
type Console struct {
	Errors bool
	Infos  bool
	Warns  bool
	Debugs bool
	// Out receives all messages, stdout when nil.
	Out io.Writer
}

const timeFormat = "2006-01-02 15:04:05.000"

func (l *Console) Error(name, id string, err error) {
	if !l.Errors {
		return
	}
	l.write("ERROR", name, id, err.Error())
}

func (l *Console) Infof(name, id string, msg string, args ...any) {
	if !l.Infos {
		return
	}
	l.write(" INFO", name, id, fmt.Sprintf(msg, args...))
}

func (l *Console) Warnf(name, id string, msg string, args ...any) {
	if !l.Warns {
		return
	}
	l.write(" WARN", name, id, fmt.Sprintf(msg, args...))
}

func (l *Console) Debugf(name, id string, msg string, args ...any) {
	if !l.Debugs {
		return
	}
	l.write("DEBUG", name, id, fmt.Sprintf(msg, args...))
}

func (l *Console) write(level, name, id, msg string) {
	out := l.Out
	if out == nil {
		out = os.Stdout
	}
	_, _ = fmt.Fprintf(out, "%s  %s  [%s %s] %s\n", time.Now().Format(timeFormat), level, name, id, msg)
}
