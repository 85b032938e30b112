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

// Neo4jError is created when the database server failed to fulfill request.
// It is shared by every consumer of a failed result and never modified.
type Neo4jError struct {
	Code                 string
	Msg                  string
	GqlStatus            string
	GqlStatusDescription string
}

func (e *Neo4jError) Error() string {
	return fmt.Sprintf("Neo4jError: %s (%s)", e.Code, e.Msg)
}

// Classification is the second part of the code, ClientError for
// Neo.ClientError.Statement.SyntaxError, or empty when the code is malformed.
// Transaction failures pre-5.x servers reported as transient are client errors.
func (e *Neo4jError) Classification() string {
	parts := strings.Split(e.Code, ".")
	if len(parts) != 4 {
		return ""
	}
	switch e.Code {
	case "Neo.TransientError.Transaction.LockClientStopped",
		"Neo.TransientError.Transaction.Terminated":
		return "ClientError"
	}
	return parts[1]
}

// IsRetriableTransient is true for transient server failures.
func (e *Neo4jError) IsRetriableTransient() bool {
	return e.Classification() == "TransientError"
}
