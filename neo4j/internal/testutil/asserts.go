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

// Package testutil contains shared test functionality
package testutil

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/neo4j/neo4j-go-resultstream/neo4j/db"
)

func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("Expected no error but was %T: %s", err, err)
	}
}

func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("Expected an error but it wasn't")
	}
}

// AssertErrorIs checks that err matches target through errors.Is.
func AssertErrorIs(t *testing.T, err, target error) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Fatalf("Expected error %v to be %v", err, target)
	}
}

// AssertSameError checks that both errors are the very same value.
func AssertSameError(t *testing.T, actual, expected error) {
	t.Helper()
	if actual != expected {
		t.Fatalf("Expected the same error instance, got %v (%p) and %v (%p)", actual, actual, expected, expected)
	}
}

func AssertNeo4jError(t *testing.T, err error) {
	t.Helper()
	AssertError(t, err)
	var dbErr *db.Neo4jError
	if !errors.As(err, &dbErr) {
		t.Errorf("Expected database error but was %T: %s", err, err)
	}
}

func AssertNil(t *testing.T, x any) {
	t.Helper()
	if !isNil(x) {
		t.Errorf("Expected nil but was %T: %s", x, x)
	}
}

// isNil is true for nil and for typed nil values of nillable kinds.
func isNil(x any) bool {
	if x == nil {
		return true
	}
	v := reflect.ValueOf(x)
	switch v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
		return v.IsNil()
	}
	return false
}

func AssertNotNil(t *testing.T, x any) {
	t.Helper()
	if isNil(x) {
		t.Fatal("Expected not nil")
	}
}

func AssertTrue(t *testing.T, b bool) {
	t.Helper()
	if !b {
		t.Error("Expected true but was false")
	}
}

func AssertFalse(t *testing.T, b bool) {
	t.Helper()
	if b {
		t.Error("Expected false but was true")
	}
}

func AssertLen(t *testing.T, x any, el int) {
	t.Helper()
	al := reflect.ValueOf(x).Len()
	if al != el {
		t.Errorf("Expected length %d but was %d", el, al)
	}
}

func AssertStringEqual(t *testing.T, as, es string) {
	t.Helper()
	if as != es {
		t.Errorf("'%s' != '%s'", as, es)
	}
}

func AssertStringContain(t *testing.T, s, sub string) {
	t.Helper()
	if !strings.Contains(s, sub) {
		t.Errorf("Expected %s to contain %s", s, sub)
	}
}

func AssertIntEqual(t *testing.T, ai, ei int) {
	t.Helper()
	if ai != ei {
		t.Errorf("%d != %d", ai, ei)
	}
}

// AssertDeepEquals checks that all values are deeply equal to the first one.
func AssertDeepEquals(t *testing.T, values ...any) {
	t.Helper()
	for i, value := range values[1:] {
		if !reflect.DeepEqual(values[0], value) {
			t.Errorf("Value at index %d differs: %+v vs %+v", i+1, values[0], value)
		}
	}
}

func AssertSameType(t *testing.T, x, y any) {
	t.Helper()
	t1 := reflect.TypeOf(x)
	t2 := reflect.TypeOf(y)
	if t1 != t2 {
		t.Errorf("Expected types of %s and %s to be same but was %s and %s", x, y, t1, t2)
	}
}
