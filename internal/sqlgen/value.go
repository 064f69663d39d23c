/*
 * Copyright 2025 The sqlitegen Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *    https://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */
package sqlgen

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// Raw marks a SQL expression that is inlined verbatim instead of being
// bound as a parameter, e.g. Raw("date('now')") as an insert value.
type Raw string

// ColumnType is the declared storage type tag of a column. Boolean and
// JSON columns get value coercion; any other tag passes values through.
type ColumnType string

const (
	TypeBoolean ColumnType = "boolean"
	TypeJSON    ColumnType = "json"
)

// ToStorage converts a host value to its SQLite representation:
// booleans become 1/0, nil stays nil (bound as NULL), everything else
// is passed through unchanged.
func ToStorage(v any) any {
	switch b := v.(type) {
	case bool:
		if b {
			return int64(1)
		}
		return int64(0)
	default:
		return v
	}
}

// ToHost converts a stored value back to the host representation for the
// given column type. Boolean columns map 0 (and NULL) to false and any
// other value to true. JSON columns are decoded into nested structures.
func ToHost(v any, typ ColumnType) any {
	switch typ {
	case TypeBoolean:
		return storedTrue(v)
	case TypeJSON:
		return decodeJSON(v)
	default:
		return v
	}
}

func storedTrue(v any) bool {
	switch n := v.(type) {
	case nil:
		return false
	case bool:
		return n
	case int:
		return n != 0
	case int64:
		return n != 0
	case float64:
		return n != 0
	case string:
		return n != "0" && n != ""
	case []byte:
		return storedTrue(string(n))
	default:
		return true
	}
}

func decodeJSON(v any) any {
	var raw []byte
	switch s := v.(type) {
	case string:
		raw = []byte(s)
	case []byte:
		raw = s
	default:
		return v
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		// Not valid JSON; hand the stored text back untouched.
		return v
	}
	return out
}

// EncodeJSON serializes a structured host value to the text form stored
// in a JSON column.
func EncodeJSON(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode value as JSON: %w", err)
	}
	return string(raw), nil
}

// literal renders a value as inline SQL text. Integral numbers render
// without a fraction, strings are single-quoted unless they already
// contain a single quote, in which case double quotes are used. This is
// best-effort quoting, not an injection-safe escape; callers that handle
// untrusted input must use bound parameters instead.
func literal(v any) string {
	switch n := ToStorage(v).(type) {
	case nil:
		return "null"
	case Raw:
		return string(n)
	case int:
		return fmt.Sprintf("%d", n)
	case int64:
		return fmt.Sprintf("%d", n)
	case uint64:
		return fmt.Sprintf("%d", n)
	case float32:
		return literal(float64(n))
	case float64:
		if n == math.Trunc(n) {
			return fmt.Sprintf("%d", int64(n))
		}
		return fmt.Sprintf("%f", n)
	case string:
		if strings.Contains(n, "'") {
			return fmt.Sprintf("%q", n)
		}
		return fmt.Sprintf("'%s'", n)
	default:
		return fmt.Sprintf("%v", n)
	}
}
