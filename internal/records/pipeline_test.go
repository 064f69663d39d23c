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
package records

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teto/sqlitegen/internal/schema"
	"github.com/teto/sqlitegen/internal/sqlgen"
)

func usersTable() *schema.Table {
	return &schema.Table{
		Name: "users",
		Columns: map[string]sqlgen.ColumnType{
			"active":  sqlgen.TypeBoolean,
			"profile": sqlgen.TypeJSON,
			"name":    "text",
			"age":     "integer",
		},
		Required: []string{"name"},
	}
}

func TestBindRowsCoercesValues(t *testing.T) {
	rows, err := BindRows(usersTable(), Record{
		"name":    "Bob",
		"active":  true,
		"profile": map[string]any{"city": "Oslo"},
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)

	// Columns come out in sorted order for deterministic statements.
	row := rows[0]
	require.Len(t, row, 3)
	assert.Equal(t, "active", row[0].Column)
	assert.Equal(t, int64(1), row[0].Value)
	assert.Equal(t, "name", row[1].Column)
	assert.Equal(t, "Bob", row[1].Value)
	assert.Equal(t, "profile", row[2].Column)
	assert.JSONEq(t, `{"city":"Oslo"}`, row[2].Value.(string))
}

func TestBindRowsMissingRequiredColumn(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
	}{
		{name: "column absent", rec: Record{"age": 42}},
		{name: "column nil", rec: Record{"name": nil, "age": 42}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := len(tt.rec)

			_, err := BindRows(usersTable(), tt.rec)

			var merr *MissingColumnError
			require.ErrorAs(t, err, &merr)
			assert.Equal(t, "name", merr.Column)
			assert.Equal(t, "users", merr.Table)
			// The offending record is left untouched.
			assert.Len(t, tt.rec, before)
		})
	}
}

func TestBindRowsMultiRecord(t *testing.T) {
	rows, err := BindRows(usersTable(),
		Record{"name": "Bob", "age": 42},
		Record{"name": "Ann", "age": 35},
	)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Bob", rows[0][1].Value)
	assert.Equal(t, "Ann", rows[1][1].Value)
}

func TestBindRowsRawPassesThrough(t *testing.T) {
	rows, err := BindRows(usersTable(), Record{
		"name": "Bob",
		"age":  sqlgen.Raw("abs(-42)"),
	})
	require.NoError(t, err)
	assert.Equal(t, sqlgen.Raw("abs(-42)"), rows[0][0].Value)
}

func TestBindRowsEmptyInput(t *testing.T) {
	rows, err := BindRows(usersTable())
	require.NoError(t, err)
	assert.Nil(t, rows)
}

func TestFromRowSingle(t *testing.T) {
	rec := FromRow(usersTable(), Record{
		"name":    "Bob",
		"active":  int64(1),
		"profile": `{"city":"Oslo"}`,
	})

	assert.Equal(t, "Bob", rec["name"])
	assert.Equal(t, true, rec["active"])
	assert.Equal(t, map[string]any{"city": "Oslo"}, rec["profile"])
}

func TestFromRowsPreservesOrderAndLength(t *testing.T) {
	in := []Record{
		{"name": "Bob", "active": int64(0)},
		{"name": "Ann", "active": int64(1)},
		{"name": "Eve", "active": int64(0)},
	}

	out := FromRows(usersTable(), in)

	require.Len(t, out, len(in))
	assert.Equal(t, "Bob", out[0]["name"])
	assert.Equal(t, false, out[0]["active"])
	assert.Equal(t, "Ann", out[1]["name"])
	assert.Equal(t, true, out[1]["active"])
	assert.Equal(t, "Eve", out[2]["name"])

	// Input rows are not mutated by the reverse coercion.
	assert.Equal(t, int64(0), in[0]["active"])
}
