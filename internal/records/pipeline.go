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

// Package records is the row pipeline between host records and the
// statement generator: it enforces required columns and coerces values
// before an insert, and reverses the coercion on rows read back.
package records

import (
	"sort"

	"github.com/teto/sqlitegen/internal/schema"
	"github.com/teto/sqlitegen/internal/sqlgen"
)

// Record is one host record, keyed by column name.
type Record map[string]any

// BindRows verifies and coerces records into ordered insert rows. Every
// column the schema marks required must be present and non-nil in every
// record. Column order is the sorted key set of the first record; all
// records must share that key set (caller contract). Values whose
// declared type is json are serialized; booleans become integers. Input
// records are never mutated.
func BindRows(tbl *schema.Table, recs ...Record) ([]sqlgen.Row, error) {
	if len(recs) == 0 {
		return nil, nil
	}

	columns := make([]string, 0, len(recs[0]))
	for col := range recs[0] {
		columns = append(columns, col)
	}
	sort.Strings(columns)

	rows := make([]sqlgen.Row, 0, len(recs))
	for _, rec := range recs {
		if err := checkRequired(tbl, rec); err != nil {
			return nil, err
		}
		row := make(sqlgen.Row, 0, len(columns))
		for _, col := range columns {
			v, err := bindValue(tbl, col, rec[col])
			if err != nil {
				return nil, err
			}
			row = append(row, sqlgen.Field{Column: col, Value: v})
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func checkRequired(tbl *schema.Table, rec Record) error {
	if tbl == nil {
		return nil
	}
	for _, col := range tbl.Required {
		if v, ok := rec[col]; !ok || v == nil {
			return &MissingColumnError{Table: tbl.Name, Column: col}
		}
	}
	return nil
}

func bindValue(tbl *schema.Table, col string, v any) (any, error) {
	if _, ok := v.(sqlgen.Raw); ok {
		return v, nil // inlined verbatim by the generator
	}
	if tbl.ColumnType(col) == sqlgen.TypeJSON && v != nil {
		encoded, err := sqlgen.EncodeJSON(v)
		if err != nil {
			return nil, &EncodeError{Table: tbl.Name, Column: col, Err: err}
		}
		return encoded, nil
	}
	return sqlgen.ToStorage(v), nil
}

// FromRows reverse-coerces a sequence of rows read back from the
// database, applying each column's declared type. Row order is
// preserved and the input rows are left untouched.
func FromRows(tbl *schema.Table, rows []Record) []Record {
	if rows == nil {
		return nil
	}
	out := make([]Record, len(rows))
	for i, row := range rows {
		out[i] = FromRow(tbl, row)
	}
	return out
}

// FromRow reverse-coerces a single row. Callers that fetched exactly one
// record use this instead of unwrapping a one-element slice.
func FromRow(tbl *schema.Table, row Record) Record {
	if row == nil {
		return nil
	}
	out := make(Record, len(row))
	for col, v := range row {
		out[col] = sqlgen.ToHost(v, tbl.ColumnType(col))
	}
	return out
}
