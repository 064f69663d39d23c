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
	"fmt"
	"strings"
)

// Field is one column/value pair. A Row is an ordered list of fields;
// the order decides both the column list and the placeholder list of an
// insert, so the two always stay positionally aligned.
type Field struct {
	Column string
	Value  any
}

// Row is an ordered record used for insert values and update set lists.
type Row []Field

// Cond filters one column. A single value means an equality test; multiple
// values are equality tests on the same column joined with OR. Conds on
// different columns are joined with AND.
type Cond struct {
	Column string
	Values []any
}

// Eq builds an equality condition on a column.
func Eq(column string, v any) Cond {
	return Cond{Column: column, Values: []any{v}}
}

// AnyOf builds an OR-group condition: the column must equal one of vs.
func AnyOf(column string, vs ...any) Cond {
	return Cond{Column: column, Values: vs}
}

// Match filters one column with LIKE patterns. Multiple patterns on the
// same column are joined with OR; matches on different columns are joined
// with AND along with the rest of the where clause.
type Match struct {
	Column   string
	Patterns []string
}

// Where describes the filter of a select, update or delete.
type Where struct {
	Conds    []Cond
	Contains []Match
}

// Join describes a two-table inner join. Column is the join column on the
// statement's primary table; Table and TableColumn name the joined side.
type Join struct {
	Column      string
	Table       string
	TableColumn string
}

// Order groups columns under one direction; groups are emitted in
// declaration order.
type Order struct {
	Direction string // "asc" or "desc"
	Columns   []string
}

// Limit caps the row count of a select, optionally skipping Offset rows.
type Limit struct {
	Count  int
	Offset int
}

// columnsClause renders "(c1, c2, ...)" from an ordered row. Empty input
// yields the empty string so the assembler skips the clause.
func columnsClause(row Row) string {
	if len(row) == 0 {
		return ""
	}
	cols := make([]string, len(row))
	for i, f := range row {
		cols[i] = f.Column
	}
	return fmt.Sprintf("(%s)", strings.Join(cols, ", "))
}

// valuesClause renders "values(:c1, :c2, ...)" with one named placeholder
// per column, in the same order as columnsClause. Raw values are inlined
// verbatim instead of bound, which lets SQL function calls through.
func valuesClause(row Row) string {
	if len(row) == 0 {
		return ""
	}
	vals := make([]string, len(row))
	for i, f := range row {
		if raw, ok := f.Value.(Raw); ok {
			vals[i] = string(raw)
			continue
		}
		vals[i] = ":" + f.Column
	}
	return fmt.Sprintf("values(%s)", strings.Join(vals, ", "))
}

// setClause renders "set c1 = v1, c2 = v2, ...". Set values are always
// inlined as literals, never bound.
func setClause(set Row) string {
	if len(set) == 0 {
		return ""
	}
	pairs := make([]string, len(set))
	for i, f := range set {
		pairs[i] = fmt.Sprintf("%s = %s", f.Column, literal(f.Value))
	}
	return "set " + strings.Join(pairs, ", ")
}

// whereClause renders the full filter. Column names are qualified with the
// primary table name only while a join is in effect; columns that already
// carry a table qualifier are left alone.
func whereClause(w *Where, table string, joined bool) string {
	if w == nil || (len(w.Conds) == 0 && len(w.Contains) == 0) {
		return ""
	}
	var frags []string
	for _, c := range w.Conds {
		if len(c.Values) == 0 {
			continue
		}
		col := qualify(c.Column, table, joined)
		if len(c.Values) == 1 {
			frags = append(frags, fmt.Sprintf("%s = %s", col, literal(c.Values[0])))
			continue
		}
		ors := make([]string, len(c.Values))
		for i, v := range c.Values {
			ors[i] = fmt.Sprintf("%s = %s", col, literal(v))
		}
		frags = append(frags, fmt.Sprintf("(%s)", strings.Join(ors, " or ")))
	}
	for _, m := range w.Contains {
		if len(m.Patterns) == 0 {
			continue
		}
		col := qualify(m.Column, table, joined)
		likes := make([]string, len(m.Patterns))
		for i, p := range m.Patterns {
			likes[i] = fmt.Sprintf("%s like %s", col, literal(p))
		}
		if len(likes) == 1 {
			frags = append(frags, likes[0])
		} else {
			frags = append(frags, fmt.Sprintf("(%s)", strings.Join(likes, " or ")))
		}
	}
	if len(frags) == 0 {
		return ""
	}
	return "where " + strings.Join(frags, " and ")
}

func qualify(column, table string, joined bool) string {
	if !joined || strings.Contains(column, ".") {
		return column
	}
	return table + "." + column
}

// joinClause renders "inner join T on primary.cA = T.cB". Only two-table
// inner joins are supported.
func joinClause(table string, j *Join) (string, error) {
	if j == nil {
		return "", nil
	}
	if j.Table == "" || j.Table == table {
		return "", &InvalidJoinError{Table: table, Msg: "join target must name a second table"}
	}
	if j.Column == "" || j.TableColumn == "" {
		return "", &InvalidJoinError{Table: table, Msg: "join columns must be set on both sides"}
	}
	return fmt.Sprintf("inner join %s on %s.%s = %s.%s",
		j.Table, table, j.Column, j.Table, j.TableColumn), nil
}

// orderByClause renders "order by c1 dir1, c2 dir1, c3 dir2, ..."
// preserving the grouping of columns under each direction.
func orderByClause(orders []Order) string {
	if len(orders) == 0 {
		return ""
	}
	var parts []string
	for _, o := range orders {
		for _, col := range o.Columns {
			parts = append(parts, fmt.Sprintf("%s %s", col, o.Direction))
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return "order by " + strings.Join(parts, ", ")
}

// limitClause renders "limit N" or "limit N offset M".
func limitClause(l *Limit) (string, error) {
	if l == nil {
		return "", nil
	}
	if l.Count < 0 || l.Offset < 0 {
		return "", &InvalidLimitError{Count: l.Count, Offset: l.Offset}
	}
	if l.Offset > 0 {
		return fmt.Sprintf("limit %d offset %d", l.Count, l.Offset), nil
	}
	return fmt.Sprintf("limit %d", l.Count), nil
}
