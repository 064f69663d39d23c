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

// Package sqlgen synthesizes SQLite statements from declarative,
// per-operation option structs. It is a one-directional generator: it
// never parses SQL, never executes it and never checks that referenced
// tables or columns exist. Table names are used verbatim; keeping them
// trustworthy is the caller's job.
package sqlgen

import (
	"fmt"
	"strings"
)

// Statement is one generated SQL statement. Args carries the named bind
// parameters, one map per row for multi-row inserts; statements without
// bound parameters have no Args.
type Statement struct {
	SQL  string
	Args []map[string]any
}

// SelectOptions configures a select statement. Zero value selects "*".
type SelectOptions struct {
	Columns  []string
	Distinct bool
	Join     *Join
	Where    *Where
	OrderBy  []Order
	Limit    *Limit
}

// Select builds "select [distinct] <cols> from <table>" followed, in
// fixed order, by the join, where, order-by and limit clauses.
func Select(table string, opts SelectOptions) (Statement, error) {
	projection := "*"
	if len(opts.Columns) > 0 {
		projection = strings.Join(opts.Columns, ", ")
	}
	verb := "select"
	if opts.Distinct {
		verb = "select distinct"
	}
	parts := []string{fmt.Sprintf("%s %s from %s", verb, projection, table)}

	join, err := joinClause(table, opts.Join)
	if err != nil {
		return Statement{}, err
	}
	parts = appendClause(parts, join)
	parts = appendClause(parts, whereClause(opts.Where, table, opts.Join != nil))
	parts = appendClause(parts, orderByClause(opts.OrderBy))

	limit, err := limitClause(opts.Limit)
	if err != nil {
		return Statement{}, err
	}
	parts = appendClause(parts, limit)

	return Statement{SQL: strings.Join(parts, " ")}, nil
}

// Insert builds "insert into <table> (cols) values(:placeholders)". The
// first row decides the column list and placeholder order; all rows must
// share that key set (a caller contract, not validated here). One bind
// map per row is returned, with values coerced to storage form.
func Insert(table string, rows ...Row) (Statement, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return Statement{}, &EmptyInsertError{Table: table}
	}
	first := rows[0]
	parts := []string{fmt.Sprintf("insert into %s", table)}
	parts = appendClause(parts, columnsClause(first))
	parts = appendClause(parts, valuesClause(first))

	args := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		bind := make(map[string]any, len(row))
		for _, f := range row {
			if _, ok := f.Value.(Raw); ok {
				continue // inlined, nothing to bind
			}
			bind[f.Column] = ToStorage(f.Value)
		}
		args = append(args, bind)
	}
	return Statement{SQL: strings.Join(parts, " "), Args: args}, nil
}

// UpdateOptions configures an update statement.
type UpdateOptions struct {
	Set   Row
	Where *Where
}

// Update builds "update <table> set ... [where ...]".
func Update(table string, opts UpdateOptions) (Statement, error) {
	parts := []string{fmt.Sprintf("update %s", table)}
	parts = appendClause(parts, setClause(opts.Set))
	parts = appendClause(parts, whereClause(opts.Where, table, false))
	return Statement{SQL: strings.Join(parts, " ")}, nil
}

// Delete builds "delete from <table> [where ...]". The delete path
// composes only the where clause; joins, ordering and limits do not
// apply.
func Delete(table string, where *Where) (Statement, error) {
	parts := []string{fmt.Sprintf("delete from %s", table)}
	parts = appendClause(parts, whereClause(where, table, false))
	return Statement{SQL: strings.Join(parts, " ")}, nil
}

// Create builds "create table [if not exists] <table>(<defs>)" from the
// ordered column definitions.
func Create(table string, opts CreateOptions) (Statement, error) {
	if len(opts.Columns) == 0 {
		return Statement{}, fmt.Errorf("create table %q: no column definitions", table)
	}
	defs := make([]string, len(opts.Columns))
	for i, def := range opts.Columns {
		defs[i] = columnDefClause(def)
	}
	verb := "create table"
	if opts.IfNotExists {
		verb = "create table if not exists"
	}
	return Statement{SQL: fmt.Sprintf("%s %s(%s)", verb, table, strings.Join(defs, ", "))}, nil
}

// Drop builds "drop table <table>".
func Drop(table string) Statement {
	return Statement{SQL: fmt.Sprintf("drop table %s", table)}
}

func appendClause(parts []string, clause string) []string {
	if clause == "" {
		return parts
	}
	return append(parts, clause)
}
