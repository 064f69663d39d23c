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

// Package ops reads declarative operation files and translates them into
// the typed inputs of the statement generator. Map-shaped inputs from the
// file are sorted by column name so generated SQL is deterministic.
package ops

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/viper"

	"github.com/teto/sqlitegen/internal/records"
	"github.com/teto/sqlitegen/internal/schema"
	"github.com/teto/sqlitegen/internal/sqlgen"
)

// Operation is one declarative operation from an operations file.
type Operation struct {
	Op          string           `mapstructure:"op"`
	Table       string           `mapstructure:"table"`
	Columns     []string         `mapstructure:"columns"`
	Distinct    bool             `mapstructure:"distinct"`
	Where       map[string]any   `mapstructure:"where"`
	Contains    map[string]any   `mapstructure:"contains"`
	Join        *joinSpec        `mapstructure:"join"`
	OrderBy     []orderSpec      `mapstructure:"order_by"`
	Limit       *limitSpec       `mapstructure:"limit"`
	Rows        []map[string]any `mapstructure:"rows"`
	Set         map[string]any   `mapstructure:"set"`
	IfNotExists bool             `mapstructure:"if_not_exists"`
}

type joinSpec struct {
	Column      string `mapstructure:"column"`
	Table       string `mapstructure:"table"`
	TableColumn string `mapstructure:"table_column"`
}

type orderSpec struct {
	Direction string   `mapstructure:"direction"`
	Columns   []string `mapstructure:"columns"`
}

type limitSpec struct {
	Count  int `mapstructure:"count"`
	Offset int `mapstructure:"offset"`
}

// Load reads an operations file (YAML or JSON).
func Load(path string) ([]Operation, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read operations file %q: %w", path, err)
	}

	var raw struct {
		Operations []Operation `mapstructure:"operations"`
	}
	if err := v.Unmarshal(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode operations file %q: %w", path, err)
	}
	if len(raw.Operations) == 0 {
		return nil, fmt.Errorf("operations file %q declares no operations", path)
	}
	return raw.Operations, nil
}

// Statements translates every operation into a generated statement.
// Create operations take their column definitions from the schema
// descriptors; insert rows go through the row pipeline of the named
// table when a descriptor for it exists.
func Statements(operations []Operation, tables map[string]*schema.Table) ([]sqlgen.Statement, error) {
	stmts := make([]sqlgen.Statement, 0, len(operations))
	for i, op := range operations {
		stmt, err := op.Statement(tables)
		if err != nil {
			return nil, fmt.Errorf("operation #%d: %w", i+1, err)
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

// Statement translates one operation.
func (o Operation) Statement(tables map[string]*schema.Table) (sqlgen.Statement, error) {
	if o.Table == "" {
		return sqlgen.Statement{}, fmt.Errorf("%s: missing table name", o.Op)
	}
	switch strings.ToLower(o.Op) {
	case "select":
		return sqlgen.Select(o.Table, sqlgen.SelectOptions{
			Columns:  o.Columns,
			Distinct: o.Distinct,
			Join:     o.join(),
			Where:    o.where(),
			OrderBy:  o.orderBy(),
			Limit:    o.limit(),
		})
	case "insert":
		rows, err := records.BindRows(tables[o.Table], toRecords(o.Rows)...)
		if err != nil {
			return sqlgen.Statement{}, err
		}
		return sqlgen.Insert(o.Table, rows...)
	case "update":
		return sqlgen.Update(o.Table, sqlgen.UpdateOptions{
			Set:   sortedRow(o.Set),
			Where: o.where(),
		})
	case "delete":
		return sqlgen.Delete(o.Table, o.where())
	case "create":
		tbl, ok := tables[o.Table]
		if !ok {
			return sqlgen.Statement{}, fmt.Errorf("create %s: no schema descriptor for table", o.Table)
		}
		return sqlgen.Create(o.Table, tbl.CreateOptions(o.IfNotExists))
	case "drop":
		return sqlgen.Drop(o.Table), nil
	default:
		return sqlgen.Statement{}, fmt.Errorf("unsupported operation kind %q", o.Op)
	}
}

func (o Operation) join() *sqlgen.Join {
	if o.Join == nil {
		return nil
	}
	return &sqlgen.Join{
		Column:      o.Join.Column,
		Table:       o.Join.Table,
		TableColumn: o.Join.TableColumn,
	}
}

// where maps the loose file shape to typed conditions: a scalar value is
// an equality test, a list is an OR-group on that column.
func (o Operation) where() *sqlgen.Where {
	if len(o.Where) == 0 && len(o.Contains) == 0 {
		return nil
	}
	w := &sqlgen.Where{}
	for _, col := range sortedKeys(o.Where) {
		switch v := o.Where[col].(type) {
		case []any:
			w.Conds = append(w.Conds, sqlgen.AnyOf(col, v...))
		default:
			w.Conds = append(w.Conds, sqlgen.Eq(col, fileValue(v)))
		}
	}
	for _, col := range sortedKeys(o.Contains) {
		switch v := o.Contains[col].(type) {
		case []any:
			patterns := make([]string, 0, len(v))
			for _, p := range v {
				patterns = append(patterns, fmt.Sprintf("%v", p))
			}
			w.Contains = append(w.Contains, sqlgen.Match{Column: col, Patterns: patterns})
		default:
			w.Contains = append(w.Contains, sqlgen.Match{Column: col, Patterns: []string{fmt.Sprintf("%v", v)}})
		}
	}
	return w
}

func (o Operation) orderBy() []sqlgen.Order {
	if len(o.OrderBy) == 0 {
		return nil
	}
	orders := make([]sqlgen.Order, len(o.OrderBy))
	for i, spec := range o.OrderBy {
		direction := strings.ToLower(spec.Direction)
		if direction == "" {
			direction = "asc"
		}
		orders[i] = sqlgen.Order{Direction: direction, Columns: spec.Columns}
	}
	return orders
}

func (o Operation) limit() *sqlgen.Limit {
	if o.Limit == nil {
		return nil
	}
	return &sqlgen.Limit{Count: o.Limit.Count, Offset: o.Limit.Offset}
}

func toRecords(rows []map[string]any) []records.Record {
	out := make([]records.Record, len(rows))
	for i, row := range rows {
		rec := make(records.Record, len(row))
		for col, v := range row {
			rec[col] = fileValue(v)
		}
		out[i] = rec
	}
	return out
}

// fileValue recognizes the explicit raw-expression form {raw: "..."},
// which is inlined verbatim instead of bound.
func fileValue(v any) any {
	m, ok := v.(map[string]any)
	if !ok || len(m) != 1 {
		return v
	}
	if raw, ok := m["raw"].(string); ok {
		return sqlgen.Raw(raw)
	}
	return v
}

func sortedRow(m map[string]any) sqlgen.Row {
	row := make(sqlgen.Row, 0, len(m))
	for _, col := range sortedKeys(m) {
		row = append(row, sqlgen.Field{Column: col, Value: fileValue(m[col])})
	}
	return row
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
