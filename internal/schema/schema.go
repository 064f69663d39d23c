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

// Package schema holds the table descriptors consumed by the row
// pipeline and the create-table generator. Descriptors are external
// input: this package never inspects a live database.
package schema

import (
	"fmt"
	"sort"

	"github.com/spf13/viper"

	"github.com/teto/sqlitegen/internal/sqlgen"
)

// Table describes one table: a column-to-type mapping for value
// coercion, the required-column list enforced before inserts, and the
// ordered column definitions used to create the table.
type Table struct {
	Name     string
	Columns  map[string]sqlgen.ColumnType
	Required []string
	Defs     []sqlgen.ColumnDef
}

// ColumnType returns the declared type tag for a column. Unknown columns
// pass values through uncoerced.
func (t *Table) ColumnType(column string) sqlgen.ColumnType {
	if t == nil {
		return ""
	}
	return t.Columns[column]
}

// IsRequired reports whether a column must be present and non-nil in
// every inserted record.
func (t *Table) IsRequired(column string) bool {
	for _, c := range t.Required {
		if c == column {
			return true
		}
	}
	return false
}

// CreateOptions returns the create-table input for this descriptor.
func (t *Table) CreateOptions(ifNotExists bool) sqlgen.CreateOptions {
	return sqlgen.CreateOptions{IfNotExists: ifNotExists, Columns: t.Defs}
}

// fileColumn is the on-disk shape of one column declaration.
// A column may be declared three ways:
//
//	id: true                 # integer primary key shorthand
//	name: text               # bare storage type
//	age: {type: integer, required: true, default: 0}
type fileColumn struct {
	ID         bool   `mapstructure:"id"`
	Type       string `mapstructure:"type"`
	Unique     bool   `mapstructure:"unique"`
	Required   bool   `mapstructure:"required"`
	PrimaryKey bool   `mapstructure:"primary_key"`
	Default    any    `mapstructure:"default"`
	Reference  string `mapstructure:"reference"`
	OnUpdate   string `mapstructure:"on_update"`
	OnDelete   string `mapstructure:"on_delete"`
}

type fileTable struct {
	Columns  map[string]any `mapstructure:"columns"`
	Required []string       `mapstructure:"required"`
}

// Load reads table descriptors from a YAML or JSON schema file:
//
//	tables:
//	  users:
//	    columns:
//	      id: true
//	      name: text
//	      active: boolean
//	      profile: json
//	    required: [name]
//
// Column declarations are sorted by name so generated create-table
// statements are deterministic.
func Load(path string) (map[string]*Table, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read schema file %q: %w", path, err)
	}

	var raw struct {
		Tables map[string]fileTable `mapstructure:"tables"`
	}
	if err := v.Unmarshal(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode schema file %q: %w", path, err)
	}
	if len(raw.Tables) == 0 {
		return nil, fmt.Errorf("schema file %q declares no tables", path)
	}

	tables := make(map[string]*Table, len(raw.Tables))
	for name, ft := range raw.Tables {
		tbl, err := buildTable(name, ft)
		if err != nil {
			return nil, err
		}
		tables[name] = tbl
	}
	return tables, nil
}

func buildTable(name string, ft fileTable) (*Table, error) {
	tbl := &Table{
		Name:     name,
		Columns:  make(map[string]sqlgen.ColumnType, len(ft.Columns)),
		Required: ft.Required,
	}

	colNames := make([]string, 0, len(ft.Columns))
	for col := range ft.Columns {
		colNames = append(colNames, col)
	}
	sort.Strings(colNames)

	for _, col := range colNames {
		decl := ft.Columns[col]
		def, typ, err := buildColumn(name, col, decl)
		if err != nil {
			return nil, err
		}
		tbl.Defs = append(tbl.Defs, def)
		tbl.Columns[col] = typ
	}
	return tbl, nil
}

func buildColumn(table, col string, decl any) (sqlgen.ColumnDef, sqlgen.ColumnType, error) {
	switch d := decl.(type) {
	case bool:
		if !d {
			return sqlgen.ColumnDef{}, "", fmt.Errorf("table %q column %q: shorthand must be true", table, col)
		}
		return sqlgen.ColumnDef{Name: col, ID: d}, "", nil
	case string:
		return sqlgen.ColumnDef{Name: col, Type: d}, storageType(d), nil
	case map[string]any:
		var fc fileColumn
		if err := decodeColumn(d, &fc); err != nil {
			return sqlgen.ColumnDef{}, "", fmt.Errorf("table %q column %q: %w", table, col, err)
		}
		def := sqlgen.ColumnDef{
			Name:       col,
			ID:         fc.ID,
			Type:       fc.Type,
			Unique:     fc.Unique,
			Required:   fc.Required,
			PrimaryKey: fc.PrimaryKey,
			Default:    fc.Default,
			Reference:  fc.Reference,
			OnUpdate:   fc.OnUpdate,
			OnDelete:   fc.OnDelete,
		}
		return def, storageType(fc.Type), nil
	default:
		return sqlgen.ColumnDef{}, "", fmt.Errorf("table %q column %q: unsupported declaration type %T", table, col, decl)
	}
}

func decodeColumn(raw map[string]any, fc *fileColumn) error {
	v := viper.New()
	for key, val := range raw {
		v.Set(key, val)
	}
	return v.Unmarshal(fc)
}

// storageType maps a declared type string to the coercion tag. Boolean
// and JSON columns get coerced; anything else is a pass-through SQL type.
func storageType(typ string) sqlgen.ColumnType {
	switch typ {
	case string(sqlgen.TypeBoolean):
		return sqlgen.TypeBoolean
	case string(sqlgen.TypeJSON):
		return sqlgen.TypeJSON
	default:
		return sqlgen.ColumnType(typ)
	}
}
