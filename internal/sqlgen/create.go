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

// ColumnDef declares one column of a create-table statement. ID is a
// shorthand for "integer not null primary key"; a bare Type with no other
// flags emits "name type". Constraint fragments are always emitted in the
// order: type, unique, not null, primary key, default, references,
// on update, on delete.
type ColumnDef struct {
	Name       string
	ID         bool   // integer primary key shorthand
	Type       string // SQL storage type, e.g. "text", "integer"
	Unique     bool
	Required   bool // emits "not null"; absent means nullable
	PrimaryKey bool
	Default    any    // inlined as a literal
	Reference  string // "table.column", rewritten to "references table(column)"
	OnUpdate   string // action: "cascade", "null", "default", ...
	OnDelete   string
}

// CreateOptions carries the column definitions of a create-table
// statement. IfNotExists is a statement option, never a column.
type CreateOptions struct {
	IfNotExists bool
	Columns     []ColumnDef
}

// columnDefClause renders one column definition.
func columnDefClause(def ColumnDef) string {
	if def.ID {
		return fmt.Sprintf("%s integer not null primary key", def.Name)
	}
	frags := []string{def.Name, def.Type}
	if def.Unique {
		frags = append(frags, "unique")
	}
	if def.Required {
		frags = append(frags, "not null")
	}
	if def.PrimaryKey {
		frags = append(frags, "primary key")
	}
	if def.Default != nil {
		frags = append(frags, "default "+literal(def.Default))
	}
	if def.Reference != "" {
		frags = append(frags, "references "+referenceClause(def.Reference))
	}
	if def.OnUpdate != "" {
		frags = append(frags, "on update "+actionClause(def.OnUpdate))
	}
	if def.OnDelete != "" {
		frags = append(frags, "on delete "+actionClause(def.OnDelete))
	}
	return strings.Join(frags, " ")
}

// referenceClause rewrites "table.column" to "table(column)".
func referenceClause(ref string) string {
	table, column, ok := strings.Cut(ref, ".")
	if !ok {
		return ref
	}
	return fmt.Sprintf("%s(%s)", table, column)
}

// actionClause prefixes the "set null" / "set default" actions; other
// actions such as "cascade" and "restrict" pass through verbatim.
func actionClause(action string) string {
	switch strings.ToLower(strings.TrimSpace(action)) {
	case "null":
		return "set null"
	case "default":
		return "set default"
	default:
		return action
	}
}
