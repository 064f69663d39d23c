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
package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teto/sqlitegen/internal/sqlgen"
)

func writeSchemaFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "schema.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeSchemaFile(t, `
tables:
  users:
    columns:
      id: true
      name: text
      active: boolean
      profile: json
    required: [name]
`)

	tables, err := Load(path)
	require.NoError(t, err)
	require.Contains(t, tables, "users")

	users := tables["users"]
	assert.Equal(t, "users", users.Name)
	assert.Equal(t, []string{"name"}, users.Required)
	assert.Equal(t, sqlgen.TypeBoolean, users.ColumnType("active"))
	assert.Equal(t, sqlgen.TypeJSON, users.ColumnType("profile"))
	assert.Equal(t, sqlgen.ColumnType("text"), users.ColumnType("name"))
	assert.True(t, users.IsRequired("name"))
	assert.False(t, users.IsRequired("active"))

	// Definitions are sorted by column name for deterministic output.
	names := make([]string, len(users.Defs))
	for i, def := range users.Defs {
		names[i] = def.Name
	}
	assert.Equal(t, []string{"active", "id", "name", "profile"}, names)
}

func TestLoadStructuredColumn(t *testing.T) {
	path := writeSchemaFile(t, `
tables:
  posts:
    columns:
      id: true
      owner_id:
        type: integer
        required: true
        reference: users.id
        on_delete: cascade
      slug:
        type: text
        unique: true
`)

	tables, err := Load(path)
	require.NoError(t, err)

	posts := tables["posts"]
	require.Len(t, posts.Defs, 3)

	var owner sqlgen.ColumnDef
	for _, def := range posts.Defs {
		if def.Name == "owner_id" {
			owner = def
		}
	}
	assert.Equal(t, "integer", owner.Type)
	assert.True(t, owner.Required)
	assert.Equal(t, "users.id", owner.Reference)
	assert.Equal(t, "cascade", owner.OnDelete)

	stmt, err := sqlgen.Create("posts", posts.CreateOptions(false))
	require.NoError(t, err)
	assert.Equal(t,
		"create table posts(id integer not null primary key, owner_id integer not null references users(id) on delete cascade, slug text unique)",
		stmt.SQL)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "no tables", content: "tables: {}"},
		{name: "false shorthand", content: "tables:\n  t:\n    columns:\n      id: false\n"},
		{name: "unsupported declaration", content: "tables:\n  t:\n    columns:\n      id: 7\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeSchemaFile(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
