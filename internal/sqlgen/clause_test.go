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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnsAndValuesAlignment(t *testing.T) {
	row := Row{
		{Column: "name", Value: "Bob"},
		{Column: "active", Value: true},
		{Column: "age", Value: 42},
	}

	cols := columnsClause(row)
	vals := valuesClause(row)

	assert.Equal(t, "(name, active, age)", cols)
	assert.Equal(t, "values(:name, :active, :age)", vals)

	// The two clauses must enumerate columns in identical order.
	colOrder := strings.Split(strings.Trim(cols, "()"), ", ")
	valOrder := strings.Split(strings.TrimSuffix(strings.TrimPrefix(vals, "values("), ")"), ", ")
	require.Len(t, valOrder, len(colOrder))
	for i, col := range colOrder {
		assert.Equal(t, ":"+col, valOrder[i])
	}
}

func TestValuesClauseInlinesRawExpressions(t *testing.T) {
	row := Row{
		{Column: "name", Value: "Bob"},
		{Column: "created", Value: Raw("date('now')")},
	}
	assert.Equal(t, "values(:name, date('now'))", valuesClause(row))
}

func TestEmptyClausesAreOmitted(t *testing.T) {
	assert.Empty(t, columnsClause(nil))
	assert.Empty(t, valuesClause(nil))
	assert.Empty(t, setClause(nil))
	assert.Empty(t, whereClause(nil, "users", false))
	assert.Empty(t, whereClause(&Where{}, "users", false))
	assert.Empty(t, orderByClause(nil))

	limit, err := limitClause(nil)
	require.NoError(t, err)
	assert.Empty(t, limit)

	join, err := joinClause("users", nil)
	require.NoError(t, err)
	assert.Empty(t, join)
}

func TestSetClause(t *testing.T) {
	set := Row{
		{Column: "age", Value: 30},
		{Column: "name", Value: "Ann"},
		{Column: "active", Value: false},
	}
	assert.Equal(t, "set age = 30, name = 'Ann', active = 0", setClause(set))
}

func TestWhereClause(t *testing.T) {
	tests := []struct {
		name   string
		where  *Where
		joined bool
		want   string
	}{
		{
			name:  "single equality",
			where: &Where{Conds: []Cond{Eq("id", 1)}},
			want:  "where id = 1",
		},
		{
			name:  "multiple columns joined with and",
			where: &Where{Conds: []Cond{Eq("id", 1), Eq("name", "bob")}},
			want:  "where id = 1 and name = 'bob'",
		},
		{
			name:  "or group on one column",
			where: &Where{Conds: []Cond{AnyOf("status", "active", "pending")}},
			want:  "where (status = 'active' or status = 'pending')",
		},
		{
			name: "contains single pattern",
			where: &Where{
				Contains: []Match{{Column: "name", Patterns: []string{"%bob%"}}},
			},
			want: "where name like '%bob%'",
		},
		{
			name: "contains multiple patterns ored",
			where: &Where{
				Contains: []Match{{Column: "name", Patterns: []string{"a%", "b%"}}},
			},
			want: "where (name like 'a%' or name like 'b%')",
		},
		{
			name: "conds and contains combined",
			where: &Where{
				Conds:    []Cond{Eq("active", true)},
				Contains: []Match{{Column: "email", Patterns: []string{"%@example.com"}}},
			},
			want: "where active = 1 and email like '%@example.com'",
		},
		{
			name:   "columns qualified while joined",
			where:  &Where{Conds: []Cond{Eq("id", 1)}},
			joined: true,
			want:   "where users.id = 1",
		},
		{
			name:   "pre-qualified columns left alone",
			where:  &Where{Conds: []Cond{Eq("orders.total", 5)}},
			joined: true,
			want:   "where orders.total = 5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, whereClause(tt.where, "users", tt.joined))
		})
	}
}

func TestJoinClause(t *testing.T) {
	join, err := joinClause("users", &Join{Column: "id", Table: "orders", TableColumn: "user_id"})
	require.NoError(t, err)
	assert.Equal(t, "inner join orders on users.id = orders.user_id", join)
}

func TestJoinClauseErrors(t *testing.T) {
	tests := []struct {
		name string
		join *Join
	}{
		{name: "missing target table", join: &Join{Column: "id", TableColumn: "user_id"}},
		{name: "target equals primary", join: &Join{Column: "id", Table: "users", TableColumn: "user_id"}},
		{name: "missing columns", join: &Join{Table: "orders"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := joinClause("users", tt.join)
			var jerr *InvalidJoinError
			require.ErrorAs(t, err, &jerr)
			assert.Equal(t, "users", jerr.Table)
		})
	}
}

func TestOrderByClause(t *testing.T) {
	orders := []Order{
		{Direction: "asc", Columns: []string{"name", "age"}},
		{Direction: "desc", Columns: []string{"created"}},
	}
	assert.Equal(t, "order by name asc, age asc, created desc", orderByClause(orders))
}

func TestLimitClause(t *testing.T) {
	tests := []struct {
		name    string
		limit   *Limit
		want    string
		wantErr bool
	}{
		{name: "bare count", limit: &Limit{Count: 10}, want: "limit 10"},
		{name: "count with offset", limit: &Limit{Count: 10, Offset: 20}, want: "limit 10 offset 20"},
		{name: "negative count rejected", limit: &Limit{Count: -1}, wantErr: true},
		{name: "negative offset rejected", limit: &Limit{Count: 5, Offset: -2}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := limitClause(tt.limit)
			if tt.wantErr {
				var lerr *InvalidLimitError
				require.ErrorAs(t, err, &lerr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
