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

import "fmt"

// InvalidJoinError reports a join spec that cannot produce a valid
// two-table inner join.
type InvalidJoinError struct {
	Table string // primary table of the statement
	Msg   string
}

func (e *InvalidJoinError) Error() string {
	return fmt.Sprintf("invalid join on table %q: %s", e.Table, e.Msg)
}

// InvalidLimitError reports a limit spec with a negative count or offset.
type InvalidLimitError struct {
	Count  int
	Offset int
}

func (e *InvalidLimitError) Error() string {
	return fmt.Sprintf("invalid limit spec: count=%d offset=%d", e.Count, e.Offset)
}

// EmptyInsertError reports an insert with no rows or an empty first row,
// from which no column list can be derived.
type EmptyInsertError struct {
	Table string
}

func (e *EmptyInsertError) Error() string {
	return fmt.Sprintf("insert into %q: no values given", e.Table)
}
