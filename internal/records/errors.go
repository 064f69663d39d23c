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

import "fmt"

// MissingColumnError reports a record that lacks a column the schema
// marks as required. The offending record is not modified.
type MissingColumnError struct {
	Table  string
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing required key %q for table %q", e.Column, e.Table)
}

// EncodeError reports a value that could not be serialized for a JSON
// column.
type EncodeError struct {
	Table  string
	Column string
	Err    error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("failed to encode column %q of table %q: %v", e.Column, e.Table, e.Err)
}

func (e *EncodeError) Unwrap() error {
	return e.Err
}
