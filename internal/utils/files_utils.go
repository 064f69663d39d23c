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
package utils

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ReadSQLStatementsFromFile splits a reviewed output file back into
// individual statements, one per line, skipping blanks and comments.
func ReadSQLStatementsFromFile(filePath string) ([]string, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var statements []string
	for _, line := range strings.Split(string(content), "\n") {
		trimmed := strings.TrimSuffix(strings.TrimSpace(line), ";")
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		statements = append(statements, trimmed)
	}
	return statements, nil
}

// GetDefaultOutputFilePath derives the output file name from the
// database path, e.g. ./app.db -> app_statements.sql.
func GetDefaultOutputFilePath(dbPath string) string {
	base := filepath.Base(dbPath)
	if base == ":memory:" || base == "." || base == "" {
		base = "sqlitegen"
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return fmt.Sprintf("%s_statements.sql", base)
}

// ConfirmAction prompts for a yes/no confirmation on stdin.
func ConfirmAction(actionDescription string) bool {
	reader := bufio.NewReader(os.Stdin)
	fmt.Printf("\n-------------------------------------------------------------\n")
	fmt.Printf("Generated %s:\n", actionDescription)
	fmt.Print("Do you want to apply these changes to the database? (yes/no): ")
	text, _ := reader.ReadString('\n')
	action := strings.TrimSpace(strings.ToLower(text))
	return action == "yes" || action == "y"
}
