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
package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/teto/sqlitegen/internal/sqlgen"
)

// createTablesCmd emits create-table statements for every table in the
// schema file and optionally applies them.
var createTablesCmd = &cobra.Command{
	Use:     "create-tables",
	Short:   "Generate create-table statements from the schema file",
	Example: `./sqlitegen create-tables --schema ./schema.yaml --db ./app.db --dry-run=false`,
	RunE:    runCreateTables,
}

func runCreateTables(cmd *cobra.Command, args []string) error {
	tables, err := loadSchemaTables(true)
	if err != nil {
		return err
	}

	ifNotExists, err := cmd.Flags().GetBool("if-not-exists")
	if err != nil {
		return err
	}

	names := make([]string, 0, len(tables))
	for name := range tables {
		names = append(names, name)
	}
	sort.Strings(names)

	stmts := make([]sqlgen.Statement, 0, len(names))
	for _, name := range names {
		stmt, err := sqlgen.Create(name, tables[name].CreateOptions(ifNotExists))
		if err != nil {
			return fmt.Errorf("table %q: %w", name, err)
		}
		stmts = append(stmts, stmt)
		fmt.Println(stmt.SQL + ";")
	}

	if dryRun {
		logger.Info("create-tables completed in dry-run mode, no changes were made",
			zap.Int("tables", len(stmts)))
		return nil
	}

	db, err := setupDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.ExecuteStatements(cmd.Context(), stmts); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	logger.Info("created tables", zap.Int("count", len(stmts)))
	return nil
}

func init() {
	createTablesCmd.Flags().Bool("if-not-exists", true, "Emit 'create table if not exists' instead of failing on existing tables")
}
