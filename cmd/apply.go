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

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/teto/sqlitegen/internal/ops"
	"github.com/teto/sqlitegen/internal/sqlgen"
	"github.com/teto/sqlitegen/internal/utils"
)

// applyCmd executes statements against the database, either regenerated
// from an operations file (with bound parameters) or read back from a
// previously generated SQL file.
var applyCmd = &cobra.Command{
	Use:     "apply",
	Short:   "Apply generated statements to the database",
	Long:    `Regenerates statements from an operations file, or reads a reviewed SQL file, and executes everything in one transaction after confirmation.`,
	Example: `./sqlitegen apply --ops ./operations.yaml --schema ./schema.yaml --db ./app.db --dry-run=false`,
	RunE:    runApply,
}

func runApply(cmd *cobra.Command, args []string) error {
	opsFile := cmd.Flag("ops").Value.String()
	sqlFile := cmd.Flag("sql_file").Value.String()
	if opsFile == "" && sqlFile == "" {
		return fmt.Errorf("either an operations file (--ops) or a SQL file (--sql_file) is required")
	}
	if opsFile != "" && sqlFile != "" {
		return fmt.Errorf("--ops and --sql_file are mutually exclusive")
	}

	var stmts []sqlgen.Statement
	if opsFile != "" {
		operations, err := ops.Load(opsFile)
		if err != nil {
			return err
		}
		tables, err := loadSchemaTables(false)
		if err != nil {
			return err
		}
		stmts, err = ops.Statements(operations, tables)
		if err != nil {
			return fmt.Errorf("statement generation failed: %w", err)
		}
	} else {
		raw, err := utils.ReadSQLStatementsFromFile(sqlFile)
		if err != nil {
			return err
		}
		for _, s := range raw {
			stmts = append(stmts, sqlgen.Statement{SQL: s})
		}
	}

	for _, stmt := range stmts {
		fmt.Println(stmt.SQL + ";")
	}

	if dryRun {
		logger.Info("apply completed in dry-run mode, no changes were made",
			zap.Int("statements", len(stmts)))
		return nil
	}

	if len(stmts) == 0 {
		logger.Info("no statements to apply")
		return nil
	}

	if !utils.ConfirmAction(fmt.Sprintf("%d SQL statements", len(stmts))) {
		logger.Info("apply aborted by user")
		return nil
	}

	db, err := setupDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.ExecuteStatements(cmd.Context(), stmts); err != nil {
		return fmt.Errorf("failed to execute statements: %w", err)
	}
	logger.Info("successfully applied statements", zap.Int("count", len(stmts)))
	return nil
}

func init() {
	var opsFile string
	var sqlFile string

	applyCmd.Flags().StringVar(&opsFile, "ops", "", "Operations file to regenerate statements from (YAML or JSON)")
	applyCmd.Flags().StringVar(&sqlFile, "sql_file", "", "Previously generated SQL file to execute as-is")
}
