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
	"os"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/teto/sqlitegen/internal/ops"
	"github.com/teto/sqlitegen/internal/sqlgen"
	"github.com/teto/sqlitegen/internal/utils"
)

// generateCmd synthesizes SQL from an operations file and writes it to a
// reviewable output file.
var generateCmd = &cobra.Command{
	Use:     "generate",
	Short:   "Generate SQL statements from a declarative operations file",
	Long:    `Reads an operations file, synthesizes the SQL statements it describes and writes them to a file for review before application.`,
	Example: `./sqlitegen generate --ops ./operations.yaml --schema ./schema.yaml --db ./app.db --out_file ./app_statements.sql`,
	RunE:    runGenerate,
}

func runGenerate(cmd *cobra.Command, args []string) error {
	opsFile := cmd.Flag("ops").Value.String()
	if opsFile == "" {
		return fmt.Errorf("an operations file is required (--ops)")
	}

	outputFile := cmd.Flag("out_file").Value.String()
	if outputFile == "" {
		outputFile = utils.GetDefaultOutputFilePath(rootConfig.Database.Path)
	}

	logger.Info("starting generate operation",
		zap.String("ops", opsFile),
		zap.String("out_file", outputFile))

	operations, err := ops.Load(opsFile)
	if err != nil {
		return err
	}
	tables, err := loadSchemaTables(false)
	if err != nil {
		return err
	}

	stmts, err := ops.Statements(operations, tables)
	if err != nil {
		return fmt.Errorf("statement generation failed: %w", err)
	}

	file, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	for _, stmt := range stmts {
		if _, err := file.WriteString(renderStatement(stmt)); err != nil {
			return fmt.Errorf("failed to write SQL statement to file: %w", err)
		}
	}

	logger.Info("generated SQL statements",
		zap.Int("count", len(stmts)),
		zap.String("out_file", outputFile))
	return nil
}

// renderStatement writes one statement per line; bind rows are echoed as
// comments so the reviewed file stays valid SQL.
func renderStatement(stmt sqlgen.Statement) string {
	out := stmt.SQL + ";\n"
	for _, bind := range stmt.Args {
		names := make([]string, 0, len(bind))
		for name := range bind {
			names = append(names, name)
		}
		sort.Strings(names)
		out += "-- bind:"
		for _, name := range names {
			out += fmt.Sprintf(" %s=%v", name, bind[name])
		}
		out += "\n"
	}
	return out
}

func init() {
	var opsFile string
	var outputFile string

	generateCmd.Flags().StringVar(&opsFile, "ops", "", "Operations file describing the statements to generate (YAML or JSON)")
	generateCmd.Flags().StringVarP(&outputFile, "out_file", "o", "", "File path for the generated SQL (defaults to <database>_statements.sql)")
}
