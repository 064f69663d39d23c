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
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/teto/sqlitegen/internal/config"
	"github.com/teto/sqlitegen/internal/database"
	"github.com/teto/sqlitegen/internal/schema"
)

var (
	dryRun     bool
	dbPath     string
	schemaFile string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "sqlitegen",
	Short: "Synthesize and apply SQLite statements from declarative descriptions",
	Long: `sqlitegen turns declarative operation and schema files into SQLite
statements: it generates reviewable SQL, binds coerced values and can apply
the result to a database inside one transaction.`,
	PersistentPreRunE: initFlagsAndConfig,
}

// initFlagsAndConfig initializes configuration from flags and environment.
func initFlagsAndConfig(cmd *cobra.Command, args []string) error {
	var err error
	logger, err = zap.NewProduction()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("SQLITEGEN")
	v.AutomaticEnv()

	cfg := config.GetConfig()
	if dbPath != "" {
		cfg.Database.Path = dbPath
	} else if envPath := v.GetString("db"); envPath != "" {
		cfg.Database.Path = envPath
	}
	if schemaFile != "" {
		cfg.SchemaFile = schemaFile
	} else if envSchema := v.GetString("schema"); envSchema != "" {
		cfg.SchemaFile = envSchema
	}
	if timeout := v.GetInt("busy_timeout"); timeout > 0 {
		cfg.Database.BusyTimeout = timeout
	}

	config.SetConfig(cfg)
	rootConfig = cfg
	return nil
}

var rootConfig *config.Config

func setupDatabase() (*database.DB, error) {
	if rootConfig == nil {
		return nil, fmt.Errorf("configuration is not initialized")
	}
	db, err := database.New(rootConfig.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", zap.Error(err))
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// loadSchemaTables loads the schema descriptors when a schema file is
// configured; commands that need them error out if none is given.
func loadSchemaTables(required bool) (map[string]*schema.Table, error) {
	if rootConfig == nil || rootConfig.SchemaFile == "" {
		if required {
			return nil, fmt.Errorf("no schema file configured (use --schema or SQLITEGEN_SCHEMA)")
		}
		return nil, nil
	}
	return schema.Load(rootConfig.SchemaFile)
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	defer func() {
		if logger != nil {
			logger.Sync()
		}
	}()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", true, "Enable dry-run mode (no database modifications)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path (or SQLITEGEN_DB)")
	rootCmd.PersistentFlags().StringVar(&schemaFile, "schema", "", "Schema descriptor file, YAML or JSON (or SQLITEGEN_SCHEMA)")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(createTablesCmd)
}
