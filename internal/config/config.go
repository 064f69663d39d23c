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
package config

// Config holds all configuration for the application.
type Config struct {
	Database   DatabaseConfig
	SchemaFile string
}

// DatabaseConfig holds the SQLite connection configuration.
type DatabaseConfig struct {
	Path        string // database file path, or ":memory:"
	BusyTimeout int    // milliseconds the driver waits on a locked database
	ForeignKeys bool   // enforce foreign key constraints
}

var globalConfig *Config

// GetConfig returns a default configuration. Values are overridden by
// flags and environment in cmd/root.go.
func GetConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:        ":memory:",
			BusyTimeout: 5000,
			ForeignKeys: true,
		},
	}
}

// SetConfig sets the global configuration.
func SetConfig(cfg *Config) {
	globalConfig = cfg
}
