package dbmigrate

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is the configuration file read when none is named.
const DefaultConfigPath = "dbmigrate.yaml"

// DSNEnvironmentVariable overrides the dsn of any configuration file.
const DSNEnvironmentVariable = "DBMIGRATE_DSN"

// Config describes a target database and where its artifacts live.
type Config struct {
	Dialect    Dialect `yaml:"dialect"`
	DSN        string  `yaml:"dsn"`
	Migrations string  `yaml:"migrations"`
	Scripts    string  `yaml:"scripts"`
}

// DefaultConfig returns the configuration used for absent values.
func DefaultConfig() Config {
	return Config{
		Dialect:    SQLite3Dialect,
		DSN:        "file:dbmigrate.db",
		Migrations: "migrations",
		Scripts:    "scripts",
	}
}

// LoadConfig reads the YAML file at path on top of DefaultConfig.  A missing
// file is not an error.  The DBMIGRATE_DSN environment variable wins over the
// file and ${VAR} references in the dsn are expanded.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	content, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("read config %v: %w", path, err)
	default:
		if err := yaml.Unmarshal(content, &config); err != nil {
			return Config{}, fmt.Errorf("parse config %v: %w", path, err)
		}
	}

	if dsn := os.Getenv(DSNEnvironmentVariable); dsn != "" {
		config.DSN = dsn
	}
	config.DSN = os.ExpandEnv(config.DSN)

	return config, config.Validate()
}

// Validate reports the first invalid value of the configuration.
func (c Config) Validate() error {
	if _, err := DictionaryFor(c.Dialect); err != nil {
		return err
	}

	if c.DSN == "" {
		return errors.New("dsn is required")
	}

	return nil
}
