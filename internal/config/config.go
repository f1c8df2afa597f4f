// Package config loads bikepark settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/example/bikepark/internal/db"
)

// EnvPrefix is the prefix of every bikepark environment variable.
const EnvPrefix = "BIKEPARK"

// EnvFileName is the optional dotenv file read from the working directory.
const EnvFileName = ".env"

// ArchiveDirName is the archive subdirectory created next to the ledger file.
const ArchiveDirName = "exportbkp"

// Config represents the bikepark configuration.
// Empty paths are resolved by Resolve.
type Config struct {
	DBPath      string `envconfig:"DB_PATH"`
	ArchiveDir  string `envconfig:"ARCHIVE_DIR"`
	AdminSecret string `envconfig:"ADMIN_SECRET"`
	TimeZone    string `envconfig:"TIMEZONE" default:"Local"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"warn"`
}

// LoadConfig reads dir/.env (if present) into the environment without
// overriding variables that are already set, then processes BIKEPARK_* vars.
func LoadConfig(dir string) (*Config, error) {
	envPath := filepath.Join(dir, EnvFileName)
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", envPath, err)
		}
	}

	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env config: %w", err)
	}

	if err := cfg.Resolve(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Resolve fills in default paths: the ledger next to the executable and the
// archive directory next to the ledger.
func (c *Config) Resolve() error {
	if c.DBPath == "" {
		path, err := db.DefaultPath()
		if err != nil {
			return fmt.Errorf("failed to resolve default database path: %w", err)
		}
		c.DBPath = path
	}

	if c.ArchiveDir == "" {
		c.ArchiveDir = filepath.Join(filepath.Dir(c.DBPath), ArchiveDirName)
	}

	if c.TimeZone == "" {
		c.TimeZone = "Local"
	}

	return nil
}

// Location returns the time zone stays are recorded in.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid %s_TIMEZONE %q: %w", EnvPrefix, c.TimeZone, err)
	}
	return loc, nil
}

// SaveConfig writes cfg as dir/.env.
func SaveConfig(dir string, cfg *Config) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	env := map[string]string{
		EnvPrefix + "_DB_PATH":      cfg.DBPath,
		EnvPrefix + "_ARCHIVE_DIR":  cfg.ArchiveDir,
		EnvPrefix + "_ADMIN_SECRET": cfg.AdminSecret,
		EnvPrefix + "_TIMEZONE":     cfg.TimeZone,
		EnvPrefix + "_LOG_LEVEL":    cfg.LogLevel,
	}

	path := filepath.Join(dir, EnvFileName)
	if err := godotenv.Write(env, path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := os.Chmod(path, 0600); err != nil {
		return fmt.Errorf("failed to restrict config permissions: %w", err)
	}

	return nil
}
