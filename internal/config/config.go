package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"sigs.k8s.io/yaml"
)

type Config struct {
	Database *dbConfig
	App      *appConfig
}

type dbConfig struct {
	// Path is the location of the SQLite database file. Defaults to
	// projtrack.db inside the data directory.
	Path string `envconfig:"PROJTRACK_DB_PATH" default:""`
}

type appConfig struct {
	// DataDir is the directory holding the database, the bootstrap
	// state file and every project folder.
	DataDir string `envconfig:"PROJTRACK_DATA_DIR" default:""`
	// SearchRoots are the roots scanned for the initial-data folder
	// on first run. Defaults to well-known user-profile folders.
	SearchRoots    []string `envconfig:"PROJTRACK_SEARCH_ROOTS" default:""`
	SeedFolderName string   `envconfig:"PROJTRACK_SEED_FOLDER" default:"projtrack-initial-data"`
	LogLevel       string   `envconfig:"PROJTRACK_LOG_LEVEL" default:"info"`
}

// New builds the configuration from environment variables and fills in
// home-relative defaults. The result is handed explicitly to the
// components that need it; there is no package-level singleton.
func New() (*Config, error) {
	cfg := new(Config)
	if err := envconfig.Process("", cfg); err != nil {
		return nil, err
	}
	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ParseConfigFile overlays values from a YAML file on top of the
// current configuration.
func (c *Config) ParseConfigFile(cfgFile string) error {
	contents, err := os.ReadFile(cfgFile)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(contents, c); err != nil {
		return fmt.Errorf("unmarshalling config file: %w", err)
	}
	return c.applyDefaults()
}

func (c *Config) applyDefaults() error {
	if c.App.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		c.App.DataDir = filepath.Join(home, ".projtrack")
	}
	if c.Database.Path == "" {
		c.Database.Path = filepath.Join(c.App.DataDir, "projtrack.db")
	}
	if len(c.App.SearchRoots) == 0 {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		c.App.SearchRoots = []string{
			filepath.Join(home, "Documents"),
			filepath.Join(home, "Desktop"),
			filepath.Join(home, "Downloads"),
			home,
		}
	}
	return nil
}

func (c *Config) String() string {
	val, err := json.Marshal(c)
	if err != nil {
		return "<error>"
	}
	return string(val)
}
