// File path: internal/catalog/config.go
package catalog

import (
	"os"
	"path/filepath"
	"strings"
)

type Config struct {
	DataDir string `json:"data_dir"`
	DBPath  string `json:"db_path"`
}

func (c Config) Merge(override Config) Config {
	result := c
	if strings.TrimSpace(override.DataDir) != "" {
		result.DataDir = strings.TrimSpace(override.DataDir)
	}
	if strings.TrimSpace(override.DBPath) != "" {
		result.DBPath = strings.TrimSpace(override.DBPath)
	}
	return result
}

func LoadConfig() Config {
	cfg := Config{}
	if dir := strings.TrimSpace(os.Getenv("CATALOG_DATA_DIR")); dir != "" {
		cfg.DataDir = dir
	}
	if path := strings.TrimSpace(os.Getenv("CATALOG_DB_PATH")); path != "" {
		cfg.DBPath = path
	}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.DataDir) == "" {
		c.DataDir = "data"
	}
	if strings.TrimSpace(c.DBPath) == "" {
		c.DBPath = filepath.Join(c.DataDir, "catalog.db")
	}
}
