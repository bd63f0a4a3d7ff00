package config

import (
	"github.com/kelseyhightower/envconfig"
)

// Config holds server configuration, read from the environment.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string `envconfig:"REPURPOSE_ADDR" default:":8080"`
	// DBPath is the SQLite database file path.
	DBPath string `envconfig:"REPURPOSE_DB" default:"repurpose.sqlite3"`
	// JWTSecret overrides the database-persisted signing secret when set.
	JWTSecret string `envconfig:"REPURPOSE_JWT_SECRET"`
	// LogPath appends all log output to a file in addition to stdout/stderr.
	LogPath string `envconfig:"REPURPOSE_LOG"`
	// AdminEmail is the bootstrap admin account created on first run.
	AdminEmail string `envconfig:"REPURPOSE_ADMIN_EMAIL" default:"admin@repurpose.local"`
}

// Load reads configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
