package config

import (
	"os"
)

const (
	databaseDSNEnv = "DATABASE_DSN"
)

type DatabaseConfig struct {
	DSN string
}

func LoadDatabaseConfig() *DatabaseConfig {
	return &DatabaseConfig{
		DSN: os.Getenv(databaseDSNEnv),
	}
}

func (c *DatabaseConfig) Validate() error {
	if c == nil || c.DSN == "" {
		return ErrDatabaseDSNMissing
	}
	return nil
}
