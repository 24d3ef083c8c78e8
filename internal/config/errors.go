package config

import "errors"

var (
	ErrDatabaseDSNMissing = errors.New("DATABASE_DSN is required")
	ErrRedisAddrMissing   = errors.New("REDIS_ADDR is required")
	ErrInvalidRedisDB     = errors.New("REDIS_DB must be a valid integer")
)
