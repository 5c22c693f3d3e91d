// Package config holds the database and service configuration consumed by
// the connection pool. The executor never cares how these values were
// sourced; FromEnv is just the default loader used by cmd/stationd.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/shrek82/stationd/validator"
)

// Config describes one database target and the bounds of its connection
// pool. Immutable after the pool is created.
type Config struct {
	Host     string
	Port     int
	Service  string // Oracle service name; database name for mysql/postgres, file path for sqlite3
	Username string
	Password string

	MinConns int
	MaxConns int

	// AcquireTimeout bounds how long a worker may wait for a free
	// connection before the borrow fails. Zero means wait forever.
	AcquireTimeout time.Duration
}

// Default pool bounds, matching the production deployment.
const (
	DefaultMinConns = 1
	DefaultMaxConns = 5
)

var rules = validator.Rules{
	"Host":     {validator.Required, validator.MaxLen(255)},
	"Port":     {validator.Range(1, 65535)},
	"Service":  {validator.Required},
	"MinConns": {validator.Min(1)},
	"MaxConns": {validator.Min(1)},
}

// Validate checks the field constraints plus MinConns <= MaxConns.
func (c Config) Validate() error {
	if err := rules.Validate(c); err != nil {
		return err
	}
	if c.MinConns > c.MaxConns {
		return validator.ValidationErrors{
			"MinConns": {fmt.Errorf("must not exceed MaxConns (%d > %d)", c.MinConns, c.MaxConns)},
		}
	}
	return nil
}

// FromEnv loads configuration from STATIOND_* environment variables,
// falling back to defaults suitable for a local Oracle instance.
func FromEnv() Config {
	return Config{
		Host:           envStr("STATIOND_DB_HOST", "127.0.0.1"),
		Port:           envInt("STATIOND_DB_PORT", 1521),
		Service:        envStr("STATIOND_DB_SERVICE", "ORCLPDB1"),
		Username:       envStr("STATIOND_DB_USER", ""),
		Password:       envStr("STATIOND_DB_PASSWORD", ""),
		MinConns:       envInt("STATIOND_DB_MIN_CONNS", DefaultMinConns),
		MaxConns:       envInt("STATIOND_DB_MAX_CONNS", DefaultMaxConns),
		AcquireTimeout: time.Duration(envInt("STATIOND_DB_ACQUIRE_TIMEOUT_SEC", 0)) * time.Second,
	}
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
