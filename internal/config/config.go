package config

import (
	"net"
	"path/filepath"
	"strconv"
)

// Store backends
const (
	BackendJSON     = "json"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Config holds all application configuration.
type Config struct {
	Log     LogConfig     `mapstructure:"log" validate:"required"`
	Store   StoreConfig   `mapstructure:"store" validate:"required"`
	Session SessionConfig `mapstructure:"session" validate:"required"`
	Decks   DecksConfig   `mapstructure:"decks"`
	Server  ServerConfig  `mapstructure:"server" validate:"required"`
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=json text"`
	// File redirects log output; empty means the command's default sink.
	File string `mapstructure:"file"`
}

// StoreConfig selects where progress is persisted.
type StoreConfig struct {
	Backend string `mapstructure:"backend" validate:"required,oneof=json sqlite postgres"`
	Dir     string `mapstructure:"dir" validate:"required"`
	DSN     string `mapstructure:"dsn" validate:"required_if=Backend postgres"`
}

// DataSource returns the DSN for SQL backends. SQLite falls back to a
// database file inside Dir.
func (s StoreConfig) DataSource() string {
	if s.DSN == "" && s.Backend == BackendSQLite {
		return filepath.Join(s.Dir, "procknow.db")
	}
	return s.DSN
}

// SessionConfig tunes study sessions and progress tracking.
type SessionConfig struct {
	WeakThreshold float64 `mapstructure:"weak_threshold" validate:"gt=0,lte=1"`
	WrongLogSize  int     `mapstructure:"wrong_log_size" validate:"gte=1"`
}

// DecksConfig points at optional static deck files.
type DecksConfig struct {
	Dir string `mapstructure:"dir"`
}

// ServerConfig contains the settings of the local HTTP API.
type ServerConfig struct {
	Host string `mapstructure:"host" validate:"required"`
	Port int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}
