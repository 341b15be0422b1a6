package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Veraticus/spice-ledger/internal/common"
	"github.com/Veraticus/spice-ledger/internal/history"
	"github.com/Veraticus/spice-ledger/internal/storage"
	"github.com/spf13/viper"
)

// Keys read from viper.
const (
	KeyStorageBackend  = "storage.backend"
	KeyStoragePath     = "storage.path"
	KeyLogLevel        = "logging.level"
	KeyLogFormat       = "logging.format"
	KeyHistoryPageSize = "history.page_size"
)

// DefaultDataDir is where ledger data lives unless storage.path says otherwise.
const DefaultDataDir = "$HOME/.local/share/ledger"

// maxPageSize bounds history.page_size.
const maxPageSize = 500

// Config is the resolved application configuration.
type Config struct {
	StorageBackend  string
	StoragePath     string
	LogLevel        string
	LogFormat       string
	HistoryPageSize int
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyStorageBackend, storage.BackendFile)
	v.SetDefault(KeyStoragePath, DefaultDataDir)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
	v.SetDefault(KeyHistoryPageSize, history.DefaultPageSize)
}

// Load reads the configuration from v. Paths are expanded; nothing is
// validated yet.
func Load(v *viper.Viper) *Config {
	SetDefaults(v)
	return &Config{
		StorageBackend:  strings.ToLower(strings.TrimSpace(v.GetString(KeyStorageBackend))),
		StoragePath:     ExpandPath(v.GetString(KeyStoragePath)),
		LogLevel:        strings.ToLower(v.GetString(KeyLogLevel)),
		LogFormat:       strings.ToLower(v.GetString(KeyLogFormat)),
		HistoryPageSize: v.GetInt(KeyHistoryPageSize),
	}
}

// Validate reports every problem with the configuration at once.
func (c *Config) Validate() error {
	if c.StorageBackend != storage.BackendMemory && strings.TrimSpace(c.StoragePath) == "" {
		return fmt.Errorf("%w: storage path cannot be empty when using %s backend", common.ErrMissingConfig, c.StorageBackend)
	}

	var errs []string

	validBackends := []string{storage.BackendFile, storage.BackendSQLite, storage.BackendMemory}
	if !slices.Contains(validBackends, c.StorageBackend) {
		errs = append(errs, fmt.Sprintf("invalid storage backend '%s': must be one of %v", c.StorageBackend, validBackends))
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	if !slices.Contains(validLevels, c.LogLevel) {
		errs = append(errs, fmt.Sprintf("invalid log level '%s': must be one of %v", c.LogLevel, validLevels))
	}
	validFormats := []string{"console", "json"}
	if !slices.Contains(validFormats, c.LogFormat) {
		errs = append(errs, fmt.Sprintf("invalid log format '%s': must be one of %v", c.LogFormat, validFormats))
	}

	if c.HistoryPageSize < 1 || c.HistoryPageSize > maxPageSize {
		errs = append(errs, fmt.Sprintf("invalid history page size %d: must be between 1 and %d", c.HistoryPageSize, maxPageSize))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: configuration validation failed:\n- %s", common.ErrInvalidConfig, strings.Join(errs, "\n- "))
	}
	return nil
}
