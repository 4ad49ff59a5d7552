package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Record store backend
	DataBackend  string
	SQLiteDBPath string

	// Size ceilings
	MaxReceiptBytes int
	MaxRecordBytes  int

	// Settings change detection
	SettingsPollInterval time.Duration
}

func Load() *Config {
	return &Config{
		DataBackend:  getEnv("DATA_BACKEND", "memory"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/gastos.db"),

		MaxReceiptBytes: getEnvInt("MAX_RECEIPT_BYTES", 5<<20),
		MaxRecordBytes:  getEnvInt("MAX_RECORD_BYTES", 7<<20),

		SettingsPollInterval: getEnvDuration("SETTINGS_POLL_INTERVAL", time.Second),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errs []string

	validBackends := []string{"memory", "sqlite"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errs = append(errs, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	if c.DataBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errs = append(errs, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errs = append(errs, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	if c.MaxReceiptBytes < 1 {
		errs = append(errs, fmt.Sprintf("invalid receipt size ceiling %d: must be at least 1 byte", c.MaxReceiptBytes))
	}
	if c.MaxRecordBytes < c.MaxReceiptBytes {
		errs = append(errs, fmt.Sprintf("invalid record size ceiling %d: must be at least the receipt ceiling %d", c.MaxRecordBytes, c.MaxReceiptBytes))
	}

	if c.SettingsPollInterval < 100*time.Millisecond {
		errs = append(errs, fmt.Sprintf("invalid settings poll interval %v: must be at least 100ms", c.SettingsPollInterval))
	} else if c.SettingsPollInterval > time.Minute {
		errs = append(errs, fmt.Sprintf("invalid settings poll interval %v: must be at most 1 minute", c.SettingsPollInterval))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
