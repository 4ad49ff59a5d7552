package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		wantErr     bool
		errorString string
	}{
		{
			name: "valid memory backend config",
			config: Config{
				DataBackend:          "memory",
				MaxReceiptBytes:      5 << 20,
				MaxRecordBytes:       7 << 20,
				SettingsPollInterval: time.Second,
			},
			wantErr: false,
		},
		{
			name: "invalid backend",
			config: Config{
				DataBackend:          "sheets",
				MaxReceiptBytes:      5 << 20,
				MaxRecordBytes:       7 << 20,
				SettingsPollInterval: time.Second,
			},
			wantErr:     true,
			errorString: "invalid data backend 'sheets'",
		},
		{
			name: "sqlite backend without path",
			config: Config{
				DataBackend:          "sqlite",
				SQLiteDBPath:         "",
				MaxReceiptBytes:      5 << 20,
				MaxRecordBytes:       7 << 20,
				SettingsPollInterval: time.Second,
			},
			wantErr:     true,
			errorString: "SQLite database path cannot be empty",
		},
		{
			name: "record ceiling below receipt ceiling",
			config: Config{
				DataBackend:          "memory",
				MaxReceiptBytes:      5 << 20,
				MaxRecordBytes:       1 << 20,
				SettingsPollInterval: time.Second,
			},
			wantErr:     true,
			errorString: "must be at least the receipt ceiling",
		},
		{
			name: "poll interval too short",
			config: Config{
				DataBackend:          "memory",
				MaxReceiptBytes:      5 << 20,
				MaxRecordBytes:       7 << 20,
				SettingsPollInterval: time.Millisecond,
			},
			wantErr:     true,
			errorString: "must be at least 100ms",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !strings.Contains(err.Error(), tt.errorString) {
				t.Errorf("Validate() error = %q, want substring %q", err, tt.errorString)
			}
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()
	if cfg.DataBackend != "memory" {
		t.Errorf("default backend = %s, want memory", cfg.DataBackend)
	}
	if cfg.MaxReceiptBytes != 5<<20 {
		t.Errorf("default receipt ceiling = %d, want %d", cfg.MaxReceiptBytes, 5<<20)
	}
	if cfg.SettingsPollInterval != time.Second {
		t.Errorf("default poll interval = %v, want 1s", cfg.SettingsPollInterval)
	}
}

func TestConfig_ValidateSQLiteCreatesDirectory(t *testing.T) {
	cfg := Config{
		DataBackend:          "sqlite",
		SQLiteDBPath:         filepath.Join(t.TempDir(), "nested", "gastos.db"),
		MaxReceiptBytes:      5 << 20,
		MaxRecordBytes:       7 << 20,
		SettingsPollInterval: time.Second,
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
}
