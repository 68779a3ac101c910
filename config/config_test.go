package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "portal:\n  host: 0.0.0.0\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTP.Host != "0.0.0.0" {
		t.Errorf("host = %q", cfg.HTTP.Host)
	}
	if cfg.HTTP.Port != 8600 {
		t.Errorf("port = %d, want default 8600", cfg.HTTP.Port)
	}
	if cfg.Backup.StoragePath != "backups" || cfg.Backup.DumpBinary != "mysqldump" || cfg.Backup.RestoreBinary != "mysql" {
		t.Errorf("backup defaults = %+v", cfg.Backup)
	}
	if cfg.JWT.Secret != "dev-secret" || cfg.JWT.ExpMin != 60 {
		t.Errorf("jwt defaults = %+v", cfg.JWT)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `portal:
  port: 9000
  db:
    driver: sqlite
    path: /tmp/meta.db
  backup:
    storage_path: /var/backups/staffdesk
    timeout_sec: 120
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTP.Port != 9000 {
		t.Errorf("port = %d", cfg.HTTP.Port)
	}
	if cfg.DB.Driver != "sqlite" || cfg.DB.Path != "/tmp/meta.db" {
		t.Errorf("db = %+v", cfg.DB)
	}
	if cfg.Backup.StoragePath != "/var/backups/staffdesk" || cfg.Backup.TimeoutSec != 120 {
		t.Errorf("backup = %+v", cfg.Backup)
	}
}

func TestLoadEncryptionKeyFromEnv(t *testing.T) {
	t.Setenv("STAFFDESK_BACKUP_KEY", "00112233445566778899aabbccddeeff00112233445566778899aabbccddeeff")
	path := writeConfig(t, "portal: {}\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Backup.EncryptionKey == "" {
		t.Error("encryption key not sourced from environment")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}
