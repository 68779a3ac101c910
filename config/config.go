package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host string
	Port int
}

type DB struct {
	Driver string
	Host   string
	Port   int
	User   string
	Pass   string
	Name   string
	Path   string
}

type JWT struct {
	Secret string
	Issuer string
	ExpMin int
}

// Backup configures the orchestrator: where artifacts live, which external
// binaries produce and apply dumps, and the key for the encryption stage.
type Backup struct {
	StoragePath   string
	DumpBinary    string
	RestoreBinary string
	TimeoutSec    int
	EncryptionKey string // 64 hex chars (32 bytes); sourced from env, never logged
}

type Redis struct {
	Addr string
	Pass string
	DB   int
}

type Config struct {
	HTTP   HTTP
	DB     DB
	JWT    JWT
	Backup Backup
	Redis  Redis
}

func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("STAFFDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("portal.host", "127.0.0.1")
	v.SetDefault("portal.port", 8600)
	v.SetDefault("portal.db.driver", "mysql")
	v.SetDefault("portal.db.host", "127.0.0.1")
	v.SetDefault("portal.db.port", 3306)
	v.SetDefault("portal.db.user", "root")
	v.SetDefault("portal.db.pass", "")
	v.SetDefault("portal.db.name", "staffdesk")
	v.SetDefault("portal.db.path", "staffdesk.db")
	v.SetDefault("portal.backup.storage_path", "backups")
	v.SetDefault("portal.backup.dump_binary", "mysqldump")
	v.SetDefault("portal.backup.restore_binary", "mysql")
	v.SetDefault("portal.backup.timeout_sec", 600)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := &Config{
		HTTP: HTTP{Host: v.GetString("portal.host"), Port: v.GetInt("portal.port")},
		DB: DB{
			Driver: v.GetString("portal.db.driver"),
			Host:   v.GetString("portal.db.host"),
			Port:   v.GetInt("portal.db.port"),
			User:   v.GetString("portal.db.user"),
			Pass:   v.GetString("portal.db.pass"),
			Name:   v.GetString("portal.db.name"),
			Path:   v.GetString("portal.db.path"),
		},
		Backup: Backup{
			StoragePath:   v.GetString("portal.backup.storage_path"),
			DumpBinary:    v.GetString("portal.backup.dump_binary"),
			RestoreBinary: v.GetString("portal.backup.restore_binary"),
			TimeoutSec:    v.GetInt("portal.backup.timeout_sec"),
			EncryptionKey: v.GetString("portal.backup.encryption_key"),
		},
		Redis: Redis{
			Addr: v.GetString("portal.redis.addr"),
			Pass: v.GetString("portal.redis.pass"),
			DB:   v.GetInt("portal.redis.db"),
		},
	}
	if cfg.Backup.EncryptionKey == "" {
		cfg.Backup.EncryptionKey = os.Getenv("STAFFDESK_BACKUP_KEY")
	}
	cfg.JWT.Secret = v.GetString("portal.jwt.secret")
	if cfg.JWT.Secret == "" {
		cfg.JWT.Secret = "dev-secret"
	}
	cfg.JWT.Issuer = v.GetString("portal.jwt.issuer")
	if cfg.JWT.Issuer == "" {
		cfg.JWT.Issuer = "staffdesk"
	}
	cfg.JWT.ExpMin = v.GetInt("portal.jwt.exp_min")
	if cfg.JWT.ExpMin <= 0 {
		cfg.JWT.ExpMin = 60
	}
	return cfg, nil
}
