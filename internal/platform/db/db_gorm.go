// Package db はGORMによるデータベース接続を提供します。
package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/sethvargo/go-envconfig"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	retryInterval = 3 * time.Second
)

// Config はデータベース接続設定です。
type Config struct {
	Driver       string        `env:"DB_DRIVER, default=sqlite"`
	User         string        `env:"DB_USER"`
	Password     string        `env:"DB_PASSWORD"`
	Name         string        `env:"DB_NAME, default=stock_advisor"`
	Host         string        `env:"DB_HOST, default=localhost"`
	Port         string        `env:"DB_PORT, default=5432"`
	SSLMode      string        `env:"DB_SSLMODE, default=disable"`
	SQLitePath   string        `env:"DB_SQLITE_PATH, default=stock_advisor.db"`
	InstanceName string        `env:"INSTANCE_CONNECTION_NAME"`
	ConnectWait  time.Duration `env:"DB_CONNECT_TIMEOUT, default=60s"`
	Migrate      bool          `env:"RUN_MIGRATIONS, default=true"`
}

// LoadConfig は環境変数からデータベース設定を読み込みます。
func LoadConfig(ctx context.Context) (Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return Config{}, fmt.Errorf("load db config: %w", err)
	}
	return cfg, nil
}

// BuildDSN はドライバーに応じた接続文字列を生成します。
// Postgresで InstanceName が設定されている場合は Cloud SQL のUnixソケットを優先します。
func BuildDSN(cfg Config) string {
	if cfg.Driver == DriverSQLite {
		return cfg.SQLitePath
	}
	host, port := cfg.Host, cfg.Port
	if cfg.InstanceName != "" {
		host = "/cloudsql/" + cfg.InstanceName
		port = "5432"
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)
}

// Opener はDSNからGORM接続を開く関数です。
type Opener func(dsn string) (*gorm.DB, error)

// OpenPostgres はpgxのstdlibドライバー経由でPostgresに接続します。
func OpenPostgres(dsn string) (*gorm.DB, error) {
	connCfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	sqlDB := stdlib.OpenDB(*connCfg)
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
}

// OpenSQLite はSQLiteファイル（または ":memory:"）に接続します。
func OpenSQLite(dsn string) (*gorm.DB, error) {
	return gorm.Open(sqlite.Open(dsn), &gorm.Config{})
}

// ConnectWithRetry は timeout に達するまで一定間隔で接続を再試行します。
func ConnectWithRetry(dsn string, timeout time.Duration, open Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := open(dsn)
		if err == nil {
			return db, nil
		}
		if !time.Now().Before(deadline) {
			return nil, fmt.Errorf("db connect failed after %s: %w", timeout, err)
		}
		slog.Warn("DB connect failed, retrying", "error", err)
		time.Sleep(retryInterval)
	}
}

// OpenDB は設定に従って接続し、必要に応じて models をマイグレーションします。
func OpenDB(cfg Config, models ...any) (*gorm.DB, error) {
	var open Opener
	switch cfg.Driver {
	case DriverPostgres:
		open = OpenPostgres
	case DriverSQLite, "":
		cfg.Driver = DriverSQLite
		open = OpenSQLite
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
	}

	db, err := ConnectWithRetry(BuildDSN(cfg), cfg.ConnectWait, open)
	if err != nil {
		return nil, err
	}

	if cfg.Migrate && len(models) > 0 {
		if err := db.AutoMigrate(models...); err != nil {
			return nil, fmt.Errorf("failed to migrate: %w", err)
		}
	}
	slog.Info("database connected", "driver", cfg.Driver)
	return db, nil
}
