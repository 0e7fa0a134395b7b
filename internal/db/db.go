package db

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log/slog"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/init-pkg/trade-disclosure/internal/config"
	"github.com/init-pkg/trade-disclosure/internal/db/migrations"
)

const (
	DriverPostgres = "postgres"
	DriverMysql    = "mysql"
	DriverSqlite   = "sqlite"
)

// Open connects with the database/sql driver for cfg.Driver and hands the pool to gorm.
func Open(cfg *config.Db) (*gorm.DB, error) {
	sqlDriver, err := sqlDriverName(cfg.Driver)
	if err != nil {
		return nil, err
	}

	sqlDB, err := sql.Open(sqlDriver, cfg.Dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Driver, err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLife)
	if cfg.Driver == DriverSqlite {
		// sqlite serializes writers; a single connection avoids SQLITE_BUSY.
		sqlDB.SetMaxOpenConns(1)
	}

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping %s: %w", cfg.Driver, err)
	}

	gdb, err := gorm.Open(dialector(cfg.Driver, sqlDB), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("gorm open: %w", err)
	}

	return gdb, nil
}

func MustOpen(cfg *config.Db) *gorm.DB {
	gdb, err := Open(cfg)
	if err != nil {
		panic(err)
	}
	return gdb
}

// Migrate applies the embedded migrations for driver.
func Migrate(ctx context.Context, gdb *gorm.DB, driver string, log *slog.Logger) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}

	dialect, err := gooseDialect(driver)
	if err != nil {
		return err
	}

	fsys, err := fs.Sub(migrations.FS, driver)
	if err != nil {
		return err
	}

	provider, err := goose.NewProvider(dialect, sqlDB, fsys)
	if err != nil {
		return fmt.Errorf("goose provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	for _, r := range results {
		log.Info("migration applied", "version", r.Source.Version, "path", r.Source.Path, "duration", r.Duration)
	}

	return nil
}

func sqlDriverName(driver string) (string, error) {
	switch driver {
	case DriverPostgres:
		return "postgres", nil
	case DriverMysql:
		return "mysql", nil
	case DriverSqlite:
		return "sqlite3", nil
	default:
		return "", fmt.Errorf("unsupported db driver %q", driver)
	}
}

func dialector(driver string, sqlDB *sql.DB) gorm.Dialector {
	switch driver {
	case DriverPostgres:
		return postgres.New(postgres.Config{Conn: sqlDB})
	case DriverMysql:
		return mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true})
	default:
		return sqlite.New(sqlite.Config{Conn: sqlDB})
	}
}

func gooseDialect(driver string) (goose.Dialect, error) {
	switch driver {
	case DriverPostgres:
		return goose.DialectPostgres, nil
	case DriverMysql:
		return goose.DialectMySQL, nil
	case DriverSqlite:
		return goose.DialectSQLite3, nil
	default:
		return "", fmt.Errorf("unsupported db driver %q", driver)
	}
}
