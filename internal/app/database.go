package app

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/talkincode/salesledger/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverSqlite   = "sqlite"
	DriverPostgres = "postgres"
)

// ParseDatabaseURL maps a DATABASE_URL value to a gorm driver name and
// DSN. Supported forms:
//
//	sqlite:///relative/or/./path.db   sqlite:////absolute/path.db
//	postgres://... postgresql://...   host=... user=... (libpq key/value)
//	a bare file path (sqlite)
//
// Relative sqlite paths are rooted at workdir when it is set.
func ParseDatabaseURL(url, workdir string) (driver, dsn string, err error) {
	url = strings.TrimSpace(url)
	switch {
	case url == "":
		return ParseDatabaseURL(config.DefaultDatabaseURL, workdir)
	case strings.HasPrefix(url, "sqlite://"):
		path := strings.TrimPrefix(url, "sqlite://")
		// sqlite:///x.db is a relative path, sqlite:////x.db an absolute one
		path = strings.TrimPrefix(path, "/")
		if path == "" {
			return "", "", fmt.Errorf("database url %q has no sqlite path", url)
		}
		return DriverSqlite, sqliteDSN(rootPath(path, workdir)), nil
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return DriverPostgres, url, nil
	case strings.Contains(url, "host=") || strings.Contains(url, "dbname="):
		return DriverPostgres, url, nil
	case strings.Contains(url, "://"):
		return "", "", fmt.Errorf("unsupported database url scheme: %q", url)
	default:
		return DriverSqlite, sqliteDSN(rootPath(url, workdir)), nil
	}
}

func rootPath(path, workdir string) string {
	if workdir == "" || filepath.IsAbs(path) || strings.HasPrefix(path, ":memory:") || strings.HasPrefix(path, "file:") {
		return path
	}
	return filepath.Join(workdir, path)
}

// sqliteDSN enables foreign keys so the sales.product_id constraint holds.
func sqliteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=foreign_keys(1)"
}

// OpenDatabase connects to the store selected by cfg.URL.
func OpenDatabase(cfg config.DBConfig, workdir string) (*gorm.DB, error) {
	driver, dsn, err := ParseDatabaseURL(cfg.URL, workdir)
	if err != nil {
		return nil, err
	}

	logLevel := logger.Silent
	if cfg.Debug {
		logLevel = logger.Info
	}
	gormConfig := &gorm.Config{
		Logger: logger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			logger.Config{
				SlowThreshold:             time.Second,
				LogLevel:                  logLevel,
				IgnoreRecordNotFoundError: true,
				Colorful:                  false,
			},
		),
	}

	var dialector gorm.Dialector
	switch driver {
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	default:
		dialector = sqlite.Open(dsn)
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	maxConn, idleConn := cfg.MaxConn, cfg.IdleConn
	if driver == DriverSqlite {
		// a single writer avoids SQLITE_BUSY between pooled connections
		maxConn, idleConn = 1, 1
	}
	if maxConn > 0 {
		sqlDB.SetMaxOpenConns(maxConn)
	}
	if idleConn > 0 {
		sqlDB.SetMaxIdleConns(idleConn)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)
	return db, nil
}
