package x_db

import (
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

//---------------------
// Config
//---------------------

type Dialect string

const (
	DialectSqlite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// Config selects the SQL backend.
type Config struct {
	Dialect  Dialect
	DSN      string
	LogLevel string // silent, error, warn, info
}

// dialector maps a Config onto a gorm driver.
func dialector(cfg Config) (gorm.Dialector, error) {
	switch Dialect(strings.ToLower(string(cfg.Dialect))) {
	case DialectSqlite, "":
		return sqlite.Open(cfg.DSN), nil
	case DialectPostgres:
		return postgres.Open(cfg.DSN), nil
	default:
		return nil, fmt.Errorf("x_db: unsupported dialect %q", cfg.Dialect)
	}
}

func gormLevel(s string) logger.LogLevel {
	switch strings.ToLower(s) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info", "debug":
		return logger.Info
	default:
		return logger.Warn
	}
}
