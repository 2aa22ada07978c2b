package config

import (
	"database/sql"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SQLiteDriver is the go-sqlite3 driver registered with a ulower(text)
// function. SQLite's own LOWER folds ASCII only.
const SQLiteDriver = "sqlite3_unicode"

var registerDriver sync.Once

// Dialector returns a gorm sqlite dialector whose connections provide ulower.
func Dialector(dsn string) gorm.Dialector {
	registerDriver.Do(func() {
		sql.Register(SQLiteDriver, &sqlite3.SQLiteDriver{
			ConnectHook: func(conn *sqlite3.SQLiteConn) error {
				return conn.RegisterFunc("ulower", unicodeLower, true)
			},
		})
	})
	return sqlite.New(sqlite.Config{DriverName: SQLiteDriver, DSN: dsn})
}

func unicodeLower(v any) string {
	switch s := v.(type) {
	case string:
		return strings.ToLower(s)
	case []byte:
		return strings.ToLower(string(s))
	}
	return ""
}

// New opens the sqlite database. Schema creation is left to the plugin registry.
func New(dsn string, log *logrus.Logger) *gorm.DB {
	db, err := Open(dsn, log)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	return db
}

func Open(dsn string, log *logrus.Logger) (*gorm.DB, error) {
	return gorm.Open(Dialector(dsn), &gorm.Config{
		Logger: logger.New(log, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormLogLevel(log.GetLevel()),
			IgnoreRecordNotFoundError: true,
		}),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		DisableForeignKeyConstraintWhenMigrating: true,
	})
}

func gormLogLevel(level logrus.Level) logger.LogLevel {
	switch {
	case level >= logrus.DebugLevel:
		return logger.Info
	case level >= logrus.WarnLevel:
		return logger.Warn
	default:
		return logger.Error
	}
}
