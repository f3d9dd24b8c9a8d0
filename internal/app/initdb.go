package app

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/talkincode/salesledger/internal/domain"
	"go.uber.org/zap"
)

// MigrateDB creates missing tables, columns and indexes. It is safe to
// run on every start. track logs the generated SQL.
func (a *Application) MigrateDB(track bool) (err error) {
	defer func() {
		if err1 := recover(); err1 != nil {
			if os.Getenv("GO_DEBUG_TRACE") != "" {
				debug.PrintStack()
			}
			err = fmt.Errorf("migration panic: %v", err1)
			zap.S().Error(err.Error())
		}
	}()
	db := a.gormDB
	if track {
		db = db.Debug()
	}
	if err := db.Migrator().AutoMigrate(domain.Tables...); err != nil {
		zap.S().Error(err)
		return err
	}
	return nil
}

// DropAll drops every table, sales first.
func (a *Application) DropAll() error {
	return a.gormDB.Migrator().DropTable(reversed(domain.Tables)...)
}

// InitDb drops and recreates the schema. All data is lost.
func (a *Application) InitDb() error {
	if err := a.DropAll(); err != nil {
		zap.S().Error(err)
		return err
	}
	if err := a.gormDB.Migrator().AutoMigrate(domain.Tables...); err != nil {
		zap.S().Error(err)
		return err
	}
	zap.L().Warn("database schema recreated", zap.Int("tables", len(domain.Tables)))
	return nil
}

func reversed(tables []interface{}) []interface{} {
	out := make([]interface{}, len(tables))
	for i, t := range tables {
		out[len(tables)-1-i] = t
	}
	return out
}
