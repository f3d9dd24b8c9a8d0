package app

import (
	"github.com/talkincode/salesledger/config"
	"github.com/talkincode/salesledger/internal/catalog"
	"github.com/talkincode/salesledger/internal/ledger"
	"github.com/talkincode/salesledger/internal/metrics"
	"github.com/talkincode/salesledger/internal/report"
	"gorm.io/gorm"
)

// DBProvider provides database access
type DBProvider interface {
	DB() *gorm.DB
}

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// MetricsProvider provides the process telemetry
type MetricsProvider interface {
	Metrics() *metrics.Metrics
}

// ServicesProvider provides the catalog, ledger and report services
type ServicesProvider interface {
	Catalog() *catalog.Service
	Ledger() *ledger.Service
	Reports() *report.Service
}

// AppContext combines all provider interfaces for full application context
// Handlers should depend on specific providers or this combined interface
type AppContext interface {
	DBProvider
	ConfigProvider
	MetricsProvider
	ServicesProvider

	// Application lifecycle methods
	MigrateDB(track bool) error
	InitDb() error
	DropAll() error
}
