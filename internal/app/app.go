package app

import (
	"fmt"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/talkincode/salesledger/config"
	"github.com/talkincode/salesledger/internal/catalog"
	"github.com/talkincode/salesledger/internal/ledger"
	"github.com/talkincode/salesledger/internal/metrics"
	"github.com/talkincode/salesledger/internal/report"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/gorm"
)

type Application struct {
	appConfig *config.AppConfig
	gormDB    *gorm.DB
	metrics   *metrics.Metrics
	catalog   *catalog.Service
	ledger    *ledger.Service
	reports   *report.Service
	now       func() time.Time
}

// Ensure Application implements all interfaces
var (
	_ DBProvider       = (*Application)(nil)
	_ ConfigProvider   = (*Application)(nil)
	_ MetricsProvider  = (*Application)(nil)
	_ ServicesProvider = (*Application)(nil)
	_ AppContext       = (*Application)(nil)
)

func NewApplication(appConfig *config.AppConfig) *Application {
	return &Application{appConfig: appConfig, now: time.Now}
}

func (a *Application) Config() *config.AppConfig {
	return a.appConfig
}

func (a *Application) DB() *gorm.DB {
	return a.gormDB
}

func (a *Application) Metrics() *metrics.Metrics {
	return a.metrics
}

func (a *Application) Catalog() *catalog.Service {
	return a.catalog
}

func (a *Application) Ledger() *ledger.Service {
	return a.ledger
}

func (a *Application) Reports() *report.Service {
	return a.reports
}

// OverrideClock pins the clock every service stamps and reads time with
// (used in tests).
func (a *Application) OverrideClock(now func() time.Time) {
	a.now = now
	a.initServices()
}

// Init sets up logging, time zone, telemetry, the database handle and
// the schema, in that order.
func (a *Application) Init(cfg *config.AppConfig) error {
	if err := a.initLogger(cfg); err != nil {
		return err
	}

	loc, err := time.LoadLocation(cfg.System.Location)
	if err != nil {
		zap.L().Error("timezone config error", zap.String("location", cfg.System.Location), zap.Error(err))
		return fmt.Errorf("invalid system location %q: %w", cfg.System.Location, err)
	}
	time.Local = loc

	if a.metrics == nil {
		a.metrics = metrics.New(true)
	}

	a.gormDB, err = OpenDatabase(cfg.Database, cfg.System.Workdir)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	driver, _, _ := ParseDatabaseURL(cfg.Database.URL, cfg.System.Workdir)
	zap.L().Info("database connection successful",
		zap.String("type", driver),
		zap.String("workdir", cfg.System.Workdir))

	if err := a.MigrateDB(cfg.Database.Debug); err != nil {
		return fmt.Errorf("database migration failed: %w", err)
	}

	a.initServices()
	return nil
}

func (a *Application) initLogger(appCfg *config.AppConfig) error {
	cfg := appCfg.Logger
	var zapConfig zap.Config
	if cfg.Mode == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}
	zapConfig.OutputPaths = []string{"stdout"}

	var logger *zap.Logger
	if cfg.FileEnable {
		lumberJackLogger := &lumberjack.Logger{
			Filename:   appCfg.GetLogFile(),
			MaxSize:    64,
			MaxBackups: 7,
			MaxAge:     7,
			Compress:   false,
		}

		core := zapcore.NewTee(
			zapcore.NewCore(
				zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
				zapcore.AddSync(lumberJackLogger),
				zapConfig.Level,
			),
			zapcore.NewCore(
				zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
				zapcore.AddSync(os.Stdout),
				zapConfig.Level,
			),
		)
		logger = zap.New(core, zap.AddCaller())
	} else {
		var err error
		logger, err = zapConfig.Build(zap.AddCaller())
		if err != nil {
			return err
		}
	}

	zap.ReplaceGlobals(logger.With(zap.String("appid", appCfg.System.Appid)))
	return nil
}

func (a *Application) initServices() {
	if a.gormDB == nil {
		return
	}
	if a.metrics == nil {
		a.metrics = metrics.New(false)
	}
	products := catalog.NewGormProductRepository(a.gormDB)
	sales := ledger.NewGormSaleRepository(a.gormDB)
	a.catalog = catalog.NewService(products, a.now)
	a.ledger = ledger.NewService(sales, products, a.metrics, a.now)
	a.reports = report.NewService(sales, a.now)
}

// Release releases application resources
func (a *Application) Release() {
	if a.gormDB != nil {
		if sqlDB, err := a.gormDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	_ = zap.L().Sync()
}
