package adminapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/talkincode/salesledger/internal/webserver"
	"gorm.io/gorm"
)

// DBMSTableInfo describes one table of the store
type DBMSTableInfo struct {
	Name     string `json:"name"`
	RowCount int64  `json:"row_count"`
}

// DBMSServerInfo describes the backing database
type DBMSServerInfo struct {
	DatabaseType    string `json:"database_type"`
	DatabaseVersion string `json:"database_version"`
	ServerTime      string `json:"server_time"`
	DatabaseSize    string `json:"database_size"`
	TableCount      int    `json:"table_count"`
	Encoding        string `json:"encoding,omitempty"`
}

// registerDbmsRoutes registers the read-only store inspection routes
func (h *Handlers) registerDbmsRoutes(s *webserver.WebServer) {
	s.GET("/dbms/tables", h.dbmsListTables)
	s.GET("/dbms/serverinfo", h.dbmsGetServerInfo)
}

func listTableNames(db *gorm.DB) ([]string, error) {
	var names []string
	var err error
	switch db.Dialector.Name() {
	case "postgres":
		err = db.Raw(`
			SELECT table_name
			FROM information_schema.tables
			WHERE table_schema = 'public'
			ORDER BY table_name
		`).Scan(&names).Error
	case "sqlite":
		err = db.Raw(`
			SELECT name
			FROM sqlite_master
			WHERE type='table' AND name NOT LIKE 'sqlite_%'
			ORDER BY name
		`).Scan(&names).Error
	default:
		err = fmt.Errorf("unsupported database type: %s", db.Dialector.Name())
	}
	return names, err
}

func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// dbmsListTables returns all tables with their row counts
func (h *Handlers) dbmsListTables(c echo.Context) error {
	db := h.db.WithContext(c.Request().Context())
	names, err := listTableNames(db)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to list tables", err.Error())
	}

	tables := make([]DBMSTableInfo, 0, len(names))
	for _, name := range names {
		var count int64
		if err := db.Raw(fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteIdentifier(name))).Scan(&count).Error; err != nil {
			return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to count rows", err.Error())
		}
		tables = append(tables, DBMSTableInfo{Name: name, RowCount: count})
	}
	return ok(c, http.StatusOK, tables)
}

// dbmsGetServerInfo returns database server information
func (h *Handlers) dbmsGetServerInfo(c echo.Context) error {
	db := h.db.WithContext(c.Request().Context())
	dbType := db.Dialector.Name()

	names, err := listTableNames(db)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to list tables", err.Error())
	}
	info := DBMSServerInfo{
		DatabaseType: dbType,
		ServerTime:   time.Now().Format("2006-01-02 15:04:05"),
		TableCount:   len(names),
	}

	switch dbType {
	case "postgres":
		db.Raw("SELECT version()").Scan(&info.DatabaseVersion)
		db.Raw("SELECT pg_size_pretty(pg_database_size(current_database()))").Scan(&info.DatabaseSize)
		db.Raw("SELECT pg_encoding_to_char(encoding) FROM pg_database WHERE datname = current_database()").Scan(&info.Encoding)
	case "sqlite":
		var version string
		db.Raw("SELECT sqlite_version()").Scan(&version)
		info.DatabaseVersion = "SQLite " + version

		var pageCount, pageSize int64
		db.Raw("PRAGMA page_count").Scan(&pageCount)
		db.Raw("PRAGMA page_size").Scan(&pageSize)
		info.DatabaseSize = humanSize(pageCount * pageSize)

		db.Raw("PRAGMA encoding").Scan(&info.Encoding)
	}

	return ok(c, http.StatusOK, info)
}

func humanSize(sizeBytes int64) string {
	switch {
	case sizeBytes < 1024:
		return fmt.Sprintf("%d B", sizeBytes)
	case sizeBytes < 1024*1024:
		return fmt.Sprintf("%.2f KB", float64(sizeBytes)/1024)
	case sizeBytes < 1024*1024*1024:
		return fmt.Sprintf("%.2f MB", float64(sizeBytes)/(1024*1024))
	default:
		return fmt.Sprintf("%.2f GB", float64(sizeBytes)/(1024*1024*1024))
	}
}
