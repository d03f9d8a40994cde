package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/MarkoPoloResearchLab/areaconfig/internal/model"
)

const (
	// DriverNameSQLite is the only ledger backend.
	DriverNameSQLite = "sqlite"

	sqliteURIPrefix      = "file:"
	sqliteMemoryDatabase = ":memory:"
	ledgerDirectoryMode  = 0o755
)

var (
	ErrMissingDatabaseDriverName = errors.New("ledger_missing_driver")
	ErrUnsupportedDatabaseDriver = errors.New("ledger_unsupported_driver")
	// ErrMissingDataSourceName means no ledger path or SQLite URI was configured.
	ErrMissingDataSourceName = errors.New("ledger_missing_path")
)

// Config names the ledger backend and where it lives. DataSourceName is either a
// plain file path or a SQLite "file:" URI.
type Config struct {
	DriverName     string
	DataSourceName string
}

// OpenDatabase opens the ledger database described by configuration.
func OpenDatabase(configuration Config) (*gorm.DB, error) {
	driverName := strings.TrimSpace(configuration.DriverName)
	switch driverName {
	case "":
		return nil, ErrMissingDatabaseDriverName
	case DriverNameSQLite:
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDatabaseDriver, driverName)
	}

	dataSourceName, prepareErr := prepareSQLiteDataSource(configuration.DataSourceName)
	if prepareErr != nil {
		return nil, prepareErr
	}

	database, openErr := gorm.Open(sqlite.Open(dataSourceName), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if openErr != nil {
		return nil, fmt.Errorf("storage: open ledger %s: %w", dataSourceName, openErr)
	}
	return database, nil
}

// prepareSQLiteDataSource trims the data source and creates the parent directory
// of a plain ledger path. URIs and in-memory names are passed through untouched.
func prepareSQLiteDataSource(rawDataSourceName string) (string, error) {
	dataSourceName := strings.TrimSpace(rawDataSourceName)
	if dataSourceName == "" {
		return "", ErrMissingDataSourceName
	}
	if dataSourceName == sqliteMemoryDatabase || strings.HasPrefix(dataSourceName, sqliteURIPrefix) {
		return dataSourceName, nil
	}
	if mkdirErr := os.MkdirAll(filepath.Dir(dataSourceName), ledgerDirectoryMode); mkdirErr != nil {
		return "", fmt.Errorf("storage: create ledger directory: %w", mkdirErr)
	}
	return dataSourceName, nil
}

// AutoMigrate creates or updates the generation ledger table.
func AutoMigrate(database *gorm.DB) error {
	return database.AutoMigrate(&model.GenerationRecord{})
}

func NewID() string {
	return uuid.NewString()
}
