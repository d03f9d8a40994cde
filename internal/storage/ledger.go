package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/MarkoPoloResearchLab/areaconfig/internal/model"
)

var (
	ErrMissingLedgerDatabase = errors.New("ledger_missing_database")
	// ErrAreaAlreadyGenerated means the area id was already emitted to a different artifact.
	ErrAreaAlreadyGenerated = errors.New("ledger_area_already_generated")
)

// Ledger records every artifact the generator has written so area ids stay
// globally unique across tenants.
type Ledger struct {
	database *gorm.DB
}

func NewLedger(database *gorm.DB) (*Ledger, error) {
	if database == nil {
		return nil, ErrMissingLedgerDatabase
	}
	return &Ledger{database: database}, nil
}

// OpenLedger opens (and migrates) the SQLite ledger at ledgerPath, which may be a
// plain file path or a "file:" URI.
func OpenLedger(ledgerPath string) (*Ledger, error) {
	database, openErr := OpenDatabase(Config{DriverName: DriverNameSQLite, DataSourceName: ledgerPath})
	if openErr != nil {
		return nil, openErr
	}
	if migrateErr := AutoMigrate(database); migrateErr != nil {
		return nil, fmt.Errorf("storage: migrate ledger: %w", migrateErr)
	}
	return NewLedger(database)
}

// Close releases the underlying connection pool.
func (ledger *Ledger) Close() error {
	sqlDatabase, err := ledger.database.DB()
	if err != nil {
		return err
	}
	return sqlDatabase.Close()
}

// EnsureAvailable fails with ErrAreaAlreadyGenerated when areaID has been recorded
// for an artifact other than artifactPath. Regenerating the same artifact is allowed.
func (ledger *Ledger) EnsureAvailable(ctx context.Context, areaID string, artifactPath string) error {
	var conflicting model.GenerationRecord
	queryErr := ledger.database.WithContext(ctx).
		Where("area_id = ? AND artifact_path <> ?", strings.TrimSpace(areaID), strings.TrimSpace(artifactPath)).
		Order("created_at DESC").
		Limit(1).
		Find(&conflicting).Error
	if queryErr != nil {
		return fmt.Errorf("storage: query ledger: %w", queryErr)
	}
	if conflicting.ID != "" {
		return fmt.Errorf("%w: %s already written to %s", ErrAreaAlreadyGenerated, conflicting.AreaID, conflicting.ArtifactPath)
	}
	return nil
}

// Record stores a ledger entry.
func (ledger *Ledger) Record(ctx context.Context, record model.GenerationRecord) error {
	if record.ID == "" {
		record.ID = NewID()
	}
	if createErr := ledger.database.WithContext(ctx).Create(&record).Error; createErr != nil {
		return fmt.Errorf("storage: record generation: %w", createErr)
	}
	return nil
}

// History returns ledger entries oldest first, optionally filtered by area id.
func (ledger *Ledger) History(ctx context.Context, areaID string) ([]model.GenerationRecord, error) {
	query := ledger.database.WithContext(ctx).Order("created_at ASC").Order("id ASC")
	if trimmed := strings.TrimSpace(areaID); trimmed != "" {
		query = query.Where("area_id = ?", trimmed)
	}
	var records []model.GenerationRecord
	if findErr := query.Find(&records).Error; findErr != nil {
		return nil, fmt.Errorf("storage: list generations: %w", findErr)
	}
	return records, nil
}
