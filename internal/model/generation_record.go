package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	ArtifactFormatJSON = "json"
	ArtifactFormatYAML = "yaml"

	generationAreaIDMaxLength   = 64
	generationPathMaxLength     = 500
	generationChecksumMaxLength = 64
	generationSourceMaxLength   = 16

	GenerationSourcePreset      = "preset"
	GenerationSourceInteractive = "interactive"
)

var (
	ErrInvalidGenerationAreaID   = errors.New("invalid_generation_area_id")
	ErrInvalidGenerationPath     = errors.New("invalid_generation_path")
	ErrInvalidGenerationFormat   = errors.New("invalid_generation_format")
	ErrInvalidGenerationChecksum = errors.New("invalid_generation_checksum")
	ErrInvalidGenerationSource   = errors.New("invalid_generation_source")
)

// GenerationRecord is one ledger entry for an artifact written by the generator.
type GenerationRecord struct {
	ID           string    `gorm:"primaryKey;size:36"`
	AreaID       string    `gorm:"not null;size:64;index"`
	ArtifactPath string    `gorm:"not null;size:500"`
	Format       string    `gorm:"not null;size:8"`
	Source       string    `gorm:"not null;size:16"`
	Checksum     string    `gorm:"not null;size:64"`
	Deployed     bool      `gorm:"not null;default:false"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

// GenerationRecordInput holds the raw values used to construct a GenerationRecord.
type GenerationRecordInput struct {
	AreaID       string
	ArtifactPath string
	Format       string
	Source       string
	Checksum     string
	Deployed     bool
}

// NewGenerationRecord constructs a GenerationRecord with validated, normalized fields.
func NewGenerationRecord(input GenerationRecordInput) (GenerationRecord, error) {
	areaID := strings.TrimSpace(input.AreaID)
	if areaID == "" || len(areaID) > generationAreaIDMaxLength {
		return GenerationRecord{}, ErrInvalidGenerationAreaID
	}

	artifactPath := strings.TrimSpace(input.ArtifactPath)
	if artifactPath == "" || len(artifactPath) > generationPathMaxLength {
		return GenerationRecord{}, ErrInvalidGenerationPath
	}

	format := strings.ToLower(strings.TrimSpace(input.Format))
	switch format {
	case ArtifactFormatJSON, ArtifactFormatYAML:
	default:
		return GenerationRecord{}, fmt.Errorf("%w: %s", ErrInvalidGenerationFormat, input.Format)
	}

	source := strings.TrimSpace(input.Source)
	if source == "" {
		source = GenerationSourcePreset
	}
	if len(source) > generationSourceMaxLength || (source != GenerationSourcePreset && source != GenerationSourceInteractive) {
		return GenerationRecord{}, fmt.Errorf("%w: %s", ErrInvalidGenerationSource, source)
	}

	checksum := strings.ToLower(strings.TrimSpace(input.Checksum))
	if checksum == "" || len(checksum) > generationChecksumMaxLength {
		return GenerationRecord{}, ErrInvalidGenerationChecksum
	}

	return GenerationRecord{
		ID:           uuid.NewString(),
		AreaID:       areaID,
		ArtifactPath: artifactPath,
		Format:       format,
		Source:       source,
		Checksum:     checksum,
		Deployed:     input.Deployed,
	}, nil
}
