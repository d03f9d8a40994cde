package generator

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/MarkoPoloResearchLab/areaconfig/internal/artifact"
	"github.com/MarkoPoloResearchLab/areaconfig/internal/model"
)

const (
	artifactFileMode      = 0o644
	artifactDirectoryMode = 0o755
	temporaryFilePattern  = ".%s.tmp-*"

	operationStat   = "stat"
	operationWrite  = "write"
	operationRename = "rename"
	operationLink   = "link"
	operationCopy   = "copy"
)

var ErrArtifactExists = errors.New("artifact_exists")

// ArtifactError reports a filesystem failure while producing an artifact.
type ArtifactError struct {
	Op   string
	Path string
	Err  error
}

func (artifactError *ArtifactError) Error() string {
	return fmt.Sprintf("artifact %s %s: %v", artifactError.Op, artifactError.Path, artifactError.Err)
}

func (artifactError *ArtifactError) Unwrap() error {
	return artifactError.Err
}

// WriteOptions controls artifact replacement.
type WriteOptions struct {
	Overwrite bool
}

// WrittenArtifact describes a successfully written config file.
type WrittenArtifact struct {
	Path     string
	Format   string
	Checksum string
}

// WriteArtifact validates the config and writes it to destinationPath. The payload
// goes to a temporary sibling first and is moved into place, so readers never see
// a partial file. An existing destination is left untouched unless Overwrite is set,
// including one that appears while the payload is being written.
func WriteArtifact(config model.AreaConfig, destinationPath string, options WriteOptions) (WrittenArtifact, error) {
	format, formatErr := artifact.FormatForPath(destinationPath)
	if formatErr != nil {
		return WrittenArtifact{}, formatErr
	}

	validated, validationErr := model.Validate(config)
	if validationErr != nil {
		return WrittenArtifact{}, validationErr
	}

	payload, encodeErr := artifact.Encode(validated, format)
	if encodeErr != nil {
		return WrittenArtifact{}, encodeErr
	}

	if !options.Overwrite {
		if _, statErr := os.Lstat(destinationPath); statErr == nil {
			return WrittenArtifact{}, &ArtifactError{Op: operationWrite, Path: destinationPath, Err: ErrArtifactExists}
		} else if !errors.Is(statErr, os.ErrNotExist) {
			return WrittenArtifact{}, &ArtifactError{Op: operationStat, Path: destinationPath, Err: statErr}
		}
	}

	if writeErr := writeFileAtomically(destinationPath, payload, options.Overwrite); writeErr != nil {
		return WrittenArtifact{}, writeErr
	}

	return WrittenArtifact{
		Path:     destinationPath,
		Format:   format,
		Checksum: Checksum(payload),
	}, nil
}

// Checksum returns the hex SHA-256 of an artifact payload.
func Checksum(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

func writeFileAtomically(destinationPath string, payload []byte, overwrite bool) error {
	return commitAtomically(destinationPath, overwrite, func(temporaryFile *os.File) error {
		_, writeErr := temporaryFile.Write(payload)
		return writeErr
	})
}

func copyFileAtomically(sourcePath string, destinationPath string) error {
	source, openErr := os.Open(sourcePath)
	if openErr != nil {
		return &ArtifactError{Op: operationCopy, Path: sourcePath, Err: openErr}
	}
	defer func() { _ = source.Close() }()

	return commitAtomically(destinationPath, true, func(temporaryFile *os.File) error {
		_, copyErr := io.Copy(temporaryFile, source)
		return copyErr
	})
}

// commitAtomically fills a temporary sibling of destinationPath and moves it into
// place. Without overwrite the commit is a hard link, which fails when the
// destination already exists.
func commitAtomically(destinationPath string, overwrite bool, fill func(*os.File) error) error {
	directory := filepath.Dir(destinationPath)
	if mkdirErr := os.MkdirAll(directory, artifactDirectoryMode); mkdirErr != nil {
		return &ArtifactError{Op: operationWrite, Path: destinationPath, Err: mkdirErr}
	}

	temporaryFile, createErr := os.CreateTemp(directory, fmt.Sprintf(temporaryFilePattern, filepath.Base(destinationPath)))
	if createErr != nil {
		return &ArtifactError{Op: operationWrite, Path: destinationPath, Err: createErr}
	}
	temporaryPath := temporaryFile.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(temporaryPath)
		}
	}()

	fillErr := fill(temporaryFile)
	if fillErr == nil {
		fillErr = temporaryFile.Sync()
	}
	closeErr := temporaryFile.Close()
	if fillErr != nil || closeErr != nil {
		return &ArtifactError{Op: operationWrite, Path: destinationPath, Err: errors.Join(fillErr, closeErr)}
	}
	if chmodErr := os.Chmod(temporaryPath, artifactFileMode); chmodErr != nil {
		return &ArtifactError{Op: operationWrite, Path: destinationPath, Err: chmodErr}
	}
	if !overwrite {
		if linkErr := os.Link(temporaryPath, destinationPath); linkErr != nil {
			if errors.Is(linkErr, os.ErrExist) {
				return &ArtifactError{Op: operationWrite, Path: destinationPath, Err: ErrArtifactExists}
			}
			return &ArtifactError{Op: operationLink, Path: destinationPath, Err: linkErr}
		}
		return nil
	}
	if renameErr := os.Rename(temporaryPath, destinationPath); renameErr != nil {
		return &ArtifactError{Op: operationRename, Path: destinationPath, Err: renameErr}
	}
	committed = true
	return nil
}
