// Package artifact encodes and decodes AreaConfig files. The format is chosen by file
// extension: .json for the web bundle, .yaml/.yml for operator-edited configs.
package artifact

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/MarkoPoloResearchLab/areaconfig/internal/model"
)

const (
	extensionJSON    = ".json"
	extensionYAML    = ".yaml"
	extensionYML     = ".yml"
	jsonIndent       = "  "
	yamlIndentSpaces = 2
)

var (
	ErrUnsupportedFormat = errors.New("artifact_unsupported_format")
	ErrDecode            = errors.New("artifact_decode_failed")
)

// FormatForPath resolves the artifact format from a file name.
func FormatForPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case extensionJSON:
		return model.ArtifactFormatJSON, nil
	case extensionYAML, extensionYML:
		return model.ArtifactFormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// Extension returns the canonical file extension for a format.
func Extension(format string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case model.ArtifactFormatJSON:
		return extensionJSON, nil
	case model.ArtifactFormatYAML:
		return extensionYAML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// Encode serializes the config in the requested format.
func Encode(config model.AreaConfig, format string) ([]byte, error) {
	switch format {
	case model.ArtifactFormatJSON:
		payload, err := json.MarshalIndent(config, "", jsonIndent)
		if err != nil {
			return nil, err
		}
		return append(payload, '\n'), nil
	case model.ArtifactFormatYAML:
		var buffer bytes.Buffer
		encoder := yaml.NewEncoder(&buffer)
		encoder.SetIndent(yamlIndentSpaces)
		if err := encoder.Encode(config); err != nil {
			return nil, err
		}
		if err := encoder.Close(); err != nil {
			return nil, err
		}
		return buffer.Bytes(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// Decode parses a config payload. Unknown keys are rejected so typos in
// hand-edited files surface instead of silently dropping a setting.
func Decode(payload []byte, format string) (model.AreaConfig, error) {
	var config model.AreaConfig
	switch format {
	case model.ArtifactFormatJSON:
		decoder := json.NewDecoder(bytes.NewReader(payload))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&config); err != nil {
			return model.AreaConfig{}, fmt.Errorf("%w: %v", ErrDecode, err)
		}
	case model.ArtifactFormatYAML:
		decoder := yaml.NewDecoder(bytes.NewReader(payload))
		decoder.KnownFields(true)
		if err := decoder.Decode(&config); err != nil {
			return model.AreaConfig{}, fmt.Errorf("%w: %v", ErrDecode, err)
		}
	default:
		return model.AreaConfig{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	return config, nil
}

// ReadFile decodes the artifact at path using the format implied by its extension.
func ReadFile(path string) (model.AreaConfig, error) {
	format, formatErr := FormatForPath(path)
	if formatErr != nil {
		return model.AreaConfig{}, formatErr
	}
	payload, readErr := os.ReadFile(path)
	if readErr != nil {
		return model.AreaConfig{}, readErr
	}
	return Decode(payload, format)
}
