package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MarkoPoloResearchLab/areaconfig/internal/artifact"
	"github.com/MarkoPoloResearchLab/areaconfig/internal/generator"
	"github.com/MarkoPoloResearchLab/areaconfig/internal/model"
	"github.com/MarkoPoloResearchLab/areaconfig/internal/presets"
)

const (
	testPresetDammaiguda   = "dammaiguda"
	testPresetKapra        = "kapra"
	testLocalWebsite       = "http://localhost:8080"
	testInvalidSenderName  = "TOOLONG1"
	testMalformedJSON      = "{"
	testIgnoredFileName    = "README.md"
	testMismatchedFileName = "tenant-copy.yaml"
)

func generateTestConfig(testingT *testing.T, presetID string) model.AreaConfig {
	testingT.Helper()
	registry, registryErr := presets.Default()
	require.NoError(testingT, registryErr)
	config, generateErr := generator.New(registry).GenerateFromPreset(presetID)
	require.NoError(testingT, generateErr)
	return config
}

// writeRawArtifact encodes without validating so broken tenants can be staged.
func writeRawArtifact(testingT *testing.T, path string, config model.AreaConfig) {
	testingT.Helper()
	format, formatErr := artifact.FormatForPath(path)
	require.NoError(testingT, formatErr)
	payload, encodeErr := artifact.Encode(config, format)
	require.NoError(testingT, encodeErr)
	require.NoError(testingT, os.WriteFile(path, payload, 0o600))
}

func writeTenantDirectory(testingT *testing.T, presetIDs ...string) string {
	testingT.Helper()
	directory := testingT.TempDir()
	for _, presetID := range presetIDs {
		writeRawArtifact(testingT, filepath.Join(directory, presetID+".json"), generateTestConfig(testingT, presetID))
	}
	return directory
}

func TestRunAuditCommandSuccess(testingT *testing.T) {
	directory := writeTenantDirectory(testingT, testPresetDammaiguda, testPresetKapra)
	require.NoError(testingT, os.WriteFile(filepath.Join(directory, testIgnoredFileName), []byte("notes"), 0o600))

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	exitCode := runAuditCommand(directory, &stdout, &stderr)
	require.Equal(testingT, 0, exitCode)
	require.Contains(testingT, stdout.String(), "config-audit OK")
	require.NotContains(testingT, stdout.String(), "WARN:")
	require.Empty(testingT, stderr.String())
}

func TestRunAuditCommandReportsDirectoryProblems(testingT *testing.T) {
	regularFile := filepath.Join(testingT.TempDir(), "configs.json")
	require.NoError(testingT, os.WriteFile(regularFile, []byte("{}"), 0o600))

	testCases := []struct {
		name            string
		directory       string
		expectedMessage string
	}{
		{name: "missing directory", directory: filepath.Join(testingT.TempDir(), "missing"), expectedMessage: "read artifact directory"},
		{name: "empty directory", directory: testingT.TempDir(), expectedMessage: "no area configs found"},
		{name: "not a directory", directory: regularFile, expectedMessage: errAuditFailed.Error()},
	}

	for _, testCase := range testCases {
		testingT.Run(testCase.name, func(testingT *testing.T) {
			var stdout bytes.Buffer
			var stderr bytes.Buffer
			exitCode := runAuditCommand(testCase.directory, &stdout, &stderr)
			require.Equal(testingT, 1, exitCode)
			require.Contains(testingT, stderr.String(), testCase.expectedMessage)
			require.Contains(testingT, stderr.String(), "config-audit failed")
		})
	}
}

func TestRunAuditReportsDecodeAndValidationErrors(testingT *testing.T) {
	directory := writeTenantDirectory(testingT, testPresetDammaiguda)
	brokenPath := filepath.Join(directory, "broken.json")
	require.NoError(testingT, os.WriteFile(brokenPath, []byte(testMalformedJSON), 0o600))

	invalid := generateTestConfig(testingT, testPresetKapra)
	invalid.SMSConfig.SenderName = testInvalidSenderName
	invalidPath := filepath.Join(directory, testPresetKapra+".yaml")
	writeRawArtifact(testingT, invalidPath, invalid)

	result := runAudit(directory)
	require.False(testingT, result.ok())

	combined := strings.Join(result.errors, "\n")
	require.Contains(testingT, combined, brokenPath+": "+artifact.ErrDecode.Error())
	require.Contains(testingT, combined, invalidPath+": smsConfig.senderName")
}

func TestRunAuditReportsSharedIdentities(testingT *testing.T) {
	directory := writeTenantDirectory(testingT, testPresetDammaiguda)
	duplicatePath := filepath.Join(directory, testMismatchedFileName)
	writeRawArtifact(testingT, duplicatePath, generateTestConfig(testingT, testPresetDammaiguda))

	result := runAudit(directory)
	require.False(testingT, result.ok())
	require.Len(testingT, result.errors, 4)

	originalPath := filepath.Join(directory, testPresetDammaiguda+".json")
	for _, label := range []string{"area.id", "urls.domain", "distribution.packageName", "smsConfig.senderName"} {
		found := false
		for _, message := range result.errors {
			if strings.HasPrefix(message, label+" ") {
				found = true
				require.Contains(testingT, message, originalPath)
				require.Contains(testingT, message, duplicatePath)
			}
		}
		require.True(testingT, found, "expected a shared %s error", label)
	}

	require.Equal(testingT, []string{duplicatePath + ": file name does not match area id " + testPresetDammaiguda}, result.warnings)
}

func TestRunAuditReportsLocalReferences(testingT *testing.T) {
	directory := testingT.TempDir()
	config := generateTestConfig(testingT, testPresetDammaiguda)
	config.Company.Website = testLocalWebsite
	artifactPath := filepath.Join(directory, testPresetDammaiguda+".json")
	writeRawArtifact(testingT, artifactPath, config)

	result := runAudit(directory)
	require.Contains(testingT, result.errors, artifactPath+": company.website references a local host ("+testLocalWebsite+")")
}

func TestLocalURLPattern(testingT *testing.T) {
	testCases := []struct {
		value    string
		expected bool
	}{
		{value: "http://localhost", expected: true},
		{value: "https://127.0.0.1:8443/logo.png", expected: true},
		{value: "localhost:3000", expected: true},
		{value: "https://localhost.example.com", expected: false},
		{value: "https://mydammaiguda.in", expected: false},
		{value: "/logo.png", expected: false},
	}
	for _, testCase := range testCases {
		require.Equal(testingT, testCase.expected, localURLPattern.MatchString(testCase.value), testCase.value)
	}
}

func TestUniqueStrings(testingT *testing.T) {
	require.Empty(testingT, uniqueStrings(nil))
	require.Equal(testingT, []string{"a", "b"}, uniqueStrings([]string{"b", "a", "b"}))
}
