package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/MarkoPoloResearchLab/areaconfig/internal/artifact"
	"github.com/MarkoPoloResearchLab/areaconfig/internal/model"
)

const defaultArtifactDirectory = "configs"

var (
	errAuditFailed  = errors.New("config_audit_failed")
	localURLPattern = regexp.MustCompile(`^(?:https?://)?(?:localhost|127\.0\.0\.1)(?::[0-9]{2,5})?(?:/|$)`)
)

type auditResult struct {
	errors   []string
	warnings []string
}

func (result *auditResult) addError(message string, arguments ...any) {
	result.errors = append(result.errors, fmt.Sprintf(message, arguments...))
}

func (result *auditResult) addWarning(message string, arguments ...any) {
	result.warnings = append(result.warnings, fmt.Sprintf(message, arguments...))
}

func (result auditResult) ok() bool {
	return len(result.errors) == 0
}

type tenantArtifact struct {
	path   string
	config model.AreaConfig
}

func main() {
	artifactDirectory := defaultArtifactDirectory
	if len(os.Args) > 1 {
		artifactDirectory = os.Args[1]
	}
	os.Exit(runAuditCommand(artifactDirectory, os.Stdout, os.Stderr))
}

func runAuditCommand(artifactDirectory string, stdout io.Writer, stderr io.Writer) int {
	result := runAudit(artifactDirectory)
	sort.Strings(result.errors)
	sort.Strings(result.warnings)

	for _, warning := range result.warnings {
		_, _ = fmt.Fprintf(stdout, "WARN: %s\n", warning)
	}
	for _, errorMessage := range result.errors {
		_, _ = fmt.Fprintf(stderr, "ERROR: %s\n", errorMessage)
	}
	if !result.ok() {
		_, _ = fmt.Fprintf(stderr, "config-audit failed\n")
		return 1
	}
	_, _ = fmt.Fprintf(stdout, "config-audit OK\n")
	return 0
}

// runAudit checks every artifact in the directory on its own and then across
// tenants, since white-label builds must not share identities.
func runAudit(artifactDirectory string) auditResult {
	var result auditResult

	artifactPaths, listErr := listArtifacts(artifactDirectory)
	if listErr != nil {
		result.addError("read artifact directory %s: %v", artifactDirectory, listErr)
		return result
	}
	if len(artifactPaths) == 0 {
		result.addError("artifact directory %s: no area configs found", artifactDirectory)
		return result
	}

	tenants := make([]tenantArtifact, 0, len(artifactPaths))
	for _, artifactPath := range artifactPaths {
		config, readErr := artifact.ReadFile(artifactPath)
		if readErr != nil {
			result.addError("%s: %v", artifactPath, readErr)
			continue
		}

		if _, validationErr := model.Validate(config); validationErr != nil {
			recordValidationErrors(artifactPath, validationErr, &result)
		}
		checkFileName(artifactPath, config, &result)
		checkLocalReferences(artifactPath, config, &result)
		tenants = append(tenants, tenantArtifact{path: artifactPath, config: config})
	}

	checkCrossTenantUniqueness(tenants, &result)

	return result
}

func listArtifacts(artifactDirectory string) ([]string, error) {
	info, statErr := os.Stat(artifactDirectory)
	if statErr != nil {
		return nil, statErr
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", errAuditFailed, artifactDirectory)
	}

	var artifactPaths []string
	walkErr := filepath.WalkDir(artifactDirectory, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.Type()&os.ModeSymlink != 0 {
			if entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if entry.IsDir() {
			return nil
		}
		if _, formatErr := artifact.FormatForPath(path); formatErr != nil {
			return nil
		}
		artifactPaths = append(artifactPaths, path)
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}
	sort.Strings(artifactPaths)
	return artifactPaths, nil
}

func recordValidationErrors(artifactPath string, validationErr error, result *auditResult) {
	var violations model.ValidationErrors
	if !errors.As(validationErr, &violations) {
		result.addError("%s: %v", artifactPath, validationErr)
		return
	}
	for _, violation := range violations {
		result.addError("%s: %s %s", artifactPath, violation.Field, violation.Message)
	}
}

func checkFileName(artifactPath string, config model.AreaConfig, result *auditResult) {
	baseName := strings.TrimSuffix(filepath.Base(artifactPath), filepath.Ext(artifactPath))
	areaID := strings.TrimSpace(config.Area.ID)
	if areaID == "" || baseName == areaID {
		return
	}
	result.addWarning("%s: file name does not match area id %s", artifactPath, areaID)
}

func checkLocalReferences(artifactPath string, config model.AreaConfig, result *auditResult) {
	references := []struct {
		field string
		value string
	}{
		{field: "urls.domain", value: config.URLs.Domain},
		{field: "urls.appStoreUrl", value: config.URLs.AppStoreURL},
		{field: "company.website", value: config.Company.Website},
		{field: "branding.logoUrl", value: config.Branding.LogoURL},
		{field: "branding.logoSmallUrl", value: config.Branding.LogoSmallURL},
		{field: "branding.faviconUrl", value: config.Branding.FaviconURL},
		{field: "branding.partnerLogoUrl", value: config.Branding.PartnerLogoURL},
	}
	socialNames := make([]string, 0, len(config.SocialLinks))
	for name := range config.SocialLinks {
		socialNames = append(socialNames, name)
	}
	sort.Strings(socialNames)
	for _, name := range socialNames {
		references = append(references, struct {
			field string
			value string
		}{field: "socialLinks." + name, value: config.SocialLinks[name]})
	}

	for _, reference := range references {
		if localURLPattern.MatchString(strings.TrimSpace(reference.value)) {
			result.addError("%s: %s references a local host (%s)", artifactPath, reference.field, reference.value)
		}
	}
}

// checkCrossTenantUniqueness flags identities two artifacts claim at once. Each
// clash is reported once per value, naming every artifact involved.
func checkCrossTenantUniqueness(tenants []tenantArtifact, result *auditResult) {
	identities := []struct {
		label   string
		extract func(model.AreaConfig) string
	}{
		{label: "area.id", extract: func(config model.AreaConfig) string { return config.Area.ID }},
		{label: "urls.domain", extract: func(config model.AreaConfig) string { return strings.ToLower(config.URLs.Domain) }},
		{label: "distribution.packageName", extract: func(config model.AreaConfig) string { return config.Distribution.PackageName }},
		{label: "smsConfig.senderName", extract: func(config model.AreaConfig) string { return strings.ToUpper(config.SMSConfig.SenderName) }},
	}

	for _, identity := range identities {
		pathsByValue := make(map[string][]string)
		for _, tenant := range tenants {
			value := strings.TrimSpace(identity.extract(tenant.config))
			if value == "" {
				continue
			}
			pathsByValue[value] = append(pathsByValue[value], tenant.path)
		}
		for value, paths := range pathsByValue {
			if len(paths) < 2 {
				continue
			}
			result.addError("%s %s is shared by %s", identity.label, value, strings.Join(uniqueStrings(paths), ", "))
		}
	}
}

func uniqueStrings(values []string) []string {
	if len(values) == 0 {
		return values
	}
	sort.Strings(values)
	unique := make([]string, 0, len(values))
	for _, value := range values {
		if len(unique) == 0 || unique[len(unique)-1] != value {
			unique = append(unique, value)
		}
	}
	return unique
}
