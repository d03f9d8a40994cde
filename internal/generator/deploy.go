package generator

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"

	"github.com/MarkoPoloResearchLab/areaconfig/internal/model"
)

// WebManifestFileName is staged with every tenant alongside its logos.
const WebManifestFileName = "manifest.json"

var ErrMissingDeployDirectory = errors.New("deploy_missing_directory")

// DeployOptions names where area assets come from and where they are staged.
type DeployOptions struct {
	SourceDirectory string
	TargetDirectory string
}

// AssetFailure records one asset that could not be staged.
type AssetFailure struct {
	Asset string
	Err   error
}

// DeployReport lists staged and failed assets in manifest order.
type DeployReport struct {
	Copied []string
	Failed []AssetFailure
}

// DeployError is returned when at least one asset failed to stage. Assets copied
// before and after the failure stay in place.
type DeployError struct {
	Report DeployReport
	cause  error
}

func (deployError *DeployError) Error() string {
	failures := make([]string, 0, len(deployError.Report.Failed))
	for _, failure := range deployError.Report.Failed {
		failures = append(failures, failure.Asset)
	}
	return fmt.Sprintf("deploy failed for %d of %d assets: %s",
		len(deployError.Report.Failed),
		len(deployError.Report.Failed)+len(deployError.Report.Copied),
		strings.Join(failures, ", "))
}

func (deployError *DeployError) Unwrap() []error {
	return multierr.Errors(deployError.cause)
}

// AssetManifest lists the file names a tenant build needs: the relative branding
// images followed by the web manifest. Absolute URLs are hosted elsewhere and skipped.
func AssetManifest(config model.AreaConfig) []string {
	candidates := []string{
		config.Branding.LogoURL,
		config.Branding.LogoSmallURL,
		config.Branding.FaviconURL,
		config.Branding.PartnerLogoURL,
	}

	seen := make(map[string]struct{}, len(candidates)+1)
	assets := make([]string, 0, len(candidates)+1)
	for _, candidate := range append(candidates, WebManifestFileName) {
		name := assetFileName(candidate)
		if name == "" {
			continue
		}
		if _, duplicate := seen[name]; duplicate {
			continue
		}
		seen[name] = struct{}{}
		assets = append(assets, name)
	}
	return assets
}

func assetFileName(reference string) string {
	trimmed := strings.TrimSpace(reference)
	if trimmed == "" {
		return ""
	}
	parsed, parseErr := url.Parse(trimmed)
	if parseErr != nil || parsed.Scheme != "" || parsed.Host != "" {
		return ""
	}
	name := path.Base(parsed.Path)
	if name == "." || name == "/" {
		return ""
	}
	return name
}

// Deploy copies every asset in the manifest from the source to the target
// directory. It keeps going after a failure and reports all outcomes; it never
// touches the network.
func Deploy(config model.AreaConfig, options DeployOptions) (DeployReport, error) {
	sourceDirectory := strings.TrimSpace(options.SourceDirectory)
	targetDirectory := strings.TrimSpace(options.TargetDirectory)
	if sourceDirectory == "" || targetDirectory == "" {
		return DeployReport{}, ErrMissingDeployDirectory
	}

	validated, validationErr := model.Validate(config)
	if validationErr != nil {
		return DeployReport{}, validationErr
	}

	var report DeployReport
	var cause error
	for _, asset := range AssetManifest(validated) {
		copyErr := copyFileAtomically(filepath.Join(sourceDirectory, asset), filepath.Join(targetDirectory, asset))
		if copyErr != nil {
			report.Failed = append(report.Failed, AssetFailure{Asset: asset, Err: copyErr})
			cause = multierr.Append(cause, copyErr)
			continue
		}
		report.Copied = append(report.Copied, asset)
	}

	if len(report.Failed) > 0 {
		return report, &DeployError{Report: report, cause: cause}
	}
	return report, nil
}
