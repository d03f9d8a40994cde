package model

import (
	"errors"
	"fmt"
	"math"
	"net/mail"
	"net/url"
	"regexp"
	"sort"
	"strings"
)

const (
	SenderNameMaxLength = 6

	messageRequired            = "is required"
	messageInvalidSlug         = "must be a lowercase slug (letters, digits, hyphens)"
	messageInvalidColor        = "must be a #RRGGBB hex color"
	messageInvalidEmail        = "must be a valid email address"
	messageInvalidHostname     = "must be a lowercase hostname such as mydammaiguda.in"
	messageInvalidPackageName  = "must be a reverse-DNS package name such as in.mydammaiguda.app"
	messageInvalidURL          = "must be an absolute http(s) URL"
	messageInvalidPath         = "must start with /"
	messageSenderNameTooLong   = "must be at most 6 characters (DLT sender-id)"
	messageSenderNameCharset   = "must contain only letters and digits"
	messageLatitudeRange       = "must be within [-90, 90]"
	messageLongitudeRange      = "must be within [-180, 180]"
	messageStationMissing      = "station binding is required"
	messageStationReference    = "must reference the id of the bound station"
	messageUnknownFeature      = "is not a known feature"
	messageDumpYardRequired    = "must be present and enabled when featureFlags.dumpYard is on"
	messageDumpYardContradicts = "is enabled while featureFlags.dumpYard is off"
	messageMustBePositive      = "must be greater than zero"
)

var (
	ErrInvalidAreaConfig = errors.New("invalid_area_config")

	slugPattern        = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)
	hexColorPattern    = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
	hostnamePattern    = regexp.MustCompile(`^(?:[a-z0-9](?:[a-z0-9-]{0,61}[a-z0-9])?\.)+[a-z]{2,63}$`)
	packageNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*(?:\.[a-z][a-z0-9_]*)+$`)
	alphanumericRegexp = regexp.MustCompile(`^[A-Za-z0-9]+$`)
)

// ValidationError is a single contract violation tagged by its dotted field path.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (validationError ValidationError) Error() string {
	return fmt.Sprintf("%s %s", validationError.Field, validationError.Message)
}

// ValidationErrors carries every violation found in one pass.
type ValidationErrors []ValidationError

func (validationErrors ValidationErrors) Error() string {
	messages := make([]string, 0, len(validationErrors))
	for _, validationError := range validationErrors {
		messages = append(messages, validationError.Error())
	}
	return fmt.Sprintf("%s: %s", ErrInvalidAreaConfig, strings.Join(messages, "; "))
}

func (validationErrors ValidationErrors) Is(target error) bool {
	return target == ErrInvalidAreaConfig
}

// Fields returns the offending field paths in reporting order.
func (validationErrors ValidationErrors) Fields() []string {
	fields := make([]string, 0, len(validationErrors))
	for _, validationError := range validationErrors {
		fields = append(fields, validationError.Field)
	}
	return fields
}

// Add records a violation.
func (validationErrors *ValidationErrors) Add(field string, message string) {
	*validationErrors = append(*validationErrors, ValidationError{Field: field, Message: message})
}

// Err returns nil when nothing was recorded.
func (validationErrors ValidationErrors) Err() error {
	if len(validationErrors) == 0 {
		return nil
	}
	return validationErrors
}

// Validate checks the config against the deployable-artifact contract and returns
// every violation at once. A valid config is returned unchanged.
func Validate(config AreaConfig) (AreaConfig, error) {
	var violations ValidationErrors

	validateArea(config.Area, &violations)
	validateBranding(config.Branding, &violations)
	validateCompany(config.Company, &violations)
	validateURLs(config.URLs, &violations)
	validateDistribution(config.Distribution, &violations)
	validateFeatureFlags(config.FeatureFlags, config.DumpYardConfig, &violations)
	validateAQI(config.AQIConfig, &violations)
	validateSMS(config.SMSConfig, &violations)
	validateSocialLinks(config.SocialLinks, &violations)

	if err := violations.Err(); err != nil {
		return AreaConfig{}, err
	}
	return config, nil
}

func validateArea(area AreaIdentity, violations *ValidationErrors) {
	if requireText("area.id", area.ID, violations) && !slugPattern.MatchString(area.ID) {
		violations.Add("area.id", messageInvalidSlug)
	}
	requireText("area.name", area.Name, violations)
	requireText("area.district", area.District, violations)
	requireText("area.state", area.State, violations)
}

func validateBranding(branding Branding, violations *ValidationErrors) {
	requireText("branding.appName", branding.AppName, violations)
	requireText("branding.appNameShort", branding.AppNameShort, violations)

	colors := []struct {
		field string
		value string
	}{
		{field: "branding.primaryColor", value: branding.PrimaryColor},
		{field: "branding.primaryColorLight", value: branding.PrimaryColorLight},
		{field: "branding.primaryColorDark", value: branding.PrimaryColorDark},
		{field: "branding.accentColor", value: branding.AccentColor},
		{field: "branding.backgroundColor", value: branding.BackgroundColor},
	}
	for _, color := range colors {
		if requireText(color.field, color.value, violations) && !hexColorPattern.MatchString(color.value) {
			violations.Add(color.field, messageInvalidColor)
		}
	}
}

func validateCompany(company Company, violations *ValidationErrors) {
	requireText("company.name", company.Name, violations)
	if requireText("company.email", company.Email, violations) {
		if _, parseErr := mail.ParseAddress(company.Email); parseErr != nil {
			violations.Add("company.email", messageInvalidEmail)
		}
	}
	validateOptionalURL("company.website", company.Website, violations)
}

func validateURLs(urls URLs, violations *ValidationErrors) {
	if requireText("urls.domain", urls.Domain, violations) && !hostnamePattern.MatchString(urls.Domain) {
		violations.Add("urls.domain", messageInvalidHostname)
	}
	validateOptionalURL("urls.appStoreUrl", urls.AppStoreURL, violations)

	paths := []struct {
		field string
		value string
	}{
		{field: "urls.privacyPolicyPath", value: urls.PrivacyPolicyPath},
		{field: "urls.termsPath", value: urls.TermsPath},
		{field: "urls.deleteAccountPath", value: urls.DeleteAccountPath},
	}
	for _, path := range paths {
		if path.value != "" && !strings.HasPrefix(path.value, "/") {
			violations.Add(path.field, messageInvalidPath)
		}
	}
}

func validateDistribution(distribution Distribution, violations *ValidationErrors) {
	if requireText("distribution.packageName", distribution.PackageName, violations) && !packageNamePattern.MatchString(distribution.PackageName) {
		violations.Add("distribution.packageName", messageInvalidPackageName)
	}
}

func validateFeatureFlags(flags FeatureFlags, dumpYard *DumpYardConfig, violations *ValidationErrors) {
	unknown := make([]string, 0)
	for feature := range flags {
		if !IsKnownFeature(feature) {
			unknown = append(unknown, string(feature))
		}
	}
	sort.Strings(unknown)
	for _, feature := range unknown {
		violations.Add("featureFlags."+feature, messageUnknownFeature)
	}

	if !flags[FeatureDumpYard] {
		if dumpYard != nil && dumpYard.Enabled {
			violations.Add("dumpYardConfig.enabled", messageDumpYardContradicts)
		}
		return
	}

	if dumpYard == nil || !dumpYard.Enabled {
		violations.Add("dumpYardConfig", messageDumpYardRequired)
		return
	}
	requireText("dumpYardConfig.name", dumpYard.Name, violations)
	requirePositive("dumpYardConfig.dailyWasteTons", dumpYard.DailyWasteTons, violations)
	requirePositive("dumpYardConfig.areaAcres", dumpYard.AreaAcres, violations)
	requirePositive("dumpYardConfig.redZoneRadiusKm", dumpYard.RedZoneRadiusKm, violations)
}

func validateAQI(aqi AQIConfig, violations *ValidationErrors) {
	bindings := []struct {
		role        string
		referenceID string
		referenceAt string
	}{
		{role: StationRolePrimary, referenceID: aqi.PrimaryStationID, referenceAt: "aqiConfig.primaryStationId"},
		{role: StationRoleSecondary, referenceID: aqi.SecondaryStationID, referenceAt: "aqiConfig.secondaryStationId"},
	}
	for _, binding := range bindings {
		fieldPrefix := "aqiConfig.stations." + binding.role
		station, found := aqi.Stations[binding.role]
		if !found {
			violations.Add(fieldPrefix, messageStationMissing)
			continue
		}
		stationIDPresent := requireText(fieldPrefix+".id", station.ID, violations)
		if !withinRange(station.Lat, -90, 90) {
			violations.Add(fieldPrefix+".lat", messageLatitudeRange)
		}
		if !withinRange(station.Lon, -180, 180) {
			violations.Add(fieldPrefix+".lon", messageLongitudeRange)
		}
		if stationIDPresent && binding.referenceID != station.ID {
			violations.Add(binding.referenceAt, messageStationReference)
		}
	}
}

func validateSMS(sms SMSConfig, violations *ValidationErrors) {
	if !requireText("smsConfig.senderName", sms.SenderName, violations) {
		return
	}
	if len(sms.SenderName) > SenderNameMaxLength {
		violations.Add("smsConfig.senderName", messageSenderNameTooLong)
	}
	if !alphanumericRegexp.MatchString(sms.SenderName) {
		violations.Add("smsConfig.senderName", messageSenderNameCharset)
	}
}

func validateSocialLinks(links map[string]string, violations *ValidationErrors) {
	platforms := make([]string, 0, len(links))
	for platform := range links {
		platforms = append(platforms, platform)
	}
	sort.Strings(platforms)
	for _, platform := range platforms {
		validateOptionalURL("socialLinks."+platform, links[platform], violations)
	}
}

func requireText(field string, value string, violations *ValidationErrors) bool {
	if strings.TrimSpace(value) == "" {
		violations.Add(field, messageRequired)
		return false
	}
	return true
}

func requirePositive(field string, value float64, violations *ValidationErrors) {
	if math.IsNaN(value) || math.IsInf(value, 0) || value <= 0 {
		violations.Add(field, messageMustBePositive)
	}
}

// withinRange is false for NaN, which compares false against every bound.
func withinRange(value float64, lower float64, upper float64) bool {
	return value >= lower && value <= upper
}

func validateOptionalURL(field string, value string, violations *ValidationErrors) {
	if value == "" {
		return
	}
	parsed, parseErr := url.Parse(value)
	if parseErr != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		violations.Add(field, messageInvalidURL)
	}
}
