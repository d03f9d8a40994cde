// Package generator turns presets or operator answers into validated AreaConfig
// artifacts and stages them for a tenant build.
package generator

import (
	"errors"
	"strings"

	"github.com/MarkoPoloResearchLab/areaconfig/internal/model"
	"github.com/MarkoPoloResearchLab/areaconfig/internal/presets"
)

var ErrMissingRegistry = errors.New("generator_missing_registry")

// Generator builds tenant configs from a preset registry and the baseline template.
type Generator struct {
	registry *presets.Registry
}

func New(registry *presets.Registry) *Generator {
	return &Generator{registry: registry}
}

// GenerateFromPreset looks up the preset, overlays every preset field onto a deep
// copy of the baseline and validates the result. An unknown id yields
// presets.ErrPresetNotFound, never a blank config.
func (generator *Generator) GenerateFromPreset(presetID string) (model.AreaConfig, error) {
	if generator == nil || generator.registry == nil {
		return model.AreaConfig{}, ErrMissingRegistry
	}
	preset, lookupErr := generator.registry.Get(presetID)
	if lookupErr != nil {
		return model.AreaConfig{}, lookupErr
	}

	config := Baseline()
	applyPreset(&config, preset)
	return model.Validate(config)
}

func applyPreset(config *model.AreaConfig, preset presets.AreaPreset) {
	applyIdentity(config, identityOverlay{
		areaID:             preset.ID,
		name:               preset.Name,
		localizedName:      preset.LocalizedName,
		tagline:            preset.Tagline,
		localizedTagline:   preset.LocalizedTagline,
		administrativeZone: preset.AdministrativeZone,
		district:           preset.District,
		postalCode:         preset.PostalCode,
		wardNumber:         preset.WardNumber,
	})
	applyBranding(config, preset.PrimaryColor, preset.PrimaryColorLight, preset.PrimaryColorDark, preset.AccentColor)
	applyDistribution(config, preset.ID, preset.Domain, preset.PackageName, preset.SenderName)

	stationID := preset.AQIStationID
	if strings.TrimSpace(stationID) == "" {
		stationID = preset.ID
	}
	applyPrimaryStation(config, model.AQIStation{
		ID:            stationID,
		Name:          preset.Name,
		LocalizedName: preset.LocalizedName,
		Lat:           preset.Lat,
		Lon:           preset.Lon,
	})

	var dumpYard *model.DumpYardConfig
	if preset.DumpYard != nil {
		dumpYard = &model.DumpYardConfig{
			Name:            preset.DumpYard.Name,
			LocalizedName:   preset.DumpYard.LocalizedName,
			DailyWasteTons:  preset.DumpYard.DailyWasteTons,
			AreaAcres:       preset.DumpYard.AreaAcres,
			RedZoneRadiusKm: preset.DumpYard.RedZoneRadiusKm,
		}
	}
	applyDumpYard(config, preset.DumpYardEnabled, dumpYard)

	stats := &config.Stats
	overlayText(&stats.BenefitsAmountLabel, preset.Stats.BenefitsAmountLabel)
	overlayText(&stats.BenefitsDescriptionLabel, preset.Stats.BenefitsDescriptionLabel)
	overlayText(&stats.BenefitsDescriptionLabelLocalized, preset.Stats.BenefitsDescriptionLabelLocalized)
	overlayText(&stats.ProblemsSolvedLabel, preset.Stats.ProblemsSolvedLabel)
	overlayText(&stats.ProblemsSolvedLabelLocalized, preset.Stats.ProblemsSolvedLabelLocalized)
	overlayText(&stats.PeopleBenefitedLabel, preset.Stats.PeopleBenefitedLabel)
	overlayText(&stats.PeopleBenefitedLabelLocalized, preset.Stats.PeopleBenefitedLabelLocalized)
}

type identityOverlay struct {
	areaID             string
	name               string
	localizedName      string
	tagline            string
	localizedTagline   string
	administrativeZone string
	district           string
	state              string
	postalCode         string
	wardNumber         string
}

func applyIdentity(config *model.AreaConfig, overlay identityOverlay) {
	area := &config.Area
	area.ID = strings.TrimSpace(overlay.areaID)
	area.Name = strings.TrimSpace(overlay.name)
	overlayText(&area.LocalizedName, overlay.localizedName)
	overlayText(&area.Tagline, overlay.tagline)
	overlayText(&area.LocalizedTagline, overlay.localizedTagline)
	overlayText(&area.AdministrativeZone, overlay.administrativeZone)
	overlayText(&area.District, overlay.district)
	overlayText(&area.State, overlay.state)
	overlayText(&area.PostalCode, overlay.postalCode)
	overlayText(&area.WardNumber, overlay.wardNumber)

	config.Branding.AppName = appNamePrefix + area.Name
	config.Branding.AppNameShort = area.Name
	config.SMSConfig.TemplatePrefix = templatePrefix(config.Branding.AppName)
}

// applyBranding sets the palette. Light and dark variants are derived from the
// primary color unless given explicitly.
func applyBranding(config *model.AreaConfig, primary string, primaryLight string, primaryDark string, accent string) {
	branding := &config.Branding
	primary = strings.TrimSpace(primary)
	if primary != "" {
		branding.PrimaryColor = primary
		branding.PrimaryColorLight = lighten(primary)
		branding.PrimaryColorDark = darken(primary)
	}
	overlayText(&branding.PrimaryColorLight, primaryLight)
	overlayText(&branding.PrimaryColorDark, primaryDark)
	overlayText(&branding.AccentColor, accent)
}

func applyDistribution(config *model.AreaConfig, areaID string, domain string, packageName string, senderName string) {
	config.URLs.Domain = firstNonEmpty(domain, DefaultDomain(areaID))
	config.Distribution.PackageName = firstNonEmpty(packageName, DefaultPackageName(areaID))
	config.Distribution.AppID = config.Distribution.PackageName
	config.SMSConfig.SenderName = firstNonEmpty(senderName, DefaultSenderName(areaID))
}

func applyPrimaryStation(config *model.AreaConfig, station model.AQIStation) {
	if config.AQIConfig.Stations == nil {
		config.AQIConfig.Stations = make(map[string]model.AQIStation)
	}
	station.ID = strings.TrimSpace(station.ID)
	config.AQIConfig.Stations[model.StationRolePrimary] = station
	config.AQIConfig.PrimaryStationID = station.ID
}

// applyDumpYard keeps the feature flag and the dump yard block in step. A disabled
// dump yard drops the block entirely.
func applyDumpYard(config *model.AreaConfig, enabled bool, details *model.DumpYardConfig) {
	if config.FeatureFlags == nil {
		config.FeatureFlags = make(model.FeatureFlags)
	}
	config.FeatureFlags[model.FeatureDumpYard] = enabled
	if !enabled {
		config.DumpYardConfig = nil
		return
	}
	dumpYard := model.DumpYardConfig{}
	if details != nil {
		dumpYard = *details
	}
	dumpYard.Enabled = true
	config.DumpYardConfig = &dumpYard
}

func overlayText(target *string, value string) {
	trimmed := strings.TrimSpace(value)
	if trimmed != "" {
		*target = trimmed
	}
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed != "" {
			return trimmed
		}
	}
	return ""
}
