package provider

import (
	"strings"

	"golang.org/x/text/language"

	"github.com/MarkoPoloResearchLab/areaconfig/internal/model"
)

const (
	LanguageEnglish = "en"
	LanguageTelugu  = "te"
)

var supportedLanguages = []language.Tag{language.English, language.Telugu}

var languageMatcher = language.NewMatcher(supportedLanguages)

// LocalizedModule is a module descriptor with its title resolved for one language.
type LocalizedModule struct {
	Feature model.Feature `json:"feature"`
	Path    string        `json:"path"`
	Title   string        `json:"title"`
}

// LocalizedStats carries the home screen counters in one language.
type LocalizedStats struct {
	BenefitsAmount      string `json:"benefitsAmount"`
	BenefitsDescription string `json:"benefitsDescription"`
	ProblemsSolved      string `json:"problemsSolved"`
	PeopleBenefited     string `json:"peopleBenefited"`
}

// LocalizedView is the display text of a tenant in a single language.
type LocalizedView struct {
	Language     string            `json:"language"`
	AreaName     string            `json:"areaName"`
	Tagline      string            `json:"tagline"`
	AppName      string            `json:"appName"`
	CompanyName  string            `json:"companyName"`
	DumpYardName string            `json:"dumpYardName,omitempty"`
	Stats        LocalizedStats    `json:"stats"`
	Modules      []LocalizedModule `json:"modules"`
}

// ResolveLanguage maps any BCP 47 code or Accept-Language header onto a supported
// language. Unrecognized input resolves to English.
func ResolveLanguage(requested string) string {
	trimmed := strings.TrimSpace(requested)
	if trimmed == "" {
		return LanguageEnglish
	}
	tags, _, parseErr := language.ParseAcceptLanguage(trimmed)
	if parseErr != nil || len(tags) == 0 {
		return LanguageEnglish
	}
	_, index, confidence := languageMatcher.Match(tags...)
	if confidence == language.No {
		return LanguageEnglish
	}
	base, _ := supportedLanguages[index].Base()
	return base.String()
}

// Localized renders the tenant text in the requested language. Telugu fields that
// are empty fall back to English one by one.
func (provider *Provider) Localized(requested string) LocalizedView {
	languageCode := ResolveLanguage(requested)
	telugu := languageCode == LanguageTelugu
	config := provider.config

	pick := func(english string, localized string) string {
		if telugu && strings.TrimSpace(localized) != "" {
			return localized
		}
		return english
	}

	view := LocalizedView{
		Language:    languageCode,
		AreaName:    pick(config.Area.Name, config.Area.LocalizedName),
		Tagline:     pick(config.Area.Tagline, config.Area.LocalizedTagline),
		AppName:     config.Branding.AppName,
		CompanyName: pick(config.Company.Name, config.Company.LocalizedName),
		Stats: LocalizedStats{
			BenefitsAmount:      config.Stats.BenefitsAmountLabel,
			BenefitsDescription: pick(config.Stats.BenefitsDescriptionLabel, config.Stats.BenefitsDescriptionLabelLocalized),
			ProblemsSolved:      pick(config.Stats.ProblemsSolvedLabel, config.Stats.ProblemsSolvedLabelLocalized),
			PeopleBenefited:     pick(config.Stats.PeopleBenefitedLabel, config.Stats.PeopleBenefitedLabelLocalized),
		},
	}
	if config.DumpYardConfig != nil && provider.Enabled(model.FeatureDumpYard) {
		view.DumpYardName = pick(config.DumpYardConfig.Name, config.DumpYardConfig.LocalizedName)
	}

	modules := provider.capabilities.Modules()
	view.Modules = make([]LocalizedModule, 0, len(modules))
	for _, descriptor := range modules {
		view.Modules = append(view.Modules, LocalizedModule{
			Feature: descriptor.Feature,
			Path:    descriptor.Path,
			Title:   pick(descriptor.Title, descriptor.LocalizedTitle),
		})
	}
	return view
}
