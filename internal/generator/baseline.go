package generator

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/MarkoPoloResearchLab/areaconfig/internal/model"
)

const (
	appNamePrefix       = "My "
	domainPrefix        = "my"
	domainSuffix        = ".in"
	packagePrefix       = "in.my"
	packageSuffix       = ".app"
	senderNamePrefix    = "MY"
	lightenFactor       = 0.35
	darkenFactor        = 0.25
	templatePrefixShape = "[%s]"
)

// baseline is the template every generated tenant starts from. Callers only ever
// see deep copies of it.
var baseline = model.AreaConfig{
	Area: model.AreaIdentity{
		District: "Medchal-Malkajgiri",
		State:    "Telangana",
	},
	Branding: model.Branding{
		PrimaryColor:      "#0F766E",
		PrimaryColorLight: "#14B8A6",
		PrimaryColorDark:  "#115E59",
		AccentColor:       "#F59E0B",
		BackgroundColor:   "#F8FAFC",
		LogoURL:           "/logo.png",
		LogoSmallURL:      "/logo-small.png",
		FaviconURL:        "/favicon.ico",
	},
	Company: model.Company{
		Name:          "Civic Connect Technologies",
		LocalizedName: "సివిక్ కనెక్ట్ టెక్నాలజీస్",
		Email:         "support@civicconnect.in",
		Phone:         "+91 40 2712 0000",
		Website:       "https://civicconnect.in",
		Address:       "Kapra, Hyderabad, Telangana 500062",
	},
	URLs: model.URLs{
		PrivacyPolicyPath: "/privacy-policy",
		TermsPath:         "/terms",
		DeleteAccountPath: "/delete-account",
	},
	Distribution: model.Distribution{
		DeveloperName: "Civic Connect Technologies",
		StoreCategory: "SOCIAL",
	},
	FeatureFlags: model.FeatureFlags{
		model.FeatureNews:            true,
		model.FeatureFitness:         true,
		model.FeatureAstrology:       true,
		model.FeatureIssues:          true,
		model.FeatureAQI:             true,
		model.FeatureDumpYard:        false,
		model.FeaturePolls:           true,
		model.FeatureWardExpenditure: true,
		model.FeatureChat:            true,
		model.FeatureVolunteers:      true,
		model.FeatureEducation:       true,
		model.FeatureShop:            true,
		model.FeatureWall:            true,
		model.FeatureStories:         true,
		model.FeatureBenefits:        true,
		model.FeatureFamily:          true,
		model.FeatureDoctor:          true,
	},
	AQIConfig: model.AQIConfig{
		SecondaryStationID: "ecil-kapra",
		Stations: map[string]model.AQIStation{
			model.StationRoleSecondary: {
				ID:            "ecil-kapra",
				Name:          "ECIL Kapra",
				LocalizedName: "ఈసీఐఎల్ కాప్రా",
				Lat:           17.4700,
				Lon:           78.5700,
			},
		},
	},
	NewsConfig: model.NewsConfig{
		DefaultCategory:  "local",
		DefaultSourceIDs: []string{"eenadu", "sakshi", "the-hindu-hyderabad"},
		EnableVideoNews:  true,
	},
	Stats: model.Stats{
		BenefitsAmountLabel:               "₹0",
		BenefitsDescriptionLabel:          "Benefits delivered to residents",
		BenefitsDescriptionLabelLocalized: "నివాసితులకు అందిన ప్రయోజనాలు",
		ProblemsSolvedLabel:               "Problems solved",
		ProblemsSolvedLabelLocalized:      "పరిష్కరించిన సమస్యలు",
		PeopleBenefitedLabel:              "People benefited",
		PeopleBenefitedLabelLocalized:     "లబ్ధి పొందిన ప్రజలు",
	},
	SocialLinks: map[string]string{
		"facebook":  "",
		"instagram": "",
		"twitter":   "",
		"youtube":   "",
	},
}

// Baseline returns a fresh deep copy of the default tenant template.
func Baseline() model.AreaConfig {
	return model.Clone(baseline)
}

// DefaultDomain derives the conventional tenant domain from an area id.
func DefaultDomain(areaID string) string {
	return domainPrefix + compactIdentifier(areaID) + domainSuffix
}

// DefaultPackageName derives the conventional store package name from an area id.
func DefaultPackageName(areaID string) string {
	return packagePrefix + compactIdentifier(areaID) + packageSuffix
}

// DefaultSenderName derives a six-character DLT sender id from an area id.
func DefaultSenderName(areaID string) string {
	compact := strings.ToUpper(compactIdentifier(areaID))
	limit := model.SenderNameMaxLength - len(senderNamePrefix)
	if len(compact) > limit {
		compact = compact[:limit]
	}
	return senderNamePrefix + compact
}

// DefaultAreaName turns an area slug into a display name.
func DefaultAreaName(areaID string) string {
	words := strings.FieldsFunc(areaID, func(character rune) bool {
		return character == '-' || character == '_'
	})
	for index, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		words[index] = string(runes)
	}
	return strings.Join(words, " ")
}

func templatePrefix(appName string) string {
	return fmt.Sprintf(templatePrefixShape, appName)
}

func compactIdentifier(areaID string) string {
	var builder strings.Builder
	for _, character := range strings.ToLower(areaID) {
		if (character >= 'a' && character <= 'z') || (character >= '0' && character <= '9') {
			builder.WriteRune(character)
		}
	}
	return builder.String()
}
