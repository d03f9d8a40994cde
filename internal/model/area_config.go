package model

// AreaConfig is the full branding and feature configuration of one tenant deployment.
// It is generated offline and is immutable for the lifetime of a running process.
type AreaConfig struct {
	Area           AreaIdentity      `json:"area" yaml:"area"`
	Branding       Branding          `json:"branding" yaml:"branding"`
	Company        Company           `json:"company" yaml:"company"`
	URLs           URLs              `json:"urls" yaml:"urls"`
	Distribution   Distribution      `json:"distribution" yaml:"distribution"`
	FeatureFlags   FeatureFlags      `json:"featureFlags" yaml:"featureFlags"`
	DumpYardConfig *DumpYardConfig   `json:"dumpYardConfig,omitempty" yaml:"dumpYardConfig,omitempty"`
	AQIConfig      AQIConfig         `json:"aqiConfig" yaml:"aqiConfig"`
	NewsConfig     NewsConfig        `json:"newsConfig" yaml:"newsConfig"`
	Stats          Stats             `json:"stats" yaml:"stats"`
	SMSConfig      SMSConfig         `json:"smsConfig" yaml:"smsConfig"`
	SocialLinks    map[string]string `json:"socialLinks" yaml:"socialLinks"`
}

type AreaIdentity struct {
	ID                 string          `json:"id" yaml:"id"`
	Name               string          `json:"name" yaml:"name"`
	LocalizedName      string          `json:"localizedName" yaml:"localizedName"`
	Tagline            string          `json:"tagline" yaml:"tagline"`
	LocalizedTagline   string          `json:"localizedTagline" yaml:"localizedTagline"`
	AdministrativeZone string          `json:"administrativeZone" yaml:"administrativeZone"`
	District           string          `json:"district" yaml:"district"`
	State              string          `json:"state" yaml:"state"`
	PostalCode         string          `json:"postalCode" yaml:"postalCode"`
	WardNumber         string          `json:"wardNumber" yaml:"wardNumber"`
	Representatives    Representatives `json:"representatives" yaml:"representatives"`
}

type Representatives struct {
	MLA        string `json:"mla" yaml:"mla"`
	Corporator string `json:"corporator" yaml:"corporator"`
	MP         string `json:"mp" yaml:"mp"`
}

type Branding struct {
	AppName           string `json:"appName" yaml:"appName"`
	AppNameShort      string `json:"appNameShort" yaml:"appNameShort"`
	PrimaryColor      string `json:"primaryColor" yaml:"primaryColor"`
	PrimaryColorLight string `json:"primaryColorLight" yaml:"primaryColorLight"`
	PrimaryColorDark  string `json:"primaryColorDark" yaml:"primaryColorDark"`
	AccentColor       string `json:"accentColor" yaml:"accentColor"`
	BackgroundColor   string `json:"backgroundColor" yaml:"backgroundColor"`
	LogoURL           string `json:"logoUrl" yaml:"logoUrl"`
	LogoSmallURL      string `json:"logoSmallUrl" yaml:"logoSmallUrl"`
	FaviconURL        string `json:"faviconUrl" yaml:"faviconUrl"`
	PartnerLogoURL    string `json:"partnerLogoUrl" yaml:"partnerLogoUrl"`
	PartnerName       string `json:"partnerName" yaml:"partnerName"`
}

type Company struct {
	Name          string `json:"name" yaml:"name"`
	LocalizedName string `json:"localizedName" yaml:"localizedName"`
	Email         string `json:"email" yaml:"email"`
	Phone         string `json:"phone" yaml:"phone"`
	Website       string `json:"website" yaml:"website"`
	Address       string `json:"address" yaml:"address"`
}

type URLs struct {
	Domain            string `json:"domain" yaml:"domain"`
	AppStoreURL       string `json:"appStoreUrl" yaml:"appStoreUrl"`
	PrivacyPolicyPath string `json:"privacyPolicyPath" yaml:"privacyPolicyPath"`
	TermsPath         string `json:"termsPath" yaml:"termsPath"`
	DeleteAccountPath string `json:"deleteAccountPath" yaml:"deleteAccountPath"`
}

type Distribution struct {
	PackageName   string `json:"packageName" yaml:"packageName"`
	AppID         string `json:"appId" yaml:"appId"`
	DeveloperName string `json:"developerName" yaml:"developerName"`
	StoreCategory string `json:"storeCategory" yaml:"storeCategory"`
}

// DumpYardConfig describes the landfill monitored by the dumpYard module.
type DumpYardConfig struct {
	Enabled         bool    `json:"enabled" yaml:"enabled"`
	Name            string  `json:"name" yaml:"name"`
	LocalizedName   string  `json:"localizedName" yaml:"localizedName"`
	DailyWasteTons  float64 `json:"dailyWasteTons" yaml:"dailyWasteTons"`
	AreaAcres       float64 `json:"areaAcres" yaml:"areaAcres"`
	RedZoneRadiusKm float64 `json:"redZoneRadiusKm" yaml:"redZoneRadiusKm"`
}

const (
	StationRolePrimary   = "primary"
	StationRoleSecondary = "secondary"
)

type AQIConfig struct {
	PrimaryStationID   string                `json:"primaryStationId" yaml:"primaryStationId"`
	SecondaryStationID string                `json:"secondaryStationId" yaml:"secondaryStationId"`
	Stations           map[string]AQIStation `json:"stations" yaml:"stations"`
}

type AQIStation struct {
	ID            string  `json:"id" yaml:"id"`
	Name          string  `json:"name" yaml:"name"`
	LocalizedName string  `json:"localizedName" yaml:"localizedName"`
	Lat           float64 `json:"lat" yaml:"lat"`
	Lon           float64 `json:"lon" yaml:"lon"`
}

type NewsConfig struct {
	DefaultCategory  string   `json:"defaultCategory" yaml:"defaultCategory"`
	DefaultSourceIDs []string `json:"defaultSourceIds" yaml:"defaultSourceIds"`
	EnableVideoNews  bool     `json:"enableVideoNews" yaml:"enableVideoNews"`
}

// Stats holds the headline counters shown on the home screen. Localized variants
// are optional and fall back to the English label.
type Stats struct {
	BenefitsAmountLabel               string `json:"benefitsAmountLabel" yaml:"benefitsAmountLabel"`
	BenefitsDescriptionLabel          string `json:"benefitsDescriptionLabel" yaml:"benefitsDescriptionLabel"`
	BenefitsDescriptionLabelLocalized string `json:"benefitsDescriptionLabelLocalized" yaml:"benefitsDescriptionLabelLocalized"`
	ProblemsSolvedLabel               string `json:"problemsSolvedLabel" yaml:"problemsSolvedLabel"`
	ProblemsSolvedLabelLocalized      string `json:"problemsSolvedLabelLocalized" yaml:"problemsSolvedLabelLocalized"`
	PeopleBenefitedLabel              string `json:"peopleBenefitedLabel" yaml:"peopleBenefitedLabel"`
	PeopleBenefitedLabelLocalized     string `json:"peopleBenefitedLabelLocalized" yaml:"peopleBenefitedLabelLocalized"`
}

// SMSConfig carries the DLT sender identity used for OTP and alert messages.
type SMSConfig struct {
	SenderName     string `json:"senderName" yaml:"senderName"`
	TemplatePrefix string `json:"templatePrefix" yaml:"templatePrefix"`
}

// PrimaryStation returns the station bound to the primary role.
func (config AreaConfig) PrimaryStation() (AQIStation, bool) {
	station, found := config.AQIConfig.Stations[StationRolePrimary]
	return station, found
}

// Clone returns a deep copy that shares no maps, slices or pointers with the input.
func Clone(config AreaConfig) AreaConfig {
	cloned := config

	if config.FeatureFlags != nil {
		cloned.FeatureFlags = make(FeatureFlags, len(config.FeatureFlags))
		for feature, enabled := range config.FeatureFlags {
			cloned.FeatureFlags[feature] = enabled
		}
	}

	if config.DumpYardConfig != nil {
		dumpYard := *config.DumpYardConfig
		cloned.DumpYardConfig = &dumpYard
	}

	if config.AQIConfig.Stations != nil {
		cloned.AQIConfig.Stations = make(map[string]AQIStation, len(config.AQIConfig.Stations))
		for role, station := range config.AQIConfig.Stations {
			cloned.AQIConfig.Stations[role] = station
		}
	}

	if config.NewsConfig.DefaultSourceIDs != nil {
		cloned.NewsConfig.DefaultSourceIDs = append([]string(nil), config.NewsConfig.DefaultSourceIDs...)
	}

	if config.SocialLinks != nil {
		cloned.SocialLinks = make(map[string]string, len(config.SocialLinks))
		for platform, link := range config.SocialLinks {
			cloned.SocialLinks[platform] = link
		}
	}

	return cloned
}
