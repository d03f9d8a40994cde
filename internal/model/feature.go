package model

// Feature names an app module that a tenant can switch on or off.
type Feature string

const (
	FeatureNews            Feature = "news"
	FeatureFitness         Feature = "fitness"
	FeatureAstrology       Feature = "astrology"
	FeatureIssues          Feature = "issues"
	FeatureAQI             Feature = "aqi"
	FeatureDumpYard        Feature = "dumpYard"
	FeaturePolls           Feature = "polls"
	FeatureWardExpenditure Feature = "wardExpenditure"
	FeatureChat            Feature = "chat"
	FeatureVolunteers      Feature = "volunteers"
	FeatureEducation       Feature = "education"
	FeatureShop            Feature = "shop"
	FeatureWall            Feature = "wall"
	FeatureStories         Feature = "stories"
	FeatureBenefits        Feature = "benefits"
	FeatureFamily          Feature = "family"
	FeatureDoctor          Feature = "doctor"
)

// FeatureFlags maps every known feature to its toggle.
type FeatureFlags map[Feature]bool

// ModuleDescriptor describes how an enabled feature surfaces in the app.
type ModuleDescriptor struct {
	Feature        Feature
	Path           string
	Title          string
	LocalizedTitle string
}

// moduleCatalog is ordered the way the home screen lists modules.
var moduleCatalog = []ModuleDescriptor{
	{Feature: FeatureIssues, Path: "/issues", Title: "Report Issues", LocalizedTitle: "సమస్యలు నివేదించండి"},
	{Feature: FeatureAQI, Path: "/aqi", Title: "Air Quality", LocalizedTitle: "గాలి నాణ్యత"},
	{Feature: FeatureDumpYard, Path: "/dumpyard", Title: "Dump Yard", LocalizedTitle: "డంప్ యార్డ్"},
	{Feature: FeatureNews, Path: "/news", Title: "Local News", LocalizedTitle: "స్థానిక వార్తలు"},
	{Feature: FeatureBenefits, Path: "/benefits", Title: "Benefits", LocalizedTitle: "ప్రయోజనాలు"},
	{Feature: FeatureFitness, Path: "/fitness", Title: "Fitness", LocalizedTitle: "ఫిట్‌నెస్"},
	{Feature: FeatureDoctor, Path: "/doctor", Title: "Doctor", LocalizedTitle: "డాక్టర్"},
	{Feature: FeatureFamily, Path: "/family", Title: "Family", LocalizedTitle: "కుటుంబం"},
	{Feature: FeatureChat, Path: "/chat", Title: "Assistant", LocalizedTitle: "సహాయకుడు"},
	{Feature: FeaturePolls, Path: "/polls", Title: "Polls", LocalizedTitle: "పోల్స్"},
	{Feature: FeatureWardExpenditure, Path: "/expenditure", Title: "Ward Expenditure", LocalizedTitle: "వార్డు ఖర్చులు"},
	{Feature: FeatureVolunteers, Path: "/volunteers", Title: "Volunteers", LocalizedTitle: "వాలంటీర్లు"},
	{Feature: FeatureEducation, Path: "/education", Title: "Education", LocalizedTitle: "విద్య"},
	{Feature: FeatureShop, Path: "/shop", Title: "Shop", LocalizedTitle: "షాప్"},
	{Feature: FeatureWall, Path: "/wall", Title: "Citizen Wall", LocalizedTitle: "పౌర గోడ"},
	{Feature: FeatureStories, Path: "/stories", Title: "Stories", LocalizedTitle: "కథలు"},
	{Feature: FeatureAstrology, Path: "/astrology", Title: "Astrology", LocalizedTitle: "జ్యోతిష్యం"},
}

// Features returns every known feature in catalog order.
func Features() []Feature {
	features := make([]Feature, 0, len(moduleCatalog))
	for _, descriptor := range moduleCatalog {
		features = append(features, descriptor.Feature)
	}
	return features
}

// IsKnownFeature reports whether the name belongs to the closed feature set.
func IsKnownFeature(feature Feature) bool {
	_, found := LookupModule(feature)
	return found
}

// LookupModule returns the catalog entry for a feature.
func LookupModule(feature Feature) (ModuleDescriptor, bool) {
	for _, descriptor := range moduleCatalog {
		if descriptor.Feature == feature {
			return descriptor, true
		}
	}
	return ModuleDescriptor{}, false
}

// CapabilitySet is the resolved set of enabled features for one tenant. It is built
// once from the feature flags and consulted by the routing layer.
type CapabilitySet struct {
	enabled map[Feature]struct{}
}

func NewCapabilitySet(flags FeatureFlags) CapabilitySet {
	enabled := make(map[Feature]struct{}, len(flags))
	for feature, on := range flags {
		if on && IsKnownFeature(feature) {
			enabled[feature] = struct{}{}
		}
	}
	return CapabilitySet{enabled: enabled}
}

func (capabilities CapabilitySet) Has(feature Feature) bool {
	_, found := capabilities.enabled[feature]
	return found
}

// Modules lists the enabled modules in catalog order.
func (capabilities CapabilitySet) Modules() []ModuleDescriptor {
	modules := make([]ModuleDescriptor, 0, len(capabilities.enabled))
	for _, descriptor := range moduleCatalog {
		if capabilities.Has(descriptor.Feature) {
			modules = append(modules, descriptor)
		}
	}
	return modules
}
