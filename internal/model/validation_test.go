package model

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const (
	testAreaID         = "dammaiguda"
	testAreaName       = "Dammaiguda"
	testPrimaryColor   = "#0F766E"
	testDomain         = "mydammaiguda.in"
	testPackageName    = "in.mydammaiguda.app"
	testSenderName     = "MYDMGD"
	testCompanyEmail   = "support@sharmaco.in"
	testStationLat     = 17.4720
	testStationLon     = 78.5730
	testSecondaryID    = "ecil"
	testInstagramURL   = "https://instagram.com/mydammaiguda"
	testWebsiteURL     = "https://sharmaco.in"
	testInvalidPackage = "MyDammaiguda"
)

func validTestConfig() AreaConfig {
	return AreaConfig{
		Area: AreaIdentity{
			ID:       testAreaID,
			Name:     testAreaName,
			District: "Medchal-Malkajgiri",
			State:    "Telangana",
		},
		Branding: Branding{
			AppName:           "My " + testAreaName,
			AppNameShort:      testAreaName,
			PrimaryColor:      testPrimaryColor,
			PrimaryColorLight: "#14B8A6",
			PrimaryColorDark:  "#115E59",
			AccentColor:       "#F59E0B",
			BackgroundColor:   "#F8FAFC",
		},
		Company: Company{
			Name:    "Sharma Civic Tech",
			Email:   testCompanyEmail,
			Website: testWebsiteURL,
		},
		URLs: URLs{
			Domain:            testDomain,
			PrivacyPolicyPath: "/privacy",
		},
		Distribution: Distribution{PackageName: testPackageName},
		FeatureFlags: FeatureFlags{
			FeatureNews:     true,
			FeatureAQI:      true,
			FeatureDumpYard: true,
		},
		DumpYardConfig: &DumpYardConfig{
			Enabled:         true,
			Name:            "Jawaharnagar Dump Yard",
			DailyWasteTons:  6500,
			AreaAcres:       351,
			RedZoneRadiusKm: 2,
		},
		AQIConfig: AQIConfig{
			PrimaryStationID:   testAreaID,
			SecondaryStationID: testSecondaryID,
			Stations: map[string]AQIStation{
				StationRolePrimary:   {ID: testAreaID, Name: testAreaName, Lat: testStationLat, Lon: testStationLon},
				StationRoleSecondary: {ID: testSecondaryID, Name: "ECIL", Lat: 17.4700, Lon: 78.5700},
			},
		},
		NewsConfig:  NewsConfig{DefaultSourceIDs: []string{"eenadu", "sakshi"}},
		SMSConfig:   SMSConfig{SenderName: testSenderName},
		SocialLinks: map[string]string{"instagram": testInstagramURL, "youtube": ""},
	}
}

func requireViolations(testingT *testing.T, err error) ValidationErrors {
	testingT.Helper()
	require.Error(testingT, err)
	require.True(testingT, errors.Is(err, ErrInvalidAreaConfig))
	var violations ValidationErrors
	require.True(testingT, errors.As(err, &violations))
	return violations
}

func TestValidateAcceptsValidConfig(testingT *testing.T) {
	config := validTestConfig()

	validated, err := Validate(config)
	require.NoError(testingT, err)
	if diff := cmp.Diff(config, validated); diff != "" {
		testingT.Fatalf("validated config differs (-want +got):\n%s", diff)
	}
}

func TestValidateIsIdempotent(testingT *testing.T) {
	first, firstErr := Validate(validTestConfig())
	require.NoError(testingT, firstErr)

	second, secondErr := Validate(first)
	require.NoError(testingT, secondErr)
	require.Empty(testingT, cmp.Diff(first, second))
}

func TestValidateReportsEveryViolationAtOnce(testingT *testing.T) {
	config := validTestConfig()
	config.Area.Name = " "
	config.Branding.PrimaryColor = "teal"
	config.URLs.Domain = "Not A Host"
	config.SMSConfig.SenderName = "MYDAMMAI"
	config.AQIConfig.Stations[StationRolePrimary] = AQIStation{ID: testAreaID, Lat: 95, Lon: -181}

	_, err := Validate(config)
	violations := requireViolations(testingT, err)

	require.Equal(testingT, []string{
		"area.name",
		"branding.primaryColor",
		"urls.domain",
		"aqiConfig.stations.primary.lat",
		"aqiConfig.stations.primary.lon",
		"smsConfig.senderName",
	}, violations.Fields())
}

func TestValidateSenderName(testingT *testing.T) {
	testCases := []struct {
		name          string
		senderName    string
		expectedValid bool
	}{
		{name: "six characters", senderName: "MYDMGD", expectedValid: true},
		{name: "short", senderName: "MYAS", expectedValid: true},
		{name: "seven characters", senderName: "MYDMGDX", expectedValid: false},
		{name: "punctuation", senderName: "MY-DM", expectedValid: false},
		{name: "empty", senderName: "", expectedValid: false},
	}

	for _, testCase := range testCases {
		testingT.Run(testCase.name, func(testingT *testing.T) {
			config := validTestConfig()
			config.SMSConfig.SenderName = testCase.senderName
			_, err := Validate(config)
			if testCase.expectedValid {
				require.NoError(testingT, err)
				return
			}
			violations := requireViolations(testingT, err)
			require.Contains(testingT, violations.Fields(), "smsConfig.senderName")
		})
	}
}

func TestValidateDumpYardConsistency(testingT *testing.T) {
	testCases := []struct {
		name           string
		flag           bool
		dumpYard       *DumpYardConfig
		expectedFields []string
	}{
		{
			name:           "flag on without config",
			flag:           true,
			dumpYard:       nil,
			expectedFields: []string{"dumpYardConfig"},
		},
		{
			name:           "flag on with disabled config",
			flag:           true,
			dumpYard:       &DumpYardConfig{Enabled: false, Name: "Yard", DailyWasteTons: 1, AreaAcres: 1, RedZoneRadiusKm: 1},
			expectedFields: []string{"dumpYardConfig"},
		},
		{
			name:           "flag on with partial config",
			flag:           true,
			dumpYard:       &DumpYardConfig{Enabled: true, Name: "Yard"},
			expectedFields: []string{"dumpYardConfig.dailyWasteTons", "dumpYardConfig.areaAcres", "dumpYardConfig.redZoneRadiusKm"},
		},
		{
			name:           "flag off with enabled config",
			flag:           false,
			dumpYard:       &DumpYardConfig{Enabled: true, Name: "Yard", DailyWasteTons: 1, AreaAcres: 1, RedZoneRadiusKm: 1},
			expectedFields: []string{"dumpYardConfig.enabled"},
		},
		{
			name:     "flag off without config",
			flag:     false,
			dumpYard: nil,
		},
	}

	for _, testCase := range testCases {
		testingT.Run(testCase.name, func(testingT *testing.T) {
			config := validTestConfig()
			config.FeatureFlags[FeatureDumpYard] = testCase.flag
			config.DumpYardConfig = testCase.dumpYard

			_, err := Validate(config)
			if len(testCase.expectedFields) == 0 {
				require.NoError(testingT, err)
				return
			}
			violations := requireViolations(testingT, err)
			require.Equal(testingT, testCase.expectedFields, violations.Fields())
		})
	}
}

func TestValidateRejectsNonFiniteNumbers(testingT *testing.T) {
	testCases := []struct {
		name          string
		mutate        func(config *AreaConfig)
		expectedField string
	}{
		{
			name: "NaN latitude",
			mutate: func(config *AreaConfig) {
				station := config.AQIConfig.Stations[StationRolePrimary]
				station.Lat = math.NaN()
				config.AQIConfig.Stations[StationRolePrimary] = station
			},
			expectedField: "aqiConfig.stations.primary.lat",
		},
		{
			name: "positive infinite latitude",
			mutate: func(config *AreaConfig) {
				station := config.AQIConfig.Stations[StationRoleSecondary]
				station.Lat = math.Inf(1)
				config.AQIConfig.Stations[StationRoleSecondary] = station
			},
			expectedField: "aqiConfig.stations.secondary.lat",
		},
		{
			name: "NaN longitude",
			mutate: func(config *AreaConfig) {
				station := config.AQIConfig.Stations[StationRolePrimary]
				station.Lon = math.NaN()
				config.AQIConfig.Stations[StationRolePrimary] = station
			},
			expectedField: "aqiConfig.stations.primary.lon",
		},
		{
			name: "negative infinite longitude",
			mutate: func(config *AreaConfig) {
				station := config.AQIConfig.Stations[StationRolePrimary]
				station.Lon = math.Inf(-1)
				config.AQIConfig.Stations[StationRolePrimary] = station
			},
			expectedField: "aqiConfig.stations.primary.lon",
		},
		{
			name: "NaN daily waste",
			mutate: func(config *AreaConfig) {
				config.FeatureFlags[FeatureDumpYard] = true
				config.DumpYardConfig = &DumpYardConfig{Enabled: true, Name: "Yard", DailyWasteTons: math.NaN(), AreaAcres: 1, RedZoneRadiusKm: 1}
			},
			expectedField: "dumpYardConfig.dailyWasteTons",
		},
		{
			name: "infinite area",
			mutate: func(config *AreaConfig) {
				config.FeatureFlags[FeatureDumpYard] = true
				config.DumpYardConfig = &DumpYardConfig{Enabled: true, Name: "Yard", DailyWasteTons: 1, AreaAcres: math.Inf(1), RedZoneRadiusKm: 1}
			},
			expectedField: "dumpYardConfig.areaAcres",
		},
		{
			name: "negative infinite red zone",
			mutate: func(config *AreaConfig) {
				config.FeatureFlags[FeatureDumpYard] = true
				config.DumpYardConfig = &DumpYardConfig{Enabled: true, Name: "Yard", DailyWasteTons: 1, AreaAcres: 1, RedZoneRadiusKm: math.Inf(-1)}
			},
			expectedField: "dumpYardConfig.redZoneRadiusKm",
		},
	}

	for _, testCase := range testCases {
		testingT.Run(testCase.name, func(testingT *testing.T) {
			config := validTestConfig()
			testCase.mutate(&config)

			_, err := Validate(config)
			violations := requireViolations(testingT, err)
			require.Equal(testingT, []string{testCase.expectedField}, violations.Fields())
		})
	}
}

func TestValidateStationBindings(testingT *testing.T) {
	config := validTestConfig()
	delete(config.AQIConfig.Stations, StationRoleSecondary)
	config.AQIConfig.PrimaryStationID = "elsewhere"

	_, err := Validate(config)
	violations := requireViolations(testingT, err)
	require.Equal(testingT, []string{"aqiConfig.primaryStationId", "aqiConfig.stations.secondary"}, violations.Fields())
}

func TestValidateRejectsUnknownFeaturesAndBadURLs(testingT *testing.T) {
	config := validTestConfig()
	config.FeatureFlags["securityShield"] = true
	config.SocialLinks["facebook"] = "facebook.com/mydammaiguda"
	config.Distribution.PackageName = testInvalidPackage
	config.URLs.TermsPath = "terms"
	config.Company.Email = "not-an-email"

	_, err := Validate(config)
	violations := requireViolations(testingT, err)
	require.Equal(testingT, []string{
		"company.email",
		"urls.termsPath",
		"distribution.packageName",
		"featureFlags.securityShield",
		"socialLinks.facebook",
	}, violations.Fields())
	require.True(testingT, strings.Contains(err.Error(), "socialLinks.facebook must be an absolute http(s) URL"))
}

func TestCloneSharesNoMutableState(testingT *testing.T) {
	original := validTestConfig()
	cloned := Clone(original)

	cloned.FeatureFlags[FeatureNews] = false
	cloned.DumpYardConfig.Name = "Changed"
	cloned.AQIConfig.Stations[StationRolePrimary] = AQIStation{ID: "changed"}
	cloned.NewsConfig.DefaultSourceIDs[0] = "changed"
	cloned.SocialLinks["instagram"] = "changed"

	require.True(testingT, original.FeatureFlags[FeatureNews])
	require.Equal(testingT, "Jawaharnagar Dump Yard", original.DumpYardConfig.Name)
	require.Equal(testingT, testAreaID, original.AQIConfig.Stations[StationRolePrimary].ID)
	require.Equal(testingT, "eenadu", original.NewsConfig.DefaultSourceIDs[0])
	require.Equal(testingT, testInstagramURL, original.SocialLinks["instagram"])
}
