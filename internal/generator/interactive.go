package generator

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/MarkoPoloResearchLab/areaconfig/internal/model"
)

const (
	messageNotANumber     = "must be a number"
	messageUnknownFeature = "is not a known feature"
)

// Answers are the free-form values an operator supplies for a brand new area.
// Numeric answers stay raw so parse failures are reported with everything else.
type Answers struct {
	AreaID                  string
	Name                    string
	LocalizedName           string
	Tagline                 string
	LocalizedTagline        string
	AdministrativeZone      string
	District                string
	State                   string
	PostalCode              string
	WardNumber              string
	PrimaryColor            string
	AccentColor             string
	Domain                  string
	PackageName             string
	SenderName              string
	Latitude                string
	Longitude               string
	DumpYardEnabled         bool
	DumpYardName            string
	DumpYardDailyWasteTons  string
	DumpYardAreaAcres       string
	DumpYardRedZoneRadiusKm string
	DisabledFeatures        []string
}

// GenerateInteractive builds a config from operator answers and validates it. Parse
// failures and contract violations come back together in one model.ValidationErrors.
func (generator *Generator) GenerateInteractive(answers Answers) (model.AreaConfig, error) {
	var violations model.ValidationErrors

	config := Baseline()
	applyIdentity(&config, identityOverlay{
		areaID:             answers.AreaID,
		name:               firstNonEmpty(answers.Name, DefaultAreaName(answers.AreaID)),
		localizedName:      answers.LocalizedName,
		tagline:            answers.Tagline,
		localizedTagline:   answers.LocalizedTagline,
		administrativeZone: answers.AdministrativeZone,
		district:           answers.District,
		state:              answers.State,
		postalCode:         answers.PostalCode,
		wardNumber:         answers.WardNumber,
	})
	applyBranding(&config, answers.PrimaryColor, "", "", answers.AccentColor)
	applyDistribution(&config, config.Area.ID, answers.Domain, answers.PackageName, answers.SenderName)

	applyPrimaryStation(&config, model.AQIStation{
		ID:            config.Area.ID,
		Name:          config.Area.Name,
		LocalizedName: config.Area.LocalizedName,
		Lat:           parseNumber("aqiConfig.stations.primary.lat", answers.Latitude, &violations),
		Lon:           parseNumber("aqiConfig.stations.primary.lon", answers.Longitude, &violations),
	})

	var dumpYard *model.DumpYardConfig
	if answers.DumpYardEnabled {
		dumpYard = &model.DumpYardConfig{
			Name:            strings.TrimSpace(answers.DumpYardName),
			DailyWasteTons:  parseNumber("dumpYardConfig.dailyWasteTons", answers.DumpYardDailyWasteTons, &violations),
			AreaAcres:       parseNumber("dumpYardConfig.areaAcres", answers.DumpYardAreaAcres, &violations),
			RedZoneRadiusKm: parseNumber("dumpYardConfig.redZoneRadiusKm", answers.DumpYardRedZoneRadiusKm, &violations),
		}
	}
	applyDumpYard(&config, answers.DumpYardEnabled, dumpYard)

	for _, rawFeature := range answers.DisabledFeatures {
		feature := model.Feature(strings.TrimSpace(rawFeature))
		if feature == "" {
			continue
		}
		if !model.IsKnownFeature(feature) {
			violations.Add("featureFlags."+string(feature), messageUnknownFeature)
			continue
		}
		if feature == model.FeatureDumpYard {
			applyDumpYard(&config, false, nil)
			continue
		}
		config.FeatureFlags[feature] = false
	}

	validated, validationErr := model.Validate(config)
	if validationErr != nil {
		var contractViolations model.ValidationErrors
		if !errors.As(validationErr, &contractViolations) {
			return model.AreaConfig{}, validationErr
		}
		violations = append(violations, contractViolations...)
	}
	if err := violations.Err(); err != nil {
		return model.AreaConfig{}, err
	}
	return validated, nil
}

func parseNumber(field string, raw string, violations *model.ValidationErrors) float64 {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		violations.Add(field, "is required")
		return 0
	}
	value, parseErr := strconv.ParseFloat(trimmed, 64)
	if parseErr != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		violations.Add(field, messageNotANumber)
		return 0
	}
	return value
}

// Questionnaire walks an operator through the answers for a new area, one line per
// question. A blank line or end of input accepts the bracketed default.
type Questionnaire struct {
	reader *bufio.Reader
	writer io.Writer
}

func NewQuestionnaire(reader io.Reader, writer io.Writer) *Questionnaire {
	return &Questionnaire{reader: bufio.NewReader(reader), writer: writer}
}

// Collect asks every question for the given area id.
func (questionnaire *Questionnaire) Collect(areaID string) (Answers, error) {
	answers := Answers{AreaID: strings.TrimSpace(areaID)}
	defaultName := DefaultAreaName(answers.AreaID)

	textQuestions := []struct {
		prompt       string
		defaultValue string
		target       *string
	}{
		{prompt: "Area name", defaultValue: defaultName, target: &answers.Name},
		{prompt: "Area name in Telugu", target: &answers.LocalizedName},
		{prompt: "Tagline", target: &answers.Tagline},
		{prompt: "Tagline in Telugu", target: &answers.LocalizedTagline},
		{prompt: "Administrative zone", target: &answers.AdministrativeZone},
		{prompt: "District", defaultValue: baseline.Area.District, target: &answers.District},
		{prompt: "State", defaultValue: baseline.Area.State, target: &answers.State},
		{prompt: "Postal code", target: &answers.PostalCode},
		{prompt: "Ward number", target: &answers.WardNumber},
		{prompt: "Primary color", defaultValue: baseline.Branding.PrimaryColor, target: &answers.PrimaryColor},
		{prompt: "Accent color", defaultValue: baseline.Branding.AccentColor, target: &answers.AccentColor},
		{prompt: "Domain", defaultValue: DefaultDomain(answers.AreaID), target: &answers.Domain},
		{prompt: "Store package name", defaultValue: DefaultPackageName(answers.AreaID), target: &answers.PackageName},
		{prompt: "SMS sender id", defaultValue: DefaultSenderName(answers.AreaID), target: &answers.SenderName},
		{prompt: "AQI station latitude", target: &answers.Latitude},
		{prompt: "AQI station longitude", target: &answers.Longitude},
	}
	for _, question := range textQuestions {
		answer, askErr := questionnaire.ask(question.prompt, question.defaultValue)
		if askErr != nil {
			return Answers{}, askErr
		}
		*question.target = answer
	}

	dumpYardAnswer, askErr := questionnaire.ask("Monitor a dump yard? (y/n)", "n")
	if askErr != nil {
		return Answers{}, askErr
	}
	answers.DumpYardEnabled = isAffirmative(dumpYardAnswer)
	if answers.DumpYardEnabled {
		dumpYardQuestions := []struct {
			prompt string
			target *string
		}{
			{prompt: "Dump yard name", target: &answers.DumpYardName},
			{prompt: "Daily waste (tons)", target: &answers.DumpYardDailyWasteTons},
			{prompt: "Dump yard area (acres)", target: &answers.DumpYardAreaAcres},
			{prompt: "Red zone radius (km)", target: &answers.DumpYardRedZoneRadiusKm},
		}
		for _, question := range dumpYardQuestions {
			answer, dumpYardErr := questionnaire.ask(question.prompt, "")
			if dumpYardErr != nil {
				return Answers{}, dumpYardErr
			}
			*question.target = answer
		}
	}

	disabled, disabledErr := questionnaire.ask("Features to disable (comma-separated)", "")
	if disabledErr != nil {
		return Answers{}, disabledErr
	}
	for _, feature := range strings.Split(disabled, ",") {
		if trimmed := strings.TrimSpace(feature); trimmed != "" {
			answers.DisabledFeatures = append(answers.DisabledFeatures, trimmed)
		}
	}

	return answers, nil
}

func (questionnaire *Questionnaire) ask(prompt string, defaultValue string) (string, error) {
	if defaultValue != "" {
		_, _ = fmt.Fprintf(questionnaire.writer, "%s [%s]: ", prompt, defaultValue)
	} else {
		_, _ = fmt.Fprintf(questionnaire.writer, "%s: ", prompt)
	}

	line, readErr := questionnaire.reader.ReadString('\n')
	if readErr != nil && !errors.Is(readErr, io.EOF) {
		return "", fmt.Errorf("read answer for %q: %w", prompt, readErr)
	}
	answer := strings.TrimSpace(line)
	if answer == "" {
		return defaultValue, nil
	}
	return answer, nil
}

func isAffirmative(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
