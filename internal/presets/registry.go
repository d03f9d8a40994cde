// Package presets holds the catalog of known tenant presets used to bootstrap new
// area configurations. The catalog is loaded once and never mutated.
package presets

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

var (
	ErrPresetNotFound  = errors.New("preset_not_found")
	ErrDuplicatePreset = errors.New("preset_duplicate_id")
	ErrInvalidPreset   = errors.New("preset_invalid")
	ErrEmptyRegistry   = errors.New("preset_registry_empty")
)

//go:embed presets.yaml
var embeddedPresets []byte

// AreaPreset is the shorthand a new tenant config is generated from. Optional fields
// left empty keep the baseline value.
type AreaPreset struct {
	ID                 string          `yaml:"id"`
	Name               string          `yaml:"name"`
	LocalizedName      string          `yaml:"localizedName"`
	Tagline            string          `yaml:"tagline"`
	LocalizedTagline   string          `yaml:"localizedTagline"`
	AdministrativeZone string          `yaml:"administrativeZone"`
	District           string          `yaml:"district"`
	WardNumber         string          `yaml:"wardNumber"`
	PostalCode         string          `yaml:"postalCode"`
	PrimaryColor       string          `yaml:"primaryColor"`
	PrimaryColorLight  string          `yaml:"primaryColorLight"`
	PrimaryColorDark   string          `yaml:"primaryColorDark"`
	AccentColor        string          `yaml:"accentColor"`
	Domain             string          `yaml:"domain"`
	PackageName        string          `yaml:"packageName"`
	SenderName         string          `yaml:"senderName"`
	AQIStationID       string          `yaml:"aqiStationId"`
	Lat                float64         `yaml:"lat"`
	Lon                float64         `yaml:"lon"`
	DumpYardEnabled    bool            `yaml:"dumpYardEnabled"`
	DumpYard           *DumpYardPreset `yaml:"dumpYard"`
	Stats              StatsPreset     `yaml:"stats"`
}

type DumpYardPreset struct {
	Name            string  `yaml:"name"`
	LocalizedName   string  `yaml:"localizedName"`
	DailyWasteTons  float64 `yaml:"dailyWasteTons"`
	AreaAcres       float64 `yaml:"areaAcres"`
	RedZoneRadiusKm float64 `yaml:"redZoneRadiusKm"`
}

type StatsPreset struct {
	BenefitsAmountLabel               string `yaml:"benefitsAmountLabel"`
	BenefitsDescriptionLabel          string `yaml:"benefitsDescriptionLabel"`
	BenefitsDescriptionLabelLocalized string `yaml:"benefitsDescriptionLabelLocalized"`
	ProblemsSolvedLabel               string `yaml:"problemsSolvedLabel"`
	ProblemsSolvedLabelLocalized      string `yaml:"problemsSolvedLabelLocalized"`
	PeopleBenefitedLabel              string `yaml:"peopleBenefitedLabel"`
	PeopleBenefitedLabelLocalized     string `yaml:"peopleBenefitedLabelLocalized"`
}

type presetTable struct {
	Presets []AreaPreset `yaml:"presets"`
}

// Registry is a read-only, insertion-ordered preset catalog.
type Registry struct {
	order   []string
	presets map[string]AreaPreset
}

var (
	defaultRegistryOnce sync.Once
	defaultRegistry     *Registry
	defaultRegistryErr  error
)

// Default returns the catalog embedded in the binary.
func Default() (*Registry, error) {
	defaultRegistryOnce.Do(func() {
		defaultRegistry, defaultRegistryErr = Load(bytes.NewReader(embeddedPresets))
	})
	return defaultRegistry, defaultRegistryErr
}

// Load parses a preset table. Ids must be unique and every entry needs an id and a name.
func Load(reader io.Reader) (*Registry, error) {
	var table presetTable
	decoder := yaml.NewDecoder(reader)
	decoder.KnownFields(true)
	if decodeErr := decoder.Decode(&table); decodeErr != nil {
		if errors.Is(decodeErr, io.EOF) {
			return nil, ErrEmptyRegistry
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidPreset, decodeErr)
	}
	if len(table.Presets) == 0 {
		return nil, ErrEmptyRegistry
	}

	registry := &Registry{
		order:   make([]string, 0, len(table.Presets)),
		presets: make(map[string]AreaPreset, len(table.Presets)),
	}
	for index, preset := range table.Presets {
		preset.ID = strings.TrimSpace(preset.ID)
		preset.Name = strings.TrimSpace(preset.Name)
		if preset.ID == "" || preset.Name == "" {
			return nil, fmt.Errorf("%w: entry %d needs id and name", ErrInvalidPreset, index)
		}
		if _, exists := registry.presets[preset.ID]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicatePreset, preset.ID)
		}
		registry.order = append(registry.order, preset.ID)
		registry.presets[preset.ID] = preset
	}
	return registry, nil
}

// Get returns a copy of the preset registered under id.
func (registry *Registry) Get(id string) (AreaPreset, error) {
	preset, found := registry.presets[strings.TrimSpace(id)]
	if !found {
		return AreaPreset{}, fmt.Errorf("%w: %s", ErrPresetNotFound, id)
	}
	if preset.DumpYard != nil {
		dumpYard := *preset.DumpYard
		preset.DumpYard = &dumpYard
	}
	return preset, nil
}

// IDs lists preset ids in table order.
func (registry *Registry) IDs() []string {
	return append([]string(nil), registry.order...)
}
