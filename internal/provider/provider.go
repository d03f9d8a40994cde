// Package provider serves the single bundled AreaConfig of a running deployment.
package provider

import (
	"errors"
	"fmt"

	"github.com/MarkoPoloResearchLab/areaconfig/internal/artifact"
	"github.com/MarkoPoloResearchLab/areaconfig/internal/model"
)

var (
	ErrMissingConfigPath = errors.New("provider_missing_config_path")
	ErrConfigUnavailable = errors.New("provider_config_unavailable")
)

// Provider holds the validated tenant config for the life of the process. The
// config never changes after construction, so concurrent readers need no locking.
type Provider struct {
	config       model.AreaConfig
	capabilities model.CapabilitySet
}

// Load reads and validates the artifact at configPath. A missing or invalid
// artifact is an error; there is no fallback tenant.
func Load(configPath string) (*Provider, error) {
	if configPath == "" {
		return nil, ErrMissingConfigPath
	}
	config, readErr := artifact.ReadFile(configPath)
	if readErr != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrConfigUnavailable, configPath, readErr)
	}
	return New(config)
}

// New validates an already decoded config and memoizes it.
func New(config model.AreaConfig) (*Provider, error) {
	validated, validationErr := model.Validate(config)
	if validationErr != nil {
		return nil, validationErr
	}
	memoized := model.Clone(validated)
	return &Provider{
		config:       memoized,
		capabilities: model.NewCapabilitySet(memoized.FeatureFlags),
	}, nil
}

// Config returns a copy of the bundled config. Mutating it does not affect the provider.
func (provider *Provider) Config() model.AreaConfig {
	return model.Clone(provider.config)
}

func (provider *Provider) Capabilities() model.CapabilitySet {
	return provider.capabilities
}

func (provider *Provider) Enabled(feature model.Feature) bool {
	return provider.capabilities.Has(feature)
}

func (provider *Provider) AreaID() string {
	return provider.config.Area.ID
}
