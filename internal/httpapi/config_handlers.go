package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MarkoPoloResearchLab/areaconfig/internal/model"
	"github.com/MarkoPoloResearchLab/areaconfig/internal/provider"
)

const (
	ConfigRoutePath          = "/config"
	LocalizedConfigRoutePath = "/config/localized"
	FeaturesRoutePath        = "/features"
	ModulesRoutePath         = "/modules"
	ModuleRoutePath          = "/modules/:feature"
	AQIStationsRoutePath     = "/aqi/stations"
	DumpYardRoutePath        = "/dump-yard"
	NewsConfigRoutePath      = "/news/config"
	RuntimeRoutePath         = "/runtime"

	moduleRouteParameter = "feature"
)

// ConfigHandlers expose the bundled tenant config to the app shell.
type ConfigHandlers struct {
	logger     *zap.Logger
	provider   *provider.Provider
	apiBaseURL string
}

func NewConfigHandlers(logger *zap.Logger, configProvider *provider.Provider, apiBaseURL string) *ConfigHandlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConfigHandlers{
		logger:     logger,
		provider:   configProvider,
		apiBaseURL: strings.TrimRight(strings.TrimSpace(apiBaseURL), "/"),
	}
}

type featureResponse struct {
	Feature model.Feature `json:"feature"`
	Enabled bool          `json:"enabled"`
}

type moduleResponse struct {
	Feature        model.Feature `json:"feature"`
	Path           string        `json:"path"`
	Title          string        `json:"title"`
	LocalizedTitle string        `json:"localizedTitle"`
}

type aqiStationResponse struct {
	Role string `json:"role"`
	model.AQIStation
}

type runtimeResponse struct {
	AreaID     string `json:"areaId"`
	APIBaseURL string `json:"apiBaseUrl"`
}

func (handlers *ConfigHandlers) Config(context *gin.Context) {
	context.JSON(http.StatusOK, handlers.provider.Config())
}

// LocalizedConfig renders display text in ?lang=, else the session language.
func (handlers *ConfigHandlers) LocalizedConfig(context *gin.Context) {
	requested := context.Query(sessionLanguageQuery)
	if requested == "" {
		if state, ok := SessionStateFromContext(context); ok {
			requested = state.Language
		}
	}
	context.JSON(http.StatusOK, handlers.provider.Localized(requested))
}

func (handlers *ConfigHandlers) Features(context *gin.Context) {
	features := model.Features()
	response := make([]featureResponse, 0, len(features))
	for _, feature := range features {
		response = append(response, featureResponse{Feature: feature, Enabled: handlers.provider.Enabled(feature)})
	}
	context.JSON(http.StatusOK, response)
}

func (handlers *ConfigHandlers) Modules(context *gin.Context) {
	modules := handlers.provider.Capabilities().Modules()
	response := make([]moduleResponse, 0, len(modules))
	for _, descriptor := range modules {
		response = append(response, toModuleResponse(descriptor))
	}
	context.JSON(http.StatusOK, response)
}

// Module answers 404 for unknown and disabled features alike.
func (handlers *ConfigHandlers) Module(context *gin.Context) {
	feature := model.Feature(strings.TrimSpace(context.Param(moduleRouteParameter)))
	descriptor, known := model.LookupModule(feature)
	if !known {
		context.AbortWithStatusJSON(http.StatusNotFound, gin.H{jsonKeyError: errorUnknownFeature, jsonKeyField: feature})
		return
	}
	if !handlers.provider.Enabled(feature) {
		context.AbortWithStatusJSON(http.StatusNotFound, gin.H{jsonKeyError: errorFeatureDisabled, jsonKeyField: feature})
		return
	}
	context.JSON(http.StatusOK, toModuleResponse(descriptor))
}

// AQIStations lists the primary station first, then the secondary.
func (handlers *ConfigHandlers) AQIStations(context *gin.Context) {
	config := handlers.provider.Config()
	response := make([]aqiStationResponse, 0, len(config.AQIConfig.Stations))
	for _, role := range []string{model.StationRolePrimary, model.StationRoleSecondary} {
		if station, found := config.AQIConfig.Stations[role]; found {
			response = append(response, aqiStationResponse{Role: role, AQIStation: station})
		}
	}
	context.JSON(http.StatusOK, response)
}

func (handlers *ConfigHandlers) DumpYard(context *gin.Context) {
	config := handlers.provider.Config()
	if config.DumpYardConfig == nil {
		handlers.logger.Warn("dump_yard_config_missing", zap.String("area_id", config.Area.ID))
		context.AbortWithStatusJSON(http.StatusNotFound, gin.H{jsonKeyError: errorFeatureDisabled, jsonKeyField: model.FeatureDumpYard})
		return
	}
	context.JSON(http.StatusOK, config.DumpYardConfig)
}

func (handlers *ConfigHandlers) NewsConfig(context *gin.Context) {
	context.JSON(http.StatusOK, handlers.provider.Config().NewsConfig)
}

// Runtime tells a statically served shell where the backend lives.
func (handlers *ConfigHandlers) Runtime(context *gin.Context) {
	context.JSON(http.StatusOK, runtimeResponse{
		AreaID:     handlers.provider.AreaID(),
		APIBaseURL: handlers.apiBaseURL,
	})
}

func toModuleResponse(descriptor model.ModuleDescriptor) moduleResponse {
	return moduleResponse{
		Feature:        descriptor.Feature,
		Path:           descriptor.Path,
		Title:          descriptor.Title,
		LocalizedTitle: descriptor.LocalizedTitle,
	}
}
