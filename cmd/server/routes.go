package main

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/MarkoPoloResearchLab/areaconfig/internal/httpapi"
	"github.com/MarkoPoloResearchLab/areaconfig/internal/model"
	"github.com/MarkoPoloResearchLab/areaconfig/internal/provider"
)

const (
	apiRoutePrefix          = "/api"
	apiRouteSession         = "/session"
	corsOriginWildcard      = "*"
	corsHeaderContentType   = "Content-Type"
	corsHeaderAcceptLang    = "Accept-Language"
	httpMethodGet           = "GET"
	httpMethodOptions       = "OPTIONS"
	httpMethodPost          = "POST"
	apiRequestsPerSecond    = 20
	apiRequestBurst         = 40
	corsPreflightMaxAgeHour = 12
	secureURLPrefix         = "https://"
)

var (
	corsAllowedMethods = []string{httpMethodGet, httpMethodPost, httpMethodOptions}
	corsAllowedHeaders = []string{corsHeaderContentType, corsHeaderAcceptLang}
	corsExposedHeaders = []string{corsHeaderContentType}
)

// newRouter wires the surfaces selected by the serve mode onto one gin engine.
func newRouter(serverConfig ServerConfig, configProvider *provider.Provider, logger *zap.Logger) (*gin.Engine, error) {
	serveMode, serveModeErr := ParseServeMode(string(serverConfig.ServeMode))
	if serveModeErr != nil {
		return nil, serveModeErr
	}

	sessionManager := httpapi.NewSessionManager(logger, []byte(serverConfig.SessionSecret), strings.HasPrefix(serverConfig.APIBaseURL, secureURLPrefix))

	router := gin.New()
	if proxiesErr := router.SetTrustedProxies(serverConfig.TrustedProxies); proxiesErr != nil {
		return nil, proxiesErr
	}
	router.Use(gin.Recovery())
	router.Use(httpapi.RequestLogger(logger))
	router.Use(sessionManager.Middleware())

	if serveMode.ServesFrontend() {
		registerFrontendRoutes(
			router,
			httpapi.NewLandingPageHandlers(logger, configProvider),
			httpapi.NewSitemapHandlers("", configProvider),
			httpapi.NewManifestHandlers(configProvider),
		)
	}
	if serveMode.ServesAPI() {
		registerBackendRoutes(
			router,
			configProvider,
			httpapi.NewConfigHandlers(logger, configProvider, serverConfig.APIBaseURL),
			sessionManager,
			serverConfig.AllowedOrigin,
			httpapi.NewClientRateLimiter(rate.Limit(apiRequestsPerSecond), apiRequestBurst),
		)
	}
	return router, nil
}

func registerFrontendRoutes(
	router *gin.Engine,
	landingHandlers *httpapi.LandingPageHandlers,
	sitemapHandlers *httpapi.SitemapHandlers,
	manifestHandlers *httpapi.ManifestHandlers,
) {
	router.GET(httpapi.LandingRoutePath, landingHandlers.RenderLandingPage)
	router.GET(httpapi.SitemapRoutePath, sitemapHandlers.RenderSitemap)
	router.GET(httpapi.WebManifestRoutePath, manifestHandlers.RenderManifest)
}

func registerBackendRoutes(
	router *gin.Engine,
	features httpapi.FeatureChecker,
	configHandlers *httpapi.ConfigHandlers,
	sessionManager *httpapi.SessionManager,
	allowedOrigin string,
	limiter *httpapi.ClientRateLimiter,
) {
	apiGroup := router.Group(apiRoutePrefix)
	apiGroup.Use(newAPICORS(allowedOrigin))
	apiGroup.Use(httpapi.RateLimit(limiter))

	apiGroup.GET(httpapi.ConfigRoutePath, configHandlers.Config)
	apiGroup.GET(httpapi.LocalizedConfigRoutePath, configHandlers.LocalizedConfig)
	apiGroup.GET(httpapi.FeaturesRoutePath, configHandlers.Features)
	apiGroup.GET(httpapi.ModulesRoutePath, configHandlers.Modules)
	apiGroup.GET(httpapi.ModuleRoutePath, configHandlers.Module)
	apiGroup.GET(httpapi.RuntimeRoutePath, configHandlers.Runtime)
	apiGroup.GET(apiRouteSession, sessionManager.GetSession)
	apiGroup.POST(apiRouteSession, sessionManager.UpdateSession)

	apiGroup.GET(httpapi.AQIStationsRoutePath, httpapi.RequireFeature(features, model.FeatureAQI), configHandlers.AQIStations)
	apiGroup.GET(httpapi.DumpYardRoutePath, httpapi.RequireFeature(features, model.FeatureDumpYard), configHandlers.DumpYard)
	apiGroup.GET(httpapi.NewsConfigRoutePath, httpapi.RequireFeature(features, model.FeatureNews), configHandlers.NewsConfig)

	apiGroup.OPTIONS("/*path", func(context *gin.Context) {
		context.Status(http.StatusNoContent)
	})
}

// newAPICORS allows credentials only for a concrete origin; a wildcard origin
// never receives cookies.
func newAPICORS(allowedOrigin string) gin.HandlerFunc {
	config := cors.Config{
		AllowMethods:  corsAllowedMethods,
		AllowHeaders:  corsAllowedHeaders,
		ExposeHeaders: corsExposedHeaders,
		MaxAge:        corsPreflightMaxAgeHour * time.Hour,
	}
	if allowedOrigin == corsOriginWildcard {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = []string{allowedOrigin}
		config.AllowCredentials = true
	}
	return cors.New(config)
}
