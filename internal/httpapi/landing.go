package httpapi

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MarkoPoloResearchLab/areaconfig/internal/provider"
)

const (
	LandingRoutePath       = "/"
	landingTemplateName    = "landing"
	landingHTMLContentType = "text/html; charset=utf-8"
	landingRenderFailure   = "landing_render_failed"
	splashElementID        = "area-splash"
	sessionAPIPath         = "/api/session"
)

type landingTemplateData struct {
	Language        string
	View            provider.LocalizedView
	PrimaryColor    string
	AccentColor     string
	BackgroundColor string
	LogoURL         string
	FaviconURL      string
	SplashSeen      bool
	SplashElementID string
	SessionPath     string
	FooterHTML      template.HTML
}

// LandingPageHandlers renders the tenant landing page.
type LandingPageHandlers struct {
	logger   *zap.Logger
	template *template.Template
	provider *provider.Provider
}

// NewLandingPageHandlers constructs handlers that render the landing template.
func NewLandingPageHandlers(logger *zap.Logger, configProvider *provider.Provider) *LandingPageHandlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	compiledTemplate := template.Must(template.New(landingTemplateName).Parse(landingTemplateHTML))
	return &LandingPageHandlers{
		logger:   logger,
		template: compiledTemplate,
		provider: configProvider,
	}
}

// RenderLandingPage writes the landing page in the session language. The splash
// overlay is shown until the session records that the visitor dismissed it.
func (handlers *LandingPageHandlers) RenderLandingPage(context *gin.Context) {
	state, ok := SessionStateFromContext(context)
	if !ok {
		state = provider.NewSessionState(context.GetHeader("Accept-Language"))
	}
	view := handlers.provider.Localized(state.Language)
	config := handlers.provider.Config()

	footerHTML, footerErr := renderTenantFooter(config, view.CompanyName, view.Language)
	if footerErr != nil {
		handlers.logger.Error("render_landing_footer", zap.Error(footerErr))
		footerHTML = template.HTML("")
	}

	data := landingTemplateData{
		Language:        view.Language,
		View:            view,
		PrimaryColor:    config.Branding.PrimaryColor,
		AccentColor:     config.Branding.AccentColor,
		BackgroundColor: config.Branding.BackgroundColor,
		LogoURL:         config.Branding.LogoURL,
		FaviconURL:      config.Branding.FaviconURL,
		SplashSeen:      state.SplashSeen,
		SplashElementID: splashElementID,
		SessionPath:     sessionAPIPath,
		FooterHTML:      footerHTML,
	}

	var buffer bytes.Buffer
	executeErr := handlers.template.Execute(&buffer, data)
	if executeErr != nil {
		handlers.logger.Error("render_landing_page", zap.Error(executeErr))
		context.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{jsonKeyError: landingRenderFailure})
		return
	}
	context.Data(http.StatusOK, landingHTMLContentType, buffer.Bytes())
}
