package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MarkoPoloResearchLab/areaconfig/internal/provider"
)

const (
	WebManifestRoutePath   = "/manifest.webmanifest"
	webManifestContentType = "application/manifest+json; charset=utf-8"
	webManifestDisplay     = "standalone"
	webManifestStartURL    = "/"
	webManifestIconSizes   = "512x512"
	webManifestSmallSizes  = "192x192"
	webManifestIconType    = "image/png"
)

type webManifestIcon struct {
	Source string `json:"src"`
	Sizes  string `json:"sizes"`
	Type   string `json:"type"`
}

type webManifest struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	ShortName       string            `json:"short_name"`
	Description     string            `json:"description,omitempty"`
	Language        string            `json:"lang"`
	StartURL        string            `json:"start_url"`
	Display         string            `json:"display"`
	ThemeColor      string            `json:"theme_color"`
	BackgroundColor string            `json:"background_color"`
	Icons           []webManifestIcon `json:"icons"`
}

// ManifestHandlers renders the installable web app manifest from the tenant branding.
type ManifestHandlers struct {
	provider *provider.Provider
}

func NewManifestHandlers(configProvider *provider.Provider) *ManifestHandlers {
	return &ManifestHandlers{provider: configProvider}
}

func (handlers *ManifestHandlers) RenderManifest(context *gin.Context) {
	config := handlers.provider.Config()
	manifest := webManifest{
		ID:              config.Distribution.AppID,
		Name:            config.Branding.AppName,
		ShortName:       config.Branding.AppNameShort,
		Description:     config.Area.Tagline,
		Language:        provider.LanguageEnglish,
		StartURL:        webManifestStartURL,
		Display:         webManifestDisplay,
		ThemeColor:      config.Branding.PrimaryColor,
		BackgroundColor: config.Branding.BackgroundColor,
		Icons:           make([]webManifestIcon, 0, 2),
	}
	if config.Branding.LogoURL != "" {
		manifest.Icons = append(manifest.Icons, webManifestIcon{Source: config.Branding.LogoURL, Sizes: webManifestIconSizes, Type: webManifestIconType})
	}
	if config.Branding.LogoSmallURL != "" {
		manifest.Icons = append(manifest.Icons, webManifestIcon{Source: config.Branding.LogoSmallURL, Sizes: webManifestSmallSizes, Type: webManifestIconType})
	}

	context.Header("Content-Type", webManifestContentType)
	context.JSON(http.StatusOK, manifest)
}
