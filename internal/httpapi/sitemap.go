package httpapi

import (
	"encoding/xml"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/MarkoPoloResearchLab/areaconfig/internal/provider"
)

const (
	SitemapRoutePath     = "/sitemap.xml"
	sitemapContentType   = "application/xml; charset=utf-8"
	sitemapXMLNamespace  = "http://www.sitemaps.org/schemas/sitemap/0.9"
	sitemapRenderFailure = "sitemap_render_failed"
	sitemapURLScheme     = "https://"
)

type SitemapHandlers struct {
	baseURL    string
	routePaths []string
}

type sitemapURLEntry struct {
	Location string `xml:"loc"`
}

type sitemapURLSet struct {
	XMLName xml.Name          `xml:"urlset"`
	XMLNS   string            `xml:"xmlns,attr"`
	URLs    []sitemapURLEntry `xml:"url"`
}

// NewSitemapHandlers lists the landing page, the legal pages and every enabled
// module. An empty baseURL falls back to the tenant domain.
func NewSitemapHandlers(baseURL string, configProvider *provider.Provider) *SitemapHandlers {
	config := configProvider.Config()
	if strings.TrimSpace(baseURL) == "" {
		baseURL = sitemapURLScheme + config.URLs.Domain
	}

	routePaths := []string{LandingRoutePath}
	for _, path := range []string{config.URLs.PrivacyPolicyPath, config.URLs.TermsPath} {
		if strings.TrimSpace(path) != "" {
			routePaths = append(routePaths, path)
		}
	}
	for _, module := range configProvider.Capabilities().Modules() {
		routePaths = append(routePaths, module.Path)
	}

	return &SitemapHandlers{
		baseURL:    normalizeSitemapBaseURL(baseURL),
		routePaths: routePaths,
	}
}

func (handlers *SitemapHandlers) RenderSitemap(context *gin.Context) {
	urlEntries := make([]sitemapURLEntry, 0, len(handlers.routePaths))
	for _, path := range handlers.routePaths {
		urlEntries = append(urlEntries, sitemapURLEntry{
			Location: handlers.composeURL(path),
		})
	}

	payload := sitemapURLSet{
		XMLNS: sitemapXMLNamespace,
		URLs:  urlEntries,
	}

	encoded, err := xml.MarshalIndent(payload, "", "  ")
	if err != nil {
		context.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{jsonKeyError: sitemapRenderFailure})
		return
	}

	document := append([]byte(xml.Header), encoded...)
	context.Data(http.StatusOK, sitemapContentType, document)
}

func (handlers *SitemapHandlers) composeURL(path string) string {
	normalizedPath := "/" + strings.TrimLeft(strings.TrimSpace(path), "/")
	return handlers.baseURL + normalizedPath
}

func normalizeSitemapBaseURL(baseURL string) string {
	return strings.TrimRight(strings.TrimSpace(baseURL), "/")
}
