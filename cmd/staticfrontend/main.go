package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/MarkoPoloResearchLab/areaconfig/internal/httpapi"
	"github.com/MarkoPoloResearchLab/areaconfig/internal/provider"
)

const (
	environmentKeyAreaConfigPath = "AREA_CONFIG_PATH"
	environmentKeyAPIBaseURL     = "API_BASE_URL"
	environmentKeyPublicBaseURL  = "PUBLIC_BASE_URL"
	staticFileMode               = 0o644
	staticDirectoryMode          = 0o755
)

var errMissingAreaConfig = errors.New("missing AREA_CONFIG_PATH in env file or --area-config")

type renderTarget struct {
	method         string
	path           string
	acceptLanguage string
	handler        gin.HandlerFunc
	outputPath     string
}

type staticOptions struct {
	areaConfigPath string
	apiBaseURL     string
	publicBaseURL  string
	outputDir      string
}

func renderPayload(target renderTarget) (int, []byte) {
	recorder := httptest.NewRecorder()
	context, _ := gin.CreateTestContext(recorder)
	context.Request = httptest.NewRequest(target.method, target.path, nil)
	if target.acceptLanguage != "" {
		context.Request.Header.Set("Accept-Language", target.acceptLanguage)
	}
	target.handler(context)
	return recorder.Code, recorder.Body.Bytes()
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), staticDirectoryMode); err != nil {
		return err
	}
	return os.WriteFile(path, data, staticFileMode)
}

// staticTargets lists every page a static host needs to serve the tenant shell
// without the API process: one landing page per language plus the bundled config.
func staticTargets(logger *zap.Logger, configProvider *provider.Provider, options staticOptions) []renderTarget {
	landingHandlers := httpapi.NewLandingPageHandlers(logger, configProvider)
	configHandlers := httpapi.NewConfigHandlers(logger, configProvider, options.apiBaseURL)
	manifestHandlers := httpapi.NewManifestHandlers(configProvider)
	sitemapHandlers := httpapi.NewSitemapHandlers(options.publicBaseURL, configProvider)

	return []renderTarget{
		{
			method:         http.MethodGet,
			path:           httpapi.LandingRoutePath,
			acceptLanguage: provider.LanguageEnglish,
			handler:        landingHandlers.RenderLandingPage,
			outputPath:     filepath.Join(options.outputDir, "index.html"),
		},
		{
			method:         http.MethodGet,
			path:           httpapi.LandingRoutePath,
			acceptLanguage: provider.LanguageTelugu,
			handler:        landingHandlers.RenderLandingPage,
			outputPath:     filepath.Join(options.outputDir, provider.LanguageTelugu, "index.html"),
		},
		{
			method:     http.MethodGet,
			path:       httpapi.WebManifestRoutePath,
			handler:    manifestHandlers.RenderManifest,
			outputPath: filepath.Join(options.outputDir, strings.TrimPrefix(httpapi.WebManifestRoutePath, "/")),
		},
		{
			method:     http.MethodGet,
			path:       httpapi.SitemapRoutePath,
			handler:    sitemapHandlers.RenderSitemap,
			outputPath: filepath.Join(options.outputDir, strings.TrimPrefix(httpapi.SitemapRoutePath, "/")),
		},
		{
			method:     http.MethodGet,
			path:       httpapi.ConfigRoutePath,
			handler:    configHandlers.Config,
			outputPath: filepath.Join(options.outputDir, "config.json"),
		},
		{
			method:     http.MethodGet,
			path:       httpapi.RuntimeRoutePath,
			handler:    configHandlers.Runtime,
			outputPath: filepath.Join(options.outputDir, "runtime.json"),
		},
	}
}

func generateStaticFrontend(logger *zap.Logger, options staticOptions, stdout io.Writer) error {
	if strings.TrimSpace(options.areaConfigPath) == "" {
		return errMissingAreaConfig
	}
	configProvider, loadErr := provider.Load(options.areaConfigPath)
	if loadErr != nil {
		return loadErr
	}

	for _, target := range staticTargets(logger, configProvider, options) {
		status, payload := renderPayload(target)
		if status < http.StatusOK || status >= http.StatusMultipleChoices {
			return fmt.Errorf("render %s returned %d", target.path, status)
		}
		payload = bytes.ReplaceAll(payload, []byte("\r\n"), []byte("\n"))
		if err := writeFile(target.outputPath, payload); err != nil {
			return fmt.Errorf("write %s: %w", target.outputPath, err)
		}
	}

	_, _ = fmt.Fprintln(stdout, "static frontend for", configProvider.AreaID(), "generated in", options.outputDir)
	return nil
}

// resolveOptions lets explicit flags win over values read from the env file.
func resolveOptions(envValues map[string]string, options staticOptions) staticOptions {
	if strings.TrimSpace(options.areaConfigPath) == "" {
		options.areaConfigPath = strings.TrimSpace(envValues[environmentKeyAreaConfigPath])
	}
	if strings.TrimSpace(options.apiBaseURL) == "" {
		options.apiBaseURL = strings.TrimSpace(envValues[environmentKeyAPIBaseURL])
	}
	if strings.TrimSpace(options.publicBaseURL) == "" {
		options.publicBaseURL = strings.TrimSpace(envValues[environmentKeyPublicBaseURL])
	}
	return options
}

func main() {
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	var envFilePath string
	var options staticOptions
	pflag.StringVar(&envFilePath, "env-file", "", "optional env file providing AREA_CONFIG_PATH, API_BASE_URL and PUBLIC_BASE_URL")
	pflag.StringVar(&options.areaConfigPath, "area-config", "", "path to the bundled area config artifact")
	pflag.StringVar(&options.apiBaseURL, "api-base-url", "", "public base URL of the API")
	pflag.StringVar(&options.publicBaseURL, "public-base-url", "", "public base URL used in the sitemap")
	pflag.StringVar(&options.outputDir, "out", "public", "directory to write static assets into")
	pflag.Parse()

	envValues := map[string]string{}
	if envFilePath != "" {
		values, envErr := godotenv.Read(envFilePath)
		if envErr != nil {
			_, _ = fmt.Fprintf(os.Stderr, "read %s: %v\n", envFilePath, envErr)
			os.Exit(1)
		}
		envValues = values
	}

	if err := generateStaticFrontend(logger, resolveOptions(envValues, options), os.Stdout); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
