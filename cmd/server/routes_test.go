package main

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/MarkoPoloResearchLab/areaconfig/internal/generator"
	"github.com/MarkoPoloResearchLab/areaconfig/internal/presets"
	"github.com/MarkoPoloResearchLab/areaconfig/internal/provider"
)

const (
	testSessionSecret  = "0123456789abcdef0123456789abcdef"
	testAllowedOrigin  = "http://localhost:8090"
	testPresetID       = "dammaiguda"
	testPresetNoDump   = "asraonagar"
	testLandingPath    = "/"
	testConfigPath     = "/api/config"
	testDumpYardPath   = "/api/dump-yard"
	testNewsConfigPath = "/api/news/config"
)

func newTestProvider(testingT *testing.T, presetID string) *provider.Provider {
	testingT.Helper()
	registry, err := presets.Default()
	require.NoError(testingT, err)
	config, generateErr := generator.New(registry).GenerateFromPreset(presetID)
	require.NoError(testingT, generateErr)
	configProvider, providerErr := provider.New(config)
	require.NoError(testingT, providerErr)
	return configProvider
}

func newTestServerRouter(testingT *testing.T, serveMode ServeMode, allowedOrigin string, presetID string) *gin.Engine {
	testingT.Helper()
	gin.SetMode(gin.TestMode)
	router, err := newRouter(ServerConfig{
		SessionSecret: testSessionSecret,
		ServeMode:     serveMode,
		AllowedOrigin: allowedOrigin,
	}, newTestProvider(testingT, presetID), zap.NewNop())
	require.NoError(testingT, err)
	return router
}

func serveTestRequest(router http.Handler, request *http.Request) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

func TestServeModesSelectSurfaces(testingT *testing.T) {
	testCases := []struct {
		name                  string
		serveMode             ServeMode
		expectedLandingStatus int
		expectedConfigStatus  int
	}{
		{name: "monolith", serveMode: ServeModeMonolith, expectedLandingStatus: http.StatusOK, expectedConfigStatus: http.StatusOK},
		{name: "web", serveMode: ServeModeWeb, expectedLandingStatus: http.StatusOK, expectedConfigStatus: http.StatusNotFound},
		{name: "api", serveMode: ServeModeAPI, expectedLandingStatus: http.StatusNotFound, expectedConfigStatus: http.StatusOK},
	}

	for _, testCase := range testCases {
		testingT.Run(testCase.name, func(testingT *testing.T) {
			router := newTestServerRouter(testingT, testCase.serveMode, corsOriginWildcard, testPresetID)

			landing := serveTestRequest(router, httptest.NewRequest(http.MethodGet, testLandingPath, nil))
			require.Equal(testingT, testCase.expectedLandingStatus, landing.Code)

			config := serveTestRequest(router, httptest.NewRequest(http.MethodGet, testConfigPath, nil))
			require.Equal(testingT, testCase.expectedConfigStatus, config.Code)
		})
	}
}

func TestNewRouterRejectsUnknownServeMode(testingT *testing.T) {
	_, err := newRouter(ServerConfig{ServeMode: "desktop", SessionSecret: testSessionSecret}, newTestProvider(testingT, testPresetID), zap.NewNop())
	require.ErrorIs(testingT, err, ErrInvalidServeMode)
}

func TestNewRouterRejectsInvalidTrustedProxy(testingT *testing.T) {
	_, err := newRouter(ServerConfig{
		ServeMode:      ServeModeAPI,
		SessionSecret:  testSessionSecret,
		TrustedProxies: []string{"not-an-ip"},
	}, newTestProvider(testingT, testPresetID), zap.NewNop())
	require.Error(testingT, err)
}

func TestAPIRateLimitIgnoresForwardedHeadersFromUntrustedPeers(testingT *testing.T) {
	const (
		noisyClientAddress = "203.0.113.7:40000"
		quietClientAddress = "198.51.100.9:40000"
	)
	router := newTestServerRouter(testingT, ServeModeAPI, corsOriginWildcard, testPresetID)

	configRequest := func(remoteAddress string, forwardedFor string) *httptest.ResponseRecorder {
		request := httptest.NewRequest(http.MethodGet, testConfigPath, nil)
		request.RemoteAddr = remoteAddress
		if forwardedFor != "" {
			request.Header.Set("X-Forwarded-For", forwardedFor)
		}
		return serveTestRequest(router, request)
	}

	limited := false
	for attempt := 0; attempt < 4*apiRequestBurst && !limited; attempt++ {
		forwardedFor := fmt.Sprintf("192.0.2.%d", attempt%250+1)
		limited = configRequest(noisyClientAddress, forwardedFor).Code == http.StatusTooManyRequests
	}
	require.True(testingT, limited)
	require.Equal(testingT, http.StatusOK, configRequest(quietClientAddress, "").Code)
}

func TestFeatureGatedRoutesFollowCapabilities(testingT *testing.T) {
	withDumpYard := newTestServerRouter(testingT, ServeModeAPI, corsOriginWildcard, testPresetID)
	withoutDumpYard := newTestServerRouter(testingT, ServeModeAPI, corsOriginWildcard, testPresetNoDump)

	require.Equal(testingT, http.StatusOK, serveTestRequest(withDumpYard, httptest.NewRequest(http.MethodGet, testDumpYardPath, nil)).Code)
	require.Equal(testingT, http.StatusNotFound, serveTestRequest(withoutDumpYard, httptest.NewRequest(http.MethodGet, testDumpYardPath, nil)).Code)
	require.Equal(testingT, http.StatusOK, serveTestRequest(withoutDumpYard, httptest.NewRequest(http.MethodGet, testNewsConfigPath, nil)).Code)
}

func TestAPIPreflightReturnsCORSHeadersForConfiguredOrigin(testingT *testing.T) {
	router := newTestServerRouter(testingT, ServeModeMonolith, testAllowedOrigin, testPresetID)

	request := httptest.NewRequest(http.MethodOptions, "/api/session", nil)
	request.Header.Set("Origin", testAllowedOrigin)
	request.Header.Set("Access-Control-Request-Method", http.MethodPost)
	request.Header.Set("Access-Control-Request-Headers", "content-type")

	recorder := serveTestRequest(router, request)
	require.Equal(testingT, http.StatusNoContent, recorder.Code)
	require.Equal(testingT, testAllowedOrigin, recorder.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(testingT, "true", recorder.Header().Get("Access-Control-Allow-Credentials"))
}

func TestAPIPreflightUsesWildcardWithoutCredentials(testingT *testing.T) {
	router := newTestServerRouter(testingT, ServeModeMonolith, corsOriginWildcard, testPresetID)

	request := httptest.NewRequest(http.MethodOptions, "/api/config", nil)
	request.Header.Set("Origin", "http://shell.example")
	request.Header.Set("Access-Control-Request-Method", http.MethodGet)

	recorder := serveTestRequest(router, request)
	require.Equal(testingT, http.StatusNoContent, recorder.Code)
	require.Equal(testingT, corsOriginWildcard, recorder.Header().Get("Access-Control-Allow-Origin"))
	require.Empty(testingT, recorder.Header().Get("Access-Control-Allow-Credentials"))
}

func TestParseServeMode(testingT *testing.T) {
	testCases := []struct {
		input    string
		expected ServeMode
	}{
		{input: "", expected: ServeModeMonolith},
		{input: " Web ", expected: ServeModeWeb},
		{input: "API", expected: ServeModeAPI},
	}
	for _, testCase := range testCases {
		mode, err := ParseServeMode(testCase.input)
		require.NoError(testingT, err)
		require.Equal(testingT, testCase.expected, mode)
	}

	_, err := ParseServeMode("desktop")
	require.ErrorIs(testingT, err, ErrInvalidServeMode)
}

func TestServeModeSurfaces(testingT *testing.T) {
	testCases := []struct {
		mode             ServeMode
		expectedFrontend bool
		expectedAPI      bool
	}{
		{mode: ServeModeMonolith, expectedFrontend: true, expectedAPI: true},
		{mode: ServeModeWeb, expectedFrontend: true, expectedAPI: false},
		{mode: ServeModeAPI, expectedFrontend: false, expectedAPI: true},
		{mode: ServeMode("desktop"), expectedFrontend: false, expectedAPI: false},
	}
	for _, testCase := range testCases {
		require.Equal(testingT, testCase.expectedFrontend, testCase.mode.ServesFrontend(), string(testCase.mode))
		require.Equal(testingT, testCase.expectedAPI, testCase.mode.ServesAPI(), string(testCase.mode))
	}
}
