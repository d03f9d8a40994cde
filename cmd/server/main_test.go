package main_test

import (
	"bytes"
	"strings"
	"testing"

	servercmd "github.com/MarkoPoloResearchLab/areaconfig/cmd/server"
	"github.com/MarkoPoloResearchLab/areaconfig/internal/provider"
)

const (
	testEnvironmentKeyAreaConfigPath = "AREA_CONFIG_PATH"
	testEnvironmentKeySessionSecret  = "SESSION_SECRET"
	testEnvironmentKeyServeMode      = "SERVE_MODE"
	testPlaceholderAreaConfigPath    = "/srv/area/dammaiguda.json"
	testPlaceholderSessionSecret     = "very-secret-session-key"
	testMissingConfigurationMessage  = "missing required configuration"
	testFlagNameAreaConfigPath       = "area-config"
	testFlagNameSessionSecret        = "session-secret"
	testFlagIndicator                = "--"
	testUsagePrefix                  = "Usage:"
)

func TestServerCommandMissingConfigurationShowsHelp(t *testing.T) {
	testCases := []struct {
		name                string
		areaConfigPath      string
		sessionSecret       string
		expectedMissingFlag string
	}{
		{
			name:                "missing area config",
			areaConfigPath:      "",
			sessionSecret:       testPlaceholderSessionSecret,
			expectedMissingFlag: testFlagNameAreaConfigPath,
		},
		{
			name:                "missing session secret",
			areaConfigPath:      testPlaceholderAreaConfigPath,
			sessionSecret:       "",
			expectedMissingFlag: testFlagNameSessionSecret,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Setenv(testEnvironmentKeyAreaConfigPath, testCase.areaConfigPath)
			t.Setenv(testEnvironmentKeySessionSecret, testCase.sessionSecret)

			providerLoaderStub := func(areaConfigPath string) (*provider.Provider, error) {
				t.Fatalf("provider loader invoked with %s", areaConfigPath)
				return nil, nil
			}

			application := servercmd.NewServerApplication().WithProviderLoader(providerLoaderStub)
			command, commandErr := application.Command()
			if commandErr != nil {
				t.Fatalf("unexpected command construction error: %v", commandErr)
			}

			commandOutput := &bytes.Buffer{}
			command.SetOut(commandOutput)
			command.SetErr(commandOutput)

			executionErr := command.Execute()
			if executionErr == nil {
				t.Fatalf("expected error for missing configuration")
			}

			combinedOutput := commandOutput.String()
			if !strings.Contains(combinedOutput, testMissingConfigurationMessage) {
				t.Fatalf("expected combined output to mention missing configuration: %s", combinedOutput)
			}

			if !strings.Contains(combinedOutput, testUsagePrefix) {
				t.Fatalf("expected combined output to include usage instructions: %s", combinedOutput)
			}

			expectedFlagIndicator := testFlagIndicator + testCase.expectedMissingFlag
			if !strings.Contains(combinedOutput, expectedFlagIndicator) {
				t.Fatalf("expected help output to include flag %s, actual output: %s", expectedFlagIndicator, combinedOutput)
			}
		})
	}
}

func TestServerCommandRejectsUnknownServeMode(t *testing.T) {
	t.Setenv(testEnvironmentKeyAreaConfigPath, testPlaceholderAreaConfigPath)
	t.Setenv(testEnvironmentKeySessionSecret, testPlaceholderSessionSecret)
	t.Setenv(testEnvironmentKeyServeMode, "desktop")

	application := servercmd.NewServerApplication().WithProviderLoader(func(areaConfigPath string) (*provider.Provider, error) {
		t.Fatalf("provider loader invoked with %s", areaConfigPath)
		return nil, nil
	})
	command, commandErr := application.Command()
	if commandErr != nil {
		t.Fatalf("unexpected command construction error: %v", commandErr)
	}
	commandOutput := &bytes.Buffer{}
	command.SetOut(commandOutput)
	command.SetErr(commandOutput)

	executionErr := command.Execute()
	if executionErr == nil || !strings.Contains(executionErr.Error(), "invalid serve mode") {
		t.Fatalf("expected invalid serve mode error, got %v", executionErr)
	}
}
