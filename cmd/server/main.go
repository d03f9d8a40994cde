package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/MarkoPoloResearchLab/areaconfig/internal/provider"
)

const (
	commandUseName                   = "server"
	commandShortDescription          = "Serve the bundled area config"
	commandLongDescription           = "Launch the HTTP server that exposes the tenant's bundled area config, feature modules and landing page"
	missingConfigurationMessage      = "missing required configuration"
	loggerCreationErrorMessage       = "logger"
	logEventListening                = "listening"
	logFieldAddress                  = "addr"
	logFieldAreaID                   = "area_id"
	logFieldServeMode                = "serve_mode"
	flagNameApplicationAddress       = "app-addr"
	flagNameAreaConfigPath           = "area-config"
	flagNameSessionSecret            = "session-secret"
	flagNameServeMode                = "serve-mode"
	flagNameAPIBaseURL               = "api-base-url"
	flagNameAllowedOrigin            = "allowed-origin"
	flagNameTrustedProxies           = "trusted-proxies"
	flagUsageApplicationAddress      = "address for the HTTP server to listen on"
	flagUsageAreaConfigPath          = "path to the bundled area config artifact (.json or .yaml)"
	flagUsageSessionSecret           = "secret used to sign visitor session cookies"
	flagUsageServeMode               = "which surface to serve: monolith, web or api"
	flagUsageAPIBaseURL              = "public base URL of the API, reported to statically served shells"
	flagUsageAllowedOrigin           = "origin allowed to call the API with credentials"
	flagUsageTrustedProxies          = "comma-separated proxy IPs or CIDRs whose forwarded client IP headers are honoured"
	environmentKeyApplicationAddress = "APP_ADDR"
	environmentKeyAreaConfigPath     = "AREA_CONFIG_PATH"
	environmentKeySessionSecret      = "SESSION_SECRET"
	environmentKeyServeMode          = "SERVE_MODE"
	environmentKeyAPIBaseURL         = "API_BASE_URL"
	environmentKeyAllowedOrigin      = "ALLOWED_ORIGIN"
	environmentKeyTrustedProxies     = "TRUSTED_PROXIES"
	defaultApplicationAddress        = ":8080"
	defaultAllowedOrigin             = "*"
	environmentFileName              = ".env"
	loggerContextLoadConfig          = "load_area_config"
	loggerContextRouter              = "router"
	loggerContextServer              = "server"
	readHeaderTimeoutSeconds         = 5
	unexpectedArgumentsMessage       = "unexpected command arguments"
	commandInitializationFailure     = "failed to configure command"
	flagNotDefinedMessage            = "flag %s not defined"
	environmentConfigurationError    = "failed to apply environment configuration"
)

// ServerConfig captures configuration needed to run the server.
type ServerConfig struct {
	ApplicationAddress string
	AreaConfigPath     string
	SessionSecret      string
	ServeMode          ServeMode
	APIBaseURL         string
	AllowedOrigin      string
	TrustedProxies     []string
}

// ProviderLoader loads the bundled area config.
type ProviderLoader func(string) (*provider.Provider, error)

// ServerApplication constructs and executes the server command.
type ServerApplication struct {
	configurationLoader *viper.Viper
	providerLoader      ProviderLoader
}

// NewServerApplication creates a ServerApplication with default dependencies.
func NewServerApplication() *ServerApplication {
	return &ServerApplication{
		configurationLoader: viper.New(),
		providerLoader:      provider.Load,
	}
}

// WithProviderLoader overrides how the bundled config is loaded.
func (application *ServerApplication) WithProviderLoader(providerLoader ProviderLoader) *ServerApplication {
	application.providerLoader = providerLoader
	return application
}

// Command builds the Cobra command for the server.
func (application *ServerApplication) Command() (*cobra.Command, error) {
	rootCommand := &cobra.Command{
		Use:   commandUseName,
		Short: commandShortDescription,
		Long:  commandLongDescription,
		RunE:  application.runCommand,
	}

	if configurationErr := application.configureCommand(rootCommand); configurationErr != nil {
		return nil, configurationErr
	}

	return rootCommand, nil
}

type flagBinding struct {
	environmentKey string
	flagName       string
	defaultValue   string
	usage          string
}

var serverFlagBindings = []flagBinding{
	{environmentKey: environmentKeyApplicationAddress, flagName: flagNameApplicationAddress, defaultValue: defaultApplicationAddress, usage: flagUsageApplicationAddress},
	{environmentKey: environmentKeyAreaConfigPath, flagName: flagNameAreaConfigPath, usage: flagUsageAreaConfigPath},
	{environmentKey: environmentKeySessionSecret, flagName: flagNameSessionSecret, usage: flagUsageSessionSecret},
	{environmentKey: environmentKeyServeMode, flagName: flagNameServeMode, defaultValue: string(ServeModeMonolith), usage: flagUsageServeMode},
	{environmentKey: environmentKeyAPIBaseURL, flagName: flagNameAPIBaseURL, usage: flagUsageAPIBaseURL},
	{environmentKey: environmentKeyAllowedOrigin, flagName: flagNameAllowedOrigin, defaultValue: defaultAllowedOrigin, usage: flagUsageAllowedOrigin},
	{environmentKey: environmentKeyTrustedProxies, flagName: flagNameTrustedProxies, usage: flagUsageTrustedProxies},
}

func (application *ServerApplication) configureCommand(command *cobra.Command) error {
	commandFlags := command.Flags()
	for _, binding := range serverFlagBindings {
		application.configurationLoader.SetDefault(binding.environmentKey, binding.defaultValue)
		commandFlags.String(binding.flagName, binding.defaultValue, binding.usage)
	}
	application.configurationLoader.AutomaticEnv()

	for _, binding := range serverFlagBindings {
		if bindErr := application.bindFlag(commandFlags, binding.environmentKey, binding.flagName); bindErr != nil {
			return bindErr
		}
	}

	for _, binding := range serverFlagBindings {
		if environmentErr := application.applyEnvironmentConfiguration(commandFlags, binding.environmentKey, binding.flagName); environmentErr != nil {
			return environmentErr
		}
	}

	if markErr := command.MarkFlagRequired(flagNameAreaConfigPath); markErr != nil {
		return markErr
	}

	if markErr := command.MarkFlagRequired(flagNameSessionSecret); markErr != nil {
		return markErr
	}

	return nil
}

func (application *ServerApplication) bindFlag(flagSet *pflag.FlagSet, environmentKey string, flagName string) error {
	flag := flagSet.Lookup(flagName)
	if flag == nil {
		return fmt.Errorf(flagNotDefinedMessage, flagName)
	}

	if bindErr := application.configurationLoader.BindPFlag(environmentKey, flag); bindErr != nil {
		return bindErr
	}

	return nil
}

func (application *ServerApplication) applyEnvironmentConfiguration(flagSet *pflag.FlagSet, environmentKey string, flagName string) error {
	environmentValue, environmentFound := os.LookupEnv(environmentKey)
	if !environmentFound {
		return nil
	}

	if setErr := flagSet.Set(flagName, environmentValue); setErr != nil {
		return fmt.Errorf("%s: %w", environmentConfigurationError, setErr)
	}

	return nil
}

func (application *ServerApplication) loadServerConfig() (ServerConfig, error) {
	serveMode, serveModeErr := ParseServeMode(application.configurationLoader.GetString(environmentKeyServeMode))
	if serveModeErr != nil {
		return ServerConfig{}, serveModeErr
	}

	serverConfig := ServerConfig{
		ApplicationAddress: application.configurationLoader.GetString(environmentKeyApplicationAddress),
		AreaConfigPath:     strings.TrimSpace(application.configurationLoader.GetString(environmentKeyAreaConfigPath)),
		SessionSecret:      strings.TrimSpace(application.configurationLoader.GetString(environmentKeySessionSecret)),
		ServeMode:          serveMode,
		APIBaseURL:         strings.TrimSpace(application.configurationLoader.GetString(environmentKeyAPIBaseURL)),
		AllowedOrigin:      strings.TrimSpace(application.configurationLoader.GetString(environmentKeyAllowedOrigin)),
		TrustedProxies:     splitList(application.configurationLoader.GetString(environmentKeyTrustedProxies)),
	}
	if serverConfig.AllowedOrigin == "" {
		serverConfig.AllowedOrigin = defaultAllowedOrigin
	}

	if validationErr := application.ensureRequiredConfiguration(serverConfig); validationErr != nil {
		return ServerConfig{}, validationErr
	}
	return serverConfig, nil
}

func (application *ServerApplication) runCommand(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return fmt.Errorf("%s: %s", unexpectedArgumentsMessage, strings.Join(arguments, " "))
	}

	serverConfig, configErr := application.loadServerConfig()
	if configErr != nil {
		return configErr
	}

	logger, loggerErr := zap.NewProduction()
	if loggerErr != nil {
		return fmt.Errorf("%s: %w", loggerCreationErrorMessage, loggerErr)
	}
	defer func() {
		_ = logger.Sync()
	}()

	configProvider, loadErr := application.providerLoader(serverConfig.AreaConfigPath)
	if loadErr != nil {
		logger.Fatal(loggerContextLoadConfig, zap.String("path", serverConfig.AreaConfigPath), zap.Error(loadErr))
	}

	router, routerErr := newRouter(serverConfig, configProvider, logger)
	if routerErr != nil {
		logger.Fatal(loggerContextRouter, zap.Error(routerErr))
	}

	httpServer := &http.Server{
		Addr:              serverConfig.ApplicationAddress,
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeoutSeconds * time.Second,
	}

	logger.Info(logEventListening,
		zap.String(logFieldAddress, serverConfig.ApplicationAddress),
		zap.String(logFieldAreaID, configProvider.AreaID()),
		zap.String(logFieldServeMode, string(serverConfig.ServeMode)),
	)
	if serveErr := httpServer.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
		logger.Fatal(loggerContextServer, zap.Error(serveErr))
	}

	return nil
}

func (application *ServerApplication) ensureRequiredConfiguration(configuration ServerConfig) error {
	var missingParameters []string

	if configuration.AreaConfigPath == "" {
		missingParameters = append(missingParameters, flagNameAreaConfigPath)
	}

	if configuration.SessionSecret == "" {
		missingParameters = append(missingParameters, flagNameSessionSecret)
	}

	if len(missingParameters) == 0 {
		return nil
	}

	return fmt.Errorf("%s: %s", missingConfigurationMessage, strings.Join(missingParameters, ", "))
}

func main() {
	_ = godotenv.Load(environmentFileName)

	application := NewServerApplication()
	rootCommand, commandErr := application.Command()
	if commandErr != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", commandInitializationFailure, commandErr)
		os.Exit(1)
	}

	if executeErr := rootCommand.Execute(); executeErr != nil {
		os.Exit(1)
	}
}

func splitList(raw string) []string {
	var values []string
	for _, value := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}
