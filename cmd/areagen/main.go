package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/MarkoPoloResearchLab/areaconfig/internal/presets"
	"github.com/MarkoPoloResearchLab/areaconfig/internal/storage"
)

const (
	commandUseName                = "areagen"
	commandShortDescription       = "Generate white-label area configs"
	commandLongDescription        = "Produce validated area config artifacts from presets or an interactive questionnaire, stage their assets and keep a ledger of generated areas"
	flagNamePresets               = "presets"
	flagNameLedger                = "ledger"
	flagUsagePresets              = "path to an external preset table (defaults to the built-in presets)"
	flagUsageLedger               = "path to the SQLite generation ledger (empty disables the ledger)"
	environmentKeyPresets         = "AREAGEN_PRESETS"
	environmentKeyLedger          = "AREAGEN_LEDGER"
	environmentFileName           = ".env"
	commandInitializationFailure  = "failed to configure command"
	flagNotDefinedMessage         = "flag %s not defined"
	environmentConfigurationError = "failed to apply environment configuration"
	loggerCreationErrorMessage    = "logger"
)

// RegistryLoader resolves the preset registry from an optional table path.
type RegistryLoader func(presetsPath string) (*presets.Registry, error)

// LedgerOpener opens the generation ledger stored at a path.
type LedgerOpener func(ledgerPath string) (*storage.Ledger, error)

// LoggerFactory builds the logger used by command runs.
type LoggerFactory func() (*zap.Logger, error)

// Application constructs and executes the areagen command tree.
type Application struct {
	configurationLoader *viper.Viper
	registryLoader      RegistryLoader
	ledgerOpener        LedgerOpener
	loggerFactory       LoggerFactory
	input               io.Reader
}

// NewApplication creates an Application with default dependencies.
func NewApplication() *Application {
	return &Application{
		configurationLoader: viper.New(),
		registryLoader:      loadRegistry,
		ledgerOpener:        storage.OpenLedger,
		loggerFactory:       func() (*zap.Logger, error) { return zap.NewProduction() },
		input:               os.Stdin,
	}
}

// WithInput overrides where questionnaire answers are read from.
func (application *Application) WithInput(input io.Reader) *Application {
	application.input = input
	return application
}

// WithRegistryLoader overrides how the preset registry is resolved.
func (application *Application) WithRegistryLoader(registryLoader RegistryLoader) *Application {
	application.registryLoader = registryLoader
	return application
}

// WithLedgerOpener overrides how the generation ledger is opened.
func (application *Application) WithLedgerOpener(ledgerOpener LedgerOpener) *Application {
	application.ledgerOpener = ledgerOpener
	return application
}

// WithLoggerFactory overrides the logger used by command runs.
func (application *Application) WithLoggerFactory(loggerFactory LoggerFactory) *Application {
	application.loggerFactory = loggerFactory
	return application
}

// Command builds the Cobra command tree. The root command only prints usage.
func (application *Application) Command() (*cobra.Command, error) {
	rootCommand := &cobra.Command{
		Use:   commandUseName,
		Short: commandShortDescription,
		Long:  commandLongDescription,
	}

	persistentFlags := rootCommand.PersistentFlags()
	rootBindings := []flagBinding{
		{environmentKey: environmentKeyPresets, flagName: flagNamePresets, usage: flagUsagePresets},
		{environmentKey: environmentKeyLedger, flagName: flagNameLedger, usage: flagUsageLedger},
	}
	if configurationErr := application.configureFlags(persistentFlags, rootBindings); configurationErr != nil {
		return nil, configurationErr
	}

	generateCommand, generateErr := application.generateCommand()
	if generateErr != nil {
		return nil, generateErr
	}
	rootCommand.AddCommand(generateCommand, application.listCommand(), application.historyCommand())

	return rootCommand, nil
}

type flagBinding struct {
	environmentKey string
	flagName       string
	defaultValue   string
	usage          string
}

func (application *Application) configureFlags(flagSet *pflag.FlagSet, bindings []flagBinding) error {
	for _, binding := range bindings {
		application.configurationLoader.SetDefault(binding.environmentKey, binding.defaultValue)
		flagSet.String(binding.flagName, binding.defaultValue, binding.usage)
	}
	application.configurationLoader.AutomaticEnv()

	for _, binding := range bindings {
		if bindErr := application.bindFlag(flagSet, binding.environmentKey, binding.flagName); bindErr != nil {
			return bindErr
		}
	}

	for _, binding := range bindings {
		if environmentErr := application.applyEnvironmentConfiguration(flagSet, binding.environmentKey, binding.flagName); environmentErr != nil {
			return environmentErr
		}
	}
	return nil
}

func (application *Application) bindFlag(flagSet *pflag.FlagSet, environmentKey string, flagName string) error {
	flag := flagSet.Lookup(flagName)
	if flag == nil {
		return fmt.Errorf(flagNotDefinedMessage, flagName)
	}

	if bindErr := application.configurationLoader.BindPFlag(environmentKey, flag); bindErr != nil {
		return bindErr
	}

	return nil
}

func (application *Application) applyEnvironmentConfiguration(flagSet *pflag.FlagSet, environmentKey string, flagName string) error {
	environmentValue, environmentFound := os.LookupEnv(environmentKey)
	if !environmentFound {
		return nil
	}

	if setErr := flagSet.Set(flagName, environmentValue); setErr != nil {
		return fmt.Errorf("%s: %w", environmentConfigurationError, setErr)
	}

	return nil
}

func (application *Application) configuredString(environmentKey string) string {
	return strings.TrimSpace(application.configurationLoader.GetString(environmentKey))
}

func (application *Application) registry() (*presets.Registry, error) {
	return application.registryLoader(application.configuredString(environmentKeyPresets))
}

// openLedger returns nil when no ledger path is configured.
func (application *Application) openLedger() (*storage.Ledger, error) {
	ledgerPath := application.configuredString(environmentKeyLedger)
	if ledgerPath == "" {
		return nil, nil
	}
	return application.ledgerOpener(ledgerPath)
}

func (application *Application) newLogger() (*zap.Logger, error) {
	logger, loggerErr := application.loggerFactory()
	if loggerErr != nil {
		return nil, fmt.Errorf("%s: %w", loggerCreationErrorMessage, loggerErr)
	}
	return logger, nil
}

func loadRegistry(presetsPath string) (*presets.Registry, error) {
	if presetsPath == "" {
		return presets.Default()
	}
	presetsFile, openErr := os.Open(presetsPath)
	if openErr != nil {
		return nil, fmt.Errorf("open presets %s: %w", presetsPath, openErr)
	}
	defer func() { _ = presetsFile.Close() }()
	return presets.Load(presetsFile)
}

func main() {
	_ = godotenv.Load(environmentFileName)

	application := NewApplication()
	rootCommand, commandErr := application.Command()
	if commandErr != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", commandInitializationFailure, commandErr)
		os.Exit(1)
	}

	if executeErr := rootCommand.Execute(); executeErr != nil {
		os.Exit(1)
	}
}
