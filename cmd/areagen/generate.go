package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/MarkoPoloResearchLab/areaconfig/internal/artifact"
	"github.com/MarkoPoloResearchLab/areaconfig/internal/generator"
	"github.com/MarkoPoloResearchLab/areaconfig/internal/model"
)

const (
	generateUseName            = "generate <areaId>"
	generateShortDescription   = "Emit a validated area config for a preset or a new area"
	listUseName                = "list"
	listShortDescription       = "List preset ids"
	historyUseName             = "history [areaId]"
	historyShortDescription    = "Show the generation ledger"
	flagNameOutputDirectory    = "out-dir"
	flagNameFormat             = "format"
	flagNameAssetsDirectory    = "assets-dir"
	flagNameDeployDirectory    = "deploy-dir"
	flagNameOverwrite          = "overwrite"
	flagNameDryRun             = "dry-run"
	flagNameDeploy             = "deploy"
	flagNameInteractive        = "new"
	flagUsageOutputDirectory   = "directory the artifact is written to"
	flagUsageFormat            = "artifact format: json or yaml"
	flagUsageAssetsDirectory   = "directory holding one asset folder per area id"
	flagUsageDeployDirectory   = "directory assets are staged into on --deploy"
	flagUsageOverwrite         = "replace an existing artifact and skip the ledger uniqueness check"
	flagUsageDryRun            = "print the artifact to stdout instead of writing it"
	flagUsageDeploy            = "stage the area's assets after writing the artifact"
	flagUsageInteractive       = "answer a questionnaire instead of using a preset"
	environmentKeyOutputDir    = "AREAGEN_OUTPUT_DIR"
	environmentKeyFormat       = "AREAGEN_FORMAT"
	environmentKeyAssetsDir    = "AREAGEN_ASSETS_DIR"
	environmentKeyDeployDir    = "AREAGEN_DEPLOY_DIR"
	defaultOutputDirectory     = "configs"
	defaultAssetsDirectory     = "assets"
	defaultDeployDirectory     = "public"
	logEventArtifactWritten    = "artifact written"
	logEventAssetsDeployed     = "assets deployed"
	logEventLedgerRecordFailed = "ledger record failed"
	logFieldAreaID             = "area_id"
	logFieldPath               = "path"
	logFieldChecksum           = "checksum"
	logFieldCopied             = "copied"
	logFieldFailed             = "failed"
	historyDisabledMessage     = "no ledger configured: set --ledger or AREAGEN_LEDGER"
)

var errLedgerDisabled = errors.New("ledger_disabled")

type generateOptions struct {
	outputDirectory string
	format          string
	assetsDirectory string
	deployDirectory string
	overwrite       bool
	dryRun          bool
	deploy          bool
	interactive     bool
}

func (application *Application) generateCommand() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   generateUseName,
		Short: generateShortDescription,
		Args:  cobra.ExactArgs(1),
		RunE:  application.runGenerate,
	}

	commandFlags := command.Flags()
	bindings := []flagBinding{
		{environmentKey: environmentKeyOutputDir, flagName: flagNameOutputDirectory, defaultValue: defaultOutputDirectory, usage: flagUsageOutputDirectory},
		{environmentKey: environmentKeyFormat, flagName: flagNameFormat, defaultValue: model.ArtifactFormatJSON, usage: flagUsageFormat},
		{environmentKey: environmentKeyAssetsDir, flagName: flagNameAssetsDirectory, defaultValue: defaultAssetsDirectory, usage: flagUsageAssetsDirectory},
		{environmentKey: environmentKeyDeployDir, flagName: flagNameDeployDirectory, defaultValue: defaultDeployDirectory, usage: flagUsageDeployDirectory},
	}
	if configurationErr := application.configureFlags(commandFlags, bindings); configurationErr != nil {
		return nil, configurationErr
	}
	commandFlags.Bool(flagNameOverwrite, false, flagUsageOverwrite)
	commandFlags.Bool(flagNameDryRun, false, flagUsageDryRun)
	commandFlags.Bool(flagNameDeploy, false, flagUsageDeploy)
	commandFlags.Bool(flagNameInteractive, false, flagUsageInteractive)

	return command, nil
}

func (application *Application) loadGenerateOptions(command *cobra.Command) (generateOptions, error) {
	options := generateOptions{
		outputDirectory: application.configuredString(environmentKeyOutputDir),
		format:          strings.ToLower(application.configuredString(environmentKeyFormat)),
		assetsDirectory: application.configuredString(environmentKeyAssetsDir),
		deployDirectory: application.configuredString(environmentKeyDeployDir),
	}
	if _, extensionErr := artifact.Extension(options.format); extensionErr != nil {
		return generateOptions{}, extensionErr
	}

	commandFlags := command.Flags()
	var flagErr error
	if options.overwrite, flagErr = commandFlags.GetBool(flagNameOverwrite); flagErr != nil {
		return generateOptions{}, flagErr
	}
	if options.dryRun, flagErr = commandFlags.GetBool(flagNameDryRun); flagErr != nil {
		return generateOptions{}, flagErr
	}
	if options.deploy, flagErr = commandFlags.GetBool(flagNameDeploy); flagErr != nil {
		return generateOptions{}, flagErr
	}
	if options.interactive, flagErr = commandFlags.GetBool(flagNameInteractive); flagErr != nil {
		return generateOptions{}, flagErr
	}
	return options, nil
}

func (application *Application) runGenerate(command *cobra.Command, arguments []string) error {
	command.SilenceUsage = true
	areaID := strings.TrimSpace(arguments[0])

	options, optionsErr := application.loadGenerateOptions(command)
	if optionsErr != nil {
		return optionsErr
	}

	config, source, buildErr := application.buildConfig(command, areaID, options.interactive)
	if buildErr != nil {
		reportGenerationFailure(command.ErrOrStderr(), buildErr)
		return buildErr
	}

	if options.dryRun {
		payload, encodeErr := artifact.Encode(config, options.format)
		if encodeErr != nil {
			return encodeErr
		}
		_, writeErr := command.OutOrStdout().Write(payload)
		return writeErr
	}

	logger, loggerErr := application.newLogger()
	if loggerErr != nil {
		return loggerErr
	}
	defer func() {
		_ = logger.Sync()
	}()

	ledger, ledgerErr := application.openLedger()
	if ledgerErr != nil {
		return ledgerErr
	}
	if ledger != nil {
		defer func() {
			_ = ledger.Close()
		}()
	}

	extension, _ := artifact.Extension(options.format)
	destinationPath, absErr := filepath.Abs(filepath.Join(options.outputDirectory, config.Area.ID+extension))
	if absErr != nil {
		return absErr
	}

	if ledger != nil && !options.overwrite {
		if availabilityErr := ledger.EnsureAvailable(command.Context(), config.Area.ID, destinationPath); availabilityErr != nil {
			printStatus(command.ErrOrStderr(), statusError, availabilityErr.Error())
			return availabilityErr
		}
	}

	written, writeErr := generator.WriteArtifact(config, destinationPath, generator.WriteOptions{Overwrite: options.overwrite})
	if writeErr != nil {
		reportGenerationFailure(command.ErrOrStderr(), writeErr)
		return writeErr
	}
	printStatus(command.OutOrStdout(), statusOK, fmt.Sprintf("%s sha256:%s", written.Path, written.Checksum))
	logger.Info(logEventArtifactWritten,
		zap.String(logFieldAreaID, config.Area.ID),
		zap.String(logFieldPath, written.Path),
		zap.String(logFieldChecksum, written.Checksum),
	)

	var deployErr error
	if options.deploy {
		var report generator.DeployReport
		report, deployErr = generator.Deploy(config, generator.DeployOptions{
			SourceDirectory: filepath.Join(options.assetsDirectory, config.Area.ID),
			TargetDirectory: options.deployDirectory,
		})
		printDeployReport(command.OutOrStdout(), command.ErrOrStderr(), report)
		logger.Info(logEventAssetsDeployed,
			zap.String(logFieldAreaID, config.Area.ID),
			zap.Int(logFieldCopied, len(report.Copied)),
			zap.Int(logFieldFailed, len(report.Failed)),
		)
	}

	if ledger != nil {
		record, recordErr := model.NewGenerationRecord(model.GenerationRecordInput{
			AreaID:       config.Area.ID,
			ArtifactPath: written.Path,
			Format:       written.Format,
			Source:       source,
			Checksum:     written.Checksum,
			Deployed:     options.deploy && deployErr == nil,
		})
		if recordErr == nil {
			recordErr = ledger.Record(command.Context(), record)
		}
		if recordErr != nil {
			logger.Error(logEventLedgerRecordFailed, zap.String(logFieldAreaID, config.Area.ID), zap.Error(recordErr))
			return recordErr
		}
	}

	return deployErr
}

func (application *Application) buildConfig(command *cobra.Command, areaID string, interactive bool) (model.AreaConfig, string, error) {
	registry, registryErr := application.registry()
	if registryErr != nil {
		return model.AreaConfig{}, "", registryErr
	}
	areaGenerator := generator.New(registry)

	if !interactive {
		config, generateErr := areaGenerator.GenerateFromPreset(areaID)
		return config, model.GenerationSourcePreset, generateErr
	}

	answers, collectErr := generator.NewQuestionnaire(application.input, command.OutOrStdout()).Collect(areaID)
	if collectErr != nil {
		return model.AreaConfig{}, "", collectErr
	}
	config, generateErr := areaGenerator.GenerateInteractive(answers)
	return config, model.GenerationSourceInteractive, generateErr
}

func (application *Application) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   listUseName,
		Short: listShortDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			command.SilenceUsage = true
			registry, registryErr := application.registry()
			if registryErr != nil {
				return registryErr
			}
			for _, presetID := range registry.IDs() {
				if _, writeErr := fmt.Fprintln(command.OutOrStdout(), presetID); writeErr != nil {
					return writeErr
				}
			}
			return nil
		},
	}
}

func (application *Application) historyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   historyUseName,
		Short: historyShortDescription,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			command.SilenceUsage = true
			ledger, ledgerErr := application.openLedger()
			if ledgerErr != nil {
				return ledgerErr
			}
			if ledger == nil {
				printStatus(command.ErrOrStderr(), statusError, historyDisabledMessage)
				return errLedgerDisabled
			}
			defer func() {
				_ = ledger.Close()
			}()

			var areaID string
			if len(arguments) == 1 {
				areaID = arguments[0]
			}
			records, historyErr := ledger.History(command.Context(), areaID)
			if historyErr != nil {
				return historyErr
			}
			printHistory(command.OutOrStdout(), records)
			return nil
		},
	}
}
