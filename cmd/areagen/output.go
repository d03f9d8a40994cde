package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/MarkoPoloResearchLab/areaconfig/internal/generator"
	"github.com/MarkoPoloResearchLab/areaconfig/internal/model"
)

const (
	statusOK     = "OK"
	statusError  = "ERROR"
	statusCopied = "COPIED"
	statusFailed = "FAILED"

	colorSuccess = lipgloss.Color("#10b981")
	colorError   = lipgloss.Color("#ef4444")
	colorWarning = lipgloss.Color("#f59e0b")
	colorMuted   = lipgloss.Color("#6b7280")

	historyTimeLayout = time.RFC3339
)

var (
	successStyle = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(colorWarning).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
)

func statusStyle(status string) lipgloss.Style {
	switch status {
	case statusOK, statusCopied:
		return successStyle
	case statusFailed:
		return warningStyle
	default:
		return errorStyle
	}
}

func printStatus(writer io.Writer, status string, message string) {
	_, _ = fmt.Fprintf(writer, "%s %s\n", statusStyle(status).Render(status), message)
}

// reportGenerationFailure prints one line per contract violation, or the error itself
// when the failure is not a validation problem.
func reportGenerationFailure(writer io.Writer, failure error) {
	var violations model.ValidationErrors
	if errors.As(failure, &violations) {
		for _, violation := range violations {
			printStatus(writer, statusError, fmt.Sprintf("%s %s", violation.Field, mutedStyle.Render(violation.Message)))
		}
		return
	}
	printStatus(writer, statusError, failure.Error())
}

func printDeployReport(out io.Writer, errOut io.Writer, report generator.DeployReport) {
	for _, asset := range report.Copied {
		printStatus(out, statusCopied, asset)
	}
	for _, failure := range report.Failed {
		printStatus(errOut, statusFailed, fmt.Sprintf("%s: %v", failure.Asset, failure.Err))
	}
}

func printHistory(writer io.Writer, records []model.GenerationRecord) {
	for _, record := range records {
		_, _ = fmt.Fprintf(writer, "%s\t%s\t%s\t%s\tdeployed=%s\t%s\n",
			mutedStyle.Render(record.CreatedAt.UTC().Format(historyTimeLayout)),
			record.AreaID,
			record.Source,
			record.ArtifactPath,
			strconv.FormatBool(record.Deployed),
			record.Checksum,
		)
	}
}
