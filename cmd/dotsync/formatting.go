package dotsync

import (
	"os"
	"strings"
	"text/template"

	"github.com/arthur-debert/dotsync/pkg/ui"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// formatBold returns the string formatted as bold using pterm
func formatBold(s string) string {
	if !ui.IsTerminal(os.Stdout) {
		return s
	}
	return pterm.Bold.Sprint(s)
}

// formatUpper returns the string in uppercase
func formatUpper(s string) string {
	return strings.ToUpper(s)
}

// formatBoldUpper returns the string in uppercase and bold
func formatBoldUpper(s string) string {
	return formatBold(strings.ToUpper(s))
}

// warningPrefix is the label put in front of warnings written to stderr
func warningPrefix() string {
	if !ui.IsTerminal(os.Stderr) {
		return "Warning:"
	}
	return pterm.Warning.Prefix.Style.Sprint(pterm.Warning.Prefix.Text)
}

// initTemplateFormatting adds custom formatting functions to Cobra templates
func initTemplateFormatting() {
	cobra.AddTemplateFuncs(template.FuncMap{
		"bold":      formatBold,
		"upper":     formatUpper,
		"boldUpper": formatBoldUpper,
	})
}
