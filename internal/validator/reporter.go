package validator

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/thoreinstein/filesbackup/internal/errors"
	"github.com/thoreinstein/filesbackup/internal/logging"
)

// Format specifies the output format for validation reports.
type Format string

const (
	// FormatText produces human-readable text output.
	FormatText Format = "text"
	// FormatJSON produces machine-readable JSON output.
	FormatJSON Format = "json"
)

// Reporter formats and writes validation results.
type Reporter struct {
	out    io.Writer
	format Format
	colors bool
}

// NewReporter creates a new Reporter. Text output is colored when out is
// a terminal that supports it.
func NewReporter(out io.Writer, format Format) *Reporter {
	return &Reporter{
		out:    out,
		format: format,
		colors: logging.SupportsColor(out),
	}
}

// Report writes the validation result to the output.
func (r *Reporter) Report(result *Result) error {
	if result == nil {
		return nil
	}

	switch r.format {
	case FormatJSON:
		return r.reportJSON(result)
	default:
		return r.reportText(result)
	}
}

// reportJSON writes the result as JSON.
func (r *Reporter) reportJSON(result *Result) error {
	encoder := json.NewEncoder(r.out)
	encoder.SetIndent("", "  ")
	return errors.Wrap(encoder.Encode(result), "encoding JSON report")
}

// reportText writes the result as human-readable text.
func (r *Reporter) reportText(result *Result) error {
	file := result.File
	if file == "" {
		file = "built-in defaults"
	}
	fmt.Fprintf(r.out, "Checked: `%s`\n", file)

	errs := result.Errors()
	warnings := result.Warnings()

	if len(errs) == 0 && len(warnings) == 0 {
		fmt.Fprintln(r.out, r.color(color.FgGreen).Sprint("✓ Configuration is valid"))
	} else {
		var summary []string
		if len(errs) > 0 {
			summary = append(summary, r.color(color.FgRed).Sprintf("%d error(s)", len(errs)))
		}
		if len(warnings) > 0 {
			summary = append(summary, r.color(color.FgYellow).Sprintf("%d warning(s)", len(warnings)))
		}
		fmt.Fprintf(r.out, "Configuration has problems: %s\n", strings.Join(summary, ", "))
	}

	r.section("Errors", errs, color.FgRed)
	r.section("Warnings", warnings, color.FgYellow)
	r.section("Notes", result.Infos(), color.FgCyan)
	return nil
}

func (r *Reporter) section(title string, issues []Issue, c color.Attribute) {
	if len(issues) == 0 {
		return
	}
	fmt.Fprintln(r.out)
	fmt.Fprintf(r.out, "%s:\n", title)
	for _, i := range issues {
		r.printIssue(i, c)
	}
}

func (r *Reporter) printIssue(i Issue, c color.Attribute) {
	// Format:  • field: message [value]
	var sb strings.Builder
	sb.WriteString("  • ")

	if i.Field != "" {
		sb.WriteString(r.color(c).Sprint(i.Field))
		sb.WriteString(": ")
	}

	sb.WriteString(i.Message)

	if i.Value != nil {
		valStr := fmt.Sprintf("%v", i.Value)
		// Truncate long values
		if len(valStr) > 50 {
			valStr = valStr[:47] + "..."
		}
		sb.WriteString(r.color(color.FgHiBlack).Sprintf(" [%s]", valStr))
	}

	fmt.Fprintln(r.out, sb.String())
}

func (r *Reporter) color(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if r.colors {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}
