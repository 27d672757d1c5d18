// Package report renders analysis results for people and machines.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/triage-ai/palisade/services/tool_audit/internal/analyser"
	"github.com/triage-ai/palisade/services/tool_audit/internal/engine"
)

var (
	colorError   = color.New(color.FgRed, color.Bold)
	colorWarning = color.New(color.FgYellow)
	colorPass    = color.New(color.FgGreen, color.Bold)
	colorDim     = color.New(color.Faint)
)

// Text writes a human-readable report. Colours are disabled by noColor or NO_COLOR.
func Text(w io.Writer, res *analyser.Result, noColor bool) error {
	original := color.NoColor
	defer func() { color.NoColor = original }()
	if noColor || os.Getenv("NO_COLOR") != "" {
		color.NoColor = true
	}

	var b strings.Builder
	for _, is := range res.NormalizationIssues {
		target := is.Tool
		if is.Field != "" {
			target += "." + is.Field
		}
		if target == "" {
			target = "(unnamed)"
		}
		fmt.Fprintf(&b, "%s %s: %s\n", colorDim.Sprint("skip"), target, is.Message)
	}
	if len(res.NormalizationIssues) > 0 {
		b.WriteString("\n")
	}

	for _, d := range res.Diagnostics {
		writeDiagnostic(&b, d)
	}
	if len(res.Diagnostics) > 0 {
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "%s analysed, %s, %s, %s\n",
		plural(res.ToolCount, "tool"),
		plural(len(res.Errors), "error"),
		plural(len(res.Warnings), "warning"),
		plural(len(res.Dependencies), "dependency"),
	)
	fmt.Fprintf(&b, "Verdict: %s\n", verdictColor(res.Verdict).Sprint(strings.ToUpper(string(res.Verdict))))

	_, err := io.WriteString(w, b.String())
	return err
}

func writeDiagnostic(b *strings.Builder, d engine.Diagnostic) {
	sev := colorWarning
	if d.Severity == engine.SeverityError {
		sev = colorError
	}
	target := d.Tool
	if d.Field != "" {
		target += "." + d.Field
	}
	if target != "" {
		target += ": "
	}
	fmt.Fprintf(b, "%s %s %s%s\n", sev.Sprint(d.Code), sev.Sprintf("%-7s", d.Severity), target, d.Message)
	if d.Suggestion != "" {
		fmt.Fprintf(b, "      %s %s\n", colorDim.Sprint("fix:"), d.Suggestion)
	}
}

func verdictColor(v engine.Verdict) *color.Color {
	switch v {
	case engine.VerdictFail:
		return colorError
	case engine.VerdictPassWithWarnings:
		return colorWarning
	default:
		return colorPass
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", word)
	}
	if strings.HasSuffix(word, "y") {
		return fmt.Sprintf("%d %sies", n, strings.TrimSuffix(word, "y"))
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// JSON writes the result as indented JSON.
func JSON(w io.Writer, res *analyser.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// ExitCode maps a verdict to the CLI exit status: fail is 1, anything else 0.
func ExitCode(v engine.Verdict) int {
	if v == engine.VerdictFail {
		return 1
	}
	return 0
}
