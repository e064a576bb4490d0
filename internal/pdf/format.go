package pdf

import (
	"fmt"
	"strings"

	"github.com/a3tai/mcp-findoc-extractor/internal/extraction"
)

// FormatSummary renders an extraction result as human readable text, one
// field per line in library order
func FormatSummary(result *ExtractResult) string {
	var b strings.Builder
	record := result.Record

	if result.Path != "" {
		fmt.Fprintf(&b, "File: %s\n", result.Path)
	}
	fmt.Fprintf(&b, "Analysis: %s\n", result.AnalysisID)
	fmt.Fprintf(&b, "Source: %s, %d page(s), %d line(s)\n", result.Format, result.Pages, result.Lines)
	fmt.Fprintf(&b, "Library: %s\n", record.LibraryVersion)

	counts := record.CountByStatus()
	fmt.Fprintf(&b, "Document confidence: %.2f (%d resolved, %d missing, %d invalid, %d ambiguous)\n",
		record.DocumentConfidence, counts[extraction.StatusResolved], counts[extraction.StatusMissing],
		counts[extraction.StatusInvalid], counts[extraction.StatusAmbiguous])

	b.WriteString("\nFields:\n")
	for _, key := range record.Keys() {
		f := record.Fields[key]
		switch f.Status {
		case extraction.StatusResolved:
			fmt.Fprintf(&b, "  %-22s %-24s conf %.2f", key, f.Value.String(), f.Confidence)
			if f.Provenance != nil {
				fmt.Fprintf(&b, "  (page %d, line %d)", f.Provenance.Page, f.Provenance.Line+1)
			}
		case extraction.StatusMissing:
			fmt.Fprintf(&b, "  %-22s -", key)
		default:
			fmt.Fprintf(&b, "  %-22s %s %q", key, f.Status, f.Raw)
			if f.Error != nil {
				fmt.Fprintf(&b, ": %v", f.Error)
			}
		}
		b.WriteString("\n")
	}

	if len(record.Warnings) > 0 {
		b.WriteString("\nWarnings:\n")
		for _, w := range record.Warnings {
			fmt.Fprintf(&b, "  [%s] %s\n", w.Rule, w.Message)
		}
	}

	if missing := record.MissingRequired(); len(missing) > 0 {
		fmt.Fprintf(&b, "\nMissing required: %s\n", strings.Join(missing, ", "))
	}
	if unresolved := record.Unresolved(); len(unresolved) > 0 {
		fmt.Fprintf(&b, "Unresolved: %s\n", strings.Join(unresolved, ", "))
	}

	return b.String()
}
