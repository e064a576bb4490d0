package extraction

import (
	"github.com/a3tai/mcp-findoc-extractor/internal/patterns"
)

// Assemble builds the record: one entry per library field, missing ones
// synthesised, and the document confidence as the mean over non-missing
// fields (0 when nothing resolved)
func Assemble(lib *patterns.Library, fields map[string]ExtractedField, warnings []Warning) *FinancialRecord {
	record := &FinancialRecord{
		Fields:         make(map[string]ExtractedField, lib.Len()),
		Warnings:       warnings,
		LibraryVersion: lib.Version(),
		groups:         make(map[string]patterns.Group, lib.Len()),
	}

	var sum float64
	var counted, resolved int

	for _, spec := range lib.Fields() {
		f, ok := fields[spec.Key]
		if !ok {
			f = missingField(spec)
		}
		record.Fields[spec.Key] = f
		record.order = append(record.order, spec.Key)
		record.groups[spec.Key] = spec.Group
		if spec.Required {
			record.required = append(record.required, spec.Key)
		}

		if f.Status == StatusMissing {
			continue
		}
		sum += f.Confidence
		counted++
		if f.IsResolved() {
			resolved++
		}
	}

	if resolved > 0 && counted > 0 {
		record.DocumentConfidence = sum / float64(counted)
	}
	return record
}
