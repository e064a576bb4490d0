package extraction

import (
	"sort"

	"github.com/a3tai/mcp-findoc-extractor/internal/document"
	"github.com/a3tai/mcp-findoc-extractor/internal/patterns"
)

// priorityFactor discounts fallback rules: 1.0 for priority 1, 0.1 less per
// step, never below 0.5
func priorityFactor(priority int) float64 {
	f := 1 - 0.1*float64(priority-1)
	if f < 0.5 {
		return 0.5
	}
	if f > 1 {
		return 1
	}
	return f
}

// Extract scans every line with every rule of every field and returns the
// ranked candidates per field key. Fields without candidates are absent.
func Extract(doc document.RawDocumentText, lib *patterns.Library) map[string][]Candidate {
	out := make(map[string][]Candidate)

	for _, spec := range lib.Fields() {
		var candidates []Candidate
		seen := make(map[[2]int]bool)

		add := func(c Candidate) {
			// a weaker rule re-capturing the same text adds nothing
			pos := [2]int{c.Line, c.Column}
			if seen[pos] {
				return
			}
			seen[pos] = true
			candidates = append(candidates, c)
		}

		for _, rule := range spec.Rules {
			factor := priorityFactor(rule.Priority)

			for i, line := range doc.Lines {
				if line.Text == "" {
					continue
				}

				for _, m := range rule.FindAll(line.Text) {
					add(Candidate{
						Field:      spec.Key,
						Raw:        m.Value,
						Line:       i,
						Page:       line.Page,
						Column:     m.Column,
						RuleID:     rule.ID,
						Priority:   rule.Priority,
						Confidence: line.Confidence * factor,
						Corrected:  line.CorrectedIn(m.Column, m.Column+len(m.Value)),
					})
				}

				if !rule.AllowNextLine {
					continue
				}
				j := nextTextLine(doc.Lines, i+1)
				if j < 0 {
					continue
				}
				next := doc.Lines[j]
				if m, ok := rule.FindWrapped(line.Text, next.Text); ok {
					add(Candidate{
						Field:      spec.Key,
						Raw:        m.Value,
						Line:       j,
						Page:       next.Page,
						Column:     m.Column,
						RuleID:     rule.ID,
						Priority:   rule.Priority,
						Confidence: next.Confidence * factor * wrappedFactor,
						Corrected:  next.CorrectedIn(m.Column, m.Column+len(m.Value)),
						Wrapped:    true,
					})
				}
			}
		}

		if len(candidates) > 0 {
			rankCandidates(candidates)
			out[spec.Key] = candidates
		}
	}

	return out
}

func nextTextLine(lines []document.Line, from int) int {
	for j := from; j < len(lines); j++ {
		if lines[j].Text != "" {
			return j
		}
	}
	return -1
}

// rankCandidates orders by priority, then confidence, then document position
func rankCandidates(candidates []Candidate) {
	sort.SliceStable(candidates, func(a, b int) bool {
		ca, cb := candidates[a], candidates[b]
		if ca.Priority != cb.Priority {
			return ca.Priority < cb.Priority
		}
		if ca.Confidence != cb.Confidence {
			return ca.Confidence > cb.Confidence
		}
		if ca.Page != cb.Page {
			return ca.Page < cb.Page
		}
		if ca.Line != cb.Line {
			return ca.Line < cb.Line
		}
		return ca.Column < cb.Column
	})
}

// Resolve picks the outcome for one field from its ranked candidates. Only
// candidates sharing the best-ranked priority compete: the first of them that
// parses and validates wins. A weaker rule never overrules a stronger one, so
// when none of the top tier validates the best-ranked outcome is reported.
func Resolve(spec patterns.FieldSpec, candidates []Candidate) ExtractedField {
	if len(candidates) == 0 {
		return missingField(spec)
	}

	first := Parse(candidates[0], spec)
	if first.IsResolved() {
		return first
	}
	for _, c := range candidates[1:] {
		if c.Priority != candidates[0].Priority {
			break
		}
		if field := Parse(c, spec); field.IsResolved() {
			return field
		}
	}
	return first
}

// ResolveAll resolves every field of the library. The result holds exactly one
// entry per field spec.
func ResolveAll(lib *patterns.Library, candidates map[string][]Candidate) map[string]ExtractedField {
	fields := make(map[string]ExtractedField, lib.Len())
	for _, spec := range lib.Fields() {
		fields[spec.Key] = Resolve(spec, candidates[spec.Key])
	}
	return fields
}
