package document

// Line is a single line of recovered document text
type Line struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"` // 0.0 to 1.0, 1.0 for digital text
	Page       int     `json:"page"`       // 1-based source page index

	// Corrections counts OCR-confusable characters rewritten by Normalize
	Corrections int `json:"corrections,omitempty"`
	// CorrectedAt holds the byte offsets of those characters in Text
	CorrectedAt []int `json:"corrected_at,omitempty"`
}

// CorrectedIn reports whether any rewritten character lies in Text[start:end]
func (l Line) CorrectedIn(start, end int) bool {
	for _, at := range l.CorrectedAt {
		if at >= start && at < end {
			return true
		}
	}
	return false
}

// RawDocumentText is the ordered line sequence produced by a text source.
// Values are treated as immutable; Normalize returns a copy.
type RawDocumentText struct {
	Lines []Line `json:"lines"`
}

// LineCount returns the number of lines in the document
func (d RawDocumentText) LineCount() int {
	return len(d.Lines)
}

// PageCount returns the highest page index seen in the document
func (d RawDocumentText) PageCount() int {
	maxPage := 0
	for _, line := range d.Lines {
		if line.Page > maxPage {
			maxPage = line.Page
		}
	}
	return maxPage
}

// IsEmpty reports whether the document carries no non-blank text
func (d RawDocumentText) IsEmpty() bool {
	for _, line := range d.Lines {
		for _, r := range line.Text {
			if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
				return false
			}
		}
	}
	return true
}

// clone returns a deep copy of the document
func (d RawDocumentText) clone() RawDocumentText {
	lines := make([]Line, len(d.Lines))
	copy(lines, d.Lines)
	return RawDocumentText{Lines: lines}
}
