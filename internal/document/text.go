package document

import (
	"strings"
)

// PageBreakMarker separates pages in plain text produced by the PDF reader
const PageBreakMarker = "--- Page Break ---"

// FromText splits plain text into a document. Every line gets the same
// confidence. Pages advance on form feeds and on PageBreakMarker lines; the
// marker line itself is kept (as an empty line) so line indices match the text.
func FromText(text string, confidence float64) RawDocumentText {
	if text == "" {
		return RawDocumentText{}
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	rawLines := strings.Split(text, "\n")
	lines := make([]Line, 0, len(rawLines))
	page := 1

	for _, raw := range rawLines {
		if strings.TrimSpace(raw) == PageBreakMarker {
			lines = append(lines, Line{Text: "", Confidence: confidence, Page: page})
			page++
			continue
		}

		// a form feed may sit anywhere in the line
		segments := strings.Split(raw, "\f")
		for k, segment := range segments {
			if k > 0 {
				page++
			}
			if k > 0 && segment == "" && k == len(segments)-1 {
				continue
			}
			lines = append(lines, Line{Text: segment, Confidence: confidence, Page: page})
		}
	}

	return RawDocumentText{Lines: lines}
}

// FromPages builds a document from per-page text, one entry per page
func FromPages(pages []string, confidence float64) RawDocumentText {
	var lines []Line
	for i, pageText := range pages {
		pageText = strings.ReplaceAll(pageText, "\r\n", "\n")
		for _, raw := range strings.Split(pageText, "\n") {
			lines = append(lines, Line{Text: raw, Confidence: confidence, Page: i + 1})
		}
	}
	return RawDocumentText{Lines: lines}
}
