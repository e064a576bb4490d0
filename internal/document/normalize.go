package document

import (
	"math"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// ocrConfusions maps characters OCR engines commonly emit in place of digits.
// Applied only inside numeric tokens.
var ocrConfusions = map[rune]rune{
	'O': '0',
	'o': '0',
	'I': '1',
	'l': '1',
	'S': '5',
}

// currencySymbols mark the start of a monetary amount
var currencySymbols = map[rune]bool{
	'£': true,
	'$': true,
	'€': true,
	'¥': true,
}

// Normalize returns a cleaned copy of the document. Lines are never added or
// removed so provenance indices taken after normalization still point at the
// source line. Normalize(Normalize(d)) == Normalize(d).
func Normalize(doc RawDocumentText) RawDocumentText {
	out := doc.clone()

	for i := range out.Lines {
		out.Lines[i].Text = cleanLine(out.Lines[i].Text)
		out.Lines[i].Confidence = clampConfidence(out.Lines[i].Confidence)
	}

	repairHyphenation(out.Lines)

	for i := range out.Lines {
		fixed, at := fixNumericConfusions(out.Lines[i].Text)
		if len(at) == 0 {
			continue
		}
		out.Lines[i].Text = fixed
		out.Lines[i].Corrections += len(at)
		out.Lines[i].CorrectedAt = append(slices.Clone(out.Lines[i].CorrectedAt), at...)
	}

	return out
}

// cleanLine strips control and format characters, applies NFC composition and
// collapses whitespace runs into single spaces.
func cleanLine(s string) string {
	if s == "" {
		return s
	}

	var filtered strings.Builder
	filtered.Grow(len(s))
	for _, r := range s {
		switch {
		case r == utf8.RuneError:
			continue
		case unicode.IsSpace(r):
			filtered.WriteRune(' ')
		case unicode.IsControl(r), unicode.Is(unicode.Cf, r):
			continue
		default:
			filtered.WriteRune(r)
		}
	}

	composed := norm.NFC.String(filtered.String())
	return strings.Join(strings.Fields(composed), " ")
}

// repairHyphenation joins words split across a line wrap ("finan-" / "cial")
// by moving the continuation onto the first line. Blank lines between the two
// halves are skipped. The continuation line keeps its index, possibly
// becoming empty.
func repairHyphenation(lines []Line) {
	for i := 0; i+1 < len(lines); i++ {
		for endsWithWrapHyphen(lines[i].Text) {
			j := nextNonEmptyLine(lines, i+1)
			if j < 0 || !startsWithLowercase(lines[j].Text) {
				break
			}
			next := lines[j].Text
			fragment, rest := next, ""
			if idx := strings.IndexByte(next, ' '); idx >= 0 {
				fragment, rest = next[:idx], next[idx+1:]
			}
			lines[i].Text = strings.TrimSuffix(lines[i].Text, "-") + fragment
			lines[j].Text = rest
		}
	}
}

func nextNonEmptyLine(lines []Line, from int) int {
	for j := from; j < len(lines); j++ {
		if lines[j].Text != "" {
			return j
		}
	}
	return -1
}

// endsWithWrapHyphen reports whether the line ends in a word broken by a
// line wrap. The fragment must end in at least two lowercase letters so grades
// such as "BBB-" or "A-" stay intact, and a lone value after a label colon
// ("Risk Level: low-") is never treated as a wrap.
func endsWithWrapHyphen(s string) bool {
	body, ok := strings.CutSuffix(s, "-")
	if !ok {
		return false
	}

	word := body[strings.LastIndexByte(body, ' ')+1:]
	lower := 0
	for _, r := range []rune(word)[max(0, utf8.RuneCountInString(word)-2):] {
		if unicode.IsLower(r) {
			lower++
		}
	}
	if lower < 2 {
		return false
	}

	head := strings.TrimSpace(strings.TrimSuffix(body, word))
	return !strings.HasSuffix(head, ":")
}

func startsWithLowercase(s string) bool {
	first, _ := utf8.DecodeRuneInString(s)
	return unicode.IsLower(first)
}

// fixNumericConfusions rewrites OCR confusables inside numeric tokens and
// returns the byte offsets of the characters changed. A token qualifies when
// it contains at least one real digit, is not glued to letters, and sits next
// to a currency symbol, a percent sign, a label colon or a slash.
func fixNumericConfusions(s string) (string, []int) {
	runes := []rune(s)
	var changed []int

	offset := make([]int, len(runes))
	pos := 0
	for k, r := range runes {
		offset[k] = pos
		pos += utf8.RuneLen(r)
	}

	for start := 0; start < len(runes); {
		if !isNumericTokenRune(runes[start]) {
			start++
			continue
		}
		end := start
		for end < len(runes) && isNumericTokenRune(runes[end]) {
			end++
		}

		if qualifiesAsNumeric(runes, start, end) {
			for k := start; k < end; k++ {
				if digit, ok := ocrConfusions[runes[k]]; ok {
					runes[k] = digit
					changed = append(changed, offset[k])
				}
			}
		}
		start = end
	}

	if len(changed) == 0 {
		return s, nil
	}
	return string(runes), changed
}

func isNumericTokenRune(r rune) bool {
	if r >= '0' && r <= '9' {
		return true
	}
	if r == ',' || r == '.' {
		return true
	}
	_, ok := ocrConfusions[r]
	return ok
}

func qualifiesAsNumeric(runes []rune, start, end int) bool {
	hasDigit := false
	for _, r := range runes[start:end] {
		if r >= '0' && r <= '9' {
			hasDigit = true
			break
		}
	}
	if !hasDigit {
		return false
	}

	// glued to a letter or digit: part of an identifier or word
	if start > 0 && isWordRune(runes[start-1]) {
		return false
	}
	if end < len(runes) && isWordRune(runes[end]) {
		return false
	}

	if prev, ok := previousNonSpace(runes, start); ok {
		if currencySymbols[prev] || prev == ':' || prev == '/' {
			return true
		}
	}
	if next, ok := nextNonSpace(runes, end); ok && next == '%' {
		return true
	}
	return false
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func previousNonSpace(runes []rune, idx int) (rune, bool) {
	for k := idx - 1; k >= 0; k-- {
		if runes[k] != ' ' {
			return runes[k], true
		}
	}
	return 0, false
}

func nextNonSpace(runes []rune, idx int) (rune, bool) {
	for k := idx; k < len(runes); k++ {
		if runes[k] != ' ' {
			return runes[k], true
		}
	}
	return 0, false
}

func clampConfidence(c float64) float64 {
	switch {
	case math.IsNaN(c), c < 0:
		return 0
	case c > 1:
		return 1
	default:
		return c
	}
}
