package extraction

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/a3tai/mcp-findoc-extractor/internal/patterns"
)

var (
	percentSuffix = regexp.MustCompile(`(?i)\s*(?:%|per\s*cent|pct)\s*$`)
	ratioSuffix   = regexp.MustCompile(`\s*(?::\s*1|[xX])\s*$`)
	ordinalSuffix = regexp.MustCompile(`(?i)\b([0-9]{1,2})(?:st|nd|rd|th)\b`)

	leiPattern          = regexp.MustCompile(`^[A-Z0-9]{20}$`)
	dunsPattern         = regexp.MustCompile(`^[0-9]{9}$`)
	registrationPattern = regexp.MustCompile(`^[A-Z0-9]{6,12}$`)

	hundred = decimal.NewFromInt(100)
)

// dateLayouts are tried in order; numeric dates are read day first
var dateLayouts = []string{
	"2 January 2006",
	"2 Jan 2006",
	"January 2 2006",
	"Jan 2 2006",
	"2006-01-02",
	"2/1/2006",
	"2.1.2006",
	"2-1-2006",
}

// Parse converts one candidate into a typed, validated field outcome
func Parse(c Candidate, spec patterns.FieldSpec) ExtractedField {
	field := ExtractedField{
		Key:   spec.Key,
		Group: spec.Group,
		Raw:   c.Raw,
		Provenance: &Provenance{
			Line:   c.Line,
			Page:   c.Page,
			Column: c.Column,
			RuleID: c.RuleID,
		},
	}

	value, corrected, err := parseValue(c.Raw, spec)
	if err != nil {
		field.Status = StatusInvalid
		field.Error = err
		return field
	}

	if value == nil {
		// enum capture outside the vocabulary
		field.Status = StatusAmbiguous
		field.Confidence = floorConfidence(c.Confidence * ambiguousFactor)
		return field
	}

	if n, ok := value.Number(); ok {
		r := spec.RangeFor(c.RuleID)
		if !r.Contains(n.InexactFloat64()) {
			field.Status = StatusInvalid
			field.Error = newParseError(spec.Key, KindOutOfRange, c.Raw,
				fmt.Sprintf("%s outside %s", value.String(), r.String()))
			return field
		}
	}

	confidence := c.Confidence
	if corrected || c.Corrected {
		confidence -= OCRPenalty
	}

	field.Value = value
	field.Status = StatusResolved
	field.Confidence = floorConfidence(confidence)
	return field
}

// parseValue dispatches on the field type. A nil value with a nil error means
// the capture is well formed but not recognised (enum only).
func parseValue(raw string, spec patterns.FieldSpec) (*Value, bool, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, false, newParseError(spec.Key, KindEmpty, raw, "")
	}

	switch spec.Type {
	case patterns.FieldTypeCurrency:
		n, err := parseAmount(trimmed)
		if err != nil {
			return nil, false, newParseError(spec.Key, KindMalformed, raw, err.Error())
		}
		return DecimalValue(spec.Type, n.value), n.corrected, nil

	case patterns.FieldTypePercent:
		n, err := parseAmount(percentSuffix.ReplaceAllString(trimmed, ""))
		if err != nil {
			return nil, false, newParseError(spec.Key, KindMalformed, raw, err.Error())
		}
		v := n.value
		if spec.Percent == patterns.PercentFraction {
			v = v.Div(hundred)
		}
		return DecimalValue(spec.Type, v), n.corrected, nil

	case patterns.FieldTypeRatio:
		// a ratio quoted as "45%" is 0.45
		asPercent := percentSuffix.MatchString(trimmed)
		stripped := percentSuffix.ReplaceAllString(ratioSuffix.ReplaceAllString(trimmed, ""), "")
		n, err := parseAmount(stripped)
		if err != nil {
			return nil, false, newParseError(spec.Key, KindMalformed, raw, err.Error())
		}
		v := n.value
		if asPercent {
			v = v.Div(hundred)
		}
		return DecimalValue(spec.Type, v), n.corrected, nil

	case patterns.FieldTypeInteger:
		n, err := parseAmount(trimmed)
		if err != nil {
			return nil, false, newParseError(spec.Key, KindMalformed, raw, err.Error())
		}
		if !n.value.Equal(n.value.Truncate(0)) {
			return nil, false, newParseError(spec.Key, KindMalformed, raw, "not a whole number")
		}
		return IntValue(n.value.IntPart()), n.corrected, nil

	case patterns.FieldTypeIdentifier:
		id, corrected, err := parseIdentifier(trimmed, spec)
		if err != nil {
			return nil, false, err
		}
		return TextValue(spec.Type, id), corrected, nil

	case patterns.FieldTypeEnum:
		if canonical, ok := matchVocabulary(trimmed, spec.Vocabulary); ok {
			return TextValue(spec.Type, canonical), false, nil
		}
		return nil, false, nil

	case patterns.FieldTypeText:
		text := cleanText(trimmed)
		if text == "" {
			return nil, false, newParseError(spec.Key, KindEmpty, raw, "")
		}
		return TextValue(spec.Type, text), false, nil

	case patterns.FieldTypeDate:
		iso, err := parseDate(trimmed)
		if err != nil {
			return nil, false, newParseError(spec.Key, KindUnrecognizedDate, raw, err.Error())
		}
		return TextValue(spec.Type, iso), false, nil

	default:
		return nil, false, newParseError(spec.Key, KindMalformed, raw,
			fmt.Sprintf("unsupported field type %q", spec.Type))
	}
}

// parseIdentifier uppercases, strips spaces and hyphens and validates the
// result against the identifier kind
func parseIdentifier(raw string, spec patterns.FieldSpec) (string, bool, error) {
	var b strings.Builder
	for _, r := range raw {
		if unicode.IsSpace(r) || r == '-' {
			continue
		}
		b.WriteRune(r)
	}
	id := b.String()
	corrected := false

	if spec.Identifier == patterns.IdentifierDUNS {
		var digits strings.Builder
		for _, r := range id {
			if digit, ok := digitConfusions[r]; ok {
				r = digit
				corrected = true
			}
			digits.WriteRune(r)
		}
		id = digits.String()
	}
	id = strings.ToUpper(id)

	var valid bool
	switch spec.Identifier {
	case patterns.IdentifierLEI:
		valid = leiPattern.MatchString(id)
	case patterns.IdentifierDUNS:
		valid = dunsPattern.MatchString(id)
	case patterns.IdentifierRegistration:
		valid = registrationPattern.MatchString(id)
	}
	if !valid {
		return "", false, newParseError(spec.Key, KindInvalidIdentifier, raw,
			fmt.Sprintf("%q is not a valid %s identifier", id, spec.Identifier))
	}
	return id, corrected, nil
}

// matchVocabulary compares case and spacing insensitively, first as written
// and then with '-', '_' and '/' read as spaces
func matchVocabulary(raw string, vocabulary []patterns.EnumValue) (string, bool) {
	for _, loose := range []bool{false, true} {
		key := vocabularyKey(raw, loose)
		for _, entry := range vocabulary {
			if vocabularyKey(entry.Value, loose) == key {
				return entry.Value, true
			}
			for _, alias := range entry.Aliases {
				if vocabularyKey(alias, loose) == key {
					return entry.Value, true
				}
			}
		}
	}
	return "", false
}

func vocabularyKey(s string, loose bool) string {
	s = strings.ToLower(s)
	if loose {
		s = strings.NewReplacer("-", " ", "_", " ", "/", " ").Replace(s)
	}
	return strings.Join(strings.Fields(s), " ")
}

func cleanText(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimRight(s, " .,;:")
}

func parseDate(raw string) (string, error) {
	s := ordinalSuffix.ReplaceAllString(raw, "$1")
	s = strings.ReplaceAll(s, ",", " ")
	fields := strings.Fields(s)
	for i, f := range fields {
		// "Dec." and "Sept" abbreviations
		if len(f) > 1 && strings.HasSuffix(f, ".") && unicode.IsLetter(rune(f[0])) {
			f = strings.TrimSuffix(f, ".")
		}
		if strings.EqualFold(f, "sept") {
			f = "Sep"
		}
		fields[i] = f
	}
	s = strings.Join(fields, " ")

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), nil
		}
	}
	return "", fmt.Errorf("no known layout matches %q", s)
}
