package extraction

import (
	"errors"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	errNoDigits   = errors.New("no digits")
	errBadChars   = errors.New("unexpected characters")
	errBadGrouped = errors.New("inconsistent digit grouping")
)

var currencyTokens = []string{"GBP", "USD", "EUR", "CHF", "JPY", "£", "$", "€", "¥"}

// digitConfusions mirrors the normalizer table for captures it did not touch
var digitConfusions = map[rune]rune{
	'O': '0',
	'o': '0',
	'I': '1',
	'l': '1',
	'S': '5',
}

type magnitude struct {
	suffix     string
	multiplier decimal.Decimal
}

// magnitudes are matched longest first
var magnitudes = []magnitude{
	{"thousand", decimal.NewFromInt(1_000)},
	{"billion", decimal.NewFromInt(1_000_000_000)},
	{"million", decimal.NewFromInt(1_000_000)},
	{"bn", decimal.NewFromInt(1_000_000_000)},
	{"mn", decimal.NewFromInt(1_000_000)},
	{"m", decimal.NewFromInt(1_000_000)},
	{"k", decimal.NewFromInt(1_000)},
}

var plainDigits = regexp.MustCompile(`^[0-9]+$`)

// parsedNumber carries the parsed figure and whether OCR correction was needed
type parsedNumber struct {
	value     decimal.Decimal
	corrected bool
}

// parseAmount reads a monetary amount: currency markers, parenthesised or
// signed negatives, grouping separators and magnitude suffixes.
func parseAmount(raw string) (parsedNumber, error) {
	s := strings.TrimSpace(raw)
	negative := false

	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	for {
		trimmed := strings.TrimSpace(stripCurrency(s))
		switch {
		case strings.HasPrefix(trimmed, "-"):
			negative = true
			trimmed = trimmed[1:]
		case strings.HasPrefix(trimmed, "−"):
			negative = true
			trimmed = strings.TrimPrefix(trimmed, "−")
		case strings.HasPrefix(trimmed, "("):
			// "(£12,000)" with the closing parenthesis after a suffix
			if i := strings.LastIndex(trimmed, ")"); i > 0 {
				negative = true
				trimmed = trimmed[1:i] + trimmed[i+1:]
			}
		}
		if trimmed == s {
			break
		}
		s = trimmed
	}

	if strings.HasSuffix(s, "-") {
		negative = true
		s = strings.TrimSpace(strings.TrimSuffix(s, "-"))
	}

	multiplier := decimal.NewFromInt(1)
	lower := strings.ToLower(s)
	for _, m := range magnitudes {
		if strings.HasSuffix(lower, m.suffix) {
			head := strings.TrimSpace(s[:len(s)-len(m.suffix)])
			if head != "" && isDigitLike(lastRune(head)) {
				multiplier = m.multiplier
				s = head
				break
			}
		}
	}

	n, err := parsePlainNumber(s)
	if err != nil {
		return parsedNumber{}, err
	}
	n.value = n.value.Mul(multiplier)
	if negative {
		n.value = n.value.Neg()
	}
	return n, nil
}

func stripCurrency(s string) string {
	for _, token := range currencyTokens {
		if strings.HasPrefix(strings.ToUpper(s), token) {
			return s[len(token):]
		}
		if strings.HasSuffix(strings.ToUpper(s), token) {
			return s[:len(s)-len(token)]
		}
	}
	return s
}

// parsePlainNumber reads digits with optional grouping and a decimal separator.
// When both ',' and '.' appear the last one is the decimal separator. A lone
// ',' followed by exactly three digits is a thousands separator; a lone '.' is
// always decimal. Spaces and apostrophes only ever group.
func parsePlainNumber(raw string) (parsedNumber, error) {
	var out parsedNumber

	hasDigit := false
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			hasDigit = true
			break
		}
	}
	if !hasDigit {
		return out, errNoDigits
	}

	var b strings.Builder
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9', r == ',', r == '.':
			b.WriteRune(r)
		case r == ' ', r == '\'', r == '’':
			// grouping only
		default:
			digit, ok := digitConfusions[r]
			if !ok {
				return out, errBadChars
			}
			b.WriteRune(digit)
			out.corrected = true
		}
	}
	s := b.String()

	commas := strings.Count(s, ",")
	dots := strings.Count(s, ".")
	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")

	var intPart, fracPart string
	switch {
	case commas > 0 && dots > 0:
		if lastComma > lastDot {
			if commas > 1 {
				return out, errBadGrouped
			}
			intPart = strings.ReplaceAll(s[:lastComma], ".", "")
			fracPart = s[lastComma+1:]
		} else {
			if dots > 1 {
				return out, errBadGrouped
			}
			intPart = strings.ReplaceAll(s[:lastDot], ",", "")
			fracPart = s[lastDot+1:]
		}
	case commas > 1:
		intPart = strings.ReplaceAll(s, ",", "")
	case commas == 1:
		if len(s)-lastComma-1 == 3 {
			intPart = strings.ReplaceAll(s, ",", "")
		} else {
			intPart, fracPart = s[:lastComma], s[lastComma+1:]
		}
	case dots > 1:
		intPart = strings.ReplaceAll(s, ".", "")
	case dots == 1:
		intPart, fracPart = s[:lastDot], s[lastDot+1:]
	default:
		intPart = s
	}

	if intPart == "" {
		intPart = "0"
	}
	if !plainDigits.MatchString(intPart) || strings.ContainsAny(fracPart, ",.") {
		return out, errBadGrouped
	}

	literal := intPart
	if fracPart != "" {
		literal += "." + fracPart
	}
	d, err := decimal.NewFromString(literal)
	if err != nil {
		return out, err
	}
	out.value = d
	return out, nil
}

func isDigitLike(r rune) bool {
	if r >= '0' && r <= '9' {
		return true
	}
	_, ok := digitConfusions[r]
	return ok
}

func lastRune(s string) rune {
	runes := []rune(s)
	if len(runes) == 0 {
		return 0
	}
	return runes[len(runes)-1]
}
