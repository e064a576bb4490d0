package patterns

// Shared regular expression fragments for rule values. Value captures are
// deliberately permissive about OCR confusables (O, o, I, l, S) so the value
// parser can correct them and count the correction.

const (
	// DefaultSeparator allows an optional parenthesised qualifier, an optional
	// year ("Revenue 2023:") and a colon, dash or equals sign.
	DefaultSeparator = `\s*(?:\([^)\n]{0,40}\))?(?:\s*(?:FY\s*)?(?:19|20)[0-9]{2}\b)?\s*(?:\([^)\n]{0,40}\))?\s*[:=\-–]?\s*`

	// ColonSeparator requires a colon; used by low-priority single-word anchors
	ColonSeparator = `\s*:\s*`

	digitLike = `[0-9OoIlS]`

	// NumberValue is a plain figure with optional grouping and decimals. A
	// space never groups digits: "950 875" is two figures. Captures followed
	// directly by another digit are discarded by FindAll.
	NumberValue = `[0-9](?:` + digitLike + `{0,2}(?:[,.'’]` + digitLike + `{3})+|` + digitLike + `*)(?:[.,]` + digitLike + `+)?`

	// MoneyValue is an amount with optional currency, sign and magnitude suffix
	MoneyValue = `(?:[£$€¥]|GBP|USD|EUR|CHF|JPY)?\s*[(\-−]?\s*(?:[£$€¥])?\s*` + NumberValue + `\)?(?:\s*(?i:bn|billion|mn|million|m|thousand|k)\b)?`

	// PercentValue is a figure followed by a percent sign or word
	PercentValue = `-?` + NumberValue + `\s*(?:%|(?i:per\s*cent|pct)\b)`

	// LoosePercentValue also accepts a bare figure
	LoosePercentValue = `-?` + NumberValue + `(?:\s*(?:%|(?i:per\s*cent|pct)\b))?`

	// IntegerValue is a short whole number
	IntegerValue = `[0-9]` + digitLike + `{0,5}\b`

	// RatioValue is a decimal figure with optional "x" or ":1" suffix
	RatioValue = `-?[0-9]` + digitLike + `*(?:[.,]` + digitLike + `+)?(?:\s*:\s*1\b|\s*[xX]\b)?`

	// GearingValue is a ratio that may also be quoted as a percentage
	GearingValue = PercentValue + `|` + RatioValue

	// TokenValue is a single identifier token
	TokenValue = `[A-Za-z0-9][A-Za-z0-9\-]*`

	// DigitGroupsValue is digits separated by single spaces or hyphens
	DigitGroupsValue = `[0-9OoIl][0-9OoIl\-]*(?: [0-9][0-9\-]*)*`

	// GradeValue is a single word that may carry a +/- modifier
	GradeValue = `[A-Za-z]+[+\-]?`

	// PhraseValue is a run of words
	PhraseValue = `[A-Za-z][A-Za-z \-/]*[A-Za-z]`

	// RestOfLineValue takes everything up to the end of the line
	RestOfLineValue = `[^\n]{2,160}`

	// DateValue covers day-month-year in words, month-day-year, ISO and numeric
	DateValue = `(?:[0-9]{1,2}(?:st|nd|rd|th)?\s+[A-Za-z]{3,9}\.?,?\s+[0-9]{4}` +
		`|[A-Za-z]{3,9}\.?\s+[0-9]{1,2}(?:st|nd|rd|th)?,?\s+[0-9]{4}` +
		`|[0-9]{4}-[0-9]{2}-[0-9]{2}` +
		`|[0-9]{1,2}[/.\-][0-9]{1,2}[/.\-][0-9]{4})`
)

// DefaultValuePattern returns the capture expression used when a rule does not
// name one
func DefaultValuePattern(ft FieldType) string {
	switch ft {
	case FieldTypeCurrency:
		return MoneyValue
	case FieldTypePercent:
		return LoosePercentValue
	case FieldTypeInteger:
		return IntegerValue
	case FieldTypeRatio:
		return RatioValue
	case FieldTypeIdentifier:
		return TokenValue
	case FieldTypeEnum:
		return PhraseValue
	case FieldTypeDate:
		return DateValue
	default:
		return RestOfLineValue
	}
}
