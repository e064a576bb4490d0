package patterns

import (
	"fmt"
	"regexp"
	"strings"
)

// FieldType is the closed set of value kinds a field can carry
type FieldType string

const (
	FieldTypeCurrency   FieldType = "currency"
	FieldTypePercent    FieldType = "percent"
	FieldTypeInteger    FieldType = "integer"
	FieldTypeRatio      FieldType = "ratio"
	FieldTypeIdentifier FieldType = "identifier"
	FieldTypeEnum       FieldType = "enum"
	FieldTypeText       FieldType = "text"
	FieldTypeDate       FieldType = "date"
)

// fieldTypes lists every FieldType; parsers must handle all of them
var fieldTypes = []FieldType{
	FieldTypeCurrency,
	FieldTypePercent,
	FieldTypeInteger,
	FieldTypeRatio,
	FieldTypeIdentifier,
	FieldTypeEnum,
	FieldTypeText,
	FieldTypeDate,
}

// ParseFieldType converts a string into a FieldType
func ParseFieldType(s string) (FieldType, error) {
	for _, ft := range fieldTypes {
		if strings.EqualFold(string(ft), strings.TrimSpace(s)) {
			return ft, nil
		}
	}
	return "", fmt.Errorf("unknown field type %q", s)
}

// IsNumeric reports whether values of this type are numbers
func (ft FieldType) IsNumeric() bool {
	switch ft {
	case FieldTypeCurrency, FieldTypePercent, FieldTypeInteger, FieldTypeRatio:
		return true
	default:
		return false
	}
}

// Group is the top-level section of the output record a field belongs to
type Group string

const (
	GroupCompanyInfo   Group = "company_info"
	GroupCreditMetrics Group = "credit_metrics"
	GroupFinancialData Group = "financial_data"
	GroupPaymentInfo   Group = "payment_info"
	GroupDates         Group = "dates"
)

// Groups returns all output groups in serialization order
func Groups() []Group {
	return []Group{
		GroupCompanyInfo,
		GroupCreditMetrics,
		GroupFinancialData,
		GroupPaymentInfo,
		GroupDates,
	}
}

// ParseGroup converts a string into a Group
func ParseGroup(s string) (Group, error) {
	for _, g := range Groups() {
		if strings.EqualFold(string(g), strings.TrimSpace(s)) {
			return g, nil
		}
	}
	return "", fmt.Errorf("unknown field group %q", s)
}

// PercentConvention fixes how a percent field is stored
type PercentConvention string

const (
	// PercentPoints keeps the figure as printed: "93%" is 93
	PercentPoints PercentConvention = "points"
	// PercentFraction divides by 100: "93%" is 0.93
	PercentFraction PercentConvention = "fraction"
)

// IdentifierKind selects the validation applied to an identifier field
type IdentifierKind string

const (
	IdentifierLEI          IdentifierKind = "lei"          // 20 alphanumeric characters
	IdentifierDUNS         IdentifierKind = "duns"         // 9 digits
	IdentifierRegistration IdentifierKind = "registration" // 6 to 12 alphanumeric characters
)

// Range is an inclusive value-range validator. Nil bounds are open.
type Range struct {
	Min *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max *float64 `json:"max,omitempty" yaml:"max,omitempty"`
}

// Between builds a closed range
func Between(minValue, maxValue float64) *Range {
	return &Range{Min: &minValue, Max: &maxValue}
}

// AtLeast builds a range with only a lower bound
func AtLeast(minValue float64) *Range {
	return &Range{Min: &minValue}
}

// Contains reports whether v satisfies the range
func (r *Range) Contains(v float64) bool {
	if r == nil {
		return true
	}
	if r.Min != nil && v < *r.Min {
		return false
	}
	if r.Max != nil && v > *r.Max {
		return false
	}
	return true
}

// String renders the range for error messages
func (r *Range) String() string {
	if r == nil {
		return "(-inf, +inf)"
	}
	lo, hi := "-inf", "+inf"
	if r.Min != nil {
		lo = fmt.Sprintf("%g", *r.Min)
	}
	if r.Max != nil {
		hi = fmt.Sprintf("%g", *r.Max)
	}
	return fmt.Sprintf("[%s, %s]", lo, hi)
}

// EnumValue is one canonical vocabulary entry and the spellings that map to it
type EnumValue struct {
	Value   string   `json:"value" yaml:"value"`
	Aliases []string `json:"aliases,omitempty" yaml:"aliases,omitempty"`
}

// PatternRule is one way of finding a field in a line of text
type PatternRule struct {
	ID string `json:"id"`

	// Anchor is the keyword/alias expression (case-insensitive)
	Anchor string `json:"anchor"`
	// Separator sits between anchor and value; DefaultSeparator when empty
	Separator string `json:"separator,omitempty"`
	// Value is the capture expression (case-sensitive unless it says otherwise)
	Value string `json:"value"`

	// Priority orders rules within a field: lower number wins
	Priority int `json:"priority"`
	// Range overrides the field range for captures of this rule
	Range *Range `json:"range,omitempty"`
	// AllowNextLine also matches a label alone on a line with the value
	// at the start of the following line
	AllowNextLine bool `json:"allow_next_line,omitempty"`
	// LineStart requires the anchor to open its line, after any bullet
	LineStart bool `json:"line_start,omitempty"`

	inline    *regexp.Regexp
	labelOnly *regexp.Regexp
	valueOnly *regexp.Regexp
}

// FieldSpec is the static definition of one extractable field
type FieldSpec struct {
	Key      string    `json:"key"`
	Label    string    `json:"label"`
	Group    Group     `json:"group"`
	Type     FieldType `json:"type"`
	Required bool      `json:"required"`

	Rules []PatternRule `json:"rules"`

	// Range applies to every rule that does not carry its own
	Range *Range `json:"range,omitempty"`

	// Percent is mandatory for percent fields
	Percent PercentConvention `json:"percent,omitempty"`
	// Identifier is mandatory for identifier fields
	Identifier IdentifierKind `json:"identifier,omitempty"`
	// Vocabulary is mandatory for enum fields
	Vocabulary []EnumValue `json:"vocabulary,omitempty"`
}

// RangeFor returns the validator in force for a rule of this field
func (f FieldSpec) RangeFor(ruleID string) *Range {
	for _, rule := range f.Rules {
		if rule.ID == ruleID && rule.Range != nil {
			return rule.Range
		}
	}
	return f.Range
}
