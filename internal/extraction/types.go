package extraction

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/a3tai/mcp-findoc-extractor/internal/patterns"
)

// Status is the resolution outcome of a field
type Status string

const (
	StatusResolved  Status = "resolved"
	StatusAmbiguous Status = "ambiguous"
	StatusMissing   Status = "missing"
	StatusInvalid   Status = "invalid"
)

const (
	// OCRPenalty is subtracted when a value needed OCR-confusable correction
	OCRPenalty = 0.1
	// CrossCheckPenalty is subtracted from every field named by a warning
	CrossCheckPenalty = 0.2
	// MinConfidence is the floor for any field that is not missing or invalid
	MinConfidence = 0.01

	// wrappedFactor scales candidates whose value sits on the line after the label
	wrappedFactor = 0.9
	// ambiguousFactor scales enum captures that match no vocabulary entry
	ambiguousFactor = 0.5
)

// Candidate is one possible value occurrence for a field
type Candidate struct {
	Field      string  `json:"field"`
	Raw        string  `json:"raw"`
	Line       int     `json:"line"`
	Page       int     `json:"page"`
	Column     int     `json:"column"`
	RuleID     string  `json:"rule_id"`
	Priority   int     `json:"priority"`
	Confidence float64 `json:"confidence"`
	// Corrected is set when the source line had OCR confusables rewritten
	Corrected bool `json:"corrected,omitempty"`
	// Wrapped is set when the label and value sit on consecutive lines
	Wrapped bool `json:"wrapped,omitempty"`
}

// Provenance locates the text a field value was taken from
type Provenance struct {
	Line   int    `json:"line"`
	Page   int    `json:"page"`
	Column int    `json:"column"`
	RuleID string `json:"rule_id"`
}

// Value is a typed field value. Type selects which member is meaningful:
// Decimal for currency, percent and ratio, Int for integer, Text otherwise.
type Value struct {
	Type    patterns.FieldType
	Decimal decimal.Decimal
	Int     int64
	Text    string
}

// DecimalValue builds a currency, percent or ratio value
func DecimalValue(ft patterns.FieldType, d decimal.Decimal) *Value {
	return &Value{Type: ft, Decimal: d}
}

// IntValue builds an integer value
func IntValue(n int64) *Value {
	return &Value{Type: patterns.FieldTypeInteger, Int: n}
}

// TextValue builds an identifier, enum, text or date value
func TextValue(ft patterns.FieldType, s string) *Value {
	return &Value{Type: ft, Text: s}
}

// Number returns the value as a decimal and whether it is numeric
func (v *Value) Number() (decimal.Decimal, bool) {
	if v == nil {
		return decimal.Zero, false
	}
	switch v.Type {
	case patterns.FieldTypeCurrency, patterns.FieldTypePercent, patterns.FieldTypeRatio:
		return v.Decimal, true
	case patterns.FieldTypeInteger:
		return decimal.NewFromInt(v.Int), true
	default:
		return decimal.Zero, false
	}
}

// String renders the value the way it is serialized
func (v *Value) String() string {
	if v == nil {
		return ""
	}
	switch v.Type {
	case patterns.FieldTypeCurrency, patterns.FieldTypePercent, patterns.FieldTypeRatio:
		return v.Decimal.String()
	case patterns.FieldTypeInteger:
		return decimal.NewFromInt(v.Int).String()
	default:
		return v.Text
	}
}

// jsonValue returns the representation placed in the output record. Decimals
// are emitted as JSON numbers without going through float64.
func (v *Value) jsonValue() any {
	if v == nil {
		return nil
	}
	switch v.Type {
	case patterns.FieldTypeCurrency, patterns.FieldTypePercent, patterns.FieldTypeRatio:
		return json.Number(v.Decimal.String())
	case patterns.FieldTypeInteger:
		return v.Int
	default:
		return v.Text
	}
}

// ExtractedField is the resolved outcome for one field spec
type ExtractedField struct {
	Key        string         `json:"key"`
	Group      patterns.Group `json:"group"`
	Value      *Value         `json:"-"`
	Raw        string         `json:"raw,omitempty"`
	Confidence float64        `json:"confidence"`
	Status     Status         `json:"status"`
	Provenance *Provenance    `json:"provenance,omitempty"`
	Error      error          `json:"-"`
}

// IsResolved reports whether the field carries a trusted value
func (f ExtractedField) IsResolved() bool {
	return f.Status == StatusResolved
}

func missingField(spec patterns.FieldSpec) ExtractedField {
	return ExtractedField{
		Key:    spec.Key,
		Group:  spec.Group,
		Status: StatusMissing,
	}
}

func floorConfidence(c float64) float64 {
	if c < MinConfidence {
		return MinConfidence
	}
	if c > 1 {
		return 1
	}
	return c
}
