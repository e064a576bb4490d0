package extraction

import (
	"encoding/json"

	"github.com/a3tai/mcp-findoc-extractor/internal/patterns"
)

// FinancialRecord is the structured result for one document
type FinancialRecord struct {
	Fields             map[string]ExtractedField
	DocumentConfidence float64
	Warnings           []Warning
	LibraryVersion     string

	order    []string
	groups   map[string]patterns.Group
	required []string
}

// Field returns the outcome of one field
func (r *FinancialRecord) Field(key string) (ExtractedField, bool) {
	f, ok := r.Fields[key]
	return f, ok
}

// Keys returns the field keys in library order
func (r *FinancialRecord) Keys() []string {
	return append([]string(nil), r.order...)
}

// MissingRequired lists required fields that did not resolve
func (r *FinancialRecord) MissingRequired() []string {
	missing := []string{}
	for _, key := range r.required {
		if !r.Fields[key].IsResolved() {
			missing = append(missing, key)
		}
	}
	return missing
}

// Unresolved lists every field that is not resolved, in library order
func (r *FinancialRecord) Unresolved() []string {
	var keys []string
	for _, key := range r.order {
		if !r.Fields[key].IsResolved() {
			keys = append(keys, key)
		}
	}
	return keys
}

// CountByStatus tallies the field outcomes
func (r *FinancialRecord) CountByStatus() map[Status]int {
	counts := map[Status]int{
		StatusResolved:  0,
		StatusAmbiguous: 0,
		StatusMissing:   0,
		StatusInvalid:   0,
	}
	for _, f := range r.Fields {
		counts[f.Status]++
	}
	return counts
}

type fieldJSON struct {
	Value      any     `json:"value"`
	Confidence float64 `json:"confidence"`
	Status     Status  `json:"status"`
	Raw        string  `json:"raw,omitempty"`
	Line       *int    `json:"line,omitempty"`
	Page       *int    `json:"page,omitempty"`
	Rule       string  `json:"rule,omitempty"`
	Error      string  `json:"error,omitempty"`
}

type recordJSON struct {
	CompanyInfo        map[string]fieldJSON `json:"company_info"`
	CreditMetrics      map[string]fieldJSON `json:"credit_metrics"`
	FinancialData      map[string]fieldJSON `json:"financial_data"`
	PaymentInfo        map[string]fieldJSON `json:"payment_info"`
	Dates              map[string]fieldJSON `json:"dates"`
	DocumentConfidence float64              `json:"document_confidence"`
	Warnings           []Warning            `json:"warnings"`
	MissingRequired    []string             `json:"missing_required"`
	LibraryVersion     string               `json:"library_version"`
}

// MarshalJSON writes the grouped output document. Line numbers are 1-based.
func (r *FinancialRecord) MarshalJSON() ([]byte, error) {
	out := recordJSON{
		CompanyInfo:        map[string]fieldJSON{},
		CreditMetrics:      map[string]fieldJSON{},
		FinancialData:      map[string]fieldJSON{},
		PaymentInfo:        map[string]fieldJSON{},
		Dates:              map[string]fieldJSON{},
		DocumentConfidence: r.DocumentConfidence,
		Warnings:           r.Warnings,
		MissingRequired:    r.MissingRequired(),
		LibraryVersion:     r.LibraryVersion,
	}
	if out.Warnings == nil {
		out.Warnings = []Warning{}
	}

	byGroup := map[patterns.Group]map[string]fieldJSON{
		patterns.GroupCompanyInfo:   out.CompanyInfo,
		patterns.GroupCreditMetrics: out.CreditMetrics,
		patterns.GroupFinancialData: out.FinancialData,
		patterns.GroupPaymentInfo:   out.PaymentInfo,
		patterns.GroupDates:         out.Dates,
	}

	for _, key := range r.order {
		f := r.Fields[key]
		entry := fieldJSON{
			Value:      f.Value.jsonValue(),
			Confidence: f.Confidence,
			Status:     f.Status,
			Raw:        f.Raw,
		}
		if f.Provenance != nil {
			line, page := f.Provenance.Line+1, f.Provenance.Page
			entry.Line = &line
			entry.Page = &page
			entry.Rule = f.Provenance.RuleID
		}
		if f.Error != nil {
			entry.Error = f.Error.Error()
		}
		if group, ok := byGroup[r.groups[key]]; ok {
			group[key] = entry
		}
	}

	return json.Marshal(out)
}
