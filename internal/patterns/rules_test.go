package patterns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// firstMatch returns the best-priority capture of a field on one line
func firstMatch(t *testing.T, key, line string) (string, string) {
	t.Helper()
	field, ok := Default().Field(key)
	require.True(t, ok, key)
	for _, rule := range field.Rules {
		if matches := rule.FindAll(line); len(matches) > 0 {
			return matches[0].Value, rule.ID
		}
	}
	return "", ""
}

func TestDefaultRules_Captures(t *testing.T) {
	tests := []struct {
		key  string
		line string
		want string
	}{
		{"company_name", "Company Name: TechFlow Solutions Limited", "TechFlow Solutions Limited"},
		{"company_name", "Trading Name: TechFlow Solutions", "TechFlow Solutions"},
		{"registration_number", "Registration Number: 08765432", "08765432"},
		{"registration_number", "Company No. SC123456 (Scotland)", "SC123456"},
		{"lei_code", "LEI Code: 254900ABCDEF1234GHIJ56", "254900ABCDEF1234GHIJ56"},
		{"duns_number", "DUNS Number: 123456789", "123456789"},
		{"duns_number", "D-U-N-S: 12-345-6789", "12-345-6789"},
		{"credit_score", "Credit Score: 75 / 100", "75"},
		{"credit_score", "Credit Score: 7S", "7S"},
		{"credit_score", "Score: 64", "64"},
		{"credit_rating", "Credit Rating: B+ (Good)", "B+"},
		{"risk_level", "Risk Level: LOW TO MEDIUM", "LOW TO MEDIUM"},
		{"credit_limit", "Credit Limit (Recommended): £150,000", "£150,000"},
		{"credit_limit", "Recommended Credit Limit: £1.5m", "£1.5m"},
		{"payment_terms", "Payment Terms: Net 30 days", "Net 30 days"},
		{"revenue", "Revenue (Turnover): £4,850,000", "£4,850,000"},
		{"revenue", "Turnover 2023: €4.850.000,00", "€4.850.000,00"},
		{"revenue", "Revenue: (£12,000)", "(£12,000)"},
		{"profit", "Profit Before Tax: £485,000", "£485,000"},
		{"profit", "Net Profit: -£25,000", "-£25,000"},
		{"total_assets", "Total Assets: £2,450,000", "£2,450,000"},
		{"total_assets", "• Assets: £900,000", "£900,000"},
		{"total_liabilities", "Total Liabilities: £1,320,000", "£1,320,000"},
		{"net_worth", "Net Worth: £1,130,000", "£1,130,000"},
		{"net_worth", "Net Worth: 1,450,000 2023", "1,450,000"},
		{"revenue", "Revenue (£000) 950 875", "950"},
		{"current_ratio", "Current Ratio: 1.85", "1.85"},
		{"current_ratio", "Current Ratio: 1.85:1", "1.85:1"},
		{"debt_to_equity", "Debt-to-Equity Ratio: 0.42", "0.42"},
		{"debt_to_equity", "Gearing: 45%", "45%"},
		{"debt_to_equity", "Gearing Ratio: 0.45", "0.45"},
		{"profit_margin", "Profit Margin: 10.0%", "10.0%"},
		{"profit_margin", "Net Profit Margin: 8.5", "8.5"},
		{"on_time_percentage", "- On-Time Payments: 145 (93%)", "93%"},
		{"on_time_percentage", "On-Time Payment: 93%", "93%"},
		{"average_payment_days", "Average Payment Days: 28 days (Terms: Net 30)", "28"},
		{"incorporation_date", "Date of Incorporation: 12 March 2018", "12 March 2018"},
		{"report_date", "Report Date: 15 December 2024", "15 December 2024"},
		{"report_date", "Report Date: 2024-12-15", "2024-12-15"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"/"+tt.line, func(t *testing.T) {
			got, _ := firstMatch(t, tt.key, tt.line)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDefaultRules_NoFalsePositives(t *testing.T) {
	tests := []struct {
		key  string
		line string
	}{
		{"credit_score", "CREDIT SCORE & RATING"},
		{"company_name", "Legal Form: Private Limited Company"},
		{"profit", "Profit Margin: 10.0%"},
		{"revenue", "Revenue growth was strong"},
		{"on_time_percentage", "On-Time Payments were consistent"},
		{"report_date", "Report Reference: CS-2024-UK-789456"},
		{"credit_rating", "Risk Rating: High"},
		{"total_assets", "Net Assets: 1,450,000"},
		{"total_assets", "Current Assets: 800,000"},
		{"total_liabilities", "Current Liabilities: 300,000"},
		{"net_worth", "Debt to Equity: 0.42"},
		{"net_worth", "Net Worth: 1,450,0002"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"/"+tt.line, func(t *testing.T) {
			got, rule := firstMatch(t, tt.key, tt.line)
			assert.Empty(t, got, "unexpected capture by %s", rule)
		})
	}
}

func TestDefaultRules_PriorityOrder(t *testing.T) {
	_, rule := firstMatch(t, "credit_score", "Credit Score: 75 / 100")
	assert.Equal(t, "credit_score.labelled", rule)

	_, rule = firstMatch(t, "credit_score", "Risk Score: 40")
	assert.Equal(t, "credit_score.rating_score", rule)
}

func TestPatternRule_FindWrapped(t *testing.T) {
	field, ok := Default().Field("total_assets")
	require.True(t, ok)
	rule := field.Rules[0]

	m, ok := rule.FindWrapped("Total Assets:", "£2,450,000")
	require.True(t, ok)
	assert.Equal(t, "£2,450,000", m.Value)
	assert.Equal(t, 0, m.Column)

	_, ok = rule.FindWrapped("Total Assets: £1", "£2,450,000")
	assert.False(t, ok, "label line that already carries a value")

	_, ok = rule.FindWrapped("Total Assets:", "see note 4")
	assert.False(t, ok)
}

func TestPatternRule_FindAllMultiple(t *testing.T) {
	field, ok := Default().Field("total_assets")
	require.True(t, ok)

	matches := field.Rules[0].FindAll("Total Assets: £1,000 | Total Assets: £2,000")

	require.Len(t, matches, 2)
	assert.Equal(t, "£1,000", matches[0].Value)
	assert.Equal(t, "£2,000", matches[1].Value)
	assert.Less(t, matches[0].Column, matches[1].Column)
}

func TestPatternRule_CaptureNeverSplitsDigits(t *testing.T) {
	field, ok := Default().Field("revenue")
	require.True(t, ok)

	for _, line := range []string{"Revenue: 950 875", "Revenue: 1,450,0002", "Revenue: 12.5 3"} {
		for _, m := range field.Rules[0].FindAll(line) {
			end := m.Column + len(m.Value)
			if end < len(line) {
				assert.False(t, isASCIIDigit(line[end-1]) && isASCIIDigit(line[end]), "%q split at %d", line, end)
			}
		}
	}

	matches := field.Rules[0].FindAll("Revenue: 950 875")
	require.Len(t, matches, 1)
	assert.Equal(t, "950", matches[0].Value)
	assert.Empty(t, field.Rules[0].FindAll("Revenue: 1,450,0002"))
}
