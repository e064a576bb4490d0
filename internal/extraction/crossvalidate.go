package extraction

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/a3tai/mcp-findoc-extractor/internal/patterns"
)

// Tolerances configure the numeric cross-checks
type Tolerances struct {
	// Balance is the relative tolerance of assets = liabilities + net worth
	Balance float64 `json:"balance"`
	// Ratio is the relative tolerance of reported ratios against recomputed ones
	Ratio float64 `json:"ratio"`
}

// DefaultTolerances returns the built-in tolerances
func DefaultTolerances() Tolerances {
	return Tolerances{
		Balance: 0.01,
		Ratio:   0.05,
	}
}

// Warning is a cross-field consistency finding. It never changes values.
type Warning struct {
	Rule    string   `json:"rule"`
	Fields  []string `json:"fields_involved"`
	Message string   `json:"message"`
}

// operands maps field keys to resolved numeric values (percent in points)
type operands map[string]decimal.Decimal

// check is one cross-field rule. It runs only when every field in Fields is
// resolved and numeric; evaluate returns an empty string when consistent.
type check struct {
	Name     string
	Fields   []string
	evaluate func(v operands, tol Tolerances) string
}

// defaultChecks returns the built-in consistency rules
func defaultChecks() []check {
	return []check{
		{
			Name:   "balance_identity",
			Fields: []string{"total_assets", "total_liabilities", "net_worth"},
			evaluate: func(v operands, tol Tolerances) string {
				assets := v["total_assets"]
				sum := v["total_liabilities"].Add(v["net_worth"])
				scale := decimal.Max(assets.Abs(), sum.Abs())
				allowed := scale.Mul(decimal.NewFromFloat(tol.Balance))
				if assets.Sub(sum).Abs().LessThanOrEqual(allowed) {
					return ""
				}
				return fmt.Sprintf("total assets %s differ from liabilities plus net worth %s by more than %s%%",
					assets, sum, percentString(tol.Balance))
			},
		},
		{
			Name:   "debt_to_equity_consistency",
			Fields: []string{"debt_to_equity", "total_liabilities", "net_worth"},
			evaluate: func(v operands, tol Tolerances) string {
				equity := v["net_worth"]
				if equity.IsZero() {
					return "net worth is zero so debt-to-equity cannot be verified"
				}
				reported := v["debt_to_equity"]
				expected := v["total_liabilities"].DivRound(equity, 6)
				if withinRatioTolerance(reported, expected, tol.Ratio) {
					return ""
				}
				return fmt.Sprintf("debt-to-equity %s does not match liabilities / net worth = %s",
					reported, expected.StringFixed(2))
			},
		},
		{
			Name:   "current_ratio_positive",
			Fields: []string{"current_ratio"},
			evaluate: func(v operands, _ Tolerances) string {
				if v["current_ratio"].IsPositive() {
					return ""
				}
				return fmt.Sprintf("current ratio %s is not positive", v["current_ratio"])
			},
		},
		{
			Name:   "on_time_percentage_bounds",
			Fields: []string{"on_time_percentage"},
			evaluate: func(v operands, _ Tolerances) string {
				p := v["on_time_percentage"]
				if !p.IsNegative() && p.LessThanOrEqual(hundred) {
					return ""
				}
				return fmt.Sprintf("on-time percentage %s is outside 0-100", p)
			},
		},
		{
			Name:   "profit_margin_plausibility",
			Fields: []string{"profit_margin"},
			evaluate: func(v operands, _ Tolerances) string {
				if v["profit_margin"].Abs().LessThanOrEqual(hundred) {
					return ""
				}
				return fmt.Sprintf("profit margin %s%% is implausible", v["profit_margin"])
			},
		},
		{
			Name:   "profit_margin_consistency",
			Fields: []string{"profit_margin", "profit", "revenue"},
			evaluate: func(v operands, tol Tolerances) string {
				revenue := v["revenue"]
				if revenue.IsZero() {
					return ""
				}
				reported := v["profit_margin"]
				expected := v["profit"].Mul(hundred).DivRound(revenue, 6)
				if withinRatioTolerance(reported, expected, tol.Ratio) {
					return ""
				}
				return fmt.Sprintf("profit margin %s%% does not match profit / revenue = %s%%",
					reported, expected.StringFixed(2))
			},
		},
	}
}

// withinRatioTolerance compares a reported figure with a recomputed one. The
// allowance is the relative tolerance, but never less than half a unit in the
// last printed decimal place of the reported figure.
func withinRatioTolerance(reported, expected decimal.Decimal, tolerance float64) bool {
	allowed := expected.Abs().Mul(decimal.NewFromFloat(tolerance))
	if rounding := halfLastDigit(reported); rounding.GreaterThan(allowed) {
		allowed = rounding
	}
	return reported.Sub(expected).Abs().LessThanOrEqual(allowed)
}

func halfLastDigit(d decimal.Decimal) decimal.Decimal {
	exp := d.Exponent()
	if exp > 0 {
		exp = 0
	}
	return decimal.New(5, exp-1)
}

func percentString(fraction float64) string {
	return decimal.NewFromFloat(fraction * 100).String()
}

// CrossValidate runs every consistency check whose operands are resolved and
// returns the fields with penalised confidences plus the warnings raised. The
// input map is not modified; values and provenance are never changed.
func CrossValidate(lib *patterns.Library, fields map[string]ExtractedField, tol Tolerances) (map[string]ExtractedField, []Warning) {
	out := make(map[string]ExtractedField, len(fields))
	for k, f := range fields {
		out[k] = f
	}

	values := collectOperands(lib, fields)
	var warnings []Warning

	for _, chk := range defaultChecks() {
		if !hasAll(values, chk.Fields) {
			continue
		}
		msg := chk.evaluate(values, tol)
		if msg == "" {
			continue
		}

		warnings = append(warnings, Warning{
			Rule:    chk.Name,
			Fields:  append([]string(nil), chk.Fields...),
			Message: msg,
		})
		for _, key := range chk.Fields {
			f := out[key]
			f.Confidence = floorConfidence(f.Confidence - CrossCheckPenalty)
			out[key] = f
		}
	}

	return out, warnings
}

func collectOperands(lib *patterns.Library, fields map[string]ExtractedField) operands {
	values := make(operands)
	for key, f := range fields {
		if !f.IsResolved() {
			continue
		}
		n, ok := f.Value.Number()
		if !ok {
			continue
		}
		if spec, found := lib.Field(key); found &&
			spec.Type == patterns.FieldTypePercent && spec.Percent == patterns.PercentFraction {
			n = n.Mul(hundred)
		}
		values[key] = n
	}
	return values
}

func hasAll(values operands, keys []string) bool {
	for _, k := range keys {
		if _, ok := values[k]; !ok {
			return false
		}
	}
	return true
}
