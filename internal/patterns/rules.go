package patterns

// DefaultVersion identifies the built-in library revision
const DefaultVersion = "findoc-2024.12"

// onTimeSeparator skips a payment count printed before the percentage:
// "On-Time Payments: 145 (93%)"
const onTimeSeparator = `\s*[:=\-–]?\s*(?:[0-9][0-9,]*\s*\(\s*)?`

var defaultLibrary = mustNew(DefaultVersion, defaultFieldSpecs())

// Default returns the built-in library. It is shared and immutable.
func Default() *Library {
	return defaultLibrary
}

func mustNew(version string, specs []FieldSpec) *Library {
	lib, err := New(version, specs)
	if err != nil {
		panic("patterns: invalid built-in library: " + err.Error())
	}
	return lib
}

// defaultFieldSpecs returns the built-in field definitions in output order
func defaultFieldSpecs() []FieldSpec {
	return []FieldSpec{
		// Company information
		{
			Key:      "company_name",
			Label:    "Company Name",
			Group:    GroupCompanyInfo,
			Type:     FieldTypeText,
			Required: true,
			Rules: []PatternRule{
				{
					ID:            "company_name.labelled",
					Anchor:        `Company\s+Name|Registered\s+Name|Legal\s+Name|Business\s+Name`,
					Separator:     `\s*[:\-–]?\s*`,
					Value:         RestOfLineValue,
					Priority:      1,
					AllowNextLine: true,
				},
				{
					ID:        "company_name.subject",
					Anchor:    `Trading\s+Name|Subject\s+Company|Company|Entity(?:\s+Name)?`,
					Separator: ColonSeparator,
					Value:     RestOfLineValue,
					Priority:  2,
				},
			},
		},
		{
			Key:        "registration_number",
			Label:      "Registration Number",
			Group:      GroupCompanyInfo,
			Type:       FieldTypeIdentifier,
			Identifier: IdentifierRegistration,
			Rules: []PatternRule{
				{
					ID:            "registration_number.labelled",
					Anchor:        `(?:Company\s+)?Registration\s+(?:Number|No\.?)|Company\s+(?:Number|No\.?)|Reg(?:istered)?\.?\s+No\.?`,
					Value:         TokenValue,
					Priority:      1,
					AllowNextLine: true,
				},
				{
					ID:        "registration_number.crn",
					Anchor:    `CRN`,
					Separator: ColonSeparator,
					Value:     TokenValue,
					Priority:  2,
				},
			},
		},
		{
			Key:        "lei_code",
			Label:      "LEI Code",
			Group:      GroupCompanyInfo,
			Type:       FieldTypeIdentifier,
			Identifier: IdentifierLEI,
			Rules: []PatternRule{
				{
					ID:            "lei_code.labelled",
					Anchor:        `LEI(?:\s+(?:Code|Number))?|Legal\s+Entity\s+Identifier`,
					Value:         `[A-Za-z0-9]+`,
					Priority:      1,
					AllowNextLine: true,
				},
			},
		},
		{
			Key:        "duns_number",
			Label:      "DUNS Number",
			Group:      GroupCompanyInfo,
			Type:       FieldTypeIdentifier,
			Identifier: IdentifierDUNS,
			Rules: []PatternRule{
				{
					ID:            "duns_number.labelled",
					Anchor:        `D-?U-?N-?S(?:\s+(?:Number|No\.?|#))?`,
					Value:         DigitGroupsValue,
					Priority:      1,
					AllowNextLine: true,
				},
			},
		},

		// Credit metrics
		{
			Key:      "credit_score",
			Label:    "Credit Score",
			Group:    GroupCreditMetrics,
			Type:     FieldTypeInteger,
			Required: true,
			Range:    Between(0, 100),
			Rules: []PatternRule{
				{
					ID:            "credit_score.labelled",
					Anchor:        `Credit\s+Score`,
					Value:         IntegerValue,
					Priority:      1,
					AllowNextLine: true,
				},
				{
					ID:       "credit_score.rating_score",
					Anchor:   `Rating\s+Score|Risk\s+Score`,
					Value:    IntegerValue,
					Priority: 2,
				},
				{
					ID:        "credit_score.bare",
					Anchor:    `Score`,
					Separator: ColonSeparator,
					Value:     IntegerValue,
					Priority:  3,
				},
			},
		},
		{
			Key:   "credit_rating",
			Label: "Credit Rating",
			Group: GroupCreditMetrics,
			Type:  FieldTypeEnum,
			Vocabulary: []EnumValue{
				{Value: "AAA"},
				{Value: "AA+"}, {Value: "AA"}, {Value: "AA-"},
				{Value: "A+"}, {Value: "A"}, {Value: "A-"},
				{Value: "BBB+"}, {Value: "BBB"}, {Value: "BBB-"},
				{Value: "BB+"}, {Value: "BB"}, {Value: "BB-"},
				{Value: "B+"}, {Value: "B"}, {Value: "B-"},
				{Value: "CCC+"}, {Value: "CCC"}, {Value: "CCC-"},
				{Value: "CC"}, {Value: "C"}, {Value: "D"},
			},
			Rules: []PatternRule{
				{
					ID:       "credit_rating.labelled",
					Anchor:   `Credit\s+Rating|Credit\s+Grade`,
					Value:    GradeValue,
					Priority: 1,
				},
				{
					ID:       "credit_rating.rating_grade",
					Anchor:   `Rating\s+Grade|Rating\s+Band`,
					Value:    GradeValue,
					Priority: 2,
				},
			},
		},
		{
			Key:   "credit_limit",
			Label: "Credit Limit",
			Group: GroupCreditMetrics,
			Type:  FieldTypeCurrency,
			Range: AtLeast(0),
			Rules: []PatternRule{
				{
					ID:            "credit_limit.labelled",
					Anchor:        `(?:Recommended\s+)?Credit\s+Limit`,
					Value:         MoneyValue,
					Priority:      1,
					AllowNextLine: true,
				},
				{
					ID:       "credit_limit.credit_line",
					Anchor:   `Max(?:imum)?\s+Credit|Credit\s+Line`,
					Value:    MoneyValue,
					Priority: 2,
				},
			},
		},
		{
			Key:   "risk_level",
			Label: "Risk Level",
			Group: GroupCreditMetrics,
			Type:  FieldTypeEnum,
			Vocabulary: []EnumValue{
				{Value: "very_low", Aliases: []string{"very low", "very low risk", "minimal"}},
				{Value: "low", Aliases: []string{"low", "low risk"}},
				{Value: "low_to_medium", Aliases: []string{"low to medium", "low medium", "low to moderate", "low moderate"}},
				{Value: "medium", Aliases: []string{"medium", "moderate", "average", "medium risk", "moderate risk"}},
				{Value: "medium_to_high", Aliases: []string{"medium to high", "medium high", "moderate to high", "moderate high"}},
				{Value: "high", Aliases: []string{"high", "high risk", "elevated"}},
				{Value: "very_high", Aliases: []string{"very high", "very high risk", "severe"}},
			},
			Rules: []PatternRule{
				{
					ID:       "risk_level.labelled",
					Anchor:   `Risk\s+(?:Level|Category|Band|Rating)`,
					Value:    PhraseValue,
					Priority: 1,
				},
			},
		},

		// Financial data
		{
			Key:   "revenue",
			Label: "Revenue",
			Group: GroupFinancialData,
			Type:  FieldTypeCurrency,
			Rules: []PatternRule{
				{
					ID:            "revenue.labelled",
					Anchor:        `(?:Total\s+|Annual\s+)?Revenue|Turnover|Net\s+Sales`,
					Value:         MoneyValue,
					Priority:      1,
					AllowNextLine: true,
				},
				{
					ID:        "revenue.sales",
					Anchor:    `Sales|Total\s+Income|Gross\s+Income`,
					Separator: ColonSeparator,
					Value:     MoneyValue,
					Priority:  2,
				},
			},
		},
		{
			Key:   "profit",
			Label: "Profit Before Tax",
			Group: GroupFinancialData,
			Type:  FieldTypeCurrency,
			Rules: []PatternRule{
				{
					ID:            "profit.before_tax",
					Anchor:        `Profit\s+Before\s+Tax(?:ation)?|Pre-?\s?tax\s+Profit|PBT`,
					Value:         MoneyValue,
					Priority:      1,
					AllowNextLine: true,
				},
				{
					ID:       "profit.net",
					Anchor:   `Net\s+Profit|Profit\s+After\s+Tax|Net\s+Income`,
					Value:    MoneyValue,
					Priority: 2,
				},
				{
					ID:        "profit.bare",
					Anchor:    `Profit`,
					Separator: ColonSeparator,
					Value:     MoneyValue,
					Priority:  3,
				},
			},
		},
		{
			Key:   "total_assets",
			Label: "Total Assets",
			Group: GroupFinancialData,
			Type:  FieldTypeCurrency,
			Range: AtLeast(0),
			Rules: []PatternRule{
				{
					ID:            "total_assets.labelled",
					Anchor:        `Total\s+Assets`,
					Value:         MoneyValue,
					Priority:      1,
					AllowNextLine: true,
				},
				{
					ID:        "total_assets.bare",
					Anchor:    `Assets`,
					LineStart: true,
					Separator: ColonSeparator,
					Value:     MoneyValue,
					Priority:  2,
				},
			},
		},
		{
			Key:   "total_liabilities",
			Label: "Total Liabilities",
			Group: GroupFinancialData,
			Type:  FieldTypeCurrency,
			Range: AtLeast(0),
			Rules: []PatternRule{
				{
					ID:            "total_liabilities.labelled",
					Anchor:        `Total\s+Liabilities`,
					Value:         MoneyValue,
					Priority:      1,
					AllowNextLine: true,
				},
				{
					ID:        "total_liabilities.bare",
					Anchor:    `Liabilities`,
					LineStart: true,
					Separator: ColonSeparator,
					Value:     MoneyValue,
					Priority:  2,
				},
			},
		},
		{
			Key:   "net_worth",
			Label: "Net Worth",
			Group: GroupFinancialData,
			Type:  FieldTypeCurrency,
			Rules: []PatternRule{
				{
					ID:            "net_worth.labelled",
					Anchor:        `Net\s+Worth|Net\s+Assets|Total\s+Equity|Shareholders['’]?\s+Funds`,
					Value:         MoneyValue,
					Priority:      1,
					AllowNextLine: true,
				},
				{
					ID:        "net_worth.equity",
					Anchor:    `(?:Shareholders['’]?\s+)?Equity`,
					LineStart: true,
					Separator: ColonSeparator,
					Value:     MoneyValue,
					Priority:  2,
				},
			},
		},
		{
			Key:   "debt_to_equity",
			Label: "Debt-to-Equity Ratio",
			Group: GroupFinancialData,
			Type:  FieldTypeRatio,
			Rules: []PatternRule{
				{
					ID:       "debt_to_equity.labelled",
					Anchor:   `Debt[\s\-]*to[\s\-]*Equity(?:\s+Ratio)?|D/E(?:\s+Ratio)?`,
					Value:    RatioValue,
					Priority: 1,
				},
				{
					ID:       "debt_to_equity.gearing",
					Anchor:   `Gearing(?:\s+Ratio)?`,
					Value:    GearingValue,
					Priority: 2,
				},
			},
		},
		{
			Key:   "current_ratio",
			Label: "Current Ratio",
			Group: GroupFinancialData,
			Type:  FieldTypeRatio,
			Rules: []PatternRule{
				{
					ID:       "current_ratio.labelled",
					Anchor:   `Current\s+Ratio`,
					Value:    RatioValue,
					Priority: 1,
				},
				{
					ID:       "current_ratio.liquidity",
					Anchor:   `Liquidity\s+Ratio|Working\s+Capital\s+Ratio`,
					Value:    RatioValue,
					Priority: 2,
				},
			},
		},
		{
			Key:     "profit_margin",
			Label:   "Profit Margin",
			Group:   GroupFinancialData,
			Type:    FieldTypePercent,
			Percent: PercentPoints,
			Rules: []PatternRule{
				{
					ID:       "profit_margin.labelled",
					Anchor:   `(?:Net\s+|Operating\s+|Pre-?\s?tax\s+)?Profit\s+Margin|Net\s+Margin`,
					Value:    LoosePercentValue,
					Priority: 1,
				},
			},
		},

		// Payment information
		{
			Key:   "payment_terms",
			Label: "Payment Terms",
			Group: GroupPaymentInfo,
			Type:  FieldTypeText,
			Rules: []PatternRule{
				{
					ID:            "payment_terms.labelled",
					Anchor:        `Payment\s+Terms|Terms\s+of\s+Payment|Credit\s+Terms`,
					Separator:     `\s*[:\-–]?\s*`,
					Value:         RestOfLineValue,
					Priority:      1,
					AllowNextLine: true,
				},
				{
					ID:        "payment_terms.bare",
					Anchor:    `Terms`,
					Separator: ColonSeparator,
					Value:     `[^\n()]{2,60}`,
					Priority:  2,
				},
			},
		},
		{
			Key:     "on_time_percentage",
			Label:   "On-Time Payments",
			Group:   GroupPaymentInfo,
			Type:    FieldTypePercent,
			Percent: PercentPoints,
			Range:   Between(0, 100),
			Rules: []PatternRule{
				{
					ID:        "on_time_percentage.labelled",
					Anchor:    `On[\s\-]*Time\s+Payments?|Payments?\s+On[\s\-]*Time|Prompt\s+Payments?`,
					Separator: onTimeSeparator,
					Value:     PercentValue,
					Priority:  1,
				},
				{
					ID:        "on_time_percentage.paid_on_time",
					Anchor:    `Paid\s+On[\s\-]*Time|On[\s\-]*Time`,
					Separator: onTimeSeparator,
					Value:     PercentValue,
					Priority:  2,
				},
			},
		},
		{
			Key:   "average_payment_days",
			Label: "Average Payment Days",
			Group: GroupPaymentInfo,
			Type:  FieldTypeInteger,
			Range: Between(0, 365),
			Rules: []PatternRule{
				{
					ID:       "average_payment_days.labelled",
					Anchor:   `Average\s+Payment\s+(?:Days|Period)|Average\s+Days\s+to\s+Pay`,
					Value:    IntegerValue,
					Priority: 1,
				},
				{
					ID:       "average_payment_days.days_to_pay",
					Anchor:   `Days\s+to\s+Pay|Payment\s+Days`,
					Value:    IntegerValue,
					Priority: 2,
				},
			},
		},

		// Dates
		{
			Key:   "incorporation_date",
			Label: "Date of Incorporation",
			Group: GroupDates,
			Type:  FieldTypeDate,
			Rules: []PatternRule{
				{
					ID:            "incorporation_date.labelled",
					Anchor:        `Date\s+of\s+Incorporation|Incorporation\s+Date|Incorporated(?:\s+on)?`,
					Value:         DateValue,
					Priority:      1,
					AllowNextLine: true,
				},
				{
					ID:       "incorporation_date.established",
					Anchor:   `Date\s+Established|Established(?:\s+on)?`,
					Value:    DateValue,
					Priority: 2,
				},
			},
		},
		{
			Key:   "report_date",
			Label: "Report Date",
			Group: GroupDates,
			Type:  FieldTypeDate,
			Rules: []PatternRule{
				{
					ID:            "report_date.labelled",
					Anchor:        `Report\s+Date|Date\s+of\s+Report`,
					Value:         DateValue,
					Priority:      1,
					AllowNextLine: true,
				},
				{
					ID:       "report_date.generated",
					Anchor:   `(?:Report\s+)?Generated(?:\s+on)?|Prepared\s+on`,
					Value:    DateValue,
					Priority: 2,
				},
			},
		},
	}
}
