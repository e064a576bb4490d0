package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/mcp-findoc-extractor/internal/document"
	"github.com/a3tai/mcp-findoc-extractor/internal/patterns"
)

func docWithConfidence(lines ...any) document.RawDocumentText {
	var doc document.RawDocumentText
	for i := 0; i+1 < len(lines); i += 2 {
		doc.Lines = append(doc.Lines, document.Line{
			Text:       lines[i].(string),
			Confidence: lines[i+1].(float64),
			Page:       1,
		})
	}
	return doc
}

func TestPriorityFactor(t *testing.T) {
	assert.Equal(t, 1.0, priorityFactor(1))
	assert.InDelta(t, 0.9, priorityFactor(2), 1e-9)
	assert.InDelta(t, 0.8, priorityFactor(3), 1e-9)
	assert.Equal(t, 0.5, priorityFactor(9))
	assert.Equal(t, 1.0, priorityFactor(0))
}

func TestExtract_MultipleFieldsPerLine(t *testing.T) {
	doc := document.FromText("Credit Score: 75 / 100 | Credit Rating: B+", 1.0)

	got := Extract(doc, patterns.Default())

	require.NotEmpty(t, got["credit_score"])
	require.NotEmpty(t, got["credit_rating"])
	assert.Equal(t, "75", got["credit_score"][0].Raw)
	assert.Equal(t, "B+", got["credit_rating"][0].Raw)
}

func TestExtract_Provenance(t *testing.T) {
	doc := document.FromText("REPORT\n\nNet Worth: £1,130,000\n--- Page Break ---\nCurrent Ratio: 1.85", 1.0)

	got := Extract(doc, patterns.Default())

	require.Len(t, got["net_worth"], 1)
	nw := got["net_worth"][0]
	assert.Equal(t, 2, nw.Line)
	assert.Equal(t, 1, nw.Page)
	assert.Equal(t, len("Net Worth: "), nw.Column)
	assert.Equal(t, "net_worth.labelled", nw.RuleID)

	require.Len(t, got["current_ratio"], 1)
	assert.Equal(t, 2, got["current_ratio"][0].Page)
}

func TestExtract_RankingByPriorityThenConfidence(t *testing.T) {
	doc := docWithConfidence(
		"Score: 40", 1.0,
		"Credit Score: 61", 0.6,
		"Credit Score: 75", 0.9,
	)

	got := Extract(doc, patterns.Default())["credit_score"]

	require.Len(t, got, 3)
	assert.Equal(t, "75", got[0].Raw)
	assert.Equal(t, "61", got[1].Raw)
	assert.Equal(t, "40", got[2].Raw)
	assert.InDelta(t, 0.8, got[2].Confidence, 1e-9)
}

func TestExtract_SameRuleSameLineDeduplicated(t *testing.T) {
	doc := document.FromText("Total Assets: £2,450,000", 1.0)

	got := Extract(doc, patterns.Default())["total_assets"]

	// the bare "Assets:" rule only fires at the start of a line
	require.Len(t, got, 1)
	assert.Equal(t, "total_assets.labelled", got[0].RuleID)
}

func TestExtract_WrappedValue(t *testing.T) {
	doc := document.FromText("Total Assets:\n\n£2,450,000\nTotal Liabilities: £1,000,000", 1.0)

	got := Extract(doc, patterns.Default())

	require.Len(t, got["total_assets"], 1)
	ta := got["total_assets"][0]
	assert.True(t, ta.Wrapped)
	assert.Equal(t, 2, ta.Line)
	assert.Equal(t, "£2,450,000", ta.Raw)
	assert.InDelta(t, 0.9, ta.Confidence, 1e-9)
}

func TestExtract_CorrectedLines(t *testing.T) {
	doc := document.Normalize(document.FromText("Credit Score: 7S", 1.0))

	got := Extract(doc, patterns.Default())["credit_score"]

	require.NotEmpty(t, got)
	assert.Equal(t, "75", got[0].Raw)
	assert.True(t, got[0].Corrected)
}

func TestExtract_CorrectionOutsideCapture(t *testing.T) {
	doc := document.Normalize(document.FromText("Credit Score: 75 | Net Worth: £1,13O,OOO", 1.0))

	got := Extract(doc, patterns.Default())

	require.NotEmpty(t, got["credit_score"])
	assert.False(t, got["credit_score"][0].Corrected)
	require.NotEmpty(t, got["net_worth"])
	assert.True(t, got["net_worth"][0].Corrected)
}

func TestExtract_Empty(t *testing.T) {
	assert.Empty(t, Extract(document.RawDocumentText{}, patterns.Default()))
}

func TestResolve(t *testing.T) {
	spec := specFor(t, "credit_score")

	t.Run("no candidates", func(t *testing.T) {
		f := Resolve(spec, nil)
		assert.Equal(t, StatusMissing, f.Status)
		assert.Zero(t, f.Confidence)
		assert.Nil(t, f.Provenance)
	})

	t.Run("single out of range candidate", func(t *testing.T) {
		f := Resolve(spec, []Candidate{candidate("credit_score", "750")})
		assert.Equal(t, StatusInvalid, f.Status)
		assert.Zero(t, f.Confidence)
	})

	t.Run("falls back to next valid candidate", func(t *testing.T) {
		first := candidate("credit_score", "750")
		second := candidate("credit_score", "75")
		second.Line = 9
		f := Resolve(spec, []Candidate{first, second})
		require.Equal(t, StatusResolved, f.Status)
		assert.Equal(t, int64(75), f.Value.Int)
		assert.Equal(t, 9, f.Provenance.Line)
	})

	t.Run("weaker rule never overrules an invalid stronger one", func(t *testing.T) {
		first := candidate("credit_score", "750")
		second := candidate("credit_score", "80")
		second.RuleID = "credit_score.bare"
		second.Priority = 3
		f := Resolve(spec, []Candidate{first, second})
		assert.Equal(t, StatusInvalid, f.Status)
		assert.Equal(t, "750", f.Raw)
		assert.Equal(t, "credit_score.labelled", f.Provenance.RuleID)
	})

	t.Run("reports best ranked when nothing validates", func(t *testing.T) {
		first := candidate("credit_score", "750")
		second := candidate("credit_score", "x")
		f := Resolve(spec, []Candidate{first, second})
		assert.Equal(t, StatusInvalid, f.Status)
		assert.Equal(t, "750", f.Raw)
	})
}

func TestResolveAll_OneEntryPerField(t *testing.T) {
	lib := patterns.Default()
	fields := ResolveAll(lib, map[string][]Candidate{
		"credit_score": {candidate("credit_score", "75")},
	})

	assert.Len(t, fields, lib.Len())
	assert.Equal(t, StatusResolved, fields["credit_score"].Status)
	assert.Equal(t, StatusMissing, fields["revenue"].Status)
}
