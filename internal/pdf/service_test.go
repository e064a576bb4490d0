package pdf

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/mcp-findoc-extractor/internal/extraction"
	"github.com/a3tai/mcp-findoc-extractor/internal/patterns"
)

func newTestService(t *testing.T) (*Service, string) {
	t.Helper()
	dir := t.TempDir()
	svc, err := NewService(1024*1024, dir, nil)
	require.NoError(t, err)
	return svc, dir
}

func TestNewService(t *testing.T) {
	_, err := NewService(1024, "", nil)
	assert.Error(t, err)

	svc, _ := newTestService(t)
	assert.NotNil(t, svc.Engine())
	assert.Equal(t, patterns.DefaultVersion, svc.Engine().Library().Version())
	assert.NoError(t, svc.ValidateConfiguration())

	_, err = NewService(0, t.TempDir(), nil)
	assert.ErrorContains(t, err, "maxFileSize must be greater than 0")
	_, err = NewService(2<<30, t.TempDir(), nil)
	assert.ErrorContains(t, err, "cannot exceed 1GB")
}

func TestService_ExtractFile_Text(t *testing.T) {
	svc, dir := newTestService(t)
	writeFile(t, dir, "reports/techflow.txt", sampleText)

	result, err := svc.ExtractFile(ExtractFileRequest{Path: "reports/techflow.txt"})

	require.NoError(t, err)
	_, err = uuid.Parse(result.AnalysisID)
	assert.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "reports", "techflow.txt"), result.Path)
	assert.Equal(t, FormatText, result.Format)
	assert.Equal(t, 2, result.Pages)

	record := result.Record
	score := record.Fields["credit_score"]
	require.Equal(t, extraction.StatusResolved, score.Status)
	assert.Equal(t, int64(75), score.Value.Int)

	nw := record.Fields["net_worth"]
	require.Equal(t, extraction.StatusResolved, nw.Status)
	assert.Equal(t, 2, nw.Provenance.Page)
	assert.Empty(t, record.Warnings, "assets = liabilities + net worth")
}

func TestService_ExtractFile_PDF(t *testing.T) {
	svc, dir := newTestService(t)
	writeTextPDF(t, filepath.Join(dir, "report.pdf"), "Credit Score: 75", "Net Worth: 1,130,000")

	result, err := svc.ExtractFile(ExtractFileRequest{Path: filepath.Join(dir, "report.pdf")})

	require.NoError(t, err)
	assert.Equal(t, FormatPDF, result.Format)
	assert.Equal(t, 2, result.Pages)

	nw := result.Record.Fields["net_worth"]
	require.Equal(t, extraction.StatusResolved, nw.Status, "%v", nw.Error)
	n, ok := nw.Value.Number()
	require.True(t, ok)
	assert.True(t, decimal.NewFromInt(1130000).Equal(n))
	assert.Equal(t, 2, nw.Provenance.Page)
}

func TestService_ExtractFile_Errors(t *testing.T) {
	svc, dir := newTestService(t)
	writeTextPDF(t, filepath.Join(dir, "scan.pdf"), "")

	_, err := svc.ExtractFile(ExtractFileRequest{Path: "/etc/passwd"})
	assert.ErrorContains(t, err, "security validation failed")

	_, err = svc.ExtractFile(ExtractFileRequest{Path: "../escape.txt"})
	assert.Error(t, err)

	_, err = svc.ExtractFile(ExtractFileRequest{Path: "scan.pdf"})
	assert.ErrorIs(t, err, ErrNoTextLayer)
}

func TestService_ExtractText(t *testing.T) {
	svc, _ := newTestService(t)

	result := svc.ExtractText(ExtractTextRequest{Text: "Credit Score: 75"})
	assert.Equal(t, FormatText, result.Format)
	assert.Equal(t, 1.0, result.Record.Fields["credit_score"].Confidence)

	result = svc.ExtractText(ExtractTextRequest{Text: "Credit Score: 75", Confidence: 0.5})
	assert.InDelta(t, 0.5, result.Record.Fields["credit_score"].Confidence, 1e-9)

	empty := svc.ExtractText(ExtractTextRequest{})
	assert.Zero(t, empty.Record.DocumentConfidence)
	assert.Equal(t, []string{"company_name", "credit_score"}, empty.Record.MissingRequired())

	first := svc.ExtractText(ExtractTextRequest{Text: sampleText})
	second := svc.ExtractText(ExtractTextRequest{Text: sampleText})
	assert.NotEqual(t, first.AnalysisID, second.AnalysisID)

	a, err := json.Marshal(first.Record)
	require.NoError(t, err)
	b, err := json.Marshal(second.Record)
	require.NoError(t, err)
	assert.JSONEq(t, string(a), string(b), "records do not depend on the analysis id")
}

func TestService_ExtractFiles(t *testing.T) {
	svc, dir := newTestService(t)
	writeFile(t, dir, "a.txt", "Credit Score: 61")
	writeFile(t, dir, "b.txt", "Credit Score: 82")

	outcomes, err := svc.ExtractFiles(context.Background(), []string{"a.txt", "missing.txt", "b.txt"}, 2)

	require.NoError(t, err)
	require.Len(t, outcomes, 3)

	require.NoError(t, outcomes[0].Err)
	assert.Equal(t, int64(61), outcomes[0].Result.Record.Fields["credit_score"].Value.Int)
	assert.Equal(t, filepath.Join(dir, "a.txt"), outcomes[0].Result.Path)

	assert.Error(t, outcomes[1].Err)
	assert.Nil(t, outcomes[1].Result)
	assert.Equal(t, "missing.txt", outcomes[1].Path)

	require.NoError(t, outcomes[2].Err)
	assert.Equal(t, int64(82), outcomes[2].Result.Record.Fields["credit_score"].Value.Int)
}

func TestService_ExtractFiles_Cancelled(t *testing.T) {
	svc, dir := newTestService(t)
	writeFile(t, dir, "a.txt", "Credit Score: 61")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.ExtractFiles(ctx, []string{"a.txt"}, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestService_ListAndValidate(t *testing.T) {
	svc, dir := newTestService(t)
	writeFile(t, dir, "report.txt", sampleText)

	list, err := svc.ListDocuments(ListDocumentsRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, list.TotalCount)
	assert.Equal(t, dir, list.Directory)

	_, err = svc.ListDocuments(ListDocumentsRequest{Directory: "/etc"})
	assert.Error(t, err)

	valid, err := svc.ValidateFile(ValidateFileRequest{Path: "report.txt"})
	require.NoError(t, err)
	assert.True(t, valid.Valid)
	assert.Equal(t, filepath.Join(dir, "report.txt"), valid.Path)
}

func TestService_ServerInfo(t *testing.T) {
	svc, dir := newTestService(t)
	writeFile(t, dir, "report.txt", sampleText)

	info := svc.ServerInfo("findoc", "1.2.3")

	assert.Equal(t, "findoc", info.ServerName)
	assert.Equal(t, dir, info.DefaultDirectory)
	assert.Len(t, info.DirectoryContents, 1)
	assert.Len(t, info.Library.Fields, patterns.Default().Len())
	assert.NotEmpty(t, info.AvailableTools)
	assert.Contains(t, info.UsageGuidance, "1MB")
}

func TestService_LibraryInfo(t *testing.T) {
	svc, _ := newTestService(t)

	info := svc.LibraryInfo()
	assert.Equal(t, patterns.DefaultVersion, info.Version)

	var score FieldInfo
	for _, f := range info.Fields {
		if f.Key == "credit_score" {
			score = f
		}
	}
	assert.True(t, score.Required)
	assert.Equal(t, "credit_metrics", score.Group)
	assert.Equal(t, "[0, 100]", score.Range)
	assert.Contains(t, score.Rules, "credit_score.labelled")
	assert.Contains(t, info.String(), "credit_score")
	assert.True(t, json.Valid(info.Schema))
	assert.Contains(t, string(info.Schema), "document_confidence")
}
