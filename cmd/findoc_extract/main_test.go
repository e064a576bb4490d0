package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const report = `Company Name: TechFlow Solutions Limited
Credit Score: 75
Total Assets: 2,450,000
Total Liabilities: 1,320,000
Net Worth: 1,130,000
`

func writeReport(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_JSONDirectory(t *testing.T) {
	dir := t.TempDir()
	writeReport(t, dir, "reports/a.txt", report)
	writeReport(t, dir, "reports/b.txt", strings.ReplaceAll(report, "75", "42"))

	code, stdout, stderr := runCLI(t, "", "-dir", dir, "-format", "json", "-workers", "2", "reports")
	require.Equal(t, exitOK, code, stderr)

	var outputs []struct {
		Path   string `json:"path"`
		Error  string `json:"error"`
		Result struct {
			Record struct {
				CreditMetrics map[string]struct {
					Value float64 `json:"value"`
				} `json:"credit_metrics"`
			} `json:"record"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &outputs))
	require.Len(t, outputs, 2)

	scores := map[string]float64{}
	for _, out := range outputs {
		assert.Empty(t, out.Error)
		scores[filepath.Base(out.Path)] = out.Result.Record.CreditMetrics["credit_score"].Value
	}
	assert.Equal(t, map[string]float64{"a.txt": 75, "b.txt": 42}, scores)
}

func TestRun_TextAndStdin(t *testing.T) {
	dir := t.TempDir()
	writeReport(t, dir, "a.txt", report)

	code, stdout, stderr := runCLI(t, report, "-dir", dir, "a.txt", "-")
	require.Equal(t, exitOK, code, stderr)

	assert.Contains(t, stdout, "== "+filepath.Join(dir, "a.txt")+" ==")
	assert.Contains(t, stdout, "== - ==")
	assert.Equal(t, 2, strings.Count(stdout, "TechFlow Solutions Limited"))
}

func TestRun_PartialFailure(t *testing.T) {
	dir := t.TempDir()
	writeReport(t, dir, "a.txt", report)

	code, stdout, _ := runCLI(t, "", "-dir", dir, "missing.txt", "a.txt")

	assert.Equal(t, exitFailed, code)
	assert.Contains(t, stdout, "error: file does not exist")
	assert.Contains(t, stdout, "TechFlow Solutions Limited")
	assert.Less(t, strings.Index(stdout, "missing.txt"), strings.Index(stdout, "a.txt"), "command line order is kept")
}

func TestRun_UsageErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		args []string
	}{
		{"no sources", []string{"-dir", dir}},
		{"bad format", []string{"-dir", dir, "-format", "xml", "a.txt"}},
		{"bad confidence", []string{"-dir", dir, "-confidence", "0", "-"}},
		{"bad tolerance", []string{"-dir", dir, "-tolerance", "0.9", "a.txt"}},
		{"unknown flag", []string{"-nope"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := runCLI(t, "", tt.args...)
			assert.Equal(t, exitUsage, code)
			assert.NotEmpty(t, stderr)
		})
	}
}

func TestRun_Help(t *testing.T) {
	code, stdout, _ := runCLI(t, "", "-help")
	assert.Equal(t, exitOK, code)
	assert.Contains(t, stdout, "USAGE:")
}

func TestRun_RulesFile(t *testing.T) {
	dir := t.TempDir()
	writeReport(t, dir, "a.txt", report+"Employees: 120\n")

	extra := filepath.Join(dir, "extra.yaml")
	require.NoError(t, os.WriteFile(extra, []byte(`
fields:
  - key: employee_count
    group: company_info
    type: integer
    rules:
      - anchor: 'Employees'
`), 0o644))

	code, stdout, stderr := runCLI(t, "", "-dir", dir, "-rules", extra, "a.txt")
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, "employee_count")

	clash := filepath.Join(dir, "clash.yaml")
	require.NoError(t, os.WriteFile(clash, []byte(`
fields:
  - key: credit_score
    group: credit_metrics
    type: integer
    rules:
      - anchor: 'Rating Points'
`), 0o644))

	code, _, stderr = runCLI(t, "", "-dir", dir, "-rules", clash, "a.txt")
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr, "credit_score")
}
