package mcp

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/a3tai/mcp-findoc-extractor/internal/config"
	"github.com/a3tai/mcp-findoc-extractor/internal/pdf"
)

const reportText = `CREDIT REPORT
Report Date: 15 December 2024

Company Name: TechFlow Solutions Limited
Credit Score: 75 / 100
Risk Level: LOW TO MEDIUM
--- Page Break ---
Total Assets: £2,450,000
Total Liabilities: £1,320,000
Net Worth: £1,130,000
`

func testConfig(dir string) *config.Config {
	return &config.Config{
		Mode:             config.ModeStdio,
		Host:             "127.0.0.1",
		Port:             8080,
		Directory:        dir,
		BalanceTolerance: 0.01,
		RatioTolerance:   0.05,
		Workers:          2,
		Version:          "1.0.0",
		ServerName:       "test-server",
		LogLevel:         "info",
		MaxFileSize:      1024 * 1024,
	}
}

// newTestServer builds a server over a fresh report directory
func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	dir := t.TempDir()
	cfg := testConfig(dir)

	pdfService, err := pdf.NewService(cfg.MaxFileSize, cfg.Directory, nil)
	if err != nil {
		t.Fatalf("Failed to create PDF service: %v", err)
	}
	server, err := NewServer(cfg, pdfService)
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}
	return server, dir
}

func writeReport(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func callRequest(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

// extractTextFromResult concatenates the text content of a tool result
func extractTextFromResult(result *mcp.CallToolResult) string {
	if result == nil {
		return ""
	}
	var text string
	for _, content := range result.Content {
		if textContent, ok := content.(mcp.TextContent); ok {
			text += textContent.Text
		}
	}
	return text
}
