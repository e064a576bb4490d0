package pdf

import (
	"encoding/json"

	"github.com/a3tai/mcp-findoc-extractor/internal/extraction"
)

// Source formats accepted by the reader
const (
	FormatPDF  = "pdf"
	FormatText = "text"
)

// FileInfo represents information about a readable report file
type FileInfo struct {
	Path         string `json:"path"`
	Name         string `json:"name"`
	Format       string `json:"format"`
	Size         int64  `json:"size"`
	ModifiedTime string `json:"modified_time"`
}

// Request Types

// ExtractFileRequest represents a request to extract a financial record from a file
type ExtractFileRequest struct {
	Path string `json:"path"`
}

// ExtractTextRequest represents a request to extract a financial record from plain text
type ExtractTextRequest struct {
	Text string `json:"text"`
	// Confidence applies to every line; zero means digital text (1.0)
	Confidence float64 `json:"confidence,omitempty"`
}

// ListDocumentsRequest represents a request to list report files in a directory
type ListDocumentsRequest struct {
	Directory string `json:"directory"`
	Query     string `json:"query"`
}

// ValidateFileRequest represents a request to validate a report file
type ValidateFileRequest struct {
	Path string `json:"path"`
}

// Response Types

// ExtractResult wraps an extracted record with the details of its source
type ExtractResult struct {
	AnalysisID string                      `json:"analysis_id"`
	Path       string                      `json:"path,omitempty"`
	Format     string                      `json:"format"`
	Pages      int                         `json:"pages"`
	Lines      int                         `json:"lines"`
	Record     *extraction.FinancialRecord `json:"record"`
}

// ListDocumentsResult represents the result of a directory listing
type ListDocumentsResult struct {
	Files       []FileInfo `json:"files"`
	TotalCount  int        `json:"total_count"`
	Directory   string     `json:"directory"`
	SearchQuery string     `json:"search_query,omitempty"`
}

// ValidateFileResult represents the result of a file validation
type ValidateFileResult struct {
	Valid   bool   `json:"valid"`
	Path    string `json:"path"`
	Format  string `json:"format,omitempty"`
	Pages   int    `json:"pages,omitempty"`
	Message string `json:"message,omitempty"`
}

// ServerInfoResult describes the server, its pattern library and the files it can see
type ServerInfoResult struct {
	ServerName        string      `json:"server_name"`
	Version           string      `json:"version"`
	DefaultDirectory  string      `json:"default_directory"`
	MaxFileSize       int64       `json:"max_file_size"`
	Library           LibraryInfo `json:"library"`
	AvailableTools    []ToolInfo  `json:"available_tools"`
	DirectoryContents []FileInfo  `json:"directory_contents"`
	UsageGuidance     string      `json:"usage_guidance"`
}

// LibraryInfo summarises the active pattern library
type LibraryInfo struct {
	Version string      `json:"version"`
	Fields  []FieldInfo `json:"fields"`

	// Schema is the JSON schema of the extracted record
	Schema json.RawMessage `json:"record_schema,omitempty"`
}

// FieldInfo describes one extractable field
type FieldInfo struct {
	Key      string   `json:"key"`
	Label    string   `json:"label"`
	Group    string   `json:"group"`
	Type     string   `json:"type"`
	Required bool     `json:"required"`
	Rules    []string `json:"rules"`
	Range    string   `json:"range,omitempty"`
}

// ToolInfo represents information about an available tool
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Parameters  string `json:"parameters"`
}
