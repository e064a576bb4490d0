package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/a3tai/mcp-findoc-extractor/internal/config"
	"github.com/a3tai/mcp-findoc-extractor/internal/descriptions"
	"github.com/a3tai/mcp-findoc-extractor/internal/extraction"
	"github.com/a3tai/mcp-findoc-extractor/internal/pdf"
)

const (
	outputJSON    = "json"
	outputSummary = "summary"

	shutdownTimeout = 5 * time.Second
)

// Server represents the MCP server instance
type Server struct {
	config     *config.Config
	pdfService *pdf.Service
	mcpServer  *server.MCPServer
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, pdfService *pdf.Service) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if pdfService == nil {
		return nil, fmt.Errorf("pdfService cannot be nil")
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false), // the tool set is fixed
	)

	s := &Server{
		config:     cfg,
		pdfService: pdfService,
		mcpServer:  mcpServer,
	}

	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	formatOption := mcp.WithString("format",
		mcp.Description("Output format: 'json' (default) for the full record, 'summary' for readable text"),
		mcp.Enum(outputJSON, outputSummary),
	)

	extractTextTool := mcp.NewTool(
		descriptions.ExtractTextTool,
		mcp.WithDescription(descriptions.GetToolDescription(descriptions.ExtractTextTool)),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Plain text of the credit report"),
		),
		mcp.WithNumber("confidence",
			mcp.Description("Confidence of the text source between 0 and 1, e.g. 0.8 for OCR output (default 1.0)"),
		),
		formatOption,
	)
	s.mcpServer.AddTool(extractTextTool, s.handleExtractText)

	extractFileTool := mcp.NewTool(
		descriptions.ExtractFileTool,
		mcp.WithDescription(descriptions.GetToolDescription(descriptions.ExtractFileTool)),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to a PDF or .txt report, absolute or relative to the default directory"),
		),
		formatOption,
	)
	s.mcpServer.AddTool(extractFileTool, s.handleExtractFile)

	listDocumentsTool := mcp.NewTool(
		descriptions.ListDocumentsTool,
		mcp.WithDescription(descriptions.GetToolDescription(descriptions.ListDocumentsTool)),
		mcp.WithString("directory",
			mcp.Description("Directory to search (uses default if empty)"),
		),
		mcp.WithString("query",
			mcp.Description("Optional search query for fuzzy filename matching"),
		),
	)
	s.mcpServer.AddTool(listDocumentsTool, s.handleListDocuments)

	validateFileTool := mcp.NewTool(
		descriptions.ValidateFileTool,
		mcp.WithDescription(descriptions.GetToolDescription(descriptions.ValidateFileTool)),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the report file"),
		),
	)
	s.mcpServer.AddTool(validateFileTool, s.handleValidateFile)

	libraryInfoTool := mcp.NewTool(
		descriptions.LibraryInfoTool,
		mcp.WithDescription(descriptions.GetToolDescription(descriptions.LibraryInfoTool)),
	)
	s.mcpServer.AddTool(libraryInfoTool, s.handleLibraryInfo)

	serverInfoTool := mcp.NewTool(
		descriptions.ServerInfoTool,
		mcp.WithDescription(descriptions.GetToolDescription(descriptions.ServerInfoTool)),
	)
	s.mcpServer.AddTool(serverInfoTool, s.handleServerInfo)
}

// Handler functions
func (s *Server) handleExtractText(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	args := request.GetArguments()
	confidence := 1.0
	if c, ok := args["confidence"].(float64); ok {
		if c <= 0 || c > 1 {
			return mcp.NewToolResultError("confidence must be in (0, 1]"), nil
		}
		confidence = c
	}

	result := s.pdfService.ExtractText(pdf.ExtractTextRequest{Text: text, Confidence: confidence})
	return s.extractResponse(result, outputFormat(args))
}

func (s *Server) handleExtractFile(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pdfService.ExtractFile(pdf.ExtractFileRequest{Path: path})
	if err != nil {
		if errors.Is(err, pdf.ErrNoTextLayer) {
			return mcp.NewToolResultError(fmt.Sprintf("%s: %v. The PDF looks scanned; OCR it and use %s",
				path, err, descriptions.ExtractTextTool)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}

	return s.extractResponse(result, outputFormat(request.GetArguments()))
}

func (s *Server) handleListDocuments(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	directory := ""
	if dir, ok := args["directory"].(string); ok {
		directory = dir
	}

	query := ""
	if q, ok := args["query"].(string); ok {
		query = q
	}

	result, err := s.pdfService.ListDocuments(pdf.ListDocumentsRequest{
		Directory: directory,
		Query:     query,
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if result.TotalCount == 0 {
		responseText := fmt.Sprintf("No reports found in directory: %s", result.Directory)
		if result.SearchQuery != "" {
			responseText += fmt.Sprintf(" (searched for: %s)", result.SearchQuery)
		}
		return mcp.NewToolResultText(responseText), nil
	}

	return mcp.NewToolResultText(s.formatListDocumentsResult(result)), nil
}

func (s *Server) handleValidateFile(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pdfService.ValidateFile(pdf.ValidateFileRequest{Path: path})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var responseText string
	switch {
	case !result.Valid:
		responseText = fmt.Sprintf("Validation failed for %s: %s", result.Path, result.Message)
	case result.Format == pdf.FormatPDF:
		responseText = fmt.Sprintf("%s is a readable PDF with %d page(s)", result.Path, result.Pages)
	default:
		responseText = fmt.Sprintf("%s is a readable %s file", result.Path, result.Format)
	}

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleLibraryInfo(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.pdfService.LibraryInfo())
}

func (s *Server) handleServerInfo(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result := s.pdfService.ServerInfo(s.config.ServerName, s.config.Version)
	return mcp.NewToolResultText(s.formatServerInfoResult(result)), nil
}

func (s *Server) extractResponse(result *pdf.ExtractResult, format string) (*mcp.CallToolResult, error) {
	if format == outputSummary {
		return mcp.NewToolResultText(pdf.FormatSummary(result)), nil
	}

	record, err := json.Marshal(result.Record)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode record: %v", err)), nil
	}
	if err := extraction.ValidateRecordJSON(record); err != nil {
		log.Printf("Record for analysis %s failed schema validation: %v", result.AnalysisID, err)
		return mcp.NewToolResultError(fmt.Sprintf("record failed schema validation: %v", err)), nil
	}
	return jsonResult(result)
}

// outputFormat reads the optional format argument
func outputFormat(args map[string]any) string {
	if f, ok := args["format"].(string); ok && f == outputSummary {
		return outputSummary
	}
	return outputJSON
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// Formatting methods
func (s *Server) formatListDocumentsResult(result *pdf.ListDocumentsResult) string {
	text := fmt.Sprintf("Found %d report(s) in directory: %s\n", result.TotalCount, result.Directory)
	if result.SearchQuery != "" {
		text += fmt.Sprintf("Search query: %s\n", result.SearchQuery)
	}
	text += "\nFiles:\n"

	for i, file := range result.Files {
		text += fmt.Sprintf("%d. %s (%s)\n", i+1, file.Name, file.Format)
		text += fmt.Sprintf("   Path: %s\n", file.Path)
		text += fmt.Sprintf("   Size: %d bytes\n", file.Size)
		text += fmt.Sprintf("   Modified: %s\n", file.ModifiedTime)
		if i < len(result.Files)-1 {
			text += "\n"
		}
	}

	return text
}

func (s *Server) formatServerInfoResult(result *pdf.ServerInfoResult) string {
	text := fmt.Sprintf("📋 %s v%s - Server Information\n", result.ServerName, result.Version)
	text += fmt.Sprintf("📁 Default Directory: %s\n", result.DefaultDirectory)
	text += fmt.Sprintf("📏 Max File Size: %d MB\n", result.MaxFileSize/(1024*1024))
	text += fmt.Sprintf("📚 Pattern Library: %s (%d fields)\n\n", result.Library.Version, len(result.Library.Fields))

	if len(result.DirectoryContents) > 0 {
		text += fmt.Sprintf("📂 Directory Contents (%d reports found):\n", len(result.DirectoryContents))
		for i, file := range result.DirectoryContents {
			if i >= 10 { // Limit to first 10 files for readability
				text += fmt.Sprintf("   ... and %d more files\n", len(result.DirectoryContents)-10)
				break
			}
			text += fmt.Sprintf("   %d. %s (%d bytes)\n", i+1, file.Name, file.Size)
		}
		text += "\n"
	} else {
		text += "📂 Directory Contents: No reports found in default directory\n\n"
	}

	text += "🛠️  Available Tools:\n"
	for _, tool := range result.AvailableTools {
		text += fmt.Sprintf("\n• %s\n", tool.Name)
		text += fmt.Sprintf("  Description: %s\n", tool.Description)
		text += fmt.Sprintf("  Parameters: %s\n", tool.Parameters)
	}

	text += "\n" + result.UsageGuidance

	return text
}

// Run starts the MCP server in the configured mode
func (s *Server) Run(ctx context.Context) error {
	switch s.config.Mode {
	case config.ModeServer:
		return s.runServerMode(ctx)
	case config.ModeStdio:
		return s.runStdioMode(ctx)
	default:
		return fmt.Errorf("unsupported mode: %s", s.config.Mode)
	}
}

// runStdioMode runs the server in stdio mode
func (s *Server) runStdioMode(_ context.Context) error {
	if s.config.IsDebug() {
		log.Printf("Starting findoc MCP server in stdio mode")
		log.Printf("Report directory: %s", s.config.Directory)
	}

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}

// runServerMode serves MCP over SSE until the context is cancelled
func (s *Server) runServerMode(ctx context.Context) error {
	addr := s.config.Address()
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL("http://"+addr))

	errChan := make(chan error, 1)
	go func() {
		log.Printf("Starting findoc MCP server (SSE) on %s", addr)
		errChan <- sseServer.Start(addr)
	}()

	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("SSE server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := sseServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down SSE server: %w", err)
		}
		log.Printf("SSE server stopped")
		return ctx.Err()
	}
}
