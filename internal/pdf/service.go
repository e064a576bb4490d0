package pdf

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/a3tai/mcp-findoc-extractor/internal/document"
	"github.com/a3tai/mcp-findoc-extractor/internal/extraction"
	"github.com/a3tai/mcp-findoc-extractor/internal/pdf/security"
)

// Service reads report files inside the configured directory and runs them
// through the extraction engine
type Service struct {
	maxFileSize   int64
	engine        *extraction.Engine
	reader        *Reader
	validator     *Validator
	search        *Search
	pathValidator *security.PathValidator
}

// FileOutcome is the result of one file in a batch
type FileOutcome struct {
	Path   string
	Result *ExtractResult
	Err    error
}

// NewService creates a new service with all components
func NewService(maxFileSize int64, configuredDirectory string, engine *extraction.Engine) (*Service, error) {
	pathValidator, err := security.NewPathValidator(configuredDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to create path validator: %w", err)
	}
	if engine == nil {
		engine = extraction.NewEngine(nil, extraction.DefaultOptions())
	}

	s := &Service{
		maxFileSize:   maxFileSize,
		engine:        engine,
		reader:        NewReader(maxFileSize),
		validator:     NewValidator(maxFileSize),
		search:        NewSearch(maxFileSize),
		pathValidator: pathValidator,
	}
	if err := s.ValidateConfiguration(); err != nil {
		return nil, err
	}
	return s, nil
}

// ExtractFile reads a PDF or text report and extracts its financial record
func (s *Service) ExtractFile(req ExtractFileRequest) (*ExtractResult, error) {
	path, doc, format, err := s.load(req.Path)
	if err != nil {
		return nil, err
	}

	result := s.process(doc, format)
	result.Path = path
	log.Printf("Extracted %s (%s): %d/%d fields resolved, %d warnings, analysis %s",
		path, format, result.Record.CountByStatus()[extraction.StatusResolved],
		len(result.Record.Fields), len(result.Record.Warnings), result.AnalysisID)
	return result, nil
}

// ExtractText extracts a financial record from plain text
func (s *Service) ExtractText(req ExtractTextRequest) *ExtractResult {
	confidence := req.Confidence
	if confidence <= 0 {
		confidence = 1.0
	}
	return s.process(document.FromText(req.Text, confidence), FormatText)
}

// ExtractFiles processes several files with a bounded worker pool. Files that
// cannot be read are reported in their outcome and do not stop the batch.
func (s *Service) ExtractFiles(ctx context.Context, paths []string, workers int) ([]FileOutcome, error) {
	outcomes := make([]FileOutcome, len(paths))
	formats := make([]string, 0, len(paths))
	docs := make([]document.RawDocumentText, 0, len(paths))
	slots := make([]int, 0, len(paths))

	for i, p := range paths {
		outcomes[i].Path = p
		resolved, doc, format, err := s.load(p)
		if err != nil {
			outcomes[i].Err = err
			continue
		}
		outcomes[i].Path = resolved
		docs = append(docs, doc)
		formats = append(formats, format)
		slots = append(slots, i)
	}

	records, err := extraction.ProcessBatch(ctx, s.engine, docs, workers)
	if err != nil {
		return nil, fmt.Errorf("batch extraction failed: %w", err)
	}

	for j, i := range slots {
		outcomes[i].Result = s.wrap(docs[j], formats[j], records[j])
		outcomes[i].Result.Path = outcomes[i].Path
	}
	return outcomes, nil
}

// ValidateFile checks that a file inside the configured directory can be read
func (s *Service) ValidateFile(req ValidateFileRequest) (*ValidateFileResult, error) {
	path, err := s.pathValidator.Resolve(req.Path)
	if err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}
	req.Path = path
	return s.validator.ValidateFile(req)
}

// ListDocuments lists readable report files, defaulting to the configured directory
func (s *Service) ListDocuments(req ListDocumentsRequest) (*ListDocumentsResult, error) {
	dir, err := s.pathValidator.ResolveDirectory(req.Directory)
	if err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}
	req.Directory = dir
	return s.search.ListDocuments(req)
}

// Engine returns the extraction engine
func (s *Service) Engine() *extraction.Engine {
	return s.engine
}

// ValidateConfiguration validates the service configuration
func (s *Service) ValidateConfiguration() error {
	if s.maxFileSize <= 0 {
		return fmt.Errorf("maxFileSize must be greater than 0")
	}

	if s.maxFileSize > 1024*1024*1024 { // 1GB limit
		return fmt.Errorf("maxFileSize cannot exceed 1GB")
	}

	return nil
}

func (s *Service) load(path string) (string, document.RawDocumentText, string, error) {
	resolved, err := s.pathValidator.Resolve(path)
	if err != nil {
		return "", document.RawDocumentText{}, "", fmt.Errorf("security validation failed: %w", err)
	}

	doc, format, err := s.reader.ReadDocument(resolved)
	if err != nil {
		return "", document.RawDocumentText{}, "", err
	}
	return resolved, doc, format, nil
}

func (s *Service) process(doc document.RawDocumentText, format string) *ExtractResult {
	return s.wrap(doc, format, s.engine.Process(doc))
}

func (s *Service) wrap(doc document.RawDocumentText, format string, record *extraction.FinancialRecord) *ExtractResult {
	return &ExtractResult{
		AnalysisID: uuid.New().String(),
		Format:     format,
		Pages:      doc.PageCount(),
		Lines:      doc.LineCount(),
		Record:     record,
	}
}
