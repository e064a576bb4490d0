package pdf

import (
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Validator handles report file validation operations
type Validator struct {
	maxFileSize int64
}

// NewValidator creates a new validator with the specified constraints
func NewValidator(maxFileSize int64) *Validator {
	return &Validator{
		maxFileSize: maxFileSize,
	}
}

// ValidateFile checks that a file can be read. Problems with the file are
// reported in the result, not as an error.
func (v *Validator) ValidateFile(req ValidateFileRequest) (*ValidateFileResult, error) {
	result := &ValidateFileResult{
		Path:  req.Path,
		Valid: false,
	}

	format, pages, err := v.validateFile(req.Path)
	if err != nil {
		result.Message = err.Error()
		return result, nil //nolint:nilerr // Return result with validation error, not a processing error
	}

	result.Valid = true
	result.Format = format
	result.Pages = pages
	return result, nil
}

// validateFile returns the source format and, for PDFs, the page count
func (v *Validator) validateFile(filePath string) (string, int, error) {
	if filePath == "" {
		return "", 0, fmt.Errorf("path cannot be empty")
	}

	fileInfo, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return "", 0, fmt.Errorf("file does not exist: %s", filePath)
	}
	if err != nil {
		return "", 0, fmt.Errorf("cannot access file: %w", err)
	}

	format, err := checkFileInfo(filePath, fileInfo, v.maxFileSize)
	if err != nil {
		return "", 0, err
	}
	if format != FormatPDF {
		return format, 0, nil
	}

	pages, err := pdfPageCount(filePath)
	if err != nil {
		return "", 0, fmt.Errorf("invalid PDF file: %w", err)
	}
	return format, pages, nil
}

// ValidateFileInfo performs basic validation on file info without opening the file
func (v *Validator) ValidateFileInfo(filePath string, fileInfo os.FileInfo) error {
	_, err := checkFileInfo(filePath, fileInfo, v.maxFileSize)
	return err
}

// pdfPageCount parses the document structure in relaxed mode
func pdfPageCount(filePath string) (int, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return 0, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(file, conf)
	if err != nil {
		return 0, fmt.Errorf("failed to read PDF context: %w", err)
	}

	if err := ctx.EnsurePageCount(); err != nil {
		return 0, fmt.Errorf("failed to ensure page count: %w", err)
	}

	return ctx.PageCount, nil
}
