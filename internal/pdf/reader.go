package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/a3tai/mcp-findoc-extractor/internal/document"
)

// Reader turns report files into document text
type Reader struct {
	maxFileSize int64
	maxTextSize int
}

// NewReader creates a new reader with the specified constraints
func NewReader(maxFileSize int64) *Reader {
	return &Reader{
		maxFileSize: maxFileSize,
		maxTextSize: 10 * 1024 * 1024, // 10MB text limit
	}
}

// ReadDocument loads a PDF or plain text report. PDF pages become page
// indices; plain text pages advance on form feeds and page break markers.
// Digitally produced text carries confidence 1.0.
func (r *Reader) ReadDocument(path string) (document.RawDocumentText, string, error) {
	if path == "" {
		return document.RawDocumentText{}, "", fmt.Errorf("path cannot be empty")
	}

	fileInfo, err := os.Stat(path)
	if os.IsNotExist(err) {
		return document.RawDocumentText{}, "", fmt.Errorf("file does not exist: %s", path)
	}
	if err != nil {
		return document.RawDocumentText{}, "", fmt.Errorf("cannot access file: %w", err)
	}

	format, err := checkFileInfo(path, fileInfo, r.maxFileSize)
	if err != nil {
		return document.RawDocumentText{}, "", err
	}

	switch format {
	case FormatText:
		doc, err := r.readText(path)
		return doc, format, err
	default:
		doc, err := r.readPDF(path)
		return doc, format, err
	}
}

func (r *Reader) readText(path string) (document.RawDocumentText, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return document.RawDocumentText{}, fmt.Errorf("failed to read file: %w", err)
	}
	if len(data) > r.maxTextSize {
		data = data[:r.maxTextSize]
	}
	return document.FromText(string(data), 1.0), nil
}

func (r *Reader) readPDF(path string) (document.RawDocumentText, error) {
	f, pdfReader, err := pdf.Open(path)
	if err != nil {
		return document.RawDocumentText{}, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	pages, err := r.extractPages(pdfReader)
	if err != nil {
		return document.RawDocumentText{}, err
	}

	return document.FromPages(pages, 1.0), nil
}

// extractPages returns the plain text of every page, keeping empty pages so
// page indices stay aligned with the PDF
func (r *Reader) extractPages(pdfReader *pdf.Reader) ([]string, error) {
	numPages := pdfReader.NumPage()
	pages := make([]string, 0, numPages)
	totalLength := 0
	hasText := false

	for pageNum := 1; pageNum <= numPages; pageNum++ {
		content := pageText(pdfReader, pageNum)

		if totalLength+len(content) > r.maxTextSize {
			remaining := r.maxTextSize - totalLength
			if remaining > 0 {
				pages = append(pages, content[:remaining])
			}
			break
		}

		pages = append(pages, content)
		totalLength += len(content)
		if strings.TrimSpace(content) != "" {
			hasText = true
		}
	}

	if !hasText {
		return nil, ErrNoTextLayer
	}
	return pages, nil
}

// pageText extracts one page, treating unreadable pages as empty
func pageText(pdfReader *pdf.Reader, pageNum int) (text string) {
	defer func() {
		if recover() != nil {
			text = ""
		}
	}()

	page := pdfReader.Page(pageNum)
	if page.V.IsNull() {
		return ""
	}

	content, err := page.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return content
}

// formatOf maps a file extension to a source format
func formatOf(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return FormatPDF, nil
	case ".txt", ".text":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// checkFileInfo performs the checks that need no file content
func checkFileInfo(path string, fileInfo os.FileInfo, maxFileSize int64) (string, error) {
	if fileInfo.IsDir() {
		return "", fmt.Errorf("path is a directory, not a file: %s", path)
	}

	format, err := formatOf(path)
	if err != nil {
		return "", err
	}

	if fileInfo.Size() == 0 {
		return "", fmt.Errorf("file is empty: %s", path)
	}

	if fileInfo.Size() > maxFileSize {
		return "", fmt.Errorf("file too large: %d bytes (max: %d bytes)",
			fileInfo.Size(), maxFileSize)
	}

	return format, nil
}
