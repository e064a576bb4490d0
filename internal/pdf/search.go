package pdf

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Search handles report discovery operations
type Search struct {
	validator *Validator
}

// NewSearch creates a new search handler with the specified constraints
func NewSearch(maxFileSize int64) *Search {
	return &Search{
		validator: NewValidator(maxFileSize),
	}
}

// ListDocuments walks a directory for readable report files, optionally
// filtered by a fuzzy filename query
func (s *Search) ListDocuments(req ListDocumentsRequest) (*ListDocumentsResult, error) {
	files, absDirectory, err := s.walk(req.Directory, strings.ToLower(strings.TrimSpace(req.Query)), 0)
	if err != nil {
		return nil, err
	}

	return &ListDocumentsResult{
		Files:       files,
		TotalCount:  len(files),
		Directory:   absDirectory,
		SearchQuery: req.Query,
	}, nil
}

// FindDocumentsLimited lists at most limit report files; limit <= 0 means no limit
func (s *Search) FindDocumentsLimited(directory string, limit int) ([]FileInfo, error) {
	files, _, err := s.walk(directory, "", limit)
	return files, err
}

func (s *Search) walk(directory, query string, limit int) ([]FileInfo, string, error) {
	if directory == "" {
		return nil, "", fmt.Errorf("directory cannot be empty")
	}

	if _, err := os.Stat(directory); os.IsNotExist(err) {
		return nil, "", fmt.Errorf("directory does not exist: %s", directory)
	}

	absDirectory, err := filepath.Abs(directory)
	if err != nil {
		return nil, "", fmt.Errorf("failed to resolve directory path: %w", err)
	}

	files := []FileInfo{}
	err = filepath.WalkDir(absDirectory, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}

		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != absDirectory {
				return filepath.SkipDir
			}
			return nil
		}

		// symlinks may point outside the directory
		if d.Type()&fs.ModeSymlink != 0 {
			return nil
		}

		if limit > 0 && len(files) >= limit {
			return filepath.SkipAll
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}

		if err := s.validator.ValidateFileInfo(path, info); err != nil {
			return nil
		}

		if !matchesQuery(info.Name(), query) {
			return nil
		}

		format, _ := formatOf(path)
		files = append(files, FileInfo{
			Path:         path,
			Name:         info.Name(),
			Format:       format,
			Size:         info.Size(),
			ModifiedTime: info.ModTime().Format("2006-01-02 15:04:05"),
		})
		return nil
	})
	if err != nil {
		return nil, "", fmt.Errorf("error walking directory: %w", err)
	}

	return files, absDirectory, nil
}

// matchesQuery performs fuzzy matching on the filename: every query word
// must appear inside some filename word
func matchesQuery(filename, query string) bool {
	if query == "" {
		return true
	}

	fileName := strings.ToLower(filename)
	if strings.Contains(fileName, query) {
		return true
	}

	nameWithoutExt := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	words := splitIntoWords(nameWithoutExt)

	for _, queryWord := range splitIntoWords(query) {
		found := false
		for _, word := range words {
			if strings.Contains(word, queryWord) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	return true
}

// splitIntoWords splits a string into lowercase words using common separators
func splitIntoWords(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		switch r {
		case ' ', '_', '-', '.', '(', ')', '[', ']':
			return true
		}
		return false
	})
}
