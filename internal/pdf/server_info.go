package pdf

import (
	"fmt"
	"time"

	"github.com/a3tai/mcp-findoc-extractor/internal/descriptions"
	"github.com/a3tai/mcp-findoc-extractor/internal/extraction"
	"github.com/a3tai/mcp-findoc-extractor/internal/patterns"
)

const (
	directoryPreviewLimit   = 100
	directoryPreviewTimeout = 5 * time.Second
)

// LibraryInfo describes the fields the engine's pattern library extracts
func (s *Service) LibraryInfo() LibraryInfo {
	lib := s.engine.Library()
	info := LibraryInfo{
		Version: lib.Version(),
		Fields:  make([]FieldInfo, 0, lib.Len()),
		Schema:  extraction.RecordSchema(),
	}

	for _, group := range patterns.Groups() {
		for _, spec := range lib.FieldsInGroup(group) {
			info.Fields = append(info.Fields, fieldInfo(spec))
		}
	}

	return info
}

func fieldInfo(spec patterns.FieldSpec) FieldInfo {
	rules := make([]string, len(spec.Rules))
	for i, rule := range spec.Rules {
		rules[i] = rule.ID
	}
	field := FieldInfo{
		Key:      spec.Key,
		Label:    spec.Label,
		Group:    string(spec.Group),
		Type:     string(spec.Type),
		Required: spec.Required,
		Rules:    rules,
	}
	if spec.Range != nil {
		field.Range = spec.Range.String()
	}
	return field
}

// ServerInfo returns server information, the active library and a preview of
// the configured directory
func (s *Service) ServerInfo(serverName, version string) *ServerInfoResult {
	dir := s.pathValidator.Root()

	resultChan := make(chan []FileInfo, 1)
	go func() {
		files, err := s.search.FindDocumentsLimited(dir, directoryPreviewLimit)
		if err != nil {
			files = []FileInfo{}
		}
		resultChan <- files
	}()

	// a slow or missing directory must not block the response
	var contents []FileInfo
	select {
	case contents = <-resultChan:
	case <-time.After(directoryPreviewTimeout):
		contents = []FileInfo{}
	}

	tools := make([]ToolInfo, 0, len(descriptions.Tools))
	for _, tool := range descriptions.Tools {
		tools = append(tools, ToolInfo{
			Name:        tool.Name,
			Description: tool.Summary,
			Parameters:  tool.Parameters,
		})
	}

	return &ServerInfoResult{
		ServerName:        serverName,
		Version:           version,
		DefaultDirectory:  dir,
		MaxFileSize:       s.maxFileSize,
		Library:           s.LibraryInfo(),
		AvailableTools:    tools,
		DirectoryContents: contents,
		UsageGuidance:     descriptions.UsageGuidance(s.maxFileSize / (1024 * 1024)),
	}
}

// String renders the library as a short human readable listing
func (l LibraryInfo) String() string {
	out := fmt.Sprintf("pattern library %s, %d fields\n", l.Version, len(l.Fields))
	for _, f := range l.Fields {
		req := ""
		if f.Required {
			req = " (required)"
		}
		out += fmt.Sprintf("  %-22s %-14s %-8s%s\n", f.Key, f.Group, f.Type, req)
	}
	return out
}
