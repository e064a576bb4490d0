package descriptions

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToolsHaveDescriptions(t *testing.T) {
	assert.Len(t, ToolDescriptions, len(Tools))
	for _, tool := range Tools {
		assert.NotEqual(t, "Tool description not available", GetToolDescription(tool.Name), tool.Name)
		assert.NotEmpty(t, tool.Summary, tool.Name)
	}
}

func TestGetToolDescription_Unknown(t *testing.T) {
	assert.Equal(t, "Tool description not available", GetToolDescription("pdf_read_file"))
}

func TestGetAllToolNames_Order(t *testing.T) {
	names := GetAllToolNames()
	assert.Equal(t, ExtractTextTool, names[0])
	assert.Equal(t, ServerInfoTool, names[len(names)-1])
}

func TestUsageGuidance(t *testing.T) {
	guide := UsageGuidance(100)
	assert.Contains(t, guide, "100MB")
	assert.Contains(t, guide, ExtractFileTool)
	assert.NotContains(t, guide, "%!")
}
