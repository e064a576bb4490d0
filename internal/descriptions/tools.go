package descriptions

import "fmt"

// Tool names exposed by the server
const (
	ExtractTextTool   = "findoc_extract_text"
	ExtractFileTool   = "findoc_extract_file"
	ListDocumentsTool = "findoc_list_documents"
	ValidateFileTool  = "findoc_validate_file"
	LibraryInfoTool   = "findoc_library_info"
	ServerInfoTool    = "findoc_server_info"
)

// Comprehensive tool descriptions with practical examples and use cases

const (
	ExtractTextDescription = `Extract a structured financial record from the plain text of a credit report.

**When to use:** You already have the report text (pasted, OCR output, copied from an email) and need company details, credit metrics, financials, payment behaviour and key dates as structured data.

**Why it's useful:** Every field comes back with a value, a confidence score, a status (resolved, missing, invalid, ambiguous) and the line it was read from, so downstream systems can decide what to trust.

**Examples:**
• Score a supplier: "Extract the credit score and risk level from this Creditsafe report text"
• Check the balance sheet: "Pull total assets, liabilities and net worth from this pasted summary"
• OCR output: pass confidence 0.8 for text recovered by OCR to lower every field's confidence

**Output:** JSON grouped into company_info, credit_metrics, financial_data, payment_info and dates, plus document_confidence, cross-check warnings and missing_required.

**Best practices:** Pass the whole report, not fragments; labels and values on separate lines are handled. Check warnings before relying on figures that disagree with each other.`

	ExtractFileDescription = `Extract a structured financial record from a PDF or text credit report on disk.

**When to use:** The report is a digitally produced PDF or a .txt file inside the configured directory.

**Why it's useful:** Reads every page, keeps page numbers for provenance, and returns the same record as findoc_extract_text with an analysis_id for auditing.

**Examples:**
• "Extract the financial record from reports/techflow-2024.pdf"
• "What credit limit does acme-credit-report.pdf recommend?"

**Common workflows:**
1. Discovery: findoc_list_documents → findoc_extract_file for each report
2. Triage: findoc_validate_file → findoc_extract_file → review warnings and missing_required

**Best practices:** Scanned PDFs without a text layer are rejected; run OCR first and use findoc_extract_text with a confidence below 1.`

	ListDocumentsDescription = `List PDF and text reports available for extraction.

**When to use:** Before extracting, to find which reports exist in the configured directory or one of its subdirectories.

**Examples:**
• "List all reports" (no parameters)
• "Find reports mentioning techflow" (query: "techflow")

**Best practices:** Queries match filename words fuzzily; every query word must appear in the name.`

	ValidateFileDescription = `Check that a report file can be read before extracting it.

**When to use:** In automated pipelines or for user uploads, to catch unsupported formats, empty files, oversized files and corrupted PDFs early.

**Output:** valid flag, detected format, PDF page count and a message explaining any problem.`

	LibraryInfoDescription = `Describe the active pattern library: every field the engine extracts, its group, type, validity range, whether it is required, and the rules that recognise it.

**When to use:** To understand what a record will contain, or to check that custom rules from a rules file were loaded.`

	ServerInfoDescription = `Get server status, the active pattern library, available tools and a preview of the configured directory.

**When to use:** At the start of a session to learn what the server can do and which reports are available.`
)

// ToolDescriptions maps tool names to their comprehensive descriptions
var ToolDescriptions = map[string]string{
	ExtractTextTool:   ExtractTextDescription,
	ExtractFileTool:   ExtractFileDescription,
	ListDocumentsTool: ListDocumentsDescription,
	ValidateFileTool:  ValidateFileDescription,
	LibraryInfoTool:   LibraryInfoDescription,
	ServerInfoTool:    ServerInfoDescription,
}

// ToolSummary is the one-line form of a tool used in server info listings
type ToolSummary struct {
	Name       string
	Summary    string
	Parameters string
}

// Tools lists the tools in the order they are registered
var Tools = []ToolSummary{
	{
		Name:       ExtractTextTool,
		Summary:    "Extract a financial record from report text",
		Parameters: "text (required): report text, confidence (optional): 0-1, default 1.0",
	},
	{
		Name:       ExtractFileTool,
		Summary:    "Extract a financial record from a PDF or text report",
		Parameters: "path (required): file path, absolute or relative to the default directory",
	},
	{
		Name:       ListDocumentsTool,
		Summary:    "List PDF and text reports in a directory",
		Parameters: "directory (optional): defaults to the configured directory, query (optional): fuzzy filename match",
	},
	{
		Name:       ValidateFileTool,
		Summary:    "Check that a report file can be read",
		Parameters: "path (required): file path",
	},
	{
		Name:       LibraryInfoTool,
		Summary:    "Describe the fields and rules of the pattern library",
		Parameters: "none",
	},
	{
		Name:       ServerInfoTool,
		Summary:    "Server status, tools and directory preview",
		Parameters: "none",
	},
}

// UsageGuidance returns the workflow guide included in server info
func UsageGuidance(maxFileSizeMB int64) string {
	return fmt.Sprintf(`Financial Document Extraction Usage Guide:

1. DISCOVER REPORTS:
   - Use '%[1]s' to find PDF and text reports

2. EXTRACT:
   - Use '%[2]s' for files, '%[3]s' for text you already have
   - Every field carries value, confidence, status and provenance (line, page, rule)
     * "resolved": value found and valid
     * "missing": no candidate in the document
     * "invalid": a candidate was found but failed parsing or range checks
     * "ambiguous": an enum value matched no known vocabulary entry

3. REVIEW:
   - Read 'warnings' for accounting identities that do not hold
   - Read 'missing_required' for fields the record cannot do without

IMPORTANT NOTES:
- Files may be up to %[4]dMB
- Scanned PDFs without a text layer cannot be read; OCR them first
- Use '%[5]s' to see which fields and rules are active`,
		ListDocumentsTool, ExtractFileTool, ExtractTextTool, maxFileSizeMB, LibraryInfoTool)
}

// GetToolDescription returns the comprehensive description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetAllToolNames returns the tool names in registration order
func GetAllToolNames() []string {
	names := make([]string, 0, len(Tools))
	for _, tool := range Tools {
		names = append(names, tool.Name)
	}
	return names
}
