package analyze

import (
	"fmt"
	"strings"

	"github.com/stevebcampbell/vsdx-extraction/internal/vsdx"
	"github.com/stevebcampbell/vsdx-extraction/pkg/utils"
)

// maxXMLSample caps the raw XML included in a page prompt.
const maxXMLSample = 5000

// ExtractionPrompt builds the whole-document analysis prompt from the extraction
// result and its summary. Pure; exported so the prompt shape is testable without a client.
func ExtractionPrompt(result *vsdx.Result, summary vsdx.Summary) string {
	var sb strings.Builder
	sb.WriteString("Analyze the following VSDX (Microsoft Visio) file extraction results and provide insights:\n\n")
	sb.WriteString("**Extraction Summary:**\n")
	fmt.Fprintf(&sb, "- Total Pages: %d\n", summary.PageCount)
	fmt.Fprintf(&sb, "- Total Masters: %d\n", summary.MasterCount)
	fmt.Fprintf(&sb, "- Has Application Properties: %t\n", summary.HasAppProperties)
	fmt.Fprintf(&sb, "- Has Document Info: %t\n", summary.HasDocument)
	fmt.Fprintf(&sb, "- Total Page Elements: %d (avg %.2f, min %d, max %d)\n",
		summary.TotalElements, summary.AverageElements, summary.MinElements, summary.MaxElements)

	sb.WriteString("\n**Page Details:**\n")
	for i, page := range result.Pages {
		fmt.Fprintf(&sb, "\nPage %d:\n", i+1)
		fmt.Fprintf(&sb, "- Name: %s\n", page.Name)
		fmt.Fprintf(&sb, "- Source: %s\n", page.SourcePath)
		fmt.Fprintf(&sb, "- Elements Count: %d\n", page.Elements)
	}
	if len(result.Diagnostics) > 0 {
		sb.WriteString("\n**Extraction Diagnostics:**\n")
		for _, d := range result.Diagnostics {
			fmt.Fprintf(&sb, "- %s: %s\n", d.SourcePath, d.Message)
		}
	}

	sb.WriteString(`
**Analysis Request:**
Please provide a comprehensive analysis covering:

1. **Document Structure Analysis:** overall organization, page complexity, element distribution patterns
2. **Content Insights:** what type of diagrams this appears to be, complexity of each page, likely use cases
3. **Technical Assessment:** XML structure quality, data completeness, potential issues or anomalies
4. **Recommendations:** best practices for working with this data and useful next steps
5. **Summary:** key takeaways and overall assessment of the extraction

Please format your response in clear sections with markdown formatting for readability.
`)
	return sb.String()
}

// PagePrompt builds the single-page analysis prompt. xmlContent may be empty;
// when present it is truncated to a bounded sample.
func PagePrompt(part vsdx.Part, xmlContent string) string {
	var sb strings.Builder
	sb.WriteString("Analyze this specific page from a VSDX file:\n\n")
	sb.WriteString("**Page Information:**\n")
	fmt.Fprintf(&sb, "- Name: %s\n", part.Name)
	fmt.Fprintf(&sb, "- Source: %s\n", part.SourcePath)
	fmt.Fprintf(&sb, "- Elements Count: %d\n", part.Elements)

	if xmlContent != "" {
		sb.WriteString("\n**XML Content Sample:**\n```xml\n")
		sb.WriteString(utils.Truncate(xmlContent, maxXMLSample))
		sb.WriteString("\n```\n")
	}

	sb.WriteString(`
Please analyze this page and provide:
1. What type of content this page likely contains
2. Complexity assessment
3. Key elements or patterns identified
4. Potential insights about the diagram structure

Keep the analysis concise but informative.
`)
	return sb.String()
}
