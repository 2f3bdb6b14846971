// Package cli provides output writers for the vsdx command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/stevebcampbell/vsdx-extraction/internal/history"
	"github.com/stevebcampbell/vsdx-extraction/internal/vsdx"
)

// OutputFormat is the format for CLI output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// resultEnvelope is the JSON shape for an extraction result plus its summary.
type resultEnvelope struct {
	Result  *vsdx.Result `json:"result"`
	Summary vsdx.Summary `json:"summary"`
}

// WriteResult writes an extraction result and its summary to w in the given format.
func WriteResult(w io.Writer, result *vsdx.Result, summary vsdx.Summary, format OutputFormat) error {
	if format == OutputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(resultEnvelope{Result: result, Summary: summary})
	}
	writeResultText(w, result, summary)
	return nil
}

func writeResultText(w io.Writer, result *vsdx.Result, summary vsdx.Summary) {
	if !result.Success {
		fmt.Fprintf(w, "Extraction failed: %s\n", result.Error)
		return
	}
	fmt.Fprintf(w, "Extraction successful!\n")
	fmt.Fprintf(w, "Output directory: %s\n", result.OutputDir)
	fmt.Fprintf(w, "Pages: %d  Masters: %d\n", summary.PageCount, summary.MasterCount)
	if summary.PageCount > 0 {
		fmt.Fprintf(w, "Page elements: total %d, avg %.2f, min %d (%s), max %d (%s)\n",
			summary.TotalElements, summary.AverageElements,
			summary.MinElements, summary.MinPage,
			summary.MaxElements, summary.MaxPage)
	}
	for _, p := range result.Pages {
		fmt.Fprintf(w, "  page   %-24s %5d elements  %s\n", p.Name, p.Elements, p.SourcePath)
	}
	for _, m := range result.Masters {
		fmt.Fprintf(w, "  master %-24s %5d elements  %s\n", m.Name, m.Elements, m.SourcePath)
	}
	if result.AppProperties != nil {
		fmt.Fprintf(w, "  app properties: %s\n", result.AppProperties.SourcePath)
	}
	if result.Document != nil {
		fmt.Fprintf(w, "  document: %s\n", result.Document.SourcePath)
	}
	if len(result.Diagnostics) > 0 {
		fmt.Fprintf(w, "\n%d part(s) skipped:\n", len(result.Diagnostics))
		for _, d := range result.Diagnostics {
			fmt.Fprintf(w, "  %s: %s\n", d.SourcePath, d.Message)
		}
	}
}

// WriteHistory writes extraction history records to w in the given format.
func WriteHistory(w io.Writer, records []*history.Record, format OutputFormat) error {
	if format == OutputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}
	if len(records) == 0 {
		fmt.Fprintln(w, "No extractions recorded.")
		return nil
	}
	for _, rec := range records {
		status := "ok"
		if !rec.Success {
			status = "failed"
		}
		fmt.Fprintf(w, "%s  %-6s  %2d pages  %2d masters  %s\n",
			rec.CreatedAt.Format("2006-01-02 15:04:05"), status, rec.Pages, rec.Masters, rec.InputPath)
		if rec.Error != "" {
			fmt.Fprintf(w, "    %s\n", rec.Error)
		}
	}
	return nil
}
