package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stevebcampbell/vsdx-extraction/internal/history"
	"github.com/stevebcampbell/vsdx-extraction/internal/vsdx"
)

func sampleResult() (*vsdx.Result, vsdx.Summary) {
	result := &vsdx.Result{
		Success:   true,
		OutputDir: "/tmp/out",
		Pages: []vsdx.Part{
			{Kind: vsdx.KindPage, Name: "Overview", SourcePath: "visio/pages/page1.xml", Elements: 5},
			{Kind: vsdx.KindPage, Name: "Page 2", SourcePath: "visio/pages/page2.xml", Elements: 12},
		},
		Masters: []vsdx.Part{{Kind: vsdx.KindMaster, Name: "Master 1", SourcePath: "visio/masters/master1.xml", Elements: 8}},
	}
	return result, vsdx.Summarize(result)
}

func TestWriteResult_text(t *testing.T) {
	result, summary := sampleResult()
	var buf bytes.Buffer
	if err := WriteResult(&buf, result, summary, OutputText); err != nil {
		t.Fatalf("WriteResult: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Extraction successful", "/tmp/out", "Pages: 2", "Overview", "Master 1"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteResult_textFailure(t *testing.T) {
	result := &vsdx.Result{Success: false, Error: "unreadable archive: x.vsdx"}
	var buf bytes.Buffer
	if err := WriteResult(&buf, result, vsdx.Summarize(result), OutputText); err != nil {
		t.Fatalf("WriteResult: %v", err)
	}
	if !strings.Contains(buf.String(), "Extraction failed") {
		t.Errorf("output: %s", buf.String())
	}
}

func TestWriteResult_textDiagnostics(t *testing.T) {
	result, _ := sampleResult()
	result.Diagnostics = []vsdx.Diagnostic{
		{SourcePath: "visio/pages/page3.xml", Kind: vsdx.KindPage, Message: "malformed xml"},
	}
	var buf bytes.Buffer
	if err := WriteResult(&buf, result, vsdx.Summarize(result), OutputText); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "skipped") || !strings.Contains(buf.String(), "page3.xml") {
		t.Errorf("diagnostics not shown:\n%s", buf.String())
	}
}

func TestWriteResult_json(t *testing.T) {
	result, summary := sampleResult()
	var buf bytes.Buffer
	if err := WriteResult(&buf, result, summary, OutputJSON); err != nil {
		t.Fatalf("WriteResult: %v", err)
	}
	var decoded struct {
		Result  *vsdx.Result `json:"result"`
		Summary vsdx.Summary `json:"summary"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("not valid JSON: %v", err)
	}
	if decoded.Summary.PageCount != 2 || len(decoded.Result.Pages) != 2 {
		t.Errorf("decoded: %+v", decoded.Summary)
	}
}

func TestWriteHistory(t *testing.T) {
	records := []*history.Record{
		{ID: "a", InputPath: "/data/one.vsdx", Success: true, Pages: 3, Masters: 1, CreatedAt: time.Now()},
		{ID: "b", InputPath: "/data/two.vsdx", Success: false, Error: "unreadable archive", CreatedAt: time.Now()},
	}
	var buf bytes.Buffer
	if err := WriteHistory(&buf, records, OutputText); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "/data/one.vsdx") || !strings.Contains(out, "failed") {
		t.Errorf("output:\n%s", out)
	}

	buf.Reset()
	if err := WriteHistory(&buf, nil, OutputText); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "No extractions recorded") {
		t.Errorf("empty output: %s", buf.String())
	}
}
