package e2e

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stevebcampbell/vsdx-extraction/internal/history"
	"github.com/stevebcampbell/vsdx-extraction/internal/vsdx"
)

func TestExtractionEndToEnd(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "drawing.vsdx")
	if err := WriteVSDX(input, StandardFixture()); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	outDir := filepath.Join(dir, "extracted")

	extractor := vsdx.NewExtractor()
	result := extractor.Extract(input, outDir)
	if !result.Success {
		t.Fatalf("extraction failed: %s", result.Error)
	}

	if len(result.Pages) != 3 {
		t.Fatalf("pages: got %d, want 3", len(result.Pages))
	}
	if len(result.Masters) != 1 {
		t.Fatalf("masters: got %d, want 1", len(result.Masters))
	}
	if result.AppProperties == nil {
		t.Error("app properties part missing")
	}
	if result.Document == nil {
		t.Error("document part missing")
	}

	wantElements := []int{5, 12, 0}
	for i, page := range result.Pages {
		if page.Elements != wantElements[i] {
			t.Errorf("page %d: got %d elements, want %d", i+1, page.Elements, wantElements[i])
		}
	}
	if got := result.Masters[0].Elements; got != 8 {
		t.Errorf("master: got %d elements, want 8", got)
	}

	// Every classified part lands at its conventional path in the output tree.
	wantFiles := []string{
		filepath.Join("pages", "page1.xml"),
		filepath.Join("pages", "page2.xml"),
		filepath.Join("pages", "page3.xml"),
		filepath.Join("masters", "master1.xml"),
		"app_properties.xml",
		"document.xml",
	}
	for _, rel := range wantFiles {
		if _, err := os.Stat(filepath.Join(outDir, rel)); err != nil {
			t.Errorf("missing output file %s: %v", rel, err)
		}
	}

	// The unclassified binary entry must not leak into the output tree.
	entries, err := os.ReadDir(outDir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		switch e.Name() {
		case "pages", "masters", "app_properties.xml", "document.xml":
		default:
			t.Errorf("unexpected output entry %s", e.Name())
		}
	}

	summary := vsdx.Summarize(result)
	if summary.PageCount != 3 || summary.MasterCount != 1 {
		t.Errorf("summary counts: %+v", summary)
	}
	if summary.TotalElements != 17 {
		t.Errorf("total elements: got %d, want 17", summary.TotalElements)
	}
	if math.Abs(summary.AverageElements-17.0/3.0) > 1e-9 {
		t.Errorf("average elements: got %f", summary.AverageElements)
	}
	if summary.MinElements != 0 || summary.MaxElements != 12 {
		t.Errorf("min/max: got %d/%d", summary.MinElements, summary.MaxElements)
	}
	if !summary.HasAppProperties || !summary.HasDocument {
		t.Errorf("presence flags: %+v", summary)
	}
}

func TestExtractionRecordedInHistory(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "drawing.vsdx")
	if err := WriteVSDX(input, StandardFixture()); err != nil {
		t.Fatal(err)
	}

	result := vsdx.NewExtractor().Extract(input, filepath.Join(dir, "out"))
	if !result.Success {
		t.Fatalf("extraction failed: %s", result.Error)
	}

	store, err := history.NewStore(filepath.Join(dir, "history.db"))
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	rec, err := store.Add(ctx, input, result)
	if err != nil {
		t.Fatalf("recording extraction: %v", err)
	}

	got, err := store.Get(ctx, rec.ID)
	if err != nil {
		t.Fatalf("fetching record: %v", err)
	}
	if got.Pages != 3 || got.Masters != 1 || got.TotalElements != 17 {
		t.Errorf("record: %+v", got)
	}
	if !got.Success {
		t.Error("record not marked successful")
	}
}

func TestExtractionSurvivesCorruptPage(t *testing.T) {
	dir := t.TempDir()
	entries := StandardFixture()
	entries = append(entries, Entry{"visio/pages/page4.xml", `<PageContents><Shapes>`})
	input := filepath.Join(dir, "drawing.vsdx")
	if err := WriteVSDX(input, entries); err != nil {
		t.Fatal(err)
	}

	result := vsdx.NewExtractor().Extract(input, filepath.Join(dir, "out"))
	if !result.Success {
		t.Fatalf("extraction failed: %s", result.Error)
	}
	if len(result.Pages) != 3 {
		t.Errorf("pages: got %d, want 3", len(result.Pages))
	}
	if len(result.Diagnostics) != 1 {
		t.Fatalf("diagnostics: got %d, want 1: %+v", len(result.Diagnostics), result.Diagnostics)
	}
	if result.Diagnostics[0].SourcePath != "visio/pages/page4.xml" {
		t.Errorf("diagnostic path: %s", result.Diagnostics[0].SourcePath)
	}
}
