package chart

import (
	"strings"
	"testing"

	"github.com/stevebcampbell/vsdx-extraction/internal/vsdx"
)

func TestRender(t *testing.T) {
	pages := []vsdx.Part{
		{Kind: vsdx.KindPage, Name: "Overview", Elements: 5},
		{Kind: vsdx.KindPage, Name: "Detail", Elements: 12},
		{Kind: vsdx.KindPage, Name: "Empty", Elements: 0},
	}
	svg := string(Render(pages))
	if !strings.HasPrefix(svg, "<svg") || !strings.Contains(svg, "</svg>") {
		t.Fatal("not an SVG document")
	}
	if strings.Count(svg, "<rect") != 3 {
		t.Errorf("rect count = %d, want one bar per page", strings.Count(svg, "<rect"))
	}
	for _, name := range []string{"Overview", "Detail", "Empty"} {
		if !strings.Contains(svg, name) {
			t.Errorf("missing page label %q", name)
		}
	}
}

func TestRender_escapesNames(t *testing.T) {
	pages := []vsdx.Part{{Kind: vsdx.KindPage, Name: `<A & B>`, Elements: 2}}
	svg := string(Render(pages))
	if strings.Contains(svg, "<A & B>") {
		t.Error("page name not escaped")
	}
	if !strings.Contains(svg, "&lt;A &amp; B&gt;") {
		t.Error("expected escaped page name")
	}
}

func TestRender_noPages(t *testing.T) {
	svg := string(Render(nil))
	if !strings.Contains(svg, "No pages extracted") {
		t.Error("empty chart should say so")
	}
	if strings.Contains(svg, "<rect") {
		t.Error("no bars expected")
	}
}
