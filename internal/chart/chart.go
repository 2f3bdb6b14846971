// Package chart renders the ordered page parts of an extraction as an SVG bar
// chart of elements per page. It reads the parts and produces a standalone
// artifact; the extraction result is never mutated.
package chart

import (
	"fmt"
	"html"
	"strings"

	"github.com/stevebcampbell/vsdx-extraction/internal/vsdx"
)

const (
	chartHeight = 320
	barWidth    = 56
	barGap      = 24
	marginX     = 60
	marginY     = 40
	plotHeight  = chartHeight - 2*marginY
)

// Render returns an SVG bar chart of element counts per page, in page order.
// With no pages it returns a small placeholder chart rather than failing.
func Render(pages []vsdx.Part) []byte {
	var sb strings.Builder
	width := marginX*2 + len(pages)*(barWidth+barGap)
	if width < 320 {
		width = 320
	}
	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n",
		width, chartHeight, width, chartHeight)
	fmt.Fprintf(&sb, `<text x="%d" y="24" font-family="sans-serif" font-size="16">Elements per page</text>`+"\n", marginX)

	if len(pages) == 0 {
		fmt.Fprintf(&sb, `<text x="%d" y="%d" font-family="sans-serif" font-size="13" fill="#777">No pages extracted</text>`+"\n",
			marginX, chartHeight/2)
		sb.WriteString("</svg>\n")
		return []byte(sb.String())
	}

	maxElements := 0
	for _, p := range pages {
		if p.Elements > maxElements {
			maxElements = p.Elements
		}
	}

	baseline := marginY + plotHeight
	for i, p := range pages {
		x := marginX + i*(barWidth+barGap)
		h := 0
		if maxElements > 0 {
			h = p.Elements * plotHeight / maxElements
		}
		// Zero-element pages still get a visible 1px baseline mark.
		if h == 0 {
			h = 1
		}
		y := baseline - h
		fmt.Fprintf(&sb, `<rect x="%d" y="%d" width="%d" height="%d" fill="#4c78a8"/>`+"\n", x, y, barWidth, h)
		fmt.Fprintf(&sb, `<text x="%d" y="%d" font-family="sans-serif" font-size="11" text-anchor="middle">%d</text>`+"\n",
			x+barWidth/2, y-6, p.Elements)
		fmt.Fprintf(&sb, `<text x="%d" y="%d" font-family="sans-serif" font-size="11" text-anchor="middle">%s</text>`+"\n",
			x+barWidth/2, baseline+16, html.EscapeString(p.Name))
	}
	fmt.Fprintf(&sb, `<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="#333"/>`+"\n",
		marginX-8, baseline, width-marginX+8, baseline)
	sb.WriteString("</svg>\n")
	return []byte(sb.String())
}
