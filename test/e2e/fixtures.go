// Package e2e provides end-to-end tests; this file builds minimal VSDX fixtures.
package e2e

import (
	"archive/zip"
	"bytes"
	"os"
	"strings"
)

// Entry is one named file to place in a fixture archive; order is preserved, and
// ordinal assignment during extraction follows it.
type Entry struct {
	Name    string
	Content string
}

// BuildVSDX returns the bytes of a ZIP archive containing the given entries in order.
func BuildVSDX(entries []Entry) ([]byte, error) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, e := range entries {
		fw, err := w.Create(e.Name)
		if err != nil {
			return nil, err
		}
		if _, err := fw.Write([]byte(e.Content)); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteVSDX writes a fixture archive to path.
func WriteVSDX(path string, entries []Entry) error {
	data, err := BuildVSDX(entries)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// PageWithShapes returns page XML whose descendant element count is exactly
// 1 + 2*shapes (a Shapes container plus Shape/Text pairs); with shapes == 0 the
// page is a bare root counting zero elements.
func PageWithShapes(shapes int) string {
	if shapes == 0 {
		return `<PageContents/>`
	}
	var sb strings.Builder
	sb.WriteString(`<PageContents><Shapes>`)
	for i := 0; i < shapes; i++ {
		sb.WriteString(`<Shape><Text/></Shape>`)
	}
	sb.WriteString(`</Shapes></PageContents>`)
	return sb.String()
}

// StandardFixture is a 3-page, 1-master archive with known element counts
// (pages 5, 12, 0 and master 8), app properties, and a document part.
func StandardFixture() []Entry {
	return []Entry{
		{"[Content_Types].xml", `<Types/>`},
		{"docProps/app.xml", `<Properties><Application>Microsoft Visio</Application><Pages>3</Pages></Properties>`},
		{"visio/document.xml", `<VisioDocument><DocumentSettings/><Colors/></VisioDocument>`},
		{"visio/pages/page1.xml", PageWithShapes(2)},                // 5 elements
		{"visio/pages/page2.xml", pageWithConnects(5)},              // 12 elements
		{"visio/pages/page3.xml", PageWithShapes(0)},                // 0 elements
		{"visio/masters/master1.xml", masterWithShapes(3)},          // 8 elements
		{"visio/unrelated/foo.bin", "\x00\x01 not xml, not wanted"}, // unclassified
	}
}

// pageWithConnects is PageWithShapes plus an empty Connects element: 2 + 2*shapes.
func pageWithConnects(shapes int) string {
	base := PageWithShapes(shapes)
	return strings.Replace(base, `</PageContents>`, `<Connects/></PageContents>`, 1)
}

// masterWithShapes mirrors pageWithConnects with a master root: 2 + 2*shapes.
func masterWithShapes(shapes int) string {
	var sb strings.Builder
	sb.WriteString(`<MasterContents><Shapes>`)
	for i := 0; i < shapes; i++ {
		sb.WriteString(`<Shape><Text/></Shape>`)
	}
	sb.WriteString(`</Shapes><Connects/></MasterContents>`)
	return sb.String()
}
