// Package vsdx extracts XML parts from Visio VSDX containers.
// A VSDX file is a ZIP archive of XML parts; this package locates pages, masters,
// and document metadata by path convention, summarizes their structure, and writes
// the raw part bytes to a predictable output layout.
package vsdx

import "strings"

// Kind classifies an archive entry by its role in the VSDX package.
type Kind string

const (
	// KindDocumentProperties is the application/core properties part (docProps/app.xml).
	KindDocumentProperties Kind = "document_properties"
	// KindDocument is the primary Visio document part (visio/document.xml).
	KindDocument Kind = "document"
	// KindPage is a drawing page part (visio/pages/*.xml).
	KindPage Kind = "page"
	// KindMaster is a master (stencil) part (visio/masters/*.xml).
	KindMaster Kind = "master"
	// KindUnclassified is any entry that matches no rule; such entries are skipped.
	KindUnclassified Kind = "unclassified"
)

// classifyRule maps an archive path pattern to a Kind. Rules are evaluated in
// order, first match wins, so the rule list stays auditable in isolation from parsing.
type classifyRule struct {
	exact  string // exact archive path, or
	prefix string // path prefix (combined with xmlExt)
	xmlExt bool   // require a .xml extension for prefix rules
	kind   Kind
}

// classifyRules are the VSDX path conventions. The pages/masters index files
// (pages.xml, masters.xml) live in the same directories and match the same rules;
// they are valid XML and counted like any other part of their kind by enumeration order.
var classifyRules = []classifyRule{
	{prefix: "visio/pages/_rels/", kind: KindUnclassified},
	{prefix: "visio/masters/_rels/", kind: KindUnclassified},
	{prefix: "visio/pages/", xmlExt: true, kind: KindPage},
	{prefix: "visio/masters/", xmlExt: true, kind: KindMaster},
	{exact: "docProps/app.xml", kind: KindDocumentProperties},
	{exact: "docProps/core.xml", kind: KindDocumentProperties},
	{exact: "visio/document.xml", kind: KindDocument},
}

// Classify returns the Kind for an archive entry path. Paths are matched as stored
// in the archive (forward slashes); anything unmatched is KindUnclassified.
func Classify(path string) Kind {
	for _, r := range classifyRules {
		if r.exact != "" {
			if path == r.exact {
				return r.kind
			}
			continue
		}
		if strings.HasPrefix(path, r.prefix) {
			if r.xmlExt && !strings.HasSuffix(path, ".xml") {
				continue
			}
			return r.kind
		}
	}
	return KindUnclassified
}
