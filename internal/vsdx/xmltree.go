package vsdx

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Node is one element in a parsed XML tree: local tag name, attribute map, and
// ordered children. The tree carries no DTD or namespace assumptions — VSDX
// producers vary, so structure is recovered generically.
type Node struct {
	Tag      string
	Attrs    map[string]string
	Children []*Node
}

// ParseTree parses data as XML and returns the root element. Character data,
// comments, and processing instructions are discarded; only element structure and
// attributes are kept. Returns an error for malformed XML or when no root element exists.
func ParseTree(data []byte) (*Node, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	var root *Node
	var stack []*Node
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			n := &Node{Tag: t.Name.Local}
			if len(t.Attr) > 0 {
				n.Attrs = make(map[string]string, len(t.Attr))
				for _, a := range t.Attr {
					n.Attrs[a.Name.Local] = a.Value
				}
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("parse xml: multiple root elements")
				}
				root = n
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, n)
			}
			stack = append(stack, n)
		case xml.EndElement:
			if len(stack) == 0 {
				return nil, fmt.Errorf("parse xml: unbalanced end element %q", t.Name.Local)
			}
			stack = stack[:len(stack)-1]
		}
	}
	if root == nil {
		return nil, fmt.Errorf("parse xml: no root element")
	}
	if len(stack) != 0 {
		return nil, fmt.Errorf("parse xml: unclosed element %q", stack[len(stack)-1].Tag)
	}
	return root, nil
}

// CountElements returns the number of element nodes in the tree, root inclusive.
// Always a full walk, never an approximation; an empty page counts its root as 1.
func (n *Node) CountElements() int {
	if n == nil {
		return 0
	}
	count := 1
	for _, c := range n.Children {
		count += c.CountElements()
	}
	return count
}

// Attr returns the value of the named attribute, or "" when absent.
func (n *Node) Attr(name string) string {
	if n == nil {
		return ""
	}
	return n.Attrs[name]
}

// Find returns the first descendant (depth-first, document order) whose tag
// contains substr, or nil. Visio tags are matched by substring because producers
// differ in prefixing (e.g. PageSheet vs. v:PageSheet before namespace stripping).
func (n *Node) Find(substr string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if strings.Contains(c.Tag, substr) {
			return c
		}
		if found := c.Find(substr); found != nil {
			return found
		}
	}
	return nil
}

// displayName derives a best-effort name for a part. Preference order: an explicit
// Name/NameU attribute on the root, then a PageSheet cell named PageName (the
// convention the Visio page XML uses), then "" so the caller falls back to an ordinal.
func displayName(root *Node) string {
	if name := root.Attr("Name"); name != "" {
		return name
	}
	if name := root.Attr("NameU"); name != "" {
		return name
	}
	if sheet := root.Find("PageSheet"); sheet != nil {
		if v := cellValue(sheet, "PageName"); v != "" {
			return v
		}
	}
	return ""
}

// cellValue scans n's subtree for a Cell element with N=name and returns its V attribute.
func cellValue(n *Node, name string) string {
	for _, c := range n.Children {
		if strings.Contains(c.Tag, "Cell") && c.Attr("N") == name {
			return c.Attr("V")
		}
		if v := cellValue(c, name); v != "" {
			return v
		}
	}
	return ""
}
