package vsdx

import "testing"

func TestParseTree_counts(t *testing.T) {
	root, err := ParseTree([]byte(`<PageContents><Shapes><Shape ID="1"><Text/></Shape><Shape ID="2"/></Shapes></PageContents>`))
	if err != nil {
		t.Fatalf("ParseTree: %v", err)
	}
	if root.Tag != "PageContents" {
		t.Errorf("root tag %q", root.Tag)
	}
	// Root + Shapes + 2 Shape + Text = 5 nodes total.
	if got := root.CountElements(); got != 5 {
		t.Errorf("CountElements = %d, want 5", got)
	}
}

func TestParseTree_bareRoot(t *testing.T) {
	root, err := ParseTree([]byte(`<PageContents/>`))
	if err != nil {
		t.Fatalf("ParseTree: %v", err)
	}
	if got := root.CountElements(); got != 1 {
		t.Errorf("CountElements = %d, want 1", got)
	}
}

func TestParseTree_namespacesStripped(t *testing.T) {
	root, err := ParseTree([]byte(`<v:PageContents xmlns:v="http://schemas.microsoft.com/office/visio/2012/main"><v:Shapes/></v:PageContents>`))
	if err != nil {
		t.Fatalf("ParseTree: %v", err)
	}
	if root.Tag != "PageContents" {
		t.Errorf("root tag %q, want local name PageContents", root.Tag)
	}
	if len(root.Children) != 1 || root.Children[0].Tag != "Shapes" {
		t.Errorf("children %+v", root.Children)
	}
}

func TestParseTree_attrs(t *testing.T) {
	root, err := ParseTree([]byte(`<Page ID="3" Name="Flow"/>`))
	if err != nil {
		t.Fatalf("ParseTree: %v", err)
	}
	if root.Attr("Name") != "Flow" || root.Attr("ID") != "3" {
		t.Errorf("attrs %+v", root.Attrs)
	}
	if root.Attr("missing") != "" {
		t.Error("missing attr should be empty")
	}
}

func TestParseTree_malformed(t *testing.T) {
	cases := map[string]string{
		"unclosed":       `<a><b></a>`,
		"plain text":     `this is not xml`,
		"empty":          ``,
		"multiple roots": `<a/><b/>`,
		"trailing open":  `<a><b>`,
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseTree([]byte(input)); err == nil {
				t.Errorf("ParseTree(%q) succeeded, want error", input)
			}
		})
	}
}

func TestDisplayName(t *testing.T) {
	t.Run("root Name attribute", func(t *testing.T) {
		root, _ := ParseTree([]byte(`<Page Name="Network Diagram"/>`))
		if got := displayName(root); got != "Network Diagram" {
			t.Errorf("got %q", got)
		}
	})
	t.Run("root NameU fallback", func(t *testing.T) {
		root, _ := ParseTree([]byte(`<Master NameU="Server"/>`))
		if got := displayName(root); got != "Server" {
			t.Errorf("got %q", got)
		}
	})
	t.Run("PageSheet cell", func(t *testing.T) {
		xml := `<PageContents><PageSheet><Cell N="PageWidth" V="8.5"/><Cell N="PageName" V="Overview"/></PageSheet></PageContents>`
		root, _ := ParseTree([]byte(xml))
		if got := displayName(root); got != "Overview" {
			t.Errorf("got %q", got)
		}
	})
	t.Run("no name anywhere", func(t *testing.T) {
		root, _ := ParseTree([]byte(`<PageContents><Shapes/></PageContents>`))
		if got := displayName(root); got != "" {
			t.Errorf("got %q, want empty", got)
		}
	})
}
