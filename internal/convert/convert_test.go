package convert

import (
	"fmt"
	"strings"
	"testing"

	"github.com/dgallion1/docfind/internal/dom"
)

func TestForFile(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"a.txt", "*convert.TextConverter"},
		{"a.MD", "*convert.MarkdownConverter"},
		{"a.markdown", "*convert.MarkdownConverter"},
		{"a.csv", "*convert.CSVConverter"},
		{"a.htm", "*convert.HTMLConverter"},
		{"a.html", "*convert.HTMLConverter"},
		{"a.pdf", "*convert.PDFConverter"},
		{"a.docx", "*convert.DOCXConverter"},
	}
	for _, tt := range tests {
		c, err := ForFile(tt.filename, Options{PDFFallbackPdftotext: true})
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.filename, err)
		}
		if got := fmt.Sprintf("%T", c); got != tt.want {
			t.Errorf("%s: expected %s, got %s", tt.filename, tt.want, got)
		}
		if !IsSupportedExtension(tt.filename) {
			t.Errorf("%s: expected supported extension", tt.filename)
		}
	}

	if _, err := ForFile("a.exe", Options{}); err == nil {
		t.Error("expected error for unsupported extension")
	}
	if IsSupportedExtension("a.exe") {
		t.Error("expected .exe to be unsupported")
	}

	c, _ := ForFile("a.pdf", Options{PDFFallbackPdftotext: true})
	if !c.(*PDFConverter).FallbackPdftotext {
		t.Error("expected pdf fallback option to be passed through")
	}
}

func TestHTMLConverter_TitleOf(t *testing.T) {
	c := &HTMLConverter{}
	doc, err := c.Convert(strings.NewReader("<title>Manual</title><p>x</p>"), "page.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := TitleOf(doc, "page.html"); got != "Manual" {
		t.Errorf("expected %q, got %q", "Manual", got)
	}

	doc, _ = c.Convert(strings.NewReader("<p>x</p>"), "page.html")
	if got := TitleOf(doc, "page.html"); got != "page" {
		t.Errorf("expected %q, got %q", "page", got)
	}
}

func TestCSVConverter_Table(t *testing.T) {
	input := "name,city\nAda,London\nLinus,Helsinki,extra\n"
	c := &CSVConverter{}
	doc, err := c.Convert(strings.NewReader(input), "people.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Title() != "people" {
		t.Errorf("expected title %q, got %q", "people", doc.Title())
	}

	tables := childElements(doc.Body())
	if len(tables) != 1 || tables[0].Data != "table" {
		t.Fatalf("expected a single table, got %d elements", len(tables))
	}
	parts := childElements(tables[0])
	if len(parts) != 2 {
		t.Fatalf("expected thead and tbody, got %d", len(parts))
	}
	if got := dom.TextContent(parts[0]); got != "namecity" {
		t.Errorf("expected header text %q, got %q", "namecity", got)
	}
	rows := childElements(parts[1])
	if len(rows) != 2 {
		t.Fatalf("expected 2 body rows, got %d", len(rows))
	}
	if n := len(childElements(rows[1])); n != 3 {
		t.Errorf("expected ragged row to keep 3 cells, got %d", n)
	}
}

func TestCSVConverter_Empty(t *testing.T) {
	c := &CSVConverter{}
	doc, err := c.Convert(strings.NewReader(""), "empty.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := len(childElements(doc.Body())); n != 0 {
		t.Errorf("expected empty body, got %d elements", n)
	}
}
