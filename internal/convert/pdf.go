package convert

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/dgallion1/docfind/internal/dom"
	pdflib "github.com/ledongthuc/pdf"
	"golang.org/x/net/html"
)

// PDFConverter handles PDF files. It tries the Go library first,
// then falls back to pdftotext if enabled.
type PDFConverter struct {
	FallbackPdftotext bool
}

func (c *PDFConverter) Convert(r io.Reader, filename string) (*dom.Document, error) {
	// ledongthuc/pdf opens by path, so spool to a temp file.
	tmp, err := os.CreateTemp("", "docfind-pdf-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	text, err := extractPDFText(tmpPath)
	if err != nil && c.FallbackPdftotext {
		text, err = extractPdftotext(tmpPath)
	}
	if err != nil {
		return nil, fmt.Errorf("extract pdf text: %w", err)
	}

	doc := dom.NewDocument(baseTitle(filename))
	appendPages(doc.Body(), text)
	return doc, nil
}

// appendPages adds one <section data-page="N"> per form-feed separated page.
func appendPages(body *html.Node, text string) {
	for i, page := range strings.Split(text, "\f") {
		paragraphs, _ := splitParagraphs(strings.NewReader(page))
		if len(paragraphs) == 0 {
			continue
		}
		section := dom.NewElement("section", html.Attribute{Key: "data-page", Val: strconv.Itoa(i + 1)})
		for _, para := range paragraphs {
			dom.AppendElement(section, "p", para)
		}
		body.AppendChild(section)
	}
}

func extractPDFText(path string) (string, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var buf strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		if i > 1 {
			buf.WriteString("\f")
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		buf.WriteString(text)
	}
	return buf.String(), nil
}

func extractPdftotext(path string) (string, error) {
	cmd := exec.Command("pdftotext", "-layout", path, "-")
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("pdftotext: %w", err)
	}
	return string(out), nil
}
