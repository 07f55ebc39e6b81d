package convert

import (
	"bufio"
	"io"
	"strings"

	"github.com/dgallion1/docfind/internal/dom"
)

// TextConverter handles plain text files. Blank lines separate paragraphs.
type TextConverter struct{}

func (c *TextConverter) Convert(r io.Reader, filename string) (*dom.Document, error) {
	paragraphs, err := splitParagraphs(r)
	if err != nil {
		return nil, err
	}

	doc := dom.NewDocument(baseTitle(filename))
	body := doc.Body()
	for _, para := range paragraphs {
		dom.AppendElement(body, "p", para)
	}
	return doc, nil
}

func splitParagraphs(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var paragraphs []string
	var current strings.Builder

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			if current.Len() > 0 {
				paragraphs = append(paragraphs, current.String())
				current.Reset()
			}
			continue
		}
		if current.Len() > 0 {
			current.WriteString("\n")
		}
		current.WriteString(line)
	}
	if current.Len() > 0 {
		paragraphs = append(paragraphs, current.String())
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return paragraphs, nil
}
