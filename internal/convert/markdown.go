package convert

import (
	"bytes"
	"fmt"
	"io"

	"github.com/dgallion1/docfind/internal/dom"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"golang.org/x/net/html"
)

// MarkdownConverter renders Markdown with goldmark and loads the result.
type MarkdownConverter struct{}

func (c *MarkdownConverter) Convert(r io.Reader, filename string) (*dom.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	var rendered bytes.Buffer
	if err := md.Convert(src, &rendered); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}

	title := firstHeading(md, src)
	if title == "" {
		title = baseTitle(filename)
	}
	doc := dom.NewDocument(title)
	body := doc.Body()

	nodes, err := html.ParseFragment(&rendered, body)
	if err != nil {
		return nil, fmt.Errorf("parse rendered markdown: %w", err)
	}
	for _, n := range nodes {
		body.AppendChild(n)
	}
	return doc, nil
}

// firstHeading returns the text of the first h1, if any.
func firstHeading(md goldmark.Markdown, src []byte) string {
	root := md.Parser().Parse(text.NewReader(src))
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok && h.Level == 1 {
			return string(h.Text(src))
		}
	}
	return ""
}
