package convert

import (
	"io"

	"github.com/dgallion1/docfind/internal/dom"
)

// HTMLConverter loads HTML files as they are.
type HTMLConverter struct{}

func (c *HTMLConverter) Convert(r io.Reader, filename string) (*dom.Document, error) {
	return dom.Parse(r)
}
