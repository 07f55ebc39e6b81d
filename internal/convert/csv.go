package convert

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/dgallion1/docfind/internal/dom"
)

// CSVConverter renders CSV files as a table. The first row is the header.
type CSVConverter struct{}

func (c *CSVConverter) Convert(r io.Reader, filename string) (*dom.Document, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	doc := dom.NewDocument(baseTitle(filename))
	if len(records) == 0 {
		return doc, nil
	}

	table := dom.AppendElement(doc.Body(), "table", "")
	headRow := dom.AppendElement(dom.AppendElement(table, "thead", ""), "tr", "")
	for _, h := range records[0] {
		dom.AppendElement(headRow, "th", h)
	}

	tbody := dom.AppendElement(table, "tbody", "")
	for _, row := range records[1:] {
		tr := dom.AppendElement(tbody, "tr", "")
		for _, cell := range row {
			dom.AppendElement(tr, "td", cell)
		}
	}
	return doc, nil
}
