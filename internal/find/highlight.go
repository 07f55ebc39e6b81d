package find

import (
	"github.com/dgallion1/docfind/internal/dom"
	"golang.org/x/net/html"
)

const (
	DefaultMarkTag   = "mark"
	DefaultMarkClass = "custom-find"
	// CurrentClass flags the marker the cursor points at.
	CurrentClass = "current"
)

// Marker is one highlighted match. ID is a weak handle into the document;
// resolve it with Document.Node before touching the element.
type Marker struct {
	ID     dom.NodeID
	Leaf   int    // index of the source leaf in the scanned sequence
	Offset int    // byte offset of the match in the leaf's original text
	Text   string // matched characters, case preserved
}

func (m Marker) Len() int { return len(m.Text) }

// MatchList holds markers in document order.
type MatchList []Marker

// Highlighter wraps matches in marker elements and undoes it.
type Highlighter struct {
	doc   *dom.Document
	Tag   string
	Class string
}

func NewHighlighter(doc *dom.Document) *Highlighter {
	return &Highlighter{
		doc:   doc,
		Tag:   DefaultMarkTag,
		Class: DefaultMarkClass,
	}
}

// Apply replaces every leaf containing query with a run of text nodes and
// markers and returns the markers in document order. Leaves without a match
// are not touched. An empty query is a no-op.
//
// The tree must not be modified by anything else between Scan and Apply.
func (h *Highlighter) Apply(leaves []*html.Node, query string) MatchList {
	m := NewMatcher(query)
	if m == nil {
		return nil
	}

	var list MatchList
	for i, leaf := range leaves {
		text := leaf.Data
		spans := m.FindAll(text)
		if len(spans) == 0 {
			continue
		}

		nodes := make([]*html.Node, 0, 2*len(spans)+1)
		markers := make(MatchList, 0, len(spans))
		last := 0
		for _, sp := range spans {
			if sp.Start > last {
				nodes = append(nodes, dom.NewText(text[last:sp.Start]))
			}
			mark := h.newMarker(text[sp.Start:sp.End])
			nodes = append(nodes, mark)
			markers = append(markers, Marker{
				ID:     h.doc.Track(mark),
				Leaf:   i,
				Offset: sp.Start,
				Text:   text[sp.Start:sp.End],
			})
			last = sp.End
		}
		if last < len(text) {
			nodes = append(nodes, dom.NewText(text[last:]))
		}

		if !dom.Replace(leaf, nodes...) {
			for _, mk := range markers {
				h.doc.Release(mk.ID)
			}
			continue
		}
		list = append(list, markers...)
	}
	return list
}

// Revert turns every still-attached marker in list back into plain text,
// merges the resulting text siblings and releases the handles. Markers that
// were removed from the tree are skipped. It returns how many were restored.
func (h *Highlighter) Revert(list MatchList) int {
	var parents []*html.Node
	seen := make(map[*html.Node]bool)
	restored := 0

	for _, mk := range list {
		n, ok := h.doc.Node(mk.ID)
		if !ok {
			h.doc.Release(mk.ID)
			continue
		}
		parent := n.Parent
		dom.Replace(n, dom.NewText(dom.TextContent(n)))
		h.doc.Release(mk.ID)
		restored++
		if !seen[parent] {
			seen[parent] = true
			parents = append(parents, parent)
		}
	}

	for _, p := range parents {
		dom.Normalize(p)
	}
	return restored
}

func (h *Highlighter) newMarker(text string) *html.Node {
	mark := dom.NewElement(h.Tag, html.Attribute{Key: "class", Val: h.Class})
	mark.AppendChild(dom.NewText(text))
	return mark
}
