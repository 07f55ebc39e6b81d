package findbar

import (
	"github.com/dgallion1/docfind/internal/dom"
	"github.com/dgallion1/docfind/internal/find"
	"golang.org/x/net/html"
)

// DefaultAnchor is the fragment a browser scrolls to: #find-current.
const DefaultAnchor = "find-current"

// AnchorRenderer focuses a marker by moving an id anchor onto it, so the
// rendered page can be opened at "#" + ID.
type AnchorRenderer struct {
	ID      string
	current *html.Node
}

func NewAnchorRenderer(id string) *AnchorRenderer {
	if id == "" {
		id = DefaultAnchor
	}
	return &AnchorRenderer{ID: id}
}

func (r *AnchorRenderer) Focus(n *html.Node, _ find.Marker) error {
	r.Clear()
	dom.SetAttr(n, "id", r.ID)
	r.current = n
	return nil
}

// Clear removes the anchor from the previously focused marker.
func (r *AnchorRenderer) Clear() {
	if r.current != nil {
		dom.RemoveAttr(r.current, "id")
		r.current = nil
	}
}

// Focused reports whether the anchor sits on an attached marker.
func (r *AnchorRenderer) Focused() bool {
	return r.current != nil && r.current.Parent != nil
}
