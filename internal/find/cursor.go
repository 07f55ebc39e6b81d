package find

import (
	"errors"
	"fmt"

	"github.com/dgallion1/docfind/internal/dom"
	"golang.org/x/net/html"
)

// ErrMarkerDetached is returned by FocusCurrent when the current marker is
// no longer part of the document.
var ErrMarkerDetached = errors.New("current marker is detached")

// State of a Cursor.
type State int

const (
	Empty State = iota
	Positioned
)

func (s State) String() string {
	if s == Positioned {
		return "positioned"
	}
	return "empty"
}

// FocusRenderer makes a marker visually distinguished and brings it into view.
type FocusRenderer interface {
	Focus(n *html.Node, m Marker) error
}

// RendererFunc adapts a function to FocusRenderer.
type RendererFunc func(n *html.Node, m Marker) error

func (f RendererFunc) Focus(n *html.Node, m Marker) error { return f(n, m) }

// Cursor is a cyclic index over a MatchList.
type Cursor struct {
	doc      *dom.Document
	renderer FocusRenderer
	list     MatchList
	index    int
}

// NewCursor returns an Empty cursor. renderer may be nil.
func NewCursor(doc *dom.Document, renderer FocusRenderer) *Cursor {
	return &Cursor{doc: doc, renderer: renderer, index: -1}
}

// Reset points the cursor at the first marker of list, or at nothing.
func (c *Cursor) Reset(list MatchList) {
	c.list = list
	if len(list) == 0 {
		c.index = -1
		return
	}
	c.index = 0
}

func (c *Cursor) Advance() {
	if n := len(c.list); n > 0 {
		c.index = (c.index + 1) % n
	}
}

func (c *Cursor) Retreat() {
	if n := len(c.list); n > 0 {
		c.index = (c.index - 1 + n) % n
	}
}

// FocusCurrent moves the current flag to the marker under the cursor and
// hands it to the renderer. Errors leave the cursor position unchanged.
func (c *Cursor) FocusCurrent() error {
	if c.State() == Empty {
		return nil
	}
	for _, mk := range c.list {
		if n, ok := c.doc.Node(mk.ID); ok {
			dom.RemoveClass(n, CurrentClass)
		}
	}

	cur := c.list[c.index]
	n, ok := c.doc.Node(cur.ID)
	if !ok {
		return fmt.Errorf("focus match %d: %w", c.index+1, ErrMarkerDetached)
	}
	dom.AddClass(n, CurrentClass)

	if c.renderer == nil {
		return nil
	}
	if err := c.renderer.Focus(n, cur); err != nil {
		return fmt.Errorf("focus match %d: %w", c.index+1, err)
	}
	return nil
}

func (c *Cursor) State() State {
	if len(c.list) == 0 {
		return Empty
	}
	return Positioned
}

// Index is -1 when Empty.
func (c *Cursor) Index() int { return c.index }

func (c *Cursor) Len() int { return len(c.list) }

// Current returns the marker under the cursor.
func (c *Cursor) Current() (Marker, bool) {
	if c.State() == Empty {
		return Marker{}, false
	}
	return c.list[c.index], true
}

// Status returns the 1-based current position and the total, or (0, 0).
func (c *Cursor) Status() (current, total int) {
	if c.State() == Empty {
		return 0, 0
	}
	return c.index + 1, len(c.list)
}
