package dom

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// NodeID is a weak handle to a node tracked by a Document. The zero value
// refers to nothing.
type NodeID struct {
	index int32
	gen   uint32
}

// Valid reports whether id was issued by Track.
func (id NodeID) Valid() bool { return id.gen != 0 }

type slot struct {
	node *html.Node
	gen  uint32
}

// Document is a mutable HTML tree plus an arena of handles into it.
type Document struct {
	root  *html.Node
	slots []slot
	free  []int32
}

// New wraps an existing tree.
func New(root *html.Node) *Document {
	return &Document{root: root}
}

// Parse reads an HTML document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return New(root), nil
}

// NewDocument builds an empty html/head/body skeleton with the given title.
func NewDocument(title string) *Document {
	root := &html.Node{Type: html.DocumentNode}
	htmlEl := NewElement("html")
	head := NewElement("head")
	body := NewElement("body")
	if title != "" {
		t := NewElement("title")
		t.AppendChild(NewText(title))
		head.AppendChild(t)
	}
	htmlEl.AppendChild(head)
	htmlEl.AppendChild(body)
	root.AppendChild(htmlEl)
	return New(root)
}

func (d *Document) Root() *html.Node { return d.root }

// Body returns the <body> element, or the root when the tree has none.
func (d *Document) Body() *html.Node {
	if b := findElement(d.root, atom.Body); b != nil {
		return b
	}
	return d.root
}

// Title returns the trimmed text of the first <title> element.
func (d *Document) Title() string {
	if t := findElement(d.root, atom.Title); t != nil {
		return strings.TrimSpace(TextContent(t))
	}
	return ""
}

// Render writes the whole tree as HTML.
func (d *Document) Render(w io.Writer) error {
	if err := html.Render(w, d.root); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}

// Track registers n and returns a handle to it.
func (d *Document) Track(n *html.Node) NodeID {
	if k := len(d.free); k > 0 {
		idx := d.free[k-1]
		d.free = d.free[:k-1]
		d.slots[idx].node = n
		return NodeID{index: idx, gen: d.slots[idx].gen}
	}
	d.slots = append(d.slots, slot{node: n, gen: 1})
	return NodeID{index: int32(len(d.slots) - 1), gen: 1}
}

// Node resolves id. It reports false when the handle was released, belongs
// to a reused slot, or the node no longer has a parent.
func (d *Document) Node(id NodeID) (*html.Node, bool) {
	n := d.lookup(id)
	if n == nil || n.Parent == nil {
		return nil, false
	}
	return n, true
}

// Release drops the handle. Releasing a stale handle does nothing.
func (d *Document) Release(id NodeID) {
	if d.lookup(id) == nil {
		return
	}
	s := &d.slots[id.index]
	s.node = nil
	s.gen++
	if s.gen == 0 {
		s.gen = 1
	}
	d.free = append(d.free, id.index)
}

// Tracked returns the number of live handles.
func (d *Document) Tracked() int {
	return len(d.slots) - len(d.free)
}

func (d *Document) lookup(id NodeID) *html.Node {
	if !id.Valid() || id.index < 0 || int(id.index) >= len(d.slots) {
		return nil
	}
	s := d.slots[id.index]
	if s.gen != id.gen {
		return nil
	}
	return s.node
}

// Replace puts repl in place of old, in order. It returns false and leaves
// everything untouched when old is detached.
func Replace(old *html.Node, repl ...*html.Node) bool {
	parent := old.Parent
	if parent == nil {
		return false
	}
	for _, n := range repl {
		parent.InsertBefore(n, old)
	}
	parent.RemoveChild(old)
	return true
}

// Normalize merges adjacent text children of parent and drops empty ones.
func Normalize(parent *html.Node) {
	for c := parent.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type != html.TextNode {
			c = next
			continue
		}
		if c.Data == "" {
			parent.RemoveChild(c)
			c = next
			continue
		}
		for next != nil && next.Type == html.TextNode {
			after := next.NextSibling
			c.Data += next.Data
			parent.RemoveChild(next)
			next = after
		}
		c = next
	}
}

// TextContent concatenates the data of every text node under n.
func TextContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return buf.String()
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}
