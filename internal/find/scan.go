package find

import (
	"strings"

	"github.com/dgallion1/docfind/internal/dom"
	"golang.org/x/net/html"
)

// Scan returns the matchable text leaves under root in document order.
// Elements for which excluded reports true are skipped with their subtree;
// a nil predicate excludes nothing. Scan does not modify the tree.
func Scan(root *html.Node, excluded dom.Predicate) []*html.Node {
	var leaves []*html.Node

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if strings.TrimSpace(n.Data) != "" {
				leaves = append(leaves, n)
			}
			return
		case html.ElementNode:
			if excluded != nil && excluded(n) {
				return
			}
		case html.CommentNode, html.DoctypeNode:
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	return leaves
}
