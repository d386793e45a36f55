// Package markup parses XHTML content pages into a flat node arena.
//
// Nodes are addressed by NodeID handles that are only valid for the Document
// that produced them. Every node remembers the exact byte span it was parsed
// from, so diagnostics can quote the page as written.
package markup

import (
	"slices"

	"golang.org/x/net/html"
)

// NodeID is a handle to a node inside a Document.
type NodeID int

type nodeKind uint8

const (
	rootNode nodeKind = iota
	elementNode
	textNode
)

type node struct {
	kind     nodeKind
	name     string
	attrs    []html.Attribute
	text     string
	children []NodeID
	start    int
	end      int
}

// Document is a parsed content page. It owns the source text and all nodes.
type Document struct {
	src   string
	nodes []node
}

// Root returns the synthetic root node that holds the top-level nodes.
func (d *Document) Root() NodeID {
	return 0
}

func (d *Document) at(id NodeID) (*node, bool) {
	if id < 0 || int(id) >= len(d.nodes) {
		return nil, false
	}
	return &d.nodes[id], true
}

// Children returns the element and text children of id in document order.
func (d *Document) Children(id NodeID) []NodeID {
	n, ok := d.at(id)
	if !ok {
		return nil
	}
	return slices.Clone(n.children)
}

// IsElement reports whether id is an element node.
func (d *Document) IsElement(id NodeID) bool {
	n, ok := d.at(id)
	return ok && n.kind == elementNode
}

// IsText reports whether id is a text node.
func (d *Document) IsText(id NodeID) bool {
	n, ok := d.at(id)
	return ok && n.kind == textNode
}

// Name returns the lower-cased tag name of an element, or "" for other nodes.
func (d *Document) Name(id NodeID) string {
	n, ok := d.at(id)
	if !ok || n.kind != elementNode {
		return ""
	}
	return n.name
}

// HasTagName reports whether id is an element named name.
func (d *Document) HasTagName(id NodeID, name string) bool {
	return d.IsElement(id) && d.Name(id) == name
}

// Attr returns the value of the attribute key on element id.
func (d *Document) Attr(id NodeID, key string) (string, bool) {
	n, ok := d.at(id)
	if !ok || n.kind != elementNode {
		return "", false
	}
	for _, a := range n.attrs {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// Text returns the text of a text node, or for an element the text of its
// first child when that child is a text node. Entities are already decoded.
func (d *Document) Text(id NodeID) (string, bool) {
	n, ok := d.at(id)
	if !ok {
		return "", false
	}
	switch n.kind {
	case textNode:
		return n.text, true
	case elementNode:
		if len(n.children) == 0 {
			return "", false
		}
		first := &d.nodes[n.children[0]]
		if first.kind != textNode {
			return "", false
		}
		return first.text, true
	}
	return "", false
}

// Source returns the exact source text the node was parsed from.
func (d *Document) Source(id NodeID) string {
	n, ok := d.at(id)
	if !ok {
		return ""
	}
	return d.src[n.start:n.end]
}

// FindDescendant returns the first descendant of id, in document order, for
// which match returns true.
func (d *Document) FindDescendant(id NodeID, match func(NodeID) bool) (NodeID, bool) {
	n, ok := d.at(id)
	if !ok {
		return 0, false
	}
	for _, c := range n.children {
		if match(c) {
			return c, true
		}
		if found, ok := d.FindDescendant(c, match); ok {
			return found, true
		}
	}
	return 0, false
}
