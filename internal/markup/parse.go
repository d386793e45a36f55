package markup

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrNoTagList is returned when a page has no <dl class="tags"> element.
var ErrNoTagList = errors.New("cannot parse document tags")

// Parse builds a Document from XHTML source.
//
// Parsing is permissive: DOCTYPE declarations, HTML named entities, CDATA
// sections, void elements written without "/>", unclosed elements and stray
// end tags are all accepted. Comments and doctypes are dropped.
func Parse(src string) (*Document, error) {
	doc := &Document{src: src}
	doc.nodes = append(doc.nodes, node{kind: rootNode, end: len(src)})
	open := []NodeID{doc.Root()}

	z := html.NewTokenizer(strings.NewReader(src))
	z.AllowCDATA(true)

	offset := 0
	for {
		tt := z.Next()
		start := offset
		offset += len(z.Raw())
		parent := open[len(open)-1]

		switch tt {
		case html.ErrorToken:
			if errors.Is(z.Err(), io.EOF) {
				for _, id := range open[1:] {
					doc.nodes[id].end = len(src)
				}
				return doc, nil
			}
			return nil, fmt.Errorf("failed to tokenize markup at byte %d: %w", start, z.Err())

		case html.TextToken:
			doc.appendChild(parent, node{
				kind:  textNode,
				text:  string(z.Text()),
				start: start,
				end:   offset,
			})

		case html.StartTagToken, html.SelfClosingTagToken:
			name, attrs := readTag(z)
			id := doc.appendChild(parent, node{
				kind:  elementNode,
				name:  name,
				attrs: attrs,
				start: start,
				end:   offset,
			})
			if tt == html.SelfClosingTagToken {
				// <title/>, <script/> and friends would otherwise switch the
				// tokenizer to raw text until an end tag that never comes.
				z.NextIsNotRawText()
			} else if !isVoid(name) {
				open = append(open, id)
			}

		case html.EndTagToken:
			raw, _ := z.TagName()
			name := string(raw)
			// Close up to the nearest matching open element. Elements left
			// unclosed inside it end where the end tag begins; an end tag
			// with no matching open element is ignored.
			for i := len(open) - 1; i > 0; i-- {
				if doc.nodes[open[i]].name != name {
					continue
				}
				for _, inner := range open[i+1:] {
					doc.nodes[inner].end = start
				}
				doc.nodes[open[i]].end = offset
				open = open[:i]
				break
			}
		}
	}
}

func (d *Document) appendChild(parent NodeID, n node) NodeID {
	id := NodeID(len(d.nodes))
	d.nodes = append(d.nodes, n)
	d.nodes[parent].children = append(d.nodes[parent].children, id)
	return id
}

func readTag(z *html.Tokenizer) (string, []html.Attribute) {
	raw, hasAttr := z.TagName()
	name := string(raw)
	var attrs []html.Attribute
	for hasAttr {
		var key, val []byte
		key, val, hasAttr = z.TagAttr()
		attrs = append(attrs, html.Attribute{Key: string(key), Val: string(val)})
	}
	return name, attrs
}

// isVoid reports whether an element never has content, so that "<br>"
// written without a closing slash does not swallow its following siblings.
func isVoid(name string) bool {
	switch atom.Lookup([]byte(name)) {
	case atom.Area, atom.Base, atom.Br, atom.Col, atom.Embed, atom.Hr, atom.Img,
		atom.Input, atom.Link, atom.Meta, atom.Param, atom.Source, atom.Track, atom.Wbr:
		return true
	}
	return false
}

// FindTagList returns the first <dl> element whose class attribute is
// exactly "tags".
func FindTagList(doc *Document) (NodeID, error) {
	id, ok := doc.FindDescendant(doc.Root(), func(n NodeID) bool {
		if !doc.HasTagName(n, "dl") {
			return false
		}
		class, _ := doc.Attr(n, "class")
		return class == "tags"
	})
	if !ok {
		return 0, ErrNoTagList
	}
	return id, nil
}
