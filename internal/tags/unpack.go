package tags

import "github.com/lehigh-university-libraries/fictags/internal/markup"

// Unpack returns the raw text segments held by a <dd> value node.
//
// A value with no children or a single child is a scalar. A value with more
// children is a list rendered as links separated by commas, so only the text
// of the <a> children is kept.
func Unpack(doc *markup.Document, value markup.NodeID) []string {
	children := doc.Children(value)
	switch len(children) {
	case 0:
		text, _ := doc.Text(value)
		return []string{text}
	case 1:
		text, _ := doc.Text(children[0])
		return []string{text}
	}

	var out []string
	for _, c := range children {
		if doc.HasTagName(c, "a") {
			text, _ := doc.Text(c)
			out = append(out, text)
		}
	}
	return out
}
