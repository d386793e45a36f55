package tags

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/lehigh-university-libraries/fictags/internal/markup"
)

// ParsedSet is the de-duplicated result of pairing a tag list.
type ParsedSet struct {
	// Values maps each kind to its <dd> value node.
	Values map[Kind]markup.NodeID
	// Repeated holds distinct unknown labels that occurred more than once.
	Repeated []string
}

// UnknownLabels returns the distinct unknown labels in document order.
func (s ParsedSet) UnknownLabels() []string {
	var kinds []Kind
	for k := range s.Values {
		if k.IsUnknown() {
			kinds = append(kinds, k)
		}
	}
	// Node IDs are allocated in document order.
	slices.SortFunc(kinds, func(a, b Kind) int {
		return cmp.Compare(s.Values[a], s.Values[b])
	})
	labels := make([]string, len(kinds))
	for i, k := range kinds {
		labels[i] = k.Label()
	}
	return labels
}

// PairError reports a chunk of the list that is not a <dt> followed by a <dd>.
type PairError struct {
	Label string
	Value string
}

func (e *PairError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("mismatched tag pair: %s is not followed by a value", e.Label)
	}
	return fmt.Sprintf("mismatched tag pair: expected <dt> then <dd>, got %s then %s", e.Label, e.Value)
}

// MissingTextError reports a <dt> label with no text.
type MissingTextError struct {
	Source string
}

func (e *MissingTextError) Error() string {
	return fmt.Sprintf("tag label has no text: %s", e.Source)
}

// DuplicateTagError reports a known kind that occurs twice in one list.
type DuplicateTagError struct {
	Kind   Kind
	First  string
	Second string
}

func (e *DuplicateTagError) Error() string {
	return fmt.Sprintf("duplicate %s tag: %s and %s", e.Kind, e.First, e.Second)
}

// ExtractPairs walks the children of a tag list as alternating label and
// value elements and resolves them into a ParsedSet. It does not attempt to
// resynchronise after a malformed pair.
func ExtractPairs(doc *markup.Document, list markup.NodeID) (ParsedSet, error) {
	var items []markup.NodeID
	for _, c := range doc.Children(list) {
		if doc.HasTagName(c, "dt") || doc.HasTagName(c, "dd") {
			items = append(items, c)
		}
	}

	set := ParsedSet{Values: make(map[Kind]markup.NodeID)}
	repeated := make(map[string]bool)

	for i := 0; i < len(items); i += 2 {
		label := items[i]
		if i+1 >= len(items) {
			return ParsedSet{}, &PairError{Label: doc.Source(label)}
		}
		value := items[i+1]
		if !doc.HasTagName(label, "dt") || !doc.HasTagName(value, "dd") {
			return ParsedSet{}, &PairError{Label: doc.Source(label), Value: doc.Source(value)}
		}

		text, ok := doc.Text(label)
		text = strings.TrimSpace(text)
		if !ok || text == "" {
			return ParsedSet{}, &MissingTextError{Source: doc.Source(label)}
		}

		kind := Classify(text)
		prev, exists := set.Values[kind]
		switch {
		case !exists:
			set.Values[kind] = value
		case kind.IsUnknown():
			if !repeated[text] {
				repeated[text] = true
				set.Repeated = append(set.Repeated, text)
			}
		default:
			return ParsedSet{}, &DuplicateTagError{
				Kind:   kind,
				First:  doc.Source(prev),
				Second: doc.Source(value),
			}
		}
	}

	return set, nil
}
