// Package tags classifies and extracts the label/value tag list that archive
// exports embed at the top of a work's first content page.
package tags

import "regexp"

type kindID uint8

const (
	unknownID kindID = iota
	ratingID
	archiveWarningsID
	categoriesID
	fandomsID
	relationshipsID
	charactersID
	additionalTagsID
	languageID
	seriesID
	statsID
)

// Kind is the semantic category of a tag label. The ten known kinds compare
// equal by variant; unknown kinds compare equal by their label text.
type Kind struct {
	id    kindID
	label string
}

var (
	Rating          = Kind{id: ratingID}
	ArchiveWarnings = Kind{id: archiveWarningsID}
	Categories      = Kind{id: categoriesID}
	Fandoms         = Kind{id: fandomsID}
	Relationships   = Kind{id: relationshipsID}
	Characters      = Kind{id: charactersID}
	AdditionalTags  = Kind{id: additionalTagsID}
	Language        = Kind{id: languageID}
	Series          = Kind{id: seriesID}
	Stats           = Kind{id: statsID}
)

// Unknown returns the kind for a label that matched no known category.
func Unknown(label string) Kind {
	return Kind{id: unknownID, label: label}
}

// IsUnknown reports whether k is an unrecognised label.
func (k Kind) IsUnknown() bool {
	return k.id == unknownID
}

// Label returns the label text of an unknown kind.
func (k Kind) Label() string {
	return k.label
}

func (k Kind) String() string {
	switch k.id {
	case ratingID:
		return "Rating"
	case archiveWarningsID:
		return "ArchiveWarnings"
	case categoriesID:
		return "Categories"
	case fandomsID:
		return "Fandoms"
	case relationshipsID:
		return "Relationships"
	case charactersID:
		return "Characters"
	case additionalTagsID:
		return "AdditionalTags"
	case languageID:
		return "Language"
	case seriesID:
		return "Series"
	case statsID:
		return "Stats"
	}
	return "Unknown(" + k.label + ")"
}

type labelPattern struct {
	kind Kind
	re   *regexp.Regexp
}

// patterns is tried in order and the first match wins. Several labels can
// match more than one loose pattern, so the order is part of the contract.
var patterns = []labelPattern{
	{Rating, regexp.MustCompile(`(?i)rating`)},
	{ArchiveWarnings, regexp.MustCompile(`(?i)archiv.*warn`)},
	{Categories, regexp.MustCompile(`(?i)categor`)},
	{Fandoms, regexp.MustCompile(`(?i)fandom`)},
	{Relationships, regexp.MustCompile(`(?i)relationship`)},
	{Characters, regexp.MustCompile(`(?i)character`)},
	{AdditionalTags, regexp.MustCompile(`(?i)addit.*tag`)},
	{Language, regexp.MustCompile(`(?i)lang`)},
	{Series, regexp.MustCompile(`(?i)series`)},
	{Stats, regexp.MustCompile(`(?i)stat`)},
}

// Classify maps a label to its Kind. It never fails: labels that match no
// pattern come back as Unknown carrying the label unchanged.
func Classify(label string) Kind {
	for _, p := range patterns {
		if p.re.MatchString(label) {
			return p.kind
		}
	}
	return Unknown(label)
}
