package tags

import (
	"log/slog"
	"strings"

	"github.com/lehigh-university-libraries/fictags/internal/markup"
)

// Record holds the classified tags of one work. Field order is the column
// order of the exported sheet.
type Record struct {
	Rating          *string  `json:"rating" yaml:"rating"`
	ArchiveWarnings []string `json:"archive_warnings" yaml:"archive_warnings"`
	Categories      []string `json:"categories" yaml:"categories"`
	Fandoms         []string `json:"fandoms" yaml:"fandoms"`
	Relationships   []string `json:"relationships" yaml:"relationships"`
	Characters      []string `json:"characters" yaml:"characters"`
	AdditionalTags  []string `json:"additional_tags" yaml:"additional_tags"`
	Language        *string  `json:"language" yaml:"language"`
	Series          *string  `json:"series" yaml:"series"`
	Stats           *string  `json:"stats" yaml:"stats"`
}

// Build assembles a Record from a ParsedSet. Unknown labels are not kept;
// they are reported through logger.
func Build(doc *markup.Document, set ParsedSet, logger *slog.Logger) Record {
	if logger == nil {
		logger = slog.Default()
	}

	b := builder{doc: doc, set: set, logger: logger}
	rec := Record{
		Rating:          b.scalar(Rating),
		ArchiveWarnings: b.list(ArchiveWarnings),
		Categories:      b.list(Categories),
		Fandoms:         b.list(Fandoms),
		Relationships:   b.list(Relationships),
		Characters:      b.list(Characters),
		AdditionalTags:  b.list(AdditionalTags),
		Language:        b.scalar(Language),
		Series:          b.scalar(Series),
		Stats:           b.scalar(Stats),
	}

	if unknown := set.UnknownLabels(); len(unknown) > 0 {
		logger.Warn("Ignoring unknown tag labels", "labels", unknown, "repeated", set.Repeated)
	}

	return rec
}

type builder struct {
	doc    *markup.Document
	set    ParsedSet
	logger *slog.Logger
}

func (b builder) segments(kind Kind) ([]string, bool) {
	value, ok := b.set.Values[kind]
	if !ok {
		return nil, false
	}
	raw := Unpack(b.doc, value)
	out := make([]string, len(raw))
	for i, s := range raw {
		out[i] = strings.TrimSpace(s)
	}
	return out, true
}

func (b builder) scalar(kind Kind) *string {
	values, ok := b.segments(kind)
	if !ok || len(values) == 0 {
		return nil
	}
	if len(values) > 1 {
		b.logger.Warn("Multiple values for single-valued tag, keeping the first",
			"tag", kind.String(), "values", values)
	}
	return &values[0]
}

func (b builder) list(kind Kind) []string {
	values, ok := b.segments(kind)
	if !ok {
		return []string{}
	}
	return values
}
