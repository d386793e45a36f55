package tags

import (
	"fmt"
	"log/slog"

	"github.com/lehigh-university-libraries/fictags/internal/markup"
)

// FromPage parses a content page, locates its tag list and builds the
// Record. It also returns the distinct unknown labels it skipped.
func FromPage(page string, logger *slog.Logger) (Record, []string, error) {
	doc, err := markup.Parse(page)
	if err != nil {
		return Record{}, nil, fmt.Errorf("failed to parse content page: %w", err)
	}

	list, err := markup.FindTagList(doc)
	if err != nil {
		return Record{}, nil, err
	}

	set, err := ExtractPairs(doc, list)
	if err != nil {
		return Record{}, nil, err
	}

	return Build(doc, set, logger), set.UnknownLabels(), nil
}
