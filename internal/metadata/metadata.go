// Package metadata pulls bibliographic fields out of an EPUB package
// document.
package metadata

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/microcosm-cc/bluemonday"

	"github.com/lehigh-university-libraries/fictags/internal/epub"
)

// MetaInfo holds the bibliographic fields of one work. Field order is the
// column order of the exported sheet.
type MetaInfo struct {
	Path        string   `json:"path_to_file" yaml:"path_to_file"`
	Title       *string  `json:"title" yaml:"title"`
	Creators    []string `json:"creators" yaml:"creators"`
	Publishers  []string `json:"publishers" yaml:"publishers"`
	Description *string  `json:"description" yaml:"description"`
}

// Source exposes package metadata. *epub.Book implements it.
type Source interface {
	Metadata() (epub.Metadata, error)
}

// Format selects how HTML descriptions are rendered.
type Format string

const (
	// FormatText renders descriptions as plain text, one line per block.
	FormatText Format = "text"
	// FormatMarkdown renders descriptions as CommonMark.
	FormatMarkdown Format = "markdown"
)

// ParseFormat validates a format name. The empty string is FormatText.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatText:
		return FormatText, nil
	case FormatMarkdown:
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("unknown description format %q (use text or markdown)", s)
}

// Extractor builds MetaInfo values.
type Extractor struct {
	logger  *slog.Logger
	policy  *bluemonday.Policy
	convert func(string) (string, error)
}

// NewExtractor creates an Extractor that renders descriptions as plain
// text. A nil logger uses slog.Default().
func NewExtractor(logger *slog.Logger) *Extractor {
	return NewExtractorWithFormat(logger, FormatText)
}

// NewExtractorWithFormat creates an Extractor that renders descriptions in
// format.
func NewExtractorWithFormat(logger *slog.Logger, format Format) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Extractor{
		logger:  logger,
		policy:  bluemonday.UGCPolicy(),
		convert: plainText,
	}
	if format == FormatMarkdown {
		conv := converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
			),
		)
		e.convert = func(s string) (string, error) {
			return conv.ConvertString(s)
		}
	}
	return e
}

// Extract reads the metadata of src. path is recorded as given.
func (e *Extractor) Extract(src Source, path string) (MetaInfo, error) {
	m, err := src.Metadata()
	if err != nil {
		return MetaInfo{Path: path}, fmt.Errorf("failed to read package metadata: %w", err)
	}

	info := MetaInfo{
		Path:       path,
		Creators:   m.Creators,
		Publishers: m.Publishers,
	}
	if len(m.Titles) > 0 {
		info.Title = &m.Titles[0]
	}
	if len(m.Descriptions) > 0 && m.Descriptions[0] != "" {
		desc := e.Description(m.Descriptions[0], path)
		info.Description = &desc
	}
	return info, nil
}

// Description sanitizes an HTML description and renders it in the
// extractor's format. If conversion fails the raw description is returned
// and a warning is logged.
func (e *Extractor) Description(raw, path string) string {
	text, err := e.convert(e.policy.Sanitize(raw))
	if err == nil && strings.TrimSpace(text) == "" && strings.TrimSpace(raw) != "" {
		err = errors.New("conversion produced no text")
	}
	if err != nil {
		e.logger.Warn("Failed to convert description, keeping raw text", "path", path, "error", err)
		return raw
	}
	return strings.TrimSpace(text)
}
