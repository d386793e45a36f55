// Package epub reads the parts of an EPUB archive needed for cataloging:
// the package metadata and the content pages in reading order.
package epub

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
)

const containerPath = "META-INF/container.xml"

var (
	// ErrNoMetadata is returned when the package document has no <metadata>.
	ErrNoMetadata = errors.New("package document has no metadata")
	// ErrNoRootfile is returned when container.xml names no package document.
	ErrNoRootfile = errors.New("container.xml has no rootfile")
)

// Metadata holds the Dublin Core values of the package document, in the
// order they appear.
type Metadata struct {
	Titles       []string
	Creators     []string
	Publishers   []string
	Descriptions []string
}

type containerDoc struct {
	Rootfiles []struct {
		FullPath string `xml:"full-path,attr"`
	} `xml:"rootfiles>rootfile"`
}

type packageDoc struct {
	Metadata *struct {
		Titles       []string `xml:"title"`
		Creators     []string `xml:"creator"`
		Publishers   []string `xml:"publisher"`
		Descriptions []string `xml:"description"`
	} `xml:"metadata"`
	Manifest []struct {
		ID   string `xml:"id,attr"`
		Href string `xml:"href,attr"`
	} `xml:"manifest>item"`
	Spine []struct {
		IDRef string `xml:"idref,attr"`
	} `xml:"spine>itemref"`
}

// Book is an open EPUB archive.
type Book struct {
	zr     *zip.ReadCloser
	opfDir string
	pkg    packageDoc
	hrefs  map[string]string
}

// Open opens the archive at path and reads its package document.
func Open(path string) (*Book, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open epub archive: %w", err)
	}

	b := &Book{zr: zr}
	if err := b.load(); err != nil {
		zr.Close()
		return nil, err
	}
	return b, nil
}

func (b *Book) load() error {
	var container containerDoc
	if err := b.decode(containerPath, &container); err != nil {
		return err
	}

	var opfPath string
	for _, rf := range container.Rootfiles {
		if rf.FullPath != "" {
			opfPath = rf.FullPath
			break
		}
	}
	if opfPath == "" {
		return ErrNoRootfile
	}

	if err := b.decode(opfPath, &b.pkg); err != nil {
		return err
	}

	b.opfDir = path.Dir(opfPath)
	b.hrefs = make(map[string]string, len(b.pkg.Manifest))
	for _, item := range b.pkg.Manifest {
		b.hrefs[item.ID] = item.Href
	}
	return nil
}

// decode reads an XML member of the archive. Package documents in the wild
// carry HTML entities and sloppy markup, so the decoder is not strict.
func (b *Book) decode(name string, v any) error {
	data, err := b.read(name)
	if err != nil {
		return err
	}

	dec := xml.NewDecoder(strings.NewReader(data))
	dec.Strict = false
	dec.AutoClose = xml.HTMLAutoClose
	dec.Entity = xml.HTMLEntity
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return nil
}

func (b *Book) read(name string) (string, error) {
	f, err := b.zr.Open(name)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", name, err)
	}
	return string(data), nil
}

// Metadata returns the Dublin Core metadata of the package document.
func (b *Book) Metadata() (Metadata, error) {
	m := b.pkg.Metadata
	if m == nil {
		return Metadata{}, ErrNoMetadata
	}
	return Metadata{
		Titles:       trimAll(m.Titles),
		Creators:     trimAll(m.Creators),
		Publishers:   trimAll(m.Publishers),
		Descriptions: trimAll(m.Descriptions),
	}, nil
}

// PageCount returns the number of items in the reading order.
func (b *Book) PageCount() int {
	return len(b.pkg.Spine)
}

// Page returns the content of the i-th item of the reading order.
func (b *Book) Page(i int) (string, error) {
	if i < 0 || i >= len(b.pkg.Spine) {
		return "", fmt.Errorf("page %d out of range (book has %d pages)", i, len(b.pkg.Spine))
	}

	ref := b.pkg.Spine[i].IDRef
	href, ok := b.hrefs[ref]
	if !ok {
		return "", fmt.Errorf("spine item %q is not in the manifest", ref)
	}

	if idx := strings.IndexByte(href, '#'); idx >= 0 {
		href = href[:idx]
	}
	if unescaped, err := url.PathUnescape(href); err == nil {
		href = unescaped
	}

	return b.read(path.Join(b.opfDir, href))
}

// Close releases the archive.
func (b *Book) Close() error {
	return b.zr.Close()
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, strings.TrimSpace(v))
	}
	return out
}
