// Package epubtest writes small EPUB archives for tests.
package epubtest

import (
	"archive/zip"
	"fmt"
	"html"
	"os"
	"strings"
	"testing"
)

// Fixture describes the archive to write.
type Fixture struct {
	Titles       []string
	Creators     []string
	Publishers   []string
	Descriptions []string
	// Pages are written as XHTML files in reading order.
	Pages []string
	// NoMetadata omits the <metadata> element of the package document.
	NoMetadata bool
}

const containerXML = `<?xml version="1.0" encoding="UTF-8"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`

// Write creates an EPUB archive at path.
func Write(t testing.TB, path string, f Fixture) {
	t.Helper()

	out, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create epub: %v", err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	files := []struct{ name, body string }{
		{"mimetype", "application/epub+zip"},
		{"META-INF/container.xml", containerXML},
		{"OEBPS/content.opf", packageXML(f)},
	}
	for i, page := range f.Pages {
		files = append(files, struct{ name, body string }{fmt.Sprintf("OEBPS/page%d.xhtml", i), page})
	}

	for _, file := range files {
		w, err := zw.Create(file.name)
		if err != nil {
			t.Fatalf("Failed to add %s: %v", file.name, err)
		}
		if _, err := w.Write([]byte(file.body)); err != nil {
			t.Fatalf("Failed to write %s: %v", file.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("Failed to finish epub: %v", err)
	}
}

// TagPage wraps a tag list body in a minimal XHTML preface page.
func TagPage(inner string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE html>
<html xmlns="http://www.w3.org/1999/xhtml">
<head><title>Preface</title></head>
<body>
<div class="meta">
<dl class="tags">` + inner + `</dl>
</div>
</body>
</html>`
}

func packageXML(f Fixture) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<package xmlns="http://www.idpf.org/2007/opf" version="2.0" unique-identifier="id">
`)
	if !f.NoMetadata {
		sb.WriteString(`<metadata xmlns:dc="http://purl.org/dc/elements/1.1/">` + "\n")
		for _, v := range f.Titles {
			fmt.Fprintf(&sb, "<dc:title>%s</dc:title>\n", html.EscapeString(v))
		}
		for _, v := range f.Creators {
			fmt.Fprintf(&sb, "<dc:creator>%s</dc:creator>\n", html.EscapeString(v))
		}
		for _, v := range f.Publishers {
			fmt.Fprintf(&sb, "<dc:publisher>%s</dc:publisher>\n", html.EscapeString(v))
		}
		for _, v := range f.Descriptions {
			fmt.Fprintf(&sb, "<dc:description>%s</dc:description>\n", html.EscapeString(v))
		}
		sb.WriteString("</metadata>\n")
	}

	sb.WriteString("<manifest>\n")
	for i := range f.Pages {
		fmt.Fprintf(&sb, `<item id="page%d" href="page%d.xhtml" media-type="application/xhtml+xml"/>`+"\n", i, i)
	}
	sb.WriteString("</manifest>\n<spine>\n")
	for i := range f.Pages {
		fmt.Fprintf(&sb, `<itemref idref="page%d"/>`+"\n", i)
	}
	sb.WriteString("</spine>\n</package>\n")
	return sb.String()
}
