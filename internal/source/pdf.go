package source

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
	"golang.org/x/sync/errgroup"

	"github.com/booklab/tocsplit/internal/outline"
)

// PDFSource handles PDF files: per-page plain text through the Go
// library, plus the embedded outline when the document has one. When
// the library cannot read a file and FallbackPdftotext is set, page
// text comes from the pdftotext binary instead (without an outline).
type PDFSource struct {
	FallbackPdftotext bool
}

// Page text extraction is read-only on the open reader, so pages are
// pulled concurrently with a small bound.
const pdfExtractConcurrency = 4

func (s *PDFSource) Load(r io.Reader, filename string) (*Document, error) {
	// ledongthuc/pdf requires a ReadSeeker plus size, so spool to a temp file.
	tmp, err := os.CreateTemp("", "tocsplit-pdf-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	doc, err := loadPDF(tmpPath, filename)
	if err != nil && s.FallbackPdftotext {
		doc, err = loadPdftotext(tmpPath, filename)
	}
	if err != nil {
		return nil, fmt.Errorf("extract pdf: %w", err)
	}
	return doc, nil
}

func loadPDF(path, filename string) (*Document, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	numPages := reader.NumPage()
	pages := make([]string, numPages)

	g := new(errgroup.Group)
	g.SetLimit(pdfExtractConcurrency)
	for i := 1; i <= numPages; i++ {
		i := i
		g.Go(func() error {
			page := reader.Page(i)
			if page.V.IsNull() {
				return nil
			}
			text, err := page.GetPlainText(nil)
			if err != nil {
				// A single unreadable page stays empty.
				return nil
			}
			pages[i-1] = text
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var entries []outline.Entry
	flattenPDFOutline(reader.Outline(), 0, &entries)

	return &Document{
		Title:   titleFromFilename(filename),
		Outline: entries,
		Pages:   pages,
	}, nil
}

// flattenPDFOutline turns the nested PDF outline into depth-tagged
// rows. The root node is structural and unnamed; untitled intermediate
// nodes are skipped but still descended into.
func flattenPDFOutline(node pdflib.Outline, depth int, entries *[]outline.Entry) {
	if depth > 0 {
		if title := strings.TrimSpace(node.Title); title != "" {
			*entries = append(*entries, outline.Entry{Depth: depth, Title: title})
		}
	}
	for _, child := range node.Child {
		flattenPDFOutline(child, depth+1, entries)
	}
}

func loadPdftotext(path, filename string) (*Document, error) {
	cmd := exec.Command("pdftotext", "-layout", path, "-")
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("pdftotext: %w", err)
	}
	return &Document{
		Title: titleFromFilename(filename),
		Pages: strings.Split(string(out), "\f"),
	}, nil
}
