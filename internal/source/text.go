package source

import (
	"io"
	"strings"
)

// TextSource handles plain text files. Form feeds are honored as page
// separators so page-oriented dumps keep their page numbering; a file
// without them is one page. Plain text carries no outline of its own,
// so callers supply one through a sidecar file.
type TextSource struct{}

func (s *TextSource) Load(r io.Reader, filename string) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return &Document{
		Title: titleFromFilename(filename),
		Pages: strings.Split(string(data), "\f"),
	}, nil
}
