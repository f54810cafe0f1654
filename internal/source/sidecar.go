package source

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/booklab/tocsplit/internal/outline"
)

// Sidecar outlines cover inputs whose own outline is missing or wrong,
// which is the norm for .txt and for scanned PDFs. CSV rows are
// "depth,title[,page]"; JSON is an array of outline entry objects.

// ParseOutline reads a sidecar outline, picking the format from the
// filename extension.
func ParseOutline(r io.Reader, filename string) ([]outline.Entry, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		return parseOutlineJSON(r)
	case ".csv":
		return parseOutlineCSV(r)
	default:
		return nil, fmt.Errorf("unsupported outline format: %s", filepath.Ext(filename))
	}
}

func parseOutlineJSON(r io.Reader) ([]outline.Entry, error) {
	var entries []outline.Entry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("parse outline json: %w", err)
	}
	return entries, nil
}

func parseOutlineCSV(r io.Reader) ([]outline.Entry, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse outline csv: %w", err)
	}

	var entries []outline.Entry
	for i, rec := range records {
		if len(rec) < 2 {
			return nil, fmt.Errorf("outline csv row %d: expected depth,title[,page]", i+1)
		}
		depth, err := strconv.Atoi(strings.TrimSpace(rec[0]))
		if err != nil {
			// A leading header row is allowed.
			if i == 0 && strings.EqualFold(strings.TrimSpace(rec[0]), "depth") {
				continue
			}
			return nil, fmt.Errorf("outline csv row %d: bad depth %q", i+1, rec[0])
		}
		e := outline.Entry{Depth: depth, Title: rec[1]}
		if len(rec) > 2 && strings.TrimSpace(rec[2]) != "" {
			page, err := strconv.Atoi(strings.TrimSpace(rec[2]))
			if err != nil {
				return nil, fmt.Errorf("outline csv row %d: bad page %q", i+1, rec[2])
			}
			e.Page = page
		}
		entries = append(entries, e)
	}
	return entries, nil
}
