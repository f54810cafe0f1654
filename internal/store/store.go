// Package store persists split results as one JSON file per document
// and keeps an in-memory metadata index rebuilt from the directory on
// startup.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"sync"
	"time"

	"github.com/booklab/tocsplit/internal/segment"
)

// ErrNotFound is returned when no document exists under the given ID.
var ErrNotFound = errors.New("document not found")

// docIDRe keeps IDs usable as filenames.
var docIDRe = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// ValidDocID reports whether an ID is acceptable as a document key.
func ValidDocID(id string) bool {
	return docIDRe.MatchString(id)
}

// Meta is the indexable summary of one stored document.
type Meta struct {
	DocID       string    `json:"doc_id"`
	Title       string    `json:"title"`
	Filename    string    `json:"filename"`
	ContentHash string    `json:"content_hash"`
	Chapters    int       `json:"chapters"`
	Sections    int       `json:"sections"`
	Subsections int       `json:"subsections"`
	Matched     int       `json:"matched"`
	Missed      int       `json:"missed"`
	Segments    int       `json:"segments"`
	CreatedAt   time.Time `json:"created_at"`
}

// Result is the full payload written to disk for one document. The
// structure is kept as raw JSON because the tree marshals its keys in
// insertion order and a round-trip through a map would destroy that.
type Result struct {
	Meta      Meta              `json:"meta"`
	Warnings  []string          `json:"warnings,omitempty"`
	Structure json.RawMessage   `json:"structure"`
	Segments  []segment.Segment `json:"segments,omitempty"`
}

type Store struct {
	mu   sync.RWMutex
	dir  string
	meta map[string]Meta
	log  *slog.Logger
}

// Open creates the directory if needed and rebuilds the index from the
// result files already in it. Files that fail to parse are skipped
// with a warning, not treated as fatal.
func Open(dir string, log *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	s := &Store{
		dir:  dir,
		meta: make(map[string]Meta),
		log:  log,
	}

	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("scan output dir: %w", err)
	}
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			s.log.Warn("skipping unreadable result file", "path", path, "error", err)
			continue
		}
		var res Result
		if err := json.Unmarshal(data, &res); err != nil || res.Meta.DocID == "" {
			s.log.Warn("skipping corrupt result file", "path", path)
			continue
		}
		s.meta[res.Meta.DocID] = res.Meta
	}

	return s, nil
}

// Save writes the result atomically (temp file then rename) and
// updates the index. Saving an existing ID overwrites it.
func (s *Store) Save(res Result) error {
	if !ValidDocID(res.Meta.DocID) {
		return fmt.Errorf("invalid doc id %q", res.Meta.DocID)
	}

	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.path(res.Meta.DocID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename result: %w", err)
	}

	s.meta[res.Meta.DocID] = res.Meta
	return nil
}

// Get reads the full result for one document from disk.
func (s *Store) Get(docID string) (*Result, error) {
	s.mu.RLock()
	_, ok := s.meta[docID]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}

	data, err := os.ReadFile(s.path(docID))
	if err != nil {
		return nil, fmt.Errorf("read result: %w", err)
	}
	var res Result
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("parse result: %w", err)
	}
	return &res, nil
}

// List returns metadata for all documents, newest first.
func (s *Store) List() []Meta {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Meta, 0, len(s.meta))
	for _, m := range s.meta {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].DocID < out[j].DocID
	})
	return out
}

// Delete removes the document's file and index entry.
func (s *Store) Delete(docID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.meta[docID]; !ok {
		return ErrNotFound
	}
	if err := os.Remove(s.path(docID)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove result: %w", err)
	}
	delete(s.meta, docID)
	return nil
}

// Len reports how many documents are stored.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.meta)
}

func (s *Store) path(docID string) string {
	return filepath.Join(s.dir, docID+".json")
}
