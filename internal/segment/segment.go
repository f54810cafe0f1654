// Package segment cuts the text carried by a split book into sized
// pieces with breadcrumb context, for retrieval or embedding pipelines
// that cannot take whole chapters.
package segment

import (
	"strings"

	"github.com/booklab/tocsplit/internal/booktree"
)

// Config controls segmentation.
type Config struct {
	SegmentSize    int    // Target segment size in tokens.
	SegmentOverlap int    // Overlap between consecutive segments in tokens.
	MinSegment     int    // Minimum segment size to emit.
	Marker         string // Chapter marker word used in breadcrumbs.
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		SegmentSize:    1500,
		SegmentOverlap: 200,
		MinSegment:     100,
		Marker:         booktree.DefaultChapterMarker,
	}
}

// Segment is one sized piece of node text with its position in the book.
type Segment struct {
	Text       string   `json:"text"`
	Index      int      `json:"index"`
	Breadcrumb []string `json:"breadcrumb"`
}

// FromBook walks a split book in outline order and segments every
// node's text. Nodes the splitter left empty contribute nothing.
func FromBook(book *booktree.Book, cfg Config) []Segment {
	if cfg.SegmentSize <= 0 {
		cfg.SegmentSize = 1500
	}
	if cfg.SegmentOverlap < 0 {
		cfg.SegmentOverlap = 0
	}
	if cfg.MinSegment <= 0 {
		cfg.MinSegment = 100
	}
	if cfg.Marker == "" {
		cfg.Marker = booktree.DefaultChapterMarker
	}

	var segments []Segment
	index := 0

	for _, ch := range book.Chapters.Values() {
		chBC := []string{label(cfg.Marker+" "+ch.Number, ch.Title)}
		index = emit(ch.Text, chBC, cfg, &segments, index)
		for _, sec := range ch.Sections.Values() {
			secBC := append(copyBreadcrumb(chBC), label(sec.Number, sec.Title))
			index = emit(sec.Text, secBC, cfg, &segments, index)
			for _, sub := range sec.Subsections.Values() {
				subBC := append(copyBreadcrumb(secBC), label(sub.Number, sub.Title))
				index = emit(sub.Text, subBC, cfg, &segments, index)
			}
		}
	}

	return segments
}

// emit segments one node's text, appending to segments and returning
// the next free index. Spans are stored raw on the tree; segments trim
// the edges.
func emit(text string, breadcrumb []string, cfg Config, segments *[]Segment, index int) int {
	text = strings.TrimSpace(text)
	if text == "" {
		return index
	}

	tokens := EstimateTokens(text)
	if tokens <= cfg.SegmentSize {
		if tokens >= cfg.MinSegment {
			*segments = append(*segments, Segment{
				Text:       text,
				Index:      index,
				Breadcrumb: copyBreadcrumb(breadcrumb),
			})
			index++
		}
		return index
	}

	for _, part := range splitText(text, cfg.SegmentSize, cfg.SegmentOverlap) {
		if EstimateTokens(part) >= cfg.MinSegment {
			*segments = append(*segments, Segment{
				Text:       part,
				Index:      index,
				Breadcrumb: copyBreadcrumb(breadcrumb),
			})
			index++
		}
	}
	return index
}

func label(number, title string) string {
	return strings.TrimSpace(number + " " + title)
}

func copyBreadcrumb(bc []string) []string {
	if len(bc) == 0 {
		return nil
	}
	out := make([]string, len(bc))
	copy(out, bc)
	return out
}
