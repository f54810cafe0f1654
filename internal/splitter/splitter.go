package splitter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/booklab/tocsplit/internal/booktree"
)

// Warning reports a heading the splitter could not locate in the text.
// Misses are never fatal; the node's text simply stays empty.
type Warning struct {
	Level  string `json:"level"`
	Number string `json:"number"`
	Title  string `json:"title"`
	Reason string `json:"reason"`
}

func (w Warning) String() string {
	return fmt.Sprintf("%s %s %q: %s", w.Level, w.Number, w.Title, w.Reason)
}

// state is the fold accumulator threaded through the walk: the offset
// where the last matched heading ended, and the text field of the node
// that owns whatever follows it. A nil active means the walk is still
// in the preamble and spans are discarded.
type state struct {
	cursor int
	active *string
}

// Stats summarizes one split pass. Nodes under a missed ancestor are
// never searched, so Searched can be less than the tree's heading
// count.
type Stats struct {
	Searched int `json:"searched"`
	Matched  int `json:"matched"`
}

// Splitter assigns document text to the nodes of a Book by locating
// each heading in outline order.
type Splitter struct {
	marker string
}

// New returns a Splitter using the given chapter marker word, or
// booktree.DefaultChapterMarker when empty.
func New(marker string) *Splitter {
	if marker == "" {
		marker = booktree.DefaultChapterMarker
	}
	return &Splitter{marker: marker}
}

// Split walks the book pre-order, searches the full text for each
// heading, and stores the span between consecutive matches on the node
// whose heading opened it. A chapter or section that never matches is
// reported and its subtree skipped without moving the cursor, so the
// following sibling's span absorbs the unclaimed text. After the walk,
// the remainder of the document goes to the last matched node.
func (s *Splitter) Split(book *booktree.Book, text string) (Stats, []Warning) {
	var stats Stats
	var warnings []Warning
	st := state{}

	matchOne := func(level, number, title string, dst *string, compile func() (*regexp.Regexp, error)) bool {
		stats.Searched++
		re, err := compile()
		if err != nil {
			warnings = append(warnings, Warning{Level: level, Number: number, Title: title, Reason: "pattern: " + err.Error()})
			return false
		}
		next, ok := advance(st, re, text, dst)
		if !ok {
			warnings = append(warnings, Warning{Level: level, Number: number, Title: title, Reason: "heading not found"})
			return false
		}
		stats.Matched++
		st = next
		return true
	}

	for _, ch := range book.Chapters.Values() {
		ok := matchOne("chapter", ch.Number, ch.Title, &ch.Text, func() (*regexp.Regexp, error) {
			return ChapterPattern(s.marker, ch.Number, ch.Title)
		})
		if !ok {
			continue
		}

		for _, sec := range ch.Sections.Values() {
			ok := matchOne("section", sec.Number, sec.Title, &sec.Text, func() (*regexp.Regexp, error) {
				return HeadingPattern(sec.Number, sec.Title)
			})
			if !ok {
				continue
			}

			for _, sub := range sec.Subsections.Values() {
				matchOne("subsection", sub.Number, sub.Title, &sub.Text, func() (*regexp.Regexp, error) {
					return HeadingPattern(sub.Number, sub.Title)
				})
			}
		}
	}

	if st.active != nil && st.cursor < len(text) {
		*st.active = text[st.cursor:]
	}
	return stats, warnings
}

// advance is one fold step: search the whole text for the heading, hand
// the span since the previous match to the previously active node, and
// make dst active. The search is deliberately unanchored, so a heading
// whose title recurs earlier in the document matches at its first
// occurrence; a match starting before the cursor then yields no span.
func advance(st state, re *regexp.Regexp, text string, dst *string) (state, bool) {
	loc := re.FindStringIndex(text)
	if loc == nil {
		return st, false
	}
	if st.active != nil && loc[0] > st.cursor {
		if span := text[st.cursor:loc[0]]; strings.TrimSpace(span) != "" {
			*st.active = span
		}
	}
	return state{cursor: loc[1], active: dst}, true
}
