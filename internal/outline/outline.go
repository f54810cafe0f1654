// Package outline turns a flat table of contents into an empty Book tree.
package outline

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/booklab/tocsplit/internal/booktree"
)

// Entry is one table-of-contents row: nesting depth (1 chapter,
// 2 section, 3 subsection), raw heading title, and source page when the
// extractor knows it.
type Entry struct {
	Depth int    `json:"depth"`
	Title string `json:"title"`
	Page  int    `json:"page,omitempty"`
}

// Warning reports an outline entry that could not be placed in the tree.
// Placement failures never abort a build.
type Warning struct {
	Title  string `json:"title"`
	Reason string `json:"reason"`
}

func (w Warning) String() string {
	return fmt.Sprintf("outline entry %q: %s", w.Title, w.Reason)
}

// sectionRe captures a leading dotted numeral and the remainder title.
// An optional dot directly after the numeral ("2.1. Setup") is eaten so
// it does not leak into the title.
var sectionRe = regexp.MustCompile(`^(\d+(?:\.\d+)*)\.?\s*(.*)`)

var (
	sectionNumRe    = regexp.MustCompile(`^\d+$`)
	subsectionNumRe = regexp.MustCompile(`^\d+\.\d+$`)
)

// Builder parses TOC entries into a Book skeleton.
type Builder struct {
	marker    string
	chapterRe *regexp.Regexp
}

// NewBuilder returns a Builder recognizing the given chapter marker
// word. An empty marker selects booktree.DefaultChapterMarker.
func NewBuilder(marker string) *Builder {
	if marker == "" {
		marker = booktree.DefaultChapterMarker
	}
	return &Builder{
		marker:    marker,
		chapterRe: regexp.MustCompile(`(?i)^(?:` + regexp.QuoteMeta(marker) + `\s*)?(\d+)\.?\s*(.*)`),
	}
}

// Marker returns the chapter marker word this builder recognizes.
func (b *Builder) Marker() string { return b.marker }

// Build folds the entries into a Book skeleton with empty text fields.
// Chapters open on depth-1 rows; depth-2 and depth-3 rows attach to the
// open chapter. A duplicate number replaces the earlier node but keeps
// its position. Rows that cannot be placed are reported as warnings.
func (b *Builder) Build(entries []Entry) (*booktree.Book, []Warning) {
	book := &booktree.Book{}
	var warnings []Warning

	var chapter *booktree.Chapter
	var section *booktree.Section

	for i, e := range entries {
		title := strings.TrimSpace(e.Title)

		switch e.Depth {
		case 1:
			num, rest := b.parseChapter(title)
			if num == "" {
				warnings = append(warnings, Warning{Title: e.Title, Reason: "no chapter number found"})
				continue
			}
			chapter = &booktree.Chapter{Number: num, Title: rest}
			section = nil
			if rest == "" && i+1 < len(entries) {
				// A bare "Глава 3" row carries no title of its own; the
				// next TOC row usually holds it.
				chapter.Title = strings.TrimSpace(entries[i+1].Title)
			}
			book.Chapters.Set(num, chapter)

		case 2, 3:
			if chapter == nil {
				warnings = append(warnings, Warning{Title: e.Title, Reason: "section before any chapter"})
				continue
			}
			num, rest := parseSection(title)
			if num == "" {
				warnings = append(warnings, Warning{Title: e.Title, Reason: "no section number found"})
				continue
			}
			switch {
			case sectionNumRe.MatchString(num):
				section = &booktree.Section{Number: num, Title: rest}
				chapter.Sections.Set(num, section)
			case subsectionNumRe.MatchString(num):
				if section == nil {
					// Subsection with no open section in this chapter:
					// attach it under an implicit untitled section named
					// after the subsection's prefix.
					prefix := num[:strings.Index(num, ".")]
					section = &booktree.Section{Number: prefix}
					chapter.Sections.Set(prefix, section)
				}
				section.Subsections.Set(num, &booktree.Subsection{Number: num, Title: rest})
			default:
				warnings = append(warnings, Warning{
					Title:  e.Title,
					Reason: fmt.Sprintf("number %q is neither section nor subsection", num),
				})
			}
		}
	}

	return book, warnings
}

func (b *Builder) parseChapter(title string) (num, rest string) {
	m := b.chapterRe.FindStringSubmatch(title)
	if m == nil {
		return "", ""
	}
	return m[1], strings.TrimSpace(m[2])
}

func parseSection(title string) (num, rest string) {
	m := sectionRe.FindStringSubmatch(title)
	if m == nil {
		return "", ""
	}
	return m[1], strings.TrimSpace(m[2])
}
