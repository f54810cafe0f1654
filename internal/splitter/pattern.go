// Package splitter locates outline headings inside flattened document
// text and assigns every span between matches to its owning node.
package splitter

import (
	"regexp"
)

var wsRun = regexp.MustCompile(`\s+`)

// relaxed escapes a title for literal matching, then widens every
// whitespace run into \s* so headings still match after the extractor
// re-wraps lines or collapses spacing.
func relaxed(title string) string {
	return wsRun.ReplaceAllString(regexp.QuoteMeta(title), `\s*`)
}

// ChapterPattern compiles the search pattern for a chapter heading:
// marker word, chapter number, then the relaxed title. The match is
// case-insensitive and not anchored to a line start, since extracted
// text often glues running heads onto chapter openings.
func ChapterPattern(marker, number, title string) (*regexp.Regexp, error) {
	expr := `(?i)` + regexp.QuoteMeta(marker) + `\s*` + regexp.QuoteMeta(number) + `\s*` + relaxed(title)
	return regexp.Compile(expr)
}

// HeadingPattern compiles the search pattern for section and subsection
// headings: the number anchored at a line start, then the relaxed title.
func HeadingPattern(number, title string) (*regexp.Regexp, error) {
	expr := `(?im)^` + regexp.QuoteMeta(number) + `\s*` + relaxed(title)
	return regexp.Compile(expr)
}
