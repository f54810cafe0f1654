// Package booktree defines the numbered chapter/section/subsection tree
// that outline building produces and text splitting fills in.
package booktree

// DefaultChapterMarker is the word that labels chapter headings in print.
// Russian technical books use "Глава"; override per document as needed.
const DefaultChapterMarker = "Глава"

// Book is the root of the structure: chapters keyed by number.
type Book struct {
	Chapters OrderedMap[*Chapter]
}

// Chapter is a top-level division of the book.
type Chapter struct {
	Number   string
	Title    string
	Text     string
	Sections OrderedMap[*Section]
}

// Section is a numbered division within a chapter (number form "N").
type Section struct {
	Number      string
	Title       string
	Text        string
	Subsections OrderedMap[*Subsection]
}

// Subsection is a leaf division (number form "N.M").
type Subsection struct {
	Number string
	Title  string
	Text   string
}

// Counts returns the number of chapters, sections and subsections.
func (b *Book) Counts() (chapters, sections, subsections int) {
	chapters = b.Chapters.Len()
	for _, ch := range b.Chapters.Values() {
		sections += ch.Sections.Len()
		for _, sec := range ch.Sections.Values() {
			subsections += sec.Subsections.Len()
		}
	}
	return chapters, sections, subsections
}

// Headings returns the total number of nodes at all three levels.
func (b *Book) Headings() int {
	c, s, ss := b.Counts()
	return c + s + ss
}
