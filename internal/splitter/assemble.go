package splitter

import "strings"

// Assemble joins per-page text into one document string, newline
// separated, starting from startPage (1-based). Pages with no text at
// all are dropped so they do not contribute stray separators; values
// below 1 start from the first page.
func Assemble(pages []string, startPage int) string {
	if startPage < 1 {
		startPage = 1
	}
	var parts []string
	for i := startPage - 1; i < len(pages); i++ {
		if pages[i] != "" {
			parts = append(parts, pages[i])
		}
	}
	return strings.Join(parts, "\n")
}
