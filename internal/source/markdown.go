package source

import (
	"bytes"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/booklab/tocsplit/internal/outline"
)

// MarkdownSource handles Markdown files using goldmark. Headings h1-h3
// become outline rows, and the whole document is flattened to plain
// text with each heading on its own line so line-anchored patterns can
// find it again.
type MarkdownSource struct{}

func (s *MarkdownSource) Load(r io.Reader, filename string) (*Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	var entries []outline.Entry
	var flat strings.Builder

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			title := strings.TrimSpace(string(node.Text(src)))
			if title == "" {
				continue
			}
			if node.Level <= 3 {
				entries = append(entries, outline.Entry{Depth: node.Level, Title: title})
			}
			flat.WriteString(title)
			flat.WriteByte('\n')
		default:
			if t := blockText(n, src); t != "" {
				flat.WriteString(t)
				flat.WriteByte('\n')
			}
		}
	}

	return &Document{
		Title:   titleFromFilename(filename),
		Outline: entries,
		Pages:   []string{flat.String()},
	}, nil
}

// blockText gets the text content of a goldmark AST node. Leaf blocks
// carry their own source lines; containers (lists, quotes) only hold
// children.
func blockText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if n.Type() == ast.TypeBlock && n.Lines().Len() > 0 {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			buf.Write(seg.Value(src))
		}
		return strings.TrimSpace(buf.String())
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t := blockText(c, src); t != "" {
			if buf.Len() > 0 {
				buf.WriteByte('\n')
			}
			buf.WriteString(t)
		}
	}
	return strings.TrimSpace(buf.String())
}
