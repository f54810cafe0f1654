package booktree

import (
	"bytes"
	"encoding/json"
)

// The encoded shape is a top-level object keyed by chapter number, each
// chapter holding "title", "sections" and, once populated, "text".
// Key order follows outline order, which stdlib maps would lose, so
// every level encodes through OrderedMap.

func (b *Book) MarshalJSON() ([]byte, error) {
	return b.Chapters.MarshalJSON()
}

func (m *OrderedMap[V]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeJSONString(&buf, k)
		buf.WriteByte(':')
		vb, err := json.Marshal(m.vals[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (c *Chapter) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"title":`)
	writeJSONString(&buf, c.Title)
	buf.WriteString(`,"sections":`)
	sb, err := c.Sections.MarshalJSON()
	if err != nil {
		return nil, err
	}
	buf.Write(sb)
	writeTextField(&buf, c.Text)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (s *Section) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"title":`)
	writeJSONString(&buf, s.Title)
	buf.WriteString(`,"subsections":`)
	sb, err := s.Subsections.MarshalJSON()
	if err != nil {
		return nil, err
	}
	buf.Write(sb)
	writeTextField(&buf, s.Text)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (s *Subsection) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"title":`)
	writeJSONString(&buf, s.Title)
	writeTextField(&buf, s.Text)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// writeTextField emits the "text" key only when text was assigned.
// Nodes the splitter never reached carry no "text" key at all.
func writeTextField(buf *bytes.Buffer, text string) {
	if text == "" {
		return
	}
	buf.WriteString(`,"text":`)
	writeJSONString(buf, text)
}

func writeJSONString(buf *bytes.Buffer, s string) {
	b, _ := json.Marshal(s)
	buf.Write(b)
}
