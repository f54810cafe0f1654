package booktree

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestOrderedMap_KeepsInsertionOrder(t *testing.T) {
	var m OrderedMap[int]
	m.Set("c", 3)
	m.Set("a", 1)
	m.Set("b", 2)

	keys := m.Keys()
	want := []string{"c", "a", "b"}
	if len(keys) != len(want) {
		t.Fatalf("expected %d keys, got %d", len(want), len(keys))
	}
	for i, k := range want {
		if keys[i] != k {
			t.Errorf("key %d: expected %q, got %q", i, k, keys[i])
		}
	}

	vals := m.Values()
	for i, v := range []int{3, 1, 2} {
		if vals[i] != v {
			t.Errorf("value %d: expected %d, got %d", i, v, vals[i])
		}
	}
}

func TestOrderedMap_OverwriteKeepsPosition(t *testing.T) {
	var m OrderedMap[string]
	m.Set("1", "first")
	m.Set("2", "second")
	m.Set("3", "third")
	m.Set("2", "replaced")

	if m.Len() != 3 {
		t.Fatalf("expected 3 keys after overwrite, got %d", m.Len())
	}
	keys := m.Keys()
	if keys[0] != "1" || keys[1] != "2" || keys[2] != "3" {
		t.Errorf("expected order [1 2 3], got %v", keys)
	}
	if v, ok := m.Get("2"); !ok || v != "replaced" {
		t.Errorf("expected overwritten value, got %q (ok=%v)", v, ok)
	}
}

func TestBook_MarshalShapeAndOrder(t *testing.T) {
	book := &Book{}

	ch2 := &Chapter{Number: "2", Title: "Second"}
	book.Chapters.Set("2", ch2)

	ch1 := &Chapter{Number: "1", Title: "First"}
	sec := &Section{Number: "3", Title: "Three"}
	sec.Subsections.Set("3.1", &Subsection{Number: "3.1", Title: "Three One"})
	ch1.Sections.Set("3", sec)
	book.Chapters.Set("1", ch1)

	got, err := json.Marshal(book)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	want := `{"2":{"title":"Second","sections":{}},` +
		`"1":{"title":"First","sections":{"3":{"title":"Three","subsections":{"3.1":{"title":"Three One"}}}}}}`
	if string(got) != want {
		t.Errorf("unexpected JSON:\n got: %s\nwant: %s", got, want)
	}
}

func TestBook_TextKeyOmittedUntilAssigned(t *testing.T) {
	book := &Book{}
	ch := &Chapter{Number: "1", Title: "Intro"}
	book.Chapters.Set("1", ch)

	got, err := json.Marshal(book)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(got), `"text"`) {
		t.Errorf("expected no text key before assignment, got %s", got)
	}

	ch.Text = " body \n"
	got, err = json.Marshal(book)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(got), `"text":" body \n"`) {
		t.Errorf("expected raw text preserved in JSON, got %s", got)
	}
}

func TestBook_MarshalEmpty(t *testing.T) {
	book := &Book{}
	got, err := json.Marshal(book)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(got) != "{}" {
		t.Errorf("expected {}, got %s", got)
	}
}

func TestBook_Counts(t *testing.T) {
	book := &Book{}
	ch := &Chapter{Number: "1"}
	sec := &Section{Number: "1"}
	sec.Subsections.Set("1.1", &Subsection{Number: "1.1"})
	sec.Subsections.Set("1.2", &Subsection{Number: "1.2"})
	ch.Sections.Set("1", sec)
	book.Chapters.Set("1", ch)
	book.Chapters.Set("2", &Chapter{Number: "2"})

	chapters, sections, subsections := book.Counts()
	if chapters != 2 || sections != 1 || subsections != 2 {
		t.Errorf("expected counts (2,1,2), got (%d,%d,%d)", chapters, sections, subsections)
	}
	if book.Headings() != 5 {
		t.Errorf("expected 5 headings, got %d", book.Headings())
	}
}

func TestBook_MarshalNonASCII(t *testing.T) {
	book := &Book{}
	book.Chapters.Set("1", &Chapter{Number: "1", Title: "Введение"})

	got, err := json.Marshal(book)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(got), "Введение") {
		t.Errorf("expected cyrillic preserved unescaped, got %s", got)
	}
}
