package outline

import (
	"testing"
)

func TestBuild_BasicHierarchy(t *testing.T) {
	b := NewBuilder("")
	entries := []Entry{
		{Depth: 1, Title: "Глава 1 Введение", Page: 5},
		{Depth: 2, Title: "1 История", Page: 6},
		{Depth: 3, Title: "1.1 Истоки", Page: 7},
		{Depth: 3, Title: "1.2 Развитие", Page: 9},
		{Depth: 2, Title: "2 Обзор", Page: 12},
		{Depth: 1, Title: "Глава 2 Установка", Page: 20},
	}

	book, warnings := b.Build(entries)
	if len(warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", warnings)
	}

	if got := book.Chapters.Keys(); len(got) != 2 || got[0] != "1" || got[1] != "2" {
		t.Fatalf("expected chapters [1 2], got %v", got)
	}

	ch1, _ := book.Chapters.Get("1")
	if ch1.Title != "Введение" {
		t.Errorf("chapter 1 title: expected %q, got %q", "Введение", ch1.Title)
	}
	if got := ch1.Sections.Keys(); len(got) != 2 || got[0] != "1" || got[1] != "2" {
		t.Fatalf("expected sections [1 2], got %v", got)
	}

	sec1, _ := ch1.Sections.Get("1")
	if sec1.Title != "История" {
		t.Errorf("section 1 title: expected %q, got %q", "История", sec1.Title)
	}
	if got := sec1.Subsections.Keys(); len(got) != 2 || got[0] != "1.1" || got[1] != "1.2" {
		t.Fatalf("expected subsections [1.1 1.2], got %v", got)
	}
	sub, _ := sec1.Subsections.Get("1.2")
	if sub.Title != "Развитие" {
		t.Errorf("subsection 1.2 title: expected %q, got %q", "Развитие", sub.Title)
	}
}

func TestBuild_ChapterHeadingForms(t *testing.T) {
	b := NewBuilder("")
	cases := []struct {
		raw       string
		wantNum   string
		wantTitle string
	}{
		{"Глава 3 Сети", "3", "Сети"},
		{"ГЛАВА 4 Диски", "4", "Диски"},
		{"5. Процессы", "5", "Процессы"},
		{"6 Память", "6", "Память"},
	}

	for _, c := range cases {
		book, warnings := b.Build([]Entry{{Depth: 1, Title: c.raw}})
		if len(warnings) != 0 {
			t.Errorf("%q: unexpected warnings %v", c.raw, warnings)
			continue
		}
		ch, ok := book.Chapters.Get(c.wantNum)
		if !ok {
			t.Errorf("%q: chapter %q missing", c.raw, c.wantNum)
			continue
		}
		if ch.Title != c.wantTitle {
			t.Errorf("%q: expected title %q, got %q", c.raw, c.wantTitle, ch.Title)
		}
	}
}

func TestBuild_UntitledChapterBorrowsNextTitle(t *testing.T) {
	b := NewBuilder("")
	entries := []Entry{
		{Depth: 1, Title: "Глава 2"},
		{Depth: 2, Title: "1 Настройка"},
	}
	book, warnings := b.Build(entries)
	if len(warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", warnings)
	}

	ch, _ := book.Chapters.Get("2")
	if ch.Title != "1 Настройка" {
		t.Errorf("expected borrowed title %q, got %q", "1 Настройка", ch.Title)
	}
	// The borrowed row is still processed as a section in its own right.
	if _, ok := ch.Sections.Get("1"); !ok {
		t.Error("expected the borrowed row to also become section 1")
	}
}

func TestBuild_UntitledChapterAtEndStaysEmpty(t *testing.T) {
	b := NewBuilder("")
	book, warnings := b.Build([]Entry{{Depth: 1, Title: "Глава 9"}})
	if len(warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", warnings)
	}
	ch, _ := book.Chapters.Get("9")
	if ch.Title != "" {
		t.Errorf("expected empty title, got %q", ch.Title)
	}
}

func TestBuild_SectionBeforeChapterDiscarded(t *testing.T) {
	b := NewBuilder("")
	book, warnings := b.Build([]Entry{
		{Depth: 2, Title: "1 Потерянная"},
		{Depth: 1, Title: "Глава 1 Начало"},
	})
	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %v", warnings)
	}
	if warnings[0].Reason != "section before any chapter" {
		t.Errorf("unexpected reason: %q", warnings[0].Reason)
	}
	ch, _ := book.Chapters.Get("1")
	if ch.Sections.Len() != 0 {
		t.Errorf("expected no sections, got %v", ch.Sections.Keys())
	}
}

func TestBuild_NumberClassification(t *testing.T) {
	b := NewBuilder("")
	entries := []Entry{
		{Depth: 1, Title: "Глава 1 Начало"},
		{Depth: 2, Title: "2 Раздел"},
		{Depth: 3, Title: "2.1 Подраздел"},
		{Depth: 3, Title: "2.1.3 Слишком глубоко"},
	}
	book, warnings := b.Build(entries)
	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %v", warnings)
	}
	if want := `number "2.1.3" is neither section nor subsection`; warnings[0].Reason != want {
		t.Errorf("expected reason %q, got %q", want, warnings[0].Reason)
	}

	ch, _ := book.Chapters.Get("1")
	sec, ok := ch.Sections.Get("2")
	if !ok {
		t.Fatal("expected section 2")
	}
	if _, ok := sec.Subsections.Get("2.1"); !ok {
		t.Error("expected subsection 2.1 under section 2")
	}
	if sec.Subsections.Len() != 1 {
		t.Errorf("expected exactly 1 subsection, got %v", sec.Subsections.Keys())
	}
}

func TestBuild_ImplicitSectionFromOrphanSubsection(t *testing.T) {
	b := NewBuilder("")
	entries := []Entry{
		{Depth: 1, Title: "Глава 3 Сети"},
		{Depth: 3, Title: "2.1 Маршрутизация"},
		{Depth: 3, Title: "2.2 Фильтрация"},
	}
	book, warnings := b.Build(entries)
	if len(warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", warnings)
	}

	ch, _ := book.Chapters.Get("3")
	sec, ok := ch.Sections.Get("2")
	if !ok {
		t.Fatalf("expected implicit section 2, got %v", ch.Sections.Keys())
	}
	if sec.Title != "" {
		t.Errorf("expected implicit section title empty, got %q", sec.Title)
	}
	if got := sec.Subsections.Keys(); len(got) != 2 || got[0] != "2.1" || got[1] != "2.2" {
		t.Errorf("expected subsections [2.1 2.2], got %v", got)
	}
}

func TestBuild_DuplicateChapterOverwritesInPlace(t *testing.T) {
	b := NewBuilder("")
	entries := []Entry{
		{Depth: 1, Title: "Глава 1 Первая"},
		{Depth: 2, Title: "1 Старая"},
		{Depth: 1, Title: "Глава 2 Вторая"},
		{Depth: 1, Title: "Глава 1 Переписанная"},
	}
	book, _ := b.Build(entries)

	keys := book.Chapters.Keys()
	if len(keys) != 2 || keys[0] != "1" || keys[1] != "2" {
		t.Fatalf("expected chapter order [1 2], got %v", keys)
	}
	ch, _ := book.Chapters.Get("1")
	if ch.Title != "Переписанная" {
		t.Errorf("expected overwritten title, got %q", ch.Title)
	}
	if ch.Sections.Len() != 0 {
		t.Errorf("expected overwrite to drop old sections, got %v", ch.Sections.Keys())
	}
}

func TestBuild_UnparseableChapterKeepsPreviousActive(t *testing.T) {
	b := NewBuilder("")
	entries := []Entry{
		{Depth: 1, Title: "Глава 1 Начало"},
		{Depth: 1, Title: "Приложение"},
		{Depth: 2, Title: "4 Хвост"},
	}
	book, warnings := b.Build(entries)
	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %v", warnings)
	}
	if warnings[0].Reason != "no chapter number found" {
		t.Errorf("unexpected reason %q", warnings[0].Reason)
	}

	// The unparseable row does not close chapter 1.
	ch, _ := book.Chapters.Get("1")
	if _, ok := ch.Sections.Get("4"); !ok {
		t.Error("expected section 4 to attach to chapter 1")
	}
}

func TestBuild_TrailingDotAfterNumber(t *testing.T) {
	b := NewBuilder("")
	entries := []Entry{
		{Depth: 1, Title: "Глава 1 Начало"},
		{Depth: 2, Title: "2. Раздел"},
		{Depth: 3, Title: "2.1. Подраздел"},
	}
	book, warnings := b.Build(entries)
	if len(warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", warnings)
	}
	ch, _ := book.Chapters.Get("1")
	sec, _ := ch.Sections.Get("2")
	if sec.Title != "Раздел" {
		t.Errorf("expected trailing dot stripped, got title %q", sec.Title)
	}
	sub, _ := sec.Subsections.Get("2.1")
	if sub.Title != "Подраздел" {
		t.Errorf("expected trailing dot stripped, got title %q", sub.Title)
	}
}

func TestBuild_UnknownDepthIgnored(t *testing.T) {
	b := NewBuilder("")
	book, warnings := b.Build([]Entry{
		{Depth: 1, Title: "Глава 1 Начало"},
		{Depth: 4, Title: "1.1.1.1 Глубина"},
	})
	if len(warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", warnings)
	}
	if book.Headings() != 1 {
		t.Errorf("expected 1 heading, got %d", book.Headings())
	}
}

func TestBuild_CustomMarker(t *testing.T) {
	b := NewBuilder("Chapter")
	book, warnings := b.Build([]Entry{{Depth: 1, Title: "Chapter 7 Networking"}})
	if len(warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", warnings)
	}
	ch, ok := book.Chapters.Get("7")
	if !ok || ch.Title != "Networking" {
		t.Errorf("expected chapter 7 %q, got %+v", "Networking", ch)
	}
	if b.Marker() != "Chapter" {
		t.Errorf("expected marker Chapter, got %q", b.Marker())
	}
}
