package splitter

import "testing"

func TestChapterPattern_MatchesMidText(t *testing.T) {
	re, err := ChapterPattern("Глава", "1", "Введение")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	text := "running head of page 3Глава 1 Введение\nПервый абзац."
	loc := re.FindStringIndex(text)
	if loc == nil {
		t.Fatal("chapter heading glued to a running head did not match")
	}
}

func TestChapterPattern_CaseInsensitive(t *testing.T) {
	re, err := ChapterPattern("Глава", "2", "Основы")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if !re.MatchString("ГЛАВА 2 ОСНОВЫ") {
		t.Error("uppercase heading did not match")
	}
	if !re.MatchString("глава 2 основы") {
		t.Error("lowercase heading did not match")
	}
}

func TestChapterPattern_WhitespaceRunsRelaxed(t *testing.T) {
	re, err := ChapterPattern("Глава", "3", "Основы   программирования")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	// Extracted text re-wraps the title across a line break.
	if !re.MatchString("Глава 3 Основы\nпрограммирования") {
		t.Error("re-wrapped heading did not match")
	}
	if !re.MatchString("Глава 3 Основыпрограммирования") {
		t.Error("collapsed whitespace did not match")
	}
}

func TestHeadingPattern_LineAnchored(t *testing.T) {
	re, err := HeadingPattern("2.1", "Origins")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	text := "as covered in 2.1 Origins below\n2.1 Origins\nBody."
	loc := re.FindStringIndex(text)
	if loc == nil {
		t.Fatal("line-start heading did not match")
	}
	if text[loc[0]-1] != '\n' {
		t.Errorf("matched mid-line reference at %d, want the line-start heading", loc[0])
	}
}

func TestHeadingPattern_NumberMatchesLiterally(t *testing.T) {
	re, err := HeadingPattern("2.1", "Origins")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if re.MatchString("201 Origins") {
		t.Error("dot in number matched an arbitrary character")
	}
	if !re.MatchString("2.1 Origins") {
		t.Error("literal number did not match")
	}
}

func TestHeadingPattern_TitleMetaEscaped(t *testing.T) {
	re, err := HeadingPattern("4", "C++ (advanced)")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if !re.MatchString("4 C++ (advanced)") {
		t.Error("title with regexp metacharacters did not match literally")
	}
	if re.MatchString("4 C (advanced)") {
		t.Error("plus signs were treated as repetition instead of literals")
	}
}
