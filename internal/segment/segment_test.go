package segment

import (
	"strings"
	"testing"

	"github.com/booklab/tocsplit/internal/booktree"
)

func testBook(chapterText, sectionText, subText string) *booktree.Book {
	book := &booktree.Book{}
	ch := &booktree.Chapter{Number: "1", Title: "Introduction", Text: chapterText}
	sec := &booktree.Section{Number: "2", Title: "History", Text: sectionText}
	sec.Subsections.Set("2.1", &booktree.Subsection{Number: "2.1", Title: "Origins", Text: subText})
	ch.Sections.Set("2", sec)
	book.Chapters.Set("1", ch)
	return book
}

func TestFromBook_SmallNodeFitsOneSegment(t *testing.T) {
	book := testBook(strings.Repeat("word ", 200), "", "")

	cfg := Config{SegmentSize: 1500, SegmentOverlap: 200, MinSegment: 50}
	segments := FromBook(book, cfg)

	if len(segments) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segments))
	}
	if segments[0].Index != 0 {
		t.Errorf("expected index 0, got %d", segments[0].Index)
	}
	bc := segments[0].Breadcrumb
	if len(bc) != 1 || bc[0] != "Глава 1 Introduction" {
		t.Errorf("expected breadcrumb [Глава 1 Introduction], got %v", bc)
	}
}

func TestFromBook_LargeTextSplits(t *testing.T) {
	large := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 300)
	book := testBook("", large, "")

	cfg := Config{SegmentSize: 500, SegmentOverlap: 50, MinSegment: 10}
	segments := FromBook(book, cfg)

	if len(segments) < 2 {
		t.Fatalf("expected at least 2 segments, got %d", len(segments))
	}
	for i, seg := range segments {
		if seg.Index != i {
			t.Errorf("segment %d: expected index %d, got %d", i, i, seg.Index)
		}
		if tokens := EstimateTokens(seg.Text); tokens > cfg.SegmentSize*2 {
			t.Errorf("segment %d: %d tokens exceeds 2x target", i, tokens)
		}
	}
}

func TestFromBook_BreadcrumbsFollowHierarchy(t *testing.T) {
	filler := strings.Repeat("text ", 120)
	book := testBook(filler, filler, filler)

	cfg := Config{SegmentSize: 1500, SegmentOverlap: 100, MinSegment: 10, Marker: "Chapter"}
	segments := FromBook(book, cfg)

	if len(segments) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(segments))
	}
	wantBCs := [][]string{
		{"Chapter 1 Introduction"},
		{"Chapter 1 Introduction", "2 History"},
		{"Chapter 1 Introduction", "2 History", "2.1 Origins"},
	}
	for i, want := range wantBCs {
		got := segments[i].Breadcrumb
		if len(got) != len(want) {
			t.Errorf("segment %d: expected breadcrumb %v, got %v", i, want, got)
			continue
		}
		for j := range want {
			if got[j] != want[j] {
				t.Errorf("segment %d: expected breadcrumb %v, got %v", i, want, got)
				break
			}
		}
	}
}

func TestFromBook_EmptyNodesContributeNothing(t *testing.T) {
	book := testBook("", "", "")
	segments := FromBook(book, DefaultConfig())
	if len(segments) != 0 {
		t.Errorf("expected no segments from empty book, got %d", len(segments))
	}
}

func TestFromBook_MinSegmentFiltersTiny(t *testing.T) {
	book := testBook("too small", "", "")
	cfg := Config{SegmentSize: 1500, SegmentOverlap: 100, MinSegment: 100}
	segments := FromBook(book, cfg)
	if len(segments) != 0 {
		t.Errorf("expected tiny text filtered out, got %d segments", len(segments))
	}
}

func TestFromBook_RawSpanEdgesTrimmed(t *testing.T) {
	book := testBook("\n  "+strings.Repeat("word ", 80)+"\n", "", "")
	cfg := Config{SegmentSize: 1500, SegmentOverlap: 100, MinSegment: 10}
	segments := FromBook(book, cfg)
	if len(segments) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segments))
	}
	if strings.HasPrefix(segments[0].Text, "\n") || strings.HasSuffix(segments[0].Text, "\n") {
		t.Errorf("expected trimmed segment text, got %q", segments[0].Text)
	}
}

func TestEstimateTokens(t *testing.T) {
	if EstimateTokens("") != 0 {
		t.Error("expected 0 tokens for empty text")
	}
	if EstimateTokens("word") < 1 {
		t.Error("expected at least 1 token for non-empty text")
	}
	hundred := strings.Repeat("word ", 100)
	tokens := EstimateTokens(hundred)
	if tokens < 100 || tokens > 180 {
		t.Errorf("expected ~133 tokens for 100 words, got %d", tokens)
	}
}
