package item

import (
	"strings"
	"testing"
	"unicode"
)

func TestItemizeSpans(t *testing.T) {
	text := "Hello, world. New paragraph here.\n\nSecond   part"
	items := Itemize(text)

	for i, it := range items {
		if text[it.Start:it.End] != it.Text {
			t.Errorf("item %d: span %d:%d does not reproduce %q", i, it.Start, it.End, it.Text)
		}
		if strings.IndexFunc(it.Text, unicode.IsSpace) >= 0 {
			t.Errorf("item %d: internal whitespace in %q", i, it.Text)
		}
		if i > 0 && items[i-1].End > it.Start {
			t.Errorf("item %d: overlaps previous (%d > %d)", i, items[i-1].End, it.Start)
		}
	}
}

func TestItemizePunctuation(t *testing.T) {
	text := "Hello, world. New paragraph here.\n\nAnd then: more! \"Done.\""
	items := Itemize(text)

	want := []struct {
		text string
		end  Ending
	}{
		{"Hello,", EndComma},
		{"world.", EndPeriod},
		{"New", EndNone},
		{"paragraph", EndNone},
		{"here.", EndPara},
		{"And", EndNone},
		{"then:", EndComma},
		{"more!", EndPeriod},
		{"\"Done.\"", EndPeriod},
	}

	if len(items) != len(want) {
		t.Fatalf("got %d items, want %d", len(items), len(want))
	}
	for i, w := range want {
		if items[i].Text != w.text {
			t.Errorf("item %d: text %q, want %q", i, items[i].Text, w.text)
		}
		if items[i].EndsWith != w.end {
			t.Errorf("item %d (%q): ending %d, want %d", i, items[i].Text, items[i].EndsWith, w.end)
		}
	}
}

func TestItemizeParagraphBeatsPeriod(t *testing.T) {
	// "world." precedes a blank line, so it carries the paragraph ending,
	// not the period ending.
	items := Itemize("Hello, world.\n\nNext")
	if items[1].EndsWith != EndPara {
		t.Fatalf("expected EndPara for %q, got %d", items[1].Text, items[1].EndsWith)
	}
}

func TestItemizeEmpty(t *testing.T) {
	if got := Itemize(""); len(got) != 0 {
		t.Fatalf("expected no items, got %v", got)
	}
	if got := Itemize("  \n\t "); len(got) != 0 {
		t.Fatalf("expected no items for whitespace, got %v", got)
	}
}

func TestORP(t *testing.T) {
	cases := []struct {
		word string
		want int
	}{
		{"a", 0},
		{"at", 1},
		{"house", 1},
		{"housing", 2},
		{"paragraph", 2},
		{"surprisingly,", 3},
		{"incomprehensible", 4},
		{"...", 1},
	}
	for _, c := range cases {
		if got := ORP(c.word); got != c.want {
			t.Errorf("ORP(%q) = %d, want %d", c.word, got, c.want)
		}
	}
}
