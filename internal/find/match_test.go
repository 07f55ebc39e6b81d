package find

import "testing"

func TestMatcher_FindAll(t *testing.T) {
	tests := []struct {
		name  string
		query string
		text  string
		want  []Span
	}{
		{"non-overlapping", "ab", "ababab", []Span{{0, 2}, {2, 4}, {4, 6}}},
		{"leftmost greedy", "aa", "aaa", []Span{{0, 2}}},
		{"case-insensitive", "abc", "ABC AbC abc", []Span{{0, 3}, {4, 7}, {8, 11}}},
		{"hello world", "o", "Hello World", []Span{{4, 5}, {7, 8}}},
		{"metacharacters", "a.c", "abc a.c", []Span{{4, 7}}},
		{"brackets", "[x]+", "x [x]+ xx", []Span{{2, 6}}},
		{"backslash", `\d`, `1 \d 2`, []Span{{2, 4}}},
		{"dollar caret", "^$", "cost ^$ 5", []Span{{5, 7}}},
		{"no match", "zzz", "abc", nil},
		{"unicode", "über", "Über uns, ÜBER alles", []Span{{0, 5}, {11, 16}}},
		{"invalid utf-8 query", "\xff", "a\xffb\xff", []Span{{1, 2}, {3, 4}}},
		{"invalid utf-8 with letters", "a\xff", "A\xff a\xfe", []Span{{0, 2}}},
		{"replacement char is not a raw byte", "\uFFFD", "a\xffb", nil},
		{"raw byte is not a replacement char", "\xff", "a\uFFFDb", nil},
		{"replacement char matches itself", "\uFFFD", "a\uFFFDb", []Span{{1, 4}}},
		{"long s stays distinct", "s", "\u017F S s", []Span{{3, 4}, {5, 6}}},
		{"kelvin sign stays distinct", "k", "\u212A K", []Span{{4, 5}}},
		{"ascii query in unicode text", "o", "Grüß Gott", []Span{{8, 9}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewMatcher(tt.query).FindAll(tt.text)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("span[%d]: expected %v, got %v", i, tt.want[i], got[i])
				}
			}
		})
	}
}

func TestHighlighter_InvalidUTF8Query(t *testing.T) {
	_, list := apply(t, mustParse(t, "<p>a\xffb</p>"), "\xff")
	if len(list) != 1 || list[0].Offset != 1 || list[0].Text != "\xff" {
		t.Fatalf("expected one raw-byte match at offset 1, got %+v", list)
	}
	if _, got := apply(t, mustParse(t, "<p>a\xffb</p>"), "\uFFFD"); len(got) != 0 {
		t.Errorf("expected no match for U+FFFD, got %+v", got)
	}
}

func TestMatcher_EmptyQuery(t *testing.T) {
	m := NewMatcher("")
	if m != nil {
		t.Fatal("expected nil matcher for empty query")
	}
	if got := m.FindAll("anything"); got != nil {
		t.Errorf("expected no spans, got %v", got)
	}
}
