package find

import (
	"bytes"
	"unicode"
	"unicode/utf8"
)

// Span is a byte range [Start, End) within a leaf's text.
type Span struct {
	Start int
	End   int
}

func (s Span) Len() int { return s.End - s.Start }

// Matcher finds literal, case-insensitive occurrences of a query.
type Matcher struct {
	query string
	ascii bool
	lower []byte
}

// NewMatcher returns nil for an empty query. Every byte of query is taken
// literally, including bytes that are not valid UTF-8.
func NewMatcher(query string) *Matcher {
	if query == "" {
		return nil
	}
	m := &Matcher{query: query, ascii: isASCII(query)}
	if m.ascii {
		m.lower = asciiLower(query)
	}
	return m
}

func (m *Matcher) Query() string { return m.query }

// FindAll returns leftmost, non-overlapping spans. After a match the search
// resumes at the end of the matched span.
func (m *Matcher) FindAll(text string) []Span {
	if m == nil || text == "" {
		return nil
	}
	if m.ascii && isASCII(text) {
		return m.findASCII(text)
	}

	var spans []Span
	for i := 0; i < len(text); {
		if end, ok := m.matchAt(text, i); ok {
			spans = append(spans, Span{Start: i, End: end})
			i = end
			continue
		}
		_, size := utf8.DecodeRuneInString(text[i:])
		i += size
	}
	return spans
}

func (m *Matcher) findASCII(text string) []Span {
	haystack := asciiLower(text)
	var spans []Span
	searchFrom := 0
	for {
		idx := bytes.Index(haystack[searchFrom:], m.lower)
		if idx == -1 {
			break
		}
		start := searchFrom + idx
		end := start + len(m.lower)
		spans = append(spans, Span{Start: start, End: end})
		searchFrom = end
	}
	return spans
}

// matchAt reports whether the query occurs at byte i of text, walking both
// strings one unit at a time, and returns the end of the occurrence.
func (m *Matcher) matchAt(text string, i int) (int, bool) {
	q := m.query
	for len(q) > 0 {
		if i >= len(text) {
			return 0, false
		}
		qr, qsize := utf8.DecodeRuneInString(q)
		tr, tsize := utf8.DecodeRuneInString(text[i:])
		if !unitsEqual(qr, qsize, q, tr, tsize, text[i:]) {
			return 0, false
		}
		q = q[qsize:]
		i += tsize
	}
	return i, true
}

// unitsEqual compares one decoded unit from each side. A byte that is not
// valid UTF-8 only equals the same raw byte.
func unitsEqual(qr rune, qsize int, q string, tr rune, tsize int, t string) bool {
	qBad := qr == utf8.RuneError && qsize == 1
	tBad := tr == utf8.RuneError && tsize == 1
	if qBad || tBad {
		return qBad && tBad && q[0] == t[0]
	}
	return qr == tr || canonical(qr) == canonical(tr)
}

// canonical upper-cases r, except that a non-ASCII rune never maps onto
// ASCII: the long s stays distinct from s and the Kelvin sign from k.
func canonical(r rune) rune {
	u := unicode.ToUpper(r)
	if r >= utf8.RuneSelf && u < utf8.RuneSelf {
		return r
	}
	return u
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

func asciiLower(s string) []byte {
	b := []byte(s)
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			b[i] = c + 'a' - 'A'
		}
	}
	return b
}
