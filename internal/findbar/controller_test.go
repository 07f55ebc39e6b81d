package findbar

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/docfind/internal/dom"
	"github.com/dgallion1/docfind/internal/find"
	"golang.org/x/net/html"
)

type countingRecorder struct {
	passes  int
	matches int
}

func (r *countingRecorder) Record(_ time.Duration, matches int) {
	r.passes++
	r.matches += matches
}

func newController(t *testing.T, src string, opts Options) *Controller {
	t.Helper()
	doc, err := dom.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return New(doc, opts)
}

func renderBody(t *testing.T, c *Controller) string {
	t.Helper()
	var buf bytes.Buffer
	body := c.Document().Body()
	for n := body.FirstChild; n != nil; n = n.NextSibling {
		if err := html.Render(&buf, n); err != nil {
			t.Fatalf("render: %v", err)
		}
	}
	return buf.String()
}

func TestController_EndToEnd(t *testing.T) {
	c := newController(t, `<p>Hello World</p>`, Options{})

	st := c.Dispatch(QueryChanged("o"))
	if st.Current != 1 || st.Total != 2 {
		t.Fatalf("expected 1 / 2, got %s", st)
	}
	if st.Anchor != DefaultAnchor {
		t.Errorf("expected anchor %q, got %q", DefaultAnchor, st.Anchor)
	}
	want := `<p>Hell<mark class="custom-find current" id="find-current">o</mark> W<mark class="custom-find">o</mark>rld</p>`
	if got := renderBody(t, c); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}

	st = c.Dispatch(Next())
	if st.Current != 2 {
		t.Errorf("expected current 2, got %d", st.Current)
	}
	want = `<p>Hell<mark class="custom-find">o</mark> W<mark class="custom-find current" id="find-current">o</mark>rld</p>`
	if got := renderBody(t, c); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}

	st = c.Dispatch(Next())
	if st.Current != 1 {
		t.Errorf("expected wrap to 1, got %d", st.Current)
	}
	st = c.Dispatch(Previous())
	if st.Current != 2 {
		t.Errorf("expected wrap back to 2, got %d", st.Current)
	}
}

func TestController_EmptyAndMissingQuery(t *testing.T) {
	c := newController(t, `<p>Hello World</p>`, Options{})
	before := renderBody(t, c)

	for _, q := range []string{"", "   ", "zebra"} {
		st := c.Dispatch(QueryChanged(q))
		if st.Current != 0 || st.Total != 0 {
			t.Errorf("query=%q: expected 0 / 0, got %s", q, st)
		}
		if st.Anchor != "" {
			t.Errorf("query=%q: expected no anchor, got %q", q, st.Anchor)
		}
		if got := renderBody(t, c); got != before {
			t.Errorf("query=%q: expected untouched tree, got %q", q, got)
		}
		st = c.Dispatch(Next())
		if st.Current != 0 || st.Total != 0 {
			t.Errorf("query=%q: expected next to stay 0 / 0, got %s", q, st)
		}
	}
}

func TestController_QueryIsTrimmed(t *testing.T) {
	c := newController(t, `<p>Hello World</p>`, Options{})
	st := c.Dispatch(QueryChanged("  world \n"))
	if st.Query != "world" {
		t.Errorf("expected query %q, got %q", "world", st.Query)
	}
	if st.Total != 1 {
		t.Errorf("expected 1 match, got %d", st.Total)
	}
}

func TestController_SupersedesPreviousQuery(t *testing.T) {
	c := newController(t, `<p>one two one</p><p>two</p>`, Options{})
	before := dom.TextContent(c.Document().Root())

	c.Dispatch(QueryChanged("one"))
	c.Dispatch(Next())
	st := c.Dispatch(QueryChanged("two"))

	if st.Current != 1 || st.Total != 2 {
		t.Fatalf("expected 1 / 2, got %s", st)
	}
	if got := strings.Count(renderBody(t, c), "<mark"); got != 2 {
		t.Errorf("expected only the new query's 2 markers, got %d", got)
	}
	if got := dom.TextContent(c.Document().Root()); got != before {
		t.Errorf("expected text %q, got %q", before, got)
	}
	if c.Document().Tracked() != 2 {
		t.Errorf("expected 2 live handles, got %d", c.Document().Tracked())
	}
}

func TestController_CloseRestoresDocument(t *testing.T) {
	src := `<p>Hello <b>World</b>, hello again</p>`
	c := newController(t, src, Options{})
	before := renderBody(t, c)

	c.Dispatch(Open(""))
	c.Dispatch(QueryChanged("hello"))
	st := c.Dispatch(Close())

	if st.Open || st.Query != "" || st.Current != 0 || st.Total != 0 {
		t.Errorf("expected closed empty status, got %+v", st)
	}
	if got := renderBody(t, c); got != before {
		t.Errorf("expected %q after close, got %q", before, got)
	}
	if c.Document().Tracked() != 0 {
		t.Errorf("expected no live handles, got %d", c.Document().Tracked())
	}

	// Closing twice is harmless.
	c.Dispatch(Close())
	if got := renderBody(t, c); got != before {
		t.Errorf("expected %q after second close, got %q", before, got)
	}
}

func TestController_OpenWithPrefill(t *testing.T) {
	c := newController(t, `<p>abc ABC</p>`, Options{})
	st := c.Dispatch(Open("abc"))
	if !st.Open {
		t.Error("expected open status")
	}
	if st.Query != "abc" || st.Total != 2 || st.Current != 1 {
		t.Errorf("expected abc 1 / 2, got %+v", st)
	}

	st = c.Dispatch(Open(""))
	if st.Total != 2 {
		t.Errorf("expected open without prefill to keep results, got %+v", st)
	}
}

func TestController_ExcludesWidgetSubtree(t *testing.T) {
	src := `<div id="findBar"><input value="next"><button>Next</button></div><p>next page</p>`
	c := newController(t, src, Options{})
	st := c.Dispatch(QueryChanged("next"))
	if st.Total != 1 {
		t.Errorf("expected 1 match outside the widget, got %d", st.Total)
	}
}

func TestController_CustomRulesAndMarker(t *testing.T) {
	rules := dom.DefaultRules().Merge(dom.Rules{Tags: []string{"aside"}})
	c := newController(t, `<aside>key</aside><p>key</p>`, Options{
		Exclude:   rules.Predicate(),
		MarkTag:   "span",
		MarkClass: "hit",
	})
	st := c.Dispatch(QueryChanged("key"))
	if st.Total != 1 {
		t.Fatalf("expected 1 match, got %d", st.Total)
	}
	if got := renderBody(t, c); !strings.Contains(got, `<span class="hit current" id="find-current">key</span>`) {
		t.Errorf("expected custom marker, got %q", got)
	}
}

func TestController_RendererFailureIsLocal(t *testing.T) {
	calls := 0
	r := find.RendererFunc(func(*html.Node, find.Marker) error {
		calls++
		return errors.New("no viewport")
	})
	c := newController(t, `<p>x x x</p>`, Options{Renderer: r})

	st := c.Dispatch(QueryChanged("x"))
	if st.Current != 1 || st.Total != 3 {
		t.Fatalf("expected 1 / 3, got %s", st)
	}
	st = c.Dispatch(Next())
	if st.Current != 2 {
		t.Errorf("expected navigation to proceed, got %s", st)
	}
	if calls != 2 {
		t.Errorf("expected 2 renderer calls, got %d", calls)
	}
	if st.Anchor != "" {
		t.Errorf("expected no anchor with a custom renderer, got %q", st.Anchor)
	}
}

func TestController_RecordsPasses(t *testing.T) {
	rec := &countingRecorder{}
	c := newController(t, `<p>aaa</p>`, Options{Recorder: rec})

	c.Dispatch(QueryChanged("a"))
	c.Dispatch(QueryChanged("aa"))
	c.Dispatch(QueryChanged(""))
	c.Dispatch(Next())

	if rec.passes != 2 {
		t.Errorf("expected 2 recorded passes, got %d", rec.passes)
	}
	if rec.matches != 4 {
		t.Errorf("expected 4 recorded matches, got %d", rec.matches)
	}
}

func TestStatus_String(t *testing.T) {
	if got := (Status{Current: 3, Total: 7}).String(); got != "3 / 7" {
		t.Errorf("expected %q, got %q", "3 / 7", got)
	}
	if got := (Status{}).String(); got != "0 / 0" {
		t.Errorf("expected %q, got %q", "0 / 0", got)
	}
}

func TestActionKind_String(t *testing.T) {
	tests := map[ActionKind]string{
		ActionOpen:         "open",
		ActionQueryChanged: "query",
		ActionNext:         "next",
		ActionPrevious:     "previous",
		ActionClose:        "close",
		ActionKind(42):     "action(42)",
	}
	for k, want := range tests {
		if k.String() != want {
			t.Errorf("expected %q, got %q", want, k.String())
		}
	}
}
