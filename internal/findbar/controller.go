package findbar

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/dgallion1/docfind/internal/dom"
	"github.com/dgallion1/docfind/internal/find"
)

// ActionKind enumerates the control surface events.
type ActionKind int

const (
	ActionOpen ActionKind = iota
	ActionQueryChanged
	ActionNext
	ActionPrevious
	ActionClose
)

func (k ActionKind) String() string {
	switch k {
	case ActionOpen:
		return "open"
	case ActionQueryChanged:
		return "query"
	case ActionNext:
		return "next"
	case ActionPrevious:
		return "previous"
	case ActionClose:
		return "close"
	}
	return fmt.Sprintf("action(%d)", int(k))
}

// Action is one event delivered to the Controller. Query is used by
// ActionQueryChanged and, as an optional prefill, by ActionOpen.
type Action struct {
	Kind  ActionKind
	Query string
}

func Open(prefill string) Action   { return Action{Kind: ActionOpen, Query: prefill} }
func QueryChanged(q string) Action { return Action{Kind: ActionQueryChanged, Query: q} }
func Next() Action                 { return Action{Kind: ActionNext} }
func Previous() Action             { return Action{Kind: ActionPrevious} }
func Close() Action                { return Action{Kind: ActionClose} }

// Status is the readout rendered by the host.
type Status struct {
	Open    bool   `json:"open"`
	Query   string `json:"query"`
	Current int    `json:"current"`
	Total   int    `json:"total"`
	Anchor  string `json:"anchor,omitempty"`
}

// String formats the readout as "current / total".
func (s Status) String() string {
	return fmt.Sprintf("%d / %d", s.Current, s.Total)
}

// Recorder receives the duration and match count of every search pass.
type Recorder interface {
	Record(d time.Duration, matches int)
}

// Options configures a Controller. Zero values fall back to defaults.
type Options struct {
	Exclude   dom.Predicate
	Renderer  find.FocusRenderer
	Recorder  Recorder
	Logger    *slog.Logger
	MarkTag   string
	MarkClass string
}

// Controller runs the find sequence against one document. Every Dispatch
// runs to completion; it is not safe for concurrent use.
type Controller struct {
	doc      *dom.Document
	exclude  dom.Predicate
	hl       *find.Highlighter
	cursor   *find.Cursor
	anchor   *AnchorRenderer
	recorder Recorder
	log      *slog.Logger

	open  bool
	query string
	list  find.MatchList
}

func New(doc *dom.Document, opts Options) *Controller {
	if opts.Exclude == nil {
		opts.Exclude = dom.DefaultRules().Predicate()
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	anchor, _ := opts.Renderer.(*AnchorRenderer)
	if opts.Renderer == nil {
		anchor = NewAnchorRenderer(DefaultAnchor)
		opts.Renderer = anchor
	}

	hl := find.NewHighlighter(doc)
	if opts.MarkTag != "" {
		hl.Tag = opts.MarkTag
	}
	if opts.MarkClass != "" {
		hl.Class = opts.MarkClass
	}

	return &Controller{
		doc:      doc,
		exclude:  opts.Exclude,
		hl:       hl,
		cursor:   find.NewCursor(doc, opts.Renderer),
		anchor:   anchor,
		recorder: opts.Recorder,
		log:      opts.Logger,
	}
}

// Dispatch applies a and returns the resulting status.
func (c *Controller) Dispatch(a Action) Status {
	switch a.Kind {
	case ActionOpen:
		c.open = true
		if q := strings.TrimSpace(a.Query); q != "" {
			c.search(q)
		}
	case ActionQueryChanged:
		c.search(strings.TrimSpace(a.Query))
	case ActionNext:
		c.cursor.Advance()
		c.focus()
	case ActionPrevious:
		c.cursor.Retreat()
		c.focus()
	case ActionClose:
		c.teardown()
		c.query = ""
		c.open = false
	default:
		c.log.Warn("unknown find action", "action", a.Kind.String())
	}
	return c.Status()
}

func (c *Controller) Status() Status {
	cur, total := c.cursor.Status()
	st := Status{
		Open:    c.open,
		Query:   c.query,
		Current: cur,
		Total:   total,
	}
	if c.anchor != nil && c.anchor.Focused() {
		st.Anchor = c.anchor.ID
	}
	return st
}

// Matches returns the current match list. Callers must not modify it.
func (c *Controller) Matches() find.MatchList { return c.list }

func (c *Controller) Document() *dom.Document { return c.doc }

// search supersedes the previous result with a fresh pass for q.
func (c *Controller) search(q string) {
	start := time.Now()
	c.teardown()
	c.query = q
	if q == "" {
		return
	}

	leaves := find.Scan(c.doc.Body(), c.exclude)
	c.list = c.hl.Apply(leaves, q)
	c.cursor.Reset(c.list)
	c.focus()

	elapsed := time.Since(start)
	if c.recorder != nil {
		c.recorder.Record(elapsed, len(c.list))
	}
	c.log.Debug("search pass",
		"query_len", len(q),
		"leaves", len(leaves),
		"matches", len(c.list),
		"duration_us", elapsed.Microseconds(),
	)
}

func (c *Controller) teardown() {
	if len(c.list) > 0 {
		restored := c.hl.Revert(c.list)
		if restored != len(c.list) {
			c.log.Debug("skipped detached markers", "skipped", len(c.list)-restored)
		}
	}
	if c.anchor != nil {
		c.anchor.Clear()
	}
	c.list = nil
	c.cursor.Reset(nil)
}

func (c *Controller) focus() {
	if err := c.cursor.FocusCurrent(); err != nil {
		c.log.Warn("focus failed", "error", err)
	}
}
