package session

import (
	"crypto/sha256"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/dgallion1/docfind/internal/find"
	"github.com/dgallion1/docfind/internal/findbar"
)

// Session is one loaded document and its find bar state. The mutex
// serializes events so each one runs to completion before the next.
type Session struct {
	mu sync.Mutex

	ID          string
	Filename    string
	Title       string
	ContentHash string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	ctrl *findbar.Controller
}

// New wraps ctrl. The controller must not be used elsewhere afterwards.
func New(id, filename, title, contentHash string, ctrl *findbar.Controller) *Session {
	now := time.Now()
	return &Session{
		ID:          id,
		Filename:    filename,
		Title:       title,
		ContentHash: contentHash,
		CreatedAt:   now,
		UpdatedAt:   now,
		ctrl:        ctrl,
	}
}

// Dispatch delivers one find bar action.
func (s *Session) Dispatch(a findbar.Action) findbar.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.UpdatedAt = time.Now()
	return s.ctrl.Dispatch(a)
}

func (s *Session) Status() findbar.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctrl.Status()
}

// Render writes the document with its current highlights.
func (s *Session) Render(w io.Writer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.UpdatedAt = time.Now()
	return s.ctrl.Document().Render(w)
}

// MatchInfo describes one highlighted match.
type MatchInfo struct {
	Position int    `json:"position"`
	Leaf     int    `json:"leaf"`
	Offset   int    `json:"offset"`
	Text     string `json:"text"`
}

// Matches lists the current matches in document order.
func (s *Session) Matches() []MatchInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return matchInfos(s.ctrl.Matches())
}

func matchInfos(list find.MatchList) []MatchInfo {
	out := make([]MatchInfo, 0, len(list))
	for i, mk := range list {
		out = append(out, MatchInfo{
			Position: i + 1,
			Leaf:     mk.Leaf,
			Offset:   mk.Offset,
			Text:     mk.Text,
		})
	}
	return out
}

// Snapshot is a read-only, JSON-safe copy of session state.
type Snapshot struct {
	ID          string         `json:"session_id"`
	Filename    string         `json:"filename"`
	Title       string         `json:"title"`
	ContentHash string         `json:"content_hash"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	Status      findbar.Status `json:"status"`
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		ID:          s.ID,
		Filename:    s.Filename,
		Title:       s.Title,
		ContentHash: s.ContentHash,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
		Status:      s.ctrl.Status(),
	}
}

func (s *Session) lastUsed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.UpdatedAt
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
