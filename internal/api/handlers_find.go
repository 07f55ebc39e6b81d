package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dgallion1/docfind/internal/findbar"
)

type queryRequest struct {
	Query string `json:"query"`
}

// decodeQuery reads an optional {"query": ...} body. An empty body is a
// missing query.
func decodeQuery(r *http.Request) (string, error) {
	var req queryRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 64*1024)).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return req.Query, nil
}

func (s *Server) handleOpen(w http.ResponseWriter, r *http.Request) {
	q, err := decodeQuery(r)
	if err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	s.dispatch(w, r, findbar.Open(q))
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	q, err := decodeQuery(r)
	if err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	s.dispatch(w, r, findbar.QueryChanged(q))
}

func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	s.dispatch(w, r, findbar.Next())
}

func (s *Server) handlePrev(w http.ResponseWriter, r *http.Request) {
	s.dispatch(w, r, findbar.Previous())
}

func (s *Server) handleClose(w http.ResponseWriter, r *http.Request) {
	s.dispatch(w, r, findbar.Close())
}

func (s *Server) dispatch(w http.ResponseWriter, r *http.Request, a findbar.Action) {
	sess := s.lookup(w, r)
	if sess == nil {
		return
	}
	st := sess.Dispatch(a)
	s.log.Debug("find action", "session_id", sess.ID, "action", a.Kind.String(), "status", st.String())

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(st)
}
