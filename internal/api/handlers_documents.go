package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dgallion1/docfind/internal/convert"
	"github.com/dgallion1/docfind/internal/findbar"
	"github.com/dgallion1/docfind/internal/session"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	// Limit total request size.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !convert.IsSupportedExtension(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return
	}

	// Read file data.
	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}

	conv, err := convert.ForFile(filename, convert.Options{PDFFallbackPdftotext: s.cfg.PDFFallbackPdftotext})
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	doc, err := conv.Convert(bytes.NewReader(data), filename)
	if err != nil {
		s.log.Warn("convert failed", "filename", filename, "error", err)
		jsonError(w, "failed to convert document: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}

	title := r.FormValue("title")
	if title == "" {
		title = convert.TitleOf(doc, filename)
	}

	id := session.NewID()
	opts := findbar.Options{
		Exclude: s.exclude,
		Logger:  s.log.With("session_id", id),
	}
	if s.stats != nil {
		opts.Recorder = s.stats
	}
	ctrl := findbar.New(doc, opts)
	sess := session.New(id, filename, title, session.ContentHashHex(data), ctrl)

	// The first pass runs before the session is visible to other requests.
	if q := r.FormValue("query"); q != "" {
		sess.Dispatch(findbar.Open(q))
	}

	if err := s.store.Put(sess); err != nil {
		if errors.Is(err, session.ErrStoreFull) {
			jsonError(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.log.Info("document loaded", "session_id", id, "filename", filename, "bytes", len(data))

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Location", "/api/documents/"+id)
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(sess.Snapshot())
}

// handleRender returns the document with its current highlights.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	sess := s.lookup(w, r)
	if sess == nil {
		return
	}
	var buf bytes.Buffer
	if err := sess.Render(&buf); err != nil {
		jsonError(w, "failed to render document: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	sess := s.lookup(w, r)
	if sess == nil {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"session": sess.Snapshot(),
		"matches": sess.Matches(),
	})
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	if !s.store.Delete(id) {
		jsonError(w, "session not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"session_id": id, "deleted": true})
}

// lookup resolves the session named in the URL, writing a 404 when absent.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) *session.Session {
	sess := s.store.Get(chi.URLParam(r, "sessionID"))
	if sess == nil {
		jsonError(w, "session not found", http.StatusNotFound)
	}
	return sess
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	// Remove any path separators that might have survived.
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
