package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/FocuswithJustin/randverse/core/bible"
	"github.com/FocuswithJustin/randverse/core/errors"
	"github.com/FocuswithJustin/randverse/internal/logging"
)

// APIResponse is the standard API response wrapper.
type APIResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
	Meta    *APIMeta  `json:"meta,omitempty"`
}

// APIError represents an API error.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// APIMeta contains response metadata.
type APIMeta struct {
	Total     int    `json:"total,omitempty"`
	Timestamp string `json:"timestamp"`
}

// VerseInfo is a passage as served by the API.
type VerseInfo struct {
	Book      string `json:"book"`
	Chapter   string `json:"chapter"`
	Number    uint32 `json:"number"`
	Text      string `json:"text"`
	Citation  string `json:"citation"`
	Formatted string `json:"formatted"`
}

// BookInfo summarizes one book.
type BookInfo struct {
	Name     string `json:"name"`
	Chapters int    `json:"chapters"`
	Verses   int    `json:"verses"`
}

// StatsInfo describes the loaded corpus.
type StatsInfo struct {
	bible.Stats
	Source         string `json:"source"`
	Fingerprint    string `json:"fingerprint"`
	Size           int    `json:"size"`
	DroppedLines   int    `json:"dropped_lines"`
	OrphanVerses   int    `json:"orphan_verses"`
	OrphanChapters int    `json:"orphan_chapters"`
}

// HealthInfo is the health check response.
type HealthInfo struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
	Verses  int    `json:"verses"`
	Clients int    `json:"clients"`
}

func newVerseInfo(p bible.Passage) VerseInfo {
	return VerseInfo{
		Book:      p.Book,
		Chapter:   p.Chapter,
		Number:    p.Verse.Number,
		Text:      p.Verse.Text,
		Citation:  p.Citation(),
		Formatted: bible.FormatPassage(p),
	}
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, map[string]any{
		"name":    "verse API",
		"version": s.cfg.Version,
		"endpoints": []string{
			"GET /health",
			"GET /api/v1/verses/random",
			"GET /api/v1/verses/{ref}",
			"GET /api/v1/books",
			"GET /api/v1/stats",
			"WS /ws",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	info := HealthInfo{
		Status:  "healthy",
		Version: s.cfg.Version,
		Uptime:  time.Since(s.started).Round(time.Second).String(),
		Clients: s.hub.ClientCount(),
	}
	loaded, err := s.corpus(r.Context())
	if err != nil {
		info.Status = "degraded"
	} else {
		info.Verses = loaded.Corpus.Stats().Verses
	}
	respond(w, http.StatusOK, info)
}

func (s *Server) handleRandomVerse(w http.ResponseWriter, r *http.Request) {
	format, ok := requestFormat(w, r)
	if !ok {
		return
	}
	loaded, err := s.corpus(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	p, err := s.selector.Pick(loaded.Corpus)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.deliver(w, r, format, p)
}

func (s *Server) handleVerseByRef(w http.ResponseWriter, r *http.Request) {
	format, ok := requestFormat(w, r)
	if !ok {
		return
	}
	ref, err := bible.ParseRef(r.PathValue("ref"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	loaded, err := s.corpus(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	passages, err := bible.Lookup(loaded.Corpus, ref)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.deliver(w, r, format, passages...)
}

func (s *Server) handleBooks(w http.ResponseWriter, r *http.Request) {
	loaded, err := s.corpus(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}

	books := make([]BookInfo, 0, len(loaded.Corpus.Books))
	for _, b := range loaded.Corpus.Books {
		info := BookInfo{Name: b.Name, Chapters: len(b.Chapters)}
		for _, ch := range b.Chapters {
			info.Verses += len(ch.Verses)
		}
		books = append(books, info)
	}
	respondList(w, books, len(books))
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	loaded, err := s.corpus(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, StatsInfo{
		Stats:          loaded.Corpus.Stats(),
		Source:         loaded.Source,
		Fingerprint:    loaded.Fingerprint,
		Size:           loaded.Size,
		DroppedLines:   loaded.Dropped.Lines,
		OrphanVerses:   loaded.Dropped.Verses,
		OrphanChapters: loaded.Dropped.Chapters,
	})
}

// requestFormat reads ?format=, defaulting to the JSON envelope.
func requestFormat(w http.ResponseWriter, r *http.Request) (bible.OutputFormat, bool) {
	raw := r.URL.Query().Get("format")
	if raw == "" {
		return bible.FormatJSON, true
	}
	format, err := bible.ParseOutputFormat(raw)
	if err != nil {
		respondError(w, http.StatusBadRequest, "UNSUPPORTED_FORMAT", err.Error())
		return "", false
	}
	return format, true
}

// deliver writes passages as a JSON envelope or as rendered text.
func (s *Server) deliver(w http.ResponseWriter, r *http.Request, format bible.OutputFormat, passages ...bible.Passage) {
	if format == bible.FormatJSON {
		infos := make([]VerseInfo, len(passages))
		for i, p := range passages {
			infos[i] = newVerseInfo(p)
		}
		if len(infos) == 1 {
			respond(w, http.StatusOK, infos[0])
			return
		}
		respondList(w, infos, len(infos))
		return
	}

	var buf bytes.Buffer
	if err := bible.Render(&buf, format, passages...); err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

var contentTypes = map[bible.OutputFormat]string{
	bible.FormatText: "text/plain; charset=utf-8",
	bible.FormatHTML: "text/html; charset=utf-8",
	bible.FormatXML:  "application/xml; charset=utf-8",
}

// fail maps typed errors to HTTP statuses.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	var (
		empty       *errors.EmptyError
		notFound    *errors.NotFoundError
		parseErr    *errors.ParseError
		unsupported *errors.UnsupportedError
	)
	switch {
	case errors.As(err, &empty):
		respondError(w, http.StatusNotFound, "EMPTY", err.Error())
	case errors.As(err, &notFound):
		respondError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.As(err, &parseErr):
		respondError(w, http.StatusBadRequest, "INVALID_REFERENCE", err.Error())
	case errors.As(err, &unsupported):
		respondError(w, http.StatusBadRequest, "UNSUPPORTED", err.Error())
	default:
		logging.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal error")
	}
}

func respond(w http.ResponseWriter, status int, data any) {
	writeEnvelope(w, status, APIResponse{
		Success: true,
		Data:    data,
		Meta:    &APIMeta{Timestamp: time.Now().UTC().Format(time.RFC3339)},
	})
}

func respondList(w http.ResponseWriter, data any, total int) {
	writeEnvelope(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    data,
		Meta: &APIMeta{
			Total:     total,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
	})
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	writeEnvelope(w, status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: message},
		Meta:    &APIMeta{Timestamp: time.Now().UTC().Format(time.RFC3339)},
	})
}

func writeEnvelope(w http.ResponseWriter, status int, response APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.Encode(response)
}
