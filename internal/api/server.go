package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/pbaille/moodmirror/internal/auth"
	"github.com/pbaille/moodmirror/internal/domain"
	"github.com/pbaille/moodmirror/internal/journal"
)

// Server exposes the journal over a local JSON API
type Server struct {
	journal *journal.Journal
	creds   *auth.Store
	addr    string
}

// New creates a new API server
func New(j *journal.Journal, creds *auth.Store, addr string) *Server {
	return &Server{journal: j, creds: creds, addr: addr}
}

// Handler returns the routed handler with authentication applied
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Entries
	mux.Handle("GET /entries", s.requireAuth(s.listEntries))
	mux.Handle("POST /entries", s.requireAuth(s.addEntry))

	// Mood series and tag summary
	mux.Handle("GET /trend", s.requireAuth(s.trend))
	mux.Handle("GET /tags", s.requireAuth(s.listTags))

	// Health check
	mux.HandleFunc("GET /health", s.health)

	return mux
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting server", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// requireAuth checks the HTTP Basic password against the credential store.
// The username is ignored.
func (s *Server) requireAuth(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, pw, ok := r.BasicAuth()
		if ok {
			valid, err := s.creds.CheckPassword(pw)
			if errors.Is(err, domain.ErrNoCredential) {
				writeError(w, http.StatusServiceUnavailable, "no password set; run 'moodmirror passwd' first")
				return
			}
			if err != nil {
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
			if valid {
				next(w, r)
				return
			}
		}

		w.Header().Set("WWW-Authenticate", `Basic realm="moodmirror"`)
		writeError(w, http.StatusUnauthorized, "invalid password")
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// AddEntryRequest is the request body for adding an entry
type AddEntryRequest struct {
	Text string `json:"text"`
	Tags string `json:"tags,omitempty"`
}

// AddEntryResponse is the response for adding an entry
type AddEntryResponse struct {
	Entry   domain.Entry `json:"entry"`
	Message string       `json:"message"`
}

func (s *Server) addEntry(w http.ResponseWriter, r *http.Request) {
	var req AddEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, err := s.journal.Submit(r.Context(), req.Text, req.Tags)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, AddEntryResponse{
		Entry:   entry,
		Message: journal.MoodMessage(entry.Mood),
	})
}

func (s *Server) listEntries(w http.ResponseWriter, r *http.Request) {
	tag := r.URL.Query().Get("tag")

	entries, err := s.journal.Entries(r.Context(), tag)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"entries": entries,
		"tag":     tag,
	})
}

func (s *Server) trend(w http.ResponseWriter, r *http.Request) {
	points, err := s.journal.Trend(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"points": points,
	})
}

func (s *Server) listTags(w http.ResponseWriter, r *http.Request) {
	tags, err := s.journal.Tags(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"tags": tags,
	})
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrEmptyEntry):
		writeError(w, http.StatusBadRequest, "Please write something.")
	case errors.Is(err, domain.ErrNoEntries), errors.Is(err, domain.ErrNoMatches):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrCorruptJournal):
		slog.Error("journal unreadable", "error", err)
		writeError(w, http.StatusInternalServerError, domain.ErrCorruptJournal.Error())
	default:
		slog.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
