package server

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/lnkday/page-engine/internal/experiment"
	"github.com/lnkday/page-engine/internal/page"
	"github.com/lnkday/page-engine/internal/render"
	"github.com/lnkday/page-engine/internal/store"
)

const visitorCookie = "pe_vid"

// handleRender serves a published page: fetch record, pick an experiment
// variant, render, respond. View attribution happens after the response is
// on its way and never blocks or fails the render.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")

	p, err := s.store.GetBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	// Render is only defined for published pages.
	if p.Status != page.StatusPublished {
		http.NotFound(w, r)
		return
	}

	variant := s.selector.Select(p.Settings.Experiment, r.URL.Query().Get("variant"))

	doc, err := render.Render(p, variant, s.head.Head(p))
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	firstVisit := s.markVisitor(w, r)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(doc.HTML))

	s.recorder.RecordView(p.ID, doc.VariantID)
	if err := s.store.IncrementViews(r.Context(), p.ID, firstVisit); err != nil {
		// Counter drift is tolerable; the document already shipped.
		return
	}
}

// markVisitor sets the visitor cookie when absent and reports whether this
// request looked like a first visit.
func (s *Server) markVisitor(w http.ResponseWriter, r *http.Request) bool {
	if _, err := r.Cookie(visitorCookie); err == nil {
		return false
	}
	http.SetCookie(w, &http.Cookie{
		Name:     visitorCookie,
		Value:    uuid.New().String(),
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return true
}

// BeaconRequest is an incoming click beacon
type BeaconRequest struct {
	PageID  string `json:"pageId"`
	BlockID string `json:"blockId"`
}

func (s *Server) handleBeacon(w http.ResponseWriter, r *http.Request) {
	// Set CORS headers for all responses
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	// Handle preflight
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req BeaconRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if req.PageID == "" || req.BlockID == "" {
		http.Error(w, "Missing required fields", http.StatusBadRequest)
		return
	}

	s.recorder.RecordClick(req.PageID, req.BlockID)

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetPage(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.GetBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleConfigureExperiment(w http.ResponseWriter, r *http.Request) {
	var cfg experiment.Config
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	p, err := s.store.GetBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	updated, err := s.manager.Configure(r.Context(), p, cfg)
	if err != nil {
		if errors.Is(err, experiment.ErrTrafficSum) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// WinnerRequest names the variant to promote
type WinnerRequest struct {
	VariantID string `json:"variantId"`
}

func (s *Server) handleDeclareWinner(w http.ResponseWriter, r *http.Request) {
	var req WinnerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if req.VariantID == "" {
		http.Error(w, "Missing variantId", http.StatusBadRequest)
		return
	}

	p, err := s.store.GetBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	updated, err := s.manager.DeclareWinner(r.Context(), p, req.VariantID)
	if err != nil {
		if errors.Is(err, experiment.ErrNoActiveExperiment) || errors.Is(err, experiment.ErrVariantNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

type HealthResponse struct {
	Status        string `json:"status"`
	PagesCount    int    `json:"pages_count"`
	DBSizeBytes   int64  `json:"db_size_bytes"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	pages, err := s.store.List(r.Context())
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	var dbSize int64
	if ds, ok := s.store.(interface{ DB() *sql.DB }); ok {
		row := ds.DB().QueryRow("SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()")
		row.Scan(&dbSize)
	}

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:        "ok",
		PagesCount:    len(pages),
		DBSizeBytes:   dbSize,
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
