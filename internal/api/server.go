// Package api exposes the extraction pipeline over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/sells-group/brand-insights/internal/competitors"
	"github.com/sells-group/brand-insights/internal/discovery"
	"github.com/sells-group/brand-insights/internal/model"
	"github.com/sells-group/brand-insights/internal/scraper"
	"github.com/sells-group/brand-insights/internal/store"
)

const (
	defaultCompetitorLimit = 5
	persistTimeout         = 15 * time.Second
)

// Server wires the extraction pipeline to HTTP handlers. The discoverer and
// store are optional; nil disables discovery and persistence respectively.
type Server struct {
	scrape    competitors.ScrapeFunc
	discover  discovery.Discoverer
	store     store.Store
	maxFanout int
}

// NewServer builds a Server.
func NewServer(scrape competitors.ScrapeFunc, discover discovery.Discoverer, st store.Store, maxFanout int) *Server {
	return &Server{
		scrape:    scrape,
		discover:  discover,
		store:     st,
		maxFanout: maxFanout,
	}
}

// Router builds the HTTP routing table with permissive CORS.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Get("/health", s.handleHealth)
	r.Post("/api/insights", s.handleInsights)
	r.Post("/api/insights/competitors", s.handleCompetitors)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type insightsRequest struct {
	WebsiteURL string `json:"website_url"`
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	var req insightsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.WebsiteURL == "" {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "website_url is required"})
		return
	}

	bc, err := s.scrape(r.Context(), req.WebsiteURL)
	if err != nil {
		if errors.Is(err, scraper.ErrSiteUnreachable) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "website not found or unreachable"})
			return
		}
		zap.L().Error("api: insights failed", zap.String("url", req.WebsiteURL), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "extraction failed"})
		return
	}

	s.persistAsync(bc)
	writeJSON(w, http.StatusOK, map[string]any{"data": bc})
}

type competitorsRequest struct {
	WebsiteURL     string   `json:"website_url"`
	CompetitorURLs []string `json:"competitor_urls"`
	AutoDiscover   bool     `json:"auto_discover"`
	Limit          int      `json:"limit"`
}

type competitorsResponse struct {
	WebsiteURL  string               `json:"website_url"`
	Competitors []competitors.Result `json:"competitors"`
	Discovered  bool                 `json:"discovered"`
	Note        string               `json:"note,omitempty"`
}

func (s *Server) handleCompetitors(w http.ResponseWriter, r *http.Request) {
	var req competitorsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.WebsiteURL == "" {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "website_url is required"})
		return
	}
	limit := req.Limit
	if limit <= 0 {
		limit = defaultCompetitorLimit
	}

	resp := competitorsResponse{WebsiteURL: req.WebsiteURL}

	urls := req.CompetitorURLs
	if len(urls) == 0 && req.AutoDiscover {
		if s.discover == nil {
			resp.Note = "no discovery backend configured"
		} else {
			urls = s.discover.Discover(r.Context(), req.WebsiteURL, limit)
			resp.Discovered = len(urls) > 0
			if len(urls) == 0 {
				resp.Note = "discovery returned no candidates"
			}
		}
	}
	if len(urls) == 0 && resp.Note == "" {
		resp.Note = "no competitor urls supplied"
	}

	resp.Competitors = competitors.FetchAll(r.Context(), urls, s.maxFanout, s.scrape)
	writeJSON(w, http.StatusOK, resp)
}

// persistAsync saves a successful extraction without blocking or failing the
// response. Persistence problems are log-only.
func (s *Server) persistAsync(bc *model.BrandContext) {
	if s.store == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		if err := s.store.SaveBrandContext(ctx, bc); err != nil {
			zap.L().Warn("api: persist failed", zap.String("site", bc.SiteURL), zap.Error(err))
		}
	}()
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zap.L().Warn("api: write response", zap.Error(err))
	}
}
