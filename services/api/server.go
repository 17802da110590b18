package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"sjsage522/couponfinder/internal/crawler"
	"sjsage522/couponfinder/logger"
)

// Source is the part of the extraction service the API depends on
type Source interface {
	crawler.ListingSource
	crawler.CourseSource
}

// Server exposes listings and course extraction over HTTP
type Server struct {
	router       *chi.Mux
	source       Source
	defaultLimit int
	log          *logger.Logger
}

// NewServer creates the HTTP API
func NewServer(source Source, defaultLimit int) *Server {
	s := &Server{
		router:       chi.NewRouter(),
		source:       source,
		defaultLimit: defaultLimit,
		log:          logger.ForAPI(),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	s.router.Get("/health", s.handleHealth)
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/coupons", s.handleCoupons)
		r.Get("/extract-courses", s.handleExtractCourses)
	})
}

// Router returns the HTTP handler
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Info().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("Request handled")
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (s *Server) handleCoupons(w http.ResponseWriter, r *http.Request) {
	limit := s.defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	mode := crawler.ModeRendered
	if raw := r.URL.Query().Get("mode"); raw != "" {
		m, ok := crawler.ParseFetchMode(raw)
		if !ok {
			respondError(w, http.StatusBadRequest, "mode must be static or rendered")
			return
		}
		mode = m
	}

	respondJSON(w, http.StatusOK, s.source.RecentListings(r.Context(), limit, mode))
}

type extractCoursesResponse struct {
	URL     string                 `json:"url"`
	Count   int                    `json:"count"`
	Courses []crawler.CourseRecord `json:"courses"`
}

func (s *Server) handleExtractCourses(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		respondError(w, http.StatusBadRequest, "No URL provided. Please add ?url=https://example.com parameter")
		return
	}

	courses := s.source.ExtractCourses(r.Context(), url)
	respondJSON(w, http.StatusOK, extractCoursesResponse{
		URL:     url,
		Count:   len(courses),
		Courses: courses,
	})
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(response)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
