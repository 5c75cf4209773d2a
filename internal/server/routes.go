package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/taiwoajasa245/quran-reader-api/internal/device"
	"github.com/taiwoajasa245/quran-reader-api/internal/reader"
	"github.com/taiwoajasa245/quran-reader-api/internal/readingstate"
	"github.com/taiwoajasa245/quran-reader-api/pkg/response"
)

const basePath = "/quran-reader-api/v1"

func (s *Server) RegisterRoutes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", device.Header},
		ExposedHeaders:   []string{device.Header},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", s.ServerIsWorking)

	r.Route(basePath, func(r chi.Router) {
		r.Get("/health", s.HealthHandler)

		// Reading is open to anonymous clients; only a supplied device id
		// gets its visits recorded.
		r.Group(func(r chi.Router) {
			r.Use(device.Optional)
			s.loadReaderRoutes(r)
		})

		r.Group(func(r chi.Router) {
			r.Use(device.Middleware)
			s.loadReadingStateRoutes(r)
		})
	})
	r.Get(basePath, s.ServerIsWorking)

	return r
}

func (s *Server) ServerIsWorking(w http.ResponseWriter, r *http.Request) {
	resp := make(map[string]string)
	resp["message"] = "Welcome to Quran reader api"
	response.Success(w, resp, "Success")
}

func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	health := map[string]any{
		"status":  "up",
		"backend": s.cfg.StateBackend,
	}

	if s.db != nil {
		stats := s.db.Health()
		health["database"] = stats
		if stats["status"] != "up" {
			health["status"] = "down"
			response.JSON(w, http.StatusServiceUnavailable, response.APIResponse{
				Status:  http.StatusServiceUnavailable,
				Message: "database unavailable",
				Data:    health,
			})
			return
		}
	}

	response.Success(w, health, "Success")
}

func (s *Server) loadReaderRoutes(router chi.Router) {
	h := reader.NewHandler(s.service, s.registry, s.cfg.DefaultTranslation)

	router.Get("/chapters", h.GetChaptersHandler)
	router.Get("/chapters/{number}", h.GetChapterPageHandler)
	router.Get("/sections", h.GetSectionsHandler)
	router.Get("/sections/{number}", h.GetSectionPageHandler)
	router.Get("/translations", h.GetTranslationsHandler)
	router.Get("/search", h.SearchHandler)
	router.Get("/pages/verse/{number}", h.PageForVerseHandler)
}

func (s *Server) loadReadingStateRoutes(router chi.Router) {
	h := readingstate.NewHandler(s.registry)

	router.Get("/bookmarks", h.GetBookmarksHandler)
	router.Post("/bookmarks", h.AddBookmarkHandler)
	router.Get("/bookmarks/{chapter}/{verse}", h.IsBookmarkedHandler)
	router.Delete("/bookmarks/{chapter}/{verse}", h.RemoveBookmarkHandler)
	router.Get("/recent", h.GetRecentChaptersHandler)
	router.Get("/last-read", h.GetLastReadHandler)
	router.Put("/last-read", h.SetLastReadHandler)
}
