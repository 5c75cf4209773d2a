package reader

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taiwoajasa245/quran-reader-api/internal/paginate"
	"github.com/taiwoajasa245/quran-reader-api/internal/quran"
	"github.com/taiwoajasa245/quran-reader-api/internal/readingstate"
	"github.com/taiwoajasa245/quran-reader-api/pkg/response"
)

type Handler struct {
	service            *Service
	registry           *readingstate.Registry
	defaultTranslation string
}

// NewHandler serves pages paired with defaultTranslation unless the request
// names another edition; ?translation= with no value serves none.
func NewHandler(service *Service, registry *readingstate.Registry, defaultTranslation string) Handler {
	return Handler{service: service, registry: registry, defaultTranslation: defaultTranslation}
}

// writeError maps corpus and paging errors onto HTTP statuses.
func writeError(w http.ResponseWriter, message string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, quran.ErrNotFound), errors.Is(err, paginate.ErrPageOutOfRange):
		status = http.StatusNotFound
	case errors.Is(err, paginate.ErrInvalidPage):
		status = http.StatusBadRequest
	case errors.Is(err, quran.ErrMalformed), errors.Is(err, quran.ErrUpstream):
		status = http.StatusBadGateway
	}
	response.Error(w, status, message, err.Error())
}

func intParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	n, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid "+name, map[string]string{
			name: name + " must be a number",
		})
		return 0, false
	}
	return n, true
}

// pageQuery reads ?page=, defaulting to 1.
func pageQuery(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("page")
	if raw == "" {
		return 1, true
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		response.Error(w, http.StatusBadRequest, "Invalid page", map[string]string{
			"page": "page must be a positive number",
		})
		return 0, false
	}
	return page, true
}

func (h *Handler) translation(r *http.Request) string {
	q := r.URL.Query()
	if !q.Has("translation") {
		return h.defaultTranslation
	}
	return strings.TrimSpace(q.Get("translation"))
}

// store returns the requesting device's store, or nil for anonymous reads.
func (h *Handler) store(r *http.Request) *readingstate.Store {
	if h.registry == nil {
		return nil
	}
	s, err := h.registry.FromRequest(r)
	if err != nil {
		return nil
	}
	return s
}

func (h *Handler) GetChaptersHandler(w http.ResponseWriter, r *http.Request) {
	chapters, err := h.service.Chapters(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, "Failed to get chapters", err)
		return
	}
	response.List(w, chapters, "successfully")
}

func (h *Handler) GetChapterPageHandler(w http.ResponseWriter, r *http.Request) {
	n, ok := intParam(w, r, "number")
	if !ok {
		return
	}
	page, ok := pageQuery(w, r)
	if !ok {
		return
	}
	translation := h.translation(r)

	p, err := h.service.ChapterPage(r.Context(), h.store(r), n, page, translation)
	if err != nil {
		writeError(w, "Failed to get chapter", err)
		return
	}
	response.Success(w, p, "successfully")
}

func (h *Handler) GetSectionsHandler(w http.ResponseWriter, r *http.Request) {
	response.List(w, Sections(), "successfully")
}

func (h *Handler) GetSectionPageHandler(w http.ResponseWriter, r *http.Request) {
	n, ok := intParam(w, r, "number")
	if !ok {
		return
	}
	page, ok := pageQuery(w, r)
	if !ok {
		return
	}
	translation := h.translation(r)

	p, err := h.service.SectionPage(r.Context(), h.store(r), n, page, translation)
	if err != nil {
		writeError(w, "Failed to get section", err)
		return
	}
	response.Success(w, p, "successfully")
}

func (h *Handler) GetTranslationsHandler(w http.ResponseWriter, r *http.Request) {
	eds, err := h.service.Translations(r.Context())
	if err != nil {
		writeError(w, "Failed to get translations", err)
		return
	}
	response.List(w, eds, "successfully")
}

func (h *Handler) SearchHandler(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, "Search failed", err)
		return
	}
	if res.Matches == nil {
		res.Matches = []quran.SearchMatch{}
	}
	response.Success(w, res, "successfully")
}

func (h *Handler) PageForVerseHandler(w http.ResponseWriter, r *http.Request) {
	n, ok := intParam(w, r, "number")
	if !ok {
		return
	}
	response.Success(w, map[string]int{
		"verse": n,
		"page":  paginate.PageForVerse(n, paginate.PageSize),
	}, "successfully")
}
