package readingstate

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taiwoajasa245/quran-reader-api/pkg/response"
)

// chapterCount mirrors quran.ChapterCount; readingstate does not import the
// corpus client.
const chapterCount = 114

type Handler struct {
	registry *Registry
}

func NewHandler(registry *Registry) Handler {
	return Handler{registry: registry}
}

type AddBookmarkRequest struct {
	ChapterNumber int    `json:"chapterNumber"`
	VerseNumber   int    `json:"verseNumber"`
	ChapterName   string `json:"chapterName"`
	VerseText     string `json:"verseText"`
}

func (h *Handler) store(w http.ResponseWriter, r *http.Request) (*Store, bool) {
	s, err := h.registry.FromRequest(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Missing device id", err.Error())
		return nil, false
	}
	return s, true
}

func verseParams(w http.ResponseWriter, r *http.Request) (chapter, verse int, ok bool) {
	errs := map[string]string{}

	chapter, err := strconv.Atoi(chi.URLParam(r, "chapter"))
	if err != nil || chapter < 1 || chapter > chapterCount {
		errs["chapter"] = "chapter must be between 1 and 114"
	}
	verse, err = strconv.Atoi(chi.URLParam(r, "verse"))
	if err != nil || verse < 1 {
		errs["verse"] = "verse must be a positive number"
	}

	if len(errs) > 0 {
		response.Error(w, http.StatusBadRequest, "Invalid verse reference", errs)
		return 0, 0, false
	}
	return chapter, verse, true
}

func (h *Handler) GetBookmarksHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := h.store(w, r)
	if !ok {
		return
	}
	response.List(w, s.Bookmarks(r.Context()), "successfully")
}

func (h *Handler) AddBookmarkHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := h.store(w, r)
	if !ok {
		return
	}

	var req AddBookmarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid JSON body", err.Error())
		return
	}

	errs := map[string]string{}
	if req.ChapterNumber < 1 || req.ChapterNumber > chapterCount {
		errs["chapterNumber"] = "chapterNumber must be between 1 and 114"
	}
	if req.VerseNumber < 1 {
		errs["verseNumber"] = "verseNumber is required"
	}
	if len(errs) > 0 {
		response.Error(w, http.StatusBadRequest, "Missing required fields", errs)
		return
	}

	added, err := s.AddBookmark(r.Context(), Bookmark{
		ChapterNumber: req.ChapterNumber,
		VerseNumber:   req.VerseNumber,
		ChapterName:   req.ChapterName,
		VerseText:     req.VerseText,
	})
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Failed to save bookmark", err.Error())
		return
	}

	data := map[string]bool{"added": added}
	if added {
		response.Created(w, data, "bookmark added")
		return
	}
	response.Success(w, data, "already bookmarked")
}

func (h *Handler) RemoveBookmarkHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := h.store(w, r)
	if !ok {
		return
	}
	chapter, verse, ok := verseParams(w, r)
	if !ok {
		return
	}

	if err := s.RemoveBookmark(r.Context(), chapter, verse); err != nil {
		response.Error(w, http.StatusInternalServerError, "Failed to remove bookmark", err.Error())
		return
	}
	response.Success(w, "Ok", "bookmark removed")
}

func (h *Handler) IsBookmarkedHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := h.store(w, r)
	if !ok {
		return
	}
	chapter, verse, ok := verseParams(w, r)
	if !ok {
		return
	}

	response.Success(w, map[string]bool{
		"bookmarked": s.IsBookmarked(r.Context(), chapter, verse),
	}, "successfully")
}

func (h *Handler) GetRecentChaptersHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := h.store(w, r)
	if !ok {
		return
	}
	response.List(w, s.RecentChapters(r.Context()), "successfully")
}

func (h *Handler) GetLastReadHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := h.store(w, r)
	if !ok {
		return
	}

	p, found := s.LastRead(r.Context())
	if !found {
		response.Success(w, nil, "no reading session yet")
		return
	}
	response.Success(w, p, "successfully")
}

func (h *Handler) SetLastReadHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := h.store(w, r)
	if !ok {
		return
	}

	var req LastRead
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid JSON body", err.Error())
		return
	}

	errs := map[string]string{}
	if req.ChapterNumber < 1 || req.ChapterNumber > chapterCount {
		errs["chapterNumber"] = "chapterNumber must be between 1 and 114"
	}
	if req.Page < 1 {
		errs["page"] = "page must be a positive number"
	}
	if len(errs) > 0 {
		response.Error(w, http.StatusBadRequest, "Missing required fields", errs)
		return
	}

	if err := s.SetLastRead(r.Context(), req); err != nil {
		response.Error(w, http.StatusInternalServerError, "Failed to save position", err.Error())
		return
	}
	response.Success(w, req, "successfully")
}
