// Package qurantest serves a small canned copy of the corpus API for tests.
package qurantest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
)

// Formula mirrors paginate.OpeningFormula without importing it.
const Formula = "بِسْمِ اللَّهِ الرَّحْمَٰنِ الرَّحِيمِ"

type chapter struct {
	Number                 int    `json:"number"`
	Name                   string `json:"name"`
	EnglishName            string `json:"englishName"`
	EnglishNameTranslation string `json:"englishNameTranslation"`
	NumberOfAyahs          int    `json:"numberOfAyahs"`
	RevelationType         string `json:"revelationType"`
}

type ref struct {
	Number      int    `json:"number"`
	Name        string `json:"name"`
	EnglishName string `json:"englishName"`
}

type verse struct {
	Number        int    `json:"number"`
	NumberInSurah int    `json:"numberInSurah"`
	Text          string `json:"text"`
	Juz           int    `json:"juz"`
	Surah         *ref   `json:"surah,omitempty"`
}

type edition struct {
	Identifier  string `json:"identifier"`
	Language    string `json:"language"`
	Name        string `json:"name"`
	EnglishName string `json:"englishName"`
	Format      string `json:"format"`
	Type        string `json:"type"`
}

// Chapters known to the fake. Chapter 2 is cut to 65 verses so it spans
// three pages.
var Chapters = []chapter{
	{1, "سُورَةُ ٱلْفَاتِحَةِ", "Al-Faatiha", "The Opening", 7, "Meccan"},
	{2, "سُورَةُ البَقَرَةِ", "Al-Baqara", "The Cow", 65, "Medinan"},
	{9, "سُورَةُ التَّوۡبَةِ", "At-Tawba", "The Repentance", 5, "Medinan"},
	{112, "سُورَةُ الإِخۡلَاصِ", "Al-Ikhlaas", "Sincerity", 4, "Meccan"},
}

var Editions = []edition{
	{"en.sahih", "en", "Saheeh International", "Saheeh International", "text", "translation"},
	{"fr.hamidullah", "fr", "Hamidullah", "Muhammad Hamidullah", "text", "translation"},
	{"ur.jalandhry", "ur", "جالندہری", "Fateh Muhammad Jalandhry", "text", "translation"},
	{"id.indonesian", "id", "Bahasa Indonesia", "Ministry of Religious Affairs", "text", "translation"},
}

func findChapter(n int) (chapter, bool) {
	for _, c := range Chapters {
		if c.Number == n {
			return c, true
		}
	}
	return chapter{}, false
}

// ChapterVerses builds the verse list for chapter n in edition.
func ChapterVerses(n int, edition string) []verse {
	c, ok := findChapter(n)
	if !ok {
		return nil
	}
	out := make([]verse, c.NumberOfAyahs)
	for i := range out {
		num := i + 1
		text := fmt.Sprintf("آية %d:%d", n, num)
		if edition != "quran-uthmani" {
			text = fmt.Sprintf("Translation %d:%d", n, num)
		}
		if num == 1 && n != 9 && edition == "quran-uthmani" {
			if n == 1 {
				text = Formula
			} else {
				text = Formula + " " + text
			}
		}
		out[i] = verse{Number: n*1000 + num, NumberInSurah: num, Text: text, Juz: 1}
	}
	return out
}

// Server is an httptest server speaking the corpus envelope format.
type Server struct {
	*httptest.Server

	mu   sync.Mutex
	hits map[string]int
}

func NewServer() *Server {
	s := &Server{hits: make(map[string]int)}
	s.Server = httptest.NewServer(s.routes())
	return s
}

// Hits reports how many times path was requested.
func (s *Server) Hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

func (s *Server) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.hits[r.URL.EscapedPath()]++
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func writeData(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"code": 200, "status": "OK", "data": data})
}

func writeNotFound(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	_ = json.NewEncoder(w).Encode(map[string]any{"code": 404, "status": "NOT FOUND", "data": msg})
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.count)

	r.Get("/surah", func(w http.ResponseWriter, r *http.Request) {
		writeData(w, Chapters)
	})

	r.Get("/surah/{n}", func(w http.ResponseWriter, r *http.Request) {
		n, _ := strconv.Atoi(chi.URLParam(r, "n"))
		switch n {
		case 113:
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		case 114:
			// englishName missing
			writeData(w, map[string]any{"number": 114, "name": "سُورَةُ النَّاسِ"})
			return
		}
		c, ok := findChapter(n)
		if !ok {
			writeNotFound(w, "Surah not found")
			return
		}
		writeData(w, c)
	})

	r.Get("/surah/{n}/{edition}", func(w http.ResponseWriter, r *http.Request) {
		n, _ := strconv.Atoi(chi.URLParam(r, "n"))
		ed := chi.URLParam(r, "edition")
		if n == 113 {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		if ed == "broken.edition" {
			writeData(w, map[string]any{"number": n, "ayahs": []map[string]any{{"number": 1}}})
			return
		}
		if ed != "quran-uthmani" && ed != "en.sahih" {
			writeNotFound(w, "Edition not found")
			return
		}
		verses := ChapterVerses(n, ed)
		if verses == nil {
			writeNotFound(w, "Surah not found")
			return
		}
		writeData(w, map[string]any{
			"number":  n,
			"ayahs":   verses,
			"edition": map[string]string{"identifier": ed},
		})
	})

	r.Get("/juz/{n}/{edition}", func(w http.ResponseWriter, r *http.Request) {
		n, _ := strconv.Atoi(chi.URLParam(r, "n"))
		ed := chi.URLParam(r, "edition")
		if n != 1 {
			writeNotFound(w, "Juz not found")
			return
		}
		var verses []verse
		for _, c := range []int{1, 2} {
			for _, v := range ChapterVerses(c, ed) {
				ch, _ := findChapter(c)
				v.Surah = &ref{Number: c, Name: ch.Name, EnglishName: ch.EnglishName}
				verses = append(verses, v)
			}
		}
		writeData(w, map[string]any{
			"number":  n,
			"ayahs":   verses,
			"edition": map[string]string{"identifier": ed},
		})
	})

	r.Get("/edition/type/translation", func(w http.ResponseWriter, r *http.Request) {
		writeData(w, Editions)
	})

	r.Get("/search/{q}/all/{lang}", func(w http.ResponseWriter, r *http.Request) {
		q := strings.ToLower(chi.URLParam(r, "q"))
		if q != "mercy" && q != "most merciful" {
			writeNotFound(w, "Nothing matches.")
			return
		}
		writeData(w, map[string]any{
			"count": 2,
			"matches": []map[string]any{
				{"number": 1, "numberInSurah": 1, "text": "In the name of Allah, the Entirely Merciful",
					"edition": Editions[0], "surah": ref{Number: 1, EnglishName: "Al-Faatiha"}},
				{"number": 2165, "numberInSurah": 5, "text": "Mercy from your Lord",
					"edition": Editions[0], "surah": ref{Number: 2, EnglishName: "Al-Baqara"}},
			},
		})
	})

	return r
}
