// Package paginate cuts ordered verse lists into fixed-size pages and strips
// the opening formula that heads most chapters.
package paginate

import (
	"errors"
	"strings"
)

// PageSize is the number of verses shown per page.
const PageSize = 30

// OpeningFormula is the Bismillah as it appears in the original-script edition.
const OpeningFormula = "بِسْمِ اللَّهِ الرَّحْمَٰنِ الرَّحِيمِ"

var (
	ErrInvalidPage    = errors.New("page must be at least 1")
	ErrPageOutOfRange = errors.New("page out of range")
)

// Texter is implemented by anything carrying verse text.
type Texter interface {
	VerseText() string
}

// FilterOpeningFormula drops the first verse when it contains the opening
// formula, except in chapters 1 and 9 where the list is returned unchanged.
// The input slice is not modified.
func FilterOpeningFormula[T Texter](verses []T, chapterNumber int) []T {
	if chapterNumber == 1 || chapterNumber == 9 || len(verses) == 0 {
		return verses
	}
	if strings.Contains(verses[0].VerseText(), OpeningFormula) {
		return verses[1:]
	}
	return verses
}

// FilterOpeningFormulaAligned applies FilterOpeningFormula to primary and
// drops the same leading position from translated, so the two lists stay
// index-aligned even when the translation text does not carry the formula.
func FilterOpeningFormulaAligned[T Texter](primary, translated []T, chapterNumber int) ([]T, []T) {
	filtered := FilterOpeningFormula(primary, chapterNumber)
	if len(filtered) == len(primary) {
		return filtered, translated
	}
	if len(translated) > 0 {
		translated = translated[1:]
	}
	return filtered, translated
}

// Page is one window of a paginated list.
type Page[T any] struct {
	Items      []T
	Number     int
	Size       int
	TotalPages int
	Total      int
}

// TotalPages is ceil(n/size), zero for an empty list.
func TotalPages(n, size int) int {
	if n <= 0 || size <= 0 {
		return 0
	}
	return (n + size - 1) / size
}

// Paginate returns items[(page-1)*size : page*size] clipped to the list.
// Pages outside [1, TotalPages] yield an empty window. A size below 1 falls
// back to PageSize.
func Paginate[T any](items []T, page, size int) Page[T] {
	if size < 1 {
		size = PageSize
	}
	p := Page[T]{
		Items:      []T{},
		Number:     page,
		Size:       size,
		TotalPages: TotalPages(len(items), size),
		Total:      len(items),
	}
	if page < 1 {
		return p
	}

	start := (page - 1) * size
	if start >= len(items) {
		return p
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	p.Items = items[start:end]
	return p
}

// CheckPage validates a requested page number against totalPages. A list
// with no pages accepts page 1 so empty chapters still render.
func CheckPage(page, totalPages int) error {
	if page < 1 {
		return ErrInvalidPage
	}
	if totalPages > 0 && page > totalPages {
		return ErrPageOutOfRange
	}
	if totalPages == 0 && page > 1 {
		return ErrPageOutOfRange
	}
	return nil
}

// PageForVerse returns the page that holds the verse numbered
// verseNumberInChapter.
func PageForVerse(verseNumberInChapter, size int) int {
	if size < 1 {
		size = PageSize
	}
	if verseNumberInChapter < 1 {
		return 1
	}
	return (verseNumberInChapter + size - 1) / size
}

// Pair lines up a verse with its translation by position.
type Pair[T any] struct {
	Verse       T
	Translation *T
}

// Zip pairs primary[i] with translated[i]. A shorter translated list leaves
// the trailing pairs without a translation.
func Zip[T any](primary, translated []T) []Pair[T] {
	out := make([]Pair[T], len(primary))
	for i := range primary {
		out[i].Verse = primary[i]
		if i < len(translated) {
			t := translated[i]
			out[i].Translation = &t
		}
	}
	return out
}
