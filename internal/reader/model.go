package reader

import (
	"github.com/taiwoajasa245/quran-reader-api/internal/quran"
)

// VerseView is one verse as rendered, with its translation when loaded.
type VerseView struct {
	Number        int               `json:"number"`
	NumberInSurah int               `json:"numberInSurah"`
	Text          string            `json:"text"`
	Translation   string            `json:"translation,omitempty"`
	Surah         *quran.ChapterRef `json:"surah,omitempty"`
	Bookmarked    bool              `json:"bookmarked"`
}

type ChapterPage struct {
	Chapter quran.Chapter `json:"chapter"`

	// ShowOpeningFormula is set on the first page of every chapter except 1
	// and 9; the view prints the formula once above the verses.
	ShowOpeningFormula bool        `json:"showOpeningFormula"`
	Translation        string      `json:"translation,omitempty"`
	Page               int         `json:"page"`
	PageSize           int         `json:"pageSize"`
	TotalPages         int         `json:"totalPages"`
	TotalVerses        int         `json:"totalVerses"`
	Verses             []VerseView `json:"verses"`
}

type SectionPage struct {
	Number      int         `json:"number"`
	Translation string      `json:"translation,omitempty"`
	Page        int         `json:"page"`
	PageSize    int         `json:"pageSize"`
	TotalPages  int         `json:"totalPages"`
	TotalVerses int         `json:"totalVerses"`
	Verses      []VerseView `json:"verses"`
}

type Section struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
}
