package readingstate

import (
	"time"
	"unicode/utf8"
)

const (
	MaxBookmarks      = 20
	MaxRecentChapters = 10

	// excerptRunes is how much verse text a bookmark keeps before the ellipsis.
	excerptRunes = 100
	ellipsis     = "..."
)

// Storage keys, one JSON document each.
const (
	KeyBookmarks      = "bookmarks"
	KeyRecentChapters = "recentChapters"
	KeyLastRead       = "lastRead"
)

type Bookmark struct {
	ChapterNumber int       `json:"chapterNumber"`
	VerseNumber   int       `json:"verseNumber"`
	ChapterName   string    `json:"chapterName"`
	VerseText     string    `json:"verseText"`
	Timestamp     time.Time `json:"timestamp"`
}

func (b Bookmark) matches(chapter, verse int) bool {
	return b.ChapterNumber == chapter && b.VerseNumber == verse
}

type RecentChapter struct {
	Number                 int    `json:"number"`
	EnglishName            string `json:"englishName"`
	EnglishNameTranslation string `json:"englishNameTranslation"`
}

// LastRead points at the page the reader last opened.
type LastRead struct {
	ChapterNumber int    `json:"chapterNumber"`
	ChapterName   string `json:"chapterName"`
	Page          int    `json:"page"`
}

// Excerpt shortens text to at most 100 runes followed by "...".
func Excerpt(text string) string {
	if utf8.RuneCountInString(text) <= excerptRunes {
		return text
	}
	runes := []rune(text)
	return string(runes[:excerptRunes]) + ellipsis
}
