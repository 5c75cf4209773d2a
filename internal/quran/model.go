package quran

import "fmt"

const (
	ChapterCount = 114
	SectionCount = 30

	// OriginalEdition is the original-script edition the reader displays.
	OriginalEdition = "quran-uthmani"
)

type Chapter struct {
	Number                 int    `json:"number"`
	Name                   string `json:"name"`
	EnglishName            string `json:"englishName"`
	EnglishNameTranslation string `json:"englishNameTranslation"`
	NumberOfAyahs          int    `json:"numberOfAyahs"`
	RevelationType         string `json:"revelationType"`
}

func (c Chapter) validate() error {
	if c.Number < 1 || c.Number > ChapterCount {
		return fmt.Errorf("%w: chapter number %d", ErrMalformed, c.Number)
	}
	if c.EnglishName == "" {
		return fmt.Errorf("%w: chapter %d has no englishName", ErrMalformed, c.Number)
	}
	return nil
}

// ChapterRef is the chapter summary embedded in verses that span chapters.
type ChapterRef struct {
	Number      int    `json:"number"`
	Name        string `json:"name,omitempty"`
	EnglishName string `json:"englishName"`
}

type Verse struct {
	Number        int         `json:"number"`
	NumberInSurah int         `json:"numberInSurah"`
	Text          string      `json:"text"`
	Juz           int         `json:"juz,omitempty"`
	Page          int         `json:"page,omitempty"`
	Surah         *ChapterRef `json:"surah,omitempty"`
}

func (v Verse) VerseText() string {
	return v.Text
}

func (v Verse) validate() error {
	if v.NumberInSurah < 1 {
		return fmt.Errorf("%w: verse %d has no numberInSurah", ErrMalformed, v.Number)
	}
	if v.Text == "" {
		return fmt.Errorf("%w: verse %d has no text", ErrMalformed, v.Number)
	}
	return nil
}

type Edition struct {
	Identifier  string `json:"identifier"`
	Language    string `json:"language"`
	Name        string `json:"name"`
	EnglishName string `json:"englishName"`
	Format      string `json:"format"`
	Type        string `json:"type"`
	Direction   string `json:"direction,omitempty"`
}

func (e Edition) validate() error {
	if e.Identifier == "" {
		return fmt.Errorf("%w: edition without identifier", ErrMalformed)
	}
	return nil
}

// VerseList is an ordered run of verses for a chapter or a section in one
// edition.
type VerseList struct {
	Number  int     `json:"number"`
	Edition Edition `json:"edition"`
	Verses  []Verse `json:"ayahs"`
}

func (l VerseList) validate() error {
	if l.Verses == nil {
		return fmt.Errorf("%w: missing ayahs", ErrMalformed)
	}
	for _, v := range l.Verses {
		if err := v.validate(); err != nil {
			return err
		}
	}
	return nil
}

type SearchMatch struct {
	Number        int        `json:"number"`
	NumberInSurah int        `json:"numberInSurah"`
	Text          string     `json:"text"`
	Edition       Edition    `json:"edition"`
	Surah         ChapterRef `json:"surah"`
}

type SearchResult struct {
	Count   int           `json:"count"`
	Matches []SearchMatch `json:"matches"`
}

func (r SearchResult) validate() error {
	for _, m := range r.Matches {
		if m.Surah.Number < 1 || m.NumberInSurah < 1 {
			return fmt.Errorf("%w: search match %d without reference", ErrMalformed, m.Number)
		}
	}
	return nil
}
