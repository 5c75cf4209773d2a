package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/taiwoajasa245/quran-reader-api/internal/paginate"
	"github.com/taiwoajasa245/quran-reader-api/internal/quran"
	"github.com/taiwoajasa245/quran-reader-api/internal/reader"
	"github.com/taiwoajasa245/quran-reader-api/internal/readingstate"
)

const rule = "────────────────────────────────────────────────────────────"

func printChapters(w io.Writer, chapters []quran.Chapter) {
	if len(chapters) == 0 {
		fmt.Fprintln(w, "No chapters match.")
		return
	}
	for _, c := range chapters {
		fmt.Fprintf(w, "%3d. %-24s %-28s %3d verses\n", c.Number, c.EnglishName, c.EnglishNameTranslation, c.NumberOfAyahs)
	}
}

func printVerses(w io.Writer, verses []reader.VerseView) {
	for _, v := range verses {
		mark := " "
		if v.Bookmarked {
			mark = "*"
		}
		fmt.Fprintf(w, "%s[%d] %s\n", mark, v.NumberInSurah, v.Text)
		if v.Translation != "" {
			fmt.Fprintf(w, "     %s\n", v.Translation)
		}
	}
}

func printChapterPage(w io.Writer, p *reader.ChapterPage) {
	fmt.Fprintf(w, "%d. %s (%s)  page %d/%d\n", p.Chapter.Number, p.Chapter.EnglishName, p.Chapter.EnglishNameTranslation, p.Page, p.TotalPages)
	fmt.Fprintln(w, rule)
	if p.ShowOpeningFormula {
		fmt.Fprintf(w, "  %s\n\n", paginate.OpeningFormula)
	}
	printVerses(w, p.Verses)
	fmt.Fprintln(w, rule)
}

func printSectionPage(w io.Writer, p *reader.SectionPage) {
	fmt.Fprintf(w, "Juz %d  page %d/%d\n", p.Number, p.Page, p.TotalPages)
	fmt.Fprintln(w, rule)

	current := 0
	for _, v := range p.Verses {
		if v.Surah != nil && v.Surah.Number != current {
			current = v.Surah.Number
			fmt.Fprintf(w, "\n%d. %s\n", v.Surah.Number, v.Surah.EnglishName)
		}
		printVerses(w, []reader.VerseView{v})
	}
	fmt.Fprintln(w, rule)
}

func printSearch(w io.Writer, res quran.SearchResult) {
	if len(res.Matches) == 0 {
		fmt.Fprintln(w, "No matches.")
		return
	}
	fmt.Fprintf(w, "%d matches\n", res.Count)
	for _, m := range res.Matches {
		fmt.Fprintf(w, "%s %d:%d  %s\n", m.Surah.EnglishName, m.Surah.Number, m.NumberInSurah, m.Text)
	}
}

func printBookmarks(w io.Writer, marks []readingstate.Bookmark) {
	if len(marks) == 0 {
		fmt.Fprintln(w, "No bookmarks yet.")
		return
	}
	for _, b := range marks {
		fmt.Fprintf(w, "%s %d:%d  %s\n", b.ChapterName, b.ChapterNumber, b.VerseNumber, b.Timestamp.Format("2006-01-02 15:04"))
		fmt.Fprintf(w, "    %s\n", strings.TrimSpace(b.VerseText))
	}
}

func printRecent(w io.Writer, recent []readingstate.RecentChapter) {
	if len(recent) == 0 {
		fmt.Fprintln(w, "Nothing read yet.")
		return
	}
	for _, c := range recent {
		fmt.Fprintf(w, "%3d. %s (%s)\n", c.Number, c.EnglishName, c.EnglishNameTranslation)
	}
}
