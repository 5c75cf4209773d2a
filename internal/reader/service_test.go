package reader

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taiwoajasa245/quran-reader-api/internal/paginate"
	"github.com/taiwoajasa245/quran-reader-api/internal/quran"
	"github.com/taiwoajasa245/quran-reader-api/internal/quran/qurantest"
	"github.com/taiwoajasa245/quran-reader-api/internal/readingstate"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	srv := qurantest.NewServer()
	t.Cleanup(srv.Close)

	client := quran.New(quran.Options{BaseURL: srv.URL, Timeout: 2 * time.Second})
	return NewService(client, Options{Languages: []string{"en", "ur", "id"}})
}

func newStore() *readingstate.Store {
	return readingstate.NewStore(readingstate.NewMemoryKV(), "test", nil)
}

func TestChapterPage(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	t.Run("first page drops the opening formula verse", func(t *testing.T) {
		store := newStore()
		p, err := svc.ChapterPage(ctx, store, 2, 1, "en.sahih")
		require.NoError(t, err)

		assert.Equal(t, "Al-Baqara", p.Chapter.EnglishName)
		assert.True(t, p.ShowOpeningFormula)
		assert.Equal(t, 64, p.TotalVerses)
		assert.Equal(t, 3, p.TotalPages)
		assert.Equal(t, paginate.PageSize, p.PageSize)
		require.Len(t, p.Verses, 30)

		assert.Equal(t, 2, p.Verses[0].NumberInSurah)
		assert.Equal(t, "Translation 2:2", p.Verses[0].Translation)
		assert.Equal(t, 31, p.Verses[29].NumberInSurah)
		assert.Equal(t, "Translation 2:31", p.Verses[29].Translation)
	})

	t.Run("visit is recorded", func(t *testing.T) {
		store := newStore()
		_, err := svc.ChapterPage(ctx, store, 2, 2, "")
		require.NoError(t, err)

		recent := store.RecentChapters(ctx)
		require.Len(t, recent, 1)
		assert.Equal(t, readingstate.RecentChapter{Number: 2, EnglishName: "Al-Baqara", EnglishNameTranslation: "The Cow"}, recent[0])

		last, ok := svc.Resume(ctx, store)
		require.True(t, ok)
		assert.Equal(t, readingstate.LastRead{ChapterNumber: 2, ChapterName: "Al-Baqara", Page: 2}, last)
	})

	t.Run("formula heads the first page only", func(t *testing.T) {
		p, err := svc.ChapterPage(ctx, nil, 2, 2, "")
		require.NoError(t, err)
		assert.False(t, p.ShowOpeningFormula)
	})

	t.Run("last page is short", func(t *testing.T) {
		p, err := svc.ChapterPage(ctx, nil, 2, 3, "")
		require.NoError(t, err)
		assert.False(t, p.ShowOpeningFormula)
		require.Len(t, p.Verses, 4)
		assert.Equal(t, 65, p.Verses[3].NumberInSurah)
		assert.Empty(t, p.Verses[3].Translation)
	})

	t.Run("page bounds", func(t *testing.T) {
		_, err := svc.ChapterPage(ctx, nil, 2, 4, "")
		assert.ErrorIs(t, err, paginate.ErrPageOutOfRange)
		_, err = svc.ChapterPage(ctx, nil, 2, 0, "")
		assert.ErrorIs(t, err, paginate.ErrInvalidPage)
	})

	t.Run("opening chapter keeps its first verse", func(t *testing.T) {
		p, err := svc.ChapterPage(ctx, nil, 1, 1, "")
		require.NoError(t, err)
		assert.False(t, p.ShowOpeningFormula)
		require.Len(t, p.Verses, 7)
		assert.Equal(t, qurantest.Formula, p.Verses[0].Text)
	})

	t.Run("chapter nine is untouched", func(t *testing.T) {
		p, err := svc.ChapterPage(ctx, nil, 9, 1, "")
		require.NoError(t, err)
		assert.False(t, p.ShowOpeningFormula)
		assert.Len(t, p.Verses, 5)
		assert.Equal(t, 1, p.Verses[0].NumberInSurah)
	})

	t.Run("failed translation still renders", func(t *testing.T) {
		p, err := svc.ChapterPage(ctx, nil, 112, 1, "xx.none")
		require.NoError(t, err)
		require.Len(t, p.Verses, 3)
		for _, v := range p.Verses {
			assert.Empty(t, v.Translation)
		}
	})

	t.Run("upstream failure", func(t *testing.T) {
		store := newStore()
		_, err := svc.ChapterPage(ctx, store, 113, 1, "")
		assert.ErrorIs(t, err, quran.ErrUpstream)
		_, ok := store.LastRead(ctx)
		assert.False(t, ok)
	})

	t.Run("bookmarks are flagged", func(t *testing.T) {
		store := newStore()
		_, err := store.AddBookmark(ctx, readingstate.Bookmark{ChapterNumber: 112, VerseNumber: 3})
		require.NoError(t, err)

		p, err := svc.ChapterPage(ctx, store, 112, 1, "")
		require.NoError(t, err)
		assert.False(t, p.Verses[0].Bookmarked)
		assert.True(t, p.Verses[1].Bookmarked)
	})
}

func TestSectionPage(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	store := newStore()
	_, err := store.AddBookmark(ctx, readingstate.Bookmark{ChapterNumber: 2, VerseNumber: 1})
	require.NoError(t, err)

	p, err := svc.SectionPage(ctx, store, 1, 1, "en.sahih")
	require.NoError(t, err)

	assert.Equal(t, 72, p.TotalVerses)
	assert.Equal(t, 3, p.TotalPages)
	require.Len(t, p.Verses, 30)
	assert.Equal(t, qurantest.Formula, p.Verses[0].Text)
	require.NotNil(t, p.Verses[7].Surah)
	assert.Equal(t, 2, p.Verses[7].Surah.Number)
	assert.True(t, p.Verses[7].Bookmarked)
	assert.False(t, p.Verses[0].Bookmarked)
	assert.Equal(t, "Translation 1:1", p.Verses[0].Translation)

	assert.Empty(t, store.RecentChapters(ctx))

	_, err = svc.SectionPage(ctx, nil, 1, 9, "")
	assert.ErrorIs(t, err, paginate.ErrPageOutOfRange)
	_, err = svc.SectionPage(ctx, nil, 2, 1, "")
	assert.ErrorIs(t, err, quran.ErrNotFound)
}

func TestCatalog(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	chapters, err := svc.Chapters(ctx, "baq")
	require.NoError(t, err)
	require.Len(t, chapters, 1)
	assert.Equal(t, 2, chapters[0].Number)

	eds, err := svc.Translations(ctx)
	require.NoError(t, err)
	assert.Len(t, eds, 3)

	res, err := svc.Search(ctx, "mercy")
	require.NoError(t, err)
	assert.Len(t, res.Matches, 2)

	_, ok := svc.Resume(ctx, nil)
	assert.False(t, ok)
}

func TestFilterChapters(t *testing.T) {
	chapters := []quran.Chapter{
		{Number: 1, Name: "سُورَةُ ٱلْفَاتِحَةِ", EnglishName: "Al-Faatiha"},
		{Number: 2, Name: "سُورَةُ البَقَرَةِ", EnglishName: "Al-Baqara"},
		{Number: 12, Name: "سُورَةُ يُوسُفَ", EnglishName: "Yusuf"},
		{Number: 112, Name: "سُورَةُ الإِخۡلَاصِ", EnglishName: "Al-Ikhlaas"},
	}

	numbers := func(cs []quran.Chapter) []int {
		var out []int
		for _, c := range cs {
			out = append(out, c.Number)
		}
		return out
	}

	assert.Equal(t, []int{1, 2, 12, 112}, numbers(FilterChapters(chapters, "  ")))
	assert.Equal(t, []int{1, 2, 112}, numbers(FilterChapters(chapters, "AL-")))
	assert.Equal(t, []int{12}, numbers(FilterChapters(chapters, "yusuf")))
	assert.Equal(t, []int{1, 12, 112}, numbers(FilterChapters(chapters, "1")))
	assert.Equal(t, []int{2}, numbers(FilterChapters(chapters, "البَقَرَةِ")))
	assert.Empty(t, FilterChapters(chapters, "zzz"))
}

func TestSections(t *testing.T) {
	s := Sections()
	require.Len(t, s, 30)
	assert.Equal(t, Section{Number: 1, Title: "Juz 1"}, s[0])
	assert.Equal(t, 30, s[29].Number)
}
