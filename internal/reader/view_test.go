package reader

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/taiwoajasa245/quran-reader-api/internal/quran"
	"github.com/taiwoajasa245/quran-reader-api/internal/readingstate"
)

// fakeCorpus serves chapters of ten verses from memory. When gate is set,
// verse loads for gatedChapter block until the gate closes; honourCtx
// decides whether they give up on cancellation.
type fakeCorpus struct {
	mu           sync.Mutex
	gate         chan struct{}
	gatedChapter int
	honourCtx    bool
	started      chan struct{}

	chapterLists int
	editionLists int
}

func (f *fakeCorpus) ListChapters(context.Context) ([]quran.Chapter, error) {
	f.mu.Lock()
	f.chapterLists++
	f.mu.Unlock()
	return []quran.Chapter{{Number: 1, EnglishName: "Al-Faatiha"}}, nil
}

func (f *fakeCorpus) GetChapter(_ context.Context, n int) (quran.Chapter, error) {
	return quran.Chapter{Number: n, EnglishName: fmt.Sprintf("Chapter %d", n)}, nil
}

func (f *fakeCorpus) GetChapterVerses(ctx context.Context, n int, edition string) (quran.VerseList, error) {
	if f.gate != nil && n == f.gatedChapter && edition == quran.OriginalEdition {
		if f.started != nil {
			close(f.started)
		}
		if f.honourCtx {
			select {
			case <-f.gate:
			case <-ctx.Done():
				return quran.VerseList{}, ctx.Err()
			}
		} else {
			<-f.gate
		}
	}
	verses := make([]quran.Verse, 10)
	for i := range verses {
		verses[i] = quran.Verse{Number: n*100 + i + 1, NumberInSurah: i + 1, Text: fmt.Sprintf("%s %d:%d", edition, n, i+1)}
	}
	return quran.VerseList{Number: n, Verses: verses}, nil
}

func (f *fakeCorpus) GetSectionVerses(context.Context, int, string) (quran.VerseList, error) {
	return quran.VerseList{Verses: []quran.Verse{}}, nil
}

func (f *fakeCorpus) ListTranslations(context.Context, []string) ([]quran.Edition, error) {
	f.mu.Lock()
	f.editionLists++
	f.mu.Unlock()
	return []quran.Edition{{Identifier: "en.sahih", Language: "en"}}, nil
}

func (f *fakeCorpus) Search(context.Context, string, string) (quran.SearchResult, error) {
	return quran.SearchResult{Matches: []quran.SearchMatch{}}, nil
}

func TestViewLoad(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx := context.Background()

	store := readingstate.NewStore(readingstate.NewMemoryKV(), "", nil)
	view := NewView(NewService(&fakeCorpus{}, Options{}), store)
	assert.Nil(t, view.Current())

	p, err := view.Load(ctx, 3, 1, "")
	require.NoError(t, err)
	assert.Same(t, p, view.Current())
	assert.Len(t, p.Verses, 10)

	p, err = view.SelectTranslation(ctx, "en.sahih")
	require.NoError(t, err)
	assert.Equal(t, "en.sahih 3:1", p.Verses[0].Translation)

	_, err = view.GoToPage(ctx, 2)
	assert.Error(t, err)
	assert.Same(t, p, view.Current())

	last, ok := store.LastRead(ctx)
	require.True(t, ok)
	assert.Equal(t, 3, last.ChapterNumber)
}

func TestViewBeforeLoad(t *testing.T) {
	view := NewView(NewService(&fakeCorpus{}, Options{}), nil)

	_, err := view.SelectTranslation(context.Background(), "en.sahih")
	assert.Error(t, err)
	_, err = view.GoToPage(context.Background(), 1)
	assert.Error(t, err)
}

func TestViewDiscardsStaleResults(t *testing.T) {
	for _, honourCtx := range []bool{true, false} {
		t.Run(fmt.Sprintf("honourCtx=%v", honourCtx), func(t *testing.T) {
			defer goleak.VerifyNone(t)
			ctx := context.Background()

			corpus := &fakeCorpus{
				gate:         make(chan struct{}),
				gatedChapter: 2,
				honourCtx:    honourCtx,
				started:      make(chan struct{}),
			}
			store := readingstate.NewStore(readingstate.NewMemoryKV(), "", nil)
			view := NewView(NewService(corpus, Options{}), store)

			type result struct {
				page *ChapterPage
				err  error
			}
			slow := make(chan result, 1)
			go func() {
				p, err := view.Load(ctx, 2, 1, "")
				slow <- result{p, err}
			}()
			<-corpus.started

			fresh, err := view.Load(ctx, 5, 1, "")
			require.NoError(t, err)

			close(corpus.gate)
			select {
			case r := <-slow:
				assert.ErrorIs(t, r.err, ErrStale)
				assert.Nil(t, r.page)
			case <-time.After(5 * time.Second):
				t.Fatal("stale load never returned")
			}

			assert.Same(t, fresh, view.Current())
			last, ok := store.LastRead(ctx)
			require.True(t, ok)
			assert.Equal(t, 5, last.ChapterNumber)

			recent := store.RecentChapters(ctx)
			require.Len(t, recent, 1)
			assert.Equal(t, 5, recent[0].Number)
		})
	}
}

func TestViewClose(t *testing.T) {
	defer goleak.VerifyNone(t)

	corpus := &fakeCorpus{gate: make(chan struct{}), gatedChapter: 7, honourCtx: true, started: make(chan struct{})}
	view := NewView(NewService(corpus, Options{}), nil)

	done := make(chan error, 1)
	go func() {
		_, err := view.Load(context.Background(), 7, 1, "")
		done <- err
	}()
	<-corpus.started
	view.Close()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrStale)
	case <-time.After(5 * time.Second):
		t.Fatal("load did not observe cancellation")
	}
	assert.Nil(t, view.Current())
}
