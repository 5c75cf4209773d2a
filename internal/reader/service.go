// Package reader assembles chapter and section pages from the corpus API and
// records what the reader opened.
package reader

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"

	"github.com/taiwoajasa245/quran-reader-api/internal/paginate"
	"github.com/taiwoajasa245/quran-reader-api/internal/quran"
	"github.com/taiwoajasa245/quran-reader-api/internal/readingstate"
	"github.com/taiwoajasa245/quran-reader-api/pkg/logger"
)

// Corpus is the subset of the corpus API the reader needs.
type Corpus interface {
	ListChapters(ctx context.Context) ([]quran.Chapter, error)
	GetChapter(ctx context.Context, n int) (quran.Chapter, error)
	GetChapterVerses(ctx context.Context, n int, edition string) (quran.VerseList, error)
	GetSectionVerses(ctx context.Context, n int, edition string) (quran.VerseList, error)
	ListTranslations(ctx context.Context, languages []string) ([]quran.Edition, error)
	Search(ctx context.Context, query, language string) (quran.SearchResult, error)
}

type Service struct {
	corpus    Corpus
	languages []string
	log       *zap.Logger
}

type Options struct {
	// Languages restricts the translation editions offered to readers.
	Languages []string
	Logger    *zap.Logger
}

func NewService(corpus Corpus, opts Options) *Service {
	return &Service{
		corpus:    corpus,
		languages: opts.Languages,
		log:       logger.OrNop(opts.Logger),
	}
}

func bookmarkedSet(ctx context.Context, store *readingstate.Store) map[[2]int]bool {
	set := make(map[[2]int]bool)
	if store == nil {
		return set
	}
	for _, b := range store.Bookmarks(ctx) {
		set[[2]int{b.ChapterNumber, b.VerseNumber}] = true
	}
	return set
}

func buildViews(pairs []paginate.Pair[quran.Verse], chapter int, marks map[[2]int]bool) []VerseView {
	out := make([]VerseView, len(pairs))
	for i, p := range pairs {
		c := chapter
		if p.Verse.Surah != nil {
			c = p.Verse.Surah.Number
		}
		out[i] = VerseView{
			Number:        p.Verse.Number,
			NumberInSurah: p.Verse.NumberInSurah,
			Text:          p.Verse.Text,
			Surah:         p.Verse.Surah,
			Bookmarked:    marks[[2]int{c, p.Verse.NumberInSurah}],
		}
		if p.Translation != nil {
			out[i].Translation = p.Translation.Text
		}
	}
	return out
}

// fetchVerses loads the original-script list and, when translation is set,
// the translated list concurrently with meta. A failed translation is logged
// and dropped so the page still renders.
func (s *Service) fetchVerses(
	ctx context.Context,
	load func(ctx context.Context, edition string) (quran.VerseList, error),
	translation string,
	meta func(ctx context.Context) error,
) (primary, translated []quran.Verse, err error) {
	g, gctx := errgroup.WithContext(ctx)

	if meta != nil {
		g.Go(func() error { return meta(gctx) })
	}
	g.Go(func() error {
		list, err := load(gctx, quran.OriginalEdition)
		if err != nil {
			return err
		}
		primary = list.Verses
		return nil
	})
	if translation != "" {
		g.Go(func() error {
			list, err := load(gctx, translation)
			if err != nil {
				if !errors.Is(err, context.Canceled) {
					s.log.Warn("translation unavailable", zap.String("edition", translation), zap.Error(err))
				}
				return nil
			}
			translated = list.Verses
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return primary, translated, nil
}

// assembleChapter builds the requested page without touching reading state
// beyond reading bookmarks.
func (s *Service) assembleChapter(ctx context.Context, store *readingstate.Store, n, page int, translation string) (*ChapterPage, error) {
	var chapter quran.Chapter
	meta := func(ctx context.Context) error {
		c, err := s.corpus.GetChapter(ctx, n)
		if err != nil {
			return err
		}
		chapter = c
		return nil
	}
	load := func(ctx context.Context, edition string) (quran.VerseList, error) {
		return s.corpus.GetChapterVerses(ctx, n, edition)
	}

	primary, translated, err := s.fetchVerses(ctx, load, translation, meta)
	if err != nil {
		s.log.Warn("chapter fetch failed", zap.Int("chapter", n), zap.String("edition", translation), zap.Error(err))
		return nil, err
	}

	primary, translated = paginate.FilterOpeningFormulaAligned(primary, translated, n)

	total := paginate.TotalPages(len(primary), paginate.PageSize)
	if err := paginate.CheckPage(page, total); err != nil {
		return nil, fmt.Errorf("chapter %d page %d: %w", n, page, err)
	}

	p := paginate.Paginate(primary, page, paginate.PageSize)
	tp := paginate.Paginate(translated, page, paginate.PageSize)

	return &ChapterPage{
		Chapter:            chapter,
		ShowOpeningFormula: n != 1 && n != 9 && page == 1,
		Translation:        translation,
		Page:               page,
		PageSize:           p.Size,
		TotalPages:         p.TotalPages,
		TotalVerses:        p.Total,
		Verses:             buildViews(paginate.Zip(p.Items, tp.Items), n, bookmarkedSet(ctx, store)),
	}, nil
}

// recordVisit remembers the chapter and page. Failures are logged only.
func (s *Service) recordVisit(ctx context.Context, store *readingstate.Store, p *ChapterPage) {
	if store == nil {
		return
	}
	err := store.AddRecentChapter(ctx, readingstate.RecentChapter{
		Number:                 p.Chapter.Number,
		EnglishName:            p.Chapter.EnglishName,
		EnglishNameTranslation: p.Chapter.EnglishNameTranslation,
	})
	if err != nil {
		s.log.Warn("could not record recent chapter", zap.Int("chapter", p.Chapter.Number), zap.Error(err))
	}
	err = store.SetLastRead(ctx, readingstate.LastRead{
		ChapterNumber: p.Chapter.Number,
		ChapterName:   p.Chapter.EnglishName,
		Page:          p.Page,
	})
	if err != nil {
		s.log.Warn("could not record last read", zap.Int("chapter", p.Chapter.Number), zap.Error(err))
	}
}

// ChapterPage returns page of chapter n, paired with translation when set,
// and records the visit in store. store may be nil.
func (s *Service) ChapterPage(ctx context.Context, store *readingstate.Store, n, page int, translation string) (*ChapterPage, error) {
	p, err := s.assembleChapter(ctx, store, n, page, translation)
	if err != nil {
		return nil, err
	}
	s.recordVisit(ctx, store, p)
	return p, nil
}

// SectionPage returns page of section n. Sections keep every verse as
// delivered and leave reading state untouched.
func (s *Service) SectionPage(ctx context.Context, store *readingstate.Store, n, page int, translation string) (*SectionPage, error) {
	load := func(ctx context.Context, edition string) (quran.VerseList, error) {
		return s.corpus.GetSectionVerses(ctx, n, edition)
	}

	primary, translated, err := s.fetchVerses(ctx, load, translation, nil)
	if err != nil {
		s.log.Warn("section fetch failed", zap.Int("section", n), zap.String("edition", translation), zap.Error(err))
		return nil, err
	}

	total := paginate.TotalPages(len(primary), paginate.PageSize)
	if err := paginate.CheckPage(page, total); err != nil {
		return nil, fmt.Errorf("section %d page %d: %w", n, page, err)
	}

	p := paginate.Paginate(primary, page, paginate.PageSize)
	tp := paginate.Paginate(translated, page, paginate.PageSize)

	return &SectionPage{
		Number:      n,
		Translation: translation,
		Page:        page,
		PageSize:    p.Size,
		TotalPages:  p.TotalPages,
		TotalVerses: p.Total,
		Verses:      buildViews(paginate.Zip(p.Items, tp.Items), 0, bookmarkedSet(ctx, store)),
	}, nil
}

// Chapters lists every chapter matching term; see FilterChapters.
func (s *Service) Chapters(ctx context.Context, term string) ([]quran.Chapter, error) {
	all, err := s.corpus.ListChapters(ctx)
	if err != nil {
		s.log.Warn("chapter list fetch failed", zap.Error(err))
		return nil, err
	}
	return FilterChapters(all, term), nil
}

func (s *Service) Translations(ctx context.Context) ([]quran.Edition, error) {
	eds, err := s.corpus.ListTranslations(ctx, s.languages)
	if err != nil {
		s.log.Warn("translation list fetch failed", zap.Error(err))
		return nil, err
	}
	return eds, nil
}

func (s *Service) Search(ctx context.Context, query string) (quran.SearchResult, error) {
	res, err := s.corpus.Search(ctx, query, "en")
	if err != nil {
		s.log.Warn("search failed", zap.String("query", query), zap.Error(err))
		return quran.SearchResult{}, err
	}
	return res, nil
}

// Resume returns where the reader left off, if anywhere.
func (s *Service) Resume(ctx context.Context, store *readingstate.Store) (readingstate.LastRead, bool) {
	if store == nil {
		return readingstate.LastRead{}, false
	}
	return store.LastRead(ctx)
}

// FilterChapters keeps chapters whose English name contains term ignoring
// case, whose original name contains term, or whose number contains term
// as digits. A blank term keeps everything.
func FilterChapters(chapters []quran.Chapter, term string) []quran.Chapter {
	term = strings.TrimSpace(term)
	if term == "" {
		return chapters
	}

	fold := cases.Fold()
	needle := fold.String(term)

	out := make([]quran.Chapter, 0, len(chapters))
	for _, c := range chapters {
		if strings.Contains(fold.String(c.EnglishName), needle) ||
			strings.Contains(c.Name, term) ||
			strings.Contains(strconv.Itoa(c.Number), term) {
			out = append(out, c)
		}
	}
	return out
}

// Sections lists the thirty sections in order.
func Sections() []Section {
	out := make([]Section, quran.SectionCount)
	for i := range out {
		out[i] = Section{Number: i + 1, Title: fmt.Sprintf("Juz %d", i+1)}
	}
	return out
}
