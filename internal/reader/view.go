package reader

import (
	"context"
	"errors"
	"sync"

	"github.com/taiwoajasa245/quran-reader-api/internal/readingstate"
)

// ErrStale is returned by View loads that were superseded by a newer load
// before they finished.
var ErrStale = errors.New("superseded by a newer request")

// View is the chapter a single reader is looking at. Each load takes a new
// request token and cancels the load it replaces; only the holder of the
// latest token may update the view or the reading state.
type View struct {
	svc   *Service
	store *readingstate.Store

	mu          sync.Mutex
	token       uint64
	cancel      context.CancelFunc
	current     *ChapterPage
	chapter     int
	translation string
}

func NewView(svc *Service, store *readingstate.Store) *View {
	return &View{svc: svc, store: store}
}

func (v *View) begin(ctx context.Context) (context.Context, uint64) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.cancel != nil {
		v.cancel()
	}
	v.token++
	ctx, v.cancel = context.WithCancel(ctx)
	return ctx, v.token
}

// commit installs p and records the visit if token is still current. The
// lock is held across the store writes so an older load can never write
// reading state after a newer one.
func (v *View) commit(ctx context.Context, token uint64, p *ChapterPage) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if token != v.token {
		return false
	}
	v.current = p
	v.chapter = p.Chapter.Number
	v.translation = p.Translation
	v.cancel()
	v.cancel = nil

	v.svc.recordVisit(ctx, v.store, p)
	return true
}

// Load fetches page of chapter n. A load overtaken by a later Load,
// SelectTranslation or GoToPage returns ErrStale and changes nothing.
func (v *View) Load(ctx context.Context, n, page int, translation string) (*ChapterPage, error) {
	loadCtx, token := v.begin(ctx)

	p, err := v.svc.assembleChapter(loadCtx, v.store, n, page, translation)
	if err != nil {
		v.mu.Lock()
		stale := token != v.token
		if !stale && v.cancel != nil {
			v.cancel()
			v.cancel = nil
		}
		v.mu.Unlock()
		if stale {
			return nil, ErrStale
		}
		return nil, err
	}

	if !v.commit(ctx, token, p) {
		return nil, ErrStale
	}
	return p, nil
}

// SelectTranslation reloads the current chapter and page with another
// edition. An empty edition shows the original script only.
func (v *View) SelectTranslation(ctx context.Context, edition string) (*ChapterPage, error) {
	v.mu.Lock()
	cur := v.current
	v.mu.Unlock()
	if cur == nil {
		return nil, errors.New("no chapter loaded")
	}
	return v.Load(ctx, cur.Chapter.Number, cur.Page, edition)
}

// GoToPage moves the current chapter to page, keeping the translation.
func (v *View) GoToPage(ctx context.Context, page int) (*ChapterPage, error) {
	v.mu.Lock()
	chapter, translation := v.chapter, v.translation
	v.mu.Unlock()
	if chapter == 0 {
		return nil, errors.New("no chapter loaded")
	}
	return v.Load(ctx, chapter, page, translation)
}

// Current returns the page on display, or nil before the first load.
func (v *View) Current() *ChapterPage {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current
}

// Close cancels any load in flight.
func (v *View) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	v.token++
}
