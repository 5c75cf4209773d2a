// Package readingstate keeps a reader's bookmarks, recently opened chapters
// and last-read position on top of a pluggable KV.
//
// Reads fail open: a missing, unreadable or malformed entry is reported as
// empty and never as an error. Every write serializes and persists the whole
// collection once.
package readingstate

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/taiwoajasa245/quran-reader-api/pkg/logger"
)

type Store struct {
	kv     KV
	prefix string
	log    *zap.Logger
	now    func() time.Time

	// mu serializes read-modify-write cycles on this store's collections.
	// A Registry shares it between stores of the same device.
	mu *sync.Mutex
}

type Option func(*Store)

// WithClock replaces time.Now for bookmark timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func withLock(mu *sync.Mutex) Option {
	return func(s *Store) { s.mu = mu }
}

// NewStore returns a store whose keys live under device. An empty device
// uses the bare key names.
func NewStore(kv KV, device string, log *zap.Logger, opts ...Option) *Store {
	s := &Store{
		kv:  kv,
		log: logger.OrNop(log),
		now: time.Now,
		mu:  new(sync.Mutex),
	}
	if device != "" {
		s.prefix = device + ":"
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) key(name string) string {
	return s.prefix + name
}

// load decodes key into dst and reports whether a usable value was found.
func (s *Store) load(ctx context.Context, name string, dst any) bool {
	raw, err := s.kv.Get(ctx, s.key(name))
	if err != nil {
		if !errors.Is(err, ErrKeyNotFound) {
			s.log.Warn("reading state unavailable", zap.String("key", s.key(name)), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		s.log.Warn("discarding malformed reading state", zap.String("key", s.key(name)), zap.Error(err))
		return false
	}
	return true
}

func (s *Store) save(ctx context.Context, name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, s.key(name), string(data))
}

func (s *Store) bookmarks(ctx context.Context) []Bookmark {
	var list []Bookmark
	if !s.load(ctx, KeyBookmarks, &list) || list == nil {
		return []Bookmark{}
	}
	if len(list) > MaxBookmarks {
		list = list[:MaxBookmarks]
	}
	return list
}

func (s *Store) recentChapters(ctx context.Context) []RecentChapter {
	var list []RecentChapter
	if !s.load(ctx, KeyRecentChapters, &list) || list == nil {
		return []RecentChapter{}
	}
	if len(list) > MaxRecentChapters {
		list = list[:MaxRecentChapters]
	}
	return list
}

// Bookmarks returns the saved bookmarks, newest first.
func (s *Store) Bookmarks(ctx context.Context) []Bookmark {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bookmarks(ctx)
}

// AddBookmark prepends b unless a bookmark for the same chapter and verse
// already exists. The verse text is cut to an excerpt and a zero timestamp is
// filled in. It reports whether the list changed.
func (s *Store) AddBookmark(ctx context.Context, b Bookmark) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.bookmarks(ctx)
	for _, existing := range list {
		if existing.matches(b.ChapterNumber, b.VerseNumber) {
			return false, nil
		}
	}

	b.VerseText = Excerpt(b.VerseText)
	if b.Timestamp.IsZero() {
		b.Timestamp = s.now().UTC()
	}

	list = append([]Bookmark{b}, list...)
	if len(list) > MaxBookmarks {
		list = list[:MaxBookmarks]
	}
	if err := s.save(ctx, KeyBookmarks, list); err != nil {
		return false, err
	}
	return true, nil
}

// RemoveBookmark drops the bookmark for chapter and verse, if any.
func (s *Store) RemoveBookmark(ctx context.Context, chapter, verse int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.bookmarks(ctx)
	kept := make([]Bookmark, 0, len(list))
	for _, b := range list {
		if !b.matches(chapter, verse) {
			kept = append(kept, b)
		}
	}
	return s.save(ctx, KeyBookmarks, kept)
}

func (s *Store) IsBookmarked(ctx context.Context, chapter, verse int) bool {
	for _, b := range s.Bookmarks(ctx) {
		if b.matches(chapter, verse) {
			return true
		}
	}
	return false
}

// RecentChapters returns recently opened chapters, most recent first.
func (s *Store) RecentChapters(ctx context.Context) []RecentChapter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recentChapters(ctx)
}

// AddRecentChapter moves c to the front, replacing any entry with the same
// number.
func (s *Store) AddRecentChapter(ctx context.Context, c RecentChapter) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.recentChapters(ctx)
	next := make([]RecentChapter, 0, len(list)+1)
	next = append(next, c)
	for _, existing := range list {
		if existing.Number != c.Number {
			next = append(next, existing)
		}
	}
	if len(next) > MaxRecentChapters {
		next = next[:MaxRecentChapters]
	}
	return s.save(ctx, KeyRecentChapters, next)
}

// LastRead returns the saved position. ok is false when there is no prior
// session or the entry cannot be decoded.
func (s *Store) LastRead(ctx context.Context) (p LastRead, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ptr *LastRead
	if !s.load(ctx, KeyLastRead, &ptr) || ptr == nil {
		return LastRead{}, false
	}
	return *ptr, true
}

func (s *Store) SetLastRead(ctx context.Context, p LastRead) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, KeyLastRead, p)
}
