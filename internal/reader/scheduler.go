package reader

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// StartScheduler keeps the chapter index and translation list warm in the
// corpus cache. It refreshes once immediately, then every interval, until ctx
// is done.
func (s *Service) StartScheduler(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.log.Info("index scheduler started", zap.Duration("interval", interval))
	s.refreshIndex(ctx)

	for {
		select {
		case <-ctx.Done():
			s.log.Info("index scheduler stopped")
			return
		case <-ticker.C:
			s.refreshIndex(ctx)
		}
	}
}

func (s *Service) refreshIndex(ctx context.Context) {
	chapters, err := s.corpus.ListChapters(ctx)
	if err != nil {
		s.log.Warn("failed to refresh chapter index", zap.Error(err))
	} else {
		s.log.Debug("chapter index refreshed", zap.Int("chapters", len(chapters)))
	}

	eds, err := s.corpus.ListTranslations(ctx, s.languages)
	if err != nil {
		s.log.Warn("failed to refresh translations", zap.Error(err))
		return
	}
	s.log.Debug("translations refreshed", zap.Int("editions", len(eds)))
}
