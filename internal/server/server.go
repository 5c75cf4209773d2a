package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/taiwoajasa245/quran-reader-api/internal/database"
	"github.com/taiwoajasa245/quran-reader-api/internal/quran"
	"github.com/taiwoajasa245/quran-reader-api/internal/reader"
	"github.com/taiwoajasa245/quran-reader-api/internal/readingstate"
	"github.com/taiwoajasa245/quran-reader-api/pkg/config"
	"github.com/taiwoajasa245/quran-reader-api/pkg/logger"
)

// storeIdle is how long a device's store stays in the registry unused.
const storeIdle = 30 * time.Minute

type Server struct {
	port     string
	cfg      *config.Config
	log      *zap.Logger
	handler  http.Handler
	db       database.Service
	redis    *redis.Client
	service  *reader.Service
	registry *readingstate.Registry
	cancel   context.CancelFunc
}

// NewServer wires the corpus client, reading service and the reading-state
// backend selected by STATE_BACKEND.
func NewServer(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Server, error) {
	log = logger.OrNop(log)

	client := quran.New(quran.Options{
		BaseURL:  cfg.QuranAPIBase,
		Timeout:  cfg.QuranAPITimeout,
		CacheTTL: cfg.QuranCacheTTL,
		Logger:   log.Named("quran"),
	})

	s := &Server{port: cfg.Port, cfg: cfg, log: log}

	kv, err := s.openState(ctx)
	if err != nil {
		s.Close()
		return nil, err
	}

	s.build(client, kv)
	return s, nil
}

func (s *Server) build(corpus reader.Corpus, kv readingstate.KV) {
	s.service = reader.NewService(corpus, reader.Options{
		Languages: s.cfg.TranslationLanguages,
		Logger:    s.log.Named("reader"),
	})
	s.registry = readingstate.NewRegistry(kv, storeIdle, s.log.Named("readingstate"))
	s.handler = s.RegisterRoutes()
}

func (s *Server) openState(ctx context.Context) (readingstate.KV, error) {
	switch s.cfg.StateBackend {
	case "postgres":
		db, err := database.New(s.cfg)
		if err != nil {
			return nil, err
		}
		s.db = db

		stats := db.Health()
		if stats["status"] != "up" {
			return nil, fmt.Errorf("database unavailable: %s", stats["error"])
		}
		if err := db.Migrate(ctx); err != nil {
			return nil, err
		}
		s.log.Info("database connection successful", zap.String("host", s.cfg.DBHost))
		return readingstate.NewPostgresKV(db), nil

	case "redis":
		s.redis = readingstate.NewRedisClient(s.cfg.RedisAddr, s.cfg.RedisPassword, s.cfg.RedisDB)
		if err := s.redis.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("redis unavailable: %w", err)
		}
		s.log.Info("redis connection successful", zap.String("addr", s.cfg.RedisAddr))
		return readingstate.NewRedisKV(s.redis), nil

	case "file":
		path := s.cfg.StateFile
		if path == "" {
			dir, err := os.UserConfigDir()
			if err != nil {
				return nil, fmt.Errorf("locate state file: %w", err)
			}
			path = filepath.Join(dir, "quran-reader", "state.json")
		}
		kv, err := readingstate.OpenFileKV(path)
		if err != nil {
			return nil, err
		}
		s.log.Info("reading state file opened", zap.String("path", kv.Path()))
		return kv, nil

	default:
		return readingstate.NewMemoryKV(), nil
	}
}

// HTTPServer returns the actual *http.Server instance
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%s", s.port),
		Handler:      s.handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// StartBackgroundJobs runs scheduled jobs
func (s *Server) StartBackgroundJobs() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	go s.service.StartScheduler(ctx, s.cfg.IndexRefreshInterval)
}

func (s *Server) StopBackgroundJobs() {
	if s.cancel != nil {
		s.cancel()
		s.log.Info("background jobs stopped")
	}
}

// Close releases the reading-state backend.
func (s *Server) Close() error {
	var errs []error
	if s.db != nil {
		errs = append(errs, s.db.Close())
	}
	if s.redis != nil {
		errs = append(errs, s.redis.Close())
	}
	return errors.Join(errs...)
}
