package readingstate

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/taiwoajasa245/quran-reader-api/internal/device"
	"github.com/taiwoajasa245/quran-reader-api/pkg/logger"
)

var ErrNoDevice = errors.New("readingstate: no device id on request")

// lockStripes bounds the number of mutexes shared by every device.
const lockStripes = 64

// Registry hands out one Store per device. Idle stores are evicted; their
// data stays in the KV. Locks are striped by device id rather than owned by
// the cached Store, so a store rebuilt after eviction still serializes with
// one a request is holding.
type Registry struct {
	kv     KV
	log    *zap.Logger
	stores *cache.Cache
	opts   []Option
	locks  [lockStripes]sync.Mutex
}

func NewRegistry(kv KV, idle time.Duration, log *zap.Logger, opts ...Option) *Registry {
	return &Registry{
		kv:     kv,
		log:    logger.OrNop(log),
		stores: cache.New(idle, 2*idle),
		opts:   opts,
	}
}

// For returns the store for device, creating it on first use.
func (r *Registry) For(device string) *Store {
	if s, ok := r.stores.Get(device); ok {
		r.stores.SetDefault(device, s)
		return s.(*Store)
	}

	opts := append([]Option{withLock(r.lockFor(device))}, r.opts...)
	s := NewStore(r.kv, device, r.log.With(zap.String("device", device)), opts...)
	if err := r.stores.Add(device, s, cache.DefaultExpiration); err != nil {
		// Lost a race with another request for the same device.
		if existing, ok := r.stores.Get(device); ok {
			return existing.(*Store)
		}
	}
	return s
}

func (r *Registry) lockFor(device string) *sync.Mutex {
	return &r.locks[xxhash.Sum64String(device)%lockStripes]
}

// FromRequest returns the store for the device id set by device.Middleware.
func (r *Registry) FromRequest(req *http.Request) (*Store, error) {
	id, ok := device.IDFromContext(req)
	if !ok {
		return nil, ErrNoDevice
	}
	return r.For(id), nil
}
