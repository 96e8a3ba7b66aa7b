package cart

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"time"

	"brewhaven-site/internal/domain"
)

// ErrProviderClosed is returned when the provider is used after Close. Doing
// so is a programming error in the caller, not a recoverable condition.
var ErrProviderClosed = errors.New("cart provider is closed")

// Engines idle longer than this are dropped from the cache. Their rows stay
// in the store; the owner's next request rebuilds the engine from them.
const engineIdleTTL = 30 * time.Minute

type engineEntry struct {
	engine   *Engine
	lastSeen time.Time
}

// Provider hands out one Engine per owner identity. It is constructed once
// per process and passed explicitly to whatever needs cart access. Idle
// engines are evicted so that one-off visitors who never return do not pin
// memory.
type Provider struct {
	store  Store
	logger *log.Logger
	ttl    time.Duration

	mu      sync.Mutex
	engines map[string]*engineEntry
	closed  bool
}

// NewProvider builds a Provider over the given store.
func NewProvider(store Store, logger *log.Logger) *Provider {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Provider{
		store:   store,
		logger:  logger,
		ttl:     engineIdleTTL,
		engines: make(map[string]*engineEntry),
	}
}

// Engine returns the engine for the given owner, building and loading it on
// first access. A failed initial load is not cached, so the next call
// retries it.
func (p *Provider) Engine(ctx context.Context, owner domain.Owner) (*Engine, error) {
	if owner.IsZero() {
		return nil, errors.New("owner identity required")
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrProviderClosed
	}
	now := time.Now()
	p.evictIdleLocked(now)
	if entry, ok := p.engines[owner.Key()]; ok {
		entry.lastSeen = now
		p.mu.Unlock()
		return entry.engine, nil
	}
	p.mu.Unlock()

	eng := NewEngine(p.store, owner, p.logger)
	if err := eng.Load(ctx); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil, ErrProviderClosed
	}
	if existing, ok := p.engines[owner.Key()]; ok {
		existing.lastSeen = time.Now()
		return existing.engine, nil
	}
	p.engines[owner.Key()] = &engineEntry{engine: eng, lastSeen: time.Now()}
	return eng, nil
}

// evictIdleLocked drops entries whose last access is older than the idle
// TTL. The caller must hold p.mu.
func (p *Provider) evictIdleLocked(now time.Time) {
	for key, entry := range p.engines {
		if now.Sub(entry.lastSeen) > p.ttl {
			delete(p.engines, key)
		}
	}
}

// Refresh re-runs Load on the owner's engine, if one exists. Owners that
// never touched their cart have nothing to reload.
func (p *Provider) Refresh(ctx context.Context, owner domain.Owner) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrProviderClosed
	}
	entry := p.engines[owner.Key()]
	if entry != nil {
		entry.lastSeen = time.Now()
	}
	p.mu.Unlock()

	if entry == nil {
		return nil
	}
	return entry.engine.Load(ctx)
}

// Watch consumes identity-change notifications and reloads the affected
// owner's cart for each one. It returns when ch is closed.
func (p *Provider) Watch(ch <-chan domain.Owner) {
	for owner := range ch {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := p.Refresh(ctx, owner); err != nil {
			if errors.Is(err, ErrProviderClosed) {
				cancel()
				return
			}
			p.logger.Printf("reload cart for %s: %v", owner.Key(), err)
		}
		cancel()
	}
}

// Close invalidates the provider. Any later access fails with
// ErrProviderClosed.
func (p *Provider) Close() {
	p.mu.Lock()
	p.closed = true
	p.engines = nil
	p.mu.Unlock()
}
