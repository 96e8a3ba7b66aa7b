package cart

import (
	"context"
	"errors"
	"testing"
	"time"

	"brewhaven-site/internal/domain"
)

func TestProviderReturnsSameEnginePerOwner(t *testing.T) {
	p := NewProvider(newStubStore(), nil)
	owner := domain.SessionOwner("s1")

	first, err := p.Engine(context.Background(), owner)
	if err != nil {
		t.Fatalf("Engine: %v", err)
	}
	second, err := p.Engine(context.Background(), owner)
	if err != nil {
		t.Fatalf("Engine: %v", err)
	}
	if first != second {
		t.Fatalf("expected the same engine instance")
	}

	other, err := p.Engine(context.Background(), domain.UserOwner("u1"))
	if err != nil {
		t.Fatalf("Engine: %v", err)
	}
	if other == first {
		t.Fatalf("expected distinct engines per owner")
	}
}

func TestProviderRequiresOwner(t *testing.T) {
	p := NewProvider(newStubStore(), nil)
	if _, err := p.Engine(context.Background(), domain.Owner{}); err == nil {
		t.Fatalf("expected error for unresolved owner")
	}
}

func TestProviderFailedInitialLoadNotCached(t *testing.T) {
	store := newStubStore()
	store.listErr = errors.New("store down")
	p := NewProvider(store, nil)
	owner := domain.SessionOwner("s1")

	if _, err := p.Engine(context.Background(), owner); err == nil {
		t.Fatalf("expected load error")
	}

	store.listErr = nil
	store.rows[owner.Key()] = []domain.CartLineItem{{ID: "a1", Name: "Latte", Price: 4.75, Quantity: 1}}
	eng, err := p.Engine(context.Background(), owner)
	if err != nil {
		t.Fatalf("Engine after store recovery: %v", err)
	}
	if len(eng.Items()) != 1 {
		t.Fatalf("expected the retried load to succeed, got %+v", eng.Items())
	}
}

func TestProviderClosedFailsFast(t *testing.T) {
	p := NewProvider(newStubStore(), nil)
	owner := domain.SessionOwner("s1")
	if _, err := p.Engine(context.Background(), owner); err != nil {
		t.Fatalf("Engine: %v", err)
	}

	p.Close()

	if _, err := p.Engine(context.Background(), owner); !errors.Is(err, ErrProviderClosed) {
		t.Fatalf("expected ErrProviderClosed, got %v", err)
	}
	if err := p.Refresh(context.Background(), owner); !errors.Is(err, ErrProviderClosed) {
		t.Fatalf("expected ErrProviderClosed from Refresh, got %v", err)
	}
}

func TestProviderRefreshUnknownOwnerIsNoop(t *testing.T) {
	p := NewProvider(newStubStore(), nil)
	if err := p.Refresh(context.Background(), domain.UserOwner("u1")); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
}

func TestProviderEvictsIdleEngines(t *testing.T) {
	p := NewProvider(newStubStore(), nil)
	idle := domain.SessionOwner("drive-by")
	active := domain.UserOwner("regular")

	first, err := p.Engine(context.Background(), idle)
	if err != nil {
		t.Fatalf("Engine: %v", err)
	}
	if _, err := p.Engine(context.Background(), active); err != nil {
		t.Fatalf("Engine: %v", err)
	}

	p.mu.Lock()
	p.engines[idle.Key()].lastSeen = time.Now().Add(-p.ttl - time.Minute)
	p.mu.Unlock()

	// any access sweeps idle entries
	if _, err := p.Engine(context.Background(), active); err != nil {
		t.Fatalf("Engine: %v", err)
	}

	p.mu.Lock()
	cached := len(p.engines)
	p.mu.Unlock()
	if cached != 1 {
		t.Fatalf("expected the idle engine evicted, %d cached", cached)
	}

	rebuilt, err := p.Engine(context.Background(), idle)
	if err != nil {
		t.Fatalf("Engine after eviction: %v", err)
	}
	if rebuilt == first {
		t.Fatalf("expected a fresh engine after eviction")
	}
}

func TestProviderActiveEngineNotEvicted(t *testing.T) {
	p := NewProvider(newStubStore(), nil)
	owner := domain.SessionOwner("s1")

	first, err := p.Engine(context.Background(), owner)
	if err != nil {
		t.Fatalf("Engine: %v", err)
	}

	// repeated access keeps refreshing lastSeen, so nothing ages out
	for i := 0; i < 3; i++ {
		again, err := p.Engine(context.Background(), owner)
		if err != nil {
			t.Fatalf("Engine: %v", err)
		}
		if again != first {
			t.Fatalf("expected the cached engine to survive access")
		}
	}
}

func TestProviderWatchReloadsOnIdentityChange(t *testing.T) {
	store := newStubStore()
	owner := domain.UserOwner("u1")
	p := NewProvider(store, nil)

	eng, err := p.Engine(context.Background(), owner)
	if err != nil {
		t.Fatalf("Engine: %v", err)
	}
	if len(eng.Items()) != 0 {
		t.Fatalf("expected empty cart")
	}

	// rows appear in the store (e.g. a sign-in on another device), then a
	// change notification arrives
	store.rows[owner.Key()] = []domain.CartLineItem{{ID: "r1", Name: "Latte", Price: 4.75, Quantity: 1}}

	ch := make(chan domain.Owner)
	done := make(chan struct{})
	go func() {
		p.Watch(ch)
		close(done)
	}()
	ch <- owner
	close(ch)
	<-done

	if len(eng.Items()) != 1 {
		t.Fatalf("expected reloaded cart, got %+v", eng.Items())
	}
}
