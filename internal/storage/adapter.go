package storage

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/hami-market/storefront/internal/domain"
)

const (
	cartKey  = "cart"
	probeKey = "availability_probe"

	// schemaVersion tags every persisted record. A record carrying any
	// other version is discarded wholesale; no migration is attempted.
	schemaVersion = "1.0"
)

// envelope is the wire format of the persisted cart record.
type envelope struct {
	Items     []domain.CartItem `json:"items"`
	Version   string            `json:"version"`
	Timestamp time.Time         `json:"timestamp"`
}

// Adapter persists the cart through a durable KV store and degrades to
// an in-process store when the durable one is unavailable or rejects a
// write. Once degraded it stays degraded for the rest of the session.
//
// Saves never report failure to the caller; the only observable effect
// of storage trouble is reduced durability.
type Adapter struct {
	mu          sync.Mutex
	durable     KV
	fallback    *MemoryKV
	useFallback bool
}

func NewAdapter(durable KV) *Adapter {
	return &Adapter{
		durable:  durable,
		fallback: NewMemoryKV(),
	}
}

// SaveCart writes the full item list under the fixed cart key. A nil
// list is persisted as an empty one so the record always carries an
// items array.
func (a *Adapter) SaveCart(ctx context.Context, items []domain.CartItem) error {
	if items == nil {
		items = []domain.CartItem{}
	}

	record := envelope{
		Items:     items,
		Version:   schemaVersion,
		Timestamp: time.Now().UTC(),
	}

	data, err := json.Marshal(record)
	if err != nil {
		// Cart items are plain data; this cannot happen with valid state.
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.durableReady(ctx) {
		return a.fallback.Set(ctx, cartKey, data)
	}

	err = a.durable.Set(ctx, cartKey, data)
	if errors.Is(err, ErrQuotaExceeded) {
		// Drop everything we own and retry once before giving up on
		// durable storage.
		log.Printf("storage: quota exceeded, clearing and retrying")
		if clearErr := a.durable.Clear(ctx); clearErr == nil {
			err = a.durable.Set(ctx, cartKey, data)
		}
	}
	if err != nil {
		log.Printf("storage: durable write failed, switching to in-memory fallback: %v", err)
		a.useFallback = true
		return a.fallback.Set(ctx, cartKey, data)
	}

	return nil
}

// LoadCart returns the persisted item list, or nil when no record
// exists, storage is unavailable, or the record fails validation. An
// invalid record is deleted so it cannot be read again.
func (a *Adapter) LoadCart(ctx context.Context) []domain.CartItem {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.durableReady(ctx) {
		return a.decode(ctx, a.fallback)
	}
	return a.decode(ctx, a.durable)
}

func (a *Adapter) decode(ctx context.Context, kv KV) []domain.CartItem {
	data, err := kv.Get(ctx, cartKey)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		log.Printf("storage: read failed: %v", err)
		return nil
	}

	var record envelope
	if err := json.Unmarshal(data, &record); err != nil {
		log.Printf("storage: corrupt cart record, clearing: %v", err)
		a.discard(ctx, kv)
		return nil
	}
	if record.Version != schemaVersion {
		log.Printf("storage: cart record version %q does not match %q, clearing", record.Version, schemaVersion)
		a.discard(ctx, kv)
		return nil
	}
	if record.Items == nil {
		log.Printf("storage: cart record has no items list, clearing")
		a.discard(ctx, kv)
		return nil
	}

	return record.Items
}

func (a *Adapter) discard(ctx context.Context, kv KV) {
	if err := kv.Delete(ctx, cartKey); err != nil {
		log.Printf("storage: failed to clear invalid cart record: %v", err)
	}
}

// ClearCart removes the persisted record entirely.
func (a *Adapter) ClearCart(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.durableReady(ctx) {
		return a.fallback.Delete(ctx, cartKey)
	}
	return a.durable.Delete(ctx, cartKey)
}

// StorageSize reports the serialized byte length of the current record,
// 0 when there is none.
func (a *Adapter) StorageSize(ctx context.Context) int {
	a.mu.Lock()
	defer a.mu.Unlock()

	kv := KV(a.durable)
	if !a.durableReady(ctx) {
		kv = a.fallback
	}

	data, err := kv.Get(ctx, cartKey)
	if err != nil {
		return 0
	}
	return len(data)
}

// UsingFallback reports whether the adapter has degraded to in-process
// storage for this session.
func (a *Adapter) UsingFallback() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.useFallback
}

// durableReady probes the durable store with a write/delete pair and
// latches the fallback on the first failure. Callers must hold a.mu.
func (a *Adapter) durableReady(ctx context.Context) bool {
	if a.useFallback {
		return false
	}

	err := a.durable.Set(ctx, probeKey, []byte("probe"))
	if errors.Is(err, ErrQuotaExceeded) {
		// The store is reachable, just full. The save path owns the
		// clear-and-retry handling for that case.
		return true
	}
	if err != nil {
		log.Printf("storage: durable store unavailable, switching to in-memory fallback: %v", err)
		a.useFallback = true
		return false
	}
	if err := a.durable.Delete(ctx, probeKey); err != nil {
		log.Printf("storage: durable store unavailable, switching to in-memory fallback: %v", err)
		a.useFallback = true
		return false
	}
	return true
}
