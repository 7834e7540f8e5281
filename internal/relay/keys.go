package relay

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pagegen/pagegen/internal/provider"
)

// ErrNoKeysAvailable is returned when a provider's pool is empty or every
// key is cooling down.
var ErrNoKeysAvailable = errors.New("no upstream keys available")

// KeyPool is a thread-safe round-robin rotation over one provider's
// upstream keys with a circuit breaker: keys that fail are benched for a
// cooldown period and revived automatically.
type KeyPool struct {
	keys     []string
	benched  map[string]time.Time
	index    int64
	mu       sync.RWMutex
	benchMu  sync.RWMutex
	cooldown time.Duration
	known    map[string]struct{}
}

// NewKeyPool builds a pool over the given keys. Duplicates and empty
// entries are dropped. A zero cooldown disables automatic revival.
func NewKeyPool(keys []string, cooldown time.Duration) *KeyPool {
	p := &KeyPool{
		keys:     make([]string, 0, len(keys)),
		benched:  make(map[string]time.Time),
		cooldown: cooldown,
		known:    make(map[string]struct{}),
	}
	for _, key := range keys {
		if key == "" {
			continue
		}
		if _, seen := p.known[key]; !seen {
			p.known[key] = struct{}{}
			p.keys = append(p.keys, key)
		}
	}
	return p
}

// Next returns the next key in rotation, reviving any keys whose cooldown
// has expired first.
func (p *KeyPool) Next() (string, error) {
	p.reviveExpired()

	p.mu.RLock()
	defer p.mu.RUnlock()
	if len(p.keys) == 0 {
		return "", ErrNoKeysAvailable
	}
	idx := atomic.AddInt64(&p.index, 1)
	return p.keys[int((idx-1)%int64(len(p.keys)))], nil
}

// Bench takes a key out of rotation for the cooldown period.
func (p *KeyPool) Bench(key string) {
	if key == "" {
		return
	}
	if _, managed := p.known[key]; !managed {
		return
	}

	p.benchMu.Lock()
	p.benched[key] = time.Now()
	p.benchMu.Unlock()

	p.mu.Lock()
	defer p.mu.Unlock()
	kept := make([]string, 0, len(p.keys))
	for _, k := range p.keys {
		if k != key {
			kept = append(kept, k)
		}
	}
	p.keys = kept
}

// Revive puts a benched key back into rotation.
func (p *KeyPool) Revive(key string) {
	if _, managed := p.known[key]; !managed {
		return
	}

	p.benchMu.Lock()
	_, wasBenched := p.benched[key]
	delete(p.benched, key)
	p.benchMu.Unlock()
	if !wasBenched {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	for _, k := range p.keys {
		if k == key {
			return
		}
	}
	p.keys = append(p.keys, key)
}

func (p *KeyPool) reviveExpired() {
	if p.cooldown == 0 {
		return
	}
	now := time.Now()
	var expired []string
	p.benchMu.RLock()
	for key, at := range p.benched {
		if now.Sub(at) >= p.cooldown {
			expired = append(expired, key)
		}
	}
	p.benchMu.RUnlock()
	for _, key := range expired {
		p.Revive(key)
	}
}

// ActiveCount returns the number of keys currently in rotation.
func (p *KeyPool) ActiveCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.keys)
}

// BenchedCount returns the number of keys currently cooling down.
func (p *KeyPool) BenchedCount() int {
	p.benchMu.RLock()
	defer p.benchMu.RUnlock()
	return len(p.benched)
}

// TotalCount returns the number of managed keys.
func (p *KeyPool) TotalCount() int { return len(p.known) }

// PoolSet holds one KeyPool per configured provider.
type PoolSet struct {
	pools map[provider.ID]*KeyPool
}

// NewPoolSet builds pools from the configured provider keys.
func NewPoolSet(keys map[provider.ID][]string, cooldown time.Duration) *PoolSet {
	ps := &PoolSet{pools: make(map[provider.ID]*KeyPool, len(keys))}
	for id, ks := range keys {
		ps.pools[id] = NewKeyPool(ks, cooldown)
	}
	return ps
}

// Pool returns the pool for a provider.
func (ps *PoolSet) Pool(id provider.ID) (*KeyPool, bool) {
	p, ok := ps.pools[id]
	return p, ok
}

// Providers lists the providers that have at least one managed key.
func (ps *PoolSet) Providers() []provider.ID {
	out := make([]provider.ID, 0, len(ps.pools))
	for id := range ps.pools {
		out = append(out, id)
	}
	return out
}

// Counts reports active and benched totals across all pools.
func (ps *PoolSet) Counts() (active, benched int) {
	for _, p := range ps.pools {
		active += p.ActiveCount()
		benched += p.BenchedCount()
	}
	return active, benched
}
