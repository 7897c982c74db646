// Package memory implements the store interface in process memory. Data is lost on exit.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/BaR488/Raiblocks.Api/lib/store"
)

// Memory holds both repositories.
type Memory struct {
	obs  *Observations
	bals *Balances
}

// New returns an empty in-memory database.
func New() *Memory {
	return &Memory{
		obs:  &Observations{m: make(map[string]store.Observation)},
		bals: &Balances{m: make(map[string]store.AddressBalance)},
	}
}

// Observations implements store.DB.
func (m *Memory) Observations() store.ObservationRepository { return m.obs }

// Balances implements store.DB.
func (m *Memory) Balances() store.BalanceRepository { return m.bals }

// Close implements store.DB.
func (m *Memory) Close(context.Context) error { return nil }

// page sorts keys and returns up to take of them after the address encoded in continuation.
func page(keys []string, take int, continuation string) (next string, out []string, err error) {
	after, err := store.CheckPage(take, continuation)
	if err != nil {
		return "", nil, err
	}

	sort.Strings(keys)
	i := sort.SearchStrings(keys, after)
	if i < len(keys) && keys[i] == after {
		i++
	}
	keys = keys[i:]

	if len(keys) > take {
		keys = keys[:take]
		next = store.EncodeToken(keys[take-1])
	}
	return next, keys, nil
}

// Observations is the in-memory observation repository.
type Observations struct {
	mu sync.RWMutex
	m  map[string]store.Observation
}

// CreateIfNotExists implements store.ObservationRepository.
func (r *Observations) CreateIfNotExists(_ context.Context, o store.Observation) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.m[o.Address]; ok {
		return false, nil
	}
	r.m[o.Address] = o
	return true, nil
}

// DeleteIfExists implements store.ObservationRepository.
func (r *Observations) DeleteIfExists(_ context.Context, o store.Observation) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.m[o.Address]; !ok {
		return false, nil
	}
	delete(r.m, o.Address)
	return true, nil
}

// Exists implements store.ObservationRepository.
func (r *Observations) Exists(_ context.Context, o store.Observation) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.m[o.Address]
	return ok, nil
}

// Get implements store.ObservationRepository.
func (r *Observations) Get(_ context.Context, take int, continuation string) (string, []store.Observation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.m))
	for k := range r.m {
		keys = append(keys, k)
	}

	next, keys, err := page(keys, take, continuation)
	if err != nil {
		return "", nil, err
	}

	items := make([]store.Observation, len(keys))
	for i, k := range keys {
		items[i] = r.m[k]
	}
	return next, items, nil
}

// Balances is the in-memory balance repository.
type Balances struct {
	mu sync.RWMutex
	m  map[string]store.AddressBalance
}

// CreateIfNotExists implements store.BalanceRepository.
func (r *Balances) CreateIfNotExists(_ context.Context, b store.AddressBalance) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.m[b.Address]; ok {
		return false, nil
	}
	r.m[b.Address] = b
	return true, nil
}

// Update implements store.BalanceRepository.
func (r *Balances) Update(_ context.Context, b store.AddressBalance) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.m[b.Address]; !ok {
		return store.ErrAddrNotFound
	}
	r.m[b.Address] = b
	return nil
}

// DeleteIfExists implements store.BalanceRepository.
func (r *Balances) DeleteIfExists(_ context.Context, b store.AddressBalance) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.m[b.Address]; !ok {
		return false, nil
	}
	delete(r.m, b.Address)
	return true, nil
}

// Exists implements store.BalanceRepository.
func (r *Balances) Exists(_ context.Context, b store.AddressBalance) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.m[b.Address]
	return ok, nil
}

// Get implements store.BalanceRepository.
func (r *Balances) Get(_ context.Context, take int, continuation string) (string, []store.AddressBalance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.m))
	for k := range r.m {
		keys = append(keys, k)
	}

	next, keys, err := page(keys, take, continuation)
	if err != nil {
		return "", nil, err
	}

	items := make([]store.AddressBalance, len(keys))
	for i, k := range keys {
		items[i] = r.m[k]
	}
	return next, items, nil
}
