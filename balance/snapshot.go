package balance

import "sync"

// Snapshot holds the last balance published for every observed address.
type Snapshot struct {
	l   sync.Mutex // l is a mutex to ensure concurrent updating of balances in the map
	Map map[string]string
}

// NewSnapshot returns an empty Snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{Map: make(map[string]string)}
}

// Set records balance for address without reporting a change.
func (s *Snapshot) Set(address, balance string) {
	s.l.Lock()
	defer s.l.Unlock()
	s.Map[address] = balance
}

// Changed records balance for address and reports whether it differs from the previous one. An address seen for the
// first time is a change.
func (s *Snapshot) Changed(address, balance string) bool {
	s.l.Lock()
	defer s.l.Unlock()
	prev, ok := s.Map[address]
	s.Map[address] = balance
	return !ok || prev != balance
}

// Forget deletes address from the snapshot returning its balance and an ok flag.
func (s *Snapshot) Forget(address string) (balance string, ok bool) {
	s.l.Lock()
	defer s.l.Unlock()
	balance, ok = s.Map[address]
	delete(s.Map, address)
	return
}

// Len returns the number of addresses held.
func (s *Snapshot) Len() int {
	s.l.Lock()
	defer s.l.Unlock()
	return len(s.Map)
}
