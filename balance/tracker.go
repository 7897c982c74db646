// Package balance implements the observation and balance tracking service. Observed addresses are kept in an
// observation repository and their last known balances in a balance repository; the refresher walks the observations
// periodically, stores fresh balances and publishes an event for every balance that changed.
package balance

import (
	"context"

	"github.com/BaR488/Raiblocks.Api/lib/store"
)

// Tracker is the facade over the observation and balance repositories. It holds no state of its own.
type Tracker struct {
	obs  store.ObservationRepository
	bals store.BalanceRepository
}

// NewTracker returns a Tracker on the given repositories.
func NewTracker(obs store.ObservationRepository, bals store.BalanceRepository) *Tracker {
	return &Tracker{obs: obs, bals: bals}
}

// AddObservation starts observing address. It reports false if it was already observed.
func (t *Tracker) AddObservation(ctx context.Context, address string) (bool, error) {
	return t.obs.CreateIfNotExists(ctx, store.Observation{Address: address})
}

// RemoveObservation stops observing address. It reports false if it was not observed.
func (t *Tracker) RemoveObservation(ctx context.Context, address string) (bool, error) {
	return t.obs.DeleteIfExists(ctx, store.Observation{Address: address})
}

// IsObserved reports whether address is observed.
func (t *Tracker) IsObserved(ctx context.Context, address string) (bool, error) {
	return t.obs.Exists(ctx, store.Observation{Address: address})
}

// Observations returns a page of observed addresses. take 0 means store.DefaultTake.
func (t *Tracker) Observations(ctx context.Context, take int, continuation string) (string, []store.Observation, error) {
	if take == 0 {
		take = store.DefaultTake
	}
	return t.obs.Get(ctx, take, continuation)
}

// AddBalance stores b unless a balance for its address exists. It reports whether b was stored.
func (t *Tracker) AddBalance(ctx context.Context, b store.AddressBalance) (bool, error) {
	return t.bals.CreateIfNotExists(ctx, b)
}

// UpdateBalance overwrites the stored balance of b's address.
func (t *Tracker) UpdateBalance(ctx context.Context, b store.AddressBalance) error {
	return t.bals.Update(ctx, b)
}

// IsBalanceExist reports whether a balance is stored for b's address.
func (t *Tracker) IsBalanceExist(ctx context.Context, b store.AddressBalance) (bool, error) {
	return t.bals.Exists(ctx, b)
}

// RemoveBalance deletes the stored balance of b's address. It reports false if there was none.
func (t *Tracker) RemoveBalance(ctx context.Context, b store.AddressBalance) (bool, error) {
	return t.bals.DeleteIfExists(ctx, b)
}

// Balances returns a page of stored balances. take 0 means store.DefaultTake.
func (t *Tracker) Balances(ctx context.Context, take int, continuation string) (string, []store.AddressBalance, error) {
	if take == 0 {
		take = store.DefaultTake
	}
	return t.bals.Get(ctx, take, continuation)
}
