package balance

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BaR488/Raiblocks.Api/lib/store"
	"github.com/BaR488/Raiblocks.Api/lib/store/memory"
)

func newTracker() *Tracker {
	db := memory.New()
	return NewTracker(db.Observations(), db.Balances())
}

func TestTrackerObservations(t *testing.T) {
	ctx := context.Background()
	tr := newTracker()

	ok, err := tr.AddObservation(ctx, "xrb_a")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = tr.AddObservation(ctx, "xrb_a")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = tr.IsObserved(ctx, "xrb_a")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = tr.RemoveObservation(ctx, "xrb_a")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = tr.IsObserved(ctx, "xrb_a")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTrackerDefaultTake(t *testing.T) {
	ctx := context.Background()
	tr := newTracker()
	for i := 0; i < store.DefaultTake+5; i++ {
		_, err := tr.AddObservation(ctx, fmt.Sprintf("xrb_%03d", i))
		require.NoError(t, err)
	}

	next, items, err := tr.Observations(ctx, 0, "")
	require.NoError(t, err)
	assert.Len(t, items, store.DefaultTake)
	assert.NotEmpty(t, next)

	next, items, err = tr.Observations(ctx, 0, next)
	require.NoError(t, err)
	assert.Len(t, items, 5)
	assert.Empty(t, next)
}

func TestTrackerBalances(t *testing.T) {
	ctx := context.Background()
	tr := newTracker()
	b := store.AddressBalance{Address: "xrb_a", Balance: "10", UpdatedAt: time.Unix(1, 0).UTC()}

	err := tr.UpdateBalance(ctx, b)
	assert.ErrorIs(t, err, store.ErrAddrNotFound)

	ok, err := tr.AddBalance(ctx, b)
	require.NoError(t, err)
	assert.True(t, ok)

	b.Balance = "20"
	ok, err = tr.AddBalance(ctx, b)
	require.NoError(t, err)
	assert.False(t, ok, "existing balance is not overwritten")

	require.NoError(t, tr.UpdateBalance(ctx, b))

	_, items, err := tr.Balances(ctx, 0, "")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "20", items[0].Balance)

	ok, err = tr.IsBalanceExist(ctx, b)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = tr.RemoveBalance(ctx, b)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = tr.IsBalanceExist(ctx, b)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTrackerBadPage(t *testing.T) {
	tr := newTracker()

	_, _, err := tr.Observations(context.Background(), -1, "")
	assert.ErrorIs(t, err, store.ErrBadTake)

	_, _, err = tr.Balances(context.Background(), 10, "%%%")
	assert.ErrorIs(t, err, store.ErrBadContinuation)
}
