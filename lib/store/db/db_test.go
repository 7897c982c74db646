package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BaR488/Raiblocks.Api/lib/store"
)

func TestNewMemory(t *testing.T) {
	ctx := context.Background()

	dh, err := New(MEMORY, "")
	require.NoError(t, err)

	ok, err := dh.Observations().CreateIfNotExists(ctx, store.Observation{Address: "xrb_a"})
	require.NoError(t, err)
	assert.True(t, ok)

	assert.NoError(t, Close(ctx, dh))
	assert.NoError(t, Close(ctx, nil))
}

func TestNewUnsupported(t *testing.T) {
	_, err := New("mysql", "")
	assert.Error(t, err)
}
