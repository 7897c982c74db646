// Package block defines the interface required for the ledger node connection and the retrying gateway in front of it.
package block

import (
	"context"
	"math/big"
	"time"

	"github.com/BaR488/Raiblocks.Api/lib/block/nano"
	"github.com/BaR488/Raiblocks.Api/lib/block/types"
	"github.com/BaR488/Raiblocks.Api/lib/config"
)

//go:generate mockgen -source=$GOFILE -destination=mock/node.go -package=mock

// Node is the set of ledger queries and commands the service needs from a node. Implementations classify transport
// failures as types.ErrNetwork and node-reported failures as types.ErrNode.
type Node interface {
	AccountInfo(ctx context.Context, account types.Address) (types.AccountInfo, error)
	Work(ctx context.Context, hash string) (string, error)
	Balance(ctx context.Context, account types.Address) (*big.Int, error)
	Balances(ctx context.Context, accounts []types.Address) (map[string]*big.Int, error)
	ValidateAccount(ctx context.Context, account types.Address) (bool, error)
	BlockCount(ctx context.Context, account types.Address) (int64, error)
	// Process publishes a signed block. A node rejection is returned in the result, not as an error.
	Process(ctx context.Context, block string) (types.ProcessResult, error)
	History(ctx context.Context, account types.Address, count int) ([]types.HistoryEntry, error)
}

// RPCMetrics records node call outcomes.
type RPCMetrics interface {
	Observe(operation string, err error, started time.Time)
	Retry(operation string)
}

// Init returns a client to the node read from the config.
func Init(nc config.NodeConfig, m RPCMetrics) (Node, error) {
	return nano.New(nc.URL, nc.Timeout, m)
}
