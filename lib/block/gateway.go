package block

import (
	"context"
	"math/big"

	"go.uber.org/zap"

	"github.com/BaR488/Raiblocks.Api/lib/block/types"
	"github.com/BaR488/Raiblocks.Api/lib/retry"
)

// Gateway wraps a Node so that every call is repeated on transient failures. It holds no per call state and is safe
// for concurrent use. Gateway is itself a Node.
type Gateway struct {
	node     Node
	attempts int
	log      *zap.Logger
	m        RPCMetrics
}

// NewGateway returns a Gateway trying each call up to attempts times. m may be nil.
func NewGateway(node Node, attempts int, logger *zap.Logger, m RPCMetrics) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	if attempts < 1 {
		attempts = retry.DefaultAttempts
	}
	return &Gateway{node: node, attempts: attempts, log: logger.Named("gateway"), m: m}
}

// Call runs fn as a single retried unit: on a transient failure the whole function runs again, nested node calls
// included, so values it combines always come from the same attempt.
func Call[T any](ctx context.Context, g *Gateway, operation string, fn func(context.Context, Node) (T, error)) (T, error) {
	p := retry.Policy{
		Attempts:  g.attempts,
		Retryable: types.IsTransient,
		OnRetry: func(attempt int, err error) {
			g.log.Warn("retrying node call",
				zap.String("operation", operation), zap.Int("attempt", attempt), zap.Error(err))
			if g.m != nil {
				g.m.Retry(operation)
			}
		},
	}

	res, err := retry.Do(ctx, p, func(ctx context.Context) (T, error) {
		return fn(ctx, g.node)
	})
	if err != nil && types.IsTransient(err) {
		g.log.Error("node call failed", zap.String("operation", operation), zap.Error(err))
	}
	return res, err
}

// AccountInfo implements Node.
func (g *Gateway) AccountInfo(ctx context.Context, account types.Address) (types.AccountInfo, error) {
	return Call(ctx, g, "account_info", func(ctx context.Context, n Node) (types.AccountInfo, error) {
		return n.AccountInfo(ctx, account)
	})
}

// Work implements Node.
func (g *Gateway) Work(ctx context.Context, hash string) (string, error) {
	return Call(ctx, g, "work_generate", func(ctx context.Context, n Node) (string, error) {
		return n.Work(ctx, hash)
	})
}

// Balance implements Node.
func (g *Gateway) Balance(ctx context.Context, account types.Address) (*big.Int, error) {
	return Call(ctx, g, "account_balance", func(ctx context.Context, n Node) (*big.Int, error) {
		return n.Balance(ctx, account)
	})
}

// Balances implements Node.
func (g *Gateway) Balances(ctx context.Context, accounts []types.Address) (map[string]*big.Int, error) {
	return Call(ctx, g, "accounts_balances", func(ctx context.Context, n Node) (map[string]*big.Int, error) {
		return n.Balances(ctx, accounts)
	})
}

// ValidateAccount implements Node.
func (g *Gateway) ValidateAccount(ctx context.Context, account types.Address) (bool, error) {
	return Call(ctx, g, "validate_account_number", func(ctx context.Context, n Node) (bool, error) {
		return n.ValidateAccount(ctx, account)
	})
}

// BlockCount implements Node.
func (g *Gateway) BlockCount(ctx context.Context, account types.Address) (int64, error) {
	return Call(ctx, g, "account_block_count", func(ctx context.Context, n Node) (int64, error) {
		return n.BlockCount(ctx, account)
	})
}

// Process implements Node. A retry after a lost response may submit the same block twice; the node answers the
// second one with a rejection.
func (g *Gateway) Process(ctx context.Context, block string) (types.ProcessResult, error) {
	return Call(ctx, g, "process", func(ctx context.Context, n Node) (types.ProcessResult, error) {
		return n.Process(ctx, block)
	})
}

// History implements Node.
func (g *Gateway) History(ctx context.Context, account types.Address, count int) ([]types.HistoryEntry, error) {
	return Call(ctx, g, "account_history", func(ctx context.Context, n Node) ([]types.HistoryEntry, error) {
		return n.History(ctx, account, count)
	})
}
