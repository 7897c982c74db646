// Package wallet implements the api microservice.
//
// The service fronts a RaiBlocks node: it validates caller input, forwards ledger queries and commands through the
// retrying gateway, assembles unsigned send blocks for an external signer and reconstructs transfer histories. The same
// operations are served over a RESTful API together with the observation and cached balance endpoints.
package wallet

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"go.uber.org/zap"

	"github.com/BaR488/Raiblocks.Api/balance"
	"github.com/BaR488/Raiblocks.Api/lib/block"
	"github.com/BaR488/Raiblocks.Api/lib/block/types"
	"github.com/BaR488/Raiblocks.Api/lib/msg"
	"github.com/BaR488/Raiblocks.Api/lib/util"
)

// Wallet contains the data necessary to deliver the service. It holds no per call state.
type Wallet struct {
	gw      *block.Gateway
	tracker *balance.Tracker
	mb      msg.MsgBroker // optional
	log     *zap.Logger
}

// New returns a pointer to a new Wallet service. tracker is only needed by the REST observation endpoints and mb may
// be nil.
func New(gw *block.Gateway, tracker *balance.Tracker, mb msg.MsgBroker, logger *zap.Logger) *Wallet {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Wallet{gw: gw, tracker: tracker, mb: mb, log: logger.Named("wallet")}
}

// GetBalance returns the balance of address in raw.
func (w *Wallet) GetBalance(ctx context.Context, address string) (string, error) {
	a, err := types.ParseAddress(address)
	if err != nil {
		return "", err
	}

	bal, err := w.gw.Balance(ctx, a)
	if err != nil {
		return "", err
	}
	return types.FormatRaw(bal), nil
}

// GetBalances returns the balances of addresses in raw with a single node round trip. Keys are the canonical form of
// the requested addresses.
func (w *Wallet) GetBalances(ctx context.Context, addresses []string) (map[string]string, error) {
	addrs, err := types.ParseAddresses(util.Dedup(addresses))
	if err != nil {
		return nil, err
	}

	out := make(map[string]string, len(addrs))
	if len(addrs) == 0 {
		return out, nil
	}

	// the node is asked once per account, whatever the prefix
	seen := make(map[string]struct{}, len(addrs))
	query := make([]types.Address, 0, len(addrs))
	for _, a := range addrs {
		if _, ok := seen[a.Key()]; ok {
			continue
		}
		seen[a.Key()] = struct{}{}
		query = append(query, a)
	}

	bals, err := w.gw.Balances(ctx, query)
	if err != nil {
		return nil, err
	}

	byKey := make(map[string]*big.Int, len(query))
	for _, a := range query {
		if bal, ok := bals[a.String()]; ok {
			byKey[a.Key()] = bal
		}
	}

	for _, a := range addrs {
		if bal, ok := byKey[a.Key()]; ok {
			out[a.String()] = types.FormatRaw(bal)
		}
	}
	return out, nil
}

// ValidateAddress reports whether the node accepts address. A malformed address is not an error, it is just invalid.
func (w *Wallet) ValidateAddress(ctx context.Context, address string) (bool, error) {
	a, err := types.ParseAddress(address)
	if err != nil {
		w.log.Debug("malformed address", zap.String("address", address), zap.Error(err))
		return false, nil
	}
	return w.gw.ValidateAccount(ctx, a)
}

// GetBlockCount returns the number of blocks in the chain of address.
func (w *Wallet) GetBlockCount(ctx context.Context, address string) (int64, error) {
	a, err := types.ParseAddress(address)
	if err != nil {
		return 0, err
	}
	return w.gw.BlockCount(ctx, a)
}

// GetAccountInfo returns the head block hash and block count of address.
func (w *Wallet) GetAccountInfo(ctx context.Context, address string) (frontier string, blockCount int64, err error) {
	a, err := types.ParseAddress(address)
	if err != nil {
		return "", 0, err
	}

	info, err := w.gw.AccountInfo(ctx, a)
	if err != nil {
		return "", 0, err
	}
	return info.Frontier, info.BlockCount, nil
}

// Broadcast publishes a signed block. A node rejection is returned as errMsg with a nil error.
//
// The publish is retried like any other call, so a block the node accepted before the connection dropped may be
// submitted again.
func (w *Wallet) Broadcast(ctx context.Context, signed string) (hash, errMsg string, err error) {
	res, err := w.gw.Process(ctx, signed)
	if err != nil {
		return "", "", err
	}

	if res.Error != "" {
		w.log.Warn("block rejected", zap.String("reason", res.Error))
		return "", res.Error, nil
	}

	w.log.Info("block published", zap.String("hash", res.Hash))
	return res.Hash, "", nil
}

// GetHistory returns up to take transfers of address, most recent first, as the node orders them. take must be
// positive.
func (w *Wallet) GetHistory(ctx context.Context, address string, take int) ([]types.Transfer, error) {
	a, err := types.ParseAddress(address)
	if err != nil {
		return nil, err
	}

	if take < 1 {
		return nil, fmt.Errorf("%w: take %d must be positive", types.ErrInvalidCount, take)
	}

	entries, err := w.gw.History(ctx, a, take)
	if err != nil {
		return nil, err
	}

	ts, err := Reconstruct(a.String(), entries)
	if err != nil {
		return nil, fmt.Errorf("history of %s: %w", a, err)
	}
	return ts, nil
}

// ManageEvents starts a go routine to consume the balance events sent by the refresher service. Events are logged.
func (w *Wallet) ManageEvents(ctx context.Context) error {
	mut := new(sync.Mutex)
	mut.Lock()

	eveCh, errCh, err := w.mb.GetEvents(mut)
	if err != nil {
		return fmt.Errorf("wallet: cannot get events: %w", err)
	}

	go func() {
		w.log.Info("start listening to balance events")
		defer w.log.Info("stop listening to balance events")

		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-errCh:
				if !ok {
					return
				}
				// the broker drops the undecodable message and goes on delivering
				w.log.Error("cannot read balance event", zap.Error(err))
			case eve, ok := <-eveCh:
				if !ok {
					return
				}
				w.log.Info("balance changed",
					zap.String("address", eve.Address), zap.String("balance", eve.Balance), zap.Int64("ts", eve.TS))
				mut.Unlock()
			}
		}
	}()

	return nil
}
