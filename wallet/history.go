package wallet

import (
	"fmt"

	"github.com/BaR488/Raiblocks.Api/lib/block/types"
)

// Reconstruct turns the raw history of account into directional transfers, keeping the order of entries. A send moves
// funds from account to the counterparty and a receive the other way round. Any other block type fails the whole
// call with types.ErrUnknownHistoryType.
func Reconstruct(account string, entries []types.HistoryEntry) ([]types.Transfer, error) {
	out := make([]types.Transfer, 0, len(entries))

	for _, e := range entries {
		t := types.Transfer{Amount: e.Amount, Hash: e.Hash}

		switch e.Type {
		case types.Send:
			t.From, t.To = account, e.Account
		case types.Receive:
			t.From, t.To = e.Account, account
		default:
			return nil, fmt.Errorf("%w %q in block %s", types.ErrUnknownHistoryType, e.Type, e.Hash)
		}

		out = append(out, t)
	}

	return out, nil
}
