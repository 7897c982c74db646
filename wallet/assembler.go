package wallet

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/BaR488/Raiblocks.Api/lib/block"
	"github.com/BaR488/Raiblocks.Api/lib/block/types"
)

// AssembleTransfer builds the unsigned send block moving amount raw from source to destination and returns it as JSON
// for the external signer. The source frontier and the work computed on it always come from the same attempt. The
// amount is not checked against the source balance.
func (w *Wallet) AssembleTransfer(ctx context.Context, source, destination, amount string) (string, error) {
	from, err := types.ParseAddress(source)
	if err != nil {
		return "", err
	}

	to, err := types.ParseAddress(destination)
	if err != nil {
		return "", err
	}

	amt, err := types.ParseRaw(amount)
	if err != nil {
		return "", err
	}

	bc, err := block.Call(ctx, w.gw, "assemble_transfer", func(ctx context.Context, n block.Node) (types.BlockCreate, error) {
		info, err := n.AccountInfo(ctx, from)
		if err != nil {
			return types.BlockCreate{}, err
		}

		work, err := n.Work(ctx, info.Frontier)
		if err != nil {
			return types.BlockCreate{}, err
		}

		return types.BlockCreate{
			Type:        types.Send,
			Account:     from.String(),
			Destination: to.String(),
			Balance:     types.FormatRaw(info.Balance),
			Amount:      types.FormatRaw(amt),
			Previous:    info.Frontier,
			Work:        work,
		}, nil
	})
	if err != nil {
		return "", err
	}

	b, err := json.Marshal(bc)
	if err != nil {
		return "", fmt.Errorf("cannot encode block: %w", err)
	}
	return string(b), nil
}
