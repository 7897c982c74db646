// Package nano implements the node interface for RaiBlocks/Nano nodes over their JSON RPC.
package nano

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/BaR488/Raiblocks.Api/lib/block/types"
)

// RPC actions used by the client.
const (
	ActionAccountInfo     = "account_info"
	ActionWorkGenerate    = "work_generate"
	ActionAccountBalance  = "account_balance"
	ActionAccountsBalance = "accounts_balances"
	ActionValidateAccount = "validate_account_number"
	ActionBlockCount      = "account_block_count"
	ActionProcess         = "process"
	ActionAccountHistory  = "account_history"
)

// Metrics records the outcome of every RPC call.
type Metrics interface {
	Observe(operation string, err error, started time.Time)
}

// Client is a connection to a Nano node. It is safe for concurrent use.
type Client struct {
	rc  *resty.Client
	url string
	m   Metrics
}

// New returns a client posting to the node at url. timeout bounds every single call, zero means no limit.
func New(url string, timeout time.Duration, m Metrics) (*Client, error) {
	if url == "" {
		return nil, errors.New("nano: empty node url")
	}

	rc := resty.New().
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{rc: rc, url: url, m: m}, nil
}

// post sends an action and returns the raw body. Transport failures, 5xx and 429 answers are ErrNetwork.
func (c *Client) post(ctx context.Context, action string, req map[string]interface{}) (body []byte, err error) {
	started := time.Now()
	defer func() {
		if c.m != nil {
			c.m.Observe(action, err, started)
		}
	}()

	req["action"] = action

	resp, err := c.rc.R().SetContext(ctx).SetBody(req).Post(c.url)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%s: %w", action, ctx.Err())
		}
		return nil, fmt.Errorf("%s: %v: %w", action, err, types.ErrNetwork)
	}

	switch code := resp.StatusCode(); {
	case code >= http.StatusInternalServerError, code == http.StatusTooManyRequests:
		return nil, fmt.Errorf("%s: http status %d: %w", action, code, types.ErrNetwork)
	case code != http.StatusOK:
		return nil, &types.NodeError{Action: action, Message: "http status " + strconv.Itoa(code)}
	}

	return resp.Body(), nil
}

// call posts an action and decodes the answer onto out unless the node reported an error.
func (c *Client) call(ctx context.Context, action string, req map[string]interface{}, out interface{}) error {
	body, err := c.post(ctx, action, req)
	if err != nil {
		return err
	}

	var e struct {
		Error string `json:"error"`
	}
	if err = json.Unmarshal(body, &e); err != nil {
		return fmt.Errorf("%s: %v: %w", action, err, types.ErrBadResponse)
	}
	if e.Error != "" {
		return &types.NodeError{Action: action, Message: e.Error}
	}

	if err = json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s: %v: %w", action, err, types.ErrBadResponse)
	}
	return nil
}

// raw parses an amount field of a node answer.
func raw(action, field, s string) (*big.Int, error) {
	v, err := types.ParseRaw(s)
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %v: %w", action, field, err, types.ErrBadResponse)
	}
	return v, nil
}

// integer parses a numeric string field of a node answer. Empty means zero.
func integer(action, field, s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %s: %v: %w", action, field, err, types.ErrBadResponse)
	}
	return n, nil
}

// AccountInfo returns the account frontier, balance and block count.
func (c *Client) AccountInfo(ctx context.Context, account types.Address) (info types.AccountInfo, err error) {
	var r struct {
		Frontier            string `json:"frontier"`
		OpenBlock           string `json:"open_block"`
		RepresentativeBlock string `json:"representative_block"`
		Balance             string `json:"balance"`
		ModifiedTimestamp   string `json:"modified_timestamp"`
		BlockCount          string `json:"block_count"`
	}
	if err = c.call(ctx, ActionAccountInfo, map[string]interface{}{"account": account.String()}, &r); err != nil {
		return
	}
	if r.Frontier == "" {
		err = fmt.Errorf("%s: missing frontier: %w", ActionAccountInfo, types.ErrBadResponse)
		return
	}

	info.Frontier = r.Frontier
	info.OpenBlock = r.OpenBlock
	info.RepresentativeBlock = r.RepresentativeBlock
	if info.Balance, err = raw(ActionAccountInfo, "balance", r.Balance); err != nil {
		return
	}
	if info.ModifiedTimestamp, err = integer(ActionAccountInfo, "modified_timestamp", r.ModifiedTimestamp); err != nil {
		return
	}
	info.BlockCount, err = integer(ActionAccountInfo, "block_count", r.BlockCount)
	return
}

// Work asks the node to compute the proof of work for hash.
func (c *Client) Work(ctx context.Context, hash string) (string, error) {
	var r struct {
		Work string `json:"work"`
	}
	if err := c.call(ctx, ActionWorkGenerate, map[string]interface{}{"hash": hash}, &r); err != nil {
		return "", err
	}
	if r.Work == "" {
		return "", fmt.Errorf("%s: missing work: %w", ActionWorkGenerate, types.ErrBadResponse)
	}
	return r.Work, nil
}

type balance struct {
	Balance string `json:"balance"`
	Pending string `json:"pending"`
}

// Balance returns the confirmed balance of account in raw.
func (c *Client) Balance(ctx context.Context, account types.Address) (*big.Int, error) {
	var r balance
	if err := c.call(ctx, ActionAccountBalance, map[string]interface{}{"account": account.String()}, &r); err != nil {
		return nil, err
	}
	return raw(ActionAccountBalance, "balance", r.Balance)
}

// Balances returns the balances of accounts in a single round trip, keyed by the requested address.
func (c *Client) Balances(ctx context.Context, accounts []types.Address) (map[string]*big.Int, error) {
	list := make([]string, len(accounts))
	for i, a := range accounts {
		list[i] = a.String()
	}

	var r struct {
		Balances map[string]balance `json:"balances"`
	}
	if err := c.call(ctx, ActionAccountsBalance, map[string]interface{}{"accounts": list}, &r); err != nil {
		return nil, err
	}

	// nodes may answer with the other account prefix, keys are mapped back to every requested form
	requested := make(map[string][]string, len(accounts))
	for _, a := range accounts {
		requested[a.Key()] = append(requested[a.Key()], a.String())
	}

	out := make(map[string]*big.Int, len(list))
	for addr, b := range r.Balances {
		v, err := raw(ActionAccountsBalance, addr, b.Balance)
		if err != nil {
			return nil, err
		}

		aliases, ok := requested[key(addr)]
		if !ok {
			out[addr] = v
			continue
		}
		for _, a := range aliases {
			out[a] = v
		}
	}
	return out, nil
}

// key strips the account prefix.
func key(addr string) string {
	if i := strings.IndexByte(addr, '_'); i >= 0 {
		return addr[i+1:]
	}
	return addr
}

// ValidateAccount asks the node whether account is a well formed account number.
func (c *Client) ValidateAccount(ctx context.Context, account types.Address) (bool, error) {
	var r struct {
		Valid string `json:"valid"`
	}
	if err := c.call(ctx, ActionValidateAccount, map[string]interface{}{"account": account.String()}, &r); err != nil {
		return false, err
	}
	return r.Valid == "1", nil
}

// BlockCount returns the number of blocks in the account chain.
func (c *Client) BlockCount(ctx context.Context, account types.Address) (int64, error) {
	var r struct {
		BlockCount string `json:"block_count"`
	}
	if err := c.call(ctx, ActionBlockCount, map[string]interface{}{"account": account.String()}, &r); err != nil {
		return 0, err
	}
	return integer(ActionBlockCount, "block_count", r.BlockCount)
}

// Process publishes a signed block given as JSON text. A rejection by the node is returned in the result.
func (c *Client) Process(ctx context.Context, block string) (res types.ProcessResult, err error) {
	body, err := c.post(ctx, ActionProcess, map[string]interface{}{"block": block})
	if err != nil {
		return
	}

	var r struct {
		Hash  string `json:"hash"`
		Error string `json:"error"`
	}
	if err = json.Unmarshal(body, &r); err != nil {
		err = fmt.Errorf("%s: %v: %w", ActionProcess, err, types.ErrBadResponse)
		return
	}

	if r.Error != "" {
		res.Error = r.Error
		return
	}
	if r.Hash == "" {
		err = fmt.Errorf("%s: missing hash: %w", ActionProcess, types.ErrBadResponse)
		return
	}
	res.Hash = r.Hash
	return
}

// History returns up to count entries of the account chain, newest first as the node orders them.
func (c *Client) History(ctx context.Context, account types.Address, count int) ([]types.HistoryEntry, error) {
	var r struct {
		History json.RawMessage `json:"history"`
	}
	req := map[string]interface{}{"account": account.String(), "count": strconv.Itoa(count)}
	if err := c.call(ctx, ActionAccountHistory, req, &r); err != nil {
		return nil, err
	}

	var history []struct {
		Type    string `json:"type"`
		Account string `json:"account"`
		Amount  string `json:"amount"`
		Hash    string `json:"hash"`
	}
	// an account without blocks gets "history": ""
	if len(r.History) > 0 && string(r.History) != `""` {
		if err := json.Unmarshal(r.History, &history); err != nil {
			return nil, fmt.Errorf("%s: %v: %w", ActionAccountHistory, err, types.ErrBadResponse)
		}
	}

	out := make([]types.HistoryEntry, 0, len(history))
	for _, h := range history {
		amount := new(big.Int)
		if h.Amount != "" {
			var err error
			if amount, err = raw(ActionAccountHistory, "amount", h.Amount); err != nil {
				return nil, err
			}
		}
		out = append(out, types.HistoryEntry{
			Type:    types.BlockType(h.Type),
			Account: h.Account,
			Amount:  amount,
			Hash:    h.Hash,
		})
	}
	return out, nil
}
