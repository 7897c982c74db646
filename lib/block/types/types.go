// Package types common ledger types shared by the node client, the wallet service and the balance tracker.
package types

import (
	"errors"
	"fmt"
	"math/big"
)

// BlockType is the kind of a ledger block as reported by the node.
type BlockType string

// Block types handled by the service. Legacy send/receive blocks are the only transfer kinds at this layer.
const (
	Send    BlockType = "send"
	Receive BlockType = "receive"
)

// AccountInfo is a snapshot of an account at query time. Balance is in raw, the ledger's base unit.
type AccountInfo struct {
	Frontier            string
	OpenBlock           string
	RepresentativeBlock string
	Balance             *big.Int
	ModifiedTimestamp   int64
	BlockCount          int64
}

// HistoryEntry is one raw event of an account chain: Account is the counterparty of the transfer.
type HistoryEntry struct {
	Type    BlockType
	Account string
	Amount  *big.Int
	Hash    string
}

// Transfer is a directional history record.
type Transfer struct {
	From   string
	To     string
	Amount *big.Int
	Hash   string
}

// ProcessResult is the outcome of publishing a signed block. Error is set exactly when the node rejected the block.
type ProcessResult struct {
	Hash  string
	Error string
}

// BlockCreate is the unsigned send block handed to the external signing tool. Amounts are decimal strings in raw.
type BlockCreate struct {
	Type        BlockType `json:"type"`
	Account     string    `json:"account"`
	Destination string    `json:"destination"`
	Balance     string    `json:"balance"`
	Amount      string    `json:"amount"`
	Previous    string    `json:"previous"`
	Work        string    `json:"work"`
}

// Error codes. ErrNetwork is the only transient kind.
var (
	ErrNetwork            = errors.New("node transport failure")
	ErrNode               = errors.New("node returned an error")
	ErrBadResponse        = errors.New("malformed node response")
	ErrInvalidAddress     = errors.New("invalid address")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidCount       = errors.New("invalid count")
	ErrUnknownHistoryType = errors.New("unknown history type")
)

// NodeError is a failure reported by the node in its response body. It matches ErrNode.
type NodeError struct {
	Action  string
	Message string
}

func (e *NodeError) Error() string {
	if e.Action == "" {
		return fmt.Sprintf("%s: %s", ErrNode, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", ErrNode, e.Action, e.Message)
}

// Unwrap returns ErrNode.
func (e *NodeError) Unwrap() error {
	return ErrNode
}

// IsTransient reports whether err is worth another attempt against the node.
func IsTransient(err error) bool {
	return errors.Is(err, ErrNetwork)
}

// IsValidation reports whether err was caused by malformed caller input.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidAddress) || errors.Is(err, ErrInvalidAmount) || errors.Is(err, ErrInvalidCount)
}
