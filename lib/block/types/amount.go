package types

import (
	"fmt"
	"math/big"
	"strings"
)

// MaxRaw is the largest amount representable on the ledger (2^128 - 1 raw).
var MaxRaw = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))

// ParseRaw parses a non-negative base-10 integer amount in raw.
func ParseRaw(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}

	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return nil, fmt.Errorf("%w %q: not a decimal integer", ErrInvalidAmount, s)
		}
	}

	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("%w %q: not a decimal integer", ErrInvalidAmount, s)
	}

	if v.Cmp(MaxRaw) > 0 {
		return nil, fmt.Errorf("%w %q: exceeds ledger supply", ErrInvalidAmount, s)
	}

	return v, nil
}

// FormatRaw returns the decimal form of v, "0" for nil.
func FormatRaw(v *big.Int) string {
	if v == nil {
		return "0"
	}

	return v.String()
}
