package types

import (
	"bytes"
	"fmt"
	"math/big"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// Accepted account prefixes. Nodes answer to both.
const (
	PrefixXRB  = "xrb_"
	PrefixNano = "nano_"
)

const (
	alphabet    = "13456789abcdefghijkmnopqrstuwxyz"
	keyChars    = 52 // 4 padding bits + 256 bits of public key
	checkChars  = 8  // 40 bits of blake2b checksum
	addressBody = keyChars + checkChars
)

// Address is a validated ledger account. The zero value is not a valid address.
type Address struct {
	s string
}

// ParseAddress validates s and returns its canonical form (trimmed and lower-cased). The encoded public key must
// match the trailing blake2b-40 checksum.
func ParseAddress(s string) (Address, error) {
	a := strings.ToLower(strings.TrimSpace(s))

	var body string

	switch {
	case strings.HasPrefix(a, PrefixXRB):
		body = a[len(PrefixXRB):]
	case strings.HasPrefix(a, PrefixNano):
		body = a[len(PrefixNano):]
	default:
		return Address{}, fmt.Errorf("%w %q: unknown prefix", ErrInvalidAddress, s)
	}

	if len(body) != addressBody {
		return Address{}, fmt.Errorf("%w %q: wrong length", ErrInvalidAddress, s)
	}

	if body[0] != '1' && body[0] != '3' {
		return Address{}, fmt.Errorf("%w %q: key out of range", ErrInvalidAddress, s)
	}

	key, err := decode32(body[:keyChars])
	if err != nil {
		return Address{}, fmt.Errorf("%w %q: %s", ErrInvalidAddress, s, err)
	}

	check, err := decode32(body[keyChars:])
	if err != nil {
		return Address{}, fmt.Errorf("%w %q: %s", ErrInvalidAddress, s, err)
	}

	if !bytes.Equal(checksum(key.FillBytes(make([]byte, 32))), check.FillBytes(make([]byte, 5))) {
		return Address{}, fmt.Errorf("%w %q: bad checksum", ErrInvalidAddress, s)
	}

	return Address{s: a}, nil
}

// MustParseAddress is like ParseAddress but panics on error. Intended for constants and tests.
func MustParseAddress(s string) Address {
	a, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}

	return a
}

// String returns the canonical address.
func (a Address) String() string {
	return a.s
}

// Key returns the address without its prefix. Two addresses with the same key are the same account.
func (a Address) Key() string {
	if i := strings.IndexByte(a.s, '_'); i >= 0 {
		return a.s[i+1:]
	}
	return a.s
}

// IsZero reports whether a was never parsed.
func (a Address) IsZero() bool {
	return a.s == ""
}

// ParseAddresses parses every element of ss, failing on the first malformed one.
func ParseAddresses(ss []string) ([]Address, error) {
	out := make([]Address, 0, len(ss))

	for _, s := range ss {
		a, err := ParseAddress(s)
		if err != nil {
			return nil, err
		}

		out = append(out, a)
	}

	return out, nil
}

// decode32 reads s in the account base32 alphabet, most significant digit first.
func decode32(s string) (*big.Int, error) {
	n := new(big.Int)
	d := new(big.Int)

	for i := 0; i < len(s); i++ {
		idx := strings.IndexByte(alphabet, s[i])
		if idx < 0 {
			return nil, fmt.Errorf("invalid character %q", s[i])
		}

		n.Lsh(n, 5)
		n.Or(n, d.SetInt64(int64(idx)))
	}

	return n, nil
}

// checksum is the 5-byte blake2b digest of the public key in the byte order used by the encoding (reversed).
func checksum(pub []byte) []byte {
	h, _ := blake2b.New(5, nil) // only fails for sizes outside 1..64 or keys over 64 bytes
	h.Write(pub)
	sum := h.Sum(nil)

	for i, j := 0, len(sum)-1; i < j; i, j = i+1, j-1 {
		sum[i], sum[j] = sum[j], sum[i]
	}

	return sum
}
