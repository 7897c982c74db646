package types

import (
	"errors"
	"math/big"
	"testing"
)

func TestParseRaw(t *testing.T) {
	for i, tc := range []struct {
		in   string
		want string
		err  error
	}{
		{in: "0", want: "0"},
		{in: " 1000000000000000000000000000000 ", want: "1000000000000000000000000000000"},
		{in: "340282366920938463463374607431768211455", want: "340282366920938463463374607431768211455"},
		{in: "340282366920938463463374607431768211456", err: ErrInvalidAmount},
		{in: "-1", err: ErrInvalidAmount},
		{in: "+1", err: ErrInvalidAmount},
		{in: "1e30", err: ErrInvalidAmount},
		{in: "0x10", err: ErrInvalidAmount},
		{in: "", err: ErrInvalidAmount},
	} {
		v, err := ParseRaw(tc.in)
		if tc.err != nil {
			if !errors.Is(err, tc.err) {
				t.Errorf("[%d] expected %v, got %v", i, tc.err, err)
			}

			continue
		}

		if err != nil || v.String() != tc.want {
			t.Errorf("[%d] ParseRaw(%q) = %v, %v; want %s", i, tc.in, v, err, tc.want)
		}
	}
}

func TestFormatRaw(t *testing.T) {
	if s := FormatRaw(nil); s != "0" {
		t.Errorf("FormatRaw(nil) = %q", s)
	}

	if s := FormatRaw(big.NewInt(42)); s != "42" {
		t.Errorf("FormatRaw(42) = %q", s)
	}
}

func TestErrorClasses(t *testing.T) {
	if !IsTransient(ErrNetwork) || IsTransient(ErrNode) || IsTransient(ErrInvalidAddress) {
		t.Error("only ErrNetwork is transient")
	}

	if !IsValidation(ErrInvalidAmount) || !IsValidation(ErrInvalidAddress) || !IsValidation(ErrInvalidCount) ||
		IsValidation(ErrNetwork) {
		t.Error("validation classes mismatch")
	}
}

func TestNodeError(t *testing.T) {
	var err error = &NodeError{Action: "account_info", Message: "Account not found"}
	if !errors.Is(err, ErrNode) || IsTransient(err) {
		t.Errorf("NodeError must match ErrNode only: %v", err)
	}
	if err.Error() != "node returned an error: account_info: Account not found" {
		t.Errorf("unexpected message %q", err.Error())
	}
}
