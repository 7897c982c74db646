package store

import (
	"errors"
	"testing"
)

func TestToken(t *testing.T) {
	addr := "xrb_3t6k35gi95xu6tergt6p69ck76ogmitsa8mnijtpxm9fkcm736xtoncuohr3"

	tok := EncodeToken(addr)
	if tok == addr {
		t.Errorf("token must be opaque")
	}

	got, err := DecodeToken(tok)
	if err != nil || got != addr {
		t.Errorf("DecodeToken = %q, %v", got, err)
	}

	if got, err = DecodeToken(""); err != nil || got != "" {
		t.Errorf("empty token = %q, %v", got, err)
	}

	for _, bad := range []string{"!!!", "a", "xrb_+/="} {
		if _, err = DecodeToken(bad); !errors.Is(err, ErrBadContinuation) {
			t.Errorf("DecodeToken(%q) err = %v", bad, err)
		}
	}
}

func TestCheckPage(t *testing.T) {
	if _, err := CheckPage(0, ""); !errors.Is(err, ErrBadTake) {
		t.Errorf("expected ErrBadTake, got %v", err)
	}

	if after, err := CheckPage(10, EncodeToken("abc")); err != nil || after != "abc" {
		t.Errorf("CheckPage = %q, %v", after, err)
	}

	if _, err := CheckPage(10, "%%"); !errors.Is(err, ErrBadContinuation) {
		t.Errorf("expected ErrBadContinuation, got %v", err)
	}
}
