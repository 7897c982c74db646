package msg

import "testing"

func TestActName(t *testing.T) {
	if ActName(LISTEN) != "listen" || ActName(UNLISTEN) != "unlisten" {
		t.Errorf("unexpected action names %s %s", ActName(LISTEN), ActName(UNLISTEN))
	}
}
