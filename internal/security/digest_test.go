package security

import "testing"

func TestTokenDigest(t *testing.T) {
	d1 := TokenDigest("token-a")
	d2 := TokenDigest("token-a")
	d3 := TokenDigest("token-b")
	if d1 != d2 {
		t.Error("digest not deterministic")
	}
	if d1 == d3 {
		t.Error("distinct tokens share a digest")
	}
	if len(d1) != 64 {
		t.Errorf("digest length = %d, want 64 hex chars", len(d1))
	}
}
