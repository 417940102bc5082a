package crypto

import "testing"

func TestHashDeterministic(t *testing.T) {
	a := Hash([]byte("sassafras"))
	b := Hash([]byte("sassafras"))
	if a != b {
		t.Error("Hash is not deterministic for identical input")
	}
}

func TestHashDiffersOnInput(t *testing.T) {
	a := Hash([]byte("sassafras"))
	b := Hash([]byte("sassafras!"))
	if a == b {
		t.Error("Hash collided for distinct inputs")
	}
}

func TestHashStringLength(t *testing.T) {
	h := Hash([]byte("x"))
	if len(h.String()) != HashSize*2 {
		t.Errorf("String length: got %d want %d", len(h.String()), HashSize*2)
	}
}
