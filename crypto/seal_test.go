package crypto

import "testing"

func TestSignSealVerify(t *testing.T) {
	pair, err := GenerateAuthorityPair()
	if err != nil {
		t.Fatal(err)
	}
	msg := Hash([]byte("header to seal")).Bytes()
	ctx := []byte("sassafras seal v1")

	sig, err := SignSeal(pair, ctx, msg)
	if err != nil {
		t.Fatalf("SignSeal: %v", err)
	}
	if err := VerifySeal(pair.Public(), ctx, msg, sig); err != nil {
		t.Errorf("valid seal failed to verify: %v", err)
	}

	tampered := Hash([]byte("different header")).Bytes()
	if err := VerifySeal(pair.Public(), ctx, tampered, sig); err == nil {
		t.Error("seal over tampered message should not verify")
	}
}

func TestSignatureHexRoundTrip(t *testing.T) {
	pair, err := GenerateAuthorityPair()
	if err != nil {
		t.Fatal(err)
	}
	sig, err := SignSeal(pair, []byte("ctx"), []byte("msg"))
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := SignatureFromHex(sig.Hex())
	if err != nil {
		t.Fatalf("SignatureFromHex: %v", err)
	}
	if decoded != sig {
		t.Error("signature did not round-trip through hex")
	}
}
