package crypto

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/ChainSafe/go-schnorrkel"
)

// SignatureSize is the width of a schnorrkel (sr25519) signature.
const SignatureSize = 64

// Signature is a schnorrkel signature over a pre-seal header hash.
type Signature [SignatureSize]byte

// SignSeal signs msg (the pre-seal header hash) under the given signing
// context, producing the bytes stored in the header's seal digest.
func SignSeal(pair *AuthorityPair, context, msg []byte) (Signature, error) {
	var out Signature
	transcript := schnorrkel.NewSigningContext(context, msg)
	sig, err := pair.schnorrkelSecret().Sign(transcript)
	if err != nil {
		return out, fmt.Errorf("sign seal: %w", err)
	}
	return sig.Encode(), nil
}

// VerifySeal checks sig against msg for the given authority under context.
// An error return always means the seal is invalid; callers surface it as
// consensus.KindInvalidSeal.
func VerifySeal(author AuthorityId, context, msg []byte, sig Signature) error {
	pk, err := author.PublicKey()
	if err != nil {
		return err
	}
	var decoded schnorrkel.Signature
	if err := decoded.Decode(sig); err != nil {
		return fmt.Errorf("decode seal signature: %w", err)
	}
	transcript := schnorrkel.NewSigningContext(context, msg)
	ok, err := pk.Verify(&decoded, transcript)
	if err != nil {
		return fmt.Errorf("verify seal: %w", err)
	}
	if !ok {
		return errors.New("seal signature does not match author")
	}
	return nil
}

// SignatureFromHex decodes a hex-encoded seal signature.
func SignatureFromHex(s string) (Signature, error) {
	var sig Signature
	b, err := hex.DecodeString(s)
	if err != nil {
		return sig, fmt.Errorf("invalid signature hex: %w", err)
	}
	if len(b) != SignatureSize {
		return sig, fmt.Errorf("signature must be %d bytes, got %d", SignatureSize, len(b))
	}
	copy(sig[:], b)
	return sig, nil
}

// Hex returns the lowercase hex encoding of the signature.
func (s Signature) Hex() string {
	return hex.EncodeToString(s[:])
}
