package crypto

import (
	"encoding/hex"
	"fmt"

	"github.com/ChainSafe/go-schnorrkel"
)

// AuthorityIdSize is the width of a schnorrkel public key.
const AuthorityIdSize = 32

// AuthorityId is a schnorrkel (sr25519) public verification key. Its index
// within a ValidatorSet's authority list is the identifier pre-digests
// reference (spec §3, AuthorityId).
type AuthorityId [AuthorityIdSize]byte

// AuthorityPair is a validator's signing keypair: a schnorrkel secret key
// plus its derived public key.
type AuthorityPair struct {
	secret *schnorrkel.SecretKey
	public AuthorityId
}

// GenerateAuthorityPair generates a new random authority keypair.
func GenerateAuthorityPair() (*AuthorityPair, error) {
	msk, err := schnorrkel.GenerateMiniSecretKey()
	if err != nil {
		return nil, fmt.Errorf("generate authority key: %w", err)
	}
	sk := msk.ExpandEd25519()
	pk, err := sk.Public()
	if err != nil {
		return nil, fmt.Errorf("derive authority public key: %w", err)
	}
	return &AuthorityPair{secret: sk, public: pk.Encode()}, nil
}

// Public returns the pair's AuthorityId.
func (p *AuthorityPair) Public() AuthorityId {
	return p.public
}

// schnorrkelSecret exposes the underlying secret for the seal/VRF signers in
// this package; never exported outside crypto.
func (p *AuthorityPair) schnorrkelSecret() *schnorrkel.SecretKey {
	return p.secret
}

// PublicKey decodes an AuthorityId into a schnorrkel public key, failing if
// the bytes are not a valid curve point.
func (id AuthorityId) PublicKey() (*schnorrkel.PublicKey, error) {
	pk := &schnorrkel.PublicKey{}
	if err := pk.Decode(id); err != nil {
		return nil, fmt.Errorf("decode authority id: %w", err)
	}
	return pk, nil
}

// Hex returns the lowercase hex encoding of the authority id.
func (id AuthorityId) Hex() string {
	return hex.EncodeToString(id[:])
}

// AuthorityIdFromHex decodes a hex-encoded authority id.
func AuthorityIdFromHex(s string) (AuthorityId, error) {
	var id AuthorityId
	b, err := hex.DecodeString(s)
	if err != nil {
		return id, fmt.Errorf("invalid authority id hex: %w", err)
	}
	if len(b) != AuthorityIdSize {
		return id, fmt.Errorf("authority id must be %d bytes, got %d", AuthorityIdSize, len(b))
	}
	copy(id[:], b)
	return id, nil
}
