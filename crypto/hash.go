package crypto

import "golang.org/x/crypto/blake2b"

// HashSize is the width of a header hash.
const HashSize = 32

// Hash256 is a blake2b-256 digest, used for block hashes.
type Hash256 [HashSize]byte

// Hash returns the blake2b-256 digest of data.
//
// Substrate-family chains hash headers with blake2b rather than
// SHA-256; the seal-signature check (VerifySeal over consensus.Header.Hash)
// depends on this matching exactly what an honest author signs over.
func Hash(data []byte) Hash256 {
	return blake2b.Sum256(data)
}

func (h Hash256) Bytes() []byte {
	return h[:]
}

func (h Hash256) String() string {
	const hextable = "0123456789abcdef"
	out := make([]byte, HashSize*2)
	for i, b := range h {
		out[i*2] = hextable[b>>4]
		out[i*2+1] = hextable[b&0x0f]
	}
	return string(out)
}
