package wire

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
)

const HashSize = 32

// Hash is a 32 byte digest kept in display order, the order block explorers print.
// On the wire hashes travel reversed; ReadHash and WriteHash convert at the boundary.
type Hash [HashSize]byte

var ZeroHash Hash

// NewHashFromStr parses a display order hex string
func NewHashFromStr(s string) (Hash, error) {
	var result Hash
	if len(s) != HashSize*2 {
		return result, fmt.Errorf("invalid hash length %d", len(s))
	}
	if _, err := hex.Decode(result[:], []byte(s)); err != nil {
		return result, err
	}
	return result, nil
}

// HashFromDigest turns a raw sha256 digest (wire order) into a display order Hash
func HashFromDigest(digest []byte) Hash {
	var result Hash
	for i := 0; i < HashSize && i < len(digest); i++ {
		result[HashSize-1-i] = digest[i]
	}
	return result
}

// WireBytes returns the hash in wire order
func (h Hash) WireBytes() []byte {
	result := make([]byte, HashSize)
	for i := 0; i < HashSize; i++ {
		result[i] = h[HashSize-1-i]
	}
	return result
}

func (h Hash) IsZero() bool {
	return h == ZeroHash
}

func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

func ReadHash(r io.Reader) (Hash, error) {
	var wireOrder [HashSize]byte
	if err := readFull(r, wireOrder[:]); err != nil {
		return Hash{}, err
	}
	return HashFromDigest(wireOrder[:]), nil
}

func WriteHash(w *bytes.Buffer, h Hash) {
	w.Write(h.WireBytes())
}
