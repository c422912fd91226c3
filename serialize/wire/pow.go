package wire

import (
	"math/big"
)

// CompactToTarget expands the compact bits form:
//
//	bits    = c0 c1 c2 e  (wire order)
//	target  = (c2 c1 c0) * 2^(8*(e-3))
//
// An exponent below 3 shifts the coefficient right instead.
func CompactToTarget(bits [4]byte) *big.Int {
	exponent := uint(bits[3])
	coefficient := new(big.Int).SetUint64(uint64(bits[0]) | uint64(bits[1])<<8 | uint64(bits[2])<<16)
	if exponent >= 3 {
		return coefficient.Lsh(coefficient, 8*(exponent-3))
	}
	return coefficient.Rsh(coefficient, 8*(3-exponent))
}

// TargetToCompact is the inverse of CompactToTarget, losing everything below the
// three most significant bytes. The coefficient never has its top bit set so the
// result matches what other nodes produce.
func TargetToCompact(target *big.Int) [4]byte {
	if target.Sign() <= 0 {
		return [4]byte{}
	}

	size := uint((target.BitLen() + 7) / 8)
	var coefficient uint64
	if size <= 3 {
		coefficient = target.Uint64() << (8 * (3 - size))
	} else {
		coefficient = new(big.Int).Rsh(target, 8*(size-3)).Uint64()
	}
	if coefficient&0x00800000 != 0 {
		coefficient >>= 8
		size++
	}

	return [4]byte{byte(coefficient), byte(coefficient >> 8), byte(coefficient >> 16), byte(size)}
}

// PowValue reads a hash as a big endian integer. The display order makes this
// the little endian reading of the raw digest.
func PowValue(h Hash) *big.Int {
	return new(big.Int).SetBytes(h[:])
}

func (h *BlockHeader) Target() *big.Int {
	return CompactToTarget(h.Bits)
}

// CheckPow reports whether the header hash is strictly below its target
func (h *BlockHeader) CheckPow() bool {
	return PowValue(h.Hash()).Cmp(h.Target()) < 0
}
