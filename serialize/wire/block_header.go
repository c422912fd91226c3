package wire

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"time"
)

// BlockHeader is the 80 byte header.
//
// Bits and Nonce keep their raw four wire bytes.
// TxCount is only meaningful next to a headers message, where it is always 0;
// block encoding ignores it and writes the real transaction count.
type BlockHeader struct {
	Version    int32
	PrevBlock  Hash
	MerkleRoot Hash
	Timestamp  time.Time
	Bits       [4]byte
	Nonce      [4]byte
	TxCount    uint64
}

func NewBlockHeader(version int32, prevBlock, merkleRoot Hash, bits uint32, nonce uint32) *BlockHeader {
	return &BlockHeader{
		Version:    version,
		PrevBlock:  prevBlock,
		MerkleRoot: merkleRoot,
		Timestamp:  time.Unix(time.Now().Unix(), 0),
		Bits:       Uint32Bytes(bits),
		Nonce:      Uint32Bytes(nonce),
	}
}

// Uint32Bytes returns the little endian wire bytes of v, the form of Bits and Nonce
func Uint32Bytes(v uint32) [4]byte {
	var result [4]byte
	binary.LittleEndian.PutUint32(result[:], v)
	return result
}

func (h *BlockHeader) BitsUint32() uint32 {
	return binary.LittleEndian.Uint32(h.Bits[:])
}

func (h *BlockHeader) NonceUint32() uint32 {
	return binary.LittleEndian.Uint32(h.Nonce[:])
}

// UnmarshalBlockHeader reads the 80 header bytes, without a transaction count
func UnmarshalBlockHeader(data io.Reader) (*BlockHeader, error) {
	result := &BlockHeader{}
	if err := result.readFrom(data); err != nil {
		return nil, err
	}
	return result, nil
}

func (h *BlockHeader) readFrom(r io.Reader) (err error) {
	if err = readElement(r, &h.Version); err != nil {
		return
	}
	if h.PrevBlock, err = ReadHash(r); err != nil {
		return
	}
	if h.MerkleRoot, err = ReadHash(r); err != nil {
		return
	}
	var ts uint32
	if err = readElement(r, &ts); err != nil {
		return
	}
	h.Timestamp = unixTime(int64(ts))
	if err = readFull(r, h.Bits[:]); err != nil {
		return
	}
	return readFull(r, h.Nonce[:])
}

// Marshal returns the 80 header bytes, the preimage of the block hash
func (h *BlockHeader) Marshal() []byte {
	result := bytes.NewBuffer(make([]byte, 0, BlockHeaderSize))
	h.writeTo(result)
	return result.Bytes()
}

func (h *BlockHeader) writeTo(w *bytes.Buffer) {
	writeElement(w, h.Version)
	WriteHash(w, h.PrevBlock)
	WriteHash(w, h.MerkleRoot)
	writeElement(w, uint32(timeUnix(h.Timestamp)))
	w.Write(h.Bits[:])
	w.Write(h.Nonce[:])
}

// Hash is the double sha256 of the 80 header bytes, in display order
func (h *BlockHeader) Hash() Hash {
	return HashFromDigest(DoubleSHA256(h.Marshal()))
}

func (h *BlockHeader) String() string {
	return fmt.Sprintf("block %s version %d prev %s merkle %s time %d bits %08x nonce %d",
		h.Hash(), h.Version, h.PrevBlock, h.MerkleRoot, timeUnix(h.Timestamp), h.BitsUint32(), h.NonceUint32())
}
