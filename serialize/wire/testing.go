package wire

// testing.go contains some test helpers, shared with the packages built on wire

import (
	"math/rand"
	"net"
	"time"

	"github.com/996BC/btcwire/params"
)

func init() {
	rand.Seed(time.Now().UnixNano())
}

func RandHash() Hash {
	var result Hash
	rand.Read(result[:])
	return result
}

func randBytes(max int) []byte {
	n := rand.Intn(max + 1)
	if n == 0 {
		return nil
	}
	result := make([]byte, n)
	rand.Read(result)
	return result
}

func NewTestNetworkAddress(mode AddrMode) *NetworkAddress {
	ip := net.IPv4(10, byte(rand.Intn(256)), byte(rand.Intn(256)), byte(1+rand.Intn(254)))
	result := NewNetworkAddress(ip, uint16(1024+rand.Intn(60000)), params.NodeNetwork)
	if mode == AddrWithTimestamp {
		result.Timestamp = time.Unix(int64(1500000000+rand.Intn(100000000)), 0)
	}
	return result
}

func NewTestVersion() *MsgVersion {
	return NewMsgVersion(NewTestNetworkAddress(AddrNoTimestamp), NewTestNetworkAddress(AddrNoTimestamp),
		RandomNonce(), int32(rand.Intn(700000)))
}

// NewTestTx returns a transaction with random scripts. The scripts are never
// empty so the result survives a decode unchanged.
func NewTestTx(inputs, outputs int) *MsgTx {
	tx := NewMsgTx(1)
	for i := 0; i < inputs; i++ {
		tx.AddTxIn(NewTxIn(RandHash(), rand.Uint32(), append([]byte{0x51}, randBytes(100)...)))
	}
	for i := 0; i < outputs; i++ {
		tx.AddTxOut(NewTxOut(rand.Int63n(21e14), append([]byte{0x76}, randBytes(40)...)))
	}
	tx.LockTime = rand.Uint32()
	return tx
}

func NewTestBlockHeader() *BlockHeader {
	return NewBlockHeader(int32(1+rand.Intn(4)), RandHash(), RandHash(), 0x1d00ffff, rand.Uint32())
}

func NewTestBlock(txs int) *MsgBlock {
	result := NewMsgBlock(NewTestBlockHeader())
	for i := 0; i < txs; i++ {
		result.AddTransaction(NewTestTx(1+rand.Intn(3), 1+rand.Intn(3)))
	}
	return result
}
