package store

import (
	"encoding/binary"

	"github.com/996BC/btcwire/serialize/wire"
)

var (
	txPrefix   = []byte("t") // txPrefix + hash -> network flag + raw tx
	addrPrefix = []byte("a") // addrPrefix + ip + port -> address with timestamp
)

// network flag of a stored transaction
const (
	flagMainNet byte = 0
	flagTestNet byte = 1
)

// t..
func getTxKey(h wire.Hash) []byte {
	return append(append([]byte{}, txPrefix...), h[:]...)
}

// a..
func getAddrKey(addr *wire.NetworkAddress) []byte {
	result := make([]byte, 0, len(addrPrefix)+16+2)
	result = append(result, addrPrefix...)

	ip := make([]byte, 16)
	copy(ip, addr.IP.To16())
	result = append(result, ip...)

	var port [2]byte
	binary.BigEndian.PutUint16(port[:], addr.Port)
	return append(result, port[:]...)
}

func hashFromTxKey(key []byte) wire.Hash {
	var result wire.Hash
	copy(result[:], key[len(txPrefix):])
	return result
}
