package wire

import (
	"bytes"
	"fmt"
	"io"
)

// MsgAddr relays known peer addresses, each with a last seen timestamp
type MsgAddr struct {
	AddrList []*NetworkAddress
}

func (m *MsgAddr) AddAddress(addr *NetworkAddress) error {
	if len(m.AddrList)+1 > MaxAddrPerMsg {
		return fmt.Errorf("too many addresses, max %d: %w", MaxAddrPerMsg, ErrLengthOutOfRange)
	}
	m.AddrList = append(m.AddrList, addr)
	return nil
}

func (m *MsgAddr) Command() string {
	return CmdAddr
}

func (m *MsgAddr) unmarshal(r io.Reader) error {
	count, err := readCount(r, MaxAddrPerMsg)
	if err != nil {
		return malformed(CmdAddr, "address count", err)
	}
	m.AddrList = nil
	for i := uint64(0); i < count; i++ {
		addr, err := UnmarshalNetworkAddress(r, AddrWithTimestamp)
		if err != nil {
			return malformed(CmdAddr, fmt.Sprintf("address %d", i), err)
		}
		m.AddrList = append(m.AddrList, addr)
	}
	return nil
}

func (m *MsgAddr) Marshal() []byte {
	result := new(bytes.Buffer)
	WriteVarInt(result, uint64(len(m.AddrList)))
	for _, addr := range m.AddrList {
		addr.writeTo(result, AddrWithTimestamp)
	}
	return result.Bytes()
}
