package wire

import (
	"bytes"
	"io"
)

type MsgPing struct {
	Nonce uint64
}

func NewMsgPing(nonce uint64) *MsgPing {
	return &MsgPing{Nonce: nonce}
}

func (m *MsgPing) Command() string {
	return CmdPing
}

func (m *MsgPing) unmarshal(r io.Reader) error {
	return readElement(r, &m.Nonce)
}

func (m *MsgPing) Marshal() []byte {
	result := new(bytes.Buffer)
	writeElement(result, m.Nonce)
	return result.Bytes()
}

// MsgPong echoes the nonce of a ping
type MsgPong struct {
	Nonce uint64
}

func NewMsgPong(nonce uint64) *MsgPong {
	return &MsgPong{Nonce: nonce}
}

func (m *MsgPong) Command() string {
	return CmdPong
}

func (m *MsgPong) unmarshal(r io.Reader) error {
	return readElement(r, &m.Nonce)
}

func (m *MsgPong) Marshal() []byte {
	result := new(bytes.Buffer)
	writeElement(result, m.Nonce)
	return result.Bytes()
}
