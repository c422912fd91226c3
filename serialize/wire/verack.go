package wire

import (
	"io"
)

// MsgVerAck acknowledges a version message. Its payload is empty.
type MsgVerAck struct{}

func (m *MsgVerAck) Command() string {
	return CmdVerAck
}

func (m *MsgVerAck) unmarshal(r io.Reader) error {
	return readEmpty(r, CmdVerAck)
}

func (m *MsgVerAck) Marshal() []byte {
	return []byte{}
}

// MsgGetAddr asks a peer for known addresses. Its payload is empty.
type MsgGetAddr struct{}

func (m *MsgGetAddr) Command() string {
	return CmdGetAddr
}

func (m *MsgGetAddr) unmarshal(r io.Reader) error {
	return readEmpty(r, CmdGetAddr)
}

func (m *MsgGetAddr) Marshal() []byte {
	return []byte{}
}

func readEmpty(r io.Reader, command string) error {
	var probe [1]byte
	if n, _ := r.Read(probe[:]); n != 0 {
		return malformed(command, "payload must be empty", nil)
	}
	return nil
}
