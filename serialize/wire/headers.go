package wire

import (
	"bytes"
	"fmt"
	"io"
)

// MsgHeaders answers getheaders. Each header is followed by a transaction
// count that must be 0.
type MsgHeaders struct {
	Headers []*BlockHeader
}

func (m *MsgHeaders) AddBlockHeader(h *BlockHeader) error {
	if len(m.Headers)+1 > MaxBlockHeadersPerMsg {
		return fmt.Errorf("too many headers, max %d: %w", MaxBlockHeadersPerMsg, ErrLengthOutOfRange)
	}
	m.Headers = append(m.Headers, h)
	return nil
}

func (m *MsgHeaders) Command() string {
	return CmdHeaders
}

func (m *MsgHeaders) unmarshal(r io.Reader) error {
	count, err := readCount(r, MaxBlockHeadersPerMsg)
	if err != nil {
		return malformed(CmdHeaders, "header count", err)
	}
	m.Headers = nil
	for i := uint64(0); i < count; i++ {
		h := &BlockHeader{}
		if err := h.readFrom(r); err != nil {
			return malformed(CmdHeaders, fmt.Sprintf("header %d", i), err)
		}
		txCount, err := ReadVarInt(r)
		if err != nil {
			return malformed(CmdHeaders, fmt.Sprintf("header %d tx count", i), err)
		}
		if txCount != 0 {
			return malformed(CmdHeaders, fmt.Sprintf("header %d carries %d transactions", i, txCount), nil)
		}
		m.Headers = append(m.Headers, h)
	}
	return nil
}

func (m *MsgHeaders) Marshal() []byte {
	result := bytes.NewBuffer(make([]byte, 0, VarIntSerializeSize(uint64(len(m.Headers)))+len(m.Headers)*(BlockHeaderSize+1)))
	WriteVarInt(result, uint64(len(m.Headers)))
	for _, h := range m.Headers {
		h.writeTo(result)
		result.WriteByte(0)
	}
	return result.Bytes()
}
