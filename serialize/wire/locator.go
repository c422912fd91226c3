package wire

import (
	"bytes"
	"fmt"
	"io"

	"github.com/996BC/btcwire/params"
)

// BlockLocator lists known block hashes, newest first, so a peer can find
// the last common block
type BlockLocator struct {
	ProtocolVersion uint32
	Hashes          []Hash
}

func NewBlockLocator(hashes ...Hash) *BlockLocator {
	result := &BlockLocator{ProtocolVersion: params.ProtocolVersion}
	if len(hashes) > 0 {
		result.Hashes = append(result.Hashes, hashes...)
	}
	return result
}

func (l *BlockLocator) AddHash(h Hash) error {
	if len(l.Hashes)+1 > MaxBlockLocatorHashes {
		return fmt.Errorf("too many locator hashes, max %d: %w", MaxBlockLocatorHashes, ErrLengthOutOfRange)
	}
	l.Hashes = append(l.Hashes, h)
	return nil
}

func (l *BlockLocator) readFrom(r io.Reader, command string) error {
	if err := readElement(r, &l.ProtocolVersion); err != nil {
		return err
	}
	count, err := readCount(r, MaxBlockLocatorHashes)
	if err != nil {
		return malformed(command, "locator count", err)
	}
	l.Hashes = nil
	for i := uint64(0); i < count; i++ {
		h, err := ReadHash(r)
		if err != nil {
			return malformed(command, fmt.Sprintf("locator hash %d", i), err)
		}
		l.Hashes = append(l.Hashes, h)
	}
	return nil
}

func (l *BlockLocator) writeTo(w *bytes.Buffer) {
	writeElement(w, l.ProtocolVersion)
	WriteVarInt(w, uint64(len(l.Hashes)))
	for _, h := range l.Hashes {
		WriteHash(w, h)
	}
}

// MsgGetBlocks asks for an inv of the blocks after the locator, up to HashStop.
// A zero HashStop means as many as the peer sends.
type MsgGetBlocks struct {
	BlockLocator
	HashStop Hash
}

func NewMsgGetBlocks(hashStop Hash, hashes ...Hash) *MsgGetBlocks {
	return &MsgGetBlocks{BlockLocator: *NewBlockLocator(hashes...), HashStop: hashStop}
}

func (m *MsgGetBlocks) Command() string {
	return CmdGetBlocks
}

func (m *MsgGetBlocks) unmarshal(r io.Reader) (err error) {
	if err = m.BlockLocator.readFrom(r, CmdGetBlocks); err != nil {
		return
	}
	m.HashStop, err = ReadHash(r)
	return
}

func (m *MsgGetBlocks) Marshal() []byte {
	result := new(bytes.Buffer)
	m.BlockLocator.writeTo(result)
	WriteHash(result, m.HashStop)
	return result.Bytes()
}

// MsgGetHeaders is MsgGetBlocks answered with headers instead of an inv
type MsgGetHeaders struct {
	BlockLocator
	HashStop Hash
}

func NewMsgGetHeaders(hashStop Hash, hashes ...Hash) *MsgGetHeaders {
	return &MsgGetHeaders{BlockLocator: *NewBlockLocator(hashes...), HashStop: hashStop}
}

func (m *MsgGetHeaders) Command() string {
	return CmdGetHeaders
}

func (m *MsgGetHeaders) unmarshal(r io.Reader) (err error) {
	if err = m.BlockLocator.readFrom(r, CmdGetHeaders); err != nil {
		return
	}
	m.HashStop, err = ReadHash(r)
	return
}

func (m *MsgGetHeaders) Marshal() []byte {
	result := new(bytes.Buffer)
	m.BlockLocator.writeTo(result)
	WriteHash(result, m.HashStop)
	return result.Bytes()
}
