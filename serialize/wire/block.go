package wire

import (
	"bytes"
	"fmt"
	"io"
)

// maxTxPerBlock bounds the transaction count by the smallest possible transaction
const maxTxPerBlock = MaxPayloadSize / (4 + 1 + 1 + 4)

// MsgBlock is a header and its transactions. The transaction count on the wire
// is always len(Transactions), Header.TxCount is not used.
type MsgBlock struct {
	Header       BlockHeader
	Transactions []*MsgTx
}

func NewMsgBlock(header *BlockHeader) *MsgBlock {
	return &MsgBlock{Header: *header}
}

func (b *MsgBlock) AddTransaction(tx *MsgTx) {
	b.Transactions = append(b.Transactions, tx)
}

func (b *MsgBlock) BlockHash() Hash {
	return b.Header.Hash()
}

func (b *MsgBlock) TxHashes() []Hash {
	result := make([]Hash, 0, len(b.Transactions))
	for _, tx := range b.Transactions {
		result = append(result, tx.TxHash())
	}
	return result
}

func UnmarshalBlock(data io.Reader) (*MsgBlock, error) {
	result := &MsgBlock{}
	if err := result.unmarshal(data); err != nil {
		return nil, payloadError(CmdBlock, err)
	}
	return result, nil
}

func (b *MsgBlock) Command() string {
	return CmdBlock
}

func (b *MsgBlock) unmarshal(r io.Reader) error {
	if err := b.Header.readFrom(r); err != nil {
		return malformed(CmdBlock, "header", err)
	}

	count, err := readCount(r, maxTxPerBlock)
	if err != nil {
		return malformed(CmdBlock, "transaction count", err)
	}
	b.Transactions = nil
	for i := uint64(0); i < count; i++ {
		tx := &MsgTx{}
		if err := tx.unmarshal(r); err != nil {
			return malformed(CmdBlock, fmt.Sprintf("transaction %d", i), err)
		}
		b.Transactions = append(b.Transactions, tx)
	}
	return nil
}

func (b *MsgBlock) Marshal() []byte {
	result := new(bytes.Buffer)
	b.Header.writeTo(result)
	WriteVarInt(result, uint64(len(b.Transactions)))
	for _, tx := range b.Transactions {
		tx.writeTo(result)
	}
	return result.Bytes()
}

func (b *MsgBlock) String() string {
	return fmt.Sprintf("%s txs %d", b.Header.String(), len(b.Transactions))
}
