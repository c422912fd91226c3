package wire

import (
	"bytes"
	"fmt"
	"io"
)

const (
	// MaxTxInSequenceNum disables lock time for an input
	MaxTxInSequenceNum uint32 = 0xffffffff

	// minTxInSize is a 32 bytes hash, 4 bytes index, 1 byte empty script and 4 bytes sequence
	minTxInSize = HashSize + 4 + 1 + 4
	// minTxOutSize is 8 bytes value and 1 byte empty script
	minTxOutSize = 8 + 1

	maxTxInPerMessage  = MaxPayloadSize / minTxInSize
	maxTxOutPerMessage = MaxPayloadSize / minTxOutSize
)

type TxIn struct {
	PrevTxHash      Hash
	PrevIndex       uint32
	SignatureScript []byte
	Sequence        uint32
}

func NewTxIn(prevTxHash Hash, prevIndex uint32, signatureScript []byte) *TxIn {
	return &TxIn{
		PrevTxHash:      prevTxHash,
		PrevIndex:       prevIndex,
		SignatureScript: signatureScript,
		Sequence:        MaxTxInSequenceNum,
	}
}

func readTxIn(r io.Reader) (*TxIn, error) {
	result := &TxIn{}
	var err error
	if result.PrevTxHash, err = ReadHash(r); err != nil {
		return nil, err
	}
	if err = readElement(r, &result.PrevIndex); err != nil {
		return nil, err
	}
	if result.SignatureScript, err = ReadVarStr(r, MaxPayloadSize); err != nil {
		return nil, err
	}
	if err = readElement(r, &result.Sequence); err != nil {
		return nil, err
	}
	return result, nil
}

func (in *TxIn) writeTo(w *bytes.Buffer) {
	WriteHash(w, in.PrevTxHash)
	writeElement(w, in.PrevIndex)
	WriteVarStr(w, in.SignatureScript)
	writeElement(w, in.Sequence)
}

type TxOut struct {
	// Value is in satoshis
	Value    int64
	PkScript []byte
}

func NewTxOut(value int64, pkScript []byte) *TxOut {
	return &TxOut{Value: value, PkScript: pkScript}
}

func readTxOut(r io.Reader) (*TxOut, error) {
	result := &TxOut{}
	var err error
	if err = readElement(r, &result.Value); err != nil {
		return nil, err
	}
	if result.PkScript, err = ReadVarStr(r, MaxPayloadSize); err != nil {
		return nil, err
	}
	return result, nil
}

func (out *TxOut) writeTo(w *bytes.Buffer) {
	writeElement(w, out.Value)
	WriteVarStr(w, out.PkScript)
}

// MsgTx is a transaction in legacy serialization.
// TestNet is not on the wire, it records the network the transaction came from.
type MsgTx struct {
	Version  int32
	TxIn     []*TxIn
	TxOut    []*TxOut
	LockTime uint32
	TestNet  bool
}

func NewMsgTx(version int32) *MsgTx {
	return &MsgTx{Version: version}
}

func (tx *MsgTx) AddTxIn(in *TxIn) {
	tx.TxIn = append(tx.TxIn, in)
}

func (tx *MsgTx) AddTxOut(out *TxOut) {
	tx.TxOut = append(tx.TxOut, out)
}

// IsCoinBase reports whether tx spends nothing, the first transaction of a block
func (tx *MsgTx) IsCoinBase() bool {
	if len(tx.TxIn) != 1 {
		return false
	}
	in := tx.TxIn[0]
	return in.PrevIndex == 0xffffffff && in.PrevTxHash.IsZero()
}

// TxHash is the double sha256 of the serialized transaction, in display order
func (tx *MsgTx) TxHash() Hash {
	return HashFromDigest(DoubleSHA256(tx.Marshal()))
}

// UnmarshalTx reads one transaction, leaving whatever follows in data
func UnmarshalTx(data io.Reader) (*MsgTx, error) {
	result := &MsgTx{}
	if err := result.unmarshal(data); err != nil {
		return nil, payloadError(CmdTx, err)
	}
	return result, nil
}

func (tx *MsgTx) Command() string {
	return CmdTx
}

func (tx *MsgTx) unmarshal(r io.Reader) error {
	if err := readElement(r, &tx.Version); err != nil {
		return err
	}

	inCount, err := readCount(r, maxTxInPerMessage)
	if err != nil {
		return malformed(CmdTx, "input count", err)
	}

	tx.TxIn = nil
	for i := uint64(0); i < inCount; i++ {
		in, err := readTxIn(r)
		if err != nil {
			return malformed(CmdTx, fmt.Sprintf("input %d", i), err)
		}
		tx.TxIn = append(tx.TxIn, in)
	}

	outCount, err := ReadVarInt(r)
	if err != nil {
		return err
	}
	if outCount > maxTxOutPerMessage {
		return malformed(CmdTx, fmt.Sprintf("output count %d", outCount), ErrLengthOutOfRange)
	}

	tx.TxOut = nil
	for i := uint64(0); i < outCount; i++ {
		out, err := readTxOut(r)
		if err != nil {
			return malformed(CmdTx, fmt.Sprintf("output %d", i), err)
		}
		tx.TxOut = append(tx.TxOut, out)
	}

	return readElement(r, &tx.LockTime)
}

func (tx *MsgTx) Marshal() []byte {
	result := new(bytes.Buffer)
	tx.writeTo(result)
	return result.Bytes()
}

func (tx *MsgTx) writeTo(w *bytes.Buffer) {
	writeElement(w, tx.Version)
	WriteVarInt(w, uint64(len(tx.TxIn)))
	for _, in := range tx.TxIn {
		in.writeTo(w)
	}
	WriteVarInt(w, uint64(len(tx.TxOut)))
	for _, out := range tx.TxOut {
		out.writeTo(w)
	}
	writeElement(w, tx.LockTime)
}

func (tx *MsgTx) String() string {
	return fmt.Sprintf("tx %s version %d inputs %d outputs %d locktime %d",
		tx.TxHash(), tx.Version, len(tx.TxIn), len(tx.TxOut), tx.LockTime)
}
