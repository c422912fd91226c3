package wire

import (
	"bytes"
	"fmt"
	"io"
)

type InvType uint32

const (
	InvTypeError         InvType = 0
	InvTypeTx            InvType = 1
	InvTypeBlock         InvType = 2
	InvTypeFilteredBlock InvType = 3
	InvTypeCmpctBlock    InvType = 4
)

var invTypeNames = map[InvType]string{
	InvTypeError:         "ERROR",
	InvTypeTx:            "MSG_TX",
	InvTypeBlock:         "MSG_BLOCK",
	InvTypeFilteredBlock: "MSG_FILTERED_BLOCK",
	InvTypeCmpctBlock:    "MSG_CMPCT_BLOCK",
}

// IsKnown reports whether t is one of the named inventory types.
// Unknown types still decode, peers may announce newer ones.
func (t InvType) IsKnown() bool {
	_, ok := invTypeNames[t]
	return ok
}

func (t InvType) String() string {
	if name, ok := invTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Unknown InvType (%d)", uint32(t))
}

// invVectSize is 4 bytes type and a 32 bytes hash
const invVectSize = 4 + HashSize

type InvVect struct {
	Type InvType
	Hash Hash
}

func NewInvVect(typ InvType, hash Hash) *InvVect {
	return &InvVect{Type: typ, Hash: hash}
}

func (iv *InvVect) String() string {
	return fmt.Sprintf("%s %s", iv.Type, iv.Hash)
}

func readInvVect(r io.Reader) (*InvVect, error) {
	result := &InvVect{}
	if err := readElement(r, &result.Type); err != nil {
		return nil, err
	}
	hash, err := ReadHash(r)
	if err != nil {
		return nil, err
	}
	result.Hash = hash
	return result, nil
}

func (iv *InvVect) writeTo(w *bytes.Buffer) {
	writeElement(w, iv.Type)
	WriteHash(w, iv.Hash)
}

func readInvList(r io.Reader, command string) ([]*InvVect, error) {
	count, err := readCount(r, MaxInvPerMsg)
	if err != nil {
		return nil, malformed(command, "inventory count", err)
	}
	if count == 0 {
		return nil, nil
	}

	result := make([]*InvVect, 0, count)
	for i := uint64(0); i < count; i++ {
		iv, err := readInvVect(r)
		if err != nil {
			return nil, malformed(command, fmt.Sprintf("inventory %d", i), err)
		}
		result = append(result, iv)
	}
	return result, nil
}

func marshalInvList(list []*InvVect) []byte {
	result := bytes.NewBuffer(make([]byte, 0, VarIntSerializeSize(uint64(len(list)))+len(list)*invVectSize))
	WriteVarInt(result, uint64(len(list)))
	for _, iv := range list {
		iv.writeTo(result)
	}
	return result.Bytes()
}

func addInvVect(list []*InvVect, iv *InvVect) ([]*InvVect, error) {
	if len(list)+1 > MaxInvPerMsg {
		return list, fmt.Errorf("too many inventory vectors, max %d: %w", MaxInvPerMsg, ErrLengthOutOfRange)
	}
	return append(list, iv), nil
}

// MsgInv announces objects the sender has
type MsgInv struct {
	InvList []*InvVect
}

func (m *MsgInv) AddInvVect(iv *InvVect) (err error) {
	m.InvList, err = addInvVect(m.InvList, iv)
	return
}

func (m *MsgInv) Command() string {
	return CmdInv
}

func (m *MsgInv) unmarshal(r io.Reader) (err error) {
	m.InvList, err = readInvList(r, CmdInv)
	return
}

func (m *MsgInv) Marshal() []byte {
	return marshalInvList(m.InvList)
}

// MsgGetData requests the objects of an earlier inv
type MsgGetData struct {
	InvList []*InvVect
}

func (m *MsgGetData) AddInvVect(iv *InvVect) (err error) {
	m.InvList, err = addInvVect(m.InvList, iv)
	return
}

func (m *MsgGetData) Command() string {
	return CmdGetData
}

func (m *MsgGetData) unmarshal(r io.Reader) (err error) {
	m.InvList, err = readInvList(r, CmdGetData)
	return
}

func (m *MsgGetData) Marshal() []byte {
	return marshalInvList(m.InvList)
}

// MsgNotFound answers a getdata for objects the peer does not have
type MsgNotFound struct {
	InvList []*InvVect
}

func (m *MsgNotFound) AddInvVect(iv *InvVect) (err error) {
	m.InvList, err = addInvVect(m.InvList, iv)
	return
}

func (m *MsgNotFound) Command() string {
	return CmdNotFound
}

func (m *MsgNotFound) unmarshal(r io.Reader) (err error) {
	m.InvList, err = readInvList(r, CmdNotFound)
	return
}

func (m *MsgNotFound) Marshal() []byte {
	return marshalInvList(m.InvList)
}
